package repository

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang-finance-rag/internal/entity"
	"golang-finance-rag/internal/rag/config"
	"golang-finance-rag/pkg/logger"
	"golang-finance-rag/pkg/utils"

	"github.com/PuerkitoBio/goquery"
	"github.com/mauidude/go-readability"
	"github.com/mmcdole/gofeed"
)

// rssRepository reads configured RSS feeds. Feeds do not filter by query;
// the caller scores and filters the returned entries.
type rssRepository struct {
	client *http.Client
	cfg    *config.Config
	logger *logger.Logger
	parser *gofeed.Parser
}

// NewRSSRepository creates a new NewsProvider backed by the configured feeds.
func NewRSSRepository(cfg *config.Config, log *logger.Logger) NewsProvider {
	return &rssRepository{
		client: &http.Client{
			Timeout: 20 * time.Second,
		},
		cfg:    cfg,
		logger: log,
		parser: gofeed.NewParser(),
	}
}

// Name returns the provider name.
func (r *rssRepository) Name() string {
	return "rss"
}

// Search returns feed entries no older than daysBack across all configured
// feeds. A failing feed is skipped, not fatal.
func (r *rssRepository) Search(ctx context.Context, _ string, daysBack int) ([]entity.Article, error) {
	cutoff := time.Now().AddDate(0, 0, -daysBack)

	var articles []entity.Article
	for _, feedURL := range r.cfg.RSS.Feeds {
		feed, err := r.parser.ParseURLWithContext(feedURL, ctx)
		if err != nil {
			r.logger.Warn("Failed to parse RSS feed", logger.ErrorField(err), logger.StringField("feed", feedURL))
			continue
		}

		count := 0
		for _, item := range feed.Items {
			if r.cfg.RSS.MaxItemsPerFeed > 0 && count >= r.cfg.RSS.MaxItemsPerFeed {
				break
			}
			if item.PublishedParsed != nil && item.PublishedParsed.Before(cutoff) {
				continue
			}

			article := entity.Article{
				Title:       utils.CleanToValidUTF8(item.Title),
				Description: utils.CleanToValidUTF8(item.Description),
				URL:         item.Link,
				PublishedAt: item.PublishedParsed,
				Source:      feedSource(feed, item),
			}

			if r.cfg.RSS.FetchFullContent {
				if content, err := r.FetchContent(ctx, item.Link); err == nil {
					article.Content = content
				} else {
					r.logger.Warn("Failed to fetch article content", logger.ErrorField(err), logger.StringField("url", item.Link))
					article.Content = article.Description
				}
			} else {
				article.Content = article.Description
			}

			articles = append(articles, article)
			count++
		}
	}

	return articles, nil
}

// FetchContent downloads an article page and extracts its readable text.
func (r *rssRepository) FetchContent(ctx context.Context, articleURL string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, "GET", articleURL, nil)
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36")
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-US,en;q=0.5")

	resp, err := r.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to fetch article: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("failed to fetch article, status code: %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response body: %w", err)
	}

	doc, err := readability.NewDocument(string(body))
	if err != nil {
		return "", fmt.Errorf("failed to parse article content: %w", err)
	}

	docHTML, err := goquery.NewDocumentFromReader(bytes.NewReader([]byte(doc.Content())))
	if err != nil {
		return "", fmt.Errorf("failed to parse extracted content: %w", err)
	}

	content := strings.TrimSpace(docHTML.Text())
	content = strings.ReplaceAll(content, "\n", " ")
	content = strings.ReplaceAll(content, "\t", " ")
	content = strings.ReplaceAll(content, "\r", " ")
	return utils.SafeText(content), nil
}

func feedSource(feed *gofeed.Feed, item *gofeed.Item) string {
	if item.Link != "" {
		if parsed, err := url.Parse(item.Link); err == nil && parsed.Hostname() != "" {
			return parsed.Hostname()
		}
	}
	return feed.Title
}
