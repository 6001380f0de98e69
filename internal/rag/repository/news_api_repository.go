package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"golang-finance-rag/internal/entity"
	"golang-finance-rag/internal/rag/config"
	"golang-finance-rag/pkg/logger"

	"golang-finance-rag/internal/rag/dto"
)

// newsAPIRepository searches articles through the NewsAPI "everything"
// endpoint, restricted to financial news domains.
type newsAPIRepository struct {
	client *http.Client
	cfg    *config.Config
	logger *logger.Logger
}

// NewNewsAPIRepository creates a new NewsProvider backed by NewsAPI.
func NewNewsAPIRepository(cfg *config.Config, log *logger.Logger) NewsProvider {
	return &newsAPIRepository{
		client: &http.Client{
			Timeout: 20 * time.Second,
		},
		cfg:    cfg,
		logger: log,
	}
}

// Name returns the provider name.
func (r *newsAPIRepository) Name() string {
	return "newsapi"
}

// Search fetches candidate articles for a query within the lookback window.
func (r *newsAPIRepository) Search(ctx context.Context, query string, daysBack int) ([]entity.Article, error) {
	fromDate := time.Now().AddDate(0, 0, -daysBack).Format("2006-01-02")

	params := url.Values{}
	params.Set("q", query)
	params.Set("from", fromDate)
	params.Set("apiKey", r.cfg.NewsAPI.APIKey)
	params.Set("language", "en")
	params.Set("sortBy", "relevancy")
	params.Set("pageSize", fmt.Sprintf("%d", r.cfg.NewsAPI.PageSize))
	if r.cfg.NewsAPI.Domains != "" {
		params.Set("domains", r.cfg.NewsAPI.Domains)
	}

	apiURL := fmt.Sprintf("%s/v2/everything?%s", r.cfg.NewsAPI.BaseURL, params.Encode())
	req, err := http.NewRequestWithContext(ctx, "GET", apiURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := r.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch news: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("news request failed with status %d", resp.StatusCode)
	}

	var newsResp dto.NewsAPIResponse
	if err := json.NewDecoder(resp.Body).Decode(&newsResp); err != nil {
		return nil, fmt.Errorf("failed to decode news response: %w", err)
	}
	if newsResp.Status != "ok" {
		return nil, fmt.Errorf("news provider returned status %q: %s", newsResp.Status, newsResp.Message)
	}

	articles := make([]entity.Article, 0, len(newsResp.Articles))
	for _, item := range newsResp.Articles {
		article := entity.Article{
			Title:       item.Title,
			Description: item.Description,
			Content:     item.Content,
			URL:         item.URL,
			Source:      item.Source.Name,
		}
		if publishedAt, err := time.Parse(time.RFC3339, item.PublishedAt); err == nil {
			article.PublishedAt = &publishedAt
		}
		articles = append(articles, article)
	}

	r.logger.Debug("Fetched news articles",
		logger.StringField("query", query),
		logger.IntField("count", len(articles)),
	)

	return articles, nil
}
