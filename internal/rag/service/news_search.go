package service

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"golang-finance-rag/internal/entity"
	"golang-finance-rag/internal/rag/repository"
	"golang-finance-rag/pkg/logger"

	gocache "github.com/patrickmn/go-cache"
	"golang.org/x/time/rate"
)

// minCombinedTextLength is the minimum combined title+description+content
// length for an article to carry enough signal.
const minCombinedTextLength = 100

// newsSearchResultTTL is how long a (query, daysBack) result set is reused
// before the providers are asked again.
const newsSearchResultTTL = 5 * time.Minute

// financialTopicKeywords gate articles into the financial domain at all.
var financialTopicKeywords = []string{"stock", "share", "earnings", "revenue", "market", "investment", "company"}

// financialContextKeywords add a relevance bonus per occurrence class.
var financialContextKeywords = []string{"earnings", "revenue", "guidance", "analyst", "upgrade", "downgrade", "forecast", "profit"}

// NewsSearchService fans a query out to every configured news provider,
// scores and filters the results, and returns the top articles by relevance.
type NewsSearchService struct {
	providers []repository.NewsProvider
	limiters  map[string]*rate.Limiter
	cache     *gocache.Cache
	logger    *logger.Logger
	maxResults int
}

// NewNewsSearchService creates a new NewsSearchService. Each provider gets
// one process-wide limiter admitting a call per second.
func NewNewsSearchService(providers []repository.NewsProvider, log *logger.Logger) *NewsSearchService {
	limiters := make(map[string]*rate.Limiter, len(providers))
	for _, provider := range providers {
		limiters[provider.Name()] = rate.NewLimiter(rate.Every(time.Second), 1)
	}
	return &NewsSearchService{
		providers:  providers,
		limiters:   limiters,
		cache:      gocache.New(newsSearchResultTTL, 10*time.Minute),
		logger:     log,
		maxResults: 20,
	}
}

// Search returns scored, filtered articles for a query across all providers,
// descending by relevance, capped. Provider failures degrade to empty results
// for that provider. tickerHints add a verbatim-mention bonus.
func (s *NewsSearchService) Search(ctx context.Context, query string, daysBack int, tickerHints []string) []entity.Article {
	// Hints affect scores, so they are part of the result identity.
	cacheKey := fmt.Sprintf("%s|%d|%s", query, daysBack, strings.Join(tickerHints, ","))
	if cached, ok := s.cache.Get(cacheKey); ok {
		return cached.([]entity.Article)
	}

	var scored []entity.Article
	for _, provider := range s.providers {
		if limiter := s.limiters[provider.Name()]; limiter != nil {
			if err := limiter.Wait(ctx); err != nil {
				return nil
			}
		}

		articles, err := provider.Search(ctx, query, daysBack)
		if err != nil {
			s.logger.Warn("News provider failed",
				logger.ErrorField(err),
				logger.StringField("provider", provider.Name()),
				logger.StringField("query", query),
			)
			continue
		}

		for _, article := range articles {
			combined := article.CombinedText()
			if len(strings.TrimSpace(combined)) < minCombinedTextLength {
				continue
			}
			folded := strings.ToLower(combined)
			if !containsAny(folded, financialTopicKeywords) {
				continue
			}
			article.RelevanceScore = scoreArticle(&article, query, tickerHints)
			scored = append(scored, article)
		}
	}

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].RelevanceScore > scored[j].RelevanceScore
	})
	if len(scored) > s.maxResults {
		scored = scored[:s.maxResults]
	}

	s.cache.Set(cacheKey, scored, gocache.DefaultExpiration)
	return scored
}

// scoreArticle weighs query keyword placement (title > description >
// content), financial context terms and verbatim ticker mentions.
func scoreArticle(article *entity.Article, query string, tickerHints []string) float64 {
	title := strings.ToLower(article.Title)
	description := strings.ToLower(article.Description)
	content := strings.ToLower(article.Content)

	score := 0.0
	for _, keyword := range strings.Fields(strings.ToLower(query)) {
		if strings.Contains(title, keyword) {
			score += 3
		}
		if strings.Contains(description, keyword) {
			score += 2
		}
		if strings.Contains(content, keyword) {
			score += 1
		}
	}

	combined := title + " " + description + " " + content
	for _, keyword := range financialContextKeywords {
		if strings.Contains(combined, keyword) {
			score += 0.5
		}
	}

	original := article.CombinedText()
	for _, ticker := range tickerHints {
		if strings.Contains(original, ticker) {
			score += 2
			break
		}
	}

	return score
}

func containsAny(text string, keywords []string) bool {
	for _, keyword := range keywords {
		if strings.Contains(text, keyword) {
			return true
		}
	}
	return false
}
