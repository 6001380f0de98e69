package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"

	"golang-finance-rag/internal/entity"
	"golang-finance-rag/internal/rag/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSearchService(t *testing.T, providers ...repository.NewsProvider) *NewsSearchService {
	t.Helper()
	return NewNewsSearchService(providers, newTestLogger(t))
}

type fakeProvider struct {
	name     string
	articles []entity.Article
	err      error

	mu    sync.Mutex
	calls int
}

func (p *fakeProvider) Name() string { return p.name }

func (p *fakeProvider) Search(ctx context.Context, query string, daysBack int) ([]entity.Article, error) {
	p.mu.Lock()
	p.calls++
	p.mu.Unlock()
	if p.err != nil {
		return nil, p.err
	}
	return p.articles, nil
}

func (p *fakeProvider) callCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.calls
}

// qualifyingArticle builds an article long enough and financial enough to
// survive the pre-score filters.
func qualifyingArticle(title, url string) entity.Article {
	return entity.Article{
		Title:       title,
		Description: "A look at the latest stock market developments",
		Content:     strings.Repeat("The company reported solid results this quarter. ", 3),
		URL:         url,
		Source:      "test",
	}
}

func TestScoreArticle(t *testing.T) {
	article := entity.Article{
		Title:       "Apple earnings preview",
		Description: "What to expect from Apple",
		Content:     "Analysts expect AAPL profit growth",
	}

	// Title hits for both query keywords (3+3), description hit for one (2),
	// three financial context terms (1.5), one verbatim ticker hint (2).
	score := scoreArticle(&article, "apple earnings", []string{"AAPL"})
	assert.InDelta(t, 11.5, score, 0.001)

	// Without the hint the verbatim bonus disappears.
	score = scoreArticle(&article, "apple earnings", nil)
	assert.InDelta(t, 9.5, score, 0.001)
}

func TestSearch_FiltersShortAndOffTopicArticles(t *testing.T) {
	provider := &fakeProvider{
		name: "fake",
		articles: []entity.Article{
			{Title: "Too short", Content: "stock", URL: "https://example.com/short"},
			{
				Title:   "Long but off topic",
				Content: strings.Repeat("The local gardening club met again on Tuesday afternoon. ", 3),
				URL:     "https://example.com/gardening",
			},
			qualifyingArticle("Markets rally on earnings", "https://example.com/rally"),
		},
	}
	results := newSearchService(t, provider).Search(context.Background(), "earnings", 7, nil)

	require.Len(t, results, 1)
	assert.Equal(t, "Markets rally on earnings", results[0].Title)
}

func TestSearch_CapsResults(t *testing.T) {
	var articles []entity.Article
	for i := 0; i < 25; i++ {
		articles = append(articles, qualifyingArticle(
			fmt.Sprintf("Stock story %d", i),
			fmt.Sprintf("https://example.com/%d", i),
		))
	}
	provider := &fakeProvider{name: "fake", articles: articles}

	results := newSearchService(t, provider).Search(context.Background(), "stocks", 7, nil)

	assert.Len(t, results, 20)
}

func TestSearch_CachesResults(t *testing.T) {
	provider := &fakeProvider{name: "fake", articles: []entity.Article{
		qualifyingArticle("Cached stock story", "https://example.com/cached"),
	}}
	svc := newSearchService(t, provider)

	first := svc.Search(context.Background(), "stocks", 7, nil)
	second := svc.Search(context.Background(), "stocks", 7, nil)

	assert.Equal(t, 1, provider.callCount())
	assert.Equal(t, first, second)

	// A different lookback window is a different cache entry.
	svc.Search(context.Background(), "stocks", 14, nil)
	assert.Equal(t, 2, provider.callCount())
}

func TestSearch_TickerHintsAreCachedSeparately(t *testing.T) {
	provider := &fakeProvider{name: "fake", articles: []entity.Article{
		qualifyingArticle("AAPL stock story", "https://example.com/hinted"),
	}}
	svc := newSearchService(t, provider)

	plain := svc.Search(context.Background(), "stocks", 7, nil)
	hinted := svc.Search(context.Background(), "stocks", 7, []string{"AAPL"})

	// Different hints must not replay each other's cached scores.
	assert.Equal(t, 2, provider.callCount())
	require.Len(t, plain, 1)
	require.Len(t, hinted, 1)
	assert.InDelta(t, plain[0].RelevanceScore+2, hinted[0].RelevanceScore, 0.001)
}

func TestSearch_ProviderFailureDegrades(t *testing.T) {
	failing := &fakeProvider{name: "down", err: errors.New("connection refused")}
	healthy := &fakeProvider{name: "up", articles: []entity.Article{
		qualifyingArticle("Surviving stock story", "https://example.com/up"),
	}}

	results := newSearchService(t, failing, healthy).Search(context.Background(), "stocks", 7, nil)

	require.Len(t, results, 1)
	assert.Equal(t, "Surviving stock story", results[0].Title)
}

func TestSearch_SortsByRelevance(t *testing.T) {
	weak := qualifyingArticle("Quarterly update", "https://example.com/weak")
	strong := qualifyingArticle("Tesla earnings beat forecast", "https://example.com/strong")
	provider := &fakeProvider{name: "fake", articles: []entity.Article{weak, strong}}

	results := newSearchService(t, provider).Search(context.Background(), "tesla earnings", 7, nil)

	require.Len(t, results, 2)
	assert.Equal(t, "Tesla earnings beat forecast", results[0].Title)
	assert.GreaterOrEqual(t, results[0].RelevanceScore, results[1].RelevanceScore)
}
