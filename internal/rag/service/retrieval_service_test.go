package service

import (
	"context"
	"errors"
	"sync"
	"testing"

	"golang-finance-rag/internal/entity"
	"golang-finance-rag/internal/rag/config"
	"golang-finance-rag/internal/rag/dto"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeNewsSearcher struct {
	mu       sync.Mutex
	queries  []string
	articles []entity.Article
}

func (f *fakeNewsSearcher) Search(ctx context.Context, query string, daysBack int, tickerHints []string) []entity.Article {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.queries = append(f.queries, query)
	return f.articles
}

func (f *fakeNewsSearcher) seenQueries() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.queries...)
}

type fakeQuoteRepo struct {
	quotes map[string]*entity.StockQuote
	err    error
}

func (f *fakeQuoteRepo) GetQuote(ctx context.Context, ticker string) (*entity.StockQuote, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.quotes[ticker], nil
}

type fakeGraphRepo struct {
	mu              sync.Mutex
	companies       []string
	mentionTickers  [][]string
	contextByTicker map[string]string
}

func (f *fakeGraphRepo) InitConstraints(ctx context.Context) error { return nil }

func (f *fakeGraphRepo) UpsertCompany(ctx context.Context, quote *entity.StockQuote) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.companies = append(f.companies, quote.Ticker)
	return nil
}

func (f *fakeGraphRepo) UpsertArticleMentions(ctx context.Context, article *entity.Article, tickers []string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.mentionTickers = append(f.mentionTickers, tickers)
	return nil
}

func (f *fakeGraphRepo) CompanyContext(ctx context.Context, ticker string) (string, error) {
	if fact, ok := f.contextByTicker[ticker]; ok {
		return fact, nil
	}
	return "", nil
}

type fakeIndexRepo struct {
	mu     sync.Mutex
	added  []entity.Article
	ranked []dto.RankedArticle
	err    error
}

func (f *fakeIndexRepo) Add(ctx context.Context, articles []entity.Article, tickersPerArticle [][]string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.added = append(f.added, articles...)
	return f.err
}

func (f *fakeIndexRepo) Search(ctx context.Context, query string, k int) ([]dto.RankedArticle, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.ranked, nil
}

func (f *fakeIndexRepo) Stats(ctx context.Context) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return int64(len(f.added)), nil
}

type fakeAIRepo struct {
	answer  string
	err     error
	lastReq *dto.AnalysisRequest
}

func (f *fakeAIRepo) GenerateAnalysis(ctx context.Context, req *dto.AnalysisRequest) (string, error) {
	f.lastReq = req
	if f.err != nil {
		return "", f.err
	}
	return f.answer, nil
}

func testRetrievalConfig() *config.Config {
	return &config.Config{
		Retrieval: config.Retrieval{
			SubQueryCap:         6,
			SectorTickerCap:     5,
			DaysBack:            21,
			TopArticles:         5,
			SemanticSearchK:     15,
			MaxConcurrent:       4,
			ExtractionCacheSize: 128,
		},
	}
}

type retrievalFixture struct {
	svc    *RetrievalService
	news   *fakeNewsSearcher
	quotes *fakeQuoteRepo
	graph  *fakeGraphRepo
	index  *fakeIndexRepo
	ai     *fakeAIRepo
}

func newRetrievalFixture(t *testing.T) *retrievalFixture {
	t.Helper()
	news := &fakeNewsSearcher{}
	quotes := &fakeQuoteRepo{quotes: map[string]*entity.StockQuote{}}
	graph := &fakeGraphRepo{contextByTicker: map[string]string{}}
	index := &fakeIndexRepo{}
	ai := &fakeAIRepo{answer: "generated analysis"}

	svc := NewRetrievalService(
		testRetrievalConfig(),
		newTestLogger(t),
		newTestExtractor(t),
		news,
		quotes,
		graph,
		index,
		ai,
	)
	return &retrievalFixture{svc: svc, news: news, quotes: quotes, graph: graph, index: index, ai: ai}
}

func TestAnswer_CompanyQuestion(t *testing.T) {
	f := newRetrievalFixture(t)
	f.quotes.quotes["AAPL"] = &entity.StockQuote{
		Ticker: "AAPL", CompanyName: "Apple Inc.", Sector: "Technology",
		Price: 231.5, ChangePercent: "+1.2%",
	}
	f.news.articles = []entity.Article{{
		Title:   "AAPL gains after product event",
		Content: "Apple shares rose as AAPL unveiled new hardware",
		URL:     "https://example.com/aapl",
	}}
	f.index.ranked = []dto.RankedArticle{{
		Content:  "Apple shares rose as AAPL unveiled new hardware",
		Metadata: dto.ArticleMetadata{Title: "AAPL gains after product event", URL: "https://example.com/aapl"},
		Score:    0.9,
	}}

	result, err := f.svc.Answer(context.Background(), "What is the outlook for Apple?")
	require.NoError(t, err)

	assert.Equal(t, []string{"AAPL"}, result.Tickers)
	require.Len(t, result.SearchQueries, 1)
	assert.Equal(t, "apple AAPL stock analysis earnings", result.SearchQueries[0])

	require.Contains(t, result.StockData, "AAPL")
	assert.Equal(t, 231.5, result.StockData["AAPL"].Price)
	assert.Contains(t, f.graph.companies, "AAPL")

	// Article mentions were re-extracted from the article text itself.
	require.Len(t, f.graph.mentionTickers, 1)
	assert.Contains(t, f.graph.mentionTickers[0], "AAPL")

	require.Len(t, result.RankedArticles, 1)
	assert.Equal(t, "generated analysis", result.Answer)
	assert.Equal(t, result.Question, f.ai.lastReq.Question)
}

func TestAnswer_BroadSectorExpandsCappedTickers(t *testing.T) {
	f := newRetrievalFixture(t)
	f.quotes.quotes["JPM"] = &entity.StockQuote{Ticker: "JPM", CompanyName: "JPMorgan Chase", Price: 210.0}
	f.quotes.quotes["BAC"] = &entity.StockQuote{Ticker: "BAC", CompanyName: "Bank of America", Price: 41.0}

	result, err := f.svc.Answer(context.Background(), "How are banking stocks performing?")
	require.NoError(t, err)

	// Six representative tickers exist for the sector; the cap keeps five.
	assert.Equal(t, []string{"JPM", "BAC", "WFC", "C", "GS"}, result.Tickers)
	assert.NotContains(t, result.Tickers, "MS")

	assert.ElementsMatch(t, []string{
		"Banking sector performance trends analysis",
		"Banking stocks outlook earnings",
	}, result.SearchQueries)

	// Tickers without quote data are simply absent.
	assert.Len(t, result.StockData, 2)
	assert.Contains(t, result.StockData, "JPM")
	assert.Contains(t, result.StockData, "BAC")
	assert.NotContains(t, result.StockData, "WFC")
}

func TestAnswer_NoEntitiesFallsBackToRawQuestion(t *testing.T) {
	f := newRetrievalFixture(t)

	result, err := f.svc.Answer(context.Background(), "Will the weather affect anything?")
	require.NoError(t, err)

	assert.Equal(t, []string{"Will the weather affect anything?"}, result.SearchQueries)
	assert.Empty(t, result.Tickers)
}

func TestAnswer_QuoteFailureDegrades(t *testing.T) {
	f := newRetrievalFixture(t)
	f.quotes.err = errors.New("upstream timeout")

	result, err := f.svc.Answer(context.Background(), "What is the outlook for Apple?")
	require.NoError(t, err)

	assert.Empty(t, result.StockData)
	assert.Equal(t, "generated analysis", result.Answer)
}

func TestAnswer_GenerationFailureReturnsDegradedAnswer(t *testing.T) {
	f := newRetrievalFixture(t)
	f.ai.err = errors.New("model overloaded")

	result, err := f.svc.Answer(context.Background(), "What is the outlook for Apple?")
	require.NoError(t, err)

	assert.Contains(t, result.Answer, "Unable to generate an analysis right now")
	assert.Contains(t, result.Answer, "model overloaded")
}

func TestAnswer_DuplicateArticlesIndexedOnce(t *testing.T) {
	f := newRetrievalFixture(t)
	// Both sector sub-queries return the same article.
	f.news.articles = []entity.Article{{
		Title:   "Banks rally on stock earnings",
		Content: "JPM led bank shares higher after earnings",
		URL:     "https://example.com/banks",
	}}

	_, err := f.svc.Answer(context.Background(), "How are banking stocks performing?")
	require.NoError(t, err)

	assert.Len(t, f.news.seenQueries(), 2)
	require.Len(t, f.index.added, 1)
	assert.Equal(t, "https://example.com/banks", f.index.added[0].URL)
}

func TestAnswer_FilterFallsBackWhenNothingMatches(t *testing.T) {
	f := newRetrievalFixture(t)
	f.index.ranked = []dto.RankedArticle{
		{Content: "Completely unrelated commodity report", Metadata: dto.ArticleMetadata{Title: "Wheat futures"}, Score: 0.5},
		{Content: "Another unrelated piece", Metadata: dto.ArticleMetadata{Title: "Shipping rates"}, Score: 0.4},
	}

	result, err := f.svc.Answer(context.Background(), "What is the outlook for Apple?")
	require.NoError(t, err)

	// No ranked article mentions the entities; the unfiltered ranking stands.
	assert.Len(t, result.RankedArticles, 2)
}

func TestAnswer_GraphContextConcatenated(t *testing.T) {
	f := newRetrievalFixture(t)
	f.quotes.quotes["AAPL"] = &entity.StockQuote{Ticker: "AAPL", CompanyName: "Apple Inc.", Price: 231.5}
	f.graph.contextByTicker["AAPL"] = "Apple Inc. (AAPL) operates in Technology sector, trading at $231.5 (+1.2%)"

	result, err := f.svc.Answer(context.Background(), "What is the outlook for Apple?")
	require.NoError(t, err)

	assert.Equal(t, f.graph.contextByTicker["AAPL"], result.GraphContext)
}

func TestDedupArticles_MaxScoreMerge(t *testing.T) {
	pool := []entity.Article{
		{Title: "First", URL: "https://example.com/a", RelevanceScore: 0.4},
		{Title: "First again", URL: "https://example.com/a", RelevanceScore: 0.7},
		{Title: "Second", URL: "https://example.com/b", RelevanceScore: 0.5},
	}
	tickers := [][]string{{"AAPL"}, {"AAPL"}, {"MSFT"}}

	unique, uniqueTickers := dedupArticles(pool, tickers)

	require.Len(t, unique, 2)
	require.Len(t, uniqueTickers, 2)
	// The duplicate URL keeps the maximum score seen.
	assert.Equal(t, "https://example.com/a", unique[0].URL)
	assert.Equal(t, 0.7, unique[0].RelevanceScore)
	assert.Equal(t, "https://example.com/b", unique[1].URL)
}

func TestDedupArticles_SortKeepsTickersPaired(t *testing.T) {
	// The weaker article comes first so the relevance sort must reorder the
	// pool; each article must keep its own ticker list through that sort.
	pool := []entity.Article{
		{Title: "Apple slips on soft guidance", URL: "https://example.com/aapl", RelevanceScore: 0.2},
		{Title: "Microsoft surges after earnings", URL: "https://example.com/msft", RelevanceScore: 0.9},
	}
	tickers := [][]string{{"AAPL"}, {"MSFT"}}

	unique, uniqueTickers := dedupArticles(pool, tickers)

	require.Len(t, unique, 2)
	require.Len(t, uniqueTickers, 2)
	assert.Equal(t, "https://example.com/msft", unique[0].URL)
	assert.Equal(t, []string{"MSFT"}, uniqueTickers[0])
	assert.Equal(t, "https://example.com/aapl", unique[1].URL)
	assert.Equal(t, []string{"AAPL"}, uniqueTickers[1])
}

func TestDedupArticles_TitleContainmentWithoutURL(t *testing.T) {
	pool := []entity.Article{
		{Title: "Fed raises rates again", URL: "https://example.com/fed", RelevanceScore: 1.0},
		{Title: "fed raises rates", RelevanceScore: 0.8},
		{Title: "Oil hits new high", RelevanceScore: 0.6},
	}
	tickers := [][]string{nil, nil, nil}

	unique, _ := dedupArticles(pool, tickers)

	require.Len(t, unique, 2)
	assert.Equal(t, "Fed raises rates again", unique[0].Title)
	assert.Equal(t, "Oil hits new high", unique[1].Title)
}

func TestDedupArticles_Idempotent(t *testing.T) {
	pool := []entity.Article{
		{Title: "A", URL: "https://example.com/a", RelevanceScore: 0.9},
		{Title: "B", URL: "https://example.com/b", RelevanceScore: 0.3},
		{Title: "A copy", URL: "https://example.com/a", RelevanceScore: 0.1},
	}
	tickers := [][]string{{"AAPL"}, nil, nil}

	once, onceTickers := dedupArticles(pool, tickers)
	twice, twiceTickers := dedupArticles(once, onceTickers)

	assert.Equal(t, once, twice)
	assert.Equal(t, onceTickers, twiceTickers)
}
