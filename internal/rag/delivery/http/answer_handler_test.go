package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"golang-finance-rag/internal/entity"
	"golang-finance-rag/internal/rag/config"
	"golang-finance-rag/internal/rag/dto"
	"golang-finance-rag/internal/rag/service"
	"golang-finance-rag/pkg/logger"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubSearcher struct{}

func (stubSearcher) Search(ctx context.Context, query string, daysBack int, tickerHints []string) []entity.Article {
	return nil
}

type stubQuotes struct{}

func (stubQuotes) GetQuote(ctx context.Context, ticker string) (*entity.StockQuote, error) {
	return nil, nil
}

type stubGraph struct{}

func (stubGraph) InitConstraints(ctx context.Context) error { return nil }
func (stubGraph) UpsertCompany(ctx context.Context, quote *entity.StockQuote) error {
	return nil
}
func (stubGraph) UpsertArticleMentions(ctx context.Context, article *entity.Article, tickers []string) error {
	return nil
}
func (stubGraph) CompanyContext(ctx context.Context, ticker string) (string, error) {
	return "", nil
}

type stubIndex struct {
	count int64
}

func (stubIndex) Add(ctx context.Context, articles []entity.Article, tickersPerArticle [][]string) error {
	return nil
}
func (stubIndex) Search(ctx context.Context, query string, k int) ([]dto.RankedArticle, error) {
	return nil, nil
}
func (s stubIndex) Stats(ctx context.Context) (int64, error) { return s.count, nil }

type stubAI struct{}

func (stubAI) GenerateAnalysis(ctx context.Context, req *dto.AnalysisRequest) (string, error) {
	return "stub analysis", nil
}

func newTestHandler(t *testing.T) *AnswerHandler {
	t.Helper()
	log, err := logger.New("error", "console")
	require.NoError(t, err)

	extractor, err := service.NewEntityExtractor(64, log)
	require.NoError(t, err)

	cfg := &config.Config{Retrieval: config.Retrieval{
		SubQueryCap: 6, SectorTickerCap: 5, DaysBack: 21,
		TopArticles: 5, SemanticSearchK: 15, MaxConcurrent: 4,
	}}
	retrieval := service.NewRetrievalService(cfg, log, extractor, stubSearcher{}, stubQuotes{}, stubGraph{}, stubIndex{}, stubAI{})
	return NewAnswerHandler(retrieval, stubIndex{count: 42}, log)
}

func performRequest(handler *AnswerHandler, method, target, body string) *httptest.ResponseRecorder {
	e := echo.New()
	handler.RegisterRoutes(e.Group("/api/v1"))

	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestAnswerEndpoint(t *testing.T) {
	handler := newTestHandler(t)

	rec := performRequest(handler, http.MethodPost, "/api/v1/answer", `{"question": "What is the outlook for Apple?"}`)

	require.Equal(t, http.StatusOK, rec.Code)
	var result dto.AnswerResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	assert.Equal(t, "stub analysis", result.Answer)
	assert.Equal(t, "What is the outlook for Apple?", result.Question)
	assert.Contains(t, result.Tickers, "AAPL")
}

func TestAnswerEndpoint_MissingQuestion(t *testing.T) {
	handler := newTestHandler(t)

	rec := performRequest(handler, http.MethodPost, "/api/v1/answer", `{"question": "   "}`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "question is required")
}

func TestIndexStatsEndpoint(t *testing.T) {
	handler := newTestHandler(t)

	rec := performRequest(handler, http.MethodGet, "/api/v1/index/stats", "")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"indexed_articles":42`)
}
