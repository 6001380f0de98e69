package repository

import (
	"context"

	"golang-finance-rag/internal/entity"
	"golang-finance-rag/internal/rag/dto"
)

// QuoteRepository fetches point-in-time quote data for a ticker. A ticker
// unknown to the provider yields (nil, nil) — absence, not an error.
type QuoteRepository interface {
	GetQuote(ctx context.Context, ticker string) (*entity.StockQuote, error)
}

// NewsProvider returns candidate articles for a query from one source.
type NewsProvider interface {
	Name() string
	Search(ctx context.Context, query string, daysBack int) ([]entity.Article, error)
}

// EmbeddingRepository turns a batch of texts into fixed-dimension vectors,
// order-preserving.
type EmbeddingRepository interface {
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)
}

// AIRepository generates the narrative answer from the assembled context.
type AIRepository interface {
	GenerateAnalysis(ctx context.Context, req *dto.AnalysisRequest) (string, error)
}

// KnowledgeGraphRepository persists companies, quotes and article mentions
// into the graph and answers small contextual lookups. Implementations must
// degrade to no-ops when the graph is unavailable.
type KnowledgeGraphRepository interface {
	InitConstraints(ctx context.Context) error
	UpsertCompany(ctx context.Context, quote *entity.StockQuote) error
	UpsertArticleMentions(ctx context.Context, article *entity.Article, tickers []string) error
	CompanyContext(ctx context.Context, ticker string) (string, error)
}

// ArticleIndexRepository persists article embeddings and supports semantic
// search. Add is idempotent per URL.
type ArticleIndexRepository interface {
	Add(ctx context.Context, articles []entity.Article, tickersPerArticle [][]string) error
	Search(ctx context.Context, query string, k int) ([]dto.RankedArticle, error)
	Stats(ctx context.Context) (int64, error)
}
