package repository

import (
	"context"
	"fmt"

	"golang-finance-rag/internal/entity"
	"golang-finance-rag/pkg/logger"
	"golang-finance-rag/pkg/utils"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
)

// knowledgeGraphRepository persists companies, quotes and article mentions
// into Neo4j. When constructed without a reachable driver it runs in a
// permanent no-op mode: writes succeed silently and reads return empty. The
// pipeline treats graph data as enrichment, never as a dependency.
type knowledgeGraphRepository struct {
	driver neo4j.DriverWithContext
	logger *logger.Logger
}

// NewKnowledgeGraphRepository creates a new KnowledgeGraphRepository. A nil
// driver enables the degraded no-op mode.
func NewKnowledgeGraphRepository(driver neo4j.DriverWithContext, log *logger.Logger) KnowledgeGraphRepository {
	if driver == nil {
		log.Warn("Knowledge graph unavailable, running in no-op mode")
	}
	return &knowledgeGraphRepository{
		driver: driver,
		logger: log,
	}
}

// InitConstraints creates the uniqueness constraints the merge keys rely on.
func (r *knowledgeGraphRepository) InitConstraints(ctx context.Context) error {
	if r.driver == nil {
		return nil
	}

	constraints := []string{
		"CREATE CONSTRAINT company_ticker IF NOT EXISTS FOR (c:Company) REQUIRE c.ticker IS UNIQUE",
		"CREATE CONSTRAINT sector_name IF NOT EXISTS FOR (s:Sector) REQUIRE s.name IS UNIQUE",
		"CREATE CONSTRAINT article_id IF NOT EXISTS FOR (a:NewsArticle) REQUIRE a.id IS UNIQUE",
	}

	for _, constraint := range constraints {
		if _, err := r.run(ctx, constraint, nil); err != nil {
			return fmt.Errorf("failed to create constraint: %w", err)
		}
	}
	return nil
}

// UpsertCompany merges the company, its sector and its latest performance
// snapshot by ticker. Re-writing the same ticker updates scalar fields.
func (r *knowledgeGraphRepository) UpsertCompany(ctx context.Context, quote *entity.StockQuote) error {
	if r.driver == nil || quote == nil {
		return nil
	}

	query := `
		MERGE (c:Company {ticker: $ticker})
		SET c.name = $name, c.sector = $sector, c.industry = $industry, c.marketCap = $marketCap
		MERGE (p:StockData {ticker: $ticker})
		SET p.price = $price, p.change = $change, p.changePercent = $changePercent,
		    p.volume = $volume, p.lastUpdated = $asOf
		MERGE (c)-[:HAS_PERFORMANCE]->(p)`

	params := map[string]any{
		"ticker":        quote.Ticker,
		"name":          quote.CompanyName,
		"sector":        quote.Sector,
		"industry":      quote.Industry,
		"marketCap":     quote.MarketCap,
		"price":         quote.Price,
		"change":        quote.Change,
		"changePercent": quote.ChangePercent,
		"volume":        quote.Volume,
		"asOf":          quote.AsOf,
	}

	if _, err := r.run(ctx, query, params); err != nil {
		r.logger.Warn("Failed to upsert company", logger.ErrorField(err), logger.StringField("ticker", quote.Ticker))
		return fmt.Errorf("failed to upsert company %s: %w", quote.Ticker, err)
	}

	if quote.Sector != "" {
		sectorQuery := `
			MATCH (c:Company {ticker: $ticker})
			MERGE (s:Sector {name: $sector})
			MERGE (c)-[:BELONGS_TO]->(s)`
		if _, err := r.run(ctx, sectorQuery, map[string]any{"ticker": quote.Ticker, "sector": quote.Sector}); err != nil {
			r.logger.Warn("Failed to link company sector", logger.ErrorField(err), logger.StringField("ticker", quote.Ticker))
		}
	}

	return nil
}

// UpsertArticleMentions merges the article node and links it to every
// mentioned company already present in the graph.
func (r *knowledgeGraphRepository) UpsertArticleMentions(ctx context.Context, article *entity.Article, tickers []string) error {
	if r.driver == nil || article == nil {
		return nil
	}

	query := `
		MERGE (a:NewsArticle {id: $id})
		SET a.title = $title, a.content = $content, a.source = $source,
		    a.publishedAt = $publishedAt, a.url = $url`
	params := map[string]any{
		"id":          article.GraphID(),
		"title":       article.Title,
		"content":     utils.TruncateString(article.Content, 500),
		"source":      article.Source,
		"publishedAt": publishedAtString(article),
		"url":         article.URL,
	}
	if _, err := r.run(ctx, query, params); err != nil {
		r.logger.Warn("Failed to upsert article", logger.ErrorField(err), logger.StringField("title", article.Title))
		return fmt.Errorf("failed to upsert article: %w", err)
	}

	for _, ticker := range tickers {
		mentionQuery := `
			MATCH (a:NewsArticle {id: $id})
			MATCH (c:Company {ticker: $ticker})
			MERGE (a)-[:MENTIONS]->(c)`
		if _, err := r.run(ctx, mentionQuery, map[string]any{"id": article.GraphID(), "ticker": ticker}); err != nil {
			r.logger.Warn("Failed to link article mention", logger.ErrorField(err), logger.StringField("ticker", ticker))
		}
	}

	return nil
}

// CompanyContext returns a one-sentence fact about the ticker, or "" when
// the company is unknown or the graph is unavailable.
func (r *knowledgeGraphRepository) CompanyContext(ctx context.Context, ticker string) (string, error) {
	if r.driver == nil {
		return "", nil
	}

	query := `
		MATCH (c:Company {ticker: $ticker})
		OPTIONAL MATCH (c)-[:BELONGS_TO]->(s:Sector)
		OPTIONAL MATCH (c)-[:HAS_PERFORMANCE]->(p:StockData)
		RETURN c.name AS company, s.name AS sector, p.price AS price, p.changePercent AS change`

	records, err := r.run(ctx, query, map[string]any{"ticker": ticker})
	if err != nil {
		r.logger.Warn("Failed to query company context", logger.ErrorField(err), logger.StringField("ticker", ticker))
		return "", nil
	}
	if len(records) == 0 {
		return "", nil
	}

	record := records[0]
	company := stringValue(record, "company")
	if company == "" {
		return "", nil
	}
	sector := stringValue(record, "sector")
	price, _ := record.Get("price")
	change := stringValue(record, "change")

	return fmt.Sprintf("%s (%s) operates in %s sector, trading at $%v (%s)", company, ticker, sector, price, change), nil
}

func (r *knowledgeGraphRepository) run(ctx context.Context, query string, params map[string]any) ([]*neo4j.Record, error) {
	result, err := neo4j.ExecuteQuery(ctx, r.driver, query, params, neo4j.EagerResultTransformer)
	if err != nil {
		return nil, err
	}
	return result.Records, nil
}

func publishedAtString(article *entity.Article) string {
	if article.PublishedAt == nil {
		return ""
	}
	return article.PublishedAt.UTC().Format("2006-01-02T15:04:05Z")
}

func stringValue(record *neo4j.Record, key string) string {
	value, ok := record.Get(key)
	if !ok || value == nil {
		return ""
	}
	s, ok := value.(string)
	if !ok {
		return ""
	}
	return s
}
