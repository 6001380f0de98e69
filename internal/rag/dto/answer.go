package dto

import (
	"golang-finance-rag/internal/entity"
)

// ArticleMetadata is the metadata stored alongside an indexed article and
// returned with semantic search hits.
type ArticleMetadata struct {
	Title       string   `json:"title"`
	Source      string   `json:"source"`
	URL         string   `json:"url"`
	Tickers     []string `json:"tickers"`
	PublishedAt string   `json:"published_at"`
}

// RankedArticle is one semantic search hit, ordered by descending score.
type RankedArticle struct {
	Content  string          `json:"content"`
	Metadata ArticleMetadata `json:"metadata"`
	Score    float64         `json:"score"`
}

// AnalysisRequest is the context bundle handed to the answer generator.
type AnalysisRequest struct {
	Question     string                        `json:"question"`
	Articles     []RankedArticle               `json:"articles"`
	StockData    map[string]*entity.StockQuote `json:"stock_data"`
	GraphContext string                        `json:"graph_context"`
	Extraction   *ExtractionResult             `json:"extraction"`
}

// IsSectorAnalysis reports whether the generator should answer in sector
// mode: an explicit sector query, or so many tickers that the question is
// clearly about a basket rather than one company.
func (r *AnalysisRequest) IsSectorAnalysis() bool {
	if r.Extraction != nil && len(r.Extraction.SectorQueries) > 0 {
		return true
	}
	return len(r.StockData) > 3
}

// AnswerResult is the full result bundle of one answered question. The
// intermediate structures are returned for inspection alongside the answer.
type AnswerResult struct {
	Question       string                        `json:"question"`
	Answer         string                        `json:"answer"`
	Tickers        []string                      `json:"tickers"`
	Sectors        []string                      `json:"sectors"`
	StockData      map[string]*entity.StockQuote `json:"stock_data"`
	RankedArticles []RankedArticle               `json:"ranked_articles"`
	GraphContext   string                        `json:"graph_context"`
	Extraction     *ExtractionResult             `json:"extraction"`
	SearchQueries  []string                      `json:"search_queries"`
	CacheStats     CacheStats                    `json:"cache_stats"`
}
