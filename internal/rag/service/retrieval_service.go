package service

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"golang-finance-rag/internal/entity"
	"golang-finance-rag/internal/rag/config"
	"golang-finance-rag/internal/rag/dto"
	"golang-finance-rag/internal/rag/repository"
	"golang-finance-rag/pkg/logger"

	"golang.org/x/sync/errgroup"
)

// sectorExpansionThreshold is the minimum confidence of a broad sector query
// before it is expanded into representative tickers.
const sectorExpansionThreshold = 0.5

// NewsSearcher is the slice of NewsSearchService the orchestrator depends on.
type NewsSearcher interface {
	Search(ctx context.Context, query string, daysBack int, tickerHints []string) []entity.Article
}

// RetrievalService answers a financial question: it extracts entities, fans
// out to quote and news providers, feeds the knowledge graph and the vector
// index, and assembles the ranked context handed to the answer generator.
type RetrievalService struct {
	cfg        *config.Config
	logger     *logger.Logger
	extractor  *EntityExtractor
	newsSearch NewsSearcher
	quotes     repository.QuoteRepository
	graph      repository.KnowledgeGraphRepository
	index      repository.ArticleIndexRepository
	ai         repository.AIRepository
}

// NewRetrievalService creates a new RetrievalService.
func NewRetrievalService(
	cfg *config.Config,
	log *logger.Logger,
	extractor *EntityExtractor,
	newsSearch NewsSearcher,
	quotes repository.QuoteRepository,
	graph repository.KnowledgeGraphRepository,
	index repository.ArticleIndexRepository,
	ai repository.AIRepository,
) *RetrievalService {
	return &RetrievalService{
		cfg:        cfg,
		logger:     log,
		extractor:  extractor,
		newsSearch: newsSearch,
		quotes:     quotes,
		graph:      graph,
		index:      index,
		ai:         ai,
	}
}

// Answer runs the full retrieval pipeline for one question. Provider
// failures degrade per call site; Answer itself fails only on a cancelled
// context.
func (s *RetrievalService) Answer(ctx context.Context, question string) (*dto.AnswerResult, error) {
	extraction := s.extractor.Extract(question)

	tickers := s.effectiveTickers(extraction)
	stockData := s.fetchQuotes(ctx, tickers)

	searchQueries := s.buildSearchQueries(question, extraction)
	pool, poolTickers := s.fanOutNews(ctx, searchQueries, tickers)

	uniqueArticles, uniqueTickers := dedupArticles(pool, poolTickers)

	if len(uniqueArticles) > 0 {
		if err := s.index.Add(ctx, uniqueArticles, uniqueTickers); err != nil {
			s.logger.Warn("Failed to index articles", logger.ErrorField(err))
		}
	}

	ranked := s.semanticSearch(ctx, question, extraction)
	ranked = s.filterRelevant(ranked, extraction, tickers)

	graphContext := s.buildGraphContext(ctx, tickers)

	topArticles := ranked
	if len(topArticles) > s.cfg.Retrieval.TopArticles {
		topArticles = topArticles[:s.cfg.Retrieval.TopArticles]
	}

	analysisReq := &dto.AnalysisRequest{
		Question:     question,
		Articles:     topArticles,
		StockData:    stockData,
		GraphContext: graphContext,
		Extraction:   extraction,
	}

	answer, err := s.ai.GenerateAnalysis(ctx, analysisReq)
	if err != nil {
		s.logger.Error("Failed to generate analysis", logger.ErrorField(err))
		answer = fmt.Sprintf("Unable to generate an analysis right now: %v", err)
	}

	return &dto.AnswerResult{
		Question:       question,
		Answer:         answer,
		Tickers:        tickers,
		Sectors:        extraction.Sectors,
		StockData:      stockData,
		RankedArticles: ranked,
		GraphContext:   graphContext,
		Extraction:     extraction,
		SearchQueries:  searchQueries,
		CacheStats:     s.extractor.CacheStats(),
	}, nil
}

// effectiveTickers is the union of explicit ticker mentions and the capped
// representative tickers of confident broad sector queries.
func (s *RetrievalService) effectiveTickers(extraction *dto.ExtractionResult) []string {
	seen := make(map[string]bool)
	var tickers []string
	add := func(ticker string) {
		if !seen[ticker] {
			seen[ticker] = true
			tickers = append(tickers, ticker)
		}
	}

	for _, ticker := range extraction.Tickers {
		add(ticker)
	}

	for _, sectorQuery := range extraction.SectorQueries {
		if sectorQuery.QueryType != dto.QueryTypeBroadSector || sectorQuery.Confidence <= sectorExpansionThreshold {
			continue
		}
		expansion := s.extractor.SectorTickers(sectorQuery.Sector)
		if len(expansion) > s.cfg.Retrieval.SectorTickerCap {
			expansion = expansion[:s.cfg.Retrieval.SectorTickerCap]
		}
		for _, ticker := range expansion {
			add(ticker)
		}
	}

	return tickers
}

// fetchQuotes fans out quote fetches across tickers. A failing or unknown
// ticker is simply absent from the result.
func (s *RetrievalService) fetchQuotes(ctx context.Context, tickers []string) map[string]*entity.StockQuote {
	stockData := make(map[string]*entity.StockQuote)
	var mu sync.Mutex

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.cfg.Retrieval.MaxConcurrent)
	for _, ticker := range tickers {
		g.Go(func() error {
			quote, err := s.quotes.GetQuote(gctx, ticker)
			if err != nil {
				s.logger.Warn("Failed to fetch quote", logger.ErrorField(err), logger.StringField("ticker", ticker))
				return nil
			}
			if quote == nil {
				return nil
			}

			mu.Lock()
			stockData[ticker] = quote
			mu.Unlock()

			if err := s.graph.UpsertCompany(gctx, quote); err != nil {
				s.logger.Warn("Failed to store company in graph", logger.ErrorField(err), logger.StringField("ticker", ticker))
			}
			return nil
		})
	}
	_ = g.Wait()

	return stockData
}

// buildSearchQueries derives the bounded sub-query list from the extraction.
// No entities means the raw question is the sole sub-query.
func (s *RetrievalService) buildSearchQueries(question string, extraction *dto.ExtractionResult) []string {
	var queries []string

	for _, sectorQuery := range extraction.SectorQueries {
		if sectorQuery.Confidence > sectorExpansionThreshold {
			queries = append(queries, fmt.Sprintf("%s sector performance trends analysis", sectorQuery.Sector))
			queries = append(queries, fmt.Sprintf("%s stocks outlook earnings", sectorQuery.Sector))
		}
	}
	for _, company := range extraction.Companies {
		if company.Confidence > 0.7 && company.Name != "" && company.Ticker != "" {
			queries = append(queries, fmt.Sprintf("%s %s stock analysis earnings", company.Name, company.Ticker))
		}
	}
	for _, group := range extraction.StockGroups {
		if group.Confidence > 0.6 {
			queries = append(queries, fmt.Sprintf("%s stocks performance analysis", group.Group))
		}
	}

	if len(queries) == 0 {
		queries = append(queries, question)
	}
	if len(queries) > s.cfg.Retrieval.SubQueryCap {
		queries = queries[:s.cfg.Retrieval.SubQueryCap]
	}
	return queries
}

// fanOutNews runs every sub-query against the news search, re-extracts
// entities per article and records graph mentions. The returned pool may
// contain duplicates across sub-queries.
func (s *RetrievalService) fanOutNews(ctx context.Context, queries []string, tickerHints []string) ([]entity.Article, [][]string) {
	var (
		mu          sync.Mutex
		pool        []entity.Article
		poolTickers [][]string
	)

	var wg sync.WaitGroup
	semaphore := make(chan struct{}, s.cfg.Retrieval.MaxConcurrent)
	for _, query := range queries {
		wg.Add(1)
		go func() {
			defer wg.Done()
			semaphore <- struct{}{}
			defer func() { <-semaphore }()

			articles := s.newsSearch.Search(ctx, query, s.cfg.Retrieval.DaysBack, tickerHints)
			for _, article := range articles {
				articleExtraction := s.extractor.Extract(article.Title + " " + article.Content)

				if err := s.graph.UpsertArticleMentions(ctx, &article, articleExtraction.Tickers); err != nil {
					s.logger.Warn("Failed to store article mentions", logger.ErrorField(err), logger.StringField("title", article.Title))
				}

				mu.Lock()
				pool = append(pool, article)
				poolTickers = append(poolTickers, articleExtraction.Tickers)
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	return pool, poolTickers
}

// dedupArticles collapses the pool by url, keeping the maximum relevance
// score seen per url. Articles without a url are dropped as duplicates when
// their title is contained in (or contains) an already-kept title. Each
// article keeps its own ticker list through the final sort.
func dedupArticles(pool []entity.Article, poolTickers [][]string) ([]entity.Article, [][]string) {
	type pooledArticle struct {
		article entity.Article
		tickers []string
	}

	byURL := make(map[string]int)
	var unique []pooledArticle

	for i, article := range pool {
		var articleTickers []string
		if i < len(poolTickers) {
			articleTickers = poolTickers[i]
		}

		if article.URL != "" {
			if idx, ok := byURL[article.URL]; ok {
				if article.RelevanceScore > unique[idx].article.RelevanceScore {
					unique[idx].article.RelevanceScore = article.RelevanceScore
				}
				continue
			}
			byURL[article.URL] = len(unique)
			unique = append(unique, pooledArticle{article: article, tickers: articleTickers})
			continue
		}

		title := strings.ToLower(article.Title)
		duplicate := false
		for _, kept := range unique {
			keptTitle := strings.ToLower(kept.article.Title)
			if title != "" && (strings.Contains(keptTitle, title) || strings.Contains(title, keptTitle)) {
				duplicate = true
				break
			}
		}
		if !duplicate {
			unique = append(unique, pooledArticle{article: article, tickers: articleTickers})
		}
	}

	sort.SliceStable(unique, func(i, j int) bool {
		return unique[i].article.RelevanceScore > unique[j].article.RelevanceScore
	})

	articles := make([]entity.Article, len(unique))
	tickers := make([][]string, len(unique))
	for i, p := range unique {
		articles[i] = p.article
		tickers[i] = p.tickers
	}
	return articles, tickers
}

// semanticSearch queries the vector index: the raw question for company
// questions, a hand-composed sector summary for broad sector questions.
func (s *RetrievalService) semanticSearch(ctx context.Context, question string, extraction *dto.ExtractionResult) []dto.RankedArticle {
	query := question
	for _, sectorQuery := range extraction.SectorQueries {
		if summary, ok := sectorSummaryQueries[sectorQuery.Sector]; ok {
			query = summary
			break
		}
	}

	ranked, err := s.index.Search(ctx, query, s.cfg.Retrieval.SemanticSearchK)
	if err != nil {
		s.logger.Warn("Semantic search failed", logger.ErrorField(err))
		return nil
	}
	return ranked
}

// filterRelevant applies the company-mode or sector-mode relevance re-filter.
// An empty filtered set falls back to the unfiltered ranking.
func (s *RetrievalService) filterRelevant(ranked []dto.RankedArticle, extraction *dto.ExtractionResult, tickers []string) []dto.RankedArticle {
	if len(ranked) == 0 {
		return ranked
	}

	var filtered []dto.RankedArticle
	if len(extraction.SectorQueries) > 0 {
		keywords := make([]string, 0)
		var strongest []string
		for _, sectorQuery := range extraction.SectorQueries {
			if terms, ok := sectorFilterKeywords[sectorQuery.Sector]; ok {
				keywords = append(keywords, terms...)
				if len(strongest) == 0 && len(terms) >= 3 {
					strongest = terms[:3]
				}
			}
		}
		keywords = append(keywords, tickers...)

		for _, article := range ranked {
			fullText := strings.ToLower(article.Metadata.Title + " " + article.Content)
			matches := 0
			for _, keyword := range keywords {
				if strings.Contains(fullText, strings.ToLower(keyword)) {
					matches++
				}
			}
			if matches >= 2 || containsAny(fullText, lowered(strongest)) {
				filtered = append(filtered, article)
			}
		}
	} else {
		variants := queryVariants(extraction, tickers)
		for _, article := range ranked {
			fullText := strings.ToLower(article.Metadata.Title + " " + article.Content)
			if containsAny(fullText, variants) {
				filtered = append(filtered, article)
			}
		}
	}

	if len(filtered) == 0 {
		return ranked
	}
	return filtered
}

// queryVariants lists the lower-cased name forms an article may use for the
// query's entities.
func queryVariants(extraction *dto.ExtractionResult, tickers []string) []string {
	seen := make(map[string]bool)
	var variants []string
	add := func(v string) {
		v = strings.ToLower(strings.TrimSpace(v))
		if v != "" && !seen[v] {
			seen[v] = true
			variants = append(variants, v)
		}
	}

	for _, company := range extraction.Companies {
		add(company.Name)
		if first, _, found := strings.Cut(company.Name, " "); found {
			add(first)
		}
	}
	for _, ticker := range tickers {
		add(ticker)
	}
	for _, sector := range extraction.Sectors {
		add(sector)
	}
	return variants
}

// buildGraphContext concatenates one graph fact sentence per ticker.
func (s *RetrievalService) buildGraphContext(ctx context.Context, tickers []string) string {
	var b strings.Builder
	for _, ticker := range tickers {
		fact, err := s.graph.CompanyContext(ctx, ticker)
		if err != nil || fact == "" {
			continue
		}
		b.WriteString(fact)
		b.WriteString(" ")
	}
	return strings.TrimSpace(b.String())
}

func lowered(terms []string) []string {
	out := make([]string, len(terms))
	for i, term := range terms {
		out[i] = strings.ToLower(term)
	}
	return out
}
