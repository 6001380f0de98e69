package service

import (
	"context"
	"fmt"

	"golang-finance-rag/internal/rag/config"
	"golang-finance-rag/internal/rag/repository"
	"golang-finance-rag/pkg/logger"
	"golang-finance-rag/pkg/utils"

	"github.com/robfig/cron/v3"
)

// IngestService periodically pulls the configured RSS feeds and feeds the
// knowledge graph and the article index, so semantic search has material
// before the first question arrives.
type IngestService struct {
	cfg       *config.Config
	logger    *logger.Logger
	rss       repository.NewsProvider
	extractor *EntityExtractor
	graph     repository.KnowledgeGraphRepository
	index     repository.ArticleIndexRepository
	cron      *cron.Cron
}

// NewIngestService creates a new IngestService.
func NewIngestService(
	cfg *config.Config,
	log *logger.Logger,
	rss repository.NewsProvider,
	extractor *EntityExtractor,
	graph repository.KnowledgeGraphRepository,
	index repository.ArticleIndexRepository,
) *IngestService {
	return &IngestService{
		cfg:       cfg,
		logger:    log,
		rss:       rss,
		extractor: extractor,
		graph:     graph,
		index:     index,
		cron:      cron.New(),
	}
}

// Start registers the cron schedule and begins running. It returns an error
// for an unparseable cron expression; a disabled config is a no-op.
func (s *IngestService) Start(ctx context.Context) error {
	if !s.cfg.Ingest.Enabled {
		s.logger.Info("RSS ingestion disabled")
		return nil
	}

	_, err := s.cron.AddFunc(s.cfg.Ingest.Cron, func() {
		utils.GoSafe(func() {
			if err := s.RunOnce(ctx); err != nil {
				s.logger.Error("RSS ingestion run failed", logger.ErrorField(err))
			}
		})
	})
	if err != nil {
		return fmt.Errorf("failed to schedule ingestion: %w", err)
	}

	s.cron.Start()
	s.logger.Info("RSS ingestion scheduled", logger.StringField("cron", s.cfg.Ingest.Cron))
	return nil
}

// Stop halts the cron scheduler and waits for a running job to finish.
func (s *IngestService) Stop() {
	stopCtx := s.cron.Stop()
	<-stopCtx.Done()
}

// RunOnce performs a single ingestion pass over all configured feeds.
func (s *IngestService) RunOnce(ctx context.Context) error {
	articles, err := s.rss.Search(ctx, "", s.cfg.Ingest.MaxAgeDays)
	if err != nil {
		return fmt.Errorf("failed to fetch feeds: %w", err)
	}
	if len(articles) == 0 {
		s.logger.Info("No fresh feed entries to ingest")
		return nil
	}

	tickersPerArticle := make([][]string, len(articles))
	for i := range articles {
		extraction := s.extractor.Extract(articles[i].Title + " " + articles[i].Content)
		tickersPerArticle[i] = extraction.Tickers

		if err := s.graph.UpsertArticleMentions(ctx, &articles[i], extraction.Tickers); err != nil {
			s.logger.Warn("Failed to store feed article mentions", logger.ErrorField(err), logger.StringField("title", articles[i].Title))
		}
	}

	if err := s.index.Add(ctx, articles, tickersPerArticle); err != nil {
		return fmt.Errorf("failed to index feed articles: %w", err)
	}

	total, err := s.index.Stats(ctx)
	if err != nil {
		s.logger.Warn("Failed to read index stats", logger.ErrorField(err))
	}
	s.logger.Info("Ingested feed articles",
		logger.IntField("fetched", len(articles)),
		logger.IntField("indexed_total", int(total)),
	)
	return nil
}
