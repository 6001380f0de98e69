package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"golang-finance-rag/internal/entity"
	"golang-finance-rag/internal/rag/dto"
	"golang-finance-rag/pkg/common"
	"golang-finance-rag/pkg/logger"
	"golang-finance-rag/pkg/utils"

	"github.com/pgvector/pgvector-go"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// articleIndexRepository stores article embeddings in Postgres (pgvector) and
// answers cosine-similarity searches over them.
type articleIndexRepository struct {
	db        *gorm.DB
	embedding EmbeddingRepository
	logger    *logger.Logger
}

// NewArticleIndexRepository creates a new ArticleIndexRepository.
func NewArticleIndexRepository(db *gorm.DB, embedding EmbeddingRepository, log *logger.Logger) ArticleIndexRepository {
	return &articleIndexRepository{
		db:        db,
		embedding: embedding,
		logger:    log,
	}
}

// Add indexes articles that are not stored yet. URLs already present are
// skipped before embedding so repeated ingestion costs nothing. Articles whose
// embedding fails are stored with a zero vector rather than dropped.
func (r *articleIndexRepository) Add(ctx context.Context, articles []entity.Article, tickersPerArticle [][]string) error {
	if len(articles) == 0 {
		return nil
	}

	urls := make([]string, 0, len(articles))
	for _, article := range articles {
		if article.URL != "" {
			urls = append(urls, article.URL)
		}
	}

	var existing []string
	if len(urls) > 0 {
		if err := r.db.WithContext(ctx).Model(&entity.ArticleEmbedding{}).
			Where("url IN ?", urls).Pluck("url", &existing).Error; err != nil {
			return fmt.Errorf("failed to check existing articles: %w", err)
		}
	}
	known := make(map[string]bool, len(existing))
	for _, url := range existing {
		known[url] = true
	}

	var (
		records []entity.ArticleEmbedding
		docs    []string
	)
	for i, article := range articles {
		if article.URL == "" || known[article.URL] {
			continue
		}
		var tickers []string
		if i < len(tickersPerArticle) {
			tickers = tickersPerArticle[i]
		}
		record := entity.ArticleEmbedding{
			URL:         article.URL,
			Title:       article.Title,
			Source:      article.Source,
			Document:    composeDocument(&article),
			Tickers:     tickers,
			PublishedAt: article.PublishedAt,
			Metadata:    articleMetadataJSON(&article, tickers),
		}
		records = append(records, record)
		docs = append(docs, record.Document)
	}
	if len(records) == 0 {
		return nil
	}

	vectors, err := r.embedding.EmbedBatch(ctx, docs)
	if err != nil {
		r.logger.Warn("Failed to embed articles, storing zero vectors", logger.ErrorField(err))
		vectors = nil
	}
	zero := make([]float32, common.EmbeddingDimensions)
	for i := range records {
		if vectors != nil && i < len(vectors) && len(vectors[i]) == common.EmbeddingDimensions {
			records[i].Embedding = pgvector.NewVector(vectors[i])
		} else {
			records[i].Embedding = pgvector.NewVector(zero)
		}
	}

	if err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "url"}}, DoNothing: true}).
		Create(&records).Error; err != nil {
		return fmt.Errorf("failed to store article embeddings: %w", err)
	}

	r.logger.Debug("Indexed articles", logger.IntField("count", len(records)))
	return nil
}

// Search embeds the query and returns the k nearest stored articles by cosine
// similarity, best first.
func (r *articleIndexRepository) Search(ctx context.Context, query string, k int) ([]dto.RankedArticle, error) {
	vectors, err := r.embedding.EmbedBatch(ctx, []string{query})
	if err != nil {
		return nil, fmt.Errorf("failed to embed query: %w", err)
	}
	if len(vectors) == 0 {
		return nil, fmt.Errorf("embedding provider returned no vector for query")
	}

	var rows []struct {
		entity.ArticleEmbedding
		Distance float64
	}
	queryVector := pgvector.NewVector(vectors[0])
	err = r.db.WithContext(ctx).Model(&entity.ArticleEmbedding{}).
		Select("*, embedding <=> ? AS distance", queryVector).
		Order("distance ASC").
		Limit(k).
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to search article index: %w", err)
	}

	results := make([]dto.RankedArticle, 0, len(rows))
	for _, row := range rows {
		metadata := dto.ArticleMetadata{
			Title:   row.Title,
			Source:  row.Source,
			URL:     row.URL,
			Tickers: row.Tickers,
		}
		if row.PublishedAt != nil {
			metadata.PublishedAt = row.PublishedAt.UTC().Format("2006-01-02")
		}
		results = append(results, dto.RankedArticle{
			Content:  row.Document,
			Metadata: metadata,
			Score:    1 - row.Distance,
		})
	}
	return results, nil
}

// Stats returns the number of indexed articles.
func (r *articleIndexRepository) Stats(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&entity.ArticleEmbedding{}).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count indexed articles: %w", err)
	}
	return count, nil
}

func composeDocument(article *entity.Article) string {
	var b strings.Builder
	b.WriteString("Title: ")
	b.WriteString(article.Title)
	if article.Description != "" {
		b.WriteString("\nDescription: ")
		b.WriteString(article.Description)
	}
	if article.Content != "" {
		b.WriteString("\nContent: ")
		b.WriteString(utils.TruncateString(article.Content, 2000))
	}
	return b.String()
}

func articleMetadataJSON(article *entity.Article, tickers []string) datatypes.JSON {
	metadata := map[string]any{
		"source":  article.Source,
		"tickers": tickers,
		"score":   article.RelevanceScore,
	}
	raw, err := json.Marshal(metadata)
	if err != nil {
		return nil
	}
	return datatypes.JSON(raw)
}
