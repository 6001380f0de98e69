package entity

import (
	"crypto/md5"
	"encoding/hex"
	"time"

	"github.com/lib/pq"
	"github.com/pgvector/pgvector-go"
	"gorm.io/datatypes"
)

// Article is a candidate news article returned by a search provider. The URL
// is its identity; articles without a URL are matched by title containment.
type Article struct {
	Title          string     `json:"title"`
	Description    string     `json:"description"`
	Content        string     `json:"content"`
	URL            string     `json:"url"`
	PublishedAt    *time.Time `json:"published_at,omitempty"`
	Source         string     `json:"source"`
	RelevanceScore float64    `json:"relevance_score"`
}

// GraphID returns the stable node id used for the article in the knowledge
// graph. Hashing the title keeps articles without a URL addressable.
func (a *Article) GraphID() string {
	sum := md5.Sum([]byte(a.Title))
	return "article_" + hex.EncodeToString(sum[:])
}

// CombinedText returns title, description and content joined for keyword
// scoring and entity extraction.
func (a *Article) CombinedText() string {
	return a.Title + " " + a.Description + " " + a.Content
}

// ArticleEmbedding is a stored vector index record for one unique article.
// Rows are append-only; re-adding a known URL is a no-op.
type ArticleEmbedding struct {
	ID          uint            `gorm:"primaryKey" json:"id"`
	URL         string          `gorm:"unique;not null" json:"url"`
	Title       string          `gorm:"not null" json:"title"`
	Source      string          `json:"source"`
	Document    string          `gorm:"type:text" json:"document"`
	Tickers     pq.StringArray  `gorm:"type:text[]" json:"tickers"`
	PublishedAt *time.Time      `json:"published_at,omitempty"`
	Metadata    datatypes.JSON  `json:"metadata"`
	Embedding   pgvector.Vector `gorm:"type:vector(1536)" json:"-"`
	CreatedAt   time.Time       `gorm:"autoCreateTime" json:"created_at"`
}

// TableName specifies the table name for the ArticleEmbedding model.
func (ArticleEmbedding) TableName() string {
	return "article_embeddings"
}
