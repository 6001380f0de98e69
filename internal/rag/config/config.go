package config

import (
	"golang-finance-rag/pkg/config"
)

// NewsAPI holds the configuration for the NewsAPI keyword search provider.
type NewsAPI struct {
	BaseURL             string `mapstructure:"base_url"`
	APIKey              string `mapstructure:"api_key"`
	Domains             string `mapstructure:"domains"`
	PageSize            int    `mapstructure:"page_size"`
	MaxRequestPerMinute int    `mapstructure:"max_request_per_minute"`
}

// RSS holds the RSS feed source configuration.
type RSS struct {
	Feeds            []string `mapstructure:"feeds"`
	MaxItemsPerFeed  int      `mapstructure:"max_items_per_feed"`
	FetchFullContent bool     `mapstructure:"fetch_full_content"`
}

// YahooFinance holds the configuration for the Yahoo Finance quote provider.
type YahooFinance struct {
	BaseURL             string `mapstructure:"base_url"`
	MaxRequestPerMinute int    `mapstructure:"max_request_per_minute"`
}

// OpenAI holds the configuration for the OpenAI API.
type OpenAI struct {
	APIKey         string `mapstructure:"api_key"`
	Model          string `mapstructure:"model"`
	EmbeddingModel string `mapstructure:"embedding_model"`
}

// Gemini holds the configuration for the Gemini API.
type Gemini struct {
	APIKey              string `mapstructure:"api_key"`
	BaseURL             string `mapstructure:"base_url"`
	Model               string `mapstructure:"model"`
	MaxRequestPerMinute int    `mapstructure:"max_request_per_minute"`
	MaxTokenPerMinute   int    `mapstructure:"max_token_per_minute"`
}

// AI holds configuration for AI providers.
type AI struct {
	Provider string `mapstructure:"provider"`
}

// Retrieval holds the knobs of the query-to-context pipeline.
type Retrieval struct {
	SubQueryCap         int `mapstructure:"sub_query_cap"`
	SectorTickerCap     int `mapstructure:"sector_ticker_cap"`
	DaysBack            int `mapstructure:"days_back"`
	TopArticles         int `mapstructure:"top_articles"`
	SemanticSearchK     int `mapstructure:"semantic_search_k"`
	MaxConcurrent       int `mapstructure:"max_concurrent"`
	ExtractionCacheSize int `mapstructure:"extraction_cache_size"`
}

// Ingest holds the scheduled RSS ingestion configuration.
type Ingest struct {
	Enabled    bool   `mapstructure:"enabled"`
	Cron       string `mapstructure:"cron"`
	MaxAgeDays int    `mapstructure:"max_age_days"`
}

// Config holds the full configuration for the RAG service.
type Config struct {
	App          config.App      `mapstructure:"app"`
	Logger       config.Logger   `mapstructure:"logger"`
	Database     config.Database `mapstructure:"database"`
	Neo4j        config.Neo4j    `mapstructure:"neo4j"`
	API          config.API      `mapstructure:"api"`
	NewsAPI      NewsAPI         `mapstructure:"news_api"`
	RSS          RSS             `mapstructure:"rss"`
	YahooFinance YahooFinance    `mapstructure:"yahoo_finance"`
	OpenAI       OpenAI          `mapstructure:"openai"`
	Gemini       Gemini          `mapstructure:"gemini"`
	AI           AI              `mapstructure:"ai"`
	Retrieval    Retrieval       `mapstructure:"retrieval"`
	Ingest       Ingest          `mapstructure:"ingest"`
}

// Load loads the RAG service configuration from the given path.
func Load(path string) (*Config, error) {
	var cfg Config
	if err := config.Load(path, &cfg); err != nil {
		return nil, err
	}
	applyDefaults(&cfg)
	return &cfg, nil
}

func applyDefaults(cfg *Config) {
	if cfg.Retrieval.SubQueryCap == 0 {
		cfg.Retrieval.SubQueryCap = 6
	}
	if cfg.Retrieval.SectorTickerCap == 0 {
		cfg.Retrieval.SectorTickerCap = 5
	}
	if cfg.Retrieval.DaysBack == 0 {
		cfg.Retrieval.DaysBack = 21
	}
	if cfg.Retrieval.TopArticles == 0 {
		cfg.Retrieval.TopArticles = 5
	}
	if cfg.Retrieval.SemanticSearchK == 0 {
		cfg.Retrieval.SemanticSearchK = 15
	}
	if cfg.Retrieval.MaxConcurrent == 0 {
		cfg.Retrieval.MaxConcurrent = 4
	}
	if cfg.Retrieval.ExtractionCacheSize == 0 {
		cfg.Retrieval.ExtractionCacheSize = 512
	}
	if cfg.NewsAPI.PageSize == 0 {
		cfg.NewsAPI.PageSize = 20
	}
	if cfg.Ingest.MaxAgeDays == 0 {
		cfg.Ingest.MaxAgeDays = 7
	}
}
