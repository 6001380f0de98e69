package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang-finance-rag/internal/rag/config"
	delivery "golang-finance-rag/internal/rag/delivery/http"
	"golang-finance-rag/internal/rag/repository"
	"golang-finance-rag/internal/rag/service"
	"golang-finance-rag/pkg/common"
	"golang-finance-rag/pkg/logger"
	pkgneo4j "golang-finance-rag/pkg/neo4j"
	"golang-finance-rag/pkg/postgres"

	"github.com/labstack/echo/v4"
	"github.com/spf13/cobra"
	"google.golang.org/genai"
)

var configPath string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Starts the financial question answering service",
	Run:   runServe,
}

func runServe(cmd *cobra.Command, args []string) {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Load configuration
	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize logger
	appLogger, err := logger.New(cfg.Logger.Level, cfg.Logger.Encoding)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer func() { _ = appLogger.Sync() }()

	appLogger.Info("Starting RAG Service", logger.StringField("name", cfg.App.Name))

	// Initialize database
	postgresCfg := postgres.Config{
		Host:            cfg.Database.Host,
		Port:            cfg.Database.Port,
		User:            cfg.Database.User,
		Password:        cfg.Database.Password,
		DBName:          cfg.Database.DBName,
		SSLMode:         cfg.Database.SSLMode,
		MaxIdleConns:    cfg.Database.MaxIdleConns,
		MaxOpenConns:    cfg.Database.MaxOpenConns,
		ConnMaxLifetime: cfg.Database.ConnMaxLifetime,
	}
	db, err := postgres.NewDB(postgresCfg)
	if err != nil {
		appLogger.Fatal("Failed to initialize database", logger.ErrorField(err))
	}
	if sqlDB, err := db.DB.DB(); err == nil {
		defer sqlDB.Close()
	}

	// The graph is enrichment only: an unreachable Neo4j degrades the
	// knowledge graph repository to no-op mode instead of aborting startup.
	neo4jDriver, err := pkgneo4j.NewDriver(ctx, cfg.Neo4j)
	if err != nil {
		appLogger.Warn("Failed to connect to Neo4j, continuing without graph", logger.ErrorField(err))
		neo4jDriver = nil
	} else {
		defer neo4jDriver.Close(context.Background())
	}

	// Initialize repositories
	graphRepo := repository.NewKnowledgeGraphRepository(neo4jDriver, appLogger)
	if err := graphRepo.InitConstraints(ctx); err != nil {
		appLogger.Warn("Failed to create graph constraints", logger.ErrorField(err))
	}

	quoteRepo, err := repository.NewYahooFinanceRepository(cfg, appLogger)
	if err != nil {
		appLogger.Fatal("Failed to initialize Yahoo Finance repository", logger.ErrorField(err))
	}

	openAIRepo, err := repository.NewOpenAIRepository(cfg, appLogger)
	if err != nil {
		appLogger.Fatal("Failed to initialize OpenAI repository", logger.ErrorField(err))
	}

	var aiRepo repository.AIRepository
	switch cfg.AI.Provider {
	case common.AIProviderOpenAI:
		aiRepo = openAIRepo
	case common.AIProviderGemini:
		genAiClient, err := genai.NewClient(context.Background(), &genai.ClientConfig{
			APIKey: cfg.Gemini.APIKey,
		})
		if err != nil {
			appLogger.Fatal("Failed to initialize Gemini AI client", logger.ErrorField(err))
		}
		repo, err := repository.NewGeminiAIRepository(cfg, appLogger, genAiClient)
		if err != nil {
			appLogger.Fatal("Failed to initialize Gemini AI repository", logger.ErrorField(err))
		}
		aiRepo = repo
	default:
		appLogger.Fatal("Invalid AI provider specified in config", logger.StringField("provider", cfg.AI.Provider))
	}

	indexRepo := repository.NewArticleIndexRepository(db.DB, openAIRepo, appLogger)
	newsAPIRepo := repository.NewNewsAPIRepository(cfg, appLogger)
	rssRepo := repository.NewRSSRepository(cfg, appLogger)

	// Initialize services
	extractor, err := service.NewEntityExtractor(cfg.Retrieval.ExtractionCacheSize, appLogger)
	if err != nil {
		appLogger.Fatal("Failed to initialize entity extractor", logger.ErrorField(err))
	}
	newsSearch := service.NewNewsSearchService([]repository.NewsProvider{newsAPIRepo, rssRepo}, appLogger)
	retrievalSvc := service.NewRetrievalService(cfg, appLogger, extractor, newsSearch, quoteRepo, graphRepo, indexRepo, aiRepo)
	ingestSvc := service.NewIngestService(cfg, appLogger, rssRepo, extractor, graphRepo, indexRepo)

	if err := ingestSvc.Start(ctx); err != nil {
		appLogger.Fatal("Failed to start RSS ingestion", logger.ErrorField(err))
	}
	defer ingestSvc.Stop()

	// Initialize Echo server
	e := echo.New()
	e.HideBanner = true

	answerHandler := delivery.NewAnswerHandler(retrievalSvc, indexRepo, appLogger)
	apiV1 := e.Group("/api/v1")
	answerHandler.RegisterRoutes(apiV1)

	// Start server
	go func() {
		addr := fmt.Sprintf(":%d", cfg.API.Port)
		appLogger.Info("HTTP server starting", logger.StringField("address", addr))
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			appLogger.Error("HTTP server failed to start", logger.ErrorField(err))
			stop()
		}
	}()

	// Wait for shutdown signal
	<-ctx.Done()

	appLogger.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		appLogger.Fatal("Server forced to shutdown", logger.ErrorField(err))
	}

	appLogger.Info("Server exiting")
}

func main() {
	rootCmd := &cobra.Command{Use: "rag-service"}

	serveCmd.Flags().StringVarP(&configPath, "config", "c", "configs/config-rag.yaml", "Path to the configuration file")

	rootCmd.AddCommand(serveCmd)
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error executing rag-service CLI: %s\n", err)
		os.Exit(1)
	}
}
