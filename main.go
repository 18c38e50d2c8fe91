package main

import (
	"context"
	"log/slog"
	"os"

	chromago "github.com/amikos-tech/chroma-go/pkg/api/v2"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"google.golang.org/genai"

	"github.com/elizabethsiegle/quotes-rag/config"
	"github.com/elizabethsiegle/quotes-rag/controller"
	"github.com/elizabethsiegle/quotes-rag/repository"
	"github.com/elizabethsiegle/quotes-rag/services"
)

func main() {
	if err := godotenv.Load(); err != nil {
		slog.Info("no .env file found, relying on environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: cfg.SlogLevel(),
	}))
	slog.SetDefault(logger)

	// Relational store for quote rows.
	db, err := repository.Open(cfg.DBPath)
	if err != nil {
		logger.Error("failed to open quotes database", "path", cfg.DBPath, "error", err)
		os.Exit(1)
	}
	defer func() {
		if err := db.Close(); err != nil {
			logger.Warn("failed to close database", "error", err)
		}
	}()
	repo := repository.NewQuoteRepository(db, logger.With("component", "repository"))

	// Vector index.
	chromaClient, err := chromago.NewHTTPClient(chromago.WithBaseURL(cfg.ChromaURL))
	if err != nil {
		logger.Error("failed to create chroma client", "error", err)
		os.Exit(1)
	}
	defer func() {
		if err := chromaClient.Close(); err != nil {
			logger.Warn("failed to close chroma client", "error", err)
		}
	}()

	collection, err := chromaClient.GetOrCreateCollection(
		context.Background(),
		cfg.CollectionName,
		chromago.WithCollectionMetadataCreate(
			chromago.NewMetadata(
				chromago.NewStringAttribute("description", "quote embeddings"),
				chromago.NewStringAttribute("created_by", "quotes-rag"),
			),
		),
	)
	if err != nil {
		logger.Error("failed to get or create collection", "name", cfg.CollectionName, "error", err)
		os.Exit(1)
	}
	index := services.NewChromaIndex(collection, logger.With("component", "index"))

	// Embedding and completion capabilities.
	geminiClient, err := genai.NewClient(context.Background(), &genai.ClientConfig{
		APIKey:  cfg.GeminiAPIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		logger.Error("failed to create gemini client", "error", err)
		os.Exit(1)
	}
	embedder := services.NewGeminiEmbedder(geminiClient, cfg.EmbedModel, logger.With("component", "embedder"))
	generator := services.NewGeminiGenerator(geminiClient, cfg.GenerateModel, logger.With("component", "generator"))

	assembler := services.NewContextAssembler(repo, logger.With("component", "assembler"))
	ragService := services.NewRAGService(embedder, index, assembler, generator, repo, logger.With("component", "rag"))
	ragController := controller.NewRAGController(ragService)

	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(controller.RequestID())
	router.Use(controller.RequestLogger(logger.With("component", "http")))
	router.Use(controller.CORS())

	router.GET("/health", ragController.Health)
	router.POST("/quotes", ragController.CreateQuote)
	router.POST("/quotes/:id/reindex", ragController.Reindex)
	router.GET("/", ragController.AskJSON)
	router.GET("/html", ragController.AskHTML)
	router.GET("/populate", ragController.Populate)

	logger.Info("quotes-rag server starting", "port", cfg.Port)
	if err := router.Run(":" + cfg.Port); err != nil {
		logger.Error("server exited", "error", err)
		os.Exit(1)
	}
}
