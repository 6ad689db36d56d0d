package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"hukuk-asistani/config"
	"hukuk-asistani/handlers"
	"hukuk-asistani/legal"
	"hukuk-asistani/metrics"
	"hukuk-asistani/render"
	"hukuk-asistani/repository"
	"hukuk-asistani/service"
	"hukuk-asistani/storage"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger, err := cfg.NewLogger()
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(registry)

	// Initialize repositories
	documentRepo, petitionRepo, closeDB, err := initRepositories(ctx, cfg.DatabaseURL, logger)
	if err != nil {
		logger.Fatal("Failed to initialize repositories", zap.Error(err))
	}
	defer closeDB()

	// Initialize storage
	fileStorage, err := storage.NewStorage(ctx, cfg.Storage())
	if err != nil {
		logger.Fatal("Failed to initialize storage", zap.Error(err))
	}
	logger.Info("Storage initialized", zap.String("type", cfg.StorageType))

	// Initialize Gemini client
	gemini, err := service.NewGeminiClient(ctx, cfg.GeminiAPIKey,
		service.WithModelName(cfg.GeminiModel),
		service.WithGeminiLogger(logger))
	if err != nil {
		logger.Fatal("Failed to initialize Gemini", zap.Error(err))
	}
	defer gemini.Close()
	logger.Info("Gemini client initialized", zap.String("model", cfg.GeminiModel))

	// Initialize services
	pipeline := legal.NewPipeline(legal.DefaultLawRegistry())
	chain := service.NewFallbackChain(logger, m,
		service.NewDirectStrategy(gemini, service.ChatOptions),
		service.NewChatStrategy(gemini, service.ChatOptions),
	)
	chatService := service.NewChatService(pipeline, chain,
		service.WithChatLogger(logger),
		service.WithChatMetrics(m),
		service.WithModelTimeout(cfg.ModelTimeout),
	)

	documentService := service.NewDocumentService(documentRepo, fileStorage, gemini,
		service.WithImageRecognizer(gemini),
		service.WithMaxUploadBytes(cfg.MaxUploadBytes),
		service.WithDocumentLogger(logger),
		service.WithDocumentMetrics(m),
	)

	var rendererOpts []render.RendererOption
	if cfg.PetitionFontPath != "" {
		rendererOpts = append(rendererOpts, render.WithFont(cfg.PetitionFontPath))
	}
	petitionService := service.NewPetitionService(
		service.WithPetitionRepository(petitionRepo),
		service.WithPetitionStorage(fileStorage),
		service.WithPetitionModel(gemini),
		service.WithPetitionRenderer(render.NewPetitionRenderer(rendererOpts...)),
		service.WithPetitionLogger(logger),
		service.WithPetitionMetrics(m),
	)

	// Initialize handlers
	gin.SetMode(gin.ReleaseMode)
	router := handlers.NewRouter(handlers.Handlers{
		Chat:      handlers.NewChatHandler(chatService),
		Documents: handlers.NewDocumentHandler(documentService, logger),
		Petitions: handlers.NewPetitionHandler(petitionService, logger),
	}, logger, registry)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("Server starting", zap.String("port", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logger.Info("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Graceful shutdown failed", zap.Error(err))
	}
}

// initRepositories uses Postgres when a connection string is configured and
// falls back to in-memory repositories otherwise.
func initRepositories(ctx context.Context, connString string, logger *zap.Logger) (repository.DocumentRepository, repository.PetitionRepository, func(), error) {
	if connString == "" {
		logger.Warn("DATABASE_URL not set, documents and petitions are kept in memory")
		return repository.NewMemoryDocumentRepository(), repository.NewMemoryPetitionRepository(), func() {}, nil
	}

	pool, err := pgxpool.New(ctx, connString)
	if err != nil {
		return nil, nil, nil, err
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, nil, nil, err
	}

	logger.Info("Postgres connection established")
	return repository.NewPostgresDocumentRepository(pool), repository.NewPostgresPetitionRepository(pool), pool.Close, nil
}
