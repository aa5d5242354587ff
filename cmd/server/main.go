package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"herelaw-backend/auth"
	"herelaw-backend/config"
	"herelaw-backend/handlers"
	"herelaw-backend/llm"
	"herelaw-backend/quality"
	"herelaw-backend/repository"
	"herelaw-backend/service"
	"herelaw-backend/storage"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
)

func main() {
	if err := run(); err != nil {
		slog.Error("server exited", "error", err)
		os.Exit(1)
	}
}

func run() error {
	config.LoadDotEnv()

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	slog.SetDefault(cfg.NewLogger())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Initialize database connections
	db, err := initPostgres(ctx, cfg.DatabaseURL)
	if err != nil {
		return err
	}
	defer db.Close()

	mongoClient, err := repository.ConnectMongo(ctx, cfg.MongoURI)
	if err != nil {
		return err
	}
	defer func() {
		if err := mongoClient.Disconnect(context.Background()); err != nil {
			slog.Warn("mongodb disconnect failed", "error", err)
		}
	}()
	slog.Info("mongodb connection established", "database", cfg.MongoDatabase)

	fileStorage, err := storage.NewStorageFromEnv()
	if err != nil {
		return err
	}
	slog.Info("storage initialized")

	// Initialize repositories
	userRepo := repository.NewUserRepository(db)
	sessionRepo := repository.NewSessionRepository(db)
	fileRepo := repository.NewFileRepository(db)
	chunkRepo := repository.NewReferenceChunkRepository(db, cfg.LLM.EmbeddingDimensions)
	mongoDB := mongoClient.Database(cfg.MongoDatabase)
	feedbackRepo := repository.NewFeedbackRepository(mongoDB)
	if err := feedbackRepo.EnsureIndexes(ctx); err != nil {
		slog.Warn("feedback indexes not ensured", "error", err)
	}
	activityRepo := repository.NewActivityLogRepository(mongoDB)
	if err := activityRepo.EnsureIndexes(ctx); err != nil {
		slog.Warn("activity log indexes not ensured", "error", err)
	}

	llmClient, err := llm.New(ctx, cfg.LLM)
	if err != nil {
		return err
	}
	defer llmClient.Close()
	slog.Info("completion client initialized", "provider", cfg.LLM.Provider, "model", llmClient.Model())

	jwtManager, err := auth.NewJWTManager(cfg.JWTSecret, cfg.JWTExpiration)
	if err != nil {
		return err
	}

	aggregator := quality.NewAggregator(feedbackRepo, quality.WithStoreTimeout(cfg.BestPracticeTimeout))

	// Initialize services
	userService := service.NewUserService(
		service.WithUserStore(userRepo),
		service.WithTokenIssuer(jwtManager),
		service.WithSessionStats(sessionRepo),
		service.WithActivityLog(activityRepo),
	)
	complaintService := service.NewComplaintService(
		service.ComplaintWithSessionStore(sessionRepo),
		service.ComplaintWithFileStore(fileRepo),
		service.ComplaintWithStorage(fileStorage),
		service.ComplaintWithCompleter(llmClient),
		service.ComplaintWithBestPractices(aggregator),
		service.ComplaintWithRetriever(service.NewVectorRetriever(llmClient, chunkRepo)),
		service.ComplaintWithActivityLog(activityRepo),
		service.ComplaintWithLevelRefresher(userService),
		service.ComplaintWithGenerationTimeout(cfg.GenerationTimeout),
	)
	feedbackService := service.NewFeedbackService(
		service.FeedbackWithStore(feedbackRepo),
		service.FeedbackWithSessionStore(sessionRepo),
		service.FeedbackWithBestPractices(aggregator),
		service.FeedbackWithActivityLog(activityRepo),
	)
	sessionService := service.NewSessionService(service.WithSessionStore(sessionRepo))

	consultationOpts := []service.ConsultationServiceOption{
		service.ConsultationWithFileStore(fileRepo),
		service.ConsultationWithStorage(fileStorage),
	}
	if transcriber, ok := llmClient.(llm.Transcriber); ok {
		consultationOpts = append(consultationOpts, service.ConsultationWithTranscriber(transcriber))
	} else {
		slog.Warn("speech-to-text unavailable for provider", "provider", cfg.LLM.Provider)
	}
	consultationService := service.NewConsultationService(consultationOpts...)

	// Setup Gin router
	r := gin.Default()
	handlers.RegisterRoutes(r, handlers.Handlers{
		Auth:         handlers.NewAuthHandler(userService),
		Complaint:    handlers.NewComplaintHandler(complaintService),
		Session:      handlers.NewSessionHandler(sessionService),
		Feedback:     handlers.NewFeedbackHandler(feedbackService),
		Consultation: handlers.NewConsultationHandler(consultationService),
		File:         handlers.NewFileHandler(service.NewFileService(fileRepo, fileStorage)),
		Admin:        handlers.NewAdminHandler(userService),
	}, jwtManager)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("server starting", "port", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	slog.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func initPostgres(ctx context.Context, connString string) (*pgxpool.Pool, error) {
	pool, err := repository.ConnectPostgres(ctx, connString)
	if err != nil {
		return nil, err
	}

	// Enable pgvector extension
	if _, err := pool.Exec(ctx, "CREATE EXTENSION IF NOT EXISTS vector"); err != nil {
		slog.Warn("failed to create pgvector extension", "error", err)
	}

	slog.Info("postgres connection established")
	return pool, nil
}
