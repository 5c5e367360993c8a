package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	cloudstorage "cloud.google.com/go/storage"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/glowcart/api/internal/ai"
	"github.com/glowcart/api/internal/handlers"
	"github.com/glowcart/api/internal/media"
	"github.com/glowcart/api/internal/payments"
	"github.com/glowcart/api/internal/platform/auth"
	"github.com/glowcart/api/internal/platform/config"
	"github.com/glowcart/api/internal/platform/observability"
	"github.com/glowcart/api/internal/repositories/postgres"
	"github.com/glowcart/api/internal/services"
)

func main() {
	ctx := context.Background()

	// Local development convenience; missing files are not an error.
	_ = godotenv.Load()

	baseLogger, err := observability.NewLogger()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialise logger: %v\n", err)
		os.Exit(1)
	}
	defer func() {
		_ = baseLogger.Sync()
	}()

	logger := baseLogger.Named("api")
	ctx = observability.WithLogger(ctx, logger)

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("failed to load configuration", zap.Error(err))
	}

	db, err := postgres.Open(cfg.Database.DSN)
	if err != nil {
		logger.Fatal("failed to open database", zap.Error(err))
	}
	sqlDB, err := db.DB()
	if err != nil {
		logger.Fatal("failed to access database pool", zap.Error(err))
	}
	defer func() {
		if err := sqlDB.Close(); err != nil {
			logger.Warn("database close error", zap.Error(err))
		}
	}()

	orderRepo, err := postgres.NewOrderRepository(db)
	if err != nil {
		logger.Fatal("failed to initialise order repository", zap.Error(err))
	}
	transactionRepo, err := postgres.NewPaymentTransactionRepository(db)
	if err != nil {
		logger.Fatal("failed to initialise payment transaction repository", zap.Error(err))
	}
	videoRepo, err := postgres.NewKolVideoRepository(db)
	if err != nil {
		logger.Fatal("failed to initialise video repository", zap.Error(err))
	}
	profileRepo, err := postgres.NewAffiliateProfileRepository(db)
	if err != nil {
		logger.Fatal("failed to initialise affiliate profile repository", zap.Error(err))
	}
	unitOfWork, err := postgres.NewUnitOfWork(db)
	if err != nil {
		logger.Fatal("failed to initialise unit of work", zap.Error(err))
	}

	stripeProvider, err := payments.NewStripeProvider(payments.StripeProviderConfig{
		APIKey: cfg.PSP.StripeAPIKey,
		Clock:  time.Now,
		Logger: observability.ServiceLogger(logger.Named("payments")),
	})
	if err != nil {
		logger.Fatal("failed to initialise stripe payment provider", zap.Error(err))
	}

	storageClient, err := cloudstorage.NewClient(ctx)
	if err != nil {
		logger.Fatal("failed to initialise storage client", zap.Error(err))
	}
	defer func() {
		if err := storageClient.Close(); err != nil {
			logger.Warn("storage close error", zap.Error(err))
		}
	}()

	uploader, err := media.NewGCSUploader(media.GCSUploaderConfig{
		Client: storageClient,
		Bucket: cfg.Media.VideosBucket,
	})
	if err != nil {
		logger.Fatal("failed to initialise media uploader", zap.Error(err))
	}

	geminiClient, err := ai.NewGeminiClient(ai.GeminiClientConfig{
		BaseURL:         cfg.AI.BaseURL,
		APIKey:          cfg.AI.APIKey,
		Model:           cfg.AI.Model,
		Temperature:     cfg.AI.Temperature,
		MaxOutputTokens: cfg.AI.MaxTokens,
		RetryWait:       cfg.AI.RetryWait,
		Logger:          observability.ServiceLogger(logger.Named("ai")),
	})
	if err != nil {
		logger.Fatal("failed to initialise chat completion client", zap.Error(err))
	}

	paymentService, err := services.NewPaymentService(services.PaymentServiceDeps{
		Transactions: transactionRepo,
		Orders:       orderRepo,
		UnitOfWork:   unitOfWork,
		Provider:     stripeProvider,
		Clock:        time.Now,
		Logger:       observability.ServiceLogger(logger.Named("payment")),
		Currency:     cfg.PSP.Currency,
		SuccessURL:   cfg.PSP.SuccessURL,
		CancelURL:    cfg.PSP.CancelURL,
	})
	if err != nil {
		logger.Fatal("failed to initialise payment service", zap.Error(err))
	}

	videoService, err := services.NewVideoService(services.VideoServiceDeps{
		Videos:        videoRepo,
		Profiles:      profileRepo,
		Media:         uploader,
		Clock:         time.Now,
		Logger:        observability.ServiceLogger(logger.Named("video")),
		MaxVideoBytes: cfg.Uploads.MaxVideoSizeBytes,
		Folder:        cfg.Media.VideosFolder,
	})
	if err != nil {
		logger.Fatal("failed to initialise video service", zap.Error(err))
	}

	chatService, err := services.NewChatService(services.ChatServiceDeps{
		Completions: geminiClient,
		Logger:      observability.ServiceLogger(logger.Named("chat")),
	})
	if err != nil {
		logger.Fatal("failed to initialise chat service", zap.Error(err))
	}

	verifier, err := auth.NewJWTVerifier(auth.JWTVerifierConfig{
		SigningKey: cfg.Auth.JWTSigningKey,
		Issuer:     cfg.Auth.Issuer,
		Audience:   cfg.Auth.Audience,
	})
	if err != nil {
		logger.Fatal("failed to initialise token verifier", zap.Error(err))
	}
	authenticator := auth.NewAuthenticator(verifier)

	paymentHandlers := handlers.NewPaymentHandlers(authenticator, paymentService)
	videoHandlers := handlers.NewKolVideoHandlers(authenticator, videoService, cfg.Uploads.MaxVideoSizeBytes)
	chatHandlers := handlers.NewChatHandlers(chatService)

	healthHandlers := handlers.NewHealthHandlers(
		handlers.WithReadinessCheck(func(ctx context.Context) error {
			pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
			defer cancel()
			return sqlDB.PingContext(pingCtx)
		}),
	)

	router := handlers.NewRouter(
		handlers.WithMiddlewares(
			observability.InjectLoggerMiddleware(logger.Named("http")),
			observability.RecoveryMiddleware(logger.Named("http")),
			observability.RequestLoggerMiddleware(),
		),
		handlers.WithHealthHandlers(healthHandlers),
		handlers.WithChatRoutes(chatHandlers.Routes),
		handlers.WithPaymentRoutes(paymentHandlers.Routes),
		handlers.WithVideoRoutes(videoHandlers.Routes),
	)

	server := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, syscall.SIGINT, syscall.SIGTERM)

	serverLogger := logger.Named("http").With(zap.String("addr", server.Addr))
	go func() {
		serverLogger.Info("glowcart api listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverLogger.Fatal("http server error", zap.Error(err))
		}
	}()

	<-shutdown
	logger.Info("shutdown signal received; draining requests")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", zap.Error(err))
	}
}
