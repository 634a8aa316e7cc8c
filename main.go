package main

import (
	"clinic-connector/internal/config"
	"clinic-connector/internal/domain/entities"
	Iservices "clinic-connector/internal/domain/interfaces/services"
	"clinic-connector/internal/infra/handlers"
	"clinic-connector/internal/infra/knowledge"
	"clinic-connector/internal/infra/logger"
	"clinic-connector/internal/infra/provider"
	"clinic-connector/internal/infra/repository"
	"clinic-connector/internal/infra/routes"
	"clinic-connector/internal/infra/services"
	"clinic-connector/internal/infra/worker"
	"clinic-connector/internal/middleware"
	client "clinic-connector/internal/pkg"
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	gorillahandlers "github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
)

func main() {
	config.LoadEnv()
	cfg := config.Load()

	ctx := context.Background()
	log := logger.NewLogger(ctx, cfg.LogLevel, cfg.LogJSON)

	messages, err := config.LoadMessages(cfg.MessagesFile)
	if err != nil {
		log.Warn(fmt.Sprintf("Using default reply texts: %v", err))
	}

	var directory Iservices.IDirectoryService = services.UnavailableDirectory{}
	var mongoClient *mongo.Client
	if cfg.MongoURI != "" {
		mongoClient, err = client.MongoClient(ctx, cfg.MongoURI)
		if err != nil {
			log.Error(fmt.Sprintf("Directory unavailable: %v", err))
		} else {
			db := mongoClient.Database(cfg.MongoDatabase)
			directory = services.NewDirectoryService(
				repository.NewMongoRepository[entities.UserRecord](db),
				repository.NewMongoRepository[entities.Booking](db),
				cfg.PhoneCountryCode,
				log,
			)
		}
	} else {
		log.Warn("MONGODB_URI not set; user and booking lookups are disabled")
	}

	var redisClient *redis.Client
	if cfg.RedisURL != "" {
		redisClient, err = client.RedisClient(ctx, cfg.RedisURL)
		if err != nil {
			log.Warn(fmt.Sprintf("Identity cache running without redis: %v", err))
			redisClient = nil
		}
	}

	identityCache, err := services.NewIdentityCache(directory, redisClient, cfg.IdentityCacheTTL, cfg.PhoneCountryCode, log)
	if err != nil {
		log.Fatal(fmt.Sprintf("Failed to create identity cache: %v", err))
	}

	retriever := knowledge.OpenRetriever(log, cfg.KnowledgeIndexPath)

	httpClient := &http.Client{Timeout: 60 * time.Second}
	whatsAppProvider := provider.NewMetaWhatsAppProvider(log, httpClient, cfg.GraphAPIURL, cfg.GraphAPIVersion, cfg.PhoneNumberID, cfg.WhatsAppToken)
	geminiProvider := provider.NewGeminiProvider(log, cfg.GeminiAPIKey, cfg.GeminiBaseURL, cfg.GeminiModel)
	whisperProvider := provider.NewWhisperProvider(log, cfg.TranscribeAPIKey, cfg.TranscribeBaseURL, cfg.TranscribeModel)

	var queryAIService Iservices.IQueryAIService = services.NewQueryAIService(log, geminiProvider, retriever, cfg.KnowledgeTopK, messages.AssistantError)
	var audioService Iservices.IAudioService = services.NewAudioService(log, whatsAppProvider, whisperProvider)
	var queryRouterService Iservices.IQueryRouterService = services.NewQueryRouterService(log, identityCache, directory, queryAIService, audioService, whatsAppProvider, messages)

	pool, err := worker.NewPool(log, cfg.WorkerPoolSize, cfg.WorkerQueueSize)
	if err != nil {
		log.Fatal(fmt.Sprintf("Failed to create worker pool: %v", err))
	}

	router := mux.NewRouter()
	router.Use(middleware.LoggingMiddleware(log))

	transactionHandlers := handlers.NewHttpHandlers(log, cfg.VerifyToken, queryRouterService, pool)
	healthHandler := handlers.NewHealthHandler(directory.Available(), geminiProvider.Available())

	routes := routes.NewRoutes(
		router,
		transactionHandlers,
		healthHandler,
	)

	routes.Init()

	server := &http.Server{
		Addr:              fmt.Sprintf(":%s", cfg.Port),
		Handler:           gorillahandlers.RecoveryHandler(gorillahandlers.RecoveryLogger(log), gorillahandlers.PrintRecoveryStack(true))(router),
		ReadHeaderTimeout: 10 * time.Second,
	}

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	go func() {
		log.Info(fmt.Sprintf("Server is running on port %s", cfg.Port))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error(fmt.Sprintf("Error running HTTP server: %s", err))
			os.Exit(1)
		}
	}()

	<-stop
	log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error(fmt.Sprintf("Server forced to shutdown: %v", err))
	} else {
		log.Info("Server stopped gracefully.")
	}

	if err := pool.Shutdown(20 * time.Second); err != nil {
		log.Error(fmt.Sprintf("Pending messages were not processed: %v", err))
	}

	identityCache.Close()
	if err := retriever.Close(); err != nil {
		log.Warn(fmt.Sprintf("Failed to close knowledge index: %v", err))
	}
	if redisClient != nil {
		redisClient.Close()
	}
	if mongoClient != nil {
		if err := mongoClient.Disconnect(context.Background()); err != nil {
			log.Warn(fmt.Sprintf("Failed to disconnect from MongoDB: %v", err))
		}
	}
}
