package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	log "github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"formforge/internal/cache"
	"formforge/internal/config"
	"formforge/internal/repository"
	"formforge/internal/service"
	"formforge/internal/storage"
	"formforge/internal/transport/rest"
	"formforge/internal/transport/ws"
)

// @title formforge API
// @version 1.0
// @description Form builder backend: multi-type questionnaires, public links, response collection
// @BasePath /api
func main() {
	ctx := context.Background()

	// Load configuration; a missing .env is fine outside development
	if err := godotenv.Load(); err != nil {
		log.Debug("no .env file found")
	}
	cfg := config.Load()

	// Logging options
	formatter := new(log.TextFormatter)
	formatter.FullTimestamp = true
	log.SetFormatter(formatter)
	logLevel, err := log.ParseLevel(cfg.LogLevel)
	if err != nil {
		logLevel = log.InfoLevel
	}
	log.SetLevel(logLevel)

	// MongoDB connection
	mongoClient, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		log.Fatal("failed to connect to MongoDB: ", err)
	}
	defer mongoClient.Disconnect(ctx)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := mongoClient.Ping(pingCtx, nil); err != nil {
		log.Fatal("failed to ping MongoDB: ", err)
	}
	log.Info("connected to MongoDB")

	db := mongoClient.Database(cfg.MongoDB)
	if err := repository.EnsureUserIndexes(ctx, db); err != nil {
		log.Fatal("failed to ensure user indexes: ", err)
	}

	// Redis connection
	rdb := redis.NewClient(&redis.Options{
		Addr: cfg.RedisAddr,
	})
	defer rdb.Close()

	if _, err := rdb.Ping(ctx).Result(); err != nil {
		log.Fatal("failed to ping Redis: ", err)
	}
	log.Info("connected to Redis")

	// Blob store for image uploads; constructed up front and injected
	var images storage.ImageStore
	if cfg.UploadEnabled() {
		images, err = storage.NewOSSImageStore(cfg.OSS)
		if err != nil {
			log.Fatal("failed to initialize image store: ", err)
		}
		log.Info("image store ready, bucket ", cfg.OSS.Bucket)
	} else {
		log.Warn("OSS not configured, image uploads disabled")
	}

	// Initialize repositories
	userRepo := repository.NewUserRepo(db)
	formRepo := repository.NewFormRepo(db)
	responseRepo := repository.NewResponseRepo(db)

	// Initialize caches
	counts := cache.NewResponseCountCache(rdb)

	// Initialize services
	authSvc := service.NewAuthService(userRepo, []byte(cfg.JWTSecret))
	formSvc := service.NewFormService(formRepo, responseRepo, counts)
	responseSvc := service.NewResponseService(responseRepo, formRepo, counts)

	// Live response feed for owner dashboards
	wsHub := ws.NewHub()
	responseSvc.SetBroadcaster(wsHub)

	router := rest.NewRouter(&rest.Container{
		AuthService:     authSvc,
		FormService:     formSvc,
		ResponseService: responseSvc,
		ImageStore:      images,
		WSHub:           wsHub,
	})

	srv := &http.Server{
		Addr:    ":" + cfg.HTTPPort,
		Handler: router,
	}

	go func() {
		log.Info("server starting on :", cfg.HTTPPort)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("ListenAndServe: ", err)
		}
	}()

	// Wait for interrupt
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatal("server forced to shutdown: ", err)
	}

	log.Info("server exited")
}
