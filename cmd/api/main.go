// ABOUTME: Main entry point for the article viewer server
// ABOUTME: Serves a server-rendered HTML sample of stored articles

package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"news-harvester-api/api"
	logruslogger "news-harvester-api/infrastructure/logger/logrus"
	"news-harvester-api/infrastructure/storage/mongo"
	"news-harvester-api/pkg/config"
)

func main() {
	cfg, err := config.LoadFromEnv()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	logger := logruslogger.NewLogger(logruslogger.Options{
		Level:    cfg.Log.Level,
		FilePath: cfg.Log.File,
	})
	logger.Info("Starting article viewer", map[string]interface{}{
		"port":       cfg.Server.Port,
		"database":   cfg.Mongo.Database,
		"collection": cfg.Mongo.Collection,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	store, err := mongo.NewStore(ctx, mongo.Config{
		User:       cfg.Mongo.User,
		Password:   cfg.Mongo.Password,
		Host:       cfg.Mongo.Host,
		Port:       cfg.Mongo.Port,
		AuthSource: cfg.Mongo.AuthSource,
		Database:   cfg.Mongo.Database,
		Collection: cfg.Mongo.Collection,
	}, logger)
	cancel()
	if err != nil {
		log.Fatalf("Failed to connect to MongoDB: %v", err)
	}

	router := api.NewRouter(api.Config{
		Logger:     logger,
		Store:      store,
		RateLimit:  100, // per minute
		RateWindow: time.Minute,
	})

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("HTTP server starting", map[string]interface{}{
			"address": srv.Addr,
		})
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("HTTP server error", map[string]interface{}{
				"error": err.Error(),
			})
			log.Fatalf("Server failed to start: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...", nil)

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server forced to shutdown", map[string]interface{}{
			"error": err.Error(),
		})
	}

	closeCtx, closeCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer closeCancel()
	if err := store.Close(closeCtx); err != nil {
		logger.Warn("Failed to close store", map[string]interface{}{
			"error": err.Error(),
		})
	}

	logger.Info("Server stopped", nil)
}
