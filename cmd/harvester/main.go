// ABOUTME: Main entry point for the news harvester batch run
// ABOUTME: Wires together browser, extractor pipeline, photo processor, and store

package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"
	"time"

	"news-harvester-api/core/discovery"
	"news-harvester-api/core/harvest"
	"news-harvester-api/core/interfaces"
	"news-harvester-api/core/photo"
	"news-harvester-api/core/pipeline"
	"news-harvester-api/infrastructure/browser/chromedp"
	"news-harvester-api/infrastructure/cache/memory"
	"news-harvester-api/infrastructure/cache/redis"
	"news-harvester-api/infrastructure/cache/sqlite"
	stdhttp "news-harvester-api/infrastructure/http/standard"
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
	logger.Info("Starting news harvester", map[string]interface{}{
		"listing_url":  cfg.Harvest.ListingURL,
		"target_count": cfg.Harvest.TargetCount,
		"cache_type":   cfg.Cache.Type,
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cache := buildCache(cfg, logger)

	httpClient := stdhttp.NewStandardHTTPClient(30 * time.Second)

	deps := interfaces.Dependencies{
		Cache:      cache,
		HTTPClient: httpClient,
		Logger:     logger,
	}

	store, err := mongo.NewStore(ctx, mongo.Config{
		User:       cfg.Mongo.User,
		Password:   cfg.Mongo.Password,
		Host:       cfg.Mongo.Host,
		Port:       cfg.Mongo.Port,
		AuthSource: cfg.Mongo.AuthSource,
		Database:   cfg.Mongo.Database,
		Collection: cfg.Mongo.Collection,
	}, logger)
	if err != nil {
		log.Fatalf("Failed to connect to MongoDB: %v", err)
	}
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := store.Close(closeCtx); err != nil {
			logger.Warn("Failed to close store", map[string]interface{}{
				"error": err.Error(),
			})
		}
	}()

	if err := store.Ping(ctx); err != nil {
		log.Fatalf("MongoDB ping failed: %v", err)
	}
	if err := store.EnsureIndexes(ctx); err != nil {
		log.Fatalf("Failed to ensure indexes: %v", err)
	}

	session, err := chromedp.NewSession(chromedp.Config{
		Headless:          cfg.Harvest.Headless,
		NavigationTimeout: time.Duration(cfg.Harvest.NavigationTimeoutMs) * time.Millisecond,
	})
	if err != nil {
		log.Fatalf("Failed to start browser: %v", err)
	}

	harvestCfg := harvest.DefaultConfig()
	harvestCfg.TargetCount = cfg.Harvest.TargetCount
	harvestCfg.MaxClicks = cfg.Harvest.MaxClicks
	harvestCfg.StallLimit = cfg.Harvest.StallLimit

	harvester := harvest.NewHarvester(harvestCfg, logger)
	locations, err := harvester.Harvest(ctx, session, cfg.Harvest.ListingURL)
	if err != nil {
		log.Fatalf("Listing harvest failed: %v", err)
	}

	if cfg.Harvest.FeedURL != "" {
		feed := discovery.NewFeedDiscovery(deps, cfg.Harvest.FeedURL)
		feedLocs, err := feed.Locations(ctx)
		if err != nil {
			logger.Warn("Feed discovery failed", map[string]interface{}{
				"feed_url": cfg.Harvest.FeedURL,
				"error":    err.Error(),
			})
		} else {
			locations = discovery.MergeLocations(locations, feedLocs, cfg.Harvest.TargetCount)
		}
	}

	if len(locations) == 0 {
		logger.Warn("No article locations collected, nothing to do", nil)
		return
	}

	photoProcessor := photo.NewProcessor(deps, photo.Config{
		Quality: cfg.Photo.Quality,
	})

	pipeCfg := pipeline.DefaultConfig()
	pipeCfg.Concurrency = cfg.Harvest.Concurrency
	pipeCfg.RequestDelay = time.Duration(cfg.Harvest.RequestDelayMs) * time.Millisecond

	pipe := pipeline.NewPipeline(pipeCfg, photoProcessor, store, logger)
	result, err := pipe.Run(ctx, locations)
	if err != nil {
		log.Fatalf("Article pipeline failed: %v", err)
	}

	logger.Info("Harvest run finished", map[string]interface{}{
		"attempted": result.Attempted,
		"stored":    result.Stored,
		"failed":    result.Failed,
	})
}

// buildCache selects the cache backend, falling back to memory when the
// configured backend cannot be reached.
func buildCache(cfg *config.Config, logger interfaces.Logger) interfaces.Cache {
	memoryTTL := time.Duration(cfg.Cache.Memory.DefaultExpiration) * time.Second

	switch cfg.Cache.Type {
	case "redis":
		redisCache, err := redis.NewRedisCache(cfg.Cache.Redis)
		if err != nil {
			logger.Error("Failed to create Redis cache, falling back to memory", map[string]interface{}{
				"error": err.Error(),
			})
			return memory.NewMemoryCache(memoryTTL)
		}
		logger.Info("Using Redis cache", map[string]interface{}{
			"address": cfg.Cache.Redis.Address,
		})
		return redisCache
	case "sqlite":
		sqliteCache, err := sqlite.NewSQLiteCache(cfg.Cache.SQLitePath)
		if err != nil {
			logger.Error("Failed to create SQLite cache, falling back to memory", map[string]interface{}{
				"error": err.Error(),
			})
			return memory.NewMemoryCache(memoryTTL)
		}
		logger.Info("Using SQLite cache", map[string]interface{}{
			"path": cfg.Cache.SQLitePath,
		})
		return sqliteCache
	default:
		logger.Info("Using memory cache", nil)
		return memory.NewMemoryCache(memoryTTL)
	}
}
