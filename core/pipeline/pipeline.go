// ABOUTME: Pipeline fans article locations out to fetch+extract workers via colly
// ABOUTME: Photo enrichment runs strictly before storage for each record

package pipeline

import (
	"bytes"
	"context"
	"sync"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/gocolly/colly"

	"news-harvester-api/core/domain"
	"news-harvester-api/core/extract"
	"news-harvester-api/core/interfaces"
)

const defaultUserAgent = "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 " +
	"(KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

// Config holds the pipeline's fetch politeness settings
type Config struct {
	// Concurrency bounds parallel article fetches
	Concurrency int

	// RequestDelay is the minimum spacing between request starts
	RequestDelay time.Duration

	// RequestTimeout bounds each article fetch
	RequestTimeout time.Duration

	// UserAgent is sent with every article request
	UserAgent string
}

// DefaultConfig returns the default pipeline configuration
func DefaultConfig() Config {
	return Config{
		Concurrency:    8,
		RequestDelay:   200 * time.Millisecond,
		RequestTimeout: 30 * time.Second,
		UserAgent:      defaultUserAgent,
	}
}

// Result summarizes one pipeline run
type Result struct {
	Attempted int
	Stored    int
	Failed    int
}

// Pipeline drives per-article processing: fetch, extract, photo, store.
// Failures are isolated per item; no single article or image failure halts
// the run for other items.
type Pipeline struct {
	cfg    Config
	photo  interfaces.PhotoProcessor
	store  interfaces.ArticleStore
	logger interfaces.Logger
}

// NewPipeline creates a new article processing pipeline
func NewPipeline(cfg Config, photo interfaces.PhotoProcessor, store interfaces.ArticleStore, logger interfaces.Logger) *Pipeline {
	def := DefaultConfig()
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = def.Concurrency
	}
	if cfg.RequestTimeout <= 0 {
		cfg.RequestTimeout = def.RequestTimeout
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = def.UserAgent
	}
	return &Pipeline{cfg: cfg, photo: photo, store: store, logger: logger}
}

// Run fetches every location, extracts a record from each, enriches its
// header photo, and persists it. Returns aggregate counts; the only error is
// a failure to start the collector itself.
func (p *Pipeline) Run(ctx context.Context, locations []domain.ArticleLocation) (Result, error) {
	var (
		mu     sync.Mutex
		result Result
	)
	result.Attempted = len(locations)

	collector := colly.NewCollector(
		colly.UserAgent(p.cfg.UserAgent),
		colly.Async(true),
		colly.AllowURLRevisit(),
	)
	collector.SetRequestTimeout(p.cfg.RequestTimeout)

	if err := collector.Limit(&colly.LimitRule{
		DomainGlob:  "*",
		Parallelism: p.cfg.Concurrency,
		Delay:       p.cfg.RequestDelay,
	}); err != nil {
		return result, err
	}

	collector.OnRequest(func(r *colly.Request) {
		if ctx.Err() != nil {
			r.Abort()
		}
	})

	collector.OnResponse(func(r *colly.Response) {
		sourceURL := domain.NormalizeLocation(r.Request.URL.String())

		stored := p.processArticle(ctx, sourceURL, r.Body)

		mu.Lock()
		if stored {
			result.Stored++
		} else {
			result.Failed++
		}
		mu.Unlock()
	})

	collector.OnError(func(r *colly.Response, err error) {
		p.logger.Warn("Article fetch failed", map[string]interface{}{
			"url":   r.Request.URL.String(),
			"error": err.Error(),
		})
		mu.Lock()
		result.Failed++
		mu.Unlock()
	})

	for _, loc := range locations {
		if err := collector.Visit(loc); err != nil {
			p.logger.Warn("Skipping article location", map[string]interface{}{
				"url":   loc,
				"error": err.Error(),
			})
			mu.Lock()
			result.Failed++
			mu.Unlock()
		}
	}

	collector.Wait()

	p.logger.Info("Pipeline run finished", map[string]interface{}{
		"attempted": result.Attempted,
		"stored":    result.Stored,
		"failed":    result.Failed,
	})

	return result, nil
}

// processArticle runs extract, photo, and store for one fetched page.
// Photo enrichment must complete before the record reaches the store.
func (p *Pipeline) processArticle(ctx context.Context, sourceURL string, body []byte) bool {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		p.logger.Warn("Failed to parse article document", map[string]interface{}{
			"url":   sourceURL,
			"error": err.Error(),
		})
		return false
	}

	record := extract.Extract(doc)
	record.SourceURL = sourceURL

	if !record.IsValid() {
		p.logger.Warn("Extracted record missing source URL", map[string]interface{}{
			"url": sourceURL,
		})
		return false
	}

	p.photo.Process(ctx, &record)

	if err := p.store.Save(ctx, &record); err != nil {
		p.logger.Error("Failed to store article", map[string]interface{}{
			"url":   sourceURL,
			"error": err.Error(),
		})
		return false
	}

	p.logger.Debug("Stored article", map[string]interface{}{
		"url":   sourceURL,
		"title": record.Title,
	})
	return true
}
