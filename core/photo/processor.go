// ABOUTME: Image post-processor fetches, recompresses, and base64-encodes header photos
// ABOUTME: Pure best-effort enrichment; any failure degrades to "no photo", never an error

package photo

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	_ "image/gif"
	"image/jpeg"
	_ "image/png"
	"io"
	"time"

	"github.com/EdlinOrg/prominentcolor"
	_ "golang.org/x/image/webp" // WebP support
	"golang.org/x/time/rate"

	"news-harvester-api/core/domain"
	"news-harvester-api/core/interfaces"
)

const (
	// DefaultQuality matches the original service's JPEG re-encode setting
	DefaultQuality = 35

	maxImageBytes = 20 * 1024 * 1024
	cacheTTL      = 24 * time.Hour
)

// Config holds the processor's encoding and politeness settings
type Config struct {
	// Quality is the JPEG re-encode quality, 1-100
	Quality int

	// FetchDelay is the minimum spacing between image fetch starts
	FetchDelay time.Duration
}

var _ interfaces.PhotoProcessor = (*Processor)(nil)

// Processor enriches article records with a recompressed header photo and a
// best-effort accent color. Results are cached by photo URL so re-runs skip
// fetching and re-encoding.
type Processor struct {
	deps    interfaces.Dependencies
	quality int
	limiter *rate.Limiter
}

// cached form of one processed photo
type processedPhoto struct {
	Encoded string           `json:"encoded"`
	Accent  *domain.RGBColor `json:"accent,omitempty"`
}

// NewProcessor creates a new photo processor
func NewProcessor(deps interfaces.Dependencies, cfg Config) *Processor {
	if cfg.Quality <= 0 || cfg.Quality > 100 {
		cfg.Quality = DefaultQuality
	}
	limit := rate.Inf
	if cfg.FetchDelay > 0 {
		limit = rate.Every(cfg.FetchDelay)
	}
	return &Processor{
		deps:    deps,
		quality: cfg.Quality,
		limiter: rate.NewLimiter(limit, 1),
	}
}

// Process fills HeaderPhotoBase64 (and HeaderPhotoAccent) in place.
// Absent URL: no I/O. Malformed URL: both photo fields cleared. Non-success
// fetch or any decode/encode failure: encoded field nil, URL kept.
func (p *Processor) Process(ctx context.Context, record *domain.ArticleRecord) {
	record.HeaderPhotoBase64 = nil

	if record.HeaderPhotoURL == nil || *record.HeaderPhotoURL == "" {
		record.HeaderPhotoURL = nil
		return
	}
	photoURL := *record.HeaderPhotoURL

	if cached, ok := p.fromCache(ctx, photoURL); ok {
		record.HeaderPhotoBase64 = &cached.Encoded
		record.HeaderPhotoAccent = cached.Accent
		return
	}

	raw, err := p.fetch(ctx, photoURL)
	if err != nil {
		if errors.Is(err, interfaces.ErrMalformedURL) {
			// A malformed reference is discarded entirely rather than retried.
			record.HeaderPhotoURL = nil
			return
		}
		p.deps.Logger.Debug("Header photo fetch failed", map[string]interface{}{
			"url":   photoURL,
			"error": err.Error(),
		})
		return
	}

	compressed, err := p.compress(raw)
	if err != nil {
		p.deps.Logger.Debug("Header photo recompression failed", map[string]interface{}{
			"url":   photoURL,
			"error": err.Error(),
		})
		return
	}

	encoded := base64.StdEncoding.EncodeToString(compressed)
	record.HeaderPhotoBase64 = &encoded
	record.HeaderPhotoAccent = p.accentColor(raw)

	p.toCache(ctx, photoURL, processedPhoto{Encoded: encoded, Accent: record.HeaderPhotoAccent})
}

// fetch downloads the image bytes, honoring the spacing limiter
func (p *Processor) fetch(ctx context.Context, photoURL string) ([]byte, error) {
	if err := p.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	resp, err := p.deps.HTTPClient.Get(ctx, photoURL)
	if err != nil {
		return nil, err
	}
	defer resp.Body().Close()

	if resp.StatusCode() != 200 {
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode())
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body(), maxImageBytes))
	if err != nil {
		return nil, fmt.Errorf("reading image body: %w", err)
	}
	return data, nil
}

// compress decodes the image, flattens any alpha or palette color mode onto
// an opaque surface, and re-encodes as JPEG at the configured quality. The
// output format carries no transparency.
func (p *Processor) compress(data []byte) ([]byte, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decoding image: %w", err)
	}

	bounds := img.Bounds()
	if bounds.Empty() {
		return nil, errors.New("image has empty bounds")
	}

	flat := image.NewRGBA(bounds)
	draw.Draw(flat, bounds, &image.Uniform{C: color.White}, image.Point{}, draw.Src)
	draw.Draw(flat, bounds, img, bounds.Min, draw.Over)

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, flat, &jpeg.Options{Quality: p.quality}); err != nil {
		return nil, fmt.Errorf("encoding JPEG: %w", err)
	}
	return buf.Bytes(), nil
}

// accentColor extracts the prominent color of the photo, best-effort
func (p *Processor) accentColor(data []byte) (accent *domain.RGBColor) {
	defer func() {
		if rec := recover(); rec != nil {
			p.deps.Logger.Debug("Recovered from panic in accent extraction", map[string]interface{}{
				"panic": fmt.Sprintf("%v", rec),
			})
			accent = nil
		}
	}()

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil
	}

	bounds := img.Bounds()
	nrgba := image.NewNRGBA(bounds)
	draw.Draw(nrgba, bounds, img, bounds.Min, draw.Src)

	colors, err := prominentcolor.KmeansWithAll(
		prominentcolor.ArgumentDefault,
		nrgba,
		prominentcolor.DefaultK,
		1,
		prominentcolor.GetDefaultMasks(),
	)
	if err != nil || len(colors) == 0 {
		colors, err = prominentcolor.KmeansWithAll(
			prominentcolor.ArgumentDefault,
			nrgba,
			prominentcolor.DefaultK,
			1,
			nil,
		)
		if err != nil || len(colors) == 0 {
			return nil
		}
	}

	return &domain.RGBColor{
		R: uint8(colors[0].Color.R),
		G: uint8(colors[0].Color.G),
		B: uint8(colors[0].Color.B),
	}
}

func (p *Processor) fromCache(ctx context.Context, photoURL string) (*processedPhoto, bool) {
	if p.deps.Cache == nil {
		return nil, false
	}
	data, err := p.deps.Cache.Get(ctx, cacheKey(photoURL))
	if err != nil || data == nil {
		return nil, false
	}
	var cached processedPhoto
	if err := json.Unmarshal(data, &cached); err != nil {
		return nil, false
	}
	return &cached, true
}

func (p *Processor) toCache(ctx context.Context, photoURL string, value processedPhoto) {
	if p.deps.Cache == nil {
		return
	}
	if data, err := json.Marshal(value); err == nil {
		_ = p.deps.Cache.Set(ctx, cacheKey(photoURL), data, cacheTTL)
	}
}

func cacheKey(photoURL string) string {
	return "photo:" + photoURL
}
