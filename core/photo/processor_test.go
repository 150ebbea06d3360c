package photo

import (
	"bytes"
	"context"
	"encoding/base64"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"io"
	"sync"
	"testing"
	"time"

	"news-harvester-api/core/domain"
	"news-harvester-api/core/interfaces"
)

type fakeResponse struct {
	status int
	body   []byte
}

func (r *fakeResponse) StatusCode() int          { return r.status }
func (r *fakeResponse) Body() io.ReadCloser      { return io.NopCloser(bytes.NewReader(r.body)) }
func (r *fakeResponse) Header(key string) string { return "" }

type fakeHTTPClient struct {
	response *fakeResponse
	err      error
	calls    int
}

func (c *fakeHTTPClient) Get(ctx context.Context, url string) (interfaces.Response, error) {
	c.calls++
	if c.err != nil {
		return nil, c.err
	}
	return c.response, nil
}

type fakeCache struct {
	mu    sync.Mutex
	items map[string][]byte
}

func newFakeCache() *fakeCache {
	return &fakeCache{items: make(map[string][]byte)}
}

func (c *fakeCache) Get(ctx context.Context, key string) ([]byte, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if v, ok := c.items[key]; ok {
		return v, nil
	}
	return nil, io.EOF
}

func (c *fakeCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items[key] = value
	return nil
}

func (c *fakeCache) Delete(ctx context.Context, key string) error { return nil }

type nopLogger struct{}

func (nopLogger) Debug(msg string, fields map[string]interface{}) {}
func (nopLogger) Info(msg string, fields map[string]interface{})  {}
func (nopLogger) Warn(msg string, fields map[string]interface{})  {}
func (nopLogger) Error(msg string, fields map[string]interface{}) {}

func testDeps(client interfaces.HTTPClient, cache interfaces.Cache) interfaces.Dependencies {
	return interfaces.Dependencies{HTTPClient: client, Cache: cache, Logger: nopLogger{}}
}

// pngBytes encodes a small solid-color PNG for use as a fetched image
func pngBytes(t *testing.T) []byte {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, 8, 8))
	for y := 0; y < 8; y++ {
		for x := 0; x < 8; x++ {
			img.Set(x, y, color.NRGBA{R: 200, G: 40, B: 40, A: 255})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("failed to encode test PNG: %v", err)
	}
	return buf.Bytes()
}

func strPtr(s string) *string { return &s }

func TestProcess_AbsentURLDoesNoIO(t *testing.T) {
	client := &fakeHTTPClient{}
	p := NewProcessor(testDeps(client, nil), Config{})

	record := &domain.ArticleRecord{}
	p.Process(context.Background(), record)

	if client.calls != 0 {
		t.Errorf("expected no HTTP calls, got %d", client.calls)
	}
	if record.HeaderPhotoBase64 != nil {
		t.Error("HeaderPhotoBase64 should stay nil without a URL")
	}
}

func TestProcess_NonSuccessStatusKeepsURL(t *testing.T) {
	client := &fakeHTTPClient{response: &fakeResponse{status: 404}}
	p := NewProcessor(testDeps(client, nil), Config{})

	record := &domain.ArticleRecord{HeaderPhotoURL: strPtr("https://s.ru/img/missing.jpg")}
	p.Process(context.Background(), record)

	if record.HeaderPhotoBase64 != nil {
		t.Error("HeaderPhotoBase64 should be nil on non-success status")
	}
	if record.HeaderPhotoURL == nil || *record.HeaderPhotoURL != "https://s.ru/img/missing.jpg" {
		t.Error("HeaderPhotoURL must stay untouched on non-success status")
	}
}

func TestProcess_MalformedURLClearsBothFields(t *testing.T) {
	client := &fakeHTTPClient{err: interfaces.ErrMalformedURL}
	p := NewProcessor(testDeps(client, nil), Config{})

	record := &domain.ArticleRecord{HeaderPhotoURL: strPtr("ht!tp://bro ken")}
	p.Process(context.Background(), record)

	if record.HeaderPhotoBase64 != nil {
		t.Error("HeaderPhotoBase64 should be nil for a malformed URL")
	}
	if record.HeaderPhotoURL != nil {
		t.Error("HeaderPhotoURL should be cleared for a malformed URL")
	}
}

func TestProcess_SuccessEncodesJPEG(t *testing.T) {
	client := &fakeHTTPClient{response: &fakeResponse{status: 200, body: pngBytes(t)}}
	p := NewProcessor(testDeps(client, nil), Config{Quality: 35})

	record := &domain.ArticleRecord{HeaderPhotoURL: strPtr("https://s.ru/img/1.png")}
	p.Process(context.Background(), record)

	if record.HeaderPhotoBase64 == nil {
		t.Fatal("HeaderPhotoBase64 should be populated on success")
	}
	if record.HeaderPhotoURL == nil {
		t.Fatal("HeaderPhotoURL should be kept on success")
	}

	raw, err := base64.StdEncoding.DecodeString(*record.HeaderPhotoBase64)
	if err != nil {
		t.Fatalf("encoded photo is not valid base64: %v", err)
	}
	if _, err := jpeg.Decode(bytes.NewReader(raw)); err != nil {
		t.Errorf("recompressed photo is not a decodable JPEG: %v", err)
	}
}

func TestProcess_UndecodableBodyDegradesToNil(t *testing.T) {
	client := &fakeHTTPClient{response: &fakeResponse{status: 200, body: []byte("not an image")}}
	p := NewProcessor(testDeps(client, nil), Config{})

	record := &domain.ArticleRecord{HeaderPhotoURL: strPtr("https://s.ru/img/1.png")}
	p.Process(context.Background(), record)

	if record.HeaderPhotoBase64 != nil {
		t.Error("HeaderPhotoBase64 should be nil when the body is not an image")
	}
	if record.HeaderPhotoURL == nil {
		t.Error("HeaderPhotoURL should be kept when decoding fails")
	}
}

func TestProcess_CacheHitSkipsFetch(t *testing.T) {
	cache := newFakeCache()
	client := &fakeHTTPClient{response: &fakeResponse{status: 200, body: pngBytes(t)}}
	p := NewProcessor(testDeps(client, cache), Config{})

	record := &domain.ArticleRecord{HeaderPhotoURL: strPtr("https://s.ru/img/1.png")}
	p.Process(context.Background(), record)
	if client.calls != 1 {
		t.Fatalf("expected one fetch on cold cache, got %d", client.calls)
	}
	first := *record.HeaderPhotoBase64

	again := &domain.ArticleRecord{HeaderPhotoURL: strPtr("https://s.ru/img/1.png")}
	p.Process(context.Background(), again)

	if client.calls != 1 {
		t.Errorf("expected cache hit to skip fetching, got %d calls", client.calls)
	}
	if again.HeaderPhotoBase64 == nil || *again.HeaderPhotoBase64 != first {
		t.Error("cached encoding should match the original")
	}
}

func TestNewProcessor_QualityBounds(t *testing.T) {
	tests := []struct {
		name     string
		quality  int
		expected int
	}{
		{"zero falls back to default", 0, DefaultQuality},
		{"negative falls back to default", -5, DefaultQuality},
		{"above range falls back to default", 150, DefaultQuality},
		{"valid value kept", 80, 80},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := NewProcessor(testDeps(&fakeHTTPClient{}, nil), Config{Quality: tt.quality})
			if p.quality != tt.expected {
				t.Errorf("quality = %d, want %d", p.quality, tt.expected)
			}
		})
	}
}
