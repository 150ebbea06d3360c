package handlers

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"news-harvester-api/core/domain"
)

type fakeStore struct {
	docs       []domain.StoredDocument
	err        error
	sampledN   int
	sampleCall int
}

func (s *fakeStore) EnsureIndexes(ctx context.Context) error { return nil }

func (s *fakeStore) Save(ctx context.Context, r *domain.ArticleRecord) error { return nil }

func (s *fakeStore) Ping(ctx context.Context) error { return nil }

func (s *fakeStore) Close(ctx context.Context) error { return nil }

func (s *fakeStore) SampleRandom(ctx context.Context, n int) ([]domain.StoredDocument, error) {
	s.sampleCall++
	s.sampledN = n
	if s.err != nil {
		return nil, s.err
	}
	if n > len(s.docs) {
		n = len(s.docs)
	}
	return s.docs[:n], nil
}

type nopLogger struct{}

func (nopLogger) Debug(msg string, fields map[string]interface{}) {}
func (nopLogger) Info(msg string, fields map[string]interface{})  {}
func (nopLogger) Warn(msg string, fields map[string]interface{})  {}
func (nopLogger) Error(msg string, fields map[string]interface{}) {}

func sampleDoc(sourceURL string) domain.StoredDocument {
	photo := "aGVsbG8="
	return domain.StoredDocument{
		Title:               "Заголовок",
		Description:         "Описание",
		ArticleText:         "Первый абзац.\nВторой абзац.",
		PublicationDatetime: "2026-08-20T10:00:00+03:00",
		Keywords:            []string{"Общество"},
		Authors:             []string{"Иван Петров"},
		SourceURL:           sourceURL,
		HeaderPhotoBase64:   &photo,
		ParsedAtUTC:         "2026-08-20T07:05:00Z",
	}
}

func TestViewArticles_RendersSample(t *testing.T) {
	store := &fakeStore{docs: []domain.StoredDocument{
		sampleDoc("https://www.kp.ru/online/news/1/"),
		sampleDoc("https://www.kp.ru/online/news/2/"),
	}}
	handler := NewArticlesHandler(store, nopLogger{})

	req := httptest.NewRequest(http.MethodGet, "/articles?size=2", nil)
	rec := httptest.NewRecorder()
	handler.ViewArticles(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if store.sampledN != 2 {
		t.Errorf("sampled n = %d, want 2", store.sampledN)
	}
	body := rec.Body.String()
	if !strings.Contains(body, "Заголовок") {
		t.Error("body should contain the article title")
	}
	if !strings.Contains(body, "data:image/jpeg;base64,aGVsbG8=") {
		t.Error("body should embed the photo as a data URI")
	}
	if !strings.Contains(body, "https://www.kp.ru/online/news/1/") {
		t.Error("body should link to the source URL")
	}
}

func TestViewArticles_DefaultSize(t *testing.T) {
	store := &fakeStore{docs: []domain.StoredDocument{sampleDoc("https://a/")}}
	handler := NewArticlesHandler(store, nopLogger{})

	rec := httptest.NewRecorder()
	handler.ViewArticles(rec, httptest.NewRequest(http.MethodGet, "/articles", nil))

	if store.sampledN != 10 {
		t.Errorf("sampled n = %d, want default 10", store.sampledN)
	}
}

func TestViewArticles_ClampsSize(t *testing.T) {
	tests := []struct {
		name  string
		query string
		want  int
	}{
		{"above maximum", "size=9999", 500},
		{"below minimum", "size=0", 1},
		{"negative", "size=-5", 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := &fakeStore{docs: []domain.StoredDocument{sampleDoc("https://a/")}}
			handler := NewArticlesHandler(store, nopLogger{})

			rec := httptest.NewRecorder()
			handler.ViewArticles(rec, httptest.NewRequest(http.MethodGet, "/articles?"+tt.query, nil))

			if store.sampledN != tt.want {
				t.Errorf("sampled n = %d, want %d", store.sampledN, tt.want)
			}
		})
	}
}

func TestViewArticles_NonIntegerSize(t *testing.T) {
	store := &fakeStore{docs: []domain.StoredDocument{sampleDoc("https://a/")}}
	handler := NewArticlesHandler(store, nopLogger{})

	rec := httptest.NewRecorder()
	handler.ViewArticles(rec, httptest.NewRequest(http.MethodGet, "/articles?size=ten", nil))

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
	if store.sampleCall != 0 {
		t.Error("store should not be queried for an invalid size")
	}
}

func TestViewArticles_EmptyStore(t *testing.T) {
	handler := NewArticlesHandler(&fakeStore{}, nopLogger{})

	rec := httptest.NewRecorder()
	handler.ViewArticles(rec, httptest.NewRequest(http.MethodGet, "/articles", nil))

	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
}

func TestViewArticles_StoreError(t *testing.T) {
	handler := NewArticlesHandler(&fakeStore{err: errors.New("connection reset")}, nopLogger{})

	rec := httptest.NewRecorder()
	handler.ViewArticles(rec, httptest.NewRequest(http.MethodGet, "/articles", nil))

	if rec.Code != http.StatusInternalServerError {
		t.Errorf("status = %d, want 500", rec.Code)
	}
}

func TestToArticleView_NoPhoto(t *testing.T) {
	doc := sampleDoc("https://a/")
	doc.HeaderPhotoBase64 = nil

	view := toArticleView(doc)
	if view.PhotoDataURI != "" {
		t.Errorf("PhotoDataURI = %q, want empty", view.PhotoDataURI)
	}
}
