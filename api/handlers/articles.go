// ABOUTME: Articles viewer handler rendering a random sample of stored articles
// ABOUTME: Server-side HTML for eyeballing harvest quality, not a data API

package handlers

import (
	"html/template"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"news-harvester-api/core/domain"
	"news-harvester-api/core/interfaces"
)

const (
	defaultSampleSize = 10
	maxSampleSize     = 500
)

// ArticlesHandler serves the stored-article sample viewer
type ArticlesHandler struct {
	store  interfaces.ArticleStore
	logger interfaces.Logger
	tmpl   *template.Template
}

// NewArticlesHandler creates a new articles viewer handler
func NewArticlesHandler(store interfaces.ArticleStore, logger interfaces.Logger) *ArticlesHandler {
	return &ArticlesHandler{
		store:  store,
		logger: logger,
		tmpl:   template.Must(template.New("articles").Parse(articlesTemplate)),
	}
}

// RegisterRoutes registers viewer routes on the router
func (h *ArticlesHandler) RegisterRoutes(r chi.Router) {
	r.Get("/", h.ViewArticles)
	r.Get("/articles", h.ViewArticles)
}

// articleView is the template model for one rendered article
type articleView struct {
	Title               string
	Description         string
	ArticleText         string
	PublicationDatetime string
	Keywords            []string
	Authors             []string
	SourceURL           string
	PhotoDataURI        template.URL
	ParsedAtUTC         string
}

// pageView is the template model for the whole page
type pageView struct {
	Count    int
	Articles []articleView
}

// ViewArticles handles GET /articles?size=N
func (h *ArticlesHandler) ViewArticles(w http.ResponseWriter, r *http.Request) {
	size := defaultSampleSize
	if raw := r.URL.Query().Get("size"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			http.Error(w, "size must be an integer", http.StatusBadRequest)
			return
		}
		size = parsed
	}
	if size < 1 {
		size = 1
	}
	if size > maxSampleSize {
		size = maxSampleSize
	}

	docs, err := h.store.SampleRandom(r.Context(), size)
	if err != nil {
		h.logger.Error("Failed to sample stored articles", map[string]interface{}{
			"error": err.Error(),
			"size":  size,
		})
		http.Error(w, "failed to load articles", http.StatusInternalServerError)
		return
	}

	if len(docs) == 0 {
		http.Error(w, "no articles stored yet", http.StatusNotFound)
		return
	}

	page := pageView{Count: len(docs)}
	for _, doc := range docs {
		page.Articles = append(page.Articles, toArticleView(doc))
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := h.tmpl.Execute(w, page); err != nil {
		h.logger.Error("Failed to render articles page", map[string]interface{}{
			"error": err.Error(),
		})
	}
}

// toArticleView converts a stored document to its template model
func toArticleView(doc domain.StoredDocument) articleView {
	view := articleView{
		Title:               doc.Title,
		Description:         doc.Description,
		ArticleText:         doc.ArticleText,
		PublicationDatetime: doc.PublicationDatetime,
		Keywords:            doc.Keywords,
		Authors:             doc.Authors,
		SourceURL:           doc.SourceURL,
		ParsedAtUTC:         doc.ParsedAtUTC,
	}
	if doc.HeaderPhotoBase64 != nil && *doc.HeaderPhotoBase64 != "" {
		view.PhotoDataURI = template.URL("data:image/jpeg;base64," + *doc.HeaderPhotoBase64)
	}
	return view
}

const articlesTemplate = `<!DOCTYPE html>
<html lang="ru">
<head>
<meta charset="utf-8">
<title>Harvested Articles</title>
<style>
body { font-family: sans-serif; max-width: 56rem; margin: 0 auto; padding: 1rem; }
article { border-bottom: 1px solid #ddd; margin-bottom: 2rem; padding-bottom: 2rem; }
article img { max-width: 100%; height: auto; }
.meta { color: #666; font-size: 0.875rem; }
.tags span { background: #eee; border-radius: 3px; padding: 0 0.4em; margin-right: 0.4em; }
.body-text { white-space: pre-line; }
</style>
</head>
<body>
<h1>Random sample ({{.Count}} articles)</h1>
{{range .Articles}}
<article>
  <h2><a href="{{.SourceURL}}">{{.Title}}</a></h2>
  {{if .PhotoDataURI}}<img src="{{.PhotoDataURI}}" alt="">{{end}}
  <p class="meta">
    {{.PublicationDatetime}}
    {{if .Authors}}&middot; {{range .Authors}}{{.}} {{end}}{{end}}
    &middot; parsed {{.ParsedAtUTC}}
  </p>
  {{if .Keywords}}<p class="tags">{{range .Keywords}}<span>{{.}}</span>{{end}}</p>{{end}}
  <p><em>{{.Description}}</em></p>
  <div class="body-text">{{.ArticleText}}</div>
</article>
{{end}}
</body>
</html>`
