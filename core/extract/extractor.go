// ABOUTME: Pure extractor maps a rendered article document to an ArticleRecord
// ABOUTME: Every field uses an ordered fallback chain; first non-empty source wins

package extract

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	readability "github.com/go-shiori/go-readability"
	"golang.org/x/net/html"

	"news-harvester-api/core/domain"
)

const (
	contentBodySelector = `div[data-gtm-el="content-body"]`
	tagLinkSelector     = `a[href*='/tag/']`
	authorSelector      = `[class*="author"], [class*="Authors"]`
)

var (
	whitespaceRE  = regexp.MustCompile(`\s+`)
	authorSplitRE = regexp.MustCompile(`[,;&]`)
)

// CleanText collapses any run of whitespace to a single space and trims.
// Applying it to an already-clean string is a no-op.
func CleanText(s string) string {
	return strings.TrimSpace(whitespaceRE.ReplaceAllString(s, " "))
}

// Extract maps one rendered article document to a structured record. It is a
// pure function: no I/O, and it does not fill SourceURL or the encoded photo
// field; those belong to the pipeline and the photo post-processor.
func Extract(doc *goquery.Document) domain.ArticleRecord {
	record := domain.ArticleRecord{
		Title:               extractTitle(doc),
		Description:         extractDescription(doc),
		PublicationDatetime: extractPublicationDatetime(doc),
		Keywords:            extractKeywords(doc),
		Authors:             extractAuthors(doc),
		ArticleText:         extractArticleText(doc),
	}

	if photo := CleanText(metaContent(doc, `meta[property="og:image"]`)); photo != "" {
		record.HeaderPhotoURL = &photo
	}

	return record
}

// metaContent returns the content attribute of the first matching meta tag
func metaContent(doc *goquery.Document, selector string) string {
	content, _ := doc.Find(selector).First().Attr("content")
	return content
}

func extractTitle(doc *goquery.Document) string {
	if title := CleanText(doc.Find("h1").First().Text()); title != "" {
		return title
	}
	return CleanText(metaContent(doc, `meta[property="og:title"]`))
}

func extractDescription(doc *goquery.Document) string {
	if desc := CleanText(metaContent(doc, `meta[name="description"]`)); desc != "" {
		return desc
	}
	return CleanText(metaContent(doc, `meta[property="og:description"]`))
}

func extractPublicationDatetime(doc *goquery.Document) string {
	if published := CleanText(metaContent(doc, `meta[property="article:published_time"]`)); published != "" {
		return published
	}
	datetime, _ := doc.Find("time[datetime]").First().Attr("datetime")
	return CleanText(datetime)
}

// extractKeywords prefers the keywords meta tag, falling back to the text of
// tag-category links. Empty entries are dropped in both branches.
func extractKeywords(doc *goquery.Document) []string {
	keywords := []string{}

	if content := metaContent(doc, `meta[name="keywords"]`); content != "" {
		for _, part := range strings.Split(content, ",") {
			if cleaned := CleanText(part); cleaned != "" {
				keywords = append(keywords, cleaned)
			}
		}
		return keywords
	}

	doc.Find(tagLinkSelector).Each(func(_ int, sel *goquery.Selection) {
		if cleaned := CleanText(sel.Text()); cleaned != "" {
			keywords = append(keywords, cleaned)
		}
	})
	return keywords
}

// extractAuthors prefers the author meta tag split on ,/;/&, falling back to
// text under author-labeled regions. Duplicates are removed preserving the
// first occurrence.
func extractAuthors(doc *goquery.Document) []string {
	if content := metaContent(doc, `meta[name="author"]`); content != "" {
		authors := []string{}
		for _, part := range authorSplitRE.Split(content, -1) {
			if cleaned := CleanText(part); cleaned != "" {
				authors = append(authors, cleaned)
			}
		}
		return authors
	}

	var pieces []string
	doc.Find(authorSelector).Each(func(_ int, sel *goquery.Selection) {
		for _, node := range sel.Nodes {
			pieces = append(pieces, textNodes(node, nil)...)
		}
	})
	return dedupPreservingOrder(pieces)
}

// extractArticleText joins every text node under the first content-body
// container, skipping "wide" side-content subtrees and script/style text.
// When the container is missing entirely, readability extraction of the whole
// document is the last resort.
func extractArticleText(doc *goquery.Document) string {
	container := doc.Find(contentBodySelector).First()
	if container.Length() == 0 {
		return readabilityText(doc)
	}

	var pieces []string
	for _, node := range container.Nodes {
		pieces = append(pieces, textNodes(node, skipWideAndScript)...)
	}
	return strings.Join(pieces, "\n")
}

// readabilityText extracts plain text via go-readability, best-effort
func readabilityText(doc *goquery.Document) string {
	raw, err := doc.Html()
	if err != nil {
		return ""
	}
	article, err := readability.FromReader(strings.NewReader(raw), nil)
	if err != nil {
		return ""
	}

	var pieces []string
	for _, line := range strings.Split(article.TextContent, "\n") {
		if cleaned := CleanText(line); cleaned != "" {
			pieces = append(pieces, cleaned)
		}
	}
	return strings.Join(pieces, "\n")
}

// skipWideAndScript reports whether a subtree is excluded from article text
func skipWideAndScript(n *html.Node) bool {
	if n.Data == "script" || n.Data == "style" {
		return true
	}
	if n.Data == "div" {
		for _, attr := range n.Attr {
			if attr.Key == "data-wide" && attr.Val == "true" {
				return true
			}
		}
	}
	return false
}

// textNodes walks the subtree collecting cleaned non-empty text nodes in
// document order. skip, when non-nil, prunes whole subtrees.
func textNodes(n *html.Node, skip func(*html.Node) bool) []string {
	var out []string
	var walk func(*html.Node)
	walk = func(node *html.Node) {
		if node.Type == html.ElementNode && skip != nil && skip(node) {
			return
		}
		if node.Type == html.TextNode {
			if cleaned := CleanText(node.Data); cleaned != "" {
				out = append(out, cleaned)
			}
			return
		}
		for child := node.FirstChild; child != nil; child = child.NextSibling {
			walk(child)
		}
	}
	walk(n)
	return out
}

// dedupPreservingOrder removes duplicates keeping the first occurrence
func dedupPreservingOrder(values []string) []string {
	seen := make(map[string]struct{}, len(values))
	out := []string{}
	for _, v := range values {
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}
