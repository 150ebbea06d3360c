// ABOUTME: ArticleLocation is the normalized URL identity of one article
// ABOUTME: Normalization strips query strings so dedup and storage share one key

package domain

import "strings"

// ArticleLocation is a normalized absolute article URL. It is the identity
// key for harvest dedup and for the store's unique index.
type ArticleLocation = string

// NormalizeLocation strips everything from the first '?' and trims
// surrounding whitespace. Normalizing an already-normalized value is a no-op.
func NormalizeLocation(raw string) ArticleLocation {
	if i := strings.IndexByte(raw, '?'); i >= 0 {
		raw = raw[:i]
	}
	return strings.TrimSpace(raw)
}
