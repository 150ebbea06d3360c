// ABOUTME: Storage interfaces for persisting harvested articles
// ABOUTME: Defines the idempotent upsert-by-source-URL contract of the storage sink

package interfaces

import (
	"context"

	"news-harvester-api/core/domain"
)

// ArticleStore defines the interface for article persistence.
// A unique index on the source URL is a precondition the implementation must
// establish via EnsureIndexes before the first Save.
type ArticleStore interface {
	// EnsureIndexes creates the unique index on source_url if missing.
	EnsureIndexes(ctx context.Context) error

	// Save persists a record: insert on first sight, full-document
	// replace-upsert when the source URL already exists. The newest parse
	// always wins entirely; there is no field merge.
	Save(ctx context.Context, record *domain.ArticleRecord) error

	// SampleRandom returns up to n randomly sampled stored documents.
	SampleRandom(ctx context.Context, n int) ([]domain.StoredDocument, error)

	// Ping verifies the store connection is alive.
	Ping(ctx context.Context) error

	// Close releases the store connection. Called once at shutdown.
	Close(ctx context.Context) error
}
