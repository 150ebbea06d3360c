// ABOUTME: Service interfaces for the core business logic
// ABOUTME: Defines contracts for the harvesting pipeline stages

package interfaces

import (
	"context"

	"news-harvester-api/core/domain"
)

// PhotoProcessor enriches a record with its recompressed header photo.
// It must complete (successfully or with a nil result) before the record is
// handed to the storage sink.
type PhotoProcessor interface {
	// Process fetches and recompresses the record's header photo in place.
	// Any failure degrades to "no photo"; Process never returns an error
	// that should halt the record's pipeline.
	Process(ctx context.Context, record *domain.ArticleRecord)
}

// LocationSource produces article locations for the pipeline to consume.
type LocationSource interface {
	// Locations returns a deduplicated ordered sequence of article locations.
	Locations(ctx context.Context) ([]domain.ArticleLocation, error)
}
