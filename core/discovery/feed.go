// ABOUTME: Feed discovery supplements the browser harvest with locations from an RSS/Atom feed
// ABOUTME: Locations flow through the same normalization and dedup as harvested links

package discovery

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/mmcdole/gofeed"

	"news-harvester-api/core/domain"
	"news-harvester-api/core/interfaces"
)

var _ interfaces.LocationSource = (*FeedDiscovery)(nil)

// FeedDiscovery produces article locations from a syndication feed
type FeedDiscovery struct {
	deps    interfaces.Dependencies
	feedURL string
}

// NewFeedDiscovery creates a feed-backed location source
func NewFeedDiscovery(deps interfaces.Dependencies, feedURL string) *FeedDiscovery {
	return &FeedDiscovery{deps: deps, feedURL: feedURL}
}

// Locations fetches and parses the feed, returning normalized deduplicated
// item locations in feed order.
func (d *FeedDiscovery) Locations(ctx context.Context) ([]domain.ArticleLocation, error) {
	if d.feedURL == "" {
		return nil, errors.New("feed URL cannot be empty")
	}

	resp, err := d.deps.HTTPClient.Get(ctx, d.feedURL)
	if err != nil {
		return nil, fmt.Errorf("fetching feed: %w", err)
	}
	defer resp.Body().Close()

	if resp.StatusCode() != 200 {
		return nil, fmt.Errorf("feed returned status %d", resp.StatusCode())
	}

	body, err := io.ReadAll(resp.Body())
	if err != nil {
		return nil, fmt.Errorf("reading feed body: %w", err)
	}

	parsed, err := gofeed.NewParser().Parse(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("parsing feed: %w", err)
	}

	seen := make(map[domain.ArticleLocation]struct{})
	locations := []domain.ArticleLocation{}
	for _, item := range parsed.Items {
		loc := domain.NormalizeLocation(item.Link)
		if loc == "" {
			continue
		}
		if _, ok := seen[loc]; ok {
			continue
		}
		seen[loc] = struct{}{}
		locations = append(locations, loc)
	}

	d.deps.Logger.Debug("Feed discovery finished", map[string]interface{}{
		"feed":      d.feedURL,
		"locations": len(locations),
	})

	return locations, nil
}

// MergeLocations appends supplemental locations to the primary sequence,
// skipping any already present, and truncates to target. Primary order wins.
func MergeLocations(primary, supplement []domain.ArticleLocation, target int) []domain.ArticleLocation {
	seen := make(map[domain.ArticleLocation]struct{}, len(primary))
	merged := make([]domain.ArticleLocation, 0, len(primary))
	for _, loc := range primary {
		if _, ok := seen[loc]; ok {
			continue
		}
		seen[loc] = struct{}{}
		merged = append(merged, loc)
	}
	for _, loc := range supplement {
		if len(merged) >= target {
			break
		}
		if _, ok := seen[loc]; ok {
			continue
		}
		seen[loc] = struct{}{}
		merged = append(merged, loc)
	}
	if target > 0 && len(merged) > target {
		merged = merged[:target]
	}
	return merged
}
