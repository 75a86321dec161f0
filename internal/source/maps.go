package source

import (
	"encoding/json"
	"strings"
	"time"
)

// MapsReview is one Google Maps review as delivered by the scraper.
type MapsReview struct {
	Text         string `json:"text"`
	RelativeTime string `json:"relative_time"`
}

type mapsReviewMeta struct {
	PlaceURL  string `json:"place_url"`
	ScrapedAt string `json:"scraped_at"`
}

// ParseMapsReviews normalizes a flat list of place reviews, same
// ordering and dedup rules as the other flat sources.
func ParseMapsReviews(reviews []MapsReview, placeURL string, maxReviews int) []RawItem {
	now := time.Now().UTC()

	var items []RawItem
	seen := make(map[string]struct{})

	for _, r := range reviews {
		text := strings.TrimSpace(r.Text)
		if text == "" {
			continue
		}
		if _, dup := seen[text]; dup {
			continue
		}

		meta, _ := json.Marshal(mapsReviewMeta{
			PlaceURL:  placeURL,
			ScrapedAt: now.Format(time.RFC3339),
		})
		items = append(items, RawItem{
			Source:       SourceMaps,
			SourceRef:    placeURL,
			OriginalText: text,
			Timestamp:    r.RelativeTime,
			RawMetadata:  meta,
			ScrapedAt:    now,
		})
		seen[text] = struct{}{}

		if maxReviews > 0 && len(items) >= maxReviews {
			break
		}
	}

	return items
}
