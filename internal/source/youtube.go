package source

import (
	"encoding/json"
	"strings"
	"time"
)

// YouTubeComment is one comment as delivered by the scraper.
type YouTubeComment struct {
	Text      string `json:"text"`
	Timestamp string `json:"timestamp"`
	Likes     string `json:"likes"`
}

type youtubeCommentMeta struct {
	Likes     string `json:"likes"`
	ScrapedAt string `json:"scraped_at"`
}

// ParseYouTubeComments normalizes a flat comment feed in feed order,
// deduplicating by exact text and stopping at maxComments.
func ParseYouTubeComments(comments []YouTubeComment, videoURL string, maxComments int) []RawItem {
	now := time.Now().UTC()

	var items []RawItem
	seen := make(map[string]struct{})

	for _, c := range comments {
		text := strings.TrimSpace(c.Text)
		if text == "" {
			continue
		}
		if _, dup := seen[text]; dup {
			continue
		}

		meta, _ := json.Marshal(youtubeCommentMeta{
			Likes:     c.Likes,
			ScrapedAt: now.Format(time.RFC3339),
		})
		items = append(items, RawItem{
			Source:       SourceYouTube,
			SourceRef:    videoURL,
			OriginalText: text,
			Timestamp:    c.Timestamp,
			RawMetadata:  meta,
			ScrapedAt:    now,
		})
		seen[text] = struct{}{}

		if maxComments > 0 && len(items) >= maxComments {
			break
		}
	}

	return items
}
