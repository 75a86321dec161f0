package source

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const redditUserAgent = "infra-sentiment-analysis/1.0"

// redditNode mirrors the reddit listing shape: every node is a kinded
// wrapper around a data object whose replies field is either a nested
// listing or an empty string.
type redditNode struct {
	Kind string `json:"kind"`
	Data struct {
		Body          string          `json:"body"`
		Author        string          `json:"author"`
		Distinguished string          `json:"distinguished"`
		Stickied      bool            `json:"stickied"`
		Score         *int            `json:"score"`
		Subreddit     string          `json:"subreddit"`
		ID            string          `json:"id"`
		ParentID      string          `json:"parent_id"`
		Depth         *int            `json:"depth"`
		Permalink     string          `json:"permalink"`
		CreatedUTC    float64         `json:"created_utc"`
		Replies       json.RawMessage `json:"replies"`
		Children      []redditNode    `json:"children"`
	} `json:"data"`
}

type redditCommentMeta struct {
	Author    string `json:"author"`
	Score     *int   `json:"score"`
	Subreddit string `json:"subreddit"`
	CommentID string `json:"comment_id"`
	ParentID  string `json:"parent_id"`
	Depth     *int   `json:"depth"`
	Permalink string `json:"permalink"`
}

// ParseRedditThread walks the comment tree of a reddit post listing and
// returns the valid comments in traversal order. Bot, moderator and
// pinned comments are skipped but their replies are still visited, and
// a body text seen earlier in the same call is never emitted twice.
func ParseRedditThread(payload []byte, postURL string) ([]RawItem, error) {
	var listing []redditNode
	if err := json.Unmarshal(payload, &listing); err != nil {
		return nil, &MalformedDataError{Source: SourceReddit, Reason: "expected a two-element listing array"}
	}
	if len(listing) < 2 {
		return nil, &MalformedDataError{Source: SourceReddit, Reason: "listing has no comment section"}
	}

	sourceRef := strings.TrimSuffix(postURL, ".json")
	now := time.Now().UTC()

	var items []RawItem
	seen := make(map[string]struct{})

	var walk func(node redditNode)
	walk = func(node redditNode) {
		if node.Kind != "t1" {
			return
		}

		if isValidRedditComment(node) {
			text := strings.TrimSpace(node.Data.Body)
			if _, dup := seen[text]; !dup {
				meta, _ := json.Marshal(redditCommentMeta{
					Author:    node.Data.Author,
					Score:     node.Data.Score,
					Subreddit: node.Data.Subreddit,
					CommentID: node.Data.ID,
					ParentID:  node.Data.ParentID,
					Depth:     node.Data.Depth,
					Permalink: node.Data.Permalink,
				})
				items = append(items, RawItem{
					Source:       SourceReddit,
					SourceRef:    sourceRef,
					OriginalText: text,
					Timestamp:    fmt.Sprintf("%.0f", node.Data.CreatedUTC),
					RawMetadata:  meta,
					ScrapedAt:    now,
				})
				seen[text] = struct{}{}
			}
		}

		// Filtering never prunes the subtree.
		for _, child := range redditReplies(node) {
			walk(child)
		}
	}

	for _, child := range listing[1].Data.Children {
		walk(child)
	}

	return items, nil
}

func isValidRedditComment(node redditNode) bool {
	body := strings.TrimSpace(node.Data.Body)
	if body == "" {
		return false
	}
	if node.Data.Author == "AutoModerator" {
		return false
	}
	if strings.Contains(strings.ToLower(body), "i am a bot") {
		return false
	}
	if node.Data.Distinguished != "" {
		return false
	}
	if node.Data.Stickied {
		return false
	}
	return true
}

// redditReplies decodes the replies field, which reddit serialises as
// "" when a comment has none.
func redditReplies(node redditNode) []redditNode {
	raw := node.Data.Replies
	if len(raw) == 0 || string(raw) == `""` {
		return nil
	}
	var listing redditNode
	if err := json.Unmarshal(raw, &listing); err != nil {
		return nil
	}
	return listing.Data.Children
}

// RedditFetcher retrieves the JSON listing for a reddit post. It is the
// network collaborator in front of ParseRedditThread.
type RedditFetcher struct {
	httpClient *http.Client
}

func NewRedditFetcher() *RedditFetcher {
	return &RedditFetcher{
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

// Fetch downloads the listing for postURL, appending ".json" when the
// caller passed the plain post URL.
func (f *RedditFetcher) Fetch(ctx context.Context, postURL string) ([]byte, error) {
	url := postURL
	if !strings.HasSuffix(url, ".json") {
		url = strings.TrimRight(url, "/") + ".json"
	}

	req, err := http.NewRequestWithContext(ctx, "GET", url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", redditUserAgent)

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch reddit post: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("reddit returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read reddit response: %w", err)
	}

	return body, nil
}
