package source

import "testing"

func TestParseYouTubeCommentsDedupAndCap(t *testing.T) {
	comments := []YouTubeComment{
		{Text: "Garbage is never collected on time here.", Timestamp: "2 days ago", Likes: "10"},
		{Text: "  Garbage is never collected on time here.  ", Timestamp: "1 day ago", Likes: "3"},
		{Text: "", Timestamp: "1 day ago"},
		{Text: "The new metro line is great.", Timestamp: "5 hours ago", Likes: "42"},
		{Text: "Power cuts every evening in our area.", Timestamp: "1 hour ago"},
	}

	items := ParseYouTubeComments(comments, "https://youtube.com/watch?v=abc", 2)

	if len(items) != 2 {
		t.Fatalf("got %d items, want 2", len(items))
	}
	if items[0].OriginalText != "Garbage is never collected on time here." {
		t.Errorf("item 0 text = %q", items[0].OriginalText)
	}
	if items[1].OriginalText != "The new metro line is great." {
		t.Errorf("item 1 text = %q", items[1].OriginalText)
	}
	for i, item := range items {
		if item.Source != SourceYouTube {
			t.Errorf("item %d source = %q, want %q", i, item.Source, SourceYouTube)
		}
		if item.SourceRef != "https://youtube.com/watch?v=abc" {
			t.Errorf("item %d source_ref = %q", i, item.SourceRef)
		}
	}
}

func TestParseYouTubeCommentsNoLimit(t *testing.T) {
	comments := []YouTubeComment{
		{Text: "one"},
		{Text: "two"},
		{Text: "three"},
	}

	items := ParseYouTubeComments(comments, "https://youtube.com/watch?v=abc", 0)
	if len(items) != 3 {
		t.Fatalf("got %d items, want 3", len(items))
	}
}

func TestParseMapsReviews(t *testing.T) {
	reviews := []MapsReview{
		{Text: "Clean park but broken street lights.", RelativeTime: "a week ago"},
		{Text: "Clean park but broken street lights.", RelativeTime: "a month ago"},
		{Text: "No parking at all.", RelativeTime: "2 weeks ago"},
	}

	items := ParseMapsReviews(reviews, "https://maps.google.com/?cid=123", 50)

	if len(items) != 2 {
		t.Fatalf("got %d items, want 2", len(items))
	}
	if items[0].Source != SourceMaps {
		t.Errorf("source = %q, want %q", items[0].Source, SourceMaps)
	}
	if items[0].Timestamp != "a week ago" {
		t.Errorf("timestamp = %q, want relative time preserved", items[0].Timestamp)
	}
}
