package source

import (
	"errors"
	"testing"
)

const redditThreadPayload = `[
  {"kind": "Listing", "data": {"children": [
    {"kind": "t3", "data": {"body": "", "author": "op", "replies": ""}}
  ]}},
  {"kind": "Listing", "data": {"children": [
    {"kind": "t1", "data": {
      "body": "This sub requires flair. I am a bot, and this action was performed automatically.",
      "author": "AutoModerator", "distinguished": "moderator", "stickied": true,
      "created_utc": 1700000001,
      "replies": {"kind": "Listing", "data": {"children": [
        {"kind": "t1", "data": {
          "body": "Water supply has been down for three days in Ward 12.",
          "author": "resident42", "created_utc": 1700000002, "replies": ""
        }}
      ]}}
    }},
    {"kind": "t1", "data": {
      "body": "The road near the market is full of potholes.",
      "author": "commuter", "created_utc": 1700000003, "replies": ""
    }},
    {"kind": "t1", "data": {
      "body": "The road near the market is full of potholes.",
      "author": "someone_else", "created_utc": 1700000004, "replies": ""
    }},
    {"kind": "t1", "data": {
      "body": "   ", "author": "ghost", "created_utc": 1700000005, "replies": ""
    }}
  ]}}
]`

func TestParseRedditThreadWalksTree(t *testing.T) {
	items, err := ParseRedditThread([]byte(redditThreadPayload), "https://www.reddit.com/r/pune/comments/abc/post/")
	if err != nil {
		t.Fatalf("ParseRedditThread returned error: %v", err)
	}

	want := []string{
		"Water supply has been down for three days in Ward 12.",
		"The road near the market is full of potholes.",
	}
	if len(items) != len(want) {
		t.Fatalf("got %d items, want %d", len(items), len(want))
	}
	for i, item := range items {
		if item.OriginalText != want[i] {
			t.Errorf("item %d text = %q, want %q", i, item.OriginalText, want[i])
		}
		if item.Source != SourceReddit {
			t.Errorf("item %d source = %q, want %q", i, item.Source, SourceReddit)
		}
		if item.SourceRef != "https://www.reddit.com/r/pune/comments/abc/post/" {
			t.Errorf("item %d source_ref = %q", i, item.SourceRef)
		}
	}
}

func TestParseRedditThreadStripsJSONSuffixFromRef(t *testing.T) {
	items, err := ParseRedditThread([]byte(redditThreadPayload), "https://www.reddit.com/r/pune/comments/abc/post/.json")
	if err != nil {
		t.Fatalf("ParseRedditThread returned error: %v", err)
	}
	if items[0].SourceRef != "https://www.reddit.com/r/pune/comments/abc/post/" {
		t.Errorf("source_ref = %q, want suffix stripped", items[0].SourceRef)
	}
}

func TestParseRedditThreadMalformedPayload(t *testing.T) {
	cases := []struct {
		name    string
		payload string
	}{
		{"not an array", `{"kind": "Listing"}`},
		{"missing comment section", `[{"kind": "Listing", "data": {"children": []}}]`},
		{"not json", `<html>rate limited</html>`},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ParseRedditThread([]byte(tc.payload), "https://www.reddit.com/r/pune/comments/abc/post/")
			var malformed *MalformedDataError
			if !errors.As(err, &malformed) {
				t.Fatalf("got err %v, want MalformedDataError", err)
			}
			if malformed.Source != SourceReddit {
				t.Errorf("malformed source = %q, want %q", malformed.Source, SourceReddit)
			}
		})
	}
}

func TestParseRedditThreadSkipsBotComments(t *testing.T) {
	payload := `[
	  {"kind": "Listing", "data": {"children": []}},
	  {"kind": "Listing", "data": {"children": [
	    {"kind": "t1", "data": {"body": "Beep boop. I am a bot.", "author": "helper_bot", "replies": ""}},
	    {"kind": "t1", "data": {"body": "Pinned megathread", "author": "mod", "stickied": true, "replies": ""}},
	    {"kind": "t1", "data": {"body": "Official notice", "author": "mod", "distinguished": "moderator", "replies": ""}},
	    {"kind": "t2", "data": {"body": "Not a comment kind", "author": "user", "replies": ""}}
	  ]}}
	]`

	items, err := ParseRedditThread([]byte(payload), "https://www.reddit.com/r/x/comments/1/y/")
	if err != nil {
		t.Fatalf("ParseRedditThread returned error: %v", err)
	}
	if len(items) != 0 {
		t.Fatalf("got %d items, want 0", len(items))
	}
}
