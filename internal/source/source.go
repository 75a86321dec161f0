// Package source normalizes scraped payloads from the supported
// feedback sources into a uniform raw item representation. The adapters
// are pure transformations; fetching and browser automation live with
// the callers.
package source

import (
	"encoding/json"
	"fmt"
	"time"
)

const (
	SourceReddit  = "reddit"
	SourceYouTube = "youtube"
	SourceMaps    = "maps"
)

// RawItem is one piece of feedback text extracted from a source
// payload, before it is stored.
type RawItem struct {
	Source       string
	SourceRef    string
	OriginalText string
	Timestamp    string
	RawMetadata  json.RawMessage
	ScrapedAt    time.Time
}

// MalformedDataError indicates that a source payload did not have the
// expected structure. No partial result accompanies it.
type MalformedDataError struct {
	Source string
	Reason string
}

func (e *MalformedDataError) Error() string {
	return fmt.Sprintf("malformed %s payload: %s", e.Source, e.Reason)
}
