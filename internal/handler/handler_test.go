package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"civicsense/internal/models"
	"civicsense/internal/repository"
	"civicsense/internal/source"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type fakeStore struct {
	ingested []source.RawItem
	location *string
	purged   []string
	purgeErr error
}

func (s *fakeStore) Ingest(ctx context.Context, items []source.RawItem, locationName *string) (*repository.IngestResult, error) {
	s.ingested = append(s.ingested, items...)
	s.location = locationName
	return &repository.IngestResult{Inserted: len(items), TotalSeen: len(items)}, nil
}

func (s *fakeStore) FetchUnprocessed(ctx context.Context, limit int) ([]*models.FeedbackItem, error) {
	return nil, nil
}

func (s *fakeStore) FetchProcessed(ctx context.Context, limit int) ([]*models.FeedbackItem, error) {
	return nil, nil
}

func (s *fakeStore) FetchProcessedByLanguage(ctx context.Context, language string, limit int) ([]*models.FeedbackItem, error) {
	return nil, nil
}

func (s *fakeStore) MarkProcessedBatch(ctx context.Context, updates []repository.ProcessedUpdate) error {
	return errors.New("not implemented")
}

func (s *fakeStore) PurgeUnprocessed(ctx context.Context, sourceRef string) (*repository.PurgeResult, error) {
	if s.purgeErr != nil {
		return nil, s.purgeErr
	}
	s.purged = append(s.purged, sourceRef)
	return &repository.PurgeResult{DeletedCount: 3, RemainingCount: 2}, nil
}

func newTestRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	return gin.New()
}

func TestIngestRedditRejectsNonRedditURL(t *testing.T) {
	store := &fakeStore{}
	h := NewIngestHandler(store, source.NewRedditFetcher(), zap.NewNop(), 50)

	router := newTestRouter()
	router.POST("/api/ingest/reddit", h.IngestReddit)

	req := httptest.NewRequest("POST", "/api/ingest/reddit?post_url=https://example.com/post", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
	if len(store.ingested) != 0 {
		t.Errorf("store received %d items, want 0", len(store.ingested))
	}
}

func TestIngestYouTube(t *testing.T) {
	store := &fakeStore{}
	h := NewIngestHandler(store, source.NewRedditFetcher(), zap.NewNop(), 50)

	router := newTestRouter()
	router.POST("/api/ingest/youtube", h.IngestYouTube)

	body, _ := json.Marshal(YouTubeIngestRequest{
		VideoURL: "https://youtube.com/watch?v=abc",
		Comments: []source.YouTubeComment{
			{Text: "No streetlights on the bypass.", Timestamp: "1 day ago"},
			{Text: "No streetlights on the bypass.", Timestamp: "2 days ago"},
			{Text: "Metro construction is blocking the footpath.", Timestamp: "3 days ago"},
		},
	})

	req := httptest.NewRequest("POST", "/api/ingest/youtube", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200, body %s", w.Code, w.Body.String())
	}
	if len(store.ingested) != 2 {
		t.Fatalf("store received %d items, want 2 after dedup", len(store.ingested))
	}
	if store.ingested[0].Source != source.SourceYouTube {
		t.Errorf("source = %q", store.ingested[0].Source)
	}
}

func TestIngestYouTubeMissingBody(t *testing.T) {
	store := &fakeStore{}
	h := NewIngestHandler(store, source.NewRedditFetcher(), zap.NewNop(), 50)

	router := newTestRouter()
	router.POST("/api/ingest/youtube", h.IngestYouTube)

	req := httptest.NewRequest("POST", "/api/ingest/youtube", bytes.NewReader([]byte(`{}`)))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
}

func TestDeleteUnprocessed(t *testing.T) {
	store := &fakeStore{}
	h := NewManageHandler(store, zap.NewNop())

	router := newTestRouter()
	router.DELETE("/api/manage/unprocessed", h.DeleteUnprocessed)

	body, _ := json.Marshal(DeleteUnprocessedRequest{URL: "https://www.reddit.com/r/pune/comments/abc/post/"})
	req := httptest.NewRequest("DELETE", "/api/manage/unprocessed", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200, body %s", w.Code, w.Body.String())
	}

	var resp map[string]interface{}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("response is not JSON: %v", err)
	}
	if resp["deleted_count"] != float64(3) || resp["remaining_count"] != float64(2) {
		t.Errorf("response = %v", resp)
	}
	if len(store.purged) != 1 {
		t.Fatalf("purge called %d times, want 1", len(store.purged))
	}
}

func TestDeleteUnprocessedRejectsBadURL(t *testing.T) {
	cases := []struct {
		name string
		body string
	}{
		{"missing url", `{}`},
		{"not a url", `{"url": "not a url"}`},
		{"wrong scheme", `{"url": "ftp://example.com/thing"}`},
		{"no host", `{"url": "https://"}`},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			store := &fakeStore{}
			h := NewManageHandler(store, zap.NewNop())

			router := newTestRouter()
			router.DELETE("/api/manage/unprocessed", h.DeleteUnprocessed)

			req := httptest.NewRequest("DELETE", "/api/manage/unprocessed", bytes.NewReader([]byte(tc.body)))
			req.Header.Set("Content-Type", "application/json")
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			if w.Code != http.StatusBadRequest {
				t.Fatalf("status = %d, want 400", w.Code)
			}
			if len(store.purged) != 0 {
				t.Errorf("purge was called for invalid input")
			}
		})
	}
}
