package ml_client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"civicsense/internal/models"
)

func TestClassify(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/v1/sentiment" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		var req SentimentRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("bad request body: %v", err)
		}
		if req.Text != "the road is broken" {
			t.Errorf("request text = %q", req.Text)
		}
		json.NewEncoder(w).Encode(models.SentimentPrediction{
			Sentiment:  models.SentimentNegative,
			Confidence: 0.93,
		})
	}))
	defer server.Close()

	client := NewClient(server.URL)
	prediction, err := client.Classify(context.Background(), "the road is broken")
	if err != nil {
		t.Fatalf("Classify returned error: %v", err)
	}
	if prediction.Sentiment != models.SentimentNegative {
		t.Errorf("sentiment = %q, want Negative", prediction.Sentiment)
	}
}

func TestClassifyRejectsUnknownLabel(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]interface{}{"sentiment": "Angry", "confidence": 0.9})
	}))
	defer server.Close()

	client := NewClient(server.URL)
	if _, err := client.Classify(context.Background(), "text"); err == nil {
		t.Fatal("expected error for unknown sentiment label")
	}
}

func TestClassifyServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "model not loaded", http.StatusInternalServerError)
	}))
	defer server.Close()

	client := NewClient(server.URL)
	if _, err := client.Classify(context.Background(), "text"); err == nil {
		t.Fatal("expected error for 500 response")
	}
}

func TestSimilarity(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/v1/similarity" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		json.NewEncoder(w).Encode(SimilarityResponse{Similarity: 0.87})
	}))
	defer server.Close()

	client := NewClient(server.URL)
	score, err := client.Similarity(context.Background(), "a", "b")
	if err != nil {
		t.Fatalf("Similarity returned error: %v", err)
	}
	if score != 0.87 {
		t.Errorf("similarity = %v, want 0.87", score)
	}
}

func TestSimilarityRejectsOutOfRange(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(SimilarityResponse{Similarity: 1.7})
	}))
	defer server.Close()

	client := NewClient(server.URL)
	if _, err := client.Similarity(context.Background(), "a", "b"); err == nil {
		t.Fatal("expected error for similarity outside [-1,1]")
	}
}

func TestHealthCheck(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/v1/health" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		json.NewEncoder(w).Encode(HealthResponse{Status: "healthy", SentimentLoaded: true, EmbeddingLoaded: true})
	}))
	defer server.Close()

	client := NewClient(server.URL)
	health, err := client.HealthCheck(context.Background())
	if err != nil {
		t.Fatalf("HealthCheck returned error: %v", err)
	}
	if health.Status != "healthy" || !health.SentimentLoaded {
		t.Errorf("health = %+v", health)
	}
}
