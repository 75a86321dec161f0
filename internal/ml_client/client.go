package ml_client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"civicsense/internal/models"
)

// Client is a client for the ML sidecar service that hosts the
// independent sentiment model and the sentence embedding model.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// SentimentRequest represents a single sentiment classification request.
type SentimentRequest struct {
	Text string `json:"text"`
}

// SimilarityRequest represents an embedding similarity request.
type SimilarityRequest struct {
	TextA string `json:"text_a"`
	TextB string `json:"text_b"`
}

// SimilarityResponse carries the cosine similarity of the two texts.
type SimilarityResponse struct {
	Similarity float64 `json:"similarity"`
}

// HealthResponse represents health check response.
type HealthResponse struct {
	Status          string `json:"status"`
	SentimentLoaded bool   `json:"sentiment_model_loaded"`
	EmbeddingLoaded bool   `json:"embedding_model_loaded"`
}

// NewClient creates a new ML service client.
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// Classify runs the independent sentiment model on a single text.
func (c *Client) Classify(ctx context.Context, text string) (models.SentimentPrediction, error) {
	var result models.SentimentPrediction
	if err := c.post(ctx, "/api/v1/sentiment", SentimentRequest{Text: text}, &result); err != nil {
		return models.SentimentPrediction{}, err
	}

	if !models.ValidSentiment(result.Sentiment) {
		return models.SentimentPrediction{}, fmt.Errorf("ML service returned unknown sentiment %q", result.Sentiment)
	}

	return result, nil
}

// Similarity returns the embedding cosine similarity of two texts.
func (c *Client) Similarity(ctx context.Context, textA, textB string) (float64, error) {
	var result SimilarityResponse
	if err := c.post(ctx, "/api/v1/similarity", SimilarityRequest{TextA: textA, TextB: textB}, &result); err != nil {
		return 0, err
	}

	if result.Similarity < -1 || result.Similarity > 1 {
		return 0, fmt.Errorf("ML service returned similarity %f outside [-1,1]", result.Similarity)
	}

	return result.Similarity, nil
}

// HealthCheck checks if the ML service is healthy.
func (c *Client) HealthCheck(ctx context.Context) (*HealthResponse, error) {
	req, err := http.NewRequestWithContext(ctx, "GET", c.baseURL+"/api/v1/health", nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("ML service returned status %d: %s", resp.StatusCode, string(body))
	}

	var result HealthResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	return &result, nil
}

func (c *Client) post(ctx context.Context, path string, payload, out interface{}) error {
	jsonData, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", c.baseURL+path, bytes.NewBuffer(jsonData))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("ML service returned status %d: %s", resp.StatusCode, string(body))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}

	return nil
}
