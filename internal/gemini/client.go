package gemini

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"civicsense/internal/models"

	"github.com/google/generative-ai-go/genai"
	"go.uber.org/zap"
	"google.golang.org/api/option"
)

// Client wraps the Gemini API for batch annotation and translation.
type Client struct {
	client     *genai.Client
	model      *genai.GenerativeModel
	logger     *zap.Logger
	modelName  string
	maxRetries int
	retryDelay time.Duration
	transTemp  float32
}

// Config for the Gemini client.
type Config struct {
	APIKey                 string
	ModelName              string // Default: "gemini-2.5-flash"
	MaxRetries             int
	RetryDelay             time.Duration
	TranslationTemperature float32
}

// NewClient creates a new Gemini client.
func NewClient(cfg Config, logger *zap.Logger) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("gemini API key is required")
	}

	if cfg.ModelName == "" {
		cfg.ModelName = "gemini-2.5-flash"
	}
	if cfg.MaxRetries == 0 {
		cfg.MaxRetries = 3
	}
	if cfg.RetryDelay == 0 {
		cfg.RetryDelay = 2 * time.Second
	}
	if cfg.TranslationTemperature == 0 {
		cfg.TranslationTemperature = 0.1
	}

	ctx := context.Background()
	client, err := genai.NewClient(ctx, option.WithAPIKey(cfg.APIKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}

	model := client.GenerativeModel(cfg.ModelName)
	model.SystemInstruction = &genai.Content{
		Parts: []genai.Part{genai.Text(SystemInstruction)},
	}
	model.ResponseMIMEType = "application/json"
	model.GenerationConfig = genai.GenerationConfig{
		Temperature: genai.Ptr[float32](0.2),
	}

	logger.Info("Gemini client initialized",
		zap.String("model", cfg.ModelName),
		zap.Int("max_retries", cfg.MaxRetries))

	return &Client{
		client:     client,
		model:      model,
		logger:     logger,
		modelName:  cfg.ModelName,
		maxRetries: cfg.MaxRetries,
		retryDelay: cfg.RetryDelay,
		transTemp:  cfg.TranslationTemperature,
	}, nil
}

// Close closes the Gemini client.
func (c *Client) Close() error {
	return c.client.Close()
}

// AnnotateBatch annotates texts in one call. It returns exactly
// len(texts) results in input order, or an error when the response
// cannot be trusted; there is no partial-batch success. Results are
// correlated by position, so any shape or length violation fails the
// whole batch rather than risking misaligned annotations.
func (c *Client) AnnotateBatch(ctx context.Context, texts []string) ([]models.Annotation, error) {
	if len(texts) == 0 {
		return nil, fmt.Errorf("annotate batch requires at least one text")
	}

	prompt := BuildBatchPrompt(texts)

	var lastErr error
	for attempt := 0; attempt < c.maxRetries; attempt++ {
		if attempt > 0 {
			c.logger.Warn("Retrying Gemini batch request",
				zap.Int("attempt", attempt+1),
				zap.Int("max_retries", c.maxRetries))
			select {
			case <-time.After(c.retryDelay):
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		}

		resp, err := c.model.GenerateContent(ctx, genai.Text(prompt))
		if err != nil {
			lastErr = fmt.Errorf("gemini API error: %w", err)
			c.logger.Error("Gemini API error", zap.Error(err), zap.Int("attempt", attempt+1))
			continue
		}

		raw, err := responseText(resp)
		if err != nil {
			lastErr = err
			c.logger.Error("Unusable Gemini response", zap.Error(err), zap.Int("attempt", attempt+1))
			continue
		}

		results, err := parseBatchResponse(raw, len(texts))
		if err != nil {
			lastErr = err
			c.logger.Error("Failed to parse Gemini batch response",
				zap.Error(err),
				zap.String("response", raw),
				zap.Int("attempt", attempt+1))
			continue
		}

		return results, nil
	}

	return nil, fmt.Errorf("batch annotation failed after %d attempts: %w", c.maxRetries, lastErr)
}

// Translate translates text into the target language and returns the
// bare translated string.
func (c *Client) Translate(ctx context.Context, text, targetLanguage string) (string, error) {
	model := c.client.GenerativeModel(c.modelName)
	model.SystemInstruction = &genai.Content{
		Parts: []genai.Part{genai.Text(translationInstruction(targetLanguage))},
	}
	model.GenerationConfig = genai.GenerationConfig{
		Temperature: genai.Ptr[float32](c.transTemp),
	}

	resp, err := model.GenerateContent(ctx, genai.Text(text))
	if err != nil {
		return "", fmt.Errorf("gemini translation error: %w", err)
	}

	raw, err := responseText(resp)
	if err != nil {
		return "", err
	}

	return strings.TrimSpace(raw), nil
}

func responseText(resp *genai.GenerateContentResponse) (string, error) {
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("empty response from gemini")
	}

	textPart, ok := resp.Candidates[0].Content.Parts[0].(genai.Text)
	if !ok {
		return "", fmt.Errorf("unexpected response type from gemini")
	}

	return string(textPart), nil
}

// parseBatchResponse decodes the model output and enforces the strict
// batch contract: a well-formed array of exactly want results whose
// labels belong to the closed vocabularies.
func parseBatchResponse(raw string, want int) ([]models.Annotation, error) {
	cleanJSON := strings.TrimSpace(raw)
	cleanJSON = strings.TrimPrefix(cleanJSON, "```json")
	cleanJSON = strings.TrimPrefix(cleanJSON, "```")
	cleanJSON = strings.TrimSuffix(cleanJSON, "```")
	cleanJSON = strings.TrimSpace(cleanJSON)

	var results []models.Annotation
	if err := json.Unmarshal([]byte(cleanJSON), &results); err != nil {
		return nil, fmt.Errorf("response is not a well-formed annotation array: %w", err)
	}

	if len(results) != want {
		return nil, fmt.Errorf("annotation count mismatch: got %d, want %d", len(results), want)
	}

	for i, r := range results {
		if !models.ValidSentiment(r.Sentiment) {
			return nil, fmt.Errorf("result %d has invalid sentiment %q", i, r.Sentiment)
		}
		if !models.ValidAspect(r.Aspect) {
			return nil, fmt.Errorf("result %d has invalid aspect %q", i, r.Aspect)
		}
		if !models.ValidCategory(r.Category) {
			return nil, fmt.Errorf("result %d has invalid category %q", i, r.Category)
		}
		if r.ConfidenceScore < 0 || r.ConfidenceScore > 1 {
			return nil, fmt.Errorf("result %d has confidence %f outside [0,1]", i, r.ConfidenceScore)
		}
	}

	return results, nil
}
