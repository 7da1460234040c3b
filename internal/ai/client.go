package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"mycraft-api/config"
)

// ErrNoAPIKey is returned when no API key is configured.
var ErrNoAPIKey = errors.New("no AI API key configured")

// Client generates completions for chat suggestions and price advice.
type Client interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// GeminiClient calls the Gemini generateContent REST API. The configured
// models are tried in order; the first one that answers wins. Callers are
// expected to degrade gracefully when every model fails.
type GeminiClient struct {
	apiKey  string
	baseURL string
	models  []string
	client  *http.Client
}

// NewGeminiClient creates a client from config.
func NewGeminiClient(cfg config.AIConfig) *GeminiClient {
	return &GeminiClient{
		apiKey:  cfg.APIKey,
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		models:  cfg.Models,
		client:  &http.Client{Timeout: 30 * time.Second},
	}
}

var _ Client = (*GeminiClient)(nil)

type generateRequest struct {
	Contents []content `json:"contents"`
}

type content struct {
	Parts []part `json:"parts"`
}

type part struct {
	Text string `json:"text"`
}

type generateResponse struct {
	Candidates []struct {
		Content struct {
			Parts []part `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error"`
}

func (c *GeminiClient) generate(ctx context.Context, model, prompt string) (string, error) {
	payload, err := json.Marshal(generateRequest{
		Contents: []content{{Parts: []part{{Text: prompt}}}},
	})
	if err != nil {
		return "", fmt.Errorf("failed to marshal AI request: %w", err)
	}

	endpoint := fmt.Sprintf("%s/models/%s:generateContent?key=%s", c.baseURL, model, c.apiKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("failed to build AI request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("AI request failed: %w", err)
	}
	defer resp.Body.Close()

	var decoded generateResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return "", fmt.Errorf("failed to decode AI response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		msg := resp.Status
		if decoded.Error != nil {
			msg = decoded.Error.Message
		}
		return "", fmt.Errorf("AI request failed: %s", msg)
	}

	if len(decoded.Candidates) == 0 || len(decoded.Candidates[0].Content.Parts) == 0 {
		return "", errors.New("AI response contained no candidates")
	}

	return decoded.Candidates[0].Content.Parts[0].Text, nil
}

// Complete tries each configured model in order and returns the first
// successful answer.
func (c *GeminiClient) Complete(ctx context.Context, prompt string) (string, error) {
	if c.apiKey == "" {
		return "", ErrNoAPIKey
	}

	var lastErr error
	for _, model := range c.models {
		text, err := c.generate(ctx, model, prompt)
		if err != nil {
			log.Printf("AI model %s failed: %v", model, err)
			lastErr = err
			continue
		}
		return text, nil
	}

	if lastErr == nil {
		lastErr = errors.New("no AI models configured")
	}
	return "", fmt.Errorf("all AI models failed: %w", lastErr)
}
