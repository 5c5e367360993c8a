package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const defaultRetryWait = 30 * time.Second

// GeminiLogger defines the logging contract for chat completion calls.
type GeminiLogger func(ctx context.Context, event string, fields map[string]any)

// GeminiClientConfig configures the GeminiClient.
type GeminiClientConfig struct {
	BaseURL         string
	APIKey          string
	Model           string
	Temperature     float64
	MaxOutputTokens int
	// RetryWait is how long to pause before the single retry after a
	// rate-limited response.
	RetryWait  time.Duration
	HTTPClient *http.Client
	Logger     GeminiLogger
}

// GeminiClient calls the Generative Language REST API for single-turn chat
// completions. Upstream failures are reported as reply text, not errors; the
// error return is reserved for local failures such as context cancellation.
type GeminiClient struct {
	baseURL     string
	apiKey      string
	model       string
	temperature float64
	maxTokens   int
	retryWait   time.Duration
	httpClient  *http.Client
	logger      GeminiLogger
}

// NewGeminiClient constructs a chat completion client.
func NewGeminiClient(cfg GeminiClientConfig) (*GeminiClient, error) {
	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		baseURL = "https://generativelanguage.googleapis.com"
	}
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, errors.New("gemini: api key is required")
	}
	model := strings.TrimSpace(cfg.Model)
	if model == "" {
		model = "gemini-2.0-flash"
	}
	retryWait := cfg.RetryWait
	if retryWait <= 0 {
		retryWait = defaultRetryWait
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 60 * time.Second}
	}
	logger := cfg.Logger
	if logger == nil {
		logger = func(context.Context, string, map[string]any) {}
	}
	temperature := cfg.Temperature
	if temperature == 0 {
		temperature = 0.7
	}
	maxTokens := cfg.MaxOutputTokens
	if maxTokens <= 0 {
		maxTokens = 1024
	}
	return &GeminiClient{
		baseURL:     baseURL,
		apiKey:      cfg.APIKey,
		model:       model,
		temperature: temperature,
		maxTokens:   maxTokens,
		retryWait:   retryWait,
		httpClient:  httpClient,
		logger:      logger,
	}, nil
}

type generateRequest struct {
	Contents         []requestContent `json:"contents"`
	GenerationConfig generationConfig `json:"generationConfig"`
}

type requestContent struct {
	Parts []requestPart `json:"parts"`
}

type requestPart struct {
	Text string `json:"text"`
}

type generationConfig struct {
	Temperature     float64 `json:"temperature"`
	MaxOutputTokens int     `json:"maxOutputTokens"`
}

type generateResponse struct {
	Candidates []candidate `json:"candidates"`
	Error      *apiError   `json:"error"`
}

type candidate struct {
	Content candidateContent `json:"content"`
}

type candidateContent struct {
	Parts []requestPart `json:"parts"`
	Role  string        `json:"role"`
}

type apiError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Status  string `json:"status"`
}

// Complete sends one user message and returns the model reply. A rate-limited
// response is retried exactly once after the configured wait; every other
// upstream failure is rendered into the reply text.
func (c *GeminiClient) Complete(ctx context.Context, message string) (string, error) {
	body, err := json.Marshal(generateRequest{
		Contents: []requestContent{{Parts: []requestPart{{Text: message}}}},
		GenerationConfig: generationConfig{
			Temperature:     c.temperature,
			MaxOutputTokens: c.maxTokens,
		},
	})
	if err != nil {
		return "", fmt.Errorf("gemini: encode request: %w", err)
	}

	status, payload, err := c.post(ctx, body)
	if err != nil {
		return "", err
	}

	if status == http.StatusTooManyRequests {
		c.logger(ctx, "ai.gemini.rate_limited", map[string]any{
			"waitSeconds": c.retryWait.Seconds(),
		})
		if err := sleepContext(ctx, c.retryWait); err != nil {
			return "", err
		}
		status, payload, err = c.post(ctx, body)
		if err != nil {
			return "", err
		}
	}

	if status < 200 || status > 299 {
		c.logger(ctx, "ai.gemini.upstream_error", map[string]any{
			"status": status,
		})
		return fmt.Sprintf("Error: %d - %s", status, string(payload)), nil
	}

	var parsed generateResponse
	if err := json.Unmarshal(payload, &parsed); err != nil {
		return "", fmt.Errorf("gemini: decode response: %w", err)
	}
	if parsed.Error != nil {
		return fmt.Sprintf("API Error: %s", parsed.Error.Message), nil
	}
	if len(parsed.Candidates) == 0 {
		return "No candidates found in response. Raw response: " + string(payload), nil
	}
	parts := parsed.Candidates[0].Content.Parts
	if len(parts) == 0 || parts[0].Text == "" {
		return "No response", nil
	}
	return parts[0].Text, nil
}

func (c *GeminiClient) post(ctx context.Context, body []byte) (int, []byte, error) {
	endpoint := fmt.Sprintf("%s/v1beta/models/%s:generateContent?key=%s",
		c.baseURL, c.model, url.QueryEscape(c.apiKey))

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return 0, nil, fmt.Errorf("gemini: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, nil, fmt.Errorf("gemini: call api: %w", err)
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, nil, fmt.Errorf("gemini: read response: %w", err)
	}
	return resp.StatusCode, payload, nil
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
