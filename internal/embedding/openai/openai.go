package openai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"
)

// Client is an OpenAI-compatible embeddings client implementing the Embedder interface.
type Client struct {
	baseURL           string
	apiKey            string
	model             string
	dimension         int
	requestDimensions bool
	client            *http.Client
	maxRetries        int
}

// Config configures the OpenAI-compatible embeddings client.
type Config struct {
	BaseURL   string
	APIKeyEnv string
	Model     string
	Timeout   time.Duration
	// Dimension is the vector width the model produces.
	Dimension int
	// RequestDimensions sends Dimension as the "dimensions" request field, for
	// models that support shortened embeddings.
	RequestDimensions bool
	MaxRetries        int
}

// NewClient creates a new embeddings client using the provided configuration.
// The API key is optional: local servers such as Ollama accept anonymous calls.
func NewClient(cfg Config) (*Client, error) {
	if cfg.Dimension <= 0 {
		return nil, fmt.Errorf("invalid embedding dimension %d", cfg.Dimension)
	}
	var key string
	if cfg.APIKeyEnv != "" {
		key = os.Getenv(cfg.APIKeyEnv)
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = "http://localhost:11434/v1"
	}
	if cfg.Model == "" {
		cfg.Model = "all-minilm"
	}
	t := cfg.Timeout
	if t == 0 {
		t = 30 * time.Second
	}
	if cfg.MaxRetries < 0 {
		cfg.MaxRetries = 0
	}
	return &Client{
		baseURL:           strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:            key,
		model:             cfg.Model,
		dimension:         cfg.Dimension,
		requestDimensions: cfg.RequestDimensions,
		client:            &http.Client{Timeout: t},
		maxRetries:        cfg.MaxRetries,
	}, nil
}

// Name returns the identifier of this embedder implementation.
func (c *Client) Name() string { return "openai:" + c.model }

// Dimension returns the dimensionality of the produced embedding vectors.
func (c *Client) Dimension() int { return c.dimension }

type reqBody struct {
	Input      string `json:"input"`
	Model      string `json:"model"`
	Dimensions int    `json:"dimensions,omitempty"`
}

// Embed returns an embedding vector for the given text. Rate limiting and
// server errors are retried with exponential backoff.
func (c *Client) Embed(ctx context.Context, text string) ([]float32, error) {
	if strings.TrimSpace(text) == "" {
		return nil, errors.New("cannot embed empty text")
	}
	body := reqBody{Input: text, Model: c.model}
	if c.requestDimensions {
		body.Dimensions = c.dimension
	}
	data, err := json.Marshal(body)
	if err != nil {
		return nil, err
	}
	url := c.baseURL + "/embeddings"

	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if attempt > 0 {
			if err := sleep(ctx, lastErr, attempt-1); err != nil {
				return nil, err
			}
		}
		vec, retry, err := c.do(ctx, url, data)
		if err == nil {
			return vec, nil
		}
		if !retry {
			return nil, err
		}
		lastErr = err
	}
	return nil, lastErr
}

type retryAfterError struct {
	status string
	after  time.Duration
}

func (e *retryAfterError) Error() string { return "embeddings request failed: " + e.status }

func (c *Client) do(ctx context.Context, url string, data []byte) ([]float32, bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(data))
	if err != nil {
		return nil, false, err
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return nil, ctx.Err() == nil, err
	}
	payload, err := io.ReadAll(io.LimitReader(resp.Body, 8<<20))
	_ = resp.Body.Close()
	if err != nil {
		return nil, true, err
	}

	if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500 {
		e := &retryAfterError{status: resp.Status}
		if secs, err := strconv.Atoi(resp.Header.Get("Retry-After")); err == nil {
			e.after = time.Duration(secs) * time.Second
		}
		return nil, true, e
	}
	if resp.StatusCode >= 300 {
		return nil, false, fmt.Errorf("embeddings request failed: %s: %s", resp.Status, strings.TrimSpace(string(payload)))
	}

	// OpenAI-compatible response first
	var openaiOut struct {
		Data []struct {
			Embedding []float64 `json:"embedding"`
		} `json:"data"`
	}
	if err := json.Unmarshal(payload, &openaiOut); err == nil && len(openaiOut.Data) > 0 && len(openaiOut.Data[0].Embedding) > 0 {
		return toFloat32(openaiOut.Data[0].Embedding), false, nil
	}
	// Ollama-native shape: { "embedding": [...] }
	var ollamaOut struct {
		Embedding []float64 `json:"embedding"`
	}
	if err := json.Unmarshal(payload, &ollamaOut); err == nil && len(ollamaOut.Embedding) > 0 {
		return toFloat32(ollamaOut.Embedding), false, nil
	}
	return nil, false, errors.New("no embedding returned")
}

func toFloat32(v []float64) []float32 {
	out := make([]float32, len(v))
	for i, x := range v {
		out[i] = float32(x)
	}
	return out
}

func sleep(ctx context.Context, lastErr error, attempt int) error {
	d := retryDelay(attempt)
	var ra *retryAfterError
	if errors.As(lastErr, &ra) && ra.after > 0 {
		d = ra.after
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

func retryDelay(attempt int) time.Duration {
	if attempt < 0 {
		attempt = 0
	}
	base := 200 * time.Millisecond
	// exponential backoff capped at 5s
	d := base << attempt
	if d > 5*time.Second {
		d = 5 * time.Second
	}
	return d
}
