package openai

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"
)

func TestEmbedSendsRequest(t *testing.T) {
	var got reqBody
	var auth string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/embeddings" {
			t.Errorf("expected path /v1/embeddings, got %s", r.URL.Path)
		}
		auth = r.Header.Get("Authorization")
		body, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(body, &got)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"data":[{"embedding":[0.5,-0.25,1]}]}`))
	}))
	defer server.Close()

	t.Setenv("TEST_EMBED_KEY", "secret")
	c, err := NewClient(Config{
		BaseURL:           server.URL + "/v1/",
		APIKeyEnv:         "TEST_EMBED_KEY",
		Model:             "text-embedding-3-small",
		Dimension:         3,
		RequestDimensions: true,
	})
	if err != nil {
		t.Fatalf("NewClient failed: %v", err)
	}
	vec, err := c.Embed(context.Background(), "hello")
	if err != nil {
		t.Fatalf("Embed failed: %v", err)
	}
	if len(vec) != 3 || vec[0] != 0.5 || vec[1] != -0.25 {
		t.Errorf("vector = %v", vec)
	}
	if auth != "Bearer secret" {
		t.Errorf("Authorization = %q, want Bearer secret", auth)
	}
	if got.Input != "hello" || got.Model != "text-embedding-3-small" || got.Dimensions != 3 {
		t.Errorf("request body = %+v", got)
	}
}

func TestEmbedOllamaShapeWithoutKey(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if h := r.Header.Get("Authorization"); h != "" {
			t.Errorf("unexpected Authorization header %q", h)
		}
		_, _ = w.Write([]byte(`{"embedding":[1,2]}`))
	}))
	defer server.Close()

	c, _ := NewClient(Config{BaseURL: server.URL, Dimension: 2})
	vec, err := c.Embed(context.Background(), "hi")
	if err != nil {
		t.Fatalf("Embed failed: %v", err)
	}
	if len(vec) != 2 {
		t.Fatalf("len = %d, want 2", len(vec))
	}
}

func TestEmbedRetriesServerErrors(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) == 1 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		_, _ = w.Write([]byte(`{"data":[{"embedding":[1]}]}`))
	}))
	defer server.Close()

	c, _ := NewClient(Config{BaseURL: server.URL, Dimension: 1, MaxRetries: 2, Timeout: time.Second})
	if _, err := c.Embed(context.Background(), "x"); err != nil {
		t.Fatalf("Embed failed: %v", err)
	}
	if calls != 2 {
		t.Errorf("calls = %d, want 2", calls)
	}
}

func TestEmbedClientErrorNotRetried(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte("bad model"))
	}))
	defer server.Close()

	c, _ := NewClient(Config{BaseURL: server.URL, Dimension: 1, MaxRetries: 3})
	if _, err := c.Embed(context.Background(), "x"); err == nil {
		t.Fatal("expected error for 400 response")
	}
	if calls != 1 {
		t.Errorf("calls = %d, want 1", calls)
	}
}

func TestEmbedEmptyText(t *testing.T) {
	c, _ := NewClient(Config{Dimension: 1})
	if _, err := c.Embed(context.Background(), "  "); err == nil {
		t.Fatal("expected error for empty text")
	}
}

func TestNewClientRequiresDimension(t *testing.T) {
	if _, err := NewClient(Config{}); err == nil {
		t.Fatal("expected error for missing dimension")
	}
}
