package gemini

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestNewClientRequiresKey(t *testing.T) {
	if _, err := NewClient(Config{}); err == nil {
		t.Fatal("expected error for empty API key")
	}
}

func TestNewClientDefaults(t *testing.T) {
	c, err := NewClient(Config{APIKey: "k"})
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	if c.model != DefaultModel || c.baseURL != DefaultBaseURL || c.timeout != DefaultTimeout {
		t.Fatalf("defaults not applied: %+v", c)
	}
}

func TestGenerateText(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("method = %s", r.Method)
		}
		if want := "/v1beta/models/test-model:generateContent"; r.URL.Path != want {
			t.Errorf("path = %s, want %s", r.URL.Path, want)
		}
		if got := r.Header.Get("X-goog-api-key"); got != "secret" {
			t.Errorf("api key header = %q", got)
		}
		var req generateContentRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode request: %v", err)
		}
		if len(req.Contents) != 1 || req.Contents[0].Parts[0].Text != "hello" {
			t.Errorf("unexpected request body: %+v", req)
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"candidates": []map[string]any{
				{"content": map[string]any{"parts": []map[string]any{{"text": "world"}}}},
			},
		})
	}))
	defer srv.Close()

	c, err := NewClient(Config{APIKey: "secret", Model: "test-model", BaseURL: srv.URL})
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	got, err := c.GenerateText(context.Background(), "hello")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if got != "world" {
		t.Fatalf("got %q, want %q", got, "world")
	}
}

func TestGenerateTextUpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":{"message":"quota exceeded"}}`, http.StatusTooManyRequests)
	}))
	defer srv.Close()

	c, _ := NewClient(Config{APIKey: "k", BaseURL: srv.URL})
	_, err := c.GenerateText(context.Background(), "hi")
	if err == nil {
		t.Fatal("expected error on non-200")
	}
	if !strings.Contains(err.Error(), "429") || !strings.Contains(err.Error(), "quota") {
		t.Fatalf("error should carry status and body snippet: %v", err)
	}
}

func TestGenerateTextNoCandidates(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"candidates":[]}`))
	}))
	defer srv.Close()

	c, _ := NewClient(Config{APIKey: "k", BaseURL: srv.URL})
	if _, err := c.GenerateText(context.Background(), "hi"); err == nil {
		t.Fatal("expected error when no candidates returned")
	}
}

func TestGenerateTextTimeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	defer srv.Close()

	c, _ := NewClient(Config{APIKey: "k", BaseURL: srv.URL, Timeout: 20 * time.Millisecond})
	if _, err := c.GenerateText(context.Background(), "hi"); err == nil {
		t.Fatal("expected timeout error")
	}
}
