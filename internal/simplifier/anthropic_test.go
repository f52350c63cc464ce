package simplifier

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/ryosukesatoh/calm-news/internal/config"
	"github.com/ryosukesatoh/calm-news/internal/retry"
)

func newTestModel(ts *httptest.Server) *AnthropicModel {
	return NewAnthropicModel("test_api_key", "claude-sonnet-4-20250514", 1024,
		WithBaseURL(ts.URL),
		WithHTTPClient(ts.Client()),
		WithRetry(retry.Config{MaxRetries: 2, BaseDelay: time.Millisecond}),
	)
}

func TestAnthropicComplete(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("Expected POST, got %s", r.Method)
		}
		if got := r.Header.Get("x-api-key"); got != "test_api_key" {
			t.Errorf("Expected api key header, got %q", got)
		}
		if got := r.Header.Get("anthropic-version"); got != "2023-06-01" {
			t.Errorf("Expected anthropic-version 2023-06-01, got %q", got)
		}

		var req anthropicRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("Failed to decode request: %v", err)
		}
		if req.Model != "claude-sonnet-4-20250514" || req.MaxTokens != 1024 {
			t.Errorf("Unexpected model settings: %+v", req)
		}
		if len(req.Messages) != 1 || req.Messages[0].Role != "user" || req.Messages[0].Content != "Hallo" {
			t.Errorf("Unexpected messages: %+v", req.Messages)
		}

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"content": [{"type": "text", "text": "ÜBERSCHRIFT: Gut"}]}`))
	}))
	defer ts.Close()

	text, err := newTestModel(ts).Complete(context.Background(), "Hallo")
	if err != nil {
		t.Fatalf("Complete returned error: %v", err)
	}
	if text != "ÜBERSCHRIFT: Gut" {
		t.Errorf("Unexpected text %q", text)
	}
}

func TestAnthropicRetriesServerErrors(t *testing.T) {
	var calls atomic.Int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusServiceUnavailable)
			w.Write([]byte(`{"error": {"type": "overloaded_error", "message": "Overloaded"}}`))
			return
		}
		w.Write([]byte(`{"content": [{"type": "text", "text": "ok"}]}`))
	}))
	defer ts.Close()

	text, err := newTestModel(ts).Complete(context.Background(), "x")
	if err != nil {
		t.Fatalf("Expected success after retry, got: %v", err)
	}
	if text != "ok" {
		t.Errorf("Expected 'ok', got %q", text)
	}
	if calls.Load() != 2 {
		t.Errorf("Expected 2 calls, got %d", calls.Load())
	}
}

func TestAnthropicDoesNotRetryClientErrors(t *testing.T) {
	var calls atomic.Int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"error": {"type": "authentication_error", "message": "invalid x-api-key"}}`))
	}))
	defer ts.Close()

	_, err := newTestModel(ts).Complete(context.Background(), "x")
	if err == nil {
		t.Fatal("Expected error for 401")
	}
	var statusErr *retry.StatusError
	if !errors.As(err, &statusErr) || statusErr.Code != http.StatusUnauthorized {
		t.Fatalf("Expected StatusError 401, got: %v", err)
	}
	if calls.Load() != 1 {
		t.Errorf("Expected 1 call, got %d", calls.Load())
	}
}

func TestAnthropicEmptyContent(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"content": []}`))
	}))
	defer ts.Close()

	m := newTestModel(ts)
	m.retry = retry.Config{}
	if _, err := m.Complete(context.Background(), "x"); err == nil {
		t.Fatal("Expected error for empty content")
	}
}

func TestNewModel(t *testing.T) {
	m, err := NewModel(config.SimplifierConfig{Type: "anthropic"}, nil)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if m != nil {
		t.Error("Expected nil model without api key")
	}

	m, err = NewModel(config.SimplifierConfig{Type: "anthropic", APIKey: "k", Model: "m", MaxTokens: 10, RequestsPerMinute: 5}, nil)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if _, ok := m.(*AnthropicModel); !ok {
		t.Errorf("Expected *AnthropicModel, got %T", m)
	}

	if _, err := NewModel(config.SimplifierConfig{Type: "openai"}, nil); !errors.Is(err, ErrUnsupportedModelType) {
		t.Errorf("Expected ErrUnsupportedModelType, got %v", err)
	}
}
