package simplifier

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/ryosukesatoh/calm-news/internal/config"
	"github.com/ryosukesatoh/calm-news/internal/retry"
	"golang.org/x/time/rate"
)

const (
	DefaultAnthropicURL = "https://api.anthropic.com/v1/messages"
	anthropicVersion    = "2023-06-01"
)

// ErrUnsupportedModelType is returned when an unsupported simplifier type is specified
var ErrUnsupportedModelType = errors.New("unsupported simplifier type")

// AnthropicModel calls the Anthropic Messages API.
type AnthropicModel struct {
	apiKey    string
	model     string
	maxTokens int
	baseURL   string
	client    *http.Client
	limiter   *rate.Limiter
	retry     retry.Config
	logger    *log.Logger
}

// ModelOption configures an AnthropicModel.
type ModelOption func(*AnthropicModel)

func WithBaseURL(u string) ModelOption {
	return func(m *AnthropicModel) { m.baseURL = u }
}

func WithHTTPClient(c *http.Client) ModelOption {
	return func(m *AnthropicModel) { m.client = c }
}

// WithRequestsPerMinute limits outgoing requests. Zero disables the limit.
func WithRequestsPerMinute(n int) ModelOption {
	return func(m *AnthropicModel) {
		if n <= 0 {
			m.limiter = rate.NewLimiter(rate.Inf, 1)
			return
		}
		m.limiter = rate.NewLimiter(rate.Every(time.Minute/time.Duration(n)), 1)
	}
}

func WithRetry(cfg retry.Config) ModelOption {
	return func(m *AnthropicModel) { m.retry = cfg }
}

func WithModelLogger(l *log.Logger) ModelOption {
	return func(m *AnthropicModel) {
		if l != nil {
			m.logger = l
		}
	}
}

func NewAnthropicModel(apiKey, model string, maxTokens int, opts ...ModelOption) *AnthropicModel {
	m := &AnthropicModel{
		apiKey:    apiKey,
		model:     model,
		maxTokens: maxTokens,
		baseURL:   DefaultAnthropicURL,
		client:    &http.Client{Timeout: 60 * time.Second},
		limiter:   rate.NewLimiter(rate.Inf, 1),
		retry:     retry.DefaultConfig(),
		logger:    log.New(io.Discard),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// NewModel creates the model named by the configuration. It returns a nil
// Model when no API key is configured.
func NewModel(cfg config.SimplifierConfig, logger *log.Logger) (Model, error) {
	switch cfg.Type {
	case "anthropic":
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedModelType, cfg.Type)
	}
	if cfg.APIKey == "" {
		return nil, nil
	}
	return NewAnthropicModel(cfg.APIKey, cfg.Model, cfg.MaxTokens,
		WithRequestsPerMinute(cfg.RequestsPerMinute),
		WithModelLogger(logger),
	), nil
}

// Anthropic API request/response types

type anthropicRequest struct {
	Model     string             `json:"model"`
	MaxTokens int                `json:"max_tokens"`
	Messages  []anthropicMessage `json:"messages"`
}

type anthropicMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type anthropicResponse struct {
	Content []anthropicContent `json:"content"`
	Error   *anthropicError    `json:"error,omitempty"`
}

type anthropicContent struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

type anthropicError struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

// Complete waits for the rate limiter and retries 429, 5xx and transport failures.
func (m *AnthropicModel) Complete(ctx context.Context, prompt string) (string, error) {
	if err := m.limiter.Wait(ctx); err != nil {
		return "", fmt.Errorf("anthropic: rate limiter: %w", err)
	}

	var text string
	err := retry.WithBackoff(ctx, m.retry, func(ctx context.Context) error {
		var err error
		text, err = m.callAPI(ctx, prompt)
		if err != nil {
			m.logger.Debug("anthropic request failed", "err", err)
		}
		return err
	})
	if err != nil {
		return "", err
	}
	return text, nil
}

func (m *AnthropicModel) callAPI(ctx context.Context, prompt string) (string, error) {
	reqBody := anthropicRequest{
		Model:     m.model,
		MaxTokens: m.maxTokens,
		Messages: []anthropicMessage{
			{Role: "user", Content: prompt},
		},
	}

	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("anthropic: failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, m.baseURL, bytes.NewReader(jsonData))
	if err != nil {
		return "", fmt.Errorf("anthropic: failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-api-key", m.apiKey)
	req.Header.Set("anthropic-version", anthropicVersion)

	resp, err := m.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("anthropic: request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("anthropic: failed to read response: %w", err)
	}

	var apiResp anthropicResponse
	jsonErr := json.Unmarshal(respBody, &apiResp)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		statusErr := &retry.StatusError{Code: resp.StatusCode}
		if jsonErr == nil && apiResp.Error != nil {
			statusErr.Body = apiResp.Error.Type + " - " + apiResp.Error.Message
		}
		return "", fmt.Errorf("anthropic: %w", statusErr)
	}

	if jsonErr != nil {
		return "", fmt.Errorf("anthropic: failed to parse response: %w", jsonErr)
	}

	if apiResp.Error != nil {
		return "", fmt.Errorf("anthropic: API error: %s - %s", apiResp.Error.Type, apiResp.Error.Message)
	}

	for _, c := range apiResp.Content {
		if c.Type == "text" {
			return c.Text, nil
		}
	}
	return "", fmt.Errorf("anthropic: empty response")
}
