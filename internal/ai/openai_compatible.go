package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type ChatConfig struct {
	BaseURL     string
	APIKey      string
	Model       string
	MaxTokens   int
	Temperature float64
}

// UpstreamErrorKind classifies completion API failures. Callers surface them
// all the same way, but the kind stays available via errors.As.
type UpstreamErrorKind string

const (
	// KindNetwork covers transport failures: dial, TLS, timeout, broken body.
	KindNetwork UpstreamErrorKind = "network"
	// KindStatus covers non-2xx answers, including quota and auth rejections.
	KindStatus UpstreamErrorKind = "status"
	// KindMalformed covers undecodable bodies and responses with no choices.
	KindMalformed UpstreamErrorKind = "malformed"
)

type UpstreamError struct {
	Kind    UpstreamErrorKind
	Status  int
	Message string
	Err     error
}

func (e *UpstreamError) Error() string {
	if e.Status > 0 {
		return fmt.Sprintf("completion api %s failure (status %d): %s", e.Kind, e.Status, e.Message)
	}
	return fmt.Sprintf("completion api %s failure: %s", e.Kind, e.Message)
}

func (e *UpstreamError) Unwrap() error { return e.Err }

type OpenAICompatibleClient struct {
	httpClient *http.Client
}

func NewOpenAICompatibleClient() *OpenAICompatibleClient {
	return &OpenAICompatibleClient{
		httpClient: &http.Client{Timeout: 90 * time.Second},
	}
}

// Complete sends one non-streaming chat completion request and returns the
// first choice's content.
func (c *OpenAICompatibleClient) Complete(ctx context.Context, cfg ChatConfig, messages []ChatMessage) (string, error) {
	reqBody := map[string]interface{}{
		"model":    cfg.Model,
		"messages": messages,
		"stream":   false,
	}
	if cfg.MaxTokens > 0 {
		reqBody["max_tokens"] = cfg.MaxTokens
	}
	if cfg.Temperature > 0 {
		reqBody["temperature"] = cfg.Temperature
	}

	bodyBytes, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("marshal llm request failed: %w", err)
	}

	url := strings.TrimRight(cfg.BaseURL, "/") + "/chat/completions"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(bodyBytes))
	if err != nil {
		return "", fmt.Errorf("build llm request failed: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+cfg.APIKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", &UpstreamError{Kind: KindNetwork, Message: "request failed", Err: err}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", &UpstreamError{Kind: KindNetwork, Message: "read response failed", Err: err}
	}
	if resp.StatusCode >= 300 {
		return "", &UpstreamError{Kind: KindStatus, Status: resp.StatusCode, Message: string(raw)}
	}

	var parsed struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return "", &UpstreamError{Kind: KindMalformed, Message: "undecodable response body", Err: err}
	}
	if len(parsed.Choices) == 0 {
		return "", &UpstreamError{Kind: KindMalformed, Message: "empty choices"}
	}
	return parsed.Choices[0].Message.Content, nil
}
