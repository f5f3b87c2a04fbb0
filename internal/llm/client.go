// Package llm provides the client for the OpenAI-compatible
// chat-completions backend.
package llm

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

// DefaultClientTimeout is the default timeout for completion requests.
const DefaultClientTimeout = 120 * time.Second

// systemPrompt frames every conversation with the assistant backend.
const systemPrompt = "You are PAgent, a proactive personal assistant."

// Client is the port the orchestrator consumes to obtain a raw response.
type Client interface {
	SendMessage(ctx context.Context, prompt string) (string, error)
}

// Config holds connection settings for the completions API.
type Config struct {
	BaseURL string
	APIKey  string
	Model   string
}

// HTTPClient calls a chat-completions endpoint over HTTP.
type HTTPClient struct {
	baseURL    string
	apiKey     string
	model      string
	httpClient *http.Client
}

// NewHTTPClient creates a client from cfg.
func NewHTTPClient(cfg Config) *HTTPClient {
	return &HTTPClient{
		baseURL: normalizeBaseURL(cfg.BaseURL),
		apiKey:  cfg.APIKey,
		model:   cfg.Model,
		httpClient: &http.Client{
			Timeout: DefaultClientTimeout,
		},
	}
}

// normalizeBaseURL strips trailing slashes and a "/chat/completions"
// suffix so the path is never doubled when the client appends it.
func normalizeBaseURL(raw string) string {
	s := strings.TrimRight(raw, "/")
	return strings.TrimSuffix(s, "/chat/completions")
}

type chatRequest struct {
	Model    string    `json:"model"`
	Messages []chatMsg `json:"messages"`
}

type chatMsg struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

// SendMessage sends prompt to the backend and returns the raw assistant
// reply. A non-success status is returned as an error; the caller owns
// retry policy.
func (c *HTTPClient) SendMessage(ctx context.Context, prompt string) (string, error) {
	payload := chatRequest{
		Model: c.model,
		Messages: []chatMsg{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: prompt},
		},
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("llm: marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("llm: create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("llm: http request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("llm: read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("llm: HTTP %d: %s", resp.StatusCode, string(respBody))
	}

	var chatResp chatResponse
	if err := json.Unmarshal(respBody, &chatResp); err != nil {
		return "", fmt.Errorf("llm: unmarshal response: %w", err)
	}
	if chatResp.Error != nil {
		return "", fmt.Errorf("llm: API error: %s", chatResp.Error.Message)
	}
	if len(chatResp.Choices) == 0 {
		return "", fmt.Errorf("llm: no choices in response")
	}

	return chatResp.Choices[0].Message.Content, nil
}

// Mock is an offline client used when no API key is configured and in
// tests. It echoes the prompt under a user-reply header.
type Mock struct{}

// NewMock creates a mock client.
func NewMock() *Mock {
	return &Mock{}
}

// SendMessage returns a canned user-reply response.
func (m *Mock) SendMessage(ctx context.Context, prompt string) (string, error) {
	return "[USR]Mocked response for: " + prompt, nil
}
