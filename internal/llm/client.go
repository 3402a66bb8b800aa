// Package llm talks to the chat-completion text generation backend.
package llm

import (
	"context"
	"errors"
	"fmt"
	"math"
	"net/http"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"
)

const defaultTimeout = 120 * time.Second

// Message roles.
const (
	RoleSystem = openai.ChatMessageRoleSystem
	RoleUser   = openai.ChatMessageRoleUser
)

// Message represents a role-tagged chat message.
type Message struct {
	Role    string
	Content string
}

// Request is a single chat-completion exchange.
type Request struct {
	Model       string
	Temperature float64
	Messages    []Message
}

// Backend is a synchronous text generation service.
type Backend interface {
	Complete(ctx context.Context, req Request) (string, error)
}

// Client handles communication with an OpenAI-compatible chat completions API.
type Client struct {
	apiKey       string
	baseURL      string
	organization string
	httpClient   *http.Client
	api          *openai.Client
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithBaseURL sets the API base URL, e.g. "https://api.openai.com/v1".
func WithBaseURL(url string) ClientOption {
	return func(c *Client) {
		c.baseURL = url
	}
}

// WithOrganization sets the OpenAI organization header.
func WithOrganization(org string) ClientOption {
	return func(c *Client) {
		c.organization = org
	}
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(client *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = client
	}
}

// WithTimeout sets the timeout of the default HTTP client.
func WithTimeout(d time.Duration) ClientOption {
	return func(c *Client) {
		c.httpClient = &http.Client{Timeout: d}
	}
}

// NewClient creates a new chat completions client.
// An empty apiKey is accepted; the backend rejects the first call instead.
func NewClient(apiKey string, opts ...ClientOption) *Client {
	c := &Client{
		apiKey: apiKey,
		httpClient: &http.Client{
			Timeout: defaultTimeout,
		},
	}

	for _, opt := range opts {
		opt(c)
	}

	cfg := openai.DefaultConfig(apiKey)
	if c.baseURL != "" {
		cfg.BaseURL = strings.TrimSuffix(c.baseURL, "/")
	}
	if c.organization != "" {
		cfg.OrgID = c.organization
	}
	cfg.HTTPClient = c.httpClient
	c.api = openai.NewClientWithConfig(cfg)

	return c
}

// Complete sends the messages and returns the first choice's content.
func (c *Client) Complete(ctx context.Context, req Request) (string, error) {
	chatReq := openai.ChatCompletionRequest{
		Model:       req.Model,
		Temperature: temperature(req.Temperature),
		Messages:    make([]openai.ChatCompletionMessage, 0, len(req.Messages)),
	}
	for _, msg := range req.Messages {
		chatReq.Messages = append(chatReq.Messages, openai.ChatCompletionMessage{
			Role:    msg.Role,
			Content: msg.Content,
		})
	}

	resp, err := c.api.CreateChatCompletion(ctx, chatReq)
	if err != nil {
		return "", describe(err)
	}

	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("malformed response: no choices returned")
	}

	return resp.Choices[0].Message.Content, nil
}

// temperature maps a requested temperature to the wire value.
// The request field is omitempty, so a literal zero would fall back to the
// provider default of 1.0.
func temperature(t float64) float32 {
	if t <= 0 {
		return math.SmallestNonzeroFloat32
	}
	return float32(t)
}

// describe turns provider errors into a single human-readable error.
func describe(err error) error {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		if apiErr.Message != "" {
			return fmt.Errorf("API error (%d): %s", apiErr.HTTPStatusCode, apiErr.Message)
		}
		return fmt.Errorf("API returned status %d", apiErr.HTTPStatusCode)
	}

	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		if reqErr.Err == nil {
			return fmt.Errorf("API returned status %d", reqErr.HTTPStatusCode)
		}
		return fmt.Errorf("API returned status %d: %w", reqErr.HTTPStatusCode, reqErr.Err)
	}

	return fmt.Errorf("API request failed: %w", err)
}
