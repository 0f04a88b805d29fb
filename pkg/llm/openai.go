package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/rotisserie/eris"
)

// chatClient speaks the OpenAI chat-completions wire format, which OpenAI,
// Perplexity, and Chutes all share.
type chatClient struct {
	name        string
	apiKey      string
	baseURL     string
	model       string
	temperature float64
	maxTokens   int
	http        *http.Client
}

// Option configures an OpenAI-compatible client.
type Option func(*chatClient)

// WithModel overrides the provider's default model. Empty is ignored.
func WithModel(model string) Option {
	return func(c *chatClient) {
		if model != "" {
			c.model = model
		}
	}
}

// WithBaseURL overrides the provider's endpoint. Useful for tests.
func WithBaseURL(baseURL string) Option {
	return func(c *chatClient) {
		c.baseURL = baseURL
	}
}

// WithHTTPClient overrides the default http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *chatClient) {
		c.http = hc
	}
}

// NewOpenAIClient creates a client for the OpenAI API.
func NewOpenAIClient(apiKey string, opts ...Option) Client {
	return newChatClient("openai", apiKey, "https://api.openai.com/v1", "gpt-3.5-turbo", 0.3, opts)
}

// NewPerplexityClient creates a client for the Perplexity API.
func NewPerplexityClient(apiKey string, opts ...Option) Client {
	return newChatClient("perplexity", apiKey, "https://api.perplexity.ai", "pplx-7b-online", 0.3, opts)
}

// NewChutesClient creates a client for the Chutes API.
func NewChutesClient(apiKey string, opts ...Option) Client {
	return newChatClient("chutes", apiKey, "https://llm.chutes.ai/v1", "deepseek-ai/DeepSeek-R1", 0.7, opts)
}

func newChatClient(name, apiKey, baseURL, model string, temperature float64, opts []Option) *chatClient {
	c := &chatClient{
		name:        name,
		apiKey:      apiKey,
		baseURL:     baseURL,
		model:       model,
		temperature: temperature,
		maxTokens:   100000,
		http: &http.Client{
			Timeout: 25 * time.Second,
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type chatCompletionRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens"`
	Stream      bool          `json:"stream"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatCompletionResponse struct {
	Model   string `json:"model"`
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

func (c *chatClient) Generate(ctx context.Context, req Request) (*Response, error) {
	payload := chatCompletionRequest{
		Model: c.model,
		Messages: []chatMessage{
			{Role: "system", Content: req.System},
			{Role: "user", Content: req.User},
		},
		Temperature: c.temperature,
		MaxTokens:   c.maxTokens,
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, eris.Wrapf(err, "llm: %s marshal request", c.name)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return nil, eris.Wrapf(err, "llm: %s create request", c.name)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return nil, eris.Wrapf(err, "llm: %s send request", c.name)
	}
	defer resp.Body.Close() //nolint:errcheck

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, eris.Wrapf(err, "llm: %s read response", c.name)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, eris.Errorf("llm: %s unexpected status %d: %s", c.name, resp.StatusCode, string(respBody))
	}

	var result chatCompletionResponse
	if err := json.Unmarshal(respBody, &result); err != nil {
		return nil, eris.Wrapf(err, "llm: %s unmarshal response", c.name)
	}
	if len(result.Choices) == 0 {
		return nil, eris.Errorf("llm: %s response has no choices", c.name)
	}

	model := result.Model
	if model == "" {
		model = c.model
	}
	return &Response{Text: result.Choices[0].Message.Content, Model: model}, nil
}
