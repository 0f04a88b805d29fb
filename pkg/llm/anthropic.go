package llm

import (
	"context"
	"time"

	sdk "github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/rotisserie/eris"
)

const (
	anthropicDefaultModel = "claude-3-7-sonnet-latest"
	anthropicMaxTokens    = 64000
	anthropicTemperature  = 0.3
	anthropicTimeout      = 25 * time.Second
)

// anthropicClient implements Client using the official anthropic-sdk-go.
type anthropicClient struct {
	client sdk.Client
	model  string
}

type anthropicOption func(*anthropicClient)

func withAnthropicModel(model string) anthropicOption {
	return func(c *anthropicClient) {
		if model != "" {
			c.model = model
		}
	}
}

// NewAnthropicClient creates an Anthropic-backed client.
func NewAnthropicClient(apiKey string, opts ...anthropicOption) Client {
	c := &anthropicClient{
		client: sdk.NewClient(
			option.WithAPIKey(apiKey),
			option.WithRequestTimeout(anthropicTimeout),
		),
		model: anthropicDefaultModel,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *anthropicClient) Generate(ctx context.Context, req Request) (*Response, error) {
	params := sdk.MessageNewParams{
		Model:       sdk.Model(c.model),
		MaxTokens:   anthropicMaxTokens,
		Temperature: sdk.Float(anthropicTemperature),
		Messages: []sdk.MessageParam{
			sdk.NewUserMessage(sdk.NewTextBlock(req.User)),
		},
	}
	if req.System != "" {
		params.System = []sdk.TextBlockParam{{Text: req.System}}
	}

	msg, err := c.client.Messages.New(ctx, params)
	if err != nil {
		return nil, eris.Wrap(err, "llm: anthropic create message")
	}

	text := ""
	for _, block := range msg.Content {
		if block.Type == "text" {
			text = block.Text
			break
		}
	}
	if text == "" {
		return nil, eris.New("llm: anthropic response has no text content")
	}

	return &Response{Text: text, Model: string(msg.Model)}, nil
}
