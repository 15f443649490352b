package llm

import (
	"context"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/m-mizutani/goerr/v2"

	"github.com/driftwatch/driftwatch/pkg/domain/model"
	"github.com/driftwatch/driftwatch/pkg/domain/types"
)

const defaultAnthropicModel = "claude-sonnet-4-20250514"

type anthropicClient struct {
	client anthropic.Client
	model  string
	usage  model.TokenUsage
}

func newAnthropicClient(apiKey, modelName string) *anthropicClient {
	if modelName == "" {
		modelName = defaultAnthropicModel
	}
	return &anthropicClient{
		client: anthropic.NewClient(option.WithAPIKey(apiKey)),
		model:  modelName,
	}
}

func (c *anthropicClient) GenerateAnalysis(ctx context.Context, systemPrompt, prompt string) (string, error) {
	msg, err := c.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     anthropic.Model(c.model),
		MaxTokens: 4096,
		System: []anthropic.TextBlockParam{
			{Text: systemPrompt},
		},
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)),
		},
	})
	if err != nil {
		return "", goerr.Wrap(err, "anthropic message creation failed",
			goerr.T(types.ErrTagProvider), goerr.V("model", c.model))
	}

	c.usage.Add(model.TokenUsage{
		InputTokens:  msg.Usage.InputTokens,
		OutputTokens: msg.Usage.OutputTokens,
	})

	var sb strings.Builder
	for _, block := range msg.Content {
		if block.Type == "text" {
			sb.WriteString(block.Text)
		}
	}
	if sb.Len() == 0 {
		return "", goerr.New("anthropic returned no text content",
			goerr.T(types.ErrTagProvider), goerr.V("model", c.model))
	}

	return sb.String(), nil
}

func (c *anthropicClient) Usage() model.TokenUsage {
	return c.usage
}

func (c *anthropicClient) Provider() string {
	return types.ProviderAnthropic.String()
}
