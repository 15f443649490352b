package llm

import (
	"context"

	"github.com/m-mizutani/goerr/v2"
	openai "github.com/sashabaranov/go-openai"

	"github.com/driftwatch/driftwatch/pkg/domain/model"
	"github.com/driftwatch/driftwatch/pkg/domain/types"
)

const defaultOpenAIModel = "gpt-4o-mini"

type openAIClient struct {
	client *openai.Client
	model  string
	usage  model.TokenUsage
}

func newOpenAIClient(apiKey, modelName string) *openAIClient {
	if modelName == "" {
		modelName = defaultOpenAIModel
	}
	return &openAIClient{
		client: openai.NewClient(apiKey),
		model:  modelName,
	}
}

func (c *openAIClient) GenerateAnalysis(ctx context.Context, systemPrompt, prompt string) (string, error) {
	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       c.model,
		Temperature: 0.1,
		MaxTokens:   4000,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
	})
	if err != nil {
		return "", goerr.Wrap(err, "openai chat completion failed",
			goerr.T(types.ErrTagProvider), goerr.V("model", c.model))
	}
	if len(resp.Choices) == 0 {
		return "", goerr.New("openai returned no choices",
			goerr.T(types.ErrTagProvider), goerr.V("model", c.model))
	}

	c.usage.Add(model.TokenUsage{
		InputTokens:  int64(resp.Usage.PromptTokens),
		OutputTokens: int64(resp.Usage.CompletionTokens),
	})

	return resp.Choices[0].Message.Content, nil
}

func (c *openAIClient) Usage() model.TokenUsage {
	return c.usage
}

func (c *openAIClient) Provider() string {
	return types.ProviderOpenAI.String()
}
