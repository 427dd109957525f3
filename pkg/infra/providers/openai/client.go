package openai

import (
	"context"
	"fmt"
	"sync"

	"github.com/NeuralTrust/toolhub/pkg/infra/providers"
	"github.com/openai/openai-go/v2"
	"github.com/openai/openai-go/v2/option"
)

type client struct {
	clientPool *sync.Map
}

func NewOpenaiClient() providers.Client {
	return &client{
		clientPool: &sync.Map{},
	}
}

func (c *client) Ask(
	ctx context.Context,
	config *providers.Config,
	prompt string,
) (*providers.Completion, error) {
	if config.Credentials.APIKey == "" {
		return nil, providers.ErrMissingAPIKey
	}
	if config.Model == "" {
		return nil, fmt.Errorf("model is required")
	}

	openaiClient := c.getOrCreateClient(config)

	var messages []openai.ChatCompletionMessageParamUnion

	if config.SystemPrompt != "" {
		messages = append(messages, openai.SystemMessage(config.SystemPrompt))
	}

	if prompt != "" {
		messages = append(messages, openai.UserMessage(prompt))
	}

	params := openai.ChatCompletionNewParams{
		Model:    config.Model,
		Messages: messages,
	}

	if config.MaxTokens > 0 {
		params.MaxTokens = openai.Int(int64(config.MaxTokens))
	}

	if config.Temperature > 0 {
		params.Temperature = openai.Float(config.Temperature)
	}

	resp, err := openaiClient.Chat.Completions.New(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("OpenAI request failed: %w", err)
	}

	if len(resp.Choices) == 0 {
		return nil, providers.ErrNoCompletion
	}

	return &providers.Completion{
		ID:       resp.ID,
		Model:    resp.Model,
		Text:     resp.Choices[0].Message.Content,
		Usage: providers.Usage{
			PromptTokens:     int(resp.Usage.PromptTokens),
			CompletionTokens: int(resp.Usage.CompletionTokens),
		},
	}, nil
}

func (c *client) ListModels(ctx context.Context, config *providers.Config) ([]string, error) {
	if config.Credentials.APIKey == "" {
		return nil, providers.ErrMissingAPIKey
	}
	page, err := c.getOrCreateClient(config).Models.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("OpenAI model listing failed: %w", err)
	}
	models := make([]string, 0, len(page.Data))
	for _, m := range page.Data {
		models = append(models, m.ID)
	}
	return models, nil
}

func (c *client) getOrCreateClient(config *providers.Config) openai.Client {
	key := config.Credentials.APIKey + "|" + config.BaseURL
	if clientVal, ok := c.clientPool.Load(key); ok {
		if existing, ok := clientVal.(openai.Client); ok {
			return existing
		}
	}
	opts := []option.RequestOption{option.WithAPIKey(config.Credentials.APIKey)}
	if config.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(config.BaseURL))
	}
	newClient := openai.NewClient(opts...)
	c.clientPool.Store(key, newClient)
	return newClient
}
