package gemini

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/NeuralTrust/toolhub/pkg/infra/providers"
	"google.golang.org/genai"
)

const defaultModel = "gemini-2.5-flash"

type client struct {
	clientPool *sync.Map
}

func NewGeminiClient() providers.Client {
	return &client{clientPool: &sync.Map{}}
}

func (c *client) Ask(
	ctx context.Context,
	config *providers.Config,
	prompt string,
) (*providers.Completion, error) {
	if config.Credentials.APIKey == "" {
		return nil, providers.ErrMissingAPIKey
	}
	genaiClient, err := c.getOrCreateClient(ctx, config)
	if err != nil {
		return nil, err
	}

	model := config.Model
	if model == "" {
		model = defaultModel
	}

	generateConfig := &genai.GenerateContentConfig{}
	var parts []*genai.Part
	if config.SystemPrompt != "" {
		parts = append(parts, &genai.Part{Text: config.SystemPrompt})
	}
	if len(parts) > 0 {
		generateConfig.SystemInstruction = &genai.Content{Parts: parts, Role: "system"}
	}
	if config.MaxTokens > 0 {
		generateConfig.MaxOutputTokens = int32(config.MaxTokens)
	}
	if config.Temperature > 0 {
		generateConfig.Temperature = genai.Ptr(float32(config.Temperature))
	}

	result, err := genaiClient.Models.GenerateContent(ctx, model, genai.Text(prompt), generateConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to generate content: %w", err)
	}

	responseText := strings.TrimSpace(result.Text())
	if responseText == "" {
		return nil, providers.ErrNoCompletion
	}

	resp := &providers.Completion{
		ID:       fmt.Sprintf("gemini-%d", time.Now().UnixNano()),
		Model:    model,
		Text:     responseText,
	}
	if result.UsageMetadata != nil {
		resp.Usage = providers.Usage{
			PromptTokens:     int(result.UsageMetadata.PromptTokenCount),
			CompletionTokens: int(result.UsageMetadata.CandidatesTokenCount),
		}
	}
	return resp, nil
}

// ListModels returns the models that support content generation.
func (c *client) ListModels(ctx context.Context, config *providers.Config) ([]string, error) {
	if config.Credentials.APIKey == "" {
		return nil, providers.ErrMissingAPIKey
	}
	genaiClient, err := c.getOrCreateClient(ctx, config)
	if err != nil {
		return nil, err
	}
	page, err := genaiClient.Models.List(ctx, &genai.ListModelsConfig{})
	if err != nil {
		return nil, fmt.Errorf("failed to list models: %w", err)
	}
	models := make([]string, 0, len(page.Items))
	for _, m := range page.Items {
		for _, action := range m.SupportedActions {
			if action == "generateContent" {
				models = append(models, m.Name)
				break
			}
		}
	}
	return models, nil
}

func (c *client) getOrCreateClient(ctx context.Context, config *providers.Config) (*genai.Client, error) {
	key := config.Credentials.APIKey + "|" + config.BaseURL
	if existing, ok := c.clientPool.Load(key); ok {
		if genaiClient, ok := existing.(*genai.Client); ok {
			return genaiClient, nil
		}
	}
	clientConfig := &genai.ClientConfig{
		APIKey:  config.Credentials.APIKey,
		Backend: genai.BackendGeminiAPI,
	}
	if config.BaseURL != "" {
		clientConfig.HTTPOptions = genai.HTTPOptions{BaseURL: config.BaseURL}
	}
	genaiClient, err := genai.NewClient(ctx, clientConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}
	c.clientPool.Store(key, genaiClient)
	return genaiClient, nil
}
