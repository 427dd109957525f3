package providers

import (
	"context"
	"errors"
)

var (
	ErrMissingAPIKey = errors.New("API key is required")
	ErrNoCompletion  = errors.New("no completions returned")
)

type Config struct {
	Credentials  Credentials `json:"credentials"`
	Model        string      `json:"model"`
	MaxTokens    int         `json:"max_tokens,omitempty"`
	Temperature  float64     `json:"temperature,omitempty"`
	SystemPrompt string      `json:"system_prompt,omitempty"`
	// BaseURL overrides the provider endpoint; empty means the SDK default.
	BaseURL string `json:"base_url,omitempty"`
}

type Credentials struct {
	APIKey string `json:"api_key"`
}

// Completion is the first candidate text a provider returned for a prompt.
type Completion struct {
	ID    string `json:"id"`
	Model string `json:"model"`
	Text  string `json:"text"`
	Usage Usage  `json:"usage"`
}

// Usage counts tokens as reported by the provider; zero when it reports none.
type Usage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
}

//go:generate mockery --name=Client --dir=. --output=./mocks --filename=client_mock.go --case=underscore --with-expecter

type Client interface {
	Ask(ctx context.Context, config *Config, prompt string) (*Completion, error)
	ListModels(ctx context.Context, config *Config) ([]string, error)
}
