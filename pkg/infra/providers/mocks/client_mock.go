package mocks

import (
	"context"

	"github.com/NeuralTrust/toolhub/pkg/infra/providers"
	"github.com/stretchr/testify/mock"
)

type Client struct {
	mock.Mock
}

func (m *Client) Ask(ctx context.Context, config *providers.Config, prompt string) (*providers.Completion, error) {
	args := m.Called(ctx, config, prompt)
	resp, _ := args.Get(0).(*providers.Completion)
	return resp, args.Error(1)
}

func (m *Client) ListModels(ctx context.Context, config *providers.Config) ([]string, error) {
	args := m.Called(ctx, config)
	models, _ := args.Get(0).([]string)
	return models, args.Error(1)
}
