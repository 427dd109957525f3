package mocks

import (
	"context"

	"github.com/NeuralTrust/toolhub/pkg/domain/agent"
	"github.com/stretchr/testify/mock"
)

type Repository struct {
	mock.Mock
}

func (m *Repository) Create(ctx context.Context, a *agent.Agent) error {
	args := m.Called(ctx, a)
	return args.Error(0)
}

func (m *Repository) List(ctx context.Context) ([]agent.Agent, error) {
	args := m.Called(ctx)
	list, _ := args.Get(0).([]agent.Agent)
	return list, args.Error(1)
}

func (m *Repository) Get(ctx context.Context, id string) (*agent.Agent, error) {
	args := m.Called(ctx, id)
	a, _ := args.Get(0).(*agent.Agent)
	return a, args.Error(1)
}

func (m *Repository) Update(ctx context.Context, a *agent.Agent) error {
	args := m.Called(ctx, a)
	return args.Error(0)
}

func (m *Repository) Delete(ctx context.Context, id string) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

func (m *Repository) Link(ctx context.Context, agentID, serverID string) error {
	args := m.Called(ctx, agentID, serverID)
	return args.Error(0)
}

func (m *Repository) Unlink(ctx context.Context, agentID, serverID string) (bool, error) {
	args := m.Called(ctx, agentID, serverID)
	return args.Bool(0), args.Error(1)
}
