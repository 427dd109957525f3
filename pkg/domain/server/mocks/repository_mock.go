package mocks

import (
	"context"

	"github.com/NeuralTrust/toolhub/pkg/domain/server"
	"github.com/stretchr/testify/mock"
)

type Repository struct {
	mock.Mock
}

func (m *Repository) Get(ctx context.Context, id string) (*server.Server, error) {
	args := m.Called(ctx, id)
	s, _ := args.Get(0).(*server.Server)
	return s, args.Error(1)
}

func (m *Repository) GetByName(ctx context.Context, name string) (*server.Server, error) {
	args := m.Called(ctx, name)
	s, _ := args.Get(0).(*server.Server)
	return s, args.Error(1)
}

func (m *Repository) GetByURL(ctx context.Context, url string) (*server.Server, error) {
	args := m.Called(ctx, url)
	s, _ := args.Get(0).(*server.Server)
	return s, args.Error(1)
}

func (m *Repository) List(ctx context.Context) ([]server.Server, error) {
	args := m.Called(ctx)
	list, _ := args.Get(0).([]server.Server)
	return list, args.Error(1)
}

func (m *Repository) ListByAgent(ctx context.Context, agentID string) ([]server.Server, error) {
	args := m.Called(ctx, agentID)
	list, _ := args.Get(0).([]server.Server)
	return list, args.Error(1)
}

func (m *Repository) Create(ctx context.Context, s *server.Server) error {
	args := m.Called(ctx, s)
	return args.Error(0)
}
