package mocks

import (
	"context"

	"github.com/NeuralTrust/toolhub/pkg/domain/tool"
	"github.com/stretchr/testify/mock"
)

type Repository struct {
	mock.Mock
}

func (m *Repository) Get(ctx context.Context, id string) (*tool.Tool, error) {
	args := m.Called(ctx, id)
	t, _ := args.Get(0).(*tool.Tool)
	return t, args.Error(1)
}

func (m *Repository) GetByName(ctx context.Context, serverID, name string) (*tool.Tool, error) {
	args := m.Called(ctx, serverID, name)
	t, _ := args.Get(0).(*tool.Tool)
	return t, args.Error(1)
}

func (m *Repository) ListByServer(ctx context.Context, serverID string) ([]tool.Tool, error) {
	args := m.Called(ctx, serverID)
	list, _ := args.Get(0).([]tool.Tool)
	return list, args.Error(1)
}

func (m *Repository) CountByServer(ctx context.Context, serverID string) (int64, error) {
	args := m.Called(ctx, serverID)
	n, _ := args.Get(0).(int64)
	return n, args.Error(1)
}

func (m *Repository) Create(ctx context.Context, t *tool.Tool) error {
	args := m.Called(ctx, t)
	return args.Error(0)
}

func (m *Repository) Update(ctx context.Context, t *tool.Tool) error {
	args := m.Called(ctx, t)
	return args.Error(0)
}

func (m *Repository) Delete(ctx context.Context, id string) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}
