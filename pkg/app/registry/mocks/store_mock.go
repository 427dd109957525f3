package mocks

import (
	"context"

	"github.com/NeuralTrust/toolhub/pkg/domain/agent"
	"github.com/NeuralTrust/toolhub/pkg/domain/server"
	"github.com/NeuralTrust/toolhub/pkg/domain/tool"
	"github.com/stretchr/testify/mock"
)

type Store struct {
	mock.Mock
}

func (m *Store) GetServerByName(ctx context.Context, name string) *server.Annotated {
	s, _ := m.Called(ctx, name).Get(0).(*server.Annotated)
	return s
}

func (m *Store) GetServerByID(ctx context.Context, id string) *server.Annotated {
	s, _ := m.Called(ctx, id).Get(0).(*server.Annotated)
	return s
}

func (m *Store) GetServerByURL(ctx context.Context, url string) *server.Annotated {
	s, _ := m.Called(ctx, url).Get(0).(*server.Annotated)
	return s
}

func (m *Store) ListServers(ctx context.Context) []server.Annotated {
	list, _ := m.Called(ctx).Get(0).([]server.Annotated)
	return list
}

func (m *Store) CreateServer(ctx context.Context, data server.Server) (*server.Annotated, error) {
	args := m.Called(ctx, data)
	s, _ := args.Get(0).(*server.Annotated)
	return s, args.Error(1)
}

func (m *Store) GetTools(ctx context.Context, serverID string) []tool.Tool {
	list, _ := m.Called(ctx, serverID).Get(0).([]tool.Tool)
	return list
}

func (m *Store) GetTool(ctx context.Context, serverID, name string) *tool.Tool {
	t, _ := m.Called(ctx, serverID, name).Get(0).(*tool.Tool)
	return t
}

func (m *Store) GetToolByID(ctx context.Context, id string) *tool.Tool {
	t, _ := m.Called(ctx, id).Get(0).(*tool.Tool)
	return t
}

func (m *Store) CountTools(ctx context.Context, serverID string) int {
	return m.Called(ctx, serverID).Int(0)
}

func (m *Store) RegisterTool(ctx context.Context, data tool.Tool) (*tool.Tool, error) {
	args := m.Called(ctx, data)
	t, _ := args.Get(0).(*tool.Tool)
	return t, args.Error(1)
}

func (m *Store) UpdateTool(ctx context.Context, id string, data tool.Update) (*tool.Tool, error) {
	args := m.Called(ctx, id, data)
	t, _ := args.Get(0).(*tool.Tool)
	return t, args.Error(1)
}

func (m *Store) DeleteTool(ctx context.Context, id string) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

func (m *Store) CreateAgent(ctx context.Context, data agent.Agent) (*agent.Agent, error) {
	args := m.Called(ctx, data)
	a, _ := args.Get(0).(*agent.Agent)
	return a, args.Error(1)
}

func (m *Store) ListAgents(ctx context.Context) []agent.Agent {
	list, _ := m.Called(ctx).Get(0).([]agent.Agent)
	return list
}

func (m *Store) GetAgent(ctx context.Context, id string) *agent.Agent {
	a, _ := m.Called(ctx, id).Get(0).(*agent.Agent)
	return a
}

func (m *Store) UpdateAgent(ctx context.Context, id string, data agent.Update) (*agent.Agent, error) {
	args := m.Called(ctx, id, data)
	a, _ := args.Get(0).(*agent.Agent)
	return a, args.Error(1)
}

func (m *Store) DeleteAgent(ctx context.Context, id string) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

func (m *Store) LinkAgentServer(ctx context.Context, agentID, serverID string) (bool, error) {
	args := m.Called(ctx, agentID, serverID)
	return args.Bool(0), args.Error(1)
}

func (m *Store) UnlinkAgentServer(ctx context.Context, agentID, serverID string) (bool, error) {
	args := m.Called(ctx, agentID, serverID)
	return args.Bool(0), args.Error(1)
}

func (m *Store) ServersForAgent(ctx context.Context, agentID string) []server.Annotated {
	list, _ := m.Called(ctx, agentID).Get(0).([]server.Annotated)
	return list
}

func (m *Store) Ping(ctx context.Context) bool {
	return m.Called(ctx).Bool(0)
}
