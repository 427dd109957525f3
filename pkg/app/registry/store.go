package registry

import (
	"context"
	"errors"
	"time"

	"github.com/NeuralTrust/toolhub/pkg/domain"
	"github.com/NeuralTrust/toolhub/pkg/domain/agent"
	"github.com/NeuralTrust/toolhub/pkg/domain/server"
	"github.com/NeuralTrust/toolhub/pkg/domain/tool"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

const pingTimeout = 2 * time.Second

//go:generate mockery --name=Store --dir=. --output=./mocks --filename=store_mock.go --case=underscore --with-expecter
type Store interface {
	GetServerByName(ctx context.Context, name string) *server.Annotated
	GetServerByID(ctx context.Context, id string) *server.Annotated
	GetServerByURL(ctx context.Context, url string) *server.Annotated
	ListServers(ctx context.Context) []server.Annotated
	CreateServer(ctx context.Context, data server.Server) (*server.Annotated, error)

	GetTools(ctx context.Context, serverID string) []tool.Tool
	GetTool(ctx context.Context, serverID, name string) *tool.Tool
	GetToolByID(ctx context.Context, id string) *tool.Tool
	CountTools(ctx context.Context, serverID string) int
	RegisterTool(ctx context.Context, data tool.Tool) (*tool.Tool, error)
	UpdateTool(ctx context.Context, id string, data tool.Update) (*tool.Tool, error)
	DeleteTool(ctx context.Context, id string) (bool, error)

	CreateAgent(ctx context.Context, data agent.Agent) (*agent.Agent, error)
	ListAgents(ctx context.Context) []agent.Agent
	GetAgent(ctx context.Context, id string) *agent.Agent
	UpdateAgent(ctx context.Context, id string, data agent.Update) (*agent.Agent, error)
	DeleteAgent(ctx context.Context, id string) (bool, error)

	LinkAgentServer(ctx context.Context, agentID, serverID string) (bool, error)
	UnlinkAgentServer(ctx context.Context, agentID, serverID string) (bool, error)
	ServersForAgent(ctx context.Context, agentID string) []server.Annotated

	Ping(ctx context.Context) bool
}

// Pinger reports whether the backing database is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

type StoreDeps struct {
	Servers server.Repository
	Tools   tool.Repository
	Agents  agent.Repository
	Pinger  Pinger
	Slots   server.SlotTable
	Logger  *logrus.Logger
}

type store struct {
	servers server.Repository
	tools   tool.Repository
	agents  agent.Repository
	pinger  Pinger
	slots   server.SlotTable
	logger  *logrus.Logger
}

func NewStore(deps StoreDeps) Store {
	slots := deps.Slots
	if len(slots.Rules) == 0 {
		slots = server.DefaultSlotTable
	}
	logger := deps.Logger
	if logger == nil {
		logger = logrus.New()
	}
	return &store{
		servers: deps.Servers,
		tools:   deps.Tools,
		agents:  deps.Agents,
		pinger:  deps.Pinger,
		slots:   slots,
		logger:  logger,
	}
}

func (s *store) GetServerByName(ctx context.Context, name string) *server.Annotated {
	if s.slots.IsSlot(name) {
		all, err := s.servers.List(ctx)
		if err != nil {
			_ = s.settle(opGetServerByName, err)
			return nil
		}
		found, ok := s.slots.Resolve(name, all)
		if !ok {
			return nil
		}
		annotated := s.slots.Annotate(*found)
		return &annotated
	}
	found, err := s.servers.GetByName(ctx, name)
	if err != nil {
		_ = s.settle(opGetServerByName, err)
		return nil
	}
	annotated := s.slots.Annotate(*found)
	return &annotated
}

func (s *store) GetServerByID(ctx context.Context, id string) *server.Annotated {
	found, err := s.servers.Get(ctx, id)
	if err != nil {
		_ = s.settle(opGetServerByID, err)
		return nil
	}
	annotated := s.slots.Annotate(*found)
	return &annotated
}

func (s *store) GetServerByURL(ctx context.Context, url string) *server.Annotated {
	found, err := s.servers.GetByURL(ctx, url)
	if err != nil {
		_ = s.settle(opGetServerByURL, err)
		return nil
	}
	annotated := s.slots.Annotate(*found)
	return &annotated
}

func (s *store) ListServers(ctx context.Context) []server.Annotated {
	all, err := s.servers.List(ctx)
	if err != nil {
		_ = s.settle(opListServers, err)
		return []server.Annotated{}
	}
	return s.annotateAll(all)
}

func (s *store) CreateServer(ctx context.Context, data server.Server) (*server.Annotated, error) {
	if data.ID == "" {
		data.ID = uuid.NewString()
	}
	if err := s.servers.Create(ctx, &data); err != nil {
		return nil, s.settle(opCreateServer, err)
	}
	annotated := s.slots.Annotate(data)
	return &annotated, nil
}

func (s *store) GetTools(ctx context.Context, serverID string) []tool.Tool {
	tools, err := s.tools.ListByServer(ctx, serverID)
	if err != nil {
		_ = s.settle(opGetTools, err)
		return []tool.Tool{}
	}
	if tools == nil {
		return []tool.Tool{}
	}
	return tools
}

func (s *store) GetTool(ctx context.Context, serverID, name string) *tool.Tool {
	found, err := s.tools.GetByName(ctx, serverID, name)
	if err != nil {
		_ = s.settle(opGetTool, err)
		return nil
	}
	return found
}

func (s *store) GetToolByID(ctx context.Context, id string) *tool.Tool {
	found, err := s.tools.Get(ctx, id)
	if err != nil {
		_ = s.settle(opGetToolByID, err)
		return nil
	}
	return found
}

func (s *store) CountTools(ctx context.Context, serverID string) int {
	count, err := s.tools.CountByServer(ctx, serverID)
	if err != nil {
		_ = s.settle(opCountTools, err)
		return 0
	}
	return int(count)
}

func (s *store) RegisterTool(ctx context.Context, data tool.Tool) (*tool.Tool, error) {
	if data.ID == "" {
		data.ID = uuid.NewString()
	}
	if data.Parameters == nil {
		data.Parameters = tool.Parameters{}
	}
	if err := s.tools.Create(ctx, &data); err != nil {
		return nil, s.settle(opRegisterTool, err)
	}
	return &data, nil
}

func (s *store) UpdateTool(ctx context.Context, id string, data tool.Update) (*tool.Tool, error) {
	existing, err := s.tools.Get(ctx, id)
	if err != nil {
		if domain.IsNotFoundError(err) {
			return nil, nil
		}
		return nil, s.settle(opUpdateTool, err)
	}
	existing.Apply(data)
	if existing.Parameters == nil {
		existing.Parameters = tool.Parameters{}
	}
	if err := s.tools.Update(ctx, existing); err != nil {
		if domain.IsNotFoundError(err) {
			return nil, nil
		}
		return nil, s.settle(opUpdateTool, err)
	}
	return existing, nil
}

func (s *store) DeleteTool(ctx context.Context, id string) (bool, error) {
	deleted, err := s.tools.Delete(ctx, id)
	if err != nil {
		return false, s.settle(opDeleteTool, err)
	}
	return deleted, nil
}

func (s *store) CreateAgent(ctx context.Context, data agent.Agent) (*agent.Agent, error) {
	if data.ID == "" {
		data.ID = uuid.NewString()
	}
	if err := s.agents.Create(ctx, &data); err != nil {
		return nil, s.settle(opCreateAgent, err)
	}
	return &data, nil
}

func (s *store) ListAgents(ctx context.Context) []agent.Agent {
	agents, err := s.agents.List(ctx)
	if err != nil {
		_ = s.settle(opListAgents, err)
		return []agent.Agent{}
	}
	if agents == nil {
		return []agent.Agent{}
	}
	return agents
}

func (s *store) GetAgent(ctx context.Context, id string) *agent.Agent {
	found, err := s.agents.Get(ctx, id)
	if err != nil {
		_ = s.settle(opGetAgent, err)
		return nil
	}
	return found
}

func (s *store) UpdateAgent(ctx context.Context, id string, data agent.Update) (*agent.Agent, error) {
	existing, err := s.agents.Get(ctx, id)
	if err != nil {
		if domain.IsNotFoundError(err) {
			return nil, nil
		}
		return nil, s.settle(opUpdateAgent, err)
	}
	existing.Name = data.Name
	existing.Description = data.Description
	if err := s.agents.Update(ctx, existing); err != nil {
		if domain.IsNotFoundError(err) {
			return nil, nil
		}
		return nil, s.settle(opUpdateAgent, err)
	}
	return existing, nil
}

func (s *store) DeleteAgent(ctx context.Context, id string) (bool, error) {
	deleted, err := s.agents.Delete(ctx, id)
	if err != nil {
		return false, s.settle(opDeleteAgent, err)
	}
	return deleted, nil
}

func (s *store) LinkAgentServer(ctx context.Context, agentID, serverID string) (bool, error) {
	if err := s.agents.Link(ctx, agentID, serverID); err != nil {
		return false, s.settle(opLinkAgentServer, err)
	}
	return true, nil
}

func (s *store) UnlinkAgentServer(ctx context.Context, agentID, serverID string) (bool, error) {
	removed, err := s.agents.Unlink(ctx, agentID, serverID)
	if err != nil {
		return false, s.settle(opUnlinkAgentServer, err)
	}
	return removed, nil
}

func (s *store) ServersForAgent(ctx context.Context, agentID string) []server.Annotated {
	servers, err := s.servers.ListByAgent(ctx, agentID)
	if err != nil {
		_ = s.settle(opServersForAgent, err)
		return []server.Annotated{}
	}
	return s.annotateAll(servers)
}

func (s *store) Ping(ctx context.Context) bool {
	if s.pinger == nil {
		return false
	}
	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	if err := s.pinger.Ping(pingCtx); err != nil {
		_ = s.settle(opPing, err)
		return false
	}
	return true
}

func (s *store) annotateAll(servers []server.Server) []server.Annotated {
	out := make([]server.Annotated, 0, len(servers))
	for _, srv := range servers {
		out = append(out, s.slots.Annotate(srv))
	}
	return out
}

// settle applies the failure policy of op to err. Reads and probes are
// logged and swallowed (nil); writes come back as *domain.StoreError.
func (s *store) settle(op string, err error) error {
	if err == nil {
		return nil
	}
	storeErr := asStoreError(op, err)
	entry := s.logger.WithError(err).WithFields(logrus.Fields{
		"op":   op,
		"kind": storeErr.Kind,
	})

	switch policyFor(op) {
	case policyRead, policyProbe:
		if storeErr.Kind == domain.StoreNotFound {
			entry.Debug("registry lookup found nothing")
		} else {
			entry.Error("registry read failed")
		}
		return nil
	default:
		entry.Error("registry write failed")
		return storeErr
	}
}

func asStoreError(op string, err error) *domain.StoreError {
	var storeErr *domain.StoreError
	if errors.As(err, &storeErr) {
		return storeErr
	}
	return domain.NewStoreError(domain.StoreConnectionFailed, op, err)
}
