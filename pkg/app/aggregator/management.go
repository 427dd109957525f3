package aggregator

import (
	"context"
	"strings"

	"github.com/NeuralTrust/toolhub/pkg/domain"
	"github.com/NeuralTrust/toolhub/pkg/domain/agent"
	"github.com/NeuralTrust/toolhub/pkg/domain/server"
	"github.com/NeuralTrust/toolhub/pkg/domain/tool"
	"github.com/google/uuid"
)

// CreateTool registers t on the server named serverName.
func (s *Service) CreateTool(ctx context.Context, serverName string, t tool.Tool) (*tool.Tool, error) {
	if strings.TrimSpace(serverName) == "" {
		return nil, domain.NewBadRequestError("server_name is required")
	}
	if strings.TrimSpace(t.Name) == "" {
		return nil, domain.NewBadRequestError("name is required")
	}
	resolved := s.store.GetServerByName(ctx, serverName)
	if resolved == nil {
		return nil, domain.NotFoundf("Server '%s' not found", serverName)
	}
	t.ServerID = resolved.ID
	return s.store.RegisterTool(ctx, t)
}

func (s *Service) UpdateTool(ctx context.Context, id string, update tool.Update) (*tool.Tool, error) {
	if strings.TrimSpace(update.Name) == "" {
		return nil, domain.NewBadRequestError("name is required")
	}
	updated, err := s.store.UpdateTool(ctx, id, update)
	if err != nil {
		return nil, err
	}
	if updated == nil {
		return nil, domain.NotFoundf("Tool not found")
	}
	return updated, nil
}

func (s *Service) DeleteTool(ctx context.Context, id string) error {
	deleted, err := s.store.DeleteTool(ctx, id)
	if err != nil {
		return err
	}
	if !deleted {
		return domain.NotFoundf("Tool not found")
	}
	return nil
}

// AgentDetail is an agent with the servers linked to it.
type AgentDetail struct {
	agent.Agent
	Servers []View `json:"servers"`
}

func (s *Service) CreateAgent(ctx context.Context, a agent.Agent) (*agent.Agent, error) {
	if strings.TrimSpace(a.Name) == "" {
		return nil, domain.NewBadRequestError("name is required")
	}
	a.ID = ""
	return s.store.CreateAgent(ctx, a)
}

func (s *Service) ListAgents(ctx context.Context) []agent.Agent {
	return s.store.ListAgents(ctx)
}

func (s *Service) GetAgent(ctx context.Context, id string) (*AgentDetail, error) {
	found := s.store.GetAgent(ctx, id)
	if found == nil {
		return nil, domain.NotFoundf("Agent not found")
	}
	return &AgentDetail{Agent: *found, Servers: viewsOf(s.store.ServersForAgent(ctx, id))}, nil
}

func (s *Service) UpdateAgent(ctx context.Context, id string, update agent.Update) (*agent.Agent, error) {
	if strings.TrimSpace(update.Name) == "" {
		return nil, domain.NewBadRequestError("name is required")
	}
	updated, err := s.store.UpdateAgent(ctx, id, update)
	if err != nil {
		return nil, err
	}
	if updated == nil {
		return nil, domain.NotFoundf("Agent not found")
	}
	return updated, nil
}

func (s *Service) DeleteAgent(ctx context.Context, id string) error {
	deleted, err := s.store.DeleteAgent(ctx, id)
	if err != nil {
		return err
	}
	if !deleted {
		return domain.NotFoundf("Agent not found")
	}
	return nil
}

// LinkServer attaches an existing server to an agent. Linking twice is
// not an error.
func (s *Service) LinkServer(ctx context.Context, agentID, serverID string) error {
	if strings.TrimSpace(serverID) == "" {
		return domain.NewBadRequestError("server_id is required")
	}
	if s.store.GetAgent(ctx, agentID) == nil {
		return domain.NotFoundf("Agent not found")
	}
	if s.store.GetServerByID(ctx, serverID) == nil {
		return domain.NotFoundf("Server not found")
	}
	_, err := s.store.LinkAgentServer(ctx, agentID, serverID)
	return err
}

func (s *Service) UnlinkServer(ctx context.Context, agentID, serverID string) error {
	removed, err := s.store.UnlinkAgentServer(ctx, agentID, serverID)
	if err != nil {
		return err
	}
	if !removed {
		return domain.NotFoundf("Server not found for this agent")
	}
	return nil
}

func (s *Service) AgentServers(ctx context.Context, agentID string) []View {
	return viewsOf(s.store.ServersForAgent(ctx, agentID))
}

// RegisterServerByURL links the server at rawURL to an agent, creating
// it first when no registry row has that url. New servers are named from
// the top-level name of their /tools response.
func (s *Service) RegisterServerByURL(ctx context.Context, agentID, rawURL string) (*View, error) {
	rawURL = strings.TrimRight(strings.TrimSpace(rawURL), "/")
	if rawURL == "" {
		return nil, domain.NewBadRequestError("url is required")
	}
	if s.store.GetAgent(ctx, agentID) == nil {
		return nil, domain.NotFoundf("Agent not found")
	}

	existing := s.store.GetServerByURL(ctx, rawURL)
	if existing == nil {
		name, err := s.probeName(ctx, rawURL)
		if err != nil {
			return nil, err
		}
		existing, err = s.store.CreateServer(ctx, server.Server{
			ID:      uuid.NewString(),
			Name:    name,
			URL:     rawURL,
			Status:  server.StatusConnected,
			Enabled: true,
		})
		if err != nil {
			return nil, err
		}
		s.logger.WithField("server_id", existing.ID).WithField("url", rawURL).Info("registered server by url")
	}

	if _, err := s.store.LinkAgentServer(ctx, agentID, existing.ID); err != nil {
		return nil, err
	}
	view := viewOf(*existing)
	return &view, nil
}
