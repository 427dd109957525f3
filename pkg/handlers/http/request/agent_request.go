package request

import (
	"strings"

	"github.com/NeuralTrust/toolhub/pkg/domain/agent"
)

type AgentRequest struct {
	Name        string `json:"name" validate:"notblank"`
	Description string `json:"description"`
}

func (r *AgentRequest) Validate() error {
	return validateStruct(r)
}

func (r *AgentRequest) Agent() agent.Agent {
	return agent.Agent{Name: strings.TrimSpace(r.Name), Description: r.Description}
}

func (r *AgentRequest) Update() agent.Update {
	return agent.Update{Name: strings.TrimSpace(r.Name), Description: r.Description}
}

type LinkServerRequest struct {
	ServerID string `json:"server_id" validate:"notblank"`
}

func (r *LinkServerRequest) Validate() error {
	return validateStruct(r)
}

type ServerByURLRequest struct {
	URL string `json:"url" validate:"notblank"`
}

func (r *ServerByURLRequest) Validate() error {
	return validateStruct(r)
}
