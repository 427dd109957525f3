package http

import (
	"context"

	"github.com/NeuralTrust/toolhub/pkg/app/aggregator"
	"github.com/NeuralTrust/toolhub/pkg/app/oracle"
	"github.com/NeuralTrust/toolhub/pkg/app/toolserver"
	"github.com/NeuralTrust/toolhub/pkg/domain/agent"
	"github.com/NeuralTrust/toolhub/pkg/domain/tool"
	"github.com/gofiber/fiber/v2"
)

type Handler interface {
	Handle(ctx *fiber.Ctx) error
}

// ToolServer is the part of toolserver.Service the HTTP layer drives.
type ToolServer interface {
	Slot() string
	ListTools(ctx context.Context) toolserver.Catalog
	CheckTools(ctx context.Context) toolserver.CheckReport
	Execute(ctx context.Context, toolName string, args map[string]interface{}) (*toolserver.ExecutionResult, error)
	Health(ctx context.Context) toolserver.Health
	Info(ctx context.Context) (*toolserver.Info, error)
	RegisterTool(ctx context.Context, t tool.Tool) (*tool.Tool, error)
	UpdateTool(ctx context.Context, id string, update tool.Update) (*tool.Tool, error)
	DeleteTool(ctx context.Context, id string) error
}

// Aggregator is the part of aggregator.Service the HTTP layer drives.
type Aggregator interface {
	ListServers(ctx context.Context) aggregator.ServerList
	ServerStatus(ctx context.Context, name string) (*aggregator.ServerStatus, error)
	ServerTools(ctx context.Context, name string) (*aggregator.ServerTools, error)
	SelectServer(ctx context.Context, name, rawURL string) (*aggregator.Selected, error)
	ExecuteTool(ctx context.Context, toolName, serverName string, args map[string]interface{}) (*aggregator.Execution, error)
	Ask(ctx context.Context, question, agentID string) (*aggregator.Answer, error)

	CreateTool(ctx context.Context, serverName string, t tool.Tool) (*tool.Tool, error)
	UpdateTool(ctx context.Context, id string, update tool.Update) (*tool.Tool, error)
	DeleteTool(ctx context.Context, id string) error

	CreateAgent(ctx context.Context, a agent.Agent) (*agent.Agent, error)
	ListAgents(ctx context.Context) []agent.Agent
	GetAgent(ctx context.Context, id string) (*aggregator.AgentDetail, error)
	UpdateAgent(ctx context.Context, id string, update agent.Update) (*agent.Agent, error)
	DeleteAgent(ctx context.Context, id string) error
	LinkServer(ctx context.Context, agentID, serverID string) error
	UnlinkServer(ctx context.Context, agentID, serverID string) error
	AgentServers(ctx context.Context, agentID string) []aggregator.View
	RegisterServerByURL(ctx context.Context, agentID, rawURL string) (*aggregator.View, error)
}

// OracleConsole backs the /api/oracle endpoints.
type OracleConsole interface {
	Status() oracle.Status
	Chat(ctx context.Context, message string) (*oracle.ChatReply, error)
	Models(ctx context.Context) ([]string, error)
}

// ToolServerTransport holds the handlers of a tool server role.
type ToolServerTransport struct {
	HealthHandler       Handler
	InfoHandler         Handler
	ListToolsHandler    Handler
	CheckToolsHandler   Handler
	RegisterToolHandler Handler
	UpdateToolHandler   Handler
	DeleteToolHandler   Handler
	CallToolHandler     Handler
	SSEHandler          Handler
	GetVersionHandler   Handler
}

// AggregatorTransport holds the handlers of the aggregator role.
type AggregatorTransport struct {
	IndexHandler Handler

	// Servers
	ListServersHandler  Handler
	ServerStatusHandler Handler
	ServerToolsHandler  Handler
	SelectServerHandler Handler

	// Tools
	ExecuteToolHandler    Handler
	ExecuteToolGetHandler Handler
	CreateToolHandler     Handler
	UpdateToolHandler     Handler
	DeleteToolHandler     Handler

	// Ask
	AskHandler    Handler
	AskGetHandler Handler

	// Agents
	CreateAgentHandler      Handler
	ListAgentsHandler       Handler
	GetAgentHandler         Handler
	UpdateAgentHandler      Handler
	DeleteAgentHandler      Handler
	LinkServerHandler       Handler
	LinkServerByURLHandler  Handler
	ListAgentServersHandler Handler
	UnlinkServerHandler     Handler

	// Oracle
	OracleStatusHandler Handler
	OracleChatHandler   Handler
	OracleModelsHandler Handler

	GetVersionHandler Handler
}
