package toolserver

import (
	"context"
	"encoding/json"
	"strings"
	"sync"

	"github.com/NeuralTrust/toolhub/pkg/version"
	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"
	"github.com/sirupsen/logrus"
)

// MCPBridge publishes the service catalog over the Model Context Protocol.
// The tool set is re-read from the registry before every tools/list and
// tools/call, so rows written by another process show up without a restart.
type MCPBridge struct {
	service *Service
	server  *mcpserver.MCPServer
	logger  *logrus.Logger

	mu          sync.Mutex
	published   bool
	fingerprint string
}

func NewMCPBridge(ctx context.Context, service *Service, logger *logrus.Logger) *MCPBridge {
	b := &MCPBridge{service: service, logger: logger}

	hooks := &mcpserver.Hooks{}
	hooks.AddBeforeListTools(func(ctx context.Context, _ any, _ *mcp.ListToolsRequest) {
		b.Refresh(ctx)
	})
	hooks.AddBeforeCallTool(func(ctx context.Context, _ any, _ *mcp.CallToolRequest) {
		b.Refresh(ctx)
	})

	b.server = mcpserver.NewMCPServer(
		"toolhub-"+service.Slot(),
		version.Version,
		mcpserver.WithToolCapabilities(true),
		mcpserver.WithRecovery(),
		mcpserver.WithHooks(hooks),
	)
	b.Refresh(ctx)
	service.OnCatalogChange(b.Refresh)
	return b
}

func (b *MCPBridge) Server() *mcpserver.MCPServer {
	return b.server
}

// Refresh replaces the published tools with the current catalog. Nothing is
// replaced when the catalog is unchanged, which keeps list_changed
// notifications to real changes.
func (b *MCPBridge) Refresh(ctx context.Context) {
	catalog := b.service.ListTools(ctx)
	tools := make([]mcpserver.ServerTool, 0, len(catalog.Tools))
	var fp strings.Builder
	for _, d := range catalog.Tools {
		schema, err := json.Marshal(d.InputSchema)
		if err != nil {
			b.logger.WithError(err).WithField("tool_name", d.Name).Warn("skipping tool with unencodable schema")
			continue
		}
		fp.WriteString(d.Name)
		fp.WriteByte(0)
		fp.WriteString(d.Description)
		fp.WriteByte(0)
		fp.Write(schema)
		fp.WriteByte('\n')
		tools = append(tools, mcpserver.ServerTool{
			Tool:    mcp.NewToolWithRawSchema(d.Name, d.Description, schema),
			Handler: b.handler(d.Name),
		})
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	if b.published && fp.String() == b.fingerprint {
		return
	}
	b.published = true
	b.fingerprint = fp.String()
	b.server.SetTools(tools...)
	b.logger.WithField("tools", len(tools)).Debug("mcp tool set refreshed")
}

func (b *MCPBridge) handler(name string) mcpserver.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		result, err := b.service.Execute(ctx, name, request.GetArguments())
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return &mcp.CallToolResult{
			Content: []mcp.Content{mcp.NewTextContent(strings.Join(result.Content, "\n"))},
			IsError: result.IsError,
		}, nil
	}
}
