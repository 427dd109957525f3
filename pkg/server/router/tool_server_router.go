package router

import (
	"errors"
	"net/http"

	handlers "github.com/NeuralTrust/toolhub/pkg/handlers/http"
	"github.com/NeuralTrust/toolhub/pkg/middleware"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
)

const (
	HealthPath = "/health"
	MCPPath    = "/mcp"
)

var ErrInvalidHandlerTransport = errors.New("invalid handler transport")

type toolServerRouter struct {
	middlewareTransport *middleware.Transport
	handlerTransport    *handlers.ToolServerTransport
	mcp                 http.Handler
}

// NewToolServerRouter mounts the tool server API. mcp, when set, is served
// under /mcp.
func NewToolServerRouter(
	middlewareTransport *middleware.Transport,
	handlerTransport *handlers.ToolServerTransport,
	mcp http.Handler,
) ServerRouter {
	return &toolServerRouter{
		middlewareTransport: middlewareTransport,
		handlerTransport:    handlerTransport,
		mcp:                 mcp,
	}
}

func (r *toolServerRouter) BuildRoutes(router *fiber.App) error {
	if r.handlerTransport == nil {
		return ErrInvalidHandlerTransport
	}
	t := r.handlerTransport

	if mws := r.middlewareTransport.GetMiddlewares(); len(mws) > 0 {
		router.Use(mws...)
	}

	router.Get(HealthPath, t.HealthHandler.Handle)
	router.Get("/info", t.InfoHandler.Handle)
	router.Get("/version", t.GetVersionHandler.Handle)
	router.Get("/check-tools", t.CheckToolsHandler.Handle)
	router.Get("/sse", t.SSEHandler.Handle)

	tools := router.Group("/tools")
	{
		tools.Get("", t.ListToolsHandler.Handle)
		tools.Post("", t.RegisterToolHandler.Handle)
		tools.Post("/call", t.CallToolHandler.Handle)
		tools.Put("/:id", t.UpdateToolHandler.Handle)
		tools.Delete("/:id", t.DeleteToolHandler.Handle)
	}

	if r.mcp != nil {
		router.All(MCPPath, adaptor.HTTPHandler(r.mcp))
	}
	return nil
}
