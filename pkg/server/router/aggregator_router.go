package router

import (
	handlers "github.com/NeuralTrust/toolhub/pkg/handlers/http"
	"github.com/NeuralTrust/toolhub/pkg/middleware"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/swagger"
)

const SwaggerPath = "/swagger.json"

type aggregatorRouter struct {
	middlewareTransport *middleware.Transport
	handlerTransport    *handlers.AggregatorTransport
	swaggerFile         string
}

// NewAggregatorRouter mounts the aggregator API. swaggerFile is the
// generated OpenAPI document served at /swagger.json and rendered under
// /docs; an empty path disables both.
func NewAggregatorRouter(
	middlewareTransport *middleware.Transport,
	handlerTransport *handlers.AggregatorTransport,
	swaggerFile string,
) ServerRouter {
	return &aggregatorRouter{
		middlewareTransport: middlewareTransport,
		handlerTransport:    handlerTransport,
		swaggerFile:         swaggerFile,
	}
}

func (r *aggregatorRouter) BuildRoutes(router *fiber.App) error {
	if r.handlerTransport == nil {
		return ErrInvalidHandlerTransport
	}
	t := r.handlerTransport

	if r.swaggerFile != "" {
		router.Static(SwaggerPath, r.swaggerFile)
		router.Get("/docs/*", swagger.New(swagger.Config{URL: SwaggerPath}))
	}

	if mws := r.middlewareTransport.GetMiddlewares(); len(mws) > 0 {
		router.Use(mws...)
	}

	router.Get("/", t.IndexHandler.Handle)
	router.Get("/api", t.IndexHandler.Handle)
	router.Get("/version", t.GetVersionHandler.Handle)

	servers := router.Group("/servers")
	{
		servers.Get("", t.ListServersHandler.Handle)
		servers.Get("/:name/status", t.ServerStatusHandler.Handle)
		servers.Get("/:name/tools", t.ServerToolsHandler.Handle)
	}
	router.Post("/select-server", t.SelectServerHandler.Handle)

	tools := router.Group("/tools")
	{
		tools.Post("", t.CreateToolHandler.Handle)
		tools.Post("/execute", t.ExecuteToolHandler.Handle)
		tools.Get("/:name/execute", t.ExecuteToolGetHandler.Handle)
		tools.Put("/:id", t.UpdateToolHandler.Handle)
		tools.Delete("/:id", t.DeleteToolHandler.Handle)
	}

	router.Post("/ask", t.AskHandler.Handle)
	router.Get("/ask", t.AskGetHandler.Handle)

	agents := router.Group("/agents")
	{
		agents.Post("", t.CreateAgentHandler.Handle)
		agents.Get("", t.ListAgentsHandler.Handle)
		agents.Get("/:id", t.GetAgentHandler.Handle)
		agents.Put("/:id", t.UpdateAgentHandler.Handle)
		agents.Delete("/:id", t.DeleteAgentHandler.Handle)
		agents.Get("/:id/servers", t.ListAgentServersHandler.Handle)
		agents.Post("/:id/servers", t.LinkServerHandler.Handle)
		agents.Post("/:id/servers/by_url", t.LinkServerByURLHandler.Handle)
		agents.Delete("/:id/servers/:server_id", t.UnlinkServerHandler.Handle)
	}

	oracle := router.Group("/api/oracle")
	{
		oracle.Get("/status", t.OracleStatusHandler.Handle)
		oracle.Post("/chat", t.OracleChatHandler.Handle)
		oracle.Get("/models", t.OracleModelsHandler.Handle)
	}
	return nil
}
