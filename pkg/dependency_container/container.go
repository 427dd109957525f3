package dependency_container

import (
	"context"
	"fmt"

	"github.com/NeuralTrust/toolhub/pkg/app/aggregator"
	"github.com/NeuralTrust/toolhub/pkg/app/oracle"
	"github.com/NeuralTrust/toolhub/pkg/app/registry"
	"github.com/NeuralTrust/toolhub/pkg/app/toolserver"
	"github.com/NeuralTrust/toolhub/pkg/config"
	"github.com/NeuralTrust/toolhub/pkg/domain/execution"
	"github.com/NeuralTrust/toolhub/pkg/domain/server"
	handlers "github.com/NeuralTrust/toolhub/pkg/handlers/http"
	"github.com/NeuralTrust/toolhub/pkg/infra/cache"
	"github.com/NeuralTrust/toolhub/pkg/infra/database"
	"github.com/NeuralTrust/toolhub/pkg/infra/executionlog"
	"github.com/NeuralTrust/toolhub/pkg/infra/httpx"
	providersFactory "github.com/NeuralTrust/toolhub/pkg/infra/providers/factory"
	"github.com/NeuralTrust/toolhub/pkg/infra/repository"
	"github.com/NeuralTrust/toolhub/pkg/middleware"
	"github.com/NeuralTrust/toolhub/pkg/server/router"
	"github.com/go-redis/redis/v8"
	mcpserver "github.com/mark3labs/mcp-go/server"
	"github.com/sirupsen/logrus"
)

// Container holds what every role shares: the registry store, the
// execution log sinks and the middleware chain.
type Container struct {
	Cfg    *config.Config
	Logger *logrus.Logger
	Store  registry.Store
	Sink   execution.Sink
	Client httpx.Client
	Redis  *redis.Client

	PanicRecoverMiddleware middleware.Middleware
	MetricsMiddleware      middleware.Middleware
	NoCacheMiddleware      middleware.Middleware
}

type ContainerDI struct {
	Cfg    *config.Config
	Logger *logrus.Logger
	DB     *database.DB
	// Role labels metrics and picks the role-specific wiring.
	Role string
}

func NewContainer(di ContainerDI) (*Container, error) {
	store := registry.NewStore(registry.StoreDeps{
		Servers: repository.NewServerRepository(di.DB.DB),
		Tools:   repository.NewToolRepository(di.DB.DB),
		Agents:  repository.NewAgentRepository(di.DB.DB),
		Pinger:  di.DB,
		Logger:  di.Logger,
	})

	sinks := []execution.Sink{executionlog.NewLogSink(di.Logger)}
	if di.Cfg.Metrics.Enabled {
		sinks = append(sinks, executionlog.NewMetricsSink())
	}

	var redisClient *redis.Client
	if di.Cfg.Redis.Enabled {
		var err error
		redisClient, err = cache.NewClient(cache.Config{
			Host:     di.Cfg.Redis.Host,
			Port:     di.Cfg.Redis.Port,
			Password: di.Cfg.Redis.Password,
			DB:       di.Cfg.Redis.DB,
		}, di.Logger)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize redis: %w", err)
		}
		sinks = append(sinks, executionlog.NewRedisSink(redisClient, di.Cfg.Redis.ExecutionLogSize))
	}

	return &Container{
		Cfg:    di.Cfg,
		Logger: di.Logger,
		Store:  store,
		Sink:   executionlog.NewMultiSink(di.Logger, sinks...),
		Client: httpx.NewFastHTTPClient(
			httpx.WithTimeout(di.Cfg.Timeouts.Execute),
			httpx.WithUserAgent("toolhub/"+di.Role),
		),
		Redis:                  redisClient,
		PanicRecoverMiddleware: middleware.NewPanicRecoverMiddleware(di.Logger),
		MetricsMiddleware:      middleware.NewMetricsMiddleware(di.Logger, di.Role),
		NoCacheMiddleware:      middleware.NewNoCacheMiddleware(),
	}, nil
}

// Close releases the redis connection, if any.
func (c *Container) Close() error {
	if c.Redis == nil {
		return nil
	}
	return c.Redis.Close()
}

// ToolServerRouter wires the tool server bound to slot. SSE streams end
// when shutdown is closed.
func (c *Container) ToolServerRouter(ctx context.Context, slot string, shutdown <-chan struct{}) (router.ServerRouter, error) {
	svc, err := toolserver.NewService(ctx, toolserver.ServiceDeps{
		Store:  c.Store,
		Slot:   slot,
		Port:   c.Cfg.PortFor(slot),
		Sink:   c.Sink,
		Remote: toolserver.NewRemoteExecutor(c.Client, c.Cfg.Timeouts.Execute),
		Logger: c.Logger,
	})
	if err != nil {
		return nil, err
	}
	bridge := toolserver.NewMCPBridge(ctx, svc, c.Logger)

	transport := &handlers.ToolServerTransport{
		HealthHandler:       handlers.NewHealthHandler(svc),
		InfoHandler:         handlers.NewInfoHandler(c.Logger, svc),
		ListToolsHandler:    handlers.NewListToolsHandler(svc),
		CheckToolsHandler:   handlers.NewCheckToolsHandler(svc),
		RegisterToolHandler: handlers.NewRegisterToolHandler(c.Logger, svc),
		UpdateToolHandler:   handlers.NewUpdateToolHandler(c.Logger, svc),
		DeleteToolHandler:   handlers.NewDeleteToolHandler(c.Logger, svc),
		CallToolHandler:     handlers.NewCallToolHandler(c.Logger, svc),
		SSEHandler:          handlers.NewSSEHandler(c.Logger, slot, c.Cfg.ToolServer.HeartbeatInterval, shutdown),
		GetVersionHandler:   handlers.NewGetVersionHandler(),
	}
	return router.NewToolServerRouter(
		middleware.NewTransport(c.PanicRecoverMiddleware, c.MetricsMiddleware),
		transport,
		mcpserver.NewStreamableHTTPServer(bridge.Server()),
	), nil
}

// AggregatorRouter wires the aggregator and its oracle. swaggerFile is
// served under /docs when set.
func (c *Container) AggregatorRouter(swaggerFile string) (router.ServerRouter, error) {
	client, err := providersFactory.NewProviderLocator().Get(c.Cfg.Oracle.Provider)
	if err != nil {
		return nil, err
	}
	llm, err := oracle.NewLLM(client, oracle.Config{
		Provider:    c.Cfg.Oracle.Provider,
		Model:       c.Cfg.Oracle.Model,
		APIKey:      c.Cfg.Oracle.APIKey,
		MaxTokens:   c.Cfg.Oracle.MaxTokens,
		Temperature: c.Cfg.Oracle.Temperature,
	}, c.Logger)
	if err != nil {
		return nil, err
	}

	agg := aggregator.NewService(aggregator.Deps{
		Store:  c.Store,
		Oracle: llm,
		Client: c.Client,
		Timeouts: aggregator.Timeouts{
			Health:  c.Cfg.Timeouts.Health,
			Catalog: c.Cfg.Timeouts.Catalog,
			Execute: c.Cfg.Timeouts.Execute,
			Probe:   c.Cfg.Timeouts.Probe,
		},
		Logger: c.Logger,
	})

	transport := &handlers.AggregatorTransport{
		IndexHandler: handlers.NewIndexHandler(server.DefaultSlotTable, c.Cfg.Server.Host),

		ListServersHandler:  handlers.NewListServersHandler(agg),
		ServerStatusHandler: handlers.NewServerStatusHandler(c.Logger, agg),
		ServerToolsHandler:  handlers.NewServerToolsHandler(c.Logger, agg),
		SelectServerHandler: handlers.NewSelectServerHandler(c.Logger, agg),

		ExecuteToolHandler:    handlers.NewExecuteToolHandler(c.Logger, agg),
		ExecuteToolGetHandler: handlers.NewExecuteToolGetHandler(c.Logger, agg),
		CreateToolHandler:     handlers.NewCreateToolHandler(c.Logger, agg),
		UpdateToolHandler:     handlers.NewAggregatorUpdateToolHandler(c.Logger, agg),
		DeleteToolHandler:     handlers.NewAggregatorDeleteToolHandler(c.Logger, agg),

		AskHandler:    handlers.NewAskHandler(c.Logger, agg),
		AskGetHandler: handlers.NewAskGetHandler(c.Logger, agg),

		CreateAgentHandler:      handlers.NewCreateAgentHandler(c.Logger, agg),
		ListAgentsHandler:       handlers.NewListAgentsHandler(agg),
		GetAgentHandler:         handlers.NewGetAgentHandler(c.Logger, agg),
		UpdateAgentHandler:      handlers.NewUpdateAgentHandler(c.Logger, agg),
		DeleteAgentHandler:      handlers.NewDeleteAgentHandler(c.Logger, agg),
		LinkServerHandler:       handlers.NewLinkServerHandler(c.Logger, agg),
		LinkServerByURLHandler:  handlers.NewLinkServerByURLHandler(c.Logger, agg),
		ListAgentServersHandler: handlers.NewListAgentServersHandler(agg),
		UnlinkServerHandler:     handlers.NewUnlinkServerHandler(c.Logger, agg),

		OracleStatusHandler: handlers.NewOracleStatusHandler(llm),
		OracleChatHandler:   handlers.NewOracleChatHandler(c.Logger, llm),
		OracleModelsHandler: handlers.NewOracleModelsHandler(c.Logger, llm),

		GetVersionHandler: handlers.NewGetVersionHandler(),
	}

	c.Logger.WithFields(logrus.Fields{
		"provider": c.Cfg.Oracle.Provider,
		"model":    c.Cfg.Oracle.Model,
	}).Info("oracle configured")

	chain := []middleware.Middleware{c.PanicRecoverMiddleware, c.MetricsMiddleware, c.NoCacheMiddleware}
	if c.Redis != nil && c.Cfg.RateLimit.Enabled {
		chain = append(chain, middleware.NewRateLimitMiddleware(c.Logger, c.Redis, middleware.RateLimitConfig{
			Limit:  c.Cfg.RateLimit.Limit,
			Window: c.Cfg.RateLimit.Window,
			Paths:  []string{"/ask", "/api/oracle/chat"},

			TrustProxyHeaders: c.Cfg.RateLimit.TrustProxyHeaders,
		}, nil))
	} else if c.Cfg.RateLimit.Enabled {
		c.Logger.Warn("rate limiting requires redis, skipping")
	}

	return router.NewAggregatorRouter(
		middleware.NewTransport(chain...),
		transport,
		swaggerFile,
	), nil
}
