package http

import (
	"context"
	"encoding/json"
	nethttp "net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/NeuralTrust/toolhub/pkg/app/aggregator"
	"github.com/NeuralTrust/toolhub/pkg/app/oracle"
	oraclemocks "github.com/NeuralTrust/toolhub/pkg/app/oracle/mocks"
	registrymocks "github.com/NeuralTrust/toolhub/pkg/app/registry/mocks"
	"github.com/NeuralTrust/toolhub/pkg/domain"
	"github.com/NeuralTrust/toolhub/pkg/domain/agent"
	"github.com/NeuralTrust/toolhub/pkg/domain/server"
	"github.com/NeuralTrust/toolhub/pkg/domain/tool"
	"github.com/NeuralTrust/toolhub/pkg/infra/httpx"
	"github.com/NeuralTrust/toolhub/pkg/middleware"
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type stubConsole struct {
	status oracle.Status
	reply  *oracle.ChatReply
	err    error
	models []string
}

func (s *stubConsole) Status() oracle.Status { return s.status }

func (s *stubConsole) Chat(_ context.Context, msg string) (*oracle.ChatReply, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.reply, nil
}

func (s *stubConsole) Models(context.Context) ([]string, error) { return s.models, s.err }

func newAggregatorApp(t *testing.T, console OracleConsole) (*fiber.App, *registrymocks.Store) {
	t.Helper()
	logger, _ := test.NewNullLogger()
	store := new(registrymocks.Store)
	svc := aggregator.NewService(aggregator.Deps{
		Store:  store,
		Oracle: new(oraclemocks.SelectionOracle),
		Client: httpx.NewFastHTTPClient(),
		Timeouts: aggregator.Timeouts{
			Health:  time.Second,
			Catalog: time.Second,
			Execute: time.Second,
			Probe:   time.Second,
		},
		Logger: logger,
	})

	app := fiber.New()
	app.Use(middleware.NewNoCacheMiddleware().Middleware())
	app.Get("/api", NewIndexHandler(server.DefaultSlotTable, "").Handle)
	app.Get("/servers", NewListServersHandler(svc).Handle)
	app.Post("/ask", NewAskHandler(logger, svc).Handle)
	app.Get("/ask", NewAskGetHandler(logger, svc).Handle)
	app.Post("/tools", NewCreateToolHandler(logger, svc).Handle)
	app.Post("/tools/execute", NewExecuteToolHandler(logger, svc).Handle)
	app.Get("/tools/:name/execute", NewExecuteToolGetHandler(logger, svc).Handle)
	app.Delete("/tools/:id", NewAggregatorDeleteToolHandler(logger, svc).Handle)
	app.Post("/agents", NewCreateAgentHandler(logger, svc).Handle)
	app.Get("/agents/:id", NewGetAgentHandler(logger, svc).Handle)
	app.Post("/agents/:id/servers", NewLinkServerHandler(logger, svc).Handle)
	app.Delete("/agents/:id/servers/:server_id", NewUnlinkServerHandler(logger, svc).Handle)
	if console != nil {
		app.Get("/api/oracle/status", NewOracleStatusHandler(console).Handle)
		app.Post("/api/oracle/chat", NewOracleChatHandler(logger, console).Handle)
		app.Get("/api/oracle/models", NewOracleModelsHandler(logger, console).Handle)
	}
	return app, store
}

func TestAggregator_Index(t *testing.T) {
	app, _ := newAggregatorApp(t, nil)

	resp, err := app.Test(httptest.NewRequest("GET", "/api", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, "no-cache, no-store, must-revalidate", resp.Header.Get("Cache-Control"))

	var body map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	servers := body["servers"].(map[string]interface{})
	slotB := servers[server.SlotB].(map[string]interface{})
	assert.Equal(t, "http://localhost:3002", slotB["url"])
	assert.Contains(t, body["endpoints"], "ask_question")
}

func TestAggregator_ListServers(t *testing.T) {
	app, store := newAggregatorApp(t, nil)
	store.On("ListServers", mock.Anything).Return([]server.Annotated{
		server.DefaultSlotTable.Annotate(server.Server{ID: "s1", Name: "MCP Server 2", URL: "http://localhost:3002", Enabled: true}),
	})

	status, body := doJSON(t, app, "GET", "/servers", nil)
	assert.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, float64(1), body["total_servers"])
}

func TestAggregator_Ask(t *testing.T) {
	t.Run("question is required", func(t *testing.T) {
		app, _ := newAggregatorApp(t, nil)
		status, body := doJSON(t, app, "POST", "/ask", map[string]interface{}{"agent_id": "a1"})
		assert.Equal(t, fiber.StatusBadRequest, status)
		assert.Equal(t, "question is required", body["error"])
	})

	t.Run("agent without servers", func(t *testing.T) {
		app, store := newAggregatorApp(t, nil)
		store.On("ServersForAgent", mock.Anything, "a1").Return([]server.Annotated{})

		status, body := doJSON(t, app, "GET", "/ask?question=time&agent_id=a1", nil)
		assert.Equal(t, fiber.StatusNotFound, status)
		assert.Equal(t, "No servers found for this agent", body["error"])
	})
}

func TestAggregator_Agents(t *testing.T) {
	t.Run("create", func(t *testing.T) {
		app, store := newAggregatorApp(t, nil)
		store.On("CreateAgent", mock.Anything, mock.MatchedBy(func(a agent.Agent) bool {
			return a.Name == "demo" && a.ID == ""
		})).Return(&agent.Agent{ID: "a1", Name: "demo"}, nil)

		status, body := doJSON(t, app, "POST", "/agents", map[string]interface{}{"name": "  demo  "})
		assert.Equal(t, fiber.StatusCreated, status)
		assert.Equal(t, "Agent created successfully", body["message"])
		assert.Equal(t, "a1", body["agent"].(map[string]interface{})["id"])
	})

	t.Run("create without name", func(t *testing.T) {
		app, store := newAggregatorApp(t, nil)
		status, body := doJSON(t, app, "POST", "/agents", map[string]interface{}{"name": " "})
		assert.Equal(t, fiber.StatusBadRequest, status)
		assert.Equal(t, "name is required", body["error"])
		store.AssertNotCalled(t, "CreateAgent", mock.Anything, mock.Anything)
	})

	t.Run("get missing", func(t *testing.T) {
		app, store := newAggregatorApp(t, nil)
		store.On("GetAgent", mock.Anything, "ghost").Return(nil)

		status, body := doJSON(t, app, "GET", "/agents/ghost", nil)
		assert.Equal(t, fiber.StatusNotFound, status)
		assert.Equal(t, "Agent not found", body["error"])
	})

	t.Run("link requires server_id", func(t *testing.T) {
		app, _ := newAggregatorApp(t, nil)
		status, body := doJSON(t, app, "POST", "/agents/a1/servers", map[string]interface{}{})
		assert.Equal(t, fiber.StatusBadRequest, status)
		assert.Equal(t, "server_id is required", body["error"])
	})

	t.Run("unlink unknown", func(t *testing.T) {
		app, store := newAggregatorApp(t, nil)
		store.On("UnlinkAgentServer", mock.Anything, "a1", "s9").Return(false, nil)

		status, body := doJSON(t, app, "DELETE", "/agents/a1/servers/s9", nil)
		assert.Equal(t, fiber.StatusNotFound, status)
		assert.Equal(t, "Server not found for this agent", body["error"])
	})
}

func TestAggregator_Tools(t *testing.T) {
	t.Run("create requires server_name", func(t *testing.T) {
		app, _ := newAggregatorApp(t, nil)
		status, body := doJSON(t, app, "POST", "/tools", map[string]interface{}{"name": "lookup"})
		assert.Equal(t, fiber.StatusBadRequest, status)
		assert.Equal(t, "server_name is required", body["error"])
	})

	t.Run("create on unknown server", func(t *testing.T) {
		app, store := newAggregatorApp(t, nil)
		store.On("GetServerByName", mock.Anything, "ghost").Return(nil)

		status, body := doJSON(t, app, "POST", "/tools", map[string]interface{}{"name": "lookup", "server_name": "ghost"})
		assert.Equal(t, fiber.StatusNotFound, status)
		assert.Equal(t, "Server 'ghost' not found", body["error"])
	})

	t.Run("delete missing", func(t *testing.T) {
		app, store := newAggregatorApp(t, nil)
		store.On("DeleteTool", mock.Anything, "t9").Return(false, nil)

		status, body := doJSON(t, app, "DELETE", "/tools/t9", nil)
		assert.Equal(t, fiber.StatusNotFound, status)
		assert.Equal(t, "Tool not found", body["error"])
	})

	t.Run("execute requires tool_name", func(t *testing.T) {
		app, _ := newAggregatorApp(t, nil)
		status, body := doJSON(t, app, "POST", "/tools/execute", map[string]interface{}{"server": "server_b"})
		assert.Equal(t, fiber.StatusBadRequest, status)
		assert.Equal(t, "tool_name is required", body["error"])
	})

	t.Run("execute with query arguments", func(t *testing.T) {
		ts := httptest.NewServer(nethttp.HandlerFunc(func(w nethttp.ResponseWriter, r *nethttp.Request) {
			var call struct {
				Name      string                 `json:"name"`
				Arguments map[string]interface{} `json:"arguments"`
			}
			assert.Equal(t, "/tools/call", r.URL.Path)
			assert.NoError(t, json.NewDecoder(r.Body).Decode(&call))
			assert.Equal(t, "get_time", call.Name)
			assert.Equal(t, "Paris", call.Arguments["location"])
			assert.NotContains(t, call.Arguments, "server")
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"content":["{\"current_time\": \"12:00\"}"],"success":true}`))
		}))
		defer ts.Close()

		app, store := newAggregatorApp(t, nil)
		bound := server.DefaultSlotTable.Annotate(server.Server{ID: "x1", Name: "serverX", URL: ts.URL, Enabled: true})
		store.On("GetServerByName", mock.Anything, "serverX").Return(&bound)
		store.On("GetTool", mock.Anything, "x1", "get_time").Return(&tool.Tool{ID: "t1", Name: "get_time"})

		status, body := doJSON(t, app, "GET", "/tools/get_time/execute?server=serverX&location=Paris", nil)
		assert.Equal(t, fiber.StatusOK, status)
		assert.Equal(t, "success", body["status"])
		assert.Equal(t, "serverX", body["server"])
		assert.Equal(t, "get_time", body["tool"])
	})
}

func TestAggregator_Oracle(t *testing.T) {
	console := &stubConsole{
		status: oracle.Status{Available: true, Provider: "gemini", Model: "gemini-2.0-flash", Breaker: "closed"},
		reply:  &oracle.ChatReply{Response: "hi", Model: "gemini-2.0-flash", Status: "success"},
		models: []string{"gemini-2.0-flash"},
	}
	app, _ := newAggregatorApp(t, console)

	status, body := doJSON(t, app, "GET", "/api/oracle/status", nil)
	assert.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, "gemini", body["provider"])

	status, body = doJSON(t, app, "POST", "/api/oracle/chat", map[string]interface{}{"message": "hello"})
	assert.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, "hi", body["response"])

	status, body = doJSON(t, app, "POST", "/api/oracle/chat", map[string]interface{}{})
	assert.Equal(t, fiber.StatusBadRequest, status)
	assert.Equal(t, "message is required", body["error"])

	status, body = doJSON(t, app, "GET", "/api/oracle/models", nil)
	assert.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, []interface{}{"gemini-2.0-flash"}, body["models"])

	console.err = domain.NewServiceUnavailableError("Oracle unavailable", nil)
	status, body = doJSON(t, app, "POST", "/api/oracle/chat", map[string]interface{}{"message": "hello"})
	assert.Equal(t, fiber.StatusServiceUnavailable, status)
	assert.Equal(t, "Oracle unavailable", body["error"])
}
