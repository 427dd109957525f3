package toolserver_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	registrymocks "github.com/NeuralTrust/toolhub/pkg/app/registry/mocks"
	"github.com/NeuralTrust/toolhub/pkg/app/toolserver"
	"github.com/NeuralTrust/toolhub/pkg/domain"
	"github.com/NeuralTrust/toolhub/pkg/domain/domaintest"
	"github.com/NeuralTrust/toolhub/pkg/domain/execution"
	"github.com/NeuralTrust/toolhub/pkg/domain/server"
	"github.com/NeuralTrust/toolhub/pkg/domain/tool"
	"github.com/NeuralTrust/toolhub/pkg/infra/httpx"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const utilityID = "f2f47d1f-3fcd-4cee-b560-2a89f510a6f2"

var fixedNow = time.Date(2025, 10, 1, 9, 30, 0, 0, time.UTC)

type recordingSink struct {
	mu      sync.Mutex
	entries []execution.Log
}

func (r *recordingSink) Record(_ context.Context, entry execution.Log) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = append(r.entries, entry)
	return nil
}

func utilityServer() *server.Annotated {
	a := server.DefaultSlotTable.Annotate(server.Server{ID: utilityID, Name: "MCP Server 2", URL: "http://localhost:3002", Enabled: true})
	return &a
}

func newService(t *testing.T, store *registrymocks.Store, sink execution.Sink) *toolserver.Service {
	t.Helper()
	logger, _ := test.NewNullLogger()
	store.On("GetServerByName", mock.Anything, server.SlotB).Return(utilityServer())
	svc, err := toolserver.NewService(context.Background(), toolserver.ServiceDeps{
		Store:  store,
		Slot:   server.SlotB,
		Sink:   sink,
		Remote: toolserver.NewRemoteExecutor(httpx.NewFastHTTPClient(), 5*time.Second),
		Logger: logger,
		Now:    func() time.Time { return fixedNow },
	})
	require.NoError(t, err)
	return svc
}

func TestNewService_FailsWhenSlotMissing(t *testing.T) {
	store := new(registrymocks.Store)
	store.On("GetServerByName", mock.Anything, server.SlotA).Return(nil)

	_, err := toolserver.NewService(context.Background(), toolserver.ServiceDeps{Store: store, Slot: server.SlotA})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "server_a not found in registry")

	_, err = toolserver.NewService(context.Background(), toolserver.ServiceDeps{Store: store, Slot: "server_z"})
	domaintest.AssertKind(t, err, domain.ErrConfiguration)
}

func TestService_ListTools(t *testing.T) {
	store := new(registrymocks.Store)
	svc := newService(t, store, &recordingSink{})
	store.On("GetTools", mock.Anything, utilityID).Return([]tool.Tool{
		{ID: "t1", Name: "get_weather", Parameters: tool.Parameters{
			{Name: "location", Type: "string", Description: "City", Required: true},
			{Name: "units", Type: "string", Description: "Units"},
		}},
	})

	catalog := svc.ListTools(context.Background())
	require.Len(t, catalog.Tools, 1)
	d := catalog.Tools[0]
	assert.Equal(t, "Tool: get_weather", d.Description)
	assert.Equal(t, server.SlotB, d.ServerName)
	assert.Equal(t, []string{"operation", "location"}, d.InputSchema.Required)

	raw, err := json.Marshal(d.InputSchema)
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"type": "object",
		"properties": {
			"operation": {"type": "string", "description": "Operation to perform", "enum": ["execute", "info"]},
			"location": {"type": "string", "description": "City"},
			"units": {"type": "string", "description": "Units"}
		},
		"required": ["operation", "location"]
	}`, string(raw))
}

func TestService_ListToolsOnStoreOutage(t *testing.T) {
	store := new(registrymocks.Store)
	svc := newService(t, store, &recordingSink{})
	store.On("GetTools", mock.Anything, utilityID).Return([]tool.Tool{})

	catalog := svc.ListTools(context.Background())
	assert.NotNil(t, catalog.Tools)
	assert.Empty(t, catalog.Tools)
}

func TestService_ExecuteUnknownToolIsNotFound(t *testing.T) {
	store := new(registrymocks.Store)
	sink := &recordingSink{}
	svc := newService(t, store, sink)
	store.On("GetTool", mock.Anything, utilityID, "nonexistent_tool").Return(nil)

	result, err := svc.Execute(context.Background(), "nonexistent_tool", map[string]interface{}{})
	assert.Nil(t, result)
	domaintest.AssertKind(t, err, domain.ErrNotFound)
	assert.Equal(t, http.StatusNotFound, domain.HTTPStatus(err))
	assert.Empty(t, sink.entries)
}

func TestService_ExecuteWeather(t *testing.T) {
	store := new(registrymocks.Store)
	sink := &recordingSink{}
	svc := newService(t, store, sink)
	store.On("GetTool", mock.Anything, utilityID, "get_weather").Return(&tool.Tool{ID: "t1", Name: "get_weather", ServerID: utilityID})

	result, err := svc.Execute(context.Background(), "get_weather", map[string]interface{}{"operation": "execute", "location": "Paris"})
	require.NoError(t, err)
	require.True(t, result.Success)
	assert.False(t, result.IsError)
	require.Len(t, result.Content, 1)
	assert.Contains(t, result.Content[0], "\n  \"location\": \"Paris\"")

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(result.Content[0]), &body))
	assert.Equal(t, "Paris", body["location"])
	assert.Equal(t, "Server B", body["server"])

	require.Len(t, sink.entries, 1)
	assert.Equal(t, execution.StatusSuccess, sink.entries[0].Status)
	assert.Equal(t, "t1", sink.entries[0].ToolID)
}

func TestService_ExecuteFailureIsData(t *testing.T) {
	store := new(registrymocks.Store)
	sink := &recordingSink{}
	svc := newService(t, store, sink)
	store.On("GetTool", mock.Anything, utilityID, "get_weather").Return(&tool.Tool{ID: "t1", Name: "get_weather"})

	result, err := svc.Execute(context.Background(), "get_weather", map[string]interface{}{"operation": "info"})
	require.NoError(t, err)
	assert.False(t, result.Success)
	assert.True(t, result.IsError)
	assert.Equal(t, []string{"Error: unknown weather operation: info"}, result.Content)

	require.Len(t, sink.entries, 1)
	assert.Equal(t, execution.StatusError, sink.entries[0].Status)
	assert.Equal(t, "unknown weather operation: info", sink.entries[0].Error)
}

type panickingBuiltin struct{}

func (panickingBuiltin) Execute(string, map[string]interface{}) (map[string]interface{}, error) {
	panic("division by zero")
}

func TestService_ExecuteRecoversHandlerPanic(t *testing.T) {
	store := new(registrymocks.Store)
	sink := &recordingSink{}
	store.On("GetServerByName", mock.Anything, server.SlotB).Return(utilityServer())
	logger, _ := test.NewNullLogger()
	svc, err := toolserver.NewService(context.Background(), toolserver.ServiceDeps{
		Store:    store,
		Slot:     server.SlotB,
		Sink:     sink,
		Builtins: toolserver.Builtins{"broken": panickingBuiltin{}},
		Logger:   logger,
	})
	require.NoError(t, err)
	store.On("GetTool", mock.Anything, utilityID, "broken").Return(&tool.Tool{ID: "t9", Name: "broken"})

	result, err := svc.Execute(context.Background(), "broken", nil)
	require.NoError(t, err)
	assert.True(t, result.IsError)
	assert.Contains(t, result.Content[0], "division by zero")
	assert.Len(t, sink.entries, 1)
}

func TestService_ExecuteRegisteredToolWithoutHandler(t *testing.T) {
	store := new(registrymocks.Store)
	sink := &recordingSink{}
	svc := newService(t, store, sink)
	store.On("GetTool", mock.Anything, utilityID, "get_quote").Return(&tool.Tool{ID: "t2", Name: "get_quote"})

	result, err := svc.Execute(context.Background(), "get_quote", nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"Error: unknown tool: get_quote"}, result.Content)
	assert.Len(t, sink.entries, 1)
}

func TestService_ExecuteRemoteTool(t *testing.T) {
	remote := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/quotes/AAPL", r.URL.Path)
		assert.Equal(t, "AAPL", r.URL.Query().Get("ticker"))
		assert.Equal(t, "demo", r.Header.Get("X-Api-Key"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"price": 189.5}`))
	}))
	defer remote.Close()

	store := new(registrymocks.Store)
	sink := &recordingSink{}
	svc := newService(t, store, sink)
	apiURL := remote.URL + "/quotes/{ticker}"
	store.On("GetTool", mock.Anything, utilityID, "get_quote").Return(&tool.Tool{
		ID: "t3", Name: "get_quote", APIURL: &apiURL,
		RequestHeaders: domain.HeadersJSON{"X-Api-Key": "demo"},
	})

	result, err := svc.Execute(context.Background(), "get_quote", map[string]interface{}{"ticker": "AAPL"})
	require.NoError(t, err)
	require.True(t, result.Success)
	assert.JSONEq(t, `{"price": 189.5}`, result.Content[0])
}

func TestService_Health(t *testing.T) {
	store := new(registrymocks.Store)
	svc := newService(t, store, &recordingSink{})
	store.On("Ping", mock.Anything).Return(false)

	health := svc.Health(context.Background())
	assert.Equal(t, "healthy", health.Status)
	assert.Equal(t, "Server B", health.Server)
	assert.Equal(t, 3002, health.Port)
	assert.Equal(t, "disconnected", health.Database)
}

func TestService_Info(t *testing.T) {
	store := new(registrymocks.Store)
	svc := newService(t, store, &recordingSink{})
	store.On("CountTools", mock.Anything, utilityID).Return(5)
	store.On("GetTools", mock.Anything, utilityID).Return([]tool.Tool{{ID: "t1", Name: "get_time"}})

	info, err := svc.Info(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 5, info.ToolsCount)
	assert.Equal(t, server.SlotB, info.Server.ServerName)
	assert.Len(t, info.ActiveTools, 1)
}

func TestService_ToolManagement(t *testing.T) {
	ctx := context.Background()
	store := new(registrymocks.Store)
	svc := newService(t, store, &recordingSink{})

	var changes int
	svc.OnCatalogChange(func(context.Context) { changes++ })

	t.Run("register forces the server id", func(t *testing.T) {
		store.On("RegisterTool", ctx, mock.MatchedBy(func(in tool.Tool) bool {
			return in.ServerID == utilityID && in.ID == "" && in.Name == "lookup"
		})).Return(&tool.Tool{ID: "new", Name: "lookup", ServerID: utilityID}, nil).Once()

		created, err := svc.RegisterTool(ctx, tool.Tool{ID: "client-chosen", Name: "lookup", ServerID: "other"})
		require.NoError(t, err)
		assert.Equal(t, "new", created.ID)
		assert.Equal(t, 1, changes)
	})

	t.Run("register without name", func(t *testing.T) {
		_, err := svc.RegisterTool(ctx, tool.Tool{})
		domaintest.AssertKind(t, err, domain.ErrBadRequest)
	})

	t.Run("update missing tool", func(t *testing.T) {
		store.On("GetToolByID", ctx, "missing").Return(nil).Once()
		_, err := svc.UpdateTool(ctx, "missing", tool.Update{Name: "x"})
		domaintest.AssertKind(t, err, domain.ErrNotFound)
	})

	t.Run("update vanished between lookup and write", func(t *testing.T) {
		store.On("GetToolByID", ctx, "racing").Return(&tool.Tool{ID: "racing", ServerID: utilityID}).Once()
		store.On("UpdateTool", ctx, "racing", mock.Anything).Return(nil, nil).Once()
		_, err := svc.UpdateTool(ctx, "racing", tool.Update{Name: "x"})
		domaintest.AssertKind(t, err, domain.ErrNotFound)
	})

	t.Run("tools of another server are out of reach", func(t *testing.T) {
		foreign := &tool.Tool{ID: "fin-1", Name: "quote", ServerID: "finance-server-001"}
		store.On("GetToolByID", ctx, "fin-1").Return(foreign).Twice()

		_, err := svc.UpdateTool(ctx, "fin-1", tool.Update{Name: "hijack"})
		domaintest.AssertKind(t, err, domain.ErrNotFound)
		domaintest.AssertKind(t, svc.DeleteTool(ctx, "fin-1"), domain.ErrNotFound)
		store.AssertNotCalled(t, "UpdateTool", ctx, "fin-1", mock.Anything)
		store.AssertNotCalled(t, "DeleteTool", ctx, "fin-1")
	})

	t.Run("delete surfaces store errors", func(t *testing.T) {
		store.On("GetToolByID", ctx, "t1").Return(&tool.Tool{ID: "t1", ServerID: utilityID}).Once()
		storeErr := domain.NewStoreError(domain.StoreConnectionFailed, "delete_tool", errors.New("down"))
		store.On("DeleteTool", ctx, "t1").Return(false, storeErr).Once()
		err := svc.DeleteTool(ctx, "t1")
		assert.Equal(t, http.StatusInternalServerError, domain.HTTPStatus(err))
	})

	t.Run("delete missing tool", func(t *testing.T) {
		store.On("GetToolByID", ctx, "gone").Return(nil).Once()
		domaintest.AssertKind(t, svc.DeleteTool(ctx, "gone"), domain.ErrNotFound)
		assert.Equal(t, 1, changes)
	})
}
