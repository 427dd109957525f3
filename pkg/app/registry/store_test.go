package registry_test

import (
	"context"
	"errors"
	"testing"

	"github.com/NeuralTrust/toolhub/pkg/app/registry"
	"github.com/NeuralTrust/toolhub/pkg/domain"
	"github.com/NeuralTrust/toolhub/pkg/domain/agent"
	agentmocks "github.com/NeuralTrust/toolhub/pkg/domain/agent/mocks"
	"github.com/NeuralTrust/toolhub/pkg/domain/server"
	servermocks "github.com/NeuralTrust/toolhub/pkg/domain/server/mocks"
	"github.com/NeuralTrust/toolhub/pkg/domain/tool"
	toolmocks "github.com/NeuralTrust/toolhub/pkg/domain/tool/mocks"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	servers *servermocks.Repository
	tools   *toolmocks.Repository
	agents  *agentmocks.Repository
	pinger  *stubPinger
	hook    *test.Hook
	store   registry.Store
}

type stubPinger struct{ err error }

func (p *stubPinger) Ping(context.Context) error { return p.err }

func newFixture() *fixture {
	logger, hook := test.NewNullLogger()
	logger.SetLevel(logrus.DebugLevel)
	f := &fixture{
		servers: new(servermocks.Repository),
		tools:   new(toolmocks.Repository),
		agents:  new(agentmocks.Repository),
		pinger:  &stubPinger{},
		hook:    hook,
	}
	f.store = registry.NewStore(registry.StoreDeps{
		Servers: f.servers,
		Tools:   f.tools,
		Agents:  f.agents,
		Pinger:  f.pinger,
		Logger:  logger,
	})
	return f
}

var (
	financeServer = server.Server{ID: "finance-server-001", Name: "finance-server", URL: "http://localhost:3001", Enabled: true}
	utilityServer = server.Server{ID: "f2f47d1f-3fcd-4cee-b560-2a89f510a6f2", Name: "MCP Server 2", URL: "http://localhost:3002", Enabled: true}
	strayServer   = server.Server{ID: "stray", Name: "aaa-unrelated", Enabled: false}
	connErr       = domain.NewStoreError(domain.StoreConnectionFailed, "list", errors.New("connection refused"))
)

func TestStore_GetServerByName(t *testing.T) {
	ctx := context.Background()

	t.Run("slot name resolves through the slot table", func(t *testing.T) {
		f := newFixture()
		f.servers.On("List", ctx).Return([]server.Server{strayServer, financeServer, utilityServer}, nil)

		got := f.store.GetServerByName(ctx, server.SlotB)
		require.NotNil(t, got)
		assert.Equal(t, utilityServer.ID, got.ID)
		assert.Equal(t, server.SlotB, got.ServerName)
		assert.Equal(t, 3002, got.Port)

		got = f.store.GetServerByName(ctx, server.SlotA)
		require.NotNil(t, got)
		assert.Equal(t, financeServer.ID, got.ID)
	})

	t.Run("fallback server fills an otherwise empty slot", func(t *testing.T) {
		f := newFixture()
		f.servers.On("List", ctx).Return([]server.Server{financeServer, strayServer}, nil)

		got := f.store.GetServerByName(ctx, server.SlotB)
		require.NotNil(t, got)
		assert.Equal(t, strayServer.ID, got.ID)
		assert.False(t, got.IsActive)
	})

	t.Run("plain name is an exact lookup", func(t *testing.T) {
		f := newFixture()
		f.servers.On("GetByName", ctx, "finance-server").Return(&financeServer, nil)

		got := f.store.GetServerByName(ctx, "finance-server")
		require.NotNil(t, got)
		assert.Equal(t, server.SlotA, got.ServerName)
		f.servers.AssertNotCalled(t, "List", mock.Anything)
	})

	t.Run("store failure is swallowed and logged", func(t *testing.T) {
		f := newFixture()
		f.servers.On("List", ctx).Return(nil, connErr)

		assert.Nil(t, f.store.GetServerByName(ctx, server.SlotA))
		require.NotNil(t, f.hook.LastEntry())
		assert.Equal(t, logrus.ErrorLevel, f.hook.LastEntry().Level)
	})

	t.Run("missing row is nil without an error log", func(t *testing.T) {
		f := newFixture()
		f.servers.On("GetByName", ctx, "ghost").
			Return(nil, domain.NewStoreError(domain.StoreNotFound, "get", nil))

		assert.Nil(t, f.store.GetServerByName(ctx, "ghost"))
		require.NotNil(t, f.hook.LastEntry())
		assert.Equal(t, logrus.DebugLevel, f.hook.LastEntry().Level)
	})
}

func TestStore_ListServersAgreesWithNameLookup(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	f.servers.On("List", ctx).Return([]server.Server{financeServer, utilityServer}, nil)

	for _, listed := range f.store.ListServers(ctx) {
		resolved := f.store.GetServerByName(ctx, listed.ServerName)
		require.NotNil(t, resolved)
		assert.Equal(t, listed.ID, resolved.ID)
	}
}

func TestStore_ReadFailuresYieldEmptyResults(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	f.servers.On("List", ctx).Return(nil, connErr)
	f.servers.On("ListByAgent", ctx, "a1").Return(nil, connErr)
	f.tools.On("ListByServer", ctx, "s1").Return(nil, connErr)
	f.tools.On("CountByServer", ctx, "s1").Return(int64(0), connErr)
	f.tools.On("Get", ctx, "t1").Return(nil, connErr)
	f.agents.On("List", ctx).Return(nil, connErr)

	assert.Empty(t, f.store.ListServers(ctx))
	assert.NotNil(t, f.store.ListServers(ctx))
	assert.Empty(t, f.store.ServersForAgent(ctx, "a1"))
	assert.NotNil(t, f.store.GetTools(ctx, "s1"))
	assert.Zero(t, f.store.CountTools(ctx, "s1"))
	assert.Nil(t, f.store.GetToolByID(ctx, "t1"))
	assert.NotNil(t, f.store.ListAgents(ctx))
}

func TestStore_WriteFailuresSurfaceStoreErrors(t *testing.T) {
	ctx := context.Background()
	dup := domain.NewStoreError(domain.StoreConstraintViolation, "create", errors.New("duplicate key"))

	t.Run("create server", func(t *testing.T) {
		f := newFixture()
		f.servers.On("Create", ctx, mock.AnythingOfType("*server.Server")).Return(dup)

		got, err := f.store.CreateServer(ctx, server.Server{ID: "finance-server-001", Name: "dup"})
		assert.Nil(t, got)
		var storeErr *domain.StoreError
		require.ErrorAs(t, err, &storeErr)
		assert.Equal(t, domain.StoreConstraintViolation, storeErr.Kind)
	})

	t.Run("unclassified errors become connection failures", func(t *testing.T) {
		f := newFixture()
		f.tools.On("Create", ctx, mock.AnythingOfType("*tool.Tool")).Return(errors.New("boom"))

		_, err := f.store.RegisterTool(ctx, tool.Tool{Name: "x", ServerID: "s"})
		var storeErr *domain.StoreError
		require.ErrorAs(t, err, &storeErr)
		assert.Equal(t, domain.StoreConnectionFailed, storeErr.Kind)
	})
}

func TestStore_RegisterToolAssignsID(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	f.tools.On("Create", ctx, mock.AnythingOfType("*tool.Tool")).Return(nil)

	got, err := f.store.RegisterTool(ctx, tool.Tool{Name: "lookup", ServerID: "s1"})
	require.NoError(t, err)
	assert.NotEmpty(t, got.ID)
	assert.NotNil(t, got.Parameters)
}

func TestStore_UpdateTool(t *testing.T) {
	ctx := context.Background()

	t.Run("absent tool is nil without error", func(t *testing.T) {
		f := newFixture()
		f.tools.On("Get", ctx, "missing").Return(nil, domain.NewStoreError(domain.StoreNotFound, "get", nil))

		got, err := f.store.UpdateTool(ctx, "missing", tool.Update{Name: "x"})
		assert.NoError(t, err)
		assert.Nil(t, got)
	})

	t.Run("replaces every editable field", func(t *testing.T) {
		f := newFixture()
		url := "https://old.example.com"
		existing := &tool.Tool{ID: "t1", Name: "old", Description: "old", ServerID: "s1", APIURL: &url}
		f.tools.On("Get", ctx, "t1").Return(existing, nil)
		f.tools.On("Update", ctx, existing).Return(nil)

		got, err := f.store.UpdateTool(ctx, "t1", tool.Update{Name: "new", Description: "fresh"})
		require.NoError(t, err)
		assert.Equal(t, "new", got.Name)
		assert.Equal(t, "fresh", got.Description)
		assert.Nil(t, got.APIURL)
		assert.Equal(t, "s1", got.ServerID)
	})
}

func TestStore_DeleteTool(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	f.tools.On("Delete", ctx, "t1").Return(true, nil).Once()
	f.tools.On("Delete", ctx, "t1").Return(false, nil).Once()

	deleted, err := f.store.DeleteTool(ctx, "t1")
	require.NoError(t, err)
	assert.True(t, deleted)

	deleted, err = f.store.DeleteTool(ctx, "t1")
	require.NoError(t, err)
	assert.False(t, deleted)
}

func TestStore_Agents(t *testing.T) {
	ctx := context.Background()

	t.Run("create assigns an id", func(t *testing.T) {
		f := newFixture()
		f.agents.On("Create", ctx, mock.AnythingOfType("*agent.Agent")).Return(nil)

		got, err := f.store.CreateAgent(ctx, agent.Agent{Name: "helper"})
		require.NoError(t, err)
		assert.NotEmpty(t, got.ID)
	})

	t.Run("update of an absent agent is nil", func(t *testing.T) {
		f := newFixture()
		f.agents.On("Get", ctx, "nope").Return(nil, domain.NewStoreError(domain.StoreNotFound, "get", nil))

		got, err := f.store.UpdateAgent(ctx, "nope", agent.Update{Name: "x"})
		assert.NoError(t, err)
		assert.Nil(t, got)
	})

	t.Run("link is idempotent and unlink reports absence", func(t *testing.T) {
		f := newFixture()
		f.agents.On("Link", ctx, "a1", "s1").Return(nil)
		f.agents.On("Unlink", ctx, "a1", "s1").Return(true, nil).Once()
		f.agents.On("Unlink", ctx, "a1", "s1").Return(false, nil).Once()

		for i := 0; i < 2; i++ {
			linked, err := f.store.LinkAgentServer(ctx, "a1", "s1")
			require.NoError(t, err)
			assert.True(t, linked)
		}

		removed, err := f.store.UnlinkAgentServer(ctx, "a1", "s1")
		require.NoError(t, err)
		assert.True(t, removed)

		removed, err = f.store.UnlinkAgentServer(ctx, "a1", "s1")
		require.NoError(t, err)
		assert.False(t, removed)
	})

	t.Run("servers for agent are annotated", func(t *testing.T) {
		f := newFixture()
		f.servers.On("ListByAgent", ctx, "a1").Return([]server.Server{financeServer}, nil)

		got := f.store.ServersForAgent(ctx, "a1")
		require.Len(t, got, 1)
		assert.Equal(t, server.SlotA, got[0].ServerName)
		assert.Equal(t, 3001, got[0].Port)
	})
}

func TestStore_Ping(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	assert.True(t, f.store.Ping(ctx))

	f.pinger.err = errors.New("down")
	assert.False(t, f.store.Ping(ctx))

	noPinger := registry.NewStore(registry.StoreDeps{})
	assert.False(t, noPinger.Ping(ctx))
}
