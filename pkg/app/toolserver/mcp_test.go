package toolserver_test

import (
	"context"
	"encoding/json"
	"testing"

	registrymocks "github.com/NeuralTrust/toolhub/pkg/app/registry/mocks"
	"github.com/NeuralTrust/toolhub/pkg/app/toolserver"
	"github.com/NeuralTrust/toolhub/pkg/domain/tool"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func listMCPTools(t *testing.T, bridge *toolserver.MCPBridge) []string {
	t.Helper()
	resp := bridge.Server().HandleMessage(context.Background(),
		json.RawMessage(`{"jsonrpc":"2.0","id":1,"method":"tools/list"}`))
	raw, err := json.Marshal(resp)
	require.NoError(t, err)

	var decoded struct {
		Result struct {
			Tools []struct {
				Name string `json:"name"`
			} `json:"tools"`
		} `json:"result"`
	}
	require.NoError(t, json.Unmarshal(raw, &decoded))
	names := make([]string, 0, len(decoded.Result.Tools))
	for _, tl := range decoded.Result.Tools {
		names = append(names, tl.Name)
	}
	return names
}

func TestMCPBridge_ListsToolsWrittenOutOfBand(t *testing.T) {
	store := new(registrymocks.Store)
	svc := newService(t, store, &recordingSink{})
	logger, _ := test.NewNullLogger()

	store.On("GetTools", mock.Anything, utilityID).Return([]tool.Tool{
		{ID: "t1", Name: "get_time", ServerID: utilityID},
	}).Once()
	bridge := toolserver.NewMCPBridge(context.Background(), svc, logger)

	// Another process adds a row; the service never sees a write.
	store.On("GetTools", mock.Anything, utilityID).Return([]tool.Tool{
		{ID: "t1", Name: "get_time", ServerID: utilityID},
		{ID: "t2", Name: "convert_units", ServerID: utilityID},
	}).Once()
	assert.ElementsMatch(t, []string{"get_time", "convert_units"}, listMCPTools(t, bridge))

	store.On("GetTools", mock.Anything, utilityID).Return([]tool.Tool{
		{ID: "t2", Name: "convert_units", ServerID: utilityID},
	}).Once()
	assert.Equal(t, []string{"convert_units"}, listMCPTools(t, bridge))
	store.AssertExpectations(t)
}

func TestMCPBridge_FollowsServiceWrites(t *testing.T) {
	ctx := context.Background()
	store := new(registrymocks.Store)
	svc := newService(t, store, &recordingSink{})
	logger, _ := test.NewNullLogger()

	store.On("GetTools", mock.Anything, utilityID).Return([]tool.Tool{}).Once()
	bridge := toolserver.NewMCPBridge(ctx, svc, logger)
	assert.Empty(t, bridge.Server().ListTools())

	store.On("RegisterTool", ctx, mock.Anything).Return(&tool.Tool{ID: "t3", Name: "lookup", ServerID: utilityID}, nil).Once()
	store.On("GetTools", mock.Anything, utilityID).Return([]tool.Tool{
		{ID: "t3", Name: "lookup", ServerID: utilityID},
	})
	_, err := svc.RegisterTool(ctx, tool.Tool{Name: "lookup"})
	require.NoError(t, err)

	published := bridge.Server().ListTools()
	require.Len(t, published, 1)
	assert.Contains(t, published, "lookup")
}
