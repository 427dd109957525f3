package request

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidate_FirstMissingField(t *testing.T) {
	tests := []struct {
		name    string
		req     interface{ Validate() error }
		wantErr string
	}{
		{"ask without question", &AskRequest{AgentID: "a1"}, "question is required"},
		{"ask with blank agent", &AskRequest{Question: "time?", AgentID: "   "}, "agent_id is required"},
		{"ask complete", &AskRequest{Question: "time?", AgentID: "a1"}, ""},
		{"create tool checks server first", &CreateToolRequest{}, "server_name is required"},
		{"create tool without name", &CreateToolRequest{ServerName: "server_b"}, "name is required"},
		{"execute without server", &ExecuteToolRequest{ToolName: "get_time"}, "server is required"},
		{"link without server", &LinkServerRequest{}, "server_id is required"},
		{"by url without url", &ServerByURLRequest{}, "url is required"},
		{"agent without name", &AgentRequest{Description: "x"}, "name is required"},
		{"chat without message", &ChatRequest{}, "message is required"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.req.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Equal(t, tt.wantErr, err.Error())
		})
	}
}

func TestToolRequest_BlankOptionalsBecomeNil(t *testing.T) {
	blank := "  "
	method := " post "
	req := ToolRequest{Name: " lookup ", APIURL: &blank, HTTPMethod: &method}

	got := req.Tool()
	assert.Equal(t, "lookup", got.Name)
	assert.Nil(t, got.APIURL)
	require.NotNil(t, got.HTTPMethod)
	assert.Equal(t, "post", *got.HTTPMethod)

	update := req.Update()
	assert.Nil(t, update.APIURL)
}
