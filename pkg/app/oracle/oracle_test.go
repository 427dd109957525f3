package oracle_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/NeuralTrust/toolhub/pkg/app/oracle"
	"github.com/NeuralTrust/toolhub/pkg/app/toolserver"
	"github.com/NeuralTrust/toolhub/pkg/domain"
	"github.com/NeuralTrust/toolhub/pkg/domain/domaintest"
	"github.com/NeuralTrust/toolhub/pkg/domain/tool"
	"github.com/NeuralTrust/toolhub/pkg/infra/providers"
	providermocks "github.com/NeuralTrust/toolhub/pkg/infra/providers/mocks"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestParseSelection(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want oracle.Selection
	}{
		{
			name: "bare json",
			raw:  `{"tool_name": "get_time", "arguments": {"location": "Oslo"}, "server_name": "server_b"}`,
			want: oracle.Selection{ToolName: "get_time", Arguments: map[string]interface{}{"location": "Oslo"}, ServerName: "server_b"},
		},
		{
			name: "json fence",
			raw:  "```json\n{\"tool_name\": \"get_weather\", \"arguments\": {}, \"server_name\": \"server_a\"}\n```",
			want: oracle.Selection{ToolName: "get_weather", Arguments: map[string]interface{}{}, ServerName: "server_a"},
		},
		{
			name: "bare fence with prose around it",
			raw:  "Sure.\n```\n{\"tool_name\": \"none\", \"server_name\": \"none\"}\n```\nDone.",
			want: oracle.Selection{ToolName: "none", Arguments: map[string]interface{}{}, ServerName: "none"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := oracle.ParseSelection(tt.raw)
			require.NoError(t, err)
			assert.Equal(t, tt.want, *got)
		})
	}

	_, err := oracle.ParseSelection("I think you should use get_time")
	domaintest.AssertKind(t, err, domain.ErrConfiguration)
	assert.Equal(t, "oracle did not return a valid tool selection", err.Error())
}

func TestSelection_IsNone(t *testing.T) {
	assert.True(t, oracle.Selection{}.IsNone())
	assert.True(t, oracle.Selection{ToolName: "none"}.IsNone())
	assert.True(t, oracle.Selection{ToolName: " None "}.IsNone())
	assert.False(t, oracle.Selection{ToolName: "get_time"}.IsNone())
}

func TestEnsureAttribution(t *testing.T) {
	sel := oracle.Selection{ToolName: "get_time", ServerName: "serverX"}

	already := "Using the 'get_time' tool on the 'serverX' server, it is 10:00."
	assert.Equal(t, already, oracle.EnsureAttribution(already, sel))

	assert.Equal(t,
		"Using the 'get_time' tool on the 'serverX' server, it is 10:00 in Oslo.",
		oracle.EnsureAttribution("it is 10:00 in Oslo.", sel))

	assert.Equal(t, "Using the 'get_time' tool on the 'serverX' server.", oracle.EnsureAttribution("  ", sel))
}

func newLLM(t *testing.T, client providers.Client) *oracle.LLM {
	t.Helper()
	logger, _ := test.NewNullLogger()
	llm, err := oracle.NewLLM(client, oracle.Config{
		Provider:        "google",
		Model:           "gemini-2.5-flash",
		APIKey:          "AIzaSyTestKey123",
		BreakerTimeout:  time.Minute,
		BreakerFailures: 2,
	}, logger)
	require.NoError(t, err)
	return llm
}

func TestNewLLM_RequiresAPIKey(t *testing.T) {
	_, err := oracle.NewLLM(new(providermocks.Client), oracle.Config{Provider: "google"}, nil)
	domaintest.AssertKind(t, err, domain.ErrConfiguration)
}

func TestLLM_Select(t *testing.T) {
	client := new(providermocks.Client)
	llm := newLLM(t, client)
	catalog := []toolserver.Descriptor{toolserver.Describe(tool.Tool{ID: "t1", Name: "get_time"}, "server_b")}

	client.On("Ask", mock.Anything, mock.MatchedBy(func(c *providers.Config) bool {
		return c.Credentials.APIKey == "AIzaSyTestKey123" && c.Model == "gemini-2.5-flash"
	}), mock.MatchedBy(func(prompt string) bool {
		return assert.Contains(t, prompt, `"name": "get_time"`) &&
			assert.Contains(t, prompt, `"server_name": "server_b"`) &&
			assert.Contains(t, prompt, `"inputSchema"`)
	})).Return(&providers.Completion{
		Text: "```json\n{\"tool_name\": \"get_time\", \"arguments\": {}, \"server_name\": \"server_b\"}\n```",
	}, nil)

	sel, err := llm.Select(context.Background(), "what time is it?", catalog)
	require.NoError(t, err)
	assert.Equal(t, "get_time", sel.ToolName)
	assert.Equal(t, "server_b", sel.ServerName)
}

func TestLLM_SummarizeEnforcesAttribution(t *testing.T) {
	client := new(providermocks.Client)
	llm := newLLM(t, client)
	sel := oracle.Selection{ToolName: "get_time", ServerName: "serverX"}

	client.On("Ask", mock.Anything, mock.Anything, mock.MatchedBy(func(prompt string) bool {
		return assert.Contains(t, prompt, "Start your answer with \"Using the 'get_time' tool on the 'serverX' server, ...\"")
	})).Return(&providers.Completion{Text: "It is noon."}, nil)

	answer, err := llm.Summarize(context.Background(), "time?", sel, map[string]interface{}{"current_time": "12:00"})
	require.NoError(t, err)
	assert.Contains(t, answer, "get_time")
	assert.Contains(t, answer, "serverX")
}

func TestLLM_FailuresAreServiceUnavailable(t *testing.T) {
	client := new(providermocks.Client)
	llm := newLLM(t, client)
	client.On("Ask", mock.Anything, mock.Anything, mock.Anything).Return(nil, errors.New("connection reset"))

	for i := 0; i < 3; i++ {
		_, err := llm.Chat(context.Background(), "hello")
		require.Error(t, err)
		domaintest.AssertKind(t, err, domain.ErrServiceUnavailable)
	}
	assert.Equal(t, "open", llm.Status().Breaker)
	client.AssertNumberOfCalls(t, "Ask", 2)

	_, err := llm.Chat(context.Background(), "")
	domaintest.AssertKind(t, err, domain.ErrBadRequest)
}

func TestLLM_StatusAndModels(t *testing.T) {
	client := new(providermocks.Client)
	llm := newLLM(t, client)
	client.On("ListModels", mock.Anything, mock.Anything).Return([]string{"models/gemini-2.5-flash"}, nil)

	status := llm.Status()
	assert.True(t, status.Available)
	assert.Equal(t, "AIzaSyTest...", status.APIKey)
	assert.Equal(t, "closed", status.Breaker)

	models, err := llm.Models(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"models/gemini-2.5-flash"}, models)
}
