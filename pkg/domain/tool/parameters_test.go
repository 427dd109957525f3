package tool_test

import (
	"encoding/json"
	"testing"

	"github.com/NeuralTrust/toolhub/pkg/domain/tool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeParameters(t *testing.T) {
	city := tool.ParameterSpec{Name: "city", Type: "string", Description: "City", Required: true}

	tests := []struct {
		name string
		raw  string
		want tool.Parameters
	}{
		{"empty", "", tool.Parameters{}},
		{"null", "null", tool.Parameters{}},
		{"list", `[{"name":"city","type":"string","description":"City","required":true}]`, tool.Parameters{city}},
		{"single object", `{"name":"city","type":"string","description":"City","required":true}`, tool.Parameters{city}},
		{"double encoded", `"[{\"name\":\"city\",\"type\":\"string\",\"description\":\"City\",\"required\":true}]"`, tool.Parameters{city}},
		{"invalid json", `{not json`, tool.Parameters{tool.LegacyInput}},
		{"scalar", `42`, tool.Parameters{tool.LegacyInput}},
		{"list of wrong shape", `["a","b"]`, tool.Parameters{tool.LegacyInput}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tool.DecodeParameters([]byte(tt.raw)))
		})
	}
}

func TestParameters_ValueScanRoundTrip(t *testing.T) {
	params := tool.Parameters{
		{Name: "location", Type: "string", Description: "Where", Required: true},
		{Name: "units", Type: "string", Description: "metric or imperial"},
		{Name: "days", Type: "integer", Description: "Forecast days"},
	}

	value, err := params.Value()
	require.NoError(t, err)
	text, ok := value.(string)
	require.True(t, ok)

	for _, stored := range []interface{}{text, []byte(text)} {
		var decoded tool.Parameters
		require.NoError(t, decoded.Scan(stored))
		assert.Equal(t, params, decoded)
	}
}

func TestParameters_ScanNeverFails(t *testing.T) {
	var decoded tool.Parameters
	require.NoError(t, decoded.Scan(3.14))
	assert.Equal(t, tool.Parameters{tool.LegacyInput}, decoded)

	require.NoError(t, decoded.Scan(nil))
	assert.Empty(t, decoded)
}

func TestParameters_Required(t *testing.T) {
	params := tool.Parameters{
		{Name: "a", Required: true},
		{Name: "b"},
		{Name: "c", Required: true},
	}
	assert.Equal(t, []string{"a", "c"}, params.Required())
}

func TestTool_MethodAndRemote(t *testing.T) {
	post := " post "
	apiURL := "https://api.example.com/{city}"
	remote := tool.Tool{Name: "x", ServerID: "s", APIURL: &apiURL, HTTPMethod: &post}
	assert.True(t, remote.IsRemote())
	assert.Equal(t, "POST", remote.Method())

	local := tool.Tool{Name: "y", ServerID: "s"}
	assert.False(t, local.IsRemote())
	assert.Equal(t, "GET", local.Method())

	b, err := json.Marshal(local)
	require.NoError(t, err)
	assert.Contains(t, string(b), `"api_url":null`)
}
