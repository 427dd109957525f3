package main

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/NeuralTrust/toolhub/pkg/version"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestVersionCommand(t *testing.T) {
	out, err := execute(t, "version")
	require.NoError(t, err)

	var info version.Info
	require.NoError(t, json.Unmarshal([]byte(out), &info))
	assert.Equal(t, version.AppName, info.AppName)
	assert.Equal(t, version.Version, info.Version)
}

func TestServeCommand_RejectsUnknownRole(t *testing.T) {
	_, err := execute(t, "serve", "server_z")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid argument")

	_, err = execute(t, "serve")
	require.Error(t, err)
}

func TestServeCommand_RequiresDatabaseURL(t *testing.T) {
	t.Setenv("ENV_FILE", "does-not-exist.env")
	t.Setenv("DATABASE_URL", "")
	_, err := execute(t, "serve", "server_a", "--config", t.TempDir())
	require.Error(t, err)
	assert.Equal(t, "DATABASE_URL is required", err.Error())
}

func TestMigrateList(t *testing.T) {
	out, err := execute(t, "migrate", "list")
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.GreaterOrEqual(t, len(lines), 2)
	assert.Equal(t, "20251001_create_registry_tables", lines[0])
}
