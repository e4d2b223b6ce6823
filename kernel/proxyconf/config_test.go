package proxyconf

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTempToml(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "servers.toml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write temp file: %v", err)
	}
	return path
}

func TestLoad(t *testing.T) {
	path := writeTempToml(t, `
node = "eu-1"

[servers]
survival = 25566
lobby = 25565
`)

	cfg, err := Load(path)

	require.NoError(t, err)
	assert.Equal(t, "eu-1", cfg.Node)
	assert.Equal(t, map[string]uint16{"lobby": 25565, "survival": 25566}, cfg.Servers)
	assert.Equal(t, []string{"lobby", "survival"}, cfg.ServerNames())
}

func TestLoad_UnknownKeysAreIgnored(t *testing.T) {
	path := writeTempToml(t, `
node = "eu-1"
owner = "ops"

[servers]
lobby = 25565
`)

	cfg, err := Load(path)

	require.NoError(t, err)
	assert.Len(t, cfg.Servers, 1)
}

func TestLoad_MissingNode(t *testing.T) {
	path := writeTempToml(t, `
[servers]
lobby = 25565
`)

	_, err := Load(path)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "'node' is required")
}

func TestLoad_ZeroPort(t *testing.T) {
	path := writeTempToml(t, `
node = "eu-1"

[servers]
lobby = 0
`)

	_, err := Load(path)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "server 'lobby' has no port")
}

func TestLoad_PortOutOfRange(t *testing.T) {
	path := writeTempToml(t, `
node = "eu-1"

[servers]
lobby = 70000
`)

	_, err := Load(path)

	assert.Error(t, err)
}

func TestLoad_FileNotFound(t *testing.T) {
	_, err := Load("/nonexistent/servers.toml")

	assert.Error(t, err)
}
