package subcmd

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testServersToml = `
node = "eu-1"

[servers]
survival = 25566
lobby = 25565
`

func writeTempFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write temp file: %v", err)
	}
	return path
}

func TestNginxConfigCommand_Stdout(t *testing.T) {
	root := newTestRoot(t)
	path := writeTempFile(t, "servers.toml", testServersToml)

	require.NoError(t, root.run("nginx-config", path))

	out := root.out.String()
	assert.Equal(t, 2, strings.Count(out, "server {"))
	assert.Less(t, strings.Index(out, "lobby.node-eu-1"), strings.Index(out, "survival.node-eu-1"))
	assert.Contains(t, out, "proxy_pass http://5.161.216.140:25565;")
	assert.Empty(t, root.provider.Calls())
}

func TestNginxConfigCommand_OutputFile(t *testing.T) {
	root := newTestRoot(t)
	path := writeTempFile(t, "servers.toml", testServersToml)
	output := filepath.Join(t.TempDir(), "ssu.conf")

	require.NoError(t, root.run("nginx", path, output, "--domain", "example.net"))

	data, err := os.ReadFile(output)
	require.NoError(t, err)
	assert.Contains(t, string(data), "server_name lobby.node-eu-1.example.net;")
	assert.Empty(t, root.out.String())
}

func TestNginxConfigCommand_Env(t *testing.T) {
	root := newTestRoot(t)
	t.Setenv("SSU_NGINX_CONFIG", writeTempFile(t, "servers.toml", testServersToml))

	require.NoError(t, root.run("nginx-config"))

	assert.Contains(t, root.out.String(), "survival.node-eu-1")
}

func TestNginxConfigCommand_ConfigFileDefaults(t *testing.T) {
	root := newTestRoot(t)
	servers := writeTempFile(t, "servers.toml", testServersToml)
	config := writeTempFile(t, "config.yml", "proxy:\n  upstream: 10.0.0.5\n  domain: example.org\n")

	require.NoError(t, root.run("--config", config, "nginx-config", servers, "--domain", "example.net"))

	out := root.out.String()
	assert.Contains(t, out, "proxy_pass http://10.0.0.5:25565;")
	assert.Contains(t, out, "lobby.node-eu-1.example.net")
}

func TestNginxConfigCommand_MissingConfig(t *testing.T) {
	root := newTestRoot(t)

	assert.Error(t, root.run("nginx-config"))
}

func TestNginxConfigCommand_InvalidToml(t *testing.T) {
	root := newTestRoot(t)
	path := writeTempFile(t, "servers.toml", "[servers]\nlobby = 25565\n")

	assert.Error(t, root.run("nginx-config", path))
}
