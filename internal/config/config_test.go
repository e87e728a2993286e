package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTempConfig(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(contents), 0644))
	return path
}

func TestLoadConfig(t *testing.T) {
	path := writeTempConfig(t, `
network:
  listen_addr: ":8080"
  cors_origins:
    - http://localhost:5173
database:
  path: /tmp/scans.db
scanner:
  fetch_timeout: 5
  workers: 8
  payloads:
    basic:
      - "<b>injected</b>"
oracle:
  endpoint: http://oracle.test/v1/chat/completions
  api_key: secret
auth:
  enabled: true
  api_key: hunter2
`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Network.ListenAddr)
	assert.Equal(t, []string{"http://localhost:5173"}, cfg.Network.CORSOrigins)
	assert.Equal(t, "/tmp/scans.db", cfg.Database.Path)
	assert.Equal(t, 5, cfg.Scanner.FetchTimeout)
	assert.Equal(t, 8, cfg.Scanner.Workers)
	assert.Equal(t, []string{"<b>injected</b>"}, cfg.Scanner.Payloads.Basic)
	assert.Empty(t, cfg.Scanner.Payloads.Advanced)
	assert.Equal(t, "http://oracle.test/v1/chat/completions", cfg.Oracle.Endpoint)
	assert.Equal(t, "secret", cfg.Oracle.APIKey)
	assert.True(t, cfg.Auth.Enabled)
	assert.Equal(t, "hunter2", cfg.Auth.APIKey)
}

func TestLoadConfigDefaults(t *testing.T) {
	path := writeTempConfig(t, `
oracle:
  endpoint: http://oracle.test/v1/chat/completions
`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, DefaultListenAddr, cfg.Network.ListenAddr)
	assert.Equal(t, DefaultReadTimeout, cfg.Network.ReadTimeout)
	assert.Equal(t, DefaultWriteTimeout, cfg.Network.WriteTimeout)
	assert.Equal(t, DefaultDatabase, cfg.Database.Path)
	assert.Equal(t, DefaultFetchTimeout, cfg.Scanner.FetchTimeout)
	assert.Equal(t, DefaultWorkers, cfg.Scanner.Workers)
	assert.Equal(t, DefaultOracleWait, cfg.Oracle.Timeout)
	assert.False(t, cfg.Auth.Enabled)
}

func TestLoadConfigMissingFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestLoadConfigMalformed(t *testing.T) {
	path := writeTempConfig(t, "network: [not a mapping")
	_, err := LoadConfig(path)
	assert.Error(t, err)
}

func TestWriteConfigRoundTrip(t *testing.T) {
	path := writeTempConfig(t, "")
	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	cfg.Network.ListenAddr = ":9000"
	cfg.Scanner.Payloads.Evasion = []string{"<ScRiPt>alert('XSS')</ScRiPt>"}
	require.NoError(t, WriteConfig(cfg, path))

	reloaded, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, ":9000", reloaded.Network.ListenAddr)
	assert.Equal(t, cfg.Scanner.Payloads.Evasion, reloaded.Scanner.Payloads.Evasion)
}
