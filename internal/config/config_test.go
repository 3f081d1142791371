package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func createTestConfigFile(t *testing.T, content string) string {
	path := filepath.Join(t.TempDir(), "content_config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadConfig(t *testing.T) {
	logger := zaptest.NewLogger(t)

	validConfig := `
server:
  port: 9090
session_cache:
  ttl: 2m
  max_size: 50
airtable:
  base_id: appTEST
  timeout: 5s
  default_page_size: 20
  max_pages: 4
  tables:
    ashaar: Ashaar
    ghazlen: Ghazlen
bigcache:
  enabled: true
  size: 16
keydb:
  enabled: true
  connection:
    connect_timeout: 2s
    send_timeout: 2s
    read_timeout: 3s
  keepalive:
    pool_size: 20
    max_idle_timeout: 20s
warmup:
  enabled: true
  resources: [ashaar]
`

	config, err := LoadConfig(createTestConfigFile(t, validConfig), logger)
	require.NoError(t, err)

	assert.Equal(t, 9090, config.Server.Port)
	assert.Equal(t, 2*time.Minute, config.SessionCache.TTL)
	assert.Equal(t, 50, config.SessionCache.MaxSize)
	assert.Equal(t, "appTEST", config.Airtable.BaseID)
	assert.Equal(t, 5*time.Second, config.Airtable.Timeout)
	assert.Equal(t, 20, config.Airtable.DefaultPageSize)
	assert.Equal(t, 4, config.Airtable.MaxPages)
	assert.True(t, config.BigCache.Enabled)
	assert.Equal(t, 16, config.BigCache.Size)
	assert.True(t, config.KeyDB.Enabled)
	assert.Equal(t, 2*time.Second, config.KeyDB.GetConnectTimeout())
	assert.Equal(t, 2*time.Second, config.KeyDB.GetSendTimeout())
	assert.Equal(t, 3*time.Second, config.KeyDB.GetReadTimeout())
	assert.Equal(t, 20, config.KeyDB.Keepalive.PoolSize)
	assert.Equal(t, []string{"ashaar"}, config.Warmup.Resources)

	table, ok := config.TableFor("ghazlen")
	assert.True(t, ok)
	assert.Equal(t, "Ghazlen", table)

	_, ok = config.TableFor("blogs")
	assert.False(t, ok)
}

func TestLoadConfig_WithDefaults(t *testing.T) {
	logger := zaptest.NewLogger(t)

	minimalConfig := `
airtable:
  base_id: appTEST
  tables:
    rubai: Rubai
`

	config, err := LoadConfig(createTestConfigFile(t, minimalConfig), logger)
	require.NoError(t, err)

	assert.Equal(t, 8080, config.Server.Port)
	assert.Equal(t, 5*time.Minute, config.SessionCache.TTL)
	assert.Equal(t, 200, config.SessionCache.MaxSize)
	assert.Equal(t, time.Minute, config.SessionCache.JanitorInterval)
	assert.Equal(t, "https://api.airtable.com/v0", config.Airtable.BaseURL)
	assert.Equal(t, 10*time.Second, config.Airtable.Timeout)
	assert.Equal(t, 30, config.Airtable.DefaultPageSize)
	assert.Equal(t, 20, config.Airtable.MaxPages)
	assert.False(t, config.BigCache.Enabled)
	assert.Equal(t, 64, config.BigCache.Size)
	assert.Equal(t, time.Second, config.KeyDB.GetReadTimeout())
	assert.Equal(t, 10, config.KeyDB.Keepalive.PoolSize)
	assert.Equal(t, int64(100), config.KeyDB.ScanCount)
	assert.Equal(t, 1, config.Warmup.Pages)
}

func TestLoadConfig_FileNotFound(t *testing.T) {
	_, err := LoadConfig("/nonexistent/file.yaml", zaptest.NewLogger(t))
	assert.Error(t, err)
}

func TestLoadConfig_InvalidYAML(t *testing.T) {
	invalidConfig := `
airtable:
  base_id: appTEST
  invalid yaml syntax [
`

	_, err := LoadConfig(createTestConfigFile(t, invalidConfig), zaptest.NewLogger(t))
	assert.Error(t, err)
}

func TestLoadConfig_ValidationErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{
			name: "missing base id",
			content: `
airtable:
  tables:
    ashaar: Ashaar
`,
		},
		{
			name: "no tables",
			content: `
airtable:
  base_id: appTEST
`,
		},
		{
			name: "page size above upstream limit",
			content: `
airtable:
  base_id: appTEST
  default_page_size: 500
  tables:
    ashaar: Ashaar
`,
		},
		{
			name: "malformed base url",
			content: `
airtable:
  base_url: "not a url"
  base_id: appTEST
  tables:
    ashaar: Ashaar
`,
		},
		{
			name: "warmup resource without table",
			content: `
airtable:
  base_id: appTEST
  tables:
    ashaar: Ashaar
warmup:
  enabled: true
  resources: [nazmen]
`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadConfig(createTestConfigFile(t, tt.content), zaptest.NewLogger(t))
			assert.Error(t, err)
		})
	}
}

func TestConfig_PartialDefaults(t *testing.T) {
	config := &Config{
		SessionCache: SessionCacheConfig{MaxSize: 25},
		KeyDB: KeyDBConfig{
			Connection: ConnectionConfig{ConnectTimeout: 2 * time.Second},
		},
	}

	config.applyDefaults()

	assert.Equal(t, 25, config.SessionCache.MaxSize)
	assert.Equal(t, 2*time.Second, config.KeyDB.GetConnectTimeout())
	assert.Equal(t, time.Second, config.KeyDB.GetSendTimeout())
	assert.Equal(t, time.Second, config.KeyDB.GetReadTimeout())
}
