package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/Sternrassler/swapi-browser/pkg/client"
	"github.com/Sternrassler/swapi-browser/pkg/logging"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// isolate points the user config dir at an empty temp dir.
func isolate(t *testing.T) string {
	t.Helper()
	tmp := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", tmp)
	t.Setenv("HOME", tmp)
	return tmp
}

func newFlagCmd() *cobra.Command {
	cmd := &cobra.Command{Use: "test"}
	cmd.Flags().String("base-url", "", "")
	cmd.Flags().String("log-level", "", "")
	cmd.Flags().String("addr", "", "")
	cmd.Flags().Int("concurrency", 0, "")
	return cmd
}

func TestLoad_Defaults(t *testing.T) {
	isolate(t)

	cfg, err := Load(nil, "")
	require.NoError(t, err)

	assert.Equal(t, client.DefaultBaseURL, cfg.Client.BaseURL)
	assert.Equal(t, client.DefaultUserAgent, cfg.Client.UserAgent)
	assert.Equal(t, client.DefaultTimeout, cfg.Client.Timeout)
	assert.Equal(t, ":8081", cfg.Server.Addr)
	assert.False(t, cfg.Server.SSL)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, 4, cfg.Pagination.MaxConcurrency)
	assert.Empty(t, cfg.Source)
}

func TestLoad_EnvOverridesDefaults(t *testing.T) {
	isolate(t)
	t.Setenv("SWAPI_CLIENT_BASE_URL", "https://swapi.example.org/api")
	t.Setenv("SWAPI_CLIENT_TIMEOUT", "5s")
	t.Setenv("SWAPI_LOG_LEVEL", "debug")

	cfg, err := Load(nil, "")
	require.NoError(t, err)

	assert.Equal(t, "https://swapi.example.org/api", cfg.Client.BaseURL)
	assert.Equal(t, 5*time.Second, cfg.Client.Timeout)
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestLoad_FlagOverridesEnv(t *testing.T) {
	isolate(t)
	t.Setenv("SWAPI_CLIENT_BASE_URL", "https://env.example.org/api")

	cmd := newFlagCmd()
	require.NoError(t, cmd.Flags().Set("base-url", "https://flag.example.org/api"))
	require.NoError(t, cmd.Flags().Set("concurrency", "8"))

	cfg, err := Load(cmd, "")
	require.NoError(t, err)

	assert.Equal(t, "https://flag.example.org/api", cfg.Client.BaseURL)
	assert.Equal(t, 8, cfg.Pagination.MaxConcurrency)
	// unset flags keep the default, not the empty flag default
	assert.Equal(t, ":8081", cfg.Server.Addr)
}

func TestLoad_ExplicitFile(t *testing.T) {
	isolate(t)
	path := filepath.Join(t.TempDir(), "custom.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
client:
  base_url: https://file.example.org/api
server:
  addr: ":9000"
log:
  pretty: true
`), 0644))

	cfg, err := Load(nil, path)
	require.NoError(t, err)

	assert.Equal(t, "https://file.example.org/api", cfg.Client.BaseURL)
	assert.Equal(t, ":9000", cfg.Server.Addr)
	assert.True(t, cfg.Log.Pretty)
	assert.Equal(t, path, cfg.Source)
}

func TestLoad_UserConfigDir(t *testing.T) {
	tmp := isolate(t)
	dir := filepath.Join(tmp, AppName)
	require.NoError(t, os.MkdirAll(dir, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, AppName+".yaml"), []byte("server:\n  addr: \":7000\"\n"), 0644))

	cfg, err := Load(nil, "")
	require.NoError(t, err)
	assert.Equal(t, ":7000", cfg.Server.Addr)
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	isolate(t)

	_, err := Load(nil, filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
}

func TestLoad_InvalidValues(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{"bad url", map[string]string{"SWAPI_CLIENT_BASE_URL": "not a url"}},
		{"bad level", map[string]string{"SWAPI_LOG_LEVEL": "loud"}},
		{"zero concurrency", map[string]string{"SWAPI_PAGINATION_MAX_CONCURRENCY": "0"}},
		{"empty user agent", map[string]string{"SWAPI_CLIENT_USER_AGENT": ""}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			isolate(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			_, err := Load(nil, "")
			require.Error(t, err)
			assert.Contains(t, err.Error(), "config validation error")
		})
	}
}

func TestConversions(t *testing.T) {
	cfg := &Config{
		Client:     ClientConfig{BaseURL: "https://swapi.dev/api", UserAgent: "ua", Timeout: time.Second},
		Log:        LogConfig{Level: "warn", Pretty: true},
		Pagination: PaginationConfig{MaxConcurrency: 2, Timeout: 3 * time.Second},
	}

	cc := cfg.ToClient()
	assert.Equal(t, "https://swapi.dev/api", cc.BaseURL)
	assert.Equal(t, "ua", cc.UserAgent)
	assert.Equal(t, time.Second, cc.Timeout)

	lc := cfg.ToLogging()
	assert.Equal(t, logging.LevelWarn, lc.Level)
	assert.True(t, lc.Pretty)

	pc := cfg.ToPagination()
	assert.Equal(t, 2, pc.MaxConcurrency)
	assert.Equal(t, 3*time.Second, pc.Timeout)
}

func TestWrite_ThenLoad(t *testing.T) {
	isolate(t)

	cfg, err := Load(nil, "")
	require.NoError(t, err)
	cfg.Client.BaseURL = "https://written.example.org/api"
	cfg.Server.Addr = ":8181"

	path := filepath.Join(t.TempDir(), "nested", "swapi-browser.yaml")
	require.NoError(t, Write(cfg, path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "base_url")
	assert.NotContains(t, string(data), "Source")

	loaded, err := Load(nil, path)
	require.NoError(t, err)
	assert.Equal(t, "https://written.example.org/api", loaded.Client.BaseURL)
	assert.Equal(t, ":8181", loaded.Server.Addr)
	assert.Equal(t, cfg.Client.Timeout, loaded.Client.Timeout)
}

func TestDefaultPath(t *testing.T) {
	tmp := isolate(t)

	path, err := DefaultPath()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(tmp, AppName, AppName+".yaml"), path)
}
