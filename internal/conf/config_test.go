package conf

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadFileAndEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(`{
		"server": {"port": 9090},
		"sync": {"api_key": "from-file", "interval_hours": 6},
		"scrape": {"cache_ttl_seconds": 120}
	}`), 0o644))
	t.Setenv("CAPSYNC_SYNC_API_KEY", "from-env")
	t.Setenv("CAPSYNC_CORS_ALLOW_ORIGINS", "https://a.example, https://b.example")

	require.NoError(t, Load(path))

	assert.Equal(t, 9090, AppConfig.Server.Port)
	assert.Equal(t, "0.0.0.0", AppConfig.Server.Host)
	assert.Equal(t, "sqlite", AppConfig.Database.Type)
	assert.Equal(t, "from-env", AppConfig.Sync.APIKey)
	assert.Equal(t, 6*time.Hour, AppConfig.Sync.Interval())
	assert.Equal(t, 2*time.Minute, AppConfig.Scrape.CacheTTL())
	assert.Equal(t, "https://vercel.com/ai-gateway/models", AppConfig.Scrape.URL)
	assert.Equal(t, "https://a.example, https://b.example", AppConfig.Cors.AllowOrigins)
}

func TestValidate(t *testing.T) {
	ok := Config{Database: Database{Type: "postgres"}}
	assert.NoError(t, ok.Validate())

	assert.ErrorContains(t, Config{Database: Database{Type: "oracle"}}.Validate(), "unsupported database type")
	assert.Error(t, Config{Database: Database{Type: "sqlite"}, Sync: Sync{IntervalHours: -1}}.Validate())
	assert.Error(t, Config{Database: Database{Type: "sqlite"}, Scrape: Scrape{CacheTTLSeconds: -5}}.Validate())
}

func TestIsDebug(t *testing.T) {
	t.Setenv("CAPSYNC_DEBUG", "true")
	assert.True(t, IsDebug())
	t.Setenv("CAPSYNC_DEBUG", "")
	assert.False(t, IsDebug())
}

func TestDecodeRejectsInvalidReload(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"sync": {"interval_hours": 2}}`), 0o644))
	t.Cleanup(viper.Reset)
	require.NoError(t, Load(path))

	viper.Set("sync.interval_hours", 4)
	cfg, err := decode()
	require.NoError(t, err)
	assert.Equal(t, 4*time.Hour, cfg.Sync.Interval())
	assert.Equal(t, 2*time.Hour, AppConfig.Sync.Interval(), "decode leaves AppConfig alone")

	viper.Set("sync.interval_hours", -1)
	_, err = decode()
	assert.Error(t, err)
}
