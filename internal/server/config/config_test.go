package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func defaults() *Config {
	c := &Config{}
	c.LoadDefaults()
	return c
}

func writeTempJSON(t *testing.T, data map[string]any) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "cfg.json")
	b, err := json.Marshal(data)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, b, 0o600))
	return path
}

func TestLoadDefaults(t *testing.T) {
	c := defaults()

	assert.Equal(t, ":8080", c.HTTPAddr)
	assert.Equal(t, "postgres", c.DatabaseDriver)
	assert.True(t, c.RunMigrations)
	assert.Equal(t, 2, c.StoreRetries)
	assert.Equal(t, 2*time.Second, c.StoreRetryDelay)
	assert.Equal(t, 24*time.Hour, c.AccessTokenValidity)
	assert.False(t, c.RequireAuth)
	assert.Empty(t, c.RedisAddr)
	assert.Empty(t, c.KafkaBrokers)
	assert.Equal(t, "info", c.LogLevel)
	assert.NoError(t, c.Validate())
}

func TestLoad_NoSources(t *testing.T) {
	c, err := Load(nil)
	require.NoError(t, err)
	if diff := cmp.Diff(defaults(), c); diff != "" {
		t.Errorf("config mismatch (-want +got):\n%s", diff)
	}
}

func TestParseJson_OverlaysOnlyPresentKeys(t *testing.T) {
	path := writeTempJSON(t, map[string]any{
		"http_addr":         "127.0.0.1:9090",
		"database_driver":   "sqlite",
		"database_dsn":      "file:carpool.db",
		"store_retry_delay": "250ms",
		"cache_ttl":         int64(5 * time.Second),
		"kafka_brokers":     []string{"k1:9092", "k2:9092"},
		"require_auth":      true,
	})

	c := defaults()
	require.NoError(t, parseJson(c, []string{"-config", path}))

	want := defaults()
	want.HTTPAddr = "127.0.0.1:9090"
	want.DatabaseDriver = "sqlite"
	want.DatabaseDSN = "file:carpool.db"
	want.StoreRetryDelay = 250 * time.Millisecond
	want.CacheTTL = 5 * time.Second
	want.KafkaBrokers = []string{"k1:9092", "k2:9092"}
	want.RequireAuth = true

	if diff := cmp.Diff(want, c); diff != "" {
		t.Errorf("config mismatch (-want +got):\n%s", diff)
	}
}

func TestParseJson_Errors(t *testing.T) {
	c := defaults()
	assert.Error(t, parseJson(c, []string{"-c", filepath.Join(t.TempDir(), "missing.json")}))

	bad := filepath.Join(t.TempDir(), "bad.json")
	require.NoError(t, os.WriteFile(bad, []byte(`{"cache_ttl": "soon"}`), 0o600))
	assert.Error(t, parseJson(c, []string{"-c", bad}))

	require.NoError(t, parseJson(c, nil), "no file means nothing to load")
}

func TestParseEnv(t *testing.T) {
	t.Setenv("CARPOOL_HTTP_ADDR", ":7000")
	t.Setenv("CARPOOL_DATABASE_DRIVER", "sqlite")
	t.Setenv("CARPOOL_STORE_RETRIES", "5")
	t.Setenv("CARPOOL_REQUIRE_AUTH", "true")
	t.Setenv("CARPOOL_KAFKA_BROKERS", "a:1, b:2 ,")
	t.Setenv("CARPOOL_CACHE_TTL", "1m")

	c := defaults()
	require.NoError(t, parseEnv(c))

	assert.Equal(t, ":7000", c.HTTPAddr)
	assert.Equal(t, "sqlite", c.DatabaseDriver)
	assert.Equal(t, 5, c.StoreRetries)
	assert.True(t, c.RequireAuth)
	assert.Equal(t, []string{"a:1", "b:2"}, c.KafkaBrokers)
	assert.Equal(t, time.Minute, c.CacheTTL)
}

func TestParseEnv_ReportsAllErrors(t *testing.T) {
	t.Setenv("CARPOOL_STORE_RETRIES", "many")
	t.Setenv("CARPOOL_CACHE_TTL", "forever")

	err := parseEnv(defaults())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "CARPOOL_STORE_RETRIES")
	assert.Contains(t, err.Error(), "CARPOOL_CACHE_TTL")
}

func TestParseFlags(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		mutate  func(*Config)
		wantErr bool
	}{
		{
			name: "all flags",
			args: []string{
				"-a", "127.0.0.1:9090", "-driver", "sqlite", "-d", "file:x.db", "-s", "secret",
				"-t", "1h", "-require-auth", "-migrate=false", "-retries", "4", "-retry-delay", "1s",
				"-redis", "localhost:6379", "-cache-ttl", "10s", "-kafka", "k1:9092,k2:9092",
				"-topic", "events", "-l", "debug",
			},
			mutate: func(c *Config) {
				c.HTTPAddr = "127.0.0.1:9090"
				c.DatabaseDriver = "sqlite"
				c.DatabaseDSN = "file:x.db"
				c.SecretKey = "secret"
				c.AccessTokenValidity = time.Hour
				c.RequireAuth = true
				c.RunMigrations = false
				c.StoreRetries = 4
				c.StoreRetryDelay = time.Second
				c.RedisAddr = "localhost:6379"
				c.CacheTTL = 10 * time.Second
				c.KafkaBrokers = []string{"k1:9092", "k2:9092"}
				c.KafkaTopic = "events"
				c.LogLevel = "debug"
			},
		},
		{
			name:   "foreign flags are ignored",
			args:   []string{"-config", "cfg.json", "-x", "y", "-a", ":1"},
			mutate: func(c *Config) { c.HTTPAddr = ":1" },
		},
		{
			name:    "bad duration",
			args:    []string{"-t", "later"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := defaults()
			err := parseFlags(c, tt.args)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)

			want := defaults()
			tt.mutate(want)
			if diff := cmp.Diff(want, c); diff != "" {
				t.Errorf("config mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestLoad_Precedence(t *testing.T) {
	path := writeTempJSON(t, map[string]any{"http_addr": ":1000", "log_level": "warn", "secret_key": "from-json"})
	t.Setenv("CARPOOL_HTTP_ADDR", ":2000")
	t.Setenv("CARPOOL_LOG_LEVEL", "error")

	c, err := Load([]string{"-c", path, "-a", ":3000"})
	require.NoError(t, err)

	assert.Equal(t, ":3000", c.HTTPAddr, "flags win")
	assert.Equal(t, "error", c.LogLevel, "env beats json")
	assert.Equal(t, "from-json", c.SecretKey, "json beats defaults")
}

func TestValidate(t *testing.T) {
	c := defaults()
	c.DatabaseDriver = "oracle"
	c.SecretKey = ""
	c.StoreRetries = -1
	c.KafkaBrokers = []string{"k:9092"}
	c.KafkaTopic = ""

	err := c.Validate()
	require.Error(t, err)
	for _, part := range []string{"oracle", "secret key", "retries", "kafka topic"} {
		assert.Contains(t, err.Error(), part)
	}

	_, err = Load([]string{"-driver", "oracle"})
	assert.Error(t, err)
}
