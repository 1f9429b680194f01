package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTempJSON(t *testing.T, data map[string]any) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "cfg.json")
	b, err := json.Marshal(data)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, b, 0o600))
	return path
}

func Test_parseJson(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })

	full := writeTempJSON(t, map[string]any{
		"endpoint_addr_http":  "www.example:9000",
		"secret_key":          "my_secret_key",
		"session_cookie_name": "sid",
		"session_ttl":         "1h",
		"session_secure":      true,
		"bcrypt_cost":         12,
		"storage_backend":     "memory",
		"s3_root_user":        "user",
		"s3_root_password":    "password",
		"s3_bucket":           "bucket",
		"s3_region":           "region",
		"s3_base_endpoint":    "base_endpoint",
		"s3_timeout":          "3s",
		"s3_max_retries":      7,
		"conditional_writes":  true,
		"log_level":           "debug",
	})

	t.Run("loads every field", func(t *testing.T) {
		os.Args = []string{"testbin", "-config", full}

		cfg := &Config{}
		require.NoError(t, parseJson(cfg))

		assert.Equal(t, &Config{
			EndpointAddrHTTP:  "www.example:9000",
			SecretKey:         "my_secret_key",
			SessionCookieName: "sid",
			SessionTTL:        time.Hour,
			SessionSecure:     true,
			BcryptCost:        12,
			StorageBackend:    "memory",
			S3RootUser:        "user",
			S3RootPassword:    "password",
			S3Bucket:          "bucket",
			S3Region:          "region",
			S3BaseEndpoint:    "base_endpoint",
			S3Timeout:         3 * time.Second,
			S3MaxRetries:      7,
			ConditionalWrites: true,
			LogLevel:          "debug",
		}, cfg)
	})

	t.Run("partial file keeps other values", func(t *testing.T) {
		partial := writeTempJSON(t, map[string]any{"s3_bucket": "only-bucket"})
		os.Args = []string{"testbin", "-c", partial}

		cfg := &Config{}
		cfg.LoadDefaults()
		require.NoError(t, parseJson(cfg))

		assert.Equal(t, "only-bucket", cfg.S3Bucket)
		assert.Equal(t, ":8080", cfg.EndpointAddrHTTP)
		assert.Equal(t, 24*time.Hour, cfg.SessionTTL)
	})

	t.Run("no config flag leaves config untouched", func(t *testing.T) {
		os.Args = []string{"testbin"}

		cfg := &Config{S3Bucket: "s3bucket"}
		require.NoError(t, parseJson(cfg))
		assert.Equal(t, &Config{S3Bucket: "s3bucket"}, cfg)
	})

	t.Run("invalid JSON", func(t *testing.T) {
		bad := filepath.Join(t.TempDir(), "bad.json")
		require.NoError(t, os.WriteFile(bad, []byte(`{ this is not valid json`), 0o600))
		os.Args = []string{"testbin", "-config", bad}

		require.Error(t, parseJson(&Config{}))
	})

	t.Run("missing file", func(t *testing.T) {
		os.Args = []string{"testbin", "-c", filepath.Join(t.TempDir(), "absent.json")}
		require.Error(t, parseJson(&Config{}))
	})
}
