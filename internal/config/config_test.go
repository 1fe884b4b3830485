package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	path := writeConfig(t, `
env: "dev"
http_server:
  address: "localhost:8082"
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "dev", cfg.Env)
	assert.Equal(t, DriverSQLite, cfg.StorageDriver)
	assert.Equal(t, "storage/storage.db", cfg.StoragePath)
	assert.False(t, cfg.Seed)
	assert.Equal(t, "localhost:8082", cfg.Addr)
	assert.Equal(t, 10*time.Second, cfg.ReadTimeout)
	assert.Equal(t, 10*time.Second, cfg.WriteTimeout)
	assert.Equal(t, 60*time.Second, cfg.IdleTimeout)
	assert.Equal(t, 5*time.Second, cfg.ShutdownTimeout)
}

func TestLoad_FullFile(t *testing.T) {
	path := writeConfig(t, `
env: "prod"
storage_driver: "postgres"
database_url: "postgres://students:secret@db:5432/students?sslmode=disable"
http_server:
  address: "0.0.0.0:8080"
  read_timeout: 3s
  write_timeout: 4s
  idle_timeout: 2m
  shutdown_timeout: 15s
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, DriverPostgres, cfg.StorageDriver)
	assert.Equal(t, "postgres://students:secret@db:5432/students?sslmode=disable", cfg.DatabaseURL)
	assert.Equal(t, 3*time.Second, cfg.ReadTimeout)
	assert.Equal(t, 4*time.Second, cfg.WriteTimeout)
	assert.Equal(t, 2*time.Minute, cfg.IdleTimeout)
	assert.Equal(t, 15*time.Second, cfg.ShutdownTimeout)
}

func TestLoad_EnvOverrides(t *testing.T) {
	path := writeConfig(t, `
env: "dev"
storage_driver: "sqlite"
http_server:
  address: "localhost:8082"
`)
	t.Setenv("STORAGE_DRIVER", "memory")
	t.Setenv("SEED", "true")
	t.Setenv("HTTP_SERVER_ADDR", "localhost:9090")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, DriverMemory, cfg.StorageDriver)
	assert.True(t, cfg.Seed)
	assert.Equal(t, "localhost:9090", cfg.Addr)
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantErr string
	}{
		{
			name:    "missing address",
			body:    "env: dev\n",
			wantErr: "cannot read config",
		},
		{
			name:    "unknown driver",
			body:    "env: dev\nstorage_driver: mongo\nhttp_server:\n  address: \":8082\"\n",
			wantErr: `unknown storage_driver "mongo"`,
		},
		{
			name:    "postgres without url",
			body:    "env: dev\nstorage_driver: postgres\nhttp_server:\n  address: \":8082\"\n",
			wantErr: "database_url is required",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.body))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "does not exist")
}
