package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aanand-mishra/students-api/internal/config"
	"github.com/aanand-mishra/students-api/internal/paging"
)

func TestOpenStorage_MemorySeeded(t *testing.T) {
	store, closer, err := openStorage(context.Background(), &config.Config{StorageDriver: config.DriverMemory, Seed: true})
	require.NoError(t, err)
	defer closer.Close()

	_, total, err := store.FindPage(context.Background(), paging.Request{Size: 10})
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
}

func TestOpenStorage_SQLiteCreatesDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "students.db")

	store, closer, err := openStorage(context.Background(), &config.Config{StorageDriver: config.DriverSQLite, StoragePath: path})
	require.NoError(t, err)
	t.Cleanup(func() { _ = closer.Close() })

	_, err = os.Stat(path)
	require.NoError(t, err)

	exists, err := store.ExistsByID(context.Background(), 1)
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestOpenStorage_UnknownDriver(t *testing.T) {
	_, _, err := openStorage(context.Background(), &config.Config{StorageDriver: "mongo"})
	assert.Error(t, err)
}

func TestSetupLogger(t *testing.T) {
	ctx := context.Background()
	assert.False(t, setupLogger("prod").Enabled(ctx, -4), "prod hides debug")
	assert.True(t, setupLogger("staging").Enabled(ctx, -4))
	assert.True(t, setupLogger("dev").Enabled(ctx, -4))
}

func TestRun_StorageFailureReturnsNonZero(t *testing.T) {
	dir := t.TempDir()
	notADir := filepath.Join(dir, "plain-file")
	require.NoError(t, os.WriteFile(notADir, nil, 0o600))

	cfgPath := filepath.Join(dir, "config.yaml")
	body := fmt.Sprintf("env: prod\nstorage_driver: sqlite\nstorage_path: %q\nhttp_server:\n  address: \"127.0.0.1:0\"\n",
		filepath.Join(notADir, "db", "students.db"))
	require.NoError(t, os.WriteFile(cfgPath, []byte(body), 0o600))
	t.Setenv("CONFIG_PATH", cfgPath)

	assert.Equal(t, 1, run())
}
