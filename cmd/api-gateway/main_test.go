package main

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/hapkiduki/freight-go/internal/infrastructure/config"
	"github.com/hapkiduki/freight-go/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, dbPath string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "freight.yaml")
	require.NoError(t, os.WriteFile(path, []byte("database:\n  path: "+dbPath+"\n"), 0o600))
	return path
}

func TestStart_ExitCodeOnFailure(t *testing.T) {
	t.Chdir(t.TempDir())
	missing := filepath.Join(t.TempDir(), "no-such-dir", "freight.db")

	assert.Equal(t, 1, start(writeConfig(t, missing)))
}

func TestRun_StopsWhenContextCancelled(t *testing.T) {
	t.Chdir(t.TempDir())
	cfg, err := config.Load(writeConfig(t, filepath.Join(t.TempDir(), "freight.db")))
	require.NoError(t, err)
	cfg.Server.Host = "127.0.0.1"
	cfg.Server.Port = 0

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.NoError(t, run(ctx, cfg, logger.NewNop(), "test"))
}
