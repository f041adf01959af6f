package app

import (
	"context"
	"io"
	"net/http"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApp_RunAndShutdown(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("CONFIG_PATH", dir)
	t.Setenv("APP_ENV", "test")
	t.Setenv("DB_DRIVER", "sqlite")
	t.Setenv("DB_SQLITE_PATH", filepath.Join(dir, "users.db"))
	t.Setenv("HOST", "127.0.0.1")
	t.Setenv("PORT", "0")
	t.Setenv("LOG_LEVEL", "error")
	t.Setenv("LOG_OUTPUT_PATH", filepath.Join(dir, "app.log"))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	a, err := New(ctx)
	require.NoError(t, err)

	done := make(chan error, 1)
	go func() { done <- a.Run(ctx) }()

	var addr string
	select {
	case addr = <-a.Server.Ready():
	case <-time.After(5 * time.Second):
		t.Fatal("server did not start")
	}

	resp, err := http.Get("http://" + addr + "/api")
	require.NoError(t, err)
	body, _ := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), "Hello from user-management-service")

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("shutdown timed out")
	}
}

func TestNew_InvalidConfig(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("CONFIG_PATH", dir)
	t.Setenv("DB_DRIVER", "postgres")
	t.Setenv("DB_USER", "")
	t.Setenv("LOG_OUTPUT_PATH", filepath.Join(dir, "app.log"))

	_, err := New(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "config validation failed")
}
