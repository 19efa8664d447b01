package main

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := loadConfig(Opts{ClientID: "cid"})
	require.NoError(t, err)
	assert.Equal(t, ":8080", cfg.Server.Listen)
	assert.Equal(t, "cid", cfg.Trakt.ClientID)
}

func TestLoadConfig_MissingClientID(t *testing.T) {
	_, err := loadConfig(Opts{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "client_id")
}

func TestLoadConfig_Overrides(t *testing.T) {
	cfgFile := filepath.Join(t.TempDir(), "config.yml")
	err := os.WriteFile(cfgFile, []byte("trakt:\n  client_id: from-file\nserver:\n  listen: \":9090\"\n"), 0o600)
	require.NoError(t, err)

	cfg, err := loadConfig(Opts{Config: cfgFile, Listen: ":7070", ClientID: "from-flag", BaseURL: "https://addon.example"})
	require.NoError(t, err)
	assert.Equal(t, ":7070", cfg.Server.Listen, "flag overrides file")
	assert.Equal(t, "from-flag", cfg.Trakt.ClientID)
	assert.Equal(t, "https://addon.example", cfg.Server.BaseURL)
}

func TestLoadConfig_MissingFile(t *testing.T) {
	_, err := loadConfig(Opts{Config: "non-existent-config.yml"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "can't load config")
}

func TestLoadConfig_InvalidFile(t *testing.T) {
	cfgFile := filepath.Join(t.TempDir(), "bad.yml")
	err := os.WriteFile(cfgFile, []byte("invalid: yaml: content: ["), 0o600)
	require.NoError(t, err)

	_, err = loadConfig(Opts{Config: cfgFile})
	require.Error(t, err)
}

func TestRun_ServerStartStop(t *testing.T) {
	// find free port
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	port := listener.Addr().(*net.TCPAddr).Port
	require.NoError(t, listener.Close())

	cfg, err := loadConfig(Opts{ClientID: "cid", Listen: fmt.Sprintf("127.0.0.1:%d", port)})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan error, 1)
	go func() {
		done <- run(ctx, cfg, false)
	}()

	// wait for server to start
	time.Sleep(100 * time.Millisecond)

	resp, err := http.Get(fmt.Sprintf("http://127.0.0.1:%d/ping", port))
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down in time")
	}
}
