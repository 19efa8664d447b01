package server

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stremio-addons/trakt-actions/pkg/cache"
	"github.com/stremio-addons/trakt-actions/pkg/dispatch"
	"github.com/stremio-addons/trakt-actions/pkg/format"
	"github.com/stremio-addons/trakt-actions/pkg/session"
	"github.com/stremio-addons/trakt-actions/pkg/trakt"
	"github.com/stremio-addons/trakt-actions/server/mocks"
)

// testDeps bundles the mocked collaborators a test server is built from
type testDeps struct {
	cfg      *mocks.ConfigProviderMock
	resolver *mocks.SessionResolverMock
	queue    *mocks.ActionQueueMock
	labeler  *mocks.LabelerMock
	oauth    *mocks.OAuthClientMock
	ratings  *mocks.RatingSourceMock
}

func defaultDeps() *testDeps {
	return &testDeps{
		cfg: &mocks.ConfigProviderMock{
			GetServerConfigFunc: func() (string, time.Duration) { return ":8080", 30 * time.Second },
			GetBaseURLFunc:      func() string { return "http://localhost:8080" },
			GetDecoyURLFunc:     func() string { return "https://example.com/ok.mp4" },
		},
		resolver: &mocks.SessionResolverMock{
			ResolveFunc: func(ctx context.Context, configStr string) *session.Session { return nil },
		},
		queue: &mocks.ActionQueueMock{
			SubmitFunc:  func(task dispatch.Task) bool { return true },
			PendingFunc: func() int { return 0 },
		},
		labeler: &mocks.LabelerMock{
			LabelFunc: func(ctx context.Context, req format.Request) string { return req.Action },
		},
		oauth: &mocks.OAuthClientMock{},
		ratings: &mocks.RatingSourceMock{
			UserRatingFunc: func(ctx context.Context, token string, ref trakt.MediaRef) (int, error) { return 0, nil },
		},
	}
}

func testServer(deps *testDeps) *Server {
	return New(deps.cfg, deps.resolver, deps.queue, deps.labeler, deps.oauth, deps.ratings,
		cache.NewService(cache.TTLs{}), "test", false)
}

func TestServer_New(t *testing.T) {
	srv := testServer(defaultDeps())
	assert.NotNil(t, srv)
	assert.Equal(t, "test", srv.version)
	assert.False(t, srv.debug)
	assert.NotNil(t, srv.states)
	assert.NotNil(t, srv.pending)
}

func TestServer_Run(t *testing.T) {
	// find free port
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	port := listener.Addr().(*net.TCPAddr).Port
	err = listener.Close()
	require.NoError(t, err)

	deps := defaultDeps()
	deps.cfg.GetServerConfigFunc = func() (string, time.Duration) {
		return fmt.Sprintf("127.0.0.1:%d", port), 30 * time.Second
	}

	srv := testServer(deps)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		_ = srv.Run(ctx)
	}()

	// wait for server to start
	time.Sleep(100 * time.Millisecond)

	resp, err := http.Get(fmt.Sprintf("http://127.0.0.1:%d/ping", port))
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, "pong", string(body))

	cancel()
	time.Sleep(100 * time.Millisecond)
}

func TestServer_statusHandler(t *testing.T) {
	deps := defaultDeps()
	deps.queue.PendingFunc = func() int { return 3 }
	srv := testServer(deps)

	req := httptest.NewRequest("GET", "/api/v1/status", http.NoBody)
	w := httptest.NewRecorder()
	srv.statusHandler(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))

	var status map[string]interface{}
	err := json.Unmarshal(w.Body.Bytes(), &status)
	require.NoError(t, err)
	assert.Equal(t, "ok", status["status"])
	assert.Equal(t, "test", status["version"])
	assert.InDelta(t, 3, status["pending_actions"], 0.01)
}

func TestServer_cleanupHandler(t *testing.T) {
	srv := testServer(defaultDeps())
	srv.states.Set("stale-state", "login")
	srv.pending.Set("stale-action", "watch")

	// entries are fresh so nothing to purge yet
	req := httptest.NewRequest("POST", "/api/v1/cleanup", http.NoBody)
	w := httptest.NewRecorder()
	srv.cleanupHandler(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	var resp map[string]interface{}
	err := json.Unmarshal(w.Body.Bytes(), &resp)
	require.NoError(t, err)
	assert.InDelta(t, 0, resp["purged"], 0.01)
	assert.Equal(t, 1, srv.states.Len())
	assert.Equal(t, 1, srv.pending.Len())
}
