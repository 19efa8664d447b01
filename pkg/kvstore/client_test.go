package kvstore

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeStore emulates the REST key-value API backed by a map
type fakeStore struct {
	mu   sync.Mutex
	data map[string]string
}

func newFakeStore() *fakeStore { return &fakeStore{data: map[string]string{}} }

func (f *fakeStore) handler(t *testing.T) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer test-token", r.Header.Get("Authorization"))

		f.mu.Lock()
		defer f.mu.Unlock()

		parts := strings.SplitN(strings.TrimPrefix(r.URL.Path, "/"), "/", 3)
		switch parts[0] {
		case "get":
			key, _ := url.PathUnescape(parts[1])
			if v, ok := f.data[key]; ok {
				_, _ = w.Write([]byte(`{"result":` + jsonString(v) + `}`))
				return
			}
			_, _ = w.Write([]byte(`{"result":null}`))
		case "set":
			key, _ := url.PathUnescape(parts[1])
			value, _ := url.PathUnescape(parts[2])
			f.data[key] = value
			_, _ = w.Write([]byte(`{"result":"OK"}`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}
}

func jsonString(s string) string {
	return `"` + strings.ReplaceAll(strings.ReplaceAll(s, `\`, `\\`), `"`, `\"`) + `"`
}

func TestClient_SetGet(t *testing.T) {
	store := newFakeStore()
	srv := httptest.NewServer(store.handler(t))
	defer srv.Close()

	client := New(srv.URL, "test-token")
	ctx := context.Background()

	err := client.Set(ctx, "user-1", `{"access_token":"abc"}`, time.Hour)
	require.NoError(t, err)

	got, err := client.Get(ctx, "user-1")
	require.NoError(t, err)
	assert.Equal(t, `{"access_token":"abc"}`, got)
}

func TestClient_GetMissing(t *testing.T) {
	srv := httptest.NewServer(newFakeStore().handler(t))
	defer srv.Close()

	client := New(srv.URL, "test-token")
	_, err := client.Get(context.Background(), "nope")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestClient_SetTTLParam(t *testing.T) {
	var gotQuery url.Values
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query()
		_, _ = w.Write([]byte(`{"result":"OK"}`))
	}))
	defer srv.Close()

	client := New(srv.URL, "test-token")
	err := client.Set(context.Background(), "k", "v", 90*time.Second)
	require.NoError(t, err)
	assert.Equal(t, "90", gotQuery.Get("EX"))
}

func TestClient_TransportErrors(t *testing.T) {
	t.Run("non-2xx", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusUnauthorized)
		}))
		defer srv.Close()

		client := New(srv.URL, "bad-token")
		_, err := client.Get(context.Background(), "k")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "401")
	})

	t.Run("store-level error", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"error":"max daily requests exceeded"}`))
		}))
		defer srv.Close()

		client := New(srv.URL, "test-token")
		err := client.Set(context.Background(), "k", "v", 0)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "max daily requests")
	})

	t.Run("unreachable", func(t *testing.T) {
		client := New("http://127.0.0.1:1", "test-token")
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		_, err := client.Get(ctx, "k")
		assert.Error(t, err)
	})
}

func TestClient_SelfTest(t *testing.T) {
	t.Run("round trip ok", func(t *testing.T) {
		srv := httptest.NewServer(newFakeStore().handler(t))
		defer srv.Close()

		client := New(srv.URL, "test-token")
		assert.NoError(t, client.SelfTest(context.Background()))
	})

	t.Run("mismatch detected", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if strings.HasPrefix(r.URL.Path, "/get/") {
				_, _ = w.Write([]byte(`{"result":"something else"}`))
				return
			}
			_, _ = w.Write([]byte(`{"result":"OK"}`))
		}))
		defer srv.Close()

		client := New(srv.URL, "test-token")
		err := client.SelfTest(context.Background())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "mismatch")
	})
}
