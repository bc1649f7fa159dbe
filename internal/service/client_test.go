package service

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"v2browse/internal/errors"
	"v2browse/internal/log"
	"v2browse/pkg/types"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, h http.Handler, opts ...Option) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)

	var buf bytes.Buffer
	opts = append([]Option{WithLogger(log.NewLogger(log.WithOutput(&buf)))}, opts...)
	c, err := New(srv.URL, opts...)
	require.NoError(t, err)
	return c
}

func TestNew(t *testing.T) {
	c, err := New("http://example.com/api/")
	require.NoError(t, err)
	assert.Equal(t, "http://example.com/api", c.BaseURL())

	_, err = New("not a url")
	require.Error(t, err)
	assert.True(t, errors.IsInvalidConfig(err))
}

func TestURLs(t *testing.T) {
	c, err := New("http://example.com")
	require.NoError(t, err)

	assert.Equal(t, "http://example.com/list-directory?path=", c.ListURL(""))
	assert.Equal(t, "http://example.com/list-directory?path=docs%2F2024", c.ListURL("/docs/2024/"))

	assert.Equal(t, "http://example.com/static/readme.md", c.StaticURL("", "readme.md"))
	assert.Equal(t, "http://example.com/static/docs/2024/a.txt", c.StaticURL("docs/2024", "a.txt"))
	assert.Equal(t, "http://example.com/static/my%20docs/50%25%3F.txt", c.StaticURL("my docs", "50%?.txt"))
}

func TestListDirectory(t *testing.T) {
	listing := types.Listing{
		{Name: "A", Type: types.Directory, Contents: []types.Entry{
			{Name: "f1", Type: types.File},
			{Name: "f2", Type: types.File},
		}},
		{Name: "B", Type: types.File},
	}

	var gotPath, gotID, gotUA string
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/list-directory", r.URL.Path)
		gotPath = r.URL.Query().Get("path")
		gotID = r.Header.Get(RequestIDHeader)
		gotUA = r.Header.Get("User-Agent")
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(listing)
	}))

	got, err := c.ListDirectory(context.Background(), "docs/")
	require.NoError(t, err)
	assert.Equal(t, listing, got)
	assert.Equal(t, "docs", gotPath)
	assert.Equal(t, DefaultUserAgent, gotUA)
	_, err = uuid.Parse(gotID)
	assert.NoError(t, err)
}

func TestListDirectoryEmpty(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("null"))
	}))

	got, err := c.ListDirectory(context.Background(), "")
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestListDirectoryErrors(t *testing.T) {
	t.Run("status", func(t *testing.T) {
		c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "nope", http.StatusNotFound)
		}))
		_, err := c.ListDirectory(context.Background(), "missing")
		require.Error(t, err)
		assert.True(t, errors.IsDirectoryLoad(err))
		assert.Equal(t, errors.MsgDirectoryLoad, errors.UserMessage(err))

		var svcErr *errors.ServiceError
		require.True(t, errors.As(err, &svcErr))
		assert.Equal(t, http.StatusNotFound, svcErr.Status())
		assert.Equal(t, "missing", svcErr.Path())
	})

	t.Run("malformed body", func(t *testing.T) {
		c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte("<html>"))
		}))
		_, err := c.ListDirectory(context.Background(), "")
		require.Error(t, err)
		assert.True(t, errors.IsDirectoryLoad(err))
	})

	t.Run("network", func(t *testing.T) {
		srv := httptest.NewServer(http.NotFoundHandler())
		url := srv.URL
		srv.Close()

		c, err := New(url)
		require.NoError(t, err)
		_, err = c.ListDirectory(context.Background(), "")
		require.Error(t, err)
		assert.True(t, errors.IsDirectoryLoad(err))
	})

	t.Run("timeout", func(t *testing.T) {
		done := make(chan struct{})
		t.Cleanup(func() { close(done) })
		c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			select {
			case <-done:
			case <-r.Context().Done():
			}
		}), WithTimeout(50*time.Millisecond))

		_, err := c.ListDirectory(context.Background(), "slow")
		require.Error(t, err)
		assert.True(t, errors.IsDirectoryLoad(err))
	})
}

func TestReadFile(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/static/docs/a.txt":
			_, _ = w.Write([]byte("hello"))
		default:
			http.NotFound(w, r)
		}
	}), WithUserAgent("test-agent"), WithTimeout(time.Second))

	body, err := c.ReadFile(context.Background(), "docs", "a.txt")
	require.NoError(t, err)
	assert.Equal(t, "hello", string(body))

	_, err = c.ReadFile(context.Background(), "docs", "missing.txt")
	require.Error(t, err)
	assert.True(t, errors.IsFileLoad(err))
	assert.Equal(t, errors.MsgFileLoad, errors.UserMessage(err))

	_, err = c.ReadFile(context.Background(), "docs", "")
	require.Error(t, err)
	assert.True(t, errors.IsFileLoad(err))
}
