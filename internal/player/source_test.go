package player

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ryosukesatoh/calm-news/internal/retry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAPISourceFetch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/news", r.URL.Path)
		assert.Equal(t, "muenchen", r.URL.Query().Get("city"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"news":[{"headline":"A","summary":"B","type":"lokal"}],"isLive":true}`))
	}))
	defer srv.Close()

	resp, err := NewAPISource(srv.URL+"/").Fetch(context.Background(), "muenchen")

	require.NoError(t, err)
	assert.True(t, resp.IsLive)
	require.Len(t, resp.News, 1)
	assert.Equal(t, "A", resp.News[0].Headline)
}

func TestAPISourceBadStatus(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	defer srv.Close()

	_, err := NewAPISource(srv.URL).Fetch(context.Background(), "berlin")

	var statusErr *retry.StatusError
	require.True(t, errors.As(err, &statusErr))
	assert.Equal(t, http.StatusNotFound, statusErr.Code)
}

func TestAPISourceInvalidJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`<html>`))
	}))
	defer srv.Close()

	_, err := NewAPISource(srv.URL).Fetch(context.Background(), "berlin")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse JSON")
}

func TestAPISourceStatic(t *testing.T) {
	_, err := NewAPISource("http://127.0.0.1:1", WithStaticExport(true)).Fetch(context.Background(), "berlin")

	assert.ErrorIs(t, err, ErrStaticExport)
}
