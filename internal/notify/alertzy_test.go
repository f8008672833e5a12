package notify

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestNotifySendsQueryParams(t *testing.T) {
	var got *http.Request
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.Clone(context.Background())
	}))
	defer srv.Close()

	a := NewAlertzyWithBaseURL("key-1", srv.URL, discardLogger())
	a.Notify(context.Background(), "Arbox waiting", "Started waiting for 15:00")

	require.NotNil(t, got)
	assert.Equal(t, "/send", got.URL.Path)
	assert.Equal(t, "key-1", got.URL.Query().Get("accountKey"))
	assert.Equal(t, "Arbox waiting", got.URL.Query().Get("title"))
	assert.Equal(t, "Started waiting for 15:00", got.URL.Query().Get("message"))
}

func TestNotifySwallowsServerErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	a := NewAlertzyWithBaseURL("key-1", srv.URL, discardLogger())
	// must not panic or surface anything
	a.Notify(context.Background(), "title", "message")
}

func TestNotifyWithoutKeyIsNoop(t *testing.T) {
	called := false
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))
	defer srv.Close()

	a := NewAlertzyWithBaseURL("", srv.URL, discardLogger())
	a.Notify(context.Background(), "title", "message")
	assert.False(t, called)
}
