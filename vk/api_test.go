package vk

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

func newTestNotifier(t *testing.T, handler http.HandlerFunc) *Notifier {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	n := NewNotifier("test-token", 2000000003, slog.New(slog.NewTextHandler(io.Discard, nil)))
	n.SetMethodURL(srv.URL + "/method/")
	return n
}

func TestNotify_SendsMessage(t *testing.T) {
	var path, peerID, message string
	n := newTestNotifier(t, func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		path = r.URL.Path
		peerID = r.Form.Get("peer_id")
		message = r.Form.Get("message")
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `{"response": 42}`)
	})

	err := n.Notify(context.Background(), "Личный зачёт F1")
	require.NoError(t, err)

	assert.Equal(t, "/method/messages.send", path)
	assert.Equal(t, "2000000003", peerID)
	assert.Equal(t, "Личный зачёт F1", message)
}

func TestNotify_APIError(t *testing.T) {
	n := newTestNotifier(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `{"error": {"error_code": 5, "error_msg": "User authorization failed"}}`)
	})

	err := n.Notify(context.Background(), "hello")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "2000000003")
}

func TestNotify_CancelledContext(t *testing.T) {
	called := false
	n := newTestNotifier(t, func(w http.ResponseWriter, r *http.Request) {
		called = true
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.ErrorIs(t, n.Notify(ctx, "hello"), context.Canceled)
	assert.False(t, called)
}
