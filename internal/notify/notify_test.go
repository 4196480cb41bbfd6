package notify

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rickscode/Solara-Beta/internal/utils/request"
)

type recordingLogger struct {
	errors int
}

func (l *recordingLogger) Error(string, ...interface{}) { l.errors++ }
func (l *recordingLogger) Info(string, ...interface{})  {}

func testTelegram(baseURL string, logger Logger) *Telegram {
	return &Telegram{
		token:      "test-token",
		chatID:     "12345",
		baseURL:    baseURL,
		httpClient: request.Request,
		logger:     logger,
	}
}

func TestTelegram_Notify(t *testing.T) {
	var got map[string]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/bottest-token/sendMessage", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Write([]byte(`{"ok": true}`))
	}))
	defer srv.Close()

	logger := &recordingLogger{}
	testTelegram(srv.URL, logger).Notify(context.Background(), "*Bot Started*")

	assert.Equal(t, "12345", got["chat_id"])
	assert.Equal(t, "*Bot Started*", got["text"])
	assert.Zero(t, logger.errors)
}

func TestTelegram_NotifyAbsorbsFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	logger := &recordingLogger{}
	testTelegram(srv.URL, logger).Notify(context.Background(), "hello")

	// Delivery failure is logged, never raised.
	assert.Equal(t, 1, logger.errors)
}
