package notifier

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/vadiminshakov/pipwatch/pkg/retrier"
)

func testTelegram(serverURL string) *Telegram {
	t := NewTelegram("test-token", "42", zap.NewNop())
	t.baseURL = serverURL
	t.retrier = retrier.New(
		retrier.WithMaxRetries(2),
		retrier.WithInitialInterval(time.Millisecond),
	)
	return t
}

func TestNotifySendsMessage(t *testing.T) {
	var gotPath string
	var gotBody map[string]string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
	}))
	defer server.Close()

	tg := testTelegram(server.URL)
	tg.Notify(context.Background(), "New signal: EURUSD=X buy @ 1.1")

	require.Equal(t, "/bottest-token/sendMessage", gotPath)
	require.Equal(t, "42", gotBody["chat_id"])
	require.Equal(t, "New signal: EURUSD=X buy @ 1.1", gotBody["text"])
}

func TestNotifyRetriesOnServerError(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusBadGateway)
		}
	}))
	defer server.Close()

	tg := testTelegram(server.URL)
	tg.Notify(context.Background(), "hello")

	require.Equal(t, int32(3), calls.Load())
}

func TestNotifyAbsorbsFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer server.Close()

	tg := testTelegram(server.URL)
	// must not panic or propagate anything
	tg.Notify(context.Background(), "hello")
}

func TestNopNotify(t *testing.T) {
	Nop{}.Notify(context.Background(), "dropped")
}
