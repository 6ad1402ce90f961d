// Package notifier relays new signals to an external sink. Delivery is
// best-effort: failures are logged and never propagated to the cycle.
package notifier

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/vadiminshakov/pipwatch/pkg/retrier"
)

const telegramAPIBase = "https://api.telegram.org"

// Notifier is the outbound notification sink.
type Notifier interface {
	Notify(ctx context.Context, text string)
}

// Nop is a sink that drops every message. Used when no Telegram
// credentials are configured.
type Nop struct{}

// Notify implements Notifier.
func (Nop) Notify(context.Context, string) {}

// Telegram sends messages through the Telegram Bot API.
type Telegram struct {
	token   string
	chatID  string
	baseURL string
	client  *http.Client
	retrier *retrier.Retrier
	logger  *zap.Logger
}

// NewTelegram creates a Telegram notifier.
func NewTelegram(token, chatID string, logger *zap.Logger) *Telegram {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Telegram{
		token:   token,
		chatID:  chatID,
		baseURL: telegramAPIBase,
		client:  &http.Client{Timeout: 30 * time.Second},
		retrier: retrier.New(
			retrier.WithMaxRetries(3),
			retrier.WithInitialInterval(time.Second),
		),
		logger: logger,
	}
}

// Notify sends the text to the configured chat with retries. Errors are
// logged, never returned.
func (t *Telegram) Notify(ctx context.Context, text string) {
	err := t.retrier.Do(ctx, func(ctx context.Context) error {
		return t.send(ctx, text)
	})
	if err != nil {
		t.logger.Error("telegram notification failed", zap.Error(err))
	}
}

func (t *Telegram) send(ctx context.Context, text string) error {
	payload, err := json.Marshal(map[string]string{
		"chat_id": t.chatID,
		"text":    text,
	})
	if err != nil {
		return errors.Wrap(err, "marshal telegram payload")
	}

	url := t.baseURL + "/bot" + t.token + "/sendMessage"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return errors.Wrap(err, "build telegram request")
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := t.client.Do(req)
	if err != nil {
		return errors.Wrap(err, "send telegram message")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return errors.Errorf("telegram API status %d: %s", resp.StatusCode, body)
	}
	return nil
}
