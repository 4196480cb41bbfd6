package notify

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/rickscode/Solara-Beta/internal/utils/request"
)

const (
	telegramAPIBase = "https://api.telegram.org"
	sendTimeout     = 10 * time.Second
)

// Logger is the minimal logging surface this package needs.
type Logger interface {
	Error(msg string, fields ...interface{})
	Info(msg string, fields ...interface{})
}

// Notifier defines methods for pushing trade and analysis notices to the
// operator.
type Notifier interface {
	Notify(ctx context.Context, text string)
}

// Telegram implements the Notifier interface via the Telegram Bot API.
// Delivery is best effort: failures are logged, never returned, so a dead
// notifier cannot stall the trading flow.
type Telegram struct {
	token      string
	chatID     string
	baseURL    string
	httpClient *resty.Client
	logger     Logger
}

// NewTelegram creates a Telegram notifier.
func NewTelegram(token, chatID string, logger Logger) *Telegram {
	return &Telegram{
		token:      token,
		chatID:     chatID,
		baseURL:    telegramAPIBase,
		httpClient: request.Request,
		logger:     logger,
	}
}

// Notify implements the Notifier interface.
func (t *Telegram) Notify(ctx context.Context, text string) {
	reqCtx, cancel := context.WithTimeout(ctx, sendTimeout)
	defer cancel()

	url := fmt.Sprintf("%s/bot%s/sendMessage", t.baseURL, t.token)
	resp, err := t.httpClient.R().
		SetContext(reqCtx).
		SetBody(map[string]string{
			"chat_id":    t.chatID,
			"text":       text,
			"parse_mode": "Markdown",
		}).
		Post(url)
	if err != nil {
		t.logger.Error("failed to send telegram notification", "error", err)
		return
	}
	if resp.StatusCode() != http.StatusOK {
		t.logger.Error("telegram notification rejected", "status", resp.StatusCode(), "body", resp.String())
	}
}

// Noop implements the Notifier interface and drops every message. Used when
// no Telegram credentials are configured.
type Noop struct{}

// Notify implements the Notifier interface.
func (Noop) Notify(context.Context, string) {}
