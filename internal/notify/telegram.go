package notify

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/quantweb/quantbot/pkg/config"
	"github.com/quantweb/quantbot/pkg/httputil"
	"github.com/quantweb/quantbot/pkg/logger"
)

// Telegram sends messages via the Telegram Bot API.
// With no token or chat ID configured the notifier is a silent no-op, so
// local environments run without credentials.
type Telegram struct {
	token      string
	chatID     string
	httpClient *httputil.Client
	logger     *logger.Logger
}

// NewTelegram creates a Telegram notifier from config
func NewTelegram(cfg *config.Config, log *logger.Logger) *Telegram {
	return &Telegram{
		token:      cfg.Telegram.Token,
		chatID:     cfg.Telegram.ChatID,
		httpClient: httputil.New(log, 30*time.Second),
		logger:     log,
	}
}

// Send sends a Markdown message to the configured chat.
// Transient API failures are retried by the HTTP layer.
func (t *Telegram) Send(ctx context.Context, message string) error {
	if t.token == "" || t.chatID == "" {
		t.logger.Debug("Telegram not configured, dropping message")
		return nil
	}

	apiURL := fmt.Sprintf("https://api.telegram.org/bot%s/sendMessage", t.token)
	payload := map[string]string{
		"chat_id":    t.chatID,
		"text":       message,
		"parse_mode": "Markdown",
	}

	resp, err := t.httpClient.PostJSON(ctx, apiURL, payload)
	if err != nil {
		return fmt.Errorf("send message: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return fmt.Errorf("telegram API error: status %d, body: %s", resp.StatusCode, string(respBody))
	}

	return nil
}
