// Package telegram delivers formatted alert messages to a Telegram chat via
// the Bot API.
package telegram

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/polodad/clima-tracker-service/internal/domain"
)

const defaultBaseURL = "https://api.telegram.org"

// Sink implements the evaluator's dispatch sink against the Telegram Bot
// API. Delivery is at-least-once: failures are reported to the caller and
// never retried here.
type Sink struct {
	token      string
	chatID     string
	baseURL    string
	httpClient *http.Client
	logger     *slog.Logger
}

// NewSink creates a Telegram sink for the given bot token and chat.
func NewSink(token, chatID string, timeout time.Duration, logger *slog.Logger) *Sink {
	return &Sink{
		token:   token,
		chatID:  chatID,
		baseURL: defaultBaseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		logger: logger,
	}
}

// Name identifies the sink in logs and metrics.
func (s *Sink) Name() string { return "telegram" }

type sendMessageRequest struct {
	ChatID    string `json:"chat_id"`
	Text      string `json:"text"`
	ParseMode string `json:"parse_mode"`
}

// Send formats the alert and posts it to the configured chat.
func (s *Sink) Send(ctx context.Context, alert domain.Alert) error {
	payload, err := json.Marshal(sendMessageRequest{
		ChatID:    s.chatID,
		Text:      domain.FormatMessage(alert),
		ParseMode: "Markdown",
	})
	if err != nil {
		return fmt.Errorf("marshal telegram message: %w", err)
	}

	u := fmt.Sprintf("%s/bot%s/sendMessage", s.baseURL, s.token)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("telegram send: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("telegram API error: status %d: %s", resp.StatusCode, body)
	}

	s.logger.Debug("alert dispatched to telegram", "alert_id", alert.ID)
	return nil
}
