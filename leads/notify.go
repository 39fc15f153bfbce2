package leads

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/jrsteele09/ironrent/internal/errors"
)

// Notifier tells the sales team about a new lead. Failures are reported to
// the caller but must not undo the stored lead.
type Notifier interface {
	NotifyLead(ctx context.Context, lead *Lead) error
}

// NopNotifier is used when no notification channel is configured
type NopNotifier struct{}

func (NopNotifier) NotifyLead(context.Context, *Lead) error { return nil }

const telegramAPI = "https://api.telegram.org"

// TelegramNotifier posts new leads to a Telegram chat through the Bot API
type TelegramNotifier struct {
	client   *http.Client
	baseURL  string
	botToken string
	chatID   string
}

var _ Notifier = (*TelegramNotifier)(nil)

type TelegramOption func(*TelegramNotifier)

// WithTelegramBaseURL points the notifier at another API host
func WithTelegramBaseURL(url string) TelegramOption {
	return func(n *TelegramNotifier) {
		n.baseURL = strings.TrimRight(url, "/")
	}
}

func NewTelegramNotifier(botToken, chatID string, opts ...TelegramOption) (*TelegramNotifier, error) {
	if botToken == "" || chatID == "" {
		return nil, fmt.Errorf("telegram bot token and chat ID are required")
	}
	n := &TelegramNotifier{
		client:   &http.Client{Timeout: 10 * time.Second},
		baseURL:  telegramAPI,
		botToken: botToken,
		chatID:   chatID,
	}
	for _, opt := range opts {
		opt(n)
	}
	return n, nil
}

type telegramSendMessage struct {
	ChatID string `json:"chat_id"`
	Text   string `json:"text"`
}

type telegramResponse struct {
	OK          bool   `json:"ok"`
	Description string `json:"description,omitempty"`
}

func (n *TelegramNotifier) NotifyLead(ctx context.Context, lead *Lead) error {
	payload, err := json.Marshal(telegramSendMessage{ChatID: n.chatID, Text: leadMessage(lead)})
	if err != nil {
		return fmt.Errorf("encoding telegram message: %w", err)
	}

	url := fmt.Sprintf("%s/bot%s/sendMessage", n.baseURL, n.botToken)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("building telegram request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.client.Do(req)
	if err != nil {
		// The URL carries the bot token, so keep it out of the error.
		return errors.Wrapf(errors.ErrNotificationFailed, "telegram request failed")
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 4096))
	if err != nil {
		return errors.Wrapf(errors.ErrNotificationFailed, "reading telegram response")
	}
	var apiResp telegramResponse
	if err := json.Unmarshal(body, &apiResp); err != nil || resp.StatusCode != http.StatusOK || !apiResp.OK {
		return errors.Wrapf(errors.ErrNotificationFailed, "telegram status %d: %s", resp.StatusCode, apiResp.Description)
	}
	return nil
}

// leadMessage is plain text so no escaping is needed
func leadMessage(lead *Lead) string {
	lines := []string{
		"New lead",
		"Name: " + lead.Name,
		"Phone: " + lead.Phone,
	}
	optional := []struct{ label, value string }{
		{"Email", lead.Email},
		{"Interest", lead.Interest},
		{"Machine", lead.Machine},
		{"Message", lead.Message},
		{"Source", lead.Source},
	}
	for _, o := range optional {
		if o.value != "" {
			lines = append(lines, o.label+": "+o.value)
		}
	}
	lines = append(lines, lead.CreatedAt.Format("2006-01-02 15:04 MST"))
	return strings.Join(lines, "\n")
}
