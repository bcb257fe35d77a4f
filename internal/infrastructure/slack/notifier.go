// Package slack delivers alert messages to a Slack incoming webhook.
package slack

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"darkwebmonitor/internal/domain"
	"darkwebmonitor/internal/ports"
)

const (
	footerText = "Darkweb Monitor JP"
	footerIcon = "https://platform.slack-edge.com/img/default_application_icon.png"
)

// Notifier posts attachment payloads to a Slack-style incoming webhook.
type Notifier struct {
	webhookURL string
	client     *http.Client
	now        func() time.Time
}

var _ ports.AlertNotifier = (*Notifier)(nil)

// NewNotifier registers the webhook endpoint. client may be nil, defaulting
// to a 10 second timeout.
func NewNotifier(webhookURL string, client *http.Client) *Notifier {
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	return &Notifier{webhookURL: webhookURL, client: client, now: time.Now}
}

type attachment struct {
	Color      string   `json:"color"`
	Text       string   `json:"text"`
	MarkdownIn []string `json:"mrkdwn_in"`
	Footer     string   `json:"footer"`
	FooterIcon string   `json:"footer_icon"`
	Timestamp  int64    `json:"ts"`
}

type payload struct {
	Attachments []attachment `json:"attachments"`
}

// Send delivers the formatted message with a severity-derived color. One
// attempt only; the dispatcher treats an error as a failed delivery.
func (n *Notifier) Send(ctx context.Context, message string, severity domain.Severity) error {
	if n.webhookURL == "" {
		return fmt.Errorf("slack notifier misconfigured")
	}

	body, err := json.Marshal(payload{
		Attachments: []attachment{{
			Color:      severity.Color(),
			Text:       message,
			MarkdownIn: []string{"text"},
			Footer:     footerText,
			FooterIcon: footerIcon,
			Timestamp:  n.now().UTC().Unix(),
		}},
	})
	if err != nil {
		return fmt.Errorf("marshal slack payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.webhookURL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("new request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.client.Do(req)
	if err != nil {
		return fmt.Errorf("post slack webhook: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		return fmt.Errorf("slack error: %s", resp.Status)
	}

	return nil
}
