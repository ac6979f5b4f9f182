package services

import (
	"bytes"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/rs/zerolog"

	"planboard/internal/models"
)

const EventResultRecorded = "result.recorded"

const (
	headerEvent     = "X-Planboard-Event"
	headerTimestamp = "X-Planboard-Timestamp"
	headerSignature = "X-Planboard-Signature"
)

type ResultRecordedEvent struct {
	RunID     string `json:"runId"`
	RunName   string `json:"runName"`
	RunCaseID string `json:"runCaseId"`
	CaseID    string `json:"caseId"`
	CaseTitle string `json:"caseTitle"`
	Status    string `json:"status"`
}

// WebhookNotifier delivers signed event payloads to subscriber endpoints.
// Delivery is best effort; failures are logged and never retried.
type WebhookNotifier struct {
	logger zerolog.Logger
	client *http.Client
}

func NewWebhookNotifier(logger zerolog.Logger) *WebhookNotifier {
	return &WebhookNotifier{
		logger: logger,
		client: &http.Client{Timeout: 5 * time.Second},
	}
}

type webhookEnvelope struct {
	Event string `json:"event"`
	Data  any    `json:"data"`
}

func (n *WebhookNotifier) Notify(hook models.Webhook, event string, payload any) {
	body, err := json.Marshal(webhookEnvelope{Event: event, Data: payload})
	if err != nil {
		n.logger.Error().
			Err(err).
			Str("webhook_id", hook.ID).
			Msg("failed to marshal webhook payload")
		return
	}

	ts := strconv.FormatInt(time.Now().Unix(), 10)

	req, err := http.NewRequest(http.MethodPost, hook.URL, bytes.NewReader(body))
	if err != nil {
		n.logger.Error().
			Err(err).
			Str("webhook_id", hook.ID).
			Msg("failed to build webhook request")
		return
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(headerEvent, event)
	req.Header.Set(headerTimestamp, ts)
	req.Header.Set(headerSignature, SignHex(hook.Secret, ts, body))

	resp, err := n.client.Do(req)
	if err != nil {
		n.logger.Warn().
			Err(err).
			Str("webhook_id", hook.ID).
			Str("url", hook.URL).
			Msg("webhook delivery failed")
		return
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode >= http.StatusMultipleChoices {
		n.logger.Warn().
			Str("webhook_id", hook.ID).
			Str("url", hook.URL).
			Int("status", resp.StatusCode).
			Msg("webhook endpoint rejected delivery")
		return
	}

	n.logger.Debug().
		Str("webhook_id", hook.ID).
		Str("event", event).
		Msg("delivered webhook")
}

// SignHex computes a hex HMAC-SHA256 over "<timestamp>.<body>".
func SignHex(secret, timestamp string, body []byte) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(timestamp))
	mac.Write([]byte("."))
	mac.Write(body)
	return hex.EncodeToString(mac.Sum(nil))
}
