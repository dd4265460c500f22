package mail

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"
)

const resendEndpoint = "https://api.resend.com/emails"

// ResendMailer delivers through the Resend HTTP API. A missing API key
// is a configuration failure and behaves like any other delivery
// failure from the caller's point of view.
type ResendMailer struct {
	APIKey string
	From   string
	Client *http.Client
}

func NewResendMailer(apiKey, from string) *ResendMailer {
	return &ResendMailer{
		APIKey: apiKey,
		From:   from,
		Client: &http.Client{Timeout: 10 * time.Second},
	}
}

type resendRequest struct {
	From    string   `json:"from"`
	To      []string `json:"to"`
	Subject string   `json:"subject"`
	Text    string   `json:"text"`
}

type resendError struct {
	Message string `json:"message"`
}

func (m *ResendMailer) Send(to, subject, body string) bool {
	if m.APIKey == "" {
		log.Error().Msg("resend mailer: RESEND_API_KEY is not configured")
		return report(false)
	}

	payload, err := json.Marshal(resendRequest{
		From:    m.From,
		To:      []string{to},
		Subject: subject,
		Text:    body,
	})
	if err != nil {
		log.Error().Err(err).Msg("resend mailer: marshal payload")
		return report(false)
	}

	req, err := http.NewRequest(http.MethodPost, resendEndpoint, bytes.NewReader(payload))
	if err != nil {
		log.Error().Err(err).Msg("resend mailer: build request")
		return report(false)
	}
	req.Header.Set("Authorization", "Bearer "+m.APIKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := m.Client.Do(req)
	if err != nil {
		log.Error().Err(err).Str("to", to).Msg("resend mailer: request failed")
		return report(false)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		respBody, _ := io.ReadAll(resp.Body)
		var apiErr resendError
		msg := string(respBody)
		if json.Unmarshal(respBody, &apiErr) == nil && apiErr.Message != "" {
			msg = apiErr.Message
		}
		log.Error().Int("status", resp.StatusCode).Str("error", msg).Msg("resend mailer: api error")
		return report(false)
	}
	return report(true)
}
