package sms

import (
	"github.com/rs/zerolog/log"
	"github.com/twilio/twilio-go"
	openapi "github.com/twilio/twilio-go/rest/api/v2010"

	"github.com/techsense/store_be/internal/config"
	"github.com/techsense/store_be/internal/metrics"
)

// Sender is the SMS side of the notification gateway. Like the mailer,
// it reports failures as a boolean and never raises past its boundary.
type Sender interface {
	Send(phone, message string) bool
}

// New selects the backend once at startup from SMS_DRIVER.
func New(cfg config.Config) Sender {
	if cfg.SMSDriver == "twilio" {
		return NewTwilioSender(cfg.TwilioAccountSID, cfg.TwilioAuthToken, cfg.TwilioFrom)
	}
	return &LogSender{}
}

func report(ok bool) bool {
	if ok {
		metrics.SMSSent.Inc()
	} else {
		metrics.SMSFailed.Inc()
	}
	return ok
}

// LogSender only echoes the message to the log.
type LogSender struct{}

func (*LogSender) Send(phone, message string) bool {
	log.Info().Str("phone", phone).Str("message", message).Msg("sms (log backend)")
	return report(true)
}

// TwilioSender dispatches through the Twilio messaging API.
type TwilioSender struct {
	client *twilio.RestClient
	from   string
}

func NewTwilioSender(accountSID, authToken, from string) *TwilioSender {
	client := twilio.NewRestClientWithParams(twilio.ClientParams{
		Username: accountSID,
		Password: authToken,
	})
	return &TwilioSender{client: client, from: from}
}

func (s *TwilioSender) Send(phone, message string) bool {
	if s.from == "" {
		log.Error().Msg("twilio sender: TWILIO_FROM is not configured")
		return report(false)
	}

	params := &openapi.CreateMessageParams{}
	params.SetTo(phone)
	params.SetFrom(s.from)
	params.SetBody(message)

	if _, err := s.client.Api.CreateMessage(params); err != nil {
		log.Error().Err(err).Str("phone", phone).Msg("twilio sender: send failed")
		return report(false)
	}
	return report(true)
}
