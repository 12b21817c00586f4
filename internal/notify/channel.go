// Package notify abstracts the outbound voice/SMS transport. The choice
// between the live Twilio channel and the local mock is made once at startup
// from the configured credentials; there is no per-call override.
package notify

import (
	"context"
	"log/slog"

	"emi-genie/internal/config"
)

// Channel is the consumed notification capability. PlaceCall returns the
// provider call SID on the live channel and an empty string on the mock;
// SendSMS returns the provider message SID or, on the mock, a synthesized
// descriptor of the form mock_sms_sent_to_<contact>::<body>.
type Channel interface {
	Live() bool

	PlaceCall(ctx context.Context, contact, text string) (string, error)

	SendSMS(ctx context.Context, contact, body string) (string, error)
}

// NewChannel selects the live channel only when all three Twilio credentials
// are present; any missing credential pins the process to the mock channel.
func NewChannel(cfg config.TwilioConfig, logger *slog.Logger) Channel {
	if cfg.Configured() {
		logger.Info("Twilio credentials configured, using live notification channel")
		return NewTwilioChannel(cfg, logger)
	}
	logger.Info("Twilio credentials absent, using mock notification channel")
	return NewMockChannel(logger)
}
