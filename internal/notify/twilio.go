package notify

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/twilio/twilio-go"
	twilioapi "github.com/twilio/twilio-go/rest/api/v2010"

	"emi-genie/internal/config"
	"emi-genie/internal/pkg/apperrors"
)

type TwilioChannel struct {
	client *twilio.RestClient
	from   string
	logger *slog.Logger
}

var _ Channel = (*TwilioChannel)(nil)

func NewTwilioChannel(cfg config.TwilioConfig, logger *slog.Logger) *TwilioChannel {
	client := twilio.NewRestClientWithParams(twilio.ClientParams{
		Username: cfg.AccountSID,
		Password: cfg.AuthToken,
	})
	return &TwilioChannel{
		client: client,
		from:   cfg.FromNumber,
		logger: logger.With(slog.String("component", "TwilioChannel")),
	}
}

func (c *TwilioChannel) Live() bool { return true }

func (c *TwilioChannel) PlaceCall(ctx context.Context, contact, text string) (string, error) {
	// Single-digit DTMF gather so the callee can answer "pay now" or
	// "reschedule" from the keypad.
	twiml := fmt.Sprintf("<Response><Gather input='dtmf' timeout='5' numDigits='1'><Say>%s</Say></Gather></Response>", text)

	params := &twilioapi.CreateCallParams{}
	params.SetTo(contact)
	params.SetFrom(c.from)
	params.SetTwiml(twiml)

	call, err := c.client.Api.CreateCall(params)
	if err != nil {
		c.logger.ErrorContext(ctx, "Twilio call creation failed", slog.String("to", contact), slog.Any("error", err))
		return "", apperrors.WrapChannelError(err, "failed to place voice call")
	}

	sid := ""
	if call.Sid != nil {
		sid = *call.Sid
	}
	c.logger.InfoContext(ctx, "Twilio call placed", slog.String("to", contact), slog.String("sid", sid))
	return sid, nil
}

func (c *TwilioChannel) SendSMS(ctx context.Context, contact, body string) (string, error) {
	params := &twilioapi.CreateMessageParams{}
	params.SetTo(contact)
	params.SetFrom(c.from)
	params.SetBody(body)

	msg, err := c.client.Api.CreateMessage(params)
	if err != nil {
		c.logger.ErrorContext(ctx, "Twilio SMS send failed", slog.String("to", contact), slog.Any("error", err))
		return "", apperrors.WrapChannelError(err, "failed to send SMS")
	}

	sid := ""
	if msg.Sid != nil {
		sid = *msg.Sid
	}
	c.logger.InfoContext(ctx, "Twilio SMS sent", slog.String("to", contact), slog.String("sid", sid))
	return sid, nil
}
