package notify

import (
	"context"
	"fmt"
	"log/slog"
)

// MockChannel logs instead of calling out. It keeps the dispatch flow (and
// its audit trail) fully observable in demos and tests without provider
// credentials.
type MockChannel struct {
	logger *slog.Logger
}

var _ Channel = (*MockChannel)(nil)

func NewMockChannel(logger *slog.Logger) *MockChannel {
	return &MockChannel{logger: logger.With(slog.String("component", "MockChannel"))}
}

func (c *MockChannel) Live() bool { return false }

func (c *MockChannel) PlaceCall(ctx context.Context, contact, text string) (string, error) {
	c.logger.InfoContext(ctx, "Mock voice call", slog.String("to", contact), slog.String("text", text))
	return "", nil
}

func (c *MockChannel) SendSMS(ctx context.Context, contact, body string) (string, error) {
	c.logger.InfoContext(ctx, "Mock SMS", slog.String("to", contact), slog.String("body", body))
	return fmt.Sprintf("mock_sms_sent_to_%s::%s", contact, body), nil
}
