package notify

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"emi-genie/internal/config"
)

var testLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

func TestNewChannelSelectsMockWithoutCredentials(t *testing.T) {
	channel := NewChannel(config.TwilioConfig{}, testLogger)

	assert.False(t, channel.Live())
	_, ok := channel.(*MockChannel)
	assert.True(t, ok)
}

func TestNewChannelSelectsTwilioWithFullCredentials(t *testing.T) {
	cfg := config.TwilioConfig{
		AccountSID: "AC123",
		AuthToken:  "token",
		FromNumber: "+15550000001",
	}

	channel := NewChannel(cfg, testLogger)

	assert.True(t, channel.Live())
	_, ok := channel.(*TwilioChannel)
	assert.True(t, ok)
}

func TestNewChannelPartialCredentialsStayMock(t *testing.T) {
	cfg := config.TwilioConfig{AccountSID: "AC123", AuthToken: "token"}

	channel := NewChannel(cfg, testLogger)

	assert.False(t, channel.Live())
}

func TestMockChannelPlaceCall(t *testing.T) {
	channel := NewMockChannel(testLogger)

	sid, err := channel.PlaceCall(context.Background(), "+919876500001", "Hello Ravi")

	require.NoError(t, err)
	assert.Empty(t, sid)
}

func TestMockChannelSendSMSDescriptor(t *testing.T) {
	channel := NewMockChannel(testLogger)

	detail, err := channel.SendSMS(context.Background(), "+919876500001", "Pay your EMI of Rs 2500.")

	require.NoError(t, err)
	assert.Equal(t, "mock_sms_sent_to_+919876500001::Pay your EMI of Rs 2500.", detail)
}
