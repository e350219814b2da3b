package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/fiftyhertz/agriapi/internal/config"
	"github.com/fiftyhertz/agriapi/internal/models"
	"github.com/fiftyhertz/agriapi/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	twilioApi "github.com/twilio/twilio-go/rest/api/v2010"
)

type fakeMessageCreator struct {
	CreateMessageFunc func(params *twilioApi.CreateMessageParams) (*twilioApi.ApiV2010Message, error)
}

func (f *fakeMessageCreator) CreateMessage(params *twilioApi.CreateMessageParams) (*twilioApi.ApiV2010Message, error) {
	return f.CreateMessageFunc(params)
}

func TestNewNotifierWithoutCredentialsLogsOnly(t *testing.T) {
	n := NewNotifier(&config.TwilioConfig{}, testutil.Logger())
	_, ok := n.(*LogNotifier)
	assert.True(t, ok)
	assert.NoError(t, n.SendOTP(context.Background(), "9876543210", "1234", 15*time.Minute))
}

func TestNewNotifierWithCredentialsUsesTwilio(t *testing.T) {
	n := NewNotifier(&config.TwilioConfig{AccountSID: "AC123", AuthToken: "secret", FromNumber: "+15550001111"}, testutil.Logger())
	_, ok := n.(*TwilioNotifier)
	assert.True(t, ok)
}

func TestTwilioNotifier_SendOTP(t *testing.T) {
	var got *twilioApi.CreateMessageParams
	sid := "SM123"
	api := &fakeMessageCreator{CreateMessageFunc: func(params *twilioApi.CreateMessageParams) (*twilioApi.ApiV2010Message, error) {
		got = params
		return &twilioApi.ApiV2010Message{Sid: &sid}, nil
	}}
	n := NewTwilioNotifier(api, "+15550001111", testutil.Logger())

	require.NoError(t, n.SendOTP(context.Background(), "+919876543210", "4321", 15*time.Minute))
	require.NotNil(t, got)
	assert.Equal(t, "+919876543210", *got.To)
	assert.Equal(t, "+15550001111", *got.From)
	assert.Contains(t, *got.Body, "4321")
	assert.Contains(t, *got.Body, "15 minutes")
}

func TestTwilioNotifier_SendOTPError(t *testing.T) {
	api := &fakeMessageCreator{CreateMessageFunc: func(*twilioApi.CreateMessageParams) (*twilioApi.ApiV2010Message, error) {
		return nil, errors.New("invalid number")
	}}
	n := NewTwilioNotifier(api, "+15550001111", testutil.Logger())

	err := n.SendOTP(context.Background(), "bad", "4321", time.Minute)
	assert.ErrorContains(t, err, "failed to send SMS")
}

func TestAuditLogger_NilStoreOnlyLogs(t *testing.T) {
	a := NewAuditLogger(nil, testutil.Logger())
	assert.NotPanics(t, func() {
		a.Record(context.Background(), models.NewAuditEvent(models.UserLogoutEvent, 1, "", true))
	})
}
