package service

import (
	"context"
	"fmt"
	"time"

	"github.com/fiftyhertz/agriapi/internal/config"
	"github.com/sirupsen/logrus"
	"github.com/twilio/twilio-go"
	twilioApi "github.com/twilio/twilio-go/rest/api/v2010"
)

// Notifier delivers one-time codes to the user's phone.
type Notifier interface {
	SendOTP(ctx context.Context, phone, code string, validFor time.Duration) error
}

// NewNotifier returns a Twilio notifier when credentials are configured and a log-only notifier otherwise.
func NewNotifier(cfg *config.TwilioConfig, logger *logrus.Logger) Notifier {
	if !cfg.Enabled() {
		logger.Warn("Twilio is not configured, OTPs will only be logged")
		return NewLogNotifier(logger)
	}
	client := twilio.NewRestClientWithParams(twilio.ClientParams{
		Username: cfg.AccountSID,
		Password: cfg.AuthToken,
	})
	return NewTwilioNotifier(client.Api, cfg.FromNumber, logger)
}

// LogNotifier writes the code to the log. Used in development.
type LogNotifier struct {
	logger *logrus.Logger
}

func NewLogNotifier(logger *logrus.Logger) *LogNotifier {
	return &LogNotifier{logger: logger}
}

func (n *LogNotifier) SendOTP(_ context.Context, phone, code string, validFor time.Duration) error {
	n.logger.WithFields(logrus.Fields{
		"phone":     phone,
		"otp":       code,
		"valid_for": validFor.String(),
	}).Info("OTP generated (logged for development)")
	return nil
}

// messageCreator is the part of the Twilio REST API used to send SMS.
type messageCreator interface {
	CreateMessage(params *twilioApi.CreateMessageParams) (*twilioApi.ApiV2010Message, error)
}

type TwilioNotifier struct {
	api        messageCreator
	fromNumber string
	logger     *logrus.Logger
}

func NewTwilioNotifier(api messageCreator, fromNumber string, logger *logrus.Logger) *TwilioNotifier {
	return &TwilioNotifier{
		api:        api,
		fromNumber: fromNumber,
		logger:     logger,
	}
}

func (n *TwilioNotifier) SendOTP(_ context.Context, phone, code string, validFor time.Duration) error {
	params := &twilioApi.CreateMessageParams{}
	params.SetTo(phone)
	params.SetFrom(n.fromNumber)
	params.SetBody(fmt.Sprintf("Your 50Hertz verification code is %s. It is valid for %d minutes.", code, int(validFor.Minutes())))

	msg, err := n.api.CreateMessage(params)
	if err != nil {
		return fmt.Errorf("failed to send SMS: %w", err)
	}

	if msg != nil && msg.Sid != nil {
		n.logger.WithFields(logrus.Fields{"phone": phone, "sid": *msg.Sid}).Info("OTP SMS sent")
	}
	return nil
}
