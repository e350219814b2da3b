package service

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/fiftyhertz/agriapi/internal/apperr"
	"github.com/fiftyhertz/agriapi/internal/config"
	"github.com/fiftyhertz/agriapi/internal/models"
	"github.com/fiftyhertz/agriapi/internal/repository"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
)

const (
	otpMin = 1000
	otpMax = 9999
)

// ErrInvalidOTP means no unexpired code exists for the phone or the submitted code does not match it.
var ErrInvalidOTP = errors.New("invalid or expired OTP")

// otpMismatchError marks a wrong guess against a stored code. The attempt is recorded
// by RecordFailedAttempt once the surrounding transaction has rolled back.
type otpMismatchError struct {
	otpID uint
}

func (e *otpMismatchError) Error() string { return ErrInvalidOTP.Error() }

func (e *otpMismatchError) Unwrap() error { return ErrInvalidOTP }

type OTPService struct {
	repos    *repository.Repositories
	notifier Notifier
	audit    *AuditLogger
	cfg      *config.OTPConfig
	logger   *logrus.Logger
	now      func() time.Time
}

func NewOTPService(repos *repository.Repositories, notifier Notifier, audit *AuditLogger, cfg *config.OTPConfig, logger *logrus.Logger) *OTPService {
	return &OTPService{
		repos:    repos,
		notifier: notifier,
		audit:    audit,
		cfg:      cfg,
		logger:   logger,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// Issue replaces any code previously issued to phone with a fresh one and delivers it.
func (s *OTPService) Issue(ctx context.Context, phone string) (*models.IssuedOTP, error) {
	phone = strings.TrimSpace(phone)
	if phone == "" {
		return nil, apperr.Validation("Phone number is required")
	}

	code, err := generateRandomOTP()
	if err != nil {
		return nil, apperr.Internal(fmt.Errorf("failed to generate OTP: %w", err))
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(code), bcrypt.DefaultCost)
	if err != nil {
		return nil, apperr.Internal(fmt.Errorf("failed to hash OTP: %w", err))
	}

	otp := &models.OneTimeCode{
		Phone:     phone,
		CodeHash:  string(hashed),
		ExpiresAt: s.now().Add(s.cfg.Expiry),
	}

	err = s.repos.Transaction(ctx, func(tx *repository.Repositories) error {
		if err := tx.OTPs.DeleteByPhone(ctx, phone); err != nil {
			return err
		}
		return tx.OTPs.Create(ctx, otp)
	})
	if err != nil {
		s.logger.WithError(err).WithField("phone", phone).Error("Failed to issue OTP")
		return nil, apperr.Internal(err)
	}

	if err := s.notifier.SendOTP(ctx, phone, code, s.cfg.Expiry); err != nil {
		s.logger.WithError(err).WithField("phone", phone).Warn("Failed to deliver OTP")
	}

	s.audit.Record(ctx, models.NewAuditEvent(models.OTPRequestedEvent, 0, phone, true))

	return &models.IssuedOTP{
		ID:        otp.ID,
		Phone:     phone,
		Code:      code,
		ExpiresAt: otp.ExpiresAt,
	}, nil
}

// Consume checks code against the latest unexpired code for phone and deletes it on success.
// It must run inside the caller's transaction so the code cannot be used twice.
func (s *OTPService) Consume(ctx context.Context, tx *repository.Repositories, phone, code string) error {
	otp, err := tx.OTPs.FindLatestValid(ctx, phone, s.now())
	if errors.Is(err, repository.ErrNotFound) {
		return ErrInvalidOTP
	}
	if err != nil {
		return err
	}

	if otp.Attempts >= s.cfg.MaxAttempts {
		return ErrInvalidOTP
	}

	if err := bcrypt.CompareHashAndPassword([]byte(otp.CodeHash), []byte(code)); err != nil {
		return &otpMismatchError{otpID: otp.ID}
	}

	// another request consumed the same code between the read and the delete
	err = tx.OTPs.Delete(ctx, otp.ID)
	if errors.Is(err, repository.ErrNotFound) {
		return ErrInvalidOTP
	}
	return err
}

// RecordFailedAttempt counts a wrong guess reported by Consume and removes the code once
// OTP_MAX_ATTEMPTS is reached. Errors other than a mismatch are ignored.
func (s *OTPService) RecordFailedAttempt(ctx context.Context, phone string, consumeErr error) {
	var mismatch *otpMismatchError
	if !errors.As(consumeErr, &mismatch) {
		return
	}

	attempts, err := s.repos.OTPs.IncrementAttempts(ctx, mismatch.otpID)
	if errors.Is(err, repository.ErrNotFound) {
		return
	}
	if err != nil {
		s.logger.WithError(err).WithField("phone", phone).Error("Failed to record OTP attempt")
		return
	}

	if attempts < s.cfg.MaxAttempts {
		return
	}
	if err := s.repos.OTPs.Delete(ctx, mismatch.otpID); err != nil && !errors.Is(err, repository.ErrNotFound) {
		s.logger.WithError(err).WithField("phone", phone).Error("Failed to remove exhausted OTP")
		return
	}
	s.logger.WithFields(logrus.Fields{"phone": phone, "attempts": attempts}).Warn("OTP removed after too many failed attempts")
}

// generateRandomOTP returns a uniformly distributed code in [otpMin, otpMax].
func generateRandomOTP() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(otpMax-otpMin+1))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%d", n.Int64()+otpMin), nil
}
