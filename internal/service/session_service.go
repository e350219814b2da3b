package service

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/fiftyhertz/agriapi/internal/apperr"
	"github.com/fiftyhertz/agriapi/internal/models"
	"github.com/fiftyhertz/agriapi/internal/repository"
	"github.com/sirupsen/logrus"
)

type VerifyOTPRequest struct {
	Phone        string
	OTP          string
	DeviceType   string
	FCMToken     string
	LanguageCode string
	LanguageName string
}

// SessionService turns a verified OTP into a session and ends sessions.
type SessionService struct {
	repos  *repository.Repositories
	otps   *OTPService
	jwt    *JWTService
	audit  *AuditLogger
	logger *logrus.Logger
}

func NewSessionService(repos *repository.Repositories, otps *OTPService, jwtService *JWTService, audit *AuditLogger, logger *logrus.Logger) *SessionService {
	return &SessionService{
		repos:  repos,
		otps:   otps,
		jwt:    jwtService,
		audit:  audit,
		logger: logger,
	}
}

// VerifyOTP consumes the code, finds or creates the user and issues a token that replaces
// every earlier token of that user. All store writes happen in one transaction.
func (s *SessionService) VerifyOTP(ctx context.Context, req VerifyOTPRequest) (*models.Session, error) {
	req.Phone = strings.TrimSpace(req.Phone)
	req.OTP = strings.TrimSpace(req.OTP)
	if req.Phone == "" || req.OTP == "" || strings.TrimSpace(req.LanguageCode) == "" || strings.TrimSpace(req.LanguageName) == "" {
		return nil, apperr.Validation("Phone number, OTP, language code and language name are required")
	}

	deviceType, err := models.ParseDeviceType(req.DeviceType)
	if err != nil {
		return nil, apperr.Validation("Invalid device type")
	}

	var (
		userID    uint
		token     string
		expiresAt time.Time
	)
	err = s.repos.Transaction(ctx, func(tx *repository.Repositories) error {
		if err := s.otps.Consume(ctx, tx, req.Phone, req.OTP); err != nil {
			return err
		}

		user, err := s.findOrCreateUser(ctx, tx, req, deviceType)
		if err != nil {
			return err
		}
		userID = user.ID

		token, expiresAt, err = s.jwt.GenerateSessionToken(user)
		if err != nil {
			return err
		}

		if err := tx.Tokens.DeleteByUserID(ctx, user.ID); err != nil {
			return err
		}
		return tx.Tokens.Create(ctx, &models.SessionToken{
			UserID:    user.ID,
			Token:     token,
			ExpiresAt: expiresAt,
		})
	})
	if errors.Is(err, ErrInvalidOTP) {
		s.otps.RecordFailedAttempt(ctx, req.Phone, err)
		event := models.NewAuditEvent(models.OTPVerifyFailedEvent, 0, req.Phone, false)
		event.Reason = err.Error()
		s.audit.Record(ctx, event)
		return nil, apperr.Authentication("Invalid or expired OTP").WithStatus(http.StatusBadRequest)
	}
	if err != nil {
		s.logger.WithError(err).WithField("phone", req.Phone).Error("Failed to verify OTP")
		return nil, apperr.Internal(err)
	}

	user, err := s.repos.Users.FindByID(ctx, userID)
	if err != nil {
		return nil, apperr.Internal(err)
	}

	s.audit.Record(ctx, models.NewAuditEvent(models.OTPVerifiedEvent, user.ID, user.Phone, true))

	return &models.Session{
		Token:     token,
		ExpiresAt: expiresAt,
		User:      user,
	}, nil
}

func (s *SessionService) findOrCreateUser(ctx context.Context, tx *repository.Repositories, req VerifyOTPRequest, deviceType models.DeviceType) (*models.User, error) {
	user, err := tx.Users.FindByPhone(ctx, req.Phone)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}

	user = &models.User{
		Phone:        req.Phone,
		DeviceType:   deviceType,
		Status:       models.StatusActive,
		LanguageCode: strings.TrimSpace(req.LanguageCode),
		LanguageName: strings.TrimSpace(req.LanguageName),
		AdminFlag:    models.NonAdmin,
		FCMToken:     req.FCMToken,
	}
	if err := tx.Users.Create(ctx, user); err != nil {
		return nil, err
	}
	s.logger.WithFields(logrus.Fields{"user_id": user.ID, "phone": user.Phone}).Info("Created user")
	return user, nil
}

// Logout revokes the token the request was authenticated with.
func (s *SessionService) Logout(ctx context.Context, token *models.SessionToken) error {
	if err := s.repos.Tokens.Delete(ctx, token.ID); err != nil && !errors.Is(err, repository.ErrNotFound) {
		return apperr.Internal(err)
	}
	s.audit.Record(ctx, models.NewAuditEvent(models.UserLogoutEvent, token.UserID, "", true))
	return nil
}

// DeleteAccount removes the user and every token it holds.
func (s *SessionService) DeleteAccount(ctx context.Context, userID uint) error {
	err := s.repos.Transaction(ctx, func(tx *repository.Repositories) error {
		if err := tx.Tokens.DeleteByUserID(ctx, userID); err != nil {
			return err
		}
		return tx.Users.Delete(ctx, userID)
	})
	if errors.Is(err, repository.ErrNotFound) {
		return apperr.NotFound("User not found")
	}
	if err != nil {
		return apperr.Internal(err)
	}
	s.audit.Record(ctx, models.NewAuditEvent(models.AccountDeletedEvent, userID, "", true))
	return nil
}
