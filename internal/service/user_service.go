package service

import (
	"context"
	"errors"
	"strings"

	"github.com/fiftyhertz/agriapi/internal/apperr"
	"github.com/fiftyhertz/agriapi/internal/models"
	"github.com/fiftyhertz/agriapi/internal/repository"
	"github.com/sirupsen/logrus"
)

type UserService struct {
	repos  *repository.Repositories
	audit  *AuditLogger
	logger *logrus.Logger
}

func NewUserService(repos *repository.Repositories, audit *AuditLogger, logger *logrus.Logger) *UserService {
	return &UserService{
		repos:  repos,
		audit:  audit,
		logger: logger,
	}
}

func (s *UserService) GetByID(ctx context.Context, id uint) (*models.User, error) {
	user, err := s.repos.Users.FindByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, apperr.NotFound("User not found")
	}
	if err != nil {
		return nil, apperr.Internal(err)
	}
	return user, nil
}

// SelectLanguage stores the preferred language of userID. Users may only change their own language.
func (s *UserService) SelectLanguage(ctx context.Context, actorID, userID uint, code, name string) error {
	code = strings.TrimSpace(code)
	name = strings.TrimSpace(name)
	if userID == 0 || code == "" || name == "" {
		return apperr.Validation("user id, language code and language name are required")
	}
	if actorID != userID {
		return apperr.Authorization("Cannot change language for another user")
	}

	err := s.repos.Users.UpdateLanguage(ctx, userID, code, name)
	if errors.Is(err, repository.ErrNotFound) {
		return apperr.NotFound("User not found")
	}
	if err != nil {
		return apperr.Internal(err)
	}

	event := models.NewAuditEvent(models.LanguageChangedEvent, userID, "", true)
	event.Reason = code
	s.audit.Record(ctx, event)
	return nil
}
