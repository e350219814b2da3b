package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/fiftyhertz/agriapi/internal/models"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

type sessionTokenRow struct {
	ID        uint      `gorm:"primaryKey"`
	UserID    uint      `gorm:"not null;index"`
	User      *userRow  `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	Token     string    `gorm:"type:text;not null;index"`
	ExpiresAt time.Time `gorm:"not null"`
}

func (sessionTokenRow) TableName() string {
	return "user_tokens"
}

type SessionTokenRepository struct {
	db     *gorm.DB
	logger *logrus.Logger
}

func NewSessionTokenRepository(db *gorm.DB, logger *logrus.Logger) *SessionTokenRepository {
	return &SessionTokenRepository{
		db:     db,
		logger: logger,
	}
}

func (r *SessionTokenRepository) Create(ctx context.Context, token *models.SessionToken) error {
	row := &sessionTokenRow{
		UserID:    token.UserID,
		Token:     token.Token,
		ExpiresAt: token.ExpiresAt,
	}
	if err := r.db.WithContext(ctx).Create(row).Error; err != nil {
		r.logger.WithError(err).WithField("user_id", token.UserID).Error("Failed to store session token")
		return fmt.Errorf("failed to store session token: %w", err)
	}
	token.ID = row.ID
	return nil
}

func (r *SessionTokenRepository) FindByToken(ctx context.Context, token string) (*models.SessionToken, error) {
	var row sessionTokenRow
	if err := r.db.WithContext(ctx).Where("token = ?", token).Take(&row).Error; err != nil {
		return nil, notFound(err)
	}
	return rowToSessionToken(&row), nil
}

// DeleteByUserID revokes every token of a user.
func (r *SessionTokenRepository) DeleteByUserID(ctx context.Context, userID uint) error {
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).Delete(&sessionTokenRow{}).Error; err != nil {
		return fmt.Errorf("failed to delete session tokens: %w", err)
	}
	return nil
}

// Delete revokes a single token.
func (r *SessionTokenRepository) Delete(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).Where("id = ?", id).Delete(&sessionTokenRow{})
	if result.Error != nil {
		return fmt.Errorf("failed to delete session token: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// CountByUserID is used to check the one-live-token-per-user guarantee.
func (r *SessionTokenRepository) CountByUserID(ctx context.Context, userID uint) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&sessionTokenRow{}).Where("user_id = ?", userID).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count session tokens: %w", err)
	}
	return count, nil
}

func rowToSessionToken(row *sessionTokenRow) *models.SessionToken {
	return &models.SessionToken{
		ID:        row.ID,
		UserID:    row.UserID,
		Token:     row.Token,
		ExpiresAt: row.ExpiresAt,
	}
}
