package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/fiftyhertz/agriapi/internal/models"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type otpRow struct {
	ID        uint      `gorm:"primaryKey"`
	Phone     string    `gorm:"size:20;not null;uniqueIndex"`
	CodeHash  string    `gorm:"column:otp_code;size:100;not null"`
	ExpiresAt time.Time `gorm:"not null;index"`
	Attempts  int       `gorm:"not null;default:0"`
}

func (otpRow) TableName() string {
	return "otps"
}

type OTPRepository struct {
	db     *gorm.DB
	logger *logrus.Logger
}

func NewOTPRepository(db *gorm.DB, logger *logrus.Logger) *OTPRepository {
	return &OTPRepository{
		db:     db,
		logger: logger,
	}
}

// Create stores a hashed code and fills in its id. A code already stored for the phone
// is overwritten, so two concurrent issuances leave one row instead of a unique violation.
func (r *OTPRepository) Create(ctx context.Context, otp *models.OneTimeCode) error {
	row := &otpRow{
		Phone:     otp.Phone,
		CodeHash:  otp.CodeHash,
		ExpiresAt: otp.ExpiresAt,
	}
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "phone"}},
			DoUpdates: clause.Assignments(map[string]interface{}{"otp_code": row.CodeHash, "expires_at": row.ExpiresAt, "attempts": 0}),
		}).
		Create(row).Error
	if err != nil {
		r.logger.WithError(err).WithField("phone", otp.Phone).Error("Failed to store OTP")
		return fmt.Errorf("failed to store OTP: %w", err)
	}
	otp.ID = row.ID
	return nil
}

// DeleteByPhone removes every code issued to phone, expired or not.
func (r *OTPRepository) DeleteByPhone(ctx context.Context, phone string) error {
	if err := r.db.WithContext(ctx).Where("phone = ?", phone).Delete(&otpRow{}).Error; err != nil {
		return fmt.Errorf("failed to delete OTPs: %w", err)
	}
	return nil
}

// FindLatestValid returns the most recently issued code for phone that expires after now.
func (r *OTPRepository) FindLatestValid(ctx context.Context, phone string, now time.Time) (*models.OneTimeCode, error) {
	var row otpRow
	err := r.db.WithContext(ctx).
		Where("phone = ? AND expires_at > ?", phone, now).
		Order("id DESC").
		Limit(1).
		Take(&row).Error
	if err != nil {
		return nil, notFound(err)
	}
	return &models.OneTimeCode{
		ID:        row.ID,
		Phone:     row.Phone,
		CodeHash:  row.CodeHash,
		ExpiresAt: row.ExpiresAt,
		Attempts:  row.Attempts,
	}, nil
}

// Delete removes the code with the given id. It returns ErrNotFound when no row was
// deleted, which is how a caller learns that a concurrent request consumed the code first.
func (r *OTPRepository) Delete(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).Where("id = ?", id).Delete(&otpRow{})
	if result.Error != nil {
		return fmt.Errorf("failed to delete OTP: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// IncrementAttempts records one wrong code against the row and returns the new count.
func (r *OTPRepository) IncrementAttempts(ctx context.Context, id uint) (int, error) {
	result := r.db.WithContext(ctx).
		Model(&otpRow{}).
		Where("id = ?", id).
		UpdateColumn("attempts", gorm.Expr("attempts + 1"))
	if result.Error != nil {
		return 0, fmt.Errorf("failed to count OTP attempt: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return 0, ErrNotFound
	}

	var row otpRow
	if err := r.db.WithContext(ctx).Select("attempts").Where("id = ?", id).Take(&row).Error; err != nil {
		return 0, notFound(err)
	}
	return row.Attempts, nil
}
