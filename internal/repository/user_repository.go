package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/fiftyhertz/agriapi/internal/models"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

type userRow struct {
	ID           uint   `gorm:"primaryKey"`
	Phone        string `gorm:"size:20;not null;uniqueIndex"`
	DeviceType   string `gorm:"type:varchar(1);not null;default:'W'"`
	Status       string `gorm:"type:varchar(1);not null;default:'1'"`
	LanguageCode string `gorm:"size:10"`
	LanguageName string `gorm:"type:text"`
	IsAdmin      string `gorm:"column:is_admin;type:varchar(1);not null;default:'0'"`
	FCMToken     string `gorm:"column:fcm_token;type:text"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (userRow) TableName() string {
	return "users"
}

type UserRepository struct {
	db     *gorm.DB
	logger *logrus.Logger
}

func NewUserRepository(db *gorm.DB, logger *logrus.Logger) *UserRepository {
	return &UserRepository{
		db:     db,
		logger: logger,
	}
}

// Create inserts user and fills in its id and timestamps.
func (r *UserRepository) Create(ctx context.Context, user *models.User) error {
	row := userToRow(user)
	if err := r.db.WithContext(ctx).Create(row).Error; err != nil {
		r.logger.WithError(err).WithField("phone", user.Phone).Error("Failed to create user")
		return fmt.Errorf("failed to create user: %w", err)
	}
	user.ID = row.ID
	user.CreatedAt = row.CreatedAt
	user.UpdatedAt = row.UpdatedAt
	return nil
}

func (r *UserRepository) FindByID(ctx context.Context, id uint) (*models.User, error) {
	var row userRow
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&row).Error; err != nil {
		return nil, notFound(err)
	}
	return rowToUser(&row), nil
}

func (r *UserRepository) FindByPhone(ctx context.Context, phone string) (*models.User, error) {
	var row userRow
	if err := r.db.WithContext(ctx).Where("phone = ?", phone).First(&row).Error; err != nil {
		return nil, notFound(err)
	}
	return rowToUser(&row), nil
}

// UpdateLanguage sets the preferred language of a user.
func (r *UserRepository) UpdateLanguage(ctx context.Context, id uint, code, name string) error {
	result := r.db.WithContext(ctx).Model(&userRow{}).Where("id = ?", id).Updates(map[string]interface{}{
		"language_code": code,
		"language_name": name,
	})
	if result.Error != nil {
		return fmt.Errorf("failed to update user language: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *UserRepository) Delete(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).Where("id = ?", id).Delete(&userRow{})
	if result.Error != nil {
		return fmt.Errorf("failed to delete user: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func userToRow(u *models.User) *userRow {
	device := u.DeviceType
	if device == "" {
		device = models.DeviceWeb
	}
	return &userRow{
		ID:           u.ID,
		Phone:        u.Phone,
		DeviceType:   string(device),
		Status:       statusToDB(u.Status),
		LanguageCode: u.LanguageCode,
		LanguageName: u.LanguageName,
		IsAdmin:      adminToDB(u.AdminFlag),
		FCMToken:     u.FCMToken,
	}
}

func rowToUser(row *userRow) *models.User {
	return &models.User{
		ID:           row.ID,
		Phone:        row.Phone,
		DeviceType:   models.DeviceType(row.DeviceType),
		Status:       statusFromDB(row.Status),
		LanguageCode: row.LanguageCode,
		LanguageName: row.LanguageName,
		AdminFlag:    adminFromDB(row.IsAdmin),
		FCMToken:     row.FCMToken,
		CreatedAt:    row.CreatedAt,
		UpdatedAt:    row.UpdatedAt,
	}
}
