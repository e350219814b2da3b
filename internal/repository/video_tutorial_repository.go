package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/fiftyhertz/agriapi/internal/models"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

type videoTutorialRow struct {
	ID           uint   `gorm:"primaryKey"`
	VideoURL     string `gorm:"column:video_url;type:text"`
	LanguageCode string `gorm:"size:10;index"`
	Status       string `gorm:"type:varchar(1);not null;default:'1'"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (videoTutorialRow) TableName() string {
	return "video_tutorials"
}

type VideoTutorialRepository struct {
	db     *gorm.DB
	logger *logrus.Logger
}

func NewVideoTutorialRepository(db *gorm.DB, logger *logrus.Logger) *VideoTutorialRepository {
	return &VideoTutorialRepository{
		db:     db,
		logger: logger,
	}
}

func (r *VideoTutorialRepository) Create(ctx context.Context, video *models.VideoTutorial) error {
	row := &videoTutorialRow{
		VideoURL:     video.VideoURL,
		LanguageCode: video.LanguageCode,
		Status:       statusToDB(models.StatusActive),
	}
	if err := r.db.WithContext(ctx).Create(row).Error; err != nil {
		r.logger.WithError(err).Error("Failed to create video tutorial")
		return fmt.Errorf("failed to create video tutorial: %w", err)
	}
	*video = *rowToVideoTutorial(row)
	return nil
}

func (r *VideoTutorialRepository) FindByID(ctx context.Context, id uint) (*models.VideoTutorial, error) {
	var row videoTutorialRow
	if err := r.db.WithContext(ctx).Where("id = ?", id).Take(&row).Error; err != nil {
		return nil, notFound(err)
	}
	return rowToVideoTutorial(&row), nil
}

// FirstActiveByLanguage returns the oldest active tutorial for a language.
func (r *VideoTutorialRepository) FirstActiveByLanguage(ctx context.Context, languageCode string) (*models.VideoTutorial, error) {
	var row videoTutorialRow
	err := r.db.WithContext(ctx).
		Where("language_code = ? AND status = ?", languageCode, flagOn).
		Order("id").
		Take(&row).Error
	if err != nil {
		return nil, notFound(err)
	}
	return rowToVideoTutorial(&row), nil
}

// List returns every tutorial regardless of status.
func (r *VideoTutorialRepository) List(ctx context.Context) ([]models.VideoTutorial, error) {
	var rows []videoTutorialRow
	if err := r.db.WithContext(ctx).Order("id").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to list video tutorials: %w", err)
	}
	videos := make([]models.VideoTutorial, 0, len(rows))
	for i := range rows {
		videos = append(videos, *rowToVideoTutorial(&rows[i]))
	}
	return videos, nil
}

func (r *VideoTutorialRepository) Update(ctx context.Context, video *models.VideoTutorial) error {
	result := r.db.WithContext(ctx).Model(&videoTutorialRow{}).Where("id = ?", video.ID).Updates(map[string]interface{}{
		"video_url":     video.VideoURL,
		"language_code": video.LanguageCode,
	})
	if result.Error != nil {
		return fmt.Errorf("failed to update video tutorial: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *VideoTutorialRepository) SetStatus(ctx context.Context, id uint, status models.Status) error {
	result := r.db.WithContext(ctx).Model(&videoTutorialRow{}).Where("id = ?", id).Update("status", statusToDB(status))
	if result.Error != nil {
		return fmt.Errorf("failed to update video tutorial status: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func rowToVideoTutorial(row *videoTutorialRow) *models.VideoTutorial {
	return &models.VideoTutorial{
		ID:           row.ID,
		VideoURL:     row.VideoURL,
		LanguageCode: row.LanguageCode,
		Status:       statusFromDB(row.Status),
		CreatedAt:    row.CreatedAt,
		UpdatedAt:    row.UpdatedAt,
	}
}
