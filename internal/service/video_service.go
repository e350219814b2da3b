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

type VideoTutorialService struct {
	repos  *repository.Repositories
	logger *logrus.Logger
}

func NewVideoTutorialService(repos *repository.Repositories, logger *logrus.Logger) *VideoTutorialService {
	return &VideoTutorialService{
		repos:  repos,
		logger: logger,
	}
}

func (s *VideoTutorialService) Create(ctx context.Context, videoURL, languageCode string) (*models.VideoTutorial, error) {
	videoURL = strings.TrimSpace(videoURL)
	languageCode = strings.TrimSpace(languageCode)
	if videoURL == "" || languageCode == "" {
		return nil, apperr.Validation("video_url and language_code are required")
	}
	lang, err := ParseLanguageCode(languageCode)
	if err != nil {
		return nil, err
	}

	video := &models.VideoTutorial{VideoURL: videoURL, LanguageCode: string(lang)}
	if err := s.repos.Videos.Create(ctx, video); err != nil {
		return nil, apperr.Internal(err)
	}
	return video, nil
}

// Update changes the URL and/or language of a tutorial. Empty arguments keep the current value.
func (s *VideoTutorialService) Update(ctx context.Context, id uint, videoURL, languageCode string) (*models.VideoTutorial, error) {
	if id == 0 {
		return nil, apperr.Validation("id is required")
	}
	videoURL = strings.TrimSpace(videoURL)
	languageCode = strings.TrimSpace(languageCode)
	if videoURL == "" && languageCode == "" {
		return nil, apperr.Validation("At least one of video_url or language_code must be provided")
	}
	if languageCode != "" {
		if _, err := ParseLanguageCode(languageCode); err != nil {
			return nil, err
		}
	}

	video, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	if videoURL != "" {
		video.VideoURL = videoURL
	}
	if languageCode != "" {
		video.LanguageCode = languageCode
	}

	if err := s.repos.Videos.Update(ctx, video); err != nil {
		return nil, mapVideoError(err)
	}
	return video, nil
}

func (s *VideoTutorialService) Delete(ctx context.Context, id uint) error {
	return s.setStatus(ctx, id, models.StatusInactive, "Video tutorial is already deleted")
}

func (s *VideoTutorialService) Restore(ctx context.Context, id uint) error {
	return s.setStatus(ctx, id, models.StatusActive, "Video tutorial is already active")
}

func (s *VideoTutorialService) setStatus(ctx context.Context, id uint, status models.Status, unchanged string) error {
	if id == 0 {
		return apperr.Validation("id is required")
	}
	video, err := s.find(ctx, id)
	if err != nil {
		return err
	}
	if video.Status == status {
		return apperr.Validation(unchanged)
	}
	if err := s.repos.Videos.SetStatus(ctx, id, status); err != nil {
		return mapVideoError(err)
	}
	return nil
}

// FirstByLanguage returns the first active tutorial recorded for a language.
func (s *VideoTutorialService) FirstByLanguage(ctx context.Context, languageCode string) (*models.VideoTutorial, error) {
	lang, err := ParseLanguageCode(languageCode)
	if err != nil {
		return nil, err
	}
	video, err := s.repos.Videos.FirstActiveByLanguage(ctx, string(lang))
	if errors.Is(err, repository.ErrNotFound) {
		return nil, apperr.NotFound("No video tutorials found for the specified language code")
	}
	if err != nil {
		return nil, apperr.Internal(err)
	}
	return video, nil
}

// List returns every tutorial, deleted ones included.
func (s *VideoTutorialService) List(ctx context.Context) ([]models.VideoTutorial, error) {
	videos, err := s.repos.Videos.List(ctx)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	return videos, nil
}

func (s *VideoTutorialService) find(ctx context.Context, id uint) (*models.VideoTutorial, error) {
	video, err := s.repos.Videos.FindByID(ctx, id)
	if err != nil {
		return nil, mapVideoError(err)
	}
	return video, nil
}

func mapVideoError(err error) error {
	if errors.Is(err, repository.ErrNotFound) {
		return apperr.NotFound("Video tutorial not found")
	}
	return apperr.Internal(err)
}
