package handlers

import (
	"net/http"

	"github.com/fiftyhertz/agriapi/internal/response"
	"github.com/fiftyhertz/agriapi/internal/service"
	"github.com/sirupsen/logrus"
)

type VideoTutorialHandlers struct {
	videos *service.VideoTutorialService
	logger *logrus.Logger
}

func NewVideoTutorialHandlers(videos *service.VideoTutorialService, logger *logrus.Logger) *VideoTutorialHandlers {
	return &VideoTutorialHandlers{
		videos: videos,
		logger: logger,
	}
}

// VideoTutorialRequest accepts camelCase and snake_case keys; clients have sent both.
type VideoTutorialRequest struct {
	ID                entityID `json:"id"`
	VideoURL          string   `json:"videoUrl"`
	VideoURLSnake     string   `json:"video_url"`
	LanguageCode      string   `json:"languageCode"`
	LanguageCodeSnake string   `json:"language_code"`
}

func (req VideoTutorialRequest) url() string {
	return firstNonEmpty(req.VideoURL, req.VideoURLSnake)
}

func (req VideoTutorialRequest) language() string {
	return firstNonEmpty(req.LanguageCode, req.LanguageCodeSnake)
}

type CreateVideoTutorialResponse struct {
	ID           uint   `json:"id"`
	VideoURL     string `json:"videoUrl"`
	LanguageCode string `json:"languageCode"`
}

type UpdateVideoTutorialResponse struct {
	ID           uint   `json:"id"`
	VideoURL     string `json:"video_url"`
	LanguageCode string `json:"language_code"`
}

func (h *VideoTutorialHandlers) Create(w http.ResponseWriter, r *http.Request) {
	var req VideoTutorialRequest
	if err := decodeJSON(r, &req); err != nil {
		response.Error(w, r, h.logger, err)
		return
	}

	video, err := h.videos.Create(r.Context(), req.url(), req.language())
	if err != nil {
		response.Error(w, r, h.logger, err)
		return
	}
	response.JSON(w, http.StatusCreated, "Video tutorial created successfully", CreateVideoTutorialResponse{
		ID:           video.ID,
		VideoURL:     video.VideoURL,
		LanguageCode: video.LanguageCode,
	})
}

func (h *VideoTutorialHandlers) Update(w http.ResponseWriter, r *http.Request) {
	var req VideoTutorialRequest
	if err := decodeJSON(r, &req); err != nil {
		response.Error(w, r, h.logger, err)
		return
	}

	video, err := h.videos.Update(r.Context(), uint(req.ID), req.url(), req.language())
	if err != nil {
		response.Error(w, r, h.logger, err)
		return
	}
	response.JSON(w, http.StatusOK, "Video tutorial updated successfully", UpdateVideoTutorialResponse{
		ID:           video.ID,
		VideoURL:     video.VideoURL,
		LanguageCode: video.LanguageCode,
	})
}

func (h *VideoTutorialHandlers) Delete(w http.ResponseWriter, r *http.Request) {
	var req idRequest
	if err := decodeJSON(r, &req); err != nil {
		response.Error(w, r, h.logger, err)
		return
	}

	if err := h.videos.Delete(r.Context(), uint(req.ID)); err != nil {
		response.Error(w, r, h.logger, err)
		return
	}
	response.JSON(w, http.StatusOK, "Video tutorial deleted successfully", nil)
}

func (h *VideoTutorialHandlers) Restore(w http.ResponseWriter, r *http.Request) {
	var req idRequest
	if err := decodeJSON(r, &req); err != nil {
		response.Error(w, r, h.logger, err)
		return
	}

	if err := h.videos.Restore(r.Context(), uint(req.ID)); err != nil {
		response.Error(w, r, h.logger, err)
		return
	}
	response.JSON(w, http.StatusOK, "Video tutorial restored successfully", idPayload{ID: uint(req.ID)})
}

func (h *VideoTutorialHandlers) GetByLanguageCode(w http.ResponseWriter, r *http.Request) {
	var req VideoTutorialRequest
	if err := decodeJSON(r, &req); err != nil {
		response.Error(w, r, h.logger, err)
		return
	}
	q := r.URL.Query()
	code := firstNonEmpty(req.language(), q.Get("languageCode"), q.Get("language_code"))

	video, err := h.videos.FirstByLanguage(r.Context(), code)
	if err != nil {
		response.Error(w, r, h.logger, err)
		return
	}
	response.JSON(w, http.StatusOK, "Video tutorials fetched successfully", newVideoRow(video))
}

func (h *VideoTutorialHandlers) List(w http.ResponseWriter, r *http.Request) {
	videos, err := h.videos.List(r.Context())
	if err != nil {
		response.Error(w, r, h.logger, err)
		return
	}
	rows := make([]videoRow, 0, len(videos))
	for i := range videos {
		rows = append(rows, newVideoRow(&videos[i]))
	}
	response.JSON(w, http.StatusOK, "All video tutorials fetched successfully", rows)
}
