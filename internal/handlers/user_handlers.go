package handlers

import (
	"net/http"

	"github.com/fiftyhertz/agriapi/internal/apperr"
	"github.com/fiftyhertz/agriapi/internal/middleware"
	"github.com/fiftyhertz/agriapi/internal/response"
	"github.com/fiftyhertz/agriapi/internal/service"
	"github.com/sirupsen/logrus"
)

type UserHandlers struct {
	userService *service.UserService
	logger      *logrus.Logger
}

func NewUserHandlers(userService *service.UserService, logger *logrus.Logger) *UserHandlers {
	return &UserHandlers{
		userService: userService,
		logger:      logger,
	}
}

type SelectLanguageRequest struct {
	UserID       entityID `json:"userId"`
	LanguageCode string   `json:"languageCode"`
	LanguageName string   `json:"languageName"`
}

type SelectLanguageResponse struct {
	LanguageCode string `json:"languageCode"`
	LanguageName string `json:"languageName"`
}

func (h *UserHandlers) SelectUserLanguage(w http.ResponseWriter, r *http.Request) {
	actorID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		response.Error(w, r, h.logger, apperr.Authentication("Invalid token"))
		return
	}

	var req SelectLanguageRequest
	if err := decodeJSON(r, &req); err != nil {
		response.Error(w, r, h.logger, err)
		return
	}

	err := h.userService.SelectLanguage(r.Context(), actorID, uint(req.UserID), req.LanguageCode, req.LanguageName)
	if err != nil {
		response.Error(w, r, h.logger, err)
		return
	}

	response.JSON(w, http.StatusOK, "Language updated successfully", SelectLanguageResponse{
		LanguageCode: req.LanguageCode,
		LanguageName: req.LanguageName,
	})
}
