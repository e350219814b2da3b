package handlers

import (
	"net/http"

	"github.com/fiftyhertz/agriapi/internal/apperr"
	"github.com/fiftyhertz/agriapi/internal/middleware"
	"github.com/fiftyhertz/agriapi/internal/models"
	"github.com/fiftyhertz/agriapi/internal/response"
	"github.com/fiftyhertz/agriapi/internal/service"
	"github.com/sirupsen/logrus"
)

type AuthHandlers struct {
	otpService     *service.OTPService
	sessionService *service.SessionService
	exposeOTP      bool
	logger         *logrus.Logger
}

// NewAuthHandlers builds the login and session handlers. When exposeOTP is set the
// generated code is echoed back in the generateOtp response.
func NewAuthHandlers(
	otpService *service.OTPService,
	sessionService *service.SessionService,
	exposeOTP bool,
	logger *logrus.Logger,
) *AuthHandlers {
	return &AuthHandlers{
		otpService:     otpService,
		sessionService: sessionService,
		exposeOTP:      exposeOTP,
		logger:         logger,
	}
}

type GenerateOTPRequest struct {
	Phone flexString `json:"phone"`
}

type GenerateOTPResponse struct {
	ID        uint   `json:"id"`
	Phone     string `json:"phone"`
	OTP       string `json:"otp,omitempty"`
	ExpiresAt string `json:"expiresAt"`
}

type VerifyOTPRequest struct {
	Phone        flexString `json:"phone"`
	OTP          flexString `json:"otp"`
	DeviceType   string     `json:"deviceType"`
	FCMToken     string     `json:"fcmToken"`
	LanguageCode string     `json:"languageCode"`
	LanguageName string     `json:"languageName"`
}

type VerifyOTPResponse struct {
	Token       string      `json:"token"`
	UserProfile userProfile `json:"userProfile"`
}

func (h *AuthHandlers) GenerateOTP(w http.ResponseWriter, r *http.Request) {
	var req GenerateOTPRequest
	if err := decodeJSON(r, &req); err != nil {
		response.Error(w, r, h.logger, err)
		return
	}

	issued, err := h.otpService.Issue(r.Context(), string(req.Phone))
	if err != nil {
		response.Error(w, r, h.logger, err)
		return
	}

	payload := GenerateOTPResponse{
		ID:        issued.ID,
		Phone:     issued.Phone,
		ExpiresAt: models.FormatDateTime(issued.ExpiresAt),
	}
	if h.exposeOTP {
		payload.OTP = issued.Code
	}
	response.JSON(w, http.StatusOK, "OTP sent successfully", payload)
}

func (h *AuthHandlers) VerifyOTP(w http.ResponseWriter, r *http.Request) {
	var req VerifyOTPRequest
	if err := decodeJSON(r, &req); err != nil {
		response.Error(w, r, h.logger, err)
		return
	}

	session, err := h.sessionService.VerifyOTP(r.Context(), service.VerifyOTPRequest{
		Phone:        string(req.Phone),
		OTP:          string(req.OTP),
		DeviceType:   req.DeviceType,
		FCMToken:     req.FCMToken,
		LanguageCode: req.LanguageCode,
		LanguageName: req.LanguageName,
	})
	if err != nil {
		response.Error(w, r, h.logger, err)
		return
	}

	response.JSON(w, http.StatusOK, "OTP verified successfully", VerifyOTPResponse{
		Token:       session.Token,
		UserProfile: newUserProfile(session.User),
	})
}

func (h *AuthHandlers) Logout(w http.ResponseWriter, r *http.Request) {
	token, ok := middleware.TokenFromContext(r.Context())
	if !ok {
		response.Error(w, r, h.logger, apperr.Authentication("Invalid token"))
		return
	}

	if err := h.sessionService.Logout(r.Context(), token); err != nil {
		response.Error(w, r, h.logger, err)
		return
	}
	response.JSON(w, http.StatusOK, "Logged out successfully", nil)
}

func (h *AuthHandlers) DeleteAccount(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		response.Error(w, r, h.logger, apperr.Authentication("Invalid token"))
		return
	}

	if err := h.sessionService.DeleteAccount(r.Context(), userID); err != nil {
		response.Error(w, r, h.logger, err)
		return
	}
	response.JSON(w, http.StatusOK, "Account deleted successfully", nil)
}
