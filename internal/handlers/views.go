package handlers

import (
	"github.com/fiftyhertz/agriapi/internal/models"
)

// flag renders the active/admin flags the way clients have always received them.
func flag(on bool) string {
	if on {
		return "1"
	}
	return "0"
}

type userProfile struct {
	ID           uint   `json:"id"`
	Phone        string `json:"phone"`
	DeviceType   string `json:"device_type"`
	Status       string `json:"status"`
	LanguageCode string `json:"language_code"`
	LanguageName string `json:"language_name"`
	IsAdmin      string `json:"is_admin"`
	FCMToken     string `json:"fcm_token"`
	CreatedAt    string `json:"created_at"`
	UpdatedAt    string `json:"updated_at"`
}

func newUserProfile(u *models.User) userProfile {
	return userProfile{
		ID:           u.ID,
		Phone:        u.Phone,
		DeviceType:   string(u.DeviceType),
		Status:       flag(u.Status == models.StatusActive),
		LanguageCode: u.LanguageCode,
		LanguageName: u.LanguageName,
		IsAdmin:      flag(u.IsAdmin()),
		FCMToken:     u.FCMToken,
		CreatedAt:    models.FormatDateTime(u.CreatedAt),
		UpdatedAt:    models.FormatDateTime(u.UpdatedAt),
	}
}

type lookupRow struct {
	ID uint `json:"id"`
	models.LocalizedNames
	Status    string `json:"status"`
	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}

func newLookupRows(entries []models.LookupEntry) []lookupRow {
	rows := make([]lookupRow, 0, len(entries))
	for _, e := range entries {
		rows = append(rows, lookupRow{
			ID:             e.ID,
			LocalizedNames: e.Names,
			Status:         flag(e.Status == models.StatusActive),
			CreatedAt:      models.FormatDateTime(e.CreatedAt),
			UpdatedAt:      models.FormatDateTime(e.UpdatedAt),
		})
	}
	return rows
}

type videoRow struct {
	ID           uint   `json:"id"`
	VideoURL     string `json:"video_url"`
	LanguageCode string `json:"language_code"`
	Status       string `json:"status"`
	CreatedAt    string `json:"created_at"`
	UpdatedAt    string `json:"updated_at"`
}

func newVideoRow(v *models.VideoTutorial) videoRow {
	return videoRow{
		ID:           v.ID,
		VideoURL:     v.VideoURL,
		LanguageCode: v.LanguageCode,
		Status:       flag(v.Status == models.StatusActive),
		CreatedAt:    models.FormatDateTime(v.CreatedAt),
		UpdatedAt:    models.FormatDateTime(v.UpdatedAt),
	}
}

type idPayload struct {
	ID uint `json:"id"`
}
