package handlers

import (
	"net/http"

	"github.com/fiftyhertz/agriapi/internal/models"
	"github.com/fiftyhertz/agriapi/internal/response"
	"github.com/fiftyhertz/agriapi/internal/service"
	"github.com/sirupsen/logrus"
)

// LookupHandlers serves the CRUD and listing routes of one multilingual reference table.
type LookupHandlers struct {
	lookups *service.LookupService
	logger  *logrus.Logger
}

func NewLookupHandlers(lookups *service.LookupService, logger *logrus.Logger) *LookupHandlers {
	return &LookupHandlers{
		lookups: lookups,
		logger:  logger,
	}
}

type LookupRequest struct {
	ID entityID `json:"id"`
	models.LocalizedNames
}

// languageRequest takes the language code under either spelling clients use.
type languageRequest struct {
	LanguageCode      string `json:"languageCode"`
	LanguageCodeSnake string `json:"language_code"`
}

func (h *LookupHandlers) Create(w http.ResponseWriter, r *http.Request) {
	var req LookupRequest
	if err := decodeJSON(r, &req); err != nil {
		response.Error(w, r, h.logger, err)
		return
	}

	entry, err := h.lookups.Create(r.Context(), req.LocalizedNames)
	if err != nil {
		response.Error(w, r, h.logger, err)
		return
	}
	response.JSON(w, http.StatusCreated, h.lookups.Kind().Singular+" created successfully", idPayload{ID: entry.ID})
}

func (h *LookupHandlers) Update(w http.ResponseWriter, r *http.Request) {
	var req LookupRequest
	if err := decodeJSON(r, &req); err != nil {
		response.Error(w, r, h.logger, err)
		return
	}

	if err := h.lookups.Update(r.Context(), uint(req.ID), req.LocalizedNames); err != nil {
		response.Error(w, r, h.logger, err)
		return
	}
	response.JSON(w, http.StatusOK, h.lookups.Kind().Singular+" updated successfully", idPayload{ID: uint(req.ID)})
}

func (h *LookupHandlers) Delete(w http.ResponseWriter, r *http.Request) {
	var req idRequest
	if err := decodeJSON(r, &req); err != nil {
		response.Error(w, r, h.logger, err)
		return
	}

	if err := h.lookups.Delete(r.Context(), uint(req.ID)); err != nil {
		response.Error(w, r, h.logger, err)
		return
	}
	response.JSON(w, http.StatusOK, h.lookups.Kind().Singular+" deleted successfully", idPayload{ID: uint(req.ID)})
}

func (h *LookupHandlers) Restore(w http.ResponseWriter, r *http.Request) {
	var req idRequest
	if err := decodeJSON(r, &req); err != nil {
		response.Error(w, r, h.logger, err)
		return
	}

	if err := h.lookups.Restore(r.Context(), uint(req.ID)); err != nil {
		response.Error(w, r, h.logger, err)
		return
	}
	response.JSON(w, http.StatusOK, h.lookups.Kind().Singular+" restored successfully", idPayload{ID: uint(req.ID)})
}

// List returns every active entry with all of its names.
func (h *LookupHandlers) List(w http.ResponseWriter, r *http.Request) {
	entries, err := h.lookups.ListActive(r.Context())
	if err != nil {
		response.Error(w, r, h.logger, err)
		return
	}
	response.JSON(w, http.StatusOK, h.lookups.Kind().Plural+" fetched successfully", newLookupRows(entries))
}

// ListByLanguage returns [{id, name}] for the requested language. The code may come from
// the JSON body or the query string.
func (h *LookupHandlers) ListByLanguage(w http.ResponseWriter, r *http.Request) {
	var req languageRequest
	if err := decodeJSON(r, &req); err != nil {
		response.Error(w, r, h.logger, err)
		return
	}
	q := r.URL.Query()
	code := firstNonEmpty(req.LanguageCode, req.LanguageCodeSnake, q.Get("languageCode"), q.Get("language_code"))

	entries, err := h.lookups.ListByLanguage(r.Context(), code)
	if err != nil {
		response.Error(w, r, h.logger, err)
		return
	}
	if entries == nil {
		entries = []models.LocalizedEntry{}
	}
	response.JSON(w, http.StatusOK, h.lookups.Kind().Plural+" fetched successfully", entries)
}
