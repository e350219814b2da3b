package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/fiftyhertz/agriapi/internal/response"
	"github.com/sirupsen/logrus"
)

// Pinger reports whether a backing store is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

type HealthHandlers struct {
	db     Pinger
	logger *logrus.Logger
}

func NewHealthHandlers(db Pinger, logger *logrus.Logger) *HealthHandlers {
	return &HealthHandlers{
		db:     db,
		logger: logger,
	}
}

// Root answers the API base path.
func (h *HealthHandlers) Root(w http.ResponseWriter, r *http.Request) {
	response.JSON(w, http.StatusOK, "50hertz backend api working properly", nil)
}

// Health checks the database connection.
func (h *HealthHandlers) Health(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	if err := h.db.Ping(ctx); err != nil {
		h.logger.WithError(err).Error("Health check failed")
		response.Fail(w, http.StatusServiceUnavailable, "Database unavailable")
		return
	}
	response.JSON(w, http.StatusOK, "OK", nil)
}
