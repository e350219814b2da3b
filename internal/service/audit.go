package service

import (
	"context"

	"github.com/fiftyhertz/agriapi/internal/models"
	"github.com/sirupsen/logrus"
)

// AuditStore persists audit events. *repository.AuditRepository implements it.
type AuditStore interface {
	Store(ctx context.Context, event *models.AuditEvent) error
}

// AuditLogger records authentication events. Failures to persist are logged and never
// surface to the request that triggered the event.
type AuditLogger struct {
	store  AuditStore
	logger *logrus.Logger
}

// NewAuditLogger returns a logger writing to store. A nil store only logs.
func NewAuditLogger(store AuditStore, logger *logrus.Logger) *AuditLogger {
	return &AuditLogger{
		store:  store,
		logger: logger,
	}
}

func (a *AuditLogger) Record(ctx context.Context, event *models.AuditEvent) {
	a.logger.WithFields(logrus.Fields{
		"event_type": event.EventType,
		"user_id":    event.UserID,
		"phone":      event.Phone,
		"success":    event.Success,
		"reason":     event.Reason,
	}).Info("Audit event")

	if a.store == nil {
		return
	}
	if err := a.store.Store(ctx, event); err != nil {
		a.logger.WithError(err).WithField("event_type", event.EventType).Warn("Failed to persist audit event")
	}
}
