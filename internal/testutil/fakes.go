package testutil

import (
	"context"
	"sync"
	"time"

	"github.com/fiftyhertz/agriapi/internal/models"
)

// SentOTP is one code handed to a FakeNotifier.
type SentOTP struct {
	Phone    string
	Code     string
	ValidFor time.Duration
}

// FakeNotifier records every code it is asked to deliver. Set Err to make delivery fail.
type FakeNotifier struct {
	Err error

	mu   sync.Mutex
	Sent []SentOTP
}

func (n *FakeNotifier) SendOTP(_ context.Context, phone, code string, validFor time.Duration) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.Sent = append(n.Sent, SentOTP{Phone: phone, Code: code, ValidFor: validFor})
	return n.Err
}

// LastCode returns the most recent code sent to phone, or "".
func (n *FakeNotifier) LastCode(phone string) string {
	n.mu.Lock()
	defer n.mu.Unlock()
	for i := len(n.Sent) - 1; i >= 0; i-- {
		if n.Sent[i].Phone == phone {
			return n.Sent[i].Code
		}
	}
	return ""
}

// FakeAuditStore keeps audit events in memory. Set Err to make Store fail.
type FakeAuditStore struct {
	Err error

	mu     sync.Mutex
	Events []*models.AuditEvent
}

func (s *FakeAuditStore) Store(_ context.Context, event *models.AuditEvent) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return s.Err
	}
	s.Events = append(s.Events, event)
	return nil
}

// Types returns the recorded event types in order.
func (s *FakeAuditStore) Types() []models.AuditEventType {
	s.mu.Lock()
	defer s.mu.Unlock()
	types := make([]models.AuditEventType, 0, len(s.Events))
	for _, e := range s.Events {
		types = append(types, e.EventType)
	}
	return types
}
