package models

import "time"

type AuditEventType string

const (
	OTPRequestedEvent    AuditEventType = "OTP_REQUESTED"
	OTPVerifiedEvent     AuditEventType = "OTP_VERIFIED"
	OTPVerifyFailedEvent AuditEventType = "OTP_VERIFICATION_FAILED"
	UserCreatedEvent     AuditEventType = "USER_CREATED"
	UserLogoutEvent      AuditEventType = "USER_LOGOUT"
	AccountDeletedEvent  AuditEventType = "ACCOUNT_DELETED"
	LanguageChangedEvent AuditEventType = "LANGUAGE_CHANGED"
)

// AuditEvent is an append-only record of an authentication-relevant action.
type AuditEvent struct {
	ID        string         `json:"id" dynamodbav:"id"`
	EventType AuditEventType `json:"event_type" dynamodbav:"event_type"`
	UserID    uint           `json:"user_id,omitempty" dynamodbav:"user_id,omitempty"`
	Phone     string         `json:"phone,omitempty" dynamodbav:"phone,omitempty"`
	Success   bool           `json:"success" dynamodbav:"success"`
	Reason    string         `json:"reason,omitempty" dynamodbav:"reason,omitempty"`
	CreatedAt time.Time      `json:"created_at" dynamodbav:"created_at"`
}

func NewAuditEvent(eventType AuditEventType, userID uint, phone string, success bool) *AuditEvent {
	return &AuditEvent{
		EventType: eventType,
		UserID:    userID,
		Phone:     phone,
		Success:   success,
	}
}
