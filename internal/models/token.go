package models

import "time"

// SessionToken is the persisted record of a bearer token. Deleting the row revokes the token.
type SessionToken struct {
	ID        uint
	UserID    uint
	Token     string
	ExpiresAt time.Time
}

// Session is the result of a successful OTP verification.
type Session struct {
	Token     string
	ExpiresAt time.Time
	User      *User
}
