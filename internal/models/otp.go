package models

import "time"

// OneTimeCode is a stored OTP row. Only the bcrypt hash of the code is persisted.
type OneTimeCode struct {
	ID        uint
	Phone     string
	CodeHash  string
	ExpiresAt time.Time
	// Attempts counts wrong codes submitted against this row.
	Attempts int
}

// IssuedOTP is what the issuer hands back to the caller after storing a new code.
type IssuedOTP struct {
	ID        uint
	Phone     string
	Code      string
	ExpiresAt time.Time
}
