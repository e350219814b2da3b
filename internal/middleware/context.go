package middleware

import (
	"context"

	"github.com/fiftyhertz/agriapi/internal/models"
	"github.com/fiftyhertz/agriapi/internal/service"
)

// contextKey is unexported to prevent collisions with keys from other packages.
type contextKey string

const (
	claimsKey    contextKey = "claims"
	tokenKey     contextKey = "session_token"
	requestIDKey contextKey = "request_id"
)

// ClaimsFromContext returns the verified token claims of an authenticated request.
func ClaimsFromContext(ctx context.Context) (*service.Claims, bool) {
	claims, ok := ctx.Value(claimsKey).(*service.Claims)
	return claims, ok
}

// TokenFromContext returns the stored token record of an authenticated request.
func TokenFromContext(ctx context.Context) (*models.SessionToken, bool) {
	token, ok := ctx.Value(tokenKey).(*models.SessionToken)
	return token, ok
}

// UserIDFromContext returns the id of the authenticated user, taken from the stored token record.
func UserIDFromContext(ctx context.Context) (uint, bool) {
	token, ok := TokenFromContext(ctx)
	if !ok {
		return 0, false
	}
	return token.UserID, true
}

func RequestIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey).(string)
	return id
}

// WithSession attaches the authenticated session to ctx.
func WithSession(ctx context.Context, claims *service.Claims, token *models.SessionToken) context.Context {
	ctx = context.WithValue(ctx, claimsKey, claims)
	return context.WithValue(ctx, tokenKey, token)
}
