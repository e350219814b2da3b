package middleware

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/fiftyhertz/agriapi/internal/repository"
	"github.com/fiftyhertz/agriapi/internal/response"
	"github.com/fiftyhertz/agriapi/internal/service"
	"github.com/sirupsen/logrus"
)

type AuthMiddleware struct {
	jwtService *service.JWTService
	tokens     *repository.SessionTokenRepository
	logger     *logrus.Logger
	now        func() time.Time
}

func NewAuthMiddleware(jwtService *service.JWTService, tokens *repository.SessionTokenRepository, logger *logrus.Logger) *AuthMiddleware {
	return &AuthMiddleware{
		jwtService: jwtService,
		tokens:     tokens,
		logger:     logger,
		now:        func() time.Time { return time.Now().UTC() },
	}
}

// RequireAuth accepts a request only when it carries a correctly signed, unexpired bearer token
// that is still stored as the user's live session.
func (m *AuthMiddleware) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		tokenString, ok := strings.CutPrefix(authHeader, "Bearer ")
		tokenString = strings.TrimSpace(tokenString)
		if !ok || tokenString == "" {
			response.Fail(w, http.StatusUnauthorized, "Authorization header missing or malformed")
			return
		}

		claims, err := m.jwtService.VerifyToken(tokenString)
		if err != nil {
			m.logger.WithError(err).Debug("Token verification failed")
			if errors.Is(err, service.ErrTokenExpired) {
				response.Fail(w, http.StatusUnauthorized, "Token expired")
				return
			}
			response.Fail(w, http.StatusUnauthorized, "Invalid token")
			return
		}

		record, err := m.tokens.FindByToken(r.Context(), tokenString)
		if errors.Is(err, repository.ErrNotFound) {
			response.Fail(w, http.StatusUnauthorized, "Token not found")
			return
		}
		if err != nil {
			m.logger.WithError(err).Error("Failed to look up session token")
			response.Fail(w, http.StatusInternalServerError, "Internal server error")
			return
		}

		if !record.ExpiresAt.After(m.now()) {
			response.Fail(w, http.StatusUnauthorized, "Token expired in store")
			return
		}

		next.ServeHTTP(w, r.WithContext(WithSession(r.Context(), claims, record)))
	})
}
