package middleware

import (
	"net/http"

	"github.com/fiftyhertz/agriapi/internal/response"
	"github.com/fiftyhertz/agriapi/internal/service"
	"github.com/sirupsen/logrus"
)

// AdminMiddleware restricts routes to administrators. The admin flag is read from the
// store on every request so revocation takes effect immediately.
type AdminMiddleware struct {
	users  *service.UserService
	logger *logrus.Logger
}

func NewAdminMiddleware(users *service.UserService, logger *logrus.Logger) *AdminMiddleware {
	return &AdminMiddleware{
		users:  users,
		logger: logger,
	}
}

// RequireAdmin must run after RequireAuth.
func (m *AdminMiddleware) RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userID, ok := UserIDFromContext(r.Context())
		if !ok {
			response.Fail(w, http.StatusUnauthorized, "Authorization header missing or malformed")
			return
		}

		user, err := m.users.GetByID(r.Context(), userID)
		if err != nil {
			response.Error(w, r, m.logger, err)
			return
		}

		if !user.IsAdmin() {
			m.logger.WithField("user_id", userID).Warn("Non-admin user attempted admin route")
			response.Fail(w, http.StatusForbidden, "Admin privileges required")
			return
		}

		next.ServeHTTP(w, r)
	})
}
