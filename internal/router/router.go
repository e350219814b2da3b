// Package router mounts the HTTP handlers under /api/v1 and wraps them in the middleware chain.
package router

import (
	"net/http"
	"time"

	"github.com/fiftyhertz/agriapi/internal/handlers"
	"github.com/fiftyhertz/agriapi/internal/middleware"
	"github.com/fiftyhertz/agriapi/internal/response"
	"github.com/go-chi/cors"
	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
)

type Handlers struct {
	Auth                  *handlers.AuthHandlers
	Users                 *handlers.UserHandlers
	Home                  *handlers.HomeHandlers
	Health                *handlers.HealthHandlers
	Videos                *handlers.VideoTutorialHandlers
	CropTypes             *handlers.LookupHandlers
	Harvesters            *handlers.LookupHandlers
	TransportArrangements *handlers.LookupHandlers
	LandSizeUnits         *handlers.LookupHandlers
}

type Options struct {
	AllowedOrigins []string
	RequestTimeout time.Duration
	MaxBodyBytes   int64
	// RateLimiter is optional.
	RateLimiter *middleware.RateLimiter
}

func New(
	h Handlers,
	authMiddleware *middleware.AuthMiddleware,
	adminMiddleware *middleware.AdminMiddleware,
	opts Options,
	logger *logrus.Logger,
) http.Handler {
	router := mux.NewRouter()
	router.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		response.Fail(w, http.StatusNotFound, "Route not found")
	})
	router.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		response.Fail(w, http.StatusMethodNotAllowed, "Method not allowed")
	})

	router.HandleFunc("/health", h.Health.Health).Methods(http.MethodGet)

	router.HandleFunc("/api/v1", h.Health.Root).Methods(http.MethodGet)

	api := router.PathPrefix("/api/v1").Subrouter()
	api.HandleFunc("/", h.Health.Root).Methods(http.MethodGet)
	api.HandleFunc("/generateOtp", h.Auth.GenerateOTP).Methods(http.MethodPost)
	api.HandleFunc("/verifyOtp", h.Auth.VerifyOTP).Methods(http.MethodPost)
	api.HandleFunc("/getVideoTutorialByLanguageCode", h.Videos.GetByLanguageCode).Methods(http.MethodPost, http.MethodGet)
	api.HandleFunc("/getAllVideoTutorial", h.Videos.List).Methods(http.MethodGet)
	api.HandleFunc("/getCropTypes", h.CropTypes.List).Methods(http.MethodGet)
	api.HandleFunc("/getCropTypesByLanguage", h.CropTypes.ListByLanguage).Methods(http.MethodPost, http.MethodGet)
	api.HandleFunc("/getHarvestersByLanguage", h.Harvesters.ListByLanguage).Methods(http.MethodPost, http.MethodGet)
	api.HandleFunc("/getTransportArrangementsByLanguage", h.TransportArrangements.ListByLanguage).Methods(http.MethodPost, http.MethodGet)
	api.HandleFunc("/getLandSizeUnitByLanguage", h.LandSizeUnits.ListByLanguage).Methods(http.MethodPost, http.MethodGet)

	authed := func(fn http.HandlerFunc) http.Handler {
		return authMiddleware.RequireAuth(fn)
	}
	api.Handle("/getHomeData", authed(h.Home.GetHomeData)).Methods(http.MethodGet)
	api.Handle("/selectUserLanguage", authed(h.Users.SelectUserLanguage)).Methods(http.MethodPost)
	api.Handle("/logout", authed(h.Auth.Logout)).Methods(http.MethodGet)
	api.Handle("/deleteAccount", authed(h.Auth.DeleteAccount)).Methods(http.MethodPost)

	admin := func(fn http.HandlerFunc) http.Handler {
		return authMiddleware.RequireAuth(adminMiddleware.RequireAdmin(fn))
	}
	api.Handle("/createVideoTutorial", admin(h.Videos.Create)).Methods(http.MethodPost)
	api.Handle("/updateVideoTutorial", admin(h.Videos.Update)).Methods(http.MethodPut)
	api.Handle("/deleteVideoTutorial", admin(h.Videos.Delete)).Methods(http.MethodDelete)
	api.Handle("/restoreVideoTutorial", admin(h.Videos.Restore)).Methods(http.MethodPatch)

	lookups := []struct {
		entity   string
		handlers *handlers.LookupHandlers
	}{
		{"CropType", h.CropTypes},
		{"Harvester", h.Harvesters},
		{"TransportArrangement", h.TransportArrangements},
		{"LandSizeUnit", h.LandSizeUnits},
	}
	for _, l := range lookups {
		api.Handle("/create"+l.entity, admin(l.handlers.Create)).Methods(http.MethodPost)
		api.Handle("/update"+l.entity, admin(l.handlers.Update)).Methods(http.MethodPut)
		api.Handle("/delete"+l.entity, admin(l.handlers.Delete)).Methods(http.MethodDelete)
		api.Handle("/restore"+l.entity, admin(l.handlers.Restore)).Methods(http.MethodPatch)
	}

	// Outermost first.
	chain := []func(http.Handler) http.Handler{
		middleware.Recovery(logger),
		middleware.RequestLogger(logger),
		cors.Handler(cors.Options{
			AllowedOrigins: opts.AllowedOrigins,
			AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete, http.MethodOptions},
			AllowedHeaders: []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
			ExposedHeaders: []string{"X-Request-ID", "X-RateLimit-Limit", "X-RateLimit-Remaining", "X-RateLimit-Reset", "Retry-After"},
			MaxAge:         300,
		}),
		middleware.SecurityHeaders,
	}
	if opts.RateLimiter != nil {
		chain = append(chain, opts.RateLimiter.Limit)
	}
	if opts.RequestTimeout > 0 {
		chain = append(chain, middleware.Timeout(opts.RequestTimeout))
	}
	if opts.MaxBodyBytes > 0 {
		chain = append(chain, middleware.MaxBodyBytes(opts.MaxBodyBytes))
	}

	var handler http.Handler = router
	for i := len(chain) - 1; i >= 0; i-- {
		handler = chain[i](handler)
	}
	return handler
}
