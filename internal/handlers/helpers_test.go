package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/fiftyhertz/agriapi/internal/config"
	"github.com/fiftyhertz/agriapi/internal/middleware"
	"github.com/fiftyhertz/agriapi/internal/models"
	"github.com/fiftyhertz/agriapi/internal/repository"
	"github.com/fiftyhertz/agriapi/internal/service"
	"github.com/fiftyhertz/agriapi/internal/testutil"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type handlerEnv struct {
	db       *gorm.DB
	repos    *repository.Repositories
	notifier *testutil.FakeNotifier
	jwt      *service.JWTService
	auth     *AuthHandlers
	users    *UserHandlers
	crops    *LookupHandlers
	videos   *VideoTutorialHandlers
	home     *HomeHandlers
	health   *HealthHandlers
}

func newHandlerEnv(t *testing.T) *handlerEnv {
	t.Helper()

	logger := testutil.Logger()
	db := testutil.NewDB(t)
	repos := repository.NewRepositories(db, logger)
	notifier := &testutil.FakeNotifier{}
	audit := service.NewAuditLogger(&testutil.FakeAuditStore{}, logger)

	jwtService, err := service.NewJWTService(&config.JWTConfig{SecretKey: testutil.TestSecret, SessionExpiry: 30 * 24 * time.Hour}, logger)
	require.NoError(t, err)

	otps := service.NewOTPService(repos, notifier, audit, &config.OTPConfig{Expiry: 15 * time.Minute, MaxAttempts: 5}, logger)
	sessions := service.NewSessionService(repos, otps, jwtService, audit, logger)

	return &handlerEnv{
		db:       db,
		repos:    repos,
		notifier: notifier,
		jwt:      jwtService,
		auth:     NewAuthHandlers(otps, sessions, true, logger),
		users:    NewUserHandlers(service.NewUserService(repos, audit, logger), logger),
		crops:    NewLookupHandlers(service.NewLookupService(repos, service.CropTypeKind, logger), logger),
		videos:   NewVideoTutorialHandlers(service.NewVideoTutorialService(repos, logger), logger),
		home:     NewHomeHandlers(service.NewHomeService(repos), logger),
		health:   NewHealthHandlers(repos, logger),
	}
}

// session stores a live token for user and returns a context carrying it.
func (e *handlerEnv) session(t *testing.T, user *models.User) context.Context {
	t.Helper()
	token, expiresAt, err := e.jwt.GenerateSessionToken(user)
	require.NoError(t, err)
	record := &models.SessionToken{UserID: user.ID, Token: token, ExpiresAt: expiresAt}
	require.NoError(t, e.repos.Tokens.Create(context.Background(), record))

	claims, err := e.jwt.VerifyToken(token)
	require.NoError(t, err)
	return middleware.WithSession(context.Background(), claims, record)
}

type envelope struct {
	Error   bool            `json:"error"`
	Code    int             `json:"code"`
	Status  int             `json:"status"`
	Message string          `json:"message"`
	Payload json.RawMessage `json:"payload"`
}

// call invokes h with body encoded as JSON. A string body is sent verbatim.
func call(t *testing.T, h http.HandlerFunc, ctx context.Context, method, target string, body interface{}) (*httptest.ResponseRecorder, envelope) {
	t.Helper()

	var buf bytes.Buffer
	switch b := body.(type) {
	case nil:
	case string:
		buf.WriteString(b)
	default:
		require.NoError(t, json.NewEncoder(&buf).Encode(b))
	}

	req := httptest.NewRequest(method, target, &buf)
	if ctx != nil {
		req = req.WithContext(ctx)
	}
	rec := httptest.NewRecorder()
	h(rec, req)

	var env envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env), rec.Body.String())
	require.Equal(t, rec.Code, env.Code)
	return rec, env
}

func decodePayload(t *testing.T, env envelope, dst interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(env.Payload, dst))
}

func cropNames(en string) map[string]interface{} {
	return map[string]interface{}{
		"name_en":     en,
		"name_pa":     en + " pa",
		"name_bgc_in": en + " bgc",
		"name_hi":     en + " hi",
		"name_raj_in": en + " raj",
	}
}
