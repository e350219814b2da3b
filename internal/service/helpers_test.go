package service

import (
	"testing"
	"time"

	"github.com/fiftyhertz/agriapi/internal/apperr"
	"github.com/fiftyhertz/agriapi/internal/config"
	"github.com/fiftyhertz/agriapi/internal/repository"
	"github.com/fiftyhertz/agriapi/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type testEnv struct {
	db       *gorm.DB
	repos    *repository.Repositories
	notifier *testutil.FakeNotifier
	audit    *testutil.FakeAuditStore
	jwt      *JWTService
	otps     *OTPService
	sessions *SessionService
	users    *UserService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	logger := testutil.Logger()
	db := testutil.NewDB(t)
	repos := repository.NewRepositories(db, logger)
	notifier := &testutil.FakeNotifier{}
	auditStore := &testutil.FakeAuditStore{}
	audit := NewAuditLogger(auditStore, logger)

	jwtService, err := NewJWTService(&config.JWTConfig{SecretKey: testutil.TestSecret, SessionExpiry: 30 * 24 * time.Hour}, logger)
	require.NoError(t, err)

	otps := NewOTPService(repos, notifier, audit, &config.OTPConfig{Expiry: 15 * time.Minute, MaxAttempts: 5}, logger)

	return &testEnv{
		db:       db,
		repos:    repos,
		notifier: notifier,
		audit:    auditStore,
		jwt:      jwtService,
		otps:     otps,
		sessions: NewSessionService(repos, otps, jwtService, audit, logger),
		users:    NewUserService(repos, audit, logger),
	}
}

func assertAppError(t *testing.T, err error, status int, message string) {
	t.Helper()
	require.Error(t, err)
	ae := apperr.From(err)
	assert.Equal(t, status, ae.Status())
	assert.Equal(t, message, ae.Message)
}

func verifyRequest(phone, code string) VerifyOTPRequest {
	return VerifyOTPRequest{
		Phone:        phone,
		OTP:          code,
		DeviceType:   "A",
		LanguageCode: "hi",
		LanguageName: "Hindi",
	}
}

