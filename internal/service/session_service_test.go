package service

import (
	"context"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/fiftyhertz/agriapi/internal/models"
	"github.com/fiftyhertz/agriapi/internal/repository"
	"github.com/fiftyhertz/agriapi/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// wrongCode returns a four digit code different from code.
func wrongCode(code string, n int) string {
	c := fmt.Sprintf("%d", 1000+n)
	if c == code {
		c = fmt.Sprintf("%d", 9999-n)
	}
	return c
}

func TestSessionService_VerifyOTPCreatesUserAndToken(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	issued, err := env.otps.Issue(ctx, "9876543210")
	require.NoError(t, err)

	req := verifyRequest("9876543210", issued.Code)
	req.FCMToken = "fcm-1"
	session, err := env.sessions.VerifyOTP(ctx, req)
	require.NoError(t, err)

	require.NotNil(t, session.User)
	assert.Equal(t, "9876543210", session.User.Phone)
	assert.Equal(t, models.DeviceAndroid, session.User.DeviceType)
	assert.Equal(t, models.StatusActive, session.User.Status)
	assert.Equal(t, "hi", session.User.LanguageCode)
	assert.Equal(t, "fcm-1", session.User.FCMToken)
	assert.False(t, session.User.IsAdmin())

	claims, err := env.jwt.VerifyToken(session.Token)
	require.NoError(t, err)
	assert.Equal(t, session.User.ID, claims.UserID)
	assert.Equal(t, "9876543210", claims.Phone)
	assert.NotEmpty(t, claims.ID)

	stored, err := env.repos.Tokens.FindByToken(ctx, session.Token)
	require.NoError(t, err)
	assert.Equal(t, session.User.ID, stored.UserID)

	assert.Equal(t, []models.AuditEventType{models.OTPRequestedEvent, models.OTPVerifiedEvent}, env.audit.Types())
}

func TestSessionService_CodeVerifiesOnlyOnce(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	issued, err := env.otps.Issue(ctx, "9876543210")
	require.NoError(t, err)

	_, err = env.sessions.VerifyOTP(ctx, verifyRequest("9876543210", issued.Code))
	require.NoError(t, err)

	_, err = env.sessions.VerifyOTP(ctx, verifyRequest("9876543210", issued.Code))
	assertAppError(t, err, http.StatusBadRequest, "Invalid or expired OTP")
	assert.Contains(t, env.audit.Types(), models.OTPVerifyFailedEvent)
}

func TestSessionService_ExpiredCodeFails(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	issuedAt := time.Now().UTC().Add(-20 * time.Minute)
	env.otps.now = func() time.Time { return issuedAt }
	issued, err := env.otps.Issue(ctx, "9876543210")
	require.NoError(t, err)
	env.otps.now = func() time.Time { return time.Now().UTC() }

	_, err = env.sessions.VerifyOTP(ctx, verifyRequest("9876543210", issued.Code))
	assertAppError(t, err, http.StatusBadRequest, "Invalid or expired OTP")

	_, err = env.repos.Users.FindByPhone(ctx, "9876543210")
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestSessionService_WrongCodeKeepsStoredCode(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	issued, err := env.otps.Issue(ctx, "9876543210")
	require.NoError(t, err)

	wrong := "1000"
	if issued.Code == wrong {
		wrong = "1001"
	}
	_, err = env.sessions.VerifyOTP(ctx, verifyRequest("9876543210", wrong))
	assertAppError(t, err, http.StatusBadRequest, "Invalid or expired OTP")

	_, err = env.sessions.VerifyOTP(ctx, verifyRequest("9876543210", issued.Code))
	assert.NoError(t, err)
}

func TestSessionService_WrongCodeCountsAttempt(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	issued, err := env.otps.Issue(ctx, "9876543210")
	require.NoError(t, err)

	for i := 0; i < 2; i++ {
		_, err = env.sessions.VerifyOTP(ctx, verifyRequest("9876543210", wrongCode(issued.Code, i)))
		assertAppError(t, err, http.StatusBadRequest, "Invalid or expired OTP")
	}

	stored, err := env.repos.OTPs.FindLatestValid(ctx, "9876543210", time.Now().UTC())
	require.NoError(t, err)
	assert.Equal(t, 2, stored.Attempts)
}

func TestSessionService_TooManyWrongCodesDiscardCode(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	issued, err := env.otps.Issue(ctx, "9876543210")
	require.NoError(t, err)

	for i := 0; i < 5; i++ {
		_, err = env.sessions.VerifyOTP(ctx, verifyRequest("9876543210", wrongCode(issued.Code, i)))
		assertAppError(t, err, http.StatusBadRequest, "Invalid or expired OTP")
	}

	_, err = env.repos.OTPs.FindLatestValid(ctx, "9876543210", time.Now().UTC())
	assert.ErrorIs(t, err, repository.ErrNotFound)

	// the right code no longer works once the guesses are used up
	_, err = env.sessions.VerifyOTP(ctx, verifyRequest("9876543210", issued.Code))
	assertAppError(t, err, http.StatusBadRequest, "Invalid or expired OTP")
	_, err = env.repos.Users.FindByPhone(ctx, "9876543210")
	assert.ErrorIs(t, err, repository.ErrNotFound)

	// a fresh code starts with a clean count
	reissued, err := env.otps.Issue(ctx, "9876543210")
	require.NoError(t, err)
	_, err = env.sessions.VerifyOTP(ctx, verifyRequest("9876543210", reissued.Code))
	assert.NoError(t, err)
}

func TestSessionService_CodeConsumedConcurrentlyFails(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	issued, err := env.otps.Issue(ctx, "9876543210")
	require.NoError(t, err)

	// remove the code right after it is read, as a parallel verification would
	fired := false
	err = env.db.Callback().Query().After("gorm:query").Register("test:remove_otp_after_read", func(tx *gorm.DB) {
		if fired || tx.Statement.Table != "otps" {
			return
		}
		fired = true
		tx.Session(&gorm.Session{NewDB: true}).Exec("DELETE FROM otps")
	})
	require.NoError(t, err)

	_, err = env.sessions.VerifyOTP(ctx, verifyRequest("9876543210", issued.Code))
	require.True(t, fired)
	assertAppError(t, err, http.StatusBadRequest, "Invalid or expired OTP")

	_, err = env.repos.Users.FindByPhone(ctx, "9876543210")
	assert.ErrorIs(t, err, repository.ErrNotFound)
	assert.Contains(t, env.audit.Types(), models.OTPVerifyFailedEvent)
	assert.NotContains(t, env.audit.Types(), models.OTPVerifiedEvent)
}

func TestSessionService_ExistingUserKeepsOneToken(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	existing := testutil.CreateUser(t, env.repos, "9876543210", false)

	var tokens []string
	for i := 0; i < 3; i++ {
		issued, err := env.otps.Issue(ctx, "9876543210")
		require.NoError(t, err)
		session, err := env.sessions.VerifyOTP(ctx, verifyRequest("9876543210", issued.Code))
		require.NoError(t, err)
		assert.Equal(t, existing.ID, session.User.ID)
		// an existing profile is not overwritten by login parameters
		assert.Equal(t, "en", session.User.LanguageCode)
		tokens = append(tokens, session.Token)
	}

	count, err := env.repos.Tokens.CountByUserID(ctx, existing.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)

	_, err = env.repos.Tokens.FindByToken(ctx, tokens[0])
	assert.ErrorIs(t, err, repository.ErrNotFound)
	_, err = env.repos.Tokens.FindByToken(ctx, tokens[2])
	assert.NoError(t, err)
}

func TestSessionService_VerifyOTPValidation(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	tests := []struct {
		name    string
		req     VerifyOTPRequest
		message string
	}{
		{"missing phone", VerifyOTPRequest{OTP: "1234", LanguageCode: "en", LanguageName: "English"}, "Phone number, OTP, language code and language name are required"},
		{"missing otp", VerifyOTPRequest{Phone: "9876543210", LanguageCode: "en", LanguageName: "English"}, "Phone number, OTP, language code and language name are required"},
		{"missing language code", VerifyOTPRequest{Phone: "9876543210", OTP: "1234", LanguageName: "English"}, "Phone number, OTP, language code and language name are required"},
		{"missing language name", VerifyOTPRequest{Phone: "9876543210", OTP: "1234", LanguageCode: "en"}, "Phone number, OTP, language code and language name are required"},
		{"bad device", VerifyOTPRequest{Phone: "9876543210", OTP: "1234", LanguageCode: "en", LanguageName: "English", DeviceType: "X"}, "Invalid device type"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := env.sessions.VerifyOTP(ctx, tt.req)
			assertAppError(t, err, http.StatusBadRequest, tt.message)
		})
	}
}

func TestSessionService_DefaultDeviceTypeIsWeb(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	issued, err := env.otps.Issue(ctx, "9876543210")
	require.NoError(t, err)
	req := verifyRequest("9876543210", issued.Code)
	req.DeviceType = ""

	session, err := env.sessions.VerifyOTP(ctx, req)
	require.NoError(t, err)
	assert.Equal(t, models.DeviceWeb, session.User.DeviceType)
}

func TestSessionService_Logout(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	issued, err := env.otps.Issue(ctx, "9876543210")
	require.NoError(t, err)
	session, err := env.sessions.VerifyOTP(ctx, verifyRequest("9876543210", issued.Code))
	require.NoError(t, err)

	stored, err := env.repos.Tokens.FindByToken(ctx, session.Token)
	require.NoError(t, err)
	require.NoError(t, env.sessions.Logout(ctx, stored))

	_, err = env.repos.Tokens.FindByToken(ctx, session.Token)
	assert.ErrorIs(t, err, repository.ErrNotFound)

	// logging out twice is harmless
	assert.NoError(t, env.sessions.Logout(ctx, stored))
}

func TestSessionService_DeleteAccount(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	issued, err := env.otps.Issue(ctx, "9876543210")
	require.NoError(t, err)
	session, err := env.sessions.VerifyOTP(ctx, verifyRequest("9876543210", issued.Code))
	require.NoError(t, err)

	require.NoError(t, env.sessions.DeleteAccount(ctx, session.User.ID))

	_, err = env.repos.Users.FindByID(ctx, session.User.ID)
	assert.ErrorIs(t, err, repository.ErrNotFound)
	count, err := env.repos.Tokens.CountByUserID(ctx, session.User.ID)
	require.NoError(t, err)
	assert.Zero(t, count)

	err = env.sessions.DeleteAccount(ctx, session.User.ID)
	assertAppError(t, err, http.StatusNotFound, "User not found")
}

func TestSessionService_StoreFailureIsInternal(t *testing.T) {
	env := newTestEnv(t)
	testutil.CloseDB(t, env.db)

	_, err := env.sessions.VerifyOTP(context.Background(), verifyRequest("9876543210", "1234"))
	assertAppError(t, err, http.StatusInternalServerError, "Internal server error")
}
