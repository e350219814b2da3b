package service

import (
	"context"
	"net/http"
	"testing"

	"github.com/fiftyhertz/agriapi/internal/models"
	"github.com/fiftyhertz/agriapi/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserService_SelectLanguage(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	user := testutil.CreateUser(t, env.repos, "9876543210", false)
	other := testutil.CreateUser(t, env.repos, "9876500000", false)

	require.NoError(t, env.users.SelectLanguage(ctx, user.ID, user.ID, "pa", "Punjabi"))
	got, err := env.users.GetByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "pa", got.LanguageCode)
	assert.Equal(t, "Punjabi", got.LanguageName)
	assert.Contains(t, env.audit.Types(), models.LanguageChangedEvent)

	err = env.users.SelectLanguage(ctx, user.ID, other.ID, "pa", "Punjabi")
	assertAppError(t, err, http.StatusForbidden, "Cannot change language for another user")

	err = env.users.SelectLanguage(ctx, user.ID, user.ID, "", "Punjabi")
	assertAppError(t, err, http.StatusBadRequest, "user id, language code and language name are required")

	err = env.users.SelectLanguage(ctx, 999, 999, "pa", "Punjabi")
	assertAppError(t, err, http.StatusNotFound, "User not found")
}

func TestUserService_GetByID(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	admin := testutil.CreateUser(t, env.repos, "9876543210", true)

	got, err := env.users.GetByID(ctx, admin.ID)
	require.NoError(t, err)
	assert.True(t, got.IsAdmin())

	_, err = env.users.GetByID(ctx, 999)
	assertAppError(t, err, http.StatusNotFound, "User not found")

	testutil.CloseDB(t, env.db)
	_, err = env.users.GetByID(ctx, admin.ID)
	assertAppError(t, err, http.StatusInternalServerError, "Internal server error")
}
