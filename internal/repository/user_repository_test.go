package repository

import (
	"context"
	"testing"

	"github.com/fiftyhertz/agriapi/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserRepository_CreateAndFind(t *testing.T) {
	db := setupTestDB(t)
	repo := NewUserRepository(db, testLogger())
	ctx := context.Background()

	user := &models.User{
		Phone:        "9876543210",
		DeviceType:   models.DeviceAndroid,
		Status:       models.StatusActive,
		LanguageCode: "hi",
		LanguageName: "Hindi",
		FCMToken:     "fcm-abc",
	}
	require.NoError(t, repo.Create(ctx, user))
	require.NotZero(t, user.ID)
	assert.False(t, user.CreatedAt.IsZero())

	byPhone, err := repo.FindByPhone(ctx, "9876543210")
	require.NoError(t, err)
	assert.Equal(t, user.ID, byPhone.ID)
	assert.Equal(t, models.DeviceAndroid, byPhone.DeviceType)
	assert.Equal(t, models.StatusActive, byPhone.Status)
	assert.Equal(t, models.NonAdmin, byPhone.AdminFlag)
	assert.Equal(t, "fcm-abc", byPhone.FCMToken)

	byID, err := repo.FindByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "9876543210", byID.Phone)
}

func TestUserRepository_StoresFlagsAsCharacters(t *testing.T) {
	db := setupTestDB(t)
	repo := NewUserRepository(db, testLogger())
	ctx := context.Background()

	user := &models.User{Phone: "1112223333", Status: models.StatusActive, AdminFlag: models.Admin}
	require.NoError(t, repo.Create(ctx, user))

	var row userRow
	require.NoError(t, db.Where("id = ?", user.ID).Take(&row).Error)
	assert.Equal(t, "1", row.Status)
	assert.Equal(t, "1", row.IsAdmin)
	assert.Equal(t, "W", row.DeviceType)

	got, err := repo.FindByID(ctx, user.ID)
	require.NoError(t, err)
	assert.True(t, got.IsAdmin())
}

func TestUserRepository_PhoneIsUnique(t *testing.T) {
	db := setupTestDB(t)
	repo := NewUserRepository(db, testLogger())
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, &models.User{Phone: "5550001111", Status: models.StatusActive}))
	assert.Error(t, repo.Create(ctx, &models.User{Phone: "5550001111", Status: models.StatusActive}))
}

func TestUserRepository_UpdateLanguage(t *testing.T) {
	db := setupTestDB(t)
	repo := NewUserRepository(db, testLogger())
	ctx := context.Background()

	user := &models.User{Phone: "5550001111", Status: models.StatusActive, LanguageCode: "en", LanguageName: "English"}
	require.NoError(t, repo.Create(ctx, user))

	require.NoError(t, repo.UpdateLanguage(ctx, user.ID, "pa", "Punjabi"))
	got, err := repo.FindByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "pa", got.LanguageCode)
	assert.Equal(t, "Punjabi", got.LanguageName)

	assert.ErrorIs(t, repo.UpdateLanguage(ctx, 9999, "pa", "Punjabi"), ErrNotFound)
}

func TestUserRepository_NotFound(t *testing.T) {
	db := setupTestDB(t)
	repo := NewUserRepository(db, testLogger())
	ctx := context.Background()

	_, err := repo.FindByID(ctx, 42)
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = repo.FindByPhone(ctx, "0000000000")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, repo.Delete(ctx, 42), ErrNotFound)
}

func TestUserRepository_Delete(t *testing.T) {
	db := setupTestDB(t)
	repo := NewUserRepository(db, testLogger())
	ctx := context.Background()

	user := &models.User{Phone: "5550001111", Status: models.StatusActive}
	require.NoError(t, repo.Create(ctx, user))
	require.NoError(t, repo.Delete(ctx, user.ID))

	_, err := repo.FindByID(ctx, user.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}
