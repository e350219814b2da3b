package repository

import (
	"context"
	"testing"
	"time"

	"github.com/fiftyhertz/agriapi/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOTPRepository_FindLatestValid(t *testing.T) {
	db := setupTestDB(t)
	repo := NewOTPRepository(db, testLogger())
	ctx := context.Background()
	now := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)

	otp := &models.OneTimeCode{Phone: "9876543210", CodeHash: "hash-1", ExpiresAt: now.Add(15 * time.Minute)}
	require.NoError(t, repo.Create(ctx, otp))
	require.NotZero(t, otp.ID)

	got, err := repo.FindLatestValid(ctx, "9876543210", now)
	require.NoError(t, err)
	assert.Equal(t, otp.ID, got.ID)
	assert.Equal(t, "hash-1", got.CodeHash)

	// at or after expiry the code is no longer returned
	_, err = repo.FindLatestValid(ctx, "9876543210", now.Add(15*time.Minute))
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = repo.FindLatestValid(ctx, "0000000000", now)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestOTPRepository_DeleteByPhone(t *testing.T) {
	db := setupTestDB(t)
	repo := NewOTPRepository(db, testLogger())
	ctx := context.Background()
	now := time.Now().UTC()

	require.NoError(t, repo.Create(ctx, &models.OneTimeCode{Phone: "9876543210", CodeHash: "a", ExpiresAt: now.Add(-time.Minute)}))
	require.NoError(t, repo.DeleteByPhone(ctx, "9876543210"))

	require.NoError(t, repo.Create(ctx, &models.OneTimeCode{Phone: "9876543210", CodeHash: "b", ExpiresAt: now.Add(time.Minute)}))

	var count int64
	require.NoError(t, db.Model(&otpRow{}).Where("phone = ?", "9876543210").Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestOTPRepository_Delete(t *testing.T) {
	db := setupTestDB(t)
	repo := NewOTPRepository(db, testLogger())
	ctx := context.Background()
	now := time.Now().UTC()

	otp := &models.OneTimeCode{Phone: "9876543210", CodeHash: "a", ExpiresAt: now.Add(time.Minute)}
	require.NoError(t, repo.Create(ctx, otp))
	require.NoError(t, repo.Delete(ctx, otp.ID))

	_, err := repo.FindLatestValid(ctx, "9876543210", now)
	assert.ErrorIs(t, err, ErrNotFound)

	// a second delete finds nothing to remove
	assert.ErrorIs(t, repo.Delete(ctx, otp.ID), ErrNotFound)
}

func TestOTPRepository_CreateReplacesCodeForPhone(t *testing.T) {
	db := setupTestDB(t)
	repo := NewOTPRepository(db, testLogger())
	ctx := context.Background()
	now := time.Now().UTC()

	first := &models.OneTimeCode{Phone: "9876543210", CodeHash: "a", ExpiresAt: now.Add(time.Minute)}
	require.NoError(t, repo.Create(ctx, first))
	_, err := repo.IncrementAttempts(ctx, first.ID)
	require.NoError(t, err)

	// no DeleteByPhone in between, as when two issuances race
	second := &models.OneTimeCode{Phone: "9876543210", CodeHash: "b", ExpiresAt: now.Add(2 * time.Minute)}
	require.NoError(t, repo.Create(ctx, second))

	var count int64
	require.NoError(t, db.Model(&otpRow{}).Where("phone = ?", "9876543210").Count(&count).Error)
	assert.Equal(t, int64(1), count)

	got, err := repo.FindLatestValid(ctx, "9876543210", now)
	require.NoError(t, err)
	assert.Equal(t, "b", got.CodeHash)
	assert.Zero(t, got.Attempts)
}

func TestOTPRepository_IncrementAttempts(t *testing.T) {
	db := setupTestDB(t)
	repo := NewOTPRepository(db, testLogger())
	ctx := context.Background()

	otp := &models.OneTimeCode{Phone: "9876543210", CodeHash: "a", ExpiresAt: time.Now().UTC().Add(time.Minute)}
	require.NoError(t, repo.Create(ctx, otp))

	for want := 1; want <= 3; want++ {
		got, err := repo.IncrementAttempts(ctx, otp.ID)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}

	_, err := repo.IncrementAttempts(ctx, otp.ID+100)
	assert.ErrorIs(t, err, ErrNotFound)
}
