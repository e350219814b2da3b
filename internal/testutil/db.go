// Package testutil holds fixtures shared by tests across packages.
package testutil

import (
	"context"
	"io"
	"testing"

	"github.com/fiftyhertz/agriapi/internal/models"
	"github.com/fiftyhertz/agriapi/internal/repository"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// TestSecret is a JWT signing key long enough to pass config validation.
const TestSecret = "test-secret-key-that-is-32-bytes!"

// Logger returns a logger that discards output.
func Logger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

// NewDB returns a migrated in-memory SQLite database closed at the end of the test.
// The pool holds a single connection, so code running inside a transaction must
// only use the transaction's repositories.
func NewDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), repository.NewGormConfig(Logger()))
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	require.NoError(t, repository.Migrate(db))
	return db
}

// NewRepositories returns repositories over a fresh NewDB.
func NewRepositories(t *testing.T) *repository.Repositories {
	t.Helper()
	return repository.NewRepositories(NewDB(t), Logger())
}

// CreateUser stores an active user with the given phone.
func CreateUser(t *testing.T, repos *repository.Repositories, phone string, admin bool) *models.User {
	t.Helper()

	user := &models.User{
		Phone:        phone,
		DeviceType:   models.DeviceAndroid,
		Status:       models.StatusActive,
		LanguageCode: "en",
		LanguageName: "English",
		AdminFlag:    models.NonAdmin,
	}
	if admin {
		user.AdminFlag = models.Admin
	}
	require.NoError(t, repos.Users.Create(context.Background(), user))
	return user
}

// CloseDB closes the database behind repos so later queries fail.
func CloseDB(t *testing.T, db *gorm.DB) {
	t.Helper()
	require.NoError(t, repository.Close(db))
}
