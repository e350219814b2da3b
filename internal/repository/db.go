package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/fiftyhertz/agriapi/internal/config"
	"github.com/fiftyhertz/agriapi/internal/models"
	"github.com/sirupsen/logrus"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// ErrNotFound is returned when a lookup by key matches no row.
var ErrNotFound = errors.New("record not found")

// NewGormConfig returns the gorm settings shared by the server and tests:
// UTC timestamps and query logging through logrus.
func NewGormConfig(logger *logrus.Logger) *gorm.Config {
	return &gorm.Config{
		Logger: gormlogger.New(logger, gormlogger.Config{
			SlowThreshold:             200 * time.Millisecond,
			LogLevel:                  gormlogger.Warn,
			IgnoreRecordNotFoundError: true,
		}),
		NowFunc: func() time.Time {
			return time.Now().UTC()
		},
	}
}

// Open connects to PostgreSQL and configures the connection pool.
func Open(ctx context.Context, cfg config.DatabaseConfig, logger *logrus.Logger) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(withConnectTimeout(cfg.URL, 5)), NewGormConfig(logger))
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database handle: %w", err)
	}
	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := sqlDB.PingContext(pingCtx); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	logger.WithFields(logrus.Fields{
		"max_open_conns": cfg.MaxOpenConns,
		"max_idle_conns": cfg.MaxIdleConns,
	}).Info("Connected to database")

	return db, nil
}

// withConnectTimeout adds connect_timeout (seconds) to dsn unless it already sets one.
// Both URL and key=value DSN forms are handled.
func withConnectTimeout(dsn string, seconds int) string {
	if strings.Contains(dsn, "connect_timeout") {
		return dsn
	}
	if strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://") {
		sep := "?"
		if strings.Contains(dsn, "?") {
			sep = "&"
		}
		return fmt.Sprintf("%s%sconnect_timeout=%d", dsn, sep, seconds)
	}
	return fmt.Sprintf("%s connect_timeout=%d", strings.TrimSpace(dsn), seconds)
}

// Migrate creates or updates every table the API uses.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&userRow{}, &otpRow{}, &sessionTokenRow{}, &videoTutorialRow{}); err != nil {
		return fmt.Errorf("failed to migrate tables: %w", err)
	}
	for _, table := range LookupTables {
		if err := db.Table(string(table)).AutoMigrate(&lookupRow{}); err != nil {
			return fmt.Errorf("failed to migrate %s: %w", table, err)
		}
	}
	return nil
}

func Close(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// Repositories groups the repositories bound to one connection pool or one transaction.
type Repositories struct {
	db     *gorm.DB
	logger *logrus.Logger

	Users  *UserRepository
	OTPs   *OTPRepository
	Tokens *SessionTokenRepository
	Videos *VideoTutorialRepository
}

func NewRepositories(db *gorm.DB, logger *logrus.Logger) *Repositories {
	return &Repositories{
		db:     db,
		logger: logger,
		Users:  NewUserRepository(db, logger),
		OTPs:   NewOTPRepository(db, logger),
		Tokens: NewSessionTokenRepository(db, logger),
		Videos: NewVideoTutorialRepository(db, logger),
	}
}

// Lookup returns the repository for one of the multilingual reference tables.
func (r *Repositories) Lookup(table LookupTable) *LookupRepository {
	return NewLookupRepository(r.db, table, r.logger)
}

// Transaction runs fn against repositories bound to a single database transaction.
// The transaction commits when fn returns nil and rolls back otherwise.
func (r *Repositories) Transaction(ctx context.Context, fn func(tx *Repositories) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(NewRepositories(tx, r.logger))
	})
}

// Ping checks that the database is reachable.
func (r *Repositories) Ping(ctx context.Context) error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

func notFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}

const (
	flagOn  = "1"
	flagOff = "0"
)

func statusToDB(s models.Status) string {
	if s == models.StatusActive {
		return flagOn
	}
	return flagOff
}

func statusFromDB(v string) models.Status {
	if v == flagOn {
		return models.StatusActive
	}
	return models.StatusInactive
}

func adminToDB(a models.AdminFlag) string {
	if a == models.Admin {
		return flagOn
	}
	return flagOff
}

func adminFromDB(v string) models.AdminFlag {
	if v == flagOn {
		return models.Admin
	}
	return models.NonAdmin
}
