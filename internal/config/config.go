package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	DynamoDB  DynamoDBConfig
	Redis     RedisConfig
	JWT       JWTConfig
	OTP       OTPConfig
	Twilio    TwilioConfig
	RateLimit RateLimitConfig
	Log       LogConfig
}

type ServerConfig struct {
	Port           string
	Environment    string
	ReadTimeout    time.Duration
	WriteTimeout   time.Duration
	RequestTimeout time.Duration
	MaxBodyBytes   int64
	AllowedOrigins []string
}

type DatabaseConfig struct {
	URL             string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	AutoMigrate     bool
}

// DynamoDBConfig points at the auth audit table. An empty TableName disables auditing to DynamoDB.
type DynamoDBConfig struct {
	Endpoint  string
	Region    string
	TableName string
}

// RedisConfig backs the request rate limiter. An empty Endpoint disables it.
type RedisConfig struct {
	Endpoint string
	Password string
	DB       int
}

type JWTConfig struct {
	SecretKey     string
	SessionExpiry time.Duration
}

type OTPConfig struct {
	Expiry time.Duration
	// MaxAttempts is the number of wrong codes after which an issued code is discarded.
	MaxAttempts int
	// ExposeCode echoes the generated code in the generateOtp response. Never set in production.
	ExposeCode bool
}

type TwilioConfig struct {
	AccountSID string
	AuthToken  string
	FromNumber string
}

func (t TwilioConfig) Enabled() bool {
	return t.AccountSID != "" && t.AuthToken != "" && t.FromNumber != ""
}

type RateLimitConfig struct {
	MaxRequests int
	Window      time.Duration
	// TrustedProxies lists the IPs or CIDRs whose X-Forwarded-For header is believed.
	TrustedProxies []string
}

type LogConfig struct {
	Level string
}

func Load() (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{
			Port:           getEnv("PORT", "5000"),
			Environment:    getEnv("APP_ENV", "development"),
			ReadTimeout:    getEnvAsDuration("SERVER_READ_TIMEOUT", 15*time.Second),
			WriteTimeout:   getEnvAsDuration("SERVER_WRITE_TIMEOUT", 15*time.Second),
			RequestTimeout: getEnvAsDuration("REQUEST_TIMEOUT", 15*time.Second),
			MaxBodyBytes:   int64(getEnvAsInt("MAX_BODY_BYTES", 1<<20)),
			AllowedOrigins: getEnvAsList("ALLOWED_ORIGINS", []string{"*"}),
		},
		Database: DatabaseConfig{
			URL:             getEnv("DATABASE_URL", ""),
			MaxOpenConns:    getEnvAsInt("DB_MAX_OPEN_CONNS", 10),
			MaxIdleConns:    getEnvAsInt("DB_MAX_IDLE_CONNS", 5),
			ConnMaxLifetime: getEnvAsDuration("DB_CONN_MAX_LIFETIME", 5*time.Minute),
			AutoMigrate:     getEnvAsBool("DB_AUTO_MIGRATE", true),
		},
		DynamoDB: DynamoDBConfig{
			Endpoint:  getEnv("DYNAMODB_ENDPOINT", ""),
			Region:    getEnv("DYNAMODB_REGION", "ap-south-1"),
			TableName: getEnv("DYNAMODB_AUDIT_TABLE", ""),
		},
		Redis: RedisConfig{
			Endpoint: getEnv("REDIS_ENDPOINT", ""),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvAsInt("REDIS_DB", 0),
		},
		JWT: JWTConfig{
			SecretKey:     getEnv("JWT_SECRET_KEY", ""),
			SessionExpiry: getEnvAsDuration("JWT_SESSION_EXPIRY", 30*24*time.Hour),
		},
		OTP: OTPConfig{
			Expiry:      getEnvAsDuration("OTP_EXPIRY", 15*time.Minute),
			MaxAttempts: getEnvAsInt("OTP_MAX_ATTEMPTS", 5),
			ExposeCode:  getEnvAsBool("OTP_EXPOSE_CODE", true),
		},
		Twilio: TwilioConfig{
			AccountSID: getEnv("TWILIO_ACCOUNT_SID", ""),
			AuthToken:  getEnv("TWILIO_AUTH_TOKEN", ""),
			FromNumber: getEnv("TWILIO_FROM_NUMBER", ""),
		},
		RateLimit: RateLimitConfig{
			MaxRequests:    getEnvAsInt("RATE_LIMIT_MAX_REQUESTS", 100),
			Window:         getEnvAsDuration("RATE_LIMIT_WINDOW", 15*time.Minute),
			TrustedProxies: getEnvAsList("TRUSTED_PROXIES", nil),
		},
		Log: LogConfig{
			Level: getEnv("LOG_LEVEL", "info"),
		},
	}

	if cfg.JWT.SecretKey == "" {
		return nil, fmt.Errorf("JWT_SECRET_KEY environment variable is required")
	}

	if len(cfg.JWT.SecretKey) < 32 {
		return nil, fmt.Errorf("JWT_SECRET_KEY must be at least 32 bytes (256 bits)")
	}

	if cfg.Database.URL == "" {
		return nil, fmt.Errorf("DATABASE_URL environment variable is required")
	}

	if cfg.OTP.Expiry <= 0 || cfg.JWT.SessionExpiry <= 0 {
		return nil, fmt.Errorf("OTP_EXPIRY and JWT_SESSION_EXPIRY must be positive")
	}

	if cfg.OTP.MaxAttempts <= 0 {
		return nil, fmt.Errorf("OTP_MAX_ATTEMPTS must be positive")
	}

	if cfg.IsProduction() {
		cfg.OTP.ExposeCode = false
	}

	return cfg, nil
}

func (c *Config) IsProduction() bool {
	return strings.EqualFold(c.Server.Environment, "production")
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

func getEnvAsList(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	if len(out) == 0 {
		return defaultValue
	}
	return out
}
