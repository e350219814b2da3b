package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/fiftyhertz/agriapi/internal/config"
	"github.com/fiftyhertz/agriapi/internal/handlers"
	"github.com/fiftyhertz/agriapi/internal/middleware"
	"github.com/fiftyhertz/agriapi/internal/repository"
	"github.com/fiftyhertz/agriapi/internal/router"
	"github.com/fiftyhertz/agriapi/internal/service"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

func main() {
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})
	logger.SetLevel(logrus.InfoLevel)

	if err := godotenv.Load(); err != nil {
		logger.Debug("No .env file found, using process environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logger.WithError(err).Fatal("Failed to load configuration")
	}
	if level, err := logrus.ParseLevel(cfg.Log.Level); err == nil {
		logger.SetLevel(level)
	} else {
		logger.WithField("level", cfg.Log.Level).Warn("Unknown LOG_LEVEL, keeping info")
	}

	db, err := repository.Open(context.Background(), cfg.Database, logger)
	if err != nil {
		logger.WithError(err).Fatal("Failed to connect to database")
	}
	defer repository.Close(db)

	if cfg.Database.AutoMigrate {
		if err := repository.Migrate(db); err != nil {
			logger.WithError(err).Fatal("Failed to migrate database")
		}
	}

	repos := repository.NewRepositories(db, logger)

	var auditStore service.AuditStore
	if cfg.DynamoDB.TableName != "" {
		dynamoClient, err := initDynamoDB(cfg, logger)
		if err != nil {
			logger.WithError(err).Fatal("Failed to initialize DynamoDB")
		}
		auditStore = repository.NewAuditRepository(dynamoClient, cfg.DynamoDB.TableName, logger)
	} else {
		logger.Info("DYNAMODB_AUDIT_TABLE not set, audit events are only logged")
	}

	var limiter *middleware.RateLimiter
	if cfg.Redis.Endpoint != "" {
		redisClient, err := initRedis(cfg, logger)
		if err != nil {
			logger.WithError(err).Fatal("Failed to connect to Redis")
		}
		defer redisClient.Close()
		limiter = middleware.NewRateLimiter(redisClient, cfg.RateLimit.MaxRequests, cfg.RateLimit.Window, cfg.RateLimit.TrustedProxies, logger)
	} else {
		logger.Info("REDIS_ENDPOINT not set, rate limiting disabled")
	}

	// Initialize services
	jwtService, err := service.NewJWTService(&cfg.JWT, logger)
	if err != nil {
		logger.WithError(err).Fatal("Failed to initialize JWT service")
	}

	audit := service.NewAuditLogger(auditStore, logger)
	notifier := service.NewNotifier(&cfg.Twilio, logger)
	otpService := service.NewOTPService(repos, notifier, audit, &cfg.OTP, logger)
	sessionService := service.NewSessionService(repos, otpService, jwtService, audit, logger)
	userService := service.NewUserService(repos, audit, logger)

	lookupHandlers := func(kind service.LookupKind) *handlers.LookupHandlers {
		return handlers.NewLookupHandlers(service.NewLookupService(repos, kind, logger), logger)
	}

	h := router.Handlers{
		Auth:                  handlers.NewAuthHandlers(otpService, sessionService, cfg.OTP.ExposeCode, logger),
		Users:                 handlers.NewUserHandlers(userService, logger),
		Home:                  handlers.NewHomeHandlers(service.NewHomeService(repos), logger),
		Health:                handlers.NewHealthHandlers(repos, logger),
		Videos:                handlers.NewVideoTutorialHandlers(service.NewVideoTutorialService(repos, logger), logger),
		CropTypes:             lookupHandlers(service.CropTypeKind),
		Harvesters:            lookupHandlers(service.HarvesterKind),
		TransportArrangements: lookupHandlers(service.TransportArrangementKind),
		LandSizeUnits:         lookupHandlers(service.LandSizeUnitKind),
	}

	authMiddleware := middleware.NewAuthMiddleware(jwtService, repos.Tokens, logger)
	adminMiddleware := middleware.NewAdminMiddleware(userService, logger)
	handler := router.New(h, authMiddleware, adminMiddleware, router.Options{
		AllowedOrigins: cfg.Server.AllowedOrigins,
		RequestTimeout: cfg.Server.RequestTimeout,
		MaxBodyBytes:   cfg.Server.MaxBodyBytes,
		RateLimiter:    limiter,
	}, logger)

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      handler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		logger.WithFields(logrus.Fields{
			"port":        cfg.Server.Port,
			"environment": cfg.Server.Environment,
		}).Info("Starting server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.WithError(err).Fatal("Server failed to start")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.WithError(err).Error("Server forced to shutdown")
	}

	logger.Info("Server exited")
}

func initDynamoDB(cfg *config.Config, logger *logrus.Logger) (*dynamodb.Client, error) {
	var awsCfg aws.Config
	var err error

	if cfg.DynamoDB.Endpoint != "" {
		awsCfg, err = awsconfig.LoadDefaultConfig(context.TODO(),
			awsconfig.WithRegion(cfg.DynamoDB.Region),
			awsconfig.WithEndpointResolverWithOptions(aws.EndpointResolverWithOptionsFunc(
				func(service, region string, options ...interface{}) (aws.Endpoint, error) {
					return aws.Endpoint{
						URL:           cfg.DynamoDB.Endpoint,
						SigningRegion: cfg.DynamoDB.Region,
					}, nil
				})),
		)
	} else {
		awsCfg, err = awsconfig.LoadDefaultConfig(context.TODO(), awsconfig.WithRegion(cfg.DynamoDB.Region))
	}

	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	client := dynamodb.NewFromConfig(awsCfg)
	logger.WithField("table", cfg.DynamoDB.TableName).Info("DynamoDB audit client initialized")
	return client, nil
}

func initRedis(cfg *config.Config, logger *logrus.Logger) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Endpoint,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to ping redis: %w", err)
	}

	logger.WithField("endpoint", cfg.Redis.Endpoint).Info("Redis client initialized")
	return client, nil
}
