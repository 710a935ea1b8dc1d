package config

import (
	"onboarding-service/internal/pkg/utils"

	"github.com/joho/godotenv"
)

func init() {
	godotenv.Load()
}

func NewDriverConfig() *DriverConfig {
	return &DriverConfig{
		MongoDB: MongoDB{
			Port:     utils.GetEnvString("MONGODB_PORT", "27017"),
			Host:     utils.GetEnvString("MONGODB_HOST", "localhost"),
			DbName:   utils.GetEnvString("MONGODB_DB_NAME", "onboarding"),
			Username: utils.GetEnvString("MONGODB_USERNAME", ""),
			Password: utils.GetEnvString("MONGODB_PASSWORD", ""),
		},
		Redis: Redis{
			Host:     utils.GetEnvString("REDIS_HOST", "localhost"),
			Port:     utils.GetEnvString("REDIS_PORT", "6379"),
			Password: utils.GetEnvString("REDIS_PASSWORD", ""),
		},
		Logger: Logger{
			Level:               utils.GetEnvString("LOGGER_LEVEL", "debug"),
			OutputFileName:      utils.GetEnvString("LOGGER_OUTPUT_FILENAME", "logger.log"),
			OutputErrorFileName: utils.GetEnvString("LOGGER_OUTPUT_ERROR_FILENAME", "logger_error.log"),
		},
		RabbitMQ: RabbitMQ{
			Port:     utils.GetEnvString("RABBITMQ_PORT", "5672"),
			Host:     utils.GetEnvString("RABBITMQ_HOST", "localhost"),
			Username: utils.GetEnvString("RABBITMQ_USERNAME", "guest"),
			Password: utils.GetEnvString("RABBITMQ_PASSWORD", "guest"),
		},
		Minio: Minio{
			Port:       utils.GetEnvString("MINIO_PORT", "9000"),
			Host:       utils.GetEnvString("MINIO_HOST", "localhost"),
			Username:   utils.GetEnvString("MINIO_USERNAME", "minioadmin"),
			Password:   utils.GetEnvString("MINIO_PASSWORD", "minioadmin"),
			BucketName: utils.GetEnvString("MINIO_BUCKET_NAME", "onboarding-audit"),
			UseSSL:     utils.GetEnvBool("MINIO_USE_SSL", false),
		},
	}
}

func NewInternalConfig() *InternalConfig {
	return &InternalConfig{
		App: App{
			Env:                        utils.GetEnvString("APP_ENV", "development"),
			Port:                       utils.GetEnvString("APP_PORT", "8080"),
			Version:                    utils.GetEnvString("APP_VERSION", "v1.0"),
			Address:                    utils.GetEnvString("APP_ADDRESS", ""),
			Timezone:                   utils.GetEnvString("APP_TIMEZONE", "UTC"),
			EndpointPrefix:             utils.GetEnvString("APP_ENDPOINT_PREFIX", "/v1"),
			MaxRequests:                utils.GetEnvInt("APP_MAX_REQUEST", 100),
			ShutdownTimeoutInSeconds:   utils.GetEnvInt("APP_SHUTDOWN_TIMEOUT", 10),
			MaxTimeRequestsPerSeconds:  utils.GetEnvInt("APP_MAX_TIME_REQUESTS_PER_SECONDS", 60),
			RequestBodyLimitInMegabyte: utils.GetEnvInt("APP_REQUEST_BODY_LIMIT_IN_MEGABYTE", 1),
			SuperadminAPIKey:           utils.GetEnvString("APP_SUPERADMIN_API_KEY", ""),
			SuperadminAPIKeyRateLimit:  utils.GetEnvInt("APP_SUPERADMIN_API_KEY_RATE_LIMIT", 30),
		},
		JWT: AppJWT{
			Secret:        utils.GetEnvString("JWT_SECRET", ""),
			ExpTimeInHour: utils.GetEnvInt("JWT_EXP_TIME_IN_HOUR", 1),
		},
		RabbitMQ: AppRabbitMQ{
			MailerQueue:        utils.GetEnvString("RABBITMQ_MAILER_QUEUE", "mailer"),
			ProfileEventsQueue: utils.GetEnvString("RABBITMQ_PROFILE_EVENTS_QUEUE", "onboarding.profile_events"),
		},
		Onboarding: AppOnboarding{
			MutationMaxAttempts:     utils.GetEnvInt("ONBOARDING_MUTATION_MAX_ATTEMPTS", 3),
			ReprocessLockTTLSeconds: utils.GetEnvInt("ONBOARDING_REPROCESS_LOCK_TTL_SECONDS", 60),
			ReprocessQuotaPerHour:   utils.GetEnvInt("ONBOARDING_REPROCESS_QUOTA_PER_HOUR", 10),
			StatsWindowInDays:       utils.GetEnvInt("ONBOARDING_STATS_WINDOW_IN_DAYS", 7),
		},
		Dispatcher: AppDispatcher{
			Workers:               utils.GetEnvInt("DISPATCHER_WORKERS", 4),
			MaxRetry:              utils.GetEnvInt("DISPATCHER_MAX_RETRY", 5),
			RetryDelayInSeconds:   utils.GetEnvInt("DISPATCHER_RETRY_DELAY_IN_SECONDS", 5),
			ReactionTimeoutInSecs: utils.GetEnvInt("DISPATCHER_REACTION_TIMEOUT_IN_SECONDS", 30),
		},
		Notification: AppNotification{
			AdminRecipients:     utils.GetEnvStringSlice("NOTIFICATION_ADMIN_RECIPIENTS", nil),
			EmailSender:         utils.GetEnvString("NOTIFICATION_EMAIL_SENDER", "no-reply@localhost"),
			DedupTTLInHours:     utils.GetEnvInt("NOTIFICATION_DEDUP_TTL_IN_HOURS", 72),
			PortalBaseUrl:       utils.GetEnvString("NOTIFICATION_PORTAL_BASE_URL", "http://localhost:3000"),
			SupportEmailAddress: utils.GetEnvString("NOTIFICATION_SUPPORT_EMAIL", ""),
		},
		Claims: AppClaims{
			CacheSize:         utils.GetEnvInt("CLAIMS_CACHE_SIZE", 10000),
			CacheTTLInSeconds: utils.GetEnvInt("CLAIMS_CACHE_TTL_IN_SECONDS", 60),
		},
		Audit: AppAudit{
			TargetPageSize:           utils.GetEnvInt("AUDIT_TARGET_PAGE_SIZE", 50),
			RecentDefaultLimit:       utils.GetEnvInt("AUDIT_RECENT_DEFAULT_LIMIT", 20),
			RecentMaxLimit:           utils.GetEnvInt("AUDIT_RECENT_MAX_LIMIT", 200),
			ExportPresignExpiryHours: utils.GetEnvInt("AUDIT_EXPORT_PRESIGN_EXPIRY_HOURS", 24),
		},
		Reconciler: AppReconciler{
			Enabled:              utils.GetEnvBool("RECONCILER_ENABLED", true),
			IntervalInSeconds:    utils.GetEnvInt("RECONCILER_INTERVAL_IN_SECONDS", 60),
			GracePeriodInSeconds: utils.GetEnvInt("RECONCILER_GRACE_PERIOD_IN_SECONDS", 120),
			BatchSize:            utils.GetEnvInt("RECONCILER_BATCH_SIZE", 100),
			RatePerSecond:        utils.GetEnvFloat("RECONCILER_RATE_PER_SECOND", 20),
			LockExpiryInSeconds:  utils.GetEnvInt("RECONCILER_LOCK_EXPIRY_IN_SECONDS", 55),
			CronSpec:             utils.GetEnvString("RECONCILER_CRON_SPEC", ""),
		},
	}
}
