package config

type InternalConfig struct {
	App          App
	JWT          AppJWT
	RabbitMQ     AppRabbitMQ
	Onboarding   AppOnboarding
	Dispatcher   AppDispatcher
	Notification AppNotification
	Claims       AppClaims
	Audit        AppAudit
	Reconciler   AppReconciler
}

type App struct {
	Env                        string
	Port                       string
	Version                    string
	Address                    string
	Timezone                   string
	EndpointPrefix             string
	MaxRequests                int
	ShutdownTimeoutInSeconds   int
	MaxTimeRequestsPerSeconds  int
	RequestBodyLimitInMegabyte int
	SuperadminAPIKey           string
	SuperadminAPIKeyRateLimit  int
}

type AppJWT struct {
	Secret        string
	ExpTimeInHour int
}

type AppRabbitMQ struct {
	MailerQueue        string
	ProfileEventsQueue string
}

type AppOnboarding struct {
	// MutationMaxAttempts bounds the read-check-write retries on a version conflict.
	MutationMaxAttempts     int
	ReprocessLockTTLSeconds int
	// ReprocessQuotaPerHour caps manual reprocess runs per target; zero disables the cap.
	ReprocessQuotaPerHour int
	StatsWindowInDays     int
}

type AppDispatcher struct {
	Workers int
	// MaxRetry is the failedCount threshold before an event goes to the dead-letter queue.
	MaxRetry              int
	RetryDelayInSeconds   int
	ReactionTimeoutInSecs int
}

type AppNotification struct {
	AdminRecipients     []string
	EmailSender         string
	DedupTTLInHours     int
	PortalBaseUrl       string
	SupportEmailAddress string
}

type AppClaims struct {
	CacheSize         int
	CacheTTLInSeconds int
}

type AppAudit struct {
	TargetPageSize           int
	RecentDefaultLimit       int
	RecentMaxLimit           int
	ExportPresignExpiryHours int
}

type AppReconciler struct {
	Enabled              bool
	IntervalInSeconds    int
	GracePeriodInSeconds int
	BatchSize            int
	RatePerSecond        float64
	LockExpiryInSeconds  int
	// CronSpec overrides IntervalInSeconds when set.
	CronSpec string
}
