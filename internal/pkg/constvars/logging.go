package constvars

const (
	LoggingRequestIDKey          = "request_id"
	LoggingMethodKey             = "method"
	LoggingEndpointKey           = "endpoint"
	LoggingRemoteAddrKey         = "remote_addr"
	LoggingUserAgentKey          = "user_agent"
	LoggingQueryKey              = "query"
	LoggingStatusCodeKey         = "status_code"
	LoggingDurationKey           = "duration"
	LoggingSuccessKey            = "success"
	LoggingErrorCodeKey          = "error_code"
	LoggingRedisKey              = "redis_key"
	LoggingLockValueKey          = "lock_value"
	LoggingLockExpirationTimeKey = "lock_expiration"
	LoggingLockExpectedValueKey  = "lock_expected_value"
	LoggingQueueNameKey          = "queue_name"

	LoggingTargetIDKey     = "target_id"
	LoggingCallerIDKey     = "caller_id"
	LoggingStatusKey       = "status"
	LoggingOldStatusKey    = "old_status"
	LoggingNewStatusKey    = "new_status"
	LoggingRoleKey         = "role"
	LoggingEventIDKey      = "event_id"
	LoggingEventKindKey    = "event_kind"
	LoggingAuditActionKey  = "audit_action"
	LoggingTemplateKindKey = "template_kind"
	LoggingRecipientKey    = "recipient"
	LoggingFailedCountKey  = "failed_count"
	LoggingVersionKey      = "version"
)
