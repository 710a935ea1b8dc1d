package constvars

// Validation messages for requests, map it with respective tag field
var CustomValidationErrorMessages = map[string]string{
	"required": "is required",
	"email":    "must be a valid email",
	"min":      "must be at least %s characters long",
	"max":      "maximum at %s characters long",
	"oneof":    "must be one of: %s",
}

// Tags whose message embeds the tag parameter
var TagsWithParams = map[string]bool{
	"min":   true,
	"max":   true,
	"oneof": true,
}

// Error codes, one per error category
const (
	ErrCodeUnauthenticated    = "UNAUTHENTICATED"
	ErrCodePermissionDenied   = "PERMISSION_DENIED"
	ErrCodeInvalidArgument    = "INVALID_ARGUMENT"
	ErrCodeNotFound           = "NOT_FOUND"
	ErrCodeFailedPrecondition = "FAILED_PRECONDITION"
	ErrCodeInternal           = "INTERNAL"
)

// Error messages for clients
const (
	ErrClientCannotProcessRequest          = "failed to process your request"
	ErrClientSomethingWrongWithApplication = "there is something wrong with the application"
	ErrClientServerLongRespond             = "the app taking too long to respond"
	ErrClientNotLoggedIn                   = "you must be logged in to access this feature"
	ErrClientNotAuthorized                 = "you can't access this feature"
	ErrClientUserNotFound                  = "user not found"
	ErrClientUserAlreadyFinalized          = "user request has already been approved or rejected"
	ErrClientUserAlreadyRegistered         = "a registration already exists for this account"
	ErrClientStatusNotIntermediate         = "status must be one of: pending_call, in_review, pending_callback, pending_info"
	ErrClientTargetIDRequired              = "target user id is required"
	ErrClientRoleNotSelfRegistrable        = "role must be one of: doctor, secretary, technician"
	ErrClientReprocessInProgress           = "a reprocess for this user is already running"
	ErrClientConcurrentModification        = "the user was modified concurrently, please retry"
	ErrClientReprocessQuotaExceeded        = "too many reprocess requests for this user, try again later"
)

// Error messages for developers
const (
	ErrDevInvalidInput                = "invalid input"
	ErrDevValidationFailed            = "validation failed"
	ErrDevCannotParseJSON             = "cannot parse JSON"
	ErrDevCannotMarshalJSON           = "cannot marshal JSON"
	ErrDevServerProcess               = "failed to process request"
	ErrDevServerDeadlineExceeded      = "deadline exceeded"
	ErrDevMissingRequestID            = "request id missing from context"
	ErrDevAuthTokenMissing            = "token missing"
	ErrDevAuthTokenInvalid            = "invalid token"
	ErrDevAuthSigningMethod           = "unexpected signing method"
	ErrDevAuthSubjectMissing          = "token subject missing"
	ErrDevAuthInvalidAPIKey           = "invalid API key"
	ErrDevAuthCapabilityMissing       = "capability token missing for identity"
	ErrDevAuthNotAdmin                = "caller capability token does not carry admin role"
	ErrDevProfileNotFound             = "profile record %s not found"
	ErrDevProfileAlreadyExists        = "profile record %s already exists"
	ErrDevProfileTerminal             = "profile record %s is in terminal status %s"
	ErrDevTransitionNotAllowed        = "transition from %s to %s is not allowed"
	ErrDevStatusNotIntermediate       = "requested status %s is not an intermediate status"
	ErrDevRoleNotSelfRegistrable      = "role %s cannot self register"
	ErrDevUnknownRole                 = "unknown role %s"
	ErrDevVersionConflict             = "profile record %s version conflict after %d attempts"
	ErrDevReprocessLocked             = "reprocess lock for %s is held by another operator"
	ErrDevReprocessQuotaExceeded      = "reprocess quota for %s exhausted, retry after %s"
	ErrDevDBFailedToInsertDocument    = "failed to insert document into database"
	ErrDevDBFailedToUpdateDocument    = "failed to update document into database"
	ErrDevDBFailedToFindDocument      = "failed when do find document on database"
	ErrDevDBFailedToIterateDocuments  = "failed to iterate documents on database"
	ErrDevDBFailedToCountDocuments    = "failed to count documents on database"
	ErrDevDBFailedToAggregate         = "failed to aggregate documents on database"
	ErrDevRedisGetData                = "failed to get data from redis"
	ErrDevRedisSetData                = "failed to set data into redis"
	ErrDevRedisDeleteData             = "failed to delete data from redis"
	ErrDevRedisPublish                = "failed to publish message on redis channel %s"
	ErrDevRedisUnlock                 = "failed to release redis lock"
	ErrDevRabbitMQPublishMessage      = "failed to publish message into queue %s"
	ErrDevMinioFailedToCreateObject   = "failed to create object in bucket %s"
	ErrDevMinioFailedToPresignObject  = "failed to presign object in bucket %s"
	ErrDevTokenStoreSetClaims         = "failed to set claims for identity %s"
	ErrDevNotificationDelivery        = "failed to deliver %s notification"
	ErrDevNotificationUnknownTemplate = "unknown notification template %s"
)
