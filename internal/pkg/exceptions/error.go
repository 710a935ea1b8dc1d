package exceptions

import (
	"errors"
	"fmt"
	"onboarding-service/internal/pkg/constvars"
	"time"
)

var (
	// Unauthenticated
	ErrTokenMissing = func(err error) *CustomError {
		return BuildNewCustomError(err, constvars.StatusUnauthorized, constvars.ErrCodeUnauthenticated, constvars.ErrClientNotLoggedIn, constvars.ErrDevAuthTokenMissing)
	}
	ErrTokenInvalid = func(err error) *CustomError {
		return BuildNewCustomError(err, constvars.StatusUnauthorized, constvars.ErrCodeUnauthenticated, constvars.ErrClientNotLoggedIn, constvars.ErrDevAuthTokenInvalid)
	}
	ErrInvalidAPIKey = func(err error) *CustomError {
		return BuildNewCustomError(err, constvars.StatusUnauthorized, constvars.ErrCodeUnauthenticated, constvars.ErrClientNotLoggedIn, constvars.ErrDevAuthInvalidAPIKey)
	}

	// Permission denied
	ErrCapabilityMissing = func(err error) *CustomError {
		return BuildNewCustomError(err, constvars.StatusForbidden, constvars.ErrCodePermissionDenied, constvars.ErrClientNotAuthorized, constvars.ErrDevAuthCapabilityMissing)
	}
	ErrCallerNotAdmin = func(err error) *CustomError {
		return BuildNewCustomError(err, constvars.StatusForbidden, constvars.ErrCodePermissionDenied, constvars.ErrClientNotAuthorized, constvars.ErrDevAuthNotAdmin)
	}

	// Invalid argument
	ErrInputValidation = func(err error) *CustomError {
		return BuildNewCustomError(err, constvars.StatusBadRequest, constvars.ErrCodeInvalidArgument, FormatFirstValidationError(err), constvars.ErrDevValidationFailed)
	}
	ErrCannotParseJSON = func(err error) *CustomError {
		return BuildNewCustomError(err, constvars.StatusBadRequest, constvars.ErrCodeInvalidArgument, constvars.ErrClientCannotProcessRequest, constvars.ErrDevCannotParseJSON)
	}
	ErrTargetIDRequired = func(err error) *CustomError {
		return BuildNewCustomError(err, constvars.StatusBadRequest, constvars.ErrCodeInvalidArgument, constvars.ErrClientTargetIDRequired, constvars.ErrDevInvalidInput)
	}
	ErrStatusNotIntermediate = func(err error, status string) *CustomError {
		return BuildNewCustomError(err, constvars.StatusBadRequest, constvars.ErrCodeInvalidArgument, constvars.ErrClientStatusNotIntermediate, fmt.Sprintf(constvars.ErrDevStatusNotIntermediate, status))
	}
	ErrRoleNotSelfRegistrable = func(err error, role string) *CustomError {
		return BuildNewCustomError(err, constvars.StatusBadRequest, constvars.ErrCodeInvalidArgument, constvars.ErrClientRoleNotSelfRegistrable, fmt.Sprintf(constvars.ErrDevRoleNotSelfRegistrable, role))
	}
	ErrUnknownRole = func(err error, role string) *CustomError {
		return BuildNewCustomError(err, constvars.StatusBadRequest, constvars.ErrCodeInvalidArgument, constvars.ErrClientCannotProcessRequest, fmt.Sprintf(constvars.ErrDevUnknownRole, role))
	}

	// Not found
	ErrProfileNotFound = func(err error, targetID string) *CustomError {
		return BuildNewCustomError(err, constvars.StatusNotFound, constvars.ErrCodeNotFound, constvars.ErrClientUserNotFound, fmt.Sprintf(constvars.ErrDevProfileNotFound, targetID))
	}

	// Failed precondition
	ErrProfileTerminal = func(err error, targetID, status string) *CustomError {
		return BuildNewCustomError(err, constvars.StatusPreconditionFailed, constvars.ErrCodeFailedPrecondition, constvars.ErrClientUserAlreadyFinalized, fmt.Sprintf(constvars.ErrDevProfileTerminal, targetID, status))
	}
	ErrTransitionNotAllowed = func(err error, from, to string) *CustomError {
		return BuildNewCustomError(err, constvars.StatusPreconditionFailed, constvars.ErrCodeFailedPrecondition, constvars.ErrClientUserAlreadyFinalized, fmt.Sprintf(constvars.ErrDevTransitionNotAllowed, from, to))
	}
	ErrProfileAlreadyExists = func(err error, targetID string) *CustomError {
		return BuildNewCustomError(err, constvars.StatusPreconditionFailed, constvars.ErrCodeFailedPrecondition, constvars.ErrClientUserAlreadyRegistered, fmt.Sprintf(constvars.ErrDevProfileAlreadyExists, targetID))
	}
	ErrVersionConflict = func(err error, targetID string, attempts int) *CustomError {
		return BuildNewCustomError(err, constvars.StatusPreconditionFailed, constvars.ErrCodeFailedPrecondition, constvars.ErrClientConcurrentModification, fmt.Sprintf(constvars.ErrDevVersionConflict, targetID, attempts))
	}
	ErrReprocessLocked = func(err error, targetID string) *CustomError {
		return BuildNewCustomError(err, constvars.StatusPreconditionFailed, constvars.ErrCodeFailedPrecondition, constvars.ErrClientReprocessInProgress, fmt.Sprintf(constvars.ErrDevReprocessLocked, targetID))
	}
	ErrReprocessQuotaExceeded = func(err error, targetID string, retryAfter time.Duration) *CustomError {
		return BuildNewCustomError(err, constvars.StatusPreconditionFailed, constvars.ErrCodeFailedPrecondition, constvars.ErrClientReprocessQuotaExceeded, fmt.Sprintf(constvars.ErrDevReprocessQuotaExceeded, targetID, retryAfter))
	}

	// Internal
	ErrServerProcess = func(err error) *CustomError {
		return BuildNewCustomError(err, constvars.StatusInternalServerError, constvars.ErrCodeInternal, constvars.ErrClientSomethingWrongWithApplication, constvars.ErrDevServerProcess)
	}
	ErrServerDeadlineExceeded = func(err error) *CustomError {
		return BuildNewCustomError(err, constvars.StatusGatewayTimeout, constvars.ErrCodeInternal, constvars.ErrClientServerLongRespond, constvars.ErrDevServerDeadlineExceeded)
	}
	ErrMissingRequestID = func(err error) *CustomError {
		return BuildNewCustomError(err, constvars.StatusInternalServerError, constvars.ErrCodeInternal, constvars.ErrClientSomethingWrongWithApplication, constvars.ErrDevMissingRequestID)
	}
	ErrCannotMarshalJSON = func(err error) *CustomError {
		return BuildNewCustomError(err, constvars.StatusInternalServerError, constvars.ErrCodeInternal, constvars.ErrClientSomethingWrongWithApplication, constvars.ErrDevCannotMarshalJSON)
	}

	// Mongo DB
	ErrMongoDBFindDocument = func(err error) *CustomError {
		return BuildNewCustomError(err, constvars.StatusInternalServerError, constvars.ErrCodeInternal, constvars.ErrClientSomethingWrongWithApplication, constvars.ErrDevDBFailedToFindDocument)
	}
	ErrMongoDBInsertDocument = func(err error) *CustomError {
		return BuildNewCustomError(err, constvars.StatusInternalServerError, constvars.ErrCodeInternal, constvars.ErrClientSomethingWrongWithApplication, constvars.ErrDevDBFailedToInsertDocument)
	}
	ErrMongoDBUpdateDocument = func(err error) *CustomError {
		return BuildNewCustomError(err, constvars.StatusInternalServerError, constvars.ErrCodeInternal, constvars.ErrClientSomethingWrongWithApplication, constvars.ErrDevDBFailedToUpdateDocument)
	}
	ErrMongoDBIterateDocuments = func(err error) *CustomError {
		return BuildNewCustomError(err, constvars.StatusInternalServerError, constvars.ErrCodeInternal, constvars.ErrClientSomethingWrongWithApplication, constvars.ErrDevDBFailedToIterateDocuments)
	}
	ErrMongoDBCountDocuments = func(err error) *CustomError {
		return BuildNewCustomError(err, constvars.StatusInternalServerError, constvars.ErrCodeInternal, constvars.ErrClientSomethingWrongWithApplication, constvars.ErrDevDBFailedToCountDocuments)
	}
	ErrMongoDBAggregate = func(err error) *CustomError {
		return BuildNewCustomError(err, constvars.StatusInternalServerError, constvars.ErrCodeInternal, constvars.ErrClientSomethingWrongWithApplication, constvars.ErrDevDBFailedToAggregate)
	}

	// Redis
	ErrRedisGet = func(err error) *CustomError {
		return BuildNewCustomError(err, constvars.StatusInternalServerError, constvars.ErrCodeInternal, constvars.ErrClientSomethingWrongWithApplication, constvars.ErrDevRedisGetData)
	}
	ErrRedisSet = func(err error) *CustomError {
		return BuildNewCustomError(err, constvars.StatusInternalServerError, constvars.ErrCodeInternal, constvars.ErrClientSomethingWrongWithApplication, constvars.ErrDevRedisSetData)
	}
	ErrRedisDelete = func(err error) *CustomError {
		return BuildNewCustomError(err, constvars.StatusInternalServerError, constvars.ErrCodeInternal, constvars.ErrClientSomethingWrongWithApplication, constvars.ErrDevRedisDeleteData)
	}
	ErrRedisPublish = func(err error, channel string) *CustomError {
		return BuildNewCustomError(err, constvars.StatusInternalServerError, constvars.ErrCodeInternal, constvars.ErrClientSomethingWrongWithApplication, fmt.Sprintf(constvars.ErrDevRedisPublish, channel))
	}
	ErrRedisUnlock = func(err error) *CustomError {
		return BuildNewCustomError(err, constvars.StatusInternalServerError, constvars.ErrCodeInternal, constvars.ErrClientSomethingWrongWithApplication, constvars.ErrDevRedisUnlock)
	}

	// RabbitMQ
	ErrRabbitMQPublishMessage = func(err error, queueName string) *CustomError {
		return BuildNewCustomError(err, constvars.StatusInternalServerError, constvars.ErrCodeInternal, constvars.ErrClientSomethingWrongWithApplication, fmt.Sprintf(constvars.ErrDevRabbitMQPublishMessage, queueName))
	}

	// Minio
	ErrMinioCreateObject = func(err error, bucketName string) *CustomError {
		return BuildNewCustomError(err, constvars.StatusInternalServerError, constvars.ErrCodeInternal, constvars.ErrClientSomethingWrongWithApplication, fmt.Sprintf(constvars.ErrDevMinioFailedToCreateObject, bucketName))
	}
	ErrMinioPresignObject = func(err error, bucketName string) *CustomError {
		return BuildNewCustomError(err, constvars.StatusInternalServerError, constvars.ErrCodeInternal, constvars.ErrClientSomethingWrongWithApplication, fmt.Sprintf(constvars.ErrDevMinioFailedToPresignObject, bucketName))
	}

	// Identity provider and notification port
	ErrTokenStoreSetClaims = func(err error, identity string) *CustomError {
		return BuildNewCustomError(err, constvars.StatusInternalServerError, constvars.ErrCodeInternal, constvars.ErrClientSomethingWrongWithApplication, fmt.Sprintf(constvars.ErrDevTokenStoreSetClaims, identity))
	}
	ErrNotificationDelivery = func(err error, templateKind string) *CustomError {
		return BuildNewCustomError(err, constvars.StatusInternalServerError, constvars.ErrCodeInternal, constvars.ErrClientSomethingWrongWithApplication, fmt.Sprintf(constvars.ErrDevNotificationDelivery, templateKind))
	}
	ErrNotificationUnknownTemplate = func(err error, templateKind string) *CustomError {
		return BuildNewCustomError(err, constvars.StatusInternalServerError, constvars.ErrCodeInternal, constvars.ErrClientSomethingWrongWithApplication, fmt.Sprintf(constvars.ErrDevNotificationUnknownTemplate, templateKind))
	}
)

// CategoryOf returns the error code of err, Internal when err is not a CustomError.
func CategoryOf(err error) string {
	if err == nil {
		return ""
	}
	var customErr *CustomError
	if errors.As(err, &customErr) {
		return customErr.Code
	}
	return constvars.ErrCodeInternal
}

// Is reports whether err belongs to the given error code.
func Is(err error, code string) bool {
	return err != nil && CategoryOf(err) == code
}
