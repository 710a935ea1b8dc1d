package constvars

const (
	ResponseUnknown = "unknown"

	RegistrationCreatedSuccessMessage = "registration received, your request is pending review"
	UserApprovedSuccessMessage        = "user approved successfully"
	UserRejectedSuccessMessage        = "user rejected successfully"
	UserStatusUpdatedSuccessMessage   = "user status updated successfully"
	GetStatsSuccessMessage            = "get stats successfully"
	ReprocessSuccessMessage           = "user creation side effects reprocessed successfully"
	ReprocessPartialSuccessMessage    = "user creation side effects reprocessed with failures"
	GetProfileSuccessMessage          = "get profile successfully"
	GetAuditEntriesSuccessMessage     = "get audit entries successfully"
	ExportAuditEntriesSuccessMessage  = "audit trail exported successfully"
	HealthCheckSuccessMessage         = "ok"
)
