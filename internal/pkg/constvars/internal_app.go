package constvars

type ContextKey string

const (
	CONTEXT_REQUEST_ID_KEY           ContextKey = "request_id"
	CONTEXT_IS_CLIENT_REQUEST_ID_KEY ContextKey = "is_client_request_id"
	CONTEXT_CALLER_KEY               ContextKey = "caller"
)

const (
	REQUEST_ID_PREFIX = "ONBRD_SVC_"
)

const (
	AppEnvProduction  = "production"
	AppEnvDevelopment = "development"
)

const (
	MongoCollectionProfiles  = "profiles"
	MongoCollectionAuditLogs = "audit_logs"
)

const (
	// MachineAdminIdentity is the caller identity attached to requests authenticated by API key.
	MachineAdminIdentity = "api-key-admin"
)
