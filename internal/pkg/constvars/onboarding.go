package constvars

// Profile roles.
const (
	RoleDoctor     = "doctor"
	RoleSecretary  = "secretary"
	RoleTechnician = "technician"
	RoleAdmin      = "admin"
)

// Profile statuses. The first four form the interview circuit.
const (
	StatusPendingCall     = "pending_call"
	StatusInReview        = "in_review"
	StatusPendingCallback = "pending_callback"
	StatusPendingInfo     = "pending_info"
	StatusApproved        = "approved"
	StatusRejected        = "rejected"
	StatusSuspended       = "suspended"
)

// Audit actions.
const (
	AuditActionUserCreated      = "user_created"
	AuditActionUserCreatedRetry = "user_created_retry"
	AuditActionStatusChanged    = "status_changed"
	AuditActionUserApproved     = "user_approved"
	AuditActionUserRejected     = "user_rejected"
)

// Profile event kinds carried on the event queue.
const (
	ProfileEventCreated = "created"
	ProfileEventUpdated = "updated"
)

const (
	// SystemActor is recorded as performer when a dispatched event carries no caller.
	SystemActor = "system"
)

var (
	ProfileRoles = []string{RoleDoctor, RoleSecretary, RoleTechnician, RoleAdmin}

	SelfRegistrableRoles = []string{RoleDoctor, RoleSecretary, RoleTechnician}

	ProfileStatuses = []string{
		StatusPendingCall,
		StatusInReview,
		StatusPendingCallback,
		StatusPendingInfo,
		StatusApproved,
		StatusRejected,
		StatusSuspended,
	}

	AuditActions = []string{
		AuditActionUserCreated,
		AuditActionUserCreatedRetry,
		AuditActionStatusChanged,
		AuditActionUserApproved,
		AuditActionUserRejected,
	}

	IntermediateStatuses = []string{
		StatusPendingCall,
		StatusInReview,
		StatusPendingCallback,
		StatusPendingInfo,
	}
)
