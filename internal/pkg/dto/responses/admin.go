package responses

import "time"

type StatusTransition struct {
	TargetID       string     `json:"targetId"`
	PreviousStatus string     `json:"previousStatus"`
	Status         string     `json:"status"`
	StructureScope *string    `json:"structureScope,omitempty"`
	ApprovedBy     string     `json:"approvedBy,omitempty"`
	ApprovedAt     *time.Time `json:"approvedAt,omitempty"`
	RejectedBy     string     `json:"rejectedBy,omitempty"`
	RejectedAt     *time.Time `json:"rejectedAt,omitempty"`
	Version        int64      `json:"version"`
}

type Stats struct {
	ByStatus       map[string]int64 `json:"byStatus"`
	ByRole         map[string]int64 `json:"byRole"`
	Total          int64            `json:"total"`
	PendingActions int64            `json:"pendingActions"`
	LastSevenDays  RollingActivity  `json:"lastSevenDays"`
}

type RollingActivity struct {
	Registrations int64 `json:"registrations"`
	Approvals     int64 `json:"approvals"`
	Rejections    int64 `json:"rejections"`
	StatusChanges int64 `json:"statusChanges"`
	Retries       int64 `json:"retries"`
}

type Reprocess struct {
	TargetID            string   `json:"targetId"`
	Status              string   `json:"status"`
	Role                string   `json:"role"`
	ClaimsSynced        bool     `json:"claimsSynced"`
	NotificationsSent   []string `json:"notificationsSent"`
	NotificationsFailed []string `json:"notificationsFailed"`
	AuditEntryID        string   `json:"auditEntryId,omitempty"`
}

type Registration struct {
	ID        string    `json:"id"`
	Role      string    `json:"role"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"createdAt"`
}
