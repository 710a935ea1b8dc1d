package models

import "time"

// AuditEntry is immutable once written.
type AuditEntry struct {
	ID          string                 `json:"id" bson:"_id"`
	Action      string                 `json:"action" bson:"action"`
	TargetID    string                 `json:"targetId" bson:"targetId"`
	PerformedBy string                 `json:"performedBy" bson:"performedBy"`
	Timestamp   time.Time              `json:"timestamp" bson:"timestamp"`
	Changes     map[string]FieldChange `json:"changes,omitempty" bson:"changes,omitempty"`
	Metadata    map[string]interface{} `json:"metadata,omitempty" bson:"metadata,omitempty"`
	DedupKey    string                 `json:"-" bson:"dedupKey,omitempty"`
}

type FieldChange struct {
	Before interface{} `json:"before" bson:"before"`
	After  interface{} `json:"after" bson:"after"`
}

// AuditRecord is the input to the audit ledger append operation.
type AuditRecord struct {
	Action      string
	TargetID    string
	PerformedBy string
	Changes     map[string]FieldChange
	Metadata    map[string]interface{}
	// DedupKey, when set, makes the append idempotent for redelivered reactions.
	DedupKey string
}
