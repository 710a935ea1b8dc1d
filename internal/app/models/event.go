package models

import "time"

// ProfileEvent is published after every committed profile store write.
type ProfileEvent struct {
	ID          string    `json:"id"`
	Kind        string    `json:"kind"`
	TargetID    string    `json:"target_id"`
	Before      *Profile  `json:"before,omitempty"`
	After       *Profile  `json:"after"`
	Actor       string    `json:"actor"`
	OccurredAt  time.Time `json:"occurred_at"`
	FailedCount int       `json:"failed_count"`
}

// StatusChanged reports whether the update moved the record to another status.
func (e *ProfileEvent) StatusChanged() bool {
	if e.Before == nil || e.After == nil {
		return false
	}
	return e.Before.Status != e.After.Status
}
