package models

import (
	"slices"
	"time"
)

// Profile is the authorization record held for one user identity.
type Profile struct {
	ID              string               `json:"id" bson:"_id"`
	Role            string               `json:"role" bson:"role"`
	Status          string               `json:"status" bson:"status"`
	StructureScope  *string              `json:"structureScope,omitempty" bson:"structureScope,omitempty"`
	FullName        string               `json:"fullName" bson:"fullName"`
	Email           string               `json:"email" bson:"email"`
	History         []StatusHistoryEntry `json:"history" bson:"history"`
	AdminNotes      []AdminNote          `json:"adminNotes" bson:"adminNotes"`
	RejectionReason *string              `json:"rejectionReason,omitempty" bson:"rejectionReason,omitempty"`
	ApprovedBy      string               `json:"approvedBy,omitempty" bson:"approvedBy,omitempty"`
	ApprovedAt      *time.Time           `json:"approvedAt,omitempty" bson:"approvedAt,omitempty"`
	RejectedBy      string               `json:"rejectedBy,omitempty" bson:"rejectedBy,omitempty"`
	RejectedAt      *time.Time           `json:"rejectedAt,omitempty" bson:"rejectedAt,omitempty"`
	UpdatedBy       string               `json:"updatedBy" bson:"updatedBy"`
	Version         int64                `json:"version" bson:"version"`
	ClaimsVersion   int64                `json:"claimsVersion" bson:"claimsVersion"`
	TimeModel       `bson:",inline"`
}

type StatusHistoryEntry struct {
	Status    string    `json:"status" bson:"status"`
	ChangedAt time.Time `json:"changedAt" bson:"changedAt"`
	ChangedBy string    `json:"changedBy" bson:"changedBy"`
	Note      *string   `json:"note,omitempty" bson:"note,omitempty"`
}

type AdminNote struct {
	Note      string    `json:"note" bson:"note"`
	Author    string    `json:"author" bson:"author"`
	CreatedAt time.Time `json:"createdAt" bson:"createdAt"`
}

// Projection derives the capability token published for this record.
func (p *Profile) Projection() CapabilityToken {
	return CapabilityToken{
		Role:           p.Role,
		Status:         p.Status,
		StructureScope: cloneString(p.StructureScope),
		Version:        p.Version,
	}
}

// LastHistoryStatus returns the status of the newest history entry, or "" when empty.
func (p *Profile) LastHistoryStatus() string {
	if len(p.History) == 0 {
		return ""
	}
	return p.History[len(p.History)-1].Status
}

// SetStatus moves the record to status and appends the matching history entry.
func (p *Profile) SetStatus(status, actor string, note *string, at time.Time) {
	p.Status = status
	p.History = append(p.History, StatusHistoryEntry{
		Status:    status,
		ChangedAt: at,
		ChangedBy: actor,
		Note:      cloneString(note),
	})
	p.Touch(actor, at)
}

func (p *Profile) AddAdminNote(note, author string, at time.Time) {
	p.AdminNotes = append(p.AdminNotes, AdminNote{
		Note:      note,
		Author:    author,
		CreatedAt: at,
	})
	p.Touch(author, at)
}

func (p *Profile) Touch(actor string, at time.Time) {
	p.UpdatedAt = at
	p.UpdatedBy = actor
}

// Clone returns a deep copy so snapshots never alias the live record.
func (p *Profile) Clone() *Profile {
	if p == nil {
		return nil
	}
	clone := *p
	clone.StructureScope = cloneString(p.StructureScope)
	clone.RejectionReason = cloneString(p.RejectionReason)
	clone.History = slices.Clone(p.History)
	for i := range clone.History {
		clone.History[i].Note = cloneString(p.History[i].Note)
	}
	clone.AdminNotes = slices.Clone(p.AdminNotes)
	if p.ApprovedAt != nil {
		approvedAt := *p.ApprovedAt
		clone.ApprovedAt = &approvedAt
	}
	if p.RejectedAt != nil {
		rejectedAt := *p.RejectedAt
		clone.RejectedAt = &rejectedAt
	}
	return &clone
}

func cloneString(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}
