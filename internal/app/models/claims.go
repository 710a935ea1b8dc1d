package models

// CapabilityToken is the role/status/scope projection read by authorization checks.
type CapabilityToken struct {
	Role           string  `json:"role"`
	Status         string  `json:"status"`
	StructureScope *string `json:"structureScope,omitempty"`
	// Version is the profile version the projection was taken from. Older projections never
	// replace newer ones in the token store.
	Version int64 `json:"version"`
}

// Equal compares the projected fields and ignores Version.
func (t CapabilityToken) Equal(other CapabilityToken) bool {
	if t.Role != other.Role || t.Status != other.Status {
		return false
	}
	if t.StructureScope == nil || other.StructureScope == nil {
		return t.StructureScope == nil && other.StructureScope == nil
	}
	return *t.StructureScope == *other.StructureScope
}
