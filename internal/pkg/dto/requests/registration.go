package requests

type Registration struct {
	Role           string  `json:"role" validate:"required,oneof=doctor secretary technician admin"`
	FullName       string  `json:"fullName" validate:"required,min=2,max=200"`
	Email          string  `json:"email" validate:"required,email"`
	StructureScope *string `json:"structureScope" validate:"omitempty,max=128"`
	// Identity is filled from the caller; machine callers may set it to provision another identity.
	Identity string `json:"identity,omitempty" validate:"omitempty,max=128"`
}
