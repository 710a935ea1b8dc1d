package requests

type ApproveUser struct {
	TargetID       string  `json:"-" validate:"required"`
	StructureScope *string `json:"structureScope" validate:"omitempty,max=128"`
	Note           *string `json:"note" validate:"omitempty,max=2000"`
}

type RejectUser struct {
	TargetID string `json:"-" validate:"required"`
	Reason   string `json:"reason" validate:"required,max=2000"`
}

type UpdateIntermediateStatus struct {
	TargetID string  `json:"-" validate:"required"`
	Status   string  `json:"status" validate:"required,intermediate_status"`
	Note     *string `json:"note" validate:"omitempty,max=2000"`
}

type ReprocessUser struct {
	TargetID string `json:"-" validate:"required"`
}
