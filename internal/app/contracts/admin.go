package contracts

import (
	"context"
	"onboarding-service/internal/app/models"
	"onboarding-service/internal/pkg/dto/requests"
	"onboarding-service/internal/pkg/dto/responses"
)

// Caller is the authenticated principal of a gateway request.
type Caller struct {
	Identity   string
	Email      string
	Capability *models.CapabilityToken
	ViaAPIKey  bool
}

type AdminUsecase interface {
	Approve(ctx context.Context, caller *Caller, request *requests.ApproveUser) (*responses.StatusTransition, error)
	Reject(ctx context.Context, caller *Caller, request *requests.RejectUser) (*responses.StatusTransition, error)
	UpdateIntermediateStatus(ctx context.Context, caller *Caller, request *requests.UpdateIntermediateStatus) (*responses.StatusTransition, error)
	GetStats(ctx context.Context, caller *Caller) (*responses.Stats, error)
	Reprocess(ctx context.Context, caller *Caller, request *requests.ReprocessUser) (*responses.Reprocess, error)
	GetProfile(ctx context.Context, caller *Caller, targetID string) (*models.Profile, error)
	ListAuditForTarget(ctx context.Context, caller *Caller, targetID string) ([]models.AuditEntry, error)
	ListRecentAudit(ctx context.Context, caller *Caller, limit int) ([]models.AuditEntry, error)
	ExportAuditForTarget(ctx context.Context, caller *Caller, targetID string) (*responses.AuditExport, error)
}
