package contracts

import (
	"context"
	"onboarding-service/internal/app/models"
	"time"
)

type AuditRepository interface {
	Insert(ctx context.Context, entry *models.AuditEntry) error
	// InsertOnce inserts entry unless an entry with the same dedup key already exists.
	InsertOnce(ctx context.Context, entry *models.AuditEntry) (inserted bool, err error)
	FindByTarget(ctx context.Context, targetID string, limit int) ([]models.AuditEntry, error)
	FindRecent(ctx context.Context, limit int) ([]models.AuditEntry, error)
	CountByActionSince(ctx context.Context, since time.Time) (map[string]int64, error)
}

// AuditLedger is append-only: no update or delete path is exposed.
type AuditLedger interface {
	Record(ctx context.Context, record *models.AuditRecord) (entryID string, err error)
	ListForTarget(ctx context.Context, targetID string) ([]models.AuditEntry, error)
	ListRecent(ctx context.Context, limit int) ([]models.AuditEntry, error)
	CountByActionSince(ctx context.Context, since time.Time) (map[string]int64, error)
}

type AuditArchive interface {
	ExportTargetTrail(ctx context.Context, targetID string, entries []models.AuditEntry) (url string, err error)
}
