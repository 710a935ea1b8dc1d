package admin

import (
	"context"
	"errors"
	"onboarding-service/internal/app/config"
	"onboarding-service/internal/app/contracts"
	"onboarding-service/internal/app/models"
	"onboarding-service/internal/app/services/shared/ratelimiter"
	"onboarding-service/internal/pkg/constvars"
	"sync"
	"time"

	"go.uber.org/zap"
)

var fixedNow = time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

type fakeProfileRepository struct {
	mu       sync.Mutex
	profiles map[string]*models.Profile
	// beforeUpdate runs once, ahead of the first conditional write.
	beforeUpdate func()
	updates      int
}

func newFakeProfileRepository(profiles ...*models.Profile) *fakeProfileRepository {
	repo := &fakeProfileRepository{profiles: map[string]*models.Profile{}}
	for _, p := range profiles {
		repo.profiles[p.ID] = p.Clone()
	}
	return repo
}

func (r *fakeProfileRepository) Create(ctx context.Context, profile *models.Profile) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.profiles[profile.ID] = profile.Clone()
	return nil
}

func (r *fakeProfileRepository) FindByID(ctx context.Context, profileID string) (*models.Profile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.profiles[profileID].Clone(), nil
}

func (r *fakeProfileRepository) UpdateIfVersion(ctx context.Context, profile *models.Profile, expectedVersion int64) (bool, error) {
	if hook := r.beforeUpdate; hook != nil {
		r.beforeUpdate = nil
		hook()
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.profiles[profile.ID]
	if !ok || stored.Version != expectedVersion {
		return false, nil
	}
	profile.Version = expectedVersion + 1
	r.profiles[profile.ID] = profile.Clone()
	r.updates++
	return true, nil
}

func (r *fakeProfileRepository) MarkClaimsSynced(ctx context.Context, profileID string, version int64) error {
	return nil
}

func (r *fakeProfileRepository) FindClaimsLagging(ctx context.Context, updatedBefore time.Time, limit int) ([]models.Profile, error) {
	return nil, nil
}

func (r *fakeProfileRepository) CountByStatus(ctx context.Context) (map[string]int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	counts := map[string]int64{}
	for _, p := range r.profiles {
		counts[p.Status]++
	}
	return counts, nil
}

func (r *fakeProfileRepository) CountByRole(ctx context.Context) (map[string]int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	counts := map[string]int64{}
	for _, p := range r.profiles {
		counts[p.Role]++
	}
	return counts, nil
}

func (r *fakeProfileRepository) CountCreatedSince(ctx context.Context, since time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var count int64
	for _, p := range r.profiles {
		if !p.CreatedAt.Before(since) {
			count++
		}
	}
	return count, nil
}

func (r *fakeProfileRepository) get(id string) *models.Profile {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.profiles[id].Clone()
}

type fakeAuditLedger struct {
	mu       sync.Mutex
	records  []*models.AuditRecord
	byAction map[string]int64
}

func (l *fakeAuditLedger) Record(ctx context.Context, record *models.AuditRecord) (string, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.records = append(l.records, record)
	return "entry", nil
}

func (l *fakeAuditLedger) ListForTarget(ctx context.Context, targetID string) ([]models.AuditEntry, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	var entries []models.AuditEntry
	for _, r := range l.records {
		if r.TargetID == targetID {
			entries = append(entries, models.AuditEntry{Action: r.Action, TargetID: r.TargetID})
		}
	}
	return entries, nil
}

func (l *fakeAuditLedger) ListRecent(ctx context.Context, limit int) ([]models.AuditEntry, error) {
	return nil, nil
}

func (l *fakeAuditLedger) CountByActionSince(ctx context.Context, since time.Time) (map[string]int64, error) {
	return l.byAction, nil
}

func (l *fakeAuditLedger) actions() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	actions := make([]string, 0, len(l.records))
	for _, r := range l.records {
		actions = append(actions, r.Action)
	}
	return actions
}

type fakePublisher struct {
	mu     sync.Mutex
	events []*models.ProfileEvent
	err    error
}

func (p *fakePublisher) Publish(ctx context.Context, event *models.ProfileEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
	return p.err
}

type fakeDispatcher struct {
	result  *contracts.CreationChainResult
	err     error
	profile *models.Profile
	action  string
}

func (d *fakeDispatcher) Dispatch(ctx context.Context, event *models.ProfileEvent) error {
	return nil
}

func (d *fakeDispatcher) RunCreationChain(ctx context.Context, eventID string, profile *models.Profile, actor, auditAction string) (*contracts.CreationChainResult, error) {
	d.profile = profile
	d.action = auditAction
	return d.result, d.err
}

type fakeLocker struct {
	held     map[string]bool
	unlocked []string
}

func (l *fakeLocker) TryLock(ctx context.Context, key string, expiration time.Duration) (bool, string, error) {
	if l.held[key] {
		return false, "", nil
	}
	return true, "lock-value", nil
}

func (l *fakeLocker) Unlock(ctx context.Context, key, lockValue string) error {
	l.unlocked = append(l.unlocked, key)
	return nil
}

type fakeLimiter struct {
	allowed bool
	calls   int
}

func (l *fakeLimiter) Allow(ctx context.Context, in *ratelimiter.AllowInput) (*ratelimiter.AllowOutput, error) {
	l.calls++
	if l.allowed {
		return &ratelimiter.AllowOutput{Allowed: true}, nil
	}
	return &ratelimiter.AllowOutput{Allowed: false, RetryAfter: time.Minute}, nil
}

type fakeArchive struct {
	entries int
	err     error
}

func (a *fakeArchive) ExportTargetTrail(ctx context.Context, targetID string, entries []models.AuditEntry) (string, error) {
	if a.err != nil {
		return "", a.err
	}
	a.entries = len(entries)
	return "https://archive.local/" + targetID, nil
}

type fixture struct {
	repo       *fakeProfileRepository
	ledger     *fakeAuditLedger
	publisher  *fakePublisher
	dispatcher *fakeDispatcher
	locker     *fakeLocker
	limiter    *fakeLimiter
	archive    *fakeArchive
	usecase    *adminUsecase
}

func newFixture(profiles ...*models.Profile) *fixture {
	f := &fixture{
		repo:      newFakeProfileRepository(profiles...),
		ledger:    &fakeAuditLedger{byAction: map[string]int64{}},
		publisher: &fakePublisher{},
		dispatcher: &fakeDispatcher{
			result: &contracts.CreationChainResult{ClaimsSynced: true, AuditEntryID: "retry-entry"},
		},
		locker:  &fakeLocker{held: map[string]bool{}},
		limiter: &fakeLimiter{allowed: true},
		archive: &fakeArchive{},
	}
	cfg := &config.InternalConfig{
		Onboarding: config.AppOnboarding{
			MutationMaxAttempts:     3,
			ReprocessLockTTLSeconds: 30,
			ReprocessQuotaPerHour:   5,
			StatsWindowInDays:       7,
		},
	}
	uc := NewAdminUsecase(Dependencies{
		ProfileRepository: f.repo,
		AuditLedger:       f.ledger,
		AuditArchive:      f.archive,
		EventPublisher:    f.publisher,
		EventDispatcher:   f.dispatcher,
		LockerService:     f.locker,
		ReprocessLimiter:  f.limiter,
		InternalConfig:    cfg,
		Log:               zap.NewNop(),
	}).(*adminUsecase)
	uc.Now = func() time.Time { return fixedNow }
	f.usecase = uc
	return f
}

func adminCaller() *contracts.Caller {
	return &contracts.Caller{
		Identity: "admin-1",
		Email:    "admin@example.com",
		Capability: &models.CapabilityToken{
			Role:   constvars.RoleAdmin,
			Status: constvars.StatusApproved,
		},
	}
}

func profileWithStatus(id, status string) *models.Profile {
	at := fixedNow.Add(-48 * time.Hour)
	p := &models.Profile{
		ID:         id,
		Role:       constvars.RoleDoctor,
		FullName:   "Dr. Ada",
		Email:      id + "@example.com",
		History:    []models.StatusHistoryEntry{},
		AdminNotes: []models.AdminNote{},
		Version:    1,
		TimeModel:  models.TimeModel{CreatedAt: at},
	}
	p.SetStatus(constvars.StatusPendingCall, constvars.SystemActor, nil, at)
	if status != constvars.StatusPendingCall {
		p.SetStatus(status, "admin-0", nil, at)
		p.Version = 2
	}
	return p
}

func strPtr(s string) *string {
	return &s
}

var errBoom = errors.New("boom")
