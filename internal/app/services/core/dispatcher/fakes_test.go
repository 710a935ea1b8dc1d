package dispatcher

import (
	"context"
	"onboarding-service/internal/app/config"
	"onboarding-service/internal/app/contracts"
	"onboarding-service/internal/app/models"
	"onboarding-service/internal/app/services/shared/eventqueue"
	"onboarding-service/internal/pkg/constvars"
	"sync"
	"time"
)

type fakeClaimsSynchronizer struct {
	mu     sync.Mutex
	tokens map[string]models.CapabilityToken
	calls  int
	err    error
}

func (s *fakeClaimsSynchronizer) Sync(ctx context.Context, identity string, token models.CapabilityToken) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	if s.err != nil {
		return s.err
	}
	if s.tokens == nil {
		s.tokens = map[string]models.CapabilityToken{}
	}
	s.tokens[identity] = token
	return nil
}

// fakeProfileRepository only serves the claims bookkeeping used by the dispatcher.
type fakeProfileRepository struct {
	contracts.ProfileRepository
	mu            sync.Mutex
	claimsVersion map[string]int64
	lagging       []models.Profile
}

func (r *fakeProfileRepository) MarkClaimsSynced(ctx context.Context, profileID string, version int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.claimsVersion == nil {
		r.claimsVersion = map[string]int64{}
	}
	if version > r.claimsVersion[profileID] {
		r.claimsVersion[profileID] = version
	}
	return nil
}

func (r *fakeProfileRepository) FindClaimsLagging(ctx context.Context, updatedBefore time.Time, limit int) ([]models.Profile, error) {
	var lagging []models.Profile
	for _, p := range r.lagging {
		if p.ClaimsVersion < p.Version && p.UpdatedAt.Before(updatedBefore) {
			lagging = append(lagging, p)
		}
	}
	if limit > 0 && len(lagging) > limit {
		lagging = lagging[:limit]
	}
	return lagging, nil
}

type fakeNotifier struct {
	mu      sync.Mutex
	sent    []*contracts.NotificationIntent
	failFor map[string]error
}

func (n *fakeNotifier) Send(ctx context.Context, intent *contracts.NotificationIntent) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	if err := n.failFor[intent.TemplateKind]; err != nil {
		return err
	}
	n.sent = append(n.sent, intent)
	return nil
}

func (n *fakeNotifier) kinds() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	kinds := make([]string, 0, len(n.sent))
	for _, intent := range n.sent {
		kinds = append(kinds, intent.TemplateKind+":"+intent.Recipient)
	}
	return kinds
}

type fakeAuditLedger struct {
	mu      sync.Mutex
	records []*models.AuditRecord
	seen    map[string]bool
	err     error
}

func (l *fakeAuditLedger) Record(ctx context.Context, record *models.AuditRecord) (string, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.err != nil {
		return "", l.err
	}
	if l.seen == nil {
		l.seen = map[string]bool{}
	}
	if record.DedupKey != "" && l.seen[record.DedupKey] {
		return "", nil
	}
	l.seen[record.DedupKey] = true
	l.records = append(l.records, record)
	return "entry-" + record.Action, nil
}

func (l *fakeAuditLedger) ListForTarget(ctx context.Context, targetID string) ([]models.AuditEntry, error) {
	return nil, nil
}

func (l *fakeAuditLedger) ListRecent(ctx context.Context, limit int) ([]models.AuditEntry, error) {
	return nil, nil
}

func (l *fakeAuditLedger) CountByActionSince(ctx context.Context, since time.Time) (map[string]int64, error) {
	return nil, nil
}

type fakeEventQueue struct {
	mu         sync.Mutex
	deliveries chan eventqueue.QueuedEvent
	acked      []uint64
	nacked     []uint64
	reenqueued []*models.ProfileEvent
	dead       []*models.ProfileEvent
	reErr      error
}

func (q *fakeEventQueue) Consume(ctx context.Context, consumerTag string) (<-chan eventqueue.QueuedEvent, error) {
	return q.deliveries, nil
}

func (q *fakeEventQueue) Ack(ctx context.Context, deliveryTag uint64) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.acked = append(q.acked, deliveryTag)
	return nil
}

func (q *fakeEventQueue) Nack(ctx context.Context, deliveryTag uint64) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.nacked = append(q.nacked, deliveryTag)
	return nil
}

func (q *fakeEventQueue) Reenqueue(ctx context.Context, event *models.ProfileEvent) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.reErr != nil {
		return q.reErr
	}
	q.reenqueued = append(q.reenqueued, event)
	return nil
}

func (q *fakeEventQueue) EnqueueToDeadQueue(ctx context.Context, event *models.ProfileEvent) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.dead = append(q.dead, event)
	return nil
}

type stubDispatcher struct {
	err    error
	mu     sync.Mutex
	events []*models.ProfileEvent
}

func (d *stubDispatcher) Dispatch(ctx context.Context, event *models.ProfileEvent) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.events = append(d.events, event)
	return d.err
}

func (d *stubDispatcher) RunCreationChain(ctx context.Context, eventID string, profile *models.Profile, actor, auditAction string) (*contracts.CreationChainResult, error) {
	return &contracts.CreationChainResult{}, nil
}

type fakeLocker struct {
	held bool
}

func (l *fakeLocker) TryLock(ctx context.Context, key string, expiration time.Duration) (bool, string, error) {
	if l.held {
		return false, "", nil
	}
	return true, "v", nil
}

func (l *fakeLocker) Unlock(ctx context.Context, key, lockValue string) error {
	return nil
}

func testConfig() *config.InternalConfig {
	return &config.InternalConfig{
		Dispatcher: config.AppDispatcher{
			Workers:               2,
			MaxRetry:              3,
			RetryDelayInSeconds:   0,
			ReactionTimeoutInSecs: 5,
		},
		Notification: config.AppNotification{
			AdminRecipients: []string{"ops@example.com", "lead@example.com"},
			PortalBaseUrl:   "https://portal.example.com",
		},
		Reconciler: config.AppReconciler{
			GracePeriodInSeconds: 60,
			BatchSize:            10,
			RatePerSecond:        1000,
			LockExpiryInSeconds:  30,
		},
	}
}

func pendingProfile(id string) *models.Profile {
	at := time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC)
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
	p.SetStatus(constvars.StatusPendingCall, id, nil, at)
	return p
}

func transitioned(p *models.Profile, status string) *models.Profile {
	next := p.Clone()
	next.SetStatus(status, "admin-1", nil, p.UpdatedAt.Add(time.Hour))
	next.Version = p.Version + 1
	if status == constvars.StatusRejected {
		reason := "missing license"
		next.RejectionReason = &reason
	}
	return next
}
