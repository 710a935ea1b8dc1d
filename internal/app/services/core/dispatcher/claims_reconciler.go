package dispatcher

import (
	"context"
	"fmt"
	"onboarding-service/internal/app/config"
	"onboarding-service/internal/app/contracts"
	"onboarding-service/internal/app/models"
	"onboarding-service/internal/app/services/shared/metrics"
	"onboarding-service/internal/pkg/constvars"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// ClaimsReconciler republishes capability tokens for records whose claimsVersion trails
// their version, closing gaps left by lost events or exhausted retries.
type ClaimsReconciler struct {
	log                *zap.Logger
	cfg                *config.InternalConfig
	locker             contracts.LockerService
	profileRepository  contracts.ProfileRepository
	claimsSynchronizer contracts.ClaimsSynchronizer
	limiter            *rate.Limiter
	now                models.Clock
}

func NewClaimsReconciler(
	log *zap.Logger,
	cfg *config.InternalConfig,
	locker contracts.LockerService,
	profileRepository contracts.ProfileRepository,
	claimsSynchronizer contracts.ClaimsSynchronizer,
) *ClaimsReconciler {
	ratePerSecond := cfg.Reconciler.RatePerSecond
	if ratePerSecond <= 0 {
		ratePerSecond = 10
	}
	return &ClaimsReconciler{
		log:                log,
		cfg:                cfg,
		locker:             locker,
		profileRepository:  profileRepository,
		claimsSynchronizer: claimsSynchronizer,
		limiter:            rate.NewLimiter(rate.Limit(ratePerSecond), 1),
		now:                models.UTCNow,
	}
}

// Start schedules RunOnce on the configured cron spec, or every IntervalInSeconds
// when no spec is set. The returned function waits for a running batch to finish.
func (r *ClaimsReconciler) Start(ctx context.Context) (stop func()) {
	runCtx, cancel := context.WithCancel(ctx)

	interval := time.Duration(r.cfg.Reconciler.IntervalInSeconds) * time.Second
	if interval <= 0 {
		interval = time.Minute
	}
	fallbackSpec := fmt.Sprintf("@every %s", interval)

	spec := r.cfg.Reconciler.CronSpec
	if spec == "" {
		spec = fallbackSpec
	}

	c := cron.New()
	if _, err := c.AddFunc(spec, func() { r.RunOnce(runCtx) }); err != nil {
		r.log.Warn("claims reconciler: invalid cron spec, falling back to interval",
			zap.String("cron_spec", spec),
			zap.Error(err),
		)
		c = cron.New()
		spec = fallbackSpec
		_, _ = c.AddFunc(spec, func() { r.RunOnce(runCtx) })
	}
	c.Start()

	r.log.Info("claims reconciler started", zap.String("cron_spec", spec))

	return func() {
		cancel()
		<-c.Stop().Done()
	}
}

// RunOnce repairs one batch while holding the cluster-wide reconciler lock.
// It returns the number of profiles whose token was republished.
func (r *ClaimsReconciler) RunOnce(ctx context.Context) int {
	lockTTL := time.Duration(r.cfg.Reconciler.LockExpiryInSeconds) * time.Second
	acquired, lockValue, err := r.locker.TryLock(ctx, constvars.RedisKeyReconcilerLock, lockTTL)
	if err != nil {
		r.log.Error("claims reconciler lock attempt failed", zap.Error(err))
		return 0
	}
	if !acquired {
		r.log.Info("claims reconciler lock not acquired; another instance is running")
		return 0
	}
	defer func() {
		if err := r.locker.Unlock(ctx, constvars.RedisKeyReconcilerLock, lockValue); err != nil {
			r.log.Error("claims reconciler unlock failed", zap.Error(err))
		}
	}()

	gracePeriod := time.Duration(r.cfg.Reconciler.GracePeriodInSeconds) * time.Second
	lagging, err := r.profileRepository.FindClaimsLagging(ctx, r.now().Add(-gracePeriod), r.cfg.Reconciler.BatchSize)
	if err != nil {
		r.log.Error("claims reconciler error calling profileRepository.FindClaimsLagging", zap.Error(err))
		return 0
	}

	repaired := 0
	for i := range lagging {
		profile := &lagging[i]
		if err := r.limiter.Wait(ctx); err != nil {
			return repaired
		}
		if err := r.claimsSynchronizer.Sync(ctx, profile.ID, profile.Projection()); err != nil {
			r.log.Warn("claims reconciler sync failed",
				zap.String(constvars.LoggingTargetIDKey, profile.ID),
				zap.Error(err),
			)
			continue
		}
		if err := r.profileRepository.MarkClaimsSynced(ctx, profile.ID, profile.Version); err != nil {
			r.log.Warn("claims reconciler error calling profileRepository.MarkClaimsSynced",
				zap.String(constvars.LoggingTargetIDKey, profile.ID),
				zap.Error(err),
			)
			continue
		}
		repaired++
		metrics.ReconcilerRepairedTotal.Inc()
	}

	if len(lagging) > 0 {
		r.log.Info("claims reconciler batch finished",
			zap.Int("lagging", len(lagging)),
			zap.Int("repaired", repaired),
		)
	}
	return repaired
}
