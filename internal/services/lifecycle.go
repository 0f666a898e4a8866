package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"ctad/internal/models"
	"ctad/internal/providers"
	"ctad/internal/repositories"
)

// Default runway for a CTA taken live without an explicit end time.
const defaultLiveRunway = 3 * 365 * 24 * time.Hour

// LifecycleServiceInterface moves CTAs through their status machine.
// Every transition is generation-checked: a stale generation fails with
// models.ErrConcurrencyConflict and the caller retries with a fresh
// read. The sweeps run the time-driven transitions in bulk; conflicts
// there are logged and skipped since the next sweep picks them up.
type LifecycleServiceInterface interface {
	ToLive(ctx context.Context, tenantID string, id int64) error
	ToPaused(ctx context.Context, tenantID string, id int64) error
	ToScheduled(ctx context.Context, tenantID string, id int64, startTime int64, endTime *int64) error
	ToConcluded(ctx context.Context, tenantID string, id int64) error
	ToTerminated(ctx context.Context, tenantID string, id int64) error
	ActivateScheduled(ctx context.Context)
	ExpireActive(ctx context.Context)
}

type LifecycleService struct {
	store   repositories.CTAStoreInterface
	logger  providers.Logger
	metrics providers.MetricsProviderInterface
	now     func() time.Time
}

func NewLifecycleService(store repositories.CTAStoreInterface, logger providers.Logger, metrics providers.MetricsProviderInterface) LifecycleServiceInterface {
	return &LifecycleService{
		store:   store,
		logger:  logger,
		metrics: metrics,
		now:     time.Now,
	}
}

// allowedSources is the status machine: which current statuses each
// target may be reached from.
var allowedSources = map[models.CTAStatus][]models.CTAStatus{
	models.StatusLive:       {models.StatusDraft, models.StatusPaused},
	models.StatusPaused:     {models.StatusLive, models.StatusScheduled},
	models.StatusScheduled:  {models.StatusDraft, models.StatusPaused},
	models.StatusConcluded:  {models.StatusLive, models.StatusPaused},
	models.StatusTerminated: {models.StatusDraft, models.StatusLive, models.StatusPaused},
}

func transitionAllowed(from, to models.CTAStatus) bool {
	for _, s := range allowedSources[to] {
		if s == from {
			return true
		}
	}
	return false
}

func (l *LifecycleService) ToLive(ctx context.Context, tenantID string, id int64) error {
	cta, err := l.guard(ctx, tenantID, id, models.StatusLive)
	if err != nil {
		return err
	}

	nowMs := l.now().UnixMilli()
	startTime := nowMs
	endTime := cta.EndTime
	if endTime == nil {
		e := l.now().Add(defaultLiveRunway).UnixMilli()
		endTime = &e
	}
	return l.store.UpdateStatus(ctx, tenantID, id, cta.Generation, models.StatusLive, &startTime, endTime)
}

func (l *LifecycleService) ToPaused(ctx context.Context, tenantID string, id int64) error {
	cta, err := l.guard(ctx, tenantID, id, models.StatusPaused)
	if err != nil {
		return err
	}
	return l.store.UpdateStatus(ctx, tenantID, id, cta.Generation, models.StatusPaused, nil, nil)
}

// ToScheduled requires a start time in the future; past start times
// fail rather than going live on the next sweep by surprise.
func (l *LifecycleService) ToScheduled(ctx context.Context, tenantID string, id int64, startTime int64, endTime *int64) error {
	cta, err := l.guard(ctx, tenantID, id, models.StatusScheduled)
	if err != nil {
		return err
	}
	if startTime < l.now().UnixMilli() {
		return fmt.Errorf("%w: startTime %d is in the past", models.ErrInvalidScheduling, startTime)
	}
	return l.store.UpdateStatus(ctx, tenantID, id, cta.Generation, models.StatusScheduled, &startTime, endTime)
}

func (l *LifecycleService) ToConcluded(ctx context.Context, tenantID string, id int64) error {
	cta, err := l.guard(ctx, tenantID, id, models.StatusConcluded)
	if err != nil {
		return err
	}
	nowMs := l.now().UnixMilli()
	return l.store.UpdateStatus(ctx, tenantID, id, cta.Generation, models.StatusConcluded, nil, &nowMs)
}

func (l *LifecycleService) ToTerminated(ctx context.Context, tenantID string, id int64) error {
	cta, err := l.guard(ctx, tenantID, id, models.StatusTerminated)
	if err != nil {
		return err
	}
	nowMs := l.now().UnixMilli()
	return l.store.UpdateStatus(ctx, tenantID, id, cta.Generation, models.StatusTerminated, nil, &nowMs)
}

func (l *LifecycleService) guard(ctx context.Context, tenantID string, id int64, target models.CTAStatus) (*models.CTA, error) {
	cta, err := l.store.Find(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	if !transitionAllowed(cta.Status, target) {
		return nil, fmt.Errorf("%w: %s -> %s", models.ErrInvalidStatusTransition, cta.Status, target)
	}
	return cta, nil
}

// ActivateScheduled takes every SCHEDULED CTA whose start time passed
// live. Generation conflicts mean an admin touched the record between
// the read and the write; those are skipped, not retried.
func (l *LifecycleService) ActivateScheduled(ctx context.Context) {
	scheduled, err := l.store.FindAllByStatus(ctx, models.StatusScheduled)
	if err != nil {
		l.logger.Errorf(providers.TypeSweep, "Activate sweep: listing scheduled CTAs failed: %v", err)
		return
	}

	nowMs := l.now().UnixMilli()
	for _, cta := range scheduled {
		if cta.StartTime == nil || *cta.StartTime >= nowMs {
			continue
		}
		endTime := cta.EndTime
		if endTime == nil {
			e := l.now().Add(defaultLiveRunway).UnixMilli()
			endTime = &e
		}
		err := l.store.UpdateStatus(ctx, cta.TenantID, cta.ID, cta.Generation, models.StatusLive, cta.StartTime, endTime)
		switch {
		case errors.Is(err, models.ErrConcurrencyConflict):
			l.metrics.IncSweepConflicts("activate")
			l.logger.Warnf(providers.TypeSweep, "Activate sweep: CTA %d changed concurrently, skipping", cta.ID)
		case err != nil:
			l.logger.Errorf(providers.TypeSweep, "Activate sweep: CTA %d: %v", cta.ID, err)
		default:
			l.metrics.IncSweepTransitions("activate")
			l.logger.Infof(providers.TypeSweep, "Activate sweep: CTA %d is now LIVE", cta.ID)
		}
	}
}

// ExpireActive concludes every LIVE or PAUSED CTA whose end time
// passed.
func (l *LifecycleService) ExpireActive(ctx context.Context) {
	for _, status := range []models.CTAStatus{models.StatusLive, models.StatusPaused} {
		ctas, err := l.store.FindAllByStatus(ctx, status)
		if err != nil {
			l.logger.Errorf(providers.TypeSweep, "Expire sweep: listing %s CTAs failed: %v", status, err)
			continue
		}

		nowMs := l.now().UnixMilli()
		for _, cta := range ctas {
			if cta.EndTime == nil || *cta.EndTime >= nowMs {
				continue
			}
			err := l.store.UpdateStatus(ctx, cta.TenantID, cta.ID, cta.Generation, models.StatusConcluded, nil, cta.EndTime)
			switch {
			case errors.Is(err, models.ErrConcurrencyConflict):
				l.metrics.IncSweepConflicts("expire")
				l.logger.Warnf(providers.TypeSweep, "Expire sweep: CTA %d changed concurrently, skipping", cta.ID)
			case err != nil:
				l.logger.Errorf(providers.TypeSweep, "Expire sweep: CTA %d: %v", cta.ID, err)
			default:
				l.metrics.IncSweepTransitions("expire")
				l.logger.Infof(providers.TypeSweep, "Expire sweep: CTA %d concluded", cta.ID)
			}
		}
	}
}
