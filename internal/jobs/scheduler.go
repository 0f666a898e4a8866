package jobs

import (
	"context"
	"sync"

	"ctad/internal/providers"
	"ctad/internal/services"
	"ctad/internal/structures"
	"github.com/roylee0704/gron"
)

type SchedulerInterface interface {
	Init()
	Stop()
}

// Scheduler owns the two background loops: the static-data cache
// refresh and the lifecycle sweeps. opsMu keeps the sweep pair from
// overlapping with itself when a run outlasts the interval.
type Scheduler struct {
	config    *structures.Config
	logger    providers.Logger
	cache     services.StaticDataCacheInterface
	lifecycle services.LifecycleServiceInterface
	cron      *gron.Cron
	opsMu     sync.Mutex
}

func (s *Scheduler) Init() {
	s.cron = gron.New()

	s.cron.AddFunc(gron.Every(s.config.StaticData.RefreshInterval), func() {
		s.cache.Refresh(context.Background())
	})

	s.cron.AddFunc(gron.Every(s.config.Sweep.Interval), func() {
		s.opsMu.Lock()
		defer s.opsMu.Unlock()

		ctx := context.Background()
		s.logger.Debugf(providers.TypeSweep, "Running lifecycle sweeps...")
		s.lifecycle.ActivateScheduled(ctx)
		s.lifecycle.ExpireActive(ctx)
	})

	s.cron.Start()
	s.logger.Infof(providers.TypeApp, "Scheduler started: cache refresh every %s, sweeps every %s",
		s.config.StaticData.RefreshInterval, s.config.Sweep.Interval)
}

func (s *Scheduler) Stop() {
	if s.cron != nil {
		s.cron.Stop()
	}
}

func NewScheduler(config *structures.Config, logger providers.Logger, cache services.StaticDataCacheInterface, lifecycle services.LifecycleServiceInterface) SchedulerInterface {
	return &Scheduler{
		config:    config,
		logger:    logger,
		cache:     cache,
		lifecycle: lifecycle,
	}
}
