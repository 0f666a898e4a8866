package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"ctad/internal/models"
	"ctad/internal/providers"
	"ctad/internal/repositories"
	"go.uber.org/atomic"
)

// StaticDataCacheInterface is the in-memory view of the store that the
// serving path reads. Initiate blocks until the first population
// succeeds; Refresh swaps the whole view atomically and keeps the
// previous one on failure. Readers never see a partially built view.
type StaticDataCacheInterface interface {
	Initiate(ctx context.Context) error
	Refresh(ctx context.Context)
	FindAllActiveCTA() map[int64]*models.CTA
	FindAllPausedCTA() map[int64]*models.CTA
	FindAllBehaviourTags() map[string]*models.BehaviourTag
	LastRefresh() time.Time
}

// MasterData is one immutable generation of cached static data. It is
// built off to the side and published with a single pointer swap, so
// maps inside it must never be mutated after publication.
type MasterData struct {
	ActiveCTAs    map[int64]*models.CTA
	PausedCTAs    map[int64]*models.CTA
	BehaviourTags map[string]*models.BehaviourTag
}

type StaticDataCache struct {
	ctaStore    repositories.CTAStoreInterface
	tagStore    repositories.BehaviourTagStoreInterface
	logger      providers.Logger
	metrics     providers.MetricsProviderInterface
	data        atomic.Pointer[MasterData]
	lastRefresh atomic.Time
	initiated   atomic.Bool
	inFlight    atomic.Bool
}

func NewStaticDataCache(
	ctaStore repositories.CTAStoreInterface,
	tagStore repositories.BehaviourTagStoreInterface,
	logger providers.Logger,
	metrics providers.MetricsProviderInterface,
) StaticDataCacheInterface {
	c := &StaticDataCache{
		ctaStore: ctaStore,
		tagStore: tagStore,
		logger:   logger,
		metrics:  metrics,
	}
	c.data.Store(&MasterData{
		ActiveCTAs:    map[int64]*models.CTA{},
		PausedCTAs:    map[int64]*models.CTA{},
		BehaviourTags: map[string]*models.BehaviourTag{},
	})
	return c
}

// Initiate populates the cache synchronously. It runs the load at most
// once; later calls return immediately.
func (c *StaticDataCache) Initiate(ctx context.Context) error {
	if !c.initiated.CompareAndSwap(false, true) {
		return nil
	}
	data, err := c.load(ctx)
	if err != nil {
		c.initiated.Store(false)
		return fmt.Errorf("initial cache load: %w", err)
	}
	c.publish(data)
	c.logger.Infof(providers.TypeApp, "Static data cache initiated: %d active, %d paused, %d tags",
		len(data.ActiveCTAs), len(data.PausedCTAs), len(data.BehaviourTags))
	return nil
}

// Refresh rebuilds the view. Overlapping refreshes collapse into one;
// on failure the previous view stays published and the failure is
// counted, never surfaced to serving traffic.
func (c *StaticDataCache) Refresh(ctx context.Context) {
	if !c.inFlight.CompareAndSwap(false, true) {
		c.logger.Debugf(providers.TypeApp, "Cache refresh already in flight, skipping")
		return
	}
	defer c.inFlight.Store(false)

	data, err := c.load(ctx)
	if err != nil {
		c.metrics.IncCacheRefreshFailures()
		c.logger.Errorf(providers.TypeApp, "Cache refresh failed, serving stale data: %v", err)
		return
	}
	c.publish(data)
	c.logger.Debugf(providers.TypeApp, "Cache refreshed: %d active, %d paused, %d tags",
		len(data.ActiveCTAs), len(data.PausedCTAs), len(data.BehaviourTags))
}

func (c *StaticDataCache) load(ctx context.Context) (*MasterData, error) {
	var (
		wg             sync.WaitGroup
		active, paused map[int64]*models.CTA
		tags           map[string]*models.BehaviourTag
		errActive      error
		errPaused      error
		errTags        error
	)

	wg.Add(3)
	go func() {
		defer wg.Done()
		active, errActive = c.ctaStore.FindAllByStatus(ctx, models.StatusLive)
	}()
	go func() {
		defer wg.Done()
		paused, errPaused = c.ctaStore.FindAllByStatus(ctx, models.StatusPaused)
	}()
	go func() {
		defer wg.Done()
		tags, errTags = c.tagStore.FindAll(ctx)
	}()
	wg.Wait()

	for _, err := range []error{errActive, errPaused, errTags} {
		if err != nil {
			return nil, err
		}
	}
	return &MasterData{ActiveCTAs: active, PausedCTAs: paused, BehaviourTags: tags}, nil
}

func (c *StaticDataCache) publish(data *MasterData) {
	now := time.Now()
	c.data.Store(data)
	c.lastRefresh.Store(now)
	c.metrics.SetCacheLastRefresh(now)
	c.metrics.SetCachedRecords("active_ctas", len(data.ActiveCTAs))
	c.metrics.SetCachedRecords("paused_ctas", len(data.PausedCTAs))
	c.metrics.SetCachedRecords("behaviour_tags", len(data.BehaviourTags))
}

func (c *StaticDataCache) FindAllActiveCTA() map[int64]*models.CTA {
	return c.data.Load().ActiveCTAs
}

func (c *StaticDataCache) FindAllPausedCTA() map[int64]*models.CTA {
	return c.data.Load().PausedCTAs
}

func (c *StaticDataCache) FindAllBehaviourTags() map[string]*models.BehaviourTag {
	return c.data.Load().BehaviourTags
}

// LastRefresh reports when the published view was last swapped. Zero
// until the first successful load.
func (c *StaticDataCache) LastRefresh() time.Time {
	return c.lastRefresh.Load()
}
