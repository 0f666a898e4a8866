package services

import (
	"context"
	"strconv"
	"time"

	"ctad/internal/models"
	"ctad/internal/providers"
	"ctad/internal/repositories"
)

// ServingServiceInterface is the SDK-facing surface: AppLaunch syncs a
// user's snapshot and returns their eligible CTAs, Merge folds a delta
// in without computing eligibility.
type ServingServiceInterface interface {
	AppLaunch(ctx context.Context, tenantID, userID string, cohorts []string, delta *models.DeltaSnapshot) (*models.CTAResponse, error)
	Merge(ctx context.Context, tenantID, userID string, delta *models.DeltaSnapshot) error
}

type ServingService struct {
	cache     StaticDataCacheInterface
	cohorts   CohortClientInterface
	snapshots repositories.SnapshotRepositoryInterface
	logger    providers.Logger
	metrics   providers.MetricsProviderInterface
	now       func() time.Time
}

func NewServingService(
	cache StaticDataCacheInterface,
	cohorts CohortClientInterface,
	snapshots repositories.SnapshotRepositoryInterface,
	logger providers.Logger,
	metrics providers.MetricsProviderInterface,
) ServingServiceInterface {
	return &ServingService{
		cache:     cache,
		cohorts:   cohorts,
		snapshots: snapshots,
		logger:    logger,
		metrics:   metrics,
		now:       time.Now,
	}
}

// AppLaunch filters the cached live CTAs down to the eligible set,
// archives stale snapshot data, merges the delta and answers with each
// eligible CTA zipped to the user's progress. Cohorts come from the
// request when the client resolved them already; otherwise the cohort
// service is asked. When nothing is eligible the snapshot is left
// untouched.
func (s *ServingService) AppLaunch(ctx context.Context, tenantID, userID string, cohorts []string, delta *models.DeltaSnapshot) (*models.CTAResponse, error) {
	if len(cohorts) == 0 {
		cohorts = s.cohorts.CohortsForUser(ctx, tenantID, userID)
	}

	active := filterTenant(s.cache.FindAllActiveCTA(), tenantID)
	eligible := FilterEligibleCTAs(active, cohorts)
	s.metrics.ObserveEligibleCTAs(len(eligible))

	if len(eligible) == 0 {
		return &models.CTAResponse{Ctas: []*models.CTAView{}, BehaviourTags: []*models.BehaviourTagSnapshot{}}, nil
	}

	snapshot, err := s.snapshots.Find(ctx, tenantID, userID)
	if err != nil {
		return nil, err
	}
	if snapshot == nil {
		snapshot = models.NewUserStateSnapshot()
	}

	paused := filterTenant(s.cache.FindAllPausedCTA(), tenantID)
	changed := ArchiveStaleData(active, paused, snapshot, s.now().UnixMilli())

	if !DeltaIsEmpty(delta) {
		if err := MergeDeltaSnapshot(snapshot, delta); err != nil {
			return nil, err
		}
		s.metrics.IncSnapshotMerges()
		changed = true
	}

	if changed {
		if err := s.snapshots.Upsert(ctx, tenantID, userID, snapshot); err != nil {
			return nil, err
		}
		s.metrics.IncSnapshotUpserts()
	}

	return s.buildResponse(eligible, snapshot), nil
}

// Merge folds a delta into the snapshot without eligibility work. An
// empty delta is a no-op.
func (s *ServingService) Merge(ctx context.Context, tenantID, userID string, delta *models.DeltaSnapshot) error {
	if DeltaIsEmpty(delta) {
		return nil
	}

	snapshot, err := s.snapshots.Find(ctx, tenantID, userID)
	if err != nil {
		return err
	}
	if snapshot == nil {
		snapshot = models.NewUserStateSnapshot()
	}

	if err := MergeDeltaSnapshot(snapshot, delta); err != nil {
		return err
	}
	s.metrics.IncSnapshotMerges()

	if err := s.snapshots.Upsert(ctx, tenantID, userID, snapshot); err != nil {
		return err
	}
	s.metrics.IncSnapshotUpserts()
	return nil
}

func (s *ServingService) buildResponse(eligible []*models.CTA, snapshot *models.UserStateSnapshot) *models.CTAResponse {
	resp := &models.CTAResponse{
		Ctas:          make([]*models.CTAView, 0, len(eligible)),
		BehaviourTags: []*models.BehaviourTagSnapshot{},
	}
	tagDefs := s.cache.FindAllBehaviourTags()
	seenTags := make(map[string]struct{})

	for _, cta := range eligible {
		view := &models.CTAView{
			CtaID:               strconv.FormatInt(cta.ID, 10),
			Rule:                cta.Rule,
			ActiveStateMachines: map[string]*models.StateMachine{},
			ResetAt:             []int64{},
			ActionDoneAt:        []int64{},
			BehaviourTag:        cta.FirstBehaviourTag(),
		}
		if entry, ok := snapshot.StateMachines[cta.ID]; ok {
			if entry.ActiveStateMachines != nil {
				view.ActiveStateMachines = entry.ActiveStateMachines
			}
			if entry.ResetAt != nil {
				view.ResetAt = entry.ResetAt
			}
			if entry.ActionDoneAt != nil {
				view.ActionDoneAt = entry.ActionDoneAt
			}
		}
		resp.Ctas = append(resp.Ctas, view)

		// Only the first linked tag travels with the response, the
		// same tag the view advertises.
		if tagName := cta.FirstBehaviourTag(); tagName != "" {
			if _, ok := seenTags[tagName]; !ok {
				seenTags[tagName] = struct{}{}
				resp.BehaviourTags = append(resp.BehaviourTags, tagSnapshot(tagName, snapshot, tagDefs))
			}
		}
	}
	return resp
}

// tagSnapshot prefers the user's stored tag progress; otherwise a fresh
// snapshot is seeded from the tag's static definition.
func tagSnapshot(name string, snapshot *models.UserStateSnapshot, defs map[string]*models.BehaviourTag) *models.BehaviourTagSnapshot {
	if stored, ok := snapshot.BehaviourTags[name]; ok {
		return stored
	}

	out := &models.BehaviourTagSnapshot{BehaviourTagName: name}
	def, ok := defs[name]
	if !ok {
		return out
	}
	if def.ExposureRule != nil {
		out.ExposureRule = &models.BehaviourExposureRule{
			Session:     def.ExposureRule.Session,
			Window:      def.ExposureRule.Window,
			Lifespan:    def.ExposureRule.Lifespan,
			CtasResetAt: []int64{},
		}
	}
	if def.CTARelation != nil {
		out.CTARelation = &models.CTARelationSnapshot{
			ShownCta:   def.CTARelation.ShownCta,
			HideCta:    def.CTARelation.HideCta,
			ActiveCtas: []string{},
		}
	}
	return out
}

func filterTenant(all map[int64]*models.CTA, tenantID string) map[int64]*models.CTA {
	out := make(map[int64]*models.CTA, len(all))
	for id, cta := range all {
		if cta.TenantID == tenantID {
			out[id] = cta
		}
	}
	return out
}
