package controllers

import (
	"context"
	"time"

	"ctad/internal/models"
	"ctad/internal/services"
)

type mockServing struct {
	appLaunchResp *models.CTAResponse
	appLaunchErr  error
	mergeErr      error
	lastTenant    string
	lastUser      string
	lastCohorts   []string
	lastDelta     *models.DeltaSnapshot
}

func (m *mockServing) AppLaunch(_ context.Context, tenantID, userID string, cohorts []string, delta *models.DeltaSnapshot) (*models.CTAResponse, error) {
	m.lastCohorts = cohorts
	m.lastTenant, m.lastUser, m.lastDelta = tenantID, userID, delta
	if m.appLaunchErr != nil {
		return nil, m.appLaunchErr
	}
	if m.appLaunchResp != nil {
		return m.appLaunchResp, nil
	}
	return &models.CTAResponse{Ctas: []*models.CTAView{}, BehaviourTags: []*models.BehaviourTagSnapshot{}}, nil
}

func (m *mockServing) Merge(_ context.Context, tenantID, userID string, delta *models.DeltaSnapshot) error {
	m.lastTenant, m.lastUser, m.lastDelta = tenantID, userID, delta
	return m.mergeErr
}

type mockAdmin struct {
	createResp *models.CTA
	createErr  error
	updateErr  error
	getResp    *models.CTA
	getErr     error
	listResp   *services.CTAPage
	listErr    error
	filters    *models.FilterMetadata
	filtersErr error
	lastFilter services.ListFilter
	lastPage   int
	lastSize   int
}

func (m *mockAdmin) CreateCTA(_ context.Context, _ string, cta *models.CTA) (*models.CTA, error) {
	if m.createErr != nil {
		return nil, m.createErr
	}
	if m.createResp != nil {
		return m.createResp, nil
	}
	return cta, nil
}

func (m *mockAdmin) UpdateCTA(_ context.Context, _ string, _ *models.CTA) error {
	return m.updateErr
}

func (m *mockAdmin) GetCTA(_ context.Context, _ string, _ int64) (*models.CTA, error) {
	return m.getResp, m.getErr
}

func (m *mockAdmin) ListCTAs(_ context.Context, _ string, filter services.ListFilter, page, pageSize int) (*services.CTAPage, error) {
	m.lastFilter, m.lastPage, m.lastSize = filter, page, pageSize
	return m.listResp, m.listErr
}

func (m *mockAdmin) GetFilters(_ context.Context, _ string) (*models.FilterMetadata, error) {
	return m.filters, m.filtersErr
}

type transitionCall struct {
	op     string
	tenant string
	id     int64
}

type mockLifecycle struct {
	err   error
	calls []transitionCall
}

func (m *mockLifecycle) record(op, tenant string, id int64) error {
	m.calls = append(m.calls, transitionCall{op: op, tenant: tenant, id: id})
	return m.err
}

func (m *mockLifecycle) ToLive(_ context.Context, tenant string, id int64) error {
	return m.record("live", tenant, id)
}
func (m *mockLifecycle) ToPaused(_ context.Context, tenant string, id int64) error {
	return m.record("pause", tenant, id)
}
func (m *mockLifecycle) ToScheduled(_ context.Context, tenant string, id, _ int64, _ *int64) error {
	return m.record("schedule", tenant, id)
}
func (m *mockLifecycle) ToConcluded(_ context.Context, tenant string, id int64) error {
	return m.record("conclude", tenant, id)
}
func (m *mockLifecycle) ToTerminated(_ context.Context, tenant string, id int64) error {
	return m.record("terminate", tenant, id)
}
func (m *mockLifecycle) ActivateScheduled(_ context.Context) {}
func (m *mockLifecycle) ExpireActive(_ context.Context)     {}

type mockTags struct {
	createErr error
	updateErr error
	getResp   *models.BehaviourTag
	getErr    error
	listResp  []*models.BehaviourTag
	listErr   error
	linkErr   error
	unlinkErr error
}

func (m *mockTags) Create(_ context.Context, _ string, tag *models.BehaviourTag) (*models.BehaviourTag, error) {
	if m.createErr != nil {
		return nil, m.createErr
	}
	return tag, nil
}
func (m *mockTags) Update(_ context.Context, _ string, _ *models.BehaviourTag) error {
	return m.updateErr
}
func (m *mockTags) Get(_ context.Context, _, _ string) (*models.BehaviourTag, error) {
	return m.getResp, m.getErr
}
func (m *mockTags) List(_ context.Context, _ string) ([]*models.BehaviourTag, error) {
	return m.listResp, m.listErr
}
func (m *mockTags) LinkCTA(_ context.Context, _, _ string, _ int64) error {
	return m.linkErr
}
func (m *mockTags) UnlinkCTA(_ context.Context, _, _ string, _ int64) error {
	return m.unlinkErr
}

type mockCache struct {
	active      map[int64]*models.CTA
	paused      map[int64]*models.CTA
	tags        map[string]*models.BehaviourTag
	lastRefresh time.Time
}

func (m *mockCache) Initiate(_ context.Context) error { return nil }
func (m *mockCache) Refresh(_ context.Context)        {}
func (m *mockCache) FindAllActiveCTA() map[int64]*models.CTA {
	return m.active
}
func (m *mockCache) FindAllPausedCTA() map[int64]*models.CTA {
	return m.paused
}
func (m *mockCache) FindAllBehaviourTags() map[string]*models.BehaviourTag {
	return m.tags
}
func (m *mockCache) LastRefresh() time.Time { return m.lastRefresh }
