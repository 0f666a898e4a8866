package internal

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"ctad/internal/controllers"
	"ctad/internal/models"
	"ctad/internal/providers"
	"ctad/internal/services"
	"ctad/internal/structures"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// --- minimal mocks for routes test ---

type routeTestLogger struct{}

func (m *routeTestLogger) Errorf(_ providers.TypeEnum, _ string, _ ...interface{}) {}
func (m *routeTestLogger) Warnf(_ providers.TypeEnum, _ string, _ ...interface{})  {}
func (m *routeTestLogger) Debugf(_ providers.TypeEnum, _ string, _ ...interface{}) {}
func (m *routeTestLogger) Infof(_ providers.TypeEnum, _ string, _ ...interface{})  {}
func (m *routeTestLogger) Fatalf(_ providers.TypeEnum, _ string, _ ...interface{}) {}
func (m *routeTestLogger) Close()                                                  {}

type routeTestServing struct{}

func (m *routeTestServing) AppLaunch(_ context.Context, _, _ string, _ []string, _ *models.DeltaSnapshot) (*models.CTAResponse, error) {
	return &models.CTAResponse{}, nil
}
func (m *routeTestServing) Merge(_ context.Context, _, _ string, _ *models.DeltaSnapshot) error {
	return nil
}

type routeTestAdmin struct{}

func (m *routeTestAdmin) CreateCTA(_ context.Context, _ string, cta *models.CTA) (*models.CTA, error) {
	return cta, nil
}
func (m *routeTestAdmin) UpdateCTA(_ context.Context, _ string, _ *models.CTA) error { return nil }
func (m *routeTestAdmin) GetCTA(_ context.Context, _ string, _ int64) (*models.CTA, error) {
	return &models.CTA{}, nil
}
func (m *routeTestAdmin) ListCTAs(_ context.Context, _ string, _ services.ListFilter, _, _ int) (*services.CTAPage, error) {
	return &services.CTAPage{}, nil
}
func (m *routeTestAdmin) GetFilters(_ context.Context, _ string) (*models.FilterMetadata, error) {
	return &models.FilterMetadata{}, nil
}

type routeTestLifecycle struct{}

func (m *routeTestLifecycle) ToLive(_ context.Context, _ string, _ int64) error   { return nil }
func (m *routeTestLifecycle) ToPaused(_ context.Context, _ string, _ int64) error { return nil }
func (m *routeTestLifecycle) ToScheduled(_ context.Context, _ string, _, _ int64, _ *int64) error {
	return nil
}
func (m *routeTestLifecycle) ToConcluded(_ context.Context, _ string, _ int64) error  { return nil }
func (m *routeTestLifecycle) ToTerminated(_ context.Context, _ string, _ int64) error { return nil }
func (m *routeTestLifecycle) ActivateScheduled(_ context.Context)                     {}
func (m *routeTestLifecycle) ExpireActive(_ context.Context)                          {}

type routeTestTags struct{}

func (m *routeTestTags) Create(_ context.Context, _ string, tag *models.BehaviourTag) (*models.BehaviourTag, error) {
	return tag, nil
}
func (m *routeTestTags) Update(_ context.Context, _ string, _ *models.BehaviourTag) error {
	return nil
}
func (m *routeTestTags) Get(_ context.Context, _, _ string) (*models.BehaviourTag, error) {
	return &models.BehaviourTag{}, nil
}
func (m *routeTestTags) List(_ context.Context, _ string) ([]*models.BehaviourTag, error) {
	return nil, nil
}
func (m *routeTestTags) LinkCTA(_ context.Context, _, _ string, _ int64) error   { return nil }
func (m *routeTestTags) UnlinkCTA(_ context.Context, _, _ string, _ int64) error { return nil }

func testRouter() providers.RouterProviderInterface {
	logger := &routeTestLogger{}
	sdk := controllers.NewSdkController(logger, &routeTestServing{})
	admin := controllers.NewAdminController(logger, &routeTestAdmin{}, &routeTestLifecycle{}, &routeTestTags{})
	return InitRoutes(sdk, admin, &structures.Config{})
}

func TestInitRoutes_RegistersAllRoutes(t *testing.T) {
	routes := testRouter().GetRoutes()

	require.Len(t, routes, 18)

	urls := make([]string, len(routes))
	for i, r := range routes {
		urls[i] = r.Url
	}

	assert.Contains(t, urls, "/sdk/app-launch")
	assert.Contains(t, urls, "/sdk/merge")
	assert.Contains(t, urls, "/admin/cta")
	assert.Contains(t, urls, "/admin/cta/get")
	assert.Contains(t, urls, "/admin/cta/list")
	assert.Contains(t, urls, "/admin/cta/filters")
	assert.Contains(t, urls, "/admin/cta/live")
	assert.Contains(t, urls, "/admin/cta/pause")
	assert.Contains(t, urls, "/admin/cta/schedule")
	assert.Contains(t, urls, "/admin/cta/conclude")
	assert.Contains(t, urls, "/admin/cta/terminate")
	assert.Contains(t, urls, "/admin/tag")
	assert.Contains(t, urls, "/admin/tag/list")
	assert.Contains(t, urls, "/admin/tag/link")
	assert.Contains(t, urls, "/admin/tag/unlink")
}

func TestInitRoutes_MethodEnforcement(t *testing.T) {
	routes := testRouter().GetRoutes()

	mux := http.NewServeMux()
	for _, r := range routes {
		mux.Handle(r.Url, r.Handler)
	}

	// POST-only route rejects GET
	req := httptest.NewRequest(http.MethodGet, "/sdk/app-launch", nil)
	rr := httptest.NewRecorder()
	mux.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusMethodNotAllowed, rr.Code)

	// GET-only route rejects POST
	req = httptest.NewRequest(http.MethodPost, "/admin/cta/list", nil)
	rr = httptest.NewRecorder()
	mux.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusMethodNotAllowed, rr.Code)
}
