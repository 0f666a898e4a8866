package providers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("ok"))
	})
}

func TestRouterProvider_CollectsRoutes(t *testing.T) {
	rp := NewRouterProvider()
	rp.Get("/admin/cta/list", okHandler())
	rp.Post("/sdk/app-launch", okHandler())
	rp.Get("/admin/cta/filters", okHandler())

	routes := rp.GetRoutes()
	require.Len(t, routes, 3)
	assert.Equal(t, "/admin/cta/list", routes[0].Url)
	assert.Equal(t, "/sdk/app-launch", routes[1].Url)
	assert.Equal(t, "/admin/cta/filters", routes[2].Url)
}

func TestMethodHandler(t *testing.T) {
	handler := methodHandler(http.MethodGet, okHandler())

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/test", nil))
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "ok", rr.Body.String())

	rr = httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/test", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, rr.Code)
}

func TestRouterProvider_GuardsRegisteredMethod(t *testing.T) {
	rp := NewRouterProvider()
	rp.Get("/admin/cta/list", okHandler())
	rp.Post("/sdk/merge", okHandler())
	routes := rp.GetRoutes()

	rr := httptest.NewRecorder()
	routes[0].Handler.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/admin/cta/list", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, rr.Code)

	rr = httptest.NewRecorder()
	routes[1].Handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/sdk/merge", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, rr.Code)

	rr = httptest.NewRecorder()
	routes[1].Handler.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/sdk/merge", nil))
	assert.Equal(t, http.StatusOK, rr.Code)
}
