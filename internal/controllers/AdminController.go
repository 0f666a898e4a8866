package controllers

import (
	"errors"
	json "github.com/goccy/go-json"
	"net/http"
	"strconv"

	"ctad/internal/models"
	"ctad/internal/providers"
	"ctad/internal/services"
)

// AdminController is the management surface: CTA CRUD, the five status
// transitions and behaviour-tag administration. Record identity comes
// from the tenant and id query parameters.
type AdminController struct {
	logger    providers.Logger
	admin     services.AdminServiceInterface
	lifecycle services.LifecycleServiceInterface
	tags      services.BehaviourTagServiceInterface
}

func NewAdminController(logger providers.Logger, admin services.AdminServiceInterface, lifecycle services.LifecycleServiceInterface, tags services.BehaviourTagServiceInterface) *AdminController {
	return &AdminController{
		logger:    logger,
		admin:     admin,
		lifecycle: lifecycle,
		tags:      tags,
	}
}

func tenantParam(r *http.Request) string {
	return r.URL.Query().Get("tenant")
}

func idParam(r *http.Request) (int64, error) {
	return strconv.ParseInt(r.URL.Query().Get("id"), 10, 64)
}

func (ac *AdminController) writeJSON(w http.ResponseWriter, status int, v any) {
	gson, err := json.Marshal(v)
	if err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(gson)
}

// writeError maps the service error taxonomy onto HTTP statuses.
func (ac *AdminController) writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, models.ErrNotFound):
		http.Error(w, "Not Found", http.StatusNotFound)
	case errors.Is(err, models.ErrDuplicateName),
		errors.Is(err, models.ErrInvalidStatusTransition),
		errors.Is(err, models.ErrConcurrencyConflict),
		errors.Is(err, models.ErrUpdateNotAllowed):
		http.Error(w, err.Error(), http.StatusConflict)
	case errors.Is(err, models.ErrInvalidScheduling):
		http.Error(w, err.Error(), http.StatusBadRequest)
	default:
		ac.logger.Errorf(providers.TypeAdmin, "Admin request failed: %v", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
	}
}

func (ac *AdminController) CreateCTA(w http.ResponseWriter, r *http.Request) {
	tenant := tenantParam(r)
	if tenant == "" {
		http.Error(w, "tenant is required", http.StatusBadRequest)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBodySize)
	var cta models.CTA
	if err := json.NewDecoder(r.Body).Decode(&cta); err != nil {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}
	if cta.Name == "" {
		http.Error(w, "name is required", http.StatusBadRequest)
		return
	}

	created, err := ac.admin.CreateCTA(r.Context(), tenant, &cta)
	if err != nil {
		ac.writeError(w, err)
		return
	}
	ac.writeJSON(w, http.StatusCreated, created)
}

func (ac *AdminController) UpdateCTA(w http.ResponseWriter, r *http.Request) {
	tenant := tenantParam(r)
	id, err := idParam(r)
	if tenant == "" || err != nil {
		http.Error(w, "tenant and id are required", http.StatusBadRequest)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBodySize)
	var cta models.CTA
	if err := json.NewDecoder(r.Body).Decode(&cta); err != nil {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}
	cta.ID = id

	if err := ac.admin.UpdateCTA(r.Context(), tenant, &cta); err != nil {
		ac.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (ac *AdminController) GetCTA(w http.ResponseWriter, r *http.Request) {
	tenant := tenantParam(r)
	id, err := idParam(r)
	if tenant == "" || err != nil {
		http.Error(w, "tenant and id are required", http.StatusBadRequest)
		return
	}

	cta, err := ac.admin.GetCTA(r.Context(), tenant, id)
	if err != nil {
		ac.writeError(w, err)
		return
	}
	ac.writeJSON(w, http.StatusOK, cta)
}

func (ac *AdminController) ListCTAs(w http.ResponseWriter, r *http.Request) {
	tenant := tenantParam(r)
	if tenant == "" {
		http.Error(w, "tenant is required", http.StatusBadRequest)
		return
	}

	q := r.URL.Query()
	filter := services.ListFilter{
		Status: models.CTAStatus(q.Get("status")),
		Name:   q.Get("name"),
		Tag:    q.Get("tag"),
		Team:   q.Get("team"),
	}
	if filter.Status != "" && !filter.Status.Valid() {
		http.Error(w, "invalid status", http.StatusBadRequest)
		return
	}
	page, _ := strconv.Atoi(q.Get("page"))
	pageSize, _ := strconv.Atoi(q.Get("pageSize"))

	result, err := ac.admin.ListCTAs(r.Context(), tenant, filter, page, pageSize)
	if err != nil {
		ac.writeError(w, err)
		return
	}
	ac.writeJSON(w, http.StatusOK, result)
}

func (ac *AdminController) GetFilters(w http.ResponseWriter, r *http.Request) {
	tenant := tenantParam(r)
	if tenant == "" {
		http.Error(w, "tenant is required", http.StatusBadRequest)
		return
	}

	filters, err := ac.admin.GetFilters(r.Context(), tenant)
	if err != nil {
		ac.writeError(w, err)
		return
	}
	ac.writeJSON(w, http.StatusOK, filters)
}

func (ac *AdminController) transition(w http.ResponseWriter, r *http.Request, run func(tenant string, id int64) error) {
	tenant := tenantParam(r)
	id, err := idParam(r)
	if tenant == "" || err != nil {
		http.Error(w, "tenant and id are required", http.StatusBadRequest)
		return
	}

	if err := run(tenant, id); err != nil {
		ac.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (ac *AdminController) Live(w http.ResponseWriter, r *http.Request) {
	ac.transition(w, r, func(tenant string, id int64) error {
		return ac.lifecycle.ToLive(r.Context(), tenant, id)
	})
}

func (ac *AdminController) Pause(w http.ResponseWriter, r *http.Request) {
	ac.transition(w, r, func(tenant string, id int64) error {
		return ac.lifecycle.ToPaused(r.Context(), tenant, id)
	})
}

func (ac *AdminController) Schedule(w http.ResponseWriter, r *http.Request) {
	tenant := tenantParam(r)
	id, err := idParam(r)
	if tenant == "" || err != nil {
		http.Error(w, "tenant and id are required", http.StatusBadRequest)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBodySize)
	var payload struct {
		StartTime *int64 `json:"startTime"`
		EndTime   *int64 `json:"endTime,omitempty"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil || payload.StartTime == nil {
		http.Error(w, "startTime is required", http.StatusBadRequest)
		return
	}

	if err := ac.lifecycle.ToScheduled(r.Context(), tenant, id, *payload.StartTime, payload.EndTime); err != nil {
		ac.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (ac *AdminController) Conclude(w http.ResponseWriter, r *http.Request) {
	ac.transition(w, r, func(tenant string, id int64) error {
		return ac.lifecycle.ToConcluded(r.Context(), tenant, id)
	})
}

func (ac *AdminController) Terminate(w http.ResponseWriter, r *http.Request) {
	ac.transition(w, r, func(tenant string, id int64) error {
		return ac.lifecycle.ToTerminated(r.Context(), tenant, id)
	})
}

func (ac *AdminController) CreateTag(w http.ResponseWriter, r *http.Request) {
	tenant := tenantParam(r)
	if tenant == "" {
		http.Error(w, "tenant is required", http.StatusBadRequest)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBodySize)
	var tag models.BehaviourTag
	if err := json.NewDecoder(r.Body).Decode(&tag); err != nil || tag.Name == "" {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}

	created, err := ac.tags.Create(r.Context(), tenant, &tag)
	if err != nil {
		ac.writeError(w, err)
		return
	}
	ac.writeJSON(w, http.StatusCreated, created)
}

func (ac *AdminController) UpdateTag(w http.ResponseWriter, r *http.Request) {
	tenant := tenantParam(r)
	if tenant == "" {
		http.Error(w, "tenant is required", http.StatusBadRequest)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBodySize)
	var tag models.BehaviourTag
	if err := json.NewDecoder(r.Body).Decode(&tag); err != nil || tag.Name == "" {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}

	if err := ac.tags.Update(r.Context(), tenant, &tag); err != nil {
		ac.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (ac *AdminController) GetTag(w http.ResponseWriter, r *http.Request) {
	tenant := tenantParam(r)
	name := r.URL.Query().Get("name")
	if tenant == "" || name == "" {
		http.Error(w, "tenant and name are required", http.StatusBadRequest)
		return
	}

	tag, err := ac.tags.Get(r.Context(), tenant, name)
	if err != nil {
		ac.writeError(w, err)
		return
	}
	ac.writeJSON(w, http.StatusOK, tag)
}

func (ac *AdminController) ListTags(w http.ResponseWriter, r *http.Request) {
	tenant := tenantParam(r)
	if tenant == "" {
		http.Error(w, "tenant is required", http.StatusBadRequest)
		return
	}

	tags, err := ac.tags.List(r.Context(), tenant)
	if err != nil {
		ac.writeError(w, err)
		return
	}
	ac.writeJSON(w, http.StatusOK, tags)
}

func (ac *AdminController) tagLink(w http.ResponseWriter, r *http.Request, run func(tenant, name string, ctaID int64) error) {
	tenant := tenantParam(r)
	name := r.URL.Query().Get("name")
	ctaID, err := strconv.ParseInt(r.URL.Query().Get("ctaId"), 10, 64)
	if tenant == "" || name == "" || err != nil {
		http.Error(w, "tenant, name and ctaId are required", http.StatusBadRequest)
		return
	}

	if err := run(tenant, name, ctaID); err != nil {
		ac.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (ac *AdminController) LinkTag(w http.ResponseWriter, r *http.Request) {
	ac.tagLink(w, r, func(tenant, name string, ctaID int64) error {
		return ac.tags.LinkCTA(r.Context(), tenant, name, ctaID)
	})
}

func (ac *AdminController) UnlinkTag(w http.ResponseWriter, r *http.Request) {
	ac.tagLink(w, r, func(tenant, name string, ctaID int64) error {
		return ac.tags.UnlinkCTA(r.Context(), tenant, name, ctaID)
	})
}
