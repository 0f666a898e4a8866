package services

import (
	"bytes"
	"context"
	"fmt"
	"sort"
	"time"

	"ctad/internal/models"
	"ctad/internal/providers"
	"ctad/internal/repositories"
	json "github.com/goccy/go-json"
)

// ListFilter narrows an admin CTA listing. Zero values mean no
// constraint on that dimension.
type ListFilter struct {
	Status models.CTAStatus
	Name   string
	Tag    string
	Team   string
}

// CTAPage is one page of an admin listing plus the status-wise counts
// over the whole filtered set.
type CTAPage struct {
	Ctas         []*models.CTA            `json:"ctas"`
	Total        int                      `json:"total"`
	Page         int                      `json:"page"`
	PageSize     int                      `json:"pageSize"`
	StatusCounts map[models.CTAStatus]int `json:"statusCounts"`
}

// AdminServiceInterface is the management surface for CTA records:
// creation, edits, listings and the per-tenant filter metadata that
// backs the duplicate-name check.
type AdminServiceInterface interface {
	CreateCTA(ctx context.Context, tenantID string, cta *models.CTA) (*models.CTA, error)
	UpdateCTA(ctx context.Context, tenantID string, cta *models.CTA) error
	GetCTA(ctx context.Context, tenantID string, id int64) (*models.CTA, error)
	ListCTAs(ctx context.Context, tenantID string, filter ListFilter, page, pageSize int) (*CTAPage, error)
	GetFilters(ctx context.Context, tenantID string) (*models.FilterMetadata, error)
}

type AdminService struct {
	store  repositories.CTAStoreInterface
	logger providers.Logger
	now    func() time.Time
}

func NewAdminService(store repositories.CTAStoreInterface, logger providers.Logger) AdminServiceInterface {
	return &AdminService{store: store, logger: logger, now: time.Now}
}

// CreateCTA registers a new record in DRAFT. Names are unique per
// tenant; the filter metadata is the authority for that check and is
// extended with the new name, tags and team on success.
func (a *AdminService) CreateCTA(ctx context.Context, tenantID string, cta *models.CTA) (*models.CTA, error) {
	filters, err := a.store.FindFilters(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	if filters.HasName(cta.Name) {
		return nil, fmt.Errorf("%w: %q", models.ErrDuplicateName, cta.Name)
	}

	id, err := a.store.NextID(ctx, tenantID)
	if err != nil {
		return nil, err
	}

	cta.ID = id
	cta.TenantID = tenantID
	cta.Status = models.StatusDraft
	cta.CreatedAt = a.now().UnixMilli()
	cta.LastUpdatedAt = cta.CreatedAt
	if cta.BehaviourTags == nil {
		cta.BehaviourTags = []string{}
	}

	if err := a.store.Create(ctx, tenantID, cta); err != nil {
		return nil, err
	}

	a.extendFilters(filters, cta)
	if err := a.store.UpdateFilters(ctx, tenantID, filters); err != nil {
		a.logger.Warnf(providers.TypeAdmin, "Filter metadata update failed for tenant %s: %v", tenantID, err)
	}

	a.logger.Infof(providers.TypeAdmin, "Created CTA %d (%s) for tenant %s", cta.ID, cta.Name, tenantID)
	return cta, nil
}

// UpdateCTA replaces the editable payload of a DRAFT or PAUSED record.
// Status and scheduling fields never change here; those go through the
// lifecycle transitions. A PAUSED record keeps its rule frozen since
// users already hold state machines built from it.
func (a *AdminService) UpdateCTA(ctx context.Context, tenantID string, cta *models.CTA) error {
	current, err := a.store.Find(ctx, tenantID, cta.ID)
	if err != nil {
		return err
	}
	if current.Status != models.StatusDraft && current.Status != models.StatusPaused {
		return fmt.Errorf("%w: CTA %d is %s", models.ErrUpdateNotAllowed, cta.ID, current.Status)
	}
	if current.Status == models.StatusPaused && !sameRule(current.Rule, cta.Rule) {
		return fmt.Errorf("%w: rule of paused CTA %d cannot change", models.ErrUpdateNotAllowed, cta.ID)
	}

	filters, err := a.store.FindFilters(ctx, tenantID)
	if err != nil {
		return err
	}
	if cta.Name != current.Name && filters.HasName(cta.Name) {
		return fmt.Errorf("%w: %q", models.ErrDuplicateName, cta.Name)
	}

	cta.TenantID = tenantID
	cta.Status = current.Status
	cta.StartTime = current.StartTime
	cta.EndTime = current.EndTime
	cta.CreatedAt = current.CreatedAt
	cta.CreatedBy = current.CreatedBy
	cta.LastUpdatedAt = a.now().UnixMilli()
	if cta.BehaviourTags == nil {
		cta.BehaviourTags = current.BehaviourTags
	}

	if err := a.store.UpdateFull(ctx, cta, current.Generation); err != nil {
		return err
	}

	a.extendFilters(filters, cta)
	if err := a.store.UpdateFilters(ctx, tenantID, filters); err != nil {
		a.logger.Warnf(providers.TypeAdmin, "Filter metadata update failed for tenant %s: %v", tenantID, err)
	}
	return nil
}

func (a *AdminService) GetCTA(ctx context.Context, tenantID string, id int64) (*models.CTA, error) {
	return a.store.Find(ctx, tenantID, id)
}

// ListCTAs filters the tenant's records, counts statuses over the
// filtered set and returns one page ordered by id. Page numbers start
// at 1.
func (a *AdminService) ListCTAs(ctx context.Context, tenantID string, filter ListFilter, page, pageSize int) (*CTAPage, error) {
	all, err := a.store.FindAllByTenant(ctx, tenantID)
	if err != nil {
		return nil, err
	}

	matched := make([]*models.CTA, 0, len(all))
	counts := make(map[models.CTAStatus]int)
	for _, cta := range all {
		if !matchesFilter(cta, filter) {
			continue
		}
		matched = append(matched, cta)
		counts[cta.Status]++
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].ID < matched[j].ID })

	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 20
	}
	start := (page - 1) * pageSize
	if start > len(matched) {
		start = len(matched)
	}
	end := min(start+pageSize, len(matched))

	return &CTAPage{
		Ctas:         matched[start:end],
		Total:        len(matched),
		Page:         page,
		PageSize:     pageSize,
		StatusCounts: counts,
	}, nil
}

func (a *AdminService) GetFilters(ctx context.Context, tenantID string) (*models.FilterMetadata, error) {
	return a.store.FindFilters(ctx, tenantID)
}

func matchesFilter(cta *models.CTA, filter ListFilter) bool {
	if filter.Status != "" && cta.Status != filter.Status {
		return false
	}
	if filter.Name != "" && cta.Name != filter.Name {
		return false
	}
	if filter.Team != "" && cta.Team != filter.Team {
		return false
	}
	if filter.Tag != "" {
		found := false
		for _, t := range cta.Tags {
			if t == filter.Tag {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

func (a *AdminService) extendFilters(filters *models.FilterMetadata, cta *models.CTA) {
	if !filters.HasName(cta.Name) {
		filters.Names = append(filters.Names, cta.Name)
	}
	for _, tag := range cta.Tags {
		if !containsString(filters.Tags, tag) {
			filters.Tags = append(filters.Tags, tag)
		}
	}
	if cta.Team != "" && !containsString(filters.Teams, cta.Team) {
		filters.Teams = append(filters.Teams, cta.Team)
	}
}

func sameRule(a, b *models.Rule) bool {
	if a == nil || b == nil {
		return a == b
	}
	left, err := json.Marshal(a)
	if err != nil {
		return false
	}
	right, err := json.Marshal(b)
	if err != nil {
		return false
	}
	return bytes.Equal(left, right)
}

func containsString(haystack []string, needle string) bool {
	for _, s := range haystack {
		if s == needle {
			return true
		}
	}
	return false
}
