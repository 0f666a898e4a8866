package services

import (
	"context"
	"fmt"
	"time"

	"ctad/internal/models"
	"ctad/internal/providers"
	"ctad/internal/repositories"
)

// BehaviourTagServiceInterface manages behaviour-tag definitions and
// their links to CTAs. Links only move while the CTA sits in DRAFT or
// PAUSED so live traffic never sees a tag set change mid-flight.
type BehaviourTagServiceInterface interface {
	Create(ctx context.Context, tenantID string, tag *models.BehaviourTag) (*models.BehaviourTag, error)
	Update(ctx context.Context, tenantID string, tag *models.BehaviourTag) error
	Get(ctx context.Context, tenantID, name string) (*models.BehaviourTag, error)
	List(ctx context.Context, tenantID string) ([]*models.BehaviourTag, error)
	LinkCTA(ctx context.Context, tenantID, name string, ctaID int64) error
	UnlinkCTA(ctx context.Context, tenantID, name string, ctaID int64) error
}

type BehaviourTagService struct {
	tags   repositories.BehaviourTagStoreInterface
	ctas   repositories.CTAStoreInterface
	logger providers.Logger
	now    func() time.Time
}

func NewBehaviourTagService(tags repositories.BehaviourTagStoreInterface, ctas repositories.CTAStoreInterface, logger providers.Logger) BehaviourTagServiceInterface {
	return &BehaviourTagService{tags: tags, ctas: ctas, logger: logger, now: time.Now}
}

func (b *BehaviourTagService) Create(ctx context.Context, tenantID string, tag *models.BehaviourTag) (*models.BehaviourTag, error) {
	if _, err := b.tags.Find(ctx, tenantID, tag.Name); err == nil {
		return nil, fmt.Errorf("%w: %q", models.ErrDuplicateName, tag.Name)
	} else if err != models.ErrNotFound {
		return nil, err
	}

	tag.TenantID = tenantID
	tag.CreatedAt = b.now().UnixMilli()
	tag.LastUpdatedAt = tag.CreatedAt
	if tag.LinkedCtas == nil {
		tag.LinkedCtas = []string{}
	}

	if err := b.tags.Create(ctx, tag); err != nil {
		return nil, err
	}
	b.logger.Infof(providers.TypeAdmin, "Created behaviour tag %s for tenant %s", tag.Name, tenantID)
	return tag, nil
}

// Update replaces the tag's definition; the linked-CTA list is managed
// through LinkCTA/UnlinkCTA and survives the update unchanged.
func (b *BehaviourTagService) Update(ctx context.Context, tenantID string, tag *models.BehaviourTag) error {
	current, err := b.tags.Find(ctx, tenantID, tag.Name)
	if err != nil {
		return err
	}

	tag.TenantID = tenantID
	tag.CreatedAt = current.CreatedAt
	tag.CreatedBy = current.CreatedBy
	tag.LinkedCtas = current.LinkedCtas
	tag.LastUpdatedAt = b.now().UnixMilli()

	return b.tags.Update(ctx, tag)
}

func (b *BehaviourTagService) Get(ctx context.Context, tenantID, name string) (*models.BehaviourTag, error) {
	return b.tags.Find(ctx, tenantID, name)
}

func (b *BehaviourTagService) List(ctx context.Context, tenantID string) ([]*models.BehaviourTag, error) {
	all, err := b.tags.FindAllByTenant(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	out := make([]*models.BehaviourTag, 0, len(all))
	for _, tag := range all {
		out = append(out, tag)
	}
	return out, nil
}

func (b *BehaviourTagService) LinkCTA(ctx context.Context, tenantID, name string, ctaID int64) error {
	tag, cta, err := b.pair(ctx, tenantID, name, ctaID)
	if err != nil {
		return err
	}

	ctaKey := fmt.Sprintf("%d", ctaID)
	if !containsString(tag.LinkedCtas, ctaKey) {
		tag.LinkedCtas = append(tag.LinkedCtas, ctaKey)
		tag.LastUpdatedAt = b.now().UnixMilli()
		if err := b.tags.Update(ctx, tag); err != nil {
			return err
		}
	}

	if !containsString(cta.BehaviourTags, name) {
		linked := append(append([]string{}, cta.BehaviourTags...), name)
		return b.ctas.UpdateBehaviourTagLinks(ctx, tenantID, ctaID, linked)
	}
	return nil
}

func (b *BehaviourTagService) UnlinkCTA(ctx context.Context, tenantID, name string, ctaID int64) error {
	tag, cta, err := b.pair(ctx, tenantID, name, ctaID)
	if err != nil {
		return err
	}

	ctaKey := fmt.Sprintf("%d", ctaID)
	if containsString(tag.LinkedCtas, ctaKey) {
		tag.LinkedCtas = removeString(tag.LinkedCtas, ctaKey)
		tag.LastUpdatedAt = b.now().UnixMilli()
		if err := b.tags.Update(ctx, tag); err != nil {
			return err
		}
	}

	if containsString(cta.BehaviourTags, name) {
		return b.ctas.UpdateBehaviourTagLinks(ctx, tenantID, ctaID, removeString(cta.BehaviourTags, name))
	}
	return nil
}

// pair loads both sides of a link and enforces the editable-status
// rule on the CTA.
func (b *BehaviourTagService) pair(ctx context.Context, tenantID, name string, ctaID int64) (*models.BehaviourTag, *models.CTA, error) {
	tag, err := b.tags.Find(ctx, tenantID, name)
	if err != nil {
		return nil, nil, err
	}
	cta, err := b.ctas.Find(ctx, tenantID, ctaID)
	if err != nil {
		return nil, nil, err
	}
	if cta.Status != models.StatusDraft && cta.Status != models.StatusPaused {
		return nil, nil, fmt.Errorf("%w: CTA %d is %s", models.ErrUpdateNotAllowed, ctaID, cta.Status)
	}
	return tag, cta, nil
}

func removeString(list []string, target string) []string {
	out := make([]string, 0, len(list))
	for _, s := range list {
		if s != target {
			out = append(out, s)
		}
	}
	return out
}
