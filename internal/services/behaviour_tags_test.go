package services

import (
	"context"
	"testing"

	"ctad/internal/models"
	"ctad/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTagFixture() (*BehaviourTagService, *testutil.MemoryBehaviourTagStore, *testutil.MemoryCTAStore) {
	tagStore := testutil.NewMemoryBehaviourTagStore()
	ctaStore := testutil.NewMemoryCTAStore()
	svc := NewBehaviourTagService(tagStore, ctaStore, &testutil.MockLogger{}).(*BehaviourTagService)
	return svc, tagStore, ctaStore
}

func TestCreateTag_DuplicateRejected(t *testing.T) {
	svc, _, _ := newTagFixture()

	_, err := svc.Create(context.Background(), "t1", &models.BehaviourTag{Name: "power_user"})
	require.NoError(t, err)

	_, err = svc.Create(context.Background(), "t1", &models.BehaviourTag{Name: "power_user"})
	assert.ErrorIs(t, err, models.ErrDuplicateName)
}

func TestUpdateTag_KeepsLinks(t *testing.T) {
	svc, tagStore, _ := newTagFixture()
	tagStore.Seed(&models.BehaviourTag{Name: "power_user", TenantID: "t1", LinkedCtas: []string{"7"}})

	require.NoError(t, svc.Update(context.Background(), "t1", &models.BehaviourTag{Name: "power_user", Description: "updated"}))

	tag, err := svc.Get(context.Background(), "t1", "power_user")
	require.NoError(t, err)
	assert.Equal(t, "updated", tag.Description)
	assert.Equal(t, []string{"7"}, tag.LinkedCtas)
}

func TestLinkCTA_BothSidesUpdated(t *testing.T) {
	svc, tagStore, ctaStore := newTagFixture()
	tagStore.Seed(&models.BehaviourTag{Name: "power_user", TenantID: "t1"})
	ctaStore.Seed(&models.CTA{ID: 7, TenantID: "t1", Status: models.StatusDraft})

	require.NoError(t, svc.LinkCTA(context.Background(), "t1", "power_user", 7))

	tag, _ := svc.Get(context.Background(), "t1", "power_user")
	assert.Contains(t, tag.LinkedCtas, "7")
	cta, _ := ctaStore.Find(context.Background(), "t1", 7)
	assert.Contains(t, cta.BehaviourTags, "power_user")
}

func TestLinkCTA_RejectedWhenLive(t *testing.T) {
	svc, tagStore, ctaStore := newTagFixture()
	tagStore.Seed(&models.BehaviourTag{Name: "power_user", TenantID: "t1"})
	ctaStore.Seed(&models.CTA{ID: 7, TenantID: "t1", Status: models.StatusLive})

	err := svc.LinkCTA(context.Background(), "t1", "power_user", 7)
	assert.ErrorIs(t, err, models.ErrUpdateNotAllowed)
}

func TestLinkCTA_Idempotent(t *testing.T) {
	svc, tagStore, ctaStore := newTagFixture()
	tagStore.Seed(&models.BehaviourTag{Name: "power_user", TenantID: "t1"})
	ctaStore.Seed(&models.CTA{ID: 7, TenantID: "t1", Status: models.StatusPaused})

	require.NoError(t, svc.LinkCTA(context.Background(), "t1", "power_user", 7))
	require.NoError(t, svc.LinkCTA(context.Background(), "t1", "power_user", 7))

	tag, _ := svc.Get(context.Background(), "t1", "power_user")
	assert.Equal(t, []string{"7"}, tag.LinkedCtas)
}

func TestUnlinkCTA_RemovesBothSides(t *testing.T) {
	svc, tagStore, ctaStore := newTagFixture()
	tagStore.Seed(&models.BehaviourTag{Name: "power_user", TenantID: "t1", LinkedCtas: []string{"7"}})
	ctaStore.Seed(&models.CTA{ID: 7, TenantID: "t1", Status: models.StatusDraft, BehaviourTags: []string{"power_user"}})

	require.NoError(t, svc.UnlinkCTA(context.Background(), "t1", "power_user", 7))

	tag, _ := svc.Get(context.Background(), "t1", "power_user")
	assert.Empty(t, tag.LinkedCtas)
	cta, _ := ctaStore.Find(context.Background(), "t1", 7)
	assert.Empty(t, cta.BehaviourTags)
}

func TestLinkCTA_MissingTag(t *testing.T) {
	svc, _, ctaStore := newTagFixture()
	ctaStore.Seed(&models.CTA{ID: 7, TenantID: "t1", Status: models.StatusDraft})

	err := svc.LinkCTA(context.Background(), "t1", "missing", 7)
	assert.ErrorIs(t, err, models.ErrNotFound)
}
