package repositories

import (
	"context"
	"fmt"
	"strings"

	"ctad/internal/models"
	json "github.com/goccy/go-json"
	"github.com/redis/go-redis/v9"
)

type BehaviourTagStoreInterface interface {
	Create(ctx context.Context, tag *models.BehaviourTag) error
	Update(ctx context.Context, tag *models.BehaviourTag) error
	Find(ctx context.Context, tenantID, name string) (*models.BehaviourTag, error)
	FindAll(ctx context.Context) (map[string]*models.BehaviourTag, error)
	FindAllByTenant(ctx context.Context, tenantID string) (map[string]*models.BehaviourTag, error)
}

// BehaviourTagStore keeps one JSON record per tag at tag:{tenant}:{name}
// plus a global index set tag:index with "{tenant}:{name}" members so
// the cache refresh can list every tag in one sweep.
type BehaviourTagStore struct {
	client *redis.Client
}

func NewBehaviourTagStore(client *redis.Client) BehaviourTagStoreInterface {
	return &BehaviourTagStore{client: client}
}

func tagKey(tenantID, name string) string {
	return "tag:" + tenantID + ":" + name
}

func (s *BehaviourTagStore) Create(ctx context.Context, tag *models.BehaviourTag) error {
	data, err := json.Marshal(tag)
	if err != nil {
		return err
	}

	pipe := s.client.TxPipeline()
	pipe.Set(ctx, tagKey(tag.TenantID, tag.Name), data, 0)
	pipe.SAdd(ctx, "tag:index", tag.TenantID+":"+tag.Name)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("create tag %s: %w", tag.Name, err)
	}
	return nil
}

func (s *BehaviourTagStore) Update(ctx context.Context, tag *models.BehaviourTag) error {
	data, err := json.Marshal(tag)
	if err != nil {
		return err
	}
	if err := s.client.Set(ctx, tagKey(tag.TenantID, tag.Name), data, 0).Err(); err != nil {
		return fmt.Errorf("update tag %s: %w", tag.Name, err)
	}
	return nil
}

func (s *BehaviourTagStore) Find(ctx context.Context, tenantID, name string) (*models.BehaviourTag, error) {
	raw, err := s.client.Get(ctx, tagKey(tenantID, name)).Bytes()
	if err == redis.Nil {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find tag %s: %w", name, err)
	}

	var tag models.BehaviourTag
	if err := json.Unmarshal(raw, &tag); err != nil {
		return nil, fmt.Errorf("decode tag %s: %w", name, err)
	}
	return &tag, nil
}

func (s *BehaviourTagStore) FindAll(ctx context.Context) (map[string]*models.BehaviourTag, error) {
	members, err := s.client.SMembers(ctx, "tag:index").Result()
	if err != nil {
		return nil, fmt.Errorf("list tags: %w", err)
	}

	out := make(map[string]*models.BehaviourTag, len(members))
	for _, member := range members {
		tenantID, name, ok := strings.Cut(member, ":")
		if !ok {
			continue
		}
		tag, err := s.Find(ctx, tenantID, name)
		if err == models.ErrNotFound {
			continue
		}
		if err != nil {
			return nil, err
		}
		out[name] = tag
	}
	return out, nil
}

func (s *BehaviourTagStore) FindAllByTenant(ctx context.Context, tenantID string) (map[string]*models.BehaviourTag, error) {
	all, err := s.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	out := make(map[string]*models.BehaviourTag, len(all))
	for name, tag := range all {
		if tag.TenantID == tenantID {
			out[name] = tag
		}
	}
	return out, nil
}
