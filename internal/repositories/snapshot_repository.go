package repositories

import (
	"context"
	"fmt"

	"ctad/internal/models"
	json "github.com/goccy/go-json"
	"github.com/redis/go-redis/v9"
)

// SnapshotRepositoryInterface persists per-user state snapshots. Find
// returns (nil, nil) when no snapshot exists for the user; callers
// treat that as an empty snapshot.
type SnapshotRepositoryInterface interface {
	Find(ctx context.Context, tenantID, userID string) (*models.UserStateSnapshot, error)
	Upsert(ctx context.Context, tenantID, userID string, snapshot *models.UserStateSnapshot) error
}

// SnapshotRepository stores one zstd-compressed JSON blob per user at
// snapshot:{tenant}:{user}.
type SnapshotRepository struct {
	client     *redis.Client
	compressor CompressorInterface
}

func NewSnapshotRepository(client *redis.Client, compressor CompressorInterface) SnapshotRepositoryInterface {
	return &SnapshotRepository{client: client, compressor: compressor}
}

func snapshotKey(tenantID, userID string) string {
	return "snapshot:" + tenantID + ":" + userID
}

func (r *SnapshotRepository) Find(ctx context.Context, tenantID, userID string) (*models.UserStateSnapshot, error) {
	raw, err := r.client.Get(ctx, snapshotKey(tenantID, userID)).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find snapshot for %s: %w", userID, err)
	}

	data, err := r.compressor.Decompress(raw)
	if err != nil {
		return nil, fmt.Errorf("decompress snapshot for %s: %w", userID, err)
	}

	var snapshot models.UserStateSnapshot
	if err := json.Unmarshal(data, &snapshot); err != nil {
		return nil, fmt.Errorf("decode snapshot for %s: %w", userID, err)
	}
	if snapshot.StateMachines == nil {
		snapshot.StateMachines = make(map[int64]*models.StateMachineSnapshot)
	}
	if snapshot.BehaviourTags == nil {
		snapshot.BehaviourTags = make(map[string]*models.BehaviourTagSnapshot)
	}
	return &snapshot, nil
}

func (r *SnapshotRepository) Upsert(ctx context.Context, tenantID, userID string, snapshot *models.UserStateSnapshot) error {
	data, err := json.Marshal(snapshot)
	if err != nil {
		return fmt.Errorf("encode snapshot for %s: %w", userID, err)
	}

	compressed, err := r.compressor.Compress(data)
	if err != nil {
		return fmt.Errorf("compress snapshot for %s: %w", userID, err)
	}

	if err := r.client.Set(ctx, snapshotKey(tenantID, userID), compressed, 0).Err(); err != nil {
		return fmt.Errorf("upsert snapshot for %s: %w", userID, err)
	}
	return nil
}
