package repositories

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"ctad/internal/models"
	json "github.com/goccy/go-json"
	"github.com/redis/go-redis/v9"
)

// CTAStoreInterface is the key-value contract for CTA records: CRUD,
// generation-checked updates and status-indexed queries. Every read
// populates CTA.Generation; every generation-checked write fails with
// models.ErrConcurrencyConflict when the stored generation moved.
type CTAStoreInterface interface {
	Create(ctx context.Context, tenantID string, cta *models.CTA) error
	NextID(ctx context.Context, tenantID string) (int64, error)
	Find(ctx context.Context, tenantID string, id int64) (*models.CTA, error)
	FindAllByTenant(ctx context.Context, tenantID string) (map[int64]*models.CTA, error)
	FindAllByStatus(ctx context.Context, status models.CTAStatus) (map[int64]*models.CTA, error)
	UpdateStatus(ctx context.Context, tenantID string, id, generation int64, status models.CTAStatus, startTime, endTime *int64) error
	UpdateFull(ctx context.Context, cta *models.CTA, generation int64) error
	UpdateBehaviourTagLinks(ctx context.Context, tenantID string, id int64, tags []string) error
	FindFilters(ctx context.Context, tenantID string) (*models.FilterMetadata, error)
	UpdateFilters(ctx context.Context, tenantID string, meta *models.FilterMetadata) error
}

// Record layout: one hash per CTA at cta:{tenant}:{id} with fields
// data (JSON of the record minus the mutable ones), status, startTime,
// endTime and gen. Status-indexed queries come from set keys
// cta:status:{STATUS} holding "{tenant}:{id}" members; tenant listings
// from cta:tenant:{tenant}. The gen field is the optimistic-concurrency
// generation; all conditional writes go through Lua compare-and-set so
// the check and the mutation are atomic.
const (
	fieldData      = "data"
	fieldStatus    = "status"
	fieldStartTime = "startTime"
	fieldEndTime   = "endTime"
	fieldGen       = "gen"
)

// KEYS[1] record hash, KEYS[2] old status set, KEYS[3] new status set.
// ARGV: expected gen, new status, startTime (""=keep), endTime
// (""=keep), index member. Returns 0 on generation mismatch.
var updateStatusScript = redis.NewScript(`
local g = redis.call('HGET', KEYS[1], 'gen')
if not g or g ~= ARGV[1] then
  return 0
end
redis.call('HSET', KEYS[1], 'status', ARGV[2], 'gen', g + 1)
if ARGV[3] ~= '' then
  redis.call('HSET', KEYS[1], 'startTime', ARGV[3])
end
if ARGV[4] ~= '' then
  redis.call('HSET', KEYS[1], 'endTime', ARGV[4])
end
redis.call('SREM', KEYS[2], ARGV[5])
redis.call('SADD', KEYS[3], ARGV[5])
return 1
`)

// KEYS[1] record hash. ARGV: expected gen, data JSON.
var updateDataScript = redis.NewScript(`
local g = redis.call('HGET', KEYS[1], 'gen')
if not g or g ~= ARGV[1] then
  return 0
end
redis.call('HSET', KEYS[1], 'data', ARGV[2], 'gen', g + 1)
return 1
`)

type CTAStore struct {
	client *redis.Client
}

func NewCTAStore(client *redis.Client) CTAStoreInterface {
	return &CTAStore{client: client}
}

func ctaKey(tenantID string, id int64) string {
	return "cta:" + tenantID + ":" + strconv.FormatInt(id, 10)
}

func statusKey(status models.CTAStatus) string {
	return "cta:status:" + string(status)
}

func indexMember(tenantID string, id int64) string {
	return tenantID + ":" + strconv.FormatInt(id, 10)
}

func (s *CTAStore) NextID(ctx context.Context, tenantID string) (int64, error) {
	id, err := s.client.Incr(ctx, "cta:seq:"+tenantID).Result()
	if err != nil {
		return 0, fmt.Errorf("cta id sequence: %w", err)
	}
	return id, nil
}

func (s *CTAStore) Create(ctx context.Context, tenantID string, cta *models.CTA) error {
	data, err := json.Marshal(cta)
	if err != nil {
		return err
	}

	pipe := s.client.TxPipeline()
	pipe.HSet(ctx, ctaKey(tenantID, cta.ID),
		fieldData, string(data),
		fieldStatus, string(cta.Status),
		fieldStartTime, encodeOptionalMillis(cta.StartTime),
		fieldEndTime, encodeOptionalMillis(cta.EndTime),
		fieldGen, 1,
	)
	pipe.SAdd(ctx, statusKey(cta.Status), indexMember(tenantID, cta.ID))
	pipe.SAdd(ctx, "cta:tenant:"+tenantID, strconv.FormatInt(cta.ID, 10))
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("create cta %d: %w", cta.ID, err)
	}
	return nil
}

func (s *CTAStore) Find(ctx context.Context, tenantID string, id int64) (*models.CTA, error) {
	fields, err := s.client.HGetAll(ctx, ctaKey(tenantID, id)).Result()
	if err != nil {
		return nil, fmt.Errorf("find cta %d: %w", id, err)
	}
	if len(fields) == 0 {
		return nil, models.ErrNotFound
	}
	return decodeCTA(fields)
}

func (s *CTAStore) FindAllByTenant(ctx context.Context, tenantID string) (map[int64]*models.CTA, error) {
	ids, err := s.client.SMembers(ctx, "cta:tenant:"+tenantID).Result()
	if err != nil {
		return nil, fmt.Errorf("list tenant ctas: %w", err)
	}

	out := make(map[int64]*models.CTA, len(ids))
	for _, raw := range ids {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			continue
		}
		cta, err := s.Find(ctx, tenantID, id)
		if err == models.ErrNotFound {
			continue
		}
		if err != nil {
			return nil, err
		}
		out[id] = cta
	}
	return out, nil
}

func (s *CTAStore) FindAllByStatus(ctx context.Context, status models.CTAStatus) (map[int64]*models.CTA, error) {
	members, err := s.client.SMembers(ctx, statusKey(status)).Result()
	if err != nil {
		return nil, fmt.Errorf("list %s ctas: %w", status, err)
	}

	out := make(map[int64]*models.CTA, len(members))
	for _, member := range members {
		tenantID, id, ok := splitIndexMember(member)
		if !ok {
			continue
		}
		cta, err := s.Find(ctx, tenantID, id)
		if err == models.ErrNotFound {
			// Index member outlived its record or the record moved
			// status concurrently; the next refresh settles it.
			continue
		}
		if err != nil {
			return nil, err
		}
		if cta.Status != status {
			continue
		}
		out[id] = cta
	}
	return out, nil
}

func (s *CTAStore) UpdateStatus(ctx context.Context, tenantID string, id, generation int64, status models.CTAStatus, startTime, endTime *int64) error {
	current, err := s.Find(ctx, tenantID, id)
	if err != nil {
		return err
	}

	keys := []string{ctaKey(tenantID, id), statusKey(current.Status), statusKey(status)}
	argv := []interface{}{
		strconv.FormatInt(generation, 10),
		string(status),
		encodeOptionalMillis(startTime),
		encodeOptionalMillis(endTime),
		indexMember(tenantID, id),
	}

	ok, err := updateStatusScript.Run(ctx, s.client, keys, argv...).Int()
	if err != nil {
		return fmt.Errorf("update cta %d status: %w", id, err)
	}
	if ok == 0 {
		return models.ErrConcurrencyConflict
	}
	return nil
}

func (s *CTAStore) UpdateFull(ctx context.Context, cta *models.CTA, generation int64) error {
	data, err := json.Marshal(cta)
	if err != nil {
		return err
	}

	keys := []string{ctaKey(cta.TenantID, cta.ID)}
	ok, err := updateDataScript.Run(ctx, s.client, keys, strconv.FormatInt(generation, 10), string(data)).Int()
	if err != nil {
		return fmt.Errorf("update cta %d: %w", cta.ID, err)
	}
	if ok == 0 {
		return models.ErrConcurrencyConflict
	}
	return nil
}

func (s *CTAStore) UpdateBehaviourTagLinks(ctx context.Context, tenantID string, id int64, tags []string) error {
	cta, err := s.Find(ctx, tenantID, id)
	if err != nil {
		return err
	}
	cta.BehaviourTags = tags
	return s.UpdateFull(ctx, cta, cta.Generation)
}

func (s *CTAStore) FindFilters(ctx context.Context, tenantID string) (*models.FilterMetadata, error) {
	val, err := s.client.Get(ctx, "cta:filters:"+tenantID).Result()
	if err == redis.Nil {
		return &models.FilterMetadata{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find filters: %w", err)
	}

	var meta models.FilterMetadata
	if err := json.Unmarshal([]byte(val), &meta); err != nil {
		return nil, fmt.Errorf("decode filters: %w", err)
	}
	return &meta, nil
}

func (s *CTAStore) UpdateFilters(ctx context.Context, tenantID string, meta *models.FilterMetadata) error {
	data, err := json.Marshal(meta)
	if err != nil {
		return err
	}
	if err := s.client.Set(ctx, "cta:filters:"+tenantID, data, 0).Err(); err != nil {
		return fmt.Errorf("update filters: %w", err)
	}
	return nil
}

func decodeCTA(fields map[string]string) (*models.CTA, error) {
	var cta models.CTA
	if err := json.Unmarshal([]byte(fields[fieldData]), &cta); err != nil {
		return nil, fmt.Errorf("decode cta record: %w", err)
	}

	// Mutable fields live beside the payload; they win over whatever
	// the payload held at write time.
	cta.Status = models.CTAStatus(fields[fieldStatus])
	cta.StartTime = decodeOptionalMillis(fields[fieldStartTime])
	cta.EndTime = decodeOptionalMillis(fields[fieldEndTime])

	gen, err := strconv.ParseInt(fields[fieldGen], 10, 64)
	if err != nil {
		return nil, fmt.Errorf("decode cta generation: %w", err)
	}
	cta.Generation = gen
	return &cta, nil
}

func encodeOptionalMillis(v *int64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatInt(*v, 10)
}

func decodeOptionalMillis(raw string) *int64 {
	if raw == "" {
		return nil
	}
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return nil
	}
	return &v
}

func splitIndexMember(member string) (string, int64, bool) {
	idx := strings.LastIndexByte(member, ':')
	if idx < 0 {
		return "", 0, false
	}
	id, err := strconv.ParseInt(member[idx+1:], 10, 64)
	if err != nil {
		return "", 0, false
	}
	return member[:idx], id, true
}
