package testutil

import (
	"context"
	"strconv"
	"sync"
	"time"

	"ctad/internal/models"
	"ctad/internal/providers"
)

// MockLogger implements providers.Logger and records calls.
type MockLogger struct {
	mu   sync.Mutex
	Logs []LogEntry
}

type LogEntry struct {
	Level  string
	Type   providers.TypeEnum
	Format string
	Args   []interface{}
}

func (m *MockLogger) record(level string, t providers.TypeEnum, format string, args ...interface{}) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Logs = append(m.Logs, LogEntry{Level: level, Type: t, Format: format, Args: args})
}

func (m *MockLogger) Errorf(t providers.TypeEnum, format string, args ...interface{}) {
	m.record("error", t, format, args...)
}
func (m *MockLogger) Warnf(t providers.TypeEnum, format string, args ...interface{}) {
	m.record("warn", t, format, args...)
}
func (m *MockLogger) Debugf(t providers.TypeEnum, format string, args ...interface{}) {
	m.record("debug", t, format, args...)
}
func (m *MockLogger) Infof(t providers.TypeEnum, format string, args ...interface{}) {
	m.record("info", t, format, args...)
}
func (m *MockLogger) Fatalf(t providers.TypeEnum, format string, args ...interface{}) {
	m.record("fatal", t, format, args...)
}
func (m *MockLogger) Close() {}

// CountLevel returns how many entries were recorded at the given level.
func (m *MockLogger) CountLevel(level string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, e := range m.Logs {
		if e.Level == level {
			n++
		}
	}
	return n
}

// MockMetrics implements providers.MetricsProviderInterface and counts
// calls.
type MockMetrics struct {
	mu               sync.Mutex
	RequestsTotal    int
	CacheHits        int
	CacheMisses      int
	RefreshFailures  int
	LastRefreshSets  int
	RecordCounts     map[string]int
	SweepTransitions map[string]int
	SweepConflicts   map[string]int
	SnapshotMerges   int
	SnapshotUpserts  int
	EligibleCounts   []int
}

func (m *MockMetrics) IncRequestsTotal(_ string, _ int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.RequestsTotal++
}
func (m *MockMetrics) ObserveRequestDuration(_ string, _ time.Duration) {}
func (m *MockMetrics) IncCacheHits() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.CacheHits++
}
func (m *MockMetrics) IncCacheMisses() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.CacheMisses++
}
func (m *MockMetrics) IncCacheRefreshFailures() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.RefreshFailures++
}
func (m *MockMetrics) SetCacheLastRefresh(_ time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.LastRefreshSets++
}
func (m *MockMetrics) SetCachedRecords(kind string, count int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.RecordCounts == nil {
		m.RecordCounts = make(map[string]int)
	}
	m.RecordCounts[kind] = count
}
func (m *MockMetrics) IncSweepTransitions(sweep string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.SweepTransitions == nil {
		m.SweepTransitions = make(map[string]int)
	}
	m.SweepTransitions[sweep]++
}
func (m *MockMetrics) IncSweepConflicts(sweep string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.SweepConflicts == nil {
		m.SweepConflicts = make(map[string]int)
	}
	m.SweepConflicts[sweep]++
}
func (m *MockMetrics) IncSnapshotMerges() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SnapshotMerges++
}
func (m *MockMetrics) IncSnapshotUpserts() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SnapshotUpserts++
}
func (m *MockMetrics) ObserveEligibleCTAs(count int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.EligibleCounts = append(m.EligibleCounts, count)
}

// MemoryCTAStore implements repositories.CTAStoreInterface in memory
// with the same generation semantics as the real store.
type MemoryCTAStore struct {
	mu      sync.Mutex
	seq     map[string]int64
	rows    map[string]*models.CTA
	filters map[string]*models.FilterMetadata
	// FailStatusUpdates forces ErrConcurrencyConflict on UpdateStatus.
	FailStatusUpdates bool
	// Err forces every call to fail.
	Err error
}

func NewMemoryCTAStore() *MemoryCTAStore {
	return &MemoryCTAStore{
		seq:  make(map[string]int64),
		rows: make(map[string]*models.CTA),
	}
}

func memKey(tenantID string, id int64) string {
	return tenantID + ":" + strconv.FormatInt(id, 10)
}

func cloneCTA(c *models.CTA) *models.CTA {
	out := *c
	return &out
}

// Seed installs a record directly, bypassing the generation checks.
func (s *MemoryCTAStore) Seed(cta *models.CTA) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if cta.Generation == 0 {
		cta.Generation = 1
	}
	s.rows[memKey(cta.TenantID, cta.ID)] = cloneCTA(cta)
}

func (s *MemoryCTAStore) NextID(_ context.Context, tenantID string) (int64, error) {
	if s.Err != nil {
		return 0, s.Err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seq[tenantID]++
	return s.seq[tenantID], nil
}

func (s *MemoryCTAStore) Create(_ context.Context, tenantID string, cta *models.CTA) error {
	if s.Err != nil {
		return s.Err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	cta.TenantID = tenantID
	cta.Generation = 1
	s.rows[memKey(tenantID, cta.ID)] = cloneCTA(cta)
	return nil
}

func (s *MemoryCTAStore) Find(_ context.Context, tenantID string, id int64) (*models.CTA, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	row, ok := s.rows[memKey(tenantID, id)]
	if !ok {
		return nil, models.ErrNotFound
	}
	return cloneCTA(row), nil
}

func (s *MemoryCTAStore) FindAllByTenant(_ context.Context, tenantID string) (map[int64]*models.CTA, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[int64]*models.CTA)
	for _, row := range s.rows {
		if row.TenantID == tenantID {
			out[row.ID] = cloneCTA(row)
		}
	}
	return out, nil
}

func (s *MemoryCTAStore) FindAllByStatus(_ context.Context, status models.CTAStatus) (map[int64]*models.CTA, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[int64]*models.CTA)
	for _, row := range s.rows {
		if row.Status == status {
			out[row.ID] = cloneCTA(row)
		}
	}
	return out, nil
}

func (s *MemoryCTAStore) UpdateStatus(_ context.Context, tenantID string, id, generation int64, status models.CTAStatus, startTime, endTime *int64) error {
	if s.Err != nil {
		return s.Err
	}
	if s.FailStatusUpdates {
		return models.ErrConcurrencyConflict
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	row, ok := s.rows[memKey(tenantID, id)]
	if !ok {
		return models.ErrNotFound
	}
	if row.Generation != generation {
		return models.ErrConcurrencyConflict
	}
	row.Status = status
	row.Generation++
	if startTime != nil {
		row.StartTime = startTime
	}
	if endTime != nil {
		row.EndTime = endTime
	}
	return nil
}

func (s *MemoryCTAStore) UpdateFull(_ context.Context, cta *models.CTA, generation int64) error {
	if s.Err != nil {
		return s.Err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	row, ok := s.rows[memKey(cta.TenantID, cta.ID)]
	if !ok {
		return models.ErrNotFound
	}
	if row.Generation != generation {
		return models.ErrConcurrencyConflict
	}
	next := cloneCTA(cta)
	next.Generation = generation + 1
	s.rows[memKey(cta.TenantID, cta.ID)] = next
	return nil
}

func (s *MemoryCTAStore) UpdateBehaviourTagLinks(ctx context.Context, tenantID string, id int64, tags []string) error {
	cta, err := s.Find(ctx, tenantID, id)
	if err != nil {
		return err
	}
	cta.BehaviourTags = tags
	return s.UpdateFull(ctx, cta, cta.Generation)
}

func (s *MemoryCTAStore) FindFilters(_ context.Context, tenantID string) (*models.FilterMetadata, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.filters == nil {
		return &models.FilterMetadata{}, nil
	}
	if meta, ok := s.filters[tenantID]; ok {
		return meta, nil
	}
	return &models.FilterMetadata{}, nil
}

func (s *MemoryCTAStore) UpdateFilters(_ context.Context, tenantID string, meta *models.FilterMetadata) error {
	if s.Err != nil {
		return s.Err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.filters == nil {
		s.filters = make(map[string]*models.FilterMetadata)
	}
	s.filters[tenantID] = meta
	return nil
}

// MemorySnapshotRepository implements
// repositories.SnapshotRepositoryInterface in memory.
type MemorySnapshotRepository struct {
	mu      sync.Mutex
	rows    map[string]*models.UserStateSnapshot
	Upserts int
	Err     error
}

func NewMemorySnapshotRepository() *MemorySnapshotRepository {
	return &MemorySnapshotRepository{rows: make(map[string]*models.UserStateSnapshot)}
}

func (r *MemorySnapshotRepository) Seed(tenantID, userID string, snapshot *models.UserStateSnapshot) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rows[tenantID+":"+userID] = snapshot
}

func (r *MemorySnapshotRepository) Find(_ context.Context, tenantID, userID string) (*models.UserStateSnapshot, error) {
	if r.Err != nil {
		return nil, r.Err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rows[tenantID+":"+userID], nil
}

func (r *MemorySnapshotRepository) Upsert(_ context.Context, tenantID, userID string, snapshot *models.UserStateSnapshot) error {
	if r.Err != nil {
		return r.Err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rows[tenantID+":"+userID] = snapshot
	r.Upserts++
	return nil
}

// MemoryBehaviourTagStore implements
// repositories.BehaviourTagStoreInterface in memory.
type MemoryBehaviourTagStore struct {
	mu   sync.Mutex
	rows map[string]*models.BehaviourTag
	Err  error
}

func NewMemoryBehaviourTagStore() *MemoryBehaviourTagStore {
	return &MemoryBehaviourTagStore{rows: make(map[string]*models.BehaviourTag)}
}

func (s *MemoryBehaviourTagStore) Seed(tag *models.BehaviourTag) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rows[tag.TenantID+":"+tag.Name] = tag
}

func (s *MemoryBehaviourTagStore) Create(_ context.Context, tag *models.BehaviourTag) error {
	if s.Err != nil {
		return s.Err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rows[tag.TenantID+":"+tag.Name] = tag
	return nil
}

func (s *MemoryBehaviourTagStore) Update(_ context.Context, tag *models.BehaviourTag) error {
	if s.Err != nil {
		return s.Err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rows[tag.TenantID+":"+tag.Name] = tag
	return nil
}

func (s *MemoryBehaviourTagStore) Find(_ context.Context, tenantID, name string) (*models.BehaviourTag, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	tag, ok := s.rows[tenantID+":"+name]
	if !ok {
		return nil, models.ErrNotFound
	}
	return tag, nil
}

func (s *MemoryBehaviourTagStore) FindAll(_ context.Context) (map[string]*models.BehaviourTag, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[string]*models.BehaviourTag, len(s.rows))
	for _, tag := range s.rows {
		out[tag.Name] = tag
	}
	return out, nil
}

func (s *MemoryBehaviourTagStore) FindAllByTenant(ctx context.Context, tenantID string) (map[string]*models.BehaviourTag, error) {
	all, err := s.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	out := make(map[string]*models.BehaviourTag)
	for name, tag := range all {
		if tag.TenantID == tenantID {
			out[name] = tag
		}
	}
	return out, nil
}
