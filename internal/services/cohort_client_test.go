package services

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"ctad/internal/structures"
	"ctad/internal/testutil"
	"github.com/stretchr/testify/assert"
)

type recordingCache struct {
	mu   sync.Mutex
	data map[string][]byte
}

func (c *recordingCache) Get(key string) ([]byte, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	val, ok := c.data[key]
	return val, ok
}

func (c *recordingCache) Set(key string, value []byte) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.data == nil {
		c.data = make(map[string][]byte)
	}
	c.data[key] = value
}

func cohortConf(baseURL string) *structures.Config {
	return &structures.Config{
		Cohorts: structures.CohortsConfig{
			BaseURL: baseURL,
			Timeout: time.Second,
			Default: []string{"all_users"},
		},
	}
}

func TestCohorts_DefaultsWhenUnconfigured(t *testing.T) {
	client := NewCohortClient(cohortConf(""), &recordingCache{}, &testutil.MockLogger{})

	cohorts := client.CohortsForUser(context.Background(), "t1", "u1")
	assert.Equal(t, []string{"all_users"}, cohorts)
}

func TestCohorts_FetchesAndCaches(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		assert.Equal(t, "t1", r.URL.Query().Get("tenantId"))
		assert.Equal(t, "u1", r.URL.Query().Get("userId"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"cohorts":["beta","vip"]}`))
	}))
	defer srv.Close()

	client := NewCohortClient(cohortConf(srv.URL), &recordingCache{}, &testutil.MockLogger{})

	first := client.CohortsForUser(context.Background(), "t1", "u1")
	second := client.CohortsForUser(context.Background(), "t1", "u1")

	assert.Equal(t, []string{"beta", "vip"}, first)
	assert.Equal(t, first, second)
	assert.Equal(t, 1, calls)
}

func TestCohorts_FallsBackOnServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	logger := &testutil.MockLogger{}
	client := NewCohortClient(cohortConf(srv.URL), &recordingCache{}, logger)

	cohorts := client.CohortsForUser(context.Background(), "t1", "u1")
	assert.Equal(t, []string{"all_users"}, cohorts)
	assert.Equal(t, 1, logger.CountLevel("warn"))
}

func TestCohorts_FallsBackOnUnreachableService(t *testing.T) {
	client := NewCohortClient(cohortConf("http://127.0.0.1:1"), &recordingCache{}, &testutil.MockLogger{})

	cohorts := client.CohortsForUser(context.Background(), "t1", "u1")
	assert.Equal(t, []string{"all_users"}, cohorts)
}
