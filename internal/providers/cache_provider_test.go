package providers

import (
	"testing"
	"time"

	"ctad/internal/structures"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// local mock logger to avoid import cycle with testutil
type cacheTestLogger struct{}

func (m *cacheTestLogger) Errorf(_ TypeEnum, _ string, _ ...interface{}) {}
func (m *cacheTestLogger) Warnf(_ TypeEnum, _ string, _ ...interface{})  {}
func (m *cacheTestLogger) Debugf(_ TypeEnum, _ string, _ ...interface{}) {}
func (m *cacheTestLogger) Infof(_ TypeEnum, _ string, _ ...interface{})  {}
func (m *cacheTestLogger) Fatalf(_ TypeEnum, _ string, _ ...interface{}) {}
func (m *cacheTestLogger) Close()                                        {}

func cacheConfig(enabled bool, size int, ttl time.Duration) *structures.Config {
	return &structures.Config{
		Cache:   structures.CacheConfig{Enabled: enabled, Size: size},
		Cohorts: structures.CohortsConfig{CacheTTL: ttl},
	}
}

func TestNewCacheProvider_Selection(t *testing.T) {
	cases := []struct {
		name    string
		enabled bool
		size    int
		want    interface{}
	}{
		{"disabled", false, 10, &noopCache{}},
		{"zero size", true, 0, &noopCache{}},
		{"enabled", true, 1, &CacheProvider{}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c := NewCacheProvider(cacheConfig(tc.enabled, tc.size, 5*time.Second), &cacheTestLogger{})
			assert.IsType(t, tc.want, c)
		})
	}
}

func TestCacheProvider_SetGetOverwrite(t *testing.T) {
	c := NewCacheProvider(cacheConfig(true, 1, 5*time.Second), &cacheTestLogger{})

	c.Set("cohorts:t1:u1", []byte(`["beta"]`))
	val, ok := c.Get("cohorts:t1:u1")
	require.True(t, ok)
	assert.Equal(t, []byte(`["beta"]`), val)

	c.Set("cohorts:t1:u1", []byte(`["beta","vip"]`))
	val, ok = c.Get("cohorts:t1:u1")
	require.True(t, ok)
	assert.Equal(t, []byte(`["beta","vip"]`), val)

	val, ok = c.Get("cohorts:t1:unknown")
	assert.False(t, ok)
	assert.Nil(t, val)
}

func TestCacheProvider_TTLExpiry(t *testing.T) {
	c := NewCacheProvider(cacheConfig(true, 1, 1*time.Second), &cacheTestLogger{})

	c.Set("key1", []byte("value1"))
	_, ok := c.Get("key1")
	require.True(t, ok)

	time.Sleep(1100 * time.Millisecond)

	_, ok = c.Get("key1")
	assert.False(t, ok)
}

func TestNoopCache_AlwaysMiss(t *testing.T) {
	c := &noopCache{}
	c.Set("key1", []byte("value1"))

	val, ok := c.Get("key1")
	assert.False(t, ok)
	assert.Nil(t, val)
}
