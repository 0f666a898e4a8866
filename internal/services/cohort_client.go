package services

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"ctad/internal/providers"
	"ctad/internal/structures"
	json "github.com/goccy/go-json"
)

// CohortClientInterface resolves the cohort memberships of a user.
// Resolution failures degrade to the configured default cohorts so the
// serving path keeps answering when the cohort service is down.
type CohortClientInterface interface {
	CohortsForUser(ctx context.Context, tenantID, userID string) []string
}

type CohortClient struct {
	conf   *structures.Config
	client *http.Client
	cache  providers.CacheProviderInterface
	logger providers.Logger
}

func NewCohortClient(conf *structures.Config, cache providers.CacheProviderInterface, logger providers.Logger) CohortClientInterface {
	return &CohortClient{
		conf:   conf,
		client: &http.Client{Timeout: conf.Cohorts.Timeout},
		cache:  cache,
		logger: logger,
	}
}

func (c *CohortClient) CohortsForUser(ctx context.Context, tenantID, userID string) []string {
	if c.conf.Cohorts.BaseURL == "" {
		return c.conf.Cohorts.Default
	}

	cacheKey := "cohorts:" + tenantID + ":" + userID
	if raw, ok := c.cache.Get(cacheKey); ok {
		var cohorts []string
		if err := json.Unmarshal(raw, &cohorts); err == nil {
			return cohorts
		}
	}

	cohorts, err := c.fetch(ctx, tenantID, userID)
	if err != nil {
		c.logger.Warnf(providers.TypeServe, "Cohort lookup failed for user %s, using defaults: %v", userID, err)
		return c.conf.Cohorts.Default
	}

	if raw, err := json.Marshal(cohorts); err == nil {
		c.cache.Set(cacheKey, raw)
	}
	return cohorts
}

func (c *CohortClient) fetch(ctx context.Context, tenantID, userID string) ([]string, error) {
	endpoint := fmt.Sprintf("%s/v1/cohorts?tenantId=%s&userId=%s",
		c.conf.Cohorts.BaseURL, url.QueryEscape(tenantID), url.QueryEscape(userID))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("cohort service returned %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, err
	}

	var payload struct {
		Cohorts []string `json:"cohorts"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("decode cohort response: %w", err)
	}
	return payload.Cohorts, nil
}
