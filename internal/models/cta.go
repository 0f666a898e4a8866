package models

type CTAStatus string

const (
	StatusDraft      CTAStatus = "DRAFT"
	StatusScheduled  CTAStatus = "SCHEDULED"
	StatusLive       CTAStatus = "LIVE"
	StatusPaused     CTAStatus = "PAUSED"
	StatusConcluded  CTAStatus = "CONCLUDED"
	StatusTerminated CTAStatus = "TERMINATED"
)

func (s CTAStatus) Valid() bool {
	switch s {
	case StatusDraft, StatusScheduled, StatusLive, StatusPaused, StatusConcluded, StatusTerminated:
		return true
	}
	return false
}

// CTA is a tenant-scoped call-to-action record. StartTime/EndTime are
// epoch milliseconds; nil means unset. Generation is the store-assigned
// record version used for optimistic concurrency and is never
// serialized into the record payload itself.
type CTA struct {
	ID            int64     `json:"id"`
	Rule          *Rule     `json:"rule,omitempty"`
	Status        CTAStatus `json:"status"`
	Name          string    `json:"name"`
	Description   string    `json:"description,omitempty"`
	Tags          []string  `json:"tags,omitempty"`
	Team          string    `json:"team,omitempty"`
	BehaviourTags []string  `json:"behaviourTags"`
	StartTime     *int64    `json:"startTime,omitempty"`
	EndTime       *int64    `json:"endTime,omitempty"`
	CreatedAt     int64     `json:"createdAt"`
	CreatedBy     string    `json:"createdBy,omitempty"`
	LastUpdatedAt int64     `json:"lastUpdatedAt,omitempty"`
	LastUpdatedBy string    `json:"lastUpdatedBy,omitempty"`
	TenantID      string    `json:"tenantId"`

	Generation int64 `json:"-"`
}

// FirstBehaviourTag returns the first linked behaviour tag name, or ""
// when the CTA has none.
func (c *CTA) FirstBehaviourTag() string {
	if len(c.BehaviourTags) > 0 {
		return c.BehaviourTags[0]
	}
	return ""
}

// FilterMetadata is the per-tenant record of known CTA names, tags and
// teams, backing duplicate-name checks and admin list filters.
type FilterMetadata struct {
	Names []string `json:"names"`
	Tags  []string `json:"tags"`
	Teams []string `json:"teams"`
}

func (f *FilterMetadata) HasName(name string) bool {
	for _, n := range f.Names {
		if n == name {
			return true
		}
	}
	return false
}
