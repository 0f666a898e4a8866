package models

// BehaviourTag is a tenant-scoped user-segment definition with its own
// exposure caps and CTA show/hide relations.
type BehaviourTag struct {
	Name          string        `json:"name"`
	Description   string        `json:"description,omitempty"`
	CreatedAt     int64         `json:"createdAt"`
	CreatedBy     string        `json:"createdBy,omitempty"`
	LastUpdatedAt int64         `json:"lastUpdatedAt,omitempty"`
	LastUpdatedBy string        `json:"lastUpdatedBy,omitempty"`
	ExposureRule  *ExposureRule `json:"exposureRule,omitempty"`
	CTARelation   *CTARelation  `json:"ctaRelation,omitempty"`
	LinkedCtas    []string      `json:"linkedCtas,omitempty"`
	TenantID      string        `json:"tenantId"`
}

type ExposureRule struct {
	Session  *SessionFrequency  `json:"session,omitempty"`
	Window   *WindowFrequency   `json:"window,omitempty"`
	Lifespan *LifespanFrequency `json:"lifespan,omitempty"`
}

type CTARelation struct {
	ShownCta *CtaRelationRule `json:"shownCta,omitempty"`
	HideCta  *CtaRelationRule `json:"hideCta,omitempty"`
}

type CtaRelationRule struct {
	Rule    string   `json:"rule,omitempty"`
	CtaList []string `json:"ctaList,omitempty"`
}
