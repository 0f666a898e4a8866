package models

// UserStateSnapshot is the persisted per-user record of state-machine
// and behaviour-tag progress, one per (tenant, user). It carries no
// generation counter: the serving path merges with last-write-wins
// semantics instead of optimistic locking.
type UserStateSnapshot struct {
	StateMachines map[int64]*StateMachineSnapshot  `json:"stateMachines"`
	BehaviourTags map[string]*BehaviourTagSnapshot `json:"behaviourTags"`
}

func NewUserStateSnapshot() *UserStateSnapshot {
	return &UserStateSnapshot{
		StateMachines: make(map[int64]*StateMachineSnapshot),
		BehaviourTags: make(map[string]*BehaviourTagSnapshot),
	}
}

// StateMachineSnapshot tracks one CTA's progress for one user. The CTA
// id travels as a string on the wire; the merge parses it. ResetAt and
// ActionDoneAt are client-owned audit lists overwritten wholesale on
// every merge.
type StateMachineSnapshot struct {
	CtaID               string                   `json:"ctaId"`
	ActiveStateMachines map[string]*StateMachine `json:"activeStateMachines"`
	ResetAt             []int64                  `json:"resetAt,omitempty"`
	ActionDoneAt        []int64                  `json:"actionDoneAt,omitempty"`
}

// StateMachine is one running instance (per groupId) of a CTA's state
// machine. LastTransitionAt is the merge tie-breaker, CreatedAt the TTL
// anchor; Reset asks the merge to remove the instance.
type StateMachine struct {
	CurrentState     string         `json:"currentState"`
	LastTransitionAt int64          `json:"lastTransitionAt"`
	Context          map[string]any `json:"context,omitempty"`
	CreatedAt        int64          `json:"createdAt"`
	Reset            bool           `json:"reset,omitempty"`
}

// BehaviourTagSnapshot is the per-user view of a behaviour tag: the
// tag's static exposure/relation config with the user's progress lists
// appended.
type BehaviourTagSnapshot struct {
	BehaviourTagName string                 `json:"behaviourTagName"`
	ExposureRule     *BehaviourExposureRule `json:"exposureRule,omitempty"`
	CTARelation      *CTARelationSnapshot   `json:"ctaRelation,omitempty"`
}

type BehaviourExposureRule struct {
	Session     *SessionFrequency  `json:"session,omitempty"`
	Lifespan    *LifespanFrequency `json:"lifespan,omitempty"`
	Window      *WindowFrequency   `json:"window,omitempty"`
	CtasResetAt []int64            `json:"ctasResetAt"`
}

type CTARelationSnapshot struct {
	ShownCta   *CtaRelationRule `json:"shownCta,omitempty"`
	HideCta    *CtaRelationRule `json:"hideCta,omitempty"`
	ActiveCtas []string         `json:"activeCtas"`
}

// DeltaSnapshot is the client-submitted partial snapshot folded into
// the server's copy on app launch or explicit merge.
type DeltaSnapshot struct {
	Ctas          []*StateMachineSnapshot `json:"ctas,omitempty"`
	BehaviourTags []*BehaviourTagSnapshot `json:"behaviourTags,omitempty"`
}

// CTAView is one eligible CTA zipped with the user's progress for it.
type CTAView struct {
	CtaID               string                   `json:"ctaId"`
	Rule                *Rule                    `json:"rule,omitempty"`
	ActiveStateMachines map[string]*StateMachine `json:"activeStateMachines"`
	ResetAt             []int64                  `json:"resetAt"`
	ActionDoneAt        []int64                  `json:"actionDoneAt"`
	BehaviourTag        string                   `json:"behaviourTag"`
}

type CTAResponse struct {
	Ctas          []*CTAView              `json:"ctas"`
	BehaviourTags []*BehaviourTagSnapshot `json:"behaviourTags"`
}
