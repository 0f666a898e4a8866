package models

import (
	"fmt"

	json "github.com/goccy/go-json"
)

// Rule drives a CTA: who sees it (cohort eligibility), how its client
// state machine advances (stateTransition), what each state triggers
// (stateToAction -> actions) and how often it may fire (frequency).
type Rule struct {
	CohortEligibility *CohortEligibility                            `json:"cohortEligibility,omitempty"`
	StateToAction     map[string]string                             `json:"stateToAction,omitempty"`
	ResetStates       []string                                      `json:"resetStates,omitempty"`
	ContextParams     []string                                      `json:"contextParams,omitempty"`
	StateTransition   map[string]map[string][]TransitionCondition   `json:"stateTransition,omitempty"`
	GroupByConfig     *GroupByConfig                                `json:"groupByConfig,omitempty"`
	Priority          int                                           `json:"priority"`
	StateMachineTTL   *int64                                        `json:"stateMachineTTL,omitempty"` /* milliseconds */
	Actions           ActionList                                    `json:"actions,omitempty"`
	Frequency         *Frequency                                    `json:"frequency,omitempty"`
}

type CohortEligibility struct {
	Includes []string `json:"includes"`
	Excludes []string `json:"excludes"`
}

// GroupByConfig defines how many independent state-machine instances a
// user may run for one CTA, keyed by values extracted from event context.
type GroupByConfig struct {
	MaxActiveStateMachineCount int      `json:"maxActiveStateMachineCount"`
	GroupByKeys                []string `json:"groupByKeys"`
}

// TransitionCondition is one candidate transition for a (state, event)
// pair: the target state plus a boolean filter expression evaluated by
// the client against event context. The expression is carried opaque.
type TransitionCondition struct {
	TransitionTo string          `json:"transitionTo"`
	Filters      json.RawMessage `json:"filters,omitempty"`
}

type Frequency struct {
	Session  *SessionFrequency  `json:"session,omitempty"`
	Window   *WindowFrequency   `json:"window,omitempty"`
	Lifespan *LifespanFrequency `json:"lifeSpan,omitempty"`
}

type SessionFrequency struct {
	Limit int `json:"limit"`
}

type WindowFrequency struct {
	Limit int    `json:"limit"`
	Unit  string `json:"unit"`
	Value int    `json:"value"`
}

type LifespanFrequency struct {
	Limit int `json:"limit"`
}

// Action is the tagged union of rule action payloads, discriminated by
// the embedded "type" field.
type Action interface {
	ActionType() string
}

type NudgeAction struct {
	Type    string `json:"type"`
	NudgeID string `json:"nudgeId"`
}

func (a NudgeAction) ActionType() string { return a.Type }

// ActionList decodes a JSON array of action payloads into concrete
// Action values by their "type" discriminator. Unknown types fail the
// decode rather than being carried as untyped maps.
type ActionList []Action

func (l *ActionList) UnmarshalJSON(data []byte) error {
	var raws []json.RawMessage
	if err := json.Unmarshal(data, &raws); err != nil {
		return err
	}

	out := make(ActionList, 0, len(raws))
	for _, raw := range raws {
		var head struct {
			Type string `json:"type"`
		}
		if err := json.Unmarshal(raw, &head); err != nil {
			return err
		}
		switch head.Type {
		case "nudge":
			var a NudgeAction
			if err := json.Unmarshal(raw, &a); err != nil {
				return err
			}
			out = append(out, a)
		default:
			return fmt.Errorf("unknown action type %q", head.Type)
		}
	}
	*l = out
	return nil
}
