package services

import (
	"fmt"
	"strconv"

	"ctad/internal/models"
)

// MergeDeltaSnapshot folds a client-submitted delta into the stored
// snapshot in place. Per state machine instance the newer side wins on
// lastTransitionAt, with ties going to the delta. Instances flagged
// reset are removed in a second pass so an update and a reset for the
// same instance inside one delta behave the same regardless of order.
// ResetAt/ActionDoneAt lists and behaviour-tag snapshots are
// client-owned and overwritten wholesale. A delta entry whose ctaId is
// not numeric fails the whole merge.
func MergeDeltaSnapshot(stored *models.UserStateSnapshot, delta *models.DeltaSnapshot) error {
	// Validate every id before touching the snapshot so a malformed
	// delta leaves it unchanged.
	ids := make([]int64, len(delta.Ctas))
	for i, entry := range delta.Ctas {
		ctaID, err := strconv.ParseInt(entry.CtaID, 10, 64)
		if err != nil {
			return fmt.Errorf("%w: bad ctaId %q", models.ErrMalformedDelta, entry.CtaID)
		}
		ids[i] = ctaID
	}

	for i, entry := range delta.Ctas {
		current, ok := stored.StateMachines[ids[i]]
		if !ok {
			current = &models.StateMachineSnapshot{
				CtaID:               entry.CtaID,
				ActiveStateMachines: make(map[string]*models.StateMachine),
			}
			stored.StateMachines[ids[i]] = current
		}
		if current.ActiveStateMachines == nil {
			current.ActiveStateMachines = make(map[string]*models.StateMachine)
		}

		for groupID, machine := range entry.ActiveStateMachines {
			existing, ok := current.ActiveStateMachines[groupID]
			if !ok || existing.LastTransitionAt <= machine.LastTransitionAt {
				current.ActiveStateMachines[groupID] = machine
			}
		}

		current.ResetAt = entry.ResetAt
		current.ActionDoneAt = entry.ActionDoneAt
	}

	// Reset pass runs after every update landed: a reset only clears
	// instances at or behind its own timestamp.
	for i, entry := range delta.Ctas {
		current := stored.StateMachines[ids[i]]
		for groupID, machine := range entry.ActiveStateMachines {
			if !machine.Reset {
				continue
			}
			existing, ok := current.ActiveStateMachines[groupID]
			if ok && machine.LastTransitionAt >= existing.LastTransitionAt {
				delete(current.ActiveStateMachines, groupID)
			}
		}
	}

	for _, tag := range delta.BehaviourTags {
		stored.BehaviourTags[tag.BehaviourTagName] = tag
	}
	return nil
}

// DeltaIsEmpty reports whether a merge would be a no-op.
func DeltaIsEmpty(delta *models.DeltaSnapshot) bool {
	return delta == nil || (len(delta.Ctas) == 0 && len(delta.BehaviourTags) == 0)
}
