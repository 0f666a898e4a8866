package services

import "ctad/internal/models"

// ArchiveStaleData prunes a snapshot against the current CTA
// population and TTLs. State machines belonging to CTAs that are
// neither active nor paused are removed outright. For active CTAs with
// a stateMachineTTL, instances older than the TTL (by createdAt) are
// removed; paused CTAs keep their instances untouched. The entry
// itself survives TTL expiry so the resetAt/actionDoneAt history stays
// available for frequency capping. Behaviour-tag snapshots whose tag
// is no longer referenced by any active or paused CTA are dropped.
// Returns true when anything changed, which tells the caller the
// snapshot needs a write-back.
func ArchiveStaleData(active, paused map[int64]*models.CTA, snapshot *models.UserStateSnapshot, nowMs int64) bool {
	changed := false

	for ctaID, entry := range snapshot.StateMachines {
		if _, ok := paused[ctaID]; ok {
			continue
		}
		cta, ok := active[ctaID]
		if !ok {
			delete(snapshot.StateMachines, ctaID)
			changed = true
			continue
		}

		ttl := stateMachineTTL(cta)
		if ttl == nil {
			continue
		}
		for groupID, machine := range entry.ActiveStateMachines {
			if nowMs-machine.CreatedAt > *ttl {
				delete(entry.ActiveStateMachines, groupID)
				changed = true
			}
		}
	}

	referenced := referencedTags(active, paused)
	for name := range snapshot.BehaviourTags {
		if _, ok := referenced[name]; !ok {
			delete(snapshot.BehaviourTags, name)
			changed = true
		}
	}
	return changed
}

func referencedTags(active, paused map[int64]*models.CTA) map[string]struct{} {
	out := make(map[string]struct{})
	for _, cta := range active {
		for _, tag := range cta.BehaviourTags {
			out[tag] = struct{}{}
		}
	}
	for _, cta := range paused {
		for _, tag := range cta.BehaviourTags {
			out[tag] = struct{}{}
		}
	}
	return out
}

func stateMachineTTL(cta *models.CTA) *int64 {
	if cta.Rule == nil {
		return nil
	}
	return cta.Rule.StateMachineTTL
}
