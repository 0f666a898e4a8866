package services

import (
	"sort"

	"ctad/internal/models"
)

// FilterEligibleCTAs returns the CTAs from candidates whose cohort rule
// admits a user in the given cohorts: at least one cohort must be in
// the includes list and none in the excludes list. A CTA with no rule
// or no cohortEligibility block is never eligible, and an empty
// includes list admits nobody. Results are ordered by descending rule
// priority, ties by id.
func FilterEligibleCTAs(candidates map[int64]*models.CTA, cohorts []string) []*models.CTA {
	cohortSet := make(map[string]struct{}, len(cohorts))
	for _, c := range cohorts {
		cohortSet[c] = struct{}{}
	}

	out := make([]*models.CTA, 0, len(candidates))
	for _, cta := range candidates {
		if isEligible(cta, cohortSet) {
			out = append(out, cta)
		}
	}

	sort.Slice(out, func(i, j int) bool {
		pi, pj := rulePriority(out[i]), rulePriority(out[j])
		if pi != pj {
			return pi > pj
		}
		return out[i].ID < out[j].ID
	})
	return out
}

func isEligible(cta *models.CTA, cohorts map[string]struct{}) bool {
	if cta.Rule == nil || cta.Rule.CohortEligibility == nil {
		return false
	}
	rule := cta.Rule.CohortEligibility

	included := false
	for _, c := range rule.Includes {
		if _, ok := cohorts[c]; ok {
			included = true
			break
		}
	}
	if !included {
		return false
	}
	for _, c := range rule.Excludes {
		if _, ok := cohorts[c]; ok {
			return false
		}
	}
	return true
}

func rulePriority(cta *models.CTA) int {
	if cta.Rule == nil {
		return 0
	}
	return cta.Rule.Priority
}
