// Package scoring reduces a criteria set to a readiness score and status.
package scoring

import "github.com/dooor-ai/readiness/pkg/types"

// Score returns the percentage of passing criteria and the derived status:
// ready iff every criterion passes, blocked otherwise. The two outcomes
// partition all boolean criteria sets; in-progress is never produced here.
func Score(cs types.CriteriaSet) (float64, types.Status) {
	total := len(cs)
	if total == 0 {
		return 0, types.StatusBlocked
	}

	passed := 0
	for _, ok := range cs {
		if ok {
			passed++
		}
	}

	score := 100 * float64(passed) / float64(total)
	if passed == total {
		return score, types.StatusReady
	}
	return score, types.StatusBlocked
}
