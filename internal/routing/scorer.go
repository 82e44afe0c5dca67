package routing

import (
	"sort"

	"askhub.app/dispatch/internal/model"
)

// Score ranks a candidate. It rises with skill match and falls with workload.
func Score(skillMatch float64, workload int) float64 {
	return skillMatch / float64(workload+1)
}

type Candidate struct {
	Moderator  model.User
	SkillMatch float64
	Workload   int
	Score      float64
}

// rankCandidates sorts by score, best first. Equal scores keep input order,
// which is moderator id order as returned by the directory.
func rankCandidates(candidates []Candidate) {
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].Score > candidates[j].Score
	})
}

// leastBusy returns the index of the first candidate with the lowest workload.
func leastBusy(candidates []Candidate) int {
	best := 0
	for i := 1; i < len(candidates); i++ {
		if candidates[i].Workload < candidates[best].Workload {
			best = i
		}
	}
	return best
}
