package brackets

import (
	"sort"

	"github.com/Dosada05/tournament-engine/models"
)

// GroupLookup resolves group-rank and best-runner-up references from group
// standings. A group rank resolves once its group is complete; runner-up ranks
// need every group complete.
type GroupLookup struct {
	Groups         []models.Group
	Standings      []models.GroupStandingEntry
	CompleteGroups map[string]bool
}

func (l GroupLookup) allComplete() bool {
	for _, g := range l.Groups {
		if !l.CompleteGroups[g.ID] {
			return false
		}
	}
	return len(l.Groups) > 0
}

func (l GroupLookup) ResolveRef(ref models.SlotRef) (*string, bool) {
	switch ref.Kind {
	case models.RefGroupRank:
		if !l.CompleteGroups[ref.GroupID] {
			return nil, false
		}
		for _, s := range l.Standings {
			if s.GroupID == ref.GroupID && s.GroupRank == ref.Rank {
				return models.Ptr(s.TeamID), true
			}
		}
		return nil, true
	case models.RefBestRunnerUp:
		if !l.allComplete() {
			return nil, false
		}
		ranked := l.RankRunnersUp()
		if ref.Rank < 1 || ref.Rank > len(ranked) {
			return nil, true
		}
		return models.Ptr(ranked[ref.Rank-1].TeamID), true
	}
	return nil, false
}

// RankRunnersUp orders the 2nd placed teams across groups by points, point
// differential, set differential and points won, all descending, then by group
// order.
func (l GroupLookup) RankRunnersUp() []models.GroupStandingEntry {
	order := make(map[string]int, len(l.Groups))
	for i, g := range l.Groups {
		order[g.ID] = i
	}
	var seconds []models.GroupStandingEntry
	for _, s := range l.Standings {
		if s.GroupRank == 2 {
			seconds = append(seconds, s)
		}
	}
	sort.SliceStable(seconds, func(i, j int) bool {
		a, b := seconds[i], seconds[j]
		if a.Points != b.Points {
			return a.Points > b.Points
		}
		if a.PointDiff() != b.PointDiff() {
			return a.PointDiff() > b.PointDiff()
		}
		if a.SetDiff() != b.SetDiff() {
			return a.SetDiff() > b.SetDiff()
		}
		if a.PointsWon != b.PointsWon {
			return a.PointsWon > b.PointsWon
		}
		return order[a.GroupID] < order[b.GroupID]
	})
	return seconds
}
