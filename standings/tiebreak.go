package standings

import (
	"sort"

	"github.com/Dosada05/tournament-engine/models"
)

// stage scores every entry of a tied run; higher is better.
type stage func(run []*row) map[string]int

type row struct {
	entry models.StandingEntry
	seed  int
}

func byPoints(run []*row) map[string]int {
	return scoreEach(run, func(r *row) int { return r.entry.Points })
}

func byPointDiff(run []*row) map[string]int {
	return scoreEach(run, func(r *row) int { return r.entry.PointDiff() })
}

func bySetDiff(run []*row) map[string]int {
	return scoreEach(run, func(r *row) int { return r.entry.SetDiff() })
}

func byPointsWon(run []*row) map[string]int {
	return scoreEach(run, func(r *row) int { return r.entry.PointsWon })
}

func bySeed(run []*row) map[string]int {
	return scoreEach(run, func(r *row) int { return -r.seed })
}

// byHeadToHead counts wins in the mini-league of the tied teams.
func byHeadToHead(matches []models.Match) stage {
	return func(run []*row) map[string]int {
		in := make(map[string]bool, len(run))
		for _, r := range run {
			in[r.entry.TeamID] = true
		}
		wins := make(map[string]int, len(run))
		for i := range matches {
			m := &matches[i]
			if !m.Counted() || m.WinnerID == nil {
				continue
			}
			if in[*m.TeamAID] && in[*m.TeamBID] {
				wins[*m.WinnerID]++
			}
		}
		return wins
	}
}

func scoreEach(run []*row, f func(*row) int) map[string]int {
	out := make(map[string]int, len(run))
	for _, r := range run {
		out[r.entry.TeamID] = f(r)
	}
	return out
}

// stagesFor returns the tiebreak chain applied after points.
func stagesFor(tiebreaker models.Tiebreaker, matches []models.Match) []stage {
	if tiebreaker == models.TiebreakPointDiffFirst {
		return []stage{byPointDiff, byHeadToHead(matches), bySetDiff, byPointsWon, bySeed}
	}
	return []stage{byHeadToHead(matches), byPointDiff, bySetDiff, byPointsWon, bySeed}
}

// sortRun orders run by the first stage and recurses into every sub-run that
// is still level.
func sortRun(run []*row, stages []stage) {
	if len(run) < 2 || len(stages) == 0 {
		return
	}
	scores := stages[0](run)
	sort.SliceStable(run, func(i, j int) bool {
		return scores[run[i].entry.TeamID] > scores[run[j].entry.TeamID]
	})
	start := 0
	for i := 1; i <= len(run); i++ {
		if i == len(run) || scores[run[i].entry.TeamID] != scores[run[start].entry.TeamID] {
			sortRun(run[start:i], stages[1:])
			start = i
		}
	}
}
