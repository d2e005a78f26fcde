package brackets

import (
	"fmt"
	"sort"

	"github.com/Dosada05/tournament-engine/models"
)

// swissSearchBudget caps the backtracking search before falling back to the
// greedy scan with rematches.
const swissSearchBudget = 20000

type SwissGenerator struct{}

func NewSwissGenerator() BracketGenerator {
	return &SwissGenerator{}
}

func (g *SwissGenerator) GetName() string {
	return "Swiss"
}

// GenerateBracket pairs the next Swiss round from the current standings and the
// match history. With an odd team count one team sits the round out.
func (g *SwissGenerator) GenerateBracket(params GenerateBracketParams) (*Bracket, error) {
	if len(params.Teams) < 2 {
		return nil, fmt.Errorf("SwissGenerator: not enough teams (found %d): %w", len(params.Teams), ErrNotEnoughTeams)
	}

	order := SwissOrder(params.Teams, params.Standings)
	played := playedPairs(params.History)

	if len(order)%2 == 1 {
		sitter := pickSitter(order, params.History)
		order = removeID(order, sitter)
	}

	pairs := PairSwiss(order, played)

	round, first := 1, 1
	for _, m := range params.History {
		if m.Round >= round {
			round = m.Round + 1
		}
		if m.MatchNumber >= first {
			first = m.MatchNumber + 1
		}
	}

	num := newNumberer(tournamentIDOf(params.Tournament), first)
	matches := make([]models.Match, 0, len(pairs))
	for _, p := range pairs {
		matches = append(matches, newPairMatch(num, round, p, ""))
	}
	assignCourts(matches, courtsOf(params.Tournament))
	return &Bracket{Matches: matches}, nil
}

// SwissOrder sorts teams by points, set differential and point differential,
// all descending. Ties keep seed order.
func SwissOrder(teams []models.Team, standings []models.StandingEntry) []string {
	byTeam := make(map[string]models.StandingEntry, len(standings))
	for _, s := range standings {
		byTeam[s.TeamID] = s
	}
	sorted := append([]models.Team(nil), teams...)
	sort.SliceStable(sorted, func(i, j int) bool {
		a, b := byTeam[sorted[i].ID], byTeam[sorted[j].ID]
		if a.Points != b.Points {
			return a.Points > b.Points
		}
		if a.SetDiff() != b.SetDiff() {
			return a.SetDiff() > b.SetDiff()
		}
		return a.PointDiff() > b.PointDiff()
	})
	return models.TeamIDs(sorted)
}

type pairKey struct{ a, b string }

func keyOf(a, b string) pairKey {
	if a > b {
		a, b = b, a
	}
	return pairKey{a, b}
}

func playedPairs(history []models.Match) map[pairKey]bool {
	played := make(map[pairKey]bool, len(history))
	for _, m := range history {
		if m.HasBothTeams() {
			played[keyOf(*m.TeamAID, *m.TeamBID)] = true
		}
	}
	return played
}

// pickSitter chooses the lowest ranked team among those that sat out least.
func pickSitter(order []string, history []models.Match) string {
	rounds := make(map[int]bool)
	appearances := make(map[string]int, len(order))
	for _, m := range history {
		rounds[m.Round] = true
		if m.TeamAID != nil {
			appearances[*m.TeamAID]++
		}
		if m.TeamBID != nil {
			appearances[*m.TeamBID]++
		}
	}
	sitter, fewest := "", -1
	for i := len(order) - 1; i >= 0; i-- {
		sat := len(rounds) - appearances[order[i]]
		if fewest == -1 || sat < fewest {
			sitter, fewest = order[i], sat
		}
	}
	return sitter
}

// PairSwiss pairs an even-length ordered list. It takes the nearest unplayed
// opponent below each team, backtracking when that choice strands a later team
// with rematches only. When no rematch-free pairing is found within the search
// budget, the greedy scan runs and leftovers are paired in order.
func PairSwiss(order []string, played map[pairKey]bool) [][2]string {
	if pairs, ok := searchPairs(order, played); ok {
		return pairs
	}
	return greedyPairs(order, played)
}

func searchPairs(order []string, played map[pairKey]bool) ([][2]string, bool) {
	used := make([]bool, len(order))
	pairs := make([][2]string, 0, len(order)/2)
	steps := 0

	var solve func() bool
	solve = func() bool {
		i := 0
		for i < len(order) && used[i] {
			i++
		}
		if i == len(order) {
			return true
		}
		used[i] = true
		for j := i + 1; j < len(order); j++ {
			if used[j] || played[keyOf(order[i], order[j])] {
				continue
			}
			steps++
			if steps > swissSearchBudget {
				break
			}
			used[j] = true
			pairs = append(pairs, [2]string{order[i], order[j]})
			if solve() {
				return true
			}
			pairs = pairs[:len(pairs)-1]
			used[j] = false
		}
		used[i] = false
		return false
	}

	if solve() {
		return pairs, true
	}
	return nil, false
}

func greedyPairs(order []string, played map[pairKey]bool) [][2]string {
	used := make([]bool, len(order))
	pairs := make([][2]string, 0, len(order)/2)
	for i := range order {
		if used[i] {
			continue
		}
		for j := i + 1; j < len(order); j++ {
			if !used[j] && !played[keyOf(order[i], order[j])] {
				used[i], used[j] = true, true
				pairs = append(pairs, [2]string{order[i], order[j]})
				break
			}
		}
	}
	var left []string
	for i, id := range order {
		if !used[i] {
			left = append(left, id)
		}
	}
	for i := 0; i+1 < len(left); i += 2 {
		pairs = append(pairs, [2]string{left[i], left[i+1]})
	}
	return pairs
}

func removeID(ids []string, id string) []string {
	out := make([]string, 0, len(ids))
	for _, v := range ids {
		if v != id {
			out = append(out, v)
		}
	}
	return out
}

// SwissRoundLimit is the configured round count or ceil(log2 n).
func SwissRoundLimit(t *models.Tournament, teamCount int) int {
	if t != nil && t.Swiss != nil && t.Swiss.NumberOfRounds > 0 {
		return t.Swiss.NumberOfRounds
	}
	rounds := 0
	for size := 1; size < teamCount; size *= 2 {
		rounds++
	}
	if rounds < 1 {
		rounds = 1
	}
	return rounds
}
