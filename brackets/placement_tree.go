package brackets

import (
	"fmt"

	"github.com/Dosada05/tournament-engine/models"
)

type treeOptions struct {
	bracket     string
	roundOffset int
	firstPlace  int
}

type treeTask struct {
	interval models.Interval
	level    []node
}

// buildPlacementTree plays out every placement in [firstPlace, firstPlace+N-1].
// Each match splits its interval: the winner moves on to the upper half and the
// loser to the lower half, at position/2 of the next level. Pairings against a
// structural bye are not emitted, so byes sink to the bottom places.
func buildPlacementTree(num *numberer, entrants []node, opts treeOptions) ([]models.Match, []models.Placement) {
	first := opts.firstPlace
	if first < 1 {
		first = 1
	}
	top := seededLevel(entrants)
	current := []treeTask{{interval: models.Interval{Start: first, End: first + len(top) - 1}, level: top}}

	var matches []models.Match
	var placements []models.Placement
	for depth := 1; len(current) > 0; depth++ {
		var next []treeTask
		for _, task := range current {
			if len(task.level) == 1 {
				if n := task.level[0]; n.teamID != nil {
					placements = append(placements, models.Placement{TeamID: *n.teamID, Place: task.interval.Start})
				}
				continue
			}
			half := len(task.level) / 2
			winners := make([]node, half)
			losers := make([]node, half)
			for pos := 0; pos < half; pos++ {
				a, b := task.level[2*pos], task.level[2*pos+1]
				switch {
				case a.bye && b.bye:
					winners[pos], losers[pos] = byeNode, byeNode
				case b.bye:
					winners[pos], losers[pos] = a, byeNode
				case a.bye:
					winners[pos], losers[pos] = b, byeNode
				default:
					id, number := num.take()
					iv := task.interval
					m := models.Match{
						ID:                id,
						Round:             opts.roundOffset + depth,
						MatchNumber:       number,
						Scores:            []models.SetScore{},
						KnockoutRound:     treeTag(iv),
						PlacementInterval: models.NewInterval(iv.Start, iv.End),
						WinnerInterval:    models.Ptr(iv.WinnerHalf()),
						LoserInterval:     models.Ptr(iv.LoserHalf()),
						BracketPosition:   pos,
						Bracket:           opts.bracket,
					}
					placeNode(num, &m, models.SideA, a)
					placeNode(num, &m, models.SideB, b)
					m.Status = initialStatus(&m)
					matches = append(matches, m)
					winners[pos] = node{label: fmt.Sprintf("Winner #%d", number)}
					losers[pos] = node{label: fmt.Sprintf("Loser #%d", number)}
				}
			}
			next = append(next,
				treeTask{interval: task.interval.WinnerHalf(), level: winners},
				treeTask{interval: task.interval.LoserHalf(), level: losers},
			)
		}
		current = next
	}
	return matches, placements
}

func treeTag(iv models.Interval) models.KnockoutRound {
	switch {
	case iv.Start == 1 && iv.End == 2:
		return models.KnockoutFinal
	case iv.Start == 3 && iv.End == 4:
		return models.KnockoutThirdPlace
	}
	return models.KnockoutPlacement
}

// rankMajorRefs orders group ranks A1, B1, ..., A2, B2, ...
func rankMajorRefs(groups []models.Group, ranks int) []node {
	out := make([]node, 0, len(groups)*ranks)
	for rank := 1; rank <= ranks; rank++ {
		for _, g := range groups {
			out = append(out, refNode(models.GroupRank(g.ID, rank)))
		}
	}
	return out
}

type PlacementTreeGenerator struct{}

func NewPlacementTreeGenerator() BracketGenerator {
	return &PlacementTreeGenerator{}
}

func (g *PlacementTreeGenerator) GetName() string {
	return "PlacementTree"
}

// GenerateBracket builds a tree that decides every place from 1 to N. Entrants
// are the teams in seed order, or the group ranks of the source groups when the
// tree follows a group phase.
func (g *PlacementTreeGenerator) GenerateBracket(params GenerateBracketParams) (*Bracket, error) {
	var entrants []node
	if len(params.Groups) > 0 {
		size := params.GroupSize
		if size == 0 {
			for _, grp := range params.Groups {
				if n := len(grp.TeamIDs) + grp.ByeCount; n > size {
					size = n
				}
			}
		}
		entrants = rankMajorRefs(params.Groups, size)
	} else {
		for _, t := range params.Teams {
			entrants = append(entrants, teamNode(t.ID))
		}
	}
	if len(entrants) < 2 {
		return nil, fmt.Errorf("PlacementTreeGenerator: not enough entrants (found %d): %w", len(entrants), ErrNotEnoughTeams)
	}

	num := newNumberer(tournamentIDOf(params.Tournament), 1)
	matches, placements := buildPlacementTree(num, entrants, treeOptions{firstPlace: 1})
	assignCourts(matches, courtsOf(params.Tournament))
	return &Bracket{Matches: matches, Placements: placements}, nil
}
