package brackets

import (
	"fmt"

	"github.com/Dosada05/tournament-engine/models"
)

// Sub-bracket labels of the short main round.
const (
	BracketTop       = "top"
	BracketSecondary = "secondary"
	BracketLowest    = "lowest"
)

type ShortMainGenerator struct{}

func NewShortMainGenerator() BracketGenerator {
	return &ShortMainGenerator{}
}

func (g *ShortMainGenerator) GetName() string {
	return "ShortMainRound"
}

// GenerateBracket builds the hybrid main round after a group phase of 3 or 4
// teams per group. Group winners go straight to the top bracket; the 2nd of
// group k plays the 3rd of group k+1 in a qualification round whose winners
// join the top bracket and whose losers form the secondary bracket. The 4th
// places form the lowest bracket. Each bracket is a placement tree over its own
// band of places.
func (g *ShortMainGenerator) GenerateBracket(params GenerateBracketParams) (*Bracket, error) {
	groups := params.Groups
	if len(groups) < 2 {
		return nil, fmt.Errorf("ShortMainGenerator: %d groups: %w", len(groups), ErrUnsupportedGroupCount)
	}
	if len(groups) > 8 {
		return nil, fmt.Errorf("ShortMainGenerator: %d groups: %w", len(groups), ErrUnsupportedGroupCount)
	}
	if params.GroupSize != 3 && params.GroupSize != 4 {
		return nil, fmt.Errorf("ShortMainGenerator: group size %d: %w", params.GroupSize, ErrUnsupportedGroupSize)
	}

	gc := len(groups)
	num := newNumberer(tournamentIDOf(params.Tournament), 1)
	var matches []models.Match

	qualIDs := make([]string, 0, gc)
	for gi := range groups {
		next := (gi + 1) % gc
		id, number := num.take()
		m := models.Match{
			ID:            id,
			Round:         1,
			MatchNumber:   number,
			Scores:        []models.SetScore{},
			KnockoutRound: models.KnockoutQualification,
			Bracket:       BracketTop,
		}
		placeNode(num, &m, models.SideA, refNode(models.GroupRank(groups[gi].ID, 2)))
		placeNode(num, &m, models.SideB, refNode(models.GroupRank(groups[next].ID, 3)))
		m.Status = initialStatus(&m)
		matches = append(matches, m)
		qualIDs = append(qualIDs, id)
	}

	plan := &KnockoutPlan{}
	for gi, grp := range groups {
		plan.Direct = append(plan.Direct, models.GroupRank(grp.ID, 1))
		plan.DirectGroup = append(plan.DirectGroup, gi)
	}
	top, topPlaces := buildPlacementTree(num, plan.entrants(qualIDs), treeOptions{bracket: BracketTop, roundOffset: 1, firstPlace: 1})
	matches = append(matches, top...)

	secondary := make([]node, 0, gc)
	for _, id := range qualIDs {
		secondary = append(secondary, refNode(models.LoserOf(id)))
	}
	sec, secPlaces := buildPlacementTree(num, secondary, treeOptions{bracket: BracketSecondary, roundOffset: 1, firstPlace: 2*gc + 1})
	matches = append(matches, sec...)

	placements := append(topPlaces, secPlaces...)
	if params.GroupSize == 4 {
		lowest := make([]node, 0, gc)
		for _, grp := range groups {
			lowest = append(lowest, refNode(models.GroupRank(grp.ID, 4)))
		}
		low, lowPlaces := buildPlacementTree(num, lowest, treeOptions{bracket: BracketLowest, roundOffset: 1, firstPlace: 3*gc + 1})
		matches = append(matches, low...)
		placements = append(placements, lowPlaces...)
	}

	assignCourts(matches, courtsOf(params.Tournament))
	return &Bracket{Matches: matches, Placements: placements}, nil
}
