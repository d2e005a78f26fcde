package brackets

import (
	"fmt"

	"github.com/Dosada05/tournament-engine/models"
)

// KnockoutPlan is the fixed template for a group count and group size.
type KnockoutPlan struct {
	// Direct entrants in seed order.
	Direct []*models.SlotRef
	// Intermediate pairs, one match each; the winner joins the main bracket.
	Intermediate [][2]*models.SlotRef
	// DirectGroup is the source group index of each direct entrant.
	DirectGroup []int
}

// middleRanks are the group ranks that play the intermediate round.
func rankTemplate(groupSize int) (direct []int, middle []int) {
	if groupSize == 5 {
		return []int{1, 2}, []int{3, 4}
	}
	return []int{1}, []int{2, 3}
}

// NewKnockoutPlan builds the template for groupCount groups of groupSize teams.
//
// Two groups of four cross over into semifinals (A1-B2, B1-A2). Other sizes
// with two groups, and three or four groups, send the direct ranks to the main
// bracket and pair the middle ranks of neighbouring groups in an intermediate
// round. Five to eight groups send the
// group winners plus the best 8-G runners-up to the quarterfinals.
func NewKnockoutPlan(groups []models.Group, groupSize int) (*KnockoutPlan, error) {
	g := len(groups)
	if g < 2 || g > 8 {
		return nil, fmt.Errorf("%d groups: %w", g, ErrUnsupportedGroupCount)
	}
	if groupSize < 3 || groupSize > 5 {
		return nil, fmt.Errorf("group size %d: %w", groupSize, ErrUnsupportedGroupSize)
	}

	plan := &KnockoutPlan{}
	addDirect := func(gi, rank int) {
		plan.Direct = append(plan.Direct, models.GroupRank(groups[gi].ID, rank))
		plan.DirectGroup = append(plan.DirectGroup, gi)
	}

	switch {
	case g == 2 && groupSize == 4:
		for _, rank := range []int{1, 2} {
			for gi := range groups {
				addDirect(gi, rank)
			}
		}
	case g <= 4:
		direct, middle := rankTemplate(groupSize)
		for _, rank := range direct {
			for gi := range groups {
				addDirect(gi, rank)
			}
		}
		for gi := range groups {
			next := (gi + 1) % g
			plan.Intermediate = append(plan.Intermediate, [2]*models.SlotRef{
				models.GroupRank(groups[gi].ID, middle[0]),
				models.GroupRank(groups[next].ID, middle[1]),
			})
		}
	default:
		for gi := range groups {
			addDirect(gi, 1)
		}
		for k := 1; k <= 8-g; k++ {
			plan.Direct = append(plan.Direct, models.BestRunnerUp(k))
			plan.DirectGroup = append(plan.DirectGroup, -1)
		}
	}
	return plan, nil
}

// entrants orders direct entrants and intermediate winners by seed. A direct
// entrant from group g that meets an intermediate winner in the first round is
// matched with intermediate g+1, which never involves group g when there are at
// least three groups.
func (p *KnockoutPlan) entrants(intermediateIDs []string) []node {
	total := len(p.Direct) + len(intermediateIDs)
	seeds := make([]node, total)
	filled := make([]bool, total)
	for i, ref := range p.Direct {
		seeds[i] = refNode(ref)
		filled[i] = true
	}
	if len(intermediateIDs) == 0 {
		return seeds
	}

	used := make([]bool, len(intermediateIDs))
	size := nextPow2(total)
	for i := range p.Direct {
		opp := size - i // 1-based seed of the first-round opponent
		if opp <= len(p.Direct) || opp > total || p.DirectGroup[i] < 0 {
			continue
		}
		want := (p.DirectGroup[i] + 1) % len(intermediateIDs)
		if used[want] || filled[opp-1] {
			continue
		}
		seeds[opp-1] = refNode(models.WinnerOf(intermediateIDs[want]))
		filled[opp-1] = true
		used[want] = true
	}
	next := 0
	for i := range seeds {
		if filled[i] {
			continue
		}
		for used[next] {
			next++
		}
		seeds[i] = refNode(models.WinnerOf(intermediateIDs[next]))
		used[next] = true
	}
	return seeds
}

type KnockoutGenerator struct{}

func NewKnockoutGenerator() BracketGenerator {
	return &KnockoutGenerator{}
}

func (g *KnockoutGenerator) GetName() string {
	return "GroupKnockout"
}

// GenerateBracket builds the knockout phase that follows a group phase. Every
// slot depends on a group rank, a best runner-up or a prior knockout match.
func (g *KnockoutGenerator) GenerateBracket(params GenerateBracketParams) (*Bracket, error) {
	if len(params.Groups) == 0 {
		return nil, ErrMissingGroups
	}
	plan, err := NewKnockoutPlan(params.Groups, params.GroupSize)
	if err != nil {
		return nil, fmt.Errorf("KnockoutGenerator: %w", err)
	}

	num := newNumberer(tournamentIDOf(params.Tournament), 1)
	var matches []models.Match
	intermediateIDs := make([]string, 0, len(plan.Intermediate))
	for _, pair := range plan.Intermediate {
		id, number := num.take()
		m := models.Match{
			ID:            id,
			Round:         1,
			MatchNumber:   number,
			Scores:        []models.SetScore{},
			KnockoutRound: models.KnockoutIntermediate,
		}
		placeNode(num, &m, models.SideA, refNode(pair[0]))
		placeNode(num, &m, models.SideB, refNode(pair[1]))
		m.Status = initialStatus(&m)
		matches = append(matches, m)
		intermediateIDs = append(intermediateIDs, id)
	}

	opts := eliminationOptions{}
	if len(intermediateIDs) > 0 {
		opts.roundOffset = 1
	}
	if params.Tournament != nil && params.Tournament.Knockout != nil {
		opts.thirdPlace = params.Tournament.Knockout.ThirdPlaceMatch
	}
	matches = append(matches, buildElimination(num, plan.entrants(intermediateIDs), opts)...)
	assignCourts(matches, courtsOf(params.Tournament))
	return &Bracket{Matches: matches}, nil
}
