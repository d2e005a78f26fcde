package brackets

import (
	"fmt"

	"github.com/Dosada05/tournament-engine/models"
)

// node is one entrant position while a bracket is being built. A node holds a
// known team, a reference resolved later, or a structural bye. A node with none
// of these is filled at runtime by interval flow; label is its placeholder.
type node struct {
	teamID *string
	ref    *models.SlotRef
	bye    bool
	label  string
}

func teamNode(id string) node {
	return node{teamID: models.Ptr(id)}
}

func refNode(ref *models.SlotRef) node {
	return node{ref: ref}
}

var byeNode = node{bye: true}

// seededLevel places entrants (in seed order) on the first level of a bracket
// of the next power of two. Missing seeds become byes.
func seededLevel(entrants []node) []node {
	size := nextPow2(len(entrants))
	level := make([]node, size)
	for i, seed := range SeedPositions(size) {
		if seed <= len(entrants) {
			level[i] = entrants[seed-1]
		} else {
			level[i] = byeNode
		}
	}
	return level
}

func placeNode(num *numberer, m *models.Match, side models.Side, n node) {
	switch {
	case n.teamID != nil:
		m.SetTeam(side, models.Ptr(*n.teamID))
	case n.ref != nil:
		if m.DependsOn == nil {
			m.DependsOn = &models.Dependency{}
		}
		ref := *n.ref
		if side == models.SideA {
			m.DependsOn.TeamA = &ref
		} else {
			m.DependsOn.TeamB = &ref
		}
		m.SetPlaceholder(side, num.label(&ref))
	case n.label != "":
		m.SetPlaceholder(side, n.label)
	}
}

func eliminationTag(size int) models.KnockoutRound {
	switch size {
	case 2:
		return models.KnockoutFinal
	case 4:
		return models.KnockoutSemifinal
	case 8:
		return models.KnockoutQuarterfinal
	case 16:
		return models.KnockoutRoundOf16
	}
	return models.KnockoutRound(fmt.Sprintf("round_of_%d", size))
}

type eliminationOptions struct {
	bracket     string
	roundOffset int
	thirdPlace  bool
}

// buildElimination builds a single-elimination bracket over entrants given in
// seed order. Pairings against a structural bye emit no match; the entrant moves
// on. Later slots depend on the winner of the feeding match. The final and the
// third-place match carry width-1 intervals that fix places 1 to 4.
func buildElimination(num *numberer, entrants []node, opts eliminationOptions) []models.Match {
	level := seededLevel(entrants)
	var matches []models.Match
	var semis []int
	round := opts.roundOffset

	emit := func(a, b node, tag models.KnockoutRound) string {
		id, number := num.take()
		m := models.Match{
			ID:            id,
			Round:         round,
			MatchNumber:   number,
			Scores:        []models.SetScore{},
			KnockoutRound: tag,
			Bracket:       opts.bracket,
		}
		placeNode(num, &m, models.SideA, a)
		placeNode(num, &m, models.SideB, b)
		m.Status = initialStatus(&m)
		matches = append(matches, m)
		return id
	}

	for len(level) > 1 {
		round++
		if len(level) == 2 && opts.thirdPlace && len(semis) == 2 {
			emit(refNode(models.LoserOf(matches[semis[0]].ID)), refNode(models.LoserOf(matches[semis[1]].ID)), models.KnockoutThirdPlace)
			third := &matches[len(matches)-1]
			third.PlacementInterval = models.NewInterval(3, 4)
			third.WinnerInterval = models.NewInterval(3, 3)
			third.LoserInterval = models.NewInterval(4, 4)
		}

		tag := eliminationTag(len(level))
		next := make([]node, 0, len(level)/2)
		var emitted []int
		for i := 0; i < len(level); i += 2 {
			a, b := level[i], level[i+1]
			switch {
			case a.bye && b.bye:
				next = append(next, byeNode)
			case b.bye:
				next = append(next, a)
			case a.bye:
				next = append(next, b)
			default:
				emitted = append(emitted, len(matches))
				next = append(next, refNode(models.WinnerOf(emit(a, b, tag))))
			}
		}

		switch len(level) {
		case 4:
			semis = emitted
			if opts.thirdPlace && len(semis) == 1 {
				matches[semis[0]].LoserInterval = models.NewInterval(3, 3)
			}
		case 2:
			if len(emitted) == 1 {
				final := &matches[emitted[0]]
				final.PlacementInterval = models.NewInterval(1, 2)
				final.WinnerInterval = models.NewInterval(1, 1)
				final.LoserInterval = models.NewInterval(2, 2)
			}
		}
		level = next
	}
	return matches
}

type SingleEliminationGenerator struct{}

func NewSingleEliminationGenerator() BracketGenerator {
	return &SingleEliminationGenerator{}
}

func (g *SingleEliminationGenerator) GetName() string {
	return "SingleElimination"
}

// GenerateBracket seeds the teams into a single-elimination bracket. Top seeds
// receive the byes when the team count is not a power of two.
func (g *SingleEliminationGenerator) GenerateBracket(params GenerateBracketParams) (*Bracket, error) {
	if len(params.Teams) < 2 {
		return nil, fmt.Errorf("SingleEliminationGenerator: not enough teams (found %d, min 2 required): %w", len(params.Teams), ErrNotEnoughTeams)
	}

	entrants := make([]node, len(params.Teams))
	for i, t := range params.Teams {
		entrants[i] = teamNode(t.ID)
	}
	opts := eliminationOptions{}
	if params.Tournament != nil && params.Tournament.Knockout != nil {
		opts.thirdPlace = params.Tournament.Knockout.ThirdPlaceMatch
	}

	num := newNumberer(tournamentIDOf(params.Tournament), 1)
	matches := buildElimination(num, entrants, opts)
	assignCourts(matches, courtsOf(params.Tournament))
	return &Bracket{Matches: matches}, nil
}
