package brackets

import (
	"fmt"

	"github.com/Dosada05/tournament-engine/models"
)

type GenerateBracketParams struct {
	Tournament *models.Tournament
	// Teams are the entrants in seed order.
	Teams []models.Team
	// Groups are the source groups of a group-fed bracket.
	Groups []models.Group
	// GroupSize is the configured teams-per-group of the source phase.
	GroupSize int
	// Standings drive Swiss pairing and playoff seeding.
	Standings []models.StandingEntry
	// History is the match list already played (Swiss).
	History []models.Match
}

// Bracket is the output of a generator.
type Bracket struct {
	Matches           []models.Match
	Groups            []models.Group
	Placements        []models.Placement
	EliminatedTeamIDs []string
}

type BracketGenerator interface {
	GenerateBracket(params GenerateBracketParams) (*Bracket, error)

	GetName() string
}

// NewGenerator returns the generator for a tournament system.
func NewGenerator(system models.TournamentSystem) (BracketGenerator, error) {
	switch system {
	case models.SystemRoundRobin:
		return NewRoundRobinGenerator(), nil
	case models.SystemSwiss:
		return NewSwissGenerator(), nil
	case models.SystemGroupPhase:
		return NewGroupPhaseGenerator(), nil
	case models.SystemKnockout:
		return NewSingleEliminationGenerator(), nil
	case models.SystemPlacementTree:
		return NewPlacementTreeGenerator(), nil
	case models.SystemShortMain:
		return NewShortMainGenerator(), nil
	case models.SystemPlayoff:
		return NewPlayoffGenerator(), nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnsupportedSystem, system)
}

// numberer hands out monotonic match numbers and derived ids.
type numberer struct {
	tournamentID string
	next         int
	numbers      map[string]int
}

func newNumberer(tournamentID string, first int) *numberer {
	if first < 1 {
		first = 1
	}
	return &numberer{tournamentID: tournamentID, next: first, numbers: make(map[string]int)}
}

func (n *numberer) take() (string, int) {
	num := n.next
	n.next++
	id := models.MatchID(n.tournamentID, num)
	n.numbers[id] = num
	return id, num
}

// label renders the placeholder of an unresolved slot.
func (n *numberer) label(ref *models.SlotRef) string {
	if ref == nil {
		return ""
	}
	if ref.Kind == models.RefMatch {
		if num, ok := n.numbers[ref.MatchID]; ok {
			if ref.Result == models.ResultLoser {
				return fmt.Sprintf("Loser #%d", num)
			}
			return fmt.Sprintf("Winner #%d", num)
		}
	}
	return ref.Label()
}

// assignCourts gives the k-th match of each round court k+1 while courts last.
func assignCourts(matches []models.Match, courts int) {
	perRound := make(map[int]int)
	for i := range matches {
		k := perRound[matches[i].Round]
		perRound[matches[i].Round]++
		if k < courts {
			matches[i].CourtNumber = models.Ptr(k + 1)
		} else {
			matches[i].CourtNumber = nil
		}
	}
}

func courtsOf(t *models.Tournament) int {
	if t == nil {
		return 0
	}
	return t.NumberOfCourts
}

func tournamentIDOf(t *models.Tournament) string {
	if t == nil {
		return "t"
	}
	return t.ID
}

// initialStatus derives scheduled or pending from slot contents.
func initialStatus(m *models.Match) models.MatchStatus {
	if m.HasBothTeams() {
		return models.MatchStatusScheduled
	}
	return models.MatchStatusPending
}
