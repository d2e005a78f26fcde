package brackets

import (
	"fmt"
	"sort"

	"github.com/Dosada05/tournament-engine/models"
)

type PlayoffGenerator struct{}

func NewPlayoffGenerator() BracketGenerator {
	return &PlayoffGenerator{}
}

func (g *PlayoffGenerator) GetName() string {
	return "Playoff"
}

// GenerateBracket pairs neighbours of the current standings: 1st v 2nd,
// 3rd v 4th and so on. The winner of pair k takes place 2k-1, the loser 2k.
// With an odd count the last team is placed directly.
func (g *PlayoffGenerator) GenerateBracket(params GenerateBracketParams) (*Bracket, error) {
	order := playoffOrder(params.Teams, params.Standings)
	if params.Tournament != nil && params.Tournament.Playoff != nil && params.Tournament.Playoff.TopN > 0 && params.Tournament.Playoff.TopN < len(order) {
		order = order[:params.Tournament.Playoff.TopN]
	}
	if len(order) < 2 {
		return nil, fmt.Errorf("PlayoffGenerator: not enough teams (found %d): %w", len(order), ErrNotEnoughTeams)
	}

	num := newNumberer(tournamentIDOf(params.Tournament), 1)
	bracket := &Bracket{}
	for k := 0; k+1 < len(order); k += 2 {
		id, number := num.take()
		place := k + 1
		bracket.Matches = append(bracket.Matches, models.Match{
			ID:                id,
			Round:             1,
			MatchNumber:       number,
			TeamAID:           models.Ptr(order[k]),
			TeamBID:           models.Ptr(order[k+1]),
			Scores:            []models.SetScore{},
			Status:            models.MatchStatusScheduled,
			KnockoutRound:     playoffTag(place),
			PlacementInterval: models.NewInterval(place, place+1),
			WinnerInterval:    models.NewInterval(place, place),
			LoserInterval:     models.NewInterval(place+1, place+1),
		})
	}
	if len(order)%2 == 1 {
		bracket.Placements = append(bracket.Placements, models.Placement{TeamID: order[len(order)-1], Place: len(order)})
	}
	assignCourts(bracket.Matches, courtsOf(params.Tournament))
	return bracket, nil
}

func playoffTag(place int) models.KnockoutRound {
	switch place {
	case 1:
		return models.KnockoutFinal
	case 3:
		return models.KnockoutThirdPlace
	}
	return models.KnockoutPlacement
}

// playoffOrder ranks teams by standing rank; teams without a standing follow
// in seed order.
func playoffOrder(teams []models.Team, standings []models.StandingEntry) []string {
	rank := make(map[string]int, len(standings))
	for _, s := range standings {
		rank[s.TeamID] = s.Rank
	}
	sorted := append([]models.Team(nil), teams...)
	sort.SliceStable(sorted, func(i, j int) bool {
		ri, iok := rank[sorted[i].ID]
		rj, jok := rank[sorted[j].ID]
		if iok != jok {
			return iok
		}
		return iok && ri < rj
	})
	return models.TeamIDs(sorted)
}
