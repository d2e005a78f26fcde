package brackets

import (
	"fmt"

	"github.com/Dosada05/tournament-engine/models"
)

type RoundRobinGenerator struct{}

func NewRoundRobinGenerator() BracketGenerator {
	return &RoundRobinGenerator{}
}

func (g *RoundRobinGenerator) GetName() string {
	return "RoundRobin"
}

// GenerateBracket creates matches for a single round-robin using the circle
// method. Each team plays every other team exactly once.
func (g *RoundRobinGenerator) GenerateBracket(params GenerateBracketParams) (*Bracket, error) {
	if len(params.Teams) < 2 {
		return nil, fmt.Errorf("RoundRobinGenerator: not enough teams (found %d, min 2 required): %w", len(params.Teams), ErrNotEnoughTeams)
	}

	num := newNumberer(tournamentIDOf(params.Tournament), 1)
	matches := make([]models.Match, 0, len(params.Teams)*(len(params.Teams)-1)/2)
	for r, pairs := range circleRounds(models.TeamIDs(params.Teams)) {
		for _, p := range pairs {
			matches = append(matches, newPairMatch(num, r+1, p, ""))
		}
	}
	assignCourts(matches, courtsOf(params.Tournament))
	return &Bracket{Matches: matches}, nil
}

// circleRounds returns the pairings of every round. An odd list is padded with
// an empty bye id; pairings against the bye are dropped.
func circleRounds(ids []string) [][][2]string {
	if len(ids) < 2 {
		return nil
	}
	list := append([]string(nil), ids...)
	if len(list)%2 == 1 {
		list = append(list, "")
	}
	n := len(list)
	rounds := make([][][2]string, 0, n-1)
	for r := 0; r < n-1; r++ {
		pairs := make([][2]string, 0, n/2)
		for i := 0; i < n/2; i++ {
			a, b := list[i], list[n-1-i]
			if a == "" || b == "" {
				continue
			}
			// alternate the fixed team's side so it is not always team A
			if i == 0 && r%2 == 1 {
				a, b = b, a
			}
			pairs = append(pairs, [2]string{a, b})
		}
		rounds = append(rounds, pairs)

		// rotate clockwise, list[0] stays fixed
		last := list[n-1]
		copy(list[2:], list[1:n-1])
		list[1] = last
	}
	return rounds
}

func newPairMatch(num *numberer, round int, pair [2]string, groupID string) models.Match {
	id, number := num.take()
	return models.Match{
		ID:          id,
		Round:       round,
		MatchNumber: number,
		TeamAID:     models.Ptr(pair[0]),
		TeamBID:     models.Ptr(pair[1]),
		Scores:      []models.SetScore{},
		Status:      models.MatchStatusScheduled,
		GroupID:     groupID,
	}
}
