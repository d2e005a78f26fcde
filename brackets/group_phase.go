package brackets

import (
	"fmt"

	"github.com/Dosada05/tournament-engine/models"
)

type GroupPhaseGenerator struct{}

func NewGroupPhaseGenerator() BracketGenerator {
	return &GroupPhaseGenerator{}
}

func (g *GroupPhaseGenerator) GetName() string {
	return "GroupPhase"
}

// GenerateBracket seeds teams into groups and plays a round-robin inside each
// group. Rounds are interleaved across groups so parallel courts run different
// groups at the same time.
func (g *GroupPhaseGenerator) GenerateBracket(params GenerateBracketParams) (*Bracket, error) {
	cfg := models.GroupPhaseConfig{TeamsPerGroup: 4, Seeding: models.SeedingSnake}
	if params.Tournament != nil && params.Tournament.GroupPhase != nil {
		cfg = *params.Tournament.GroupPhase
	}

	ids := models.TeamIDs(params.Teams)
	var teamGroups [][]string
	switch cfg.Seeding {
	case models.SeedingManual:
		groups, err := ManualGroups(ids, cfg.ManualGroups)
		if err != nil {
			return nil, err
		}
		if len(groups) < 2 || len(groups) > 8 {
			return nil, fmt.Errorf("%d manual groups: %w", len(groups), ErrGroupCountOutOfRange)
		}
		teamGroups = groups
	default:
		count, err := GroupCount(len(ids), cfg.TeamsPerGroup, cfg.AllowByes)
		if err != nil {
			return nil, err
		}
		if cfg.Seeding == models.SeedingRandom {
			seed := cfg.RandomSeed
			if seed == 0 {
				seed = SeedFromID(tournamentIDOf(params.Tournament))
			}
			teamGroups = RandomGroups(ids, count, seed)
		} else {
			teamGroups = SnakeGroups(ids, count)
		}
	}

	groups := buildGroups(teamGroups, cfg.TeamsPerGroup)
	matches := interleaveGroupMatches(tournamentIDOf(params.Tournament), groups)
	assignCourts(matches, courtsOf(params.Tournament))
	return &Bracket{Matches: matches, Groups: groups}, nil
}

// interleaveGroupMatches emits group A round 1, group B round 1, ... then
// round 2 and so on.
func interleaveGroupMatches(tournamentID string, groups []models.Group) []models.Match {
	perGroup := make([][][][2]string, len(groups))
	maxRounds := 0
	for i, g := range groups {
		perGroup[i] = circleRounds(g.TeamIDs)
		if len(perGroup[i]) > maxRounds {
			maxRounds = len(perGroup[i])
		}
	}

	num := newNumberer(tournamentID, 1)
	var matches []models.Match
	for r := 0; r < maxRounds; r++ {
		for gi, rounds := range perGroup {
			if r >= len(rounds) {
				continue
			}
			for _, p := range rounds[r] {
				matches = append(matches, newPairMatch(num, r+1, p, groups[gi].ID))
			}
		}
	}
	return matches
}
