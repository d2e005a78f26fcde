package engine

import (
	"github.com/Dosada05/tournament-engine/brackets"
	"github.com/Dosada05/tournament-engine/models"
)

// CreatePlayoffPhase adds a finals phase seeded from the current standings of
// a started tournament. Repeating the command is a no-op.
type CreatePlayoffPhase struct {
	TournamentID string `json:"tournament_id"`
	TopN         int    `json:"top_n,omitempty"`
}

func (CreatePlayoffPhase) Kind() string { return KindCreatePlayoffPhase }

func PlayoffPhaseID(tournamentID string) string {
	return tournamentID + "-playoff"
}

func (c CreatePlayoffPhase) apply(s *models.Snapshot) error {
	src, err := findTournament(s, c.TournamentID)
	if err != nil {
		return err
	}
	if src.Status == models.StatusConfiguration {
		return wrapf(ErrTournamentNotStarted, "tournament %q", src.ID)
	}
	if c.TopN < 0 || c.TopN == 1 {
		return wrapf(ErrInvalidConfiguration, "top %d", c.TopN)
	}
	id := PlayoffPhaseID(src.ID)
	if _, exists := s.Tournament(id); exists {
		return nil
	}

	child := newPhase(src, id, src.Name+" Finals", models.SystemPlayoff)
	child.Playoff = &models.PlayoffConfig{TopN: c.TopN}
	b, err := brackets.NewPlayoffGenerator().GenerateBracket(brackets.GenerateBracketParams{
		Tournament: &child,
		Teams:      child.Teams,
		Standings:  src.Standings,
	})
	if err != nil {
		return wrapf(err, "playoff of %q", src.ID)
	}
	child.Matches = b.Matches
	child.Placements = b.Placements
	touch(src)
	addPhase(s, src, child)

	created, _ := s.Tournament(id)
	return settle(s, created)
}
