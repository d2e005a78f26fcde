package engine

import (
	"github.com/Dosada05/tournament-engine/brackets"
	"github.com/Dosada05/tournament-engine/models"
	"github.com/Dosada05/tournament-engine/standings"
)

// RecordMatchScore stores the running set scores of a match and marks it in
// progress. Unknown or completed matches are left alone.
type RecordMatchScore struct {
	TournamentID string            `json:"tournament_id"`
	MatchID      string            `json:"match_id"`
	Scores       []models.SetScore `json:"scores"`
}

func (RecordMatchScore) Kind() string { return KindRecordMatchScore }

func (c RecordMatchScore) apply(s *models.Snapshot) error {
	t, err := findTournament(s, c.TournamentID)
	if err != nil {
		return err
	}
	m, ok := t.MatchByID(c.MatchID)
	if !ok || m.IsCompleted() || !m.HasBothTeams() {
		return nil
	}
	if err := validateScores(t, c.Scores); err != nil {
		return err
	}
	m.Scores = append([]models.SetScore{}, c.Scores...)
	if len(m.Scores) > 0 {
		m.Status = models.MatchStatusInProgress
	} else {
		m.Status = models.MatchStatusScheduled
	}
	touch(t)
	return nil
}

// CompleteMatch finalizes a match. Scores, when given, replace the recorded
// ones. The winner is the side with more sets, then more points. Completion
// cascades through dependent matches, standings and linked phases.
type CompleteMatch struct {
	TournamentID string            `json:"tournament_id"`
	MatchID      string            `json:"match_id"`
	Scores       []models.SetScore `json:"scores,omitempty"`
}

func (CompleteMatch) Kind() string { return KindCompleteMatch }

func (c CompleteMatch) apply(s *models.Snapshot) error {
	t, err := findTournament(s, c.TournamentID)
	if err != nil {
		return err
	}
	m, ok := t.MatchByID(c.MatchID)
	if !ok || m.IsCompleted() || !m.HasBothTeams() {
		return nil
	}
	if c.Scores != nil {
		if err := validateScores(t, c.Scores); err != nil {
			return err
		}
		m.Scores = append([]models.SetScore{}, c.Scores...)
	}
	winner, err := decideWinner(m)
	if err != nil {
		return wrapf(err, "match %s", m.ID)
	}
	m.WinnerID = winner
	m.Status = models.MatchStatusCompleted
	touch(t)
	return settle(s, t)
}

func validateScores(t *models.Tournament, scores []models.SetScore) error {
	if len(scores) > t.SetsPerMatch {
		return wrapf(ErrInvalidScore, "%d sets, match allows %d", len(scores), t.SetsPerMatch)
	}
	for i, set := range scores {
		if set.TeamA < 0 || set.TeamB < 0 {
			return wrapf(ErrInvalidScore, "set %d: negative points", i+1)
		}
		if set.TeamA == set.TeamB {
			return wrapf(ErrInvalidScore, "set %d: tied at %d", i+1, set.TeamA)
		}
	}
	return nil
}

func decideWinner(m *models.Match) (*string, error) {
	setsA, setsB, pointsA, pointsB := m.SetTotals()
	switch {
	case setsA > setsB:
		return models.Ptr(*m.TeamAID), nil
	case setsB > setsA:
		return models.Ptr(*m.TeamBID), nil
	case pointsA > pointsB:
		return models.Ptr(*m.TeamAID), nil
	case pointsB > pointsA:
		return models.Ptr(*m.TeamBID), nil
	}
	return nil, ErrUndecidedMatch
}

// GenerateNextSwissRound pairs the next round once the current one is done.
type GenerateNextSwissRound struct {
	TournamentID string `json:"tournament_id"`
}

func (GenerateNextSwissRound) Kind() string { return KindGenerateNextSwissRound }

func (c GenerateNextSwissRound) apply(s *models.Snapshot) error {
	t, err := findTournament(s, c.TournamentID)
	if err != nil {
		return err
	}
	if t.System != models.SystemSwiss {
		return wrapf(ErrUnsupportedSystem, "tournament %q is %s", t.ID, t.System)
	}
	if t.Status == models.StatusConfiguration {
		return wrapf(ErrTournamentNotStarted, "tournament %q", t.ID)
	}
	round := t.CurrentRound()
	for i := range t.Matches {
		if t.Matches[i].Round == round && !t.Matches[i].IsCompleted() {
			return wrapf(ErrRoundNotCompleted, "round %d", round)
		}
	}
	present := models.PresentTeams(t.Teams)
	if limit := brackets.SwissRoundLimit(t, len(present)); round >= limit {
		return wrapf(ErrSwissRoundLimit, "%d of %d rounds played", round, limit)
	}

	b, err := brackets.NewSwissGenerator().GenerateBracket(brackets.GenerateBracketParams{
		Tournament: t,
		Teams:      present,
		Standings:  standings.Calculate(present, t.Matches, standings.OptionsFor(t)),
		History:    t.Matches,
	})
	if err != nil {
		return wrapf(err, "round %d", round+1)
	}
	t.Matches = append(t.Matches, b.Matches...)
	t.Status = models.StatusInProgress
	touch(t)
	return settle(s, t)
}
