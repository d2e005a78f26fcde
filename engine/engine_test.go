package engine

import (
	"fmt"
	"sort"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Dosada05/tournament-engine/models"
)

func teamInputs(n int) []TeamInput {
	teams := make([]TeamInput, n)
	for i := range teams {
		teams[i] = TeamInput{ID: fmt.Sprintf("team%02d", i+1), Name: fmt.Sprintf("Team %d", i+1)}
	}
	return teams
}

func mustApply(t *testing.T, s models.Snapshot, cmd Command) models.Snapshot {
	t.Helper()
	next, err := Apply(s, cmd)
	require.NoError(t, err, cmd.Kind())
	return next
}

func tournament(t *testing.T, s models.Snapshot, id string) *models.Tournament {
	t.Helper()
	tt, ok := s.Tournament(id)
	require.True(t, ok, "tournament %s", id)
	return tt
}

// playOut completes every playable match of a tournament with side A winning
// until none is left.
func playOut(t *testing.T, s models.Snapshot, id string) models.Snapshot {
	t.Helper()
	for guard := 0; guard < 1000; guard++ {
		tt := tournament(t, s, id)
		var open *models.Match
		for i := range tt.Matches {
			m := &tt.Matches[i]
			if !m.IsCompleted() && m.HasBothTeams() {
				open = m
				break
			}
		}
		if open == nil {
			return s
		}
		s = mustApply(t, s, CompleteMatch{
			TournamentID: id,
			MatchID:      open.ID,
			Scores:       []models.SetScore{{TeamA: 21, TeamB: 15}},
		})
	}
	t.Fatalf("tournament %s did not finish", id)
	return s
}

func TestApplyDoesNotMutateInput(t *testing.T) {
	s := mustApply(t, models.Snapshot{}, CreateTournament{ID: "rr", System: models.SystemRoundRobin, Teams: teamInputs(4)})
	before := s.Clone()

	_ = mustApply(t, s, StartTournament{TournamentID: "rr"})
	assert.Empty(t, cmp.Diff(before, s))

	_, err := Apply(s, CompleteMatch{TournamentID: "missing", MatchID: "x"})
	require.ErrorIs(t, err, ErrTournamentNotFound)
	assert.Empty(t, cmp.Diff(before, s))
}

func TestRoundRobinScenario(t *testing.T) {
	s := mustApply(t, models.Snapshot{}, CreateTournament{ID: "rr", System: models.SystemRoundRobin, NumberOfCourts: 2, Teams: teamInputs(4)})
	s = mustApply(t, s, StartTournament{TournamentID: "rr"})

	rr := tournament(t, s, "rr")
	require.Len(t, rr.Matches, 6)
	assert.Equal(t, models.StatusInProgress, rr.Status)
	perRound := map[int]int{}
	for _, m := range rr.Matches {
		perRound[m.Round]++
		assert.Equal(t, models.MatchStatusScheduled, m.Status)
		assert.NotEmpty(t, m.ScheduledTime)
	}
	assert.Equal(t, map[int]int{1: 2, 2: 2, 3: 2}, perRound)

	s = playOut(t, s, "rr")
	rr = tournament(t, s, "rr")
	assert.Equal(t, models.StatusCompleted, rr.Status)
	for _, e := range rr.Standings {
		assert.Equal(t, 3, e.Played)
		assert.Equal(t, e.Played, e.Won+e.Lost)
	}
}

func TestGroupPhaseWithKnockoutScenario(t *testing.T) {
	s := mustApply(t, models.Snapshot{}, CreateTournament{
		ID:         "cup",
		System:     models.SystemGroupPhase,
		Teams:      teamInputs(8),
		GroupPhase: &models.GroupPhaseConfig{TeamsPerGroup: 4, FollowUp: models.FollowUpKnockout},
		Knockout:   &models.KnockoutConfig{ThirdPlaceMatch: true},
	})
	s = mustApply(t, s, StartTournament{TournamentID: "cup"})

	cup := tournament(t, s, "cup")
	require.Len(t, cup.Groups, 2)
	require.Len(t, cup.Matches, 12)
	assert.Equal(t, models.ContainerID("cup"), cup.ContainerID)

	ko := tournament(t, s, "cup-ko")
	assert.Equal(t, "cup", ko.ParentPhaseID)
	assert.Equal(t, 2, ko.PhaseOrder)
	tags := map[models.KnockoutRound]int{}
	for _, m := range ko.Matches {
		tags[m.KnockoutRound]++
		assert.Equal(t, models.MatchStatusPending, m.Status)
		assert.Nil(t, m.TeamAID)
	}
	assert.Equal(t, map[models.KnockoutRound]int{
		models.KnockoutSemifinal:  2,
		models.KnockoutThirdPlace: 1,
		models.KnockoutFinal:      1,
	}, tags)

	s = playOut(t, s, "cup")
	assert.Equal(t, models.StatusCompleted, tournament(t, s, "cup").Status)

	ko = tournament(t, s, "cup-ko")
	assert.Len(t, ko.EliminatedTeamIDs, 4)
	for _, m := range ko.Matches {
		if m.KnockoutRound == models.KnockoutSemifinal {
			assert.Equal(t, models.MatchStatusScheduled, m.Status)
			assert.True(t, m.HasBothTeams())
		}
	}
	c, ok := s.Container(models.ContainerID("cup"))
	require.True(t, ok)
	assert.Equal(t, models.StatusInProgress, c.Status)
	assert.Equal(t, 1, c.CurrentPhaseIndex)

	s = playOut(t, s, "cup-ko")
	ko = tournament(t, s, "cup-ko")
	assert.Equal(t, models.StatusCompleted, ko.Status)
	places := make([]int, 0, len(ko.Placements))
	for _, p := range ko.Placements {
		places = append(places, p.Place)
	}
	assert.Equal(t, []int{1, 2, 3, 4}, places)

	c, _ = s.Container(models.ContainerID("cup"))
	assert.Equal(t, models.StatusCompleted, c.Status)
}

func TestPlacementTreeScenario(t *testing.T) {
	s := mustApply(t, models.Snapshot{}, CreateTournament{ID: "pt", System: models.SystemPlacementTree, NumberOfCourts: 4, Teams: teamInputs(16)})
	s = mustApply(t, s, StartTournament{TournamentID: "pt"})
	require.Len(t, tournament(t, s, "pt").Matches, 32)

	s = playOut(t, s, "pt")
	pt := tournament(t, s, "pt")
	assert.Equal(t, models.StatusCompleted, pt.Status)

	require.Len(t, pt.Placements, 16)
	teams := map[string]bool{}
	for i, p := range pt.Placements {
		assert.Equal(t, i+1, p.Place)
		teams[p.TeamID] = true
	}
	assert.Len(t, teams, 16)
}

func TestSwissScenario(t *testing.T) {
	s := mustApply(t, models.Snapshot{}, CreateTournament{
		ID:     "sw",
		System: models.SystemSwiss,
		Teams:  teamInputs(7),
		Swiss:  &models.SwissConfig{NumberOfRounds: 3},
	})
	s = mustApply(t, s, StartTournament{TournamentID: "sw"})
	require.Len(t, tournament(t, s, "sw").Matches, 3)

	_, err := Apply(s, GenerateNextSwissRound{TournamentID: "sw"})
	require.ErrorIs(t, err, ErrRoundNotCompleted)

	for round := 2; round <= 3; round++ {
		s = playOut(t, s, "sw")
		assert.Equal(t, models.StatusInProgress, tournament(t, s, "sw").Status)
		s = mustApply(t, s, GenerateNextSwissRound{TournamentID: "sw"})
		assert.Equal(t, round, tournament(t, s, "sw").CurrentRound())
	}
	s = playOut(t, s, "sw")

	sw := tournament(t, s, "sw")
	assert.Equal(t, models.StatusCompleted, sw.Status)
	require.Len(t, sw.Matches, 9)
	pairs := map[string]bool{}
	for _, m := range sw.Matches {
		ids := []string{*m.TeamAID, *m.TeamBID}
		sort.Strings(ids)
		key := ids[0] + "|" + ids[1]
		assert.False(t, pairs[key], "rematch %s", key)
		pairs[key] = true
	}

	_, err = Apply(s, GenerateNextSwissRound{TournamentID: "sw"})
	require.ErrorIs(t, err, ErrSwissRoundLimit)
}

func TestCommandNoOps(t *testing.T) {
	s := mustApply(t, models.Snapshot{}, CreateTournament{ID: "rr", System: models.SystemRoundRobin, Teams: teamInputs(4)})
	s = mustApply(t, s, StartTournament{TournamentID: "rr"})
	first := tournament(t, s, "rr").Matches[0].ID
	s = mustApply(t, s, CompleteMatch{TournamentID: "rr", MatchID: first, Scores: []models.SetScore{{TeamA: 21, TeamB: 19}}})

	tests := []struct {
		name string
		cmd  Command
	}{
		{"start started tournament", StartTournament{TournamentID: "rr"}},
		{"complete completed match", CompleteMatch{TournamentID: "rr", MatchID: first, Scores: []models.SetScore{{TeamA: 0, TeamB: 21}}}},
		{"score unknown match", RecordMatchScore{TournamentID: "rr", MatchID: "nope", Scores: []models.SetScore{{TeamA: 1}}}},
		{"complete unknown match", CompleteMatch{TournamentID: "rr", MatchID: "nope"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			next := mustApply(t, s, tt.cmd)
			assert.Empty(t, cmp.Diff(s, next))
		})
	}
}

func TestCommandErrors(t *testing.T) {
	s := mustApply(t, models.Snapshot{}, CreateTournament{ID: "rr", System: models.SystemRoundRobin, Teams: teamInputs(3)})
	s = mustApply(t, s, SetTeamPresence{TournamentID: "rr", TeamID: "team01", IsPresent: false})
	s = mustApply(t, s, SetTeamPresence{TournamentID: "rr", TeamID: "team02", IsPresent: false})

	tests := []struct {
		name string
		cmd  Command
		want error
	}{
		{"duplicate tournament", CreateTournament{ID: "rr", System: models.SystemRoundRobin}, ErrDuplicateTournament},
		{"unknown system", CreateTournament{ID: "x", System: "ladder"}, ErrUnsupportedSystem},
		{"standalone short main", CreateTournament{ID: "x", System: models.SystemShortMain}, ErrUnsupportedSystem},
		{"duplicate team", AddTeam{TournamentID: "rr", Team: TeamInput{ID: "team01"}}, ErrDuplicateTeam},
		{"not enough present teams", StartTournament{TournamentID: "rr"}, ErrNotEnoughPresentTeams},
		{"group config on round robin", UpdateGroupConfiguration{TournamentID: "rr"}, ErrUnsupportedSystem},
		{"swiss round on round robin", GenerateNextSwissRound{TournamentID: "rr"}, ErrUnsupportedSystem},
		{"playoff before start", CreatePlayoffPhase{TournamentID: "rr"}, ErrTournamentNotStarted},
		{"group size", CreateTournament{ID: "g", System: models.SystemGroupPhase, GroupPhase: &models.GroupPhaseConfig{TeamsPerGroup: 6}}, ErrInvalidGroupSize},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			next, err := Apply(s, tt.cmd)
			require.ErrorIs(t, err, tt.want)
			assert.Empty(t, cmp.Diff(s, next))
		})
	}
}

func TestStartRejectsIndivisibleGroups(t *testing.T) {
	s := mustApply(t, models.Snapshot{}, CreateTournament{
		ID:         "g",
		System:     models.SystemGroupPhase,
		Teams:      teamInputs(10),
		GroupPhase: &models.GroupPhaseConfig{TeamsPerGroup: 4},
	})
	_, err := Apply(s, StartTournament{TournamentID: "g"})
	require.ErrorIs(t, err, ErrTeamCountNotDivisible)
}

func TestCompleteMatchNeedsWinner(t *testing.T) {
	s := mustApply(t, models.Snapshot{}, CreateTournament{ID: "rr", System: models.SystemRoundRobin, SetsPerMatch: 2, Teams: teamInputs(2)})
	s = mustApply(t, s, StartTournament{TournamentID: "rr"})
	id := tournament(t, s, "rr").Matches[0].ID

	_, err := Apply(s, CompleteMatch{TournamentID: "rr", MatchID: id, Scores: []models.SetScore{{TeamA: 21, TeamB: 10}, {TeamA: 10, TeamB: 21}}})
	require.ErrorIs(t, err, ErrUndecidedMatch)

	_, err = Apply(s, CompleteMatch{TournamentID: "rr", MatchID: id, Scores: []models.SetScore{{TeamA: 21, TeamB: 10}, {TeamA: 10, TeamB: 21}, {TeamA: 15, TeamB: 5}}})
	require.ErrorIs(t, err, ErrInvalidScore)

	s = mustApply(t, s, RecordMatchScore{TournamentID: "rr", MatchID: id, Scores: []models.SetScore{{TeamA: 21, TeamB: 10}}})
	m, _ := tournament(t, s, "rr").MatchByID(id)
	assert.Equal(t, models.MatchStatusInProgress, m.Status)

	s = mustApply(t, s, CompleteMatch{TournamentID: "rr", MatchID: id, Scores: []models.SetScore{{TeamA: 21, TeamB: 10}, {TeamA: 19, TeamB: 21}}})
	m, _ = tournament(t, s, "rr").MatchByID(id)
	require.NotNil(t, m.WinnerID)
	assert.Equal(t, "team01", *m.WinnerID)
	assert.Equal(t, models.StatusCompleted, tournament(t, s, "rr").Status)
}

func TestTiedSetIsRejected(t *testing.T) {
	s := mustApply(t, models.Snapshot{}, CreateTournament{ID: "rr", System: models.SystemRoundRobin, SetsPerMatch: 3, Teams: teamInputs(2)})
	s = mustApply(t, s, StartTournament{TournamentID: "rr"})
	id := tournament(t, s, "rr").Matches[0].ID
	tied := []models.SetScore{{TeamA: 21, TeamB: 21}, {TeamA: 21, TeamB: 10}}

	_, err := Apply(s, CompleteMatch{TournamentID: "rr", MatchID: id, Scores: tied})
	require.ErrorIs(t, err, ErrInvalidScore)

	_, err = Apply(s, RecordMatchScore{TournamentID: "rr", MatchID: id, Scores: tied})
	require.ErrorIs(t, err, ErrInvalidScore)

	m, _ := tournament(t, s, "rr").MatchByID(id)
	assert.Empty(t, m.Scores)
	assert.False(t, m.IsCompleted())

	s = mustApply(t, s, CompleteMatch{TournamentID: "rr", MatchID: id, Scores: []models.SetScore{{TeamA: 21, TeamB: 19}, {TeamA: 21, TeamB: 10}}})
	for _, st := range tournament(t, s, "rr").Standings {
		assert.Equal(t, 2, st.SetsWon+st.SetsLost, st.TeamID)
	}
}

func TestResetRemovesLinkedPhases(t *testing.T) {
	s := mustApply(t, models.Snapshot{}, CreateTournament{
		ID:         "cup",
		System:     models.SystemGroupPhase,
		Teams:      teamInputs(8),
		GroupPhase: &models.GroupPhaseConfig{TeamsPerGroup: 4, FollowUp: models.FollowUpPlacementTree},
	})
	s = mustApply(t, s, StartTournament{TournamentID: "cup"})
	require.Len(t, s.Tournaments, 2)
	require.Len(t, s.Containers, 1)

	_, err := Apply(s, ResetTournament{TournamentID: "cup-pt"})
	require.ErrorIs(t, err, ErrLinkedPhase)

	s = mustApply(t, s, ResetTournament{TournamentID: "cup"})
	require.Len(t, s.Tournaments, 1)
	assert.Empty(t, s.Containers)
	cup := tournament(t, s, "cup")
	assert.Equal(t, models.StatusConfiguration, cup.Status)
	assert.Empty(t, cup.Matches)
	assert.Empty(t, cup.ContainerID)

	s = mustApply(t, s, StartTournament{TournamentID: "cup"})
	assert.Len(t, s.Tournaments, 2)
}

func TestPlayoffPhase(t *testing.T) {
	s := mustApply(t, models.Snapshot{}, CreateTournament{ID: "rr", System: models.SystemRoundRobin, Teams: teamInputs(5)})
	s = mustApply(t, s, StartTournament{TournamentID: "rr"})
	s = playOut(t, s, "rr")

	s = mustApply(t, s, CreatePlayoffPhase{TournamentID: "rr", TopN: 4})
	again := mustApply(t, s, CreatePlayoffPhase{TournamentID: "rr", TopN: 4})
	assert.Empty(t, cmp.Diff(s, again))

	po := tournament(t, s, PlayoffPhaseID("rr"))
	require.Len(t, po.Matches, 2)
	rr := tournament(t, s, "rr")
	assert.Equal(t, rr.Standings[0].TeamID, *po.Matches[0].TeamAID)
	assert.Equal(t, rr.Standings[1].TeamID, *po.Matches[0].TeamBID)

	s = playOut(t, s, po.ID)
	po = tournament(t, s, po.ID)
	assert.Equal(t, models.StatusCompleted, po.Status)
	assert.Len(t, po.Placements, 4)
}

func TestRosterCommands(t *testing.T) {
	s := mustApply(t, models.Snapshot{}, CreateTournament{ID: "rr", System: models.SystemRoundRobin, Teams: teamInputs(3)})
	s = mustApply(t, s, AddTeam{TournamentID: "rr", Team: TeamInput{Name: "Walk-in"}})
	s = mustApply(t, s, RemoveTeam{TournamentID: "rr", TeamID: "team02"})
	s = mustApply(t, s, ReorderTeams{TournamentID: "rr", TeamIDs: []string{"rr-t4", "team03", "team01"}})

	rr := tournament(t, s, "rr")
	assert.Equal(t, []models.Team{
		{ID: "rr-t4", Name: "Walk-in", Seed: 1, IsPresent: true},
		{ID: "team03", Name: "Team 3", Seed: 2, IsPresent: true},
		{ID: "team01", Name: "Team 1", Seed: 3, IsPresent: true},
	}, rr.Teams)

	_, err := Apply(s, ReorderTeams{TournamentID: "rr", TeamIDs: []string{"team01"}})
	require.ErrorIs(t, err, ErrInvalidCommand)

	s = mustApply(t, s, StartTournament{TournamentID: "rr"})
	_, err = Apply(s, AddTeam{TournamentID: "rr", Team: TeamInput{ID: "late"}})
	require.ErrorIs(t, err, ErrTournamentAlreadyStarted)
}

func TestMerge(t *testing.T) {
	base := mustApply(t, models.Snapshot{}, CreateTournament{ID: "a", System: models.SystemRoundRobin, Teams: teamInputs(4)})
	base = mustApply(t, base, CreateTournament{ID: "b", System: models.SystemRoundRobin, Teams: teamInputs(4)})

	local := mustApply(t, base, StartTournament{TournamentID: "a"})
	remote := mustApply(t, base, StartTournament{TournamentID: "b"})
	remote = mustApply(t, remote, CreateTournament{ID: "c", System: models.SystemSwiss, Teams: teamInputs(4)})

	merged := Merge(local, remote)
	require.Len(t, merged.Tournaments, 3)
	assert.Equal(t, []string{"a", "b", "c"}, []string{merged.Tournaments[0].ID, merged.Tournaments[1].ID, merged.Tournaments[2].ID})
	assert.Equal(t, models.StatusInProgress, tournament(t, merged, "a").Status)
	assert.Equal(t, models.StatusInProgress, tournament(t, merged, "b").Status)

	assert.Empty(t, cmp.Diff(local, Merge(local, local)))
	assert.Empty(t, cmp.Diff(merged, Merge(merged, base)))
}

func TestChanged(t *testing.T) {
	s := mustApply(t, models.Snapshot{}, CreateTournament{ID: "cup", System: models.SystemGroupPhase, Teams: teamInputs(8),
		GroupPhase: &models.GroupPhaseConfig{FollowUp: models.FollowUpKnockout}})
	next := mustApply(t, s, StartTournament{TournamentID: "cup"})
	assert.ElementsMatch(t, []string{"cup", "cup-ko"}, Changed(s, next))
	assert.Empty(t, Changed(next, next))
}

func TestFollowUpPhaseRevisionMovesOnlyWithItsSlots(t *testing.T) {
	s := mustApply(t, models.Snapshot{}, CreateTournament{ID: "cup", System: models.SystemGroupPhase, Teams: teamInputs(8),
		GroupPhase: &models.GroupPhaseConfig{TeamsPerGroup: 4, FollowUp: models.FollowUpKnockout}})
	s = mustApply(t, s, StartTournament{TournamentID: "cup"})
	rev := tournament(t, s, "cup-ko").Revision

	first := tournament(t, s, "cup").Matches[0]
	next := mustApply(t, s, CompleteMatch{TournamentID: "cup", MatchID: first.ID, Scores: []models.SetScore{{TeamA: 21, TeamB: 15}}})
	assert.Equal(t, []string{"cup"}, Changed(s, next))
	assert.Equal(t, rev, tournament(t, next, "cup-ko").Revision)

	done := playOut(t, next, "cup")
	assert.Greater(t, tournament(t, done, "cup-ko").Revision, rev)
	assert.Contains(t, Changed(next, done), "cup-ko")
}

func TestEnvelopeRoundTrip(t *testing.T) {
	env, err := Encode(CompleteMatch{TournamentID: "rr", MatchID: "rr-m1", Scores: []models.SetScore{{TeamA: 21, TeamB: 3}}})
	require.NoError(t, err)
	assert.Equal(t, KindCompleteMatch, env.Kind)

	cmd, err := Decode(env)
	require.NoError(t, err)
	assert.Equal(t, CompleteMatch{TournamentID: "rr", MatchID: "rr-m1", Scores: []models.SetScore{{TeamA: 21, TeamB: 3}}}, cmd)

	_, err = Decode(Envelope{Kind: "drop_tables"})
	require.ErrorIs(t, err, ErrUnknownCommand)

	_, err = Decode(Envelope{Kind: KindStartTournament, Payload: []byte(`{"tournament_id": 7}`)})
	require.ErrorIs(t, err, ErrInvalidCommand)

	assert.Len(t, Kinds(), 13)
}
