package brackets

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Dosada05/tournament-engine/models"
)

func playedMatch(round, number int, a, b string) models.Match {
	return models.Match{
		ID:          models.MatchID("sw", number),
		Round:       round,
		MatchNumber: number,
		TeamAID:     models.Ptr(a),
		TeamBID:     models.Ptr(b),
		WinnerID:    models.Ptr(a),
		Status:      models.MatchStatusCompleted,
		Scores:      []models.SetScore{{TeamA: 21, TeamB: 10}},
	}
}

func TestPairSwissAvoidsRematch(t *testing.T) {
	played := map[pairKey]bool{keyOf("a", "b"): true}
	assert.Equal(t, [][2]string{{"a", "c"}, {"b", "d"}}, PairSwiss([]string{"a", "b", "c", "d"}, played))
}

func TestPairSwissBacktracks(t *testing.T) {
	// greedy a-c would strand b with d, a rematch
	played := map[pairKey]bool{
		keyOf("a", "b"): true,
		keyOf("b", "d"): true,
	}
	assert.Equal(t, [][2]string{{"a", "d"}, {"b", "c"}}, PairSwiss([]string{"a", "b", "c", "d"}, played))
}

func TestPairSwissFallsBackToRematches(t *testing.T) {
	played := map[pairKey]bool{}
	ids := []string{"a", "b", "c", "d"}
	for i := range ids {
		for j := i + 1; j < len(ids); j++ {
			played[keyOf(ids[i], ids[j])] = true
		}
	}
	assert.Equal(t, [][2]string{{"a", "b"}, {"c", "d"}}, PairSwiss(ids, played))
}

func TestPickSitter(t *testing.T) {
	order := []string{"a", "b", "c", "d", "e", "f", "g"}
	assert.Equal(t, "g", pickSitter(order, nil))

	history := []models.Match{
		playedMatch(1, 1, "a", "b"),
		playedMatch(1, 2, "c", "d"),
		playedMatch(1, 3, "e", "f"),
	}
	assert.Equal(t, "f", pickSitter(order, history))
}

func TestSwissOrder(t *testing.T) {
	teams := makeTeams(4)
	standings := []models.StandingEntry{
		{TeamID: "t1", Points: 1, PointsWon: 21, PointsLost: 10, SetsWon: 1},
		{TeamID: "t2", Points: 0},
		{TeamID: "t3", Points: 1, PointsWon: 21, PointsLost: 5, SetsWon: 1},
		{TeamID: "t4", Points: 0, PointsWon: 5, PointsLost: 21, SetsLost: 1},
	}
	assert.Equal(t, []string{"t3", "t1", "t2", "t4"}, SwissOrder(teams, standings))
}

func TestSwissGeneratorNextRound(t *testing.T) {
	teams := makeTeams(4)
	history := []models.Match{
		playedMatch(1, 1, "t1", "t2"),
		playedMatch(1, 2, "t3", "t4"),
	}
	standings := []models.StandingEntry{
		{TeamID: "t1", Points: 1, SetsWon: 1, PointsWon: 21, PointsLost: 10},
		{TeamID: "t3", Points: 1, SetsWon: 1, PointsWon: 21, PointsLost: 10},
		{TeamID: "t2", SetsLost: 1, PointsWon: 10, PointsLost: 21},
		{TeamID: "t4", SetsLost: 1, PointsWon: 10, PointsLost: 21},
	}

	b, err := NewSwissGenerator().GenerateBracket(GenerateBracketParams{
		Tournament: &models.Tournament{ID: "sw", NumberOfCourts: 2},
		Teams:      teams,
		Standings:  standings,
		History:    history,
	})
	require.NoError(t, err)
	require.Len(t, b.Matches, 2)

	first, second := b.Matches[0], b.Matches[1]
	assert.Equal(t, 2, first.Round)
	assert.Equal(t, 3, first.MatchNumber)
	assert.Equal(t, "sw-m3", first.ID)
	assert.Equal(t, 4, second.MatchNumber)
	assert.Equal(t, []string{"t1", "t3"}, []string{*first.TeamAID, *first.TeamBID})
	assert.Equal(t, []string{"t2", "t4"}, []string{*second.TeamAID, *second.TeamBID})
	assert.Equal(t, 2, *second.CourtNumber)
}

func TestSwissGeneratorOddTeams(t *testing.T) {
	b, err := NewSwissGenerator().GenerateBracket(GenerateBracketParams{
		Tournament: &models.Tournament{ID: "sw"},
		Teams:      makeTeams(5),
	})
	require.NoError(t, err)
	require.Len(t, b.Matches, 2)
	for _, m := range b.Matches {
		assert.False(t, m.Involves("t5"))
		assert.Equal(t, 1, m.Round)
	}
}

func TestSwissRoundLimit(t *testing.T) {
	assert.Equal(t, 3, SwissRoundLimit(nil, 7))
	assert.Equal(t, 3, SwissRoundLimit(nil, 8))
	assert.Equal(t, 4, SwissRoundLimit(nil, 9))
	assert.Equal(t, 1, SwissRoundLimit(nil, 2))
	assert.Equal(t, 5, SwissRoundLimit(&models.Tournament{Swiss: &models.SwissConfig{NumberOfRounds: 5}}, 7))
}
