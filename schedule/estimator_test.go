package schedule

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Dosada05/tournament-engine/models"
)

func TestSetMinutes(t *testing.T) {
	tests := []struct {
		points int
		want   int
	}{
		{11, 8},
		{15, 12},
		{21, 20},
		{25, 25},
		{30, 27},
		{9, 9},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprintf("%d points", tt.points), func(t *testing.T) {
			assert.Equal(t, tt.want, SetMinutes(tt.points))
		})
	}
}

func TestMatchMinutes(t *testing.T) {
	assert.Equal(t, 20, Settings{SetsPerMatch: 1, PointsPerSet: 21}.MatchMinutes())
	assert.Equal(t, 40, Settings{SetsPerMatch: 2, PointsPerSet: 21}.MatchMinutes())
	assert.Equal(t, 52, Settings{SetsPerMatch: 3, PointsPerSet: 21, PointsPerThirdSet: 15}.MatchMinutes())
	assert.Equal(t, 60, Settings{SetsPerMatch: 3, PointsPerSet: 21}.MatchMinutes())
	assert.Equal(t, 30, Settings{SetsPerMatch: 3, PointsPerSet: 21, SetMinutes: 10}.MatchMinutes())
}

func TestEstimateAt(t *testing.T) {
	s := Settings{SetsPerMatch: 1, PointsPerSet: 21, Courts: 2, BreakMinutes: 5}
	start, err := ParseClock("09:00")
	require.NoError(t, err)

	e := s.EstimateAt(6, start)
	assert.Equal(t, Estimate{
		Matches:      6,
		Courts:       2,
		TimeSlots:    3,
		MatchMinutes: 20,
		TotalMinutes: 70,
		StartTime:    "09:00",
		EndTime:      "10:10",
	}, e)

	empty := s.EstimateAt(0, start)
	assert.Zero(t, empty.TotalMinutes)
	assert.Equal(t, "09:00", empty.EndTime)
}

func TestClock(t *testing.T) {
	for _, in := range []string{"9", "24:00", "12:60", "ab:10", "12:5"} {
		_, err := ParseClock(in)
		assert.ErrorIs(t, err, ErrInvalidClock, in)
	}
	m, err := ParseClock(" 07:45 ")
	require.NoError(t, err)
	assert.Equal(t, 465, m)

	assert.Equal(t, "00:30", FormatClock(24*60+30))
	assert.Equal(t, "23:00", FormatClock(-60))
}

func matchesFor(n int) []models.Match {
	out := make([]models.Match, n)
	for i := range out {
		out[i] = models.Match{ID: fmt.Sprintf("m%d", i+1), Round: i/2 + 1, MatchNumber: i + 1}
	}
	return out
}

func TestAssign(t *testing.T) {
	matches := matchesFor(5)
	// out of order on purpose
	matches[0], matches[4] = matches[4], matches[0]
	s := Settings{SetsPerMatch: 1, PointsPerSet: 21, Courts: 2, BreakMinutes: 10}

	slots := Assign(matches, s, 8*60)
	require.Len(t, slots, 5)
	var got []int
	var courts []int
	for _, sl := range slots {
		got = append(got, sl.TimeSlot)
		courts = append(courts, sl.Court)
	}
	assert.Equal(t, []int{0, 0, 1, 1, 2}, got)
	assert.Equal(t, []int{1, 2, 1, 2, 1}, courts)
	assert.Equal(t, "m1", slots[0].MatchID)
	assert.Equal(t, "09:00", slots[4].StartTime)

	byID := map[string]models.Match{}
	for _, m := range matches {
		byID[m.ID] = m
	}
	assert.Equal(t, 2, *byID["m5"].TimeSlot)
	assert.Equal(t, "08:30", byID["m3"].ScheduledTime)
}

func TestAssignCourtMatchesSlot(t *testing.T) {
	matches := matchesFor(5)
	for i := range matches {
		matches[i].Round = 1
	}
	// per-round courts: the third match onward had none
	matches[0].CourtNumber = models.Ptr(1)
	matches[1].CourtNumber = models.Ptr(2)
	s := Settings{SetsPerMatch: 1, PointsPerSet: 21, Courts: 2}

	slots := Assign(matches, s, 9*60)
	byID := map[string]models.Match{}
	for _, m := range matches {
		byID[m.ID] = m
	}
	for _, sl := range slots {
		m := byID[sl.MatchID]
		require.NotNil(t, m.CourtNumber, sl.MatchID)
		assert.Equal(t, sl.Court, *m.CourtNumber, sl.MatchID)
	}
	assert.Equal(t, 1, *byID["m3"].CourtNumber)
	assert.Equal(t, 1, *byID["m5"].CourtNumber)
}

func TestEstimatePhases(t *testing.T) {
	groups := &models.Tournament{
		ID:             "g",
		NumberOfCourts: 2,
		SetsPerMatch:   1,
		PointsPerSet:   21,
		Matches:        matchesFor(12),
		Scheduling:     &models.SchedulingConfig{StartTime: "10:00", BreakMinutes: 5},
	}
	knockout := &models.Tournament{
		ID:             "g-ko",
		NumberOfCourts: 2,
		SetsPerMatch:   1,
		PointsPerSet:   15,
		Matches:        matchesFor(4),
		Scheduling:     &models.SchedulingConfig{StartTime: "08:00"},
	}

	got, err := EstimatePhases([]*models.Tournament{groups, knockout}, 30)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "10:00", got[0].StartTime)
	assert.Equal(t, 6*25-5, got[0].TotalMinutes)
	assert.Equal(t, "12:25", got[0].EndTime)
	assert.Equal(t, "12:55", got[1].StartTime)
	assert.Equal(t, 24, got[1].TotalMinutes)

	groups.Scheduling.StartTime = "noon"
	_, err = EstimatePhases([]*models.Tournament{groups}, 0)
	require.ErrorIs(t, err, ErrInvalidClock)
}

func TestPlanWithReferees(t *testing.T) {
	tour := &models.Tournament{
		ID:             "rr",
		NumberOfCourts: 1,
		SetsPerMatch:   1,
		PointsPerSet:   21,
		Teams: []models.Team{
			{ID: "a", Seed: 1, IsPresent: true},
			{ID: "b", Seed: 2, IsPresent: true},
			{ID: "c", Seed: 3, IsPresent: true},
		},
		Matches: []models.Match{
			{ID: "m1", Round: 1, MatchNumber: 1, TeamAID: models.Ptr("a"), TeamBID: models.Ptr("b")},
			{ID: "m2", Round: 2, MatchNumber: 2, TeamAID: models.Ptr("a"), TeamBID: models.Ptr("c")},
			{ID: "m3", Round: 3, MatchNumber: 3, TeamAID: models.Ptr("b"), TeamBID: models.Ptr("c")},
			{ID: "m4", Round: 4, MatchNumber: 4, TeamBID: models.Ptr("c")},
		},
		Scheduling: &models.SchedulingConfig{AssignReferees: true},
	}

	slots, err := Plan(tour)
	require.NoError(t, err)
	require.Len(t, slots, 4)
	assert.Equal(t, "09:00", slots[0].StartTime)
	assert.Equal(t, "09:20", slots[1].StartTime)

	want := []string{"c", "b", "a"}
	for i, w := range want {
		require.NotNil(t, slots[i].RefereeTeamID)
		assert.Equal(t, w, *slots[i].RefereeTeamID)
		assert.Equal(t, w, *tour.Matches[i].RefereeTeamID)
	}
	assert.Nil(t, slots[3].RefereeTeamID)
}

func TestAssignRefereesPrefersGroupAndFewestDuties(t *testing.T) {
	tour := &models.Tournament{
		Teams: []models.Team{
			{ID: "a1", Seed: 1, IsPresent: true},
			{ID: "b1", Seed: 2, IsPresent: true},
			{ID: "a2", Seed: 3, IsPresent: true},
			{ID: "a3", Seed: 4, IsPresent: true},
			{ID: "b2", Seed: 5, IsPresent: false},
		},
		Groups: []models.Group{
			{ID: "A", TeamIDs: []string{"a1", "a2", "a3"}},
			{ID: "B", TeamIDs: []string{"b1", "b2"}},
		},
		Matches: []models.Match{
			{ID: "m1", Round: 1, MatchNumber: 1, GroupID: "A", TeamAID: models.Ptr("a1"), TeamBID: models.Ptr("a2"), TimeSlot: models.Ptr(0)},
			{ID: "m2", Round: 2, MatchNumber: 2, GroupID: "A", TeamAID: models.Ptr("a1"), TeamBID: models.Ptr("a3"), TimeSlot: models.Ptr(1)},
			{ID: "m3", Round: 3, MatchNumber: 3, GroupID: "B", TeamAID: models.Ptr("b1"), TeamBID: models.Ptr("b2"), TimeSlot: models.Ptr(2)},
		},
	}
	AssignReferees(tour)

	assert.Equal(t, "a3", *tour.Matches[0].RefereeTeamID)
	assert.Equal(t, "a2", *tour.Matches[1].RefereeTeamID)
	// no free group B team; a1 has no duties yet
	assert.Equal(t, "a1", *tour.Matches[2].RefereeTeamID)
}
