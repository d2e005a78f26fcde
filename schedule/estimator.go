// Package schedule estimates durations and assigns time slots to matches.
package schedule

import (
	"math"
	"sort"

	"github.com/Dosada05/tournament-engine/models"
)

const DefaultStartTime = "09:00"

// setMinutesByPoints are the observed set lengths per points-to-win value.
var setMinutesByPoints = map[int]int{
	11: 8,
	15: 12,
	21: 20,
	25: 25,
}

// SetMinutes estimates the length of a set played to points.
func SetMinutes(points int) int {
	if m, ok := setMinutesByPoints[points]; ok {
		return m
	}
	return int(math.Ceil(float64(points) * 0.9))
}

type Settings struct {
	SetsPerMatch      int
	PointsPerSet      int
	PointsPerThirdSet int
	// SetMinutes overrides the per-points table when positive.
	SetMinutes   int
	BreakMinutes int
	Courts       int
	StartTime    string
}

func SettingsFor(t *models.Tournament) Settings {
	s := Settings{
		SetsPerMatch:      t.SetsPerMatch,
		PointsPerSet:      t.PointsPerSet,
		PointsPerThirdSet: t.PointsPerThirdSet,
		Courts:            t.NumberOfCourts,
		StartTime:         DefaultStartTime,
	}
	if t.Scheduling != nil {
		s.SetMinutes = t.Scheduling.SetMinutes
		s.BreakMinutes = t.Scheduling.BreakMinutes
		if t.Scheduling.StartTime != "" {
			s.StartTime = t.Scheduling.StartTime
		}
	}
	return s
}

func (s Settings) setLength(points int) int {
	if s.SetMinutes > 0 {
		return s.SetMinutes
	}
	return SetMinutes(points)
}

// MatchMinutes is the planned length of one match. Best-of-three always counts
// the deciding set.
func (s Settings) MatchMinutes() int {
	sets := s.SetsPerMatch
	if sets < 1 {
		sets = 1
	}
	full := s.setLength(s.PointsPerSet)
	if sets < 3 {
		return sets * full
	}
	third := s.PointsPerThirdSet
	if third == 0 {
		third = s.PointsPerSet
	}
	return (sets-1)*full + s.setLength(third)
}

func (s Settings) courts() int {
	if s.Courts < 1 {
		return 1
	}
	return s.Courts
}

// TimeSlots is ceil(matches / courts).
func TimeSlots(matches, courts int) int {
	if courts < 1 {
		courts = 1
	}
	return (matches + courts - 1) / courts
}

// TotalMinutes counts every slot with its break, minus the trailing break.
func TotalMinutes(slots, matchMinutes, breakMinutes int) int {
	if slots == 0 {
		return 0
	}
	return slots*(matchMinutes+breakMinutes) - breakMinutes
}

type Estimate struct {
	TournamentID string `json:"tournament_id"`
	Matches      int    `json:"matches"`
	Courts       int    `json:"courts"`
	TimeSlots    int    `json:"time_slots"`
	MatchMinutes int    `json:"match_minutes"`
	TotalMinutes int    `json:"total_minutes"`
	StartTime    string `json:"start_time"`
	EndTime      string `json:"end_time"`
}

// EstimateAt plans n matches starting at start minutes since midnight.
func (s Settings) EstimateAt(n, start int) Estimate {
	e := Estimate{
		Matches:      n,
		Courts:       s.courts(),
		TimeSlots:    TimeSlots(n, s.courts()),
		MatchMinutes: s.MatchMinutes(),
	}
	e.TotalMinutes = TotalMinutes(e.TimeSlots, e.MatchMinutes, s.BreakMinutes)
	e.StartTime = FormatClock(start)
	e.EndTime = FormatClock(start + e.TotalMinutes)
	return e
}

// EstimateTournament plans every match of t from its configured start time.
func EstimateTournament(t *models.Tournament) (Estimate, error) {
	s := SettingsFor(t)
	start, err := ParseClock(s.StartTime)
	if err != nil {
		return Estimate{}, err
	}
	e := s.EstimateAt(len(t.Matches), start)
	e.TournamentID = t.ID
	return e, nil
}

// EstimatePhases chains phases: each starts breakBetween minutes after the
// previous one ends. The first phase starts at its own configured time.
func EstimatePhases(phases []*models.Tournament, breakBetween int) ([]Estimate, error) {
	out := make([]Estimate, 0, len(phases))
	next := -1
	for _, t := range phases {
		s := SettingsFor(t)
		start := next
		if start < 0 {
			var err error
			if start, err = ParseClock(s.StartTime); err != nil {
				return nil, err
			}
		}
		e := s.EstimateAt(len(t.Matches), start)
		e.TournamentID = t.ID
		out = append(out, e)
		next = start + e.TotalMinutes + breakBetween
	}
	return out, nil
}

type Slot struct {
	MatchID       string  `json:"match_id"`
	TimeSlot      int     `json:"time_slot"`
	Court         int     `json:"court"`
	StartTime     string  `json:"start_time"`
	RefereeTeamID *string `json:"referee_team_id,omitempty"`
}

// Order returns match indexes sorted by round, then match number.
func Order(matches []models.Match) []int {
	idx := make([]int, len(matches))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool {
		ma, mb := &matches[idx[a]], &matches[idx[b]]
		if ma.Round != mb.Round {
			return ma.Round < mb.Round
		}
		return ma.MatchNumber < mb.MatchNumber
	})
	return idx
}

// Assign gives the k-th match in round order slot k / courts and court
// k mod courts + 1, starting at start minutes. It writes TimeSlot,
// ScheduledTime and CourtNumber on the matches and returns the plan. The
// plan's court replaces the per-round court set by the generators.
func Assign(matches []models.Match, s Settings, start int) []Slot {
	courts := s.courts()
	step := s.MatchMinutes() + s.BreakMinutes
	slots := make([]Slot, 0, len(matches))
	for k, i := range Order(matches) {
		m := &matches[i]
		slot, court := k/courts, k%courts+1
		m.TimeSlot = models.Ptr(slot)
		m.CourtNumber = models.Ptr(court)
		m.ScheduledTime = FormatClock(start + slot*step)
		slots = append(slots, Slot{
			MatchID:   m.ID,
			TimeSlot:  slot,
			Court:     court,
			StartTime: m.ScheduledTime,
		})
	}
	return slots
}

// Plan assigns slots to the matches of t, and referees when configured.
func Plan(t *models.Tournament) ([]Slot, error) {
	return PlanAt(t, -1)
}

// PlanAt is Plan with an explicit start; a negative start uses the configured
// start time.
func PlanAt(t *models.Tournament, start int) ([]Slot, error) {
	s := SettingsFor(t)
	if start < 0 {
		var err error
		if start, err = ParseClock(s.StartTime); err != nil {
			return nil, err
		}
	}
	slots := Assign(t.Matches, s, start)
	if t.Scheduling != nil && t.Scheduling.AssignReferees {
		AssignReferees(t)
		referees := make(map[string]*string, len(t.Matches))
		for i := range t.Matches {
			referees[t.Matches[i].ID] = t.Matches[i].RefereeTeamID
		}
		for i := range slots {
			slots[i].RefereeTeamID = referees[slots[i].MatchID]
		}
	}
	return slots, nil
}
