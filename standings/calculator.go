// Package standings folds completed matches into ranked tables.
package standings

import (
	"github.com/Dosada05/tournament-engine/models"
)

type Options struct {
	SetsPerMatch int
	WinPoints    int
	LossPoints   int
	Tiebreaker   models.Tiebreaker
}

// OptionsFor reads the scoring options of a tournament. A zero win value means
// one point per win.
func OptionsFor(t *models.Tournament) Options {
	opts := Options{
		SetsPerMatch: t.SetsPerMatch,
		WinPoints:    t.WinPoints,
		LossPoints:   t.LossPoints,
		Tiebreaker:   t.Tiebreaker,
	}
	if opts.WinPoints == 0 {
		opts.WinPoints = 1
	}
	if opts.SetsPerMatch == 0 {
		opts.SetsPerMatch = 1
	}
	return opts
}

// Calculate ranks teams over the counted matches between them. The order is
// points, then the configured tiebreak chain, ending with seed.
func Calculate(teams []models.Team, matches []models.Match, opts Options) []models.StandingEntry {
	rows := make([]*row, len(teams))
	byTeam := make(map[string]*row, len(teams))
	for i, t := range teams {
		rows[i] = &row{entry: models.StandingEntry{TeamID: t.ID}, seed: t.Seed}
		byTeam[t.ID] = rows[i]
	}

	var counted []models.Match
	for i := range matches {
		m := &matches[i]
		if !m.Counted() {
			continue
		}
		a, aok := byTeam[*m.TeamAID]
		b, bok := byTeam[*m.TeamBID]
		if !aok || !bok {
			continue
		}
		counted = append(counted, *m)

		setsA, setsB, pointsA, pointsB := m.SetTotals()
		a.entry.Played++
		b.entry.Played++
		a.entry.SetsWon += setsA
		a.entry.SetsLost += setsB
		b.entry.SetsWon += setsB
		b.entry.SetsLost += setsA
		a.entry.PointsWon += pointsA
		a.entry.PointsLost += pointsB
		b.entry.PointsWon += pointsB
		b.entry.PointsLost += pointsA
		switch {
		case m.WinnerID == nil:
		case *m.WinnerID == *m.TeamAID:
			a.entry.Won++
			b.entry.Lost++
		default:
			b.entry.Won++
			a.entry.Lost++
		}
	}

	for _, r := range rows {
		if opts.SetsPerMatch == 1 {
			r.entry.Points = r.entry.Won*opts.WinPoints + r.entry.Lost*opts.LossPoints
		} else {
			r.entry.Points = r.entry.SetsWon
		}
	}

	sortRun(rows, append([]stage{byPoints}, stagesFor(opts.Tiebreaker, counted)...))

	out := make([]models.StandingEntry, len(rows))
	for i, r := range rows {
		r.entry.Rank = i + 1
		out[i] = r.entry
	}
	return out
}

// CalculateGroups ranks each group over its own matches.
func CalculateGroups(groups []models.Group, teams []models.Team, matches []models.Match, opts Options) []models.GroupStandingEntry {
	teamByID := make(map[string]models.Team, len(teams))
	for _, t := range teams {
		teamByID[t.ID] = t
	}

	var out []models.GroupStandingEntry
	for _, g := range groups {
		groupTeams := make([]models.Team, 0, len(g.TeamIDs))
		for _, id := range g.TeamIDs {
			if t, ok := teamByID[id]; ok {
				groupTeams = append(groupTeams, t)
			}
		}
		var groupMatches []models.Match
		for i := range matches {
			if matches[i].GroupID == g.ID {
				groupMatches = append(groupMatches, matches[i])
			}
		}
		for _, e := range Calculate(groupTeams, groupMatches, opts) {
			out = append(out, models.GroupStandingEntry{StandingEntry: e, GroupID: g.ID, GroupRank: e.Rank})
		}
	}
	return out
}

// Recompute refreshes the standings of a tournament in place.
func Recompute(t *models.Tournament) {
	opts := OptionsFor(t)
	t.Standings = Calculate(t.Teams, t.Matches, opts)
	if len(t.Groups) > 0 {
		t.GroupStandings = CalculateGroups(t.Groups, t.Teams, t.Matches, opts)
	} else {
		t.GroupStandings = nil
	}
}

// CompleteGroups reports which groups have every match completed.
func CompleteGroups(t *models.Tournament) map[string]bool {
	done := make(map[string]bool, len(t.Groups))
	for _, g := range t.Groups {
		done[g.ID] = true
	}
	for i := range t.Matches {
		m := &t.Matches[i]
		if m.GroupID != "" && !m.IsCompleted() {
			done[m.GroupID] = false
		}
	}
	return done
}
