package schedule

import (
	"sort"

	"github.com/Dosada05/tournament-engine/models"
)

// AssignReferees picks a referee for every match whose teams are known. The
// referee is a present team that does not play in the same time slot,
// preferring the match's group, then the fewest duties so far, then seed.
// Matches need TimeSlot set.
func AssignReferees(t *models.Tournament) {
	groupOf := make(map[string]string)
	for _, g := range t.Groups {
		for _, id := range g.TeamIDs {
			groupOf[id] = g.ID
		}
	}
	candidates := models.PresentTeams(t.Teams)
	sort.SliceStable(candidates, func(i, j int) bool { return candidates[i].Seed < candidates[j].Seed })

	bySlot := make(map[int][]int)
	var slotOrder []int
	for _, i := range Order(t.Matches) {
		m := &t.Matches[i]
		m.RefereeTeamID = nil
		if m.TimeSlot == nil {
			continue
		}
		if _, ok := bySlot[*m.TimeSlot]; !ok {
			slotOrder = append(slotOrder, *m.TimeSlot)
		}
		bySlot[*m.TimeSlot] = append(bySlot[*m.TimeSlot], i)
	}

	duties := make(map[string]int, len(candidates))
	for _, slot := range slotOrder {
		busy := make(map[string]bool)
		for _, i := range bySlot[slot] {
			m := &t.Matches[i]
			if m.TeamAID != nil {
				busy[*m.TeamAID] = true
			}
			if m.TeamBID != nil {
				busy[*m.TeamBID] = true
			}
		}
		for _, i := range bySlot[slot] {
			m := &t.Matches[i]
			if !m.HasBothTeams() || m.Walkover {
				continue
			}
			best := ""
			for _, c := range candidates {
				if busy[c.ID] {
					continue
				}
				if best == "" || better(c.ID, best, m.GroupID, groupOf, duties) {
					best = c.ID
				}
			}
			if best == "" {
				continue
			}
			m.RefereeTeamID = models.Ptr(best)
			busy[best] = true
			duties[best]++
		}
	}
}

// better reports whether a beats b as referee; candidates arrive in seed order
// so equal candidates keep the earlier one.
func better(a, b, group string, groupOf map[string]string, duties map[string]int) bool {
	if group != "" {
		ag, bg := groupOf[a] == group, groupOf[b] == group
		if ag != bg {
			return ag
		}
	}
	return duties[a] < duties[b]
}
