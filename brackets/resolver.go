package brackets

import (
	"fmt"
	"sort"

	"github.com/Dosada05/tournament-engine/models"
)

type edge struct {
	target int
	side   models.Side
	result models.MatchResult
}

type intervalKey struct {
	bracket    string
	start, end int
	pos        int
}

// Graph indexes a flat match slice: ids to positions, sources to their
// dependent slots, and placement intervals to the match playing them. The
// slice is mutated in place.
type Graph struct {
	matches    []models.Match
	byID       map[string]int
	dependents map[int][]edge
	byInterval map[intervalKey]int
}

// NewGraph indexes matches. A match reference to an id outside the slice is an
// integrity error.
func NewGraph(matches []models.Match) (*Graph, error) {
	g := &Graph{
		matches:    matches,
		byID:       make(map[string]int, len(matches)),
		dependents: make(map[int][]edge),
		byInterval: make(map[intervalKey]int),
	}
	for i := range matches {
		g.byID[matches[i].ID] = i
		if iv := matches[i].PlacementInterval; iv != nil {
			g.byInterval[intervalKey{matches[i].Bracket, iv.Start, iv.End, matches[i].BracketPosition}] = i
		}
	}
	for i := range matches {
		for _, side := range []models.Side{models.SideA, models.SideB} {
			ref := matches[i].Ref(side)
			if ref == nil || ref.Kind != models.RefMatch {
				continue
			}
			src, ok := g.byID[ref.MatchID]
			if !ok {
				return nil, fmt.Errorf("match %s slot %d -> %q: %w", matches[i].ID, side, ref.MatchID, ErrDanglingDependency)
			}
			g.dependents[src] = append(g.dependents[src], edge{target: i, side: side, result: ref.Result})
		}
	}
	return g, nil
}

// Index returns the arena position of a match id.
func (g *Graph) Index(id string) (int, bool) {
	i, ok := g.byID[id]
	return i, ok
}

// settler runs one cascade over a graph.
type settler struct {
	g          *Graph
	queue      []int
	queued     []bool
	placements map[string]int
}

func (s *settler) push(i int) {
	if !s.queued[i] {
		s.queued[i] = true
		s.queue = append(s.queue, i)
	}
}

// setSlot writes a team (or a bye when team is nil) into an open slot.
func (s *settler) setSlot(i int, side models.Side, team *string) {
	m := &s.g.matches[i]
	if m.IsCompleted() {
		return
	}
	current := m.Team(side)
	if team == nil {
		if current != nil || m.IsBye(side) {
			return
		}
		m.SetBye(side, true)
		s.push(i)
		return
	}
	if current != nil && *current == *team {
		return
	}
	m.SetTeam(side, models.Ptr(*team))
	m.SetBye(side, false)
	s.push(i)
}

// route moves a team (or a bye) into the interval at the given position. A
// target that was not generated paired the entrant with a structural bye, so the
// entrant advances as its winner.
func (s *settler) route(team *string, bracket string, iv models.Interval, pos int) {
	for {
		if iv.Width() == 1 {
			if team != nil {
				s.placements[*team] = iv.Start
			}
			return
		}
		key := intervalKey{bracket: bracket, start: iv.Start, end: iv.End, pos: pos / 2}
		if target, ok := s.g.byInterval[key]; ok {
			s.setSlot(target, models.Side(pos%2), team)
			return
		}
		iv = iv.WinnerHalf()
		pos /= 2
	}
}

func (s *settler) propagate(i int) {
	m := &s.g.matches[i]
	winner, loser := m.WinnerID, m.LoserID()
	for _, e := range s.g.dependents[i] {
		if e.result == models.ResultLoser {
			s.setSlot(e.target, e.side, loser)
		} else {
			s.setSlot(e.target, e.side, winner)
		}
	}
	if m.WinnerInterval != nil {
		s.route(winner, m.Bracket, *m.WinnerInterval, m.BracketPosition)
	}
	if m.LoserInterval != nil {
		s.route(loser, m.Bracket, *m.LoserInterval, m.BracketPosition)
	}
}

// advance auto-completes a match against a bye and flips filled matches from
// pending to scheduled. It reports whether the match just completed.
func (s *settler) advance(i int) bool {
	m := &s.g.matches[i]
	if m.IsCompleted() {
		return false
	}
	if !m.SlotDecided(models.SideA) || !m.SlotDecided(models.SideB) {
		if m.Status == models.MatchStatusScheduled {
			m.Status = models.MatchStatusPending
		}
		return false
	}
	if m.TeamABye || m.TeamBBye {
		m.Status = models.MatchStatusCompleted
		m.Walkover = true
		m.WinnerID = nil
		if m.TeamAID != nil {
			m.WinnerID = models.Ptr(*m.TeamAID)
		} else if m.TeamBID != nil {
			m.WinnerID = models.Ptr(*m.TeamBID)
		}
		return true
	}
	if m.Status == models.MatchStatusPending {
		m.Status = models.MatchStatusScheduled
	}
	return false
}

// Settle runs the cascade to a fixed point: completed matches feed their
// dependents, matches against a bye complete as walkovers, and width-1
// intervals fix placements. Running it again on a settled slice changes
// nothing.
func Settle(matches []models.Match) ([]models.Placement, error) {
	g, err := NewGraph(matches)
	if err != nil {
		return nil, err
	}
	return g.Settle(), nil
}

func (g *Graph) Settle() []models.Placement {
	s := &settler{
		g:          g,
		queued:     make([]bool, len(g.matches)),
		placements: make(map[string]int),
	}
	for i := range g.matches {
		s.push(i)
	}
	for len(s.queue) > 0 {
		i := s.queue[0]
		s.queue = s.queue[1:]
		s.queued[i] = false

		if s.advance(i) || g.matches[i].IsCompleted() {
			s.propagate(i)
		}
	}

	out := make([]models.Placement, 0, len(s.placements))
	for team, place := range s.placements {
		out = append(out, models.Placement{TeamID: team, Place: place})
	}
	sortPlacements(out)
	return out
}

// RefLookup resolves references that point outside the match set.
type RefLookup interface {
	// ResolveRef returns the team behind ref. ok is false while the source is
	// not final; a nil team with ok true means the slot can never be filled.
	ResolveRef(ref models.SlotRef) (teamID *string, ok bool)
}

// ResolveExternal fills slots that depend on group ranks or best runners-up and
// settles the result.
func ResolveExternal(matches []models.Match, lookup RefLookup) ([]models.Placement, error) {
	g, err := NewGraph(matches)
	if err != nil {
		return nil, err
	}
	for i := range matches {
		m := &matches[i]
		if m.IsCompleted() {
			continue
		}
		for _, side := range []models.Side{models.SideA, models.SideB} {
			ref := m.Ref(side)
			if !ref.IsExternal() || m.SlotDecided(side) {
				continue
			}
			team, ok := lookup.ResolveRef(*ref)
			if !ok {
				continue
			}
			if team == nil {
				m.SetBye(side, true)
			} else {
				m.SetTeam(side, models.Ptr(*team))
			}
		}
	}
	return g.Settle(), nil
}

// MergePlacements overlays fresh placements on existing ones, keyed by team.
func MergePlacements(existing, fresh []models.Placement) []models.Placement {
	byTeam := make(map[string]int, len(existing)+len(fresh))
	for _, p := range existing {
		byTeam[p.TeamID] = p.Place
	}
	for _, p := range fresh {
		byTeam[p.TeamID] = p.Place
	}
	out := make([]models.Placement, 0, len(byTeam))
	for team, place := range byTeam {
		out = append(out, models.Placement{TeamID: team, Place: place})
	}
	sortPlacements(out)
	return out
}

func sortPlacements(p []models.Placement) {
	sort.Slice(p, func(i, j int) bool {
		if p[i].Place != p[j].Place {
			return p[i].Place < p[j].Place
		}
		return p[i].TeamID < p[j].TeamID
	})
}
