package models

// Snapshot is the whole persisted state and the input and output of every
// engine command.
type Snapshot struct {
	Tournaments []Tournament          `json:"tournaments"`
	Containers  []TournamentContainer `json:"containers"`
}

func (s *Snapshot) Tournament(id string) (*Tournament, bool) {
	for i := range s.Tournaments {
		if s.Tournaments[i].ID == id {
			return &s.Tournaments[i], true
		}
	}
	return nil, false
}

func (s *Snapshot) Container(id string) (*TournamentContainer, bool) {
	for i := range s.Containers {
		if s.Containers[i].ID == id {
			return &s.Containers[i], true
		}
	}
	return nil, false
}

// Clone returns a deep copy that shares no memory with s.
func (s Snapshot) Clone() Snapshot {
	var out Snapshot
	if s.Tournaments != nil {
		out.Tournaments = make([]Tournament, len(s.Tournaments))
		for i := range s.Tournaments {
			out.Tournaments[i] = s.Tournaments[i].Clone()
		}
	}
	if s.Containers != nil {
		out.Containers = make([]TournamentContainer, len(s.Containers))
		for i := range s.Containers {
			out.Containers[i] = s.Containers[i].Clone()
		}
	}
	return out
}

func (c TournamentContainer) Clone() TournamentContainer {
	c.Phases = cloneSlice(c.Phases)
	return c
}

func (t Tournament) Clone() Tournament {
	t.Teams = cloneSlice(t.Teams)
	if t.Matches != nil {
		matches := make([]Match, len(t.Matches))
		for i := range t.Matches {
			matches[i] = t.Matches[i].Clone()
		}
		t.Matches = matches
	}
	if t.Groups != nil {
		groups := make([]Group, len(t.Groups))
		for i, g := range t.Groups {
			g.TeamIDs = cloneSlice(g.TeamIDs)
			groups[i] = g
		}
		t.Groups = groups
	}
	t.Standings = cloneSlice(t.Standings)
	t.GroupStandings = cloneSlice(t.GroupStandings)
	t.Placements = cloneSlice(t.Placements)
	t.EliminatedTeamIDs = cloneSlice(t.EliminatedTeamIDs)
	if t.GroupPhase != nil {
		gp := *t.GroupPhase
		if gp.ManualGroups != nil {
			gp.ManualGroups = make([][]string, len(t.GroupPhase.ManualGroups))
			for i, ids := range t.GroupPhase.ManualGroups {
				gp.ManualGroups[i] = cloneSlice(ids)
			}
		}
		t.GroupPhase = &gp
	}
	t.Knockout = clonePtr(t.Knockout)
	t.Swiss = clonePtr(t.Swiss)
	t.Playoff = clonePtr(t.Playoff)
	t.Scheduling = clonePtr(t.Scheduling)
	return t
}

func (m Match) Clone() Match {
	m.TeamAID = clonePtr(m.TeamAID)
	m.TeamBID = clonePtr(m.TeamBID)
	m.CourtNumber = clonePtr(m.CourtNumber)
	m.WinnerID = clonePtr(m.WinnerID)
	m.Scores = cloneSlice(m.Scores)
	if m.DependsOn != nil {
		m.DependsOn = &Dependency{TeamA: clonePtr(m.DependsOn.TeamA), TeamB: clonePtr(m.DependsOn.TeamB)}
	}
	m.PlacementInterval = clonePtr(m.PlacementInterval)
	m.WinnerInterval = clonePtr(m.WinnerInterval)
	m.LoserInterval = clonePtr(m.LoserInterval)
	m.RefereeTeamID = clonePtr(m.RefereeTeamID)
	m.TimeSlot = clonePtr(m.TimeSlot)
	return m
}

func clonePtr[T any](p *T) *T {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

func cloneSlice[T any](s []T) []T {
	if s == nil {
		return nil
	}
	return append(make([]T, 0, len(s)), s...)
}

// Ptr returns a pointer to a copy of v.
func Ptr[T any](v T) *T {
	return &v
}
