package engine

import (
	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/Dosada05/tournament-engine/brackets"
	"github.com/Dosada05/tournament-engine/models"
	"github.com/Dosada05/tournament-engine/schedule"
	"github.com/Dosada05/tournament-engine/standings"
)

func start(s *models.Snapshot, t *models.Tournament) error {
	if len(t.Teams) < 2 {
		return wrapf(ErrNotEnoughTeams, "tournament %q has %d teams", t.ID, len(t.Teams))
	}
	present := models.PresentTeams(t.Teams)
	if len(present) < 2 {
		return wrapf(ErrNotEnoughPresentTeams, "tournament %q has %d present teams", t.ID, len(present))
	}
	gen, err := brackets.NewGenerator(t.System)
	if err != nil {
		return err
	}
	b, err := gen.GenerateBracket(brackets.GenerateBracketParams{
		Tournament: t,
		Teams:      present,
		Standings:  standings.Calculate(present, nil, standings.OptionsFor(t)),
	})
	if err != nil {
		return wrapf(err, "start %q", t.ID)
	}
	if err := brackets.Validate(b.Matches); err != nil {
		return wrapf(err, "start %q", t.ID)
	}

	t.Matches = b.Matches
	t.Groups = b.Groups
	t.Placements = b.Placements
	t.EliminatedTeamIDs = b.EliminatedTeamIDs
	t.Status = models.StatusInProgress
	touch(t)

	id := t.ID
	if t.System == models.SystemGroupPhase && t.GroupPhase.FollowUp != models.FollowUpNone {
		if err := createFollowUp(s, t); err != nil {
			return err
		}
	}
	t, _ = s.Tournament(id)
	return settle(s, t)
}

type followUp struct {
	system models.TournamentSystem
	suffix string
	name   string
	gen    brackets.BracketGenerator
}

func followUpFor(f models.FollowUp) (followUp, bool) {
	switch f {
	case models.FollowUpKnockout:
		return followUp{models.SystemKnockout, "-ko", "Knockout", brackets.NewKnockoutGenerator()}, true
	case models.FollowUpPlacementTree:
		return followUp{models.SystemPlacementTree, "-pt", "Placements", brackets.NewPlacementTreeGenerator()}, true
	case models.FollowUpShortMain:
		return followUp{models.SystemShortMain, "-sm", "Main round", brackets.NewShortMainGenerator()}, true
	}
	return followUp{}, false
}

// groupSize is the configured size, or the largest manual group.
func groupSize(t *models.Tournament) int {
	if t.GroupPhase.Seeding != models.SeedingManual {
		return t.GroupPhase.TeamsPerGroup
	}
	size := 0
	for _, g := range t.Groups {
		if n := len(g.TeamIDs) + g.ByeCount; n > size {
			size = n
		}
	}
	return size
}

// createFollowUp builds the phase fed by the groups of parent. Its slots stay
// pending until the groups finish.
func createFollowUp(s *models.Snapshot, parent *models.Tournament) error {
	f, ok := followUpFor(parent.GroupPhase.FollowUp)
	if !ok {
		return wrapf(ErrInvalidConfiguration, "follow-up %q", parent.GroupPhase.FollowUp)
	}
	child := newPhase(parent, parent.ID+f.suffix, parent.Name+" "+f.name, f.system)
	b, err := f.gen.GenerateBracket(brackets.GenerateBracketParams{
		Tournament: &child,
		Groups:     parent.Groups,
		GroupSize:  groupSize(parent),
	})
	if err != nil {
		return wrapf(err, "follow-up of %q", parent.ID)
	}
	if err := brackets.Validate(b.Matches); err != nil {
		return wrapf(err, "follow-up of %q", parent.ID)
	}
	child.Matches = b.Matches
	child.Placements = b.Placements
	addPhase(s, parent, child)
	return nil
}

// newPhase derives a linked phase that inherits the scoring and scheduling
// settings of parent.
func newPhase(parent *models.Tournament, id, name string, system models.TournamentSystem) models.Tournament {
	src := parent.Clone()
	return models.Tournament{
		ID:                id,
		Name:              name,
		System:            system,
		Status:            models.StatusInProgress,
		NumberOfCourts:    src.NumberOfCourts,
		SetsPerMatch:      src.SetsPerMatch,
		PointsPerSet:      src.PointsPerSet,
		PointsPerThirdSet: src.PointsPerThirdSet,
		WinPoints:         src.WinPoints,
		LossPoints:        src.LossPoints,
		Tiebreaker:        src.Tiebreaker,
		Teams:             models.PresentTeams(src.Teams),
		Matches:           []models.Match{},
		Standings:         []models.StandingEntry{},
		ParentPhaseID:     parent.ID,
		Knockout:          src.Knockout,
		Scheduling:        src.Scheduling,
		Revision:          1,
	}
}

// addPhase appends child behind parent in the container, creating the
// container on first use. Pointers into s.Tournaments are stale afterwards.
func addPhase(s *models.Snapshot, parent *models.Tournament, child models.Tournament) {
	c := ensureContainer(s, parent)
	child.ContainerID = c.ID
	child.PhaseOrder = len(c.Phases) + 1
	c.Phases = append(c.Phases, models.PhaseRef{TournamentID: child.ID, Name: child.Name, Order: child.PhaseOrder})
	c.Revision++
	s.Tournaments = append(s.Tournaments, child)
}

func ensureContainer(s *models.Snapshot, t *models.Tournament) *models.TournamentContainer {
	if c, ok := s.Container(t.ContainerID); ok {
		return c
	}
	id := models.ContainerID(t.ID)
	t.ContainerID = id
	t.PhaseOrder = 1
	s.Containers = append(s.Containers, models.TournamentContainer{
		ID:     id,
		Name:   t.Name,
		Phases: []models.PhaseRef{{TournamentID: t.ID, Name: t.Name, Order: 1}},
		Status: t.Status,
	})
	return &s.Containers[len(s.Containers)-1]
}

// settle brings t and everything downstream to a consistent state: resolver
// fixed point, standings, completion, linked phases, container status and
// schedule, in that order.
func settle(s *models.Snapshot, t *models.Tournament) error {
	placements, err := brackets.Settle(t.Matches)
	if err != nil {
		return wrapf(err, "tournament %q", t.ID)
	}
	t.Placements = brackets.MergePlacements(t.Placements, placements)
	standings.Recompute(t)
	refreshStatus(t)

	if err := feedChildren(s, t); err != nil {
		return err
	}
	refreshContainer(s, t.ContainerID)
	return replan(s, t)
}

func refreshStatus(t *models.Tournament) {
	if t.Status == models.StatusConfiguration {
		return
	}
	done := t.AllMatchesCompleted()
	if done && t.System == models.SystemSwiss {
		limit := brackets.SwissRoundLimit(t, len(models.PresentTeams(t.Teams)))
		done = t.CurrentRound() >= limit
	}
	if done {
		t.Status = models.StatusCompleted
	} else {
		t.Status = models.StatusInProgress
	}
}

// feedChildren resolves the group references of phases fed by parent.
func feedChildren(s *models.Snapshot, parent *models.Tournament) error {
	if len(parent.Groups) == 0 {
		return nil
	}
	complete := standings.CompleteGroups(parent)
	lookup := brackets.GroupLookup{
		Groups:         parent.Groups,
		Standings:      parent.GroupStandings,
		CompleteGroups: complete,
	}
	for i := range s.Tournaments {
		child := &s.Tournaments[i]
		if child.ParentPhaseID != parent.ID {
			continue
		}
		before := child.Clone()
		placements, err := brackets.ResolveExternal(child.Matches, lookup)
		if err != nil {
			return wrapf(err, "phase %q", child.ID)
		}
		child.Placements = brackets.MergePlacements(child.Placements, placements)
		if child.System == models.SystemKnockout {
			child.EliminatedTeamIDs = eliminated(parent, child, complete)
		}
		standings.Recompute(child)
		refreshStatus(child)
		if !cmp.Equal(before, *child, cmpopts.EquateEmpty()) {
			touch(child)
		}
	}
	return nil
}

// eliminated lists the parent's teams that hold no slot in child once every
// group is final.
func eliminated(parent, child *models.Tournament, complete map[string]bool) []string {
	for _, g := range parent.Groups {
		if !complete[g.ID] {
			return nil
		}
	}
	seated := make(map[string]bool)
	for i := range child.Matches {
		m := &child.Matches[i]
		for _, side := range []models.Side{models.SideA, models.SideB} {
			if id := m.Team(side); id != nil {
				seated[*id] = true
			}
		}
	}
	for _, p := range child.Placements {
		seated[p.TeamID] = true
	}
	var out []string
	for _, g := range parent.Groups {
		for _, id := range g.TeamIDs {
			if !seated[id] {
				out = append(out, id)
			}
		}
	}
	return out
}

// refreshContainer derives the container status from its phases. The current
// phase is the first one not yet completed.
func refreshContainer(s *models.Snapshot, id string) {
	c, ok := s.Container(id)
	if !ok {
		return
	}
	status := models.StatusCompleted
	current := len(c.Phases) - 1
	started := false
	for i := len(c.Phases) - 1; i >= 0; i-- {
		p, ok := s.Tournament(c.Phases[i].TournamentID)
		if !ok {
			continue
		}
		if p.Status != models.StatusCompleted {
			status = models.StatusInProgress
			current = i
		}
		if p.Status != models.StatusConfiguration {
			started = true
		}
	}
	if !started {
		status = models.StatusConfiguration
	}
	if current < 0 {
		current = 0
	}
	if c.Status != status || c.CurrentPhaseIndex != current {
		c.Status = status
		c.CurrentPhaseIndex = current
		c.Revision++
	}
}

// replan assigns time slots. Phases of a container run back to back from the
// first phase's start, separated by its break between phases.
func replan(s *models.Snapshot, t *models.Tournament) error {
	c, ok := s.Container(t.ContainerID)
	if !ok {
		_, err := schedule.Plan(t)
		return err
	}

	var phases []*models.Tournament
	for _, ref := range c.Phases {
		if p, ok := s.Tournament(ref.TournamentID); ok {
			phases = append(phases, p)
		}
	}
	if len(phases) == 0 {
		return nil
	}
	first := phases[0]
	between := 0
	if first.Scheduling != nil {
		between = first.Scheduling.BreakBetweenPhases
	}
	estimates, err := schedule.EstimatePhases(phases, between)
	if err != nil {
		return wrapf(err, "schedule %q", c.ID)
	}
	for i, p := range phases {
		start, err := schedule.ParseClock(estimates[i].StartTime)
		if err != nil {
			return err
		}
		if _, err := schedule.PlanAt(p, start); err != nil {
			return wrapf(err, "schedule %q", p.ID)
		}
	}
	return nil
}

// removeDescendants deletes every phase fed, directly or not, by root and
// drops the container when root is its only phase left.
func removeDescendants(s *models.Snapshot, rootID string) {
	doomed := map[string]bool{}
	for changed := true; changed; {
		changed = false
		for i := range s.Tournaments {
			t := &s.Tournaments[i]
			if doomed[t.ID] || t.ParentPhaseID == "" {
				continue
			}
			if t.ParentPhaseID == rootID || doomed[t.ParentPhaseID] {
				doomed[t.ID] = true
				changed = true
			}
		}
	}

	kept := s.Tournaments[:0]
	for _, t := range s.Tournaments {
		if !doomed[t.ID] {
			kept = append(kept, t)
		}
	}
	s.Tournaments = kept

	root, ok := s.Tournament(rootID)
	if !ok {
		return
	}
	c, ok := s.Container(root.ContainerID)
	if !ok {
		return
	}
	phases := c.Phases[:0]
	for _, p := range c.Phases {
		if !doomed[p.TournamentID] {
			phases = append(phases, p)
		}
	}
	c.Phases = phases
	c.Revision++
	if len(c.Phases) > 1 {
		return
	}

	containerID := c.ID
	containers := s.Containers[:0]
	for _, other := range s.Containers {
		if other.ID != containerID {
			containers = append(containers, other)
		}
	}
	s.Containers = containers
	root.ContainerID = ""
	root.PhaseOrder = 0
}
