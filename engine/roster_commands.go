package engine

import (
	"fmt"
	"strings"

	"github.com/Dosada05/tournament-engine/models"
)

// AddTeam appends a team to the roster before start.
type AddTeam struct {
	TournamentID string    `json:"tournament_id"`
	Team         TeamInput `json:"team"`
}

func (AddTeam) Kind() string { return KindAddTeam }

func (c AddTeam) apply(s *models.Snapshot) error {
	t, err := configurable(s, c.TournamentID)
	if err != nil {
		return err
	}
	if err := addTeam(t, c.Team); err != nil {
		return err
	}
	touch(t)
	return nil
}

// addTeam appends in to the roster and reseeds. A missing id is derived from
// the tournament id.
func addTeam(t *models.Tournament, in TeamInput) error {
	id := strings.TrimSpace(in.ID)
	if id == "" {
		for n := len(t.Teams) + 1; ; n++ {
			id = fmt.Sprintf("%s-t%d", t.ID, n)
			if _, taken := t.TeamByID(id); !taken {
				break
			}
		}
	}
	if _, ok := t.TeamByID(id); ok {
		return wrapf(ErrDuplicateTeam, "team %q", id)
	}
	name := strings.TrimSpace(in.Name)
	if name == "" {
		name = id
	}
	present := true
	if in.IsPresent != nil {
		present = *in.IsPresent
	}
	t.Teams = append(t.Teams, models.Team{ID: id, Name: name, IsPresent: present})
	models.Reseed(t.Teams)
	return nil
}

// RemoveTeam drops a team from the roster before start.
type RemoveTeam struct {
	TournamentID string `json:"tournament_id"`
	TeamID       string `json:"team_id"`
}

func (RemoveTeam) Kind() string { return KindRemoveTeam }

func (c RemoveTeam) apply(s *models.Snapshot) error {
	t, err := configurable(s, c.TournamentID)
	if err != nil {
		return err
	}
	if _, ok := t.TeamByID(c.TeamID); !ok {
		return wrapf(ErrTeamNotFound, "team %q", c.TeamID)
	}
	teams := t.Teams[:0]
	for _, team := range t.Teams {
		if team.ID != c.TeamID {
			teams = append(teams, team)
		}
	}
	t.Teams = teams
	models.Reseed(t.Teams)

	if gp := t.GroupPhase; gp != nil {
		for i, group := range gp.ManualGroups {
			kept := group[:0]
			for _, id := range group {
				if id != c.TeamID {
					kept = append(kept, id)
				}
			}
			gp.ManualGroups[i] = kept
		}
	}
	touch(t)
	return nil
}

// ReorderTeams sets the seed order. TeamIDs must be a permutation of the
// roster.
type ReorderTeams struct {
	TournamentID string   `json:"tournament_id"`
	TeamIDs      []string `json:"team_ids"`
}

func (ReorderTeams) Kind() string { return KindReorderTeams }

func (c ReorderTeams) apply(s *models.Snapshot) error {
	t, err := configurable(s, c.TournamentID)
	if err != nil {
		return err
	}
	if len(c.TeamIDs) != len(t.Teams) {
		return wrapf(ErrInvalidCommand, "reorder lists %d of %d teams", len(c.TeamIDs), len(t.Teams))
	}
	reordered := make([]models.Team, 0, len(t.Teams))
	seen := make(map[string]bool, len(c.TeamIDs))
	for _, id := range c.TeamIDs {
		team, ok := t.TeamByID(id)
		if !ok {
			return wrapf(ErrTeamNotFound, "team %q", id)
		}
		if seen[id] {
			return wrapf(ErrDuplicateTeam, "team %q listed twice", id)
		}
		seen[id] = true
		reordered = append(reordered, *team)
	}
	t.Teams = reordered
	models.Reseed(t.Teams)
	touch(t)
	return nil
}

// SetTeamPresence marks a team present or absent. Absent teams are left out of
// generation at start and of referee duty.
type SetTeamPresence struct {
	TournamentID string `json:"tournament_id"`
	TeamID       string `json:"team_id"`
	IsPresent    bool   `json:"is_present"`
}

func (SetTeamPresence) Kind() string { return KindSetTeamPresence }

func (c SetTeamPresence) apply(s *models.Snapshot) error {
	t, err := findTournament(s, c.TournamentID)
	if err != nil {
		return err
	}
	team, ok := t.TeamByID(c.TeamID)
	if !ok {
		return wrapf(ErrTeamNotFound, "team %q", c.TeamID)
	}
	if team.IsPresent == c.IsPresent {
		return nil
	}
	team.IsPresent = c.IsPresent
	touch(t)
	if t.Status == models.StatusConfiguration {
		return nil
	}
	return replan(s, t)
}

func configurable(s *models.Snapshot, id string) (*models.Tournament, error) {
	t, err := findTournament(s, id)
	if err != nil {
		return nil, err
	}
	if t.Status != models.StatusConfiguration {
		return nil, wrapf(ErrTournamentAlreadyStarted, "tournament %q", id)
	}
	return t, nil
}
