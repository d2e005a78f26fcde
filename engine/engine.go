// Package engine applies tournament commands to immutable snapshots.
//
// Every command is a pure function from (snapshot, command) to a new snapshot.
// The input is never modified; on error the input is returned unchanged. The
// caller serializes commands.
package engine

import (
	"github.com/Dosada05/tournament-engine/models"
)

// Command is the closed set of state transitions. Only this package can add
// variants.
type Command interface {
	Kind() string
	apply(s *models.Snapshot) error
}

// Apply runs cmd against a deep copy of s.
func Apply(s models.Snapshot, cmd Command) (models.Snapshot, error) {
	next := s.Clone()
	if err := cmd.apply(&next); err != nil {
		return s, err
	}
	return next, nil
}

// Changed returns the ids of tournaments whose revision differs between two
// snapshots, including tournaments that appeared or disappeared.
func Changed(before, after models.Snapshot) []string {
	rev := make(map[string]int64, len(before.Tournaments))
	for _, t := range before.Tournaments {
		rev[t.ID] = t.Revision
	}
	var ids []string
	seen := make(map[string]bool, len(after.Tournaments))
	for _, t := range after.Tournaments {
		seen[t.ID] = true
		if r, ok := rev[t.ID]; !ok || r != t.Revision {
			ids = append(ids, t.ID)
		}
	}
	for _, t := range before.Tournaments {
		if !seen[t.ID] {
			ids = append(ids, t.ID)
		}
	}
	return ids
}

func touch(t *models.Tournament) {
	t.Revision++
}

func findTournament(s *models.Snapshot, id string) (*models.Tournament, error) {
	t, ok := s.Tournament(id)
	if !ok {
		return nil, wrapf(ErrTournamentNotFound, "tournament %q", id)
	}
	return t, nil
}
