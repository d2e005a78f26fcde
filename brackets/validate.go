package brackets

import (
	"fmt"

	"github.com/Dosada05/tournament-engine/models"
)

// Validate checks the integrity of a match set: every match reference points
// into the set and the dependency graph is acyclic.
func Validate(matches []models.Match) error {
	g, err := NewGraph(matches)
	if err != nil {
		return err
	}

	const (
		white = iota
		grey
		black
	)
	color := make([]int, len(matches))
	var visit func(i int) error
	visit = func(i int) error {
		color[i] = grey
		for _, e := range g.dependents[i] {
			switch color[e.target] {
			case grey:
				return fmt.Errorf("%s -> %s: %w", matches[i].ID, matches[e.target].ID, ErrDependencyCycle)
			case white:
				if err := visit(e.target); err != nil {
					return err
				}
			}
		}
		color[i] = black
		return nil
	}
	for i := range matches {
		if color[i] == white {
			if err := visit(i); err != nil {
				return err
			}
		}
	}
	return nil
}
