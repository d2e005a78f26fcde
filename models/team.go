package models

// Team is a roster entry of a tournament. Seed is 1-based and dense; it is
// re-assigned whenever the roster changes.
type Team struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Seed      int    `json:"seed"`
	IsPresent bool   `json:"is_present"`
}

// Reseed assigns dense 1-based seeds in slice order.
func Reseed(teams []Team) {
	for i := range teams {
		teams[i].Seed = i + 1
	}
}

// PresentTeams returns the present teams in seed order.
func PresentTeams(teams []Team) []Team {
	present := make([]Team, 0, len(teams))
	for _, t := range teams {
		if t.IsPresent {
			present = append(present, t)
		}
	}
	return present
}

func TeamIDs(teams []Team) []string {
	ids := make([]string, len(teams))
	for i, t := range teams {
		ids[i] = t.ID
	}
	return ids
}
