package models

// TournamentStatus is shared by tournaments and containers.
type TournamentStatus string

const (
	StatusConfiguration TournamentStatus = "configuration"
	StatusInProgress    TournamentStatus = "in_progress"
	StatusCompleted     TournamentStatus = "completed"
)

type Group struct {
	ID       string   `json:"id"`
	Name     string   `json:"name"`
	TeamIDs  []string `json:"team_ids"`
	ByeCount int      `json:"bye_count,omitempty"`
}

// Tournament is one phase of play. Multi-phase formats link several
// tournaments through a container.
type Tournament struct {
	ID                string           `json:"id"`
	Name              string           `json:"name"`
	System            TournamentSystem `json:"system"`
	Status            TournamentStatus `json:"status"`
	NumberOfCourts    int              `json:"number_of_courts"`
	SetsPerMatch      int              `json:"sets_per_match"`
	PointsPerSet      int              `json:"points_per_set"`
	PointsPerThirdSet int              `json:"points_per_third_set"`
	WinPoints         int              `json:"win_points,omitempty"`
	LossPoints        int              `json:"loss_points,omitempty"`
	Tiebreaker        Tiebreaker       `json:"tiebreaker"`

	Teams             []Team               `json:"teams"`
	Matches           []Match              `json:"matches"`
	Groups            []Group              `json:"groups,omitempty"`
	Standings         []StandingEntry      `json:"standings"`
	GroupStandings    []GroupStandingEntry `json:"group_standings,omitempty"`
	Placements        []Placement          `json:"placements,omitempty"`
	EliminatedTeamIDs []string             `json:"eliminated_team_ids,omitempty"`

	ContainerID   string `json:"container_id,omitempty"`
	ParentPhaseID string `json:"parent_phase_id,omitempty"`
	PhaseOrder    int    `json:"phase_order,omitempty"`
	Revision      int64  `json:"revision"`

	GroupPhase *GroupPhaseConfig `json:"group_phase,omitempty"`
	Knockout   *KnockoutConfig   `json:"knockout,omitempty"`
	Swiss      *SwissConfig      `json:"swiss,omitempty"`
	Playoff    *PlayoffConfig    `json:"playoff,omitempty"`
	Scheduling *SchedulingConfig `json:"scheduling,omitempty"`
}

func (t *Tournament) TeamByID(id string) (*Team, bool) {
	for i := range t.Teams {
		if t.Teams[i].ID == id {
			return &t.Teams[i], true
		}
	}
	return nil, false
}

func (t *Tournament) MatchByID(id string) (*Match, bool) {
	for i := range t.Matches {
		if t.Matches[i].ID == id {
			return &t.Matches[i], true
		}
	}
	return nil, false
}

func (t *Tournament) GroupByID(id string) (*Group, bool) {
	for i := range t.Groups {
		if t.Groups[i].ID == id {
			return &t.Groups[i], true
		}
	}
	return nil, false
}

// AllMatchesCompleted is false for an empty match list.
func (t *Tournament) AllMatchesCompleted() bool {
	if len(t.Matches) == 0 {
		return false
	}
	for i := range t.Matches {
		if !t.Matches[i].IsCompleted() {
			return false
		}
	}
	return true
}

// CurrentRound is the highest round number present.
func (t *Tournament) CurrentRound() int {
	round := 0
	for i := range t.Matches {
		if t.Matches[i].Round > round {
			round = t.Matches[i].Round
		}
	}
	return round
}

// IsPhase reports whether the tournament is fed by a parent phase.
func (t *Tournament) IsPhase() bool {
	return t.ParentPhaseID != ""
}

type PhaseRef struct {
	TournamentID string `json:"tournament_id"`
	Name         string `json:"name"`
	Order        int    `json:"order"`
}

// TournamentContainer orders the phases of a multi-phase competition.
type TournamentContainer struct {
	ID                string           `json:"id"`
	Name              string           `json:"name"`
	Phases            []PhaseRef       `json:"phases"`
	CurrentPhaseIndex int              `json:"current_phase_index"`
	Status            TournamentStatus `json:"status"`
	Revision          int64            `json:"revision"`
}

func ContainerID(tournamentID string) string {
	return tournamentID + "-container"
}
