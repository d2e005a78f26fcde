package models

// TournamentSystem selects the match generator of a tournament.
type TournamentSystem string

const (
	SystemRoundRobin    TournamentSystem = "round_robin"
	SystemSwiss         TournamentSystem = "swiss"
	SystemGroupPhase    TournamentSystem = "group_phase"
	SystemKnockout      TournamentSystem = "knockout"
	SystemPlacementTree TournamentSystem = "placement_tree"
	SystemShortMain     TournamentSystem = "short_main"
	SystemPlayoff       TournamentSystem = "playoff"
)

func (s TournamentSystem) Valid() bool {
	switch s {
	case SystemRoundRobin, SystemSwiss, SystemGroupPhase, SystemKnockout,
		SystemPlacementTree, SystemShortMain, SystemPlayoff:
		return true
	}
	return false
}

// Tiebreaker is the precedence between head-to-head and point differential.
type Tiebreaker string

const (
	TiebreakHeadToHeadFirst Tiebreaker = "head_to_head_first"
	TiebreakPointDiffFirst  Tiebreaker = "point_diff_first"
)

type GroupSeeding string

const (
	SeedingSnake  GroupSeeding = "snake"
	SeedingRandom GroupSeeding = "random"
	SeedingManual GroupSeeding = "manual"
)

// FollowUp is the phase created after a group phase.
type FollowUp string

const (
	FollowUpNone          FollowUp = "none"
	FollowUpKnockout      FollowUp = "knockout"
	FollowUpPlacementTree FollowUp = "placement_tree"
	FollowUpShortMain     FollowUp = "short_main"
)

type GroupPhaseConfig struct {
	TeamsPerGroup int          `json:"teams_per_group"`
	Seeding       GroupSeeding `json:"seeding"`
	ManualGroups  [][]string   `json:"manual_groups,omitempty"` // team ids per group
	RandomSeed    int64        `json:"random_seed,omitempty"`
	AllowByes     bool         `json:"allow_byes"`
	FollowUp      FollowUp     `json:"follow_up"`
}

type KnockoutConfig struct {
	ThirdPlaceMatch bool `json:"third_place_match"`
}

type SwissConfig struct {
	NumberOfRounds int `json:"number_of_rounds"` // 0 means ceil(log2 n)
}

type PlayoffConfig struct {
	TopN int `json:"top_n,omitempty"` // 0 means every team
}

type SchedulingConfig struct {
	StartTime          string `json:"start_time"` // HH:MM
	BreakMinutes       int    `json:"break_minutes"`
	BreakBetweenPhases int    `json:"break_between_phases"`
	SetMinutes         int    `json:"set_minutes,omitempty"` // overrides the per-points table
	AssignReferees     bool   `json:"assign_referees"`
}
