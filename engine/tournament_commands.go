package engine

import (
	"strings"

	"github.com/Dosada05/tournament-engine/models"
)

const (
	defaultPointsPerSet      = 21
	defaultPointsPerThirdSet = 15
)

type TeamInput struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	IsPresent *bool  `json:"is_present,omitempty"`
}

// CreateTournament registers a tournament in configuration status.
type CreateTournament struct {
	ID                string                   `json:"id"`
	Name              string                   `json:"name"`
	System            models.TournamentSystem  `json:"system"`
	NumberOfCourts    int                      `json:"number_of_courts"`
	SetsPerMatch      int                      `json:"sets_per_match"`
	PointsPerSet      int                      `json:"points_per_set"`
	PointsPerThirdSet int                      `json:"points_per_third_set"`
	WinPoints         int                      `json:"win_points"`
	LossPoints        int                      `json:"loss_points"`
	Tiebreaker        models.Tiebreaker        `json:"tiebreaker"`
	Teams             []TeamInput              `json:"teams"`
	GroupPhase        *models.GroupPhaseConfig `json:"group_phase,omitempty"`
	Knockout          *models.KnockoutConfig   `json:"knockout,omitempty"`
	Swiss             *models.SwissConfig      `json:"swiss,omitempty"`
	Playoff           *models.PlayoffConfig    `json:"playoff,omitempty"`
	Scheduling        *models.SchedulingConfig `json:"scheduling,omitempty"`
}

func (CreateTournament) Kind() string { return KindCreateTournament }

func (c CreateTournament) apply(s *models.Snapshot) error {
	id := strings.TrimSpace(c.ID)
	if id == "" {
		return wrapf(ErrInvalidCommand, "tournament id is required")
	}
	if _, ok := s.Tournament(id); ok {
		return wrapf(ErrDuplicateTournament, "tournament %q", id)
	}
	if !c.System.Valid() {
		return wrapf(ErrUnsupportedSystem, "system %q", c.System)
	}
	if c.System == models.SystemShortMain {
		return wrapf(ErrUnsupportedSystem, "short main round only follows a group phase")
	}
	if c.SetsPerMatch < 0 || c.SetsPerMatch > 5 || c.NumberOfCourts < 0 {
		return wrapf(ErrInvalidConfiguration, "sets per match %d, courts %d", c.SetsPerMatch, c.NumberOfCourts)
	}

	t := models.Tournament{
		ID:                id,
		Name:              strings.TrimSpace(c.Name),
		System:            c.System,
		Status:            models.StatusConfiguration,
		NumberOfCourts:    c.NumberOfCourts,
		SetsPerMatch:      c.SetsPerMatch,
		PointsPerSet:      c.PointsPerSet,
		PointsPerThirdSet: c.PointsPerThirdSet,
		WinPoints:         c.WinPoints,
		LossPoints:        c.LossPoints,
		Tiebreaker:        c.Tiebreaker,
		Teams:             []models.Team{},
		Matches:           []models.Match{},
		Standings:         []models.StandingEntry{},
		GroupPhase:        c.GroupPhase,
		Knockout:          c.Knockout,
		Swiss:             c.Swiss,
		Playoff:           c.Playoff,
		Scheduling:        c.Scheduling,
		Revision:          1,
	}
	applyDefaults(&t)
	if t.Name == "" {
		t.Name = id
	}
	if t.System == models.SystemGroupPhase {
		if err := validateGroupConfig(*t.GroupPhase); err != nil {
			return err
		}
	}

	for _, in := range c.Teams {
		if err := addTeam(&t, in); err != nil {
			return err
		}
	}
	s.Tournaments = append(s.Tournaments, t)
	return nil
}

func applyDefaults(t *models.Tournament) {
	if t.NumberOfCourts == 0 {
		t.NumberOfCourts = 1
	}
	if t.SetsPerMatch == 0 {
		t.SetsPerMatch = 1
	}
	if t.PointsPerSet == 0 {
		t.PointsPerSet = defaultPointsPerSet
	}
	if t.PointsPerThirdSet == 0 && t.SetsPerMatch >= 3 {
		t.PointsPerThirdSet = defaultPointsPerThirdSet
	}
	if t.Tiebreaker == "" {
		t.Tiebreaker = models.TiebreakHeadToHeadFirst
	}
	if t.System == models.SystemGroupPhase && t.GroupPhase == nil {
		t.GroupPhase = &models.GroupPhaseConfig{}
	}
	if gp := t.GroupPhase; gp != nil {
		if gp.TeamsPerGroup == 0 {
			gp.TeamsPerGroup = 4
		}
		if gp.Seeding == "" {
			gp.Seeding = models.SeedingSnake
		}
		if gp.FollowUp == "" {
			gp.FollowUp = models.FollowUpNone
		}
	}
}

func validateGroupConfig(cfg models.GroupPhaseConfig) error {
	if cfg.Seeding != models.SeedingManual && (cfg.TeamsPerGroup < 3 || cfg.TeamsPerGroup > 5) {
		return wrapf(ErrInvalidGroupSize, "teams per group %d", cfg.TeamsPerGroup)
	}
	switch cfg.Seeding {
	case models.SeedingSnake, models.SeedingRandom:
	case models.SeedingManual:
		if len(cfg.ManualGroups) < 2 || len(cfg.ManualGroups) > 8 {
			return wrapf(ErrGroupCountOutOfRange, "%d manual groups", len(cfg.ManualGroups))
		}
	default:
		return wrapf(ErrInvalidConfiguration, "seeding %q", cfg.Seeding)
	}
	switch cfg.FollowUp {
	case models.FollowUpNone, models.FollowUpKnockout, models.FollowUpPlacementTree:
	case models.FollowUpShortMain:
		if cfg.TeamsPerGroup != 3 && cfg.TeamsPerGroup != 4 {
			return wrapf(ErrInvalidGroupSize, "short main round needs groups of 3 or 4, got %d", cfg.TeamsPerGroup)
		}
	default:
		return wrapf(ErrInvalidConfiguration, "follow-up %q", cfg.FollowUp)
	}
	return nil
}

// StartTournament generates the initial matches and moves the tournament to
// in-progress. Group phases with a follow-up also create the linked phase with
// pending matches. Starting a started tournament is a no-op.
type StartTournament struct {
	TournamentID string `json:"tournament_id"`
}

func (StartTournament) Kind() string { return KindStartTournament }

func (c StartTournament) apply(s *models.Snapshot) error {
	t, err := findTournament(s, c.TournamentID)
	if err != nil {
		return err
	}
	if t.Status != models.StatusConfiguration {
		return nil
	}
	return start(s, t)
}

// ResetTournament discards generated matches and linked phases and returns the
// tournament to configuration.
type ResetTournament struct {
	TournamentID string `json:"tournament_id"`
}

func (ResetTournament) Kind() string { return KindResetTournament }

func (c ResetTournament) apply(s *models.Snapshot) error {
	t, err := findTournament(s, c.TournamentID)
	if err != nil {
		return err
	}
	if t.IsPhase() {
		return wrapf(ErrLinkedPhase, "reset %q through its first phase", t.ID)
	}
	if t.Status == models.StatusConfiguration {
		return nil
	}
	removeDescendants(s, t.ID)
	t, _ = s.Tournament(c.TournamentID)

	t.Status = models.StatusConfiguration
	t.Matches = []models.Match{}
	t.Groups = nil
	t.Standings = []models.StandingEntry{}
	t.GroupStandings = nil
	t.Placements = nil
	t.EliminatedTeamIDs = nil
	touch(t)
	return nil
}

// UpdateGroupConfiguration replaces the group-phase settings before start.
type UpdateGroupConfiguration struct {
	TournamentID string                  `json:"tournament_id"`
	Config       models.GroupPhaseConfig `json:"config"`
}

func (UpdateGroupConfiguration) Kind() string { return KindUpdateGroupConfiguration }

func (c UpdateGroupConfiguration) apply(s *models.Snapshot) error {
	t, err := findTournament(s, c.TournamentID)
	if err != nil {
		return err
	}
	if t.System != models.SystemGroupPhase {
		return wrapf(ErrUnsupportedSystem, "tournament %q is %s", t.ID, t.System)
	}
	if t.Status != models.StatusConfiguration {
		return wrapf(ErrTournamentAlreadyStarted, "tournament %q", t.ID)
	}
	cfg := c.Config
	t.GroupPhase = &cfg
	applyDefaults(t)
	if err := validateGroupConfig(*t.GroupPhase); err != nil {
		return err
	}
	for _, group := range t.GroupPhase.ManualGroups {
		for _, id := range group {
			if _, ok := t.TeamByID(id); !ok {
				return wrapf(ErrTeamNotFound, "manual group team %q", id)
			}
		}
	}
	touch(t)
	return nil
}

// UpdatePhaseSettings changes per-phase settings. Nil fields are kept.
// Scoring changes recompute standings; timing changes replan the schedule.
type UpdatePhaseSettings struct {
	TournamentID      string                   `json:"tournament_id"`
	Name              *string                  `json:"name,omitempty"`
	NumberOfCourts    *int                     `json:"number_of_courts,omitempty"`
	SetsPerMatch      *int                     `json:"sets_per_match,omitempty"`
	PointsPerSet      *int                     `json:"points_per_set,omitempty"`
	PointsPerThirdSet *int                     `json:"points_per_third_set,omitempty"`
	WinPoints         *int                     `json:"win_points,omitempty"`
	LossPoints        *int                     `json:"loss_points,omitempty"`
	Tiebreaker        *models.Tiebreaker       `json:"tiebreaker,omitempty"`
	Knockout          *models.KnockoutConfig   `json:"knockout,omitempty"`
	Swiss             *models.SwissConfig      `json:"swiss,omitempty"`
	Playoff           *models.PlayoffConfig    `json:"playoff,omitempty"`
	Scheduling        *models.SchedulingConfig `json:"scheduling,omitempty"`
}

func (UpdatePhaseSettings) Kind() string { return KindUpdatePhaseSettings }

func (c UpdatePhaseSettings) apply(s *models.Snapshot) error {
	t, err := findTournament(s, c.TournamentID)
	if err != nil {
		return err
	}
	if c.NumberOfCourts != nil && *c.NumberOfCourts < 1 {
		return wrapf(ErrInvalidConfiguration, "courts %d", *c.NumberOfCourts)
	}
	if c.SetsPerMatch != nil && (*c.SetsPerMatch < 1 || *c.SetsPerMatch > 5) {
		return wrapf(ErrInvalidConfiguration, "sets per match %d", *c.SetsPerMatch)
	}
	if c.Tiebreaker != nil && *c.Tiebreaker != models.TiebreakHeadToHeadFirst && *c.Tiebreaker != models.TiebreakPointDiffFirst {
		return wrapf(ErrInvalidConfiguration, "tiebreaker %q", *c.Tiebreaker)
	}

	setIf(&t.Name, c.Name)
	setIf(&t.NumberOfCourts, c.NumberOfCourts)
	setIf(&t.SetsPerMatch, c.SetsPerMatch)
	setIf(&t.PointsPerSet, c.PointsPerSet)
	setIf(&t.PointsPerThirdSet, c.PointsPerThirdSet)
	setIf(&t.WinPoints, c.WinPoints)
	setIf(&t.LossPoints, c.LossPoints)
	setIf(&t.Tiebreaker, c.Tiebreaker)
	if c.Knockout != nil {
		t.Knockout = models.Ptr(*c.Knockout)
	}
	if c.Swiss != nil {
		t.Swiss = models.Ptr(*c.Swiss)
	}
	if c.Playoff != nil {
		t.Playoff = models.Ptr(*c.Playoff)
	}
	if c.Scheduling != nil {
		t.Scheduling = models.Ptr(*c.Scheduling)
	}
	applyDefaults(t)
	touch(t)

	if t.Status == models.StatusConfiguration {
		return nil
	}
	return settle(s, t)
}

func setIf[T any](dst *T, src *T) {
	if src != nil {
		*dst = *src
	}
}
