package engine

import (
	"errors"

	"github.com/Dosada05/tournament-engine/brackets"
)

var (
	// Configuration
	ErrNotEnoughTeams        = brackets.ErrNotEnoughTeams
	ErrNotEnoughPresentTeams = errors.New("at least two present teams are required to start")
	ErrTeamCountNotDivisible = brackets.ErrTeamCountNotDivisible
	ErrGroupCountOutOfRange  = brackets.ErrGroupCountOutOfRange
	ErrInvalidGroupSize      = brackets.ErrInvalidGroupSize
	ErrUnsupportedSystem     = brackets.ErrUnsupportedSystem
	ErrInvalidConfiguration  = errors.New("invalid tournament configuration")

	// Lifecycle
	ErrTournamentNotFound       = errors.New("tournament not found")
	ErrDuplicateTournament      = errors.New("tournament id already exists")
	ErrTournamentAlreadyStarted = errors.New("tournament has already started")
	ErrTournamentNotStarted     = errors.New("tournament has not started")
	ErrLinkedPhase              = errors.New("operation not allowed on a linked phase")
	ErrRoundNotCompleted        = errors.New("current round is not completed")
	ErrSwissRoundLimit          = errors.New("swiss round limit reached")
	ErrUndecidedMatch           = errors.New("scores do not decide a winner")
	ErrInvalidScore             = errors.New("invalid set scores")

	// Roster
	ErrDuplicateTeam = errors.New("team id already exists")
	ErrTeamNotFound  = errors.New("team not found")

	// Commands
	ErrUnknownCommand = errors.New("unknown command kind")
	ErrInvalidCommand = errors.New("invalid command payload")
)
