package brackets

import "errors"

var (
	// Configuration
	ErrNotEnoughTeams        = errors.New("at least two teams are required")
	ErrTeamCountNotDivisible = errors.New("team count is not divisible by the group size")
	ErrGroupCountOutOfRange  = errors.New("group count must be between 2 and 8")
	ErrInvalidGroupSize      = errors.New("teams per group must be 3, 4 or 5")
	ErrInvalidManualGroups   = errors.New("manual groups must partition the team set")

	// Generation
	ErrUnsupportedGroupCount = errors.New("unsupported group count for knockout bracket")
	ErrUnsupportedGroupSize  = errors.New("unsupported group size for bracket template")
	ErrUnsupportedSystem     = errors.New("unsupported tournament system")
	ErrMissingGroups         = errors.New("bracket requires source groups")

	// Resolution integrity
	ErrDanglingDependency = errors.New("dependency references unknown match")
	ErrDependencyCycle    = errors.New("dependency graph contains a cycle")
	ErrUnresolvedRef      = errors.New("external reference cannot be resolved")
)
