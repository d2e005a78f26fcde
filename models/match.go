package models

import "fmt"

type MatchStatus string

const (
	MatchStatusScheduled  MatchStatus = "scheduled"
	MatchStatusPending    MatchStatus = "pending"
	MatchStatusInProgress MatchStatus = "in_progress"
	MatchStatusCompleted  MatchStatus = "completed"
)

// KnockoutRound identifies the structural role of a match inside a bracket.
type KnockoutRound string

const (
	KnockoutIntermediate  KnockoutRound = "intermediate"
	KnockoutRoundOf16     KnockoutRound = "round_of_16"
	KnockoutQuarterfinal  KnockoutRound = "quarterfinal"
	KnockoutSemifinal     KnockoutRound = "semifinal"
	KnockoutFinal         KnockoutRound = "final"
	KnockoutThirdPlace    KnockoutRound = "third_place"
	KnockoutQualification KnockoutRound = "qualification"
	KnockoutPlacement     KnockoutRound = "placement"
)

type MatchResult string

const (
	ResultWinner MatchResult = "winner"
	ResultLoser  MatchResult = "loser"
)

type RefKind string

const (
	RefMatch        RefKind = "match"
	RefGroupRank    RefKind = "group_rank"
	RefBestRunnerUp RefKind = "best_runner_up"
)

// SlotRef says where the team of a participant slot comes from: the winner or
// loser of another match, a group rank, or the k-th best runner-up across groups.
type SlotRef struct {
	Kind    RefKind     `json:"kind"`
	MatchID string      `json:"match_id,omitempty"`
	Result  MatchResult `json:"result,omitempty"`
	GroupID string      `json:"group_id,omitempty"`
	Rank    int         `json:"rank,omitempty"`
}

func WinnerOf(matchID string) *SlotRef {
	return &SlotRef{Kind: RefMatch, MatchID: matchID, Result: ResultWinner}
}

func LoserOf(matchID string) *SlotRef {
	return &SlotRef{Kind: RefMatch, MatchID: matchID, Result: ResultLoser}
}

func GroupRank(groupID string, rank int) *SlotRef {
	return &SlotRef{Kind: RefGroupRank, GroupID: groupID, Rank: rank}
}

func BestRunnerUp(rank int) *SlotRef {
	return &SlotRef{Kind: RefBestRunnerUp, Rank: rank}
}

// IsExternal reports whether the ref points outside the match set.
func (r *SlotRef) IsExternal() bool {
	return r != nil && r.Kind != RefMatch
}

// Label is the placeholder shown while the slot is unresolved.
func (r *SlotRef) Label() string {
	if r == nil {
		return ""
	}
	switch r.Kind {
	case RefGroupRank:
		return fmt.Sprintf("%s%d", r.GroupID, r.Rank)
	case RefBestRunnerUp:
		return fmt.Sprintf("Best 2nd #%d", r.Rank)
	case RefMatch:
		if r.Result == ResultLoser {
			return "Loser " + r.MatchID
		}
		return "Winner " + r.MatchID
	}
	return ""
}

type Dependency struct {
	TeamA *SlotRef `json:"team_a,omitempty"`
	TeamB *SlotRef `json:"team_b,omitempty"`
}

type SetScore struct {
	TeamA int `json:"team_a"`
	TeamB int `json:"team_b"`
}

// Side selects one of the two participant slots of a match.
type Side int

const (
	SideA Side = iota
	SideB
)

type Match struct {
	ID          string      `json:"id"`
	Round       int         `json:"round"`
	MatchNumber int         `json:"match_number"`
	TeamAID     *string     `json:"team_a_id"`
	TeamBID     *string     `json:"team_b_id"`
	CourtNumber *int        `json:"court_number"`
	Scores      []SetScore  `json:"scores"`
	WinnerID    *string     `json:"winner_id"`
	Status      MatchStatus `json:"status"`

	KnockoutRound     KnockoutRound `json:"knockout_round,omitempty"`
	DependsOn         *Dependency   `json:"depends_on,omitempty"`
	PlacementInterval *Interval     `json:"placement_interval,omitempty"`
	WinnerInterval    *Interval     `json:"winner_interval,omitempty"`
	LoserInterval     *Interval     `json:"loser_interval,omitempty"`
	BracketPosition   int           `json:"bracket_position,omitempty"`
	Bracket           string        `json:"bracket,omitempty"`
	GroupID           string        `json:"group_id,omitempty"`

	TeamAPlaceholder string `json:"team_a_placeholder,omitempty"`
	TeamBPlaceholder string `json:"team_b_placeholder,omitempty"`
	TeamABye         bool   `json:"team_a_bye,omitempty"`
	TeamBBye         bool   `json:"team_b_bye,omitempty"`
	Walkover         bool   `json:"walkover,omitempty"`

	RefereeTeamID *string `json:"referee_team_id,omitempty"`
	TimeSlot      *int    `json:"time_slot,omitempty"`
	ScheduledTime string  `json:"scheduled_time,omitempty"`
}

func MatchID(tournamentID string, number int) string {
	return fmt.Sprintf("%s-m%d", tournamentID, number)
}

func (m *Match) Team(side Side) *string {
	if side == SideA {
		return m.TeamAID
	}
	return m.TeamBID
}

func (m *Match) SetTeam(side Side, teamID *string) {
	if side == SideA {
		m.TeamAID = teamID
	} else {
		m.TeamBID = teamID
	}
}

func (m *Match) Ref(side Side) *SlotRef {
	if m.DependsOn == nil {
		return nil
	}
	if side == SideA {
		return m.DependsOn.TeamA
	}
	return m.DependsOn.TeamB
}

func (m *Match) IsBye(side Side) bool {
	if side == SideA {
		return m.TeamABye
	}
	return m.TeamBBye
}

func (m *Match) SetBye(side Side, bye bool) {
	if side == SideA {
		m.TeamABye = bye
	} else {
		m.TeamBBye = bye
	}
}

func (m *Match) SetPlaceholder(side Side, label string) {
	if side == SideA {
		m.TeamAPlaceholder = label
	} else {
		m.TeamBPlaceholder = label
	}
}

// SlotDecided reports whether the slot holds a team or can never be filled.
func (m *Match) SlotDecided(side Side) bool {
	return m.Team(side) != nil || m.IsBye(side)
}

func (m *Match) HasBothTeams() bool {
	return m.TeamAID != nil && m.TeamBID != nil
}

func (m *Match) IsCompleted() bool {
	return m.Status == MatchStatusCompleted
}

// Involves reports whether teamID occupies one of the slots.
func (m *Match) Involves(teamID string) bool {
	return (m.TeamAID != nil && *m.TeamAID == teamID) || (m.TeamBID != nil && *m.TeamBID == teamID)
}

// LoserID returns the non-winning team of a completed match, if any.
func (m *Match) LoserID() *string {
	if m.WinnerID == nil || !m.HasBothTeams() {
		return nil
	}
	if *m.TeamAID == *m.WinnerID {
		return m.TeamBID
	}
	return m.TeamAID
}

// Counted reports whether the match feeds standings: completed, two real teams,
// not decided by walkover.
func (m *Match) Counted() bool {
	return m.IsCompleted() && m.HasBothTeams() && !m.Walkover
}

// SetTotals sums set wins and points for both sides.
func (m *Match) SetTotals() (setsA, setsB, pointsA, pointsB int) {
	for _, s := range m.Scores {
		pointsA += s.TeamA
		pointsB += s.TeamB
		switch {
		case s.TeamA > s.TeamB:
			setsA++
		case s.TeamB > s.TeamA:
			setsB++
		}
	}
	return setsA, setsB, pointsA, pointsB
}
