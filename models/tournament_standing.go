package models

// StandingEntry aggregates the counted matches of one team. Points is wins
// (scaled by the win/loss values) for single-set formats, sets won otherwise.
type StandingEntry struct {
	TeamID     string `json:"team_id"`
	Rank       int    `json:"rank"`
	Played     int    `json:"played"`
	Won        int    `json:"won"`
	Lost       int    `json:"lost"`
	SetsWon    int    `json:"sets_won"`
	SetsLost   int    `json:"sets_lost"`
	PointsWon  int    `json:"points_won"`
	PointsLost int    `json:"points_lost"`
	Points     int    `json:"points"`
}

func (s StandingEntry) SetDiff() int {
	return s.SetsWon - s.SetsLost
}

func (s StandingEntry) PointDiff() int {
	return s.PointsWon - s.PointsLost
}

type GroupStandingEntry struct {
	StandingEntry
	GroupID   string `json:"group_id"`
	GroupRank int    `json:"group_rank"`
}

// Placement is a final position fixed by a width-1 interval.
type Placement struct {
	TeamID string `json:"team_id"`
	Place  int    `json:"place"`
}
