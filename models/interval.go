package models

import "fmt"

// Interval is an inclusive range of final placements.
type Interval struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

func NewInterval(start, end int) *Interval {
	return &Interval{Start: start, End: end}
}

func (iv Interval) Width() int {
	return iv.End - iv.Start + 1
}

func (iv Interval) mid() int {
	return iv.Start + iv.Width()/2 - 1
}

// WinnerHalf is the upper half of the range (better placements).
func (iv Interval) WinnerHalf() Interval {
	return Interval{Start: iv.Start, End: iv.mid()}
}

// LoserHalf is the lower half of the range.
func (iv Interval) LoserHalf() Interval {
	return Interval{Start: iv.mid() + 1, End: iv.End}
}

func (iv Interval) String() string {
	if iv.Start == iv.End {
		return fmt.Sprintf("%d", iv.Start)
	}
	return fmt.Sprintf("%d-%d", iv.Start, iv.End)
}
