package schedule

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

const minutesPerDay = 24 * 60

var ErrInvalidClock = errors.New("time must be HH:MM")

// ParseClock converts HH:MM to minutes since midnight.
func ParseClock(s string) (int, error) {
	hh, mm, ok := strings.Cut(strings.TrimSpace(s), ":")
	if !ok {
		return 0, fmt.Errorf("%q: %w", s, ErrInvalidClock)
	}
	h, err := strconv.Atoi(hh)
	if err != nil || h < 0 || h > 23 {
		return 0, fmt.Errorf("%q: %w", s, ErrInvalidClock)
	}
	m, err := strconv.Atoi(mm)
	if err != nil || m < 0 || m > 59 || len(mm) != 2 {
		return 0, fmt.Errorf("%q: %w", s, ErrInvalidClock)
	}
	return h*60 + m, nil
}

// FormatClock renders minutes since midnight as HH:MM, wrapping past midnight.
func FormatClock(minutes int) string {
	minutes %= minutesPerDay
	if minutes < 0 {
		minutes += minutesPerDay
	}
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}
