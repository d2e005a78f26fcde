package brackets

import (
	"fmt"
	"hash/fnv"
	"math/rand"

	"github.com/Dosada05/tournament-engine/models"
)

// GroupID returns the letter id of the i-th group (0-based).
func GroupID(i int) string {
	return string(rune('A' + i))
}

// SnakeGroups deals ids into groupCount groups row by row, reversing the
// direction on every other row.
func SnakeGroups(ids []string, groupCount int) [][]string {
	groups := make([][]string, groupCount)
	for i, id := range ids {
		row, col := i/groupCount, i%groupCount
		if row%2 == 1 {
			col = groupCount - 1 - col
		}
		groups[col] = append(groups[col], id)
	}
	return groups
}

// RandomGroups shuffles ids with a fixed seed and snake-deals the result, so the
// same seed always yields the same groups.
func RandomGroups(ids []string, groupCount int, seed int64) [][]string {
	shuffled := append([]string(nil), ids...)
	rng := rand.New(rand.NewSource(seed))
	rng.Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})
	return SnakeGroups(shuffled, groupCount)
}

// SeedFromID derives a stable shuffle seed from a tournament id.
func SeedFromID(id string) int64 {
	h := fnv.New64a()
	_, _ = h.Write([]byte(id))
	return int64(h.Sum64() & 0x7fffffffffffffff)
}

// ManualGroups checks that groups partition ids exactly.
func ManualGroups(ids []string, groups [][]string) ([][]string, error) {
	want := make(map[string]bool, len(ids))
	for _, id := range ids {
		want[id] = true
	}
	seen := make(map[string]bool, len(ids))
	for gi, g := range groups {
		if len(g) == 0 {
			return nil, fmt.Errorf("group %s is empty: %w", GroupID(gi), ErrInvalidManualGroups)
		}
		for _, id := range g {
			if !want[id] {
				return nil, fmt.Errorf("team %q is not an entrant: %w", id, ErrInvalidManualGroups)
			}
			if seen[id] {
				return nil, fmt.Errorf("team %q appears twice: %w", id, ErrInvalidManualGroups)
			}
			seen[id] = true
		}
	}
	if len(seen) != len(want) {
		return nil, fmt.Errorf("%d of %d teams assigned: %w", len(seen), len(want), ErrInvalidManualGroups)
	}
	out := make([][]string, len(groups))
	for i, g := range groups {
		out[i] = append([]string(nil), g...)
	}
	return out, nil
}

// nextPow2 returns the smallest power of two >= n (n >= 1).
func nextPow2(n int) int {
	p := 1
	for p < n {
		p *= 2
	}
	return p
}

// SeedPositions returns the 1-based seeds in bracket order for a bracket of
// size p, so that seed s meets seed p+1-s in the first round and the top two
// seeds can only meet in the final.
func SeedPositions(p int) []int {
	positions := []int{1}
	for size := 2; size <= p; size *= 2 {
		next := make([]int, 0, size)
		for _, s := range positions {
			next = append(next, s, size+1-s)
		}
		positions = next
	}
	return positions
}

// GroupCount returns the number of groups for n teams of the configured size.
func GroupCount(n, size int, allowByes bool) (int, error) {
	if size < 3 || size > 5 {
		return 0, fmt.Errorf("teams per group %d: %w", size, ErrInvalidGroupSize)
	}
	if n < 2 {
		return 0, ErrNotEnoughTeams
	}
	if n%size != 0 && !allowByes {
		return 0, fmt.Errorf("%d teams in groups of %d: %w", n, size, ErrTeamCountNotDivisible)
	}
	count := (n + size - 1) / size
	if count < 2 || count > 8 {
		return 0, fmt.Errorf("%d groups: %w", count, ErrGroupCountOutOfRange)
	}
	return count, nil
}

func buildGroups(teamGroups [][]string, size int) []models.Group {
	groups := make([]models.Group, len(teamGroups))
	for i, ids := range teamGroups {
		g := models.Group{
			ID:      GroupID(i),
			Name:    "Group " + GroupID(i),
			TeamIDs: ids,
		}
		if size > len(ids) {
			g.ByeCount = size - len(ids)
		}
		groups[i] = g
	}
	return groups
}
