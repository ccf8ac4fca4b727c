package types

import (
	"slices"
	"strings"
)

// CyclesAgree reports whether two cycle reports describe the same cycles,
// ignoring report order and the starting node of each cycle.
func CyclesAgree(a, b [][]string) bool {
	if len(a) != len(b) {
		return false
	}
	ka := cycleKeys(a)
	kb := cycleKeys(b)
	return slices.Equal(ka, kb)
}

func cycleKeys(cycles [][]string) []string {
	keys := make([]string, 0, len(cycles))
	for _, c := range cycles {
		if len(c) == 0 {
			keys = append(keys, "")
			continue
		}
		start := 0
		for i, id := range c {
			if id < c[start] {
				start = i
			}
		}
		rotated := make([]string, 0, len(c))
		for i := range c {
			rotated = append(rotated, c[(start+i)%len(c)])
		}
		keys = append(keys, strings.Join(rotated, "\x00"))
	}
	slices.Sort(keys)
	return keys
}
