package match

import (
	"fmt"
	"strconv"
	"strings"
)

// ParseScoreInput converts operator-typed text from a manual score edit into
// numbers. Anything that is not a whole number is rejected with ErrInvalidInput.
func ParseScoreInput(p1Points, p2Points, target string) (int, int, int, error) {
	fields := []struct {
		name  string
		value string
	}{
		{"player1_points", p1Points},
		{"player2_points", p2Points},
		{"target", target},
	}

	var out [3]int
	for i, f := range fields {
		n, err := strconv.Atoi(strings.TrimSpace(f.value))
		if err != nil {
			return 0, 0, 0, fmt.Errorf("%w: %s=%q", ErrInvalidInput, f.name, f.value)
		}
		out[i] = n
	}
	return out[0], out[1], out[2], nil
}
