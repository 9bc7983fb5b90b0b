package rating

import "math"

// Initial is the rating every new player starts with.
const Initial = 1500

// scale is the rating gap at which the stronger player is expected to win ten times as often.
const scale = 400.0

// Probability returns the expected score of a player rated a against a player rated b.
func Probability(a, b int) float64 {
	return 1 / (1 + math.Pow(10, float64(b-a)/scale))
}

// Compute applies one result to the two contestants of a match.
//
// higher and lower are the current ratings of the higher and lower rated
// contestant (ties may go either way), k is the margin of victory and
// higherWon tells whether the higher rated contestant won. Each side's
// expected score is subtracted from its actual result and scaled by k.
// No bounds are enforced on the returned ratings.
func Compute(higher, lower, k int, higherWon bool) (newHigher, newLower int) {
	outcome := 0.0
	if higherWon {
		outcome = 1
	}
	pHigher := Probability(higher, lower)
	pLower := Probability(lower, higher)

	h := float64(higher) + float64(k)*(outcome-pHigher)
	l := float64(lower) + float64(k)*((1-outcome)-pLower)
	return round(h), round(l)
}

// round rounds half up, so -2.5 becomes -2 and 2.5 becomes 3.
func round(v float64) int {
	return int(math.Floor(v + 0.5))
}
