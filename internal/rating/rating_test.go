package rating

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestProbability(t *testing.T) {
	assert.InDelta(t, 0.5, Probability(1500, 1500), 1e-9)
	assert.InDelta(t, 1/(1+0.1), Probability(1900, 1500), 1e-9)
	assert.InDelta(t, 1.0, Probability(1600, 1400)+Probability(1400, 1600), 1e-9)
}

func TestCompute(t *testing.T) {
	t.Run("equal ratings, margin six", func(t *testing.T) {
		h, l := Compute(1500, 1500, 6, true)
		assert.Equal(t, 1503, h)
		assert.Equal(t, 1497, l)
	})

	t.Run("higher rated loses", func(t *testing.T) {
		h, l := Compute(1600, 1400, 10, false)
		// expected score of the favourite is ~0.76
		assert.Equal(t, 1592, h)
		assert.Equal(t, 1408, l)
	})

	t.Run("higher rated wins", func(t *testing.T) {
		h, l := Compute(1600, 1400, 10, true)
		assert.Equal(t, 1602, h)
		assert.Equal(t, 1398, l)
	})

	t.Run("zero margin leaves ratings untouched", func(t *testing.T) {
		h, l := Compute(1700, 1300, 0, false)
		assert.Equal(t, 1700, h)
		assert.Equal(t, 1300, l)
	})

	t.Run("ratings are not bounded", func(t *testing.T) {
		h, l := Compute(10, 5, 40, false)
		assert.Less(t, h, 0)
		assert.Greater(t, l, 5)
	})
}

func TestCompute_DeltasHaveOppositeSigns(t *testing.T) {
	ratings := [][2]int{{1500, 1500}, {1620, 1480}, {2000, 1200}, {1501, 1500}}
	for _, r := range ratings {
		for k := 2; k <= 21; k++ {
			for _, higherWon := range []bool{true, false} {
				h, l := Compute(r[0], r[1], k, higherWon)
				dh, dl := h-r[0], l-r[1]
				if dh == 0 && dl == 0 {
					continue
				}
				assert.True(t, dh*dl <= 0, "ratings %v k=%d higherWon=%v gave deltas %d/%d", r, k, higherWon, dh, dl)
				if higherWon {
					assert.GreaterOrEqual(t, dh, 0)
				} else {
					assert.LessOrEqual(t, dh, 0)
				}
			}
		}
	}
}
