package fields

import (
	"math"
	"strconv"
)

// AverageRating is an upstream vote average kept on the 0..10 scale with a
// single decimal.
type AverageRating float64

func NewAverageRating(v float64) AverageRating {
	if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return 0
	}
	if v > 10 {
		v = 10
	}
	return AverageRating(math.Round(v*10) / 10)
}

func (r AverageRating) MarshalJSON() ([]byte, error) {
	return []byte(strconv.FormatFloat(float64(r), 'f', 1, 64)), nil
}
