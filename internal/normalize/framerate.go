package normalize

import (
	"math"
	"math/big"
	"strconv"
)

// OptimalFPS returns the highest rate in rates, compared exactly. Choosing
// the highest observed rate keeps the output from judder when slower inputs
// are resampled. rates must not be empty and must not contain nil. The
// result is a copy.
func OptimalFPS(rates []*big.Rat) *big.Rat {
	if len(rates) == 0 {
		panic("normalize: OptimalFPS called with no frame rates")
	}

	best := rates[0]
	for _, r := range rates[1:] {
		if r.Cmp(best) > 0 {
			best = r
		}
	}
	return new(big.Rat).Set(best)
}

// FormatFPS renders a rate for ffmpeg's -r option: "60" or "30000/1001".
func FormatFPS(r *big.Rat) string {
	return r.RatString()
}

// DisplayFPS renders a rate rounded to four decimals for humans, e.g.
// "29.97" for 30000/1001. The float conversion is for display only.
func DisplayFPS(r *big.Rat) string {
	f, _ := r.Float64()
	return strconv.FormatFloat(math.Round(f*1e4)/1e4, 'f', -1, 64)
}
