package fx

import (
	"math"

	"EtfView/internal/domain/models"

	"gonum.org/v1/gonum/floats"
)

// ExtractLevels finds price walls in an intraday series: a bar whose
// high is the maximum of the centered window around it is a top
// (resistance), a bar whose low is the window minimum is a bottom
// (support). Series shorter than a full window yield nothing.
func ExtractLevels(bars []models.Candle, window int) (tops, bottoms []float64) {
	span := window*2 + 1
	if window <= 0 || len(bars) < span {
		return nil, nil
	}

	highs := make([]float64, len(bars))
	lows := make([]float64, len(bars))
	for i, b := range bars {
		highs[i] = b.High
		lows[i] = b.Low
	}

	for i := window; i < len(bars)-window; i++ {
		if highs[i] == floats.Max(highs[i-window:i+window+1]) {
			tops = append(tops, highs[i])
		}
		if lows[i] == floats.Min(lows[i-window:i+window+1]) {
			bottoms = append(bottoms, lows[i])
		}
	}
	return tops, bottoms
}

// CheckProximity returns the level closest to price within threshold.
func CheckProximity(price float64, levels []float64, threshold float64) (float64, bool) {
	closest := 0.0
	minDiff := math.Inf(1)
	found := false
	for _, level := range levels {
		diff := math.Abs(price - level)
		if diff <= threshold && diff < minDiff {
			minDiff = diff
			closest = level
			found = true
		}
	}
	return closest, found
}

// InRange reports whether the series traded inside a band no wider
// than maxRange, and returns the band.
func InRange(bars []models.Candle, maxRange float64) (bool, float64, float64) {
	if len(bars) == 0 {
		return false, 0, 0
	}
	high := math.Inf(-1)
	low := math.Inf(1)
	for _, b := range bars {
		high = math.Max(high, b.High)
		low = math.Min(low, b.Low)
	}
	return high-low <= maxRange, high, low
}
