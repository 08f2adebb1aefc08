// scoring/results.go
package scoring

import "math"

// Histogram buckets a game's historical scores into 10 equal-width bins
// and marks which bin the current player's score landed in.
type Histogram struct {
	Min        int   `json:"min"`
	Max        int   `json:"max"`
	BinWidth   int   `json:"bin_width"`
	Counts     []int `json:"counts"`      // historical scores per bin
	CurrentBin int   `json:"current_bin"` // bin index of the current score
}

const histogramBins = 10

// Percentile ranks the current score against a game's historical
// scores: the share of history strictly below it, as a rounded percent.
// With no history the player sits at the 50th percentile.
func Percentile(history []int, current int) int {
	if len(history) == 0 {
		return 50
	}

	below := 0
	for _, score := range history {
		if score < current {
			below++
		}
	}
	return int(math.Round(float64(below) / float64(len(history)) * 100))
}

// BuildHistogram partitions [min, max] of history plus the current
// score into 10 bins. Bin width rounds up, so the last bin may stretch
// slightly past max; the current score's bin index clamps to the last
// bin so the maximum value never falls off the end.
func BuildHistogram(history []int, current int) Histogram {
	lo, hi := current, current
	for _, score := range history {
		if score < lo {
			lo = score
		}
		if score > hi {
			hi = score
		}
	}

	width := int(math.Ceil(float64(hi-lo) / histogramBins))
	if width < 1 {
		width = 1
	}

	counts := make([]int, histogramBins)
	for _, score := range history {
		counts[binIndex(score, lo, width)]++
	}

	return Histogram{
		Min:        lo,
		Max:        hi,
		BinWidth:   width,
		Counts:     counts,
		CurrentBin: binIndex(current, lo, width),
	}
}

func binIndex(score, lo, width int) int {
	idx := (score - lo) / width
	if idx >= histogramBins {
		idx = histogramBins - 1
	}
	return idx
}
