package signals

import (
	"sort"

	"github.com/dquill/optsig/options"
)

// DefaultHorizons returns the standard forward-return offsets in milliseconds.
func DefaultHorizons() map[string]int64 {
	return map[string]int64{
		"15m": 15 * 60 * 1000,
		"1h":  60 * 60 * 1000,
		"4h":  4 * 60 * 60 * 1000,
		"1d":  24 * 60 * 60 * 1000,
	}
}

// ForwardReturns looks up the realized return from an anchor point to each
// horizon. The anchor is the first point at or after anchorTs, falling back to
// the last point of the series. A horizon maps to nil when no point at or
// after its target time exists.
func ForwardReturns(timeline []options.PricePoint, anchorTs int64, horizons map[string]int64) map[string]*float64 {
	if horizons == nil {
		horizons = DefaultHorizons()
	}

	returns := make(map[string]*float64, len(horizons))
	for label := range horizons {
		returns[label] = nil
	}
	if len(timeline) == 0 {
		return returns
	}

	sorted := make([]options.PricePoint, len(timeline))
	copy(sorted, timeline)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Timestamp < sorted[j].Timestamp })

	anchor := sorted[len(sorted)-1]
	for _, p := range sorted {
		if p.Timestamp >= anchorTs {
			anchor = p
			break
		}
	}
	if anchor.Price == 0 {
		return returns
	}

	for label, offset := range horizons {
		target := anchor.Timestamp + offset
		for _, p := range sorted {
			if p.Timestamp >= target {
				returns[label] = options.Float((p.Price - anchor.Price) / anchor.Price)
				break
			}
		}
	}

	return returns
}
