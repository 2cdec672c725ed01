package signals

import (
	"math"

	"github.com/dquill/optsig/options"
)

// GridDecayBeta shapes the exponential log-moneyness decay of the grid
// sentiment variant.
const GridDecayBeta = 6.0

// GridSentiment is the strike-grid variant of the baseline sentiment score.
// It weighs marks by exp(-beta*|ln(K/S)|) instead of the polynomial distance
// decay used by BaselineSentiment; the two variants evolved independently and
// are both kept, since downstream consumers disagree on which one they read.
func GridSentiment(rows []options.StrikeRow, indexPrice float64) *float64 {
	if indexPrice <= 0 {
		return nil
	}

	var callScore, putScore float64
	seen := false
	for _, row := range rows {
		if row.Strike <= 0 {
			continue
		}
		weight := math.Exp(-GridDecayBeta * math.Abs(math.Log(row.Strike/indexPrice)))
		if row.Call != nil && row.Call.Mark != nil {
			callScore += weight * *row.Call.Mark
			seen = true
		}
		if row.Put != nil && row.Put.Mark != nil {
			putScore += weight * *row.Put.Mark
			seen = true
		}
	}

	total := callScore + putScore
	if !seen || total == 0 {
		return nil
	}
	return options.Float(clamp((callScore-putScore)/total, -1, 1))
}

// GridRiskReversal25 runs the nearest-delta risk reversal over a strike grid.
func GridRiskReversal25(rows []options.StrikeRow, opts RiskReversalOptions) RiskReversalResult {
	contracts := make([]options.Contract, 0, len(rows)*2)
	for _, row := range rows {
		if row.Call != nil {
			contracts = append(contracts, *row.Call)
		}
		if row.Put != nil {
			contracts = append(contracts, *row.Put)
		}
	}
	return RiskReversal25(contracts, opts)
}

// DealerGamma is the dealer gamma-exposure proxy: sum over legs of
// gamma * openInterest * contractUnit * S^2. The value is a raw heuristic
// with no normalization; nil when no leg carries both gamma and open interest.
func DealerGamma(rows []options.StrikeRow, openInterest map[string]float64, indexPrice float64) *float64 {
	var gex float64
	seen := false
	for _, row := range rows {
		for _, leg := range []*options.Contract{row.Call, row.Put} {
			if leg == nil || leg.Greeks.Gamma == nil {
				continue
			}
			oi, ok := openInterest[leg.Symbol]
			if !ok {
				continue
			}
			unit := 1.0
			if leg.ContractUnit != nil {
				unit = *leg.ContractUnit
			}
			gex += *leg.Greeks.Gamma * oi * unit * indexPrice * indexPrice
			seen = true
		}
	}

	if !seen {
		return nil
	}
	return &gex
}

// BuildStrikeGrid folds a flat contract list into strike rows, keeping the
// first call and put seen per strike.
func BuildStrikeGrid(contracts []options.Contract) []options.StrikeRow {
	index := make(map[float64]int)
	rows := make([]options.StrikeRow, 0)
	for i := range contracts {
		c := contracts[i]
		idx, ok := index[c.Strike]
		if !ok {
			idx = len(rows)
			index[c.Strike] = idx
			rows = append(rows, options.StrikeRow{Strike: c.Strike})
		}
		if c.Side == options.Call && rows[idx].Call == nil {
			rows[idx].Call = &contracts[i]
		}
		if c.Side == options.Put && rows[idx].Put == nil {
			rows[idx].Put = &contracts[i]
		}
	}
	return rows
}
