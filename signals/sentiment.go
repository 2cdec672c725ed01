package signals

import (
	"math"

	"github.com/dquill/optsig/options"
)

const (
	// DefaultStrikeWindowPct bounds baseline strikes to ±20% of the index.
	DefaultStrikeWindowPct = 0.2
	// DefaultWeightExponent shapes the polynomial distance decay.
	DefaultWeightExponent = 1.25
	// DefaultTargetDelta is the risk-reversal wing delta.
	DefaultTargetDelta = 0.25
	// DefaultMinDelta excludes near-dead strikes from the delta tilt.
	DefaultMinDelta = 0.05
)

type BaselineOptions struct {
	StrikeWindowPct float64
	WeightExponent  float64
}

func (o BaselineOptions) withDefaults() BaselineOptions {
	if o.StrikeWindowPct <= 0 {
		o.StrikeWindowPct = DefaultStrikeWindowPct
	}
	if o.WeightExponent <= 0 {
		o.WeightExponent = DefaultWeightExponent
	}
	return o
}

type BaselineResult struct {
	Score             *float64 `json:"score"`
	StrikesConsidered int      `json:"strikes_considered"`
}

// BaselineSentiment scores call versus put premium mass near the index price.
// Contracts need a mark and a strike within the relative window; the weight
// decays with the absolute strike distance. The score is clamped to [-1, 1]
// and nil when no contract qualifies or the weighted total is zero.
func BaselineSentiment(contracts []options.Contract, indexPrice float64, opts BaselineOptions) BaselineResult {
	opts = opts.withDefaults()

	var callScore, putScore float64
	considered := 0
	for _, c := range contracts {
		if c.Mark == nil || indexPrice <= 0 {
			continue
		}
		distance := math.Abs(c.Strike - indexPrice)
		if distance/indexPrice > opts.StrikeWindowPct {
			continue
		}
		considered++

		weight := 1 / (1 + math.Pow(distance, opts.WeightExponent))
		if c.Side == options.Call {
			callScore += weight * *c.Mark
		} else {
			putScore += weight * *c.Mark
		}
	}

	total := callScore + putScore
	if considered == 0 || total == 0 {
		return BaselineResult{StrikesConsidered: considered}
	}

	score := clamp((callScore-putScore)/total, -1, 1)
	return BaselineResult{Score: &score, StrikesConsidered: considered}
}

type RiskReversalOptions struct {
	TargetDelta float64
}

func (o RiskReversalOptions) withDefaults() RiskReversalOptions {
	if o.TargetDelta <= 0 {
		o.TargetDelta = DefaultTargetDelta
	}
	return o
}

type RiskReversalResult struct {
	Value      *float64 `json:"value"`
	CallStrike *float64 `json:"call_strike"`
	PutStrike  *float64 `json:"put_strike"`
}

// RiskReversal25 is the implied-vol spread between the call nearest
// +targetDelta and the put nearest -targetDelta. Legs are picked
// independently; on a distance tie the first contract in input order wins.
// Nil when either leg lacks a delta or a usable IV.
func RiskReversal25(contracts []options.Contract, opts RiskReversalOptions) RiskReversalResult {
	opts = opts.withDefaults()

	var call, put *options.Contract
	var callDist, putDist float64
	for i := range contracts {
		c := &contracts[i]
		if c.Greeks.Delta == nil {
			continue
		}
		switch c.Side {
		case options.Call:
			d := math.Abs(*c.Greeks.Delta - opts.TargetDelta)
			if call == nil || d < callDist {
				call, callDist = c, d
			}
		case options.Put:
			d := math.Abs(*c.Greeks.Delta + opts.TargetDelta)
			if put == nil || d < putDist {
				put, putDist = c, d
			}
		}
	}

	var res RiskReversalResult
	if call == nil || put == nil {
		return res
	}
	res.CallStrike = options.Float(call.Strike)
	res.PutStrike = options.Float(put.Strike)

	callIV := call.PreferredIV()
	putIV := put.PreferredIV()
	if callIV == nil || putIV == nil {
		return res
	}
	res.Value = options.Float(*callIV - *putIV)
	return res
}

type TiltOptions struct {
	MinDelta float64
}

func (o TiltOptions) withDefaults() TiltOptions {
	if o.MinDelta <= 0 {
		o.MinDelta = DefaultMinDelta
	}
	return o
}

// NetDeltaTilt is the open-interest-weighted mean delta across contracts with
// |delta| at or above the floor, clamped to [-1, 1]. Nil when no open-interest
// mass qualifies.
func NetDeltaTilt(contracts []options.Contract, openInterest map[string]float64, opts TiltOptions) *float64 {
	opts = opts.withDefaults()
	if len(openInterest) == 0 {
		return nil
	}

	var num, den float64
	for _, c := range contracts {
		oi, ok := openInterest[c.Symbol]
		if !ok || c.Greeks.Delta == nil {
			continue
		}
		if math.Abs(*c.Greeks.Delta) < opts.MinDelta {
			continue
		}
		num += *c.Greeks.Delta * oi
		den += math.Abs(oi)
	}

	if den == 0 {
		return nil
	}
	return options.Float(clamp(num/den, -1, 1))
}

// SignalInput bundles everything needed to derive signals for one expiry.
type SignalInput struct {
	Expiry       int64
	Contracts    []options.Contract
	IndexPrice   float64
	OpenInterest map[string]float64
	Timeline     []options.PricePoint
	AnchorTs     int64
	Horizons     map[string]int64
	Baseline     BaselineOptions
	RiskReversal RiskReversalOptions
	Tilt         TiltOptions
}

// ExpirySignals is one signal record per (underlying, expiry, point-in-time).
type ExpirySignals struct {
	Expiry            int64               `json:"expiry"`
	Baseline          *float64            `json:"baseline"`
	StrikesConsidered int                 `json:"strikes_considered"`
	RiskReversal25    *float64            `json:"rr25"`
	CallStrike        *float64            `json:"call_strike"`
	PutStrike         *float64            `json:"put_strike"`
	NetDeltaTilt      *float64            `json:"net_delta_tilt"`
	ForwardReturns    map[string]*float64 `json:"forward_returns"`
}

// ComputeExpirySignals composes the individual signal functions. Pure
// composition, no additional logic.
func ComputeExpirySignals(in SignalInput) ExpirySignals {
	baseline := BaselineSentiment(in.Contracts, in.IndexPrice, in.Baseline)
	rr := RiskReversal25(in.Contracts, in.RiskReversal)

	return ExpirySignals{
		Expiry:            in.Expiry,
		Baseline:          baseline.Score,
		StrikesConsidered: baseline.StrikesConsidered,
		RiskReversal25:    rr.Value,
		CallStrike:        rr.CallStrike,
		PutStrike:         rr.PutStrike,
		NetDeltaTilt:      NetDeltaTilt(in.Contracts, in.OpenInterest, in.Tilt),
		ForwardReturns:    ForwardReturns(in.Timeline, in.AnchorTs, in.Horizons),
	}
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
