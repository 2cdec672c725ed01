package options

import (
	"fmt"
	"time"
)

type Side string

const (
	Call Side = "CALL"
	Put  Side = "PUT"
)

type Position string

const (
	Long  Position = "LONG"
	Short Position = "SHORT"
)

// Greeks holds per-contract sensitivities as reported by the venue.
// Fields are nil when the feed did not supply them.
type Greeks struct {
	Delta *float64 `json:"delta"`
	Gamma *float64 `json:"gamma"`
	Theta *float64 `json:"theta"`
	Vega  *float64 `json:"vega"`
}

// Contract is an immutable snapshot of one option instrument at one point in time.
type Contract struct {
	Symbol       string   `json:"symbol"`
	Underlying   string   `json:"underlying"`
	Expiry       int64    `json:"expiry"` // epoch ms
	Strike       float64  `json:"strike"`
	Side         Side     `json:"side"`
	ContractUnit *float64 `json:"contract_unit,omitempty"`
	Mark         *float64 `json:"mark,omitempty"`
	BidIV        *float64 `json:"bid_iv,omitempty"`
	AskIV        *float64 `json:"ask_iv,omitempty"`
	MarkIV       *float64 `json:"mark_iv,omitempty"`
	Greeks       Greeks   `json:"greeks"`
}

// PreferredIV resolves the implied volatility for a contract, preferring the
// mark IV, then the bid/ask midpoint, then whichever single side is quoted.
func (c Contract) PreferredIV() *float64 {
	if c.MarkIV != nil {
		return c.MarkIV
	}
	if c.BidIV != nil && c.AskIV != nil {
		mid := (*c.BidIV + *c.AskIV) / 2
		return &mid
	}
	if c.BidIV != nil {
		return c.BidIV
	}
	if c.AskIV != nil {
		return c.AskIV
	}
	return nil
}

// AnalysisInput describes one hypothetical or live trade under evaluation.
type AnalysisInput struct {
	Symbol          string   `json:"symbol"`
	Expiration      string   `json:"expiration"` // ISO date, e.g. 2026-03-27
	OptionType      Side     `json:"option_type"`
	Position        Position `json:"position"`
	Strike          float64  `json:"strike"`
	Premium         *float64 `json:"premium,omitempty"`
	Quantity        int      `json:"quantity"`
	InterestRate    float64  `json:"interest_rate"`
	DividendYield   float64  `json:"dividend_yield"`
	Volatility      *float64 `json:"volatility,omitempty"`
	UnderlyingPrice *float64 `json:"underlying_price,omitempty"`
}

func (in AnalysisInput) Validate() error {
	if in.Strike <= 0 {
		return fmt.Errorf("strike must be positive, got %f", in.Strike)
	}
	if in.Quantity < 1 {
		return fmt.Errorf("quantity must be at least 1, got %d", in.Quantity)
	}
	if in.OptionType != Call && in.OptionType != Put {
		return fmt.Errorf("unknown option type %q", in.OptionType)
	}
	if in.Position != Long && in.Position != Short {
		return fmt.Errorf("unknown position %q", in.Position)
	}
	if _, err := time.Parse("2006-01-02", in.Expiration); err != nil {
		return fmt.Errorf("bad expiration %q: %w", in.Expiration, err)
	}
	return nil
}

// ExpirationTime parses the ISO expiration date as UTC midnight.
func (in AnalysisInput) ExpirationTime() time.Time {
	t, _ := time.Parse("2006-01-02", in.Expiration)
	return t
}

// PricePoint is one entry of an underlying price timeline.
type PricePoint struct {
	Timestamp int64   `json:"timestamp"` // epoch ms
	Price     float64 `json:"price"`
}

// StrikeRow pairs the call and put contracts quoted at one strike. Either leg
// may be nil when the venue lists only one side.
type StrikeRow struct {
	Strike float64   `json:"strike"`
	Call   *Contract `json:"call,omitempty"`
	Put    *Contract `json:"put,omitempty"`
}

// Float returns a pointer to v. Convenience for optional numeric fields.
func Float(v float64) *float64 {
	return &v
}
