package analytics

import (
	"math"
	"time"

	"gonum.org/v1/gonum/floats"

	"github.com/dquill/optsig/options"
	"github.com/dquill/optsig/pricing"
)

const (
	// ContractSize is the number of shares controlled by one contract.
	ContractSize = 100

	atmTolerance  = 0.005
	payoffSamples = 61

	msPerYear = 365 * 24 * 60 * 60 * 1000
)

type Moneyness string

const (
	ITM Moneyness = "ITM"
	ATM Moneyness = "ATM"
	OTM Moneyness = "OTM"
)

// Greeks are the position greeks in display units: theta per day, vega per 1%
// volatility move, rho per 1% rate move.
type Greeks struct {
	Delta float64 `json:"delta"`
	Gamma float64 `json:"gamma"`
	Theta float64 `json:"theta"`
	Vega  float64 `json:"vega"`
	Rho   float64 `json:"rho"`
}

type PayoffPoint struct {
	Price  float64 `json:"price"`
	Profit float64 `json:"profit"`
}

// Analytics is the derived bundle for one analyzed position. It is computed
// fresh on every request and never persisted. MaxProfit and MaxLoss are nil
// when theoretically unbounded; AnnualizedReturn is nil when max loss is nil
// or zero.
type Analytics struct {
	Symbol           string           `json:"symbol"`
	Side             options.Side     `json:"side"`
	Position         options.Position `json:"position"`
	Strike           float64          `json:"strike"`
	UnderlyingPrice  float64          `json:"underlying_price"`
	ImpliedVol       float64          `json:"implied_vol"`
	TimeToExpiry     float64          `json:"time_to_expiry"` // years
	Premium          float64          `json:"premium"`        // per share
	BreakEven        float64          `json:"break_even"`
	MaxProfit        *float64         `json:"max_profit"`
	MaxLoss          *float64         `json:"max_loss"`
	ProbITM          float64          `json:"prob_itm"`
	ExpectedMove     float64          `json:"expected_move"`
	Payoff           []PayoffPoint    `json:"payoff"`
	Greeks           Greeks           `json:"greeks"`
	Moneyness        Moneyness        `json:"moneyness"`
	PremiumTotal     float64          `json:"premium_total"`
	IntrinsicValue   float64          `json:"intrinsic_value"`
	TimeValue        float64          `json:"time_value"`
	AnnualizedReturn *float64         `json:"annualized_return"`
	Contracts        int              `json:"contracts"`
	ContractSize     int              `json:"contract_size"`
}

// Build computes the full analytics bundle for one position. The caller has
// already resolved the underlying price, the implied volatility and the
// per-share premium (quoted or theoretical). Degenerate inputs degrade to
// nil/zero fields, never to an error.
func Build(input options.AnalysisInput, underlyingPrice, impliedVol, premium float64, now time.Time) Analytics {
	expiryMs := input.ExpirationTime().UnixMilli()
	T := math.Max(float64(expiryMs-now.UnixMilli()), 1) / msPerYear
	if T < pricing.TimeFloor {
		T = pricing.TimeFloor
	}

	res := pricing.Price(underlyingPrice, input.Strike, T, input.InterestRate, input.DividendYield, impliedVol, input.OptionType)

	posMul := 1.0
	if input.Position == options.Short {
		posMul = -1.0
	}
	qty := float64(input.Quantity)
	effQty := qty * ContractSize * posMul

	a := Analytics{
		Symbol:          input.Symbol,
		Side:            input.OptionType,
		Position:        input.Position,
		Strike:          input.Strike,
		UnderlyingPrice: underlyingPrice,
		ImpliedVol:      impliedVol,
		TimeToExpiry:    T,
		Premium:         premium,
		ProbITM:         res.ProbITM,
		ExpectedMove:    res.ExpectedMove,
		Greeks: Greeks{
			Delta: res.Delta,
			Gamma: res.Gamma,
			Theta: res.Theta / 365,
			Vega:  res.Vega / 100,
			Rho:   res.Rho / 100,
		},
		Contracts:    input.Quantity,
		ContractSize: ContractSize,
	}

	samples := floats.Span(make([]float64, payoffSamples), underlyingPrice/2, underlyingPrice*2)
	a.Payoff = make([]PayoffPoint, 0, payoffSamples)
	for _, p := range samples {
		price := math.Max(0, p)
		a.Payoff = append(a.Payoff, PayoffPoint{
			Price:  price,
			Profit: (intrinsicPerShare(input.OptionType, input.Strike, price) - premium) * effQty,
		})
	}

	if input.OptionType == options.Call {
		a.BreakEven = input.Strike + premium
	} else {
		a.BreakEven = input.Strike - premium
	}

	premiumTotal := premium * ContractSize * qty
	putCap := math.Max(input.Strike-premium, 0) * ContractSize * qty
	switch {
	case input.OptionType == options.Call && input.Position == options.Long:
		a.MaxLoss = options.Float(premiumTotal)
	case input.OptionType == options.Call && input.Position == options.Short:
		a.MaxProfit = options.Float(premiumTotal)
	case input.OptionType == options.Put && input.Position == options.Long:
		a.MaxLoss = options.Float(premiumTotal)
		a.MaxProfit = options.Float(putCap)
	default: // short put
		a.MaxProfit = options.Float(premiumTotal)
		a.MaxLoss = options.Float(putCap)
	}

	a.Moneyness = Classify(input.OptionType, underlyingPrice, input.Strike)

	intrinsicShare := intrinsicPerShare(input.OptionType, input.Strike, underlyingPrice)
	a.PremiumTotal = premiumTotal
	a.IntrinsicValue = intrinsicShare * ContractSize * qty * posMul
	a.TimeValue = math.Max(premium*ContractSize-intrinsicShare*ContractSize, 0) * qty * posMul

	a.AnnualizedReturn = annualizedReturn(a.Payoff, underlyingPrice+res.ExpectedMove, a.MaxLoss, T)

	return a
}

// ProfitAt evaluates the position payoff at an underlying price at expiry.
func (a Analytics) ProfitAt(price float64) float64 {
	posMul := 1.0
	if a.Position == options.Short {
		posMul = -1.0
	}
	effQty := float64(a.Contracts) * ContractSize * posMul
	return (intrinsicPerShare(a.Side, a.Strike, price) - a.Premium) * effQty
}

// Classify labels a strike against the spot. ATM wins inside a 0.5% band of
// the larger of the two prices.
func Classify(side options.Side, spot, strike float64) Moneyness {
	if math.Abs(spot-strike) <= math.Max(spot, strike)*atmTolerance {
		return ATM
	}
	if (side == options.Call && spot > strike) || (side == options.Put && spot < strike) {
		return ITM
	}
	return OTM
}

func intrinsicPerShare(side options.Side, strike, price float64) float64 {
	if side == options.Call {
		return math.Max(0, price-strike)
	}
	return math.Max(0, strike-price)
}

// annualizedReturn reads the payoff at the price closest to one expected move
// up and annualizes it against the capital at risk.
func annualizedReturn(payoff []PayoffPoint, targetPrice float64, maxLoss *float64, T float64) *float64 {
	if maxLoss == nil || *maxLoss == 0 || len(payoff) == 0 {
		return nil
	}

	nearest := payoff[0]
	for _, p := range payoff[1:] {
		if math.Abs(p.Price-targetPrice) < math.Abs(nearest.Price-targetPrice) {
			nearest = p
		}
	}

	ret := nearest.Profit / *maxLoss / math.Max(T, pricing.TimeFloor)
	return &ret
}
