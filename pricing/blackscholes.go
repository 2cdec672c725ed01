package pricing

import (
	"math"

	"github.com/dquill/optsig/options"
)

const (
	// VolatilityFloor replaces non-positive or invalid volatility inputs.
	VolatilityFloor = 1e-4
	// TimeFloor keeps the formulas defined at or past expiry (years).
	TimeFloor = 1e-8

	maxIterations = 100
	ivTolerance   = 1e-8
)

// Result is the closed-form valuation of a single option. Theta is annualized
// and vega/rho are per unit move; callers scale to per-day and per-1% before
// presenting them as greeks.
type Result struct {
	Price        float64
	Delta        float64
	Gamma        float64
	Theta        float64
	Vega         float64
	Rho          float64
	ProbITM      float64
	ExpectedMove float64
}

// Price values a European option under Black-Scholes-Merton with a continuous
// dividend yield. Degenerate sigma and T inputs are floored rather than
// rejected, so the result is always defined.
func Price(S, K, T, r, q, sigma float64, side options.Side) Result {
	if math.IsNaN(sigma) || sigma <= 0 {
		sigma = VolatilityFloor
	}
	if math.IsNaN(T) || T <= 0 {
		T = TimeFloor
	}

	sqrtT := math.Sqrt(T)
	d1 := (math.Log(S/K) + (r-q+0.5*sigma*sigma)*T) / (sigma * sqrtT)
	d2 := d1 - sigma*sqrtT
	discQ := math.Exp(-q * T)
	discR := math.Exp(-r * T)

	var price, delta, theta, rho, probITM float64
	if side == options.Call {
		price = S*discQ*normCDF(d1) - K*discR*normCDF(d2)
		delta = discQ * normCDF(d1)
		theta = -(S*discQ*normPDF(d1)*sigma)/(2*sqrtT) - r*K*discR*normCDF(d2) + q*S*discQ*normCDF(d1)
		rho = K * T * discR * normCDF(d2)
		probITM = normCDF(d2)
	} else {
		price = K*discR*normCDF(-d2) - S*discQ*normCDF(-d1)
		delta = -discQ * normCDF(-d1)
		theta = -(S*discQ*normPDF(d1)*sigma)/(2*sqrtT) + r*K*discR*normCDF(-d2) - q*S*discQ*normCDF(-d1)
		rho = -K * T * discR * normCDF(-d2)
		probITM = normCDF(-d2)
	}

	return Result{
		Price:        price,
		Delta:        delta,
		Gamma:        discQ * normPDF(d1) / (S * sigma * sqrtT),
		Theta:        theta,
		Vega:         S * discQ * normPDF(d1) * sqrtT,
		Rho:          rho,
		ProbITM:      probITM,
		ExpectedMove: S * sigma * sqrtT,
	}
}

// ImpliedVolatility backs sigma out of a target price by Newton iteration on
// vega. Returns NaN when the iteration fails to converge.
func ImpliedVolatility(targetPrice, S, K, T, r, q float64, side options.Side) float64 {
	sigma := 0.5 // Initial guess
	for i := 0; i < maxIterations; i++ {
		res := Price(S, K, T, r, q, sigma, side)

		diff := res.Price - targetPrice
		if math.Abs(diff) < ivTolerance {
			return sigma
		}
		if res.Vega == 0 {
			break
		}

		sigma = sigma - diff/res.Vega
		if sigma <= 0 {
			sigma = VolatilityFloor
		}
	}
	return math.NaN()
}

// ShadowGamma measures delta response to a joint spot and volatility shock:
// +1% spot with +5% vol for the up scenario, the mirror for the down scenario.
func ShadowGamma(S, K, T, r, q, sigma float64, side options.Side) (float64, float64) {
	upS := S * 1.01
	downS := S * 0.99
	upSigma := sigma * 1.05
	downSigma := sigma * 0.95

	baseDelta := Price(S, K, T, r, q, sigma, side).Delta
	upDelta := Price(upS, K, T, r, q, upSigma, side).Delta
	downDelta := Price(downS, K, T, r, q, downSigma, side).Delta

	shadowUp := (upDelta - baseDelta) / (upS - S)
	shadowDown := (baseDelta - downDelta) / (S - downS)

	return shadowUp, shadowDown
}

// SkewGamma is the finite-difference vega response to volatility (volga).
func SkewGamma(S, K, T, r, q, sigma float64, side options.Side) float64 {
	upSigma := sigma * 1.001
	downSigma := sigma * 0.999

	upVega := Price(S, K, T, r, q, upSigma, side).Vega
	downVega := Price(S, K, T, r, q, downSigma, side).Vega

	return (upVega - downVega) / (upSigma - downSigma)
}

func normCDF(x float64) float64 {
	return 0.5 * (1 + erf(x/math.Sqrt2))
}

func normPDF(x float64) float64 {
	return math.Exp(-0.5*x*x) / math.Sqrt(2*math.Pi)
}

// Abramowitz & Stegun 7.1.26 polynomial approximation. The coefficients are
// fixed for numeric parity with other implementations of the same formula;
// do not swap in math.Erf.
func erf(x float64) float64 {
	const (
		a1 = 0.254829592
		a2 = -0.284496736
		a3 = 1.421413741
		a4 = -1.453152027
		a5 = 1.061405429
		p  = 0.3275911
	)

	sign := 1.0
	if x < 0 {
		sign = -1.0
		x = -x
	}

	t := 1 / (1 + p*x)
	y := 1 - (a1+t*(a2+t*(a3+t*(a4+t*a5))))*t*math.Exp(-x*x)

	return sign * y
}
