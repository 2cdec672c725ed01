package pricing

import (
	"math"
	"sync"

	"golang.org/x/exp/rand"
)

const (
	numSimulations = 1000
	timeSteps      = 252 // trading days in a year
)

var rngPool = sync.Pool{
	New: func() interface{} {
		return rand.New(rand.NewSource(uint64(rand.Int63())))
	},
}

// SimulateTerminalPrices draws n terminal prices from a geometric Brownian
// motion with drift r-q and volatility sigma over horizon T.
func SimulateTerminalPrices(S, r, q, sigma, T float64, n int) []float64 {
	if math.IsNaN(sigma) || sigma <= 0 {
		sigma = VolatilityFloor
	}
	if math.IsNaN(T) || T <= 0 {
		T = TimeFloor
	}

	dt := T / float64(timeSteps)
	sqrtDt := math.Sqrt(dt)
	drift := (r - q - 0.5*sigma*sigma) * dt

	rng := rngPool.Get().(*rand.Rand)
	defer rngPool.Put(rng)

	prices := make([]float64, n)
	for i := range prices {
		s := S
		for step := 0; step < timeSteps; step++ {
			s *= math.Exp(drift + sigma*sqrtDt*rng.NormFloat64())
		}
		prices[i] = s
	}
	return prices
}

// ProbabilityOfProfit estimates the chance that profitAt evaluates positive at
// expiry, simulating the underlying under GBM. It supplements the closed-form
// ProbITM with a path-based view of an arbitrary payoff.
func ProbabilityOfProfit(S, r, q, sigma, T float64, profitAt func(price float64) float64) float64 {
	prices := SimulateTerminalPrices(S, r, q, sigma, T, numSimulations)

	profitable := 0
	for _, p := range prices {
		if profitAt(p) > 0 {
			profitable++
		}
	}
	return float64(profitable) / float64(len(prices))
}
