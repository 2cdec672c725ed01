package pricing

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/stat/distuv"

	"github.com/dquill/optsig/options"
)

func TestNormCDFMatchesGonum(t *testing.T) {
	// The A&S 7.1.26 polynomial is accurate to ~1.5e-7; the reference normal
	// CDF from gonum should agree well inside that bound.
	norm := distuv.Normal{Mu: 0, Sigma: 1}
	for x := -5.0; x <= 5.0; x += 0.01 {
		require.InDelta(t, norm.CDF(x), normCDF(x), 1e-6, "x=%f", x)
	}
}

func TestPutCallParity(t *testing.T) {
	cases := []struct {
		S, K, T, r, q, sigma float64
	}{
		{100, 100, 0.25, 0.05, 0.0, 0.2},
		{190, 185, 30.0 / 365, 0.045, 0.005, 0.22},
		{50, 80, 1.5, 0.03, 0.01, 0.6},
		{3000, 2500, 0.1, 0.0, 0.0, 0.8},
	}

	for _, tc := range cases {
		call := Price(tc.S, tc.K, tc.T, tc.r, tc.q, tc.sigma, options.Call)
		put := Price(tc.S, tc.K, tc.T, tc.r, tc.q, tc.sigma, options.Put)

		lhs := call.Price - put.Price
		rhs := tc.S*math.Exp(-tc.q*tc.T) - tc.K*math.Exp(-tc.r*tc.T)
		require.InDelta(t, rhs, lhs, 1e-6, "parity violated for S=%f K=%f", tc.S, tc.K)
	}
}

func TestDeepMoneynessDeltas(t *testing.T) {
	t.Run("deep ITM call delta approaches 1", func(t *testing.T) {
		res := Price(200, 50, 0.25, 0.02, 0, 0.01, options.Call)
		require.InDelta(t, 1.0, res.Delta, 1e-3)
		require.InDelta(t, 1.0, res.ProbITM, 1e-3)
	})

	t.Run("deep OTM call delta approaches 0", func(t *testing.T) {
		res := Price(50, 200, 0.25, 0.02, 0, 0.01, options.Call)
		require.InDelta(t, 0.0, res.Delta, 1e-3)
		require.InDelta(t, 0.0, res.ProbITM, 1e-3)
	})
}

func TestRegressionFixture(t *testing.T) {
	// S=190, K=190, T=30/365, r=0.045, q=0.005, sigma=0.22, call.
	res := Price(190, 190, 30.0/365, 0.045, 0.005, 0.22, options.Call)

	require.InDelta(t, 5.08837123258499, res.Price, 1e-6)
	require.InDelta(t, 0.5331182152301198, res.Delta, 1e-6)
	require.InDelta(t, 0.03316051283376254, res.Gamma, 1e-6)
	require.InDelta(t, -32.792408952114215, res.Theta, 1e-6)
	require.InDelta(t, 21.646092569239073, res.Vega, 1e-6)
	require.InDelta(t, 7.907185451600364, res.Rho, 1e-6)
	require.InDelta(t, 0.5082135360418628, res.ProbITM, 1e-6)
	require.InDelta(t, 11.983687542792813, res.ExpectedMove, 1e-6)

	// Near-ATM call delta ends up a touch above one half after discounting.
	require.Greater(t, res.Delta, 0.5)
	require.Less(t, res.Delta, 0.56)
}

func TestDegenerateInputsStayFinite(t *testing.T) {
	t.Run("non-positive volatility is floored", func(t *testing.T) {
		res := Price(100, 100, 0.25, 0.05, 0, 0, options.Call)
		require.False(t, math.IsNaN(res.Price))
		require.False(t, math.IsInf(res.Price, 0))
	})

	t.Run("expired option keeps a defined price", func(t *testing.T) {
		res := Price(120, 100, -0.1, 0.05, 0, 0.2, options.Call)
		require.False(t, math.IsNaN(res.Price))
		require.InDelta(t, 20, res.Price, 0.05)
	})

	t.Run("NaN volatility is floored", func(t *testing.T) {
		res := Price(100, 100, 0.25, 0.05, 0, math.NaN(), options.Put)
		require.False(t, math.IsNaN(res.Price))
	})
}

func TestProbITMComplementarity(t *testing.T) {
	call := Price(95, 100, 0.5, 0.03, 0.01, 0.35, options.Call)
	put := Price(95, 100, 0.5, 0.03, 0.01, 0.35, options.Put)
	require.InDelta(t, 1.0, call.ProbITM+put.ProbITM, 1e-9)
}

func TestImpliedVolatilityRoundTrip(t *testing.T) {
	const sigma = 0.31
	target := Price(150, 145, 0.4, 0.04, 0.01, sigma, options.Call).Price

	recovered := ImpliedVolatility(target, 150, 145, 0.4, 0.04, 0.01, options.Call)
	require.False(t, math.IsNaN(recovered))
	require.InDelta(t, sigma, recovered, 1e-4)
}

func TestShadowAndSkewGamma(t *testing.T) {
	up, down := ShadowGamma(100, 100, 0.25, 0.03, 0, 0.25, options.Call)
	require.Greater(t, up, 0.0)
	require.Greater(t, down, 0.0)

	volga := SkewGamma(100, 110, 0.25, 0.03, 0, 0.25, options.Call)
	require.False(t, math.IsNaN(volga))
}
