package options

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPreferredIV(t *testing.T) {
	t.Run("mark IV wins", func(t *testing.T) {
		c := Contract{MarkIV: Float(0.5), BidIV: Float(0.4), AskIV: Float(0.6)}
		require.InDelta(t, 0.5, *c.PreferredIV(), 1e-12)
	})

	t.Run("bid/ask midpoint", func(t *testing.T) {
		c := Contract{BidIV: Float(0.4), AskIV: Float(0.6)}
		require.InDelta(t, 0.5, *c.PreferredIV(), 1e-12)
	})

	t.Run("single-sided quotes", func(t *testing.T) {
		require.InDelta(t, 0.4, *Contract{BidIV: Float(0.4)}.PreferredIV(), 1e-12)
		require.InDelta(t, 0.6, *Contract{AskIV: Float(0.6)}.PreferredIV(), 1e-12)
	})

	t.Run("nil when nothing is quoted", func(t *testing.T) {
		require.Nil(t, Contract{}.PreferredIV())
	})
}

func TestAnalysisInputValidate(t *testing.T) {
	valid := AnalysisInput{
		Symbol:     "AAPL",
		Expiration: "2026-03-27",
		OptionType: Call,
		Position:   Long,
		Strike:     100,
		Quantity:   1,
	}
	require.NoError(t, valid.Validate())

	t.Run("rejects non-positive strike", func(t *testing.T) {
		in := valid
		in.Strike = 0
		require.Error(t, in.Validate())
	})

	t.Run("rejects zero quantity", func(t *testing.T) {
		in := valid
		in.Quantity = 0
		require.Error(t, in.Validate())
	})

	t.Run("rejects unknown side and position", func(t *testing.T) {
		in := valid
		in.OptionType = "STRADDLE"
		require.Error(t, in.Validate())

		in = valid
		in.Position = "FLAT"
		require.Error(t, in.Validate())
	})

	t.Run("rejects malformed expiration", func(t *testing.T) {
		in := valid
		in.Expiration = "27/03/2026"
		require.Error(t, in.Validate())
	})
}
