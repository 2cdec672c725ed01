package binance

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/dquill/optsig/options"
)

func TestParseSymbol(t *testing.T) {
	t.Run("call", func(t *testing.T) {
		parsed, err := ParseSymbol("BTC-250926-60000-C")
		require.NoError(t, err)
		require.Equal(t, "BTC", parsed.Asset)
		require.Equal(t, options.Call, parsed.Side)
		require.InDelta(t, 60000, parsed.Strike, 1e-9)
		require.Equal(t, time.Date(2025, time.September, 26, 8, 0, 0, 0, time.UTC), parsed.Expiry)
	})

	t.Run("put with fractional strike", func(t *testing.T) {
		parsed, err := ParseSymbol("DOGE-260130-0.25-P")
		require.NoError(t, err)
		require.Equal(t, "DOGE", parsed.Asset)
		require.Equal(t, options.Put, parsed.Side)
		require.InDelta(t, 0.25, parsed.Strike, 1e-9)
	})

	t.Run("rejects malformed symbols", func(t *testing.T) {
		for _, bad := range []string{"", "BTC", "BTC-250926-60000", "BTC-XXYYZZ-60000-C", "BTC-250926-abc-C", "BTC-250926-60000-X"} {
			_, err := ParseSymbol(bad)
			require.Error(t, err, "symbol %q", bad)
		}
	})
}

func TestExpiryCode(t *testing.T) {
	expiry := time.Date(2025, time.September, 26, 8, 0, 0, 0, time.UTC).UnixMilli()
	require.Equal(t, "250926", ExpiryCode(expiry))
}

func TestBaseAsset(t *testing.T) {
	require.Equal(t, "BTC", BaseAsset("BTCUSDT"))
	require.Equal(t, "ETH", BaseAsset("ETHUSDC"))
	require.Equal(t, "SOL", BaseAsset("SOL"))
	require.Equal(t, "USDT", BaseAsset("USDT"))
}
