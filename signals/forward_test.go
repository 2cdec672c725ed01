package signals

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dquill/optsig/options"
)

func TestForwardReturns(t *testing.T) {
	horizons := map[string]int64{"15m": 900000, "1h": 3600000}

	t.Run("empty timeline yields nil everywhere", func(t *testing.T) {
		returns := ForwardReturns(nil, 0, horizons)
		require.Len(t, returns, 2)
		require.Nil(t, returns["15m"])
		require.Nil(t, returns["1h"])
	})

	t.Run("single point yields nil everywhere", func(t *testing.T) {
		timeline := []options.PricePoint{{Timestamp: 0, Price: 100}}
		returns := ForwardReturns(timeline, 0, horizons)
		require.Nil(t, returns["15m"])
		require.Nil(t, returns["1h"])
	})

	t.Run("exactly covered horizon resolves", func(t *testing.T) {
		timeline := []options.PricePoint{
			{Timestamp: 0, Price: 100},
			{Timestamp: 900000, Price: 102},
		}
		returns := ForwardReturns(timeline, 0, horizons)
		require.NotNil(t, returns["15m"])
		require.InDelta(t, 0.02, *returns["15m"], 1e-12)
		require.Nil(t, returns["1h"])
	})

	t.Run("unsorted input is handled", func(t *testing.T) {
		timeline := []options.PricePoint{
			{Timestamp: 900000, Price: 102},
			{Timestamp: 0, Price: 100},
		}
		returns := ForwardReturns(timeline, 0, horizons)
		require.NotNil(t, returns["15m"])
		require.InDelta(t, 0.02, *returns["15m"], 1e-12)
	})

	t.Run("anchor falls back to the last point", func(t *testing.T) {
		timeline := []options.PricePoint{
			{Timestamp: 0, Price: 100},
			{Timestamp: 900000, Price: 105},
		}
		// Anchor timestamp beyond the series: the last point anchors and no
		// future point exists.
		returns := ForwardReturns(timeline, 5000000, horizons)
		require.Nil(t, returns["15m"])
		require.Nil(t, returns["1h"])
	})

	t.Run("anchor snaps forward to the next point", func(t *testing.T) {
		timeline := []options.PricePoint{
			{Timestamp: 0, Price: 100},
			{Timestamp: 600000, Price: 110},
			{Timestamp: 1500000, Price: 121},
		}
		returns := ForwardReturns(timeline, 1, horizons)
		// Anchor is the 600000 point; 15m later resolves to the 1500000 point.
		require.NotNil(t, returns["15m"])
		require.InDelta(t, 0.1, *returns["15m"], 1e-12)
	})

	t.Run("default horizons are applied", func(t *testing.T) {
		returns := ForwardReturns(nil, 0, nil)
		require.Len(t, returns, 4)
		for _, label := range []string{"15m", "1h", "4h", "1d"} {
			_, ok := returns[label]
			require.True(t, ok, "missing horizon %s", label)
		}
	})
}
