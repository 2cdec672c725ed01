package snapshot

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dquill/optsig/options"
	"github.com/dquill/optsig/signals"
)

func sampleDocument(capturedAt int64) Document {
	return Document{
		CapturedAt: capturedAt,
		Underlying: "BTCUSDT",
		IndexPrice: 64250.5,
		Signals: []signals.ExpirySignals{
			{
				Expiry:            1774512000000,
				Baseline:          options.Float(0.42),
				StrikesConsidered: 12,
				NetDeltaTilt:      options.Float(-0.1),
				ForwardReturns:    map[string]*float64{"15m": options.Float(0.003), "1d": nil},
			},
		},
		Contracts: []options.Contract{
			{
				Symbol:     "BTC-250926-60000-C",
				Underlying: "BTCUSDT",
				Expiry:     1774512000000,
				Strike:     60000,
				Side:       options.Call,
				Mark:       options.Float(1343.28),
				MarkIV:     options.Float(0.58),
				Greeks:     options.Greeks{Delta: options.Float(0.62)},
			},
		},
	}
}

func TestCaptureAndLoad(t *testing.T) {
	dir := t.TempDir()

	path, err := Capture(dir, sampleDocument(1700000000000))
	require.NoError(t, err)
	require.Equal(t, filepath.Join(dir, "BTCUSDT_1700000000000.json"), path)

	doc, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, "BTCUSDT", doc.Underlying)
	require.InDelta(t, 64250.5, doc.IndexPrice, 1e-9)
	require.Len(t, doc.Signals, 1)
	require.NotNil(t, doc.Signals[0].Baseline)
	require.InDelta(t, 0.42, *doc.Signals[0].Baseline, 1e-9)
	require.Len(t, doc.Contracts, 1)
	require.Equal(t, options.Call, doc.Contracts[0].Side)
	require.NotNil(t, doc.Contracts[0].Greeks.Delta)
}

func TestLoadDirOrdersByCaptureTime(t *testing.T) {
	dir := t.TempDir()

	_, err := Capture(dir, sampleDocument(1700000002000))
	require.NoError(t, err)
	_, err = Capture(dir, sampleDocument(1700000001000))
	require.NoError(t, err)

	docs, err := LoadDir(dir)
	require.NoError(t, err)
	require.Len(t, docs, 2)
	require.Less(t, docs[0].CapturedAt, docs[1].CapturedAt)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.json"))
	require.Error(t, err)
}
