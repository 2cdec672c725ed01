package binance

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/dquill/optsig/options"
)

// ParsedSymbol is the decomposition of an option symbol such as
// BTC-250926-60000-C: asset, expiry date code, strike and side.
type ParsedSymbol struct {
	Asset  string
	Expiry time.Time
	Strike float64
	Side   options.Side
}

// ParseSymbol splits a Binance option symbol into its parts. The expiry
// segment is a YYMMDD date code; expiry settles at 08:00 UTC.
func ParseSymbol(symbol string) (ParsedSymbol, error) {
	parts := strings.Split(symbol, "-")
	if len(parts) != 4 {
		return ParsedSymbol{}, fmt.Errorf("bad option symbol %q", symbol)
	}

	expiry, err := time.Parse("060102", parts[1])
	if err != nil {
		return ParsedSymbol{}, fmt.Errorf("bad expiry code in %q: %w", symbol, err)
	}
	expiry = expiry.Add(8 * time.Hour)

	strike, err := strconv.ParseFloat(parts[2], 64)
	if err != nil {
		return ParsedSymbol{}, fmt.Errorf("bad strike in %q: %w", symbol, err)
	}

	var side options.Side
	switch parts[3] {
	case "C":
		side = options.Call
	case "P":
		side = options.Put
	default:
		return ParsedSymbol{}, fmt.Errorf("bad side %q in %q", parts[3], symbol)
	}

	return ParsedSymbol{Asset: parts[0], Expiry: expiry, Strike: strike, Side: side}, nil
}

// ExpiryCode renders an expiry timestamp (epoch ms) as the YYMMDD code used
// by the open-interest endpoint.
func ExpiryCode(expiryMs int64) string {
	return time.UnixMilli(expiryMs).UTC().Format("060102")
}

// BaseAsset strips the quote currency from an underlying such as BTCUSDT.
func BaseAsset(underlying string) string {
	for _, quote := range []string{"USDT", "USDC", "BUSD"} {
		if strings.HasSuffix(underlying, quote) && len(underlying) > len(quote) {
			return strings.TrimSuffix(underlying, quote)
		}
	}
	return underlying
}
