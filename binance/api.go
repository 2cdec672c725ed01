package binance

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/dquill/optsig/options"
)

// Base URLs are variables so tests can point them at a stub server.
var (
	OptionsBaseURL = "https://eapi.binance.com"
	SpotBaseURL    = "https://api.binance.com"
)

var httpClient = &http.Client{Timeout: 30 * time.Second}

// GetIndexPrice fetches the option index price for an underlying pair.
func GetIndexPrice(underlying string) (float64, error) {
	var resp indexPriceResponse
	if err := getJSON(fmt.Sprintf("%s/eapi/v1/index?underlying=%s", OptionsBaseURL, underlying), &resp); err != nil {
		return 0, fmt.Errorf("failed to fetch index price for %s: %w", underlying, err)
	}

	price, err := strconv.ParseFloat(resp.IndexPrice, 64)
	if err != nil {
		return 0, fmt.Errorf("bad index price %q for %s: %w", resp.IndexPrice, underlying, err)
	}
	return price, nil
}

// GetOptionChain fetches the listed instruments and the latest mark/greeks
// feed, merging them into contracts keyed by expiry (epoch ms). Expiries
// outside the [minDTE, maxDTE] window are skipped.
func GetOptionChain(underlying string, minDTE, maxDTE int, now time.Time) (map[int64][]options.Contract, error) {
	var info exchangeInfoResponse
	if err := getJSON(OptionsBaseURL+"/eapi/v1/exchangeInfo", &info); err != nil {
		return nil, fmt.Errorf("failed to fetch exchange info: %w", err)
	}

	var marks []markRecord
	if err := getJSON(OptionsBaseURL+"/eapi/v1/mark", &marks); err != nil {
		return nil, fmt.Errorf("failed to fetch mark feed: %w", err)
	}
	markBySymbol := make(map[string]markRecord, len(marks))
	for _, m := range marks {
		markBySymbol[m.Symbol] = m
	}

	chain := make(map[int64][]options.Contract)
	for _, sym := range info.OptionSymbols {
		if sym.Underlying != underlying {
			continue
		}

		dte := int(time.UnixMilli(sym.ExpiryDate).Sub(now).Hours() / 24)
		if dte < minDTE || dte > maxDTE {
			continue
		}

		strike, err := strconv.ParseFloat(sym.StrikePrice, 64)
		if err != nil {
			log.Warnf("skipping %s: bad strike %q", sym.Symbol, sym.StrikePrice)
			continue
		}

		contract := options.Contract{
			Symbol:     sym.Symbol,
			Underlying: sym.Underlying,
			Expiry:     sym.ExpiryDate,
			Strike:     strike,
			Side:       options.Side(sym.Side),
		}
		if sym.Unit > 0 {
			contract.ContractUnit = options.Float(sym.Unit)
		}

		if m, ok := markBySymbol[sym.Symbol]; ok {
			contract.Mark = optionalFloat(m.MarkPrice)
			contract.BidIV = optionalFloat(m.BidIV)
			contract.AskIV = optionalFloat(m.AskIV)
			contract.MarkIV = optionalFloat(m.MarkIV)
			contract.Greeks = options.Greeks{
				Delta: optionalFloat(m.Delta),
				Gamma: optionalFloat(m.Gamma),
				Theta: optionalFloat(m.Theta),
				Vega:  optionalFloat(m.Vega),
			}
		}

		chain[sym.ExpiryDate] = append(chain[sym.ExpiryDate], contract)
	}

	log.Infof("fetched option chain for %s: %d expiries", underlying, len(chain))
	return chain, nil
}

// GetOpenInterest fetches open interest per symbol for one expiry date code
// (YYMMDD) of a base asset.
func GetOpenInterest(asset, expiryCode string) (map[string]float64, error) {
	var records []openInterestRecord
	url := fmt.Sprintf("%s/eapi/v1/openInterest?underlyingAsset=%s&expiration=%s", OptionsBaseURL, asset, expiryCode)
	if err := getJSON(url, &records); err != nil {
		return nil, fmt.Errorf("failed to fetch open interest for %s %s: %w", asset, expiryCode, err)
	}

	oi := make(map[string]float64, len(records))
	for _, rec := range records {
		v, err := strconv.ParseFloat(rec.SumOpenInterest, 64)
		if err != nil {
			continue
		}
		oi[rec.Symbol] = v
	}
	return oi, nil
}

// GetSpotTimeline fetches spot klines and returns the close series as a price
// timeline, one point per candle keyed by its open time.
func GetSpotTimeline(symbol, interval string, limit int) ([]options.PricePoint, error) {
	url := fmt.Sprintf("%s/api/v3/klines?symbol=%s&interval=%s&limit=%d", SpotBaseURL, symbol, interval, limit)
	var raw [][]interface{}
	if err := getJSON(url, &raw); err != nil {
		return nil, fmt.Errorf("failed to fetch klines for %s: %w", symbol, err)
	}

	timeline := make([]options.PricePoint, 0, len(raw))
	for _, candle := range raw {
		if len(candle) < 7 {
			continue
		}
		openTime, ok := candle[0].(float64)
		if !ok {
			continue
		}
		closeStr, ok := candle[4].(string)
		if !ok {
			continue
		}
		closePrice, err := strconv.ParseFloat(closeStr, 64)
		if err != nil {
			continue
		}
		timeline = append(timeline, options.PricePoint{Timestamp: int64(openTime), Price: closePrice})
	}
	return timeline, nil
}

func getJSON(url string, out interface{}) error {
	resp, err := httpClient.Get(url)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response data: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status %d: %s", resp.StatusCode, body)
	}

	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("failed to unmarshal response data: %w", err)
	}
	return nil
}

func optionalFloat(s string) *float64 {
	if s == "" || s == "-" {
		return nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil
	}
	return &v
}
