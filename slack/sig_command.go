package optsigslack

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/slack-go/slack"
	"github.com/slack-go/slack/socketmode"

	"github.com/dquill/optsig/binance"
	"github.com/dquill/optsig/scanner"
	"github.com/dquill/optsig/signals"
)

type SigHandler struct{}

func NewSigHandler() *SigHandler {
	return &SigHandler{}
}

func (h *SigHandler) HandleCommand(evt *socketmode.Event, client *socketmode.Client) error {
	data := evt.Data.(slack.SlashCommand)
	args := strings.Fields(data.Text)

	if len(args) != 1 && len(args) != 3 {
		_, _, err := client.PostMessage(data.ChannelID,
			slack.MsgOptionText("Usage: /sig <underlying> [minDTE maxDTE]", false))
		return err
	}

	underlying := strings.ToUpper(args[0])
	minDTE, maxDTE := 0, 45
	if len(args) == 3 {
		minDTE, _ = strconv.Atoi(args[1])
		maxDTE, _ = strconv.Atoi(args[2])
	}

	_, ts, err := client.PostMessage(data.ChannelID,
		slack.MsgOptionText(fmt.Sprintf("Computing signals for %s...", underlying), false))
	if err != nil {
		return err
	}

	go runSignalScan(client, data.ChannelID, ts, underlying, minDTE, maxDTE)
	return nil
}

func runSignalScan(client *socketmode.Client, channelID, timestamp, underlying string, minDTE, maxDTE int) {
	now := time.Now()

	indexPrice, err := binance.GetIndexPrice(underlying)
	if err != nil {
		postThreaded(client, channelID, timestamp, fmt.Sprintf("Error fetching index price: %s", err))
		return
	}

	chain, err := binance.GetOptionChain(underlying, minDTE, maxDTE, now)
	if err != nil {
		postThreaded(client, channelID, timestamp, fmt.Sprintf("Error fetching option chain: %s", err))
		return
	}
	if len(chain) == 0 {
		postThreaded(client, channelID, timestamp, fmt.Sprintf("No %s expiries within %d-%d DTE", underlying, minDTE, maxDTE))
		return
	}

	postThreaded(client, channelID, timestamp, fmt.Sprintf("Chain fetched: %d expiries. Loading open interest...", len(chain)))

	asset := binance.BaseAsset(underlying)
	openInterest := make(map[string]float64)
	for expiry := range chain {
		oi, err := binance.GetOpenInterest(asset, binance.ExpiryCode(expiry))
		if err != nil {
			continue
		}
		for sym, v := range oi {
			openInterest[sym] = v
		}
	}

	timeline, err := binance.GetSpotTimeline(underlying, "15m", 500)
	if err != nil {
		timeline = nil
	}

	res := scanner.Scan(chain, indexPrice, openInterest, timeline, now, scanner.Config{
		Horizons: signals.DefaultHorizons(),
		Quiet:    true,
	})
	postThreaded(client, channelID, timestamp, formatScanResult(underlying, indexPrice, res))
}

func formatScanResult(underlying string, indexPrice float64, res scanner.Result) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s signals (index %.2f)\n", underlying, indexPrice)
	for _, s := range res.Signals {
		fmt.Fprintf(&b, "%s  baseline %s (%d strikes)  rr25 %s  tilt %s  fwd[%s]\n",
			time.UnixMilli(s.Expiry).UTC().Format("2006-01-02"),
			fmtPtr(s.Baseline, "%.4f"),
			s.StrikesConsidered,
			fmtPtr(s.RiskReversal25, "%.4f"),
			fmtPtr(s.NetDeltaTilt, "%.4f"),
			formatForwardReturns(s.ForwardReturns))
	}
	fmt.Fprintf(&b, "Average baseline: %s", fmtPtr(res.AverageBaseline, "%.4f"))
	return b.String()
}

func formatForwardReturns(returns map[string]*float64) string {
	labels := []string{"15m", "1h", "4h", "1d"}
	parts := make([]string, 0, len(labels))
	for _, label := range labels {
		if v, ok := returns[label]; ok {
			parts = append(parts, fmt.Sprintf("%s %s", label, fmtPtr(v, "%.4f")))
		}
	}
	return strings.Join(parts, "  ")
}

func fmtPtr(v *float64, format string) string {
	if v == nil {
		return "—"
	}
	return fmt.Sprintf(format, *v)
}

func postThreaded(client *socketmode.Client, channelID, timestamp, text string) {
	client.PostMessage(channelID,
		slack.MsgOptionText(text, false),
		slack.MsgOptionTS(timestamp))
}
