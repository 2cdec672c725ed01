package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"

	"github.com/dquill/optsig/binance"
	"github.com/dquill/optsig/scanner"
	"github.com/dquill/optsig/signals"
	"github.com/dquill/optsig/snapshot"
	optsigslack "github.com/dquill/optsig/slack"
)

func main() {
	underlying := flag.String("underlying", "BTCUSDT", "options underlying pair")
	minDTE := flag.Int("min-dte", 0, "minimum days to expiration")
	maxDTE := flag.Int("max-dte", 45, "maximum days to expiration")
	out := flag.String("out", "snapshots", "snapshot output directory")
	slackMode := flag.Bool("slack", false, "run as a Slack bot instead of a one-shot scan")
	monitorCPU := flag.Bool("cpu", false, "log CPU usage during the scan")
	flag.Parse()

	if err := godotenv.Load(); err != nil {
		log.Warn("no .env file loaded")
	}

	if *slackMode {
		appToken := os.Getenv("SLACK_APP_TOKEN")
		botToken := os.Getenv("SLACK_BOT_TOKEN")
		if appToken == "" || botToken == "" {
			log.Fatal("SLACK_APP_TOKEN and SLACK_BOT_TOKEN are required for -slack")
		}
		bot := optsigslack.NewSlackBot(appToken, botToken)
		if err := bot.Start(); err != nil {
			log.Fatalf("slack bot stopped: %s", err)
		}
		return
	}

	now := time.Now()

	indexPrice, err := binance.GetIndexPrice(*underlying)
	if err != nil {
		log.Fatalf("failed to fetch index price: %s", err)
	}
	fmt.Printf("Index price for %s: %.2f\n", *underlying, indexPrice)

	chain, err := binance.GetOptionChain(*underlying, *minDTE, *maxDTE, now)
	if err != nil {
		log.Fatalf("failed to fetch option chain: %s", err)
	}
	if len(chain) == 0 {
		fmt.Printf("No expiries within %d-%d DTE. Check the DTE window.\n", *minDTE, *maxDTE)
		return
	}

	asset := binance.BaseAsset(*underlying)
	openInterest := make(map[string]float64)
	for expiry := range chain {
		oi, err := binance.GetOpenInterest(asset, binance.ExpiryCode(expiry))
		if err != nil {
			log.Warnf("open interest unavailable for %s: %s", binance.ExpiryCode(expiry), err)
			continue
		}
		for sym, v := range oi {
			openInterest[sym] = v
		}
	}

	timeline, err := binance.GetSpotTimeline(*underlying, "15m", 500)
	if err != nil {
		log.Warnf("spot timeline unavailable: %s", err)
	}

	res := scanner.Scan(chain, indexPrice, openInterest, timeline, now, scanner.Config{
		Horizons:   signals.DefaultHorizons(),
		MonitorCPU: *monitorCPU,
	})

	for _, s := range res.Signals {
		fmt.Printf("%s  baseline=%s (%d strikes)  rr25=%s  tilt=%s\n",
			time.UnixMilli(s.Expiry).UTC().Format("2006-01-02"),
			fmtPtr(s.Baseline), s.StrikesConsidered,
			fmtPtr(s.RiskReversal25), fmtPtr(s.NetDeltaTilt))
	}
	if res.AverageBaseline != nil {
		fmt.Printf("Average baseline across expiries: %.4f (stddev %.4f)\n", *res.AverageBaseline, *res.BaselineStdDev)
	}

	doc := snapshot.Document{
		CapturedAt: now.UnixMilli(),
		Underlying: *underlying,
		IndexPrice: indexPrice,
		Signals:    res.Signals,
		Timeline:   timeline,
	}
	for _, cs := range chain {
		doc.Contracts = append(doc.Contracts, cs...)
	}

	path, err := snapshot.Capture(*out, doc)
	if err != nil {
		log.Fatalf("failed to write snapshot: %s", err)
	}
	fmt.Printf("Successfully wrote %d contracts and %d expiry signals to %s\n", len(doc.Contracts), len(doc.Signals), path)
}

func fmtPtr(v *float64) string {
	if v == nil {
		return "—"
	}
	return fmt.Sprintf("%.4f", *v)
}
