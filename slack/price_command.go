package optsigslack

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/slack-go/slack"
	"github.com/slack-go/slack/socketmode"

	"github.com/dquill/optsig/analytics"
	"github.com/dquill/optsig/binance"
	"github.com/dquill/optsig/options"
	"github.com/dquill/optsig/pricing"
)

type PriceHandler struct{}

func NewPriceHandler() *PriceHandler {
	return &PriceHandler{}
}

func (h *PriceHandler) HandleCommand(evt *socketmode.Event, client *socketmode.Client) error {
	data := evt.Data.(slack.SlashCommand)
	args := strings.Fields(data.Text)

	if len(args) != 4 && len(args) != 5 {
		_, _, err := client.PostMessage(data.ChannelID,
			slack.MsgOptionText("Usage: /price <underlying> <strike> <c|p> <expiry YYYY-MM-DD> [qty]", false))
		return err
	}

	underlying := strings.ToUpper(args[0])
	strike, _ := strconv.ParseFloat(args[1], 64)
	side := options.Call
	if strings.EqualFold(args[2], "p") {
		side = options.Put
	}
	expiry := args[3]
	qty := 1
	if len(args) == 5 {
		qty, _ = strconv.Atoi(args[4])
	}

	input := options.AnalysisInput{
		Symbol:        underlying,
		Expiration:    expiry,
		OptionType:    side,
		Position:      options.Long,
		Strike:        strike,
		Quantity:      qty,
		InterestRate:  0.045,
		DividendYield: 0,
	}
	if err := input.Validate(); err != nil {
		_, _, perr := client.PostMessage(data.ChannelID,
			slack.MsgOptionText(fmt.Sprintf("Invalid request: %s", err), false))
		return perr
	}

	_, ts, err := client.PostMessage(data.ChannelID,
		slack.MsgOptionText(fmt.Sprintf("Pricing %s %.0f %s %s...", underlying, strike, side, expiry), false))
	if err != nil {
		return err
	}

	go runPriceAnalysis(client, data.ChannelID, ts, input)
	return nil
}

func runPriceAnalysis(client *socketmode.Client, channelID, timestamp string, input options.AnalysisInput) {
	now := time.Now()

	indexPrice, err := binance.GetIndexPrice(input.Symbol)
	if err != nil {
		postThreaded(client, channelID, timestamp, fmt.Sprintf("Error fetching index price: %s", err))
		return
	}

	// Resolve the implied vol and quoted premium from the live contract when
	// one is listed at this strike and expiry.
	impliedVol := 0.5
	var quotedPremium *float64
	if chain, err := binance.GetOptionChain(input.Symbol, 0, 400, now); err == nil {
		for expiry, contracts := range chain {
			if time.UnixMilli(expiry).UTC().Format("2006-01-02") != input.Expiration {
				continue
			}
			for _, c := range contracts {
				if c.Strike == input.Strike && c.Side == input.OptionType {
					if iv := c.PreferredIV(); iv != nil {
						impliedVol = *iv
					}
					quotedPremium = c.Mark
				}
			}
		}
	}

	T := math.Max(float64(input.ExpirationTime().UnixMilli()-now.UnixMilli()), 1) / (365 * 24 * 60 * 60 * 1000)
	premium := pricing.Price(indexPrice, input.Strike, T, input.InterestRate, input.DividendYield, impliedVol, input.OptionType).Price
	if input.Premium != nil {
		premium = *input.Premium
	} else if quotedPremium != nil {
		premium = *quotedPremium
	}

	a := analytics.Build(input, indexPrice, impliedVol, premium, now)
	pop := pricing.ProbabilityOfProfit(indexPrice, input.InterestRate, input.DividendYield, impliedVol, a.TimeToExpiry, a.ProfitAt)

	var b strings.Builder
	fmt.Fprintf(&b, "%s %s %.2f exp %s x%d\n", a.Symbol, a.Side, a.Strike, input.Expiration, a.Contracts)
	fmt.Fprintf(&b, "underlying %.2f  premium %.4f  iv %.4f  %s\n", a.UnderlyingPrice, a.Premium, a.ImpliedVol, a.Moneyness)
	fmt.Fprintf(&b, "break-even %.2f  max profit %s  max loss %s\n", a.BreakEven, fmtPtr(a.MaxProfit, "%.2f"), fmtPtr(a.MaxLoss, "%.2f"))
	fmt.Fprintf(&b, "delta %.4f  gamma %.6f  theta/day %.4f  vega/1%% %.4f  rho/1%% %.4f\n",
		a.Greeks.Delta, a.Greeks.Gamma, a.Greeks.Theta, a.Greeks.Vega, a.Greeks.Rho)
	fmt.Fprintf(&b, "prob ITM %.2f%%  prob profit %.2f%%  expected move %.2f  annualized %s",
		a.ProbITM*100, pop*100, a.ExpectedMove, fmtPtr(a.AnnualizedReturn, "%.4f"))

	postThreaded(client, channelID, timestamp, b.String())
}
