package binance

// Raw response shapes for the Binance European options API (eapi). Numeric
// fields arrive as strings and are coerced where they are consumed.

type indexPriceResponse struct {
	Time       int64  `json:"time"`
	IndexPrice string `json:"indexPrice"`
}

type exchangeInfoResponse struct {
	OptionSymbols []optionSymbol `json:"optionSymbols"`
}

type optionSymbol struct {
	Symbol      string  `json:"symbol"`
	Underlying  string  `json:"underlying"`
	ExpiryDate  int64   `json:"expiryDate"`
	StrikePrice string  `json:"strikePrice"`
	Side        string  `json:"side"`
	Unit        float64 `json:"unit"`
}

type markRecord struct {
	Symbol    string `json:"symbol"`
	MarkPrice string `json:"markPrice"`
	BidIV     string `json:"bidIV"`
	AskIV     string `json:"askIV"`
	MarkIV    string `json:"markIV"`
	Delta     string `json:"delta"`
	Theta     string `json:"theta"`
	Gamma     string `json:"gamma"`
	Vega      string `json:"vega"`
}

type openInterestRecord struct {
	Symbol          string `json:"symbol"`
	SumOpenInterest string `json:"sumOpenInterest"`
	Timestamp       string `json:"timestamp"`
}
