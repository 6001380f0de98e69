package dto

// YahooChartResponse is the payload of the Yahoo Finance v8 chart endpoint.
type YahooChartResponse struct {
	Chart YahooChart `json:"chart"`
}

// YahooChart holds the chart result list or an error description.
type YahooChart struct {
	Result []YahooChartResult `json:"result"`
	Error  *YahooChartError   `json:"error"`
}

// YahooChartError describes a provider-side error (unknown symbol etc.).
type YahooChartError struct {
	Code        string `json:"code"`
	Description string `json:"description"`
}

// YahooChartResult is one symbol's chart data.
type YahooChartResult struct {
	Meta       YahooChartMeta  `json:"meta"`
	Timestamp  []int64         `json:"timestamp"`
	Indicators YahooIndicators `json:"indicators"`
}

// YahooChartMeta carries the symbol profile fields the quote needs.
type YahooChartMeta struct {
	Symbol             string  `json:"symbol"`
	Currency           string  `json:"currency"`
	ExchangeName       string  `json:"exchangeName"`
	RegularMarketPrice float64 `json:"regularMarketPrice"`
	LongName           string  `json:"longName"`
	ShortName          string  `json:"shortName"`
}

// YahooIndicators holds the quote series.
type YahooIndicators struct {
	Quote []YahooQuoteSeries `json:"quote"`
}

// YahooQuoteSeries is the OHLCV series aligned with Timestamp.
type YahooQuoteSeries struct {
	Close  []float64 `json:"close"`
	Volume []int64   `json:"volume"`
}

// YahooQuoteSummaryResponse is the payload of the quoteSummary endpoint used
// for profile enrichment (sector, industry, market cap).
type YahooQuoteSummaryResponse struct {
	QuoteSummary struct {
		Result []struct {
			AssetProfile *struct {
				Sector   string `json:"sector"`
				Industry string `json:"industry"`
			} `json:"assetProfile"`
			SummaryDetail *struct {
				MarketCap struct {
					Raw float64 `json:"raw"`
				} `json:"marketCap"`
			} `json:"summaryDetail"`
		} `json:"result"`
	} `json:"quoteSummary"`
}
