package entity

// StockQuote is a point-in-time quote and profile snapshot for one ticker.
// It is fetched fresh per request and never persisted outside the graph.
type StockQuote struct {
	Ticker        string  `json:"ticker"`
	Price         float64 `json:"price"`
	Change        float64 `json:"change"`
	ChangePercent string  `json:"change_percent"`
	Volume        int64   `json:"volume"`
	MarketCap     float64 `json:"market_cap"`
	CompanyName   string  `json:"company_name"`
	Sector        string  `json:"sector"`
	Industry      string  `json:"industry"`
	AsOf          string  `json:"as_of"`
}
