package dto

// QueryTypeBroadSector marks a sector query that asks about a whole sector
// rather than companies that happen to belong to it.
const QueryTypeBroadSector = "broad_sector"

// CompanyMention is one company identified in a text.
type CompanyMention struct {
	Name       string  `json:"name"`
	Ticker     string  `json:"ticker"`
	Confidence float64 `json:"confidence"`
}

// GroupMention is one named stock group (e.g. "faang") identified in a text.
type GroupMention struct {
	Group      string  `json:"group"`
	Confidence float64 `json:"confidence"`
}

// SectorMention is one sector identified in a text.
type SectorMention struct {
	Sector     string  `json:"sector"`
	Confidence float64 `json:"confidence"`
}

// SectorQuery describes a sector the query asks about and how.
type SectorQuery struct {
	Sector     string  `json:"sector"`
	QueryType  string  `json:"query_type"`
	Confidence float64 `json:"confidence"`
}

// ExtractionResult is the full entity mention set for one input text.
// Tickers is the canonical, deduplicated union of every extraction path.
type ExtractionResult struct {
	Tickers       []string         `json:"tickers"`
	Sectors       []string         `json:"sectors"`
	StockGroups   []GroupMention   `json:"stock_groups"`
	Companies     []CompanyMention `json:"companies"`
	SectorQueries []SectorQuery    `json:"sector_queries"`
}

// IsEmpty reports whether no entities were found at all.
func (r *ExtractionResult) IsEmpty() bool {
	return len(r.Tickers) == 0 && len(r.Sectors) == 0 &&
		len(r.StockGroups) == 0 && len(r.Companies) == 0
}

// HasTicker reports whether ticker is in the canonical ticker set.
func (r *ExtractionResult) HasTicker(ticker string) bool {
	for _, t := range r.Tickers {
		if t == ticker {
			return true
		}
	}
	return false
}

// CacheStats reports hit/miss counters and current size of the extraction
// cache.
type CacheStats struct {
	Hits   int `json:"hits"`
	Misses int `json:"misses"`
	Size   int `json:"size"`
}

// ClampConfidence forces a confidence value into [0, 1].
func ClampConfidence(c float64) float64 {
	if c < 0 {
		return 0
	}
	if c > 1 {
		return 1
	}
	return c
}
