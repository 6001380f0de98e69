package service

import (
	"regexp"
	"sort"
	"strings"
	"sync"

	"golang-finance-rag/internal/rag/dto"
	"golang-finance-rag/pkg/logger"

	lru "github.com/hashicorp/golang-lru/v2"
)

// tickerPattern matches ticker-shaped tokens: 1-5 uppercase letters with an
// optional single-letter class suffix (BRK.B).
var tickerPattern = regexp.MustCompile(`\b[A-Z]{1,5}(\.[A-Z])?\b`)

// EntityExtractor resolves company, ticker, group and sector mentions in a
// text. Extraction is deterministic and memoized by the exact input string.
type EntityExtractor struct {
	logger *logger.Logger

	mu     sync.Mutex
	cache  *lru.Cache[string, *dto.ExtractionResult]
	hits   int
	misses int
}

// NewEntityExtractor creates a new EntityExtractor with a bounded cache.
func NewEntityExtractor(cacheSize int, log *logger.Logger) (*EntityExtractor, error) {
	cache, err := lru.New[string, *dto.ExtractionResult](cacheSize)
	if err != nil {
		return nil, err
	}
	return &EntityExtractor{
		logger: log,
		cache:  cache,
	}, nil
}

// Extract returns the entity mention set for a text. An identical input
// string never triggers re-extraction; the cache key is the raw text.
func (e *EntityExtractor) Extract(text string) *dto.ExtractionResult {
	e.mu.Lock()
	if cached, ok := e.cache.Get(text); ok {
		e.hits++
		e.mu.Unlock()
		return cached
	}
	e.misses++
	e.mu.Unlock()

	result := e.extract(text)

	e.mu.Lock()
	e.cache.Add(text, result)
	e.mu.Unlock()
	return result
}

func (e *EntityExtractor) extract(text string) *dto.ExtractionResult {
	result := &dto.ExtractionResult{}
	if strings.TrimSpace(text) == "" {
		return result
	}

	folded := strings.ToLower(text)
	tickerSet := make(map[string]bool)

	// Named stock groups contribute their whole constituent list.
	for group, tickers := range stockGroups {
		if strings.Contains(folded, group) {
			result.StockGroups = append(result.StockGroups, dto.GroupMention{Group: group, Confidence: 1.0})
			for _, ticker := range tickers {
				tickerSet[ticker] = true
			}
		}
	}

	// Company aliases, longest first. A matched alias is consumed from the
	// working text so a shorter alias of the same name cannot double-fire.
	working := folded
	for _, alias := range companyAliases {
		if strings.Contains(working, alias) {
			ticker := companyMappings[alias]
			if !tickerSet[ticker] {
				result.Companies = append(result.Companies, dto.CompanyMention{
					Name:       alias,
					Ticker:     ticker,
					Confidence: 1.0,
				})
			}
			tickerSet[ticker] = true
			working = strings.ReplaceAll(working, alias, "")
		}
	}

	// Ticker-shaped tokens from the original, unconsumed text.
	for _, token := range tickerPattern.FindAllString(text, -1) {
		if validTickers[token] && !falsePositives[token] {
			tickerSet[token] = true
		}
	}

	// Sector inference from matched groups and per-sector keyword lists.
	sectorSet := make(map[string]bool)
	for _, group := range result.StockGroups {
		if sector, ok := groupToSector[group.Group]; ok {
			sectorSet[sector] = true
		}
	}
	for sector, keywords := range sectorKeywords {
		for _, keyword := range keywords {
			if strings.Contains(folded, keyword) {
				sectorSet[sector] = true
				break
			}
		}
	}
	for sector := range sectorSet {
		result.Sectors = append(result.Sectors, sector)
	}
	sort.Strings(result.Sectors)

	// Broad sector phrasings turn the query into a sector question. Without
	// a specific company the query is a whole-sector one.
	seenSectorQueries := make(map[string]bool)
	for phrase, sector := range broadSectorPhrases {
		if !strings.Contains(folded, phrase) || seenSectorQueries[sector] {
			continue
		}
		seenSectorQueries[sector] = true
		queryType := dto.QueryTypeBroadSector
		confidence := 0.8
		if len(result.Companies) > 0 {
			queryType = "company_context"
			confidence = 0.4
		}
		result.SectorQueries = append(result.SectorQueries, dto.SectorQuery{
			Sector:     sector,
			QueryType:  queryType,
			Confidence: dto.ClampConfidence(confidence),
		})
	}

	// Final format re-validation before returning. Dictionary tickers pass
	// verbatim; scanned tokens must still match the ticker shape.
	for ticker := range tickerSet {
		if dictionaryTickers[ticker] || tickerPattern.FindString(ticker) == ticker {
			result.Tickers = append(result.Tickers, ticker)
		}
	}
	sort.Strings(result.Tickers)
	sort.Slice(result.StockGroups, func(i, j int) bool { return result.StockGroups[i].Group < result.StockGroups[j].Group })
	sort.Slice(result.SectorQueries, func(i, j int) bool { return result.SectorQueries[i].Sector < result.SectorQueries[j].Sector })

	return result
}

// SectorTickers returns the representative tickers for a sector, or nil for
// an unknown sector name.
func (e *EntityExtractor) SectorTickers(sector string) []string {
	return sectorTickers[sector]
}

// CacheStats returns hit/miss counters and the current cache size.
func (e *EntityExtractor) CacheStats() dto.CacheStats {
	e.mu.Lock()
	defer e.mu.Unlock()
	return dto.CacheStats{
		Hits:   e.hits,
		Misses: e.misses,
		Size:   e.cache.Len(),
	}
}

// ClearCache drops all memoized extractions and resets the counters.
func (e *EntityExtractor) ClearCache() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.cache.Purge()
	e.hits = 0
	e.misses = 0
}
