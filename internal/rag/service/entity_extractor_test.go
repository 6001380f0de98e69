package service

import (
	"testing"

	"golang-finance-rag/internal/rag/dto"
	"golang-finance-rag/pkg/common"
	"golang-finance-rag/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestLogger(t *testing.T) *logger.Logger {
	t.Helper()
	log, err := logger.New("error", "console")
	require.NoError(t, err)
	return log
}

func newTestExtractor(t *testing.T) *EntityExtractor {
	t.Helper()
	extractor, err := NewEntityExtractor(128, newTestLogger(t))
	require.NoError(t, err)
	return extractor
}

func TestExtract_EmptyInput(t *testing.T) {
	extractor := newTestExtractor(t)

	for _, text := range []string{"", "   ", "\n\t"} {
		result := extractor.Extract(text)
		assert.True(t, result.IsEmpty())
		assert.Empty(t, result.Tickers)
		assert.Empty(t, result.SectorQueries)
	}
}

func TestExtract_CompanyAlias(t *testing.T) {
	extractor := newTestExtractor(t)

	result := extractor.Extract("What is the outlook for Apple?")

	require.Len(t, result.Companies, 1)
	assert.Equal(t, "apple", result.Companies[0].Name)
	assert.Equal(t, "AAPL", result.Companies[0].Ticker)
	assert.Equal(t, 1.0, result.Companies[0].Confidence)
	assert.Equal(t, []string{"AAPL"}, result.Tickers)
}

func TestExtract_AliasMentionedTwiceDedups(t *testing.T) {
	extractor := newTestExtractor(t)

	result := extractor.Extract("JPMorgan Chase results: why JPMorgan Chase beat estimates")

	require.Len(t, result.Companies, 1)
	assert.Equal(t, "JPM", result.Companies[0].Ticker)
	assert.Equal(t, []string{"JPM"}, result.Tickers)
}

func TestExtract_LongestAliasWins(t *testing.T) {
	extractor := newTestExtractor(t)

	// "jpmorgan chase" must consume the text before "chase" can fire.
	result := extractor.Extract("JPMorgan Chase reported quarterly results")

	require.Len(t, result.Companies, 1)
	assert.Equal(t, "jpmorgan chase", result.Companies[0].Name)
	for _, company := range result.Companies {
		assert.NotEqual(t, "chase", company.Name)
	}
}

func TestExtract_GroupExpandsToConstituents(t *testing.T) {
	extractor := newTestExtractor(t)

	result := extractor.Extract("How are the mag 7 stocks doing this quarter?")

	require.Len(t, result.StockGroups, 1)
	assert.Equal(t, "mag 7", result.StockGroups[0].Group)
	assert.Equal(t, 1.0, result.StockGroups[0].Confidence)
	for _, ticker := range []string{"AAPL", "MSFT", "GOOGL", "AMZN", "NVDA", "TSLA", "META"} {
		assert.True(t, result.HasTicker(ticker), "expected %s in ticker set", ticker)
	}
	assert.Contains(t, result.Sectors, common.SectorTechnology)
}

func TestExtract_TickerDenyList(t *testing.T) {
	extractor := newTestExtractor(t)

	result := extractor.Extract("THE CEO spoke about AI before the IPO, per SEC filings")

	assert.Empty(t, result.Tickers)
}

func TestExtract_TickerAllowList(t *testing.T) {
	extractor := newTestExtractor(t)

	result := extractor.Extract("NVDA beat estimates while XYZAB missed badly on margins")

	assert.Equal(t, []string{"NVDA"}, result.Tickers)
}

func TestExtract_InternationalListingTicker(t *testing.T) {
	extractor := newTestExtractor(t)

	// Foreign listings do not match the US ticker token shape; a dictionary
	// company must still land its ticker in the canonical set.
	result := extractor.Extract("Is Samsung undervalued right now?")

	require.Len(t, result.Companies, 1)
	assert.Equal(t, "005930.KS", result.Companies[0].Ticker)
	assert.True(t, result.HasTicker("005930.KS"))
}

func TestExtract_BroadSectorQuery(t *testing.T) {
	extractor := newTestExtractor(t)

	result := extractor.Extract("How are banking stocks performing?")

	require.Len(t, result.SectorQueries, 1)
	assert.Equal(t, common.SectorBanking, result.SectorQueries[0].Sector)
	assert.Equal(t, dto.QueryTypeBroadSector, result.SectorQueries[0].QueryType)
	assert.Equal(t, 0.8, result.SectorQueries[0].Confidence)
}

func TestExtract_SectorPhraseWithCompanyIsContextOnly(t *testing.T) {
	extractor := newTestExtractor(t)

	result := extractor.Extract("Is JPMorgan safer than other banking stocks?")

	require.NotEmpty(t, result.Companies)
	require.Len(t, result.SectorQueries, 1)
	assert.Equal(t, "company_context", result.SectorQueries[0].QueryType)
	assert.Equal(t, 0.4, result.SectorQueries[0].Confidence)
}

func TestExtract_DeterministicOrdering(t *testing.T) {
	extractor := newTestExtractor(t)

	first := extractor.Extract("Compare Apple, Microsoft and Google earnings")
	extractor.ClearCache()
	second := extractor.Extract("Compare Apple, Microsoft and Google earnings")

	assert.Equal(t, first.Tickers, second.Tickers)
	assert.Equal(t, []string{"AAPL", "GOOGL", "MSFT"}, first.Tickers)
}

func TestCacheStats(t *testing.T) {
	extractor := newTestExtractor(t)

	extractor.Extract("Apple earnings preview")
	extractor.Extract("Apple earnings preview")
	extractor.Extract("Tesla deliveries")

	stats := extractor.CacheStats()
	assert.Equal(t, 1, stats.Hits)
	assert.Equal(t, 2, stats.Misses)
	assert.Equal(t, 2, stats.Size)

	extractor.ClearCache()
	stats = extractor.CacheStats()
	assert.Zero(t, stats.Hits)
	assert.Zero(t, stats.Misses)
	assert.Zero(t, stats.Size)
}

func TestSectorTickers(t *testing.T) {
	extractor := newTestExtractor(t)

	assert.Equal(t, []string{"JPM", "BAC", "WFC", "C", "GS", "MS"}, extractor.SectorTickers(common.SectorBanking))
	assert.Nil(t, extractor.SectorTickers("Cryptozoology"))
}
