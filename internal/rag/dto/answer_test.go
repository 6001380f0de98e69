package dto

import (
	"testing"

	"golang-finance-rag/internal/entity"

	"github.com/stretchr/testify/assert"
)

func TestIsSectorAnalysis(t *testing.T) {
	// Explicit sector query.
	req := &AnalysisRequest{
		Extraction: &ExtractionResult{
			SectorQueries: []SectorQuery{{Sector: "Banking", QueryType: QueryTypeBroadSector, Confidence: 0.8}},
		},
	}
	assert.True(t, req.IsSectorAnalysis())

	// More than three tickers means a basket, not a company.
	req = &AnalysisRequest{
		Extraction: &ExtractionResult{},
		StockData: map[string]*entity.StockQuote{
			"AAPL": {}, "MSFT": {}, "GOOGL": {}, "AMZN": {},
		},
	}
	assert.True(t, req.IsSectorAnalysis())

	req = &AnalysisRequest{
		Extraction: &ExtractionResult{Tickers: []string{"AAPL"}},
		StockData:  map[string]*entity.StockQuote{"AAPL": {}},
	}
	assert.False(t, req.IsSectorAnalysis())

	assert.False(t, (&AnalysisRequest{}).IsSectorAnalysis())
}

func TestClampConfidence(t *testing.T) {
	assert.Equal(t, 0.0, ClampConfidence(-0.3))
	assert.Equal(t, 0.5, ClampConfidence(0.5))
	assert.Equal(t, 1.0, ClampConfidence(1.7))
}

func TestExtractionResultIsEmpty(t *testing.T) {
	assert.True(t, (&ExtractionResult{}).IsEmpty())
	assert.False(t, (&ExtractionResult{Tickers: []string{"AAPL"}}).IsEmpty())
	assert.False(t, (&ExtractionResult{Sectors: []string{"Technology"}}).IsEmpty())
}
