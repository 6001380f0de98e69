package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"net/http"
	"time"

	"golang-finance-rag/internal/entity"
	"golang-finance-rag/internal/rag/config"
	"golang-finance-rag/internal/rag/dto"
	"golang-finance-rag/pkg/logger"

	"golang.org/x/time/rate"
)

// yahooFinanceRepository fetches quote snapshots from the Yahoo Finance
// chart API.
type yahooFinanceRepository struct {
	client         *http.Client
	cfg            *config.Config
	logger         *logger.Logger
	requestLimiter *rate.Limiter
}

// NewYahooFinanceRepository creates a new instance of QuoteRepository backed
// by Yahoo Finance.
func NewYahooFinanceRepository(cfg *config.Config, log *logger.Logger) (QuoteRepository, error) {
	if cfg.YahooFinance.MaxRequestPerMinute <= 0 {
		return nil, fmt.Errorf("yahoo_finance.max_request_per_minute must be positive")
	}
	secondsPerRequest := time.Minute / time.Duration(cfg.YahooFinance.MaxRequestPerMinute)

	return &yahooFinanceRepository{
		client: &http.Client{
			Timeout: 15 * time.Second,
		},
		cfg:            cfg,
		logger:         log,
		requestLimiter: rate.NewLimiter(rate.Every(secondsPerRequest), 1),
	}, nil
}

// GetQuote fetches the latest daily quote for a ticker. An unknown or
// delisted symbol returns (nil, nil).
func (r *yahooFinanceRepository) GetQuote(ctx context.Context, ticker string) (*entity.StockQuote, error) {
	if err := r.requestLimiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("failed to wait for request limit: %w", err)
	}

	apiURL := fmt.Sprintf("%s/v8/finance/chart/%s?range=5d&interval=1d", r.cfg.YahooFinance.BaseURL, ticker)
	req, err := http.NewRequestWithContext(ctx, "GET", apiURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36")

	resp, err := r.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch quote: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, nil
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("quote request failed with status %d", resp.StatusCode)
	}

	var chartResp dto.YahooChartResponse
	if err := json.NewDecoder(resp.Body).Decode(&chartResp); err != nil {
		return nil, fmt.Errorf("failed to decode chart response: %w", err)
	}

	if chartResp.Chart.Error != nil || len(chartResp.Chart.Result) == 0 {
		return nil, nil
	}

	result := chartResp.Chart.Result[0]
	if len(result.Indicators.Quote) == 0 {
		return nil, nil
	}

	closes, volumes := result.Indicators.Quote[0].Close, result.Indicators.Quote[0].Volume
	if len(closes) == 0 {
		return nil, nil
	}

	latestIdx := len(closes) - 1
	currentPrice := closes[latestIdx]
	previousClose := currentPrice
	if latestIdx > 0 {
		previousClose = closes[latestIdx-1]
	}

	change := currentPrice - previousClose
	changePercent := 0.0
	if previousClose != 0 {
		changePercent = change / previousClose * 100
	}

	var volume int64
	if len(volumes) > latestIdx {
		volume = volumes[latestIdx]
	}

	asOf := ""
	if len(result.Timestamp) > latestIdx {
		asOf = time.Unix(result.Timestamp[latestIdx], 0).UTC().Format("2006-01-02")
	}

	companyName := result.Meta.LongName
	if companyName == "" {
		companyName = result.Meta.ShortName
	}

	quote := &entity.StockQuote{
		Ticker:        ticker,
		Price:         round2(currentPrice),
		Change:        round2(change),
		ChangePercent: fmt.Sprintf("%.2f%%", changePercent),
		Volume:        volume,
		CompanyName:   companyName,
		AsOf:          asOf,
	}

	r.enrichProfile(ctx, quote)

	return quote, nil
}

// enrichProfile fills sector, industry and market cap from the quoteSummary
// endpoint. Failures leave the fields empty; the quote itself stands.
func (r *yahooFinanceRepository) enrichProfile(ctx context.Context, quote *entity.StockQuote) {
	if err := r.requestLimiter.Wait(ctx); err != nil {
		return
	}

	apiURL := fmt.Sprintf("%s/v10/finance/quoteSummary/%s?modules=assetProfile,summaryDetail", r.cfg.YahooFinance.BaseURL, quote.Ticker)
	req, err := http.NewRequestWithContext(ctx, "GET", apiURL, nil)
	if err != nil {
		return
	}
	req.Header.Set("User-Agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36")

	resp, err := r.client.Do(req)
	if err != nil {
		r.logger.Warn("Failed to fetch quote summary", logger.ErrorField(err), logger.StringField("ticker", quote.Ticker))
		return
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return
	}

	var summary dto.YahooQuoteSummaryResponse
	if err := json.NewDecoder(resp.Body).Decode(&summary); err != nil {
		r.logger.Warn("Failed to decode quote summary", logger.ErrorField(err), logger.StringField("ticker", quote.Ticker))
		return
	}

	if len(summary.QuoteSummary.Result) == 0 {
		return
	}
	profile := summary.QuoteSummary.Result[0]
	if profile.AssetProfile != nil {
		quote.Sector = profile.AssetProfile.Sector
		quote.Industry = profile.AssetProfile.Industry
	}
	if profile.SummaryDetail != nil {
		quote.MarketCap = profile.SummaryDetail.MarketCap.Raw
	}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
