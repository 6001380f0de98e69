package repository

import (
	"fmt"
	"strings"

	"golang-finance-rag/internal/rag/dto"
	"golang-finance-rag/pkg/utils"
)

// BuildAnalysisSystemPrompt returns the system prompt for answer generation.
// Sector mode switches the instructions from single-company analysis to
// cross-company comparison.
func BuildAnalysisSystemPrompt(req *dto.AnalysisRequest) string {
	modeInstruction := "COMPANY ANALYSIS MODE: Focus on specific companies mentioned in the query."
	sectorInstruction := ""
	if req.IsSectorAnalysis() {
		modeInstruction = "SECTOR ANALYSIS MODE: You are analyzing a broad sector or group of stocks. Provide sector-wide trends, compare performance across companies, and give sector outlook."
		sectorInstruction = "\n- For sector analysis: Compare performance across companies, identify sector leaders/laggards, discuss sector-wide trends"
	}

	return fmt.Sprintf(`You are a senior financial analyst providing detailed investment analysis.

FORMATTING RULES:
- Always use complete sentences with proper grammar
- Write "trading at $X.XX, up/down X.XX%%" with spaces between words and numbers
- Write "with a market cap of $X.XX billion" with spaces

%s

Your responses should:
- Provide specific, actionable insights based on the data
- Analyze both current performance and future outlook
- Consider market trends, sector dynamics, and company fundamentals
- Explain the reasoning behind your analysis with specific evidence
- Be comprehensive but clear and well-structured
- Include both opportunities and risks
- Reference the entity extraction confidence when relevant%s`, modeInstruction, sectorInstruction)
}

// BuildAnalysisUserPrompt assembles the user prompt: question, extraction
// summary, quotes, graph context and article excerpts.
func BuildAnalysisUserPrompt(req *dto.AnalysisRequest) string {
	return fmt.Sprintf(`User Question: %s

Entity Extraction Results:
%s

Current Stock Data:
%s

Knowledge Graph Context:
%s

Recent Relevant News:
%s

Please provide a comprehensive financial analysis that:
1. Directly answers the user's question
2. References SPECIFIC articles from the news section with details and insights
3. Incorporates the stock price naturally (e.g., "Apple is trading at $211.16")
4. Cites analyst opinions, ratings, and forecasts from the articles
5. Discusses company-specific developments mentioned in the news
6. Provides outlook based on the article content and trends
7. Uses direct quotes or paraphrases from the news articles

IMPORTANT: Your analysis should heavily reference the provided news articles. Cite specific analyst names, firms, price targets, and developments mentioned in the articles.`,
		req.Question,
		buildExtractionContext(req.Extraction),
		buildStockContext(req),
		req.GraphContext,
		buildArticleContext(req.Articles),
	)
}

func buildExtractionContext(extraction *dto.ExtractionResult) string {
	if extraction == nil {
		return ""
	}

	var b strings.Builder
	if len(extraction.Companies) > 0 {
		found := make([]string, 0, len(extraction.Companies))
		for _, c := range extraction.Companies {
			found = append(found, fmt.Sprintf("%s (%s, confidence: %.2f)", c.Name, c.Ticker, c.Confidence))
		}
		b.WriteString(fmt.Sprintf("Companies identified: %s. ", strings.Join(found, ", ")))
	}
	if len(extraction.StockGroups) > 0 {
		found := make([]string, 0, len(extraction.StockGroups))
		for _, g := range extraction.StockGroups {
			found = append(found, fmt.Sprintf("%s (confidence: %.2f)", g.Group, g.Confidence))
		}
		b.WriteString(fmt.Sprintf("Stock groups: %s. ", strings.Join(found, ", ")))
	}
	if len(extraction.SectorQueries) > 0 {
		found := make([]string, 0, len(extraction.SectorQueries))
		for _, sq := range extraction.SectorQueries {
			found = append(found, fmt.Sprintf("%s sector analysis (confidence: %.2f)", sq.Sector, sq.Confidence))
		}
		b.WriteString(fmt.Sprintf("Sector queries: %s. ", strings.Join(found, ", ")))
	}
	return b.String()
}

func buildStockContext(req *dto.AnalysisRequest) string {
	lines := make([]string, 0, len(req.StockData))
	for ticker, quote := range req.StockData {
		if quote == nil {
			continue
		}
		lines = append(lines, fmt.Sprintf("%s (%s) is currently priced at $%.2f (%s)", quote.CompanyName, ticker, quote.Price, quote.ChangePercent))
	}
	return strings.Join(lines, "\n")
}

func buildArticleContext(articles []dto.RankedArticle) string {
	blocks := make([]string, 0, len(articles))
	for _, article := range articles {
		blocks = append(blocks, fmt.Sprintf("Article: %s\nSource: %s\nContent: %s...",
			article.Metadata.Title,
			article.Metadata.Source,
			utils.TruncateString(article.Content, 400),
		))
	}
	return strings.Join(blocks, "\n\n")
}
