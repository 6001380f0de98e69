package common

const (
	// AIProviderOpenAI selects the OpenAI chat provider for answer generation.
	AIProviderOpenAI = "openai"
	// AIProviderGemini selects the Google Gemini provider for answer generation.
	AIProviderGemini = "gemini"

	// EmbeddingDimensions is the vector size of text-embedding-3-small, the
	// dimension of the article_embeddings column.
	EmbeddingDimensions = 1536
)

// Sector names used across extraction, graph facts and sector-mode search.
const (
	SectorTechnology    = "Technology"
	SectorBanking       = "Banking"
	SectorHealthcare    = "Healthcare"
	SectorFinancial     = "Financial"
	SectorEnergy        = "Energy"
	SectorConsumerDisc  = "Consumer Discretionary"
	SectorConsumerStap  = "Consumer Staples"
	SectorIndustrials   = "Industrials"
	SectorMaterials     = "Materials"
	SectorCommunication = "Communication Services"
	SectorUtilities     = "Utilities"
	SectorRealEstate    = "Real Estate"
	SectorInternational = "International"
)
