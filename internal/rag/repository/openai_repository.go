package repository

import (
	"context"
	"fmt"

	"golang-finance-rag/internal/rag/config"
	"golang-finance-rag/internal/rag/dto"
	"golang-finance-rag/pkg/logger"
	"golang-finance-rag/pkg/utils"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
)

// openAIRepository implements both EmbeddingRepository and AIRepository on
// top of the official OpenAI SDK.
type openAIRepository struct {
	client openai.Client
	cfg    *config.Config
	logger *logger.Logger
}

// NewOpenAIRepository creates a new OpenAI-backed repository.
func NewOpenAIRepository(cfg *config.Config, log *logger.Logger) (*openAIRepository, error) {
	if cfg.OpenAI.APIKey == "" {
		return nil, fmt.Errorf("openai.api_key is required")
	}

	client := openai.NewClient(
		option.WithAPIKey(cfg.OpenAI.APIKey),
	)

	return &openAIRepository{
		client: client,
		cfg:    cfg,
		logger: log,
	}, nil
}

// EmbedBatch embeds texts in one API call, preserving input order.
func (r *openAIRepository) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}

	model := r.cfg.OpenAI.EmbeddingModel
	if model == "" {
		model = openai.EmbeddingModelTextEmbedding3Small
	}

	response, err := r.client.Embeddings.New(ctx, openai.EmbeddingNewParams{
		Input: openai.EmbeddingNewParamsInputUnion{
			OfArrayOfStrings: texts,
		},
		Model: openai.EmbeddingModel(model),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create embeddings: %w", err)
	}
	if len(response.Data) != len(texts) {
		return nil, fmt.Errorf("expected %d embeddings, got %d", len(texts), len(response.Data))
	}

	// The SDK returns float64; pgvector stores float32.
	embeddings := make([][]float32, len(response.Data))
	for i, data := range response.Data {
		vector := make([]float32, len(data.Embedding))
		for j, val := range data.Embedding {
			vector[j] = float32(val)
		}
		embeddings[i] = vector
	}

	r.logger.Debug("Generated embeddings",
		logger.IntField("batch_size", len(texts)),
		logger.IntField("total_tokens", int(response.Usage.TotalTokens)),
	)

	return embeddings, nil
}

// GenerateAnalysis produces the narrative answer from the assembled context.
func (r *openAIRepository) GenerateAnalysis(ctx context.Context, req *dto.AnalysisRequest) (string, error) {
	model := r.cfg.OpenAI.Model
	if model == "" {
		model = "gpt-4o-mini"
	}

	response, err := r.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(BuildAnalysisSystemPrompt(req)),
			openai.UserMessage(BuildAnalysisUserPrompt(req)),
		},
		Model:       openai.ChatModel(model),
		MaxTokens:   openai.Int(1200),
		Temperature: openai.Float(0.1),
	})
	if err != nil {
		return "", fmt.Errorf("failed to generate analysis: %w", err)
	}
	if len(response.Choices) == 0 {
		return "", fmt.Errorf("no completion choices returned")
	}

	return utils.NormalizeWhitespace(response.Choices[0].Message.Content), nil
}
