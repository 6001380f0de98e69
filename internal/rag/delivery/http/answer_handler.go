package http

import (
	"net/http"
	"strings"

	"golang-finance-rag/internal/rag/repository"
	"golang-finance-rag/internal/rag/service"
	"golang-finance-rag/pkg/logger"

	"github.com/labstack/echo/v4"
)

// AnswerRequest is the question payload.
type AnswerRequest struct {
	Question string `json:"question"`
}

// AnswerHandler handles HTTP requests for financial question answering.
type AnswerHandler struct {
	retrieval *service.RetrievalService
	index     repository.ArticleIndexRepository
	logger    *logger.Logger
}

// NewAnswerHandler creates a new AnswerHandler.
func NewAnswerHandler(retrieval *service.RetrievalService, index repository.ArticleIndexRepository, logger *logger.Logger) *AnswerHandler {
	return &AnswerHandler{retrieval: retrieval, index: index, logger: logger}
}

// RegisterRoutes registers the answer routes to the Echo group.
func (h *AnswerHandler) RegisterRoutes(g *echo.Group) {
	g.POST("/answer", h.Answer)
	g.GET("/index/stats", h.IndexStats)
}

// Answer runs the retrieval pipeline for one question and returns the full
// result bundle.
func (h *AnswerHandler) Answer(c echo.Context) error {
	var req AnswerRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid request payload"})
	}
	if strings.TrimSpace(req.Question) == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "question is required"})
	}

	result, err := h.retrieval.Answer(c.Request().Context(), req.Question)
	if err != nil {
		h.logger.Error("Failed to answer question", logger.ErrorField(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": err.Error()})
	}

	return c.JSON(http.StatusOK, result)
}

// IndexStats reports the number of indexed articles.
func (h *AnswerHandler) IndexStats(c echo.Context) error {
	count, err := h.index.Stats(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": err.Error()})
	}
	return c.JSON(http.StatusOK, echo.Map{"indexed_articles": count})
}
