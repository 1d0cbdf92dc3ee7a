package http

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/jmanzanog/ticker-lens/internal/application"
	"github.com/jmanzanog/ticker-lens/internal/domain"
	"github.com/jmanzanog/ticker-lens/internal/infrastructure/search"
)

// QuoteService runs the resolve, fetch and derive pipeline.
type QuoteService interface {
	Lookup(ctx context.Context, query string, period domain.Period) (*application.QuoteResult, error)
	RecentLookups(ctx context.Context, limit int) ([]domain.LookupRecord, error)
}

// BriefingService produces news listings and language model narratives.
type BriefingService interface {
	Ask(ctx context.Context, question string) (string, error)
	News(ctx context.Context, query, lang string) ([]domain.NewsItem, error)
	SummarizeNews(ctx context.Context, query string) (*application.NewsSummary, error)
	FactCheck(ctx context.Context, claim string) (*application.FactCheckResult, error)
}

// SymbolDirectory suggests symbols for partial names.
type SymbolDirectory interface {
	Suggest(ctx context.Context, text string, limit int) ([]search.Suggestion, error)
}

type Handler struct {
	quotes   QuoteService
	briefing BriefingService
	symbols  SymbolDirectory
}

func NewHandler(quotes QuoteService, briefing BriefingService, symbols SymbolDirectory) *Handler {
	return &Handler{
		quotes:   quotes,
		briefing: briefing,
		symbols:  symbols,
	}
}

type ErrorResponse struct {
	Error string `json:"error"`
	Kind  string `json:"kind,omitempty"`
}

type SummarizeNewsRequest struct {
	Query string `json:"query" binding:"required"`
}

type AskRequest struct {
	Question string `json:"question" binding:"required"`
}

type AskResponse struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

type FactCheckRequest struct {
	Claim string `json:"claim" binding:"required"`
}

func (h *Handler) GetQuote(c *gin.Context) {
	query := c.Query("q")
	period, err := domain.ParsePeriod(c.Query("period"))
	if err != nil {
		h.fail(c, "Invalid period", err, "period", c.Query("period"))
		return
	}

	result, err := h.quotes.Lookup(c.Request.Context(), query, period)
	if err != nil {
		h.fail(c, "Failed to look up quote", err, "query", query)
		return
	}

	c.JSON(http.StatusOK, NewQuoteResponse(result))
}

func (h *Handler) SuggestSymbols(c *gin.Context) {
	limit, ok := h.limit(c)
	if !ok {
		return
	}

	suggestions, err := h.symbols.Suggest(c.Request.Context(), c.Query("q"), limit)
	if err != nil {
		h.fail(c, "Failed to suggest symbols", err, "query", c.Query("q"))
		return
	}

	c.JSON(http.StatusOK, suggestions)
}

func (h *Handler) GetNews(c *gin.Context) {
	query := c.Query("q")

	items, err := h.briefing.News(c.Request.Context(), query, c.Query("lang"))
	if err != nil {
		h.fail(c, "Failed to fetch news", err, "query", query)
		return
	}

	c.JSON(http.StatusOK, items)
}

func (h *Handler) SummarizeNews(c *gin.Context) {
	var req SummarizeNewsRequest
	if !h.bind(c, &req) {
		return
	}

	summary, err := h.briefing.SummarizeNews(c.Request.Context(), req.Query)
	if err != nil {
		h.fail(c, "Failed to summarize news", err, "query", req.Query)
		return
	}

	c.JSON(http.StatusOK, summary)
}

func (h *Handler) Ask(c *gin.Context) {
	var req AskRequest
	if !h.bind(c, &req) {
		return
	}

	answer, err := h.briefing.Ask(c.Request.Context(), req.Question)
	if err != nil {
		h.fail(c, "Failed to answer question", err)
		return
	}

	c.JSON(http.StatusOK, AskResponse{Question: req.Question, Answer: answer})
}

func (h *Handler) FactCheck(c *gin.Context) {
	var req FactCheckRequest
	if !h.bind(c, &req) {
		return
	}

	result, err := h.briefing.FactCheck(c.Request.Context(), req.Claim)
	if err != nil {
		h.fail(c, "Failed to check claim", err)
		return
	}

	c.JSON(http.StatusOK, result)
}

func (h *Handler) ListLookups(c *gin.Context) {
	limit, ok := h.limit(c)
	if !ok {
		return
	}

	records, err := h.quotes.RecentLookups(c.Request.Context(), limit)
	if err != nil {
		h.fail(c, "Failed to list lookups", err)
		return
	}

	c.JSON(http.StatusOK, records)
}

func (h *Handler) bind(c *gin.Context, req any) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		slog.ErrorContext(c.Request.Context(), "Invalid request body", "error", err)
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error(), Kind: string(domain.KindInvalidInput)})
		return false
	}
	return true
}

// limit reads the optional ?limit= parameter; zero means "use the default".
func (h *Handler) limit(c *gin.Context) (int, bool) {
	raw := c.Query("limit")
	if raw == "" {
		return 0, true
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "limit must be a non-negative integer", Kind: string(domain.KindInvalidInput)})
		return 0, false
	}
	return n, true
}

func (h *Handler) fail(c *gin.Context, msg string, err error, attrs ...any) {
	kind := domain.KindOf(err)
	status := statusFor(kind)

	attrs = append(attrs, "kind", kind, "error", err)
	if status >= http.StatusInternalServerError {
		slog.ErrorContext(c.Request.Context(), msg, attrs...)
	} else {
		slog.WarnContext(c.Request.Context(), msg, attrs...)
	}

	c.JSON(status, ErrorResponse{Error: err.Error(), Kind: string(kind)})
}

func statusFor(kind domain.ErrorKind) int {
	switch kind {
	case domain.KindNotFound:
		return http.StatusNotFound
	case domain.KindInsufficientHistory, domain.KindZeroPreviousClose:
		return http.StatusUnprocessableEntity
	case domain.KindInvalidInput:
		return http.StatusBadRequest
	case domain.KindExternalServiceFailure, domain.KindExchangeRateUnavailable:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
