package handlers

import (
	"encoding/json"
	"math"
	"net/http"
	"strconv"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/luiza-sangalli/financial-hub/internal/api/middleware"
	"github.com/luiza-sangalli/financial-hub/internal/fileparse"
	"github.com/luiza-sangalli/financial-hub/internal/finance"
	"github.com/luiza-sangalli/financial-hub/internal/recurrence"
)

// minPatternConfidence is the cutoff below which detected patterns are
// not suggested to the user.
const minPatternConfidence = 0.6

// TransactionsHandler handles transaction endpoints.
type TransactionsHandler struct {
	transactions finance.TransactionRepository
	log          zerolog.Logger
}

// NewTransactionsHandler creates a new transactions handler.
func NewTransactionsHandler(transactions finance.TransactionRepository, log zerolog.Logger) *TransactionsHandler {
	return &TransactionsHandler{transactions: transactions, log: log}
}

// List handles GET /api/transactions with optional query filters: type,
// categoryId, startDate, endDate, isRecurring, limit and offset.
func (h *TransactionsHandler) List(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	companyID := middleware.CompanyID(r)
	q := r.URL.Query()

	var filter finance.TransactionFilter

	if v := q.Get("type"); v != "" {
		typ := finance.TransactionType(v)
		if !typ.Valid() {
			middleware.WriteError(w, http.StatusBadRequest, "type must be INCOME or EXPENSE")
			return
		}
		filter.Type = typ
	}
	filter.CategoryID = q.Get("categoryId")

	if v := q.Get("startDate"); v != "" {
		date, err := fileparse.ParseDate(v)
		if err != nil {
			middleware.WriteError(w, http.StatusBadRequest, "invalid startDate")
			return
		}
		filter.StartDate = date
	}
	if v := q.Get("endDate"); v != "" {
		date, err := fileparse.ParseDate(v)
		if err != nil {
			middleware.WriteError(w, http.StatusBadRequest, "invalid endDate")
			return
		}
		filter.EndDate = date
	}
	if v := q.Get("isRecurring"); v != "" {
		recurring, err := strconv.ParseBool(v)
		if err != nil {
			middleware.WriteError(w, http.StatusBadRequest, "invalid isRecurring")
			return
		}
		filter.IsRecurring = &recurring
	}
	if v := q.Get("limit"); v != "" {
		limit, err := strconv.Atoi(v)
		if err != nil || limit < 0 {
			middleware.WriteError(w, http.StatusBadRequest, "invalid limit")
			return
		}
		filter.Limit = limit
	}
	if v := q.Get("offset"); v != "" {
		offset, err := strconv.Atoi(v)
		if err != nil || offset < 0 {
			middleware.WriteError(w, http.StatusBadRequest, "invalid offset")
			return
		}
		filter.Offset = offset
	}

	txs, err := h.transactions.ListTransactions(ctx, companyID, filter)
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to list transactions")
		middleware.WriteError(w, http.StatusInternalServerError, "Failed to list transactions")
		return
	}

	middleware.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"transactions": txs,
		"count":        len(txs),
	})
}

// suggestedPattern is the wire shape of one detected recurrence pattern.
type suggestedPattern struct {
	Description      string                  `json:"description"`
	TransactionIDs   []string                `json:"transactionIds"`
	TransactionCount int                     `json:"transactionCount"`
	SuggestedRule    recurrence.Rule         `json:"suggestedRule"`
	Confidence       int                     `json:"confidence"` // percent
	Amount           decimal.Decimal         `json:"amount"`
	Type             finance.TransactionType `json:"type"`
}

// DetectRecurrence handles POST /api/transactions/recurrence/detect. It
// analyzes the company's non-recurring transactions and suggests patterns
// with at least 60% confidence.
func (h *TransactionsHandler) DetectRecurrence(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	companyID := middleware.CompanyID(r)

	notRecurring := false
	txs, err := h.transactions.ListTransactions(ctx, companyID, finance.TransactionFilter{
		IsRecurring: &notRecurring,
	})
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to load transactions for detection")
		middleware.WriteError(w, http.StatusInternalServerError, "Failed to detect recurring transactions")
		return
	}

	patterns := recurrence.DetectPatterns(txs)

	suggested := make([]suggestedPattern, 0, len(patterns))
	for _, p := range patterns {
		if p.Confidence < minPatternConfidence {
			continue
		}
		ids := make([]string, len(p.Transactions))
		for i, tx := range p.Transactions {
			ids[i] = tx.ID
		}
		suggested = append(suggested, suggestedPattern{
			Description:      p.Description,
			TransactionIDs:   ids,
			TransactionCount: len(p.Transactions),
			SuggestedRule:    p.Rule,
			Confidence:       int(math.Round(p.Confidence * 100)),
			Amount:           p.Transactions[0].Amount,
			Type:             p.Transactions[0].Type,
		})
	}

	middleware.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"success":       true,
		"patterns":      suggested,
		"totalAnalyzed": len(txs),
		"patternsFound": len(suggested),
	})
}

// ApplyRecurrence handles POST /api/transactions/recurrence/apply,
// marking the given transactions as recurring with the supplied rule.
func (h *TransactionsHandler) ApplyRecurrence(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	companyID := middleware.CompanyID(r)

	var req struct {
		TransactionIDs []string         `json:"transactionIds"`
		RecurrenceRule *recurrence.Rule `json:"recurrenceRule"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		middleware.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if len(req.TransactionIDs) == 0 {
		middleware.WriteError(w, http.StatusBadRequest, "transactionIds is required")
		return
	}
	if req.RecurrenceRule == nil {
		middleware.WriteError(w, http.StatusBadRequest, "recurrenceRule is required")
		return
	}
	if err := req.RecurrenceRule.Validate(); err != nil {
		middleware.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	ruleJSON, err := req.RecurrenceRule.MarshalJSONString()
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to serialize recurrence rule")
		middleware.WriteError(w, http.StatusInternalServerError, "Failed to apply recurrence")
		return
	}

	updated, err := h.transactions.ApplyRecurrence(ctx, companyID, req.TransactionIDs, ruleJSON)
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to apply recurrence")
		middleware.WriteError(w, http.StatusInternalServerError, "Failed to apply recurrence")
		return
	}

	middleware.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"updated": updated,
	})
}

// ServeHTTP routes transaction endpoints by method and path.
func (h *TransactionsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	switch {
	case r.Method == http.MethodGet && r.URL.Path == "/api/transactions":
		h.List(w, r)
	case r.Method == http.MethodPost && r.URL.Path == "/api/transactions/recurrence/detect":
		h.DetectRecurrence(w, r)
	case r.Method == http.MethodPost && r.URL.Path == "/api/transactions/recurrence/apply":
		h.ApplyRecurrence(w, r)
	default:
		middleware.WriteError(w, http.StatusNotFound, "Not found")
	}
}
