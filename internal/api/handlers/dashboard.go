package handlers

import (
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/luiza-sangalli/financial-hub/internal/analytics"
	"github.com/luiza-sangalli/financial-hub/internal/api/middleware"
	"github.com/luiza-sangalli/financial-hub/internal/finance"
)

// DashboardHandler serves the dashboard statistics endpoint.
type DashboardHandler struct {
	transactions finance.TransactionRepository
	categories   finance.CategoryRepository
	log          zerolog.Logger
}

// NewDashboardHandler creates a new dashboard handler.
func NewDashboardHandler(transactions finance.TransactionRepository, categories finance.CategoryRepository, log zerolog.Logger) *DashboardHandler {
	return &DashboardHandler{
		transactions: transactions,
		categories:   categories,
		log:          log,
	}
}

// Stats handles GET /api/dashboard/stats.
func (h *DashboardHandler) Stats(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	companyID := middleware.CompanyID(r)

	txs, err := h.transactions.ListTransactions(ctx, companyID, finance.TransactionFilter{})
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to load transactions for dashboard")
		middleware.WriteError(w, http.StatusInternalServerError, "Failed to compute statistics")
		return
	}

	categories, err := h.categories.ListCategories(ctx, companyID)
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to load categories for dashboard")
		middleware.WriteError(w, http.StatusInternalServerError, "Failed to compute statistics")
		return
	}

	overview := analytics.Compute(txs, categories, time.Now().UTC())

	middleware.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"success":            true,
		"stats":              overview.Stats,
		"categoryStats":      overview.CategoryStats,
		"recentTransactions": overview.RecentTransactions,
		"monthlyTrend":       overview.MonthlyTrend,
	})
}

// ServeHTTP routes dashboard endpoints by method and path.
func (h *DashboardHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method == http.MethodGet && r.URL.Path == "/api/dashboard/stats" {
		h.Stats(w, r)
		return
	}
	middleware.WriteError(w, http.StatusNotFound, "Not found")
}
