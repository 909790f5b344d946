package handlers

import (
	"net/http"
	"time"

	"go-retail-pos/internal/ledger"
	"go-retail-pos/internal/reports"

	"github.com/gin-gonic/gin"
)

type ReportHandler struct {
	Transactions *ledger.TransactionStore
	Expenses     *ledger.ExpenseStore
	Catalog      *ledger.CatalogStore
}

// dateRange pulls ?start & ?end (YYYY-MM-DD), defaulting to the last 30 days.
func dateRange(c *gin.Context) (time.Time, time.Time, bool) {
	now := time.Now()
	start := now.AddDate(0, 0, -30)
	end := now

	if s := c.Query("start"); s != "" {
		parsed, err := time.Parse("2006-01-02", s)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Start date must be YYYY-MM-DD"})
			return start, end, false
		}
		start = parsed
	}
	if e := c.Query("end"); e != "" {
		parsed, err := time.Parse("2006-01-02", e)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "End date must be YYYY-MM-DD"})
			return start, end, false
		}
		end = parsed
	}
	return start, end, true
}

// GetPnL derives the profit & loss summary for the range. Recomputed
// from the full ledger history on every call — no cached aggregates.
func (h *ReportHandler) GetPnL(c *gin.Context) {
	start, end, ok := dateRange(c)
	if !ok {
		return
	}
	summary := reports.DeriveFinancials(h.Transactions.All(), h.Expenses.All(), start, end)
	c.JSON(http.StatusOK, summary)
}

// GetStockValuation values current inventory at cost, grouped by category.
func (h *ReportHandler) GetStockValuation(c *gin.Context) {
	c.JSON(http.StatusOK, reports.StockValuation(h.Catalog.All()))
}
