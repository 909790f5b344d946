package handlers

import (
	"net/http"
	"time"

	"go-retail-pos/internal/ai"
	"go-retail-pos/internal/ledger"
	"go-retail-pos/internal/reports"

	"github.com/gin-gonic/gin"
)

type AIHandler struct {
	Assistant    *ai.Assistant
	Catalog      *ledger.CatalogStore
	Transactions *ledger.TransactionStore
	Expenses     *ledger.ExpenseStore
}

type AskRequest struct {
	Message string `json:"message" binding:"required"`
}

// Ask answers a free-text question over the inventory and sales snapshots.
// The reply is always a string: failures surface as the fallback message,
// never as an error status.
func (h *AIHandler) Ask(c *gin.Context) {
	var req AskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Message is required"})
		return
	}

	reply := h.Assistant.GetInsight(c.Request.Context(), h.Catalog.All(), h.Transactions.All(), req.Message)
	c.JSON(http.StatusOK, gin.H{"reply": reply})
}

// InventoryReport returns the structured restock/marketing briefing.
func (h *AIHandler) InventoryReport(c *gin.Context) {
	report := h.Assistant.GetInventoryReport(c.Request.Context(), h.Catalog.All())
	c.JSON(http.StatusOK, report)
}

// DailyTasks suggests prioritized tasks for the day.
func (h *AIHandler) DailyTasks(c *gin.Context) {
	tasks := h.Assistant.GetDailyTasks(c.Request.Context(), h.Catalog.All(), h.Transactions.All())
	c.JSON(http.StatusOK, gin.H{"tasks": tasks})
}

// ProfitBriefing narrates the last 30 days of P&L figures.
func (h *AIHandler) ProfitBriefing(c *gin.Context) {
	now := time.Now()
	summary := reports.DeriveFinancials(h.Transactions.All(), h.Expenses.All(), now.AddDate(0, 0, -30), now)

	var topCategories []string
	for i, cat := range summary.Categories {
		if i == 3 {
			break
		}
		topCategories = append(topCategories, cat.Name)
	}

	cogs := summary.SalesRevenue - summary.GrossProfit
	briefing := h.Assistant.GetProfitBriefing(c.Request.Context(), summary.SalesRevenue, summary.TotalExpenses, cogs, topCategories)
	c.JSON(http.StatusOK, gin.H{"briefing": briefing, "summary": summary})
}

type ImageRequest struct {
	Prompt      string `json:"prompt" binding:"required"`
	AspectRatio string `json:"aspect_ratio"`
}

// GenerateImage produces storefront art as a data URL; null when the
// model is unavailable. The client must treat the result as optional.
func (h *AIHandler) GenerateImage(c *gin.Context) {
	var req ImageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Prompt is required"})
		return
	}
	if req.AspectRatio == "" {
		req.AspectRatio = "1:1"
	}

	dataURL := h.Assistant.GenerateImage(c.Request.Context(), req.Prompt, req.AspectRatio)
	if dataURL == "" {
		c.JSON(http.StatusOK, gin.H{"image": nil})
		return
	}
	c.JSON(http.StatusOK, gin.H{"image": dataURL})
}
