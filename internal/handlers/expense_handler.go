package handlers

import (
	"net/http"
	"time"

	"go-retail-pos/internal/ledger"
	"go-retail-pos/internal/models"

	"github.com/gin-gonic/gin"
)

type ExpenseHandler struct {
	Expenses  *ledger.ExpenseStore
	Purchases *ledger.PurchaseStore
}

// --- Expenses ---

func (h *ExpenseHandler) GetExpenses(c *gin.Context) {
	c.JSON(http.StatusOK, h.Expenses.All())
}

type ExpenseRequest struct {
	Title    string  `json:"title" binding:"required"`
	Category string  `json:"category"`
	Amount   float64 `json:"amount" binding:"required,gt=0"`
	Date     string  `json:"date"` // "2006-01-02", defaults to today
	Note     string  `json:"note"`
}

func (h *ExpenseHandler) AddExpense(c *gin.Context) {
	var req ExpenseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Title and a positive amount are required"})
		return
	}

	date := time.Now()
	if req.Date != "" {
		parsed, err := time.Parse("2006-01-02", req.Date)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Date must be YYYY-MM-DD"})
			return
		}
		date = parsed
	}

	expense := models.Expense{
		ID:       ledger.NewID("EXP"),
		Title:    req.Title,
		Category: req.Category,
		Amount:   req.Amount,
		Date:     date,
		Note:     req.Note,
	}
	if err := h.Expenses.Add(expense); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to record expense"})
		return
	}
	c.JSON(http.StatusCreated, expense)
}

func (h *ExpenseHandler) DeleteExpense(c *gin.Context) {
	if err := h.Expenses.Delete(c.Param("id")); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete expense"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Expense deleted"})
}

// --- Purchases ---

func (h *ExpenseHandler) GetPurchases(c *gin.Context) {
	c.JSON(http.StatusOK, h.Purchases.All())
}

type PurchaseLineRequest struct {
	ProductID string  `json:"product_id" binding:"required"`
	Name      string  `json:"name"`
	Price     float64 `json:"price" binding:"gte=0"`
	Quantity  int     `json:"quantity" binding:"required,gt=0"`
}

type PurchaseRequest struct {
	Supplier string                `json:"supplier" binding:"required"`
	Amount   float64               `json:"amount" binding:"required,gt=0"`
	Date     string                `json:"date"`
	Items    []PurchaseLineRequest `json:"items"` // Optional, consulted by returns
}

func (h *ExpenseHandler) AddPurchase(c *gin.Context) {
	var req PurchaseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Supplier and a positive amount are required"})
		return
	}

	date := time.Now()
	if req.Date != "" {
		parsed, err := time.Parse("2006-01-02", req.Date)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Date must be YYYY-MM-DD"})
			return
		}
		date = parsed
	}

	purchase := models.Purchase{
		ID:       ledger.NewID("PUR"),
		Supplier: req.Supplier,
		Amount:   req.Amount,
		Date:     date,
		Status:   models.PurchasePending,
	}
	for _, item := range req.Items {
		purchase.Items = append(purchase.Items, models.CartLine{
			ProductID: item.ProductID,
			Name:      item.Name,
			Price:     item.Price,
			Quantity:  item.Quantity,
		})
	}

	if err := h.Purchases.Add(purchase); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to record purchase"})
		return
	}
	c.JSON(http.StatusCreated, purchase)
}

type PurchaseStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

func (h *ExpenseHandler) SetPurchaseStatus(c *gin.Context) {
	var req PurchaseStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Status is required"})
		return
	}
	switch req.Status {
	case models.PurchasePending, models.PurchaseReceived, models.PurchaseCancelled:
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown purchase status"})
		return
	}

	found, err := h.Purchases.SetStatus(c.Param("id"), req.Status)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update purchase"})
		return
	}
	if !found {
		c.JSON(http.StatusNotFound, gin.H{"error": "Purchase not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Purchase updated"})
}
