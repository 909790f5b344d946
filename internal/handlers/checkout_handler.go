package handlers

import (
	"fmt"
	"net/http"
	"time"

	"go-retail-pos/internal/ledger"
	"go-retail-pos/internal/models"
	"go-retail-pos/internal/receipt"

	"github.com/gin-gonic/gin"
)

type CheckoutHandler struct {
	Service  *ledger.Service
	Settings *ledger.SettingsStore
}

type CheckoutLine struct {
	ProductID string `json:"product_id" binding:"required"`
	Quantity  int    `json:"quantity" binding:"required,gt=0"`
}

type CheckoutRequest struct {
	Items         []CheckoutLine `json:"items" binding:"required,min=1,dive"`
	PaymentMethod string         `json:"payment_method" binding:"required"`
	CustomerID    string         `json:"customer_id"`
	Discount      float64        `json:"discount" binding:"gte=0"`
	DueDate       string         `json:"due_date"` // "2006-01-02", Credit sales only
}

// Checkout builds snapshot cart lines from the current catalog and posts
// the transaction. All UI-boundary validation lives here; the posting
// core never rejects.
func (h *CheckoutHandler) Checkout(c *gin.Context) {
	var req CheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	switch req.PaymentMethod {
	case models.PaymentCash, models.PaymentCard, models.PaymentDigital:
	case models.PaymentCredit:
		if req.CustomerID == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Credit sales require a customer"})
			return
		}
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown payment method"})
		return
	}

	// Snapshot each cart line at today's price and cost. There is no
	// stock sufficiency check: overselling is allowed.
	var lines []models.CartLine
	var subtotal float64
	for _, item := range req.Items {
		product, ok := h.Service.Catalog.FindByID(item.ProductID)
		if !ok {
			c.JSON(http.StatusNotFound, gin.H{"error": fmt.Sprintf("Product %s not found", item.ProductID)})
			return
		}
		lines = append(lines, models.CartLine{
			ProductID: product.ID,
			Name:      product.Name,
			Category:  product.Category,
			Price:     product.Price,
			CostPrice: product.CostPrice,
			Quantity:  item.Quantity,
		})
		subtotal += product.Price * float64(item.Quantity)
	}

	if req.Discount > subtotal {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Discount exceeds subtotal"})
		return
	}

	settings := h.Settings.Get()
	tax := (subtotal - req.Discount) * settings.TaxRate / 100

	tx := models.Transaction{
		Items:         lines,
		Total:         subtotal - req.Discount + tax,
		Tax:           tax,
		Discount:      req.Discount,
		PaymentMethod: req.PaymentMethod,
		CustomerID:    req.CustomerID,
	}

	if req.PaymentMethod == models.PaymentCredit && req.DueDate != "" {
		due, err := time.Parse("2006-01-02", req.DueDate)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Due date must be YYYY-MM-DD"})
			return
		}
		tx.DueDate = &due
	}

	posted, err := h.Service.PostTransaction(tx)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to record sale"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Sale successful!",
		"sale_id": posted.ID,
		"total":   posted.Total,
	})
}

// GetTransactions lists the ledger, most recent first.
func (h *CheckoutHandler) GetTransactions(c *gin.Context) {
	c.JSON(http.StatusOK, h.Service.Transactions.All())
}

// DeleteTransaction is the only non-append path on the transaction
// ledger, routed admin-only. It does not reverse stock or balances —
// reversals go through returns.
func (h *CheckoutHandler) DeleteTransaction(c *gin.Context) {
	if err := h.Service.Transactions.Delete(c.Param("id")); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete transaction"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Transaction deleted"})
}

// GetReceipt renders the printable till receipt.
func (h *CheckoutHandler) GetReceipt(c *gin.Context) {
	tx, ok := h.Service.Transactions.FindByID(c.Param("id"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "Transaction not found"})
		return
	}
	c.String(http.StatusOK, receipt.RenderReceipt(tx, h.Settings.Get()))
}
