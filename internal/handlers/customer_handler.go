package handlers

import (
	"net/http"

	"go-retail-pos/internal/ledger"
	"go-retail-pos/internal/models"

	"github.com/gin-gonic/gin"
)

type CustomerHandler struct {
	Service *ledger.Service
}

func (h *CustomerHandler) GetCustomers(c *gin.Context) {
	c.JSON(http.StatusOK, h.Service.Customers.All())
}

type CustomerRequest struct {
	Name  string `json:"name" binding:"required"`
	Phone string `json:"phone"`
}

func (h *CustomerHandler) AddCustomer(c *gin.Context) {
	var req CustomerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
		return
	}

	customer := models.Customer{
		ID:    ledger.NewID("CST"),
		Name:  req.Name,
		Phone: req.Phone,
	}
	if err := h.Service.Customers.Upsert(customer); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create customer"})
		return
	}
	c.JSON(http.StatusCreated, customer)
}

func (h *CustomerHandler) UpdateCustomer(c *gin.Context) {
	customer, ok := h.Service.Customers.FindByID(c.Param("id"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "Customer not found"})
		return
	}

	var req CustomerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
		return
	}

	// Only contact details are editable. The monetary aggregates belong
	// to the transaction poster.
	customer.Name = req.Name
	customer.Phone = req.Phone

	if err := h.Service.Customers.Upsert(customer); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update customer"})
		return
	}
	c.JSON(http.StatusOK, customer)
}

func (h *CustomerHandler) DeleteCustomer(c *gin.Context) {
	if err := h.Service.Customers.Delete(c.Param("id")); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete customer"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Customer deleted"})
}

// GetStatement returns the customer's aggregates plus their slice of the
// transaction ledger (sales and settlements, newest first).
func (h *CustomerHandler) GetStatement(c *gin.Context) {
	id := c.Param("id")
	customer, ok := h.Service.Customers.FindByID(id)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "Customer not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"customer":     customer,
		"transactions": h.Service.Transactions.ByCustomer(id),
	})
}

type SettleRequest struct {
	Amount float64 `json:"amount" binding:"required,gt=0"`
	Method string  `json:"method" binding:"required"`
}

// SettleDebt records a repayment against the customer's outstanding
// balance. Amount and method are validated here, at the boundary.
func (h *CustomerHandler) SettleDebt(c *gin.Context) {
	id := c.Param("id")

	var req SettleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Amount must be positive and method is required"})
		return
	}
	if req.Method != models.PaymentCash && req.Method != models.PaymentDigital {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Settlements accept Cash or Digital only"})
		return
	}

	if _, ok := h.Service.Customers.FindByID(id); !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "Customer not found"})
		return
	}

	tx, err := h.Service.SettleDebt(id, req.Amount, req.Method)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to record settlement"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Settlement recorded", "transaction": tx})
}
