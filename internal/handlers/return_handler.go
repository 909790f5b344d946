package handlers

import (
	"fmt"
	"net/http"

	"go-retail-pos/internal/ledger"
	"go-retail-pos/internal/models"

	"github.com/gin-gonic/gin"
)

type ReturnHandler struct {
	Service   *ledger.Service
	Purchases *ledger.PurchaseStore
}

type ReturnLineRequest struct {
	ProductID string `json:"product_id" binding:"required"`
	Quantity  int    `json:"quantity" binding:"required,gt=0"`
}

type ReturnRequest struct {
	Type        string              `json:"type" binding:"required"`
	ReferenceID string              `json:"reference_id" binding:"required"`
	Items       []ReturnLineRequest `json:"items" binding:"required,min=1,dive"`
}

// CreateReturn validates the requested lines against the original event
// — line price comes from the original snapshot and quantity is capped
// at what was originally transacted — then hands the reversal to the
// core, which trusts its input.
func (h *ReturnHandler) CreateReturn(c *gin.Context) {
	var req ReturnRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
		return
	}

	var original []models.CartLine
	switch req.Type {
	case models.ReturnSales:
		tx, ok := h.Service.Transactions.FindByID(req.ReferenceID)
		if !ok {
			c.JSON(http.StatusNotFound, gin.H{"error": "Original transaction not found"})
			return
		}
		if tx.IsSettlement {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Settlements carry no goods to return"})
			return
		}
		original = tx.Items
	case models.ReturnPurchase:
		purchase, ok := h.Purchases.FindByID(req.ReferenceID)
		if !ok {
			c.JSON(http.StatusNotFound, gin.H{"error": "Original purchase not found"})
			return
		}
		original = purchase.Items
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "Return type must be Sales or Purchase"})
		return
	}

	byProduct := make(map[string]models.CartLine, len(original))
	for _, line := range original {
		byProduct[line.ProductID] = line
	}

	var lines []models.ReturnLine
	for _, item := range req.Items {
		origLine, ok := byProduct[item.ProductID]
		if !ok {
			c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("Product %s is not on the original record", item.ProductID)})
			return
		}
		if item.Quantity > origLine.Quantity {
			c.JSON(http.StatusBadRequest, gin.H{
				"error": fmt.Sprintf("Cannot return %d of %s, only %d were transacted", item.Quantity, origLine.Name, origLine.Quantity),
			})
			return
		}
		lines = append(lines, models.ReturnLine{
			ProductID: item.ProductID,
			Name:      origLine.Name,
			Quantity:  item.Quantity,
			Price:     origLine.Price,
		})
	}

	ret, err := h.Service.ProcessReturn(models.AppReturn{
		Type:        req.Type,
		ReferenceID: req.ReferenceID,
		Items:       lines,
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to record return"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Return processed", "return": ret})
}

func (h *ReturnHandler) GetReturns(c *gin.Context) {
	c.JSON(http.StatusOK, h.Service.Returns.All())
}
