package handlers

import (
	"net/http"

	"go-retail-pos/internal/ledger"

	"github.com/gin-gonic/gin"
)

type StorefrontHandler struct {
	Catalog  *ledger.CatalogStore
	Settings *ledger.SettingsStore
}

// storeItem is the public view of a product: no cost price, no exact
// stock count, just a low-stock badge.
type storeItem struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	Category string  `json:"category"`
	Brand    string  `json:"brand"`
	Price    float64 `json:"price"`
	ImageURL string  `json:"image_url"`
	LowStock bool    `json:"low_stock"`
	SoldOut  bool    `json:"sold_out"`
}

// GetStore is the unauthenticated public storefront payload.
func (h *StorefrontHandler) GetStore(c *gin.Context) {
	settings := h.Settings.Get()

	var items []storeItem
	for _, p := range h.Catalog.All() {
		items = append(items, storeItem{
			ID:       p.ID,
			Name:     p.Name,
			Category: p.Category,
			Brand:    p.Brand,
			Price:    p.Price,
			ImageURL: p.ImageURL,
			LowStock: p.Stock > 0 && p.Stock <= settings.LowStockLevel,
			SoldOut:  p.Stock <= 0,
		})
	}

	c.JSON(http.StatusOK, gin.H{
		"business_name": settings.BusinessName,
		"tagline":       settings.StoreTagline,
		"about":         settings.StoreAbout,
		"hero_image":    settings.StoreHeroImage,
		"currency":      settings.Currency,
		"products":      items,
	})
}
