package handlers

import (
	"fmt"
	"net/http"
	"os"
	"time"

	"go-retail-pos/internal/ledger"
	"go-retail-pos/internal/models"

	"github.com/gin-gonic/gin"
)

type ProductHandler struct {
	Catalog *ledger.CatalogStore
}

// --- GET: List all products ---
func (h *ProductHandler) GetProducts(c *gin.Context) {
	c.JSON(http.StatusOK, h.Catalog.All())
}

type ProductRequest struct {
	Name      string  `json:"name" binding:"required"`
	Category  string  `json:"category"`
	Brand     string  `json:"brand"`
	Price     float64 `json:"price" binding:"required,gt=0"`
	CostPrice float64 `json:"cost_price" binding:"gte=0"`
	Stock     int     `json:"stock"`
	SKU       string  `json:"sku"`
	ImageURL  string  `json:"image_url"`
}

// --- POST: Add a new product ---
func (h *ProductHandler) AddProduct(c *gin.Context) {
	var req ProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
		return
	}

	product := models.Product{
		ID:        ledger.NewID("PRD"),
		Name:      req.Name,
		Category:  req.Category,
		Brand:     req.Brand,
		Price:     req.Price,
		CostPrice: req.CostPrice,
		Stock:     req.Stock,
		SKU:       req.SKU,
		ImageURL:  req.ImageURL,
	}
	if err := h.Catalog.Upsert(product); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create product"})
		return
	}

	c.JSON(http.StatusCreated, product)
}

// --- PUT: Update a product ---
func (h *ProductHandler) UpdateProduct(c *gin.Context) {
	id := c.Param("id")

	product, ok := h.Catalog.FindByID(id)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
		return
	}

	var req ProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
		return
	}

	product.Name = req.Name
	product.Category = req.Category
	product.Brand = req.Brand
	product.Price = req.Price
	product.CostPrice = req.CostPrice
	product.Stock = req.Stock
	product.SKU = req.SKU
	if req.ImageURL != "" {
		product.ImageURL = req.ImageURL
	}

	if err := h.Catalog.Upsert(product); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update product"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Product updated successfully", "product": product})
}

// --- DELETE: Remove a product ---
// Past transactions keep their snapshots, so deleting a product never
// damages history.
func (h *ProductHandler) DeleteProduct(c *gin.Context) {
	if err := h.Catalog.Delete(c.Param("id")); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not delete product"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Product deleted successfully"})
}

// --- UPLOAD: product/storefront images ---
func (h *ProductHandler) UploadImage(c *gin.Context) {
	file, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No file uploaded"})
		return
	}

	// Unique filename, e.g. "1756710000_cola.jpg"
	filename := fmt.Sprintf("%d_%s", time.Now().Unix(), file.Filename)
	if err := c.SaveUploadedFile(file, "./uploads/"+filename); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save file"})
		return
	}

	baseURL := os.Getenv("BASE_URL")
	if baseURL == "" {
		baseURL = "http://localhost:8080"
	}
	c.JSON(http.StatusOK, gin.H{
		"message": "File uploaded successfully",
		"url":     baseURL + "/uploads/" + filename,
	})
}

// --- GET: Scan lookup by SKU/barcode ---
func (h *ProductHandler) ScanProduct(c *gin.Context) {
	sku := c.Param("barcode")
	product, ok := h.Catalog.FindBySKU(sku)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "No product with that barcode"})
		return
	}
	c.JSON(http.StatusOK, product)
}
