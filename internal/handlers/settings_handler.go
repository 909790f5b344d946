package handlers

import (
	"net/http"

	"go-retail-pos/internal/access"
	"go-retail-pos/internal/ledger"
	"go-retail-pos/internal/models"

	"github.com/gin-gonic/gin"
)

type SettingsHandler struct {
	Settings *ledger.SettingsStore
}

func (h *SettingsHandler) GetSettings(c *gin.Context) {
	c.JSON(http.StatusOK, h.Settings.Get())
}

// SaveSettings overwrites the whole settings blob. There is no partial
// update: the client sends the complete record.
func (h *SettingsHandler) SaveSettings(c *gin.Context) {
	var settings models.SystemSettings
	if err := c.ShouldBindJSON(&settings); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
		return
	}
	if settings.BusinessName == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Business name is required"})
		return
	}

	if err := h.Settings.Save(settings); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save settings"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Settings saved", "settings": settings})
}

// GetNavigation tells the client which views the logged-in role may open.
func (h *SettingsHandler) GetNavigation(c *gin.Context) {
	role := c.GetString("role")
	c.JSON(http.StatusOK, gin.H{
		"role":  role,
		"views": access.AllowedViews(role),
	})
}
