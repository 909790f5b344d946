package handlers

import (
	"errors"
	"net/http"
	"time"

	"go-retail-pos/internal/ledger"
	"go-retail-pos/internal/models"
	"go-retail-pos/internal/payroll"
	"go-retail-pos/internal/receipt"

	"github.com/gin-gonic/gin"
)

type PayrollHandler struct {
	Payroll  *payroll.Service
	Users    *ledger.UserStore
	Settings *ledger.SettingsStore
}

// month pulls the ?month=2006-01 query, defaulting to the current month.
func month(c *gin.Context) (string, bool) {
	m := c.Query("month")
	if m == "" {
		return time.Now().Format("2006-01"), true
	}
	if _, err := time.Parse("2006-01", m); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Month must be YYYY-MM"})
		return "", false
	}
	return m, true
}

// GetRecords computes the month's record for every staff member.
// Untouched records are synthesized from role defaults on the fly.
func (h *PayrollHandler) GetRecords(c *gin.Context) {
	m, ok := month(c)
	if !ok {
		return
	}

	type row struct {
		User   models.User          `json:"user"`
		Record models.PayrollRecord `json:"record"`
	}
	var rows []row
	for _, user := range h.Users.All() {
		rows = append(rows, row{User: user, Record: h.Payroll.ComputeRecord(user, m)})
	}
	c.JSON(http.StatusOK, gin.H{"month": m, "records": rows})
}

// UpdateRecord edits the compensation inputs; derived figures recompute.
func (h *PayrollHandler) UpdateRecord(c *gin.Context) {
	m, ok := month(c)
	if !ok {
		return
	}
	user, ok := h.Users.FindByID(c.Param("userId"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "Staff member not found"})
		return
	}

	var edit payroll.EditableFields
	if err := c.ShouldBindJSON(&edit); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
		return
	}

	rec, err := h.Payroll.Update(user, m, edit)
	if errors.Is(err, payroll.ErrAlreadyPaid) {
		c.JSON(http.StatusConflict, gin.H{"error": "Record is paid and can no longer be edited"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update record"})
		return
	}
	c.JSON(http.StatusOK, rec)
}

// PayRecord runs the one-way Pending→Paid transition.
func (h *PayrollHandler) PayRecord(c *gin.Context) {
	m, ok := month(c)
	if !ok {
		return
	}
	user, ok := h.Users.FindByID(c.Param("userId"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "Staff member not found"})
		return
	}

	rec, err := h.Payroll.MarkPaid(user, m)
	if errors.Is(err, payroll.ErrAlreadyPaid) {
		c.JSON(http.StatusConflict, gin.H{"error": "Record is already paid"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to record payment"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Salary paid", "record": rec})
}

// GetPayslip renders the printable payslip for the month.
func (h *PayrollHandler) GetPayslip(c *gin.Context) {
	m, ok := month(c)
	if !ok {
		return
	}
	user, ok := h.Users.FindByID(c.Param("userId"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "Staff member not found"})
		return
	}

	rec := h.Payroll.ComputeRecord(user, m)
	c.String(http.StatusOK, receipt.RenderPayslip(rec, user, h.Settings.Get()))
}
