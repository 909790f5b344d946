package handlers

import (
	"fmt"
	"net/http"
	"time"

	"go-retail-pos/internal/export"
	"go-retail-pos/internal/ledger"
	"go-retail-pos/internal/models"
	"go-retail-pos/internal/payroll"

	"github.com/gin-gonic/gin"
	"github.com/xuri/excelize/v2"
)

type ExportHandler struct {
	Transactions *ledger.TransactionStore
	Expenses     *ledger.ExpenseStore
	Purchases    *ledger.PurchaseStore
	Payroll      *payroll.Service
	Users        *ledger.UserStore
}

func streamWorkbook(c *gin.Context, f *excelize.File, name string) {
	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
	if err := f.Write(c.Writer); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to write workbook"})
	}
}

// ExportTransactions downloads the transaction ledger as xlsx.
func (h *ExportHandler) ExportTransactions(c *gin.Context) {
	f, err := export.TransactionsWorkbook(h.Transactions.All())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to build workbook"})
		return
	}
	streamWorkbook(c, f, fmt.Sprintf("transactions-%s.xlsx", time.Now().Format("2006-01-02")))
}

// ExportSpending downloads expenses and purchases as xlsx.
func (h *ExportHandler) ExportSpending(c *gin.Context) {
	f, err := export.SpendingWorkbook(h.Expenses.All(), h.Purchases.All())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to build workbook"})
		return
	}
	streamWorkbook(c, f, fmt.Sprintf("spending-%s.xlsx", time.Now().Format("2006-01-02")))
}

// ExportPayroll downloads the month's payroll sheet as xlsx.
func (h *ExportHandler) ExportPayroll(c *gin.Context) {
	m, ok := month(c)
	if !ok {
		return
	}

	var records []models.PayrollRecord
	for _, user := range h.Users.All() {
		records = append(records, h.Payroll.ComputeRecord(user, m))
	}

	f, err := export.PayrollWorkbook(m, records)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to build workbook"})
		return
	}
	streamWorkbook(c, f, fmt.Sprintf("payroll-%s.xlsx", m))
}
