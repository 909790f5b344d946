// Package export builds downloadable xlsx workbooks from ledger slices.
// Write-only: nothing is ever read back from a workbook.
package export

import (
	"fmt"

	"go-retail-pos/internal/models"

	"github.com/xuri/excelize/v2"
)

const dateLayout = "2006-01-02 15:04"

// TransactionsWorkbook writes sales and settlements to separate sheets.
func TransactionsWorkbook(txs []models.Transaction) (*excelize.File, error) {
	f := excelize.NewFile()

	if err := writeSheet(f, "Sales", []string{"ID", "Date", "Method", "Customer", "Items", "Tax", "Discount", "Total"},
		func(add func(row []any)) {
			for _, tx := range txs {
				if tx.IsSettlement {
					continue
				}
				count := 0
				for _, line := range tx.Items {
					count += line.Quantity
				}
				add([]any{tx.ID, tx.Timestamp.Format(dateLayout), tx.PaymentMethod, tx.CustomerID, count, tx.Tax, tx.Discount, tx.Total})
			}
		}); err != nil {
		return nil, err
	}

	if err := writeSheet(f, "Settlements", []string{"ID", "Date", "Method", "Customer", "Amount"},
		func(add func(row []any)) {
			for _, tx := range txs {
				if !tx.IsSettlement {
					continue
				}
				add([]any{tx.ID, tx.Timestamp.Format(dateLayout), tx.PaymentMethod, tx.CustomerID, tx.Total})
			}
		}); err != nil {
		return nil, err
	}

	// Drop the default sheet so the workbook opens on Sales.
	f.DeleteSheet("Sheet1")
	return f, nil
}

// SpendingWorkbook writes expenses and purchase orders.
func SpendingWorkbook(expenses []models.Expense, purchases []models.Purchase) (*excelize.File, error) {
	f := excelize.NewFile()

	if err := writeSheet(f, "Expenses", []string{"ID", "Date", "Title", "Category", "Amount", "Note"},
		func(add func(row []any)) {
			for _, e := range expenses {
				add([]any{e.ID, e.Date.Format(dateLayout), e.Title, e.Category, e.Amount, e.Note})
			}
		}); err != nil {
		return nil, err
	}

	if err := writeSheet(f, "Purchases", []string{"ID", "Date", "Supplier", "Status", "Amount"},
		func(add func(row []any)) {
			for _, p := range purchases {
				add([]any{p.ID, p.Date.Format(dateLayout), p.Supplier, p.Status, p.Amount})
			}
		}); err != nil {
		return nil, err
	}

	f.DeleteSheet("Sheet1")
	return f, nil
}

// PayrollWorkbook writes one sheet of payroll records for a month.
func PayrollWorkbook(month string, records []models.PayrollRecord) (*excelize.File, error) {
	f := excelize.NewFile()

	if err := writeSheet(f, "Payroll "+month,
		[]string{"User", "Base", "Allowances", "Overtime", "Commission", "Bonus", "Deductions", "Gross", "SSNIT", "PAYE", "Net", "Status", "Reference"},
		func(add func(row []any)) {
			for _, r := range records {
				add([]any{r.UserID, r.BaseSalary, r.Allowances, r.OvertimePay, r.CommissionEarnings, r.Bonus, r.Deductions, r.Gross, r.SSNIT, r.PAYE, r.Net, r.Status, r.Reference})
			}
		}); err != nil {
		return nil, err
	}

	f.DeleteSheet("Sheet1")
	return f, nil
}

// writeSheet creates a sheet with a header row and streams rows through add.
func writeSheet(f *excelize.File, name string, headers []string, fill func(add func(row []any))) error {
	if _, err := f.NewSheet(name); err != nil {
		return err
	}

	header := make([]any, len(headers))
	for i, h := range headers {
		header[i] = h
	}
	if err := f.SetSheetRow(name, "A1", &header); err != nil {
		return err
	}

	rowNum := 2
	var writeErr error
	fill(func(row []any) {
		if writeErr != nil {
			return
		}
		cell := fmt.Sprintf("A%d", rowNum)
		writeErr = f.SetSheetRow(name, cell, &row)
		rowNum++
	})
	return writeErr
}
