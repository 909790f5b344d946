// Package receipt renders the fixed print layouts for receipts and
// payslips, plus the barcode image URL stamped on both.
package receipt

import (
	"fmt"
	"net/url"
	"strings"

	"go-retail-pos/internal/models"
)

const width = 40

// BarcodeURL points at an external barcode image service keyed by the
// record id. The barcode is cosmetic; nothing in this system scans it back.
func BarcodeURL(id string) string {
	return "https://barcodeapi.org/api/128/" + url.PathEscape(id)
}

// RenderReceipt produces the fixed-width till receipt for a transaction.
func RenderReceipt(tx models.Transaction, settings models.SystemSettings) string {
	var b strings.Builder

	center(&b, settings.BusinessName)
	if settings.StoreTagline != "" {
		center(&b, settings.StoreTagline)
	}
	rule(&b)
	line(&b, "Receipt", tx.ID)
	line(&b, "Date", tx.Timestamp.Format("02 Jan 2006 15:04"))
	line(&b, "Method", tx.PaymentMethod)
	rule(&b)

	if tx.IsSettlement {
		line(&b, "DEBT SETTLEMENT", "")
		line(&b, "Amount received", money(settings, tx.Total))
	} else {
		for _, item := range tx.Items {
			b.WriteString(item.Name + "\n")
			line(&b, fmt.Sprintf("  %d x %s", item.Quantity, money(settings, item.Price)),
				money(settings, item.Price*float64(item.Quantity)))
		}
		rule(&b)
		if tx.Discount > 0 {
			line(&b, "Discount", "-"+money(settings, tx.Discount))
		}
		if tx.Tax > 0 {
			line(&b, "Tax", money(settings, tx.Tax))
		}
		line(&b, "TOTAL", money(settings, tx.Total))
	}

	if tx.DueDate != nil {
		line(&b, "Due by", tx.DueDate.Format("02 Jan 2006"))
	}
	rule(&b)
	center(&b, "Thank you for your business!")
	b.WriteString("barcode: " + BarcodeURL(tx.ID) + "\n")
	return b.String()
}

// RenderPayslip produces the fixed-width payslip for a payroll record.
func RenderPayslip(rec models.PayrollRecord, user models.User, settings models.SystemSettings) string {
	var b strings.Builder

	center(&b, settings.BusinessName)
	center(&b, "PAYSLIP "+rec.Month)
	rule(&b)
	line(&b, "Employee", user.FullName)
	line(&b, "Role", user.Role)
	if rec.Reference != "" {
		line(&b, "Reference", rec.Reference)
	}
	if rec.PaymentDate != nil {
		line(&b, "Paid on", rec.PaymentDate.Format("02 Jan 2006"))
	}
	rule(&b)
	line(&b, "Base salary", money(settings, rec.BaseSalary))
	line(&b, "Allowances", money(settings, rec.Allowances))
	if rec.OvertimePay > 0 {
		line(&b, fmt.Sprintf("Overtime (%.1fh)", rec.OvertimeHours), money(settings, rec.OvertimePay))
	}
	if rec.CommissionEarnings > 0 {
		line(&b, "Commission", money(settings, rec.CommissionEarnings))
	}
	if rec.Bonus > 0 {
		line(&b, "Bonus", money(settings, rec.Bonus))
	}
	line(&b, "Gross", money(settings, rec.Gross))
	rule(&b)
	line(&b, "SSNIT (5.5%)", "-"+money(settings, rec.SSNIT))
	line(&b, "PAYE", "-"+money(settings, rec.PAYE))
	if rec.Deductions > 0 {
		line(&b, "Deductions", "-"+money(settings, rec.Deductions))
	}
	rule(&b)
	line(&b, "NET PAY", money(settings, rec.Net))
	rule(&b)
	b.WriteString("barcode: " + BarcodeURL(rec.UserID+"-"+rec.Month) + "\n")
	return b.String()
}

func money(settings models.SystemSettings, v float64) string {
	return fmt.Sprintf("%s %.2f", settings.Currency, v)
}

func line(b *strings.Builder, left, right string) {
	pad := width - len(left) - len(right)
	if pad < 1 {
		pad = 1
	}
	b.WriteString(left + strings.Repeat(" ", pad) + right + "\n")
}

func center(b *strings.Builder, s string) {
	pad := (width - len(s)) / 2
	if pad < 0 {
		pad = 0
	}
	b.WriteString(strings.Repeat(" ", pad) + s + "\n")
}

func rule(b *strings.Builder) {
	b.WriteString(strings.Repeat("-", width) + "\n")
}
