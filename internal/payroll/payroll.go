// Package payroll computes per-staff monthly compensation and drives the
// one-way Pending→Paid transition. Paying a record is the single
// cross-ledger side effect payroll has: it emits exactly one Salaries
// expense.
package payroll

import (
	"errors"
	"fmt"
	"time"

	"go-retail-pos/internal/ledger"
	"go-retail-pos/internal/models"
)

// Statutory rates and role defaults. GH-style SSNIT/PAYE flat simulation.
const (
	AllowanceRate      = 0.15  // Allowances as a share of base
	CashierCommission  = 2.0   // Percent of sales volume
	OvertimeHourlyRate = 15.0  // Fixed rate per overtime hour
	SSNITRate          = 0.055 // Employee SSNIT contribution on gross
	PAYERate           = 0.175 // Flat PAYE on taxable income
	TaxFreeThreshold   = 402.0 // Monthly tax-free income
)

var baseByRole = map[string]float64{
	models.RoleAdmin:   4000,
	models.RoleManager: 3200,
	models.RoleCashier: 2500,
}

var ErrAlreadyPaid = errors.New("payroll record is paid and read-only")

// EditableFields is the subset of a record a payroll edit may change.
// Every derived figure is recomputed from these.
type EditableFields struct {
	BaseSalary     *float64 `json:"base_salary"`
	Allowances     *float64 `json:"allowances"`
	OvertimeHours  *float64 `json:"overtime_hours"`
	SalesVolume    *float64 `json:"sales_volume"`
	CommissionRate *float64 `json:"commission_rate"`
	Bonus          *float64 `json:"bonus"`
	Deductions     *float64 `json:"deductions"`
}

type Service struct {
	Records  *ledger.PayrollStore
	Expenses *ledger.ExpenseStore
}

func NewService(records *ledger.PayrollStore, expenses *ledger.ExpenseStore) *Service {
	return &Service{Records: records, Expenses: expenses}
}

// ComputeRecord returns the payroll record for (user, month). A persisted
// record wins, with numeric fields written before a field existed
// defaulting to 0 and the derived figures recomputed; otherwise the
// record is synthesized from role defaults.
func (s *Service) ComputeRecord(user models.User, month string) models.PayrollRecord {
	if rec, ok := s.Records.Find(user.ID, month); ok {
		if rec.Status == "" {
			rec.Status = models.PayrollPending
		}
		if rec.Status != models.PayrollPaid {
			// Older stored shapes may predate some fields; recomputing
			// from the inputs normalizes them.
			recompute(&rec)
		}
		return rec
	}
	return Defaults(user, month)
}

// Defaults synthesizes the on-the-fly record for an untouched month.
func Defaults(user models.User, month string) models.PayrollRecord {
	base := baseByRole[user.Role]
	rec := models.PayrollRecord{
		UserID:     user.ID,
		Month:      month,
		BaseSalary: base,
		Allowances: base * AllowanceRate,
		Status:     models.PayrollPending,
	}
	if user.Role == models.RoleCashier {
		rec.CommissionRate = CashierCommission
	}
	recompute(&rec)
	return rec
}

// Update applies an edit and persists the recomputed record. Editing a
// Paid record is rejected.
func (s *Service) Update(user models.User, month string, edit EditableFields) (models.PayrollRecord, error) {
	rec := s.ComputeRecord(user, month)
	if rec.Status == models.PayrollPaid {
		return rec, ErrAlreadyPaid
	}

	if edit.BaseSalary != nil {
		rec.BaseSalary = *edit.BaseSalary
	}
	if edit.Allowances != nil {
		rec.Allowances = *edit.Allowances
	}
	if edit.OvertimeHours != nil {
		rec.OvertimeHours = *edit.OvertimeHours
	}
	if edit.SalesVolume != nil {
		rec.SalesVolume = *edit.SalesVolume
	}
	if edit.CommissionRate != nil {
		rec.CommissionRate = *edit.CommissionRate
	}
	if edit.Bonus != nil {
		rec.Bonus = *edit.Bonus
	}
	if edit.Deductions != nil {
		rec.Deductions = *edit.Deductions
	}
	recompute(&rec)

	if err := s.Records.Upsert(rec); err != nil {
		return rec, err
	}
	return rec, nil
}

// MarkPaid flips the record Pending→Paid (one-way), stamps the payment
// date and reference, and emits exactly one Salaries expense for the net
// amount. Re-paying a paid record is rejected, which is what keeps the
// expense from duplicating.
func (s *Service) MarkPaid(user models.User, month string) (models.PayrollRecord, error) {
	rec := s.ComputeRecord(user, month)
	if rec.Status == models.PayrollPaid {
		return rec, ErrAlreadyPaid
	}

	now := time.Now()
	rec.Status = models.PayrollPaid
	rec.PaymentDate = &now
	rec.Reference = ledger.NewID("PAY")

	if err := s.Records.Upsert(rec); err != nil {
		return rec, err
	}

	expense := models.Expense{
		ID:       ledger.NewID("EXP"),
		Title:    fmt.Sprintf("Salary - %s (%s)", user.FullName, month),
		Category: "Salaries",
		Amount:   rec.Net,
		Date:     now,
		Note:     "Payroll payment ref " + rec.Reference,
	}
	if err := s.Expenses.Add(expense); err != nil {
		return rec, err
	}
	return rec, nil
}

// recompute rebuilds every derived figure from the editable inputs:
//
//	overtimePay = hours × fixed rate
//	commission  = volume × rate / 100
//	gross       = base + allowances + overtimePay + commission + bonus
//	ssnit       = gross × 5.5%
//	taxable     = max(0, gross − ssnit − threshold)
//	paye        = taxable × 17.5%
//	net         = base + allowances + bonus + overtimePay + commission
//	              − deductions − ssnit − paye
func recompute(rec *models.PayrollRecord) {
	rec.OvertimePay = rec.OvertimeHours * OvertimeHourlyRate
	rec.CommissionEarnings = rec.SalesVolume * rec.CommissionRate / 100
	rec.Gross = rec.BaseSalary + rec.Allowances + rec.OvertimePay + rec.CommissionEarnings + rec.Bonus
	rec.SSNIT = rec.Gross * SSNITRate

	taxable := rec.Gross - rec.SSNIT - TaxFreeThreshold
	if taxable < 0 {
		taxable = 0
	}
	rec.PAYE = 0
	if taxable > 0 {
		rec.PAYE = taxable * PAYERate
	}

	rec.Net = rec.BaseSalary + rec.Allowances + rec.Bonus + rec.OvertimePay +
		rec.CommissionEarnings - rec.Deductions - rec.SSNIT - rec.PAYE
}
