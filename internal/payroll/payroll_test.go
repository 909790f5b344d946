package payroll_test

import (
	"encoding/json"
	"testing"

	"go-retail-pos/internal/kv"
	"go-retail-pos/internal/ledger"
	"go-retail-pos/internal/models"
	"go-retail-pos/internal/payroll"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestPayroll(t *testing.T) (*payroll.Service, *ledger.ExpenseStore, *kv.Memory) {
	t.Helper()
	store := kv.NewMemory()

	records, err := ledger.OpenPayroll(store)
	require.NoError(t, err)
	expenses, err := ledger.OpenExpenses(store)
	require.NoError(t, err)

	return payroll.NewService(records, expenses), expenses, store
}

func cashier() models.User {
	return models.User{ID: "U1", Username: "kofi", Role: models.RoleCashier, FullName: "Kofi Mensah"}
}

func f(v float64) *float64 { return &v }

func TestDefaults_CashierTier(t *testing.T) {
	rec := payroll.Defaults(cashier(), "2026-08")

	assert.Equal(t, 2500.0, rec.BaseSalary)
	assert.Equal(t, 375.0, rec.Allowances, "allowances are 15 percent of base")
	assert.Equal(t, 2.0, rec.CommissionRate, "cashiers earn 2 percent commission")
	assert.Equal(t, models.PayrollPending, rec.Status)
	assert.Zero(t, rec.Bonus)
	assert.Zero(t, rec.OvertimeHours)
}

func TestDefaults_ManagerHasNoCommission(t *testing.T) {
	rec := payroll.Defaults(models.User{ID: "U2", Role: models.RoleManager}, "2026-08")
	assert.Equal(t, 3200.0, rec.BaseSalary)
	assert.Zero(t, rec.CommissionRate)
}

// The statutory arithmetic on the bare cashier defaults:
// gross 2875, ssnit 158.125, taxable 2314.875, paye 405.103125,
// net 2311.771875.
func TestStatutoryFormula(t *testing.T) {
	rec := payroll.Defaults(cashier(), "2026-08")

	assert.InDelta(t, 2875.0, rec.Gross, 1e-9)
	assert.InDelta(t, 158.125, rec.SSNIT, 1e-9)
	assert.InDelta(t, 405.103125, rec.PAYE, 1e-9)
	assert.InDelta(t, 2311.771875, rec.Net, 1e-9)
}

func TestUpdate_RecomputesDerivedFigures(t *testing.T) {
	svc, _, _ := newTestPayroll(t)

	rec, err := svc.Update(cashier(), "2026-08", payroll.EditableFields{
		SalesVolume: f(10000),
		Bonus:       f(200),
	})
	require.NoError(t, err)

	assert.InDelta(t, 200.0, rec.CommissionEarnings, 1e-9, "10000 x 2 percent")
	// gross = 2500 + 375 + 0 + 200 + 200 = 3275
	assert.InDelta(t, 3275.0, rec.Gross, 1e-9)
	assert.InDelta(t, 3275.0*0.055, rec.SSNIT, 1e-9)
}

func TestComputeRecord_PersistedWinsOverDefaults(t *testing.T) {
	svc, _, _ := newTestPayroll(t)

	_, err := svc.Update(cashier(), "2026-08", payroll.EditableFields{Bonus: f(500)})
	require.NoError(t, err)

	rec := svc.ComputeRecord(cashier(), "2026-08")
	assert.Equal(t, 500.0, rec.Bonus)

	// A different month is still synthesized from defaults.
	other := svc.ComputeRecord(cashier(), "2026-09")
	assert.Zero(t, other.Bonus)
}

// Records stored before some fields existed must come back with those
// fields defaulted and the derived figures rebuilt.
func TestComputeRecord_MigratesOldStoredShape(t *testing.T) {
	svc, _, store := newTestPayroll(t)

	legacy := []map[string]any{{
		"user_id":     "U1",
		"month":       "2026-08",
		"base_salary": 2500.0,
		"allowances":  375.0,
		// No overtime/commission/status fields: an older shape.
	}}
	raw, err := json.Marshal(legacy)
	require.NoError(t, err)
	store.SeedRaw(ledger.KeyPayroll, raw)

	records, err := ledger.OpenPayroll(store)
	require.NoError(t, err)
	expenses, err := ledger.OpenExpenses(store)
	require.NoError(t, err)
	svc = payroll.NewService(records, expenses)

	rec := svc.ComputeRecord(cashier(), "2026-08")
	assert.Equal(t, models.PayrollPending, rec.Status)
	assert.Zero(t, rec.OvertimeHours)
	assert.InDelta(t, 2875.0, rec.Gross, 1e-9, "derived figures rebuilt at load")
}

func TestMarkPaid_EmitsExactlyOneSalaryExpense(t *testing.T) {
	svc, expenses, _ := newTestPayroll(t)

	rec, err := svc.MarkPaid(cashier(), "2026-08")
	require.NoError(t, err)

	assert.Equal(t, models.PayrollPaid, rec.Status)
	assert.NotEmpty(t, rec.Reference)
	require.NotNil(t, rec.PaymentDate)

	all := expenses.All()
	require.Len(t, all, 1)
	assert.Equal(t, "Salaries", all[0].Category)
	assert.InDelta(t, rec.Net, all[0].Amount, 1e-9)
	assert.Contains(t, all[0].Note, rec.Reference)

	// Paying again is rejected and must not duplicate the expense.
	_, err = svc.MarkPaid(cashier(), "2026-08")
	assert.ErrorIs(t, err, payroll.ErrAlreadyPaid)
	assert.Len(t, expenses.All(), 1)
}

func TestPaidRecordIsImmutable(t *testing.T) {
	svc, _, _ := newTestPayroll(t)

	paid, err := svc.MarkPaid(cashier(), "2026-08")
	require.NoError(t, err)

	_, err = svc.Update(cashier(), "2026-08", payroll.EditableFields{Bonus: f(9999)})
	assert.ErrorIs(t, err, payroll.ErrAlreadyPaid)

	rec := svc.ComputeRecord(cashier(), "2026-08")
	assert.Equal(t, paid.Net, rec.Net)
	assert.Zero(t, rec.Bonus)
}
