package ledger_test

import (
	"testing"

	"go-retail-pos/internal/kv"
	"go-retail-pos/internal/ledger"
	"go-retail-pos/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestService(t *testing.T) *ledger.Service {
	t.Helper()
	store := kv.NewMemory()

	catalog, err := ledger.OpenCatalog(store)
	require.NoError(t, err)
	txs, err := ledger.OpenTransactions(store)
	require.NoError(t, err)
	customers, err := ledger.OpenCustomers(store)
	require.NoError(t, err)
	returns, err := ledger.OpenReturns(store)
	require.NoError(t, err)

	return ledger.NewService(catalog, txs, customers, returns)
}

func seedProduct(t *testing.T, s *ledger.Service, id string, stock int) {
	t.Helper()
	require.NoError(t, s.Catalog.Upsert(models.Product{
		ID: id, Name: "Cola 500ml", Category: "Drinks", Price: 10, CostPrice: 6, Stock: stock,
	}))
}

func seedCustomer(t *testing.T, s *ledger.Service, id string, spent, credit float64) {
	t.Helper()
	require.NoError(t, s.Customers.Upsert(models.Customer{
		ID: id, Name: "Ama", TotalSpent: spent, CreditBalance: credit,
	}))
}

func saleTx(productID string, qty int, total float64, method, customerID string) models.Transaction {
	return models.Transaction{
		Items: []models.CartLine{
			{ProductID: productID, Name: "Cola 500ml", Category: "Drinks", Price: 10, CostPrice: 6, Quantity: qty},
		},
		Total:         total,
		PaymentMethod: method,
		CustomerID:    customerID,
	}
}

func TestPostTransaction_DecrementsStockAndOrdersNewestFirst(t *testing.T) {
	s := newTestService(t)
	seedProduct(t, s, "P1", 10)

	first, err := s.PostTransaction(saleTx("P1", 3, 30, models.PaymentCash, ""))
	require.NoError(t, err)
	second, err := s.PostTransaction(saleTx("P1", 2, 20, models.PaymentCash, ""))
	require.NoError(t, err)

	p, ok := s.Catalog.FindByID("P1")
	require.True(t, ok)
	assert.Equal(t, 5, p.Stock)

	all := s.Transactions.All()
	require.Len(t, all, 2)
	assert.Equal(t, second.ID, all[0].ID, "ledger must be most-recent-first")
	assert.Equal(t, first.ID, all[1].ID)
}

func TestPostTransaction_StockMayGoNegative(t *testing.T) {
	s := newTestService(t)
	seedProduct(t, s, "P1", 1)

	_, err := s.PostTransaction(saleTx("P1", 5, 50, models.PaymentCash, ""))
	require.NoError(t, err)

	p, _ := s.Catalog.FindByID("P1")
	assert.Equal(t, -4, p.Stock, "oversell is allowed, no floor")
}

func TestPostTransaction_CreditSaleAccruesDebtAndSpend(t *testing.T) {
	s := newTestService(t)
	seedProduct(t, s, "P1", 10)
	seedCustomer(t, s, "C1", 0, 25)

	_, err := s.PostTransaction(saleTx("P1", 1, 100, models.PaymentCredit, "C1"))
	require.NoError(t, err)

	c, _ := s.Customers.FindByID("C1")
	assert.Equal(t, 125.0, c.CreditBalance)
	assert.Equal(t, 100.0, c.TotalSpent)
	assert.False(t, c.LastVisit.IsZero())
}

func TestPostTransaction_NonCreditSaleNeverTouchesCreditBalance(t *testing.T) {
	s := newTestService(t)
	seedProduct(t, s, "P1", 10)

	for _, method := range []string{models.PaymentCash, models.PaymentCard, models.PaymentDigital} {
		seedCustomer(t, s, "C1", 0, 40)

		_, err := s.PostTransaction(saleTx("P1", 1, 999, method, "C1"))
		require.NoError(t, err)

		c, _ := s.Customers.FindByID("C1")
		assert.Equal(t, 40.0, c.CreditBalance, "method %s must not change the balance", method)
		assert.Equal(t, 999.0, c.TotalSpent)
	}
}

func TestPostTransaction_MissingRefsAreNoOps(t *testing.T) {
	s := newTestService(t)

	// Neither the product nor the customer exists. Posting still succeeds.
	tx, err := s.PostTransaction(saleTx("GHOST", 2, 20, models.PaymentCash, "NOBODY"))
	require.NoError(t, err)
	assert.NotEmpty(t, tx.ID)
	assert.Equal(t, 1, s.Transactions.Len())
	assert.Empty(t, s.Customers.All())
}

func TestPostTransaction_SettlementWithCreditMethodUsesCombinedRule(t *testing.T) {
	s := newTestService(t)
	seedCustomer(t, s, "C1", 50, 10)

	// The odd-but-legal combination: settlement flag plus Credit method.
	// The Credit rule wins: the balance grows, and spend is untouched
	// because of the settlement flag.
	_, err := s.PostTransaction(models.Transaction{
		Items:         []models.CartLine{},
		Total:         30,
		PaymentMethod: models.PaymentCredit,
		CustomerID:    "C1",
		IsSettlement:  true,
	})
	require.NoError(t, err)

	c, _ := s.Customers.FindByID("C1")
	assert.Equal(t, 40.0, c.CreditBalance)
	assert.Equal(t, 50.0, c.TotalSpent)
}

func TestSettleDebt_ReducesBalanceLeavesSpend(t *testing.T) {
	s := newTestService(t)
	seedCustomer(t, s, "C1", 500, 120)

	tx, err := s.SettleDebt("C1", 40, models.PaymentCash)
	require.NoError(t, err)

	assert.True(t, tx.IsSettlement)
	assert.Empty(t, tx.Items, "settlements carry no goods")
	assert.Zero(t, tx.Tax)
	assert.Zero(t, tx.Discount)

	c, _ := s.Customers.FindByID("C1")
	assert.Equal(t, 80.0, c.CreditBalance)
	assert.Equal(t, 500.0, c.TotalSpent, "settlements never count as spend")
}

func TestSettleDebt_OverpaymentFloorsAtZero(t *testing.T) {
	s := newTestService(t)
	seedCustomer(t, s, "C1", 0, 25)

	_, err := s.SettleDebt("C1", 100, models.PaymentDigital)
	require.NoError(t, err)

	c, _ := s.Customers.FindByID("C1")
	assert.Equal(t, 0.0, c.CreditBalance)
}

func TestSettleDebt_SharesPostingPath(t *testing.T) {
	s := newTestService(t)
	seedProduct(t, s, "P1", 7)
	seedCustomer(t, s, "C1", 0, 60)

	_, err := s.SettleDebt("C1", 60, models.PaymentCash)
	require.NoError(t, err)

	// A settlement lands on the same ledger as a sale and never moves stock.
	assert.Equal(t, 1, s.Transactions.Len())
	p, _ := s.Catalog.FindByID("P1")
	assert.Equal(t, 7, p.Stock)
}

func TestProcessReturn_SalesReturnRestoresStock(t *testing.T) {
	s := newTestService(t)
	seedProduct(t, s, "P1", 10)

	sale, err := s.PostTransaction(saleTx("P1", 4, 40, models.PaymentCash, ""))
	require.NoError(t, err)
	p, _ := s.Catalog.FindByID("P1")
	require.Equal(t, 6, p.Stock)

	_, err = s.ProcessReturn(models.AppReturn{
		Type:        models.ReturnSales,
		ReferenceID: sale.ID,
		Items:       []models.ReturnLine{{ProductID: "P1", Name: "Cola 500ml", Quantity: 4, Price: 10}},
	})
	require.NoError(t, err)

	p, _ = s.Catalog.FindByID("P1")
	assert.Equal(t, 10, p.Stock, "full return restores pre-sale stock")
}

func TestProcessReturn_PurchaseReturnReducesStock(t *testing.T) {
	s := newTestService(t)
	seedProduct(t, s, "P1", 10)

	_, err := s.ProcessReturn(models.AppReturn{
		Type:        models.ReturnPurchase,
		ReferenceID: "PUR-1",
		Items:       []models.ReturnLine{{ProductID: "P1", Quantity: 3, Price: 6}},
	})
	require.NoError(t, err)

	p, _ := s.Catalog.FindByID("P1")
	assert.Equal(t, 7, p.Stock, "goods go back out to the supplier")

	// Purchase returns never touch a customer ledger.
	assert.Empty(t, s.Customers.All())
}

func TestProcessReturn_DerivesAmountFromLines(t *testing.T) {
	s := newTestService(t)
	seedProduct(t, s, "P1", 10)

	ret, err := s.ProcessReturn(models.AppReturn{
		Type:        models.ReturnSales,
		ReferenceID: "TXN-missing",
		Amount:      9999, // Caller-supplied amounts are ignored
		Items: []models.ReturnLine{
			{ProductID: "P1", Quantity: 2, Price: 10},
			{ProductID: "P1", Quantity: 1, Price: 5},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, 25.0, ret.Amount)
}

func TestProcessReturn_CreditSaleReturnUnwindsDebtAndSpend(t *testing.T) {
	s := newTestService(t)
	seedProduct(t, s, "P1", 10)
	seedCustomer(t, s, "C1", 0, 0)

	sale, err := s.PostTransaction(saleTx("P1", 3, 100, models.PaymentCredit, "C1"))
	require.NoError(t, err)

	_, err = s.ProcessReturn(models.AppReturn{
		Type:        models.ReturnSales,
		ReferenceID: sale.ID,
		Items:       []models.ReturnLine{{ProductID: "P1", Quantity: 3, Price: 10}},
	})
	require.NoError(t, err)

	c, _ := s.Customers.FindByID("C1")
	assert.Equal(t, 70.0, c.CreditBalance)
	assert.Equal(t, 70.0, c.TotalSpent)
}

func TestProcessReturn_CashSaleReturnLeavesBalance(t *testing.T) {
	s := newTestService(t)
	seedProduct(t, s, "P1", 10)
	seedCustomer(t, s, "C1", 0, 55)

	sale, err := s.PostTransaction(saleTx("P1", 2, 20, models.PaymentCash, "C1"))
	require.NoError(t, err)

	_, err = s.ProcessReturn(models.AppReturn{
		Type:        models.ReturnSales,
		ReferenceID: sale.ID,
		Items:       []models.ReturnLine{{ProductID: "P1", Quantity: 2, Price: 10}},
	})
	require.NoError(t, err)

	c, _ := s.Customers.FindByID("C1")
	assert.Equal(t, 55.0, c.CreditBalance, "non-credit originals never touch the balance")
	assert.Equal(t, 0.0, c.TotalSpent, "spend reduction floors at zero")
}

func TestProcessReturn_FloorsNeverGoNegative(t *testing.T) {
	s := newTestService(t)
	seedProduct(t, s, "P1", 10)
	seedCustomer(t, s, "C1", 10, 5)

	sale, err := s.PostTransaction(saleTx("P1", 1, 10, models.PaymentCredit, "C1"))
	require.NoError(t, err)

	// Return amount exceeds both aggregates. Both floor at zero.
	_, err = s.ProcessReturn(models.AppReturn{
		Type:        models.ReturnSales,
		ReferenceID: sale.ID,
		Items:       []models.ReturnLine{{ProductID: "P1", Quantity: 1, Price: 500}},
	})
	require.NoError(t, err)

	c, _ := s.Customers.FindByID("C1")
	assert.GreaterOrEqual(t, c.CreditBalance, 0.0)
	assert.GreaterOrEqual(t, c.TotalSpent, 0.0)
	assert.Equal(t, 0.0, c.CreditBalance)
	assert.Equal(t, 0.0, c.TotalSpent)
}

// The end-to-end scenario: credit sale, partial settlement, partial return.
func TestLedger_EndToEndScenario(t *testing.T) {
	s := newTestService(t)
	seedProduct(t, s, "P1", 100)
	seedCustomer(t, s, "C1", 0, 0)

	sale, err := s.PostTransaction(saleTx("P1", 10, 100, models.PaymentCredit, "C1"))
	require.NoError(t, err)

	c, _ := s.Customers.FindByID("C1")
	require.Equal(t, 100.0, c.CreditBalance)
	require.Equal(t, 100.0, c.TotalSpent)

	_, err = s.SettleDebt("C1", 40, models.PaymentCash)
	require.NoError(t, err)

	c, _ = s.Customers.FindByID("C1")
	require.Equal(t, 60.0, c.CreditBalance)
	require.Equal(t, 100.0, c.TotalSpent)

	_, err = s.ProcessReturn(models.AppReturn{
		Type:        models.ReturnSales,
		ReferenceID: sale.ID,
		Items:       []models.ReturnLine{{ProductID: "P1", Quantity: 3, Price: 10}},
	})
	require.NoError(t, err)

	c, _ = s.Customers.FindByID("C1")
	assert.Equal(t, 30.0, c.CreditBalance)
	assert.Equal(t, 70.0, c.TotalSpent)
}
