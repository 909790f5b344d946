package handlers_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"go-retail-pos/internal/access"
	"go-retail-pos/internal/auth"
	"go-retail-pos/internal/handlers"
	"go-retail-pos/internal/kv"
	"go-retail-pos/internal/ledger"
	"go-retail-pos/internal/middleware"
	"go-retail-pos/internal/models"
	"go-retail-pos/internal/payroll"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testApp struct {
	router  *gin.Engine
	core    *ledger.Service
	users   *ledger.UserStore
	payroll *payroll.Service
}

func setupApp(t *testing.T) *testApp {
	t.Helper()
	gin.SetMode(gin.TestMode)
	store := kv.NewMemory()

	catalog, err := ledger.OpenCatalog(store)
	require.NoError(t, err)
	transactions, err := ledger.OpenTransactions(store)
	require.NoError(t, err)
	customers, err := ledger.OpenCustomers(store)
	require.NoError(t, err)
	returns, err := ledger.OpenReturns(store)
	require.NoError(t, err)
	expenses, err := ledger.OpenExpenses(store)
	require.NoError(t, err)
	purchases, err := ledger.OpenPurchases(store)
	require.NoError(t, err)
	users, err := ledger.OpenUsers(store)
	require.NoError(t, err)
	payrollRecords, err := ledger.OpenPayroll(store)
	require.NoError(t, err)
	settings, err := ledger.OpenSettings(store)
	require.NoError(t, err)

	core := ledger.NewService(catalog, transactions, customers, returns)
	payrollSvc := payroll.NewService(payrollRecords, expenses)

	checkoutH := &handlers.CheckoutHandler{Service: core, Settings: settings}
	customerH := &handlers.CustomerHandler{Service: core}
	returnH := &handlers.ReturnHandler{Service: core, Purchases: purchases}
	payrollH := &handlers.PayrollHandler{Payroll: payrollSvc, Users: users, Settings: settings}

	r := gin.New()
	api := r.Group("/api")
	api.Use(middleware.AuthMiddleware())
	{
		api.POST("/checkout", checkoutH.Checkout)
		api.GET("/transactions", checkoutH.GetTransactions)
		api.POST("/customers/:id/settle", customerH.SettleDebt)
		api.GET("/customers/:id/statement", customerH.GetStatement)
		api.POST("/returns", returnH.CreateReturn)

		payrollGroup := api.Group("/payroll", middleware.RequireView(access.ViewPayroll))
		payrollGroup.GET("", payrollH.GetRecords)
	}

	return &testApp{router: r, core: core, users: users, payroll: payrollSvc}
}

func token(t *testing.T, role string) string {
	t.Helper()
	tok, err := auth.GenerateToken("U1", role)
	require.NoError(t, err)
	return tok
}

func (app *testApp) request(t *testing.T, method, path, bearer string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}
	w := httptest.NewRecorder()
	app.router.ServeHTTP(w, req)
	return w
}

func seedCatalogAndCustomer(t *testing.T, app *testApp) {
	t.Helper()
	require.NoError(t, app.core.Catalog.Upsert(models.Product{
		ID: "P1", Name: "Cola 500ml", Category: "Drinks", Price: 10, CostPrice: 6, Stock: 20,
	}))
	require.NoError(t, app.core.Customers.Upsert(models.Customer{ID: "C1", Name: "Ama"}))
}

func TestCheckout_HappyPath(t *testing.T) {
	app := setupApp(t)
	seedCatalogAndCustomer(t, app)

	w := app.request(t, http.MethodPost, "/api/checkout", token(t, models.RoleCashier), gin.H{
		"items":          []gin.H{{"product_id": "P1", "quantity": 3}},
		"payment_method": models.PaymentCash,
	})
	assert.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		SaleID string  `json:"sale_id"`
		Total  float64 `json:"total"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp.SaleID)
	assert.Equal(t, 30.0, resp.Total)

	p, _ := app.core.Catalog.FindByID("P1")
	assert.Equal(t, 17, p.Stock)
}

func TestCheckout_Validation(t *testing.T) {
	app := setupApp(t)
	seedCatalogAndCustomer(t, app)
	tok := token(t, models.RoleCashier)

	// No token at all
	w := app.request(t, http.MethodPost, "/api/checkout", "", gin.H{})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	// Empty cart
	w = app.request(t, http.MethodPost, "/api/checkout", tok, gin.H{
		"items": []gin.H{}, "payment_method": models.PaymentCash,
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// Unknown payment method
	w = app.request(t, http.MethodPost, "/api/checkout", tok, gin.H{
		"items": []gin.H{{"product_id": "P1", "quantity": 1}}, "payment_method": "Barter",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// Credit sale without a customer
	w = app.request(t, http.MethodPost, "/api/checkout", tok, gin.H{
		"items": []gin.H{{"product_id": "P1", "quantity": 1}}, "payment_method": models.PaymentCredit,
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// Unknown product
	w = app.request(t, http.MethodPost, "/api/checkout", tok, gin.H{
		"items": []gin.H{{"product_id": "GHOST", "quantity": 1}}, "payment_method": models.PaymentCash,
	})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestSettlement_FlowAndValidation(t *testing.T) {
	app := setupApp(t)
	seedCatalogAndCustomer(t, app)
	tok := token(t, models.RoleCashier)

	// Put the customer into debt with a credit sale.
	w := app.request(t, http.MethodPost, "/api/checkout", tok, gin.H{
		"items":          []gin.H{{"product_id": "P1", "quantity": 5}},
		"payment_method": models.PaymentCredit,
		"customer_id":    "C1",
	})
	require.Equal(t, http.StatusOK, w.Code)

	c, _ := app.core.Customers.FindByID("C1")
	require.Equal(t, 50.0, c.CreditBalance)

	// Card is not a settlement method.
	w = app.request(t, http.MethodPost, "/api/customers/C1/settle", tok, gin.H{
		"amount": 20, "method": models.PaymentCard,
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// Non-positive amounts never reach the ledger.
	w = app.request(t, http.MethodPost, "/api/customers/C1/settle", tok, gin.H{
		"amount": 0, "method": models.PaymentCash,
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// Unknown customer is a 404 at the boundary.
	w = app.request(t, http.MethodPost, "/api/customers/NOBODY/settle", tok, gin.H{
		"amount": 20, "method": models.PaymentCash,
	})
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = app.request(t, http.MethodPost, "/api/customers/C1/settle", tok, gin.H{
		"amount": 20, "method": models.PaymentCash,
	})
	assert.Equal(t, http.StatusOK, w.Code)

	c, _ = app.core.Customers.FindByID("C1")
	assert.Equal(t, 30.0, c.CreditBalance)
	assert.Equal(t, 50.0, c.TotalSpent)
}

func TestReturns_QuantityCapEnforcedAtBoundary(t *testing.T) {
	app := setupApp(t)
	seedCatalogAndCustomer(t, app)
	tok := token(t, models.RoleCashier)

	w := app.request(t, http.MethodPost, "/api/checkout", tok, gin.H{
		"items":          []gin.H{{"product_id": "P1", "quantity": 2}},
		"payment_method": models.PaymentCash,
	})
	require.Equal(t, http.StatusOK, w.Code)
	saleID := app.core.Transactions.All()[0].ID

	// More than was sold: rejected before the core sees it.
	w = app.request(t, http.MethodPost, "/api/returns", tok, gin.H{
		"type":         models.ReturnSales,
		"reference_id": saleID,
		"items":        []gin.H{{"product_id": "P1", "quantity": 3}},
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// Unknown reference
	w = app.request(t, http.MethodPost, "/api/returns", tok, gin.H{
		"type":         models.ReturnSales,
		"reference_id": "TXN-ghost",
		"items":        []gin.H{{"product_id": "P1", "quantity": 1}},
	})
	assert.Equal(t, http.StatusNotFound, w.Code)

	// Within the cap succeeds and restocks.
	w = app.request(t, http.MethodPost, "/api/returns", tok, gin.H{
		"type":         models.ReturnSales,
		"reference_id": saleID,
		"items":        []gin.H{{"product_id": "P1", "quantity": 2}},
	})
	assert.Equal(t, http.StatusOK, w.Code)

	p, _ := app.core.Catalog.FindByID("P1")
	assert.Equal(t, 20, p.Stock)
}

func TestPayrollRoutes_RoleGated(t *testing.T) {
	app := setupApp(t)

	w := app.request(t, http.MethodGet, "/api/payroll", token(t, models.RoleCashier), nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = app.request(t, http.MethodGet, "/api/payroll", token(t, models.RoleManager), nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = app.request(t, http.MethodGet, "/api/payroll", token(t, models.RoleAdmin), nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestStatement_ListsCustomerHistory(t *testing.T) {
	app := setupApp(t)
	seedCatalogAndCustomer(t, app)
	tok := token(t, models.RoleCashier)

	w := app.request(t, http.MethodPost, "/api/checkout", tok, gin.H{
		"items":          []gin.H{{"product_id": "P1", "quantity": 1}},
		"payment_method": models.PaymentCredit,
		"customer_id":    "C1",
	})
	require.Equal(t, http.StatusOK, w.Code)
	w = app.request(t, http.MethodPost, "/api/customers/C1/settle", tok, gin.H{
		"amount": 5, "method": models.PaymentCash,
	})
	require.Equal(t, http.StatusOK, w.Code)

	w = app.request(t, http.MethodGet, "/api/customers/C1/statement", tok, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Customer     models.Customer      `json:"customer"`
		Transactions []models.Transaction `json:"transactions"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Transactions, 2)
	assert.True(t, resp.Transactions[0].IsSettlement, "newest first: the settlement leads")
	assert.Equal(t, 5.0, resp.Customer.CreditBalance)
}
