package main

import (
	"log"
	"os"
	"time"

	"go-retail-pos/internal/access"
	"go-retail-pos/internal/ai"
	"go-retail-pos/internal/handlers"
	"go-retail-pos/internal/kv"
	"go-retail-pos/internal/ledger"
	"go-retail-pos/internal/middleware"
	"go-retail-pos/internal/models"
	"go-retail-pos/internal/payroll"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: No .env file found")
	}

	store, err := kv.Open()
	if err != nil {
		log.Fatal("Failed to open storage:", err)
	}

	// One store per ledger, all persisting through the same kv port.
	catalog, err := ledger.OpenCatalog(store)
	fatalIf(err)
	transactions, err := ledger.OpenTransactions(store)
	fatalIf(err)
	customers, err := ledger.OpenCustomers(store)
	fatalIf(err)
	returns, err := ledger.OpenReturns(store)
	fatalIf(err)
	expenses, err := ledger.OpenExpenses(store)
	fatalIf(err)
	purchases, err := ledger.OpenPurchases(store)
	fatalIf(err)
	users, err := ledger.OpenUsers(store)
	fatalIf(err)
	payrollRecords, err := ledger.OpenPayroll(store)
	fatalIf(err)
	settings, err := ledger.OpenSettings(store)
	fatalIf(err)

	core := ledger.NewService(catalog, transactions, customers, returns)
	payrollSvc := payroll.NewService(payrollRecords, expenses)
	assistant := ai.New(os.Getenv("GEMINI_API_KEY"))

	authH := &handlers.AuthHandler{Users: users}
	productH := &handlers.ProductHandler{Catalog: catalog}
	checkoutH := &handlers.CheckoutHandler{Service: core, Settings: settings}
	customerH := &handlers.CustomerHandler{Service: core}
	returnH := &handlers.ReturnHandler{Service: core, Purchases: purchases}
	expenseH := &handlers.ExpenseHandler{Expenses: expenses, Purchases: purchases}
	payrollH := &handlers.PayrollHandler{Payroll: payrollSvc, Users: users, Settings: settings}
	reportH := &handlers.ReportHandler{Transactions: transactions, Expenses: expenses, Catalog: catalog}
	settingsH := &handlers.SettingsHandler{Settings: settings}
	storefrontH := &handlers.StorefrontHandler{Catalog: catalog, Settings: settings}
	aiH := &handlers.AIHandler{Assistant: assistant, Catalog: catalog, Transactions: transactions, Expenses: expenses}
	exportH := &handlers.ExportHandler{Transactions: transactions, Expenses: expenses, Purchases: purchases, Payroll: payrollSvc, Users: users}

	r := gin.Default()
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"http://localhost:5173"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	r.GET("/health", func(c *gin.Context) { c.JSON(200, gin.H{"status": "online"}) })
	r.POST("/login", authH.Login)
	r.Static("/uploads", "./uploads")

	// The public storefront needs no token.
	r.GET("/store", storefrontH.GetStore)

	// Only opens if we explicitly allow it in .env
	if os.Getenv("ALLOW_REGISTRATION") == "true" {
		r.POST("/register", authH.Register)
		log.Println("⚠️ WARNING: Registration route is OPEN. Disable this in production!")
	} else {
		log.Println("🔒 Registration route is safely DISABLED.")
	}

	api := r.Group("/api")
	api.Use(middleware.AuthMiddleware())
	{
		// ALL STAFF
		api.GET("/navigation", settingsH.GetNavigation)
		api.GET("/products", productH.GetProducts)
		api.GET("/products/scan/:barcode", productH.ScanProduct)
		api.POST("/checkout", checkoutH.Checkout)
		api.GET("/transactions", checkoutH.GetTransactions)
		api.GET("/transactions/:id/receipt", checkoutH.GetReceipt)
		api.GET("/customers", customerH.GetCustomers)
		api.POST("/customers", customerH.AddCustomer)
		api.PUT("/customers/:id", customerH.UpdateCustomer)
		api.GET("/customers/:id/statement", customerH.GetStatement)
		api.POST("/customers/:id/settle", customerH.SettleDebt)

		returnsGroup := api.Group("/returns", middleware.RequireView(access.ViewReturns))
		{
			returnsGroup.GET("", returnH.GetReturns)
			returnsGroup.POST("", returnH.CreateReturn)
		}

		// BACK OFFICE (view policy gated)
		inventory := api.Group("/", middleware.RequireView(access.ViewInventory))
		{
			inventory.POST("/products", productH.AddProduct)
			inventory.PUT("/products/:id", productH.UpdateProduct)
			inventory.DELETE("/products/:id", productH.DeleteProduct)
			inventory.POST("/upload", productH.UploadImage)
		}

		expensesGroup := api.Group("/expenses", middleware.RequireView(access.ViewExpenses))
		{
			expensesGroup.GET("", expenseH.GetExpenses)
			expensesGroup.POST("", expenseH.AddExpense)
			expensesGroup.DELETE("/:id", expenseH.DeleteExpense)
			expensesGroup.GET("/export", exportH.ExportSpending)
		}

		purchasesGroup := api.Group("/purchases", middleware.RequireView(access.ViewPurchases))
		{
			purchasesGroup.GET("", expenseH.GetPurchases)
			purchasesGroup.POST("", expenseH.AddPurchase)
			purchasesGroup.PUT("/:id/status", expenseH.SetPurchaseStatus)
		}

		reportsGroup := api.Group("/reports", middleware.RequireView(access.ViewReports))
		{
			reportsGroup.GET("/pnl", reportH.GetPnL)
			reportsGroup.GET("/valuation", reportH.GetStockValuation)
			reportsGroup.GET("/transactions/export", exportH.ExportTransactions)
		}

		payrollGroup := api.Group("/payroll", middleware.RequireView(access.ViewPayroll))
		{
			payrollGroup.GET("", payrollH.GetRecords)
			payrollGroup.PUT("/:userId", payrollH.UpdateRecord)
			payrollGroup.POST("/:userId/pay", payrollH.PayRecord)
			payrollGroup.GET("/:userId/payslip", payrollH.GetPayslip)
			payrollGroup.GET("/export", exportH.ExportPayroll)
		}

		staffGroup := api.Group("/staff", middleware.RequireView(access.ViewStaff))
		{
			staffGroup.GET("", authH.ListStaff)
		}

		settingsGroup := api.Group("/settings", middleware.RequireView(access.ViewSettings))
		{
			settingsGroup.GET("", settingsH.GetSettings)
			settingsGroup.PUT("", settingsH.SaveSettings)
		}

		// ADMIN ONLY
		admin := api.Group("/", middleware.RequireRole(models.RoleAdmin))
		{
			admin.DELETE("/transactions/:id", checkoutH.DeleteTransaction)
			admin.POST("/ai/ask", aiH.Ask)
			admin.GET("/ai/inventory-report", aiH.InventoryReport)
			admin.GET("/ai/daily-tasks", aiH.DailyTasks)
			admin.GET("/ai/profit-briefing", aiH.ProfitBriefing)
			admin.POST("/ai/generate-image", aiH.GenerateImage)
		}
	}

	// Serve the built frontend, SPA catch-all included.
	r.Static("/assets", "./web/assets")
	r.NoRoute(func(c *gin.Context) {
		c.File("./web/index.html")
	})

	addr := os.Getenv("LISTEN_ADDR")
	if addr == "" {
		addr = ":8080"
	}
	log.Println("🚀 Server starting on " + addr)
	if err := r.Run(addr); err != nil {
		log.Fatal("Server failed to start:", err)
	}
}

func fatalIf(err error) {
	if err != nil {
		log.Fatal("Failed to load ledgers:", err)
	}
}
