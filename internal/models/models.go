package models

import (
	"time"
)

// Payment methods accepted at checkout.
const (
	PaymentCash    = "Cash"
	PaymentCard    = "Card"
	PaymentDigital = "Digital"
	PaymentCredit  = "Credit"
)

// Return types
const (
	ReturnSales    = "Sales"
	ReturnPurchase = "Purchase"
)

// Purchase order statuses
const (
	PurchasePending   = "Pending"
	PurchaseReceived  = "Received"
	PurchaseCancelled = "Cancelled"
)

// Payroll statuses
const (
	PayrollPending = "Pending"
	PayrollPaid    = "Paid"
)

// Staff roles
const (
	RoleAdmin   = "admin"
	RoleManager = "manager"
	RoleCashier = "cashier"
)

// User - The person logging into the system
type User struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"` // Never return this in JSON
	Role         string    `json:"role"`
	FullName     string    `json:"full_name"`
	CreatedAt    time.Time `json:"created_at"`
}

// Product - The Inventory
type Product struct {
	ID        string  `json:"id"`
	Name      string  `json:"name"`
	Category  string  `json:"category"`
	Brand     string  `json:"brand"`
	Price     float64 `json:"price"`
	CostPrice float64 `json:"cost_price"`
	Stock     int     `json:"stock"` // Can go negative on oversell. Accepted behavior.
	SKU       string  `json:"sku"`
	ImageURL  string  `json:"image_url"`
}

// CartLine - one line of a transaction, frozen at time of sale.
// This is a snapshot (name, price, cost), NOT a live reference to Product,
// so historical reports stay correct when prices change later.
type CartLine struct {
	ProductID string  `json:"product_id"`
	Name      string  `json:"name"`
	Category  string  `json:"category"`
	Price     float64 `json:"price"`
	CostPrice float64 `json:"cost_price"`
	Quantity  int     `json:"quantity"`
}

// Transaction - The monetary event ledger entry. Append-only.
// Items is empty if and only if IsSettlement is true: a settlement
// carries money, never goods.
type Transaction struct {
	ID            string     `json:"id"`
	Timestamp     time.Time  `json:"timestamp"`
	DueDate       *time.Time `json:"due_date,omitempty"` // Credit sales only
	Items         []CartLine `json:"items"`
	Total         float64    `json:"total"`
	Tax           float64    `json:"tax"`
	Discount      float64    `json:"discount"`
	PaymentMethod string     `json:"payment_method"`
	CustomerID    string     `json:"customer_id,omitempty"`
	IsSettlement  bool       `json:"is_settlement"`
}

// Customer - per-customer aggregates maintained by the transaction poster.
type Customer struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	Phone         string    `json:"phone"`
	TotalSpent    float64   `json:"total_spent"`    // Sales only, never settlements
	CreditBalance float64   `json:"credit_balance"` // Outstanding debt, floored at 0
	LastVisit     time.Time `json:"last_visit"`
}

// ReturnLine - an independently entered quantity against an original line.
type ReturnLine struct {
	ProductID string  `json:"product_id"`
	Name      string  `json:"name"`
	Quantity  int     `json:"quantity"`
	Price     float64 `json:"price"`
}

// AppReturn - a reversal against a prior Transaction (Sales) or Purchase.
type AppReturn struct {
	ID          string       `json:"id"`
	Type        string       `json:"type"` // Sales | Purchase
	ReferenceID string       `json:"reference_id"`
	Items       []ReturnLine `json:"items"`
	Amount      float64      `json:"amount"` // Derived: sum of price*quantity
	Status      string       `json:"status"`
	Timestamp   time.Time    `json:"timestamp"`
}

// Expense - manual entry, or emitted automatically by payroll payment.
type Expense struct {
	ID       string    `json:"id"`
	Title    string    `json:"title"`
	Category string    `json:"category"`
	Amount   float64   `json:"amount"`
	Date     time.Time `json:"date"`
	Note     string    `json:"note"`
}

// Purchase - a supplier order. Items are optional and only consulted
// by the returns lookup.
type Purchase struct {
	ID       string     `json:"id"`
	Supplier string     `json:"supplier"`
	Amount   float64    `json:"amount"`
	Date     time.Time  `json:"date"`
	Status   string     `json:"status"`
	Items    []CartLine `json:"items,omitempty"`
}

// PayrollRecord - keyed by (UserID, Month). Synthesized from role defaults
// until first touched, then persisted; persisted fields win over defaults.
type PayrollRecord struct {
	UserID             string     `json:"user_id"`
	Month              string     `json:"month"` // "2006-01"
	BaseSalary         float64    `json:"base_salary"`
	Allowances         float64    `json:"allowances"`
	OvertimeHours      float64    `json:"overtime_hours"`
	OvertimePay        float64    `json:"overtime_pay"`
	SalesVolume        float64    `json:"sales_volume"`
	CommissionRate     float64    `json:"commission_rate"` // Percent
	CommissionEarnings float64    `json:"commission_earnings"`
	Bonus              float64    `json:"bonus"`
	Deductions         float64    `json:"deductions"`
	Gross              float64    `json:"gross"`
	SSNIT              float64    `json:"ssnit"`
	PAYE               float64    `json:"paye"`
	Net                float64    `json:"net"`
	Status             string     `json:"status"`
	PaymentDate        *time.Time `json:"payment_date,omitempty"`
	Reference          string     `json:"reference,omitempty"`
}

// SystemSettings - single flat configuration blob, overwritten wholesale on save.
type SystemSettings struct {
	BusinessName   string  `json:"business_name"`
	Currency       string  `json:"currency"`
	Locale         string  `json:"locale"`
	TaxRate        float64 `json:"tax_rate"` // Flat-rate simulation only
	StoreTagline   string  `json:"store_tagline"`
	StoreAbout     string  `json:"store_about"`
	StoreHeroImage string  `json:"store_hero_image"`
	LowStockLevel  int     `json:"low_stock_level"`
	// Feature-access toggles layered on top of the role policy
	CashierReturns  bool `json:"cashier_returns"`
	ManagerExpenses bool `json:"manager_expenses"`
}

// DefaultSettings is what a fresh install starts with.
func DefaultSettings() SystemSettings {
	return SystemSettings{
		BusinessName:  "My Retail Shop",
		Currency:      "GHS",
		Locale:        "en-GH",
		LowStockLevel: 5,
	}
}
