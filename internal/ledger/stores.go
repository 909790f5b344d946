// Package ledger holds the four record ledgers and the reconciliation
// service that keeps stock, customer balances, and monetary totals
// consistent across them.
package ledger

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"go-retail-pos/internal/kv"
	"go-retail-pos/internal/models"

	"github.com/google/uuid"
)

// Storage keys, one blob per ledger.
const (
	KeyProducts     = "pos:products"
	KeyTransactions = "pos:transactions"
	KeyCustomers    = "pos:customers"
	KeyReturns      = "pos:returns"
	KeyExpenses     = "pos:expenses"
	KeyPurchases    = "pos:purchases"
	KeyUsers        = "pos:users"
	KeyPayroll      = "pos:payroll"
	KeySettings     = "pos:settings"
)

// NewID builds a record id from a timestamp plus a random suffix,
// e.g. "TXN-1756710000000-4F1A9C2B".
func NewID(prefix string) string {
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:8])
	return fmt.Sprintf("%s-%d-%s", prefix, time.Now().UnixMilli(), suffix)
}

// ledgerOf is the common slice-of-records store. Every mutation rewrites
// the whole blob — there are no partial updates in the storage model.
type ledgerOf[T any] struct {
	key  string
	kv   kv.Store
	mu   sync.RWMutex
	rows []T
}

func openLedger[T any](store kv.Store, key string) (*ledgerOf[T], error) {
	l := &ledgerOf[T]{key: key, kv: store}
	if _, err := store.Get(key, &l.rows); err != nil {
		return nil, fmt.Errorf("load %s: %w", key, err)
	}
	return l, nil
}

// All returns a copy of the rows, most recent first for the append-front ledgers.
func (l *ledgerOf[T]) All() []T {
	l.mu.RLock()
	defer l.mu.RUnlock()
	out := make([]T, len(l.rows))
	copy(out, l.rows)
	return out
}

func (l *ledgerOf[T]) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.rows)
}

// mutate runs fn against the rows under lock, then flushes the whole blob.
func (l *ledgerOf[T]) mutate(fn func(rows []T) []T) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.rows = fn(l.rows)
	return l.kv.Set(l.key, l.rows)
}

// find returns the first row matching pred.
func (l *ledgerOf[T]) find(pred func(T) bool) (T, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	for _, r := range l.rows {
		if pred(r) {
			return r, true
		}
	}
	var zero T
	return zero, false
}

// --- Catalog ---

type CatalogStore struct{ *ledgerOf[models.Product] }

func OpenCatalog(store kv.Store) (*CatalogStore, error) {
	l, err := openLedger[models.Product](store, KeyProducts)
	return &CatalogStore{l}, err
}

func (s *CatalogStore) FindByID(id string) (models.Product, bool) {
	return s.find(func(p models.Product) bool { return p.ID == id })
}

func (s *CatalogStore) FindBySKU(sku string) (models.Product, bool) {
	return s.find(func(p models.Product) bool { return p.SKU == sku })
}

// Upsert inserts p, or replaces the product with the same id.
func (s *CatalogStore) Upsert(p models.Product) error {
	return s.mutate(func(rows []models.Product) []models.Product {
		for i := range rows {
			if rows[i].ID == p.ID {
				rows[i] = p
				return rows
			}
		}
		return append(rows, p)
	})
}

func (s *CatalogStore) Delete(id string) error {
	return s.mutate(func(rows []models.Product) []models.Product {
		for i := range rows {
			if rows[i].ID == id {
				return append(rows[:i], rows[i+1:]...)
			}
		}
		return rows
	})
}

// AdjustStock applies delta to the product's stock count. Stock has no
// floor: overselling drives it negative and that is accepted behavior.
// Returns false if no product has that id.
func (s *CatalogStore) AdjustStock(id string, delta int) (bool, error) {
	found := false
	err := s.mutate(func(rows []models.Product) []models.Product {
		for i := range rows {
			if rows[i].ID == id {
				rows[i].Stock += delta
				found = true
				break
			}
		}
		return rows
	})
	return found, err
}

// --- Transactions ---

type TransactionStore struct{ *ledgerOf[models.Transaction] }

func OpenTransactions(store kv.Store) (*TransactionStore, error) {
	l, err := openLedger[models.Transaction](store, KeyTransactions)
	return &TransactionStore{l}, err
}

func (s *TransactionStore) FindByID(id string) (models.Transaction, bool) {
	return s.find(func(t models.Transaction) bool { return t.ID == id })
}

// Prepend appends to the front: the ledger is ordered most-recent-first.
func (s *TransactionStore) Prepend(tx models.Transaction) error {
	return s.mutate(func(rows []models.Transaction) []models.Transaction {
		return append([]models.Transaction{tx}, rows...)
	})
}

// Delete removes a transaction. Gated by an admin permission at the
// handler layer; the ledger itself is otherwise append-only.
func (s *TransactionStore) Delete(id string) error {
	return s.mutate(func(rows []models.Transaction) []models.Transaction {
		for i := range rows {
			if rows[i].ID == id {
				return append(rows[:i], rows[i+1:]...)
			}
		}
		return rows
	})
}

// ByCustomer returns the customer's slice of the ledger, newest first.
func (s *TransactionStore) ByCustomer(customerID string) []models.Transaction {
	var out []models.Transaction
	for _, tx := range s.All() {
		if tx.CustomerID == customerID {
			out = append(out, tx)
		}
	}
	return out
}

// --- Customers ---

type CustomerStore struct{ *ledgerOf[models.Customer] }

func OpenCustomers(store kv.Store) (*CustomerStore, error) {
	l, err := openLedger[models.Customer](store, KeyCustomers)
	return &CustomerStore{l}, err
}

func (s *CustomerStore) FindByID(id string) (models.Customer, bool) {
	return s.find(func(c models.Customer) bool { return c.ID == id })
}

func (s *CustomerStore) Upsert(c models.Customer) error {
	return s.mutate(func(rows []models.Customer) []models.Customer {
		for i := range rows {
			if rows[i].ID == c.ID {
				rows[i] = c
				return rows
			}
		}
		return append(rows, c)
	})
}

func (s *CustomerStore) Delete(id string) error {
	return s.mutate(func(rows []models.Customer) []models.Customer {
		for i := range rows {
			if rows[i].ID == id {
				return append(rows[:i], rows[i+1:]...)
			}
		}
		return rows
	})
}

// Apply mutates the customer with the given id in place. Returns false
// if the customer does not exist (the caller decides whether to log).
func (s *CustomerStore) Apply(id string, fn func(c *models.Customer)) (bool, error) {
	found := false
	err := s.mutate(func(rows []models.Customer) []models.Customer {
		for i := range rows {
			if rows[i].ID == id {
				fn(&rows[i])
				found = true
				break
			}
		}
		return rows
	})
	return found, err
}

// --- Returns ---

type ReturnStore struct{ *ledgerOf[models.AppReturn] }

func OpenReturns(store kv.Store) (*ReturnStore, error) {
	l, err := openLedger[models.AppReturn](store, KeyReturns)
	return &ReturnStore{l}, err
}

func (s *ReturnStore) Prepend(ret models.AppReturn) error {
	return s.mutate(func(rows []models.AppReturn) []models.AppReturn {
		return append([]models.AppReturn{ret}, rows...)
	})
}

// --- Expenses ---

type ExpenseStore struct{ *ledgerOf[models.Expense] }

func OpenExpenses(store kv.Store) (*ExpenseStore, error) {
	l, err := openLedger[models.Expense](store, KeyExpenses)
	return &ExpenseStore{l}, err
}

func (s *ExpenseStore) Add(e models.Expense) error {
	return s.mutate(func(rows []models.Expense) []models.Expense {
		return append([]models.Expense{e}, rows...)
	})
}

func (s *ExpenseStore) Delete(id string) error {
	return s.mutate(func(rows []models.Expense) []models.Expense {
		for i := range rows {
			if rows[i].ID == id {
				return append(rows[:i], rows[i+1:]...)
			}
		}
		return rows
	})
}

// --- Purchases ---

type PurchaseStore struct{ *ledgerOf[models.Purchase] }

func OpenPurchases(store kv.Store) (*PurchaseStore, error) {
	l, err := openLedger[models.Purchase](store, KeyPurchases)
	return &PurchaseStore{l}, err
}

func (s *PurchaseStore) FindByID(id string) (models.Purchase, bool) {
	return s.find(func(p models.Purchase) bool { return p.ID == id })
}

func (s *PurchaseStore) Add(p models.Purchase) error {
	return s.mutate(func(rows []models.Purchase) []models.Purchase {
		return append([]models.Purchase{p}, rows...)
	})
}

func (s *PurchaseStore) SetStatus(id, status string) (bool, error) {
	found := false
	err := s.mutate(func(rows []models.Purchase) []models.Purchase {
		for i := range rows {
			if rows[i].ID == id {
				rows[i].Status = status
				found = true
				break
			}
		}
		return rows
	})
	return found, err
}

// --- Users ---

type UserStore struct{ *ledgerOf[models.User] }

func OpenUsers(store kv.Store) (*UserStore, error) {
	l, err := openLedger[models.User](store, KeyUsers)
	return &UserStore{l}, err
}

func (s *UserStore) FindByUsername(username string) (models.User, bool) {
	return s.find(func(u models.User) bool { return u.Username == username })
}

func (s *UserStore) FindByID(id string) (models.User, bool) {
	return s.find(func(u models.User) bool { return u.ID == id })
}

func (s *UserStore) Add(u models.User) error {
	return s.mutate(func(rows []models.User) []models.User {
		return append(rows, u)
	})
}

// --- Payroll ---

// PayrollStore keeps only touched records: a (user, month) pair with no
// stored row is synthesized from role defaults by the payroll package.
type PayrollStore struct{ *ledgerOf[models.PayrollRecord] }

func OpenPayroll(store kv.Store) (*PayrollStore, error) {
	l, err := openLedger[models.PayrollRecord](store, KeyPayroll)
	return &PayrollStore{l}, err
}

func (s *PayrollStore) Find(userID, month string) (models.PayrollRecord, bool) {
	return s.find(func(r models.PayrollRecord) bool {
		return r.UserID == userID && r.Month == month
	})
}

func (s *PayrollStore) Upsert(rec models.PayrollRecord) error {
	return s.mutate(func(rows []models.PayrollRecord) []models.PayrollRecord {
		for i := range rows {
			if rows[i].UserID == rec.UserID && rows[i].Month == rec.Month {
				rows[i] = rec
				return rows
			}
		}
		return append(rows, rec)
	})
}

// --- Settings ---

// SettingsStore holds the single configuration record. Unlike the
// ledgers it is one value, overwritten wholesale on every save.
type SettingsStore struct {
	kv      kv.Store
	mu      sync.RWMutex
	current models.SystemSettings
}

func OpenSettings(store kv.Store) (*SettingsStore, error) {
	s := &SettingsStore{kv: store, current: models.DefaultSettings()}
	if _, err := store.Get(KeySettings, &s.current); err != nil {
		return nil, fmt.Errorf("load %s: %w", KeySettings, err)
	}
	return s, nil
}

func (s *SettingsStore) Get() models.SystemSettings {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

func (s *SettingsStore) Save(settings models.SystemSettings) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.current = settings
	return s.kv.Set(KeySettings, settings)
}
