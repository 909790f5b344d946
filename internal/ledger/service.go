package ledger

import (
	"log"
	"time"

	"go-retail-pos/internal/models"
)

// Service is the reconciliation core: the only mutation surface that
// touches more than one ledger in a single call. Posting, settlement,
// and returns all fan out from here so the arithmetic that ties stock,
// balances, and totals together lives in exactly one place.
type Service struct {
	Catalog      *CatalogStore
	Transactions *TransactionStore
	Customers    *CustomerStore
	Returns      *ReturnStore
}

func NewService(catalog *CatalogStore, txs *TransactionStore, customers *CustomerStore, returns *ReturnStore) *Service {
	return &Service{
		Catalog:      catalog,
		Transactions: txs,
		Customers:    customers,
		Returns:      returns,
	}
}

// PostTransaction appends tx to the front of the transaction ledger and
// fans out the stock and customer-ledger updates in the same synchronous
// call.
//
// Rules:
//   - Non-settlement transactions decrement stock per cart line. There is
//     no sufficiency check: stock may go negative.
//   - TotalSpent accrues the total unless the transaction is a settlement.
//   - A Credit-method transaction adds the total to CreditBalance even if
//     it is also flagged as a settlement; otherwise a settlement subtracts
//     the total, floored at 0; otherwise the balance is untouched.
//   - LastVisit is bumped on every posted transaction for the customer.
//
// Dangling product or customer references are logged and skipped, never
// errors. Only a persistence flush can fail.
func (s *Service) PostTransaction(tx models.Transaction) (models.Transaction, error) {
	if tx.ID == "" {
		tx.ID = NewID("TXN")
	}
	if tx.Timestamp.IsZero() {
		tx.Timestamp = time.Now()
	}

	if err := s.Transactions.Prepend(tx); err != nil {
		return tx, err
	}

	if !tx.IsSettlement {
		for _, line := range tx.Items {
			found, err := s.Catalog.AdjustStock(line.ProductID, -line.Quantity)
			if err != nil {
				return tx, err
			}
			if !found {
				log.Printf("post %s: product %s not found, stock not adjusted", tx.ID, line.ProductID)
			}
		}
	}

	if tx.CustomerID != "" {
		found, err := s.Customers.Apply(tx.CustomerID, func(c *models.Customer) {
			if !tx.IsSettlement {
				c.TotalSpent += tx.Total
			}
			// Credit sales accrue debt even when the settlement flag is
			// set — the two rules are additive, not an if/else pair.
			if tx.PaymentMethod == models.PaymentCredit {
				c.CreditBalance += tx.Total
			} else if tx.IsSettlement {
				c.CreditBalance = floor0(c.CreditBalance - tx.Total)
			}
			c.LastVisit = time.Now()
		})
		if err != nil {
			return tx, err
		}
		if !found {
			log.Printf("post %s: customer %s not found, ledger not updated", tx.ID, tx.CustomerID)
		}
	}

	return tx, nil
}

// SettleDebt records a debt repayment as a synthetic settlement
// transaction and delegates to PostTransaction. Settlements and sales
// deliberately share one posting path so their customer-ledger math can
// never diverge.
//
// amount > 0 and method ∈ {Cash, Digital} are validated at the handler
// boundary, not here.
func (s *Service) SettleDebt(customerID string, amount float64, method string) (models.Transaction, error) {
	tx := models.Transaction{
		ID:            NewID("TXN"),
		Timestamp:     time.Now(),
		Items:         []models.CartLine{},
		Total:         amount,
		Tax:           0,
		Discount:      0,
		PaymentMethod: method,
		CustomerID:    customerID,
		IsSettlement:  true,
	}
	return s.PostTransaction(tx)
}

// ProcessReturn appends ret to the returns ledger and reverses the
// original event: Sales returns restock goods and unwind the customer's
// spend (and debt, for Credit sales); Purchase returns send goods back
// out and never touch a customer.
//
// Per-line quantity caps against the original event are enforced by the
// caller at lookup time; this operation trusts its input.
func (s *Service) ProcessReturn(ret models.AppReturn) (models.AppReturn, error) {
	if ret.ID == "" {
		ret.ID = NewID("RET")
	}
	if ret.Timestamp.IsZero() {
		ret.Timestamp = time.Now()
	}
	if ret.Status == "" {
		ret.Status = "Completed"
	}

	// Amount is always derived from the entered lines.
	ret.Amount = 0
	for _, line := range ret.Items {
		ret.Amount += line.Price * float64(line.Quantity)
	}

	if err := s.Returns.Prepend(ret); err != nil {
		return ret, err
	}

	stockSign := 1 // Sales return: goods come back in
	if ret.Type == models.ReturnPurchase {
		stockSign = -1 // Purchase return: goods go back to the supplier
	}
	for _, line := range ret.Items {
		found, err := s.Catalog.AdjustStock(line.ProductID, stockSign*line.Quantity)
		if err != nil {
			return ret, err
		}
		if !found {
			log.Printf("return %s: product %s not found, stock not adjusted", ret.ID, line.ProductID)
		}
	}

	if ret.Type == models.ReturnSales {
		orig, ok := s.Transactions.FindByID(ret.ReferenceID)
		if !ok {
			log.Printf("return %s: original transaction %s not found", ret.ID, ret.ReferenceID)
			return ret, nil
		}
		if orig.CustomerID == "" {
			return ret, nil
		}
		found, err := s.Customers.Apply(orig.CustomerID, func(c *models.Customer) {
			if orig.PaymentMethod == models.PaymentCredit {
				c.CreditBalance = floor0(c.CreditBalance - ret.Amount)
			}
			c.TotalSpent = floor0(c.TotalSpent - ret.Amount)
		})
		if err != nil {
			return ret, err
		}
		if !found {
			log.Printf("return %s: customer %s not found, ledger not updated", ret.ID, orig.CustomerID)
		}
	}

	return ret, nil
}

func floor0(v float64) float64 {
	if v < 0 {
		return 0
	}
	return v
}
