// Package reports is the read-side projection over the ledgers. Every
// function here is pure: it scans full ledger slices and derives figures,
// with no caching and no mutation, so it is safe to call on every request.
package reports

import (
	"sort"
	"time"

	"go-retail-pos/internal/models"
)

// CategoryStat is one row of the per-category breakdown.
type CategoryStat struct {
	Name         string  `json:"name"`
	Revenue      float64 `json:"revenue"`
	ItemsSold    int     `json:"items_sold"`
	Profit       float64 `json:"profit"`
	RevenueShare float64 `json:"revenue_share"` // Percent of total sales revenue
}

// PnLSummary is the profit & loss projection for a date range.
type PnLSummary struct {
	SalesRevenue        float64        `json:"sales_revenue"`
	SettlementsReceived float64        `json:"settlements_received"` // Reported separately, never revenue
	GrossProfit         float64        `json:"gross_profit"`
	TotalExpenses       float64        `json:"total_expenses"`
	NetProfit           float64        `json:"net_profit"`
	TransactionCount    int            `json:"transaction_count"`
	Categories          []CategoryStat `json:"categories"`
}

// DeriveFinancials filters the ledgers to [start, end+1day) and computes
// the P&L. Gross profit uses the cart-line cost snapshot, not the current
// product cost, so the figure stays historically accurate after cost
// changes.
func DeriveFinancials(txs []models.Transaction, expenses []models.Expense, start, end time.Time) PnLSummary {
	cutoff := end.AddDate(0, 0, 1)
	inRange := func(t time.Time) bool {
		return !t.Before(start) && t.Before(cutoff)
	}

	var summary PnLSummary
	byCategory := make(map[string]*CategoryStat)

	for _, tx := range txs {
		if !inRange(tx.Timestamp) {
			continue
		}
		summary.TransactionCount++

		if tx.IsSettlement {
			summary.SettlementsReceived += tx.Total
			continue
		}
		summary.SalesRevenue += tx.Total

		for _, line := range tx.Items {
			cat := line.Category
			if cat == "" {
				cat = "Uncategorized"
			}
			stat, ok := byCategory[cat]
			if !ok {
				stat = &CategoryStat{Name: cat}
				byCategory[cat] = stat
			}
			lineRevenue := line.Price * float64(line.Quantity)
			lineProfit := (line.Price - line.CostPrice) * float64(line.Quantity)
			stat.Revenue += lineRevenue
			stat.ItemsSold += line.Quantity
			stat.Profit += lineProfit
			summary.GrossProfit += lineProfit
		}
	}

	for _, e := range expenses {
		if inRange(e.Date) {
			summary.TotalExpenses += e.Amount
		}
	}
	summary.NetProfit = summary.GrossProfit - summary.TotalExpenses

	for _, stat := range byCategory {
		if summary.SalesRevenue > 0 {
			stat.RevenueShare = stat.Revenue / summary.SalesRevenue * 100
		}
		summary.Categories = append(summary.Categories, *stat)
	}
	sort.Slice(summary.Categories, func(i, j int) bool {
		return summary.Categories[i].Revenue > summary.Categories[j].Revenue
	})

	return summary
}
