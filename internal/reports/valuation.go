package reports

import (
	"sort"

	"go-retail-pos/internal/models"
)

// ValuationItem is a single product row in the valuation report.
type ValuationItem struct {
	Name      string  `json:"name"`
	Quantity  int     `json:"quantity"`
	CostPrice float64 `json:"cost_price"`
	TotalCost float64 `json:"total_cost"`
}

// CategoryGroup is one category table of the valuation report.
type CategoryGroup struct {
	CategoryName string          `json:"category_name"`
	Items        []ValuationItem `json:"items"`
	Subtotal     float64         `json:"subtotal"`
}

// Valuation is the total monetary value of physical inventory at cost.
type Valuation struct {
	Categories []CategoryGroup `json:"categories"`
	GrandTotal float64         `json:"grand_total"`
}

// StockValuation groups the catalog by category and values each item's
// stock at cost price.
func StockValuation(products []models.Product) Valuation {
	grouped := make(map[string]*CategoryGroup)
	var result Valuation

	for _, p := range products {
		cat := p.Category
		if cat == "" {
			cat = "Uncategorized"
		}
		group, ok := grouped[cat]
		if !ok {
			group = &CategoryGroup{CategoryName: cat}
			grouped[cat] = group
		}

		itemTotal := float64(p.Stock) * p.CostPrice
		group.Items = append(group.Items, ValuationItem{
			Name:      p.Name,
			Quantity:  p.Stock,
			CostPrice: p.CostPrice,
			TotalCost: itemTotal,
		})
		group.Subtotal += itemTotal
		result.GrandTotal += itemTotal
	}

	for _, group := range grouped {
		result.Categories = append(result.Categories, *group)
	}
	sort.Slice(result.Categories, func(i, j int) bool {
		return result.Categories[i].CategoryName < result.Categories[j].CategoryName
	})
	return result
}
