package loader

import (
	"github.com/shopspring/decimal"

	"github.com/mercaprice/mercaprice-backend/internal/domain"
)

// Aggregate collapses duplicate observations of the same product into one
// AggregatedProduct per distinct id. A snapshot may carry several rows for a
// product when it appears under multiple sub-catalog queries; downstream
// joins rely on unique keys.
//
// The representative name is the name of the first record encountered in
// source order (stable, never sorted); the mean price is the arithmetic mean
// of the group's prices.
func Aggregate(records []domain.ProductPriceRecord) []domain.AggregatedProduct {
	type group struct {
		name  string
		sum   decimal.Decimal
		count int64
	}

	order := make([]string, 0, len(records))
	groups := make(map[string]*group, len(records))
	for _, rec := range records {
		g, ok := groups[rec.ProductID]
		if !ok {
			g = &group{name: rec.Name}
			groups[rec.ProductID] = g
			order = append(order, rec.ProductID)
		}
		g.sum = g.sum.Add(rec.Price)
		g.count++
	}

	out := make([]domain.AggregatedProduct, 0, len(order))
	for _, id := range order {
		g := groups[id]
		out = append(out, domain.AggregatedProduct{
			ProductID: id,
			Name:      g.name,
			MeanPrice: g.sum.Div(decimal.NewFromInt(g.count)),
		})
	}
	return out
}
