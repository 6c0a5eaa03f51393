package diff

import (
	"github.com/shopspring/decimal"

	"github.com/mercaprice/mercaprice-backend/internal/domain"
)

var (
	hundred = decimal.NewFromInt(100)

	// Aggregate changes below this magnitude (in percentage points) are
	// floating-point noise and clamp to exactly zero.
	noiseEpsilon = decimal.RequireFromString("0.0001")
)

// Compare inner-joins two aggregated snapshots on product id and computes
// the per-product and aggregate percentage changes. Products present in only
// one snapshot are catalog churn, not price change, and are excluded.
//
// Output order follows the after-snapshot's source order, so results are
// deterministic for identical inputs.
func Compare(before, after []domain.AggregatedProduct) domain.SnapshotDiff {
	byID := make(map[string]domain.AggregatedProduct, len(before))
	for _, p := range before {
		byID[p.ProductID] = p
	}

	var (
		records   []domain.DiffRecord
		sumBefore decimal.Decimal
		sumAfter  decimal.Decimal
	)
	for _, p := range after {
		prev, ok := byID[p.ProductID]
		if !ok {
			continue
		}
		records = append(records, domain.DiffRecord{
			ProductID:   p.ProductID,
			Name:        p.Name,
			PriceBefore: prev.MeanPrice,
			PriceAfter:  p.MeanPrice,
			PctChange:   PctChange(prev.MeanPrice, p.MeanPrice),
		})
		sumBefore = sumBefore.Add(prev.MeanPrice)
		sumAfter = sumAfter.Add(p.MeanPrice)
	}

	return domain.SnapshotDiff{
		Records:         records,
		AggregateChange: aggregateChange(sumBefore, sumAfter, len(records)),
	}
}

// PctChange computes (after - before) / before * 100. The caller guarantees
// before > 0.
func PctChange(before, after decimal.Decimal) decimal.Decimal {
	return after.Sub(before).Div(before).Mul(hundred)
}

// aggregateChange is the percentage change between the mean after-price and
// the mean before-price of the matched set — deliberately not the mean of
// per-product percentages, which overweights cheap products.
func aggregateChange(sumBefore, sumAfter decimal.Decimal, matched int) decimal.Decimal {
	if matched == 0 || sumBefore.Sign() == 0 {
		return decimal.Zero
	}
	n := decimal.NewFromInt(int64(matched))
	change := PctChange(sumBefore.Div(n), sumAfter.Div(n))
	if change.Abs().Cmp(noiseEpsilon) < 0 {
		return decimal.Zero
	}
	return change
}
