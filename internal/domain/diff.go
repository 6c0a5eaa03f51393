package domain

import "github.com/shopspring/decimal"

// DiffRecord is the price movement of one product between two snapshots.
// It only exists for products present in both snapshots (inner join on
// ProductID); PriceBefore is guaranteed positive by upstream validation, so
// PctChange is always recomputable from the two prices.
type DiffRecord struct {
	ProductID   string
	Name        string // from the later snapshot
	PriceBefore decimal.Decimal
	PriceAfter  decimal.Decimal
	PctChange   decimal.Decimal
}

// SnapshotDiff is the full comparison of two aggregated snapshots.
// AggregateChange is the percentage change between the mean of all
// after-prices and the mean of all before-prices across matched products —
// not the mean of per-product percentages. Values with magnitude below the
// noise epsilon are clamped to exactly zero.
type SnapshotDiff struct {
	Records         []DiffRecord
	AggregateChange decimal.Decimal
}
