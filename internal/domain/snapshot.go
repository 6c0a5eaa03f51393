package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// ProductPriceRecord represents a single cleaned price observation inside a
// snapshot. Records that fail validation upstream (empty id, non-numeric or
// non-positive price) are dropped before this type is ever constructed.
type ProductPriceRecord struct {
	ProductID string
	Name      string
	Price     decimal.Decimal
}

// Snapshot is one dated capture of per-product prices for a region.
// Immutable once loaded; owned by the pipeline run that loaded it.
type Snapshot struct {
	Date    time.Time
	Records []ProductPriceRecord
}

// AggregatedProduct collapses all observations of one product within a
// snapshot into a single representative record. Name is the name of the
// first observation in source-encounter order; MeanPrice is the arithmetic
// mean of all surviving prices for that product.
type AggregatedProduct struct {
	ProductID string
	Name      string
	MeanPrice decimal.Decimal
}
