package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// RunRecord captures the outcome of one completed pipeline run for
// diagnostics and history. The report text itself is handed to the external
// publisher; this record only mirrors it.
type RunRecord struct {
	ID              uuid.UUID
	Region          string
	BaselineDate    time.Time
	LatestDate      time.Time
	WeekAgoDate     *time.Time
	AggregateChange decimal.Decimal
	DroppedRows     int
	Report          string
	CreatedAt       time.Time
}
