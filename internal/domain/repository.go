package domain

import (
	"context"
	"io"
)

// CatalogRepository defines the interface for listing the snapshot archive
// catalog.
type CatalogRepository interface {
	// ListEntries retrieves every available catalog entry. Order is not
	// significant; the resolver sorts by derived date.
	ListEntries(ctx context.Context) ([]CatalogEntry, error)
}

// SnapshotRepository defines the interface for retrieving the region price
// table of a resolved catalog entry.
type SnapshotRepository interface {
	// FetchTable downloads the entry's archive and returns the delimited
	// price table for the configured region. The caller owns the reader.
	FetchTable(ctx context.Context, entry CatalogEntry) (io.ReadCloser, error)
}

// RunRepository defines the interface for run history persistence.
type RunRepository interface {
	// Save persists one completed pipeline run.
	Save(ctx context.Context, run *RunRecord) error

	// GetLatest retrieves the most recent run for a region, or nil when the
	// region has no history yet.
	GetLatest(ctx context.Context, region string) (*RunRecord, error)
}
