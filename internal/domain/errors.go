package domain

import (
	"fmt"
	"time"
)

// CatalogFetchError reports a network or auth failure while reaching the
// snapshot catalog or downloading one of its assets. Always fatal for the
// run; no partial report is produced.
type CatalogFetchError struct {
	Op  string
	Err error
}

func (e *CatalogFetchError) Error() string {
	return fmt.Sprintf("catalog fetch failed during %s: %v", e.Op, e.Err)
}

func (e *CatalogFetchError) Unwrap() error {
	return e.Err
}

// SnapshotNotFoundError reports that no catalog entry satisfies a resolution
// rule (baseline or latest). Fatal for the run.
type SnapshotNotFoundError struct {
	Role string
	Date time.Time
}

func (e *SnapshotNotFoundError) Error() string {
	if e.Date.IsZero() {
		return fmt.Sprintf("no snapshot found for %s", e.Role)
	}
	return fmt.Sprintf("no snapshot found for %s (reference date %s)", e.Role, e.Date.Format("2006-01-02"))
}

// ArchiveExtractionError reports that a resolved archive did not contain the
// expected region table. Fatal for baseline/latest; for week-ago the weekly
// section degrades to its insufficient-history placeholder instead.
type ArchiveExtractionError struct {
	Asset  string
	Region string
}

func (e *ArchiveExtractionError) Error() string {
	return fmt.Sprintf("no %s price table found in archive %s", e.Region, e.Asset)
}

// NoDataError reports that a snapshot yielded zero valid rows after cleaning.
// Escalates exactly like ArchiveExtractionError.
type NoDataError struct {
	Source string
}

func (e *NoDataError) Error() string {
	return fmt.Sprintf("no valid price rows in %s", e.Source)
}
