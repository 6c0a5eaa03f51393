package domain

import "time"

// CatalogAsset is a downloadable artifact attached to a catalog entry.
type CatalogAsset struct {
	Name string
	URL  string
}

// CatalogEntry is one published snapshot in the archive catalog. The entry
// carries an identifying tag and its downloadable assets; the snapshot date
// is derived from the tag (preferred) or from an asset name.
type CatalogEntry struct {
	Tag    string
	Assets []CatalogAsset
}

// SnapshotRef is a catalog entry whose date has been successfully derived,
// making it eligible for baseline/latest/week-ago resolution.
type SnapshotRef struct {
	Entry CatalogEntry
	Date  time.Time
}

// Resolution holds the three snapshot references a comparison run needs.
// WeekAgo is nil when no snapshot exists at or before the lookback target;
// the weekly comparison is then omitted from the report.
type Resolution struct {
	Baseline SnapshotRef
	Latest   SnapshotRef
	WeekAgo  *SnapshotRef
}
