package resolver

import (
	"regexp"
	"sort"
	"time"

	"github.com/mercaprice/mercaprice-backend/internal/domain"
)

var reDate = regexp.MustCompile(`\d{4}-\d{2}-\d{2}`)

// EntryDate derives the calendar date of a catalog entry. It first looks for
// a YYYY-MM-DD pattern in the entry tag and then, failing that, in each asset
// name. Entries without a derivable date cannot participate in resolution.
func EntryDate(entry domain.CatalogEntry) (time.Time, bool) {
	if d, ok := parseDate(entry.Tag); ok {
		return d, true
	}
	for _, asset := range entry.Assets {
		if d, ok := parseDate(asset.Name); ok {
			return d, true
		}
	}
	return time.Time{}, false
}

func parseDate(s string) (time.Time, bool) {
	m := reDate.FindString(s)
	if m == "" {
		return time.Time{}, false
	}
	d, err := time.Parse("2006-01-02", m)
	if err != nil {
		return time.Time{}, false
	}
	return d, true
}

// Resolve selects the baseline, latest and week-ago snapshot references from
// an unordered catalog.
//
// Rules, over the date-sorted list of dateable entries:
//   - baseline: earliest entry dated at or after baselineDate. Missing is a
//     SnapshotNotFoundError.
//   - latest: the maximum date. An empty dateable list is a
//     SnapshotNotFoundError.
//   - week-ago: among entries dated at or before today minus lookbackDays,
//     the one with the maximum such date. Missing is not an error; the weekly
//     comparison is simply omitted.
func Resolve(entries []domain.CatalogEntry, baselineDate, today time.Time, lookbackDays int) (*domain.Resolution, error) {
	refs := make([]domain.SnapshotRef, 0, len(entries))
	for _, entry := range entries {
		if d, ok := EntryDate(entry); ok {
			refs = append(refs, domain.SnapshotRef{Entry: entry, Date: d})
		}
	}
	if len(refs) == 0 {
		return nil, &domain.SnapshotNotFoundError{Role: "latest"}
	}

	sort.Slice(refs, func(i, j int) bool { return refs[i].Date.Before(refs[j].Date) })

	var baseline *domain.SnapshotRef
	for i := range refs {
		if !refs[i].Date.Before(baselineDate) {
			baseline = &refs[i]
			break
		}
	}
	if baseline == nil {
		return nil, &domain.SnapshotNotFoundError{Role: "baseline", Date: baselineDate}
	}

	latest := refs[len(refs)-1]

	// Nearest at-or-before the lookback target, not nearest in absolute
	// distance.
	target := today.AddDate(0, 0, -lookbackDays)
	var weekAgo *domain.SnapshotRef
	for i := range refs {
		if refs[i].Date.After(target) {
			break
		}
		weekAgo = &refs[i]
	}

	res := &domain.Resolution{
		Baseline: *baseline,
		Latest:   latest,
	}
	if weekAgo != nil {
		ref := *weekAgo
		res.WeekAgo = &ref
	}
	return res, nil
}
