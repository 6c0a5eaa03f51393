package ranking

import (
	"sort"

	"github.com/mercaprice/mercaprice-backend/internal/domain"
)

// DefaultTopN is the number of movers shown per direction when nothing else
// is configured.
const DefaultTopN = 3

// TopMovers extracts the top-n gainers and losers from a diff result.
// Records with exactly zero change are excluded up front — an unchanged
// price is not "top" anything. Gainers sort descending by change, losers
// ascending; ties in either list break by product id ascending so the
// ranking is deterministic.
//
// Both lists are empty when no record moved; the formatter renders an
// explicit placeholder in that case.
func TopMovers(records []domain.DiffRecord, n int) (gainers, losers []domain.DiffRecord) {
	if n <= 0 {
		n = DefaultTopN
	}

	changed := make([]domain.DiffRecord, 0, len(records))
	for _, rec := range records {
		if rec.PctChange.Sign() != 0 {
			changed = append(changed, rec)
		}
	}
	if len(changed) == 0 {
		return nil, nil
	}

	gainers = make([]domain.DiffRecord, len(changed))
	copy(gainers, changed)
	sort.Slice(gainers, func(i, j int) bool {
		if c := gainers[i].PctChange.Cmp(gainers[j].PctChange); c != 0 {
			return c > 0
		}
		return gainers[i].ProductID < gainers[j].ProductID
	})

	losers = make([]domain.DiffRecord, len(changed))
	copy(losers, changed)
	sort.Slice(losers, func(i, j int) bool {
		if c := losers[i].PctChange.Cmp(losers[j].PctChange); c != 0 {
			return c < 0
		}
		return losers[i].ProductID < losers[j].ProductID
	})

	if len(gainers) > n {
		gainers = gainers[:n]
	}
	if len(losers) > n {
		losers = losers[:n]
	}
	return gainers, losers
}
