// Package pipeline orchestrates one full comparison run: resolve the
// snapshot references, load and aggregate the selected snapshots, diff them,
// rank the movers and render the bounded report text.
package pipeline

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/mercaprice/mercaprice-backend/internal/domain"
	"github.com/mercaprice/mercaprice-backend/internal/usecase/diff"
	"github.com/mercaprice/mercaprice-backend/internal/usecase/loader"
	"github.com/mercaprice/mercaprice-backend/internal/usecase/ranking"
	"github.com/mercaprice/mercaprice-backend/internal/usecase/report"
	"github.com/mercaprice/mercaprice-backend/internal/usecase/resolver"
	logx "github.com/mercaprice/mercaprice-backend/pkg/logger"
)

// Config carries the static configuration a run needs.
type Config struct {
	Region        string
	BaselineDate  time.Time
	BaselineLabel string
	TopN          int
	LookbackDays  int
	CharBudget    int
}

// RunResult is the outcome of a successful run.
type RunResult struct {
	Text            string
	BaselineDate    time.Time
	LatestDate      time.Time
	WeekAgoDate     *time.Time
	AggregateChange decimal.Decimal
	DroppedRows     int
}

// Service wires the pipeline stages to the catalog and archive adapters.
type Service struct {
	Catalog   domain.CatalogRepository
	Snapshots domain.SnapshotRepository
	Config    Config
}

// NewService creates a new pipeline Service instance.
func NewService(catalog domain.CatalogRepository, snapshots domain.SnapshotRepository, cfg Config) *Service {
	return &Service{
		Catalog:   catalog,
		Snapshots: snapshots,
		Config:    cfg,
	}
}

type loadedSnapshot struct {
	products []domain.AggregatedProduct
	dropped  int
}

// Run executes the pipeline once. Fatal errors (catalog unreachable,
// baseline or latest unresolvable or unloadable) abort the run with no
// report text; a missing or unloadable week-ago snapshot only degrades the
// weekly section.
func (s *Service) Run(ctx context.Context, today time.Time) (*RunResult, error) {
	entries, err := s.Catalog.ListEntries(ctx)
	if err != nil {
		return nil, err
	}

	res, err := resolver.Resolve(entries, s.Config.BaselineDate, today, s.Config.LookbackDays)
	if err != nil {
		return nil, err
	}
	logResolution(res)

	baseline, latest, weekAgo, err := s.loadAll(ctx, res)
	if err != nil {
		return nil, err
	}

	historic := diff.Compare(baseline.products, latest.products)
	gainers, losers := ranking.TopMovers(historic.Records, s.Config.TopN)

	var weekly *report.WeeklySummary
	var weekAgoDate *time.Time
	if weekAgo != nil {
		weekly = weeklySummary(diff.Compare(weekAgo.products, latest.products))
		d := res.WeekAgo.Date
		weekAgoDate = &d
	}

	dropped := baseline.dropped + latest.dropped
	if weekAgo != nil {
		dropped += weekAgo.dropped
	}

	text := report.Render(report.Input{
		Region:          s.Config.Region,
		BaselineLabel:   s.Config.BaselineLabel,
		AggregateChange: historic.AggregateChange,
		Gainers:         gainers,
		Losers:          losers,
		Weekly:          weekly,
	}, s.Config.CharBudget)

	logx.Info().
		Int("matched_products", len(historic.Records)).
		Int("dropped_rows", dropped).
		Str("aggregate_change_pct", historic.AggregateChange.String()).
		Msg("comparison complete")

	return &RunResult{
		Text:            text,
		BaselineDate:    res.Baseline.Date,
		LatestDate:      res.Latest.Date,
		WeekAgoDate:     weekAgoDate,
		AggregateChange: historic.AggregateChange,
		DroppedRows:     dropped,
	}, nil
}

// loadAll fetches the selected snapshots concurrently; they are independent
// reads and carry no ordering requirement. The diff stage only starts once
// every load has finished.
func (s *Service) loadAll(ctx context.Context, res *domain.Resolution) (baseline, latest, weekAgo *loadedSnapshot, err error) {
	var (
		wg                             sync.WaitGroup
		baseErr, latestErr, weekErr    error
		baseSnap, latestSnap, weekSnap *loadedSnapshot
	)

	wg.Add(2)
	go func() {
		defer wg.Done()
		baseSnap, baseErr = s.loadSnapshot(ctx, res.Baseline)
	}()
	go func() {
		defer wg.Done()
		latestSnap, latestErr = s.loadSnapshot(ctx, res.Latest)
	}()
	if res.WeekAgo != nil {
		wg.Add(1)
		go func() {
			defer wg.Done()
			weekSnap, weekErr = s.loadSnapshot(ctx, *res.WeekAgo)
		}()
	}
	wg.Wait()

	if baseErr != nil {
		return nil, nil, nil, baseErr
	}
	if latestErr != nil {
		return nil, nil, nil, latestErr
	}
	if weekErr != nil {
		// Only table-level problems degrade; a network failure reaching the
		// archive is still fatal.
		if !degradable(weekErr) {
			return nil, nil, nil, weekErr
		}
		logx.Warn().Err(weekErr).Msg("week-ago snapshot unusable, weekly section degrades")
		weekSnap = nil
	}
	return baseSnap, latestSnap, weekSnap, nil
}

func (s *Service) loadSnapshot(ctx context.Context, ref domain.SnapshotRef) (*loadedSnapshot, error) {
	table, err := s.Snapshots.FetchTable(ctx, ref.Entry)
	if err != nil {
		return nil, err
	}
	defer table.Close()

	cleaned, err := loader.Clean(table, ref.Entry.Tag)
	if err != nil {
		return nil, err
	}
	return &loadedSnapshot{
		products: loader.Aggregate(cleaned.Records),
		dropped:  cleaned.Dropped,
	}, nil
}

func degradable(err error) bool {
	var extractErr *domain.ArchiveExtractionError
	var noDataErr *domain.NoDataError
	return errors.As(err, &extractErr) || errors.As(err, &noDataErr)
}

func weeklySummary(d domain.SnapshotDiff) *report.WeeklySummary {
	var summary report.WeeklySummary
	for _, rec := range d.Records {
		switch {
		case rec.PctChange.Sign() > 0:
			summary.Risers++
		case rec.PctChange.Sign() < 0:
			summary.Fallers++
		}
	}
	return &summary
}

func logResolution(res *domain.Resolution) {
	ev := logx.Debug().
		Str("baseline", res.Baseline.Date.Format("2006-01-02")).
		Str("latest", res.Latest.Date.Format("2006-01-02"))
	if res.WeekAgo != nil {
		ev = ev.Str("week_ago", res.WeekAgo.Date.Format("2006-01-02"))
	}
	ev.Msg("snapshot references resolved")
}
