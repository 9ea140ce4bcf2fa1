// Package updater runs one tracking pass: load every tracked series,
// fetch the latest upstream state per series, classify the difference and
// persist what changed.
package updater

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"

	"mangatracker/internal/db"
	"mangatracker/internal/logger"
	"mangatracker/internal/manga"
)

// pageSize is how many series a single working-set page holds.
const pageSize = 10

const defaultConcurrency = 5

// Classification is what a check concluded about one series.
type Classification int

const (
	NoChange Classification = iota
	Upcoming
	Released
)

func (c Classification) String() string {
	switch c {
	case NoChange:
		return "no change"
	case Upcoming:
		return "upcoming"
	case Released:
		return "released"
	default:
		return "unknown"
	}
}

// Outcome is the result of checking one series. Series carries the row as
// it should be stored after the check.
type Outcome struct {
	Series  db.Series
	Fetched manga.Manga
	Class   Classification
}

type Store interface {
	ListSeries(q db.Query, limit, offset int) ([]db.Series, int, error)
	BatchUpdateSeries(rows []db.Series) error
}

type Fetcher interface {
	Fetch(ctx context.Context, source manga.Source, externalID string) (manga.Manga, error)
}

type Limiter interface {
	Acquire(ctx context.Context, source manga.Source) error
}

type Broadcaster interface {
	Broadcast(ctx context.Context, outcomes []Outcome) error
}

type Updater struct {
	store       Store
	fetch       Fetcher
	limit       Limiter
	notify      Broadcaster
	concurrency int

	now func() time.Time
}

func New(store Store, fetch Fetcher, limit Limiter, notify Broadcaster, concurrency int) *Updater {
	if concurrency < 1 {
		concurrency = defaultConcurrency
	}
	return &Updater{
		store:       store,
		fetch:       fetch,
		limit:       limit,
		notify:      notify,
		concurrency: concurrency,
		now:         manga.NowInJapan,
	}
}

// Run checks every tracked series once. A series whose fetch fails is
// logged and skipped; the rest of the run proceeds. Changed rows are
// written in one batch, then broadcast.
func (u *Updater) Run(ctx context.Context) ([]Outcome, error) {
	rows, err := u.loadAll()
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}

	// Indexed slots keep the outcome order identical to the stored order
	// no matter how the workers interleave.
	checked := make([]*Outcome, len(rows))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(u.concurrency)
	for i := range rows {
		i := i
		row := rows[i]
		g.Go(func() error {
			if err := u.limit.Acquire(gctx, row.Source); err != nil {
				return err
			}
			fetched, err := u.fetch.Fetch(gctx, row.Source, row.MangaID)
			if err != nil {
				logger.LogMsg(logger.LogWarning, "Check failed for %s: %v", row.Key(), err)
				return nil
			}
			out := u.classify(row, fetched)
			checked[i] = &out
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var (
		outcomes []Outcome
		changed  []db.Series
		notable  []Outcome
	)
	for _, out := range checked {
		if out == nil {
			continue
		}
		outcomes = append(outcomes, *out)
		if out.Class == NoChange {
			continue
		}
		changed = append(changed, out.Series)
		notable = append(notable, *out)
	}

	if len(changed) > 0 {
		if err := u.store.BatchUpdateSeries(changed); err != nil {
			return nil, err
		}
	}

	if len(notable) > 0 {
		if err := u.notify.Broadcast(ctx, notable); err != nil {
			logger.LogMsg(logger.LogError, "Broadcast failed: %v", err)
			return outcomes, err
		}
	}

	logger.LogMsg(logger.LogInfo, "Run complete: %d checked, %d changed", len(outcomes), len(changed))
	return outcomes, nil
}

func (u *Updater) loadAll() ([]db.Series, error) {
	var all []db.Series
	for offset := 0; ; offset += pageSize {
		page, total, err := u.store.ListSeries(db.Query{}, pageSize, offset)
		if err != nil {
			return nil, err
		}
		all = append(all, page...)
		if len(all) >= total || len(page) == 0 {
			return all, nil
		}
	}
}

// classify compares the stored snapshot with the fetched one.
//
// A chapter counts as released once its release date is not in the future,
// Japan time. The stored released flag breaks the tie when the title is
// unchanged: a chapter announced earlier flips to released the first run
// after its date passes, and never again.
func (u *Updater) classify(row db.Series, fetched manga.Manga) Outcome {
	now := u.now()
	titleChanged := fetched.LatestChapterTitle != row.LatestChapterTitle
	released := fetched.ReleasedAt(now)

	var class Classification
	switch {
	case (titleChanged || !row.Released) && released:
		class = Released
	case titleChanged && !released:
		class = Upcoming
	default:
		class = NoChange
	}

	series := row
	if class != NoChange {
		series = row.WithSnapshot(fetched, released, now)
	}
	return Outcome{Series: series, Fetched: fetched, Class: class}
}
