// Package tracker manages the tracked-series roster.
package tracker

import (
	"context"
	"errors"
	"fmt"
	"time"

	"mangatracker/internal/db"
	"mangatracker/internal/logger"
	"mangatracker/internal/manga"
)

type Store interface {
	InsertSeries(s db.Series) error
	GetSeries(source manga.Source, mangaID string) (db.Series, error)
	DeleteSeries(keys []db.SeriesKey) (int, error)
	ListSeries(q db.Query, limit, offset int) ([]db.Series, int, error)
}

type Fetcher interface {
	Fetch(ctx context.Context, source manga.Source, externalID string) (manga.Manga, error)
}

type Service struct {
	store Store
	fetch Fetcher

	now func() time.Time
}

func New(store Store, fetch Fetcher) *Service {
	return &Service{
		store: store,
		fetch: fetch,
		now:   manga.NowInJapan,
	}
}

// Add starts tracking a series. The initial snapshot comes from a live
// fetch, so a series that cannot be fetched cannot be tracked.
func (s *Service) Add(ctx context.Context, source manga.Source, mangaID string) (db.Series, error) {
	if !source.Valid() {
		return db.Series{}, fmt.Errorf("unknown source %q", source)
	}

	if _, err := s.store.GetSeries(source, mangaID); err == nil {
		return db.Series{}, db.ErrDuplicate
	} else if !errors.Is(err, db.ErrNotFound) {
		return db.Series{}, err
	}

	m, err := s.fetch.Fetch(ctx, source, mangaID)
	if err != nil {
		return db.Series{}, fmt.Errorf("fetch %s/%s: %w", source, mangaID, err)
	}

	now := s.now()
	row := db.FromManga(source, mangaID, m, m.ReleasedAt(now), now)
	if err := s.store.InsertSeries(row); err != nil {
		return db.Series{}, err
	}

	logger.LogMsg(logger.LogInfo, "Now tracking %s (%s)", row.Title, row.Key())
	return row, nil
}

// Remove stops tracking one or more series from a source. ErrNotFound
// means none of them were tracked.
func (s *Service) Remove(source manga.Source, mangaIDs ...string) error {
	keys := make([]db.SeriesKey, 0, len(mangaIDs))
	for _, id := range mangaIDs {
		keys = append(keys, db.SeriesKey{Source: source, MangaID: id})
	}
	deleted, err := s.store.DeleteSeries(keys)
	if err != nil {
		return err
	}
	if deleted == 0 {
		return db.ErrNotFound
	}
	logger.LogMsg(logger.LogInfo, "Stopped tracking %d of %d series from %s", deleted, len(keys), source)
	return nil
}

const listPageSize = 50

// List returns every tracked series matching the query.
func (s *Service) List(q db.Query) ([]db.Series, error) {
	var all []db.Series
	for offset := 0; ; offset += listPageSize {
		page, total, err := s.store.ListSeries(q, listPageSize, offset)
		if err != nil {
			return nil, err
		}
		all = append(all, page...)
		if len(all) >= total || len(page) == 0 {
			return all, nil
		}
	}
}
