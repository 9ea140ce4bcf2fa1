package db

import (
	"time"

	"mangatracker/internal/manga"
)

// Series is one tracked title: the identity pair plus the latest-chapter
// snapshot from the last successful check.
type Series struct {
	Source                   manga.Source
	MangaID                  string
	Title                    string
	CoverURL                 string
	Author                   string
	LatestChapterTitle       string
	LatestChapterURL         string
	LatestChapterReleaseDate time.Time
	LatestChapterPublishDay  time.Weekday
	Released                 bool
	AddedAt                  time.Time
	UpdatedAt                time.Time
}

// Key identifies the series in logs.
func (s Series) Key() string {
	return string(s.Source) + "/" + s.MangaID
}

// Snapshot returns the canonical record stored for the series.
func (s Series) Snapshot() manga.Manga {
	return manga.Manga{
		Title:                    s.Title,
		CoverURL:                 s.CoverURL,
		Author:                   s.Author,
		LatestChapterTitle:       s.LatestChapterTitle,
		LatestChapterURL:         s.LatestChapterURL,
		LatestChapterReleaseDate: s.LatestChapterReleaseDate,
		LatestChapterPublishDay:  s.LatestChapterPublishDay,
	}
}

// FromManga builds a Series row from a freshly fetched record.
func FromManga(source manga.Source, mangaID string, m manga.Manga, released bool, now time.Time) Series {
	return Series{
		Source:                   source,
		MangaID:                  mangaID,
		Title:                    m.Title,
		CoverURL:                 m.CoverURL,
		Author:                   m.Author,
		LatestChapterTitle:       m.LatestChapterTitle,
		LatestChapterURL:         m.LatestChapterURL,
		LatestChapterReleaseDate: m.LatestChapterReleaseDate,
		LatestChapterPublishDay:  m.LatestChapterPublishDay,
		Released:                 released,
		AddedAt:                  now,
		UpdatedAt:                now,
	}
}

// WithSnapshot returns a copy of the series carrying a fresh fetch result.
// Identity and AddedAt stay as they are.
func (s Series) WithSnapshot(m manga.Manga, released bool, now time.Time) Series {
	s.Title = m.Title
	s.CoverURL = m.CoverURL
	s.Author = m.Author
	s.LatestChapterTitle = m.LatestChapterTitle
	s.LatestChapterURL = m.LatestChapterURL
	s.LatestChapterReleaseDate = m.LatestChapterReleaseDate
	s.LatestChapterPublishDay = m.LatestChapterPublishDay
	s.Released = released
	s.UpdatedAt = now
	return s
}

// Query filters a series listing. Zero values match everything.
type Query struct {
	Source manga.Source
	Text   string
	Day    *time.Weekday
}
