package manga

import "time"

// JST is the normalization target for all date math: every upstream
// publisher releases on Japan time, and Japan has no daylight saving.
var JST = time.FixedZone("JST", 9*60*60)

var timeNow = time.Now

// NowInJapan is the named default-release-date policy: adapters whose
// upstream omits a release timestamp use "now" in the publisher zone.
func NowInJapan() time.Time {
	return timeNow().In(JST)
}

// Manga is the canonical record produced by every adapter call,
// independent of the upstream format.
type Manga struct {
	Title                    string
	CoverURL                 string
	Author                   string
	LatestChapterTitle       string
	LatestChapterURL         string
	LatestChapterReleaseDate time.Time
	LatestChapterPublishDay  time.Weekday
}

// PublishDay derives the weekday of a release date in the publisher zone.
// LatestChapterPublishDay must always equal PublishDay(LatestChapterReleaseDate).
func PublishDay(releaseDate time.Time) time.Weekday {
	return releaseDate.In(JST).Weekday()
}

// ReleasedAt reports whether the latest chapter is out at the given instant.
func (m Manga) ReleasedAt(now time.Time) bool {
	return !now.Before(m.LatestChapterReleaseDate)
}
