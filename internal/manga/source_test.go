package manga

import (
	"strings"
	"testing"
)

func TestCleanTitle_RoundTrip(t *testing.T) {
	// For every source with banner data, re-attaching the banner (and the
	// bracket wrapper where the source uses one) must round-trip.
	const title = "瓜を破る"

	for _, src := range All() {
		info := sources[src]
		if info.banner == "" {
			continue
		}

		raw := title + info.banner
		if info.trimBrackets {
			raw = "『" + title + "』" + info.banner
		}

		if got := src.CleanTitle(raw); got != title {
			t.Errorf("%s: CleanTitle(%q) = %q, want %q", src, raw, got, title)
		}
	}
}

func TestCleanTitle_NoBannerIsNoop(t *testing.T) {
	const title = "Some Title (with punctuation)"

	for _, src := range All() {
		if sources[src].banner != "" {
			continue
		}
		if got := src.CleanTitle(title); got != title {
			t.Errorf("%s: CleanTitle() changed a title without banner data: %q", src, got)
		}
	}
}

func TestCleanTitle_SingleOccurrence(t *testing.T) {
	banner := sources[SourceChampionCross].banner
	raw := "A" + banner + "B" + banner

	want := "AB" + banner
	if got := SourceChampionCross.CleanTitle(raw); got != want {
		t.Fatalf("CleanTitle() = %q, want %q (only the first occurrence stripped)", got, want)
	}
}

func TestAllSourcesHaveInfo(t *testing.T) {
	if len(All()) != len(sources) {
		t.Fatalf("All() returns %d sources, info table has %d", len(All()), len(sources))
	}
	for _, src := range All() {
		if !src.Valid() {
			t.Errorf("%s: missing source info", src)
		}
		if !strings.Contains(sources[src].urlTemplate, "%s") {
			t.Errorf("%s: url template %q has no id slot", src, sources[src].urlTemplate)
		}
	}
}

func TestPageURL(t *testing.T) {
	got := SourceComicDays.PageURL("abc123")
	want := "https://comic-days.com/rss/series/abc123"
	if got != want {
		t.Fatalf("PageURL() = %q, want %q", got, want)
	}
}
