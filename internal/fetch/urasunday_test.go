package fetch

import (
	"testing"
	"time"

	"mangatracker/internal/manga"
)

const urasundayPage = `<html><body>
<div class="info"><h1>ケンガンオメガ</h1></div>
<div class="author">サンドロビッチ・ヤバ子</div>
<div class="chapter"><ul>
<li><a href="/title/791/2000">
<img src="/images/2000.jpg">
<div><span>第200話</span><span>2024/09/04</span></div>
</a></li>
<li><a href="/title/791/1990">
<img src="/images/1990.jpg">
<div><span>第199話</span><span>2024/08/28</span></div>
</a></li>
</ul></div>
</body></html>`

func TestParseUrasunday(t *testing.T) {
	m, err := parseUrasunday([]byte(urasundayPage))
	if err != nil {
		t.Fatalf("parseUrasunday: %v", err)
	}

	if m.Title != "ケンガンオメガ" {
		t.Errorf("Title = %q", m.Title)
	}
	if m.Author != "サンドロビッチ・ヤバ子" {
		t.Errorf("Author = %q", m.Author)
	}
	if m.LatestChapterTitle != "第200話" {
		t.Errorf("LatestChapterTitle = %q", m.LatestChapterTitle)
	}
	if m.LatestChapterURL != "https://urasunday.com/title/791/2000" {
		t.Errorf("LatestChapterURL = %q", m.LatestChapterURL)
	}
	if m.CoverURL != "https://urasunday.com/images/2000.jpg" {
		t.Errorf("CoverURL = %q", m.CoverURL)
	}
	want := time.Date(2024, 9, 4, 0, 0, 0, 0, manga.JST)
	if !m.LatestChapterReleaseDate.Equal(want) {
		t.Errorf("LatestChapterReleaseDate = %v, want %v", m.LatestChapterReleaseDate, want)
	}
}

func TestParseUrasundayMissingTitle(t *testing.T) {
	_, err := parseUrasunday([]byte(`<html><body></body></html>`))
	if err == nil {
		t.Fatal("expected error for empty page")
	}
	kind, _ := manga.KindOf(err)
	if kind != manga.ErrPageNotFound {
		t.Errorf("got error %v, want page-not-found kind", err)
	}
}
