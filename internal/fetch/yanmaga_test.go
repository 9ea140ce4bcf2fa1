package fetch

import (
	"testing"
	"time"

	"mangatracker/internal/manga"
)

const yanmagaReleased = `<html><body>
<h1 class="detailv2-outline-title">パリピ孔明</h1>
<ul><li class="detailv2-outline-author-item"><a href="/authors/1"><h2>四葉夕卜</h2></a></li></ul>
<ul>
<li class="mod-episode-item">
<div class="mod-episode-thumbnail-image"><img src="https://cdn.example.com/120.jpg"></div>
<p class="mod-episode-title">第120話</p>
<time class="mod-episode-date">2024/09/02</time>
<a class="mod-episode-link" href="/comics/paripikoumei/120">read</a>
</li>
<li class="mod-episode-item">
<div class="mod-episode-thumbnail-image"><img src="https://cdn.example.com/119.jpg"></div>
<p class="mod-episode-title">第119話</p>
<time class="mod-episode-date">2024/08/26</time>
<a class="mod-episode-link" href="/comics/paripikoumei/119">read</a>
</li>
</ul>
</body></html>`

const yanmagaUpcoming = `<html><body>
<h1 class="detailv2-outline-title">パリピ孔明</h1>
<ul><li class="detailv2-outline-author-item"><a href="/authors/1"><h2>四葉夕卜</h2></a></li></ul>
<ul>
<li class="mod-episode-item">
<div class="mod-episode-thumbnail-image"><img src="https://cdn.example.com/121.jpg"></div>
<p class="mod-episode-date-before-publication-block"><span>第121話</span><span>2024/09/09(月)</span></p>
</li>
</ul>
</body></html>`

func TestParseYanmagaReleased(t *testing.T) {
	m, err := parseYanmaga([]byte(yanmagaReleased))
	if err != nil {
		t.Fatalf("parseYanmaga: %v", err)
	}

	if m.Title != "パリピ孔明" {
		t.Errorf("Title = %q", m.Title)
	}
	if m.Author != "四葉夕卜" {
		t.Errorf("Author = %q", m.Author)
	}
	if m.LatestChapterTitle != "第120話" {
		t.Errorf("LatestChapterTitle = %q, want first list entry", m.LatestChapterTitle)
	}
	if m.LatestChapterURL != "https://yanmaga.jp/comics/paripikoumei/120" {
		t.Errorf("LatestChapterURL = %q", m.LatestChapterURL)
	}
	want := time.Date(2024, 9, 2, 0, 0, 0, 0, manga.JST)
	if !m.LatestChapterReleaseDate.Equal(want) {
		t.Errorf("LatestChapterReleaseDate = %v, want %v", m.LatestChapterReleaseDate, want)
	}
}

func TestParseYanmagaUpcoming(t *testing.T) {
	m, err := parseYanmaga([]byte(yanmagaUpcoming))
	if err != nil {
		t.Fatalf("parseYanmaga: %v", err)
	}

	if m.LatestChapterTitle != "第121話" {
		t.Errorf("LatestChapterTitle = %q", m.LatestChapterTitle)
	}
	if m.LatestChapterURL != "" {
		t.Errorf("LatestChapterURL = %q, want empty before publication", m.LatestChapterURL)
	}
	want := time.Date(2024, 9, 9, 0, 0, 0, 0, manga.JST)
	if !m.LatestChapterReleaseDate.Equal(want) {
		t.Errorf("LatestChapterReleaseDate = %v, want %v", m.LatestChapterReleaseDate, want)
	}
	if m.LatestChapterPublishDay != time.Monday {
		t.Errorf("LatestChapterPublishDay = %v, want Monday", m.LatestChapterPublishDay)
	}
}

func TestParseYanmagaNoChapters(t *testing.T) {
	page := `<html><body>
<h1 class="detailv2-outline-title">t</h1>
<ul><li class="detailv2-outline-author-item"><a><h2>a</h2></a></li></ul>
</body></html>`

	_, err := parseYanmaga([]byte(page))
	if err == nil {
		t.Fatal("expected error for page without chapters")
	}
	kind, _ := manga.KindOf(err)
	if kind != manga.ErrChapterNotFound {
		t.Errorf("got error %v, want chapter-not-found kind", err)
	}
}
