package fetch

import (
	"testing"

	"mangatracker/internal/manga"
)

func TestLatestMechaComicChapterNumber(t *testing.T) {
	page := `<html><body>
<div class="u-inlineBlock"><span>無料で読む</span></div>
<div class="u-inlineBlock"><span>最新１２３／123話へ</span></div>
</body></html>`

	n, err := latestMechaComicChapterNumber([]byte(page))
	if err != nil {
		t.Fatalf("latestMechaComicChapterNumber: %v", err)
	}
	if n != "123" {
		t.Errorf("chapter number = %q, want 123", n)
	}
}

func TestLatestMechaComicChapterNumberMissing(t *testing.T) {
	page := `<html><body><div class="u-inlineBlock"><span>無料で読む</span></div></body></html>`

	_, err := latestMechaComicChapterNumber([]byte(page))
	if err == nil {
		t.Fatal("expected error when the banner is absent")
	}
	kind, _ := manga.KindOf(err)
	if kind != manga.ErrChapterNotFound {
		t.Errorf("got error %v, want chapter-not-found kind", err)
	}
}

const mechaComicPage = `<html><body>
<h1 class="p-bookInfo_title">転生したら大変だった</h1>
<div class="p-bookInfo_author"><a href="/authors/1">作者B</a></div>
<ul>
<li class="p-chapterList_item">
<a href="/books/100?chapter=123">
<img src="https://cdn.example.com/123.jpg">
<div class="p-chapterList_title">第123話</div>
</a>
</li>
</ul>
</body></html>`

func TestParseMechaComic(t *testing.T) {
	m, err := parseMechaComic([]byte(mechaComicPage))
	if err != nil {
		t.Fatalf("parseMechaComic: %v", err)
	}

	if m.Title != "転生したら大変だった" {
		t.Errorf("Title = %q", m.Title)
	}
	if m.Author != "作者B" {
		t.Errorf("Author = %q", m.Author)
	}
	if m.LatestChapterTitle != "第123話" {
		t.Errorf("LatestChapterTitle = %q", m.LatestChapterTitle)
	}
	if m.LatestChapterURL != "https://mechacomic.jp/books/100?chapter=123" {
		t.Errorf("LatestChapterURL = %q", m.LatestChapterURL)
	}
	if m.CoverURL != "https://cdn.example.com/123.jpg" {
		t.Errorf("CoverURL = %q", m.CoverURL)
	}
}
