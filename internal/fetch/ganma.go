package fetch

import (
	"bytes"
	"context"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"mangatracker/internal/manga"
)

func parseGanma(body []byte) (manga.Manga, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return manga.Manga{}, manga.PageNotFound("unparseable document: " + err.Error())
	}

	title := doc.Find(`h1[class*="text-xl"]`).First()
	if title.Length() == 0 {
		return manga.Manga{}, manga.PageNotFound("title not found")
	}
	author := doc.Find(`span[class*="text-sm"]`).First()
	if author.Length() == 0 {
		return manga.Manga{}, manga.PageNotFound("author not found")
	}

	latest := doc.Find(`ul[class*="divide-y"] > li > a`).First()
	if latest.Length() == 0 {
		return manga.Manga{}, manga.ChapterNotFound("zero result from chapter selector")
	}
	chapterURL, ok := latest.Attr("href")
	if !ok {
		return manga.Manga{}, manga.ChapterNotFound("chapter url not found")
	}

	cover, ok := latest.Find("img").First().Attr("src")
	if !ok {
		return manga.Manga{}, manga.ChapterNotFound("cover not found")
	}

	chapterTitle := latest.Find(`p[class*="font-bold"]`).First()
	if chapterTitle.Length() == 0 {
		return manga.Manga{}, manga.ChapterNotFound("chapter title not found")
	}

	// Server-rendered text carries react comment markers.
	clean := func(s string) string {
		return strings.TrimSpace(strings.ReplaceAll(s, "<!-- -->", ""))
	}

	// No release timestamp on the page.
	releaseDate := nowJST()

	return manga.Manga{
		Title:                    clean(title.Text()),
		CoverURL:                 cover,
		Author:                   clean(author.Text()),
		LatestChapterTitle:       clean(chapterTitle.Text()),
		LatestChapterURL:         "https://ganma.jp" + chapterURL,
		LatestChapterReleaseDate: releaseDate,
		LatestChapterPublishDay:  manga.PublishDay(releaseDate),
	}, nil
}

func (f *Fetcher) fetchGanma(ctx context.Context, externalID string) (manga.Manga, error) {
	body, err := f.getDocument(ctx, manga.SourceGanma, manga.SourceGanma.PageURL(externalID))
	if err != nil {
		return manga.Manga{}, err
	}
	return parseGanma(body)
}
