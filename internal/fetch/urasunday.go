package fetch

import (
	"bytes"
	"context"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"mangatracker/internal/manga"
)

func parseUrasunday(body []byte) (manga.Manga, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return manga.Manga{}, manga.PageNotFound("unparseable document: " + err.Error())
	}

	title := doc.Find(`div.info > h1`).First()
	if title.Length() == 0 {
		return manga.Manga{}, manga.PageNotFound("title not found")
	}
	author := doc.Find(`div.author`).First()
	if author.Length() == 0 {
		return manga.Manga{}, manga.PageNotFound("author not found")
	}

	latest := doc.Find(`div.chapter > ul > li > a`).First()
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

	// The anchor body is thumbnail, then a div holding title and date spans.
	info := latest.Find("div").First()
	spans := info.Find("span")
	if spans.Length() < 2 {
		return manga.Manga{}, manga.ChapterNotFound("chapter info block is incomplete")
	}
	chapterTitle := strings.TrimSpace(spans.Eq(0).Text())
	rawDate := strings.TrimSpace(spans.Eq(1).Text())

	releaseDate, err := time.ParseInLocation("2006/01/02", rawDate, manga.JST)
	if err != nil {
		return manga.Manga{}, manga.ChapterNotFound("error parsing date " + rawDate)
	}

	return manga.Manga{
		Title:                    title.Text(),
		CoverURL:                 "https://urasunday.com" + cover,
		Author:                   strings.TrimSpace(author.Text()),
		LatestChapterTitle:       chapterTitle,
		LatestChapterURL:         "https://urasunday.com" + chapterURL,
		LatestChapterReleaseDate: releaseDate,
		LatestChapterPublishDay:  manga.PublishDay(releaseDate),
	}, nil
}

func (f *Fetcher) fetchUrasunday(ctx context.Context, externalID string) (manga.Manga, error) {
	body, err := f.getDocument(ctx, manga.SourceUrasunday, manga.SourceUrasunday.PageURL(externalID))
	if err != nil {
		return manga.Manga{}, err
	}
	return parseUrasunday(body)
}
