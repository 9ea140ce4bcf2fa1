package fetch

import (
	"bytes"
	"context"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"mangatracker/internal/manga"
)

func parseYanmaga(body []byte) (manga.Manga, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return manga.Manga{}, manga.PageNotFound("unparseable document: " + err.Error())
	}

	title := doc.Find(`h1.detailv2-outline-title`).First()
	if title.Length() == 0 {
		return manga.Manga{}, manga.PageNotFound("title not found")
	}
	author := doc.Find(`li.detailv2-outline-author-item > a > h2`).First()
	if author.Length() == 0 {
		return manga.Manga{}, manga.PageNotFound("author not found")
	}

	latest := doc.Find(`li.mod-episode-item`).First()
	if latest.Length() == 0 {
		return manga.Manga{}, manga.ChapterNotFound("zero result from chapter selector")
	}

	cover, ok := latest.Find(`div.mod-episode-thumbnail-image > img`).First().Attr("src")
	if !ok {
		return manga.Manga{}, manga.ChapterNotFound("cover not found")
	}

	// Unreleased chapters render a before-publication block whose first
	// child is the title and second the date.
	if pending := latest.Find(`p[class*="mod-episode-date-before-publication"]`).First(); pending.Length() > 0 {
		children := pending.Children()
		if children.Length() < 2 {
			return manga.Manga{}, manga.ChapterNotFound("before-publication block is incomplete")
		}

		chapterTitle := children.Eq(0).Text()
		rawDate := children.Eq(1).Text()
		// The date reads like "2025/03/08(土)".
		dateOnly := strings.SplitN(rawDate, "(", 2)[0]
		releaseDate, err := time.ParseInLocation("2006/01/02", strings.TrimSpace(dateOnly), manga.JST)
		if err != nil {
			return manga.Manga{}, manga.ChapterNotFound("error parsing date " + rawDate)
		}

		return manga.Manga{
			Title:                    title.Text(),
			CoverURL:                 cover,
			Author:                   author.Text(),
			LatestChapterTitle:       chapterTitle,
			LatestChapterURL:         "",
			LatestChapterReleaseDate: releaseDate,
			LatestChapterPublishDay:  manga.PublishDay(releaseDate),
		}, nil
	}

	chapterTitle := latest.Find(`p.mod-episode-title`).First()
	if chapterTitle.Length() == 0 {
		return manga.Manga{}, manga.ChapterNotFound("chapter title not found")
	}

	rawDate := latest.Find(`time.mod-episode-date`).First()
	if rawDate.Length() == 0 {
		return manga.Manga{}, manga.ChapterNotFound("release date not found")
	}
	releaseDate, err := time.ParseInLocation("2006/01/02", strings.TrimSpace(rawDate.Text()), manga.JST)
	if err != nil {
		return manga.Manga{}, manga.ChapterNotFound("error parsing date " + rawDate.Text())
	}

	chapterURL, ok := latest.Find(`a[class^="mod-episode-link"]`).First().Attr("href")
	if !ok {
		return manga.Manga{}, manga.ChapterNotFound("chapter url not found")
	}

	return manga.Manga{
		Title:                    title.Text(),
		CoverURL:                 cover,
		Author:                   author.Text(),
		LatestChapterTitle:       chapterTitle.Text(),
		LatestChapterURL:         "https://yanmaga.jp" + chapterURL,
		LatestChapterReleaseDate: releaseDate,
		LatestChapterPublishDay:  manga.PublishDay(releaseDate),
	}, nil
}

func (f *Fetcher) fetchYanmaga(ctx context.Context, externalID string) (manga.Manga, error) {
	body, err := f.getDocument(ctx, manga.SourceYanmaga, manga.SourceYanmaga.PageURL(externalID))
	if err != nil {
		return manga.Manga{}, err
	}
	return parseYanmaga(body)
}
