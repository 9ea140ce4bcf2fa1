package fetch

import (
	"bytes"
	"context"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"mangatracker/internal/manga"
)

// Mecha Comic paginates its chapter list, so fetching the latest chapter
// takes two round trips: the landing page advertises the latest chapter
// number, then the list is requested positioned on that chapter.

func latestMechaComicChapterNumber(body []byte) (string, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return "", manga.PageNotFound("unparseable document: " + err.Error())
	}

	// The banner reads like "最新１２３話へ" inside an inline-block span.
	var number string
	doc.Find(`div.u-inlineBlock > span`).EachWithBreak(func(_ int, s *goquery.Selection) bool {
		text := strings.TrimSpace(s.Text())
		if !strings.HasSuffix(text, "話へ") {
			return true
		}
		text = strings.TrimSuffix(text, "話へ")
		if i := strings.LastIndex(text, "／"); i >= 0 {
			text = text[i+len("／"):]
		}
		number = strings.TrimSpace(text)
		return false
	})
	if number == "" {
		return "", manga.ChapterNotFound("latest chapter number not found")
	}
	return number, nil
}

func parseMechaComic(body []byte) (manga.Manga, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return manga.Manga{}, manga.PageNotFound("unparseable document: " + err.Error())
	}

	title := doc.Find(`h1.p-bookInfo_title`).First()
	if title.Length() == 0 {
		return manga.Manga{}, manga.PageNotFound("title not found")
	}
	author := doc.Find(`div.p-bookInfo_author a`).First()
	if author.Length() == 0 {
		return manga.Manga{}, manga.PageNotFound("author not found")
	}

	latest := doc.Find(`li.p-chapterList_item`).First()
	if latest.Length() == 0 {
		return manga.Manga{}, manga.ChapterNotFound("zero result from chapter selector")
	}

	chapterTitle := latest.Find(`div.p-chapterList_title`).First()
	if chapterTitle.Length() == 0 {
		return manga.Manga{}, manga.ChapterNotFound("chapter title not found")
	}
	cover, ok := latest.Find("img").First().Attr("src")
	if !ok {
		return manga.Manga{}, manga.ChapterNotFound("cover not found")
	}
	chapterURL, ok := latest.Find("a").First().Attr("href")
	if !ok {
		return manga.Manga{}, manga.ChapterNotFound("chapter url not found")
	}

	// No release timestamp on the page.
	releaseDate := nowJST()

	return manga.Manga{
		Title:                    strings.TrimSpace(title.Text()),
		CoverURL:                 cover,
		Author:                   strings.TrimSpace(author.Text()),
		LatestChapterTitle:       strings.TrimSpace(chapterTitle.Text()),
		LatestChapterURL:         "https://mechacomic.jp" + chapterURL,
		LatestChapterReleaseDate: releaseDate,
		LatestChapterPublishDay:  manga.PublishDay(releaseDate),
	}, nil
}

func (f *Fetcher) fetchMechaComic(ctx context.Context, externalID string) (manga.Manga, error) {
	pageURL := manga.SourceMechaComic.PageURL(externalID)

	landing, err := f.getDocument(ctx, manga.SourceMechaComic, pageURL)
	if err != nil {
		return manga.Manga{}, err
	}
	number, err := latestMechaComicChapterNumber(landing)
	if err != nil {
		return manga.Manga{}, err
	}

	body, err := f.getDocument(ctx, manga.SourceMechaComic, pageURL+"?chapter_number="+number)
	if err != nil {
		return manga.Manga{}, err
	}
	return parseMechaComic(body)
}
