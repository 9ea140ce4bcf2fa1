package fetch

import (
	"bytes"
	"context"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"mangatracker/internal/manga"
)

func parseGammaPlus(body []byte) (manga.Manga, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return manga.Manga{}, manga.PageNotFound("unparseable document: " + err.Error())
	}

	// The title block holds the series name and the author on two lines.
	heading := doc.Find(`ul.manga__title`).First().Children()
	if heading.Length() < 2 {
		return manga.Manga{}, manga.PageNotFound("title block not found")
	}
	title := strings.TrimSpace(heading.Eq(0).Text())
	author := strings.TrimSpace(heading.Eq(1).Text())

	var latest *goquery.Selection
	doc.Find(`div.read__outer > a`).EachWithBreak(func(_ int, s *goquery.Selection) bool {
		// The first anchor is a "back to list" link pointing at #comics.
		if href, _ := s.Attr("href"); href == "#comics" {
			return true
		}
		latest = s
		return false
	})
	if latest == nil {
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

	chapterTitle := strings.TrimSpace(latest.Find(`div.read__episode`).First().Text())
	if chapterTitle == "" {
		return manga.Manga{}, manga.ChapterNotFound("chapter title not found")
	}

	releaseDate := nowJST()
	if raw := strings.TrimSpace(latest.Find(`div.read__date`).First().Text()); raw != "" {
		d, err := time.ParseInLocation("2006年01月02日", raw, manga.JST)
		if err == nil {
			releaseDate = d
		}
	}

	return manga.Manga{
		Title:                    title,
		CoverURL:                 strings.Replace(cover, "../", "https://gammaplus.takeshobo.co.jp/", 1),
		Author:                   author,
		LatestChapterTitle:       chapterTitle,
		LatestChapterURL:         strings.Replace(chapterURL, "../", "https://gammaplus.takeshobo.co.jp/", 1),
		LatestChapterReleaseDate: releaseDate,
		LatestChapterPublishDay:  manga.PublishDay(releaseDate),
	}, nil
}

func (f *Fetcher) fetchGammaPlus(ctx context.Context, externalID string) (manga.Manga, error) {
	body, err := f.getDocument(ctx, manga.SourceGammaPlus, manga.SourceGammaPlus.PageURL(externalID))
	if err != nil {
		return manga.Manga{}, err
	}
	return parseGammaPlus(body)
}
