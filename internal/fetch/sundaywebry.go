package fetch

import (
	"bytes"
	"context"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"mangatracker/internal/manga"
)

// Sunday Webry renders its chapter list client-side, so the page is loaded
// through a real browser and the adapter parses the settled DOM.

func parseSundayWebry(body []byte) (manga.Manga, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return manga.Manga{}, manga.PageNotFound("unparseable document: " + err.Error())
	}

	title := doc.Find(`h1.title-header-title`).First()
	if title.Length() == 0 {
		return manga.Manga{}, manga.PageNotFound("title not found")
	}
	author := doc.Find(`div.title-header-author`).First()
	if author.Length() == 0 {
		return manga.Manga{}, manga.PageNotFound("author not found")
	}

	latest := doc.Find(`li.episode-list-item`).First()
	if latest.Length() == 0 {
		return manga.Manga{}, manga.ChapterNotFound("zero result from chapter selector")
	}

	cover, ok := latest.Find("img").First().Attr("src")
	if !ok {
		return manga.Manga{}, manga.ChapterNotFound("cover not found")
	}
	chapterTitle := latest.Find(`h4.episode-list-item-title`).First()
	if chapterTitle.Length() == 0 {
		return manga.Manga{}, manga.ChapterNotFound("chapter title not found")
	}
	chapterURL, ok := latest.Find("a").First().Attr("href")
	if !ok {
		return manga.Manga{}, manga.ChapterNotFound("chapter url not found")
	}
	if !strings.HasPrefix(chapterURL, "http") {
		chapterURL = "https://www.sunday-webry.com" + chapterURL
	}

	// No release timestamp on the page.
	releaseDate := nowJST()

	return manga.Manga{
		Title:                    strings.TrimSpace(title.Text()),
		CoverURL:                 cover,
		Author:                   strings.TrimSpace(author.Text()),
		LatestChapterTitle:       strings.TrimSpace(chapterTitle.Text()),
		LatestChapterURL:         chapterURL,
		LatestChapterReleaseDate: releaseDate,
		LatestChapterPublishDay:  manga.PublishDay(releaseDate),
	}, nil
}

func (f *Fetcher) fetchSundayWebry(ctx context.Context, externalID string) (manga.Manga, error) {
	session, err := dialBrowser(ctx, f.browserURL)
	if err != nil {
		return manga.Manga{}, manga.SessionError(err)
	}
	defer func() { _ = session.Close() }()

	if err := session.Navigate(ctx, manga.SourceSundayWebry.PageURL(externalID)); err != nil {
		return manga.Manga{}, manga.CommandError(err)
	}
	source, err := session.PageSource(ctx)
	if err != nil {
		return manga.Manga{}, manga.CommandError(err)
	}

	return parseSundayWebry([]byte(source))
}
