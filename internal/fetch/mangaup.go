package fetch

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"mangatracker/internal/manga"
)

// Manga UP! ships its chapter list inside a minified RSC bundle; the blob
// is located by a regular-expression match and unescaped before decoding.
var mangaUpChapterRe = regexp.MustCompile(`\{\\"titleName\\.*currentChapter.*\],\[\\"\$\\",\\"\$L6f`)

type mangaUpData struct {
	TitleName string `json:"titleName"`
	TitleID   int64  `json:"titleId"`
	Chapters  []struct {
		ID           int64  `json:"id"`
		Name         string `json:"name"`
		SubName      string `json:"subName"`
		URLThumbnail string `json:"urlThumbnail"`
	} `json:"chapters"`
}

func parseMangaUp(body []byte) (manga.Manga, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return manga.Manga{}, manga.PageNotFound("unparseable document: " + err.Error())
	}

	title := doc.Find(`h2[class*="pc:text-title-lg-pc"]`).First()
	if title.Length() == 0 {
		return manga.Manga{}, manga.PageNotFound("title not found")
	}
	author := doc.Find(`div[class="text-on_background_medium sp:text-body-md-sp pc:text-body-md-pc"]`).First()
	if author.Length() == 0 {
		return manga.Manga{}, manga.PageNotFound("author not found")
	}

	match := mangaUpChapterRe.Find(body)
	if match == nil {
		return manga.Manga{}, manga.PageNotFound("chapter data marker not found")
	}

	raw := strings.Replace(string(match), `],[\"$\",\"$L6f`, "", 1)
	raw = strings.ReplaceAll(raw, `\`, "")

	var data mangaUpData
	if err := json.Unmarshal([]byte(raw), &data); err != nil {
		return manga.Manga{}, manga.JSONError(err)
	}

	if len(data.Chapters) == 0 {
		return manga.Manga{}, manga.ChapterNotFound("chapters is empty")
	}
	// The bundle lists chapters oldest first.
	latest := data.Chapters[len(data.Chapters)-1]

	releaseDate := nowJST()

	return manga.Manga{
		Title:                    title.Text(),
		CoverURL:                 latest.URLThumbnail,
		Author:                   author.Text(),
		LatestChapterTitle:       strings.TrimSpace(latest.SubName + " " + latest.Name),
		LatestChapterURL:         fmt.Sprintf("https://www.manga-up.com/titles/%d/chapters/%d", data.TitleID, latest.ID),
		LatestChapterReleaseDate: releaseDate,
		LatestChapterPublishDay:  manga.PublishDay(releaseDate),
	}, nil
}

func (f *Fetcher) fetchMangaUp(ctx context.Context, externalID string) (manga.Manga, error) {
	body, err := f.getDocument(ctx, manga.SourceMangaUp, manga.SourceMangaUp.PageURL(externalID))
	if err != nil {
		return manga.Manga{}, err
	}
	return parseMangaUp(body)
}
