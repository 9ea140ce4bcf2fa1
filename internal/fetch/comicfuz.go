package fetch

import (
	"bytes"
	"context"
	"encoding/json"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"mangatracker/internal/manga"
)

// Comic Fuz renders through Next.js; the payload we need is the JSON blob
// inside the __NEXT_DATA__ script block.

type comicFuzData struct {
	Props struct {
		PageProps struct {
			Chapters []struct {
				Chapters []comicFuzChapter `json:"chapters"`
			} `json:"chapters"`
			Authorships []struct {
				Author struct {
					AuthorName string `json:"authorName"`
				} `json:"author"`
			} `json:"authorships"`
			Manga struct {
				MangaName string `json:"mangaName"`
			} `json:"manga"`
		} `json:"pageProps"`
	} `json:"props"`
}

type comicFuzChapter struct {
	ChapterID       int64  `json:"chapterId"`
	ChapterMainName string `json:"chapterMainName"`
	ThumbnailURL    string `json:"thumbnailUrl"`
	UpdatedDate     string `json:"updatedDate"` // "2006/01/02", sometimes absent
}

// nextData extracts the __NEXT_DATA__ payload from a rendered document.
func nextData(body []byte) ([]byte, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, manga.PageNotFound("unparseable document: " + err.Error())
	}

	script := doc.Find(`script#__NEXT_DATA__`).First()
	if script.Length() == 0 {
		return nil, manga.PageNotFound("__NEXT_DATA__ not found")
	}
	return []byte(script.Text()), nil
}

func parseComicFuz(body []byte) (manga.Manga, error) {
	payload, err := nextData(body)
	if err != nil {
		return manga.Manga{}, err
	}

	var data comicFuzData
	if err := json.Unmarshal(payload, &data); err != nil {
		return manga.Manga{}, manga.JSONError(err)
	}
	props := data.Props.PageProps

	if len(props.Chapters) == 0 || len(props.Chapters[0].Chapters) == 0 {
		return manga.Manga{}, manga.ChapterNotFound("chapters is empty")
	}
	latest := props.Chapters[0].Chapters[0]

	names := make([]string, 0, len(props.Authorships))
	for _, a := range props.Authorships {
		names = append(names, a.Author.AuthorName)
	}

	releaseDate := nowJST()
	if latest.UpdatedDate != "" {
		d, err := time.ParseInLocation("2006/01/02", latest.UpdatedDate, manga.JST)
		if err != nil {
			return manga.Manga{}, manga.ChapterNotFound("bad updated date " + latest.UpdatedDate)
		}
		releaseDate = d
	}

	return manga.Manga{
		Title:                    props.Manga.MangaName,
		CoverURL:                 "https://img.comic-fuz.com" + latest.ThumbnailURL,
		Author:                   strings.Join(names, ","),
		LatestChapterTitle:       latest.ChapterMainName,
		LatestChapterURL:         "https://comic-fuz.com/manga/viewer/" + strconv.FormatInt(latest.ChapterID, 10),
		LatestChapterReleaseDate: releaseDate,
		LatestChapterPublishDay:  manga.PublishDay(releaseDate),
	}, nil
}

func (f *Fetcher) fetchComicFuz(ctx context.Context, externalID string) (manga.Manga, error) {
	body, err := f.getDocument(ctx, manga.SourceComicFuz, manga.SourceComicFuz.PageURL(externalID))
	if err != nil {
		return manga.Manga{}, err
	}
	return parseComicFuz(body)
}
