package fetch

import (
	"context"
	"encoding/json"
	"fmt"

	"mangatracker/internal/manga"
)

type ganganOnlineData struct {
	Props struct {
		PageProps struct {
			Data struct {
				Default struct {
					Chapters  []ganganChapter `json:"chapters"`
					TitleName string          `json:"titleName"`
					ImageURL  string          `json:"imageUrl"`
					Author    string          `json:"author"`
					TitleID   int64           `json:"titleId"`
				} `json:"default"`
			} `json:"data"`
		} `json:"pageProps"`
	} `json:"props"`
}

type ganganChapter struct {
	ID           int64  `json:"id"`
	ThumbnailURL string `json:"thumbnailUrl"`
	MainText     string `json:"mainText"`
	SubText      string `json:"subText"`
}

func parseGanganOnline(body []byte) (manga.Manga, error) {
	payload, err := nextData(body)
	if err != nil {
		return manga.Manga{}, err
	}

	var data ganganOnlineData
	if err := json.Unmarshal(payload, &data); err != nil {
		return manga.Manga{}, manga.JSONError(err)
	}
	def := data.Props.PageProps.Data.Default

	if len(def.Chapters) == 0 {
		return manga.Manga{}, manga.ChapterNotFound("chapters is empty")
	}
	latest := def.Chapters[0]

	// The chapter name proper lives in subText; mainText is the numbering.
	chapterTitle := latest.MainText
	if latest.SubText != "" {
		chapterTitle = latest.SubText
	}

	// No release timestamp on the page.
	releaseDate := nowJST()

	return manga.Manga{
		Title:                    def.TitleName,
		CoverURL:                 "https://www.ganganonline.com" + latest.ThumbnailURL,
		Author:                   def.Author,
		LatestChapterTitle:       chapterTitle,
		LatestChapterURL:         fmt.Sprintf("https://www.ganganonline.com/title/%d/chapter/%d", def.TitleID, latest.ID),
		LatestChapterReleaseDate: releaseDate,
		LatestChapterPublishDay:  manga.PublishDay(releaseDate),
	}, nil
}

func (f *Fetcher) fetchGanganOnline(ctx context.Context, externalID string) (manga.Manga, error) {
	body, err := f.getDocument(ctx, manga.SourceGanganOnline, manga.SourceGanganOnline.PageURL(externalID))
	if err != nil {
		return manga.Manga{}, err
	}
	return parseGanganOnline(body)
}
