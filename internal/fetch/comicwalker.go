package fetch

import (
	"context"
	"fmt"
	"strings"
	"time"

	"mangatracker/internal/manga"
)

type comicWalkerData struct {
	Work struct {
		Title             string `json:"title"`
		OriginalThumbnail string `json:"originalThumbnail"`
		Authors           []struct {
			Name string `json:"name"`
			Role string `json:"role"`
		} `json:"authors"`
	} `json:"work"`
	LatestEpisodes struct {
		Total  int                 `json:"total"`
		Result []comicWalkerResult `json:"result"`
	} `json:"latestEpisodes"`
}

type comicWalkerResult struct {
	ID                string    `json:"id"`
	Code              string    `json:"code"`
	Title             string    `json:"title"`
	OriginalThumbnail string    `json:"originalThumbnail"`
	UpdateDate        time.Time `json:"updateDate"`
}

func (f *Fetcher) fetchComicWalker(ctx context.Context, externalID string) (manga.Manga, error) {
	var data comicWalkerData
	if err := f.getJSON(ctx, manga.SourceComicWalker.PageURL(externalID), nil, &data); err != nil {
		return manga.Manga{}, err
	}

	if len(data.LatestEpisodes.Result) == 0 {
		return manga.Manga{}, manga.ChapterNotFound("episodes is empty")
	}
	latest := data.LatestEpisodes.Result[0]

	names := make([]string, 0, len(data.Work.Authors))
	for _, a := range data.Work.Authors {
		names = append(names, a.Name)
	}

	cover := latest.OriginalThumbnail
	if cover == "" {
		cover = data.Work.OriginalThumbnail
	}

	releaseDate := latest.UpdateDate.In(manga.JST)

	return manga.Manga{
		Title:                    data.Work.Title,
		CoverURL:                 cover,
		Author:                   strings.Join(names, ","),
		LatestChapterTitle:       latest.Title,
		LatestChapterURL:         fmt.Sprintf("https://comic-walker.com/detail/%s/episodes/%s", externalID, latest.Code),
		LatestChapterReleaseDate: releaseDate,
		LatestChapterPublishDay:  manga.PublishDay(releaseDate),
	}, nil
}
