package fetch

import (
	"context"
	"net/http"
	"strings"
	"time"

	"mangatracker/internal/manga"
)

// The Ichijin Plus API wants an environment key header on every request.
const ichijinEnvironmentKey = "GGXGejnSsZw-IxHKQp8OQKHH-NDItSbEq5PU0g2w1W4="

type ichijinPlusData struct {
	Title   string `json:"title"`
	Authors []struct {
		Name string `json:"name"`
		Role string `json:"role"`
	} `json:"authors"`
	LatestEpisode struct {
		ID                string    `json:"id"`
		Title             string    `json:"title"`
		PublishedAt       time.Time `json:"published_at"`
		ThumbnailImageURL string    `json:"thumbnail_image_url"`
	} `json:"latest_episode"`
}

func (f *Fetcher) fetchIchijinPlus(ctx context.Context, externalID string) (manga.Manga, error) {
	header := http.Header{"x-api-environment-key": []string{ichijinEnvironmentKey}}

	var data ichijinPlusData
	if err := f.getJSON(ctx, manga.SourceIchijinPlus.PageURL(externalID), header, &data); err != nil {
		return manga.Manga{}, err
	}

	if data.LatestEpisode.ID == "" {
		return manga.Manga{}, manga.ChapterNotFound("latest_episode is empty")
	}

	names := make([]string, 0, len(data.Authors))
	for _, a := range data.Authors {
		names = append(names, a.Name)
	}

	releaseDate := data.LatestEpisode.PublishedAt.In(manga.JST)

	return manga.Manga{
		Title:                    data.Title,
		CoverURL:                 data.LatestEpisode.ThumbnailImageURL,
		Author:                   strings.Join(names, ","),
		LatestChapterTitle:       data.LatestEpisode.Title,
		LatestChapterURL:         "https://ichijin-plus.com/episodes/" + data.LatestEpisode.ID,
		LatestChapterReleaseDate: releaseDate,
		LatestChapterPublishDay:  manga.PublishDay(releaseDate),
	}, nil
}
