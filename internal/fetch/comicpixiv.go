package fetch

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"mangatracker/internal/manga"
)

// Comic Pixiv exposes two JSON endpoints: work metadata and the episode
// list (newest first). Both require the x-requested-with header.

type pixivMetadata struct {
	Data struct {
		OfficialWork struct {
			ID     int64  `json:"id"`
			Name   string `json:"name"`
			Author string `json:"author"`
		} `json:"official_work"`
	} `json:"data"`
}

type pixivDetail struct {
	Data struct {
		Episodes []pixivEpisode `json:"episodes"`
	} `json:"data"`
}

type pixivEpisode struct {
	State   string `json:"state"`
	Episode *struct {
		ID                int64  `json:"id"`
		NumberingTitle    string `json:"numbering_title"`
		SubTitle          string `json:"sub_title"`
		ReadStartAt       int64  `json:"read_start_at"` // epoch millis
		ThumbnailImageURL string `json:"thumbnail_image_url"`
		ViewerPath        string `json:"viewer_path"`
	} `json:"episode"`
}

func (f *Fetcher) fetchComicPixiv(ctx context.Context, externalID string) (manga.Manga, error) {
	header := http.Header{"x-requested-with": []string{"pixivcomic"}}

	var meta pixivMetadata
	if err := f.getJSON(ctx, manga.SourceComicPixiv.PageURL(externalID), header, &meta); err != nil {
		return manga.Manga{}, err
	}

	var detail pixivDetail
	detailURL := fmt.Sprintf("https://comic.pixiv.net/api/app/works/%s/episodes/v2?order=desc", externalID)
	if err := f.getJSON(ctx, detailURL, header, &detail); err != nil {
		return manga.Manga{}, err
	}

	if len(detail.Data.Episodes) == 0 {
		return manga.Manga{}, manga.ChapterNotFound("episodes is empty")
	}

	// Unpublished episodes lead the list while a chapter is teased.
	var latest *pixivEpisode
	for i := range detail.Data.Episodes {
		ep := &detail.Data.Episodes[i]
		if ep.State != "not_publishing" && ep.Episode != nil {
			latest = ep
			break
		}
	}
	if latest == nil {
		return manga.Manga{}, manga.ChapterNotFound("no published episode")
	}

	releaseDate := time.UnixMilli(latest.Episode.ReadStartAt).In(manga.JST)

	return manga.Manga{
		Title:                    meta.Data.OfficialWork.Name,
		CoverURL:                 latest.Episode.ThumbnailImageURL,
		Author:                   meta.Data.OfficialWork.Author,
		LatestChapterTitle:       latest.Episode.NumberingTitle,
		LatestChapterURL:         "https://comic.pixiv.net" + latest.Episode.ViewerPath,
		LatestChapterReleaseDate: releaseDate,
		LatestChapterPublishDay:  manga.PublishDay(releaseDate),
	}, nil
}
