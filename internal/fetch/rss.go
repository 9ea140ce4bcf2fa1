package fetch

import (
	"context"
	"encoding/xml"
	"time"

	"mangatracker/internal/manga"
)

// rssDocument models the GigaViewer-style series feed. The first item is
// the latest chapter.
type rssDocument struct {
	Channel rssChannel `xml:"channel"`
}

type rssChannel struct {
	Title string    `xml:"title"`
	Items []rssItem `xml:"item"`
}

type rssItem struct {
	Title     string       `xml:"title"`
	Link      string       `xml:"link"`
	PubDate   string       `xml:"pubDate"`
	Author    string       `xml:"author"`
	Enclosure rssEnclosure `xml:"enclosure"`
}

type rssEnclosure struct {
	URL string `xml:"url,attr"`
}

// parseRFC2822 parses the pubDate formats seen across the feeds.
func parseRFC2822(value string) (time.Time, error) {
	t, err := time.Parse(time.RFC1123Z, value)
	if err == nil {
		return t, nil
	}
	return time.Parse(time.RFC1123, value)
}

func parseGenericRSS(body []byte) (manga.Manga, error) {
	var doc rssDocument
	if err := xml.Unmarshal(body, &doc); err != nil {
		return manga.Manga{}, manga.FeedError(err.Error(), err)
	}

	if len(doc.Channel.Items) == 0 {
		return manga.Manga{}, manga.ChapterNotFound("feed has no items")
	}
	latest := doc.Channel.Items[0]

	releaseDate, err := parseRFC2822(latest.PubDate)
	if err != nil {
		return manga.Manga{}, manga.FeedError("bad pubDate "+latest.PubDate, err)
	}

	return manga.Manga{
		Title:                    doc.Channel.Title,
		CoverURL:                 latest.Enclosure.URL,
		Author:                   latest.Author,
		LatestChapterTitle:       latest.Title,
		LatestChapterURL:         latest.Link,
		LatestChapterReleaseDate: releaseDate,
		LatestChapterPublishDay:  manga.PublishDay(releaseDate),
	}, nil
}

func (f *Fetcher) fetchGenericRSS(ctx context.Context, source manga.Source, externalID string) (manga.Manga, error) {
	body, err := f.getDocument(ctx, source, source.PageURL(externalID))
	if err != nil {
		return manga.Manga{}, err
	}
	return parseGenericRSS(body)
}
