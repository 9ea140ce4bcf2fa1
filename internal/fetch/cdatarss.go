package fetch

import (
	"bytes"
	"context"
	"encoding/xml"
	"strings"

	"mangatracker/internal/manga"
)

// The CDATA feeds wrap every value in <![CDATA[...]]> and use a
// media:thumbnail element that carries the URL either as inline text or as
// a url attribute depending on the site.
type cdataDocument struct {
	Channel cdataChannel `xml:"channel"`
}

type cdataChannel struct {
	Title string      `xml:"title"`
	Items []cdataItem `xml:"item"`
}

type cdataItem struct {
	Title     string         `xml:"title"`
	Link      string         `xml:"link"`
	PubDate   string         `xml:"pubDate"`
	Creator   string         `xml:"creator"` // dc:creator; absent on some sites
	Thumbnail cdataThumbnail `xml:"thumbnail"`
}

type cdataThumbnail struct {
	Inline string `xml:",chardata"`
	URL    string `xml:"url,attr"`
}

// coverURL prefers the inline text, falls back to the url attribute and
// defaults to empty. A missing thumbnail is tolerated, not an error.
func (t cdataThumbnail) coverURL() string {
	if inline := strings.TrimSpace(t.Inline); inline != "" {
		return inline
	}
	return t.URL
}

func parseCDATARSS(body []byte) (manga.Manga, error) {
	// Strip the CDATA markers up front so chardata decoding sees plain text.
	stripped := bytes.ReplaceAll(body, []byte("<![CDATA["), nil)
	stripped = bytes.ReplaceAll(stripped, []byte("]]>"), nil)

	var doc cdataDocument
	if err := xml.Unmarshal(stripped, &doc); err != nil {
		return manga.Manga{}, manga.FeedError(err.Error(), err)
	}

	if len(doc.Channel.Items) == 0 {
		return manga.Manga{}, manga.ChapterNotFound("feed has no items")
	}
	latest := doc.Channel.Items[0]

	releaseDate, err := parseRFC2822(strings.TrimSpace(latest.PubDate))
	if err != nil {
		return manga.Manga{}, manga.FeedError("bad pubDate "+latest.PubDate, err)
	}

	return manga.Manga{
		Title:                    strings.TrimSpace(doc.Channel.Title),
		CoverURL:                 latest.Thumbnail.coverURL(),
		Author:                   strings.TrimSpace(latest.Creator),
		LatestChapterTitle:       strings.TrimSpace(latest.Title),
		LatestChapterURL:         strings.TrimSpace(latest.Link),
		LatestChapterReleaseDate: releaseDate,
		LatestChapterPublishDay:  manga.PublishDay(releaseDate),
	}, nil
}

func (f *Fetcher) fetchCDATARSS(ctx context.Context, source manga.Source, externalID string) (manga.Manga, error) {
	body, err := f.getDocument(ctx, source, source.PageURL(externalID))
	if err != nil {
		return manga.Manga{}, err
	}
	return parseCDATARSS(body)
}
