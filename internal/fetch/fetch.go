// Package fetch normalizes every upstream publisher format into the
// canonical manga record. One adapter per source; dispatch is a pure
// function of the source.
package fetch

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"mangatracker/internal/browser"
	"mangatracker/internal/manga"
)

const userAgent = "MangaTracker/1.0"

const (
	fetchTimeout   = 30 * time.Second
	browserTimeout = 60 * time.Second

	emptyBodyAttempts = 3
)

// emptyBodyDelay is a variable so tests don't wait out the real backoff.
var emptyBodyDelay = 2 * time.Second

// nowJST is the default-release-date policy for adapters whose upstream
// carries no timestamp.
var nowJST = manga.NowInJapan

type adapterFunc func(ctx context.Context, externalID string) (manga.Manga, error)

type browserSession interface {
	Navigate(ctx context.Context, url string) error
	PageSource(ctx context.Context) (string, error)
	Close() error
}

var dialBrowser = func(ctx context.Context, controlURL string) (browserSession, error) {
	return browser.NewSession(ctx, controlURL)
}

// Fetcher resolves (source, external id) pairs to canonical records.
type Fetcher struct {
	client     *http.Client
	browserURL string
	adapters   map[manga.Source]adapterFunc
}

// New creates a Fetcher. browserURL is the DevTools endpoint used by the
// browser-driven source; it may be empty when that source is not tracked.
func New(browserURL string) *Fetcher {
	f := &Fetcher{
		client: &http.Client{
			Timeout: fetchTimeout,
		},
		browserURL: browserURL,
	}
	f.adapters = f.buildRegistry()
	return f
}

func (f *Fetcher) buildRegistry() map[manga.Source]adapterFunc {
	reg := make(map[manga.Source]adapterFunc, len(manga.All()))

	for _, src := range manga.All() {
		src := src
		switch src.Strategy() {
		case manga.StrategyRSS:
			reg[src] = func(ctx context.Context, id string) (manga.Manga, error) {
				return f.fetchGenericRSS(ctx, src, id)
			}
		case manga.StrategyCDATARSS:
			reg[src] = func(ctx context.Context, id string) (manga.Manga, error) {
				return f.fetchCDATARSS(ctx, src, id)
			}
		}
	}

	reg[manga.SourceComicPixiv] = f.fetchComicPixiv
	reg[manga.SourceComicWalker] = f.fetchComicWalker
	reg[manga.SourceIchijinPlus] = f.fetchIchijinPlus
	reg[manga.SourceComicFuz] = f.fetchComicFuz
	reg[manga.SourceGanganOnline] = f.fetchGanganOnline
	reg[manga.SourceMangaUp] = f.fetchMangaUp
	reg[manga.SourceYanmaga] = f.fetchYanmaga
	reg[manga.SourceUrasunday] = f.fetchUrasunday
	reg[manga.SourceGammaPlus] = f.fetchGammaPlus
	reg[manga.SourceGanma] = f.fetchGanma
	reg[manga.SourceMechaComic] = f.fetchMechaComic
	reg[manga.SourceSundayWebry] = f.fetchSundayWebry

	return reg
}

// Fetch runs the matching adapter and applies the cross-cutting title
// cleanup on success. The per-call timeout bounds adapters that would
// otherwise stall the whole run on a dead upstream.
func (f *Fetcher) Fetch(ctx context.Context, source manga.Source, externalID string) (manga.Manga, error) {
	adapter, ok := f.adapters[source]
	if !ok {
		return manga.Manga{}, manga.PageNotFound(fmt.Sprintf("unknown source %q", source))
	}

	timeout := fetchTimeout
	if source.Strategy() == manga.StrategyBrowser {
		timeout = browserTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	m, err := adapter(ctx, externalID)
	if err != nil {
		return manga.Manga{}, err
	}

	m.Title = source.CleanTitle(m.Title)
	return m, nil
}

// get issues one GET and returns the body, classifying failures as
// transport errors. Non-2xx statuses are transport failures too.
func (f *Fetcher) get(ctx context.Context, url string, header http.Header) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, manga.TransportError(err)
	}
	req.Header.Set("User-Agent", userAgent)
	for k, vals := range header {
		for _, v := range vals {
			req.Header.Set(k, v)
		}
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, manga.TransportError(err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, manga.TransportError(fmt.Errorf("GET %s: status %d", url, resp.StatusCode))
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, manga.TransportError(err)
	}
	return body, nil
}

// getDocument fetches the primary document for a source, retrying a bounded
// number of times when the source is known to intermittently answer with an
// empty body.
func (f *Fetcher) getDocument(ctx context.Context, source manga.Source, url string) ([]byte, error) {
	attempts := 1
	if source.RetryOnEmpty() {
		attempts = emptyBodyAttempts
	}

	var body []byte
	var err error
	for i := 0; i < attempts; i++ {
		if i > 0 {
			select {
			case <-ctx.Done():
				return nil, manga.TransportError(ctx.Err())
			case <-time.After(emptyBodyDelay):
			}
		}

		body, err = f.get(ctx, url, nil)
		if err != nil {
			return nil, err
		}
		if len(body) > 0 {
			return body, nil
		}
	}

	return nil, manga.PageNotFound(fmt.Sprintf("empty document from %s after %d attempts", url, attempts))
}

// getJSON fetches and decodes a JSON endpoint into out.
func (f *Fetcher) getJSON(ctx context.Context, url string, header http.Header, out interface{}) error {
	body, err := f.get(ctx, url, header)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(body, out); err != nil {
		return manga.JSONError(err)
	}
	return nil
}
