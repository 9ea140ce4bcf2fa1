package fetch

import (
	"context"
	"errors"
	"testing"

	"mangatracker/internal/manga"
)

const sundayWebryPage = `<html><body>
<h1 class="title-header-title">フリーレン</h1>
<div class="title-header-author">山田鐘人 / アベツカサ</div>
<ul>
<li class="episode-list-item">
<a href="/episode/300">
<img src="https://cdn.example.com/300.jpg">
<h4 class="episode-list-item-title">第130話</h4>
</a>
</li>
</ul>
</body></html>`

type fakeBrowserSession struct {
	html        string
	navigateErr error
	sourceErr   error
	navigated   string
	closed      bool
}

func (s *fakeBrowserSession) Navigate(ctx context.Context, url string) error {
	s.navigated = url
	return s.navigateErr
}

func (s *fakeBrowserSession) PageSource(ctx context.Context) (string, error) {
	return s.html, s.sourceErr
}

func (s *fakeBrowserSession) Close() error {
	s.closed = true
	return nil
}

func withFakeBrowser(t *testing.T, session *fakeBrowserSession, dialErr error) {
	t.Helper()
	old := dialBrowser
	dialBrowser = func(ctx context.Context, controlURL string) (browserSession, error) {
		if dialErr != nil {
			return nil, dialErr
		}
		return session, nil
	}
	t.Cleanup(func() { dialBrowser = old })
}

func TestFetchSundayWebry(t *testing.T) {
	session := &fakeBrowserSession{html: sundayWebryPage}
	withFakeBrowser(t, session, nil)

	f := New("ws://browser:7317")
	m, err := f.Fetch(context.Background(), manga.SourceSundayWebry, "3412")
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}

	if session.navigated != "https://www.sunday-webry.com/series/3412" {
		t.Errorf("navigated to %q", session.navigated)
	}
	if !session.closed {
		t.Error("session not closed after fetch")
	}
	if m.Title != "フリーレン" {
		t.Errorf("Title = %q", m.Title)
	}
	if m.LatestChapterTitle != "第130話" {
		t.Errorf("LatestChapterTitle = %q", m.LatestChapterTitle)
	}
	if m.LatestChapterURL != "https://www.sunday-webry.com/episode/300" {
		t.Errorf("LatestChapterURL = %q", m.LatestChapterURL)
	}
}

func TestFetchSundayWebryDialFailure(t *testing.T) {
	withFakeBrowser(t, nil, errors.New("connection refused"))

	f := New("ws://browser:7317")
	_, err := f.Fetch(context.Background(), manga.SourceSundayWebry, "3412")
	if err == nil {
		t.Fatal("expected error when the browser is unreachable")
	}
	kind, _ := manga.KindOf(err)
	if kind != manga.ErrSession {
		t.Errorf("got error %v, want session kind", err)
	}
}

func TestFetchSundayWebryCommandFailure(t *testing.T) {
	session := &fakeBrowserSession{sourceErr: errors.New("target crashed")}
	withFakeBrowser(t, session, nil)

	f := New("ws://browser:7317")
	_, err := f.Fetch(context.Background(), manga.SourceSundayWebry, "3412")
	if err == nil {
		t.Fatal("expected error when the page source read fails")
	}
	kind, _ := manga.KindOf(err)
	if kind != manga.ErrRemoteCommand {
		t.Errorf("got error %v, want remote-command kind", err)
	}
	if !session.closed {
		t.Error("session not closed after failed fetch")
	}
}
