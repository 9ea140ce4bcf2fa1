package fetch

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"mangatracker/internal/manga"
)

// rewriteTransport sends every request to the test server regardless of the
// host the adapter asked for.
type rewriteTransport struct {
	host string
}

func (t rewriteTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	req.URL.Scheme = "http"
	req.URL.Host = t.host
	return http.DefaultTransport.RoundTrip(req)
}

func newJSONFetcher(t *testing.T, handler http.Handler) *Fetcher {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	u, err := url.Parse(srv.URL)
	if err != nil {
		t.Fatalf("parse server URL: %v", err)
	}
	f := New("")
	f.client.Transport = rewriteTransport{host: u.Host}
	return f
}

const pixivMetadataBody = `{"data":{"official_work":{"id":42,"name":"ふつうの軽音部","author":"クワハリ"}}}`

func TestFetchComicPixivSkipsUnpublishedEpisodes(t *testing.T) {
	var requested string
	f := newJSONFetcher(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requested = r.Header.Get("x-requested-with")
		if strings.HasSuffix(r.URL.Path, "/episodes/v2") {
			// Teased chapters lead the list until they go live.
			_, _ = w.Write([]byte(`{"data":{"episodes":[
				{"state":"not_publishing"},
				{"state":"not_publishing","episode":{"id":101,"numbering_title":"第31話","read_start_at":1725807600000,"thumbnail_image_url":"https://img.pixiv.net/31.jpg","viewer_path":"/viewer/stories/101"}},
				{"state":"publishing","episode":{"id":100,"numbering_title":"第30話","read_start_at":1725202800000,"thumbnail_image_url":"https://img.pixiv.net/30.jpg","viewer_path":"/viewer/stories/100"}}
			]}}`))
			return
		}
		_, _ = w.Write([]byte(pixivMetadataBody))
	}))

	m, err := f.fetchComicPixiv(context.Background(), "42")
	if err != nil {
		t.Fatalf("fetchComicPixiv: %v", err)
	}

	if requested != "pixivcomic" {
		t.Errorf("x-requested-with = %q, want pixivcomic", requested)
	}
	if m.Title != "ふつうの軽音部" {
		t.Errorf("Title = %q", m.Title)
	}
	if m.Author != "クワハリ" {
		t.Errorf("Author = %q", m.Author)
	}
	if m.LatestChapterTitle != "第30話" {
		t.Errorf("LatestChapterTitle = %q, want the first published episode", m.LatestChapterTitle)
	}
	if m.LatestChapterURL != "https://comic.pixiv.net/viewer/stories/100" {
		t.Errorf("LatestChapterURL = %q", m.LatestChapterURL)
	}
	if m.CoverURL != "https://img.pixiv.net/30.jpg" {
		t.Errorf("CoverURL = %q", m.CoverURL)
	}
	want := time.Date(2024, 9, 2, 0, 0, 0, 0, manga.JST)
	if !m.LatestChapterReleaseDate.Equal(want) {
		t.Errorf("LatestChapterReleaseDate = %v, want %v", m.LatestChapterReleaseDate, want)
	}
	if m.LatestChapterPublishDay != time.Monday {
		t.Errorf("LatestChapterPublishDay = %v, want Monday", m.LatestChapterPublishDay)
	}
}

func TestFetchComicPixivNoPublishedEpisode(t *testing.T) {
	f := newJSONFetcher(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.HasSuffix(r.URL.Path, "/episodes/v2") {
			_, _ = w.Write([]byte(`{"data":{"episodes":[{"state":"not_publishing"}]}}`))
			return
		}
		_, _ = w.Write([]byte(pixivMetadataBody))
	}))

	_, err := f.fetchComicPixiv(context.Background(), "42")
	if err == nil {
		t.Fatal("expected error when every episode is unpublished")
	}
	kind, _ := manga.KindOf(err)
	if kind != manga.ErrChapterNotFound {
		t.Errorf("got error %v, want chapter-not-found kind", err)
	}
}

func TestFetchComicWalkerFallsBackToWorkThumbnail(t *testing.T) {
	f := newJSONFetcher(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{
			"work":{"title":"ダンジョン飯","originalThumbnail":"https://img.comic-walker.com/work.jpg",
				"authors":[{"name":"九井諒子","role":"作者"},{"name":"協力","role":"その他"}]},
			"latestEpisodes":{"total":2,"result":[
				{"id":"ep2","code":"KC_002","title":"第2話","originalThumbnail":"","updateDate":"2024-09-02T00:00:00+09:00"},
				{"id":"ep1","code":"KC_001","title":"第1話","originalThumbnail":"https://img.comic-walker.com/1.jpg","updateDate":"2024-08-02T00:00:00+09:00"}
			]}
		}`))
	}))

	m, err := f.fetchComicWalker(context.Background(), "KC_W01")
	if err != nil {
		t.Fatalf("fetchComicWalker: %v", err)
	}

	if m.Title != "ダンジョン飯" {
		t.Errorf("Title = %q", m.Title)
	}
	if m.Author != "九井諒子,協力" {
		t.Errorf("Author = %q, want joined author names", m.Author)
	}
	if m.LatestChapterTitle != "第2話" {
		t.Errorf("LatestChapterTitle = %q", m.LatestChapterTitle)
	}
	if m.LatestChapterURL != "https://comic-walker.com/detail/KC_W01/episodes/KC_002" {
		t.Errorf("LatestChapterURL = %q", m.LatestChapterURL)
	}
	if m.CoverURL != "https://img.comic-walker.com/work.jpg" {
		t.Errorf("CoverURL = %q, want the work thumbnail when the episode has none", m.CoverURL)
	}
	want := time.Date(2024, 9, 2, 0, 0, 0, 0, manga.JST)
	if !m.LatestChapterReleaseDate.Equal(want) {
		t.Errorf("LatestChapterReleaseDate = %v, want %v", m.LatestChapterReleaseDate, want)
	}
}

func TestFetchComicWalkerNoEpisodes(t *testing.T) {
	f := newJSONFetcher(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"work":{"title":"t"},"latestEpisodes":{"total":0,"result":[]}}`))
	}))

	_, err := f.fetchComicWalker(context.Background(), "KC_W01")
	if err == nil {
		t.Fatal("expected error for an empty episode list")
	}
	kind, _ := manga.KindOf(err)
	if kind != manga.ErrChapterNotFound {
		t.Errorf("got error %v, want chapter-not-found kind", err)
	}
}

func TestFetchIchijinPlus(t *testing.T) {
	var key string
	f := newJSONFetcher(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		key = r.Header.Get("x-api-environment-key")
		_, _ = w.Write([]byte(`{
			"title":"乙女ゲームの破滅フラグ",
			"authors":[{"name":"ひだかなみ","role":"漫画"},{"name":"山口悟","role":"原作"}],
			"latest_episode":{"id":"abc123","title":"第45話","published_at":"2024-09-02T00:00:00+09:00","thumbnail_image_url":"https://img.ichijin-plus.com/45.jpg"}
		}`))
	}))

	m, err := f.fetchIchijinPlus(context.Background(), "hametsu")
	if err != nil {
		t.Fatalf("fetchIchijinPlus: %v", err)
	}

	if key != ichijinEnvironmentKey {
		t.Errorf("x-api-environment-key = %q, want the environment key", key)
	}
	if m.Title != "乙女ゲームの破滅フラグ" {
		t.Errorf("Title = %q", m.Title)
	}
	if m.Author != "ひだかなみ,山口悟" {
		t.Errorf("Author = %q, want joined author names", m.Author)
	}
	if m.LatestChapterTitle != "第45話" {
		t.Errorf("LatestChapterTitle = %q", m.LatestChapterTitle)
	}
	if m.LatestChapterURL != "https://ichijin-plus.com/episodes/abc123" {
		t.Errorf("LatestChapterURL = %q", m.LatestChapterURL)
	}
	if m.CoverURL != "https://img.ichijin-plus.com/45.jpg" {
		t.Errorf("CoverURL = %q", m.CoverURL)
	}
	want := time.Date(2024, 9, 2, 0, 0, 0, 0, manga.JST)
	if !m.LatestChapterReleaseDate.Equal(want) {
		t.Errorf("LatestChapterReleaseDate = %v, want %v", m.LatestChapterReleaseDate, want)
	}
}

func TestFetchIchijinPlusNoLatestEpisode(t *testing.T) {
	f := newJSONFetcher(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"title":"t","authors":[],"latest_episode":{}}`))
	}))

	_, err := f.fetchIchijinPlus(context.Background(), "hametsu")
	if err == nil {
		t.Fatal("expected error when latest_episode is empty")
	}
	kind, _ := manga.KindOf(err)
	if kind != manga.ErrChapterNotFound {
		t.Errorf("got error %v, want chapter-not-found kind", err)
	}
}
