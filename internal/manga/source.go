package manga

import (
	"fmt"
	"strings"
)

// Strategy is the upstream fetch mechanism of a source.
type Strategy int

const (
	StrategyRSS Strategy = iota
	StrategyCDATARSS
	StrategyJSON
	StrategyHTML
	StrategyBrowser
)

// Source is one upstream publisher. The string value is the display name
// and the value persisted in the series table.
type Source string

const (
	SourceShounenJumpPlus Source = "Shounen Jump Plus"
	SourceComicEarthStar  Source = "Comic Earthstar"
	SourceKurageBunch     Source = "Kurage Bunch"
	SourceComicGrowl      Source = "Comic Growl"
	SourceComicDays       Source = "Comic Days"
	SourceMagazinePocket  Source = "Magazine Pocket"
	SourceTonariYoungJump Source = "Tonari Young Jump"
	SourceComicAction     Source = "Comic Action"
	SourceChampionCross   Source = "Champion Cross"
	SourceYoungAnimal     Source = "Young Animal"
	SourceYoungChampion   Source = "Young Champion"
	SourceComicPixiv      Source = "Comic Pixiv"
	SourceComicWalker     Source = "Comic Walker"
	SourceIchijinPlus     Source = "Ichijin Plus"
	SourceComicFuz        Source = "Comic Fuz"
	SourceGanganOnline    Source = "Gangan Online"
	SourceMangaUp         Source = "Manga Up"
	SourceYanmaga         Source = "YanMaga"
	SourceUrasunday       Source = "Urasunday"
	SourceGammaPlus       Source = "Gamma Plus"
	SourceGanma           Source = "GANMA"
	SourceMechaComic      Source = "Mecha Comic"
	SourceSundayWebry     Source = "Sunday Webry"
)

// sourceInfo carries the per-site quirks as data, so adding a source is a
// data-plus-one-function change.
type sourceInfo struct {
	strategy     Strategy
	urlTemplate  string
	banner       string // literal substring stripped from titles once
	trimBrackets bool   // banner format wraps the rest in 『』-style punctuation
	retryOnEmpty bool   // upstream intermittently returns an empty document
}

var sources = map[Source]sourceInfo{
	SourceShounenJumpPlus: {strategy: StrategyRSS, urlTemplate: "https://shonenjumpplus.com/rss/series/%s"},
	SourceComicEarthStar:  {strategy: StrategyRSS, urlTemplate: "https://comic-earthstar.com/rss/series/%s"},
	SourceKurageBunch:     {strategy: StrategyRSS, urlTemplate: "https://kuragebunch.com/rss/series/%s"},
	SourceComicGrowl:      {strategy: StrategyRSS, urlTemplate: "https://comic-growl.com/rss/series/%s"},
	SourceComicDays:       {strategy: StrategyRSS, urlTemplate: "https://comic-days.com/rss/series/%s"},
	SourceMagazinePocket:  {strategy: StrategyRSS, urlTemplate: "https://pocket.shonenmagazine.com/rss/series/%s"},
	SourceTonariYoungJump: {strategy: StrategyRSS, urlTemplate: "https://tonarinoyj.jp/rss/series/%s"},
	SourceComicAction:     {strategy: StrategyRSS, urlTemplate: "https://comic-action.com/rss/series/%s"},

	SourceChampionCross: {
		strategy:    StrategyCDATARSS,
		urlTemplate: "https://championcross.jp/rss/series/%s",
		banner:      "｜チャンピオンクロス",
	},
	SourceYoungAnimal: {
		strategy:     StrategyCDATARSS,
		urlTemplate:  "https://younganimal.com/rss/series/%s",
		banner:       "【ヤングアニマルWeb】",
		trimBrackets: true,
	},
	SourceYoungChampion: {
		strategy:    StrategyCDATARSS,
		urlTemplate: "https://ycomics.jp/rss/series/%s",
		banner:      "｜ヤングチャンピオン・コミックス",
	},

	SourceComicPixiv:  {strategy: StrategyJSON, urlTemplate: "https://comic.pixiv.net/api/app/works/v5/%s"},
	SourceComicWalker: {strategy: StrategyJSON, urlTemplate: "https://comic-walker.com/api/contents/details/work?workCode=%s"},
	SourceIchijinPlus: {strategy: StrategyJSON, urlTemplate: "https://api.ichijin-plus.com/comics/%s"},

	SourceComicFuz:     {strategy: StrategyHTML, urlTemplate: "https://comic-fuz.com/manga/%s"},
	SourceGanganOnline: {strategy: StrategyHTML, urlTemplate: "https://www.ganganonline.com/title/%s", retryOnEmpty: true},
	SourceMangaUp:      {strategy: StrategyHTML, urlTemplate: "https://www.manga-up.com/titles/%s"},
	SourceYanmaga:      {strategy: StrategyHTML, urlTemplate: "https://yanmaga.jp/comics/%s"},
	SourceUrasunday:    {strategy: StrategyHTML, urlTemplate: "https://urasunday.com/title/%s"},
	SourceGammaPlus:    {strategy: StrategyHTML, urlTemplate: "https://gammaplus.takeshobo.co.jp/manga/%s"},
	SourceGanma: {
		strategy:     StrategyHTML,
		urlTemplate:  "https://ganma.jp/web/magazine/%s",
		banner:       "（ガンマ）",
		retryOnEmpty: true,
	},
	SourceMechaComic: {strategy: StrategyHTML, urlTemplate: "https://mechacomic.jp/books/%s"},

	SourceSundayWebry: {strategy: StrategyBrowser, urlTemplate: "https://www.sunday-webry.com/series/%s"},
}

// All returns every known source in a stable order.
func All() []Source {
	return []Source{
		SourceShounenJumpPlus,
		SourceComicEarthStar,
		SourceKurageBunch,
		SourceComicGrowl,
		SourceComicDays,
		SourceMagazinePocket,
		SourceTonariYoungJump,
		SourceComicAction,
		SourceChampionCross,
		SourceYoungAnimal,
		SourceYoungChampion,
		SourceComicPixiv,
		SourceComicWalker,
		SourceIchijinPlus,
		SourceComicFuz,
		SourceGanganOnline,
		SourceMangaUp,
		SourceYanmaga,
		SourceUrasunday,
		SourceGammaPlus,
		SourceGanma,
		SourceMechaComic,
		SourceSundayWebry,
	}
}

func (s Source) Valid() bool {
	_, ok := sources[s]
	return ok
}

func (s Source) Strategy() Strategy {
	return sources[s].strategy
}

// PageURL builds the primary document URL for the given external id.
func (s Source) PageURL(externalID string) string {
	return fmt.Sprintf(sources[s].urlTemplate, externalID)
}

func (s Source) RetryOnEmpty() bool {
	return sources[s].retryOnEmpty
}

// CleanTitle strips the source's banner substring (case-sensitive, single
// occurrence) and, for banner formats that leave the remaining text wrapped
// in bracket punctuation, trims exactly one leading and one trailing rune.
// Sources without a banner pass titles through unchanged.
func (s Source) CleanTitle(title string) string {
	info := sources[s]
	if info.banner == "" {
		return title
	}

	cleaned := strings.Replace(title, info.banner, "", 1)
	if info.trimBrackets {
		runes := []rune(cleaned)
		if len(runes) >= 2 {
			cleaned = string(runes[1 : len(runes)-1])
		}
	}
	return cleaned
}
