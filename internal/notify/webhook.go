// Package notify posts release announcements to an incoming-webhook URL.
package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"mangatracker/internal/updater"
)

// pace keeps consecutive posts under typical webhook rate limits.
const defaultPace = 500 * time.Millisecond

// Webhook delivers one embed per outcome, in order, and stops at the
// first delivery failure.
type Webhook struct {
	url    string
	client *http.Client
	pace   time.Duration
}

func NewWebhook(url string) *Webhook {
	return &Webhook{
		url: url,
		client: &http.Client{
			Timeout: 15 * time.Second,
		},
		pace: defaultPace,
	}
}

type payload struct {
	Embeds []embed `json:"embeds"`
}

type embed struct {
	Title       string      `json:"title"`
	URL         string      `json:"url,omitempty"`
	Description string      `json:"description,omitempty"`
	Image       *embedImage `json:"image,omitempty"`
	Fields      []field     `json:"fields,omitempty"`
}

type embedImage struct {
	URL string `json:"url"`
}

type field struct {
	Name   string `json:"name"`
	Value  string `json:"value"`
	Inline bool   `json:"inline"`
}

// Broadcast posts one message per outcome. Delivery is sequential and
// paced; a failed post aborts the rest so the run surfaces the error.
func (w *Webhook) Broadcast(ctx context.Context, outcomes []updater.Outcome) error {
	for i, out := range outcomes {
		if i > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(w.pace):
			}
		}
		if err := w.send(ctx, out); err != nil {
			return fmt.Errorf("announce %s: %w", out.Series.Key(), err)
		}
	}
	return nil
}

func buildEmbed(out updater.Outcome) embed {
	prefix := "[RELEASED] "
	if out.Class == updater.Upcoming {
		prefix = "[UPCOMING] "
	}

	e := embed{
		Title:       prefix + out.Series.Title,
		Description: out.Series.LatestChapterTitle,
		Fields: []field{
			{Name: "Source", Value: string(out.Series.Source), Inline: true},
			{Name: "Author", Value: out.Series.Author, Inline: true},
			{Name: "Release Date", Value: out.Series.LatestChapterReleaseDate.Format("2006-01-02 (Mon)"), Inline: true},
		},
	}
	if out.Series.CoverURL != "" {
		e.Image = &embedImage{URL: out.Series.CoverURL}
	}
	// Only a released chapter has somewhere to link to.
	if out.Class == updater.Released {
		e.URL = out.Series.LatestChapterURL
	}
	return e
}

func (w *Webhook) send(ctx context.Context, out updater.Outcome) error {
	body, err := json.Marshal(payload{Embeds: []embed{buildEmbed(out)}})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, w.url, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := w.client.Do(req)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("webhook answered %d", resp.StatusCode)
	}
	return nil
}
