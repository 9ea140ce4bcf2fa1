// Package browser drives a remote browser over the DevTools protocol for
// sources whose pages are client-rendered and cannot be fetched over plain
// HTTP. The browser process itself is external; this package only consumes
// an already-running endpoint.
package browser

import (
	"context"
	"fmt"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/proto"
)

// Session is one connection to the remote browser with a single page.
type Session struct {
	browser *rod.Browser
	page    *rod.Page
}

// NewSession connects to the remote browser at controlURL (a DevTools
// websocket endpoint, e.g. ws://localhost:9222).
func NewSession(ctx context.Context, controlURL string) (*Session, error) {
	b := rod.New().ControlURL(controlURL).Context(ctx)
	if err := b.Connect(); err != nil {
		return nil, fmt.Errorf("browser: connect %s: %w", controlURL, err)
	}
	return &Session{browser: b}, nil
}

// Navigate opens (or reuses) the session page and loads the URL.
func (s *Session) Navigate(ctx context.Context, pageURL string) error {
	if s.page == nil {
		page, err := s.browser.Page(proto.TargetCreateTarget{URL: ""})
		if err != nil {
			return fmt.Errorf("browser: create page: %w", err)
		}
		s.page = page
	}

	if err := s.page.Context(ctx).Navigate(pageURL); err != nil {
		return fmt.Errorf("browser: navigate %s: %w", pageURL, err)
	}
	if err := s.page.Context(ctx).WaitLoad(); err != nil {
		return fmt.Errorf("browser: wait load %s: %w", pageURL, err)
	}
	return nil
}

// PageSource returns the rendered DOM as outer HTML.
func (s *Session) PageSource(ctx context.Context) (string, error) {
	if s.page == nil {
		return "", fmt.Errorf("browser: no page open")
	}
	res, err := s.page.Context(ctx).Eval(`() => document.documentElement.outerHTML`)
	if err != nil {
		return "", fmt.Errorf("browser: read DOM: %w", err)
	}
	return res.Value.Str(), nil
}

// Close releases the page and the connection.
func (s *Session) Close() error {
	if s.page != nil {
		_ = s.page.Close()
		s.page = nil
	}
	return s.browser.Close()
}
