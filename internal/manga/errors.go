package manga

import (
	"errors"
	"fmt"
)

// ErrorKind classifies what went wrong during a fetch. Absence of data
// (no chapters, missing page) is expected and carried as a value, not a
// panic.
type ErrorKind int

const (
	ErrTransport ErrorKind = iota
	ErrDecodeJSON
	ErrDecodeFeed
	ErrChapterNotFound
	ErrPageNotFound
	ErrSession
	ErrRemoteCommand
)

func (k ErrorKind) String() string {
	switch k {
	case ErrTransport:
		return "transport error"
	case ErrDecodeJSON:
		return "json decode error"
	case ErrDecodeFeed:
		return "feed decode error"
	case ErrChapterNotFound:
		return "chapter not found"
	case ErrPageNotFound:
		return "page not found"
	case ErrSession:
		return "browser session error"
	case ErrRemoteCommand:
		return "browser command error"
	default:
		return "unknown fetch error"
	}
}

// FetchError is the single error type returned by every source adapter.
type FetchError struct {
	Kind   ErrorKind
	Reason string
	Err    error
}

func (e *FetchError) Error() string {
	switch {
	case e.Reason != "" && e.Err != nil:
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Reason, e.Err)
	case e.Reason != "":
		return fmt.Sprintf("%s: %s", e.Kind, e.Reason)
	case e.Err != nil:
		return fmt.Sprintf("%s: %v", e.Kind, e.Err)
	default:
		return e.Kind.String()
	}
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

func TransportError(err error) *FetchError {
	return &FetchError{Kind: ErrTransport, Err: err}
}

func JSONError(err error) *FetchError {
	return &FetchError{Kind: ErrDecodeJSON, Err: err}
}

// FeedError carries the upstream diagnostic text when the XML decoder has one.
func FeedError(reason string, err error) *FetchError {
	return &FetchError{Kind: ErrDecodeFeed, Reason: reason, Err: err}
}

func ChapterNotFound(reason string) *FetchError {
	return &FetchError{Kind: ErrChapterNotFound, Reason: reason}
}

func PageNotFound(reason string) *FetchError {
	return &FetchError{Kind: ErrPageNotFound, Reason: reason}
}

func SessionError(err error) *FetchError {
	return &FetchError{Kind: ErrSession, Err: err}
}

func CommandError(err error) *FetchError {
	return &FetchError{Kind: ErrRemoteCommand, Err: err}
}

// KindOf extracts the fetch error kind, if err is a FetchError.
func KindOf(err error) (ErrorKind, bool) {
	var fe *FetchError
	if errors.As(err, &fe) {
		return fe.Kind, true
	}
	return 0, false
}
