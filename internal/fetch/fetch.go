// Package fetch turns URLs into rendered HTML documents.
// A Renderer is a single shared session; callers serialize access to it.
package fetch

import (
	"context"
	"fmt"
	"time"
)

// Defaults applied when Options leaves a field zero.
const (
	DefaultTimeout     = 30 * time.Second
	DefaultSettleDelay = 2 * time.Second
	DefaultUserAgent   = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36"
)

// AcceptLanguage is sent with every request; the encyclopedias serve Korean content.
const AcceptLanguage = "ko-KR,ko;q=0.9,en;q=0.8"

// Renderer fetches a URL and returns the document as the page presents it.
type Renderer interface {
	Render(ctx context.Context, url string) (string, error)
	Close() error
}

// Error is returned for network failures, timeouts, non-2xx statuses and
// render timeouts.
type Error struct {
	URL        string
	Message    string
	StatusCode int
	Cause      error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("fetch error for %s: %s: %v", e.URL, e.Message, e.Cause)
	}
	return fmt.Sprintf("fetch error for %s: %s", e.URL, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// Options configures both renderer implementations.
type Options struct {
	Timeout     time.Duration
	SettleDelay time.Duration
	UserAgent   string
	Headless    bool
	// MaxRPS caps the request rate of the HTTP renderer; zero disables the cap.
	MaxRPS float64
}

// DefaultOptions returns the default renderer settings.
func DefaultOptions() *Options {
	return &Options{
		Timeout:     DefaultTimeout,
		SettleDelay: DefaultSettleDelay,
		UserAgent:   DefaultUserAgent,
		Headless:    true,
	}
}

func (o *Options) withDefaults() *Options {
	if o == nil {
		return DefaultOptions()
	}
	out := *o
	if out.Timeout <= 0 {
		out.Timeout = DefaultTimeout
	}
	if out.SettleDelay < 0 {
		out.SettleDelay = 0
	}
	if out.UserAgent == "" {
		out.UserAgent = DefaultUserAgent
	}
	return &out
}

// Pause blocks for d or until ctx is done. It is the politeness delay used
// between page fetches.
func Pause(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
