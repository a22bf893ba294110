package fetch

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"

	"github.com/go-resty/resty/v2"
	"golang.org/x/time/rate"
)

// HTTPRenderer fetches pages with a plain GET. It executes no scripts, so it
// only suits sources whose listing and detail markup is server-rendered.
type HTTPRenderer struct {
	client  *resty.Client
	limiter *rate.Limiter
	logger  *slog.Logger
}

// NewHTTPRenderer creates a renderer backed by a resty client.
func NewHTTPRenderer(opts *Options, logger *slog.Logger) *HTTPRenderer {
	opts = opts.withDefaults()
	if logger == nil {
		logger = slog.Default()
	}

	client := resty.New().
		SetTimeout(opts.Timeout).
		SetHeader("User-Agent", opts.UserAgent).
		SetHeader("Accept", "text/html,application/xhtml+xml").
		SetHeader("Accept-Language", AcceptLanguage)

	var limiter *rate.Limiter
	if opts.MaxRPS > 0 {
		limiter = rate.NewLimiter(rate.Limit(opts.MaxRPS), 1)
	}

	return &HTTPRenderer{client: client, limiter: limiter, logger: logger}
}

// Render performs the GET and returns the body of a 2xx response.
func (h *HTTPRenderer) Render(ctx context.Context, rawURL string) (string, error) {
	parsed, err := url.Parse(rawURL)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return "", &Error{URL: rawURL, Message: "invalid URL", Cause: err}
	}

	if h.limiter != nil {
		if err := h.limiter.Wait(ctx); err != nil {
			return "", &Error{URL: rawURL, Message: "rate limiter wait failed", Cause: err}
		}
	}

	resp, err := h.client.R().SetContext(ctx).Get(rawURL)
	if err != nil {
		return "", &Error{URL: rawURL, Message: "HTTP request failed", Cause: err}
	}
	if !resp.IsSuccess() {
		return "", &Error{
			URL:        rawURL,
			Message:    fmt.Sprintf("HTTP status %d", resp.StatusCode()),
			StatusCode: resp.StatusCode(),
		}
	}

	h.logger.Debug("fetched page", "url", rawURL, "bytes", len(resp.Body()))
	return resp.String(), nil
}

// Close releases idle connections.
func (h *HTTPRenderer) Close() error {
	h.client.GetClient().CloseIdleConnections()
	return nil
}
