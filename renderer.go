package steamspy

import (
	"context"
	"html"
	"net/http"
	"net/http/cookiejar"
	"strings"
	"time"

	cloudflarebp "github.com/DaRealFreak/cloudflare-bp-go"
	"github.com/cenkalti/backoff/v4"
	"github.com/go-resty/resty/v2"
	"github.com/pkg/errors"
)

var (
	// DefaultUserAgent mimics Edge on Windows, which the API lets through.
	DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) " +
		"Chrome/123.0.0.0 Safari/537.36 Edg/123.0.2420.81"

	maxElapsedTime = 2 * time.Minute
)

// Renderer loads a URL and returns the rendered HTML document.
// A Renderer is a single session: it is used for one request at a time
// and must be closed once the run is over.
type Renderer interface {
	Render(ctx context.Context, url string) (string, error)
	Close() error
}

// HTTPRenderer fetches pages over plain HTTP through a transport that
// passes Cloudflare's browser fingerprint checks. It does not run
// JavaScript. Plain JSON responses are wrapped in a hidden container so
// callers see the same document shape as from a real browser.
type HTTPRenderer struct {
	UserAgent      string
	RequestTimeout time.Duration
	MaxRetries     int
	RetryInterval  time.Duration // initial backoff interval
	DisableBypass  bool

	// Transport replaces the default transport, mostly for tests.
	Transport http.RoundTripper

	client *resty.Client
}

// Validate prepares the renderer. Must be called before Render.
func (r *HTTPRenderer) Validate() error {
	if r.UserAgent == "" {
		r.UserAgent = DefaultUserAgent
	}

	if r.RequestTimeout <= 0 {
		r.RequestTimeout = time.Minute
	}

	if r.MaxRetries < 0 {
		r.MaxRetries = 0
	}

	jar, err := cookiejar.New(nil)
	if err != nil {
		return errors.Wrap(err, "failed to create cookie jar")
	}

	client := resty.New()
	if r.Transport != nil {
		client.SetTransport(r.Transport)
	}
	if !r.DisableBypass {
		client.GetClient().Transport = cloudflarebp.AddCloudFlareByPass(client.GetClient().Transport)
	}

	client.SetCookieJar(jar)
	client.SetHeader("User-Agent", r.UserAgent)
	client.SetTimeout(r.RequestTimeout)

	r.client = client
	return nil
}

// Render downloads url, retrying server errors and rate limiting with
// exponential backoff.
func (r *HTTPRenderer) Render(ctx context.Context, url string) (string, error) {
	if r.client == nil {
		return "", errors.New("renderer hasn't been validated")
	}

	var resp *resty.Response
	op := func() error {
		var err error
		resp, err = r.client.R().SetContext(ctx).Get(url)
		if err != nil {
			return err
		}

		code := resp.StatusCode()
		switch {
		case code >= http.StatusInternalServerError || code == http.StatusTooManyRequests:
			return errors.Errorf("failed to fetch with status code: %d", code)
		case code >= http.StatusBadRequest:
			return backoff.Permanent(errors.Errorf("failed to fetch with status code: %d", code))
		}
		return nil
	}

	exp := backoff.NewExponentialBackOff()
	exp.MaxElapsedTime = maxElapsedTime
	if r.RetryInterval > 0 {
		exp.InitialInterval = r.RetryInterval
	}
	bo := backoff.WithContext(backoff.WithMaxRetries(exp, uint64(r.MaxRetries)), ctx)

	if err := backoff.Retry(op, bo); err != nil {
		return "", err
	}

	body := resp.String()
	if strings.Contains(resp.Header().Get("Content-Type"), "json") {
		return wrapJSON(body), nil
	}

	return body, nil
}

// Close releases idle connections.
func (r *HTTPRenderer) Close() error {
	if r.client != nil {
		r.client.GetClient().CloseIdleConnections()
	}
	return nil
}

func wrapJSON(body string) string {
	return "<html><head></head><body><div hidden>" + html.EscapeString(body) + "</div></body></html>"
}
