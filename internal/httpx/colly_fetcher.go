package httpx

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/gocolly/colly/v2"
	"golang.org/x/time/rate"
)

const DefaultUserAgent = "congress-tracker/1.0"

const (
	fetchAttempts = 3
	firstBackoff  = 500 * time.Millisecond
)

// CollyFetcher downloads vote and bill documents through Colly. Requests
// to one host share a rate limiter, and a throttled or failing host is
// paused before the next attempt.
type CollyFetcher struct {
	base *colly.Collector

	mu      sync.Mutex
	hosts   map[string]*throttle
	perHost rate.Limit
	burst   int
}

// throttle paces requests to a single host.
type throttle struct {
	mu          sync.Mutex
	limiter     *rate.Limiter
	pausedUntil time.Time
}

// FetchError reports a failed download and the last HTTP status seen.
type FetchError struct {
	URL    string
	Status int
	Err    error
}

func (e *FetchError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("fetch %s: status %d", e.URL, e.Status)
	}
	return fmt.Sprintf("fetch %s: status %d: %v", e.URL, e.Status, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// IsNotFound reports whether err is a FetchError for a missing document.
// Collectors treat it as the end of a numbered sequence.
func IsNotFound(err error) bool {
	var fe *FetchError
	if errors.As(err, &fe) {
		return fe.Status == http.StatusNotFound || fe.Status == http.StatusGone
	}
	return false
}

func NewCollyFetcher(userAgent string) *CollyFetcher {
	if userAgent == "" {
		userAgent = DefaultUserAgent
	}
	base := colly.NewCollector(colly.UserAgent(userAgent), colly.AllowURLRevisit())
	base.IgnoreRobotsTxt = false
	base.SetRequestTimeout(30 * time.Second)

	return &CollyFetcher{
		base:    base,
		hosts:   make(map[string]*throttle),
		perHost: rate.Every(time.Second),
		burst:   2,
	}
}

// SetHostLimit allows burst requests to host, refilled once every per.
func (f *CollyFetcher) SetHostLimit(host string, per time.Duration, burst int) {
	if host == "" || per <= 0 || burst <= 0 {
		return
	}
	t := f.throttleFor(normalizeHost(host))
	t.mu.Lock()
	t.limiter = rate.NewLimiter(rate.Every(per), burst)
	t.mu.Unlock()
}

// FetchBytes downloads rawURL and returns the body and HTTP status.
// Throttling and server errors are retried; any other failure is returned
// as a *FetchError.
func (f *CollyFetcher) FetchBytes(ctx context.Context, rawURL string) ([]byte, int, error) {
	target, err := normalizeURL(rawURL)
	if err != nil {
		return nil, 0, err
	}
	t := f.throttleFor(hostKey(target))

	var status int
	var lastErr error
	for attempt := 0; attempt < fetchAttempts; attempt++ {
		if err := t.wait(ctx); err != nil {
			return nil, status, err
		}
		var body []byte
		body, status, lastErr = f.get(ctx, target)
		if lastErr == nil {
			return body, status, nil
		}
		if ctx.Err() != nil {
			return nil, status, ctx.Err()
		}
		if !retryable(status) {
			break
		}
		t.pause(firstBackoff << attempt)
	}
	return nil, status, &FetchError{URL: target, Status: status, Err: lastErr}
}

// get performs one request on a clone of the base collector, so robots.txt
// answers and the HTTP client are shared between documents.
func (f *CollyFetcher) get(ctx context.Context, target string) ([]byte, int, error) {
	c := f.base.Clone()
	c.Context = ctx

	var body []byte
	status := 0
	var reqErr error
	c.OnResponse(func(r *colly.Response) {
		status = r.StatusCode
		body = r.Body
	})
	c.OnError(func(r *colly.Response, err error) {
		if r != nil {
			status = r.StatusCode
		}
		reqErr = err
	})

	if err := c.Request(http.MethodGet, target, nil, nil, nil); err != nil {
		return nil, status, err
	}
	if reqErr != nil {
		return nil, status, reqErr
	}
	if status >= 400 {
		return nil, status, fmt.Errorf("status %d", status)
	}
	if status == 0 {
		status = http.StatusOK
	}
	return body, status, nil
}

func (f *CollyFetcher) throttleFor(host string) *throttle {
	if host == "" {
		host = "default"
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	t, ok := f.hosts[host]
	if !ok {
		t = &throttle{limiter: rate.NewLimiter(f.perHost, f.burst)}
		f.hosts[host] = t
	}
	return t
}

// wait blocks until the host is no longer paused and the limiter admits
// one request.
func (t *throttle) wait(ctx context.Context) error {
	for {
		t.mu.Lock()
		delay := time.Until(t.pausedUntil)
		limiter := t.limiter
		t.mu.Unlock()
		if delay <= 0 {
			return limiter.Wait(ctx)
		}
		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}
}

// pause holds off further requests to the host for d, never shortening a
// pause already in effect.
func (t *throttle) pause(d time.Duration) {
	until := time.Now().Add(d)
	t.mu.Lock()
	if until.After(t.pausedUntil) {
		t.pausedUntil = until
	}
	t.mu.Unlock()
}

func normalizeURL(rawURL string) (string, error) {
	if rawURL == "" {
		return "", errors.New("empty url")
	}
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", err
	}
	if u.Scheme == "" {
		u.Scheme = "https"
	}
	return u.String(), nil
}

func normalizeHost(host string) string {
	return strings.TrimPrefix(strings.ToLower(host), "www.")
}

func hostKey(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "default"
	}
	return normalizeHost(u.Hostname())
}

// retryable reports whether a status means the server may answer later.
func retryable(status int) bool {
	return status == http.StatusTooManyRequests || (status >= 500 && status <= 599)
}
