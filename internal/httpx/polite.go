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

	"github.com/temoto/robotstxt"
	"golang.org/x/time/rate"
)

// PoliteClient probes documents on plain net/http while honouring
// robots.txt and per-host rate limits.
type PoliteClient struct {
	client      *http.Client
	ua          string
	per         time.Duration
	burst       int
	limiters    map[string]*rate.Limiter
	robotsCache map[string]*robotstxt.RobotsData
	mu          sync.Mutex
}

func NewPoliteClient(userAgent string) *PoliteClient {
	if userAgent == "" {
		userAgent = DefaultUserAgent
	}
	return &PoliteClient{
		client:      &http.Client{Timeout: 15 * time.Second},
		ua:          userAgent,
		per:         time.Second,
		burst:       2,
		limiters:    map[string]*rate.Limiter{},
		robotsCache: map[string]*robotstxt.RobotsData{},
	}
}

// SetRate changes the limit used for hosts seen from now on.
func (p *PoliteClient) SetRate(per time.Duration, burst int) {
	if per <= 0 || burst <= 0 {
		return
	}
	p.mu.Lock()
	p.per = per
	p.burst = burst
	p.mu.Unlock()
}

func (p *PoliteClient) limiterFor(host string) *rate.Limiter {
	p.mu.Lock()
	defer p.mu.Unlock()
	if l, ok := p.limiters[host]; ok {
		return l
	}
	l := rate.NewLimiter(rate.Every(p.per), p.burst)
	p.limiters[host] = l
	return l
}

// NewRequest builds a request with context, defaulting the scheme to https.
func NewRequest(ctx context.Context, method, rawURL string) (*http.Request, error) {
	target, err := normalizeURL(rawURL)
	if err != nil {
		return nil, err
	}
	return http.NewRequestWithContext(ctx, method, target, nil)
}

// Exists reports whether rawURL answers 200. It asks with HEAD and falls
// back to GET for servers that refuse HEAD.
func (p *PoliteClient) Exists(ctx context.Context, rawURL string) (bool, error) {
	status, err := p.status(ctx, http.MethodHead, rawURL)
	if err != nil {
		return false, err
	}
	if status == http.StatusMethodNotAllowed || status == http.StatusNotImplemented {
		status, err = p.status(ctx, http.MethodGet, rawURL)
		if err != nil {
			return false, err
		}
	}
	return status == http.StatusOK, nil
}

func (p *PoliteClient) status(ctx context.Context, method, rawURL string) (int, error) {
	req, err := NewRequest(ctx, method, rawURL)
	if err != nil {
		return 0, err
	}
	resp, err := p.Do(ctx, req)
	if err != nil {
		return 0, err
	}
	resp.Body.Close()
	return resp.StatusCode, nil
}

func (p *PoliteClient) robotsFor(ctx context.Context, u *url.URL) (*robotstxt.RobotsData, error) {
	host := u.Hostname()
	p.mu.Lock()
	if data, ok := p.robotsCache[host]; ok {
		p.mu.Unlock()
		return data, nil
	}
	p.mu.Unlock()

	robotsURL := fmt.Sprintf("%s://%s/robots.txt", u.Scheme, u.Host)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, robotsURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", p.ua)

	if err := p.limiterFor(host).Wait(ctx); err != nil {
		return nil, err
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	data, err := robotstxt.FromResponse(resp)
	if err != nil {
		return nil, err
	}

	p.mu.Lock()
	p.robotsCache[host] = data
	p.mu.Unlock()
	return data, nil
}

// Do executes the request respecting robots.txt and rate limits.
func (p *PoliteClient) Do(ctx context.Context, req *http.Request) (*http.Response, error) {
	if req.Header.Get("User-Agent") == "" {
		req.Header.Set("User-Agent", p.ua)
	}

	u := req.URL
	if u.Scheme == "" {
		u.Scheme = "https"
	}

	if ok := p.allowed(ctx, u, req.Method); !ok {
		return nil, &FetchError{URL: u.String(), Status: http.StatusForbidden, Err: errors.New("blocked by robots.txt")}
	}

	limiter := p.limiterFor(u.Hostname())

	var lastErr error
	for attempt := 0; attempt < 3; attempt++ {
		if err := limiter.Wait(ctx); err != nil {
			return nil, err
		}

		resp, err := p.client.Do(req)
		if err != nil {
			lastErr = err
			continue
		}

		if shouldBackoff(resp.StatusCode) {
			lastErr = &FetchError{URL: u.String(), Status: resp.StatusCode}
			resp.Body.Close()
			backoff := time.Duration(500*(1<<attempt)) * time.Millisecond
			if err := sleepWithContext(ctx, backoff); err != nil {
				return nil, err
			}
			continue
		}

		return resp, nil
	}

	if lastErr == nil {
		lastErr = errors.New("polite client: failed without error")
	}
	return nil, lastErr
}

func (p *PoliteClient) allowed(ctx context.Context, u *url.URL, method string) bool {
	if !strings.EqualFold(method, http.MethodGet) && !strings.EqualFold(method, http.MethodHead) {
		return false
	}
	data, err := p.robotsFor(ctx, u)
	if err != nil {
		return true // fail open to avoid blocking everything
	}
	group := data.FindGroup(p.ua)
	if group == nil {
		return true
	}
	path := u.Path
	if path == "" {
		path = "/"
	}
	return group.Test(path)
}
