package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"golang.org/x/time/rate"
)

// Resources exposed by the catalog.
const (
	ResourcePeople  = "people"
	ResourcePlanets = "planets"
)

const (
	defaultRateLimit = 5
	defaultRateBurst = 10
	defaultTimeout   = 30 * time.Second

	maxRetries   = 4
	initialDelay = 500 * time.Millisecond
	maxDelay     = 8 * time.Second

	maxBodyBytes = 4 << 20
)

// ErrForeignURL is returned when the catalog points at a host other than its own.
var ErrForeignURL = errors.New("catalog url outside base host")

// Options configure a Client. Zero values fall back to defaults.
type Options struct {
	RateLimit float64
	RateBurst int
	Timeout   time.Duration
	Logger    *slog.Logger
}

// Client reads paginated resources from a SWAPI-shaped catalog, pacing
// requests with a rate limiter and retrying throttled or failed calls.
type Client struct {
	base        *url.URL
	httpClient  *http.Client
	rateLimiter *rate.Limiter
	log         *slog.Logger

	initialDelay time.Duration
	maxDelay     time.Duration
}

type listPage struct {
	Count   int              `json:"count"`
	Next    *string          `json:"next"`
	Results []map[string]any `json:"results"`
}

// NewClient creates a catalog client rooted at baseURL, e.g. https://swapi.dev/api.
func NewClient(baseURL string, opts Options) (*Client, error) {
	base, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parse catalog url: %w", err)
	}
	if base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("catalog url %q must be absolute", baseURL)
	}

	if opts.RateLimit <= 0 {
		opts.RateLimit = defaultRateLimit
	}
	if opts.RateBurst <= 0 {
		opts.RateBurst = defaultRateBurst
	}
	if opts.Timeout <= 0 {
		opts.Timeout = defaultTimeout
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}

	return &Client{
		base:        base,
		rateLimiter: rate.NewLimiter(rate.Limit(opts.RateLimit), opts.RateBurst),
		httpClient: &http.Client{
			Timeout: opts.Timeout,
			Transport: &http.Transport{
				MaxIdleConns:        20,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		},
		log:          opts.Logger.With("component", "catalog"),
		initialDelay: initialDelay,
		maxDelay:     maxDelay,
	}, nil
}

// FetchAll walks every page of resource and returns the detail document of
// each listed item as an untyped field map.
func (c *Client) FetchAll(ctx context.Context, resource string) ([]map[string]any, error) {
	next := c.base.JoinPath(resource).String() + "/"
	var records []map[string]any

	for next != "" {
		var page listPage
		if err := c.getJSON(ctx, next, &page); err != nil {
			return nil, fmt.Errorf("fetch %s page: %w", resource, err)
		}

		for _, item := range page.Results {
			detailURL, _ := item["url"].(string)
			if detailURL == "" {
				records = append(records, item)
				continue
			}
			var detail map[string]any
			if err := c.getJSON(ctx, detailURL, &detail); err != nil {
				return nil, fmt.Errorf("fetch %s detail: %w", resource, err)
			}
			records = append(records, detail)
		}

		next = ""
		if page.Next != nil {
			next = *page.Next
		}
	}

	c.log.Info("catalog fetched", "resource", resource, "records", len(records))
	return records, nil
}

func (c *Client) checkOrigin(raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("parse %q: %w", raw, err)
	}
	if u.Host != c.base.Host {
		return fmt.Errorf("%w: %s", ErrForeignURL, u.Host)
	}
	return nil
}

// getJSON performs a GET with rate limiting and retry, decoding the body into out.
func (c *Client) getJSON(ctx context.Context, rawURL string, out any) error {
	if err := c.checkOrigin(rawURL); err != nil {
		return err
	}

	var lastErr error
	delay := c.initialDelay

	for attempt := 0; attempt <= maxRetries; attempt++ {
		if attempt > 0 {
			c.log.Warn("catalog request failed, retrying", "url", rawURL, "attempt", attempt, "delay", delay, "error", lastErr)
			if err := sleep(ctx, delay); err != nil {
				return err
			}
			delay = min(delay*2, c.maxDelay)
		}

		if err := c.rateLimiter.Wait(ctx); err != nil {
			return fmt.Errorf("rate limiter: %w", err)
		}

		retryAfter, retry, err := c.do(ctx, rawURL, out)
		if err == nil {
			return nil
		}
		if !retry {
			return err
		}
		lastErr = err
		if retryAfter > 0 {
			delay = min(retryAfter, c.maxDelay)
		}
	}

	return fmt.Errorf("request failed after %d attempts: %w", maxRetries+1, lastErr)
}

// do runs a single request. It reports whether the failure is worth retrying
// and any server-provided Retry-After delay.
func (c *Client) do(ctx context.Context, rawURL string, out any) (time.Duration, bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return 0, false, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", "starwars-api/1.0")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return 0, false, ctx.Err()
		}
		return 0, true, err
	}
	defer resp.Body.Close()

	body := io.LimitReader(resp.Body, maxBodyBytes)

	if resp.StatusCode != http.StatusOK {
		snippet, _ := io.ReadAll(io.LimitReader(body, 512))
		err := fmt.Errorf("HTTP %d: %s", resp.StatusCode, snippet)
		if shouldRetry(resp.StatusCode) {
			return retryAfter(resp.Header.Get("Retry-After")), true, err
		}
		return 0, false, err
	}

	if err := json.NewDecoder(body).Decode(out); err != nil {
		return 0, false, fmt.Errorf("decode response: %w", err)
	}
	return 0, false, nil
}

func shouldRetry(statusCode int) bool {
	return statusCode == http.StatusTooManyRequests || statusCode >= 500
}

func retryAfter(header string) time.Duration {
	if header == "" {
		return 0
	}
	if secs, err := strconv.Atoi(header); err == nil && secs > 0 {
		return time.Duration(secs) * time.Second
	}
	return 0
}

func sleep(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
