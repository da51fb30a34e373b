// internal/adapters/places/client.go
package places

import (
	"bytes"
	"context"
	crand "crypto/rand"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"

	"reelmap/internal/adapters/observability"
	"reelmap/internal/domain"
)

const (
	DefaultBaseURL    = "https://places.googleapis.com/v1"
	DefaultRegionCode = "SG"

	// SearchFieldMask is the minimum the selector and assembler read from a hit.
	SearchFieldMask = "places.id,places.displayName,places.formattedAddress,places.shortFormattedAddress," +
		"places.location,places.types,places.photos,places.googleMapsUri,places.rating,places.userRatingCount"
	DetailsFieldMask = "id,displayName,formattedAddress,location,types,websiteUri," +
		"internationalPhoneNumber,rating,userRatingCount,priceLevel"

	maxBody = 8 << 20
)

type Options struct {
	BaseURL      string
	APIKey       string
	RegionCode   string
	LocationBias *Circle
	Timeout      time.Duration
	RPS          int
	MaxAttempts  int
	BackoffBase  time.Duration
	HTTPClient   *http.Client
}

type Client struct {
	base        string
	hc          *http.Client
	key         string
	region      string
	bias        *Circle
	rl          *rate.Limiter
	attempts    int
	backoffBase time.Duration
}

// New validates the credential up front so a missing key fails before
// any request is sent.
func New(o Options) (*Client, error) {
	if strings.TrimSpace(o.APIKey) == "" {
		return nil, fmt.Errorf("%w: GOOGLE_MAPS_API_KEY is not set", domain.ErrConfiguration)
	}
	if o.BaseURL == "" {
		o.BaseURL = DefaultBaseURL
	}
	if o.RegionCode == "" {
		o.RegionCode = DefaultRegionCode
	}
	if o.Timeout <= 0 {
		o.Timeout = 60 * time.Second
	}
	if o.RPS <= 0 {
		o.RPS = 5
	}
	if o.MaxAttempts <= 0 {
		o.MaxAttempts = 3
	}
	if o.BackoffBase <= 0 {
		o.BackoffBase = 200 * time.Millisecond
	}
	hc := o.HTTPClient
	if hc == nil {
		hc = &http.Client{Timeout: o.Timeout}
	}
	return &Client{
		base:        strings.TrimRight(o.BaseURL, "/"),
		hc:          hc,
		key:         o.APIKey,
		region:      o.RegionCode,
		bias:        o.LocationBias,
		rl:          rate.NewLimiter(rate.Limit(o.RPS), o.RPS),
		attempts:    o.MaxAttempts,
		backoffBase: o.BackoffBase,
	}, nil
}

// ---- Public API ----

type searchRequest struct {
	TextQuery    string        `json:"textQuery"`
	RegionCode   string        `json:"regionCode,omitempty"`
	LocationBias *locationBias `json:"locationBias,omitempty"`
}

type locationBias struct {
	Circle *Circle `json:"circle"`
}

// Search runs a text search. Zero hits is an empty result, not an error.
func (c *Client) Search(ctx context.Context, query string) (domain.SearchResult, error) {
	body := searchRequest{TextQuery: query, RegionCode: c.region}
	if c.bias != nil {
		body.LocationBias = &locationBias{Circle: c.bias}
	}
	payload, err := json.Marshal(body)
	if err != nil {
		return domain.SearchResult{}, err
	}

	raw, err := c.do(ctx, "search", http.MethodPost, c.base+"/places:searchText", SearchFieldMask, payload)
	if err != nil {
		return domain.SearchResult{}, err
	}
	var out domain.SearchResult
	if err := json.Unmarshal(raw, &out); err != nil {
		return domain.SearchResult{}, &domain.ProviderError{Op: "search", Err: fmt.Errorf("decode: %w", err)}
	}
	out.Raw = raw
	if out.Skipped > 0 {
		log.Warn().Str("query", query).Int("skipped", out.Skipped).Msg("malformed search hits skipped")
	}
	return out, nil
}

// Details fetches the field-masked record for one place.
func (c *Client) Details(ctx context.Context, placeID string) (domain.RawPlaceDetails, error) {
	if placeID == "" {
		return domain.RawPlaceDetails{}, &domain.ProviderError{Op: "details", Err: errors.New("empty place id")}
	}
	u := c.base + "/places/" + url.PathEscape(placeID)
	raw, err := c.do(ctx, "details", http.MethodGet, u, DetailsFieldMask, nil)
	if err != nil {
		return domain.RawPlaceDetails{}, err
	}
	var out domain.RawPlaceDetails
	if err := json.Unmarshal(raw, &out); err != nil {
		return domain.RawPlaceDetails{}, &domain.ProviderError{Op: "details", Err: fmt.Errorf("decode: %w", err)}
	}
	return out, nil
}

// ---- Internals ----

// do sends one logical request with client-side rate limiting and retries.
// Retries on transport errors, 429 and transient 5xx, honoring Retry-After.
func (c *Client) do(ctx context.Context, op, method, u, fieldMask string, payload []byte) ([]byte, error) {
	if c.key == "" {
		return nil, fmt.Errorf("%w: GOOGLE_MAPS_API_KEY is not set", domain.ErrConfiguration)
	}

	var lastErr error
	for i := 0; i < c.attempts; i++ {
		if err := c.rl.Wait(ctx); err != nil {
			return nil, &domain.ProviderError{Op: op, Err: err}
		}

		// build a fresh request each attempt
		var body io.Reader
		if payload != nil {
			body = bytes.NewReader(payload)
		}
		req, err := http.NewRequestWithContext(ctx, method, u, body)
		if err != nil {
			return nil, &domain.ProviderError{Op: op, Err: err}
		}
		req.Header.Set("X-Goog-Api-Key", c.key)
		req.Header.Set("X-Goog-FieldMask", fieldMask)
		req.Header.Set("Accept", "application/json")
		req.Header.Set("User-Agent", "reelmap/1.0")
		if payload != nil {
			req.Header.Set("Content-Type", "application/json")
		}

		start := time.Now()
		resp, err := c.hc.Do(req)
		if err != nil {
			observability.ObserveExternal("places", op, 0, time.Since(start))
			if ctx.Err() != nil {
				return nil, &domain.ProviderError{Op: op, Err: ctx.Err()}
			}
			lastErr = &domain.ProviderError{Op: op, Retryable: true, Err: err}
			if i < c.attempts-1 && sleepCtx(ctx, c.backoff(i)) {
				continue
			}
			return nil, lastErr
		}
		observability.ObserveExternal("places", op, resp.StatusCode, time.Since(start))

		switch {
		case resp.StatusCode >= 200 && resp.StatusCode < 300:
			b, err := io.ReadAll(io.LimitReader(resp.Body, maxBody))
			resp.Body.Close()
			if err != nil {
				return nil, &domain.ProviderError{Op: op, Status: resp.StatusCode, Err: err}
			}
			if len(bytes.TrimSpace(b)) == 0 {
				b = []byte("{}")
			}
			return b, nil

		case resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500:
			// Prefer server-provided Retry-After; otherwise exponential backoff.
			wait := retryAfter(resp)
			snippet := readSnippet(resp.Body)
			resp.Body.Close()
			if wait == 0 {
				wait = c.backoff(i)
			}
			lastErr = &domain.ProviderError{Op: op, Status: resp.StatusCode, Retryable: true, Err: errors.New(snippet)}
			if i < c.attempts-1 && sleepCtx(ctx, wait) {
				continue
			}
			return nil, lastErr

		default:
			snippet := readSnippet(resp.Body)
			resp.Body.Close()
			return nil, &domain.ProviderError{Op: op, Status: resp.StatusCode, Err: errors.New(snippet)}
		}
	}
	return nil, lastErr
}

// readSnippet reads a small error body for diagnostics.
func readSnippet(r io.Reader) string {
	b, _ := io.ReadAll(io.LimitReader(r, 4096))
	s := strings.TrimSpace(string(b))
	if s == "" {
		return "empty response body"
	}
	return s
}

// sleepCtx waits for d or returns early if ctx is done.
func sleepCtx(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return true
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}

// retryAfter parses Retry-After header (seconds or HTTP-date). Returns 0 if absent/invalid.
func retryAfter(resp *http.Response) time.Duration {
	h := resp.Header.Get("Retry-After")
	if h == "" {
		return 0
	}
	if secs, err := strconv.Atoi(strings.TrimSpace(h)); err == nil && secs >= 0 {
		return time.Duration(secs) * time.Second
	}
	if t, err := http.ParseTime(h); err == nil {
		if d := time.Until(t); d > 0 {
			return d
		}
	}
	return 0
}

// backoff doubles the base each attempt with up to +50% jitter.
func (c *Client) backoff(i int) time.Duration {
	base := time.Duration(1<<i) * c.backoffBase
	var b [1]byte
	if _, err := crand.Read(b[:]); err != nil {
		return base
	}
	f := float64(b[0]) / 255.0
	return base + time.Duration(0.5*f*float64(base))
}
