package museofile

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

const (
	DefaultLimit = 50
	MaxLimit     = 100
)

// ErrUnavailable is returned for any upstream failure: transport error,
// non-2xx status or an undecodable body.
var ErrUnavailable = errors.New("museum API unavailable")

type Client struct {
	baseURL    string
	httpClient *http.Client
}

func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		},
	}
}

// ClampLimit bounds limit to the upstream page size range.
func ClampLimit(limit int) int {
	if limit < 1 {
		return 1
	}
	if limit > MaxLimit {
		return MaxLimit
	}
	return limit
}

func (c *Client) searchURL(f Filter, limit int) (string, error) {
	u, err := url.Parse(c.baseURL)
	if err != nil {
		return "", err
	}
	q := u.Query()
	q.Set("limit", strconv.Itoa(ClampLimit(limit)))
	if where := f.Where(); where != "" {
		q.Set("where", where)
	}
	u.RawQuery = q.Encode()
	return u.String(), nil
}

// Search runs one upstream query. There is no retry and no cache.
func (c *Client) Search(ctx context.Context, f Filter, limit int) ([]Museum, error) {
	target, err := c.searchURL(f, limit)
	if err != nil {
		return nil, fmt.Errorf("%w: build url: %v", ErrUnavailable, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: create request: %v", ErrUnavailable, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: do request: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("%w: status %d", ErrUnavailable, resp.StatusCode)
	}

	var page recordsPage
	if err := json.NewDecoder(resp.Body).Decode(&page); err != nil {
		return nil, fmt.Errorf("%w: decode response: %v", ErrUnavailable, err)
	}

	out := make([]Museum, 0, len(page.Results))
	for _, r := range page.Results {
		out = append(out, r.museum())
	}
	return out, nil
}
