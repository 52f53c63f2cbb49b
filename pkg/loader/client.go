// Package loader fetches the category tree and page content, either from
// the content API over HTTP or from a local JSON file.
package loader

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	json "github.com/goccy/go-json"
	"golang.org/x/time/rate"

	"github.com/vanderheijden86/sitenav/pkg/debug"
	"github.com/vanderheijden86/sitenav/pkg/model"
)

const (
	// DefaultTimeout is the default HTTP request timeout.
	DefaultTimeout = 15 * time.Second

	// DefaultRateLimit caps requests per second against the content API.
	DefaultRateLimit = 5.0

	// maxBodySize bounds how much of a response body is read.
	maxBodySize = 8 << 20
)

// Source supplies the flat node list and page content. Both Client and
// FileSource implement it.
type Source interface {
	FetchTree(ctx context.Context) ([]model.Node, error)
	FetchResource(ctx context.Context, id string) (*model.Resource, error)
}

// Client is a rate-limited HTTP client for the content API.
type Client struct {
	httpClient *http.Client
	limiter    *rate.Limiter
	baseURL    string
	userAgent  string
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithTimeout sets the per-request timeout of the default HTTP client.
func WithTimeout(d time.Duration) ClientOption {
	return func(c *Client) {
		if d > 0 {
			c.httpClient.Timeout = d
		}
	}
}

// WithRateLimit sets the request rate. Zero or negative disables limiting.
func WithRateLimit(perSecond float64) ClientOption {
	return func(c *Client) {
		if perSecond <= 0 {
			c.limiter = rate.NewLimiter(rate.Inf, 1)
			return
		}
		c.limiter = rate.NewLimiter(rate.Limit(perSecond), 1)
	}
}

// WithUserAgent sets the User-Agent header.
func WithUserAgent(ua string) ClientOption {
	return func(c *Client) {
		c.userAgent = ua
	}
}

// NewClient creates a content API client rooted at baseURL.
func NewClient(baseURL string, opts ...ClientOption) *Client {
	c := &Client{
		httpClient: &http.Client{Timeout: DefaultTimeout},
		limiter:    rate.NewLimiter(rate.Limit(DefaultRateLimit), 1),
		baseURL:    strings.TrimRight(baseURL, "/"),
		userAgent:  "sitenav",
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL returns the API root the client talks to.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// FetchTree retrieves the flat category list from {api}/resources/tree.
func (c *Client) FetchTree(ctx context.Context) ([]model.Node, error) {
	defer debug.LogEnterExit("loader.FetchTree")()

	body, err := c.get(ctx, "/resources/tree")
	if err != nil {
		return nil, err
	}

	var nodes []model.Node
	if err := json.Unmarshal(body, &nodes); err != nil {
		return nil, fmt.Errorf("%w: parsing tree: %v", ErrInvalidResponse, err)
	}
	debug.Log("fetched %d nodes", len(nodes))
	return nodes, nil
}

// FetchResource retrieves one page from {api}/resources/{id}.
func (c *Client) FetchResource(ctx context.Context, id string) (*model.Resource, error) {
	if id == "" {
		return nil, fmt.Errorf("%w: empty resource id", ErrNotFound)
	}

	body, err := c.get(ctx, "/resources/"+url.PathEscape(id))
	if err != nil {
		return nil, err
	}

	var res model.Resource
	if err := json.Unmarshal(body, &res); err != nil {
		return nil, fmt.Errorf("%w: parsing resource %s: %v", ErrInvalidResponse, id, err)
	}
	if res.ID == "" {
		res.ID = id
	}
	return &res, nil
}

func (c *Client) get(ctx context.Context, path string) ([]byte, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNetworkError, err)
	}
	defer resp.Body.Close()
	debug.LogTiming("GET "+path, time.Since(start))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, &APIError{
			StatusCode: resp.StatusCode,
			Path:       path,
			Message:    strings.TrimSpace(string(msg)),
		}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return nil, fmt.Errorf("%w: reading body: %v", ErrNetworkError, err)
	}
	return body, nil
}
