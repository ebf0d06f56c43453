// Package client provides the SWAPI data access client: one GET per page,
// decoded into a typed page envelope.
package client

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"path"
	"strconv"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Prometheus metrics for SWAPI client operations.
var (
	swapiRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "swapi_requests_total",
		Help: "Total SWAPI requests by resource and status",
	}, []string{"resource", "status"})

	swapiRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "swapi_request_duration_seconds",
		Help:    "SWAPI request duration in seconds by resource",
		Buckets: []float64{0.1, 0.25, 0.5, 1, 2, 5, 10},
	}, []string{"resource"})

	swapiErrorsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "swapi_errors_total",
		Help: "Total failed SWAPI requests by resource",
	}, []string{"resource"})
)

const (
	// DefaultBaseURL is the public SWAPI root.
	DefaultBaseURL = "https://swapi.dev/api"

	// DefaultUserAgent is sent when no User-Agent is configured by the caller.
	DefaultUserAgent = "swapi-browser/dev"

	// DefaultTimeout bounds a single round trip.
	DefaultTimeout = 30 * time.Second
)

// Client is the SWAPI data access client. It is safe for concurrent use.
type Client struct {
	httpClient *http.Client
	baseURL    *url.URL
	config     Config
	logger     zerolog.Logger
}

// Config holds the client configuration.
type Config struct {
	// BaseURL is the API root; resource paths are appended to it.
	BaseURL string

	// UserAgent header sent with every request.
	UserAgent string

	// Timeout for a single request. Ignored when HTTPClient is set.
	Timeout time.Duration

	// HTTPClient overrides the default transport (tests, proxies).
	HTTPClient *http.Client
}

// DefaultConfig returns the configuration for the public service.
func DefaultConfig() Config {
	return Config{
		BaseURL:   DefaultBaseURL,
		UserAgent: DefaultUserAgent,
		Timeout:   DefaultTimeout,
	}
}

// New creates a new SWAPI client.
func New(cfg Config) (*Client, error) {
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("base url is required")
	}

	base, err := url.Parse(cfg.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse base url: %w", err)
	}
	if (base.Scheme != "http" && base.Scheme != "https") || base.Host == "" {
		return nil, fmt.Errorf("base url must be an absolute http(s) url (got %q)", cfg.BaseURL)
	}

	if cfg.UserAgent == "" {
		return nil, fmt.Errorf("user-agent is required")
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = DefaultTimeout
		}
		httpClient = &http.Client{Timeout: timeout}
	}

	return &Client{
		httpClient: httpClient,
		baseURL:    base,
		config:     cfg,
		logger:     log.With().Str("component", "swapi-client").Logger(),
	}, nil
}

// BaseURL returns the configured API root.
func (c *Client) BaseURL() string {
	return c.baseURL.String()
}

// PageURL builds the URL of one page of a collection. The page number is
// forwarded as given; the service decides what an invalid page means.
func (c *Client) PageURL(resource Resource, page int) string {
	u := c.baseURL.JoinPath(string(resource))
	q := u.Query()
	q.Set("page", strconv.Itoa(page))
	u.RawQuery = q.Encode()
	return u.String()
}

// FetchPeople fetches one page of the people collection.
func (c *Client) FetchPeople(ctx context.Context, page int) (*PeoplePage, error) {
	return fetchPage[Person](ctx, c, ResourcePeople, page)
}

// FetchPlanets fetches one page of the planets collection.
func (c *Client) FetchPlanets(ctx context.Context, page int) (*PlanetPage, error) {
	return fetchPage[Planet](ctx, c, ResourcePlanets, page)
}

// FetchPage fetches one page of any collection and returns the raw body
// together with the total number of pages. The total is derived from the
// size of the fetched page, so it is only exact for a full page (page 1).
func (c *Client) FetchPage(ctx context.Context, resource Resource, page int) ([]byte, int, error) {
	body, err := c.get(ctx, resource, page)
	if err != nil {
		return nil, 0, err
	}

	var env Page[json.RawMessage]
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, 0, fmt.Errorf("%w: %s page %d: %v", ErrDecode, resource, page, err)
	}

	totalPages := env.TotalPages(len(env.Results))
	if totalPages == 0 {
		totalPages = 1
	}
	return body, totalPages, nil
}

// Do executes a single request. Any response outside 2xx is turned into an
// *HTTPError and its body is closed. There is no retry.
func (c *Client) Do(req *http.Request) (*http.Response, error) {
	resource := resourceLabel(req.URL.Path)

	startTime := time.Now()
	defer func() {
		swapiRequestDuration.WithLabelValues(resource).Observe(time.Since(startTime).Seconds())
	}()

	req.Header.Set("User-Agent", c.config.UserAgent)
	req.Header.Set("Accept", "application/json")

	c.logger.Debug().
		Str("url", req.URL.String()).
		Str("method", req.Method).
		Msg("Executing SWAPI request")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		swapiErrorsTotal.WithLabelValues(resource).Inc()
		swapiRequestsTotal.WithLabelValues(resource, "network_error").Inc()
		c.logger.Error().Err(err).Str("url", req.URL.String()).Msg("HTTP request failed")
		return nil, fmt.Errorf("%s %s: %w", req.Method, req.URL.Redacted(), err)
	}

	swapiRequestsTotal.WithLabelValues(resource, strconv.Itoa(resp.StatusCode)).Inc()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		swapiErrorsTotal.WithLabelValues(resource).Inc()
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		resp.Body.Close()

		c.logger.Warn().
			Str("url", req.URL.String()).
			Int("status", resp.StatusCode).
			Msg("SWAPI request error")

		return nil, &HTTPError{
			StatusCode: resp.StatusCode,
			Status:     resp.Status,
			URL:        req.URL.String(),
		}
	}

	return resp, nil
}

// get performs the GET for one page and returns the full body.
func (c *Client) get(ctx context.Context, resource Resource, page int) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.PageURL(resource, page), nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	resp, err := c.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read %s page %d: %w", resource, page, err)
	}

	c.logger.Debug().
		Str("resource", string(resource)).
		Int("page", page).
		Int("bytes", len(body)).
		Msg("Fetched page")

	return body, nil
}

// fetchPage fetches and decodes one page of a collection.
func fetchPage[T any](ctx context.Context, c *Client, resource Resource, page int) (*Page[T], error) {
	body, err := c.get(ctx, resource, page)
	if err != nil {
		return nil, err
	}

	var p Page[T]
	if err := json.Unmarshal(body, &p); err != nil {
		return nil, fmt.Errorf("%w: %s page %d: %v", ErrDecode, resource, page, err)
	}
	return &p, nil
}

// resourceLabel keeps the metric label set bounded to known collections.
func resourceLabel(p string) string {
	name := path.Base(strings.TrimSuffix(p, "/"))
	for _, r := range Resources {
		if name == string(r) {
			return name
		}
	}
	return "other"
}
