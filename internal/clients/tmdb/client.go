// Package tmdb is the HTTP client for the upstream movie metadata API.
//
// List-shaped calls are fail-soft: any transport, status, timeout or decode
// problem is logged and turned into an empty result. Only FetchMovie reports
// errors, because resolution has to tell "not found" apart from success.
package tmdb

import (
	"context"
	"errors"
	"filmhub/proj/internal/config"
	"filmhub/proj/internal/metrics"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/avast/retry-go/v4"
	"github.com/goccy/go-json"
	"github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/sony/gobreaker/v2"
)

const (
	EndpointPopular       = "/movie/popular"
	EndpointTopRated      = "/movie/top_rated"
	EndpointDiscover      = "/discover/movie"
	EndpointSearchMovie   = "/search/movie"
	EndpointSearchPerson  = "/search/person"
	endpointPersonCredits = "/person/{id}/movie_credits"
	endpointMovieDetails  = "/movie/{id}"

	breakerName = "tmdb"
	maxBodySize = 5 << 20
)

type HTTPDoer interface {
	Do(*http.Request) (*http.Response, error)
}

type Client struct {
	log     *slog.Logger
	cfg     config.TMDB
	baseURL string
	http    HTTPDoer
	breaker *gobreaker.CircuitBreaker[[]byte]
	cache   *expirable.LRU[string, []byte]
}

type Option func(*Client)

func WithHTTPClient(doer HTTPDoer) Option {
	return func(c *Client) {
		if doer != nil {
			c.http = doer
		}
	}
}

func New(log *slog.Logger, cfg config.TMDB, opts ...Option) *Client {
	cfg = withDefaults(cfg)
	c := &Client{
		log:     log,
		cfg:     cfg,
		baseURL: strings.TrimSuffix(cfg.BaseURL, "/"),
		http:    &http.Client{Timeout: cfg.Timeout},
	}
	if cfg.CacheTTL > 0 && cfg.CacheSize > 0 {
		c.cache = expirable.NewLRU[string, []byte](cfg.CacheSize, nil, cfg.CacheTTL)
	}
	metrics.CircuitBreakerState.WithLabelValues(breakerName).Set(0)
	c.breaker = gobreaker.NewCircuitBreaker[[]byte](gobreaker.Settings{
		Name:        breakerName,
		MaxRequests: cfg.Breaker.MaxRequests,
		Interval:    cfg.Breaker.Interval,
		Timeout:     cfg.Breaker.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < cfg.Breaker.MinRequests {
				return false
			}
			return float64(counts.TotalFailures)/float64(counts.Requests) >= cfg.Breaker.FailureRatio
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.Warn("circuit breaker state changed", "name", name, "from", from.String(), "to", to.String())
			metrics.CircuitBreakerState.WithLabelValues(name).Set(float64(to))
		},
		IsSuccessful: func(err error) bool {
			return err == nil || clientSide(err) || errors.Is(err, context.Canceled)
		},
	})
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func withDefaults(cfg config.TMDB) config.TMDB {
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://api.themoviedb.org/3"
	}
	if cfg.ImageBaseURL == "" {
		cfg.ImageBaseURL = "https://image.tmdb.org/t/p/w500"
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 5 * time.Second
	}
	if cfg.Breaker.MaxRequests == 0 {
		cfg.Breaker.MaxRequests = 3
	}
	if cfg.Breaker.MinRequests == 0 {
		cfg.Breaker.MinRequests = 10
	}
	if cfg.Breaker.FailureRatio <= 0 {
		cfg.Breaker.FailureRatio = 0.6
	}
	if cfg.Breaker.Timeout <= 0 {
		cfg.Breaker.Timeout = 30 * time.Second
	}
	return cfg
}

// ImageBaseURL is the CDN prefix poster paths are appended to.
func (c *Client) ImageBaseURL() string {
	return c.cfg.ImageBaseURL
}

type request struct {
	label     string
	path      string
	params    url.Values
	cacheable bool
}

func (c *Client) cacheKey(req request) string {
	return req.path + "?" + req.params.Encode()
}

// fetch performs req and decodes the body into dst. Bodies are cached only
// after they decoded successfully.
func (c *Client) fetch(ctx context.Context, req request, dst any) error {
	key := c.cacheKey(req)
	if c.cache != nil && req.cacheable {
		if body, ok := c.cache.Get(key); ok {
			metrics.UpstreamCacheHits.Inc()
			return json.Unmarshal(body, dst)
		}
		metrics.UpstreamCacheMisses.Inc()
	}
	body, err := c.get(ctx, req)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(body, dst); err != nil {
		return fmt.Errorf("tmdb: decode %s: %w", req.label, err)
	}
	if c.cache != nil && req.cacheable {
		c.cache.Add(key, body)
	}
	return nil
}

func (c *Client) get(ctx context.Context, req request) ([]byte, error) {
	log := c.log.With("op", "tmdb.Client.get", "endpoint", req.label)
	start := time.Now()
	body, err := c.breaker.Execute(func() ([]byte, error) {
		return retry.DoWithData(
			func() ([]byte, error) { return c.do(ctx, req) },
			retry.Context(ctx),
			retry.Attempts(c.cfg.RetryAttempts+1),
			retry.Delay(c.cfg.RetryDelay),
			retry.DelayType(retry.BackOffDelay),
			retry.RetryIf(retryable),
			retry.LastErrorOnly(true),
			retry.OnRetry(func(n uint, err error) {
				log.Debug("retrying upstream request", "attempt", n+1, "reason", err.Error())
			}),
		)
	})
	metrics.UpstreamDuration.WithLabelValues(req.label).Observe(time.Since(start).Seconds())
	switch {
	case err == nil:
		metrics.UpstreamRequests.WithLabelValues(req.label, "ok").Inc()
	case errors.Is(err, gobreaker.ErrOpenState), errors.Is(err, gobreaker.ErrTooManyRequests):
		metrics.UpstreamRequests.WithLabelValues(req.label, "rejected").Inc()
	default:
		metrics.UpstreamRequests.WithLabelValues(req.label, "error").Inc()
	}
	return body, err
}

func (c *Client) do(ctx context.Context, req request) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, c.cfg.Timeout)
	defer cancel()

	params := url.Values{}
	for k, v := range req.params {
		params[k] = v
	}
	params.Set("api_key", c.cfg.APIKey)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+req.path+"?"+params.Encode(), nil)
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Accept", "application/json")
	resp, err := c.http.Do(httpReq)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		io.Copy(io.Discard, io.LimitReader(resp.Body, maxBodySize))
		return nil, &statusError{code: resp.StatusCode, path: req.label}
	}
	return io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
}

func fetchResults[T any](ctx context.Context, c *Client, req request) []T {
	var p page[T]
	if err := c.fetch(ctx, req, &p); err != nil {
		c.log.Warn("upstream request failed, returning empty result", "op", "tmdb.fetchResults", "endpoint", req.label, "error", err.Error())
		return []T{}
	}
	if p.Results == nil {
		return []T{}
	}
	return p.Results
}

// FetchPage returns the results of the first page of a list endpoint. It
// never fails: problems yield an empty slice. params is not modified.
func (c *Client) FetchPage(ctx context.Context, endpoint string, params url.Values) []RawMovie {
	query := make(url.Values, len(params)+1)
	for k, v := range params {
		query[k] = append([]string(nil), v...)
	}
	if query.Get("page") == "" {
		query.Set("page", "1")
	}
	return fetchResults[RawMovie](ctx, c, request{label: endpoint, path: endpoint, params: query, cacheable: true})
}

func (c *Client) Popular(ctx context.Context) []RawMovie {
	return c.FetchPage(ctx, EndpointPopular, nil)
}

func (c *Client) TopRated(ctx context.Context) []RawMovie {
	return c.FetchPage(ctx, EndpointTopRated, nil)
}

func (c *Client) DiscoverByGenre(ctx context.Context, genreID int) []RawMovie {
	return c.FetchPage(ctx, EndpointDiscover, url.Values{
		"with_genres": {strconv.Itoa(genreID)},
		"sort_by":     {"popularity.desc"},
	})
}

func (c *Client) SearchMovies(ctx context.Context, query string) []RawMovie {
	query = strings.TrimSpace(query)
	if query == "" {
		return []RawMovie{}
	}
	return c.FetchPage(ctx, EndpointSearchMovie, url.Values{
		"query":         {query},
		"include_adult": {"false"},
	})
}

func (c *Client) SearchPerson(ctx context.Context, name string) []RawPerson {
	name = strings.TrimSpace(name)
	if name == "" {
		return []RawPerson{}
	}
	return fetchResults[RawPerson](ctx, c, request{
		label:     EndpointSearchPerson,
		path:      EndpointSearchPerson,
		params:    url.Values{"query": {name}, "page": {"1"}},
		cacheable: true,
	})
}

// PersonCredits returns the crew credits of a person.
func (c *Client) PersonCredits(ctx context.Context, personID int64) []RawCredit {
	var out credits
	req := request{
		label:     endpointPersonCredits,
		path:      fmt.Sprintf("/person/%d/movie_credits", personID),
		params:    url.Values{},
		cacheable: true,
	}
	if err := c.fetch(ctx, req, &out); err != nil {
		c.log.Warn("upstream request failed, returning empty result", "op", "tmdb.Client.PersonCredits", "person_id", personID, "error", err.Error())
		return []RawCredit{}
	}
	if out.Crew == nil {
		return []RawCredit{}
	}
	return out.Crew
}

// FetchMovie loads a single movie by its upstream id. A 404 is reported as
// ErrMovieNotFound, anything else as ErrUnavailable.
func (c *Client) FetchMovie(ctx context.Context, externalID int64) (*RawMovie, error) {
	const op = "tmdb.Client.FetchMovie"
	log := c.log.With("op", op, "external_id", externalID)
	if externalID <= 0 {
		return nil, ErrMovieNotFound
	}
	var details movieDetails
	req := request{
		label:     endpointMovieDetails,
		path:      fmt.Sprintf("/movie/%d", externalID),
		params:    url.Values{},
		cacheable: true,
	}
	if err := c.fetch(ctx, req, &details); err != nil {
		var se *statusError
		if errors.As(err, &se) && se.code == http.StatusNotFound {
			log.Info("movie not found upstream")
			return nil, ErrMovieNotFound
		}
		log.Warn("failed to fetch movie", "error", err.Error())
		return nil, fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	return details.toRaw(), nil
}
