// Package prismic is a small client for the Prismic document API.
package prismic

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/gocolly/colly/v2"
	"github.com/nDmitry/spacetraveling/internal/app"
	"github.com/nDmitry/spacetraveling/internal/entity"
	"github.com/nDmitry/spacetraveling/internal/metrics"
	"golang.org/x/sync/singleflight"
	"golang.org/x/time/rate"
)

const accessTokenParam = "access_token"

// ErrNoMasterRef is returned when the repository does not advertise a master ref
var ErrNoMasterRef = errors.New("no master ref")

type Options struct {
	AccessToken string
	// Timeout of a single request, 10 seconds when zero.
	Timeout time.Duration
	// RateLimit is the maximum number of outgoing requests per second,
	// unlimited when zero.
	RateLimit float64
}

// Client queries a Prismic repository. It is safe for concurrent use.
type Client struct {
	endpoint    *url.URL
	accessToken string
	timeout     time.Duration
	transport   *http.Transport
	limiter     *rate.Limiter
	group       singleflight.Group
	logger      *slog.Logger
}

// NewClient creates a client for the API endpoint,
// e.g. https://spacetraveling.cdn.prismic.io/api/v2
func NewClient(endpoint string, opts Options) (*Client, error) {
	u, err := url.Parse(strings.TrimRight(endpoint, "/"))

	if err != nil {
		return nil, fmt.Errorf("could not parse endpoint %s: %w", endpoint, err)
	}

	if !u.IsAbs() || u.Host == "" {
		return nil, fmt.Errorf("endpoint %s must be an absolute URL", endpoint)
	}

	timeout := opts.Timeout

	if timeout == 0 {
		timeout = 10 * time.Second
	}

	limit := rate.Inf

	if opts.RateLimit > 0 {
		limit = rate.Limit(opts.RateLimit)
	}

	return &Client{
		endpoint:    u,
		accessToken: opts.AccessToken,
		timeout:     timeout,
		transport:   newTransport(timeout),
		limiter:     rate.NewLimiter(limit, 1),
		logger:      app.Logger(),
	}, nil
}

// Host returns the host the client talks to, cursors are only valid there.
func (c *Client) Host() string {
	return c.endpoint.Host
}

type apiInfo struct {
	Refs []apiRef `json:"refs"`
}

type apiRef struct {
	ID          string `json:"id"`
	Ref         string `json:"ref"`
	Label       string `json:"label"`
	IsMasterRef bool   `json:"isMasterRef"`
}

// SearchResponse is the document search response envelope.
type SearchResponse struct {
	Page             int           `json:"page"`
	ResultsPerPage   int           `json:"results_per_page"`
	ResultsSize      int           `json:"results_size"`
	TotalResultsSize int           `json:"total_results_size"`
	TotalPages       int           `json:"total_pages"`
	NextPage         *string       `json:"next_page"`
	PrevPage         *string       `json:"prev_page"`
	Results          []entity.Post `json:"results"`
}

// MasterRef returns the ref of the currently published content.
func (c *Client) MasterRef(ctx context.Context) (string, error) {
	u := *c.endpoint
	c.withAccessToken(&u)

	var info apiInfo

	if err := c.get(ctx, "master_ref", u.String(), &info); err != nil {
		return "", err
	}

	for _, r := range info.Refs {
		if r.IsMasterRef {
			return r.Ref, nil
		}
	}

	return "", ErrNoMasterRef
}

// QueryByType returns the first page of documents of the given type.
func (c *Client) QueryByType(ctx context.Context, documentType string, opts entity.QueryOptions) (*entity.PostPagination, error) {
	ref, err := c.MasterRef(ctx)

	if err != nil {
		return nil, fmt.Errorf("could not get master ref: %w", err)
	}

	u := c.endpoint.JoinPath("documents", "search")
	q := url.Values{}
	q.Set("ref", ref)
	q.Set("q", fmt.Sprintf(`[[at(document.type, "%s")]]`, documentType))

	if len(opts.Fetch) > 0 {
		fields := make([]string, len(opts.Fetch))

		for i, f := range opts.Fetch {
			fields[i] = documentType + "." + f
		}

		q.Set("fetch", strings.Join(fields, ","))
	}

	if opts.PageSize > 0 {
		q.Set("pageSize", strconv.Itoa(opts.PageSize))
	}

	u.RawQuery = q.Encode()
	c.withAccessToken(u)

	return c.search(ctx, "query", u.String())
}

// FetchPage follows a next_page cursor. Relative cursors are resolved
// against the endpoint.
func (c *Client) FetchPage(ctx context.Context, cursor string) (*entity.PostPagination, error) {
	ref, err := url.Parse(cursor)

	if err != nil {
		return nil, fmt.Errorf("could not parse cursor: %w", err)
	}

	u := c.endpoint.ResolveReference(ref)

	if u.Host != c.endpoint.Host {
		return nil, fmt.Errorf("cursor host %s does not match %s", u.Host, c.endpoint.Host)
	}

	c.withAccessToken(u)

	return c.search(ctx, "fetch_page", u.String())
}

func (c *Client) search(ctx context.Context, operation, rawURL string) (*entity.PostPagination, error) {
	var res SearchResponse

	if err := c.get(ctx, operation, rawURL, &res); err != nil {
		return nil, err
	}

	page := &entity.PostPagination{Results: res.Results}

	if res.NextPage != nil {
		page.NextPage = publicCursor(*res.NextPage)
	}

	return page, nil
}

// get performs a GET and decodes the JSON body into out. Concurrent calls
// for the same URL share one request. The shared request is detached from
// the caller that started it and bounded by the client timeout, each caller
// stops waiting when its own ctx is done.
func (c *Client) get(ctx context.Context, operation, rawURL string, out any) error {
	start := time.Now()

	ch := c.group.DoChan(rawURL, func() (any, error) {
		sharedCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), c.timeout)
		defer cancel()

		return c.visit(sharedCtx, rawURL)
	})

	var res singleflight.Result

	select {
	case <-ctx.Done():
		res.Err = fmt.Errorf("could not visit %s: %w", publicCursor(rawURL), ctx.Err())
	case res = <-ch:
	}

	metrics.ContentRequestDuration.WithLabelValues(operation).Observe(time.Since(start).Seconds())

	if res.Err != nil {
		metrics.ContentRequestsTotal.WithLabelValues(operation, "error").Inc()
		return res.Err
	}

	if err := json.Unmarshal(res.Val.([]byte), out); err != nil {
		metrics.ContentRequestsTotal.WithLabelValues(operation, "error").Inc()
		return fmt.Errorf("could not decode %s response: %w", operation, err)
	}

	metrics.ContentRequestsTotal.WithLabelValues(operation, "ok").Inc()

	c.logger.DebugContext(ctx, "Content API request",
		"operation", operation,
		"url", publicCursor(rawURL),
		"shared", res.Shared,
		"duration_ms", time.Since(start).Milliseconds())

	return nil
}

func (c *Client) visit(ctx context.Context, rawURL string) ([]byte, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter: %w", err)
	}

	collector := colly.NewCollector(
		colly.AllowedDomains(c.endpoint.Hostname()),
		colly.UserAgent(userAgent),
		colly.AllowURLRevisit(),
		colly.StdlibContext(ctx),
	)

	collector.WithTransport(c.transport)
	collector.SetRequestTimeout(c.timeout)

	var body []byte

	collector.OnRequest(func(r *colly.Request) {
		r.Headers.Set("Accept", "application/json")
	})

	collector.OnResponse(func(r *colly.Response) {
		body = r.Body
	})

	if err := collector.Visit(rawURL); err != nil {
		return nil, fmt.Errorf("could not visit %s: %w", publicCursor(rawURL), err)
	}

	if body == nil {
		return nil, fmt.Errorf("empty response from %s", publicCursor(rawURL))
	}

	return body, nil
}

func (c *Client) withAccessToken(u *url.URL) {
	if c.accessToken == "" {
		return
	}

	q := u.Query()
	q.Set(accessTokenParam, c.accessToken)
	u.RawQuery = q.Encode()
}

// publicCursor strips the access token from a URL handed out to browsers
// and written to logs.
func publicCursor(raw string) string {
	u, err := url.Parse(raw)

	if err != nil {
		return raw
	}

	q := u.Query()

	if !q.Has(accessTokenParam) {
		return raw
	}

	q.Del(accessTokenParam)
	u.RawQuery = q.Encode()

	return u.String()
}
