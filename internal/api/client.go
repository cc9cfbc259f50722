// Package api implements the typed REST client for the culinary
// academy platform. All endpoints live under the /api/v1 prefix.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/google/uuid"
	gocache "github.com/patrickmn/go-cache"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	slogctx "github.com/veqryn/slog-context"

	"github.com/firasabed78/culinary--academy/internal/config"
	"github.com/firasabed78/culinary--academy/internal/domain"
	"github.com/firasabed78/culinary--academy/internal/serviceerr"
)

const apiPrefix = "/api/v1"

// TokenSource yields the current bearer credential, if any.
type TokenSource interface {
	Get() (string, bool)
}

// Client talks to the platform API. A response signalling unauthorized
// from any authenticated endpoint triggers the registered
// OnUnauthorized hook exactly once per response.
type Client struct {
	baseURL    *url.URL
	httpClient *http.Client
	tokens     TokenSource
	tracer     trace.Tracer

	onUnauthorized func()

	courses *gocache.Cache
}

type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client, used by tests.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithOnUnauthorized registers the cross-cutting unauthorized hook.
func WithOnUnauthorized(fn func()) Option {
	return func(c *Client) { c.onUnauthorized = fn }
}

func NewClient(cfg config.API, tokens TokenSource, opts ...Option) (*Client, error) {
	base, err := url.Parse(cfg.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("parsing base URL: %w", err)
	}

	c := &Client{
		baseURL:    base,
		httpClient: &http.Client{Timeout: cfg.RequestTimeout},
		tokens:     tokens,
		tracer:     otel.Tracer("academy/api"),
		courses:    gocache.New(cfg.CourseCacheTTL, 2*cfg.CourseCacheTTL),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}
	return c, nil
}

// request describes one API call. Anonymous requests carry no bearer
// header and never trigger the unauthorized hook. raw takes precedence
// over form and body and must come with its contentType.
type request struct {
	method      string
	path        string
	query       url.Values
	body        any
	form        url.Values
	raw         io.Reader
	contentType string
	anonymous   bool
}

func (c *Client) do(ctx context.Context, req request, out any) error {
	u := *c.baseURL
	// keep any path prefix of the configured base URL, such as a
	// reverse proxy mount point
	u.Path = strings.TrimSuffix(u.Path, "/") + apiPrefix + req.path
	if req.query != nil {
		u.RawQuery = req.query.Encode()
	}

	ctx, span := c.tracer.Start(ctx, req.method+" "+apiPrefix+req.path,
		trace.WithAttributes(
			attribute.String("http.method", req.method),
			attribute.String("http.route", apiPrefix+req.path),
		))
	defer span.End()

	var body io.Reader
	contentType := ""
	switch {
	case req.raw != nil:
		body = req.raw
		contentType = req.contentType
	case req.form != nil:
		body = bytes.NewBufferString(req.form.Encode())
		contentType = "application/x-www-form-urlencoded"
	case req.body != nil:
		data, err := json.Marshal(req.body)
		if err != nil {
			return fmt.Errorf("encoding request body: %w", err)
		}
		body = bytes.NewReader(data)
		contentType = "application/json"
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.method, u.String(), body)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	if contentType != "" {
		httpReq.Header.Set("Content-Type", contentType)
	}
	httpReq.Header.Set("X-Request-ID", uuid.NewString())
	if !req.anonymous {
		if token, ok := c.tokens.Get(); ok {
			httpReq.Header.Set("Authorization", "Bearer "+token)
		}
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		span.RecordError(err)
		return fmt.Errorf("executing request: %w", errors.Join(serviceerr.ErrNetwork, err))
	}
	defer resp.Body.Close()

	span.SetAttributes(attribute.Int("http.status_code", resp.StatusCode))

	if resp.StatusCode >= 400 {
		apiErr := c.errorFromResponse(resp)
		if resp.StatusCode == http.StatusUnauthorized && !req.anonymous && c.onUnauthorized != nil {
			slogctx.Debug(ctx, "Unauthorized response, triggering session cleanup", "path", req.path)
			c.onUnauthorized()
		}
		return apiErr
	}

	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decoding response: %w", err)
	}
	return nil
}

// errorFromResponse maps a non-2xx response onto the error taxonomy,
// preserving the server's detail text.
func (c *Client) errorFromResponse(resp *http.Response) error {
	var payload struct {
		Detail string `json:"detail"`
	}
	// a non-JSON body leaves Detail empty, which is fine
	_ = json.NewDecoder(io.LimitReader(resp.Body, 1<<20)).Decode(&payload)

	var kind error
	switch resp.StatusCode {
	case http.StatusUnauthorized:
		kind = serviceerr.ErrUnauthorized
	case http.StatusBadRequest, http.StatusUnprocessableEntity:
		kind = serviceerr.ErrValidation
	case http.StatusNotFound:
		kind = serviceerr.ErrNotFound
	case http.StatusConflict:
		kind = serviceerr.ErrConflict
	default:
		kind = serviceerr.ErrNetwork
	}
	return serviceerr.NewAPIError(resp.StatusCode, payload.Detail, kind)
}

func pageQuery(p domain.PageParams) url.Values {
	q := url.Values{}
	if p.Skip > 0 {
		q.Set("skip", strconv.Itoa(p.Skip))
	}
	if p.Limit > 0 {
		q.Set("limit", strconv.Itoa(p.Limit))
	}
	return q
}

// listPage fetches a list endpoint. The platform emits a bare JSON
// array; the pagination envelope is assembled locally.
func listPage[T any](ctx context.Context, c *Client, path string, q url.Values, p domain.PageParams) (domain.Page[T], error) {
	var items []T
	if err := c.do(ctx, request{method: http.MethodGet, path: path, query: q}, &items); err != nil {
		return domain.Page[T]{}, err
	}
	return domain.Page[T]{Items: items, Total: len(items), Skip: p.Skip, Limit: p.Limit}, nil
}
