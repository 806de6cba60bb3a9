// Package client adapts the console's collaborator interfaces to the
// business API served under /api/v1.
package client

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/go-faster/errors"
	"github.com/go-faster/jx"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/xenking/orbit-console/internal/domain/product"
)

const (
	apiPrefix       = "/api/v1"
	maxResponseSize = 10 << 20
	tracerName      = "github.com/xenking/orbit-console/internal/client"
)

// TokenSource supplies the bearer token for each request.
type TokenSource interface {
	Token() string
}

// TokenFunc adapts a function to TokenSource.
type TokenFunc func() string

func (f TokenFunc) Token() string { return f() }

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the default instrumented HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.http = hc
	}
}

// WithTokenSource sets where bearer tokens come from.
func WithTokenSource(ts TokenSource) Option {
	return func(c *Client) {
		c.tokens = ts
	}
}

// WithTracerProvider sets the provider used for client spans.
func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(c *Client) {
		c.tracer = tp.Tracer(tracerName)
	}
}

// Client talks to the business API. It is safe for concurrent use.
type Client struct {
	base   *url.URL
	http   *http.Client
	tokens TokenSource
	tracer trace.Tracer
}

// New creates a Client for the API rooted at baseURL.
func New(baseURL string, opts ...Option) (*Client, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, errors.Wrap(err, "parse base url")
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, errors.Errorf("base url %q: scheme must be http or https", baseURL)
	}

	c := &Client{
		base:   u,
		http:   &http.Client{Transport: otelhttp.NewTransport(http.DefaultTransport)},
		tokens: TokenFunc(func() string { return "" }),
		tracer: otel.GetTracerProvider().Tracer(tracerName),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// APIError is a non-2xx response. Detail is the server's explanation, shown
// to the operator verbatim.
type APIError struct {
	StatusCode int
	Detail     string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api: %d: %s", e.StatusCode, e.Detail)
}

// isStatus reports whether err is an *APIError with the given status code.
func isStatus(err error, code int) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == code
}

type request struct {
	method      string
	path        string
	query       url.Values
	body        []byte
	contentType string
}

func jsonRequest(method, path string, e *jx.Encoder) request {
	return request{
		method:      method,
		path:        path,
		body:        e.Bytes(),
		contentType: "application/json",
	}
}

func pageQuery(page product.Page) url.Values {
	q := url.Values{}
	q.Set("skip", strconv.Itoa(page.Skip))
	if page.Limit > 0 {
		q.Set("limit", strconv.Itoa(page.Limit))
	}
	return q
}

func (c *Client) url(r request) string {
	u := *c.base
	u.Path = strings.TrimSuffix(u.Path, "/") + apiPrefix + r.path
	u.RawQuery = r.query.Encode()
	return u.String()
}

// do sends r and passes the response body to decode. decode may be nil.
func (c *Client) do(ctx context.Context, op string, r request, decode func(d *jx.Decoder) error) (rerr error) {
	ctx, span := c.tracer.Start(ctx, "client."+op,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("http.request.method", r.method),
			attribute.String("url.path", apiPrefix+r.path),
		),
	)
	defer func() {
		if rerr != nil {
			span.RecordError(rerr)
			span.SetStatus(codes.Error, rerr.Error())
		}
		span.End()
	}()

	var body io.Reader
	if r.body != nil {
		body = bytes.NewReader(r.body)
	}
	req, err := http.NewRequestWithContext(ctx, r.method, c.url(r), body)
	if err != nil {
		return errors.Wrap(err, "create request")
	}
	req.Header.Set("Accept", "application/json")
	if r.contentType != "" {
		req.Header.Set("Content-Type", r.contentType)
	}
	if token := c.tokens.Token(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return errors.Wrap(err, "send request")
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return errors.Wrap(err, "read response")
	}
	span.SetAttributes(attribute.Int("http.response.status_code", resp.StatusCode))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &APIError{
			StatusCode: resp.StatusCode,
			Detail:     parseDetail(resp.StatusCode, data),
		}
	}
	if decode == nil {
		return nil
	}
	if err := decode(jx.DecodeBytes(data)); err != nil {
		return errors.Wrapf(err, "decode %s response", op)
	}
	return nil
}
