package api

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math/rand"
	"net/http"

	"github.com/ecohabit/backend/pkg/xcontext"
)

var ErrAllEndpointsFailed = errors.New("all endpoints got errors")

type Client interface {
	Header(name, value string) Client
	Query(query Parameter) Client
	Body(body Body) Client
	POST(ctx context.Context, opts ...Opt) (*Response, error)
	GET(ctx context.Context, opts ...Opt) (*Response, error)
	PUT(ctx context.Context, opts ...Opt) (*Response, error)
	PATCH(ctx context.Context, opts ...Opt) (*Response, error)
}

type Generator interface {
	New(path string, args ...any) Client
}

type defaultGenerator struct {
	domains []string
}

// NewGenerator returns a generator whose clients try the given domains in a
// random order until one of them answers.
func NewGenerator(domains ...string) *defaultGenerator {
	return &defaultGenerator{domains: domains}
}

func (g *defaultGenerator) New(path string, args ...any) Client {
	return &defaultClient{
		domains: g.domains,
		path:    fmt.Sprintf(path, args...),
		headers: make(http.Header),
	}
}

type Body interface {
	ToReader() (io.Reader, string, error)
}

type Opt interface {
	Do(defaultClient, *http.Request)
}

type defaultClient struct {
	domains []string
	method  string
	path    string
	headers http.Header
	query   Parameter
	body    Body
}

func (c *defaultClient) Header(name, value string) Client {
	c.headers.Set(name, value)
	return c
}

func (c *defaultClient) Query(query Parameter) Client {
	c.query = query
	return c
}

func (c *defaultClient) Body(body Body) Client {
	c.body = body
	return c
}

func (c *defaultClient) POST(ctx context.Context, opts ...Opt) (*Response, error) {
	c.method = http.MethodPost
	return c.call(ctx, opts...)
}

func (c *defaultClient) GET(ctx context.Context, opts ...Opt) (*Response, error) {
	c.method = http.MethodGet
	return c.call(ctx, opts...)
}

func (c *defaultClient) PUT(ctx context.Context, opts ...Opt) (*Response, error) {
	c.method = http.MethodPut
	return c.call(ctx, opts...)
}

func (c *defaultClient) PATCH(ctx context.Context, opts ...Opt) (*Response, error) {
	c.method = http.MethodPatch
	return c.call(ctx, opts...)
}

func (c *defaultClient) call(ctx context.Context, opts ...Opt) (*Response, error) {
	if len(c.domains) == 0 {
		return nil, errors.New("no endpoint configured")
	}

	perm := rand.Perm(len(c.domains))
	for _, index := range perm {
		url := c.domains[index] + c.path
		if len(c.query) > 0 {
			url = url + "?" + c.query.Encode()
		}

		// The body reader is consumed by each attempt.
		var reader io.Reader
		var contentType string
		if c.body != nil {
			var err error
			reader, contentType, err = c.body.ToReader()
			if err != nil {
				return nil, err
			}
		}

		req, err := http.NewRequestWithContext(ctx, c.method, url, reader)
		if err != nil {
			return nil, err
		}

		if contentType != "" {
			req.Header.Set("Content-Type", contentType)
		}

		for h, values := range c.headers {
			for _, v := range values {
				req.Header.Add(h, v)
			}
		}

		for _, opt := range opts {
			opt.Do(*c, req)
		}

		result, err := xcontext.HTTPClient(ctx).Do(req)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}

			xcontext.Logger(ctx).Warnf("An error occured when calling to %s: %v", url, err)
			continue
		}

		body, err := io.ReadAll(result.Body)
		result.Body.Close()
		if err != nil {
			xcontext.Logger(ctx).Warnf("An error occured when reading body of %s: %v", url, err)
			continue
		}

		response := &Response{
			Code:    result.StatusCode,
			Header:  result.Header,
			RawBody: body,
		}

		if len(body) == 0 {
			response.Body = JSON{}
		} else if b, err := bytesToJSON(body); err == nil {
			response.Body = b
		} else if b, err := bytesToArray(body); err == nil {
			response.Body = b
		}

		return response, nil
	}

	return nil, ErrAllEndpointsFailed
}
