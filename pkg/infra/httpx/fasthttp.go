package httpx

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/valyala/fasthttp"
)

const (
	defaultTimeout         = 30 * time.Second
	defaultMaxConnsPerHost = 512
	defaultIdleConn        = 10 * time.Second
	// Tool payloads are JSON documents; anything larger is a misbehaving API.
	defaultMaxBodySize = 16 * 1024 * 1024
)

type fastHTTPOptions struct {
	timeout         time.Duration
	maxConnsPerHost int
	userAgent       string
}

type FastHTTPClientOption func(*fastHTTPOptions)

// WithTimeout bounds requests whose context carries no deadline.
func WithTimeout(timeout time.Duration) FastHTTPClientOption {
	return func(o *fastHTTPOptions) {
		if timeout > 0 {
			o.timeout = timeout
		}
	}
}

// WithUserAgent is sent unless the request sets its own.
func WithUserAgent(userAgent string) FastHTTPClientOption {
	return func(o *fastHTTPOptions) {
		o.userAgent = userAgent
	}
}

type FastHTTPClient struct {
	client *fasthttp.Client
	opts   fastHTTPOptions
}

// NewFastHTTPClient returns a Client backed by a pooled fasthttp client.
func NewFastHTTPClient(opts ...FastHTTPClientOption) Client {
	o := fastHTTPOptions{timeout: defaultTimeout, maxConnsPerHost: defaultMaxConnsPerHost}
	for _, opt := range opts {
		opt(&o)
	}
	return &FastHTTPClient{
		client: &fasthttp.Client{
			MaxConnsPerHost:     o.maxConnsPerHost,
			MaxIdleConnDuration: defaultIdleConn,
			MaxResponseBodySize: defaultMaxBodySize,
		},
		opts: o,
	}
}

func (c *FastHTTPClient) Do(req *http.Request) (*http.Response, error) {
	ctx := req.Context()
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	fastReq := fasthttp.AcquireRequest()
	fastResp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseRequest(fastReq)
	defer fasthttp.ReleaseResponse(fastResp)

	if err := c.copyRequest(req, fastReq); err != nil {
		return nil, err
	}

	deadline, ok := ctx.Deadline()
	if !ok {
		deadline = time.Now().Add(c.opts.timeout)
	}
	if err := c.client.DoDeadline(fastReq, fastResp, deadline); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, fmt.Errorf("%w: %v", ctxErr, err)
		}
		return nil, err
	}
	return toHTTPResponse(req, fastResp), nil
}

func (c *FastHTTPClient) copyRequest(req *http.Request, dst *fasthttp.Request) error {
	dst.SetRequestURI(req.URL.String())
	dst.Header.SetMethod(req.Method)
	host := req.Host
	if host == "" {
		host = req.URL.Host
	}
	dst.Header.SetHost(host)
	for key, values := range req.Header {
		for i, value := range values {
			if i == 0 {
				dst.Header.Set(key, value)
				continue
			}
			dst.Header.Add(key, value)
		}
	}
	if c.opts.userAgent != "" && req.Header.Get("User-Agent") == "" {
		dst.Header.SetUserAgent(c.opts.userAgent)
	}
	if req.Body == nil {
		return nil
	}
	body, err := io.ReadAll(req.Body)
	_ = req.Body.Close()
	if err != nil {
		return fmt.Errorf("failed to read request body: %w", err)
	}
	dst.SetBodyRaw(body)
	return nil
}

// toHTTPResponse copies resp out of the fasthttp pool.
func toHTTPResponse(req *http.Request, resp *fasthttp.Response) *http.Response {
	body := append([]byte(nil), resp.Body()...)
	header := make(http.Header)
	resp.Header.VisitAll(func(key, value []byte) {
		header.Add(string(key), string(value))
	})
	status := resp.StatusCode()
	return &http.Response{
		Status:        fmt.Sprintf("%d %s", status, http.StatusText(status)),
		StatusCode:    status,
		Proto:         "HTTP/1.1",
		ProtoMajor:    1,
		ProtoMinor:    1,
		Header:        header,
		Body:          io.NopCloser(bytes.NewReader(body)),
		ContentLength: int64(len(body)),
		Request:       req,
	}
}
