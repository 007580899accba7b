// ABOUTME: Standard HTTP client implementation for outbound icon fetches
// ABOUTME: Never follows redirects or uses proxies, and can refuse to dial internal addresses

package standard

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/netip"
	"syscall"
	"time"

	"icons-api/core/interfaces"
	"icons-api/pkg/netutil"
)

// ErrInternalAddress is returned when the dial guard refuses a connection
var ErrInternalAddress = errors.New("refusing to connect to internal address")

// StandardHTTPClient implements the HTTPClient interface using standard library
type StandardHTTPClient struct {
	client *http.Client
}

// Option configures a StandardHTTPClient
type Option func(*clientOptions)

type clientOptions struct {
	dialGuard bool
	logger    interfaces.Logger
}

// WithDialGuard refuses connections to loopback, private, link-local and
// other internal addresses at dial time. This covers addresses a hostname
// resolves to after the request guard already approved it.
func WithDialGuard() Option {
	return func(o *clientOptions) {
		o.dialGuard = true
	}
}

// WithLogger logs every outbound round trip at debug level
func WithLogger(logger interfaces.Logger) Option {
	return func(o *clientOptions) {
		o.logger = logger
	}
}

// NewStandardHTTPClient creates a new HTTP client with the specified timeout
func NewStandardHTTPClient(timeout time.Duration, opts ...Option) *StandardHTTPClient {
	var o clientOptions
	for _, opt := range opts {
		opt(&o)
	}

	dialer := &net.Dialer{
		Timeout:   10 * time.Second,
		KeepAlive: 30 * time.Second,
	}
	if o.dialGuard {
		dialer.Control = refuseInternal
	}

	var transport http.RoundTripper = &http.Transport{
		Proxy:                 nil,
		DialContext:           dialer.DialContext,
		ForceAttemptHTTP2:     true,
		MaxIdleConns:          100,
		MaxIdleConnsPerHost:   4,
		IdleConnTimeout:       90 * time.Second,
		TLSHandshakeTimeout:   10 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,
	}
	if o.logger != nil {
		transport = &LoggingRoundTripper{Transport: transport, Logger: o.logger}
	}

	return &StandardHTTPClient{
		client: &http.Client{
			Timeout:   timeout,
			Transport: transport,
			// Redirects are followed by the caller, one guarded hop at a time
			CheckRedirect: func(*http.Request, []*http.Request) error {
				return http.ErrUseLastResponse
			},
		},
	}
}

// Get performs a single HTTP GET request with the given headers
func (c *StandardHTTPClient) Get(ctx context.Context, url string, header http.Header) (interfaces.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	if header != nil {
		req.Header = header.Clone()
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, err
	}

	return &httpResponse{
		statusCode: resp.StatusCode,
		body:       resp.Body,
		headers:    resp.Header,
	}, nil
}

// refuseInternal is a net.Dialer Control hook run with the resolved address
func refuseInternal(network, address string, _ syscall.RawConn) error {
	host, _, err := net.SplitHostPort(address)
	if err != nil {
		return err
	}
	addr, err := netip.ParseAddr(host)
	if err != nil {
		return fmt.Errorf("unparsable dial address %q: %w", host, err)
	}
	if netutil.IsInternal(addr.Unmap()) {
		return fmt.Errorf("%w: %s", ErrInternalAddress, host)
	}
	return nil
}

// httpResponse implements the Response interface
type httpResponse struct {
	statusCode int
	body       io.ReadCloser
	headers    http.Header
}

// StatusCode returns the HTTP status code
func (r *httpResponse) StatusCode() int {
	return r.statusCode
}

// Body returns the response body
func (r *httpResponse) Body() io.ReadCloser {
	return r.body
}

// Header returns the value of the specified header
func (r *httpResponse) Header(key string) string {
	return r.headers.Get(key)
}
