package interfaces

import (
	"context"
	"io"
	"net"
	"net/http"
)

// HTTPClient performs a single outbound GET without following redirects.
// Implementations must hand back 3xx responses untouched so the caller can
// inspect the Location header and decide whether the next hop is allowed.
type HTTPClient interface {
	// Get sends a GET request to url carrying the given header set.
	// The caller owns the returned body and must close it.
	Get(ctx context.Context, url string, header http.Header) (Response, error)
}

// Response defines the interface for HTTP responses.
type Response interface {
	// StatusCode returns the HTTP status code of the response.
	StatusCode() int

	// Body returns the response body as an io.ReadCloser.
	// The caller is responsible for closing the body when done.
	Body() io.ReadCloser

	// Header returns the value of the specified header.
	// Header names are case-insensitive.
	Header(key string) string
}

// Resolver looks up the addresses of a hostname. *net.Resolver satisfies it.
type Resolver interface {
	LookupIPAddr(ctx context.Context, host string) ([]net.IPAddr, error)
}
