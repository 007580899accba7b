package icons

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync"
	"sync/atomic"

	"icons-api/core/interfaces"
)

var (
	pngBytes  = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR")
	icoBytes  = []byte{0x00, 0x00, 0x01, 0x00, 0x01, 0x00, 0x10, 0x10}
	jpegBytes = []byte{0xFF, 0xD8, 0xFF, 0xE0, 0x00, 0x10, 'J', 'F', 'I', 'F'}
)

// fakeResolver answers lookups from a table. Hosts not in the table resolve
// to a single public address.
type fakeResolver struct {
	mu      sync.Mutex
	records map[string][]net.IPAddr
	errs    map[string]error
	count   int
}

func newFakeResolver() *fakeResolver {
	return &fakeResolver{
		records: make(map[string][]net.IPAddr),
		errs:    make(map[string]error),
	}
}

func (r *fakeResolver) with(host string, ips ...string) *fakeResolver {
	addrs := make([]net.IPAddr, 0, len(ips))
	for _, ip := range ips {
		addrs = append(addrs, net.IPAddr{IP: net.ParseIP(ip)})
	}
	r.records[host] = addrs
	return r
}

func (r *fakeResolver) withError(host string, err error) *fakeResolver {
	r.errs[host] = err
	return r
}

func (r *fakeResolver) withNone(host string) *fakeResolver {
	r.records[host] = []net.IPAddr{}
	return r
}

func (r *fakeResolver) LookupIPAddr(_ context.Context, host string) ([]net.IPAddr, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.count++
	if err, ok := r.errs[host]; ok {
		return nil, err
	}
	if addrs, ok := r.records[host]; ok {
		return addrs, nil
	}
	return []net.IPAddr{{IP: net.ParseIP("93.184.216.34")}}, nil
}

func (r *fakeResolver) lookups() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.count
}

var errConnectionRefused = errors.New("connection refused")

// routeClient serves requests in memory from handlers keyed by "scheme://host".
// Unknown origins fail like an unreachable server. Every body handed out is
// tracked so tests can assert nothing was leaked.
type routeClient struct {
	mu       sync.Mutex
	routes   map[string]http.Handler
	requests []string
	headers  []http.Header
	bodies   []*trackedBody
}

func newRouteClient() *routeClient {
	return &routeClient{routes: make(map[string]http.Handler)}
}

func (c *routeClient) handle(origin string, h http.Handler) *routeClient {
	c.routes[origin] = h
	return c
}

func (c *routeClient) Get(ctx context.Context, rawURL string, header http.Header) (interfaces.Response, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.requests = append(c.requests, rawURL)
	c.headers = append(c.headers, header)
	h, ok := c.routes[u.Scheme+"://"+u.Host]
	c.mu.Unlock()

	if !ok {
		return nil, &net.OpError{Op: "dial", Net: "tcp", Err: errConnectionRefused}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header = header
	if req.URL.Path == "" {
		req.URL.Path = "/"
	}

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	res := rec.Result()

	body := &trackedBody{Reader: bytes.NewReader(rec.Body.Bytes())}
	c.mu.Lock()
	c.bodies = append(c.bodies, body)
	c.mu.Unlock()

	return &fakeResponse{status: res.StatusCode, header: res.Header, body: body}, nil
}

func (c *routeClient) requested() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]string(nil), c.requests...)
}

func (c *routeClient) lastHeader() http.Header {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.headers) == 0 {
		return nil
	}
	return c.headers[len(c.headers)-1]
}

func (c *routeClient) openBodies() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	open := 0
	for _, b := range c.bodies {
		if !b.closed.Load() {
			open++
		}
	}
	return open
}

type trackedBody struct {
	*bytes.Reader
	closed atomic.Bool
}

func (b *trackedBody) Close() error {
	b.closed.Store(true)
	return nil
}

type fakeResponse struct {
	status int
	header http.Header
	body   io.ReadCloser
}

func (r *fakeResponse) StatusCode() int          { return r.status }
func (r *fakeResponse) Body() io.ReadCloser      { return r.body }
func (r *fakeResponse) Header(key string) string { return r.header.Get(key) }

func htmlHandler(markup string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = io.WriteString(w, markup)
	})
}

func bytesHandler(contentType string, b []byte) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", contentType)
		_, _ = w.Write(b)
	})
}

func redirectHandler(location string, code int) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Location", location)
		w.WriteHeader(code)
	})
}

func statusHandler(code int) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(code)
	})
}

// site builds a per-origin mux from exact paths
func site(routes map[string]http.Handler) http.Handler {
	mux := http.NewServeMux()
	for p, h := range routes {
		if p == "/" {
			p = "/{$}"
		}
		mux.Handle("GET "+p, h)
	}
	return mux
}

func mustParse(raw string) *url.URL {
	u, err := url.Parse(raw)
	if err != nil {
		panic(err)
	}
	return u
}
