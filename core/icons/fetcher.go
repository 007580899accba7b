// ABOUTME: Guarded HTTP fetcher with manual, bounded redirect following
// ABOUTME: Every hop is re-checked by the guard and superseded responses are released at once

package icons

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/url"
	"sync"
	"time"

	coreerrors "icons-api/core/errors"
	"icons-api/core/interfaces"
)

// browserHeaders makes requests look like a desktop browser; some origins
// refuse clients without them. Treat as read-only and clone per request.
var browserHeaders = http.Header{
	"User-Agent": {"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 " +
		"(KHTML, like Gecko) Chrome/58.0.3029.110 Safari/537.36 Edge/16.16299"},
	"Accept-Language": {"en-US,en;q=0.8"},
	"Cache-Control":   {"no-cache"},
	"Pragma":          {"no-cache"},
	"Accept": {"text/html,application/xhtml+xml,application/xml;" +
		"q=0.9,image/webp,image/apng,*/*;q=0.8"},
}

var redirectStatuses = map[int]bool{
	http.StatusMovedPermanently:  true,
	http.StatusFound:             true,
	http.StatusSeeOther:          true,
	http.StatusTemporaryRedirect: true,
	http.StatusPermanentRedirect: true,
}

var errBodyTooLarge = errors.New("response body exceeds size limit")

// outcomeKind tags the result of one fetch attempt
type outcomeKind int

const (
	outcomeSuccess outcomeKind = iota
	outcomeBlocked
	outcomeRedirectLimit
	outcomeTransport
	outcomeStatus
)

func (k outcomeKind) String() string {
	switch k {
	case outcomeSuccess:
		return "success"
	case outcomeBlocked:
		return "blocked"
	case outcomeRedirectLimit:
		return "redirect-limit"
	case outcomeTransport:
		return "transport"
	case outcomeStatus:
		return "status"
	default:
		return "unknown"
	}
}

// fetchOutcome is the result of fetcher.fetch. Only a success carries a
// response; its body is open and must be closed by the receiver.
type fetchOutcome struct {
	kind outcomeKind
	uri  *url.URL
	resp interfaces.Response
	err  error
}

func (o fetchOutcome) ok() bool {
	return o.kind == outcomeSuccess
}

// release closes the response body, if any
func (o fetchOutcome) release() {
	if o.resp != nil {
		_ = o.resp.Body().Close()
	}
}

type fetcher struct {
	client  interfaces.HTTPClient
	guard   *Guard
	timeout time.Duration
}

func newFetcher(client interfaces.HTTPClient, guard *Guard, timeout time.Duration) *fetcher {
	return &fetcher{client: client, guard: guard, timeout: timeout}
}

// fetch GETs u, following up to maxRedirects redirects. A single timeout
// covers every hop and the read of the final body.
func (f *fetcher) fetch(ctx context.Context, u *url.URL, maxRedirects int) fetchOutcome {
	ctx, cancel := context.WithTimeout(ctx, f.timeout)

	current := u
	for hop := 0; ; hop++ {
		if err := f.guard.Check(ctx, current); err != nil {
			cancel()
			return fetchOutcome{kind: outcomeBlocked, uri: current, err: err}
		}

		resp, err := f.client.Get(ctx, current.String(), browserHeaders.Clone())
		if err != nil {
			cancel()
			return fetchOutcome{kind: outcomeTransport, uri: current, err: &coreerrors.FetchError{
				URL: current.String(), Kind: outcomeTransport.String(), Err: err,
			}}
		}

		status := resp.StatusCode()
		if status >= 200 && status <= 299 {
			return fetchOutcome{kind: outcomeSuccess, uri: current, resp: bindCancel(resp, cancel)}
		}

		location := resp.Header("Location")
		discard(resp)

		if !redirectStatuses[status] || location == "" {
			cancel()
			return fetchOutcome{kind: outcomeStatus, uri: current, err: &coreerrors.FetchError{
				URL: current.String(), Kind: outcomeStatus.String(), StatusCode: status,
			}}
		}

		if hop >= maxRedirects {
			cancel()
			return fetchOutcome{kind: outcomeRedirectLimit, uri: current, err: &coreerrors.FetchError{
				URL: current.String(), Kind: outcomeRedirectLimit.String(), StatusCode: status,
			}}
		}

		next, err := current.Parse(location)
		if err != nil {
			cancel()
			return fetchOutcome{kind: outcomeTransport, uri: current, err: &coreerrors.FetchError{
				URL: current.String(), Kind: outcomeTransport.String(), Err: err,
			}}
		}
		next.Fragment = ""
		current = next
	}
}

// discard drains a little of the body so the connection can be reused, then closes it
func discard(resp interfaces.Response) {
	body := resp.Body()
	if body == nil {
		return
	}
	_, _ = io.Copy(io.Discard, io.LimitReader(body, 4<<10))
	_ = body.Close()
}

// readLimited reads r fully, failing once more than limit bytes arrive
func readLimited(r io.Reader, limit int64) ([]byte, error) {
	b, err := io.ReadAll(io.LimitReader(r, limit+1))
	if err != nil {
		return nil, err
	}
	if int64(len(b)) > limit {
		return nil, errBodyTooLarge
	}
	return b, nil
}

// boundResponse ties the request context to the body so the deadline keeps
// applying while the caller reads, and is released when the body is closed.
type boundResponse struct {
	interfaces.Response
	body io.ReadCloser
}

func (r *boundResponse) Body() io.ReadCloser {
	return r.body
}

func bindCancel(resp interfaces.Response, cancel context.CancelFunc) interfaces.Response {
	body := resp.Body()
	if body == nil {
		body = http.NoBody
	}
	return &boundResponse{
		Response: resp,
		body:     &cancelOnClose{ReadCloser: body, cancel: cancel},
	}
}

type cancelOnClose struct {
	io.ReadCloser
	cancel context.CancelFunc
	once   sync.Once
}

func (c *cancelOnClose) Close() error {
	err := c.ReadCloser.Close()
	c.once.Do(c.cancel)
	return err
}
