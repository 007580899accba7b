// ABOUTME: Fetch orchestrator turning a bare domain name into a validated icon
// ABOUTME: Walks the page fallback chain, fans out candidate fetches and falls back to /favicon.ico

package icons

import (
	"context"
	"io"
	"net/url"
	"strings"
	"time"

	"icons-api/core/domain"
	coreerrors "icons-api/core/errors"
	"icons-api/core/interfaces"
	"icons-api/pkg/netutil"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/idna"
	"golang.org/x/net/publicsuffix"
	"golang.org/x/sync/errgroup"
)

// Options bounds the work done by a single GetIcon call
type Options struct {
	// Timeout applies to each fetch, covering its redirects and body read
	Timeout time.Duration

	// MaxRedirects is the number of redirects a single fetch may follow.
	// Zero means the default; use NoRedirects to follow none.
	MaxRedirects int

	// MaxCandidates caps how many icon links are fetched concurrently
	MaxCandidates int

	// MaxLinks caps how many <link> elements are scanned
	MaxLinks int

	// MaxResponseSize caps the bytes read from any response
	MaxResponseSize int64
}

// NoRedirects as Options.MaxRedirects makes every redirect end the fetch
const NoRedirects = -1

// RedirectLimit converts a literal redirect count, where 0 means none, to
// the Options.MaxRedirects encoding.
func RedirectLimit(n int) int {
	if n <= 0 {
		return NoRedirects
	}
	return n
}

// DefaultOptions returns the stock limits
func DefaultOptions() Options {
	return Options{
		Timeout:         20 * time.Second,
		MaxRedirects:    2,
		MaxCandidates:   10,
		MaxLinks:        200,
		MaxResponseSize: 5_000_000,
	}
}

// withDefaults fills zero or negative limits from DefaultOptions. A negative
// MaxRedirects becomes 0, the effective count.
func (o Options) withDefaults() Options {
	d := DefaultOptions()
	if o.Timeout <= 0 {
		o.Timeout = d.Timeout
	}
	switch {
	case o.MaxRedirects == 0:
		o.MaxRedirects = d.MaxRedirects
	case o.MaxRedirects < 0:
		o.MaxRedirects = 0
	}
	if o.MaxCandidates <= 0 {
		o.MaxCandidates = d.MaxCandidates
	}
	if o.MaxLinks <= 0 {
		o.MaxLinks = d.MaxLinks
	}
	if o.MaxResponseSize <= 0 {
		o.MaxResponseSize = d.MaxResponseSize
	}
	return o
}

// Service discovers icons for domains. It holds no per-call state and is
// safe for concurrent use.
type Service struct {
	fetcher *fetcher
	logger  interfaces.Logger
	opts    Options
}

// NewService creates an icon discovery service from deps.HTTPClient,
// deps.Resolver and deps.Logger. deps.Cache is not used.
func NewService(deps interfaces.Dependencies, opts Options) *Service {
	opts = opts.withDefaults()

	logger := deps.Logger
	if logger == nil {
		logger = interfaces.NopLogger{}
	}

	return &Service{
		fetcher: newFetcher(deps.HTTPClient, NewGuard(deps.Resolver), opts.Timeout),
		logger:  logger,
		opts:    opts,
	}
}

// Options returns the effective limits
func (s *Service) Options() Options {
	return s.opts
}

// GetIcon finds the best icon for domainName. Every failure, whether the
// input was rejected, the site unreachable or no image valid, is reported
// as a *errors.NotFoundError; the underlying cause is only logged.
func (s *Service) GetIcon(ctx context.Context, domainName string) (*domain.IconResult, error) {
	notFound := &coreerrors.NotFoundError{Resource: "icon", ID: domainName}

	host, ok := s.normalizeHost(domainName)
	if !ok {
		return nil, notFound
	}

	page, ok := s.loadPage(ctx, host)
	if !ok {
		return nil, notFound
	}
	pageURI := page.uri
	candidates := s.parseCandidates(page, host)

	if icon := s.fetchBest(ctx, candidates); icon != nil {
		return icon, nil
	}

	favicon := &url.URL{Scheme: schemeOf(pageURI), Host: pageURI.Hostname(), Path: "/favicon.ico"}
	if icon := s.fetchIcon(ctx, favicon); icon != nil {
		return icon, nil
	}

	s.logger.Warn("No icon found", map[string]interface{}{
		"domain":     host,
		"page":       pageURI.String(),
		"candidates": len(candidates),
	})
	return nil, notFound
}

// normalizeHost rejects IP literals and anything that is not a plain host
// name, returning the ASCII form of the host.
func (s *Service) normalizeHost(domainName string) (string, bool) {
	raw := strings.TrimSpace(domainName)
	if raw == "" {
		s.logger.Warn("Empty domain", nil)
		return "", false
	}
	if netutil.IsIPLiteral(raw) {
		s.logger.Warn("IP address rejected", map[string]interface{}{"domain": raw})
		return "", false
	}

	u, err := url.Parse("https://" + raw)
	if err != nil || u.Hostname() == "" || u.User != nil {
		s.logger.Warn("Bad domain", map[string]interface{}{"domain": raw})
		return "", false
	}
	// A fully qualified name keeps its root label dot
	host := strings.TrimSuffix(u.Hostname(), ".")
	if host == "" {
		s.logger.Warn("Bad domain", map[string]interface{}{"domain": raw})
		return "", false
	}
	if netutil.IsIPLiteral(host) {
		s.logger.Warn("IP address rejected", map[string]interface{}{"domain": raw})
		return "", false
	}

	ascii, err := idna.Lookup.ToASCII(host)
	if err != nil {
		s.logger.Warn("Bad domain", map[string]interface{}{"domain": raw, "error": err.Error()})
		return "", false
	}
	return strings.ToLower(ascii), true
}

type pageAttempt struct {
	label string
	run   func(ctx context.Context) fetchOutcome
}

// pageAttempts is the ordered fallback chain for loading the front page
func (s *Service) pageAttempts(host string) []pageAttempt {
	get := func(scheme, h string) func(context.Context) fetchOutcome {
		return func(ctx context.Context) fetchOutcome {
			return s.fetcher.fetch(ctx, &url.URL{Scheme: scheme, Host: h}, s.opts.MaxRedirects)
		}
	}

	attempts := []pageAttempt{
		{label: "https", run: get("https", host)},
		{label: "http", run: get("http", host)},
	}

	dots := strings.Count(host, ".")
	switch {
	case dots > 1:
		base, err := publicsuffix.EffectiveTLDPlusOne(host)
		switch {
		case err != nil:
			s.logger.Debug("No base domain", map[string]interface{}{
				"domain": host,
				"error":  err.Error(),
			})
		case base != host:
			attempts = append(attempts, pageAttempt{label: "base-domain", run: get("https", base)})
		}
	case dots < 2:
		attempts = append(attempts, pageAttempt{label: "www", run: get("https", "www."+host)})
	}
	return attempts
}

// loadPage returns the first successful page fetch. The caller owns its body.
func (s *Service) loadPage(ctx context.Context, host string) (fetchOutcome, bool) {
	var last fetchOutcome
	for _, attempt := range s.pageAttempts(host) {
		out := attempt.run(ctx)
		if out.ok() {
			return out, true
		}
		s.logger.Debug("Page attempt failed", map[string]interface{}{
			"domain":  host,
			"attempt": attempt.label,
			"url":     out.uri.String(),
			"outcome": out.kind.String(),
			"error":   errString(out.err),
		})
		last = out
	}

	s.logger.Warn("Couldn't load a website", map[string]interface{}{
		"domain":  host,
		"outcome": last.kind.String(),
		"error":   errString(last.err),
	})
	return last, false
}

// parseCandidates reads the page and releases it. An unusable document
// yields no candidates so the favicon fallback still runs.
func (s *Service) parseCandidates(page fetchOutcome, host string) []domain.IconCandidate {
	defer page.release()

	doc, err := goquery.NewDocumentFromReader(io.LimitReader(page.resp.Body(), s.opts.MaxResponseSize))
	if err != nil {
		s.logger.Warn("Unparsable HTML", map[string]interface{}{
			"domain": host,
			"url":    page.uri.String(),
			"error":  err.Error(),
		})
		return nil
	}
	if doc.Find("html").Length() == 0 {
		s.logger.Warn("No document element", map[string]interface{}{
			"domain": host,
			"url":    page.uri.String(),
		})
		return nil
	}

	candidates := ExtractCandidates(doc, page.uri, s.opts.MaxLinks, s.opts.MaxCandidates)
	s.logger.Debug("Icon candidates extracted", map[string]interface{}{
		"domain":     host,
		"url":        page.uri.String(),
		"candidates": len(candidates),
	})
	return candidates
}

// fetchBest fetches every candidate concurrently and returns the valid icon
// of the best-ranked candidate. Candidates arrive sorted, so the first
// non-nil slot wins.
func (s *Service) fetchBest(ctx context.Context, candidates []domain.IconCandidate) *domain.IconResult {
	if len(candidates) == 0 {
		return nil
	}

	results := make([]*domain.IconResult, len(candidates))
	var g errgroup.Group
	g.SetLimit(s.opts.MaxCandidates)
	for i, candidate := range candidates {
		g.Go(func() error {
			u, err := url.Parse(candidate.Path)
			if err != nil {
				return nil
			}
			results[i] = s.fetchIcon(ctx, u)
			return nil
		})
	}
	_ = g.Wait()

	for _, icon := range results {
		if icon != nil {
			return icon
		}
	}
	return nil
}

// fetchIcon fetches u and returns it as an icon if the bytes sniff as a
// known image format. The declared Content-Type is ignored.
func (s *Service) fetchIcon(ctx context.Context, u *url.URL) *domain.IconResult {
	out := s.fetcher.fetch(ctx, u, s.opts.MaxRedirects)
	if !out.ok() {
		s.logger.Debug("Icon fetch failed", map[string]interface{}{
			"url":     u.String(),
			"outcome": out.kind.String(),
			"error":   errString(out.err),
		})
		return nil
	}
	defer out.release()

	b, err := readLimited(out.resp.Body(), s.opts.MaxResponseSize)
	if err != nil {
		s.logger.Debug("Icon read failed", map[string]interface{}{
			"url":   u.String(),
			"error": err.Error(),
		})
		return nil
	}

	mediaType := Sniff(b)
	if !mediaType.IsKnown() {
		s.logger.Debug("Unrecognised icon format", map[string]interface{}{
			"url":          u.String(),
			"content_type": out.resp.Header("Content-Type"),
			"bytes":        len(b),
		})
		return nil
	}

	return &domain.IconResult{SourceURI: u, Bytes: b, MediaType: mediaType}
}

func errString(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}
