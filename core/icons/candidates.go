// ABOUTME: Candidate resolver extracting icon links from a parsed HTML document
// ABOUTME: Classifies <link> elements, ranks them and resolves hrefs to absolute URLs

package icons

import (
	"net/url"
	"path"
	"sort"
	"strconv"
	"strings"

	"icons-api/core/domain"

	"github.com/PuerkitoBio/goquery"
)

var (
	iconRels = map[string]bool{
		"icon":             true,
		"apple-touch-icon": true,
		"shortcut icon":    true,
	}

	blacklistedRels = map[string]bool{
		"preload":    true,
		"image_src":  true,
		"preconnect": true,
		"canonical":  true,
		"alternate":  true,
		"stylesheet": true,
	}

	iconExtensions = map[string]bool{
		".ico":  true,
		".png":  true,
		".jpg":  true,
		".jpeg": true,
	}
)

// Priority class offsets. An explicit icon rel always outranks a link that
// only looks like an image by its extension.
const (
	explicitRelPriority = 0
	extensionPriority   = 1000
)

// ExtractCandidates returns at most maxCandidates icon candidates found among
// the first maxLinks <link href> elements of doc, ordered by priority and then
// document order. pageURI is the final URI the document was served from.
func ExtractCandidates(doc *goquery.Document, pageURI *url.URL, maxLinks, maxCandidates int) []domain.IconCandidate {
	scheme := schemeOf(pageURI)
	base := documentBase(doc, scheme, pageURI.Host)

	var found []domain.IconCandidate
	doc.Find("head link[href]").EachWithBreak(func(i int, s *goquery.Selection) bool {
		if i >= maxLinks {
			return false
		}

		href := strings.TrimSpace(s.AttrOr("href", ""))
		if href == "" {
			return true
		}

		candidate := domain.IconCandidate{Path: href, SizeHint: s.AttrOr("sizes", "")}
		rel, hasRel := s.Attr("rel")
		rel = strings.ToLower(strings.TrimSpace(rel))
		switch {
		case hasRel && iconRels[rel]:
			candidate.Priority = explicitRelPriority
		case (!hasRel || !blacklistedRels[rel]) && hasIconExtension(href):
			candidate.Priority = extensionPriority
		default:
			return true
		}
		candidate.Priority += sizeRank(candidate.SizeHint)

		resolved, ok := resolveHref(href, base, scheme)
		if !ok {
			return true
		}
		candidate.Path = resolved.String()
		found = append(found, candidate)
		return true
	})

	sort.SliceStable(found, func(i, j int) bool {
		return found[i].Priority < found[j].Priority
	})
	if len(found) > maxCandidates {
		found = found[:maxCandidates]
	}
	return found
}

// documentBase is scheme://host joined with the <base href> of the document, or "/".
func documentBase(doc *goquery.Document, scheme, host string) *url.URL {
	origin := &url.URL{Scheme: scheme, Host: host, Path: "/"}

	href, ok := doc.Find("head base[href]").First().Attr("href")
	if !ok || strings.TrimSpace(href) == "" {
		return origin
	}
	base, err := origin.Parse(strings.TrimSpace(href))
	if err != nil {
		return origin
	}
	return base
}

// resolveHref turns a candidate href into an absolute http(s) URL on a default port.
func resolveHref(href string, base *url.URL, scheme string) (*url.URL, bool) {
	var (
		u   *url.URL
		err error
	)
	if strings.HasPrefix(href, "//") {
		u, err = url.Parse(scheme + ":" + href)
	} else {
		var ref *url.URL
		ref, err = url.Parse(href)
		if err == nil {
			u = ref
			if !ref.IsAbs() {
				u = base.ResolveReference(ref)
			}
		}
	}
	if err != nil || u.Host == "" {
		return nil, false
	}

	defaultPort, ok := defaultPorts[u.Scheme]
	if !ok {
		return nil, false
	}
	if port := u.Port(); port != "" && port != defaultPort {
		return nil, false
	}

	u.Fragment = ""
	return u, true
}

func hasIconExtension(href string) bool {
	u, err := url.Parse(href)
	if err != nil {
		return false
	}
	return iconExtensions[strings.ToLower(path.Ext(u.Path))]
}

// sizeRank prefers common square icon sizes declared as "WxH".
func sizeRank(sizes string) int {
	parts := strings.Split(strings.ToLower(sizes), "x")
	if len(parts) != 2 {
		return 200
	}
	width, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil {
		return 200
	}
	height, err := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil || width != height {
		return 200
	}

	switch {
	case width == 32:
		return 1
	case width == 64:
		return 2
	case width >= 24 && width <= 128:
		return 3
	case width == 16:
		return 4
	default:
		return 100
	}
}

func schemeOf(u *url.URL) string {
	if u != nil && u.Scheme == "http" {
		return "http"
	}
	return "https"
}
