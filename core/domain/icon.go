// ABOUTME: Icon domain models shared by the discovery engine and its callers
// ABOUTME: Defines candidates found in page markup and validated icon results

package domain

import "net/url"

// MediaType is the image format of a validated icon
type MediaType string

const (
	// MediaTypeUnknown means the bytes matched no known image header
	MediaTypeUnknown MediaType = ""

	// MediaTypePNG covers PNG and, for compatibility, RIFF (WebP) containers
	MediaTypePNG MediaType = "image/png"

	// MediaTypeICO is the Windows icon format
	MediaTypeICO MediaType = "image/x-icon"

	// MediaTypeJPEG is the JPEG/JFIF format
	MediaTypeJPEG MediaType = "image/jpeg"
)

// String returns the media type as it would appear in a Content-Type header
func (m MediaType) String() string {
	return string(m)
}

// IsKnown reports whether the media type is one of the supported formats
func (m MediaType) IsKnown() bool {
	switch m {
	case MediaTypePNG, MediaTypeICO, MediaTypeJPEG:
		return true
	}
	return false
}

// IconCandidate is a link from page markup suspected to reference an icon
type IconCandidate struct {
	// Path is the raw href until resolution, then the absolute URL
	Path string

	// SizeHint is the raw value of the link's sizes attribute, if any
	SizeHint string

	// Priority orders candidates; lower values are preferred
	Priority int
}

// IconResult is a fetched icon whose bytes have been validated against MediaType
type IconResult struct {
	// SourceURI is the URL the icon was requested from
	SourceURI *url.URL

	// Bytes is the raw image payload
	Bytes []byte

	// MediaType is the sniffed image format
	MediaType MediaType
}
