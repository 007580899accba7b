// ABOUTME: Format sniffer classifying icon payloads by their magic-number header
// ABOUTME: Declared Content-Type is never trusted; only the leading bytes decide

package icons

import (
	"bytes"

	"icons-api/core/domain"
)

var (
	icoHeader  = []byte{0x00, 0x00, 0x01, 0x00}
	pngHeader  = []byte{0x89, 'P', 'N', 'G'}
	jpegHeader = []byte{0xFF, 0xD8, 0xFF}

	// RIFF also fronts WAV and AVI. It is reported as PNG because existing
	// clients only distinguish PNG, ICO and JPEG and treat WebP as PNG.
	riffHeader = []byte{'R', 'I', 'F', 'F'}
)

// Sniff classifies b as one of the supported icon media types.
// It returns domain.MediaTypeUnknown when no header matches.
func Sniff(b []byte) domain.MediaType {
	switch {
	case bytes.HasPrefix(b, icoHeader):
		return domain.MediaTypeICO
	case bytes.HasPrefix(b, pngHeader), bytes.HasPrefix(b, riffHeader):
		return domain.MediaTypePNG
	case bytes.HasPrefix(b, jpegHeader):
		return domain.MediaTypeJPEG
	default:
		return domain.MediaTypeUnknown
	}
}
