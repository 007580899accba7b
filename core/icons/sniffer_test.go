package icons

import (
	"testing"

	"icons-api/core/domain"

	"github.com/stretchr/testify/assert"
)

func TestSniff(t *testing.T) {
	tests := []struct {
		name string
		data []byte
		want domain.MediaType
	}{
		{"png", []byte{0x89, 'P', 'N', 'G', 0x0D, 0x0A, 0x1A, 0x0A}, domain.MediaTypePNG},
		{"png header only", []byte{0x89, 'P', 'N', 'G'}, domain.MediaTypePNG},
		{"webp container reported as png", []byte("RIFF\x24\x00\x00\x00WEBPVP8 "), domain.MediaTypePNG},
		{"ico", []byte{0x00, 0x00, 0x01, 0x00, 0x01, 0x00, 0x10, 0x10}, domain.MediaTypeICO},
		{"jpeg", []byte{0xFF, 0xD8, 0xFF}, domain.MediaTypeJPEG},
		{"jpeg jfif", []byte{0xFF, 0xD8, 0xFF, 0xE0, 0x00, 0x10, 'J', 'F', 'I', 'F'}, domain.MediaTypeJPEG},
		{"cursor is not ico", []byte{0x00, 0x00, 0x02, 0x00}, domain.MediaTypeUnknown},
		{"gif", []byte("GIF89a"), domain.MediaTypeUnknown},
		{"svg", []byte("<svg xmlns=\"http://www.w3.org/2000/svg\"/>"), domain.MediaTypeUnknown},
		{"html", []byte("<!doctype html>"), domain.MediaTypeUnknown},
		{"truncated png", []byte{0x89, 'P', 'N'}, domain.MediaTypeUnknown},
		{"truncated jpeg", []byte{0xFF, 0xD8}, domain.MediaTypeUnknown},
		{"empty", nil, domain.MediaTypeUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Sniff(tt.data)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.want != domain.MediaTypeUnknown, got.IsKnown())
		})
	}
}
