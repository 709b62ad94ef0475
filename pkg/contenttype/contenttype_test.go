package contenttype_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dmitrymomot/approuter/pkg/contenttype"
)

func TestByExtension(t *testing.T) {
	t.Parallel()

	tests := []struct {
		path string
		want string
	}{
		{"/app/index.html", "text/html; charset=utf-8"},
		{"INDEX.HTM", "text/html; charset=utf-8"},
		{"bundle.js", "text/javascript; charset=utf-8"},
		{"manifest.json", "application/json; charset=utf-8"},
		{"icon.svg", "image/svg+xml; charset=utf-8"},
		{"logo.png", "image/png"},
		{"font.woff2", "font/woff2"},
		{"README", ""},
		{"archive.unknownext", ""},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, contenttype.ByExtension(tt.path))
		})
	}
}

func TestDetect(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "text/css; charset=utf-8", contenttype.Detect("a.css", nil))
	assert.Equal(t, "text/plain; charset=utf-8", contenttype.Detect("LICENSE", []byte("MIT License")))
	assert.Equal(t, contenttype.OctetStream, contenttype.Detect("blob", nil))
}

func TestIsText(t *testing.T) {
	t.Parallel()

	assert.True(t, contenttype.IsText("text/html; charset=utf-8"))
	assert.True(t, contenttype.IsText("application/json"))
	assert.False(t, contenttype.IsText("image/png"))
}
