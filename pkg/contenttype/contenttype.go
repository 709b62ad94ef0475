package contenttype

import (
	"mime"
	"net/http"
	"path/filepath"
	"strings"
)

// OctetStream is returned when nothing better is known.
const OctetStream = "application/octet-stream"

// detectionBytes bounds the prefix passed to http.DetectContentType.
const detectionBytes = 512

// webTypes maps the extensions found in web app bundles to their types.
// The table wins over the OS mime database, which differs between hosts.
var webTypes = map[string]string{
	".html":        "text/html",
	".htm":         "text/html",
	".css":         "text/css",
	".js":          "text/javascript",
	".mjs":         "text/javascript",
	".json":        "application/json",
	".map":         "application/json",
	".webmanifest": "application/manifest+json",
	".xml":         "application/xml",
	".txt":         "text/plain",
	".csv":         "text/csv",
	".md":          "text/markdown",
	".svg":         "image/svg+xml",
	".png":         "image/png",
	".jpg":         "image/jpeg",
	".jpeg":        "image/jpeg",
	".gif":         "image/gif",
	".webp":        "image/webp",
	".avif":        "image/avif",
	".ico":         "image/x-icon",
	".woff":        "font/woff",
	".woff2":       "font/woff2",
	".ttf":         "font/ttf",
	".otf":         "font/otf",
	".pdf":         "application/pdf",
	".wasm":        "application/wasm",
	".mp4":         "video/mp4",
	".webm":        "video/webm",
	".mp3":         "audio/mpeg",
}

// charsetTypes are textual types outside text/* that still get a charset.
var charsetTypes = map[string]struct{}{
	"application/json":          {},
	"application/manifest+json": {},
	"application/xml":           {},
	"image/svg+xml":             {},
}

// ByExtension returns the content type for the extension of path,
// with charset=utf-8 appended for textual types. Unknown extensions yield "".
func ByExtension(path string) string {
	ext := strings.ToLower(filepath.Ext(path))
	if ext == "" {
		return ""
	}
	if t, ok := webTypes[ext]; ok {
		return withCharset(t)
	}
	if t := mime.TypeByExtension(ext); t != "" {
		base, _, _ := strings.Cut(t, ";")
		return withCharset(strings.TrimSpace(base))
	}
	return ""
}

// Detect returns ByExtension(path) and falls back to sniffing data.
func Detect(path string, data []byte) string {
	if t := ByExtension(path); t != "" {
		return t
	}
	if len(data) == 0 {
		return OctetStream
	}
	if len(data) > detectionBytes {
		data = data[:detectionBytes]
	}
	return http.DetectContentType(data)
}

// IsText reports whether the media type carries text.
func IsText(contentType string) bool {
	base, _, _ := strings.Cut(contentType, ";")
	base = strings.TrimSpace(strings.ToLower(base))
	if strings.HasPrefix(base, "text/") {
		return true
	}
	_, ok := charsetTypes[base]
	return ok
}

func withCharset(t string) string {
	if IsText(t) {
		return t + "; charset=utf-8"
	}
	return t
}
