// Package contenttype maps file names to Content-Type header values.
//
// A built-in table covers the extensions of web app bundles so results do
// not depend on the host's mime database; other extensions fall back to
// mime.TypeByExtension. Textual types get "; charset=utf-8":
//
//	contenttype.ByExtension("index.html") // "text/html; charset=utf-8"
//	contenttype.ByExtension("logo.png")   // "image/png"
//	contenttype.Detect("LICENSE", data)   // sniffed from data
package contenttype
