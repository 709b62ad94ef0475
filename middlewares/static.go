package middlewares

import (
	"errors"
	"io/fs"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/dmitrymomot/approuter/internal"
	"github.com/dmitrymomot/approuter/pkg/routes"
)

// StaticFiles is the stock staticResourceHandler slot. It serves the route's
// localDir with http.FileServer; directories without index.html are not listed.
// Requests without a localDir route continue down the chain.
func StaticFiles(workingDir string) internal.Middleware {
	return func(next internal.HandlerFunc) internal.HandlerFunc {
		return func(c internal.Context) error {
			d, ok := routes.FromContext(c.Context())
			if !ok || d.LocalDir() == "" {
				return next(c)
			}

			root := d.LocalDir()
			if !filepath.IsAbs(root) {
				root = filepath.Join(workingDir, root)
			}

			r := c.Request().Clone(c.Context())
			// FileServer redirects explicit index.html requests to the directory.
			r.URL.Path = strings.TrimSuffix(d.Pathname, "index.html")
			if !strings.HasSuffix(r.URL.Path, "/") {
				r.URL.Path = d.Pathname
			}
			r.URL.RawPath = ""
			http.FileServer(noListing{http.Dir(root)}).ServeHTTP(c.Response(), r)
			return nil
		}
	}
}

// noListing hides directories that have no index.html.
type noListing struct {
	fs http.FileSystem
}

func (n noListing) Open(name string) (http.File, error) {
	f, err := n.fs.Open(name)
	if err != nil {
		return nil, err
	}
	info, err := f.Stat()
	if err != nil {
		_ = f.Close()
		return nil, err
	}
	if !info.IsDir() {
		return f, nil
	}

	index, err := n.fs.Open(path.Join(name, "index.html"))
	if err != nil {
		_ = f.Close()
		if errors.Is(err, fs.ErrNotExist) {
			return nil, os.ErrNotExist
		}
		return nil, err
	}
	_ = index.Close()
	return f, nil
}
