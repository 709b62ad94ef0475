package staticfiles

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/cbroglie/mustache"

	"github.com/dmitrymomot/approuter/internal"
	"github.com/dmitrymomot/approuter/pkg/cache"
	"github.com/dmitrymomot/approuter/pkg/contenttype"
	"github.com/dmitrymomot/approuter/pkg/metrics"
	"github.com/dmitrymomot/approuter/pkg/routes"
)

const indexFile = "index.html"

// Metric results.
const (
	resultPassthrough = "passthrough"
	resultStatic      = "static"
	resultTemplate    = "template"
	resultRedirect    = "redirect"
	resultTraversal   = "traversal"
	resultNotFound    = "not_found"
	resultRenderError = "render_error"
	resultError       = "error"
)

// Config configures the Server.
type Config struct {
	// WorkingDir is the base for relative route localDir values.
	WorkingDir string
}

// Server serves route local directories, rendering configured files as
// mustache templates.
type Server struct {
	templates   cache.Cache[*mustache.Template]
	owned       *cache.Memory[*mustache.Template]
	workingDir  string
	templateTTL time.Duration
}

// New creates a Server.
func New(cfg Config, opts ...Option) *Server {
	s := &Server{
		workingDir:  cfg.WorkingDir,
		templateTTL: defaultTemplateTTL,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.templates == nil {
		s.owned = cache.NewMemory[*mustache.Template](
			cache.WithDefaultTTL(s.templateTTL),
			cache.WithMaxEntries(defaultTemplateEntries),
		)
		s.templates = s.owned
	}
	return s
}

// Close releases the template cache created by New.
func (s *Server) Close() error {
	if s.owned != nil {
		return s.owned.Close()
	}
	return nil
}

// Middleware returns the server as a chain slot implementation.
func (s *Server) Middleware() internal.Middleware {
	return func(next internal.HandlerFunc) internal.HandlerFunc {
		return func(c internal.Context) error {
			return s.Serve(c, next)
		}
	}
}

// Serve handles requests whose route has a localDir and passes every other
// request to next. Failures are returned as *internal.HTTPError; the only
// responses written here are successful serves and directory redirects.
func (s *Server) Serve(c internal.Context, next internal.HandlerFunc) error {
	d, ok := routes.FromContext(c.Context())
	if !ok || d.LocalDir() == "" {
		metrics.StaticRequests.WithLabelValues(resultPassthrough).Inc()
		return next(c)
	}

	root, err := s.rootDir(d.LocalDir())
	if err != nil {
		return s.fail(c, resultError, internal.ErrInternal("Internal Server Error",
			internal.WithError(errors.Join(ErrServeFailed, err))), d.LocalDir())
	}
	c.LogDebug("serving static path", slog.String("dir", root))

	pathname := d.Pathname
	if !strings.HasPrefix(pathname, "/") {
		pathname = "/" + pathname
	}
	if strings.HasSuffix(pathname, "/") {
		pathname += indexFile
	}

	resolved, err := filepath.EvalSymlinks(filepath.Join(root, filepath.FromSlash(pathname)))
	if err != nil {
		// Unknown paths get the app shell so client-side routes can deep link.
		pathname = "/" + indexFile
		resolved = filepath.Join(root, indexFile)
		if r, err := filepath.EvalSymlinks(resolved); err == nil {
			resolved = r
		}
	}

	if !within(root, resolved) {
		return s.fail(c, resultTraversal, internal.ErrForbidden("Path traversal!",
			internal.WithError(fmt.Errorf("%w: requested path: %s", ErrPathTraversal, resolved))), resolved)
	}

	if replace := d.Route.Replace; replace.Matches(pathname) {
		return s.serveTemplate(c, resolved, replace.View)
	}
	return s.serveFile(c, resolved)
}

// rootDir resolves localDir against the working directory and canonicalizes
// it when it exists, so the descendant check compares like with like.
func (s *Server) rootDir(localDir string) (string, error) {
	dir := localDir
	if !filepath.IsAbs(dir) {
		dir = filepath.Join(s.workingDir, dir)
	}
	abs, err := filepath.Abs(dir)
	if err != nil {
		return "", err
	}
	if r, err := filepath.EvalSymlinks(abs); err == nil {
		return r, nil
	}
	return abs, nil
}

// within reports whether path is root or lies below it.
func within(root, path string) bool {
	if path == root {
		return true
	}
	prefix := root
	if !strings.HasSuffix(prefix, string(filepath.Separator)) {
		prefix += string(filepath.Separator)
	}
	return strings.HasPrefix(path, prefix)
}

func (s *Server) serveFile(c internal.Context, path string) error {
	r := c.Request()
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		return s.fail(c, resultError, internal.NewHTTPError(http.StatusMethodNotAllowed, "Method Not Allowed",
			internal.WithHeader("Allow", "GET, HEAD")), path)
	}

	f, err := os.Open(path)
	if err != nil {
		return s.fail(c, resultFor(err), openError(err, path), path)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return s.fail(c, resultError, openError(err, path), path)
	}

	if info.IsDir() {
		// A directory without its trailing slash: send the client to the slash form.
		target := r.URL.Path + "/"
		if r.URL.RawQuery != "" {
			target += "?" + r.URL.RawQuery
		}
		metrics.StaticRequests.WithLabelValues(resultRedirect).Inc()
		return c.Redirect(http.StatusMovedPermanently, target)
	}

	if ct := contenttype.ByExtension(path); ct != "" {
		c.SetHeader("Content-Type", ct)
	}
	metrics.StaticRequests.WithLabelValues(resultStatic).Inc()
	http.ServeContent(c.Response(), r, info.Name(), info.ModTime(), f)
	return nil
}

func (s *Server) serveTemplate(c internal.Context, path string, view map[string]any) error {
	info, err := os.Stat(path)
	if err != nil {
		return s.fail(c, resultNotFound, internal.ErrNotFound("Not Found",
			internal.WithError(errors.Join(ErrFileNotFound, err))), path)
	}
	if info.IsDir() {
		return s.fail(c, resultNotFound, internal.ErrNotFound("Not Found",
			internal.WithError(fmt.Errorf("%w: %s is a directory", ErrFileNotFound, path))), path)
	}

	tmpl, err := s.template(c.Context(), path, info)
	if err != nil {
		var he *internal.HTTPError
		if errors.As(err, &he) {
			return s.fail(c, resultNotFound, he, path)
		}
		return s.fail(c, resultRenderError, internal.ErrInternal("Internal Server Error",
			internal.WithError(fmt.Errorf("%w: %w", ErrTemplateRender, err))), path)
	}

	body, err := tmpl.Render(view)
	if err != nil {
		return s.fail(c, resultRenderError, internal.ErrInternal("Internal Server Error",
			internal.WithError(fmt.Errorf("%w: %w", ErrTemplateRender, err))), path)
	}

	metrics.StaticRequests.WithLabelValues(resultTemplate).Inc()
	return c.Blob(http.StatusOK, contenttype.Detect(path, []byte(body)), []byte(body))
}

// template parses the file at path once per (path, size, mtime).
func (s *Server) template(ctx context.Context, path string, info fs.FileInfo) (*mustache.Template, error) {
	key := "staticfiles:" + path + ":" + strconv.FormatInt(info.Size(), 10) + ":" + strconv.FormatInt(info.ModTime().UnixNano(), 10)
	return cache.GetOrSet(ctx, s.templates, key, func(context.Context) (*mustache.Template, time.Duration, error) {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, 0, internal.ErrNotFound("Not Found", internal.WithError(errors.Join(ErrFileNotFound, err)))
		}
		// Partials resolve to empty strings; templates never reach outside the route directory.
		tmpl, err := mustache.ParseStringPartials(string(data), &mustache.StaticProvider{})
		if err != nil {
			return nil, 0, err
		}
		return tmpl, s.templateTTL, nil
	})
}

// fail logs the file involved and returns err for the host error handler.
func (s *Server) fail(c internal.Context, result string, err *internal.HTTPError, path string) error {
	metrics.StaticRequests.WithLabelValues(result).Inc()
	c.LogInfo("cannot read file", slog.String("file", path), slog.Int("status", err.Code))
	return err
}

func openError(err error, path string) *internal.HTTPError {
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return internal.ErrNotFound("Not Found", internal.WithError(errors.Join(ErrFileNotFound, err)))
	case errors.Is(err, fs.ErrPermission):
		return internal.ErrForbidden("Forbidden", internal.WithError(errors.Join(ErrServeFailed, err)))
	default:
		return internal.ErrInternal("Internal Server Error",
			internal.WithError(fmt.Errorf("%w %s: %w", ErrServeFailed, path, err)))
	}
}

func resultFor(err error) string {
	if errors.Is(err, fs.ErrNotExist) {
		return resultNotFound
	}
	return resultError
}
