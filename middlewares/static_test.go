package middlewares_test

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/approuter/internal"
	"github.com/dmitrymomot/approuter/middlewares"
	"github.com/dmitrymomot/approuter/pkg/routes"
)

func TestStaticFiles(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	for name, content := range map[string]string{
		"web/app.js":          "let a = 1",
		"web/docs/index.html": "docs",
		"web/assets/logo.svg": "<svg/>",
	} {
		path := filepath.Join(dir, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}

	cfg := routes.Config{Routes: []routes.Route{
		{Source: "^/static/(.*)$", Target: "/$1", LocalDir: "web", AuthenticationType: routes.AuthNone},
		{Source: "^/api/", Destination: "backend", AuthenticationType: routes.AuthNone},
	}}
	static := internal.Slot{Name: internal.SlotStaticResource, Middleware: middlewares.StaticFiles(dir)}
	next := func(c internal.Context) error { return c.String(http.StatusTeapot, "next") }

	tests := []struct {
		name string
		path string
		code int
		body string
	}{
		{"file", "/static/app.js", http.StatusOK, "let a = 1"},
		{"directory with index", "/static/docs/", http.StatusOK, "docs"},
		{"directory listing blocked", "/static/assets/", http.StatusNotFound, ""},
		{"missing file", "/static/nope.js", http.StatusNotFound, ""},
		{"non-local route passes", "/api/orders", http.StatusTeapot, "next"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			rec := serve(t, httptest.NewRequest(http.MethodGet, tt.path, nil), next, resolveWith(t, cfg), static)
			assert.Equal(t, tt.code, rec.Code)
			if tt.body != "" {
				assert.Equal(t, tt.body, rec.Body.String())
			}
		})
	}
}

func TestStaticFiles_ExplicitIndex(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "web"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "web", "index.html"), []byte("home"), 0o644))

	cfg := routes.Config{Routes: []routes.Route{{Source: "^/", LocalDir: "web", AuthenticationType: routes.AuthNone}}}
	static := internal.Slot{Name: internal.SlotStaticResource, Middleware: middlewares.StaticFiles(dir)}

	rec := serve(t, httptest.NewRequest(http.MethodGet, "/index.html", nil), nil, resolveWith(t, cfg), static)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "home", rec.Body.String())
}
