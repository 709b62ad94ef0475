package routes_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/approuter/pkg/routes"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoad(t *testing.T) {
	t.Parallel()

	t.Run("json", func(t *testing.T) {
		t.Parallel()
		path := writeFile(t, "xs-app.json", `{
			"welcomeFile": "/index.html",
			"logout": {"logoutEndpoint": "/do/logout"},
			"routes": [
				{"source": "^/app/(.*)$", "target": "/$1", "localDir": "webapp",
				 "replace": {"pathSuffixes": [".html"], "view": {"title": "Orders"}}}
			]
		}`)

		table, err := routes.Load(path)
		require.NoError(t, err)
		assert.Equal(t, "index.html", table.WelcomeFile())

		d, ok := table.Match("GET", "/app/index.html")
		require.True(t, ok)
		assert.Equal(t, "/index.html", d.Pathname)
		assert.Equal(t, "webapp", d.LocalDir())
		assert.Equal(t, "Orders", d.Route.Replace.View["title"])
	})

	t.Run("yaml", func(t *testing.T) {
		t.Parallel()
		path := writeFile(t, "xs-app.yaml", `
defaultAuthenticationType: basic
routes:
  - source: ^/api/(.*)$
    target: /$1
    destination: backend
    httpMethods: [get, post]
`)

		table, err := routes.Load(path)
		require.NoError(t, err)

		d, ok := table.Match("POST", "/api/orders")
		require.True(t, ok)
		assert.Equal(t, "backend", d.Route.Destination)
		assert.Equal(t, "/orders", d.Pathname)
		assert.Equal(t, routes.AuthBasic, d.AuthenticationType())
	})

	t.Run("unsupported extension", func(t *testing.T) {
		t.Parallel()
		_, err := routes.Load(writeFile(t, "xs-app.toml", ""))
		require.ErrorIs(t, err, routes.ErrUnsupportedFormat)
	})

	t.Run("missing file", func(t *testing.T) {
		t.Parallel()
		_, err := routes.Load(filepath.Join(t.TempDir(), "missing.json"))
		require.ErrorIs(t, err, routes.ErrReadFailed)
	})

	t.Run("malformed", func(t *testing.T) {
		t.Parallel()
		_, err := routes.Load(writeFile(t, "xs-app.json", "{"))
		require.ErrorIs(t, err, routes.ErrDecodeFailed)
	})
}

func TestNew_Validation(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		cfg     routes.Config
		wantErr error
	}{
		{"empty source", routes.Config{Routes: []routes.Route{{LocalDir: "x"}}}, routes.ErrEmptySource},
		{"bad regexp", routes.Config{Routes: []routes.Route{{Source: "(", LocalDir: "x"}}}, routes.ErrInvalidSource},
		{"dir and destination", routes.Config{Routes: []routes.Route{{Source: "^/", LocalDir: "x", Destination: "y"}}}, routes.ErrConflictingTargets},
		{"replace without dir", routes.Config{Routes: []routes.Route{{Source: "^/", Replace: &routes.Replace{}}}}, routes.ErrReplaceWithoutDir},
		{"unknown route auth", routes.Config{Routes: []routes.Route{{Source: "^/", AuthenticationType: "saml"}}}, routes.ErrUnknownAuthType},
		{"unknown default auth", routes.Config{DefaultAuthenticationType: "saml"}, routes.ErrUnknownAuthType},
		{"unknown method", routes.Config{AuthenticationMethod: "magic"}, routes.ErrUnknownMethod},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := routes.New(tt.cfg)
			require.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestTable_Match(t *testing.T) {
	t.Parallel()

	table, err := routes.New(routes.Config{
		Routes: []routes.Route{
			{Source: "^/public/(.*)$", Target: "/$1", LocalDir: "public", AuthenticationType: routes.AuthNone},
			{Source: "^/api/", Destination: "backend", HTTPMethods: []string{"GET"}},
			{Source: "^(.*)$", LocalDir: "webapp"},
		},
	})
	require.NoError(t, err)

	t.Run("first match wins", func(t *testing.T) {
		t.Parallel()
		d, ok := table.Match("GET", "/public/logo.png")
		require.True(t, ok)
		assert.Equal(t, "public", d.LocalDir())
		assert.Equal(t, "/logo.png", d.Pathname)
		assert.Equal(t, "/public/logo.png", d.Original)
		assert.Equal(t, routes.AuthNone, d.AuthenticationType())
	})

	t.Run("method filter falls through", func(t *testing.T) {
		t.Parallel()
		d, ok := table.Match("DELETE", "/api/orders")
		require.True(t, ok)
		assert.Equal(t, "webapp", d.LocalDir())
		assert.Equal(t, "/api/orders", d.Pathname)
	})

	t.Run("default auth type", func(t *testing.T) {
		t.Parallel()
		d, ok := table.Match("GET", "/api/orders")
		require.True(t, ok)
		assert.Equal(t, routes.AuthXSUAA, d.AuthenticationType())
		assert.True(t, d.AuthenticationType().Protected())
	})
}

func TestTable_NoMatch(t *testing.T) {
	t.Parallel()

	table, err := routes.New(routes.Config{Routes: []routes.Route{{Source: "^/only$", LocalDir: "x"}}})
	require.NoError(t, err)

	d, ok := table.Match("GET", "/other")
	assert.False(t, ok)
	assert.Nil(t, d)
}

func TestTable_AuthenticationMethodNone(t *testing.T) {
	t.Parallel()

	table, err := routes.New(routes.Config{
		AuthenticationMethod: routes.MethodNone,
		Routes:               []routes.Route{{Source: "^/", LocalDir: "x", AuthenticationType: routes.AuthIAS}},
	})
	require.NoError(t, err)

	d, ok := table.Match("GET", "/")
	require.True(t, ok)
	assert.Equal(t, routes.AuthNone, d.AuthenticationType())
}

func TestTable_Logout(t *testing.T) {
	t.Parallel()

	table, err := routes.New(routes.Config{
		Logout: &routes.Logout{LogoutEndpoint: "/do/logout", LogoutPage: "/bye.html"},
	})
	require.NoError(t, err)
	assert.True(t, table.IsLogoutRequest("/do/logout"))
	assert.False(t, table.IsLogoutRequest("/do/logout/x"))
	assert.Equal(t, "/bye.html", table.LogoutPage())

	empty, err := routes.New(routes.Config{})
	require.NoError(t, err)
	assert.False(t, empty.IsLogoutRequest(""))
	assert.Equal(t, "/", empty.LogoutPage())
}

func TestReplace_Matches(t *testing.T) {
	t.Parallel()

	var nilReplace *routes.Replace
	assert.False(t, nilReplace.Matches("/index.html"))

	r := &routes.Replace{PathSuffixes: []string{".html", "manifest.json"}}
	assert.True(t, r.Matches("/index.html"))
	assert.True(t, r.Matches("/app/manifest.json"))
	assert.False(t, r.Matches("/app.js"))
}

func TestDescriptorContext(t *testing.T) {
	t.Parallel()

	_, ok := routes.FromContext(context.Background())
	assert.False(t, ok)

	d := &routes.Descriptor{Pathname: "/x"}
	got, ok := routes.FromContext(routes.WithDescriptor(context.Background(), d))
	require.True(t, ok)
	assert.Same(t, d, got)

	var nilDesc *routes.Descriptor
	assert.Equal(t, routes.AuthNone, nilDesc.AuthenticationType())
	assert.Empty(t, nilDesc.LocalDir())
}
