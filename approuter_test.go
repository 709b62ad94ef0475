package approuter_test

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/approuter"
	"github.com/dmitrymomot/approuter/pkg/routes"
)

func testTable(t *testing.T) *routes.Table {
	t.Helper()
	tbl, err := routes.New(routes.Config{
		WelcomeFile: "index.html",
		Routes: []routes.Route{
			{Source: "^/app/(.*)$", Target: "/$1", LocalDir: "web", AuthenticationType: routes.AuthXSUAA},
			{Source: "^/(.*)$", LocalDir: "web", AuthenticationType: routes.AuthNone},
		},
	})
	require.NoError(t, err)
	return tbl
}

func TestDefaultChain_Order(t *testing.T) {
	t.Parallel()

	app := approuter.New(approuter.DefaultChain(testTable(t), t.TempDir()))

	assert.Equal(t, []string{
		approuter.SlotRequestID,
		approuter.SlotRecover,
		approuter.SlotMetrics,
		approuter.SlotRouteResolver,
		approuter.SlotLoginCheck,
		approuter.SlotStaticResource,
	}, app.MiddlewareNames())
}

func TestDefaultChain_Serves(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "web"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "web", "index.html"), []byte("home"), 0o644))

	app := approuter.New(approuter.DefaultChain(testTable(t), dir))

	t.Run("public file", func(t *testing.T) {
		rec := httptest.NewRecorder()
		app.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "home", rec.Body.String())
		assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))
	})

	t.Run("protected route needs login", func(t *testing.T) {
		rec := httptest.NewRecorder()
		app.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/app/index.html", nil))
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Equal(t, "true", rec.Header().Get("X-Login-Required"))
	})
}

func TestMiddlewareOverride(t *testing.T) {
	t.Parallel()

	allowAll := func(next approuter.HandlerFunc) approuter.HandlerFunc {
		return func(c approuter.Context) error {
			c.SetHeader("X-Login", "overridden")
			return next(c)
		}
	}

	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "web"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "web", "index.html"), []byte("home"), 0o644))

	app := approuter.New(
		approuter.WithMiddlewareOverride(approuter.SlotLoginCheck, allowAll),
		approuter.DefaultChain(testTable(t), dir),
	)

	assert.Equal(t, approuter.SlotLoginCheck, app.MiddlewareNames()[4], "position is kept")

	rec := httptest.NewRecorder()
	app.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/app/index.html", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "overridden", rec.Header().Get("X-Login"))
}

func TestMiddlewareOverride_UnknownSlot(t *testing.T) {
	t.Parallel()

	assert.PanicsWithError(t, approuter.ErrSlotNotFound.Error()+": nope", func() {
		approuter.New(approuter.WithMiddlewareOverride("nope", func(next approuter.HandlerFunc) approuter.HandlerFunc {
			return next
		}))
	})
}
