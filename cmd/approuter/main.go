// Command approuter serves a single-page application behind login,
// forwards everything else to configured destinations and keeps the
// session for the browser.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/dmitrymomot/approuter"
	"github.com/dmitrymomot/approuter/middlewares"
	"github.com/dmitrymomot/approuter/pkg/auth"
	"github.com/dmitrymomot/approuter/pkg/config"
	"github.com/dmitrymomot/approuter/pkg/cookie"
	"github.com/dmitrymomot/approuter/pkg/forward"
	"github.com/dmitrymomot/approuter/pkg/logger"
	"github.com/dmitrymomot/approuter/pkg/logingate"
	"github.com/dmitrymomot/approuter/pkg/metrics"
	"github.com/dmitrymomot/approuter/pkg/oauth"
	"github.com/dmitrymomot/approuter/pkg/routes"
	"github.com/dmitrymomot/approuter/pkg/staticfiles"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	log := logger.NewFromConfig(cfg.Log, middlewares.RequestIDExtractor())
	defer logger.Flush(2 * time.Second)

	if err := run(context.Background(), cfg, log); err != nil {
		log.Error("application error", "error", err)
		logger.Flush(2 * time.Second)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg config.Config, log *slog.Logger) error {
	routesFile := cfg.RoutesFile
	if !filepath.IsAbs(routesFile) {
		routesFile = filepath.Join(cfg.WorkingDir, routesFile)
	}
	table, err := routes.Load(routesFile)
	if err != nil {
		return err
	}

	backend, err := openBackend(ctx, cfg, log)
	if err != nil {
		return err
	}

	provider, err := newLoginProvider(cfg)
	if err != nil {
		return errors.Join(err, backend.close(ctx))
	}
	codes := auth.NewCodeStore(backend.codes, cfg.AuthCodeTTL)

	gate, err := logingate.New(logingate.Config{
		Realm:                             cfg.App.Realm(),
		LogoutWithoutSessionTriggersLogin: cfg.LogoutWithoutSessionTriggersLogin(),
		PreserveFragment:                  cfg.PreserveFragment(),
	}, logingate.Deps{
		Provider:  provider,
		AuthCodes: codes,
		IsLogoutRequest: func(c approuter.Context) bool {
			return table.IsLogoutRequest(c.Request().URL.Path)
		},
	})
	if err != nil {
		return errors.Join(err, backend.close(ctx))
	}

	forwarder, err := forward.New(cfg.Destinations, log)
	if err != nil {
		return errors.Join(err, backend.close(ctx))
	}

	static := staticfiles.New(staticfiles.Config{WorkingDir: cfg.WorkingDir})

	handlers := auth.HandlersConfig{Codes: codes}
	if logout := table.Config().Logout; logout != nil {
		handlers.LogoutEndpoint = logout.LogoutEndpoint
		handlers.LogoutPage = table.LogoutPage()
	}

	cookieOpts := []approuter.CookieOption{
		cookie.WithSecure(cfg.Session.Secure),
		cookie.WithHTTPOnly(true),
		cookie.WithSameSite(http.SameSiteLaxMode),
	}
	if cfg.CookieSecret != "" {
		cookieOpts = append(cookieOpts, cookie.WithSecret(cfg.CookieSecret))
	}

	app := approuter.New(
		approuter.WithCustomLogger(log),
		approuter.WithCookieOptions(cookieOpts...),
		approuter.WithSession(backend.sessions,
			approuter.WithSessionMaxAge(int(cfg.Session.IdleTimeout().Seconds())),
			approuter.WithSessionSecure(cfg.Session.Secure),
		),
		approuter.DefaultChain(table, cfg.WorkingDir),
		approuter.WithMiddlewareOverride(approuter.SlotLoginCheck, gate.Middleware()),
		approuter.WithMiddlewareOverride(approuter.SlotStaticResource, static.Middleware()),
		approuter.WithHandlers(auth.NewHandlers(provider, handlers)),
		approuter.WithHTTPHandler("/metrics", metrics.Handler()),
		approuter.WithNotFoundHandler(forwarder.Handler()),
		approuter.WithHealthChecks(backend.checks...),
	)

	log.Info("routes loaded",
		slog.String("file", routesFile),
		slog.Int("routes", len(table.Config().Routes)),
		slog.String("session_store", cfg.Session.Store),
	)

	runOpts := []approuter.RunOption{
		approuter.Logger(log),
		approuter.ShutdownTimeout(cfg.ShutdownTimeout),
		approuter.ShutdownHook(func(context.Context) error { return static.Close() }),
		approuter.ShutdownHook(backend.close),
	}
	return app.Run(cfg.Address(), runOpts...)
}

// newLoginProvider wires every configured login mechanism into one provider.
func newLoginProvider(cfg config.Config) (*auth.Provider, error) {
	opts := []auth.Option{auth.WithCallbackPath(cfg.CallbackPath)}

	if cfg.Token.SigningKey != "" {
		v, err := auth.NewTokenVerifier(cfg.Token.SigningKey, cfg.Token.Issuer)
		if err != nil {
			return nil, err
		}
		opts = append(opts, auth.WithTokenVerifier(v))
	}

	if len(cfg.BasicUsers) > 0 {
		b, err := auth.NewBasicAuthenticator(cfg.BasicUsers)
		if err != nil {
			return nil, err
		}
		opts = append(opts, auth.WithBasicAuthenticator(b))
	}

	idps := []struct {
		name string
		cfg  oauth.Config
	}{
		{name: string(routes.AuthXSUAA), cfg: cfg.XSUAA},
		{name: string(routes.AuthIAS), cfg: cfg.IAS},
	}
	for _, idp := range idps {
		if !idp.cfg.Enabled() {
			continue
		}
		p, err := oauth.NewProvider(idp.name, idp.cfg)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", idp.name, err)
		}
		opts = append(opts, auth.WithIdentityProvider(p, idp.cfg.RedirectURL))
	}

	return auth.NewProvider(opts...), nil
}
