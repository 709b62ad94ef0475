// Package logingate decides, for each request, whether authentication has to
// run before the rest of the middleware chain.
//
// The gate is installed in the loginCheck slot of the host chain:
//
//	gate, err := logingate.New(logingate.Config{
//		LogoutWithoutSessionTriggersLogin: cfg.LogoutWithoutSessionTriggersLogin(),
//		PreserveFragment:                  cfg.PreserveFragment(),
//		Realm:                             cfg.App.Realm(),
//	}, logingate.Deps{
//		Provider:        provider,
//		AuthCodes:       codes,
//		IsLogoutRequest: func(c approuter.Context) bool { return table.IsLogoutRequest(c.Request().URL.Path) },
//	})
//	app := approuter.New(
//		approuter.DefaultChain(table, cfg.WorkingDir),
//		approuter.WithMiddlewareOverride(approuter.SlotLoginCheck, gate.Middleware()),
//	)
//
// Failures are returned as *approuter.HTTPError with status 401 and the
// header the client needs: X-Login-Required for script clients and
// WWW-Authenticate for Basic challenges. The host error handler writes those
// headers verbatim. The gate never writes a response itself.
//
// Authenticators receive an AuthCall. Its Response field is set only when
// fragment preservation is enabled, which lets OAuth authenticators render a
// page that carries location.hash through the login round trip.
package logingate
