// Package auth provides the login collaborators used by the login gate.
//
// Provider implements logingate.LoginProvider. It decides from the resolved
// route and the session whether a request needs a login, exchanges bearer
// tokens sent in X-Approuter-Authorization for a session, and resolves the
// authenticator for the route's authentication type:
//
//   - basic: credentials checked against bcrypt hashes
//   - xsuaa, ias: authorization code flow of the matching identity provider
//
// Handlers registers the host routes that complete those flows: the OAuth
// callback, the logout endpoint of the route table and the authorization
// code endpoint. CodeStore issues single-use codes that a second client can
// redeem for a session through ?approuterAuthCode=<code>.
//
// Example:
//
//	p := auth.NewProvider(auth.WithIdentityProvider(xsuaa, ""))
//	codes := auth.NewCodeStore(cache.NewMemory[string](), time.Minute)
//	gate, _ := logingate.New(cfg, logingate.Deps{Provider: p, AuthCodes: codes})
//	app := approuter.New(
//	    approuter.WithHandlers(auth.NewHandlers(p, auth.HandlersConfig{Codes: codes})),
//	)
package auth
