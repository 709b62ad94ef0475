// Package cookie writes and reads HTTP cookies with shared attributes.
//
// A Manager holds the domain, path and security flags applied to every cookie
// it sets. Plain cookies need no configuration:
//
//	m := cookie.New(cookie.WithSecure(true))
//	m.Set(w, "JSESSIONID", token, 0) // browser-session cookie
//	token, err := m.Get(r, "JSESSIONID")
//
// Signed cookies detect tampering with HMAC-SHA256 and need a secret of at
// least [MinSecretLength] bytes. The login flow keeps its state parameter in one:
//
//	m := cookie.New(cookie.WithSecret(cfg.CookieSecret))
//	err := m.SetSigned(w, "approuter_state", state, 300)
//	state, err := m.GetSigned(r, "approuter_state")
//
// Without a secret the signed operations return [ErrNoSecret].
package cookie
