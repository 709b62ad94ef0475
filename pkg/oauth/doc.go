// Package oauth runs the OAuth2 authorization code flow against the identity
// providers behind the xsuaa and ias authentication types.
//
// Both providers expose OIDC-style endpoints, so a single IdentityProvider
// configured with authorization, token and userinfo URLs serves either:
//
//	p, err := oauth.NewProvider("xsuaa", oauth.Config{
//		ClientID:     cfg.XSUAA.ClientID,
//		ClientSecret: cfg.XSUAA.ClientSecret,
//		AuthURL:      "https://tenant.authentication.example.com/oauth/authorize",
//		TokenURL:     "https://tenant.authentication.example.com/oauth/token",
//		UserInfoURL:  "https://tenant.authentication.example.com/userinfo",
//	})
//
//	url := p.AuthCodeURL(state)
//	token, err := p.Exchange(ctx, code, redirectURI)
//	user, err := p.FetchUserInfo(ctx, token)
//
// The userinfo subject comes from "sub", falling back to the xsuaa "user_id"
// claim. A response with email_verified=false yields [ErrEmailNotVerified];
// a missing email_verified claim is accepted.
//
// All errors carry the "oauth:" prefix. Transport failures are joined with
// [ErrFetchFailed], [ErrRequestFailed] or [ErrDecodeFailed].
package oauth
