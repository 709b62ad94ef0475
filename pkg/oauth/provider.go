package oauth

import (
	"context"

	"golang.org/x/oauth2"
)

// UserInfo is the provider-agnostic identity returned after login.
type UserInfo struct {
	ID    string // subject; user_id for xsuaa tokens without sub
	Email string
	Name  string
}

// Provider abstracts the authorization code flow of one identity provider.
type Provider interface {
	// Name returns the authentication type served by the provider ("xsuaa", "ias").
	Name() string

	// AuthCodeURL builds the URL the browser is redirected to for login.
	AuthCodeURL(state string, opts ...oauth2.AuthCodeOption) string

	// Exchange trades an authorization code for tokens.
	Exchange(ctx context.Context, code, redirectURI string) (*oauth2.Token, error)

	// FetchUserInfo resolves the user behind the access token.
	FetchUserInfo(ctx context.Context, token *oauth2.Token) (*UserInfo, error)
}
