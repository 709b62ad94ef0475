package oauth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"golang.org/x/oauth2"
)

// IdentityProvider implements Provider against configurable OIDC-style endpoints.
type IdentityProvider struct {
	name        string
	config      *oauth2.Config
	userInfoURL string
	httpClient  *http.Client
}

// NewProvider creates a provider named after the authentication type it serves.
func NewProvider(name string, cfg Config, opts ...Option) (*IdentityProvider, error) {
	if cfg.ClientID == "" {
		return nil, ErrMissingClientID
	}
	if cfg.ClientSecret == "" {
		return nil, ErrMissingClientSecret
	}
	if cfg.AuthURL == "" || cfg.TokenURL == "" || cfg.UserInfoURL == "" {
		return nil, fmt.Errorf("%w: provider %s", ErrMissingEndpoint, name)
	}

	var o options
	for _, opt := range opts {
		opt(&o)
	}

	scopes := cfg.Scopes
	if len(scopes) == 0 {
		scopes = DefaultScopes()
	}

	return &IdentityProvider{
		name: name,
		config: &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			RedirectURL:  cfg.RedirectURL,
			Scopes:       scopes,
			Endpoint: oauth2.Endpoint{
				AuthURL:  cfg.AuthURL,
				TokenURL: cfg.TokenURL,
			},
		},
		userInfoURL: cfg.UserInfoURL,
		httpClient:  o.httpClient,
	}, nil
}

func (p *IdentityProvider) Name() string {
	return p.name
}

func (p *IdentityProvider) AuthCodeURL(state string, opts ...oauth2.AuthCodeOption) string {
	return p.config.AuthCodeURL(state, opts...)
}

// Exchange trades an authorization code for tokens. A non-empty redirectURI
// overrides the configured one; it must match the URI used in AuthCodeURL.
func (p *IdentityProvider) Exchange(ctx context.Context, code, redirectURI string) (*oauth2.Token, error) {
	cfg := p.config
	if redirectURI != "" {
		c := *p.config
		c.RedirectURL = redirectURI
		cfg = &c
	}
	return cfg.Exchange(p.withHTTPClient(ctx), code)
}

// FetchUserInfo calls the userinfo endpoint with the access token.
// Returns ErrEmailNotVerified only when the provider reports email_verified=false.
func (p *IdentityProvider) FetchUserInfo(ctx context.Context, token *oauth2.Token) (*UserInfo, error) {
	client := p.config.Client(p.withHTTPClient(ctx), token)

	resp, err := client.Get(p.userInfoURL)
	if err != nil {
		return nil, errors.Join(ErrFetchFailed, fmt.Errorf("fetch userinfo: %w", err))
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return nil, errors.Join(ErrRequestFailed, fmt.Errorf("userinfo request failed: status=%d body=%s", resp.StatusCode, body))
	}

	var claims userInfoClaims
	if err := json.NewDecoder(resp.Body).Decode(&claims); err != nil {
		return nil, errors.Join(ErrDecodeFailed, fmt.Errorf("decode userinfo: %w", err))
	}

	if claims.EmailVerified != nil && !*claims.EmailVerified {
		return nil, ErrEmailNotVerified
	}

	info := &UserInfo{
		ID:    firstNonEmpty(claims.Sub, claims.UserID),
		Email: claims.Email,
		Name:  firstNonEmpty(claims.Name, strings.TrimSpace(claims.GivenName+" "+claims.FamilyName), claims.UserName),
	}
	if info.ID == "" {
		return nil, ErrMissingSubject
	}
	return info, nil
}

func (p *IdentityProvider) withHTTPClient(ctx context.Context) context.Context {
	if p.httpClient != nil {
		return context.WithValue(ctx, oauth2.HTTPClient, p.httpClient)
	}
	return ctx
}

// userInfoClaims covers both OIDC userinfo and the xsuaa variant.
type userInfoClaims struct {
	EmailVerified *bool  `json:"email_verified"`
	Sub           string `json:"sub"`
	UserID        string `json:"user_id"`
	UserName      string `json:"user_name"`
	Email         string `json:"email"`
	Name          string `json:"name"`
	GivenName     string `json:"given_name"`
	FamilyName    string `json:"family_name"`
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
