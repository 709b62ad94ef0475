package oauth

// Config describes one identity provider (xsuaa or ias).
// Fields are read without a prefix; the config package nests Config under
// XSUAA_ and IAS_ prefixes.
type Config struct {
	ClientID     string   `env:"CLIENT_ID"`
	ClientSecret string   `env:"CLIENT_SECRET"`
	AuthURL      string   `env:"AUTH_URL"`
	TokenURL     string   `env:"TOKEN_URL"`
	UserInfoURL  string   `env:"USERINFO_URL"`
	RedirectURL  string   `env:"REDIRECT_URL"`
	Scopes       []string `env:"SCOPES" envSeparator:","`
}

// Enabled reports whether the provider has client credentials configured.
func (c Config) Enabled() bool {
	return c.ClientID != "" || c.ClientSecret != ""
}

// DefaultScopes returns the scopes requested when Config.Scopes is empty.
func DefaultScopes() []string {
	return []string{"openid", "email", "profile"}
}
