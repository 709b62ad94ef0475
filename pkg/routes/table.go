package routes

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Table is the validated, read-only route table shared by all requests.
type Table struct {
	cfg      Config
	defaults AuthType
}

// New validates cfg and compiles every route source.
func New(cfg Config) (*Table, error) {
	switch cfg.AuthenticationMethod {
	case "", MethodRoute, MethodNone:
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownMethod, cfg.AuthenticationMethod)
	}

	defaults := cfg.DefaultAuthenticationType
	if defaults == "" {
		defaults = AuthXSUAA
	}
	if !defaults.valid() {
		return nil, fmt.Errorf("%w: %q", ErrUnknownAuthType, defaults)
	}

	routes := make([]Route, len(cfg.Routes))
	copy(routes, cfg.Routes)
	for i := range routes {
		if err := routes[i].compile(); err != nil {
			return nil, fmt.Errorf("route %d: %w", i, err)
		}
	}
	cfg.Routes = routes

	return &Table{cfg: cfg, defaults: defaults}, nil
}

// Load reads a route file. Files ending in .json are decoded as JSON,
// .yaml and .yml as YAML.
func Load(path string) (*Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Join(ErrReadFailed, err)
	}

	var cfg Config
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		err = json.Unmarshal(data, &cfg)
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &cfg)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, path)
	}
	if err != nil {
		return nil, errors.Join(ErrDecodeFailed, fmt.Errorf("%s: %w", path, err))
	}
	return New(cfg)
}

// Config returns the validated configuration.
func (t *Table) Config() Config {
	return t.cfg
}

// WelcomeFile returns the file served for requests to "/", or "".
func (t *Table) WelcomeFile() string {
	return strings.TrimPrefix(t.cfg.WelcomeFile, "/")
}

// Match returns the descriptor of the first route whose source matches path
// and which allows method.
func (t *Table) Match(method, path string) (*Descriptor, bool) {
	for i := range t.cfg.Routes {
		r := &t.cfg.Routes[i]
		loc := r.source.FindStringSubmatchIndex(path)
		if loc == nil || !r.AllowsMethod(method) {
			continue
		}

		pathname := path
		if r.Target != "" {
			pathname = path[:loc[0]] + string(r.source.ExpandString(nil, r.Target, path, loc)) + path[loc[1]:]
		}

		return &Descriptor{
			Route:    r,
			Pathname: pathname,
			Original: path,
			authType: t.authType(r),
		}, true
	}
	return nil, false
}

// IsLogoutRequest reports whether path is the configured logout endpoint.
func (t *Table) IsLogoutRequest(path string) bool {
	return t.cfg.Logout != nil && t.cfg.Logout.LogoutEndpoint != "" && path == t.cfg.Logout.LogoutEndpoint
}

// LogoutPage returns the page shown after logout, defaulting to "/".
func (t *Table) LogoutPage() string {
	if t.cfg.Logout == nil || t.cfg.Logout.LogoutPage == "" {
		return "/"
	}
	return t.cfg.Logout.LogoutPage
}

func (t *Table) authType(r *Route) AuthType {
	if t.cfg.AuthenticationMethod == MethodNone {
		return AuthNone
	}
	if r.AuthenticationType != "" {
		return r.AuthenticationType
	}
	return t.defaults
}

func fmtRouteErr(sentinel error, source string, cause error) error {
	if cause != nil {
		return fmt.Errorf("%w: %q: %w", sentinel, source, cause)
	}
	return fmt.Errorf("%w: %q", sentinel, source)
}
