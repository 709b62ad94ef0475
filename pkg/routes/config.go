package routes

import (
	"regexp"
	"slices"
	"strings"
)

// AuthType names how requests on a route are authenticated.
type AuthType string

const (
	AuthXSUAA AuthType = "xsuaa"
	AuthIAS   AuthType = "ias"
	AuthBasic AuthType = "basic"
	AuthNone  AuthType = "none"
)

// Protected reports whether the type is backed by an interactive identity provider.
func (a AuthType) Protected() bool {
	return a == AuthXSUAA || a == AuthIAS
}

func (a AuthType) valid() bool {
	switch a {
	case AuthXSUAA, AuthIAS, AuthBasic, AuthNone:
		return true
	}
	return false
}

// Authentication methods.
const (
	MethodRoute = "route"
	MethodNone  = "none"
)

// Config is the router configuration file (xs-app.json or xs-app.yaml).
type Config struct {
	Logout                    *Logout  `json:"logout,omitempty" yaml:"logout,omitempty"`
	WelcomeFile               string   `json:"welcomeFile,omitempty" yaml:"welcomeFile,omitempty"`
	AuthenticationMethod      string   `json:"authenticationMethod,omitempty" yaml:"authenticationMethod,omitempty"`
	DefaultAuthenticationType AuthType `json:"defaultAuthenticationType,omitempty" yaml:"defaultAuthenticationType,omitempty"`
	Routes                    []Route  `json:"routes" yaml:"routes"`
}

// Logout configures the central logout endpoint.
type Logout struct {
	LogoutEndpoint string `json:"logoutEndpoint" yaml:"logoutEndpoint"`
	LogoutPage     string `json:"logoutPage,omitempty" yaml:"logoutPage,omitempty"`
}

// Route maps request paths matching Source to a local directory or a destination.
type Route struct {
	Replace            *Replace `json:"replace,omitempty" yaml:"replace,omitempty"`
	Source             string   `json:"source" yaml:"source"`
	Target             string   `json:"target,omitempty" yaml:"target,omitempty"`
	LocalDir           string   `json:"localDir,omitempty" yaml:"localDir,omitempty"`
	Destination        string   `json:"destination,omitempty" yaml:"destination,omitempty"`
	AuthenticationType AuthType `json:"authenticationType,omitempty" yaml:"authenticationType,omitempty"`
	HTTPMethods        []string `json:"httpMethods,omitempty" yaml:"httpMethods,omitempty"`

	source *regexp.Regexp
}

// Replace selects files rendered as mustache templates against View.
type Replace struct {
	View         map[string]any `json:"view,omitempty" yaml:"view,omitempty"`
	PathSuffixes []string       `json:"pathSuffixes" yaml:"pathSuffixes"`
}

// Matches reports whether pathname ends with one of the configured suffixes.
func (r *Replace) Matches(pathname string) bool {
	if r == nil {
		return false
	}
	return slices.ContainsFunc(r.PathSuffixes, func(suffix string) bool {
		return strings.HasSuffix(pathname, suffix)
	})
}

// AllowsMethod reports whether the route accepts method.
// Routes without an httpMethods list accept every method.
func (r *Route) AllowsMethod(method string) bool {
	if len(r.HTTPMethods) == 0 {
		return true
	}
	return slices.ContainsFunc(r.HTTPMethods, func(m string) bool {
		return strings.EqualFold(m, method)
	})
}

func (r *Route) compile() error {
	if r.Source == "" {
		return ErrEmptySource
	}
	re, err := regexp.Compile(r.Source)
	if err != nil {
		return fmtRouteErr(ErrInvalidSource, r.Source, err)
	}
	r.source = re

	if r.LocalDir != "" && r.Destination != "" {
		return fmtRouteErr(ErrConflictingTargets, r.Source, nil)
	}
	if r.Replace != nil && r.LocalDir == "" {
		return fmtRouteErr(ErrReplaceWithoutDir, r.Source, nil)
	}
	if r.AuthenticationType != "" && !r.AuthenticationType.valid() {
		return fmtRouteErr(ErrUnknownAuthType, r.Source, nil)
	}
	methods := make([]string, len(r.HTTPMethods))
	for i, m := range r.HTTPMethods {
		methods[i] = strings.ToUpper(m)
	}
	r.HTTPMethods = methods
	return nil
}
