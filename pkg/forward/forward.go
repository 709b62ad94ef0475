package forward

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httputil"
	"net/url"
	"strings"

	"github.com/dmitrymomot/approuter/internal"
	"github.com/dmitrymomot/approuter/pkg/logger"
	"github.com/dmitrymomot/approuter/pkg/routes"
)

var (
	ErrInvalidDestination = errors.New("forward: invalid destination")
	ErrUnknownDestination = errors.New("forward: unknown destination")
)

// UserHeader carries the authenticated user id to the destination.
const UserHeader = "X-Approuter-User"

// Destination is a named upstream service.
type Destination struct {
	Name string `json:"name"`
	URL  string `json:"url"`
}

// Destinations decodes the DESTINATIONS environment variable, a JSON array
// of {"name", "url"} objects.
type Destinations []Destination

func (d *Destinations) UnmarshalText(text []byte) error {
	if len(strings.TrimSpace(string(text))) == 0 {
		*d = nil
		return nil
	}
	var out []Destination
	if err := json.Unmarshal(text, &out); err != nil {
		return errors.Join(ErrInvalidDestination, err)
	}
	*d = out
	return nil
}

// Forwarder proxies requests whose route names a destination.
type Forwarder struct {
	proxies map[string]*httputil.ReverseProxy
	logger  *slog.Logger
}

// New builds one reverse proxy per destination.
func New(dests []Destination, log *slog.Logger) (*Forwarder, error) {
	if log == nil {
		log = logger.NewNope()
	}
	f := &Forwarder{proxies: make(map[string]*httputil.ReverseProxy, len(dests)), logger: log}
	for _, d := range dests {
		u, err := url.Parse(d.URL)
		if err != nil || d.Name == "" || u.Scheme == "" || u.Host == "" {
			return nil, fmt.Errorf("%w: %q", ErrInvalidDestination, d.Name)
		}
		f.proxies[d.Name] = f.proxy(d.Name, u)
	}
	return f, nil
}

func (f *Forwarder) proxy(name string, target *url.URL) *httputil.ReverseProxy {
	return &httputil.ReverseProxy{
		Rewrite: func(pr *httputil.ProxyRequest) {
			pr.SetURL(target)
			pr.SetXForwarded()
		},
		ErrorHandler: func(w http.ResponseWriter, r *http.Request, err error) {
			f.logger.ErrorContext(r.Context(), "destination request failed",
				slog.String("destination", name),
				slog.String("path", r.URL.Path),
				slog.Any("error", err))
			w.WriteHeader(http.StatusBadGateway)
		},
	}
}

// Handler returns the end-of-chain handler. Requests without a destination
// route yield 404; an unconfigured destination yields 502.
func (f *Forwarder) Handler() internal.HandlerFunc {
	return func(c internal.Context) error {
		d, ok := routes.FromContext(c.Context())
		if !ok || d.Route == nil || d.Route.Destination == "" {
			return internal.ErrNotFound(http.StatusText(http.StatusNotFound))
		}

		proxy, ok := f.proxies[d.Route.Destination]
		if !ok {
			return internal.ErrBadGateway("Bad Gateway",
				internal.WithError(fmt.Errorf("%w: %s", ErrUnknownDestination, d.Route.Destination)))
		}

		r := c.Request().Clone(c.Context())
		r.URL.Path = d.Pathname
		r.URL.RawPath = ""
		r.Header.Del(UserHeader)
		if uid := c.UserID(); uid != "" {
			r.Header.Set(UserHeader, uid)
		}

		proxy.ServeHTTP(c.Response(), r)
		return nil
	}
}
