package staticfiles

import (
	"time"

	"github.com/cbroglie/mustache"

	"github.com/dmitrymomot/approuter/pkg/cache"
)

const (
	defaultTemplateTTL     = 10 * time.Minute
	defaultTemplateEntries = 256
)

// Option configures a Server.
type Option func(*Server)

// WithTemplateCache replaces the in-memory cache of parsed templates.
// Entries are keyed by file path, size and modification time.
func WithTemplateCache(c cache.Cache[*mustache.Template]) Option {
	return func(s *Server) {
		if c != nil {
			s.templates = c
		}
	}
}

// WithTemplateTTL sets how long a parsed template is kept.
func WithTemplateTTL(d time.Duration) Option {
	return func(s *Server) {
		if d > 0 {
			s.templateTTL = d
		}
	}
}
