package config

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/caarlos0/env/v11"

	"github.com/dmitrymomot/approuter/pkg/db"
	"github.com/dmitrymomot/approuter/pkg/forward"
	"github.com/dmitrymomot/approuter/pkg/logger"
	"github.com/dmitrymomot/approuter/pkg/oauth"
	"github.com/dmitrymomot/approuter/pkg/redis"
)

// Session store kinds.
const (
	StoreMemory   = "memory"
	StoreRedis    = "redis"
	StorePostgres = "postgres"
)

var (
	ErrParse          = errors.New("config: failed to parse environment")
	ErrUnknownStore   = errors.New("config: unknown session store")
	ErrMissingRedis   = errors.New("config: REDIS_URL is required for the redis session store")
	ErrMissingDB      = errors.New("config: DATABASE_CONN_URL is required for the postgres session store")
	ErrMissingSecret  = errors.New("config: COOKIE_SECRET is required when an identity provider is configured")
	ErrInvalidTimeout = errors.New("config: SESSION_TIMEOUT must be positive")
)

// Config is the router's process configuration, read once at startup.
type Config struct {
	App          AppEnv               `env:"VCAP_APPLICATION"`
	BasicUsers   map[string]string    `env:"BASIC_AUTH_USERS"`
	Destinations forward.Destinations `env:"DESTINATIONS"`

	Log     logger.Config
	Redis   redis.Config
	DB      db.Config
	Session SessionConfig `envPrefix:"SESSION_"`
	Token   TokenConfig   `envPrefix:"TOKEN_"`
	XSUAA   oauth.Config  `envPrefix:"XSUAA_"`
	IAS     oauth.Config  `envPrefix:"IAS_"`

	WorkingDir   string `env:"WORKING_DIR" envDefault:"."`
	RoutesFile   string `env:"ROUTES_FILE" envDefault:"xs-app.json"`
	CookieSecret string `env:"COOKIE_SECRET"`
	CallbackPath string `env:"LOGIN_CALLBACK_PATH" envDefault:"/login/callback"`

	AuthCodeTTL     time.Duration `env:"AUTH_CODE_TTL" envDefault:"1m"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"30s"`
	Port            int           `env:"PORT" envDefault:"5000"`

	// Only the literal "true" enables the flag.
	LogoutWithoutSessionTriggersLoginFlag string `env:"LOGOUT_WO_SESSION_TRIGGERS_LOGIN"`
	// Only the literal "false" disables fragment preservation.
	PreserveFragmentFlag string `env:"PRESERVE_FRAGMENT"`
}

// LogoutWithoutSessionTriggersLogin reports whether logout requests without
// a session must go through login first.
func (c Config) LogoutWithoutSessionTriggersLogin() bool {
	return c.LogoutWithoutSessionTriggersLoginFlag == "true"
}

// PreserveFragment reports whether the URL fragment survives the login redirect.
func (c Config) PreserveFragment() bool {
	return c.PreserveFragmentFlag != "false"
}

// SessionConfig selects the session store and cookie behaviour.
type SessionConfig struct {
	Store string `env:"STORE" envDefault:"memory"`
	// Timeout is the idle timeout in minutes.
	Timeout int  `env:"TIMEOUT" envDefault:"15"`
	Secure  bool `env:"SECURE" envDefault:"false"`
	// SweepSchedule is the cron schedule purging expired Postgres sessions.
	SweepSchedule string `env:"SWEEP_SCHEDULE" envDefault:"*/5 * * * *"`
}

// IdleTimeout returns the session idle timeout.
func (s SessionConfig) IdleTimeout() time.Duration {
	return time.Duration(s.Timeout) * time.Minute
}

// TokenConfig verifies exchange tokens.
type TokenConfig struct {
	SigningKey string `env:"SIGNING_KEY"`
	Issuer     string `env:"ISSUER"`
}

// Load parses the process environment into a Config and validates it.
func Load() (Config, error) {
	return parse(env.Options{})
}

// LoadFrom parses the given variables instead of the process environment.
func LoadFrom(environ map[string]string) (Config, error) {
	return parse(env.Options{Environment: environ})
}

func parse(opts env.Options) (Config, error) {
	cfg, err := env.ParseAsWithOptions[Config](opts)
	if err != nil {
		return Config{}, errors.Join(ErrParse, err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks cross-field constraints env tags cannot express.
func (c Config) Validate() error {
	switch c.Session.Store {
	case StoreMemory:
	case StoreRedis:
		if c.Redis.URL == "" {
			return ErrMissingRedis
		}
	case StorePostgres:
		if c.DB.ConnectionString == "" {
			return ErrMissingDB
		}
	default:
		return fmt.Errorf("%w: %q", ErrUnknownStore, c.Session.Store)
	}

	if c.Session.Timeout <= 0 {
		return ErrInvalidTimeout
	}
	if (c.XSUAA.Enabled() || c.IAS.Enabled()) && c.CookieSecret == "" {
		return ErrMissingSecret
	}
	return nil
}

// Address returns the listen address for Port.
func (c Config) Address() string {
	return ":" + strconv.Itoa(c.Port)
}
