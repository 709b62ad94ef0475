package config_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/approuter/pkg/config"
)

func TestLoadFrom_Defaults(t *testing.T) {
	t.Parallel()

	cfg, err := config.LoadFrom(map[string]string{})
	require.NoError(t, err)

	assert.Equal(t, ".", cfg.WorkingDir)
	assert.Equal(t, "xs-app.json", cfg.RoutesFile)
	assert.Equal(t, ":5000", cfg.Address())
	assert.False(t, cfg.LogoutWithoutSessionTriggersLogin())
	assert.True(t, cfg.PreserveFragment())
	assert.Equal(t, config.StoreMemory, cfg.Session.Store)
	assert.Equal(t, 15*time.Minute, cfg.Session.IdleTimeout())
	assert.Equal(t, "/login/callback", cfg.CallbackPath)
	assert.Equal(t, time.Minute, cfg.AuthCodeTTL)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "approuter_migrations", cfg.DB.MigrationsTable)
}

func TestLoadFrom_Values(t *testing.T) {
	t.Parallel()

	cfg, err := config.LoadFrom(map[string]string{
		"PORT":                             "8080",
		"LOGOUT_WO_SESSION_TRIGGERS_LOGIN": "true",
		"PRESERVE_FRAGMENT":                "false",
		"VCAP_APPLICATION":                 `{"application_name":"orders","uris":["orders.example.com","alt.example.com"]}`,
		"BASIC_AUTH_USERS":                 "alice:$2a$10$abc,bob:$2a$10$def",
		"DESTINATIONS":                     `[{"name":"backend","url":"http://localhost:9000"}]`,
		"SESSION_STORE":                    "redis",
		"SESSION_TIMEOUT":                  "30",
		"REDIS_URL":                        "redis://localhost:6379/0",
		"XSUAA_CLIENT_ID":                  "sb-orders",
		"XSUAA_CLIENT_SECRET":              "secret",
		"XSUAA_SCOPES":                     "openid,uaa.user",
		"COOKIE_SECRET":                    "0123456789abcdef0123456789abcdef",
	})
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Address())
	assert.True(t, cfg.LogoutWithoutSessionTriggersLogin())
	assert.False(t, cfg.PreserveFragment())
	assert.Equal(t, "orders", cfg.App.ApplicationName)
	assert.Equal(t, []string{"orders.example.com", "alt.example.com"}, cfg.App.URIs)
	assert.Equal(t, "orders at orders.example.com", cfg.App.Realm())
	assert.Equal(t, map[string]string{"alice": "$2a$10$abc", "bob": "$2a$10$def"}, cfg.BasicUsers)
	require.Len(t, cfg.Destinations, 1)
	assert.Equal(t, "backend", cfg.Destinations[0].Name)
	assert.Equal(t, 30*time.Minute, cfg.Session.IdleTimeout())
	assert.Equal(t, "sb-orders", cfg.XSUAA.ClientID)
	assert.Equal(t, []string{"openid", "uaa.user"}, cfg.XSUAA.Scopes)
	assert.False(t, cfg.IAS.Enabled())
}

func TestLoadFrom_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		env     map[string]string
		wantErr error
	}{
		{"malformed vcap", map[string]string{"VCAP_APPLICATION": "{"}, config.ErrParse},
		{"unknown store", map[string]string{"SESSION_STORE": "etcd"}, config.ErrUnknownStore},
		{"redis without url", map[string]string{"SESSION_STORE": "redis"}, config.ErrMissingRedis},
		{"postgres without url", map[string]string{"SESSION_STORE": "postgres"}, config.ErrMissingDB},
		{"zero timeout", map[string]string{"SESSION_TIMEOUT": "0"}, config.ErrInvalidTimeout},
		{"idp without secret", map[string]string{"IAS_CLIENT_ID": "x", "IAS_CLIENT_SECRET": "y"}, config.ErrMissingSecret},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := config.LoadFrom(tt.env)
			require.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestLoadFrom_Flags(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name           string
		env            map[string]string
		logoutTriggers bool
		preserve       bool
	}{
		{"unset", map[string]string{}, false, true},
		{"literal true and false", map[string]string{"LOGOUT_WO_SESSION_TRIGGERS_LOGIN": "true", "PRESERVE_FRAGMENT": "false"}, true, false},
		{"numeric values keep defaults", map[string]string{"LOGOUT_WO_SESSION_TRIGGERS_LOGIN": "1", "PRESERVE_FRAGMENT": "0"}, false, true},
		{"upper case keeps defaults", map[string]string{"LOGOUT_WO_SESSION_TRIGGERS_LOGIN": "TRUE", "PRESERVE_FRAGMENT": "FALSE"}, false, true},
		{"arbitrary values keep defaults", map[string]string{"LOGOUT_WO_SESSION_TRIGGERS_LOGIN": "yes", "PRESERVE_FRAGMENT": "yes"}, false, true},
		{"empty values keep defaults", map[string]string{"LOGOUT_WO_SESSION_TRIGGERS_LOGIN": "", "PRESERVE_FRAGMENT": ""}, false, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			cfg, err := config.LoadFrom(tt.env)
			require.NoError(t, err)
			assert.Equal(t, tt.logoutTriggers, cfg.LogoutWithoutSessionTriggersLogin())
			assert.Equal(t, tt.preserve, cfg.PreserveFragment())
		})
	}
}

func TestAppEnv_UnmarshalText(t *testing.T) {
	t.Parallel()

	t.Run("object", func(t *testing.T) {
		t.Parallel()
		var a config.AppEnv
		require.NoError(t, a.UnmarshalText([]byte(`{"name":"orders","uris":["orders.example.com"],"space_name":"dev"}`)))
		assert.Equal(t, "orders", a.Name)
		assert.Equal(t, "orders at orders.example.com", a.Realm())
	})

	t.Run("blank", func(t *testing.T) {
		t.Parallel()
		a := config.AppEnv{Name: "stale"}
		require.NoError(t, a.UnmarshalText([]byte("  ")))
		assert.Equal(t, config.AppEnv{}, a)
	})

	t.Run("not an object", func(t *testing.T) {
		t.Parallel()
		var a config.AppEnv
		require.Error(t, a.UnmarshalText([]byte(`"orders"`)))
	})
}

func TestAppEnv_Realm(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		env  config.AppEnv
		want string
	}{
		{"application name and uri", config.AppEnv{ApplicationName: "app", Name: "n", URIs: []string{"a.example.com"}}, "app at a.example.com"},
		{"falls back to name", config.AppEnv{Name: "n", URIs: []string{"a.example.com"}}, "n at a.example.com"},
		{"no uris", config.AppEnv{ApplicationName: "app"}, "app at "},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, tt.env.Realm())
		})
	}
}
