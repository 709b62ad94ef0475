// Package config reads the router's environment into a single Config value.
//
// Handlers never look at the environment themselves: cmd/approuter calls
// Load once and passes the relevant fields to each constructor.
//
//	cfg, err := config.Load()
//	if err != nil {
//		return err
//	}
//	gate, err := logingate.New(logingate.Config{
//		LogoutWithoutSessionTriggersLogin: cfg.LogoutWithoutSessionTriggersLogin(),
//		PreserveFragment:                  cfg.PreserveFragment(),
//		Realm:                             cfg.App.Realm(),
//	}, deps)
//
// LOGOUT_WO_SESSION_TRIGGERS_LOGIN is on only for the exact value "true" and
// PRESERVE_FRAGMENT is off only for the exact value "false"; any other value
// keeps the default. VCAP_APPLICATION is decoded into AppEnv, which builds
// the Basic authentication realm.
package config
