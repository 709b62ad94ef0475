package config

import (
	"encoding/json"
	"fmt"
	"strings"
)

// AppEnv is the subset of VCAP_APPLICATION the router uses.
type AppEnv struct {
	ApplicationName string   `json:"application_name"`
	Name            string   `json:"name"`
	URIs            []string `json:"uris"`
}

// appEnvJSON has AppEnv's fields without its methods, so encoding/json
// decodes the object instead of calling UnmarshalText again.
type appEnvJSON AppEnv

// UnmarshalText decodes the VCAP_APPLICATION JSON document.
func (a *AppEnv) UnmarshalText(text []byte) error {
	if strings.TrimSpace(string(text)) == "" {
		*a = AppEnv{}
		return nil
	}
	var v appEnvJSON
	if err := json.Unmarshal(text, &v); err != nil {
		return fmt.Errorf("decode VCAP_APPLICATION: %w", err)
	}
	*a = AppEnv(v)
	return nil
}

// Realm returns "<name> at <first uri>" for Basic authentication challenges.
// application_name takes precedence over name; a missing URI leaves the tail empty.
func (a AppEnv) Realm() string {
	name := a.ApplicationName
	if name == "" {
		name = a.Name
	}
	uri := ""
	if len(a.URIs) > 0 {
		uri = a.URIs[0]
	}
	return fmt.Sprintf("%s at %s", name, uri)
}
