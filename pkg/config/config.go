// Package config loads plugfetch settings from a TOML file.
//
// A complete file looks like this:
//
//	registry   = "https://registry.npmjs.org"
//	user_agent = "my-plugin-host/1.0"
//
//	[auth]
//	token = "${NPM_TOKEN}"
//
//	[scopes."@acme"]
//	registry = "https://npm.acme.dev"
//
//	[scopes."@acme".auth]
//	username = "ci"
//	password = "${ACME_PASSWORD}"
//
// Every string value is expanded with [os.ExpandEnv] after decoding, so
// secrets can stay in the environment. An auth table holds either a token
// (with an optional header name) or a username and password, never both.
package config

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"

	perrors "github.com/matzehuels/plugfetch/pkg/errors"
	"github.com/matzehuels/plugfetch/pkg/registry"
)

const (
	appName  = "plugfetch"
	fileName = "config.toml"
)

// File is the decoded config file.
type File struct {
	Registry  string           `toml:"registry"`
	UserAgent string           `toml:"user_agent"`
	Auth      *Auth            `toml:"auth"`
	Scopes    map[string]Scope `toml:"scopes"`
}

// Auth is one credential. Token and Username are mutually exclusive.
type Auth struct {
	Token    string `toml:"token"`
	Header   string `toml:"header"`
	Username string `toml:"username"`
	Password string `toml:"password"`
}

// Scope routes one package scope to its own registry.
type Scope struct {
	Registry string `toml:"registry"`
	Auth     *Auth  `toml:"auth"`
}

// Overrides carries command-line values that take precedence over the file.
// Empty fields leave the file value alone.
type Overrides struct {
	Registry  string
	Token     string
	UserAgent string
}

// DefaultPath returns $XDG_CONFIG_HOME/plugfetch/config.toml, falling back
// to ~/.config/plugfetch/config.toml.
func DefaultPath() (string, error) {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, appName, fileName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", perrors.Wrap(perrors.ErrCodeInvalidConfig, err, "cannot determine config directory")
	}
	return filepath.Join(home, ".config", appName, fileName), nil
}

// Load reads and validates the file at path. When path is empty the
// default path is used and a missing file yields an empty config; an
// explicit path must exist.
func Load(path string) (*File, error) {
	explicit := path != ""
	if !explicit {
		p, err := DefaultPath()
		if err != nil {
			return nil, err
		}
		path = p
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if !explicit && errors.Is(err, fs.ErrNotExist) {
			return &File{}, nil
		}
		return nil, perrors.Wrap(perrors.ErrCodeInvalidConfig, err, "cannot read config file")
	}
	return Parse(data)
}

// Parse decodes and validates TOML config data. Unknown keys are rejected.
func Parse(data []byte) (*File, error) {
	var f File
	md, err := toml.Decode(string(data), &f)
	if err != nil {
		return nil, perrors.Wrap(perrors.ErrCodeInvalidConfig, err, "invalid config file")
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return nil, perrors.New(perrors.ErrCodeInvalidConfig, "unknown config keys: %s", strings.Join(keys, ", "))
	}

	f.expand(os.ExpandEnv)
	if err := f.Validate(); err != nil {
		return nil, err
	}
	return &f, nil
}

func (f *File) expand(fn func(string) string) {
	f.Registry = fn(f.Registry)
	f.UserAgent = fn(f.UserAgent)
	f.Auth.expand(fn)
	for name, s := range f.Scopes {
		s.Registry = fn(s.Registry)
		s.Auth.expand(fn)
		f.Scopes[name] = s
	}
}

func (a *Auth) expand(fn func(string) string) {
	if a == nil {
		return
	}
	a.Token = fn(a.Token)
	a.Header = fn(a.Header)
	a.Username = fn(a.Username)
	a.Password = fn(a.Password)
}

// Validate checks URLs, scope names and credentials.
func (f *File) Validate() error {
	if f.Registry != "" {
		if err := perrors.ValidateURL(f.Registry); err != nil {
			return err
		}
	}
	if err := f.Auth.validate("auth"); err != nil {
		return err
	}

	for name, s := range f.Scopes {
		if len(name) < 2 || name[0] != '@' || strings.Contains(name, "/") {
			return perrors.New(perrors.ErrCodeInvalidConfig, "scope %q must look like \"@name\"", name)
		}
		if err := perrors.ValidateURL(s.Registry); err != nil {
			return perrors.New(perrors.ErrCodeInvalidConfig, "scope %q: %s", name, perrors.UserMessage(err))
		}
		if err := s.Auth.validate("scopes." + name + ".auth"); err != nil {
			return err
		}
	}
	return nil
}

func (a *Auth) validate(section string) error {
	if a == nil {
		return nil
	}
	switch {
	case a.Token != "" && (a.Username != "" || a.Password != ""):
		return perrors.New(perrors.ErrCodeInvalidConfig, "[%s] sets both a token and basic credentials", section)
	case a.Header != "" && a.Token == "":
		return perrors.New(perrors.ErrCodeInvalidConfig, "[%s] sets a header without a token", section)
	case a.Password != "" && a.Username == "":
		return perrors.New(perrors.ErrCodeInvalidConfig, "[%s] sets a password without a username", section)
	}
	return nil
}

// Apply returns a copy of f with the non-empty overrides applied. A token
// override replaces whatever credential the file set for the default
// registry; scoped credentials are kept.
func (f *File) Apply(o Overrides) *File {
	out := *f
	if o.Registry != "" {
		out.Registry = o.Registry
	}
	if o.UserAgent != "" {
		out.UserAgent = o.UserAgent
	}
	if o.Token != "" {
		out.Auth = &Auth{Token: o.Token}
	}
	return &out
}

// RegistryURL returns the default registry, or [registry.DefaultRegistry]
// when the file does not set one.
func (f *File) RegistryURL() string {
	if f.Registry == "" {
		return registry.DefaultRegistry
	}
	return f.Registry
}

// ClientConfig converts f into the registry client's settings.
func (f *File) ClientConfig() registry.Config {
	cfg := registry.Config{
		Auth:      f.Auth.Credential(),
		UserAgent: f.UserAgent,
	}
	if len(f.Scopes) > 0 {
		cfg.Scopes = make(map[string]registry.Scope, len(f.Scopes))
		for name, s := range f.Scopes {
			cfg.Scopes[name] = registry.Scope{Registry: s.Registry, Auth: s.Auth.Credential()}
		}
	}
	return cfg
}

// Credential returns the registry credential a describes, or nil for an
// absent or empty auth table.
func (a *Auth) Credential() registry.Credential {
	switch {
	case a == nil:
		return nil
	case a.Token != "":
		return registry.TokenAuth{Token: a.Token, Header: a.Header}
	case a.Username != "":
		return registry.BasicAuth{Username: a.Username, Password: a.Password}
	}
	return nil
}
