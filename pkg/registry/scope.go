package registry

import (
	"maps"
	"strings"
)

// Credential authenticates requests to a registry. It is implemented only
// by [TokenAuth] and [BasicAuth]; a nil Credential means anonymous access.
type Credential interface {
	credential()
}

// TokenAuth sends a token. With an empty Header the token goes into
// "Authorization: Bearer <token>"; otherwise Header carries the raw token.
type TokenAuth struct {
	Token  string
	Header string
}

// BasicAuth sends HTTP basic credentials.
type BasicAuth struct {
	Username string
	Password string
}

func (TokenAuth) credential() {}
func (BasicAuth) credential() {}

// Scope is a registry endpoint and the credential used against it.
type Scope struct {
	Registry string
	Auth     Credential
}

// ScopeResolver maps package names to scopes. It is immutable after
// construction and safe for concurrent use.
type ScopeResolver struct {
	fallback Scope
	scopes   map[string]Scope
}

// NewScopeResolver returns a resolver that answers fallback unless a
// package's scope prefix has an entry in scopes. The map is copied.
func NewScopeResolver(fallback Scope, scopes map[string]Scope) *ScopeResolver {
	return &ScopeResolver{
		fallback: fallback,
		scopes:   maps.Clone(scopes),
	}
}

// Resolve returns the scope for name. The scope prefix is everything before
// the last "/" ("@org" for "@org/pkg", "@a/b" for "@a/b/c") and must match a
// configured key exactly. Names without "/" always get the default scope.
func (r *ScopeResolver) Resolve(name string) Scope {
	i := strings.LastIndex(name, "/")
	if i < 0 {
		return r.fallback
	}
	if s, ok := r.scopes[name[:i]]; ok {
		return s
	}
	return r.fallback
}
