// Package registry resolves and downloads packages from npm-compatible
// registries.
//
// # Usage
//
//	client := registry.New(registry.DefaultRegistry, registry.Config{
//	    Scopes: map[string]registry.Scope{
//	        "@acme": {
//	            Registry: "https://npm.acme.dev",
//	            Auth:     registry.TokenAuth{Token: os.Getenv("ACME_TOKEN")},
//	        },
//	    },
//	})
//
//	info, err := client.Get(ctx, "@acme/widgets", "^2.1.0")
//	if err != nil {
//	    return err
//	}
//	dir, err := client.Download(ctx, "plugins", *info)
//
// # Scopes
//
// A package name's scope is everything before its last "/". When the
// configured scopes contain that exact string, its registry and credential
// are used for both the metadata request and the tarball download; all
// other names go to the default registry.
//
// # Version Selection
//
// [ResolveVersion] accepts a dist-tag ("latest", "next"), a concrete version
// ("1.4.0", "v1.4.0") or a semver range ("^1.2.0", "~3", ">=2 <3"). Exact
// matches win over ranges; ranges pick the highest satisfying release.
//
// # Collaborators
//
// Network access goes through a [Transport] and unpacking through an
// [Extractor]. The defaults are [httputil.Transport] and [archive.TarGz];
// tests and embedders can swap either with [WithTransport] and
// [WithExtractor].
//
// [httputil.Transport]: github.com/matzehuels/plugfetch/pkg/httputil.Transport
// [archive.TarGz]: github.com/matzehuels/plugfetch/pkg/archive.TarGz
package registry
