package registry

import (
	"context"
	"io"
	"maps"
	"os"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/plugfetch/pkg/archive"
	perrors "github.com/matzehuels/plugfetch/pkg/errors"
	"github.com/matzehuels/plugfetch/pkg/httputil"
)

const (
	// DefaultRegistry is the public npm registry.
	DefaultRegistry = "https://registry.npmjs.org"

	// DefaultUserAgent is sent when [Config.UserAgent] is empty.
	DefaultUserAgent = "plugfetch"

	// Prefer the abbreviated install metadata format, see
	// https://github.com/npm/registry/blob/main/docs/responses/package-metadata.md
	acceptHeader = "application/vnd.npm.install-v1+json; q=1.0, application/json; q=0.8, */*"
)

// Transport performs the network side of the client.
type Transport interface {
	// GetJSON fetches rawURL and decodes the JSON body into v. An empty body
	// must leave v untouched.
	GetJSON(ctx context.Context, rawURL string, headers map[string]string, v any) error

	// DownloadFile writes the body of rawURL to a new local file and returns
	// its path. The caller owns and removes the file.
	DownloadFile(ctx context.Context, rawURL string, headers map[string]string) (string, error)
}

// Extractor unpacks a downloaded archive into a directory.
type Extractor interface {
	Extract(ctx context.Context, archivePath, destDir string) error
}

// PackageInfo identifies one concrete, downloadable package version.
type PackageInfo struct {
	Name       string `json:"name"`
	Version    string `json:"version"`
	TarballURL string `json:"tarball"`
}

// Config holds the registry settings fixed at construction.
type Config struct {
	// Auth authenticates requests to the default registry.
	Auth Credential

	// UserAgent overrides [DefaultUserAgent].
	UserAgent string

	// Scopes maps scope prefixes such as "@org" to their own registry.
	Scopes map[string]Scope
}

// Client resolves package versions against a registry and downloads their
// tarballs. It holds no mutable state and is safe for concurrent use; it
// does not cache metadata or de-duplicate downloads.
type Client struct {
	scopes         *ScopeResolver
	defaultHeaders map[string]string
	transport      Transport
	extractor      Extractor
	remove         func(string) error
	logger         *log.Logger
}

// Option configures a [Client].
type Option func(*Client)

// WithTransport replaces the default HTTP transport.
func WithTransport(t Transport) Option {
	return func(c *Client) { c.transport = t }
}

// WithExtractor replaces the default .tgz extractor.
func WithExtractor(x Extractor) Option {
	return func(c *Client) { c.extractor = x }
}

// WithLogger sets the logger. The default discards everything.
func WithLogger(l *log.Logger) Option {
	return func(c *Client) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithRemoveFunc replaces os.Remove for deleting downloaded archives.
func WithRemoveFunc(fn func(string) error) Option {
	return func(c *Client) { c.remove = fn }
}

// New creates a Client whose default scope points at registryURL.
func New(registryURL string, cfg Config, opts ...Option) *Client {
	userAgent := cfg.UserAgent
	if userAgent == "" {
		userAgent = DefaultUserAgent
	}

	headers := map[string]string{
		"accept-encoding": "gzip",
		"accept":          acceptHeader,
		"user-agent":      userAgent,
	}

	c := &Client{
		scopes:         NewScopeResolver(Scope{Registry: registryURL, Auth: cfg.Auth}, cfg.Scopes),
		defaultHeaders: headers,
		transport:      httputil.NewTransport(),
		extractor:      archive.NewTarGz(),
		remove:         os.Remove,
		logger:         log.New(io.Discard),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Get resolves versionOrTag for name. An empty versionOrTag means the
// "latest" dist-tag; see [ResolveVersion] for the matching rules.
func (c *Client) Get(ctx context.Context, name, versionOrTag string) (*PackageInfo, error) {
	if err := perrors.ValidatePackageName(name); err != nil {
		return nil, err
	}
	c.logger.Debug("resolving package", "package", name, "request", versionOrTag)

	doc, err := c.fetch(ctx, name)
	if err != nil {
		return nil, err
	}
	rec, err := ResolveVersion(doc, versionOrTag)
	if err != nil {
		return nil, err
	}

	c.logger.Debug("resolved package", "package", rec.Name, "version", rec.Version)
	return rec.PackageInfo(), nil
}

// Scope returns the registry scope used for name.
func (c *Client) Scope(name string) Scope {
	return c.scopes.Resolve(name)
}

// headers merges the default headers with the scope's auth headers.
// Auth headers win on conflict.
func (c *Client) headers(s Scope) map[string]string {
	h := maps.Clone(c.defaultHeaders)
	maps.Copy(h, AuthHeaders(s.Auth))
	return h
}
