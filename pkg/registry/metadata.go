package registry

import (
	"context"
	"strings"

	perrors "github.com/matzehuels/plugfetch/pkg/errors"
)

// Document is a registry's metadata for one package name, as served at
// <registry>/<name> (e.g. https://registry.npmjs.org/@types%2Fnode).
type Document struct {
	Name     string                   `json:"name"`
	DistTags map[string]string        `json:"dist-tags,omitempty"`
	Versions map[string]VersionRecord `json:"versions"`
}

// VersionRecord is one published version inside a [Document].
type VersionRecord struct {
	Name    string `json:"name"`
	Version string `json:"version"`
	Dist    Dist   `json:"dist"`
}

// Dist holds the distribution details of a version.
type Dist struct {
	Tarball string `json:"tarball"`
}

// PackageInfo returns the resolution result for r.
func (r *VersionRecord) PackageInfo() *PackageInfo {
	return &PackageInfo{
		Name:       r.Name,
		Version:    r.Version,
		TarballURL: r.Dist.Tarball,
	}
}

// fetch retrieves and validates the metadata document for name.
func (c *Client) fetch(ctx context.Context, name string) (*Document, error) {
	scope := c.scopes.Resolve(name)
	url := joinURL(scope.Registry, encodeName(name))

	c.logger.Debug("fetching package metadata", "package", name, "url", url)

	var doc *Document
	if err := c.transport.GetJSON(ctx, url, c.headers(scope), &doc); err != nil {
		return nil, perrors.Wrap(perrors.ErrCodeTransport, err, "Failed to get package '%s'", name)
	}
	if doc == nil {
		return nil, perrors.New(perrors.ErrCodeEmptyResponse, "Failed to get package '%s' Response is empty", name)
	}
	if doc.Name == "" || len(doc.Versions) == 0 {
		return nil, perrors.New(perrors.ErrCodeInvalidMetadata, "Failed to get package '%s' Invalid json format", name)
	}
	return doc, nil
}

// encodeName escapes the slash between a scope and a package name, the
// only character registries expect encoded ("@org/pkg" -> "@org%2Fpkg").
func encodeName(name string) string {
	return strings.Replace(name, "/", "%2F", 1)
}

func joinURL(base, path string) string {
	return strings.TrimRight(base, "/") + "/" + strings.TrimLeft(path, "/")
}
