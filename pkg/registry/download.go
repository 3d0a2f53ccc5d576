package registry

import (
	"context"
	"errors"
	"io/fs"
	"path/filepath"

	perrors "github.com/matzehuels/plugfetch/pkg/errors"
)

// Download fetches the tarball of info and extracts it into
// destDir/<info.Name>, returning that directory. The intermediate archive
// is removed before Download returns, whether extraction succeeds or not.
func (c *Client) Download(ctx context.Context, destDir string, info PackageInfo) (string, error) {
	if info.TarballURL == "" {
		return "", perrors.New(perrors.ErrCodeInvalidDistTarball, "Invalid dist.tarball property for package '%s'", info.Name)
	}
	if err := perrors.ValidatePackageName(info.Name); err != nil {
		return "", err
	}

	scope := c.scopes.Resolve(info.Name)
	c.logger.Debug("downloading tarball", "package", info.Name, "version", info.Version, "url", info.TarballURL)

	archivePath, err := c.transport.DownloadFile(ctx, info.TarballURL, c.headers(scope))
	if err != nil {
		return "", perrors.Wrap(perrors.ErrCodeTransport, err, "Failed to download package '%s'", info.Name)
	}

	pluginDir := filepath.Join(destDir, info.Name)
	if err := c.extract(ctx, archivePath, pluginDir); err != nil {
		return "", err
	}

	c.logger.Debug("extracted package", "package", info.Name, "dir", pluginDir)
	return pluginDir, nil
}

// extract unpacks archivePath and always removes it afterwards. A failed
// removal is only logged so it never hides the extraction result.
func (c *Client) extract(ctx context.Context, archivePath, dir string) error {
	defer func() {
		if err := c.remove(archivePath); err != nil && !errors.Is(err, fs.ErrNotExist) {
			c.logger.Warn("failed to remove temporary tarball", "path", archivePath, "err", err)
		}
	}()

	if err := c.extractor.Extract(ctx, archivePath, dir); err != nil {
		return perrors.Wrap(perrors.ErrCodeExtraction, err, "Failed to extract package into '%s'", dir)
	}
	return nil
}
