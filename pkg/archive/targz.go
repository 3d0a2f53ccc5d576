// Package archive extracts package tarballs.
//
// npm-style tarballs are gzip-compressed tar streams whose entries live under
// a single wrapper directory (usually "package/"). [TarGz] strips that
// wrapper so the package contents land directly in the destination.
package archive

import (
	"archive/tar"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/gzip"
)

// ErrUnsafePath is returned for entries that would be written outside the
// destination directory.
var ErrUnsafePath = errors.New("archive entry escapes destination")

// TarGz extracts .tgz archives.
type TarGz struct {
	// StripComponents is the number of leading path elements removed from
	// each entry name. Entries with fewer elements are skipped.
	StripComponents int
}

// NewTarGz returns an extractor that strips the wrapper directory npm puts
// around package contents.
func NewTarGz() *TarGz {
	return &TarGz{StripComponents: 1}
}

// Extract unpacks archivePath into destDir, creating destDir if needed.
// Only directories and regular files are written; links and special files
// are skipped. The context is checked between entries.
func (x *TarGz) Extract(ctx context.Context, archivePath, destDir string) error {
	f, err := os.Open(archivePath)
	if err != nil {
		return err
	}
	defer f.Close()

	gz, err := gzip.NewReader(f)
	if err != nil {
		return fmt.Errorf("open gzip stream %s: %w", archivePath, err)
	}
	defer gz.Close()

	root, err := filepath.Abs(destDir)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(root, 0o755); err != nil {
		return err
	}

	tr := tar.NewReader(gz)
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		hdr, err := tr.Next()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return fmt.Errorf("read tar entry: %w", err)
		}

		rel, ok, err := x.strip(hdr.Name)
		if err != nil {
			return err
		}
		if !ok {
			continue
		}
		target, err := within(root, rel)
		if err != nil {
			return fmt.Errorf("%w: %s", err, hdr.Name)
		}

		switch hdr.Typeflag {
		case tar.TypeDir:
			if err := os.MkdirAll(target, 0o755); err != nil {
				return err
			}
		case tar.TypeReg:
			if err := writeFile(target, tr, hdr.FileInfo().Mode().Perm()); err != nil {
				return err
			}
		}
	}
}

// strip removes StripComponents leading elements from a tar entry name.
// Absolute names and names climbing above the archive root are rejected.
func (x *TarGz) strip(name string) (string, bool, error) {
	clean := path.Clean(name)
	if path.IsAbs(clean) || clean == ".." || strings.HasPrefix(clean, "../") {
		return "", false, fmt.Errorf("%w: %s", ErrUnsafePath, name)
	}
	if clean == "." {
		return "", false, nil
	}
	parts := strings.Split(clean, "/")
	if len(parts) <= x.StripComponents {
		return "", false, nil
	}
	return path.Join(parts[x.StripComponents:]...), true, nil
}

func within(root, rel string) (string, error) {
	target := filepath.Join(root, filepath.FromSlash(rel))
	if target != root && !strings.HasPrefix(target, root+string(filepath.Separator)) {
		return "", ErrUnsafePath
	}
	return target, nil
}

func writeFile(target string, r io.Reader, perm os.FileMode) error {
	if perm == 0 {
		perm = 0o644
	}
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return err
	}
	out, err := os.OpenFile(target, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, perm|0o600)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, r); err != nil {
		out.Close()
		return fmt.Errorf("write %s: %w", target, err)
	}
	return out.Close()
}
