// Package backup archives an addons tree before it is migrated.
package backup

import (
	"archive/zip"
	"context"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"time"
)

// Name returns the archive file name for source at t.
func Name(source string, t time.Time) string {
	base := filepath.Base(filepath.Clean(source))
	return fmt.Sprintf("backup_%s_%s.zip", base, t.Format("20060102_150405"))
}

// Create writes a zip archive of source into destDir and returns its path.
// Paths inside the archive are relative to source. The archive itself is
// skipped when destDir lies inside source.
func Create(ctx context.Context, source, destDir string, now time.Time) (string, error) {
	if err := os.MkdirAll(destDir, 0755); err != nil {
		return "", fmt.Errorf("failed to ensure backup directory: %w", err)
	}
	target := filepath.Join(destDir, Name(source, now))
	absTarget, err := filepath.Abs(target)
	if err != nil {
		return "", err
	}

	f, err := os.Create(target)
	if err != nil {
		return "", fmt.Errorf("failed to create backup: %w", err)
	}
	zw := zip.NewWriter(f)

	walkErr := filepath.WalkDir(source, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if abs, _ := filepath.Abs(path); abs == absTarget {
			return nil
		}
		rel, err := filepath.Rel(source, path)
		if err != nil || rel == "." {
			return err
		}
		name := filepath.ToSlash(rel)
		if d.IsDir() {
			_, err := zw.Create(name + "/")
			return err
		}
		if !d.Type().IsRegular() {
			return nil
		}
		return addFile(zw, path, name, d)
	})

	closeErr := zw.Close()
	if err := f.Close(); err != nil && closeErr == nil {
		closeErr = err
	}
	if walkErr != nil || closeErr != nil {
		os.Remove(target)
		if walkErr != nil {
			return "", fmt.Errorf("failed to archive %s: %w", source, walkErr)
		}
		return "", fmt.Errorf("failed to finalize backup: %w", closeErr)
	}
	return target, nil
}

func addFile(zw *zip.Writer, path, name string, d fs.DirEntry) error {
	info, err := d.Info()
	if err != nil {
		return err
	}
	header, err := zip.FileInfoHeader(info)
	if err != nil {
		return err
	}
	header.Name = name
	header.Method = zip.Deflate
	w, err := zw.CreateHeader(header)
	if err != nil {
		return err
	}
	src, err := os.Open(path)
	if err != nil {
		return err
	}
	defer src.Close()
	_, err = io.Copy(w, src)
	return err
}
