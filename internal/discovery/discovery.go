// Package discovery finds the files each migration step works on.
package discovery

import (
	"errors"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"github.com/mattn/go-zglob"
)

// Patterns used by the migration steps, relative to the addons root.
const (
	ViewsPattern     = "**/views/**/*.xml"
	ManifestsPattern = "**/__manifest__.py"
	AllFilesPattern  = "**/*"
)

// DefaultExcludes lists directories that are never searched.
var DefaultExcludes = []string{".git", ".hg", ".svn", "node_modules", "__pycache__", ".viewmig"}

// Finder globs files below Root, skipping excluded directories.
type Finder struct {
	Root     string
	Excludes []string
}

// New creates a Finder with DefaultExcludes plus extra excludes.
func New(root string, extra ...string) *Finder {
	return &Finder{Root: root, Excludes: append(append([]string{}, DefaultExcludes...), extra...)}
}

// Find returns the regular files matching pattern, sorted. A pattern that
// matches nothing yields an empty result.
func (f *Finder) Find(pattern string) ([]string, error) {
	// zglob normalizes paths to "/"
	glob := path.Join(filepath.ToSlash(f.Root), pattern)
	matches, err := zglob.Glob(glob)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return []string{}, nil
		}
		return nil, fmt.Errorf("failed to glob %s: %w", glob, err)
	}

	files := make([]string, 0, len(matches))
	for _, m := range matches {
		if f.excluded(m) {
			continue
		}
		info, err := os.Lstat(filepath.FromSlash(m))
		if err != nil || !info.Mode().IsRegular() {
			continue
		}
		files = append(files, filepath.FromSlash(m))
	}
	sort.Strings(files)
	return files, nil
}

func (f *Finder) excluded(match string) bool {
	rel := strings.TrimPrefix(match, filepath.ToSlash(f.Root))
	for _, part := range strings.Split(rel, "/") {
		for _, ex := range f.Excludes {
			if part == ex {
				return true
			}
		}
	}
	return false
}

// Views returns the XML files under a views directory.
func (f *Finder) Views() ([]string, error) {
	return f.Find(ViewsPattern)
}

// Manifests returns every module manifest.
func (f *Finder) Manifests() ([]string, error) {
	return f.Find(ManifestsPattern)
}

// FilesWithExtensions returns every file whose extension is in exts
// (compared case-insensitively, with the leading dot).
func (f *Finder) FilesWithExtensions(exts []string) ([]string, error) {
	all, err := f.Find(AllFilesPattern)
	if err != nil {
		return nil, err
	}
	if len(exts) == 0 {
		return all, nil
	}
	var out []string
	for _, p := range all {
		ext := strings.ToLower(filepath.Ext(p))
		for _, want := range exts {
			if ext == strings.ToLower(want) {
				out = append(out, p)
				break
			}
		}
	}
	return out, nil
}

// IsDir reports whether p is an existing directory.
func IsDir(p string) bool {
	info, err := os.Stat(p)
	return err == nil && info.IsDir()
}
