package discovery

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTree(t *testing.T, root string, files ...string) {
	t.Helper()
	for _, f := range files {
		p := filepath.Join(root, filepath.FromSlash(f))
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0755))
		require.NoError(t, os.WriteFile(p, []byte("x"), 0644))
	}
}

func rel(t *testing.T, root string, paths []string) []string {
	t.Helper()
	out := make([]string, 0, len(paths))
	for _, p := range paths {
		r, err := filepath.Rel(root, p)
		require.NoError(t, err)
		out = append(out, filepath.ToSlash(r))
	}
	return out
}

func TestFinder(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root,
		"sale_ext/__manifest__.py",
		"sale_ext/views/sale_views.xml",
		"sale_ext/views/wizard/confirm.xml",
		"sale_ext/data/data.xml",
		"sale_ext/static/src/app.js",
		"sale_ext/models/sale.py",
		"stock_ext/__manifest__.py",
		"stock_ext/views/stock.xml",
		".git/views/ignored.xml",
		"node_modules/pkg/__manifest__.py",
	)
	f := New(root)

	t.Run("views", func(t *testing.T) {
		views, err := f.Views()
		require.NoError(t, err)
		assert.Equal(t, []string{
			"sale_ext/views/sale_views.xml",
			"sale_ext/views/wizard/confirm.xml",
			"stock_ext/views/stock.xml",
		}, rel(t, root, views))
	})

	t.Run("manifests", func(t *testing.T) {
		manifests, err := f.Manifests()
		require.NoError(t, err)
		assert.Equal(t, []string{"sale_ext/__manifest__.py", "stock_ext/__manifest__.py"}, rel(t, root, manifests))
	})

	t.Run("extensions", func(t *testing.T) {
		files, err := f.FilesWithExtensions([]string{".py", ".JS"})
		require.NoError(t, err)
		assert.Equal(t, []string{
			"sale_ext/__manifest__.py",
			"sale_ext/models/sale.py",
			"sale_ext/static/src/app.js",
			"stock_ext/__manifest__.py",
		}, rel(t, root, files))
	})

	t.Run("extra excludes", func(t *testing.T) {
		views, err := New(root, "stock_ext").Views()
		require.NoError(t, err)
		assert.Len(t, views, 2)
	})
}

func TestFinder_EmptyTree(t *testing.T) {
	views, err := New(t.TempDir()).Views()
	require.NoError(t, err)
	assert.Empty(t, views)
	assert.False(t, IsDir(filepath.Join(t.TempDir(), "missing")))
}
