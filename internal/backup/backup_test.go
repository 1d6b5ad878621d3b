package backup

import (
	"archive/zip"
	"context"
	"io"
	"os"
	"path/filepath"
	"sort"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestName(t *testing.T) {
	ts := time.Date(2024, 3, 5, 14, 7, 9, 0, time.UTC)
	assert.Equal(t, "backup_addons_20240305_140709.zip", Name("/srv/odoo/addons/", ts))
}

func TestCreate(t *testing.T) {
	src := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(src, "sale_ext", "views"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(src, "sale_ext", "__manifest__.py"), []byte("{'name': 'x'}"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(src, "sale_ext", "views", "v.xml"), []byte("<odoo/>"), 0644))

	// Backups written inside the tree must not include themselves.
	dest := filepath.Join(src, "backups")
	path, err := Create(context.Background(), src, dest, time.Now())
	require.NoError(t, err)

	zr, err := zip.OpenReader(path)
	require.NoError(t, err)
	defer zr.Close()

	var names []string
	contents := map[string]string{}
	for _, f := range zr.File {
		names = append(names, f.Name)
		if f.FileInfo().IsDir() {
			continue
		}
		rc, err := f.Open()
		require.NoError(t, err)
		data, err := io.ReadAll(rc)
		rc.Close()
		require.NoError(t, err)
		contents[f.Name] = string(data)
	}
	sort.Strings(names)
	assert.Equal(t, []string{"backups/", "sale_ext/", "sale_ext/__manifest__.py", "sale_ext/views/", "sale_ext/views/v.xml"}, names)
	assert.Equal(t, "<odoo/>", contents["sale_ext/views/v.xml"])
}

func TestCreate_Cancelled(t *testing.T) {
	src := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(src, "a.txt"), []byte("a"), 0644))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	dest := t.TempDir()
	_, err := Create(ctx, src, dest, time.Now())
	assert.ErrorIs(t, err, context.Canceled)

	entries, err := os.ReadDir(dest)
	require.NoError(t, err)
	assert.Empty(t, entries)
}
