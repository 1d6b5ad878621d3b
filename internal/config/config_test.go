package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "viewmig.yaml"))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
	assert.Equal(t, "18.0.1.0.0", cfg.TargetVersion(18))
}

func TestLoad_YAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "viewmig.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
author: Jane Doe
maintainers: [jdoe]
target_versions:
  18: 18.0.2.0.0
tree_list_extensions: [.xml]
exclude_dirs: [vendor]
`), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "Jane Doe", cfg.Author)
	assert.Equal(t, []string{"jdoe"}, cfg.Maintainers)
	assert.Equal(t, "18.0.2.0.0", cfg.TargetVersion(18))
	assert.Equal(t, "17.0.1.0.0", cfg.TargetVersion(17))
	assert.Equal(t, []string{".xml"}, cfg.TreeListExtensions)
	assert.Equal(t, []string{"vendor"}, cfg.ExcludeDirs)
	assert.Equal(t, "update.log", cfg.LogFile)
	assert.Equal(t, path, Discover(dir))
}

func TestLoad_JSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "viewmig.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"author": "Jane", "log_file": "migration.log"}`), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "Jane", cfg.Author)
	assert.Equal(t, "migration.log", cfg.LogFile)
	assert.Equal(t, "**/views/**/*.xml", cfg.ViewsGlob)
}

func TestLoad_Invalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "viewmig.yaml")
	require.NoError(t, os.WriteFile(path, []byte("author: [unclosed"), 0644))
	_, err := Load(path)
	assert.Error(t, err)
}

func TestLoadFrom(t *testing.T) {
	dir := t.TempDir()
	cfg, err := LoadFrom(dir, "")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)

	require.NoError(t, os.WriteFile(filepath.Join(dir, ".viewmig.yaml"), []byte("author: X\n"), 0644))
	cfg, err = LoadFrom(dir, "")
	require.NoError(t, err)
	assert.Equal(t, "X", cfg.Author)
}
