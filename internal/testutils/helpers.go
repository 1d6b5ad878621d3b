package testutils

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

// SetupAddons creates a temporary addons tree holding files (relative
// slash-separated path to content) and returns its absolute path.
// It fails the test immediately on error.
func SetupAddons(t *testing.T, files map[string]string) string {
	t.Helper()

	absPath, err := filepath.Abs(t.TempDir())
	require.NoError(t, err, "Failed to get absolute path for temp dir")

	for name, content := range files {
		WriteFile(t, absPath, name, content)
	}
	return absPath
}

// WriteFile writes content to root/name, creating parent directories.
func WriteFile(t *testing.T, root, name, content string) {
	t.Helper()

	p := filepath.Join(root, filepath.FromSlash(name))
	require.NoError(t, os.MkdirAll(filepath.Dir(p), 0755))
	require.NoError(t, os.WriteFile(p, []byte(content), 0644))
}

// ReadFile returns the content of root/name.
func ReadFile(t *testing.T, root, name string) string {
	t.Helper()

	data, err := os.ReadFile(filepath.Join(root, filepath.FromSlash(name)))
	require.NoError(t, err)
	return string(data)
}
