package textio

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecode(t *testing.T) {
	t.Run("utf-8 with lf", func(t *testing.T) {
		txt, err := Decode([]byte("<tree>é</tree>\n"))
		require.NoError(t, err)
		assert.Equal(t, UTF8, txt.Encoding)
		assert.False(t, txt.CRLF)
		assert.Equal(t, "<tree>é</tree>\n", txt.Content)
	})

	t.Run("latin-1 with crlf", func(t *testing.T) {
		txt, err := Decode([]byte("caf\xe9\r\nok\r\n"))
		require.NoError(t, err)
		assert.Equal(t, Latin1, txt.Encoding)
		assert.True(t, txt.CRLF)
		assert.Equal(t, "café\r\nok\r\n", txt.Content)
	})

	t.Run("bom", func(t *testing.T) {
		txt, err := Decode([]byte("\xef\xbb\xbfabc"))
		require.NoError(t, err)
		assert.True(t, txt.BOM)
		assert.Equal(t, "abc", txt.Content)
	})

	t.Run("binary", func(t *testing.T) {
		_, err := Decode([]byte{0x89, 'P', 'N', 'G', 0x00, 0x01})
		assert.ErrorIs(t, err, ErrBinary)
	})
}

func TestEncode_RoundTrip(t *testing.T) {
	for _, raw := range []string{
		"a\nb\n",
		"a\r\nb\r\n",
		"caf\xe9\r\n",
		"\xef\xbb\xbf<odoo/>\n",
	} {
		txt, err := Decode([]byte(raw))
		require.NoError(t, err)
		out, err := txt.Encode(txt.Content)
		require.NoError(t, err)
		assert.Equal(t, raw, string(out))
	}
}

func TestEncode_NormalizesLineEndings(t *testing.T) {
	txt, err := Decode([]byte("a\r\nb\r\n"))
	require.NoError(t, err)

	out, err := txt.Encode("a\nb\nc\n")
	require.NoError(t, err)
	assert.Equal(t, "a\r\nb\r\nc\r\n", string(out))
}

func TestEncode_Latin1Overflow(t *testing.T) {
	txt, err := Decode([]byte("caf\xe9"))
	require.NoError(t, err)
	_, err = txt.Encode("日本")
	assert.Error(t, err)
}

func TestReadWriteFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "view.xml")
	require.NoError(t, os.WriteFile(path, []byte("<tree/>\r\n"), 0600))

	txt, err := ReadFile(path)
	require.NoError(t, err)
	require.NoError(t, WriteFile(path, txt, "<list/>\n"))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "<list/>\r\n", string(data))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())
}
