package wordlist

import (
	"compress/gzip"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuiltin(t *testing.T) {
	t.Parallel()
	wl := Builtin()

	assert.Equal(t, BuiltinName, wl.Name)
	assert.Equal(t, "www", wl.Words[0])
	assert.Contains(t, wl.Words, "www-api")
	assert.Contains(t, wl.Words, "pop302")
	assert.NotContains(t, wl.Words, "cluster2-api", "only the first seeds are permuted")

	seen := make(map[string]bool)
	for _, w := range wl.Words {
		assert.False(t, seen[w], "duplicate label %q", w)
		seen[w] = true
	}
}

func TestPermutations(t *testing.T) {
	t.Parallel()
	got := Permutations([]string{"a", "b", "c"}, 2)
	assert.Equal(t, []string{"a-api", "a-web", "a01", "a02", "b-api", "b-web", "b01", "b02"}, got)

	assert.Len(t, Permutations([]string{"a"}, 20), 4)
	assert.Empty(t, Permutations(nil, 5))
}

func TestReadLabels(t *testing.T) {
	t.Parallel()
	input := "www\n\n# comment\n  API  \nwww\nMail\n"
	words, err := ReadLabels(strings.NewReader(input))
	require.NoError(t, err)
	assert.Equal(t, []string{"www", "api", "mail"}, words)
}

func TestLoad(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "words.txt")
	require.NoError(t, os.WriteFile(path, []byte("dev\nstaging\n#skip\n"), 0o644))

	wl, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "words.txt", wl.Name)
	assert.Equal(t, path, wl.Path)
	assert.Equal(t, []string{"dev", "staging"}, wl.Words)
	assert.Equal(t, 2, wl.Size())
}

func TestLoadGzip(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "words.txt.gz")
	f, err := os.Create(path)
	require.NoError(t, err)
	zw := gzip.NewWriter(f)
	_, err = zw.Write([]byte("vpn\nportal\n"))
	require.NoError(t, err)
	require.NoError(t, zw.Close())
	require.NoError(t, f.Close())

	wl, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"vpn", "portal"}, wl.Words)
}

func TestLoadErrors(t *testing.T) {
	t.Parallel()

	_, err := Load(filepath.Join(t.TempDir(), "missing.txt"))
	assert.ErrorIs(t, err, ErrNotFound)

	empty := filepath.Join(t.TempDir(), "empty.txt")
	require.NoError(t, os.WriteFile(empty, []byte("# only comments\n\n"), 0o644))
	_, err = Load(empty)
	assert.ErrorIs(t, err, ErrEmpty)
}

func TestSizeNil(t *testing.T) {
	t.Parallel()
	var wl *Wordlist
	assert.Zero(t, wl.Size())
}
