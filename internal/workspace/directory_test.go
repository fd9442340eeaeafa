package workspace

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDirectory_LookupAndNames(t *testing.T) {
	a, b := t.TempDir(), t.TempDir()
	d, err := NewDirectory([]Spec{{Name: "beta", Path: b}, {Name: "alpha", Path: a}})
	require.NoError(t, err)

	assert.Equal(t, []string{"beta", "alpha"}, d.Names())

	h, ok := d.Lookup("alpha")
	require.True(t, ok)
	assert.Equal(t, "alpha", h.Name)
	assert.Equal(t, filepath.Clean(a), h.Root)

	_, ok = d.Lookup("ALPHA")
	assert.False(t, ok)
}

func TestNewDirectory_Rejects(t *testing.T) {
	dir := t.TempDir()

	_, err := NewDirectory([]Spec{{Name: "", Path: dir}})
	assert.Error(t, err)

	_, err = NewDirectory([]Spec{{Name: "x", Path: ""}})
	assert.Error(t, err)

	_, err = NewDirectory([]Spec{{Name: "x", Path: dir}, {Name: "x", Path: dir}})
	assert.ErrorContains(t, err, "duplicate")
}

func TestDirectory_LookupReturnsCopy(t *testing.T) {
	d, err := NewDirectory([]Spec{{Name: "w", Path: t.TempDir()}})
	require.NoError(t, err)

	h, _ := d.Lookup("w")
	h.Root = "/elsewhere"

	again, _ := d.Lookup("w")
	assert.NotEqual(t, "/elsewhere", again.Root)
}

func TestDirectory_NilIsEmpty(t *testing.T) {
	var d *Directory
	_, ok := d.Lookup("w")
	assert.False(t, ok)
	assert.Empty(t, d.Names())
}

func TestHandle_Resolve(t *testing.T) {
	root := t.TempDir()
	h := &Handle{Name: "w", Root: root}

	p, err := h.Resolve("src/main.go")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(root, "src", "main.go"), p)

	p, err = h.Resolve("")
	require.NoError(t, err)
	assert.Equal(t, root, p)

	p, err = h.Resolve("a/../b")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(root, "b"), p)

	for _, bad := range []string{"..", "../x", "a/../../x", "/etc"} {
		_, err := h.Resolve(bad)
		assert.ErrorIs(t, err, ErrOutsideRoot, bad)
	}
}

func TestHandle_ResolveRejectsSymlinkEscape(t *testing.T) {
	root, outside := t.TempDir(), t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(outside, "secret.txt"), []byte("x"), 0o644))
	require.NoError(t, os.Mkdir(filepath.Join(root, "src"), 0o755))
	if err := os.Symlink(outside, filepath.Join(root, "escape")); err != nil {
		t.Skipf("symlinks unavailable: %v", err)
	}
	require.NoError(t, os.Symlink(filepath.Join(root, "src"), filepath.Join(root, "inner")))

	h := &Handle{Name: "w", Root: root}
	for _, bad := range []string{"escape", "escape/secret.txt", "escape/missing/deeper"} {
		_, err := h.Resolve(bad)
		assert.ErrorIs(t, err, ErrOutsideRoot, bad)
	}

	_, err := h.List("escape")
	assert.ErrorIs(t, err, ErrOutsideRoot)

	p, err := h.Resolve("inner")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(root, "inner"), p)

	p, err = h.Resolve("inner/not-yet")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(root, "inner", "not-yet"), p)
}

func TestHandle_List(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(root, "zdir"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "a.txt"), []byte("hello"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(root, "b.txt"), nil, 0o644))

	h := &Handle{Name: "w", Root: root}
	entries, err := h.List("")
	require.NoError(t, err)

	require.Len(t, entries, 3)
	assert.Equal(t, Entry{Name: "zdir", IsDir: true}, entries[0])
	assert.Equal(t, Entry{Name: "a.txt", Size: 5}, entries[1])
	assert.Equal(t, Entry{Name: "b.txt"}, entries[2])

	_, err = h.List("missing")
	assert.Error(t, err)

	_, err = h.List("../")
	assert.ErrorIs(t, err, ErrOutsideRoot)
}
