package fsutil_test

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shaharia-lab/frontbundle/internal/fsutil"
)

func writeTree(t *testing.T, root string, files map[string]string) {
	t.Helper()
	for rel, content := range files {
		p := filepath.Join(root, filepath.FromSlash(rel))
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0750))
		require.NoError(t, os.WriteFile(p, []byte(content), 0600))
	}
}

func TestOS_Exists(t *testing.T) {
	dir := t.TempDir()
	writeTree(t, dir, map[string]string{"a.txt": "a"})

	ok, err := fsutil.OS{}.Exists(filepath.Join(dir, "a.txt"))
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = fsutil.OS{}.Exists(filepath.Join(dir, "missing"))
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestOS_IsDir(t *testing.T) {
	dir := t.TempDir()
	writeTree(t, dir, map[string]string{"a.txt": "a"})

	ok, err := fsutil.OS{}.IsDir(dir)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = fsutil.OS{}.IsDir(filepath.Join(dir, "a.txt"))
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = fsutil.OS{}.IsDir(filepath.Join(dir, "missing"))
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestOS_RemoveAll(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "data")
	writeTree(t, target, map[string]string{"x/y/z.txt": "z"})

	require.NoError(t, fsutil.OS{}.RemoveAll(target))
	_, err := os.Stat(target)
	assert.True(t, os.IsNotExist(err))

	// Removing again is fine.
	require.NoError(t, fsutil.OS{}.RemoveAll(target))
}

func TestOS_CopyDir(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "dist")
	dst := filepath.Join(dir, "data")
	writeTree(t, src, map[string]string{
		"index.html":         "<html></html>",
		"assets/app.js":      "console.log(1)",
		"assets/css/app.css": "body{}",
	})

	n, err := fsutil.OS{}.CopyDir(src, dst)
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	got, err := os.ReadFile(filepath.Join(dst, "assets", "app.js"))
	require.NoError(t, err)
	assert.Equal(t, "console.log(1)", string(got))

	srcDigest, err := fsutil.TreeDigest(src)
	require.NoError(t, err)
	dstDigest, err := fsutil.TreeDigest(dst)
	require.NoError(t, err)
	assert.Equal(t, srcDigest, dstDigest)
}

func TestOS_CopyDir_FollowsSymlinks(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("symlinks need privileges on windows")
	}
	dir := t.TempDir()
	src := filepath.Join(dir, "dist")
	dst := filepath.Join(dir, "data")
	writeTree(t, dir, map[string]string{"shared/logo.svg": "<svg/>"})
	writeTree(t, src, map[string]string{"index.html": "x"})
	require.NoError(t, os.Symlink(filepath.Join(dir, "shared", "logo.svg"), filepath.Join(src, "logo.svg")))

	n, err := fsutil.OS{}.CopyDir(src, dst)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	info, err := os.Lstat(filepath.Join(dst, "logo.svg"))
	require.NoError(t, err)
	assert.True(t, info.Mode().IsRegular())
}

func TestOS_CopyDir_SymlinkedDirectoryVerifies(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("symlinks need privileges on windows")
	}
	dir := t.TempDir()
	src := filepath.Join(dir, "frontend", "dist")
	dst := filepath.Join(dir, "data")
	writeTree(t, dir, map[string]string{"shared/x.txt": "x", "shared/img/logo.svg": "<svg/>"})
	writeTree(t, src, map[string]string{"index.html": "x"})
	require.NoError(t, os.Symlink(filepath.Join("..", "..", "shared"), filepath.Join(src, "assets")))

	n, err := fsutil.OS{}.CopyDir(src, dst)
	require.NoError(t, err)
	assert.Equal(t, 3, n)
	assert.FileExists(t, filepath.Join(dst, "assets", "x.txt"))

	srcDigest, err := fsutil.OS{}.Digest(src)
	require.NoError(t, err)
	dstDigest, err := fsutil.OS{}.Digest(dst)
	require.NoError(t, err)
	assert.Equal(t, srcDigest, dstDigest)
}

func TestTreeDigest_SymlinkCycle(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("symlinks need privileges on windows")
	}
	dir := t.TempDir()
	writeTree(t, dir, map[string]string{"a/x.txt": "x"})
	require.NoError(t, os.Symlink("..", filepath.Join(dir, "a", "up")))

	_, err := fsutil.TreeDigest(dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "symlink cycle")
}

func TestOS_CopyDir_MissingSource(t *testing.T) {
	dir := t.TempDir()
	_, err := fsutil.OS{}.CopyDir(filepath.Join(dir, "nope"), filepath.Join(dir, "data"))
	require.Error(t, err)
}

func TestTreeDigest(t *testing.T) {
	a := t.TempDir()
	b := t.TempDir()
	writeTree(t, a, map[string]string{"x.txt": "1", "sub/y.txt": "2"})
	writeTree(t, b, map[string]string{"x.txt": "1", "sub/y.txt": "2"})

	da, err := fsutil.TreeDigest(a)
	require.NoError(t, err)
	db, err := fsutil.TreeDigest(b)
	require.NoError(t, err)
	assert.Equal(t, da, db)

	writeTree(t, b, map[string]string{"sub/y.txt": "3"})
	db2, err := fsutil.TreeDigest(b)
	require.NoError(t, err)
	assert.NotEqual(t, da, db2)

	writeTree(t, a, map[string]string{"extra.txt": ""})
	da2, err := fsutil.TreeDigest(a)
	require.NoError(t, err)
	assert.NotEqual(t, da, da2)
}

func TestCountFiles(t *testing.T) {
	dir := t.TempDir()
	writeTree(t, dir, map[string]string{"a": "", "b/c": "", "b/d/e": ""})

	n, err := fsutil.CountFiles(dir)
	require.NoError(t, err)
	assert.Equal(t, 3, n)
}
