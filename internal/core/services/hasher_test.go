package services

import (
	"io/fs"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDigestFile(t *testing.T) {
	assert.Equal(t, "e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855", DigestFile(nil))
	assert.Equal(t, "2cf24dba5fb0a30e26e83b2ac5b9e29e1b161e5c1fa7425e73043362938b9824", DigestFile([]byte("hello")))
}

func TestChecksumSRI(t *testing.T) {
	assert.Equal(t, "sha256-47DEQpj8HBSa+/TImW+5JCeuQeRkm5NMpJWZG3hSuFU=", ChecksumSRI(nil))
	assert.Equal(t, "sha256-LPJNul+wow4m6DsqxbninhsWHlwfp0JecwQzYpOLmCQ=", ChecksumSRI([]byte("hello")))
}

func TestDigestTree_SortedRelativePaths(t *testing.T) {
	fsys := fstest.MapFS{
		"tooling/log/compose.yaml":      {Data: []byte("compose")},
		"tooling/log/README.md":         {Data: []byte("readme")},
		"tooling/log/schema/input.json": {Data: []byte("{}")},
		"tooling/other/compose.yaml":    {Data: []byte("other")},
	}

	files, err := DigestTree(fsys, "tooling/log")

	require.NoError(t, err)
	require.Len(t, files, 3)
	assert.Equal(t, "README.md", files[0].Path)
	assert.Equal(t, "compose.yaml", files[1].Path)
	assert.Equal(t, "schema/input.json", files[2].Path)
	assert.Equal(t, DigestFile([]byte("compose")), files[1].SHA256)
	assert.Equal(t, int64(7), files[1].Size)
}

func TestDigestTree_Deterministic(t *testing.T) {
	a := fstest.MapFS{
		"c/b.txt": {Data: []byte("b")},
		"c/a.txt": {Data: []byte("a")},
	}
	b := fstest.MapFS{
		"c/a.txt": {Data: []byte("a")},
		"c/b.txt": {Data: []byte("b")},
	}

	first, err := DigestTree(a, "c")
	require.NoError(t, err)
	second, err := DigestTree(b, "c")
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestDigestTree_ContentChangeChangesDigest(t *testing.T) {
	fsys := fstest.MapFS{"c/a.txt": {Data: []byte("a")}}
	before, err := DigestTree(fsys, "c")
	require.NoError(t, err)

	fsys["c/a.txt"] = &fstest.MapFile{Data: []byte("A")}
	after, err := DigestTree(fsys, "c")
	require.NoError(t, err)

	assert.NotEqual(t, before[0].SHA256, after[0].SHA256)
}

func TestDigestTree_RootDot(t *testing.T) {
	fsys := fstest.MapFS{"x/y.txt": {Data: []byte("y")}}

	files, err := DigestTree(fsys, ".")

	require.NoError(t, err)
	require.Len(t, files, 1)
	assert.Equal(t, "x/y.txt", files[0].Path)
}

func TestDigestTree_EmptyDirectory(t *testing.T) {
	fsys := fstest.MapFS{"empty": {Mode: fs.ModeDir | 0o755}}

	files, err := DigestTree(fsys, "empty")

	require.NoError(t, err)
	assert.Empty(t, files)
}

func TestDigestTree_MissingRoot(t *testing.T) {
	_, err := DigestTree(fstest.MapFS{}, "missing")

	assert.Error(t, err)
}
