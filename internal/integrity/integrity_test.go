// Copyright (c) 2025 Guilherme Silva Sousa
// Licensed under the MIT License
// See LICENSE file in the project root for full license information.
package integrity

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func writeTree(t *testing.T, dir string, files map[string]string) {
	t.Helper()
	for rel, content := range files {
		full := filepath.Join(dir, rel)
		require.NoError(t, os.MkdirAll(filepath.Dir(full), 0o755))
		require.NoError(t, os.WriteFile(full, []byte(content), 0o644))
	}
}

func TestHashTree_IdenticalUnderDifferentPaths(t *testing.T) {
	files := map[string]string{
		"a.txt":        "hello",
		"sub/b.txt":    "world",
		"sub/deep/c.go": "package x",
	}

	d1 := t.TempDir()
	writeTree(t, d1, files)
	d2 := t.TempDir()
	writeTree(t, d2, files)

	h1, err := HashTree(context.Background(), d1)
	require.NoError(t, err)
	h2, err := HashTree(context.Background(), d2)
	require.NoError(t, err)
	require.Equal(t, h1, h2)
}

func TestHashTree_RenameChangesHash(t *testing.T) {
	d := t.TempDir()
	writeTree(t, d, map[string]string{"a.txt": "hello"})
	before, err := HashTree(context.Background(), d)
	require.NoError(t, err)

	require.NoError(t, os.Rename(filepath.Join(d, "a.txt"), filepath.Join(d, "b.txt")))
	after, err := HashTree(context.Background(), d)
	require.NoError(t, err)

	require.NotEqual(t, before, after)
}

func TestHashTree_AppendChangesHash(t *testing.T) {
	d := t.TempDir()
	writeTree(t, d, map[string]string{"a.txt": "hello"})
	before, err := HashTree(context.Background(), d)
	require.NoError(t, err)

	f, err := os.OpenFile(filepath.Join(d, "a.txt"), os.O_APPEND|os.O_WRONLY, 0o644)
	require.NoError(t, err)
	_, err = f.WriteString(" world")
	require.NoError(t, err)
	require.NoError(t, f.Close())

	after, err := HashTree(context.Background(), d)
	require.NoError(t, err)
	require.NotEqual(t, before, after)
}

func TestHashTree_AddOrRemoveFileChangesHash(t *testing.T) {
	d := t.TempDir()
	writeTree(t, d, map[string]string{"a.txt": "hello"})
	before, err := HashTree(context.Background(), d)
	require.NoError(t, err)

	writeTree(t, d, map[string]string{"b.txt": "new"})
	withExtra, err := HashTree(context.Background(), d)
	require.NoError(t, err)
	require.NotEqual(t, before, withExtra)

	require.NoError(t, os.Remove(filepath.Join(d, "b.txt")))
	back, err := HashTree(context.Background(), d)
	require.NoError(t, err)
	require.Equal(t, before, back)
}

func TestHashTree_SkipsGitSubtree(t *testing.T) {
	d := t.TempDir()
	writeTree(t, d, map[string]string{"a.txt": "hello"})
	before, err := HashTree(context.Background(), d)
	require.NoError(t, err)

	writeTree(t, d, map[string]string{".git/HEAD": "ref: refs/heads/main", ".git/objects/x": "blob"})
	after, err := HashTree(context.Background(), d)
	require.NoError(t, err)
	require.Equal(t, before, after)
}

func TestHashTree_OrderIndependent(t *testing.T) {
	files := map[string]string{
		"z.txt": "1",
		"a.txt": "2",
		"m.txt": "3",
	}
	d := t.TempDir()
	writeTree(t, d, files)

	h1, err := HashTree(context.Background(), d)
	require.NoError(t, err)
	h2, err := HashTree(context.Background(), d)
	require.NoError(t, err)
	require.Equal(t, h1, h2)
}

func TestHashFile(t *testing.T) {
	d := t.TempDir()
	path := filepath.Join(d, "f.txt")
	require.NoError(t, os.WriteFile(path, []byte("hello"), 0o644))

	h1, err := HashFile(path)
	require.NoError(t, err)
	h2, err := HashFile(path)
	require.NoError(t, err)
	require.Equal(t, h1, h2)
	require.Len(t, h1, 64)
}
