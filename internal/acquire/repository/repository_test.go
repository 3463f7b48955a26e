// Copyright (c) 2025 Guilherme Silva Sousa
// Licensed under the MIT License
// See LICENSE file in the project root for full license information.
package repository

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/stretchr/testify/require"
)

func strp(s string) *string { return &s }

func initFixtureRepo(t *testing.T) (repoDir string, initialCommit, devCommit plumbing.Hash) {
	t.Helper()
	repoDir = filepath.Join(t.TempDir(), "origin")

	repo, err := git.PlainInit(repoDir, false)
	require.NoError(t, err)

	wt, err := repo.Worktree()
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(filepath.Join(repoDir, "a.txt"), []byte("v1"), 0o644))
	_, err = wt.Add("a.txt")
	require.NoError(t, err)
	sig := &object.Signature{Name: "Test", Email: "test@example.com"}
	initialCommit, err = wt.Commit("initial", &git.CommitOptions{Author: sig})
	require.NoError(t, err)

	_, err = repo.CreateTag("v1.0.0", initialCommit, nil)
	require.NoError(t, err)

	headRef, err := repo.Head()
	require.NoError(t, err)
	devBranch := plumbing.NewBranchReferenceName("dev")
	require.NoError(t, repo.Storer.SetReference(plumbing.NewHashReference(devBranch, headRef.Hash())))

	require.NoError(t, wt.Checkout(&git.CheckoutOptions{Branch: devBranch}))
	require.NoError(t, os.WriteFile(filepath.Join(repoDir, "a.txt"), []byte("v2-dev"), 0o644))
	_, err = wt.Add("a.txt")
	require.NoError(t, err)
	devCommit, err = wt.Commit("dev change", &git.CommitOptions{Author: sig})
	require.NoError(t, err)

	require.NoError(t, wt.Checkout(&git.CheckoutOptions{Branch: plumbing.NewBranchReferenceName("master")}))

	return repoDir, initialCommit, devCommit
}

func TestClone_ByTag(t *testing.T) {
	repoDir, initialCommit, _ := initFixtureRepo(t)
	destDir := filepath.Join(t.TempDir(), "clone")

	c := New()
	rev, err := c.Clone(context.Background(), repoDir, nil, nil, strp("v1.0.0"), destDir)
	require.NoError(t, err)
	require.Equal(t, initialCommit.String(), rev)
	require.True(t, IsRepository(destDir))
}

func TestClone_ByBranch(t *testing.T) {
	repoDir, _, devCommit := initFixtureRepo(t)
	destDir := filepath.Join(t.TempDir(), "clone")

	c := New()
	rev, err := c.Clone(context.Background(), repoDir, nil, strp("dev"), nil, destDir)
	require.NoError(t, err)
	require.Equal(t, devCommit.String(), rev)
}

func TestClone_ByRevision(t *testing.T) {
	repoDir, initialCommit, _ := initFixtureRepo(t)
	destDir := filepath.Join(t.TempDir(), "clone")

	c := New()
	rev, err := c.Clone(context.Background(), repoDir, strp(initialCommit.String()), nil, nil, destDir)
	require.NoError(t, err)
	require.Equal(t, initialCommit.String(), rev)
}

func TestClone_NoIdentifier_UsesDefaultHEAD(t *testing.T) {
	repoDir, initialCommit, _ := initFixtureRepo(t)
	destDir := filepath.Join(t.TempDir(), "clone")

	c := New()
	rev, err := c.Clone(context.Background(), repoDir, nil, nil, nil, destDir)
	require.NoError(t, err)
	require.Equal(t, initialCommit.String(), rev)
}

func TestHasLocalChanges_CleanAtPinnedRevision(t *testing.T) {
	repoDir, initialCommit, _ := initFixtureRepo(t)
	destDir := filepath.Join(t.TempDir(), "clone")

	c := New()
	rev, err := c.Clone(context.Background(), repoDir, strp(initialCommit.String()), nil, nil, destDir)
	require.NoError(t, err)

	changed, err := HasLocalChanges(destDir, rev)
	require.NoError(t, err)
	require.False(t, changed)
}

func TestHasLocalChanges_DetectsTamperAndResetRestores(t *testing.T) {
	repoDir, initialCommit, _ := initFixtureRepo(t)
	destDir := filepath.Join(t.TempDir(), "clone")

	c := New()
	rev, err := c.Clone(context.Background(), repoDir, strp(initialCommit.String()), nil, nil, destDir)
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(filepath.Join(destDir, "a.txt"), []byte("tampered"), 0o644))

	changed, err := HasLocalChanges(destDir, rev)
	require.NoError(t, err)
	require.True(t, changed)

	require.NoError(t, c.Reset(context.Background(), destDir, rev))

	changed, err = HasLocalChanges(destDir, rev)
	require.NoError(t, err)
	require.False(t, changed)

	content, err := os.ReadFile(filepath.Join(destDir, "a.txt"))
	require.NoError(t, err)
	require.Equal(t, "v1", string(content))
}
