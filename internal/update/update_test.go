// Copyright (c) 2025 Guilherme Silva Sousa
// Licensed under the MIT License
// See LICENSE file in the project root for full license information.
package update

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/soldeer-go/soldeer/internal/depspec"
	"github.com/soldeer-go/soldeer/internal/install"
	"github.com/soldeer-go/soldeer/internal/lockfile"
)

type fakeRegistry struct {
	latest map[string]string
	urls   map[string]string
}

func (f *fakeRegistry) LatestMatching(_ context.Context, name, _ string) (string, error) {
	return f.latest[name], nil
}

func (f *fakeRegistry) DownloadURL(_ context.Context, name, version string) (string, error) {
	return f.urls[name+"@"+version], nil
}

type fakeArchiveBackend struct {
	fetchCalls []string
}

func (f *fakeArchiveBackend) Fetch(_ context.Context, url, destDir, baseName string) (string, error) {
	f.fetchCalls = append(f.fetchCalls, url)
	if err := os.MkdirAll(destDir, 0o755); err != nil {
		return "", err
	}
	path := filepath.Join(destDir, baseName+".zip")
	if err := os.WriteFile(path, []byte("zip"), 0o644); err != nil {
		return "", err
	}
	return path, nil
}

func (f *fakeArchiveBackend) Extract(archivePath, destDir string) error {
	if err := os.MkdirAll(destDir, 0o755); err != nil {
		return err
	}
	if err := os.WriteFile(filepath.Join(destDir, "f.txt"), []byte("hi"), 0o644); err != nil {
		return err
	}
	return os.Remove(archivePath)
}

type fakeRepoBackend struct {
	cloneCalls   []string
	resetCalls   []string
	pullCalls    []string
	nextRevision string
	failReset    bool
}

func (f *fakeRepoBackend) Clone(_ context.Context, url string, _, _, _ *string, destDir string) (string, error) {
	f.cloneCalls = append(f.cloneCalls, url)
	if err := os.MkdirAll(destDir, 0o755); err != nil {
		return "", err
	}
	return f.nextRevision, nil
}

func (f *fakeRepoBackend) Reset(_ context.Context, destDir, _ string) error {
	f.resetCalls = append(f.resetCalls, destDir)
	if f.failReset {
		return fmt.Errorf("reset failed")
	}
	return nil
}

func (f *fakeRepoBackend) Pull(_ context.Context, destDir string) (string, error) {
	f.pullCalls = append(f.pullCalls, destDir)
	return f.nextRevision, nil
}

func TestUpdate_CustomArchivePassesThroughWhenPresent(t *testing.T) {
	depsRoot := t.TempDir()
	arc := &fakeArchiveBackend{}
	eng := NewEngine(install.NewEngine(&fakeRegistry{}, arc, &fakeRepoBackend{}), &fakeRepoBackend{})

	spec, err := depspec.Parse("lib1~1.0.0", depspec.ArchiveURLKind, "https://example.com/lib1.zip", nil, nil, nil)
	require.NoError(t, err)
	existing := lockfile.NewArchiveEntry("lib1", "1.0.0", "https://example.com/lib1.zip", "chk", "tree")
	locked := lockfile.Entries{existing}

	out, err := eng.Update(context.Background(), []depspec.Spec{spec}, locked, depsRoot, install.Options{})
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, existing, out[0])
	assert.Empty(t, arc.fetchCalls)
}

func TestUpdate_PinnedRepoPassesThroughWhenPresent(t *testing.T) {
	depsRoot := t.TempDir()
	repo := &fakeRepoBackend{nextRevision: "zzz"}
	eng := NewEngine(install.NewEngine(&fakeRegistry{}, &fakeArchiveBackend{}, repo), repo)

	tag := "v1.0.0"
	spec, err := depspec.Parse("lib1~1.0.0", depspec.RepoURLKind, "https://example.com/lib1.git", nil, nil, &tag)
	require.NoError(t, err)
	existing := lockfile.NewRepoEntry("lib1", "1.0.0", "https://example.com/lib1.git", "abc")
	locked := lockfile.Entries{existing}

	out, err := eng.Update(context.Background(), []depspec.Spec{spec}, locked, depsRoot, install.Options{})
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, existing, out[0])
	assert.Empty(t, repo.resetCalls)
	assert.Empty(t, repo.pullCalls)
}

func TestUpdate_UnpinnedRepo_ResetsThenPulls(t *testing.T) {
	depsRoot := t.TempDir()
	repo := &fakeRepoBackend{nextRevision: "new-rev"}
	eng := NewEngine(install.NewEngine(&fakeRegistry{}, &fakeArchiveBackend{}, repo), repo)

	spec, err := depspec.Parse("lib1~1.0.0", depspec.RepoURLKind, "https://example.com/lib1.git", nil, nil, nil)
	require.NoError(t, err)
	locked := lockfile.Entries{lockfile.NewRepoEntry("lib1", "1.0.0", "https://example.com/lib1.git", "old-rev")}

	out, err := eng.Update(context.Background(), []depspec.Spec{spec}, locked, depsRoot, install.Options{})
	require.NoError(t, err)
	require.Len(t, out, 1)

	rev, ok := out[0].Revision()
	require.True(t, ok)
	assert.Equal(t, "new-rev", rev)
	assert.Len(t, repo.resetCalls, 1)
	assert.Len(t, repo.pullCalls, 1)
}

func TestUpdate_RegistryArchive_ForcesReacquisition(t *testing.T) {
	depsRoot := t.TempDir()
	reg := &fakeRegistry{
		latest: map[string]string{"lib1": "2.0.0"},
		urls:   map[string]string{"lib1@2.0.0": "https://example.com/lib1-2.zip"},
	}
	arc := &fakeArchiveBackend{}
	eng := NewEngine(install.NewEngine(reg, arc, &fakeRepoBackend{}), &fakeRepoBackend{})

	spec, err := depspec.Parse("lib1~^1.0.0", depspec.NoURL, "", nil, nil, nil)
	require.NoError(t, err)
	locked := lockfile.Entries{lockfile.NewArchiveEntry("lib1", "1.0.0", "https://example.com/lib1-1.zip", "old-chk", "old-tree")}

	out, err := eng.Update(context.Background(), []depspec.Spec{spec}, locked, depsRoot, install.Options{})
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, "2.0.0", out[0].ResolvedVersion())
	assert.Equal(t, []string{"https://example.com/lib1-2.zip"}, arc.fetchCalls)
}

func TestUpdate_MissingDependency_FreshInstalls(t *testing.T) {
	depsRoot := t.TempDir()
	repo := &fakeRepoBackend{nextRevision: "first-rev"}
	eng := NewEngine(install.NewEngine(&fakeRegistry{}, &fakeArchiveBackend{}, repo), repo)

	tag := "v1.0.0"
	spec, err := depspec.Parse("lib1~1.0.0", depspec.RepoURLKind, "https://example.com/lib1.git", nil, nil, &tag)
	require.NoError(t, err)

	out, err := eng.Update(context.Background(), []depspec.Spec{spec}, nil, depsRoot, install.Options{})
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Len(t, repo.cloneCalls, 1)

	rev, ok := out[0].Revision()
	require.True(t, ok)
	assert.Equal(t, "first-rev", rev)
}

func TestUpdate_UnpinnedRepoResetFailure_Aggregates(t *testing.T) {
	depsRoot := t.TempDir()
	repo := &fakeRepoBackend{failReset: true}
	eng := NewEngine(install.NewEngine(&fakeRegistry{}, &fakeArchiveBackend{}, repo), repo)

	spec, err := depspec.Parse("lib1~1.0.0", depspec.RepoURLKind, "https://example.com/lib1.git", nil, nil, nil)
	require.NoError(t, err)
	locked := lockfile.Entries{lockfile.NewRepoEntry("lib1", "1.0.0", "https://example.com/lib1.git", "old-rev")}

	_, err = eng.Update(context.Background(), []depspec.Spec{spec}, locked, depsRoot, install.Options{})
	require.Error(t, err)
}
