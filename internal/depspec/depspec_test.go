// Copyright (c) 2025 Guilherme Silva Sousa
// Licensed under the MIT License
// See LICENSE file in the project root for full license information.
package depspec

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strp(s string) *string { return &s }

func TestParse_RegistryArchive(t *testing.T) {
	spec, err := Parse("openzeppelin-contracts~5.0.2", NoURL, "", nil, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, RegistryArchive, spec.Kind())
	assert.True(t, spec.IsArchive())
	assert.False(t, spec.IsRepo())
	assert.Equal(t, "openzeppelin-contracts", spec.Name())
	assert.Equal(t, "5.0.2", spec.Requirement())
	_, ok := spec.URL()
	assert.False(t, ok)
}

func TestParse_CustomArchive(t *testing.T) {
	spec, err := Parse("solady~0.0.238", ArchiveURLKind, "https://example.com/solady.zip", nil, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, CustomArchive, spec.Kind())
	assert.True(t, spec.IsArchive())
	url, ok := spec.URL()
	require.True(t, ok)
	assert.Equal(t, "https://example.com/solady.zip", url)
}

func TestParse_Repository_WithBranch(t *testing.T) {
	spec, err := Parse("my-lib~branch-dev", RepoURLKind, "https://example.com/test-repo.git", nil, strp("dev"), nil)
	require.NoError(t, err)
	assert.Equal(t, Repository, spec.Kind())
	assert.True(t, spec.IsRepo())
	repoURL, ok := spec.RepoURL()
	require.True(t, ok)
	assert.Equal(t, "https://example.com/test-repo.git", repoURL)
	id, ok := spec.IdentifierValue()
	require.True(t, ok)
	assert.Equal(t, BranchID, id.Kind)
	assert.Equal(t, "dev", id.Value)
}

func TestParse_Repository_NoIdentifier(t *testing.T) {
	spec, err := Parse("my-lib~main", RepoURLKind, "https://example.com/test-repo.git", nil, nil, nil)
	require.NoError(t, err)
	_, ok := spec.IdentifierValue()
	assert.False(t, ok)
}

func TestParse_MissingSeparator(t *testing.T) {
	_, err := Parse("openzeppelin-contracts5.0.2", NoURL, "", nil, nil, nil)
	require.Error(t, err)
}

func TestParse_EmptyRequirement(t *testing.T) {
	_, err := Parse("openzeppelin-contracts~", NoURL, "", nil, nil, nil)
	require.Error(t, err)
}

func TestParse_IllegalEqualsInRequirement(t *testing.T) {
	_, err := Parse("solady~1.0.0=extra", ArchiveURLKind, "https://example.com/x.zip", nil, nil, nil)
	require.Error(t, err)

	_, err = Parse("my-lib~1.0.0=extra", RepoURLKind, "https://example.com/x.git", nil, nil, nil)
	require.Error(t, err)
}

func TestParse_ConflictingIdentifiers(t *testing.T) {
	_, err := Parse("my-lib~main", RepoURLKind, "https://example.com/x.git", strp("deadbeef"), strp("dev"), nil)
	require.Error(t, err)
}

func TestParse_RenderRoundTrip(t *testing.T) {
	original, err := Parse("openzeppelin-contracts~5.0.2", NoURL, "", nil, nil, nil)
	require.NoError(t, err)

	reparsed, err := Parse(original.Render(), NoURL, "", nil, nil, nil)
	require.NoError(t, err)

	assert.Equal(t, original.Kind(), reparsed.Kind())
	assert.Equal(t, original.Name(), reparsed.Name())
	assert.Equal(t, original.Requirement(), reparsed.Requirement())
}
