// Copyright (c) 2025 Guilherme Silva Sousa
// Licensed under the MIT License
// See LICENSE file in the project root for full license information.
package pathutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSanitize(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{name: "plain", input: "openzeppelin-contracts-5.0.2", expected: "openzeppelin-contracts-5.0.2"},
		{name: "slash", input: "a/b", expected: "a-b"},
		{name: "backslash", input: `a\b`, expected: "a-b"},
		{name: "equals delimiter", input: "a=b", expected: "a-b"},
		{name: "colon and space", input: "a: b", expected: "a--b"},
		{name: "quote and wildcard", input: `a"b*c?d`, expected: "a-b-c-d"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Sanitize(tt.input))
		})
	}
}

func TestSanitize_Truncates(t *testing.T) {
	long := make([]byte, 400)
	for i := range long {
		long[i] = 'a'
	}
	out := Sanitize(string(long))
	assert.Len(t, out, maxNameLength)
}

func TestInstallPath_IsPureAndStable(t *testing.T) {
	p1 := InstallPath("openzeppelin-contracts", "5.0.2", "dependencies")
	p2 := InstallPath("openzeppelin-contracts", "5.0.2", "dependencies")
	assert.Equal(t, p1, p2)
	assert.Equal(t, filepath.Join("dependencies", "openzeppelin-contracts-5.0.2"), p1)
}

func TestCanonicalize_ResolvesSymlinks(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "real")
	require.NoError(t, os.Mkdir(target, 0o755))
	link := filepath.Join(dir, "link")
	if err := os.Symlink(target, link); err != nil {
		t.Skipf("symlinks unsupported: %v", err)
	}

	got, err := Canonicalize(link)
	require.NoError(t, err)

	wantReal, err := filepath.EvalSymlinks(target)
	require.NoError(t, err)
	assert.Equal(t, wantReal, got)
}

func TestCanonicalize_MissingPathFallsBackToCleanAbs(t *testing.T) {
	dir := t.TempDir()
	missing := filepath.Join(dir, "does-not-exist")

	got, err := Canonicalize(missing)
	require.NoError(t, err)
	assert.Equal(t, missing, got)
}
