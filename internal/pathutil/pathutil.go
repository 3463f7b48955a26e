/*
 * This file is part of ccmd.
 *
 * Copyright (c) 2025 Guilherme Silva Sousa
 *
 * Licensed under the MIT License
 * See LICENSE file in the project root for full license information.
 */

// Package pathutil implements the path and name policy for installed
// dependencies: deriving a filesystem-safe install folder name from a
// (name, version) pair and canonicalising on-disk paths.
package pathutil

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/soldeer-go/soldeer/pkg/errors"
)

// maxNameLength is the folder-name length ceiling applied after sanitisation.
const maxNameLength = 255

// unsafeChars are replaced with "-": filesystem-unsafe characters plus "="
// (the remapping side-file delimiter, so a raw name/version can never be
// mistaken for an alias=target line).
const unsafeChars = `/\:*?"<>|= `

// Sanitize replaces filesystem-unsafe characters (and "=", " ") in name with
// "-" and truncates the result to maxNameLength bytes. The same input always
// yields the same output on a given platform; the forbidden-char set is not
// guaranteed identical across platforms, so cross-platform folder-name
// stability is not assumed — the lockfile pins the literal resolved name.
func Sanitize(name string) string {
	var b strings.Builder
	b.Grow(len(name))
	for _, r := range name {
		if strings.ContainsRune(unsafeChars, r) {
			b.WriteByte('-')
		} else {
			b.WriteRune(r)
		}
	}
	out := b.String()
	if len(out) > maxNameLength {
		out = out[:maxNameLength]
	}
	return out
}

// InstallPath returns the canonical install directory for a dependency,
// computed purely from (name, version, depsRoot) with no directory listing.
func InstallPath(name, version, depsRoot string) string {
	return filepath.Join(depsRoot, Sanitize(name+"-"+version))
}

// Canonicalize resolves symlinks and platform path quirks, returning an
// absolute, cleaned path.
func Canonicalize(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", errors.Wrap(err, errors.CodeFileIO, "resolve absolute path").WithDetail("path", path)
	}
	resolved, err := filepath.EvalSymlinks(abs)
	if err != nil {
		// A not-yet-created path (e.g. an install target before fetch) is
		// not an error here: fall back to the cleaned absolute form.
		if os.IsNotExist(err) {
			return filepath.Clean(abs), nil
		}
		return "", errors.Wrap(err, errors.CodeFileIO, "resolve symlinks").WithDetail("path", path)
	}
	return resolved, nil
}
