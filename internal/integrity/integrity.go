/*
 * This file is part of ccmd.
 *
 * Copyright (c) 2025 Guilherme Silva Sousa
 *
 * Licensed under the MIT License
 * See LICENSE file in the project root for full license information.
 */

// Package integrity computes stable, SHA-256-based hashes for individual
// files and whole directory trees, used to detect tampering in installed
// dependencies.
package integrity

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/soldeer-go/soldeer/pkg/errors"
)

// HashFile streams path through SHA-256 and returns the lowercase hex digest.
func HashFile(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", errors.Wrap(err, errors.CodeFileIO, "open file for hashing").WithDetail("path", path)
	}
	defer f.Close()

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", errors.Wrap(err, errors.CodeFileIO, "read file for hashing").WithDetail("path", path)
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

// HashTree computes the stable tree-integrity hash of root: every entry
// (file or directory, skipping any ".git" subtree at any depth) contributes
// sha256(relSlashPath || contentHash-if-file), the per-entry digests are
// sorted lexicographically, concatenated and hashed once more. The result
// is independent of root's absolute location, traversal order, and
// filesystem (only content and relative paths matter).
func HashTree(ctx context.Context, root string) (string, error) {
	type entry struct {
		relPath string
		isDir   bool
	}

	var entries []entry
	err := filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if path == root {
			return nil
		}
		if d.IsDir() && d.Name() == ".git" {
			return filepath.SkipDir
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		entries = append(entries, entry{relPath: filepath.ToSlash(rel), isDir: d.IsDir()})
		return nil
	})
	if err != nil {
		return "", errors.Wrap(err, errors.CodeFileIO, "walk tree for hashing").WithDetail("root", root)
	}

	digests := make([]string, len(entries))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))

	for i, e := range entries {
		i, e := i, e
		g.Go(func() error {
			select {
			case <-gctx.Done():
				return gctx.Err()
			default:
			}

			h := sha256.New()
			h.Write([]byte(e.relPath))
			if !e.isDir {
				content, err := os.ReadFile(filepath.Join(root, e.relPath))
				if err != nil {
					return errors.Wrap(err, errors.CodeFileIO, "read file for tree hash").WithDetail("path", e.relPath)
				}
				contentHash := sha256.Sum256(content)
				h.Write(contentHash[:])
			}
			digests[i] = hex.EncodeToString(h.Sum(nil))
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return "", err
	}

	sort.Strings(digests)
	final := sha256.Sum256([]byte(strings.Join(digests, "")))
	return hex.EncodeToString(final[:]), nil
}
