/*
 * This file is part of ccmd.
 *
 * Copyright (c) 2025 Guilherme Silva Sousa
 *
 * Licensed under the MIT License
 * See LICENSE file in the project root for full license information.
 */

package core

import (
	"context"
	"path/filepath"
	"strings"

	"github.com/soldeer-go/soldeer/internal/depspec"
	"github.com/soldeer-go/soldeer/internal/fs"
	"github.com/soldeer-go/soldeer/internal/manifest"
	"github.com/soldeer-go/soldeer/pkg/errors"
	"github.com/soldeer-go/soldeer/pkg/logger"
)

// defaultDependencyName is the dependency init installs to give a fresh
// project a working example, mirroring the original tool's bootstrap choice.
const defaultDependencyName = "forge-std"

// InitOptions configures project initialization.
type InitOptions struct {
	Root string
	// Clean removes an existing Foundry lib directory and git submodules
	// before initializing, converting a Foundry-managed project over to
	// soldeer-managed dependencies.
	Clean bool
}

// Init bootstraps root as a soldeer project: ensures the dependencies
// directory exists, installs a default example dependency, records it in
// the manifest, lockfile and remappings, and adds the dependencies
// directory to .gitignore if one is present.
func Init(ctx context.Context, fsys fs.FileSystem, opts InitOptions) error {
	if opts.Clean {
		if err := removeFoundryLib(fsys, opts.Root); err != nil {
			return err
		}
	}

	p, err := LoadProject(fsys, opts.Root)
	if err != nil {
		return err
	}

	spec, err := depspec.Parse(defaultDependencyName+"~"+depspec.AnyVersionRequirement, depspec.NoURL, "", nil, nil, nil)
	if err != nil {
		return err
	}

	logger.WithField("component", "init").Info("installing default dependency")
	if _, err := Install(ctx, fsys, opts.Root, InstallOptions{Add: &spec}); err != nil {
		return err
	}

	foundryPath := filepath.Join(opts.Root, manifest.FoundryFilename)
	if exists, _ := fsys.Exists(foundryPath); exists && p.ManifestPath == foundryPath {
		logger.WithField("component", "init").Debug("foundry.toml already declares dependencies, libs left untouched")
	}

	return addDependenciesToGitignore(fsys, opts.Root)
}

// removeFoundryLib deletes a Foundry project's lib/ directory and
// .gitmodules file, clearing the way for soldeer-managed dependencies.
func removeFoundryLib(fsys fs.FileSystem, root string) error {
	libDir := filepath.Join(root, "lib")
	if err := fsys.RemoveAll(libDir); err != nil {
		return errors.Wrap(err, errors.CodeFileIO, "remove lib directory").WithDetail("path", libDir)
	}

	gitmodules := filepath.Join(root, ".gitmodules")
	if exists, err := fsys.Exists(gitmodules); err == nil && exists {
		if err := fsys.Remove(gitmodules); err != nil {
			return errors.Wrap(err, errors.CodeFileIO, "remove .gitmodules").WithDetail("path", gitmodules)
		}
	}
	return nil
}

func addDependenciesToGitignore(fsys fs.FileSystem, root string) error {
	gitignorePath := filepath.Join(root, ".gitignore")
	exists, err := fsys.Exists(gitignorePath)
	if err != nil {
		return errors.Wrap(err, errors.CodeFileIO, "stat .gitignore").WithDetail("path", gitignorePath)
	}
	if !exists {
		return nil
	}

	data, err := fsys.ReadFile(gitignorePath)
	if err != nil {
		return errors.Wrap(err, errors.CodeFileIO, "read .gitignore").WithDetail("path", gitignorePath)
	}
	if strings.Contains(string(data), DependenciesDirName) {
		return nil
	}

	updated := string(data) + "\n\n# Soldeer\n/" + DependenciesDirName + "\n"
	if err := fsys.WriteFile(gitignorePath, []byte(updated), 0o644); err != nil {
		return errors.Wrap(err, errors.CodeFileIO, "write .gitignore").WithDetail("path", gitignorePath)
	}
	return nil
}
