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

	"github.com/soldeer-go/soldeer/internal/fs"
	"github.com/soldeer-go/soldeer/internal/lockfile"
	"github.com/soldeer-go/soldeer/internal/manifest"
	"github.com/soldeer-go/soldeer/internal/pathutil"
	"github.com/soldeer-go/soldeer/internal/remap"
	"github.com/soldeer-go/soldeer/pkg/errors"
)

// Uninstall drops name from the manifest's [dependencies] table, its lock
// entry, its install directory, and its remapping row. Uninstalling an
// undeclared name leaves the manifest as it is, but any lock entry and
// remapping rows for name are still dropped; an install directory is only
// removed when a lock entry for name records its version. When removing name
// empties the declared set entirely, the whole dependencies directory is
// torn down via the install engine's Clean janitor rather than just name's
// own install path.
func Uninstall(fsys fs.FileSystem, root, name string) error {
	p, err := LoadProject(fsys, root)
	if err != nil {
		return err
	}

	if err := manifest.RemoveDependency(fsys, p.ManifestPath, name); err != nil {
		return err
	}

	remaining, _, err := manifest.ReadDependencies(fsys, p.ManifestPath)
	if err != nil {
		return err
	}

	locked, _, err := lockfile.Read(fsys, p.LockPath)
	if err != nil {
		return err
	}

	if len(remaining) == 0 {
		if err := newInstallEngine().Clean(context.Background(), p.DepsRoot); err != nil {
			return err
		}
	} else if entry, found := locked.Find(name); found {
		installPath := pathutil.InstallPath(entry.Name(), entry.ResolvedVersion(), p.DepsRoot)
		if err := fsys.RemoveAll(installPath); err != nil {
			return errors.Wrap(err, errors.CodeAcquisitionIO, "remove dependency install directory").WithDetail("path", installPath)
		}
	}

	resolved := lockfile.Remove(locked, name)
	if err := lockfile.Write(fsys, p.LockPath, resolved); err != nil {
		return err
	}

	cfg := remapConfig(p)
	sideFilePath := filepath.Join(p.Root, remappingsSideFile)
	useManifest := p.Settings.RemappingsLocation == manifest.LocationManifest

	var existing []remap.Row
	if useManifest {
		existing, err = remap.ReadManifestSection(fsys, p.ManifestPath)
	} else {
		existing, err = remap.ReadSideFile(fsys, sideFilePath)
	}
	if err != nil {
		return err
	}

	rows := remap.Remove(name, existing, cfg)
	if useManifest {
		return remap.WriteManifestSection(fsys, p.ManifestPath, rows)
	}
	return remap.WriteSideFile(fsys, sideFilePath, rows)
}
