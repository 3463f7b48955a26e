/*
 * This file is part of ccmd.
 *
 * Copyright (c) 2025 Guilherme Silva Sousa
 *
 * Licensed under the MIT License
 * See LICENSE file in the project root for full license information.
 */

// Package core orchestrates the dependency engines (manifest, lockfile,
// install, update, remap, auth, publish) into the handful of whole-project
// operations the CLI exposes: init, install, update, uninstall, login, push.
package core

import (
	"path/filepath"

	"github.com/soldeer-go/soldeer/internal/depspec"
	"github.com/soldeer-go/soldeer/internal/fs"
	"github.com/soldeer-go/soldeer/internal/install"
	"github.com/soldeer-go/soldeer/internal/lockfile"
	"github.com/soldeer-go/soldeer/internal/manifest"
	"github.com/soldeer-go/soldeer/internal/remap"
	"github.com/soldeer-go/soldeer/internal/update"
)

// LockFileName and DependenciesDirName are the project-relative defaults a
// fresh init lays down; an existing project may already have them.
const (
	LockFileName        = "soldeer.lock"
	DependenciesDirName = "dependencies"
	remappingsSideFile  = "remappings.txt"
)

// Project resolves the paths and settings every orchestration operation
// needs, read once per invocation from the project root.
type Project struct {
	Root         string
	ManifestPath string
	LockPath     string
	DepsRoot     string
	Settings     manifest.Settings
}

// LoadProject detects the manifest location under root and reads its
// [soldeer] settings table, applying defaults for anything absent (spec
// §6/§8). A project need not yet have a manifest: DetectConfigPath picks the
// path a fresh one would be created at.
func LoadProject(fsys fs.FileSystem, root string) (Project, error) {
	manifestPath, err := manifest.DetectConfigPath(fsys, root)
	if err != nil {
		return Project{}, err
	}
	settings, err := manifest.ReadSettings(fsys, manifestPath)
	if err != nil {
		return Project{}, err
	}
	return Project{
		Root:         root,
		ManifestPath: manifestPath,
		LockPath:     filepath.Join(root, LockFileName),
		DepsRoot:     filepath.Join(root, DependenciesDirName),
		Settings:     settings,
	}, nil
}

// engines bundles the install/update engines and remapping config an
// orchestration operation drives; built fresh per call via newInstallEngine/
// newUpdateEngine, which tests override to inject fakes in place of the
// real network-backed registry/archive/repository backends.
type engines struct {
	install *install.Engine
	update  *update.Engine
	remap   remap.Config
}

// newInstallEngine and newUpdateEngine are indirected through package
// variables, not called directly, so tests can swap in an engine built
// from NewEngine/NewEngine with fakes instead of Default's real backends.
var (
	newInstallEngine = install.Default
	newUpdateEngine  = update.Default
)

func defaultEngines(p Project) engines {
	return engines{
		install: newInstallEngine(),
		update:  newUpdateEngine(),
		remap:   remapConfig(p),
	}
}

func remapConfig(p Project) remap.Config {
	relDeps, err := filepath.Rel(p.Root, p.DepsRoot)
	if err != nil {
		relDeps = DependenciesDirName
	}
	return remap.Config{
		Prefix:         p.Settings.RemappingsPrefix,
		IncludeVersion: p.Settings.RemappingsVersion,
		Regenerate:     p.Settings.RemappingsRegenerate,
		DepsRootRel:    relDeps,
	}
}

// writeRemappings reconciles and rewrites the project's remapping table
// from declared/resolved, per spec §4.I, honoring the [soldeer] location
// setting (side-file or manifest section). Disabled outright when
// RemappingsGenerate is false.
func writeRemappings(fsys fs.FileSystem, p Project, declared []depspec.Spec, resolved lockfile.Entries, cfg remap.Config) error {
	if !p.Settings.RemappingsGenerate {
		return nil
	}

	sideFilePath := filepath.Join(p.Root, remappingsSideFile)
	useManifest := p.Settings.RemappingsLocation == manifest.LocationManifest

	var existing []remap.Row
	var err error
	if useManifest {
		existing, err = remap.ReadManifestSection(fsys, p.ManifestPath)
	} else {
		existing, err = remap.ReadSideFile(fsys, sideFilePath)
	}
	if err != nil {
		return err
	}

	versions := make(map[string]string, len(resolved))
	for _, e := range resolved {
		versions[e.Name()] = e.ResolvedVersion()
	}

	rows := remap.Synthesise(declared, versions, existing, cfg)

	if useManifest {
		return remap.WriteManifestSection(fsys, p.ManifestPath, rows)
	}
	return remap.WriteSideFile(fsys, sideFilePath, rows)
}
