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

	"github.com/soldeer-go/soldeer/internal/depspec"
	"github.com/soldeer-go/soldeer/internal/fs"
	"github.com/soldeer-go/soldeer/internal/install"
	"github.com/soldeer-go/soldeer/internal/lockfile"
	"github.com/soldeer-go/soldeer/internal/manifest"
	"github.com/soldeer-go/soldeer/internal/progress"
	"github.com/soldeer-go/soldeer/pkg/logger"
)

// InstallOptions configures a whole-project install run.
type InstallOptions struct {
	// Add, when set, is a single new dependency to declare in the manifest
	// before installing (the "soldeer install <dep>" form); nil means
	// install the already-declared set unchanged ("soldeer install").
	Add         *depspec.Spec
	Concurrency int
	Progress    *progress.Sink
}

// Install resolves and acquires every dependency declared in the project's
// manifest (after recording opts.Add, if given) against its current
// lockfile, writes the refreshed lockfile, and regenerates remappings
// (spec §4.G, §4.I). Recursive sub-dependency installs follow the project's
// recursive_deps setting: when it is on, a dependency's own nested manifest
// (if any) is installed transitively; when it is off, none are.
func Install(ctx context.Context, fsys fs.FileSystem, root string, opts InstallOptions) (lockfile.Entries, error) {
	p, err := LoadProject(fsys, root)
	if err != nil {
		return nil, err
	}

	if opts.Add != nil {
		if err := manifest.AddDependency(fsys, p.ManifestPath, *opts.Add); err != nil {
			return nil, err
		}
	}

	declared, warnings, err := manifest.ReadDependencies(fsys, p.ManifestPath)
	if err != nil {
		return nil, err
	}
	for _, w := range warnings {
		logger.WithField("component", "install").Warn(w)
	}

	locked, _, err := lockfile.Read(fsys, p.LockPath)
	if err != nil {
		return nil, err
	}

	eng := defaultEngines(p)
	resolved, err := eng.install.Install(ctx, declared, locked, p.DepsRoot, install.Options{
		Concurrency: opts.Concurrency,
		Recursive:   p.Settings.RecursiveDeps,
		Progress:    opts.Progress,
		SubInstall:  recursiveSubInstaller{concurrency: opts.Concurrency},
	})
	if err != nil {
		return nil, err
	}

	if err := lockfile.Write(fsys, p.LockPath, resolved); err != nil {
		return nil, err
	}

	if err := writeRemappings(fsys, p, declared, resolved, eng.remap); err != nil {
		return nil, err
	}

	return resolved, nil
}

// DeclaredNames returns the dependency names Install would act on for
// root, including pending (not yet written to the manifest), for callers
// that need the task set up front to build a progress.Sink before Install
// runs.
func DeclaredNames(fsys fs.FileSystem, root string, pending *depspec.Spec) ([]string, error) {
	p, err := LoadProject(fsys, root)
	if err != nil {
		return nil, err
	}
	declared, _, err := manifest.ReadDependencies(fsys, p.ManifestPath)
	if err != nil {
		return nil, err
	}

	names := make([]string, 0, len(declared)+1)
	for _, spec := range declared {
		names = append(names, spec.Name())
	}
	if pending != nil {
		found := false
		for _, n := range names {
			if n == pending.Name() {
				found = true
				break
			}
		}
		if !found {
			names = append(names, pending.Name())
		}
	}
	return names, nil
}

// recursiveSubInstaller drives a nested project's own manifest/lockfile
// through the same Install path, implementing install.SubInstaller (spec
// §4.G transition 8). It always uses the real filesystem: a sub-dependency
// is always a real on-disk tree once extracted, never an in-memory fake.
type recursiveSubInstaller struct {
	concurrency int
}

func (r recursiveSubInstaller) InstallNested(ctx context.Context, projectDir string) error {
	_, err := Install(ctx, fs.OS{}, projectDir, InstallOptions{Concurrency: r.concurrency})
	return err
}
