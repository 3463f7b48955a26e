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

	"github.com/soldeer-go/soldeer/internal/fs"
	"github.com/soldeer-go/soldeer/internal/install"
	"github.com/soldeer-go/soldeer/internal/lockfile"
	"github.com/soldeer-go/soldeer/internal/manifest"
	"github.com/soldeer-go/soldeer/internal/progress"
	"github.com/soldeer-go/soldeer/pkg/logger"
)

// UpdateOptions configures a whole-project update run.
type UpdateOptions struct {
	Concurrency int
	Progress    *progress.Sink
}

// Update refreshes every declared dependency against its current lockfile
// (spec §4.H), writes the refreshed lockfile, and regenerates remappings.
func Update(ctx context.Context, fsys fs.FileSystem, root string, opts UpdateOptions) (lockfile.Entries, error) {
	p, err := LoadProject(fsys, root)
	if err != nil {
		return nil, err
	}

	declared, warnings, err := manifest.ReadDependencies(fsys, p.ManifestPath)
	if err != nil {
		return nil, err
	}
	for _, w := range warnings {
		logger.WithField("component", "update").Warn(w)
	}

	locked, _, err := lockfile.Read(fsys, p.LockPath)
	if err != nil {
		return nil, err
	}

	eng := defaultEngines(p)
	resolved, err := eng.update.Update(ctx, declared, locked, p.DepsRoot, install.Options{
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
