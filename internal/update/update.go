/*
 * This file is part of ccmd.
 *
 * Copyright (c) 2025 Guilherme Silva Sousa
 *
 * Licensed under the MIT License
 * See LICENSE file in the project root for full license information.
 */

// Package update implements the update engine: refreshes an
// already-installed dependency set in place, reusing internal/install for
// the cases that amount to a forced reacquisition (spec §4.H).
package update

import (
	"context"

	"github.com/soldeer-go/soldeer/internal/acquire/repository"
	"github.com/soldeer-go/soldeer/internal/depspec"
	"github.com/soldeer-go/soldeer/internal/install"
	"github.com/soldeer-go/soldeer/internal/lockfile"
	"github.com/soldeer-go/soldeer/internal/pathutil"
	"github.com/soldeer-go/soldeer/pkg/errors"
	"github.com/soldeer-go/soldeer/pkg/logger"
)

// RepositoryBackend is the subset of the repository acquisition backend
// the update engine drives directly for unpinned repository dependencies.
type RepositoryBackend interface {
	Pull(ctx context.Context, destDir string) (string, error)
	Reset(ctx context.Context, destDir, revision string) error
}

// Engine refreshes a declared dependency set against its current lockfile.
type Engine struct {
	install *install.Engine
	repo    RepositoryBackend
}

// NewEngine builds an update Engine from an install engine and a
// repository backend.
func NewEngine(installEngine *install.Engine, repoBackend RepositoryBackend) *Engine {
	return &Engine{install: installEngine, repo: repoBackend}
}

// Default wires the real install engine and repository client.
func Default() *Engine {
	return NewEngine(install.Default(), repository.New())
}

// Update refreshes every dependency in declared against locked under
// depsRoot and returns the fresh lockfile (spec §4.H). Disposition per
// dependency:
//   - custom-archive and pinned (revision/tag) repository entries already
//     installed pass through unchanged;
//   - unpinned repository entries (branch-tracking or no identifier) are
//     reset to their pinned revision, then pulled to the remote HEAD;
//   - registry-archive entries, and anything not yet installed, are routed
//     through install.Engine.Install with no matching lock entry, forcing
//     a fresh LatestMatching resolution and reacquisition.
func (e *Engine) Update(ctx context.Context, declared []depspec.Spec, locked lockfile.Entries, depsRoot string, opts install.Options) (lockfile.Entries, error) {
	var out lockfile.Entries
	var freshInstall []depspec.Spec
	var errs []error

	for _, spec := range declared {
		existing, found := locked.Find(spec.Name())

		switch spec.Kind() {
		case depspec.CustomArchive:
			if !found {
				freshInstall = append(freshInstall, spec)
				continue
			}
			logger.WithField("name", spec.Name()).Info("custom archive dependency unchanged by update")
			out = append(out, existing)

		case depspec.RegistryArchive:
			freshInstall = append(freshInstall, spec)

		case depspec.Repository:
			if !found {
				freshInstall = append(freshInstall, spec)
				continue
			}
			if isPinned(spec) {
				logger.WithField("name", spec.Name()).Info("pinned repository dependency unchanged by update")
				out = append(out, existing)
				continue
			}
			entry, err := e.pullUnpinned(ctx, spec, existing, depsRoot)
			if err != nil {
				logger.WithField("name", spec.Name()).WithError(err).Error("unpinned repository dependency update failed")
				errs = append(errs, err)
				continue
			}
			out = append(out, entry)
		}
	}

	if len(freshInstall) > 0 {
		installed, err := e.install.Install(ctx, freshInstall, nil, depsRoot, opts)
		if err != nil {
			if multi, ok := err.(*errors.MultiError); ok {
				errs = append(errs, multi.Errors...)
			} else {
				errs = append(errs, err)
			}
		} else {
			out = append(out, installed...)
		}
	}

	if len(errs) > 0 {
		return nil, errors.NewMulti(errs...)
	}
	return out, nil
}

// isPinned reports whether spec's repository identifier fixes an exact
// point in history (revision or tag) rather than tracking a branch.
func isPinned(spec depspec.Spec) bool {
	id, ok := spec.IdentifierValue()
	if !ok {
		return false
	}
	return id.Kind == depspec.RevisionID || id.Kind == depspec.TagID
}

// pullUnpinned resets existing's worktree back to its pinned revision (in
// case of untracked drift) then pulls the remote HEAD, producing a
// lock entry bound to the new revision.
func (e *Engine) pullUnpinned(ctx context.Context, spec depspec.Spec, existing lockfile.Entry, depsRoot string) (lockfile.Entry, error) {
	installPath := pathutil.InstallPath(existing.Name(), existing.ResolvedVersion(), depsRoot)
	revision, _ := existing.Revision()

	if err := e.repo.Reset(ctx, installPath, revision); err != nil {
		return lockfile.Entry{}, errors.Wrap(err, errors.CodeAcquisitionRepoTool, "reset before pull").WithDetail("name", spec.Name())
	}

	newRevision, err := e.repo.Pull(ctx, installPath)
	if err != nil {
		return lockfile.Entry{}, errors.Wrap(err, errors.CodeAcquisitionRepoTool, "pull latest").WithDetail("name", spec.Name())
	}

	repoURL, _ := existing.RepoURL()
	return lockfile.NewRepoEntry(existing.Name(), existing.ResolvedVersion(), repoURL, newRevision), nil
}
