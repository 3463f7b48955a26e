/*
 * This file is part of ccmd.
 *
 * Copyright (c) 2025 Guilherme Silva Sousa
 *
 * Licensed under the MIT License
 * See LICENSE file in the project root for full license information.
 */

// Package install implements the core per-dependency install engine: a
// fan-out/fan-in state machine that takes a declared dependency set and the
// previous lockfile and produces a fresh lockfile, acquiring, verifying and
// (optionally) recursing into each dependency in parallel.
package install

import (
	"context"
	"os"
	"path/filepath"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/soldeer-go/soldeer/internal/acquire/archive"
	"github.com/soldeer-go/soldeer/internal/acquire/repository"
	"github.com/soldeer-go/soldeer/internal/depspec"
	"github.com/soldeer-go/soldeer/internal/integrity"
	"github.com/soldeer-go/soldeer/internal/lockfile"
	"github.com/soldeer-go/soldeer/internal/pathutil"
	"github.com/soldeer-go/soldeer/internal/progress"
	"github.com/soldeer-go/soldeer/internal/registryclient"
	"github.com/soldeer-go/soldeer/pkg/errors"
	"github.com/soldeer-go/soldeer/pkg/logger"
)

// RegistryClient resolves a dependency name+requirement against the
// package registry. Satisfied by *registryclient.Client.
type RegistryClient interface {
	LatestMatching(ctx context.Context, name, requirement string) (string, error)
	DownloadURL(ctx context.Context, name, version string) (string, error)
}

// ArchiveBackend downloads and extracts a zip archive. Satisfied by the
// archive package's Fetch/Extract functions.
type ArchiveBackend interface {
	Fetch(ctx context.Context, url, destDir, baseName string) (string, error)
	Extract(archivePath, destDir string) error
}

// RepositoryBackend clones, resets, and initializes the submodules of a
// git working tree. Satisfied by *repository.Client.
type RepositoryBackend interface {
	Clone(ctx context.Context, url string, revision, branch, tag *string, destDir string) (string, error)
	Reset(ctx context.Context, destDir, revision string) error
	UpdateSubmodules(ctx context.Context, destDir string) error
}

// SubInstaller recurses into a freshly acquired dependency's own nested
// manifest, when recursive installs are enabled. The default Options leave
// this unset, which installs flat with no recursion.
type SubInstaller interface {
	InstallNested(ctx context.Context, projectDir string) error
}

type noopSubInstaller struct{}

func (noopSubInstaller) InstallNested(context.Context, string) error { return nil }

// Options configures a single Install or Update invocation.
type Options struct {
	// Concurrency caps the number of dependencies fetched in parallel.
	// Zero means unbounded (errgroup's default).
	Concurrency int
	// Recursive enables sub-dependency recursion via SubInstall.
	Recursive bool
	// Progress, if set, must have been constructed with exactly the
	// declared set's names; Install sends every task's events there and
	// closes each task's channel when that dependency finishes.
	Progress *progress.Sink
	// SubInstall is invoked per dependency when Recursive is set. Nil
	// means no recursion (the zero noopSubInstaller is used).
	SubInstall SubInstaller
}

// Engine runs the install/update state machine against injected
// acquisition backends, so tests can substitute fakes for the network and
// the git/zip tooling.
type Engine struct {
	registry RegistryClient
	archive  ArchiveBackend
	repo     RepositoryBackend

	isRepo     func(path string) bool
	hasChanges func(path, revision string) (bool, error)
	hashTree   func(ctx context.Context, path string) (string, error)
	hashFile   func(path string) (string, error)
}

// NewEngine builds an Engine from explicit backends, for tests.
func NewEngine(registry RegistryClient, archiveBackend ArchiveBackend, repoBackend RepositoryBackend) *Engine {
	return &Engine{
		registry:   registry,
		archive:    archiveBackend,
		repo:       repoBackend,
		isRepo:     repository.IsRepository,
		hasChanges: repository.HasLocalChanges,
		hashTree:   integrity.HashTree,
		hashFile:   integrity.HashFile,
	}
}

type defaultArchiveBackend struct{}

func (defaultArchiveBackend) Fetch(ctx context.Context, url, destDir, baseName string) (string, error) {
	return archive.Fetch(ctx, url, destDir, baseName)
}

func (defaultArchiveBackend) Extract(archivePath, destDir string) error {
	return archive.Extract(archivePath, destDir)
}

// Default builds an Engine wired to the real registry, archive and
// repository backends.
func Default() *Engine {
	return NewEngine(registryclient.New(), defaultArchiveBackend{}, repository.New())
}

// Install runs the fan-out/fan-in state machine for declared against
// locked, under depsRoot, and returns the fresh lockfile entries (spec
// §4.G). One goroutine per declared dependency; a failing dependency does
// not cancel its siblings. If any dependency failed, the aggregate error
// (via errors.NewMulti) is returned and the partial lockfile is discarded —
// callers that want the lockfile written incrementally should inspect
// individual failures via logs, not this return value.
func (e *Engine) Install(ctx context.Context, declared []depspec.Spec, locked lockfile.Entries, depsRoot string, opts Options) (lockfile.Entries, error) {
	if opts.SubInstall == nil {
		opts.SubInstall = noopSubInstaller{}
	}
	if err := os.MkdirAll(depsRoot, 0o755); err != nil {
		return nil, errors.Wrap(err, errors.CodeAcquisitionIO, "create deps root").WithDetail("dir", depsRoot)
	}

	results := make([]lockfile.Entry, len(declared))
	g, gctx := errgroup.WithContext(ctx)
	if opts.Concurrency > 0 {
		g.SetLimit(opts.Concurrency)
	}

	var mu sync.Mutex
	var errs []error

	for i, spec := range declared {
		i, spec := i, spec
		g.Go(func() error {
			entry, err := e.installOne(gctx, spec, locked, depsRoot, opts)
			if err != nil {
				logger.WithField("name", spec.Name()).WithError(err).Error("dependency install failed")
				mu.Lock()
				errs = append(errs, err)
				mu.Unlock()
				return nil
			}
			results[i] = entry
			return nil
		})
	}
	_ = g.Wait()

	if len(errs) > 0 {
		return nil, errors.NewMulti(errs...)
	}

	out := make(lockfile.Entries, 0, len(results))
	out = append(out, results...)
	return out, nil
}

// Clean removes depsRoot wholesale. Safe because Install recreates it
// lazily; used by the uninstall CLI path when the declared set becomes
// empty.
func (e *Engine) Clean(_ context.Context, depsRoot string) error {
	if err := os.RemoveAll(depsRoot); err != nil {
		return errors.Wrap(err, errors.CodeAcquisitionIO, "remove deps root").WithDetail("dir", depsRoot)
	}
	return nil
}

type checkStatus int

const (
	statusMissing checkStatus = iota
	statusInstalled
	statusFailedIntegrity
)

// check implements transition 1 (Declared → Checked) for an existing lock
// entry: Missing if the install path is absent, else Installed or
// FailedIntegrity depending on the entry's kind.
func (e *Engine) check(ctx context.Context, entry lockfile.Entry, depsRoot string) (checkStatus, string, error) {
	installPath := pathutil.InstallPath(entry.Name(), entry.ResolvedVersion(), depsRoot)

	if _, err := os.Stat(installPath); err != nil {
		if os.IsNotExist(err) {
			return statusMissing, installPath, nil
		}
		return 0, "", errors.Wrap(err, errors.CodeAcquisitionIO, "stat install path").WithDetail("path", installPath)
	}

	switch entry.Kind() {
	case lockfile.ArchiveKind:
		expected, _ := entry.TreeIntegrity()
		actual, err := e.hashTree(ctx, installPath)
		if err != nil {
			return 0, "", err
		}
		if actual == expected {
			return statusInstalled, installPath, nil
		}
		return statusFailedIntegrity, installPath, nil

	case lockfile.RepoKind:
		if !e.isRepo(installPath) {
			return statusMissing, installPath, nil
		}
		revision, _ := entry.Revision()
		changed, err := e.hasChanges(installPath, revision)
		if err != nil {
			return 0, "", err
		}
		if changed {
			return statusFailedIntegrity, installPath, nil
		}
		return statusInstalled, installPath, nil

	default:
		return statusMissing, installPath, nil
	}
}

// installOne drives one dependency through the full state machine
// (spec §4.G transitions 1-9), emitting progress events for task name
// spec.Name() if opts.Progress is set.
func (e *Engine) installOne(ctx context.Context, spec depspec.Spec, locked lockfile.Entries, depsRoot string, opts Options) (lockfile.Entry, error) {
	task := spec.Name()
	emit := func(state progress.State, message string) {
		if opts.Progress != nil {
			opts.Progress.Task(task) <- progress.Event{Task: task, State: state, Message: message}
		}
	}
	if opts.Progress != nil {
		defer opts.Progress.Done(task)
	}

	emit(progress.StateChecking, "")

	existing, found := locked.Find(spec.Name())
	status := statusMissing
	if found {
		st, _, err := e.check(ctx, existing, depsRoot)
		if err != nil {
			emit(progress.StateFailed, err.Error())
			return lockfile.Entry{}, err
		}
		status = st
	}

	if status == statusInstalled {
		emit(progress.StateSkipped, "up to date")
		return existing, nil
	}

	if status == statusFailedIntegrity && existing.Kind() == lockfile.RepoKind {
		revision, _ := existing.Revision()
		installPath := pathutil.InstallPath(existing.Name(), existing.ResolvedVersion(), depsRoot)
		if err := e.repo.Reset(ctx, installPath, revision); err != nil {
			wrapped := errors.Wrap(err, errors.CodeIntegrityMismatch, "restore pinned revision").WithDetail("name", spec.Name())
			emit(progress.StateFailed, wrapped.Error())
			return lockfile.Entry{}, wrapped
		}
		emit(progress.StateVerified, "restored pinned revision")
		return existing, nil
	}

	if status == statusFailedIntegrity {
		emit(progress.StateTampered, "reinstalling")
	}

	emit(progress.StateFetching, "")

	var entry lockfile.Entry
	var err error
	if spec.IsRepo() {
		entry, err = e.fetchRepo(ctx, spec, depsRoot)
	} else {
		var lockRef *lockfile.Entry
		if status == statusFailedIntegrity {
			lockRef = &existing
		}
		entry, err = e.fetchArchive(ctx, spec, lockRef, depsRoot)
	}
	if err != nil {
		emit(progress.StateFailed, err.Error())
		return lockfile.Entry{}, err
	}
	emit(progress.StateExtracted, "")

	installPath := pathutil.InstallPath(entry.Name(), entry.ResolvedVersion(), depsRoot)

	if opts.Recursive {
		if entry.Kind() == lockfile.RepoKind {
			if err := e.repo.UpdateSubmodules(ctx, installPath); err != nil {
				emit(progress.StateFailed, err.Error())
				return lockfile.Entry{}, err
			}
		}
		if err := opts.SubInstall.InstallNested(ctx, installPath); err != nil {
			emit(progress.StateFailed, err.Error())
			return lockfile.Entry{}, err
		}
	}
	emit(progress.StateSubdeps, "")

	if entry.Kind() == lockfile.ArchiveKind {
		hash, err := e.hashTree(ctx, installPath)
		if err != nil {
			emit(progress.StateFailed, err.Error())
			return lockfile.Entry{}, err
		}
		url, _ := entry.URL()
		checksum, _ := entry.ArchiveChecksum()
		entry = lockfile.NewArchiveEntry(entry.Name(), entry.ResolvedVersion(), url, checksum, hash)
	}

	emit(progress.StateVerified, "")
	return entry, nil
}

// fetchArchive implements transition 6: resolve (url, version), download,
// checksum-verify against lockRef when one is being followed, then
// extract. The returned entry's TreeIntegrity is left empty; installOne
// fills it in once sub-dependency recursion has settled (transition 9).
func (e *Engine) fetchArchive(ctx context.Context, spec depspec.Spec, lockRef *lockfile.Entry, depsRoot string) (lockfile.Entry, error) {
	var url, version string
	var expectedChecksum string

	switch {
	case lockRef != nil:
		url, _ = lockRef.URL()
		version = lockRef.ResolvedVersion()
		expectedChecksum, _ = lockRef.ArchiveChecksum()
	case spec.Kind() == depspec.CustomArchive:
		u, _ := spec.URL()
		url = u
		version = spec.Requirement()
	default:
		resolved, err := e.registry.LatestMatching(ctx, spec.Name(), spec.Requirement())
		if err != nil {
			return lockfile.Entry{}, err
		}
		version = resolved
		resolvedURL, err := e.registry.DownloadURL(ctx, spec.Name(), version)
		if err != nil {
			return lockfile.Entry{}, err
		}
		url = resolvedURL
	}

	installPath := pathutil.InstallPath(spec.Name(), version, depsRoot)
	if err := os.RemoveAll(installPath); err != nil {
		return lockfile.Entry{}, errors.Wrap(err, errors.CodeAcquisitionIO, "clear stale install path").WithDetail("path", installPath)
	}

	archivePath, err := e.archive.Fetch(ctx, url, filepath.Dir(installPath), filepath.Base(installPath))
	if err != nil {
		return lockfile.Entry{}, err
	}

	checksum, err := e.hashFile(archivePath)
	if err != nil {
		return lockfile.Entry{}, err
	}
	if expectedChecksum != "" && checksum != expectedChecksum {
		return lockfile.Entry{}, errors.Newf(errors.CodeIntegrityMismatch, "archive checksum mismatch for %s@%s", spec.Name(), version).
			WithDetail("name", spec.Name()).WithDetail("version", version)
	}

	if err := e.archive.Extract(archivePath, installPath); err != nil {
		return lockfile.Entry{}, err
	}

	return lockfile.NewArchiveEntry(spec.Name(), version, url, checksum, ""), nil
}

// fetchRepo implements transition 7: clone at the spec's pinned identifier
// (if any) and record the resulting revision. The install path is keyed on
// the declared requirement string, since repository dependencies are never
// registry-resolved.
func (e *Engine) fetchRepo(ctx context.Context, spec depspec.Spec, depsRoot string) (lockfile.Entry, error) {
	version := spec.Requirement()
	installPath := pathutil.InstallPath(spec.Name(), version, depsRoot)
	if err := os.RemoveAll(installPath); err != nil {
		return lockfile.Entry{}, errors.Wrap(err, errors.CodeAcquisitionIO, "clear stale install path").WithDetail("path", installPath)
	}

	repoURL, _ := spec.RepoURL()

	var revision, branch, tag *string
	if id, ok := spec.IdentifierValue(); ok {
		v := id.Value
		switch id.Kind {
		case depspec.RevisionID:
			revision = &v
		case depspec.BranchID:
			branch = &v
		case depspec.TagID:
			tag = &v
		}
	}

	rev, err := e.repo.Clone(ctx, repoURL, revision, branch, tag, installPath)
	if err != nil {
		return lockfile.Entry{}, err
	}
	return lockfile.NewRepoEntry(spec.Name(), version, repoURL, rev), nil
}
