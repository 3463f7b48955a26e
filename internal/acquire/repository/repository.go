/*
 * This file is part of ccmd.
 *
 * Copyright (c) 2025 Guilherme Silva Sousa
 *
 * Licensed under the MIT License
 * See LICENSE file in the project root for full license information.
 */

// Package repository implements the repository acquisition backend: clone
// a git remote, optionally check out a pinned identifier, read back the
// resulting revision, and later reset a working tree back to a pinned
// revision. Generalized from the teacher's pkg/git.Client wrapper around
// go-git.
package repository

import (
	"context"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"

	"github.com/soldeer-go/soldeer/pkg/errors"
	"github.com/soldeer-go/soldeer/pkg/logger"
)

// Client performs git clone/checkout/reset operations via go-git.
type Client struct{}

// New returns a repository Client.
func New() *Client { return &Client{} }

// Clone performs a full clone (with tags) of url into destDir, then checks
// out at most one of revision, branch or tag (precedence: tag, branch,
// revision — mirroring the teacher's Checkout precedence), and returns the
// resulting HEAD as a 40-hex commit id. With no identifier given, the
// default branch's HEAD at clone time is returned.
func (c *Client) Clone(ctx context.Context, url string, revision, branch, tag *string, destDir string) (string, error) {
	repo, err := git.PlainCloneContext(ctx, destDir, false, &git.CloneOptions{
		URL:  url,
		Tags: git.AllTags,
	})
	if err != nil {
		return "", errors.Wrap(err, errors.CodeAcquisitionRepoTool, "clone repository").
			WithDetail("url", url).WithDetail("dest", destDir)
	}

	hash, err := resolveCheckoutHash(repo, revision, branch, tag)
	if err != nil {
		return "", errors.Wrap(err, errors.CodeAcquisitionRepoTool, "resolve identifier").
			WithDetail("url", url)
	}

	if hash != nil {
		wt, err := repo.Worktree()
		if err != nil {
			return "", errors.Wrap(err, errors.CodeAcquisitionRepoTool, "open worktree").WithDetail("dest", destDir)
		}
		if err := wt.Checkout(&git.CheckoutOptions{Hash: *hash}); err != nil {
			return "", errors.Wrap(err, errors.CodeAcquisitionRepoTool, "checkout identifier").
				WithDetail("dest", destDir).WithDetail("hash", hash.String())
		}
	}

	head, err := repo.Head()
	if err != nil {
		return "", errors.Wrap(err, errors.CodeAcquisitionRepoTool, "read HEAD after checkout").WithDetail("dest", destDir)
	}
	return head.Hash().String(), nil
}

func resolveCheckoutHash(repo *git.Repository, revision, branch, tag *string) (*plumbing.Hash, error) {
	if tag != nil {
		ref, err := repo.Tag(*tag)
		if err != nil {
			return nil, err
		}
		h := ref.Hash()
		if tagObj, err := repo.TagObject(h); err == nil {
			target := tagObj.Target
			return &target, nil
		}
		return &h, nil
	}
	if branch != nil {
		ref, err := repo.Reference(plumbing.NewRemoteReferenceName("origin", *branch), true)
		if err != nil {
			return nil, err
		}
		h := ref.Hash()
		return &h, nil
	}
	if revision != nil {
		h := plumbing.NewHash(*revision)
		return &h, nil
	}
	return nil, nil
}

// Reset hard-resets destDir's worktree to revision and removes untracked
// files, restoring the pinned state after a FailedIntegrity verdict
// (spec §4.G transition 4 / §4.H unpinned-repo update).
func (c *Client) Reset(_ context.Context, destDir, revision string) error {
	repo, err := git.PlainOpen(destDir)
	if err != nil {
		return errors.Wrap(err, errors.CodeAcquisitionRepoTool, "open repository").WithDetail("dest", destDir)
	}
	wt, err := repo.Worktree()
	if err != nil {
		return errors.Wrap(err, errors.CodeAcquisitionRepoTool, "open worktree").WithDetail("dest", destDir)
	}

	if err := wt.Reset(&git.ResetOptions{Commit: plumbing.NewHash(revision), Mode: git.HardReset}); err != nil {
		return errors.Wrap(err, errors.CodeAcquisitionRepoTool, "hard reset").
			WithDetail("dest", destDir).WithDetail("revision", revision)
	}
	if err := wt.Clean(&git.CleanOptions{Dir: true}); err != nil {
		return errors.Wrap(err, errors.CodeAcquisitionRepoTool, "clean untracked files").WithDetail("dest", destDir)
	}
	return nil
}

// Pull fetches and fast-forwards destDir's current branch to the remote
// HEAD, returning the new revision (spec §4.H unpinned-repo update).
func (c *Client) Pull(ctx context.Context, destDir string) (string, error) {
	repo, err := git.PlainOpen(destDir)
	if err != nil {
		return "", errors.Wrap(err, errors.CodeAcquisitionRepoTool, "open repository").WithDetail("dest", destDir)
	}
	wt, err := repo.Worktree()
	if err != nil {
		return "", errors.Wrap(err, errors.CodeAcquisitionRepoTool, "open worktree").WithDetail("dest", destDir)
	}

	if err := wt.PullContext(ctx, &git.PullOptions{}); err != nil && err != git.NoErrAlreadyUpToDate {
		return "", errors.Wrap(err, errors.CodeAcquisitionRepoTool, "pull").WithDetail("dest", destDir)
	}

	head, err := repo.Head()
	if err != nil {
		return "", errors.Wrap(err, errors.CodeAcquisitionRepoTool, "read HEAD after pull").WithDetail("dest", destDir)
	}
	return head.Hash().String(), nil
}

// UpdateSubmodules initializes and updates every submodule declared in
// destDir's .gitmodules, recursing into nested submodules. A repository
// with no submodules manifest is a no-op. go-git's submodule update has no
// context-aware variant, same as Reset and Clean above.
func (c *Client) UpdateSubmodules(_ context.Context, destDir string) error {
	repo, err := git.PlainOpen(destDir)
	if err != nil {
		return errors.Wrap(err, errors.CodeAcquisitionRepoTool, "open repository").WithDetail("dest", destDir)
	}
	wt, err := repo.Worktree()
	if err != nil {
		return errors.Wrap(err, errors.CodeAcquisitionRepoTool, "open worktree").WithDetail("dest", destDir)
	}

	submodules, err := wt.Submodules()
	if err != nil {
		return errors.Wrap(err, errors.CodeAcquisitionRepoTool, "list submodules").WithDetail("dest", destDir)
	}
	if len(submodules) == 0 {
		return nil
	}

	if err := submodules.Update(&git.SubmoduleUpdateOptions{
		Init:              true,
		RecurseSubmodules: git.DefaultSubmoduleRecursionDepth,
	}); err != nil {
		return errors.Wrap(err, errors.CodeAcquisitionRepoTool, "submodule init/update").WithDetail("dest", destDir)
	}
	return nil
}

// IsRepository reports whether path is the toplevel of a git working tree.
func IsRepository(path string) bool {
	_, err := git.PlainOpen(path)
	return err == nil
}

// HasLocalChanges reports whether destDir's worktree differs from revision:
// either HEAD has moved away from revision, or the worktree has
// uncommitted changes. Used to detect FailedIntegrity for repo lock entries
// (spec §4.G transition 1, "diff against the pinned revision").
func HasLocalChanges(destDir, revision string) (bool, error) {
	repo, err := git.PlainOpen(destDir)
	if err != nil {
		return false, errors.Wrap(err, errors.CodeAcquisitionRepoTool, "open repository").WithDetail("dest", destDir)
	}

	head, err := repo.Head()
	if err != nil {
		return false, errors.Wrap(err, errors.CodeAcquisitionRepoTool, "read HEAD").WithDetail("dest", destDir)
	}
	if head.Hash().String() != revision {
		return true, nil
	}

	wt, err := repo.Worktree()
	if err != nil {
		return false, errors.Wrap(err, errors.CodeAcquisitionRepoTool, "open worktree").WithDetail("dest", destDir)
	}
	status, err := wt.Status()
	if err != nil {
		return false, errors.Wrap(err, errors.CodeAcquisitionRepoTool, "worktree status").WithDetail("dest", destDir)
	}
	if !status.IsClean() {
		logger.WithField("dest", destDir).Debug("worktree has uncommitted changes")
		return true, nil
	}
	return false, nil
}
