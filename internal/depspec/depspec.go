/*
 * This file is part of ccmd.
 *
 * Copyright (c) 2025 Guilherme Silva Sousa
 *
 * Licensed under the MIT License
 * See LICENSE file in the project root for full license information.
 */

// Package depspec models a declared dependency specification as a
// tagged-union value with three variants (registry archive, custom
// archive, repository) and parses it from manifest/CLI input.
//
// The variants are modelled as one struct with an internal kind tag and
// accessor methods, not as an interface hierarchy: decision points match
// explicitly on Kind() rather than dispatching through polymorphism.
package depspec

import (
	"strings"

	"github.com/soldeer-go/soldeer/pkg/errors"
)

// Kind discriminates the three dependency specification variants.
type Kind int

const (
	// RegistryArchive is resolved against the registry by name+requirement.
	RegistryArchive Kind = iota
	// CustomArchive is fetched from an explicit archive URL.
	CustomArchive
	// Repository is cloned from a git URL, optionally at a pinned identifier.
	Repository
)

func (k Kind) String() string {
	switch k {
	case RegistryArchive:
		return "registry-archive"
	case CustomArchive:
		return "custom-archive"
	case Repository:
		return "repository"
	default:
		return "unknown"
	}
}

// IdentifierKind discriminates the repository identifier variants.
type IdentifierKind int

const (
	// RevisionID pins an exact commit hash.
	RevisionID IdentifierKind = iota
	// BranchID pins a branch name (HEAD moves on update).
	BranchID
	// TagID pins a tag name.
	TagID
)

// Identifier is a single repository checkout target: exactly one of
// revision, branch or tag.
type Identifier struct {
	Kind  IdentifierKind
	Value string
}

// Spec is a declared dependency specification. Zero value is not valid;
// construct via Parse.
type Spec struct {
	kind        Kind
	name        string
	requirement string
	archiveURL  string
	repoURL     string
	identifier  *Identifier
}

// Kind returns the variant tag.
func (s Spec) Kind() Kind { return s.kind }

// IsArchive reports whether s resolves via an archive backend (registry or custom).
func (s Spec) IsArchive() bool { return s.kind == RegistryArchive || s.kind == CustomArchive }

// IsRepo reports whether s resolves via the repository backend.
func (s Spec) IsRepo() bool { return s.kind == Repository }

// Name is the dependency's package name.
func (s Spec) Name() string { return s.name }

// Requirement is the version requirement string as declared.
func (s Spec) Requirement() string { return s.requirement }

// URL returns the custom archive URL, if this is a CustomArchive spec.
func (s Spec) URL() (string, bool) {
	if s.kind != CustomArchive {
		return "", false
	}
	return s.archiveURL, true
}

// RepoURL returns the repository URL, if this is a Repository spec.
func (s Spec) RepoURL() (string, bool) {
	if s.kind != Repository {
		return "", false
	}
	return s.repoURL, true
}

// IdentifierValue returns the pinned identifier, if this is a Repository
// spec that declares one.
func (s Spec) IdentifierValue() (Identifier, bool) {
	if s.kind != Repository || s.identifier == nil {
		return Identifier{}, false
	}
	return *s.identifier, true
}

// Render reconstructs the "name~requirement" form of s, the inverse of the
// name/requirement half of Parse.
func (s Spec) Render() string {
	return s.name + separator + s.requirement
}

const separator = "~"

// AnyVersionRequirement is the requirement substituted when a caller (CLI
// or init) declares a dependency without a version constraint: it matches
// whatever version the registry currently reports as latest (spec §4.E).
const AnyVersionRequirement = ">=0.0.0"

// URLKind selects which URL field (if any) accompanies a parse.
type URLKind int

const (
	// NoURL means the dependency resolves against the registry.
	NoURL URLKind = iota
	// ArchiveURLKind means url is a direct archive download link.
	ArchiveURLKind
	// RepoURLKind means url is a git repository remote.
	RepoURLKind
)

// Parse builds a Spec from "name~requirement" plus an optional URL
// (selecting the custom-archive or repository variant) and at most one
// repository identifier (revision, branch, tag — nil for "none").
func Parse(nameAndRequirement string, urlKind URLKind, url string, revision, branch, tag *string) (Spec, error) {
	name, requirement, err := splitNameRequirement(nameAndRequirement)
	if err != nil {
		return Spec{}, err
	}

	ident, err := resolveIdentifier(revision, branch, tag)
	if err != nil {
		return Spec{}, err
	}

	switch urlKind {
	case NoURL:
		if ident != nil {
			return Spec{}, errors.New(errors.CodeInvalidArgument,
				"identifier (revision/branch/tag) requires a repository URL")
		}
		return Spec{kind: RegistryArchive, name: name, requirement: requirement}, nil

	case ArchiveURLKind:
		if ident != nil {
			return Spec{}, errors.New(errors.CodeInvalidArgument,
				"identifier (revision/branch/tag) is not valid for an archive URL")
		}
		if strings.Contains(requirement, "=") {
			return Spec{}, errors.New(errors.CodeInvalidArgument,
				"requirement must not contain '=' (used verbatim as the install folder suffix)").
				WithDetail("requirement", requirement)
		}
		if url == "" {
			return Spec{}, errors.New(errors.CodeInvalidArgument, "archive URL must not be empty")
		}
		return Spec{kind: CustomArchive, name: name, requirement: requirement, archiveURL: url}, nil

	case RepoURLKind:
		if strings.Contains(requirement, "=") {
			return Spec{}, errors.New(errors.CodeInvalidArgument,
				"requirement must not contain '=' (used verbatim as the install folder suffix)").
				WithDetail("requirement", requirement)
		}
		if url == "" {
			return Spec{}, errors.New(errors.CodeInvalidArgument, "repository URL must not be empty")
		}
		return Spec{kind: Repository, name: name, requirement: requirement, repoURL: url, identifier: ident}, nil

	default:
		return Spec{}, errors.New(errors.CodeInvalidArgument, "unknown URL kind")
	}
}

func splitNameRequirement(nameAndRequirement string) (name, requirement string, err error) {
	idx := strings.Index(nameAndRequirement, separator)
	if idx < 0 {
		return "", "", errors.New(errors.CodeInvalidArgument,
			"missing '~' separator between dependency name and version requirement").
			WithDetail("input", nameAndRequirement)
	}
	name = nameAndRequirement[:idx]
	requirement = nameAndRequirement[idx+len(separator):]
	if name == "" {
		return "", "", errors.New(errors.CodeInvalidArgument, "dependency name must not be empty")
	}
	if requirement == "" {
		return "", "", errors.New(errors.CodeInvalidArgument, "version requirement must not be empty").
			WithDetail("name", name)
	}
	return name, requirement, nil
}

func resolveIdentifier(revision, branch, tag *string) (*Identifier, error) {
	count := 0
	var id *Identifier
	if revision != nil && *revision != "" {
		count++
		id = &Identifier{Kind: RevisionID, Value: *revision}
	}
	if branch != nil && *branch != "" {
		count++
		id = &Identifier{Kind: BranchID, Value: *branch}
	}
	if tag != nil && *tag != "" {
		count++
		id = &Identifier{Kind: TagID, Value: *tag}
	}
	if count > 1 {
		return nil, errors.New(errors.CodeInvalidArgument,
			"at most one of revision, branch or tag may be given")
	}
	return id, nil
}
