/*
 * This file is part of ccmd.
 *
 * Copyright (c) 2025 Guilherme Silva Sousa
 *
 * Licensed under the MIT License
 * See LICENSE file in the project root for full license information.
 */

// Package lockfile implements the lockfile model and its TOML-backed store:
// a content-addressed record binding each declared dependency to an exact
// resolution (version, source, checksum/integrity, or revision).
package lockfile

import (
	"bytes"
	"sort"

	"github.com/BurntSushi/toml"

	"github.com/soldeer-go/soldeer/internal/fs"
	"github.com/soldeer-go/soldeer/pkg/errors"
	"github.com/soldeer-go/soldeer/pkg/logger"
)

// Kind discriminates the two lock entry variants.
type Kind int

const (
	// ArchiveKind pins an archive download and its checksums.
	ArchiveKind Kind = iota
	// RepoKind pins a repository clone to an exact revision.
	RepoKind
)

// Entry is a lock entry, modelled as a tagged union (mirroring depspec.Spec):
// one struct with an internal kind tag plus accessors, not two interface
// implementations.
type Entry struct {
	kind Kind

	name            string
	resolvedVersion string

	// Archive fields.
	url             string
	archiveChecksum string
	treeIntegrity   string

	// Repository fields.
	repoURL  string
	revision string
}

// NewArchiveEntry constructs an ArchiveKind entry.
func NewArchiveEntry(name, resolvedVersion, url, archiveChecksum, treeIntegrity string) Entry {
	return Entry{
		kind:            ArchiveKind,
		name:            name,
		resolvedVersion: resolvedVersion,
		url:             url,
		archiveChecksum: archiveChecksum,
		treeIntegrity:   treeIntegrity,
	}
}

// NewRepoEntry constructs a RepoKind entry.
func NewRepoEntry(name, resolvedVersion, repoURL, revision string) Entry {
	return Entry{
		kind:            RepoKind,
		name:            name,
		resolvedVersion: resolvedVersion,
		repoURL:         repoURL,
		revision:        revision,
	}
}

// Kind returns the variant tag.
func (e Entry) Kind() Kind { return e.kind }

// Name is the dependency name this entry binds.
func (e Entry) Name() string { return e.name }

// ResolvedVersion is the concrete version pinned by this entry.
func (e Entry) ResolvedVersion() string { return e.resolvedVersion }

// URL returns the archive download URL, for ArchiveKind entries.
func (e Entry) URL() (string, bool) {
	if e.kind != ArchiveKind {
		return "", false
	}
	return e.url, true
}

// ArchiveChecksum returns the SHA-256 of the downloaded archive bytes.
func (e Entry) ArchiveChecksum() (string, bool) {
	if e.kind != ArchiveKind {
		return "", false
	}
	return e.archiveChecksum, true
}

// TreeIntegrity returns the stable tree hash of the installed directory.
func (e Entry) TreeIntegrity() (string, bool) {
	if e.kind != ArchiveKind {
		return "", false
	}
	return e.treeIntegrity, true
}

// RepoURL returns the repository remote, for RepoKind entries.
func (e Entry) RepoURL() (string, bool) {
	if e.kind != RepoKind {
		return "", false
	}
	return e.repoURL, true
}

// Revision returns the pinned 40-hex commit id, for RepoKind entries.
func (e Entry) Revision() (string, bool) {
	if e.kind != RepoKind {
		return "", false
	}
	return e.revision, true
}

// Entries is an ordered set of lock entries.
type Entries []Entry

// Find returns the entry with the given name, if present.
func (es Entries) Find(name string) (Entry, bool) {
	for _, e := range es {
		if e.name == name {
			return e, true
		}
	}
	return Entry{}, false
}

// sorted returns a copy of es sorted by name ascending.
func (es Entries) sorted() Entries {
	out := make(Entries, len(es))
	copy(out, es)
	sort.Slice(out, func(i, j int) bool { return out[i].name < out[j].name })
	return out
}

// rawEntry is the flat on-disk TOML record; exactly one of URL/Git
// discriminates the variant (§4.D).
type rawEntry struct {
	Name      string `toml:"name"`
	Version   string `toml:"version"`
	URL       string `toml:"url,omitempty"`
	Checksum  string `toml:"checksum,omitempty"`
	Integrity string `toml:"integrity,omitempty"`
	Git       string `toml:"git,omitempty"`
	Rev       string `toml:"rev,omitempty"`
}

type rawDocument struct {
	Dependencies []rawEntry `toml:"dependencies"`
}

func toRaw(e Entry) rawEntry {
	switch e.kind {
	case ArchiveKind:
		return rawEntry{
			Name:      e.name,
			Version:   e.resolvedVersion,
			URL:       e.url,
			Checksum:  e.archiveChecksum,
			Integrity: e.treeIntegrity,
		}
	case RepoKind:
		return rawEntry{
			Name:    e.name,
			Version: e.resolvedVersion,
			Git:     e.repoURL,
			Rev:     e.revision,
		}
	default:
		return rawEntry{}
	}
}

func fromRaw(r rawEntry) (Entry, error) {
	switch {
	case r.URL != "":
		if r.Checksum == "" || r.Integrity == "" {
			return Entry{}, errors.New(errors.CodeValidation,
				"archive lock entry missing checksum or integrity").WithDetail("name", r.Name)
		}
		return NewArchiveEntry(r.Name, r.Version, r.URL, r.Checksum, r.Integrity), nil
	case r.Git != "":
		if r.Rev == "" {
			return Entry{}, errors.New(errors.CodeValidation,
				"repository lock entry missing rev").WithDetail("name", r.Name)
		}
		return NewRepoEntry(r.Name, r.Version, r.Git, r.Rev), nil
	default:
		return Entry{}, errors.New(errors.CodeValidation,
			"lock entry has neither url nor git, cannot discriminate variant").WithDetail("name", r.Name)
	}
}

// Serialise renders entries (sorted by name ascending) as the TOML lockfile
// document. Pure function of the sorted set: deterministic output.
func Serialise(entries Entries) (string, error) {
	sorted := entries.sorted()
	doc := rawDocument{Dependencies: make([]rawEntry, 0, len(sorted))}
	for _, e := range sorted {
		doc.Dependencies = append(doc.Dependencies, toRaw(e))
	}

	var buf bytes.Buffer
	enc := toml.NewEncoder(&buf)
	if err := enc.Encode(doc); err != nil {
		return "", errors.Wrap(err, errors.CodeFileIO, "encode lockfile")
	}
	return buf.String(), nil
}

// Parse decodes raw TOML text into Entries. Entries with missing
// discriminator fields for their detected variant are dropped with a
// warning rather than failing the whole parse (spec §4.D, §9 Open
// Question: resolved as non-fatal, matching the lenient-forward-progress
// behaviour of the original).
func Parse(text string) (Entries, error) {
	var doc rawDocument
	if _, err := toml.Decode(text, &doc); err != nil {
		return nil, errors.Wrap(err, errors.CodeConfigParse, "parse lockfile TOML")
	}

	entries := make(Entries, 0, len(doc.Dependencies))
	for _, r := range doc.Dependencies {
		e, err := fromRaw(r)
		if err != nil {
			logger.WithField("name", r.Name).WithError(err).Warn("dropping lock entry with missing discriminator fields")
			continue
		}
		entries = append(entries, e)
	}
	return entries, nil
}

// Read loads entries from path. A missing file yields an empty result, not
// an error. A parse failure of the whole document yields empty entries and
// is logged, not fatal (spec §4.D/§7/§9).
func Read(fsys fs.FileSystem, path string) (Entries, string, error) {
	exists, err := fsys.Exists(path)
	if err != nil {
		return nil, "", errors.Wrap(err, errors.CodeFileIO, "stat lockfile").WithDetail("path", path)
	}
	if !exists {
		return Entries{}, "", nil
	}

	data, err := fsys.ReadFile(path)
	if err != nil {
		return nil, "", errors.Wrap(err, errors.CodeFileIO, "read lockfile").WithDetail("path", path)
	}

	entries, err := Parse(string(data))
	if err != nil {
		logger.WithField("path", path).WithError(err).Warn("lockfile parse failed, treating as empty")
		return Entries{}, string(data), nil
	}
	return entries, string(data), nil
}

// Upsert returns a copy of entries with e replacing any existing entry of
// the same name, or appended if absent.
func Upsert(entries Entries, e Entry) Entries {
	out := make(Entries, 0, len(entries)+1)
	replaced := false
	for _, existing := range entries {
		if existing.name == e.name {
			out = append(out, e)
			replaced = true
			continue
		}
		out = append(out, existing)
	}
	if !replaced {
		out = append(out, e)
	}
	return out
}

// Remove returns a copy of entries with the entry named name dropped.
func Remove(entries Entries, name string) Entries {
	out := make(Entries, 0, len(entries))
	for _, e := range entries {
		if e.name != name {
			out = append(out, e)
		}
	}
	return out
}

// Write serialises entries to path, deleting the file entirely if entries
// is empty (spec §4.D "remove" / §8 boundary behaviour: last entry removed
// deletes the file). Writes via a temp file + rename, mirroring the
// teacher's atomic lock-file save.
func Write(fsys fs.FileSystem, path string, entries Entries) error {
	if len(entries) == 0 {
		exists, err := fsys.Exists(path)
		if err != nil {
			return errors.Wrap(err, errors.CodeFileIO, "stat lockfile before delete").WithDetail("path", path)
		}
		if exists {
			if err := fsys.Remove(path); err != nil {
				return errors.Wrap(err, errors.CodeFileIO, "delete empty lockfile").WithDetail("path", path)
			}
		}
		return nil
	}

	text, err := Serialise(entries)
	if err != nil {
		return err
	}

	tmp := path + ".tmp"
	if err := fsys.WriteFile(tmp, []byte(text), 0o644); err != nil {
		return errors.Wrap(err, errors.CodeFileIO, "write temp lockfile").WithDetail("path", tmp)
	}
	if err := fsys.Rename(tmp, path); err != nil {
		_ = fsys.Remove(tmp)
		return errors.Wrap(err, errors.CodeFileIO, "rename lockfile into place").WithDetail("path", path)
	}
	return nil
}
