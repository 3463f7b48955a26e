/*
 * This file is part of ccmd.
 *
 * Copyright (c) 2025 Guilherme Silva Sousa
 *
 * Licensed under the MIT License
 * See LICENSE file in the project root for full license information.
 */

// Package remap implements the remapping synthesiser: it reconciles a
// user-editable import-path table against the current declared dependency
// set, preserving user customisations while propagating version changes,
// and writes the result to either a side-file or a manifest profile.
package remap

import (
	"bytes"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/soldeer-go/soldeer/internal/depspec"
	"github.com/soldeer-go/soldeer/internal/fs"
	"github.com/soldeer-go/soldeer/internal/pathutil"
	"github.com/soldeer-go/soldeer/pkg/errors"
)

// Row is one entry of the import-path rewrite table: Target is always
// project-root-relative, slash-separated, and trailing-slash terminated.
type Row struct {
	Alias  string
	Target string
}

// Config carries the settings the synthesiser and its writers need.
type Config struct {
	Prefix         string
	IncludeVersion bool
	Regenerate     bool
	DepsRootRel    string
}

// Synthesise reconciles existing against declared, producing the new
// table per spec §4.I. resolvedVersions maps a declared dependency's name
// to its resolved version string (what the lockfile pins).
//
// If cfg.Regenerate is set, existing is discarded and the table is
// rebuilt from declared alone, sorted lexicographically by alias (a pure
// function of declared, per the determinism property). Otherwise each
// declared dependency is matched against existing rows that point into
// its install directory (coarse name-component match); a match has its
// target spliced to the new install path while its alias and any path
// suffix (e.g. "/src/") are preserved. Unmatched declared dependencies
// get a freshly synthesised row. Existing rows that match no declared
// dependency are carried over unchanged — this is what lets an unrelated
// user row, or a row for a dependency the caller didn't pass in declared,
// survive.
func Synthesise(declared []depspec.Spec, resolvedVersions map[string]string, existing []Row, cfg Config) []Row {
	if cfg.Regenerate {
		out := make([]Row, 0, len(declared))
		for _, spec := range declared {
			out = append(out, canonicalRow(spec.Name(), resolvedVersions[spec.Name()], cfg))
		}
		sortRows(out)
		return out
	}

	consumed := make([]bool, len(existing))
	out := make([]Row, 0, len(declared)+len(existing))

	for _, spec := range declared {
		canon := canonicalRow(spec.Name(), resolvedVersions[spec.Name()], cfg)
		matched := false
		for i, row := range existing {
			if consumed[i] || !matchesName(row.Target, spec.Name(), cfg) {
				continue
			}
			out = append(out, Row{Alias: row.Alias, Target: spliceTarget(row.Target, canon.Target, cfg.DepsRootRel)})
			consumed[i] = true
			matched = true
			break
		}
		if !matched {
			out = append(out, canon)
		}
	}

	for i, row := range existing {
		if !consumed[i] {
			out = append(out, row)
		}
	}

	sortRows(out)
	return out
}

// Add appends the canonical row for dep if no existing row already
// points into its install directory; otherwise existing is returned
// unchanged (idempotent with repeated adds).
func Add(dep depspec.Spec, resolvedVersion string, existing []Row, cfg Config) []Row {
	prefix := targetPrefix(dep.Name(), cfg)
	for _, row := range existing {
		if strings.HasPrefix(row.Target, prefix) {
			return existing
		}
	}
	out := make([]Row, len(existing), len(existing)+1)
	copy(out, existing)
	out = append(out, canonicalRow(dep.Name(), resolvedVersion, cfg))
	sortRows(out)
	return out
}

// Remove drops every row whose target points into name's install
// directory. Rows that target some other dependency, including
// user-customised ones, are preserved untouched.
func Remove(name string, existing []Row, cfg Config) []Row {
	prefix := targetPrefix(name, cfg)
	out := make([]Row, 0, len(existing))
	for _, row := range existing {
		if strings.HasPrefix(row.Target, prefix) {
			continue
		}
		out = append(out, row)
	}
	return out
}

func canonicalRow(name, resolvedVersion string, cfg Config) Row {
	target := filepath.ToSlash(pathutil.InstallPath(name, resolvedVersion, cfg.DepsRootRel)) + "/"
	alias := cfg.Prefix + name
	if cfg.IncludeVersion && resolvedVersion != "" {
		alias += "-" + resolvedVersion
	}
	alias += "/"
	return Row{Alias: alias, Target: target}
}

// targetPrefix is the project-root-relative path prefix every row
// pointing into name's install directory begins with, regardless of
// resolved version.
func targetPrefix(name string, cfg Config) string {
	return filepath.ToSlash(cfg.DepsRootRel) + "/" + pathutil.Sanitize(name) + "-"
}

func matchesName(target, name string, cfg Config) bool {
	return strings.HasPrefix(target, targetPrefix(name, cfg))
}

// spliceTarget rewrites oldTarget's install-directory path component to
// newTarget's, preserving any suffix the user appended after it (for
// example "src/" in "dependencies/lib1-1.0.0/src/").
func spliceTarget(oldTarget, newTarget, depsRootRel string) string {
	base := filepath.ToSlash(depsRootRel) + "/"
	oldRest := strings.TrimPrefix(oldTarget, base)
	newRest := strings.TrimPrefix(newTarget, base)

	newDir := strings.SplitN(newRest, "/", 2)[0]
	oldParts := strings.SplitN(oldRest, "/", 2)
	suffix := ""
	if len(oldParts) > 1 {
		suffix = oldParts[1]
	}
	return base + newDir + "/" + suffix
}

func sortRows(rows []Row) {
	sort.Slice(rows, func(i, j int) bool { return rows[i].Alias < rows[j].Alias })
}

// WriteSideFile writes rows to path as "alias=target\n" lines, sorted by
// alias, LF-terminated.
func WriteSideFile(fsys fs.FileSystem, path string, rows []Row) error {
	sorted := make([]Row, len(rows))
	copy(sorted, rows)
	sortRows(sorted)

	var buf bytes.Buffer
	for _, row := range sorted {
		buf.WriteString(row.Alias)
		buf.WriteByte('=')
		buf.WriteString(row.Target)
		buf.WriteByte('\n')
	}
	if err := fsys.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return errors.Wrap(err, errors.CodeConfigInvalid, "write remappings side-file").WithDetail("path", path)
	}
	return nil
}

const profileTable = "profile"
const defaultProfile = "default"
const remappingsKey = "remappings"

// WriteManifestSection rewrites the "remappings" array in manifestPath's
// [profile.default] table (created if absent), plus any other profile
// that already declares a remappings key. Every other section and key is
// round-tripped untouched, modulo BurntSushi/toml's lack of a
// comment/order-preserving splice API (see DESIGN.md).
func WriteManifestSection(fsys fs.FileSystem, manifestPath string, rows []Row) error {
	sorted := make([]Row, len(rows))
	copy(sorted, rows)
	sortRows(sorted)

	array := make([]string, len(sorted))
	for i, row := range sorted {
		array[i] = row.Alias + "=" + row.Target
	}

	raw, err := readRawManifest(fsys, manifestPath)
	if err != nil {
		return err
	}

	profiles, _ := raw[profileTable].(map[string]interface{})
	if profiles == nil {
		profiles = map[string]interface{}{}
	}

	for name, section := range profiles {
		table, ok := section.(map[string]interface{})
		if !ok {
			continue
		}
		if _, has := table[remappingsKey]; has || name == defaultProfile {
			table[remappingsKey] = array
			profiles[name] = table
		}
	}
	if _, has := profiles[defaultProfile]; !has {
		profiles[defaultProfile] = map[string]interface{}{remappingsKey: array}
	}
	raw[profileTable] = profiles

	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(raw); err != nil {
		return errors.Wrap(err, errors.CodeConfigInvalid, "encode manifest").WithDetail("path", manifestPath)
	}
	if err := fsys.WriteFile(manifestPath, buf.Bytes(), 0o644); err != nil {
		return errors.Wrap(err, errors.CodeConfigInvalid, "write manifest").WithDetail("path", manifestPath)
	}
	return nil
}

// ReadSideFile parses alias=target lines out of path, in the format
// WriteSideFile produces. A missing file yields no rows, not an error.
func ReadSideFile(fsys fs.FileSystem, path string) ([]Row, error) {
	exists, err := fsys.Exists(path)
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeFileIO, "stat remappings file").WithDetail("path", path)
	}
	if !exists {
		return nil, nil
	}
	data, err := fsys.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeFileIO, "read remappings file").WithDetail("path", path)
	}

	var rows []Row
	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		idx := strings.Index(line, "=")
		if idx < 0 {
			continue
		}
		rows = append(rows, Row{Alias: line[:idx], Target: line[idx+1:]})
	}
	return rows, nil
}

// ReadManifestSection parses manifestPath's [profile.default].remappings
// array back into rows. A missing manifest, profile, or key yields no rows.
func ReadManifestSection(fsys fs.FileSystem, manifestPath string) ([]Row, error) {
	raw, err := readRawManifest(fsys, manifestPath)
	if err != nil {
		return nil, err
	}

	profiles, _ := raw[profileTable].(map[string]interface{})
	table, _ := profiles[defaultProfile].(map[string]interface{})
	arr, _ := table[remappingsKey].([]interface{})

	var rows []Row
	for _, v := range arr {
		line, ok := v.(string)
		if !ok {
			continue
		}
		idx := strings.Index(line, "=")
		if idx < 0 {
			continue
		}
		rows = append(rows, Row{Alias: line[:idx], Target: line[idx+1:]})
	}
	return rows, nil
}

func readRawManifest(fsys fs.FileSystem, path string) (map[string]interface{}, error) {
	data, err := fsys.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return map[string]interface{}{}, nil
		}
		return nil, errors.Wrap(err, errors.CodeConfigInvalid, "read manifest").WithDetail("path", path)
	}
	raw := map[string]interface{}{}
	if _, err := toml.Decode(string(data), &raw); err != nil {
		return nil, errors.Wrap(err, errors.CodeConfigParse, "parse manifest").WithDetail("path", path)
	}
	return raw, nil
}
