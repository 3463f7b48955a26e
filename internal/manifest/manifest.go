/*
 * This file is part of ccmd.
 *
 * Copyright (c) 2025 Guilherme Silva Sousa
 *
 * Licensed under the MIT License
 * See LICENSE file in the project root for full license information.
 */

// Package manifest reads and writes the project's dependency manifest:
// either a dedicated soldeer.toml or a foundry.toml that embeds a
// [dependencies] table, mirroring the dual-manifest support of the
// original tool this package generalizes.
package manifest

import (
	"bytes"
	"os"
	"path/filepath"
	"sort"

	"github.com/BurntSushi/toml"

	"github.com/soldeer-go/soldeer/internal/depspec"
	"github.com/soldeer-go/soldeer/internal/fs"
	"github.com/soldeer-go/soldeer/pkg/errors"
	"github.com/soldeer-go/soldeer/pkg/logger"
)

// FoundryFilename and SoldeerFilename are the two manifest locations a
// project may use.
const (
	FoundryFilename = "foundry.toml"
	SoldeerFilename = "soldeer.toml"
)

// DependenciesTable and SoldeerTable are the top-level TOML keys the
// manifest reads and writes.
const (
	DependenciesTable = "dependencies"
	SoldeerTable      = "soldeer"
)

// Settings are the project-level knobs under the [soldeer] table,
// consumed by the install and remapping engines.
type Settings struct {
	RemappingsGenerate   bool   `toml:"remappings_generate"`
	RemappingsRegenerate bool   `toml:"remappings_regenerate"`
	RemappingsVersion    bool   `toml:"remappings_version"`
	RemappingsPrefix     string `toml:"remappings_prefix"`
	RemappingsLocation   string `toml:"remappings_location"`
	RecursiveDeps        bool   `toml:"recursive_deps"`
}

// RemappingsLocation values.
const (
	LocationSideFile = "side-file"
	LocationManifest = "manifest"
)

// DefaultSettings mirrors the original tool's defaults.
func DefaultSettings() Settings {
	return Settings{
		RemappingsGenerate: true,
		RemappingsVersion:  true,
		RemappingsLocation: LocationSideFile,
	}
}

// DetectConfigPath finds the manifest to use inside root: foundry.toml if
// it already declares a [dependencies] table, else soldeer.toml if it
// exists, else foundry.toml by default (created by the caller if absent).
func DetectConfigPath(fsys fs.FileSystem, root string) (string, error) {
	foundryPath := filepath.Join(root, FoundryFilename)
	soldeerPath := filepath.Join(root, SoldeerFilename)

	if data, err := fsys.ReadFile(foundryPath); err == nil {
		var doc struct {
			Dependencies map[string]interface{} `toml:"dependencies"`
		}
		if _, decodeErr := toml.Decode(string(data), &doc); decodeErr == nil && doc.Dependencies != nil {
			return foundryPath, nil
		}
	} else if !os.IsNotExist(err) {
		return "", errors.Wrap(err, errors.CodeConfigInvalid, "read foundry manifest").WithDetail("path", foundryPath)
	}

	if exists, err := fsys.Exists(soldeerPath); err == nil && exists {
		return soldeerPath, nil
	}

	return foundryPath, nil
}

// ReadDependencies parses the [dependencies] table at path into a
// declared set. A missing manifest yields an empty set, not an error.
// Unsupported sub-fields on an entry produce a warning (logged, returned)
// rather than failing the whole read.
func ReadDependencies(fsys fs.FileSystem, path string) ([]depspec.Spec, []string, error) {
	data, err := fsys.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil, nil
		}
		return nil, nil, errors.Wrap(err, errors.CodeConfigInvalid, "read manifest").WithDetail("path", path)
	}

	var doc struct {
		Dependencies map[string]interface{} `toml:"dependencies"`
	}
	if _, err := toml.Decode(string(data), &doc); err != nil {
		return nil, nil, errors.Wrap(err, errors.CodeConfigParse, "parse manifest").WithDetail("path", path)
	}

	names := make([]string, 0, len(doc.Dependencies))
	for name := range doc.Dependencies {
		names = append(names, name)
	}
	sort.Strings(names)

	specs := make([]depspec.Spec, 0, len(names))
	var warnings []string
	for _, name := range names {
		spec, warns, err := buildSpec(name, doc.Dependencies[name])
		if err != nil {
			return nil, warnings, errors.Wrapf(err, errors.CodeConfigInvalid, "dependency %q", name)
		}
		specs = append(specs, spec)
		warnings = append(warnings, warns...)
	}
	for _, w := range warnings {
		logger.WithField("component", "manifest").Warn(w)
	}
	return specs, warnings, nil
}

// ReadSettings parses the [soldeer] table at path, applying defaults for
// any field a partial table omits. A missing manifest yields defaults.
func ReadSettings(fsys fs.FileSystem, path string) (Settings, error) {
	data, err := fsys.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultSettings(), nil
		}
		return Settings{}, errors.Wrap(err, errors.CodeConfigInvalid, "read manifest").WithDetail("path", path)
	}

	doc := struct {
		Soldeer Settings `toml:"soldeer"`
	}{Soldeer: DefaultSettings()}
	if _, err := toml.Decode(string(data), &doc); err != nil {
		return Settings{}, errors.Wrap(err, errors.CodeConfigParse, "parse manifest").WithDetail("path", path)
	}
	return doc.Soldeer, nil
}

var allowedDependencyFields = map[string]bool{
	"version": true, "url": true, "git": true, "rev": true, "branch": true, "tag": true,
}

func buildSpec(name string, raw interface{}) (depspec.Spec, []string, error) {
	switch v := raw.(type) {
	case string:
		if v == "" {
			return depspec.Spec{}, nil, errors.New(errors.CodeConfigInvalid, "empty version requirement").WithDetail("name", name)
		}
		spec, err := depspec.Parse(name+"~"+v, depspec.NoURL, "", nil, nil, nil)
		return spec, nil, err
	case map[string]interface{}:
		var warnings []string
		for k := range v {
			if !allowedDependencyFields[k] {
				warnings = append(warnings, name+": unknown dependency field "+k)
			}
		}

		version, _ := v["version"].(string)
		if version == "" {
			return depspec.Spec{}, warnings, errors.New(errors.CodeConfigInvalid, "missing or empty version").WithDetail("name", name)
		}

		if gitURL, ok := v["git"].(string); ok && gitURL != "" {
			var revision, branch, tag *string
			if s, ok := v["rev"].(string); ok && s != "" {
				revision = &s
			}
			if s, ok := v["branch"].(string); ok && s != "" {
				branch = &s
			}
			if s, ok := v["tag"].(string); ok && s != "" {
				tag = &s
			}
			spec, err := depspec.Parse(name+"~"+version, depspec.RepoURLKind, gitURL, revision, branch, tag)
			return spec, warnings, err
		}

		if url, ok := v["url"].(string); ok && url != "" {
			spec, err := depspec.Parse(name+"~"+version, depspec.ArchiveURLKind, url, nil, nil, nil)
			return spec, warnings, err
		}

		spec, err := depspec.Parse(name+"~"+version, depspec.NoURL, "", nil, nil, nil)
		return spec, warnings, err
	default:
		return depspec.Spec{}, nil, errors.New(errors.CodeConfigInvalid, "dependency entry must be a string or table").WithDetail("name", name)
	}
}

func specToValue(spec depspec.Spec) interface{} {
	if repoURL, ok := spec.RepoURL(); ok {
		m := map[string]interface{}{"version": spec.Requirement(), "git": repoURL}
		if id, ok := spec.IdentifierValue(); ok {
			switch id.Kind {
			case depspec.RevisionID:
				m["rev"] = id.Value
			case depspec.BranchID:
				m["branch"] = id.Value
			case depspec.TagID:
				m["tag"] = id.Value
			}
		}
		return m
	}
	if url, ok := spec.URL(); ok {
		return map[string]interface{}{"version": spec.Requirement(), "url": url}
	}
	return spec.Requirement()
}

// AddDependency inserts or replaces spec's entry in path's [dependencies]
// table, rewriting the manifest in place. The document is decoded into a
// generic map and re-encoded, the only tree-editing style BurntSushi/toml
// offers; unrelated sections round-trip but comments and original key
// order are not preserved.
func AddDependency(fsys fs.FileSystem, path string, spec depspec.Spec) error {
	raw, err := readRawDocument(fsys, path)
	if err != nil {
		return err
	}

	deps, _ := raw[DependenciesTable].(map[string]interface{})
	if deps == nil {
		deps = map[string]interface{}{}
	}
	deps[spec.Name()] = specToValue(spec)
	raw[DependenciesTable] = deps

	return writeRawDocument(fsys, path, raw)
}

// RemoveDependency deletes name's entry from path's [dependencies] table.
// Removing an absent name is a no-op.
func RemoveDependency(fsys fs.FileSystem, path string, name string) error {
	raw, err := readRawDocument(fsys, path)
	if err != nil {
		return err
	}

	deps, _ := raw[DependenciesTable].(map[string]interface{})
	if deps == nil {
		return nil
	}
	delete(deps, name)
	raw[DependenciesTable] = deps

	return writeRawDocument(fsys, path, raw)
}

func readRawDocument(fsys fs.FileSystem, path string) (map[string]interface{}, error) {
	data, err := fsys.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return map[string]interface{}{DependenciesTable: map[string]interface{}{}}, nil
		}
		return nil, errors.Wrap(err, errors.CodeConfigInvalid, "read manifest").WithDetail("path", path)
	}

	raw := map[string]interface{}{}
	if _, err := toml.Decode(string(data), &raw); err != nil {
		return nil, errors.Wrap(err, errors.CodeConfigParse, "parse manifest").WithDetail("path", path)
	}
	return raw, nil
}

func writeRawDocument(fsys fs.FileSystem, path string, raw map[string]interface{}) error {
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(raw); err != nil {
		return errors.Wrap(err, errors.CodeConfigInvalid, "encode manifest").WithDetail("path", path)
	}
	if err := fsys.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return errors.Wrap(err, errors.CodeConfigInvalid, "write manifest").WithDetail("path", path)
	}
	return nil
}
