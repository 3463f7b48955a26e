/*
 * This file is part of ccmd.
 *
 * Copyright (c) 2025 Guilherme Silva Sousa
 *
 * Licensed under the MIT License
 * See LICENSE file in the project root for full license information.
 */

// Package publish implements the push pipeline: zip a directory, honoring
// .gitignore/.soldeerignore, and upload it to the registry with a bearer
// token, per spec §6 CLI surface and the PublishError taxonomy in §7.
package publish

import (
	"bytes"
	"context"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/go-git/go-git/v5/plumbing/format/gitignore"

	"github.com/soldeer-go/soldeer/internal/acquire/archive"
	"github.com/soldeer-go/soldeer/internal/auth"
	"github.com/soldeer-go/soldeer/internal/fs"
	"github.com/soldeer-go/soldeer/internal/registryclient"
	"github.com/soldeer-go/soldeer/pkg/errors"
	"github.com/soldeer-go/soldeer/pkg/logger"
)

var nameRe = regexp.MustCompile(`^[@a-z0-9][a-z0-9-]*[a-z0-9]$`)

// ValidateName checks name against the registry's naming rules: 3-100
// characters, lowercase letters/digits/hyphens, optionally starting with
// "@" ("@" is not accepted anywhere else), no leading or trailing hyphen.
func ValidateName(name string) error {
	if len(name) < 3 || len(name) > 100 || !nameRe.MatchString(name) {
		return errors.New(errors.CodePublishInvalidName, "invalid package name").WithDetail("name", name)
	}
	return nil
}

// ValidateVersion rejects an empty version string.
func ValidateVersion(version string) error {
	if version == "" {
		return errors.New(errors.CodePublishInvalidName, "empty version").WithDetail("version", version)
	}
	return nil
}

// Options configures a Push.
type Options struct {
	DryRun       bool
	SkipWarnings bool
	RegistryBase string
	HTTPClient   *http.Client
}

// Registry is the subset of registryclient.Client the publish pipeline
// needs: resolving a package name to its registry project id.
type Registry interface {
	ProjectID(ctx context.Context, name string) (string, error)
}

// Push zips rootDir (honoring ignore rules) and uploads it as name's
// version, returning the zip path when opts.DryRun is set instead of
// uploading. On a dry run the zip is left on disk for inspection. After a
// successful upload it is deleted; on upload failure it is deleted too, since spec's "scoped
// resources" rule about keeping a failed archive applies to acquisition,
// not publishing.
func Push(ctx context.Context, registry Registry, name, version, rootDir string, opts Options) (string, error) {
	if err := ValidateName(name); err != nil {
		return "", err
	}
	if err := ValidateVersion(version); err != nil {
		return "", err
	}

	files, warnings := collectFiles(rootDir)
	if !opts.SkipWarnings {
		for _, w := range warnings {
			logger.WithField("component", "publish").Warn(w)
		}
	}
	if len(files) == 0 {
		return "", errors.New(errors.CodePublishNoFiles, "nothing to publish").WithDetail("root", rootDir)
	}

	zipPath := filepath.Join(rootDir, filepath.Base(rootDir)+".zip")
	if err := archive.CreateZip(rootDir, files, zipPath); err != nil {
		return "", err
	}

	if opts.DryRun {
		logger.WithField("path", zipPath).Info("dry run: zip created, not uploading")
		return zipPath, nil
	}
	defer os.Remove(zipPath)

	if err := upload(ctx, registry, name, version, zipPath, opts); err != nil {
		return "", err
	}
	return "", nil
}

// collectFiles walks rootDir for regular files, always skipping .git,
// and honoring .gitignore/.soldeerignore patterns found at rootDir.
// Directories are never added to the result; files matched by an ignore
// pattern are reported back as warnings rather than silently dropped.
func collectFiles(rootDir string) ([]string, []string) {
	patterns := loadIgnorePatterns(rootDir)
	matcher := gitignore.NewMatcher(patterns)

	var files []string
	var warnings []string

	_ = filepath.Walk(rootDir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return nil
		}
		if path == rootDir {
			return nil
		}
		rel, relErr := filepath.Rel(rootDir, path)
		if relErr != nil {
			return nil
		}
		parts := strings.Split(filepath.ToSlash(rel), "/")

		if info.IsDir() {
			if info.Name() == ".git" {
				return filepath.SkipDir
			}
			if matcher.Match(parts, true) {
				return filepath.SkipDir
			}
			return nil
		}

		if matcher.Match(parts, false) {
			warnings = append(warnings, "skipped ignored file: "+rel)
			return nil
		}
		files = append(files, path)
		return nil
	})
	return files, warnings
}

func loadIgnorePatterns(rootDir string) []gitignore.Pattern {
	var patterns []gitignore.Pattern
	for _, name := range []string{".gitignore", ".soldeerignore"} {
		data, err := os.ReadFile(filepath.Join(rootDir, name))
		if err != nil {
			continue
		}
		for _, line := range strings.Split(string(data), "\n") {
			line = strings.TrimSpace(line)
			if line == "" || strings.HasPrefix(line, "#") {
				continue
			}
			patterns = append(patterns, gitignore.ParsePattern(line, nil))
		}
	}
	return patterns
}

func upload(ctx context.Context, registry Registry, name, version, zipPath string, opts Options) error {
	token, err := auth.Token(fs.OS{})
	if err != nil {
		return err
	}

	projectID, err := registry.ProjectID(ctx, name)
	if err != nil {
		return err
	}

	data, err := os.ReadFile(zipPath)
	if err != nil {
		return errors.Wrap(err, errors.CodeFileIO, "read zip archive").WithDetail("path", zipPath)
	}

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	if err := writer.WriteField("project_id", projectID); err != nil {
		return errors.Wrap(err, errors.CodeFileIO, "build upload form")
	}
	if err := writer.WriteField("revision", version); err != nil {
		return errors.Wrap(err, errors.CodeFileIO, "build upload form")
	}
	part, err := writer.CreateFormFile("zip_name", filepath.Base(zipPath))
	if err != nil {
		return errors.Wrap(err, errors.CodeFileIO, "build upload form")
	}
	if _, err := io.Copy(part, bytes.NewReader(data)); err != nil {
		return errors.Wrap(err, errors.CodeFileIO, "write upload form")
	}
	if err := writer.Close(); err != nil {
		return errors.Wrap(err, errors.CodeFileIO, "finalize upload form")
	}

	base := opts.RegistryBase
	if base == "" {
		base = registryclient.DefaultBaseURL
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, strings.TrimRight(base, "/")+"/revision/upload", &body)
	if err != nil {
		return errors.Wrap(err, errors.CodeRegistryHTTP, "build upload request")
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+token)

	client := opts.HTTPClient
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return errors.Wrap(err, errors.CodeRegistryHTTP, "upload request")
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
		return nil
	case http.StatusNoContent:
		return errors.New(errors.CodePublishInvalidName, "project not found").WithDetail("name", name)
	case http.StatusAlreadyReported:
		return errors.New(errors.CodePublishAlreadyExists, "version already published").WithDetail("name", name).WithDetail("version", version)
	case http.StatusUnauthorized:
		return errors.New(errors.CodeAuthInvalidCredentials, "unauthorized")
	case http.StatusRequestEntityTooLarge:
		return errors.New(errors.CodePublishTooLarge, "archive exceeds the registry's size limit")
	default:
		return errors.Newf(errors.CodeRegistryHTTP, "upload failed with status %d", resp.StatusCode).WithDetail("status", resp.StatusCode)
	}
}
