/*
 * This file is part of ccmd.
 *
 * Copyright (c) 2025 Guilherme Silva Sousa
 *
 * Licensed under the MIT License
 * See LICENSE file in the project root for full license information.
 */

// Package archive implements the archive acquisition backend: stream a zip
// download to disk and extract it, stripping a single common top-level
// folder the way GitHub-style release archives are packaged.
package archive

import (
	"archive/zip"
	"context"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/soldeer-go/soldeer/pkg/errors"
)

// Fetch GETs url and streams the response body to
// <destDir>/<baseName>.zip, returning that path. On a non-2xx response or a
// stream error, the partial file is removed.
func Fetch(ctx context.Context, url, destDir, baseName string) (string, error) {
	if err := os.MkdirAll(destDir, 0o755); err != nil {
		return "", errors.Wrap(err, errors.CodeAcquisitionIO, "create destination directory").WithDetail("dir", destDir)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", errors.Wrap(err, errors.CodeAcquisitionNetwork, "build download request").WithDetail("url", url)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return "", errors.Wrap(err, errors.CodeAcquisitionNetwork, "download archive").WithDetail("url", url)
	}
	defer resp.Body.Close()

	archivePath := filepath.Join(destDir, baseName+".zip")

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", errors.Newf(errors.CodeAcquisitionNetwork, "download returned status %d", resp.StatusCode).
			WithDetail("url", url).WithDetail("status", resp.StatusCode)
	}

	out, err := os.Create(archivePath)
	if err != nil {
		return "", errors.Wrap(err, errors.CodeAcquisitionIO, "create archive file").WithDetail("path", archivePath)
	}

	if _, err := io.Copy(out, resp.Body); err != nil {
		out.Close()
		_ = os.Remove(archivePath)
		return "", errors.Wrap(err, errors.CodeAcquisitionNetwork, "stream archive download").WithDetail("url", url)
	}
	if err := out.Close(); err != nil {
		_ = os.Remove(archivePath)
		return "", errors.Wrap(err, errors.CodeAcquisitionIO, "close archive file").WithDetail("path", archivePath)
	}

	return archivePath, nil
}

// Extract decompresses archivePath into destDir, stripping a single common
// top-level folder if every entry shares one (mirrors GitHub-style release
// zips). The archive is deleted after successful extraction; on failure it
// is left in place for debugging (spec §5 "scoped resources").
func Extract(archivePath, destDir string) error {
	r, err := zip.OpenReader(archivePath)
	if err != nil {
		return errors.Wrap(err, errors.CodeAcquisitionArchive, "open archive").WithDetail("path", archivePath)
	}
	defer r.Close()

	prefix := commonTopLevelFolder(r.File)

	if err := os.MkdirAll(destDir, 0o755); err != nil {
		return errors.Wrap(err, errors.CodeAcquisitionIO, "create extraction directory").WithDetail("dir", destDir)
	}

	for _, f := range r.File {
		if err := extractEntry(f, destDir, prefix); err != nil {
			return err
		}
	}

	if err := os.Remove(archivePath); err != nil {
		return errors.Wrap(err, errors.CodeAcquisitionIO, "delete archive after extraction").WithDetail("path", archivePath)
	}
	return nil
}

// commonTopLevelFolder returns the shared first path segment if every entry
// in files is rooted under it, else "".
func commonTopLevelFolder(files []*zip.File) string {
	var prefix string
	for i, f := range files {
		name := strings.TrimPrefix(f.Name, "/")
		idx := strings.Index(name, "/")
		if idx < 0 {
			return ""
		}
		top := name[:idx+1]
		if i == 0 {
			prefix = top
		} else if top != prefix {
			return ""
		}
	}
	return prefix
}

// CreateZip writes files (paths under rootDir) into a new deflated zip at
// destZipPath, with entry names relative to rootDir and forward-slashed.
// Parent directories are added explicitly so tools that rely on explicit
// directory entries handle the archive correctly. Non-regular files are
// skipped. An empty files list is a CodeAcquisitionArchive error (the
// publish pipeline treats an empty package as invalid).
func CreateZip(rootDir string, files []string, destZipPath string) error {
	if len(files) == 0 {
		return errors.New(errors.CodeAcquisitionArchive, "no files to archive").WithDetail("root", rootDir)
	}

	out, err := os.Create(destZipPath)
	if err != nil {
		return errors.Wrap(err, errors.CodeAcquisitionIO, "create zip file").WithDetail("path", destZipPath)
	}
	defer out.Close()

	w := zip.NewWriter(out)
	addedDirs := map[string]bool{}

	for _, path := range files {
		info, err := os.Stat(path)
		if err != nil {
			return errors.Wrap(err, errors.CodeAcquisitionIO, "stat file to archive").WithDetail("path", path)
		}
		if !info.Mode().IsRegular() {
			continue
		}

		rel, err := filepath.Rel(rootDir, path)
		if err != nil {
			return errors.Wrap(err, errors.CodeAcquisitionIO, "relativize file path").WithDetail("path", path)
		}
		rel = filepath.ToSlash(rel)

		if dir := path2Dir(rel); dir != "" && !addedDirs[dir] {
			if _, err := w.Create(dir + "/"); err != nil {
				return errors.Wrap(err, errors.CodeAcquisitionArchive, "add directory entry").WithDetail("dir", dir)
			}
			addedDirs[dir] = true
		}

		entry, err := w.Create(rel)
		if err != nil {
			return errors.Wrap(err, errors.CodeAcquisitionArchive, "add zip entry").WithDetail("path", rel)
		}

		data, err := os.Open(path)
		if err != nil {
			return errors.Wrap(err, errors.CodeAcquisitionIO, "open file to archive").WithDetail("path", path)
		}
		_, copyErr := io.Copy(entry, data)
		data.Close()
		if copyErr != nil {
			return errors.Wrap(copyErr, errors.CodeAcquisitionArchive, "write zip entry").WithDetail("path", rel)
		}
	}

	if err := w.Close(); err != nil {
		return errors.Wrap(err, errors.CodeAcquisitionArchive, "finalize zip archive").WithDetail("path", destZipPath)
	}
	return nil
}

func path2Dir(relSlashPath string) string {
	idx := strings.LastIndex(relSlashPath, "/")
	if idx < 0 {
		return ""
	}
	return relSlashPath[:idx]
}

func extractEntry(f *zip.File, destDir, stripPrefix string) error {
	name := strings.TrimPrefix(f.Name, "/")
	name = strings.TrimPrefix(name, stripPrefix)
	if name == "" {
		return nil
	}

	target := filepath.Join(destDir, name)
	if !strings.HasPrefix(target, filepath.Clean(destDir)+string(os.PathSeparator)) && target != filepath.Clean(destDir) {
		return errors.Newf(errors.CodeAcquisitionArchive, "zip entry escapes destination: %s", f.Name).
			WithDetail("entry", f.Name)
	}

	if f.FileInfo().IsDir() {
		return os.MkdirAll(target, 0o755)
	}

	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return errors.Wrap(err, errors.CodeAcquisitionIO, "create parent directory").WithDetail("path", target)
	}

	src, err := f.Open()
	if err != nil {
		return errors.Wrap(err, errors.CodeAcquisitionArchive, "open zip entry").WithDetail("entry", f.Name)
	}
	defer src.Close()

	dst, err := os.OpenFile(target, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, f.Mode())
	if err != nil {
		return errors.Wrap(err, errors.CodeAcquisitionIO, "create extracted file").WithDetail("path", target)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		return errors.Wrap(err, errors.CodeAcquisitionArchive, "write extracted file").WithDetail("path", target)
	}
	return nil
}
