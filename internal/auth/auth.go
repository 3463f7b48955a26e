/*
 * This file is part of ccmd.
 *
 * Copyright (c) 2025 Guilherme Silva Sousa
 *
 * Licensed under the MIT License
 * See LICENSE file in the project root for full license information.
 */

// Package auth stores and retrieves the bearer token used by the publish
// pipeline, read from and written to the credential file named by the
// LOGIN_FILE environment variable (falling back to a per-user default).
package auth

import (
	"context"
	"encoding/json"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/soldeer-go/soldeer/internal/fs"
	"github.com/soldeer-go/soldeer/pkg/errors"
)

// defaultFilename is used when LOGIN_FILE and the user config dir are both
// unavailable.
const defaultFilename = ".soldeer-login"

// Credentials is what the registry's login endpoint expects.
type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	Status string `json:"status"`
	Token  string `json:"token"`
}

// FilePath resolves the credential file location: LOGIN_FILE if set, else
// ".soldeer-login" under the user's config directory.
func FilePath() (string, error) {
	if path := os.Getenv("LOGIN_FILE"); path != "" {
		return path, nil
	}
	dir, err := os.UserConfigDir()
	if err != nil {
		return defaultFilename, nil
	}
	return filepath.Join(dir, defaultFilename), nil
}

// Token reads the stored bearer token. A missing or empty file is
// CodeAuthMissingToken, matching the original tool's "not logged in"
// behaviour.
func Token(fsys fs.FileSystem) (string, error) {
	path, err := FilePath()
	if err != nil {
		return "", err
	}
	data, err := fsys.ReadFile(path)
	if err != nil {
		return "", errors.New(errors.CodeAuthMissingToken, "not logged in").WithDetail("path", path)
	}
	token := strings.TrimSpace(string(data))
	if token == "" {
		return "", errors.New(errors.CodeAuthMissingToken, "not logged in").WithDetail("path", path)
	}
	return token, nil
}

// Login exchanges email/password for a bearer token against baseURL's
// auth/login endpoint and persists it to the credential file.
func Login(ctx context.Context, httpClient *http.Client, baseURL string, fsys fs.FileSystem, creds Credentials) error {
	path, err := FilePath()
	if err != nil {
		return err
	}

	body, err := json.Marshal(creds)
	if err != nil {
		return errors.Wrap(err, errors.CodeAuthInvalidCredentials, "encode login request")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, strings.TrimRight(baseURL, "/")+"/auth/login", strings.NewReader(string(body)))
	if err != nil {
		return errors.Wrap(err, errors.CodeAuthInvalidCredentials, "build login request")
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := httpClient.Do(req)
	if err != nil {
		return errors.Wrap(err, errors.CodeRegistryHTTP, "login request")
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized {
		return errors.New(errors.CodeAuthInvalidCredentials, "invalid email or password")
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return errors.New(errors.CodeRegistryHTTP, "login failed").WithDetail("status", resp.Status)
	}

	var parsed loginResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return errors.Wrap(err, errors.CodeRegistryHTTP, "decode login response")
	}
	if parsed.Token == "" {
		return errors.New(errors.CodeAuthInvalidCredentials, "login response carried no token")
	}

	if err := fsys.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return errors.Wrap(err, errors.CodeFileIO, "create credential directory").WithDetail("path", path)
	}
	if err := fsys.WriteFile(path, []byte(parsed.Token), 0o600); err != nil {
		return errors.Wrap(err, errors.CodeFileIO, "write credential file").WithDetail("path", path)
	}
	return nil
}
