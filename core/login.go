/*
 * This file is part of ccmd.
 *
 * Copyright (c) 2025 Guilherme Silva Sousa
 *
 * Licensed under the MIT License
 * See LICENSE file in the project root for full license information.
 */

package core

import (
	"context"
	"net/http"

	"github.com/soldeer-go/soldeer/internal/auth"
	"github.com/soldeer-go/soldeer/internal/fs"
	"github.com/soldeer-go/soldeer/internal/registryclient"
)

// Login exchanges email/password for a bearer token and persists it to the
// credential file, so a later Push can authenticate without re-prompting.
func Login(ctx context.Context, fsys fs.FileSystem, baseURL, email, password string) error {
	if baseURL == "" {
		baseURL = registryclient.DefaultBaseURL
	}
	return auth.Login(ctx, http.DefaultClient, baseURL, fsys, auth.Credentials{Email: email, Password: password})
}
