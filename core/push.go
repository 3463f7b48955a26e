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

	"github.com/soldeer-go/soldeer/internal/publish"
	"github.com/soldeer-go/soldeer/internal/registryclient"
)

// PushOptions configures a project publish run.
type PushOptions struct {
	DryRun       bool
	SkipWarnings bool
}

// Push zips rootDir and uploads it to the registry under name~version
// (spec §4.K). On a dry run, the returned string is the path of the zip
// archive left on disk for inspection instead of uploaded.
func Push(ctx context.Context, name, version, rootDir string, opts PushOptions) (string, error) {
	return publish.Push(ctx, registryclient.New(), name, version, rootDir, publish.Options{
		DryRun:       opts.DryRun,
		SkipWarnings: opts.SkipWarnings,
	})
}
