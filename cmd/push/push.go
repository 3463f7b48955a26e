/*
 * This file is part of ccmd.
 *
 * Copyright (c) 2025 Guilherme Silva Sousa
 *
 * Licensed under the MIT License
 * See LICENSE file in the project root for full license information.
 */

package push

import (
	"context"
	"os"

	"github.com/spf13/cobra"

	"github.com/soldeer-go/soldeer/core"
	"github.com/soldeer-go/soldeer/internal/output"
	"github.com/soldeer-go/soldeer/pkg/errors"
)

// NewCommand creates a new push command.
func NewCommand() *cobra.Command {
	var (
		dryRun       bool
		skipWarnings bool
	)

	cmd := &cobra.Command{
		Use:   "push <name> <version>",
		Short: "Publish the current project to the registry",
		Long: `Push zips the current directory, honoring .gitignore and
.soldeerignore, and uploads it to the registry under name at version.
Requires a prior "soldeer login".

Examples:
  soldeer push mylib 1.0.0
  soldeer push mylib 1.0.0 --dry-run`,
		Args: cobra.ExactArgs(2),
		RunE: errors.WrapCommand("push", func(cmd *cobra.Command, args []string) error {
			root, err := os.Getwd()
			if err != nil {
				return err
			}

			path, err := core.Push(context.Background(), args[0], args[1], root, core.PushOptions{
				DryRun:       dryRun,
				SkipWarnings: skipWarnings,
			})
			if err != nil {
				return err
			}

			if dryRun {
				output.PrintSuccessf("dry run archive written to %s", path)
				return nil
			}

			output.PrintSuccessf("published %s %s", args[0], args[1])
			return nil
		}),
	}

	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Build the archive without uploading it")
	cmd.Flags().BoolVar(&skipWarnings, "skip-warnings", false, "Do not log warnings about files left out by ignore rules")

	return cmd
}
