/*
 * This file is part of ccmd.
 *
 * Copyright (c) 2025 Guilherme Silva Sousa
 *
 * Licensed under the MIT License
 * See LICENSE file in the project root for full license information.
 */

package init

import (
	"context"
	"os"

	"github.com/spf13/cobra"

	"github.com/soldeer-go/soldeer/core"
	"github.com/soldeer-go/soldeer/internal/fs"
	"github.com/soldeer-go/soldeer/internal/output"
	"github.com/soldeer-go/soldeer/pkg/errors"
)

// NewCommand creates a new init command.
func NewCommand() *cobra.Command {
	var clean bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Bootstrap the current directory as a soldeer project",
		Long: `Init ensures the dependencies directory exists, installs a
default example dependency, and records it in the manifest, lockfile
and remappings. If the project still carries a Foundry-managed lib
directory, pass --clean to remove it first.

Examples:
  soldeer init
  soldeer init --clean`,
		Args: cobra.NoArgs,
		RunE: errors.WrapCommand("init", func(cmd *cobra.Command, args []string) error {
			root, err := os.Getwd()
			if err != nil {
				return err
			}

			if err := core.Init(context.Background(), fs.OS{}, core.InitOptions{Root: root, Clean: clean}); err != nil {
				return err
			}

			output.PrintSuccessf("initialized soldeer project in %s", root)
			return nil
		}),
	}

	cmd.Flags().BoolVar(&clean, "clean", false, "Remove an existing Foundry lib directory and .gitmodules before initializing")

	return cmd
}
