/*
 * This file is part of ccmd.
 *
 * Copyright (c) 2025 Guilherme Silva Sousa
 *
 * Licensed under the MIT License
 * See LICENSE file in the project root for full license information.
 */

package uninstall

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/soldeer-go/soldeer/core"
	"github.com/soldeer-go/soldeer/internal/fs"
	"github.com/soldeer-go/soldeer/internal/output"
	"github.com/soldeer-go/soldeer/pkg/errors"
)

// NewCommand creates a new uninstall command.
func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "uninstall <name>",
		Short: "Remove a dependency from the project",
		Long: `Uninstall drops name from the manifest's dependency table, its
lock entry, its install directory, and its remapping row.

Examples:
  soldeer uninstall forge-std`,
		Args: cobra.ExactArgs(1),
		RunE: errors.WrapCommand("uninstall", func(cmd *cobra.Command, args []string) error {
			root, err := os.Getwd()
			if err != nil {
				return err
			}

			if err := core.Uninstall(fs.OS{}, root, args[0]); err != nil {
				return err
			}

			output.PrintSuccessf("removed %s", args[0])
			return nil
		}),
	}

	return cmd
}
