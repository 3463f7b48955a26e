/*
 * This file is part of ccmd.
 *
 * Copyright (c) 2025 Guilherme Silva Sousa
 *
 * Licensed under the MIT License
 * See LICENSE file in the project root for full license information.
 */

package version

import (
	"github.com/spf13/cobra"

	"github.com/soldeer-go/soldeer/internal/output"
)

// NewCommand creates a new version command, a plain-text counterpart to
// the --version flag cobra attaches to the root command automatically.
func NewCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the soldeer version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			output.Printf("%s", cmd.Root().Version)
			return nil
		},
	}
}
