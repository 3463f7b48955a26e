/*
 * This file is part of ccmd.
 *
 * Copyright (c) 2025 Guilherme Silva Sousa
 *
 * Licensed under the MIT License
 * See LICENSE file in the project root for full license information.
 */

package login

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/soldeer-go/soldeer/core"
	"github.com/soldeer-go/soldeer/internal/fs"
	"github.com/soldeer-go/soldeer/internal/output"
	"github.com/soldeer-go/soldeer/pkg/errors"
)

// NewCommand creates a new login command.
func NewCommand() *cobra.Command {
	var (
		email    string
		password string
		baseURL  string
	)

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Authenticate against the package registry",
		Long: `Login exchanges an email and password for a bearer token and
stores it in the credential file, so that push can authenticate without
prompting again.

Examples:
  soldeer login
  soldeer login --email me@example.com`,
		Args: cobra.NoArgs,
		RunE: errors.WrapCommand("login", func(cmd *cobra.Command, args []string) error {
			if email == "" {
				email = output.Prompt("email")
			}
			if password == "" {
				password = output.Prompt("password")
			}

			if err := core.Login(context.Background(), fs.OS{}, baseURL, email, password); err != nil {
				return err
			}

			output.PrintSuccessf("logged in as %s", email)
			return nil
		}),
	}

	cmd.Flags().StringVar(&email, "email", "", "Registry account email")
	cmd.Flags().StringVar(&password, "password", "", "Registry account password")
	cmd.Flags().StringVar(&baseURL, "base-url", "", "Registry base URL (defaults to the public registry)")

	return cmd
}
