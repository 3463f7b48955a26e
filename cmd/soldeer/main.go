/*
 * This file is part of ccmd.
 *
 * Copyright (c) 2025 Guilherme Silva Sousa
 *
 * Licensed under the MIT License
 * See LICENSE file in the project root for full license information.
 */

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/soldeer-go/soldeer/cmd/help"
	"github.com/soldeer-go/soldeer/cmd/init"
	"github.com/soldeer-go/soldeer/cmd/install"
	"github.com/soldeer-go/soldeer/cmd/login"
	"github.com/soldeer-go/soldeer/cmd/push"
	"github.com/soldeer-go/soldeer/cmd/uninstall"
	"github.com/soldeer-go/soldeer/cmd/update"
	versioncmd "github.com/soldeer-go/soldeer/cmd/version"
	"github.com/soldeer-go/soldeer/internal/output"
)

// Build information, injected at build time.
var (
	version   = "dev"
	commit    = "unknown"
	buildDate = "unknown"
)

var rootCmd = &cobra.Command{
	Use:   "soldeer",
	Short: "A package manager for smart-contract-language projects",
	Long: `soldeer is a command-line package manager for Solidity and other
smart-contract-language projects.

It resolves dependencies declared in a project manifest (soldeer.toml, or
a [dependencies] table embedded in foundry.toml) against a registry or
git repositories, installs them into a dependencies directory, records
exact resolutions in a lockfile, and synthesises Solidity import
remappings so the compiler can find them.

Getting Started:
  1. Run 'soldeer init' to bootstrap a new project
  2. Run 'soldeer install <name>' to declare and install a dependency
  3. Run 'soldeer install' any time to reacquire the declared set

For detailed help on any command, use 'soldeer help [command]' or
'soldeer [command] --help'.`,
	Version: fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, buildDate),
	Run: func(cmd *cobra.Command, args []string) {
		if err := cmd.Help(); err != nil {
			_ = err
		}
	},
}

func main() {
	rootCmd.AddCommand(help.NewCommand())
	rootCmd.AddCommand(init.NewCommand())
	rootCmd.AddCommand(install.NewCommand())
	rootCmd.AddCommand(login.NewCommand())
	rootCmd.AddCommand(push.NewCommand())
	rootCmd.AddCommand(uninstall.NewCommand())
	rootCmd.AddCommand(update.NewCommand())
	rootCmd.AddCommand(versioncmd.NewCommand())

	rootCmd.SetHelpCommand(&cobra.Command{
		Use:    "no-help",
		Hidden: true,
	})
	rootCmd.InitDefaultHelpCmd()

	if err := rootCmd.Execute(); err != nil {
		output.Fatalf("Command failed: %v", err)
	}
}
