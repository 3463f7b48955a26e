/*
 * This file is part of ccmd.
 *
 * Copyright (c) 2025 Guilherme Silva Sousa
 *
 * Licensed under the MIT License
 * See LICENSE file in the project root for full license information.
 */

package help

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/soldeer-go/soldeer/internal/output"
	"github.com/soldeer-go/soldeer/pkg/errors"
)

// NewCommand creates a new help command.
func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "help [command]",
		Short: "Show help for soldeer or a specific command",
		Long: `Show comprehensive help information for soldeer or a specific command.

When called without arguments, displays an overview of all available commands.
When called with a command name, displays detailed help for that specific command.

Examples:
  # Show general help
  soldeer help

  # Show help for the install command
  soldeer help install`,
		Args: cobra.MaximumNArgs(1),
		RunE: errors.WrapCommand("help", func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				return showGeneralHelp(cmd)
			}
			return showCommandHelp(cmd, args[0])
		}),
	}

	return cmd
}

// showGeneralHelp displays general help information about soldeer.
func showGeneralHelp(cmd *cobra.Command) error {
	rootCmd := cmd.Root()

	output.Printf("%s", rootCmd.Long)
	output.Printf("")
	output.PrintInfof("Usage:")
	output.Printf("  %s [command] [flags]", rootCmd.Use)
	output.Printf("  %s [command] --help", rootCmd.Use)
	output.Printf("")

	output.PrintInfof("Available Commands:")
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	for _, subCmd := range rootCmd.Commands() {
		if !subCmd.Hidden {
			fmt.Fprintf(w, "  %s\t%s\n", subCmd.Name(), subCmd.Short)
		}
	}
	w.Flush()
	output.Printf("")

	output.PrintInfof("Common Use Cases:")
	output.Printf("")
	output.Printf("  Initialize a new project:")
	output.Printf("    $ soldeer init")
	output.Printf("")
	output.Printf("  Install the project's dependencies:")
	output.Printf("    $ soldeer install")
	output.Printf("    $ soldeer install forge-std~1.9.1")
	output.Printf("")
	output.Printf("  Refresh dependencies against the registry:")
	output.Printf("    $ soldeer update")
	output.Printf("")
	output.Printf("  Publish a package:")
	output.Printf("    $ soldeer login")
	output.Printf("    $ soldeer push mylib 1.0.0")
	output.Printf("")

	output.PrintInfof("For more information about a specific command:")
	output.Printf("  soldeer help [command]")
	output.Printf("  soldeer [command] --help")

	return nil
}

// showCommandHelp displays detailed help for a specific command.
func showCommandHelp(cmd *cobra.Command, commandName string) error {
	rootCmd := cmd.Root()

	targetCmd, _, err := rootCmd.Find([]string{commandName})
	if err != nil || targetCmd == rootCmd {
		return fmt.Errorf("unknown command: %s", commandName)
	}

	output.PrintInfof("Command: %s", targetCmd.Name())
	output.Printf("")

	if targetCmd.Long != "" {
		output.Printf("%s", targetCmd.Long)
	} else if targetCmd.Short != "" {
		output.Printf("%s", targetCmd.Short)
	}
	output.Printf("")

	if targetCmd.Use != "" {
		output.PrintInfof("Usage:")
		output.Printf("  soldeer %s", targetCmd.Use)
		output.Printf("")
	}

	if targetCmd.HasAvailableLocalFlags() {
		output.PrintInfof("Flags:")
		fmt.Print(targetCmd.LocalFlags().FlagUsages())
		output.Printf("")
	}

	output.PrintInfof("Global Flags:")
	output.Printf("  -h, --help      Show help for this command")

	return nil
}
