/*
 * This file is part of ccmd.
 *
 * Copyright (c) 2025 Guilherme Silva Sousa
 *
 * Licensed under the MIT License
 * See LICENSE file in the project root for full license information.
 */

package update

import (
	"context"
	"os"

	"github.com/spf13/cobra"

	"github.com/soldeer-go/soldeer/core"
	"github.com/soldeer-go/soldeer/internal/fs"
	"github.com/soldeer-go/soldeer/internal/output"
	"github.com/soldeer-go/soldeer/internal/progress"
	"github.com/soldeer-go/soldeer/pkg/errors"
)

// NewCommand creates a new update command.
func NewCommand() *cobra.Command {
	var concurrency int

	cmd := &cobra.Command{
		Use:   "update",
		Short: "Refresh every declared dependency against its current lockfile",
		Long: `Update refreshes every dependency declared in the project's
manifest: custom archives and pinned repository checkouts pass through
unchanged, unpinned repository checkouts are pulled to the remote HEAD,
and registry archives are re-resolved against the registry's current
latest version.

Examples:
  soldeer update
  soldeer update --concurrency 4`,
		Args: cobra.NoArgs,
		RunE: errors.WrapCommand("update", func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			root, err := os.Getwd()
			if err != nil {
				return err
			}

			names, err := core.DeclaredNames(fs.OS{}, root, nil)
			if err != nil {
				return err
			}

			sink := progress.NewSink(names)
			printer := progress.NewPrinter(os.Stdout)
			done := make(chan struct{})
			go func() {
				printer.Run(sink.Events())
				close(done)
			}()

			entries, err := core.Update(ctx, fs.OS{}, root, core.UpdateOptions{
				Concurrency: concurrency,
				Progress:    sink,
			})
			<-done
			if err != nil {
				return err
			}

			output.PrintSuccessf("updated %d dependencies", len(entries))
			return nil
		}),
	}

	cmd.Flags().IntVar(&concurrency, "concurrency", 0, "Maximum number of dependencies fetched in parallel (0 = unbounded)")

	return cmd
}
