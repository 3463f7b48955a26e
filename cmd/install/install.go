/*
 * This file is part of ccmd.
 *
 * Copyright (c) 2025 Guilherme Silva Sousa
 *
 * Licensed under the MIT License
 * See LICENSE file in the project root for full license information.
 */

package install

import (
	"context"
	"os"

	"github.com/spf13/cobra"

	"github.com/soldeer-go/soldeer/core"
	"github.com/soldeer-go/soldeer/internal/depspec"
	"github.com/soldeer-go/soldeer/internal/fs"
	"github.com/soldeer-go/soldeer/internal/output"
	"github.com/soldeer-go/soldeer/internal/progress"
	"github.com/soldeer-go/soldeer/pkg/errors"
)

// NewCommand creates a new install command.
func NewCommand() *cobra.Command {
	var (
		url         string
		rev         string
		branch      string
		tag         string
		concurrency int
	)

	cmd := &cobra.Command{
		Use:   "install [name[~requirement]]",
		Short: "Install the project's dependencies, or declare and install a new one",
		Long: `Install resolves and acquires every dependency declared in the
project's manifest against its current lockfile.

When a name is given, it is first declared in the manifest (optionally
pinned to a requirement after "~", and optionally sourced from --url),
then installed alongside the rest. --url is treated as a git remote when
--rev, --branch or --tag is also given, and as an archive URL otherwise.

Examples:
  # Install everything already declared
  soldeer install

  # Declare and install a dependency at its latest version
  soldeer install forge-std

  # Declare and install at an exact version
  soldeer install forge-std~1.9.1

  # Declare and install from a custom archive
  soldeer install mylib~1.0.0 --url https://example.com/mylib.zip

  # Declare and install from a git repository pinned to a tag
  soldeer install mylib~main --url https://github.com/user/mylib.git --tag v1.0.0`,
		Args: cobra.MaximumNArgs(1),
		RunE: errors.WrapCommand("install", func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			root, err := os.Getwd()
			if err != nil {
				return err
			}

			var add *depspec.Spec
			if len(args) == 1 {
				spec, err := parseSpec(args[0], url, rev, branch, tag)
				if err != nil {
					return err
				}
				add = &spec
			}

			names, err := core.DeclaredNames(fs.OS{}, root, add)
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

			entries, err := core.Install(ctx, fs.OS{}, root, core.InstallOptions{
				Add:         add,
				Concurrency: concurrency,
				Progress:    sink,
			})
			<-done
			if err != nil {
				return err
			}

			output.PrintSuccessf("installed %d dependencies", len(entries))
			return nil
		}),
	}

	cmd.Flags().StringVar(&url, "url", "", "Archive download URL, or git remote when combined with --rev/--branch/--tag")
	cmd.Flags().StringVar(&rev, "rev", "", "Pin a git dependency to an exact commit")
	cmd.Flags().StringVar(&branch, "branch", "", "Pin a git dependency to a branch")
	cmd.Flags().StringVar(&tag, "tag", "", "Pin a git dependency to a tag")
	cmd.Flags().IntVar(&concurrency, "concurrency", 0, "Maximum number of dependencies fetched in parallel (0 = unbounded)")

	return cmd
}

// parseSpec builds a depspec.Spec from the install command's positional
// argument and flags. A bare name (no "~requirement") matches whatever the
// registry reports as latest.
func parseSpec(nameArg, url, rev, branch, tag string) (depspec.Spec, error) {
	nameAndReq := nameArg
	if !hasRequirement(nameArg) {
		nameAndReq = nameArg + "~" + depspec.AnyVersionRequirement
	}

	var revision, branchPtr, tagPtr *string
	if rev != "" {
		revision = &rev
	}
	if branch != "" {
		branchPtr = &branch
	}
	if tag != "" {
		tagPtr = &tag
	}

	switch {
	case url != "" && (rev != "" || branch != "" || tag != ""):
		return depspec.Parse(nameAndReq, depspec.RepoURLKind, url, revision, branchPtr, tagPtr)
	case url != "":
		return depspec.Parse(nameAndReq, depspec.ArchiveURLKind, url, nil, nil, nil)
	default:
		return depspec.Parse(nameAndReq, depspec.NoURL, "", nil, nil, nil)
	}
}

func hasRequirement(nameArg string) bool {
	for i := 0; i < len(nameArg); i++ {
		if nameArg[i] == '~' {
			return true
		}
	}
	return false
}
