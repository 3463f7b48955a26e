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
	"bytes"
	"io"
	"os"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/soldeer-go/soldeer/cmd/install"
	"github.com/soldeer-go/soldeer/cmd/update"
)

func TestHelpCommand(t *testing.T) {
	tests := []struct {
		name           string
		args           []string
		expectedOutput []string
		expectError    bool
	}{
		{
			name: "general help",
			args: []string{},
			expectedOutput: []string{
				"Available Commands:",
				"help",
				"install",
				"update",
				"Common Use Cases:",
			},
		},
		{
			name: "help for install command",
			args: []string{"install"},
			expectedOutput: []string{
				"Command: install",
				"Usage:",
				"--url",
				"--concurrency",
			},
		},
		{
			name: "help for update command",
			args: []string{"update"},
			expectedOutput: []string{
				"Command: update",
				"Usage:",
				"--concurrency",
			},
		},
		{
			name:        "help for non-existent command",
			args:        []string{"nonexistent"},
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rootCmd := &cobra.Command{
				Use:   "soldeer",
				Short: "A package manager for smart-contract-language projects",
			}

			rootCmd.AddCommand(NewCommand())
			rootCmd.AddCommand(install.NewCommand())
			rootCmd.AddCommand(update.NewCommand())

			helpCmd := NewCommand()
			rootCmd.AddCommand(helpCmd)
			helpCmd.SetArgs(tt.args)

			output := captureOutput(t, func() {
				err := helpCmd.Execute()
				if tt.expectError {
					assert.Error(t, err)
				} else {
					assert.NoError(t, err)
				}
			})

			if !tt.expectError {
				for _, expected := range tt.expectedOutput {
					assert.Contains(t, output, expected, "Output should contain: %s", expected)
				}
			}
		})
	}
}

// captureOutput captures stdout during function execution.
func captureOutput(t *testing.T, f func()) string {
	t.Helper()

	originalStdout := os.Stdout
	r, w, err := os.Pipe()
	require.NoError(t, err)
	os.Stdout = w

	done := make(chan bool)
	go func() {
		f()
		close(done)
	}()
	<-done

	w.Close()
	var buf bytes.Buffer
	_, err = io.Copy(&buf, r)
	require.NoError(t, err)

	os.Stdout = originalStdout
	return buf.String()
}
