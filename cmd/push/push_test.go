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
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCommandStructure(t *testing.T) {
	cmd := NewCommand()

	assert.Equal(t, "push <name> <version>", cmd.Use)
	assert.NotNil(t, cmd.RunE)
	assert.Error(t, cmd.Args(cmd, []string{"only-one"}))
	assert.NoError(t, cmd.Args(cmd, []string{"mylib", "1.0.0"}))

	dryRunFlag := cmd.Flags().Lookup("dry-run")
	assert.NotNil(t, dryRunFlag)
	assert.Equal(t, "false", dryRunFlag.DefValue)
}
