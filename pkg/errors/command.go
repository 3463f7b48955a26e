/*
 * This file is part of ccmd.
 *
 * Copyright (c) 2025 Guilherme Silva Sousa
 *
 * Licensed under the MIT License
 * See LICENSE file in the project root for full license information.
 */

package errors

import (
	"github.com/spf13/cobra"

	"github.com/soldeer-go/soldeer/pkg/logger"
)

// CommandRunner wraps a cobra command with error handling
type CommandRunner func(cmd *cobra.Command, args []string) error

// WrapCommand wraps a command runner with error handling and logging
func WrapCommand(name string, runner CommandRunner) CommandRunner {
	return func(cmd *cobra.Command, args []string) error {
		log := logger.WithField("command", name)

		log.Debugf("executing command with args: %v", args)

		err := runner(cmd, args)
		if err != nil {
			log.WithError(err).Error("command failed")
			Handle(err)
			return err
		}

		log.Debug("command completed successfully")
		return nil
	}
}

// RecoverPanic recovers from panics and converts them to errors
func RecoverPanic(name string) {
	if r := recover(); r != nil {
		log := logger.WithField("command", name)

		var err error
		switch v := r.(type) {
		case error:
			err = v
		case string:
			err = New(CodeInternal, v)
		default:
			err = Newf(CodeInternal, "panic: %v", v)
		}

		log.WithField("panic", r).Fatal("command panicked")
		HandleFatal(err)
	}
}
