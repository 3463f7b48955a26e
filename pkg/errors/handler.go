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
	"os"

	"github.com/soldeer-go/soldeer/internal/output"
	"github.com/soldeer-go/soldeer/pkg/logger"
)

// DefaultHandler is the default error handler instance
var DefaultHandler = &Handler{
	logger: logger.GetDefault(),
}

// Handler provides centralized error handling with logging
type Handler struct {
	logger logger.Logger
}

// Handle processes an error and returns true if it was handled
func (h *Handler) Handle(err error) bool {
	if err == nil {
		return false
	}

	h.logger.WithError(err).Error("error occurred")

	switch {
	case IsNotFound(err):
		output.PrintWarningf("Not found: %v", err)
	case IsAlreadyExists(err):
		output.PrintWarningf("Already exists: %v", err)
	case IsValidationError(err):
		output.PrintErrorf("Invalid input: %v", err)
	case IsAcquisitionError(err):
		output.PrintErrorf("Acquisition failed: %v", err)
	case IsAuthError(err):
		output.PrintErrorf("Authentication failed: %v", err)
	case IsPublishError(err):
		output.PrintErrorf("Publish failed: %v", err)
	default:
		output.PrintErrorf("Error: %v", err)
	}

	return true
}

// HandleFatal processes a fatal error and exits
func (h *Handler) HandleFatal(err error) {
	if err == nil {
		return
	}

	h.Handle(err)
	os.Exit(1)
}

// Handle is a convenience function using the default handler
func Handle(err error) bool {
	return DefaultHandler.Handle(err)
}

// HandleFatal is a convenience function using the default handler
func HandleFatal(err error) {
	DefaultHandler.HandleFatal(err)
}
