// Package perrors provides custom error types for promptline.
// These error types carry a stable code so failure paths can be
// distinguished at the isolation boundaries (provider calls, listener
// fan-out, suggestion application, rendering) without string matching.
package perrors

import (
	"fmt"
)

// PromptError is the base interface for all promptline errors
type PromptError interface {
	error
	// Code returns a unique error code for programmatic error handling
	Code() string
}

// baseError provides common functionality for all promptline errors
type baseError struct {
	code    string
	message string
	cause   error
}

func (e *baseError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", e.message, e.cause)
	}
	return e.message
}

func (e *baseError) Code() string {
	return e.code
}

func (e *baseError) Unwrap() error {
	return e.cause
}

// ProviderError represents a failure inside a completion provider
type ProviderError struct {
	baseError
	ProviderID string
}

// NewProviderError creates a new provider error
func NewProviderError(providerID string, message string, cause error) *ProviderError {
	return &ProviderError{
		baseError: baseError{
			code:    "PROVIDER_ERROR",
			message: message,
			cause:   cause,
		},
		ProviderID: providerID,
	}
}

// ListenerError represents a failure inside a completion event listener
type ListenerError struct {
	baseError
	Event string
}

// NewListenerError creates a new listener error
func NewListenerError(event string, message string, cause error) *ListenerError {
	return &ListenerError{
		baseError: baseError{
			code:    "LISTENER_ERROR",
			message: message,
			cause:   cause,
		},
		Event: event,
	}
}

// ApplyError represents a failure while splicing a suggestion into the line
type ApplyError struct {
	baseError
	Suggestion string
}

// NewApplyError creates a new apply error
func NewApplyError(suggestion string, message string, cause error) *ApplyError {
	return &ApplyError{
		baseError: baseError{
			code:    "APPLY_ERROR",
			message: message,
			cause:   cause,
		},
		Suggestion: suggestion,
	}
}

// RenderError represents a failure while redrawing the prompt line
type RenderError struct {
	baseError
}

// NewRenderError creates a new render error
func NewRenderError(message string, cause error) *RenderError {
	return &RenderError{
		baseError: baseError{
			code:    "RENDER_ERROR",
			message: message,
			cause:   cause,
		},
	}
}

// ConfigurationError represents errors in configuration files
type ConfigurationError struct {
	baseError
	Path string
}

// NewConfigurationError creates a new configuration error
func NewConfigurationError(path string, message string, cause error) *ConfigurationError {
	return &ConfigurationError{
		baseError: baseError{
			code:    "CONFIG_ERROR",
			message: message,
			cause:   cause,
		},
		Path: path,
	}
}

// ClassifyError represents an unparseable terminal byte sequence
type ClassifyError struct {
	baseError
	Sequence []byte
}

// NewClassifyError creates a new classify error
func NewClassifyError(sequence []byte, message string) *ClassifyError {
	return &ClassifyError{
		baseError: baseError{
			code:    "CLASSIFY_ERROR",
			message: message,
		},
		Sequence: sequence,
	}
}
