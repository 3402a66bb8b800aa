// Package errors provides typed errors for promptcraft.
package errors

import (
	"errors"
	"fmt"
)

// ErrorCode identifies the type of error.
type ErrorCode string

const (
	ErrConfigNotFound ErrorCode = "CONFIG_NOT_FOUND"
	ErrConfigInvalid  ErrorCode = "CONFIG_INVALID"
	ErrSecretsInvalid ErrorCode = "SECRETS_INVALID"
	ErrEmptyInput     ErrorCode = "EMPTY_INPUT"
	ErrNoSelection    ErrorCode = "NO_SELECTION"
	ErrBackendFailed  ErrorCode = "BACKEND_FAILED"
	ErrInvalidSetting ErrorCode = "INVALID_SETTING"
)

// PromptcraftError represents a typed error with user-friendly hints.
type PromptcraftError struct {
	Code    ErrorCode
	Message string
	Hint    string
	Cause   error
}

func (e *PromptcraftError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *PromptcraftError) Unwrap() error {
	return e.Cause
}

// New creates a new PromptcraftError.
func New(code ErrorCode, message, hint string) *PromptcraftError {
	return &PromptcraftError{
		Code:    code,
		Message: message,
		Hint:    hint,
	}
}

// Wrap creates a new PromptcraftError wrapping an existing error.
func Wrap(code ErrorCode, message, hint string, cause error) *PromptcraftError {
	return &PromptcraftError{
		Code:    code,
		Message: message,
		Hint:    hint,
		Cause:   cause,
	}
}

// CodeOf returns the code of the first PromptcraftError in err's chain, or "".
func CodeOf(err error) ErrorCode {
	var pe *PromptcraftError
	if errors.As(err, &pe) {
		return pe.Code
	}
	return ""
}

// HintOf returns the hint of the first PromptcraftError in err's chain, or "".
func HintOf(err error) string {
	var pe *PromptcraftError
	if errors.As(err, &pe) {
		return pe.Hint
	}
	return ""
}

// ConfigNotFound returns an error for missing config file.
func ConfigNotFound(path string) *PromptcraftError {
	return &PromptcraftError{
		Code:    ErrConfigNotFound,
		Message: fmt.Sprintf("config file not found: %s", path),
		Hint:    "Run `promptcraft init` to create a configuration",
	}
}

// ConfigInvalid returns an error for invalid config.
func ConfigInvalid(reason string) *PromptcraftError {
	return &PromptcraftError{
		Code:    ErrConfigInvalid,
		Message: fmt.Sprintf("invalid config: %s", reason),
		Hint:    "Check your config file at ~/.config/promptcraft/config.yaml",
	}
}

// SecretsInvalid returns an error for an unreadable secrets file.
func SecretsInvalid(path string, cause error) *PromptcraftError {
	return &PromptcraftError{
		Code:    ErrSecretsInvalid,
		Message: fmt.Sprintf("failed to read secrets from %s", path),
		Hint:    `The file must be TOML, e.g. OPENAI_API_KEY = "sk-..."`,
		Cause:   cause,
	}
}

// EmptyInput returns the notice for a blank prompt.
func EmptyInput() *PromptcraftError {
	return &PromptcraftError{
		Code:    ErrEmptyInput,
		Message: "Please enter a prompt.",
	}
}

// NoSelection returns the notice for an explanation request without a selected prompt.
func NoSelection() *PromptcraftError {
	return &PromptcraftError{
		Code:    ErrNoSelection,
		Message: "Please select a prompt first.",
	}
}

// BackendFailed returns an error for a failed text generation call.
func BackendFailed(action string, cause error) *PromptcraftError {
	return &PromptcraftError{
		Code:    ErrBackendFailed,
		Message: fmt.Sprintf("error %s", action),
		Hint:    "Check OPENAI_API_KEY, the selected model and your network connection",
		Cause:   cause,
	}
}

// InvalidSetting returns an error for an out-of-range generation setting.
func InvalidSetting(reason, hint string) *PromptcraftError {
	return &PromptcraftError{
		Code:    ErrInvalidSetting,
		Message: reason,
		Hint:    hint,
	}
}
