package cli

import (
	"errors"
	"fmt"

	"mercator-hq/enginevisor/pkg/config"
)

// ConfigError represents an error in configuration.
type ConfigError struct {
	Field   string
	Message string
}

func (e *ConfigError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("config error: %s", e.Message)
	}
	return fmt.Sprintf("config error in %s: %s", e.Field, e.Message)
}

// CommandError represents an error from a command execution.
type CommandError struct {
	Command string
	Err     error
}

func (e *CommandError) Error() string {
	return fmt.Sprintf("command %s failed: %v", e.Command, e.Err)
}

func (e *CommandError) Unwrap() error {
	return e.Err
}

// NewConfigError creates a new ConfigError.
func NewConfigError(field, message string) *ConfigError {
	return &ConfigError{
		Field:   field,
		Message: message,
	}
}

// NewCommandError creates a new CommandError.
func NewCommandError(command string, err error) *CommandError {
	return &CommandError{
		Command: command,
		Err:     err,
	}
}

// ConfigErrorFrom converts an error from config loading or validation.
// The first invalid field of a config.ValidationError is reported.
func ConfigErrorFrom(err error) *ConfigError {
	var verr config.ValidationError
	if errors.As(err, &verr) && len(verr.Errors) > 0 {
		first := verr.Errors[0]
		msg := first.Message
		if n := len(verr.Errors); n > 1 {
			msg = fmt.Sprintf("%s (and %d more)", msg, n-1)
		}
		return NewConfigError(first.Field, msg)
	}
	return NewConfigError("", err.Error())
}
