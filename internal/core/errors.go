package core

import (
	"errors"
	"fmt"
	"strings"
)

// ErrVariantNotFound is returned when a variant has no directory or manifest.
var ErrVariantNotFound = errors.New("variant not found")

// ValidationError reports an input rejected before any side effect.
type ValidationError struct {
	Field  string
	Value  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Value == "" {
		return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
	}
	return fmt.Sprintf("invalid %s %q: %s", e.Field, e.Value, e.Reason)
}

// CommandError is a non-zero exit (or failure to start) of an external
// process. Stdout and Stderr hold whatever output was captured.
type CommandError struct {
	Command  string
	ExitCode int
	Stdout   string
	Stderr   string
	Err      error
}

func (e *CommandError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s failed", e.Command)
	if e.ExitCode != 0 {
		fmt.Fprintf(&b, " (exit %d)", e.ExitCode)
	} else if e.Err != nil {
		fmt.Fprintf(&b, ": %v", e.Err)
	}
	if output := e.Output(); output != "" {
		b.WriteString(":\n")
		b.WriteString(output)
	}
	return b.String()
}

func (e *CommandError) Unwrap() error { return e.Err }

// Output returns stderr followed by stdout, trimmed.
func (e *CommandError) Output() string {
	return strings.TrimSpace(e.Stderr + "\n" + e.Stdout)
}

func variantNotFound(name string) error {
	return fmt.Errorf("%w: %s", ErrVariantNotFound, name)
}
