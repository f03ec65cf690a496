// Package pkgerr classifies the errors that cross the core's boundaries
// into the small set of kinds the runner and CLI need to react to, without
// resorting to string matching.
package pkgerr

import (
	"errors"
	"fmt"
)

// Kind identifies the class of failure carried by an Error.
type Kind int

const (
	// KindConfig covers unparseable config, unknown repo kinds, invalid
	// regexes, invalid language_version strings, and references to hook
	// IDs that don't exist.
	KindConfig Kind = iota
	// KindStore covers filesystem I/O on the store root, lock acquisition
	// failure, and JSON sidecar corruption.
	KindStore
	// KindNetwork covers clone/fetch/HTTP download failures.
	KindNetwork
	// KindToolchain covers a requested language_version that cannot be
	// satisfied under system_only or with downloads disabled.
	KindToolchain
	// KindHookFailure covers a hook program exiting non-zero, or an
	// in-process fast-path check reporting a policy violation. This is
	// not a runner error: it is aggregated into the run's exit code.
	KindHookFailure
	// KindInterrupted covers user cancellation.
	KindInterrupted
)

func (k Kind) String() string {
	switch k {
	case KindConfig:
		return "config"
	case KindStore:
		return "store"
	case KindNetwork:
		return "network"
	case KindToolchain:
		return "toolchain"
	case KindHookFailure:
		return "hook_failure"
	case KindInterrupted:
		return "interrupted"
	default:
		return "unknown"
	}
}

// ExitCode returns the process exit code a fatal error of this kind should
// produce. KindHookFailure is not fatal on its own; callers aggregate hook
// outcomes separately and should not call ExitCode on it.
func (k Kind) ExitCode() int {
	switch k {
	case KindConfig, KindToolchain:
		return 2
	case KindInterrupted:
		return 130
	default:
		return 1
	}
}

// Error wraps an underlying cause with a Kind so callers can branch on
// errors.As without parsing messages.
type Error struct {
	Err  error
	Kind Kind
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Kind, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// New wraps err with kind. Returns nil if err is nil.
func New(kind Kind, err error) error {
	if err == nil {
		return nil
	}
	return &Error{Kind: kind, Err: err}
}

// Newf formats a message and wraps it with kind.
func Newf(kind Kind, format string, args ...any) error {
	return &Error{Kind: kind, Err: fmt.Errorf(format, args...)}
}

// Is reports whether err carries the given Kind.
func Is(err error, kind Kind) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind == kind
	}
	return false
}

// KindOf extracts the Kind from err, defaulting to KindHookFailure (the
// one kind that is always safe to treat as "not a runner-fatal error") when
// err does not carry one.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindHookFailure
}
