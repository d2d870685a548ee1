package cli

import (
	"errors"

	"github.com/yaklabco/gomddeep/internal/configloader"
	"github.com/yaklabco/gomddeep/pkg/engine"
	"github.com/yaklabco/gomddeep/pkg/fsutil"
	"github.com/yaklabco/gomddeep/pkg/runner"
)

// Exit codes for gomddeep.
const (
	// ExitSuccess indicates every file converted.
	ExitSuccess = 0

	// ExitConversionFailed indicates the run completed but some files failed.
	ExitConversionFailed = 1

	// ExitInvalidUsage indicates invalid command-line usage.
	ExitInvalidUsage = 64

	// ExitConfigError indicates configuration file errors.
	ExitConfigError = 65

	// ExitInternalError indicates an internal error.
	ExitInternalError = 70

	// ExitIOError indicates file I/O errors.
	ExitIOError = 74
)

// ErrConversionFailed is returned when at least one file failed to convert.
var ErrConversionFailed = errors.New("conversion failed")

// ErrNoInput is returned when a command needs a document but got neither a
// path nor piped input.
var ErrNoInput = errors.New("no input: pass a file or pipe a document")

// errConfig marks errors raised while loading configuration.
var errConfig = errors.New("failed to load configuration")

// errUsage marks invalid flag combinations and arguments.
var errUsage = errors.New("invalid usage")

// ExitCodeFromResult determines the exit code of a finished run.
func ExitCodeFromResult(result *runner.Result) int {
	if result == nil || !result.HasFailures() {
		return ExitSuccess
	}
	return ExitConversionFailed
}

// ExitCode maps an error returned by a command to a process exit code.
func ExitCode(err error) int {
	switch {
	case err == nil:
		return ExitSuccess
	case errors.Is(err, ErrConversionFailed):
		return ExitConversionFailed
	case errors.Is(err, errConfig):
		return ExitConfigError
	case errors.Is(err, errUsage), errors.Is(err, ErrNoInput), errors.Is(err, engine.ErrUnknownEngine):
		return ExitInvalidUsage
	case errors.Is(err, configloader.ErrConfigExists),
		errors.Is(err, fsutil.ErrNotFound),
		errors.Is(err, fsutil.ErrPermissionDenied),
		errors.Is(err, fsutil.ErrIsDirectory):
		return ExitIOError
	default:
		return ExitInternalError
	}
}
