// Package cli holds the process-level plumbing shared by the
// story2video commands: exit-code-carrying errors and logger setup.
package cli

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
)

// Exit codes: 1 for runtime failures, 2 for command misuse.
const (
	CodeFatal  = 1
	CodeMisuse = 2
)

// ExitError carries the process exit code alongside the message.
type ExitError struct {
	Code    int
	Message string
}

func (e *ExitError) Error() string {
	return e.Message
}

// Errorf builds an ExitError with a formatted message.
func Errorf(code int, format string, args ...any) *ExitError {
	return &ExitError{Code: code, Message: fmt.Sprintf(format, args...)}
}

// ExitCode maps an error from run() to the process exit code.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	var ee *ExitError
	if errors.As(err, &ee) {
		return ee.Code
	}
	return CodeFatal
}

// SetupLogging installs the default text logger at the given level.
// Diagnostics go to w (stderr in the commands) so stdout stays clean
// for machine-readable output.
func SetupLogging(w io.Writer, level string) error {
	var lvl slog.Level
	switch strings.ToLower(level) {
	case "debug":
		lvl = slog.LevelDebug
	case "info":
		lvl = slog.LevelInfo
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		return Errorf(CodeMisuse, "invalid log-level %q: must be debug, info, warn or error", level)
	}

	slog.SetDefault(slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: lvl})))
	return nil
}
