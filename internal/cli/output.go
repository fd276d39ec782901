package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/roach88/propgrid/internal/callerr"
)

// Exit codes for CLI commands.
const (
	ExitSuccess      = 0 // Successful execution
	ExitFailure      = 1 // Engine failure (load, fluid set, units, evaluation) or failed batch
	ExitCommandError = 2 // Command error (rejected arguments, unreadable job or config, missing database)
)

// Error codes for failures that do not come from a property call.
const (
	ErrCodeGeneric  = "ERROR"
	ErrCodeConfig   = "CONFIG"
	ErrCodeJob      = "JOB"
	ErrCodeStore    = "STORE"
	ErrCodeNotFound = "NOT_FOUND"
	ErrCodeBatch    = "BATCH"
	ErrCodeServe    = "SERVE"
)

// ExitError represents an error with a specific exit code.
// Use this to return errors with meaningful exit codes from CLI commands.
type ExitError struct {
	Code    int    // Exit code (use ExitFailure or ExitCommandError)
	Message string // Error message
	Err     error  // Underlying error (optional)

	// Reported is set once the error has been written through an
	// OutputFormatter, so main does not print it twice.
	Reported bool
}

func (e *ExitError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *ExitError) Unwrap() error {
	return e.Err
}

// GetExitCode extracts the exit code from an error.
// Returns ExitFailure (1) if the error is not an ExitError.
func GetExitCode(err error) int {
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	return ExitFailure
}

// IsReported reports whether err was already written to the user.
func IsReported(err error) bool {
	var exitErr *ExitError
	return errors.As(err, &exitErr) && exitErr.Reported
}

// exitCodeFor maps a property call error to an exit code: rejected
// arguments are command errors, everything the engine reports is a failure.
func exitCodeFor(err error) int {
	if callerr.IsArgumentError(err) {
		return ExitCommandError
	}
	return ExitFailure
}

// OutputFormatter handles JSON vs text output for CLI commands.
type OutputFormatter struct {
	Format    string
	Writer    io.Writer
	ErrWriter io.Writer // Separate writer for verbose/diagnostic output (defaults to Writer)
	Verbose   bool
}

// CLIResponse is the standard JSON response format for CLI output.
type CLIResponse struct {
	Status string    `json:"status"`          // "ok" or "error"
	Data   any       `json:"data,omitempty"`  // success payload
	Error  *CLIError `json:"error,omitempty"` // error details
}

// CLIError is the error structure for CLI responses.
type CLIError struct {
	Code    string `json:"code"`              // error kind, e.g. "FRACTIONAL"
	Message string `json:"message"`           // human-readable message
	Details any    `json:"details,omitempty"` // additional context
}

// Success outputs a successful result in the configured format.
func (f *OutputFormatter) Success(data any) error {
	if f.Format == "json" {
		return json.NewEncoder(f.Writer).Encode(CLIResponse{
			Status: "ok",
			Data:   data,
		})
	}

	// Human-readable text output
	fmt.Fprintln(f.Writer, data)
	return nil
}

// Error outputs an error in the configured format.
func (f *OutputFormatter) Error(code, message string, details any) error {
	if f.Format == "json" {
		return json.NewEncoder(f.Writer).Encode(CLIResponse{
			Status: "error",
			Error: &CLIError{
				Code:    code,
				Message: message,
				Details: details,
			},
		})
	}

	// Human-readable error
	fmt.Fprintf(f.Writer, "Error [%s]: %s\n", code, message)
	if f.Verbose && details != nil {
		fmt.Fprintf(f.Writer, "Details: %v\n", details)
	}
	return nil
}

// Fail writes err and returns the reported ExitError for the command to
// return. Property call errors get their kind as code and their exit code
// from exitCodeFor; any other error uses code and exitCode.
func (f *OutputFormatter) Fail(exitCode int, code string, err error) error {
	var ce *callerr.Error
	if errors.As(err, &ce) {
		exitCode = exitCodeFor(err)
	}
	e := cliErrorWithCode(code, err)
	_ = f.Error(e.Code, e.Message, e.Details)
	return &ExitError{Code: exitCode, Message: e.Message, Err: err, Reported: true}
}

// cliError describes err for a response body.
func cliError(err error) *CLIError {
	return cliErrorWithCode(ErrCodeGeneric, err)
}

func cliErrorWithCode(code string, err error) *CLIError {
	var ce *callerr.Error
	if errors.As(err, &ce) {
		return &CLIError{Code: string(ce.Kind), Message: ce.Message, Details: callDetails(ce)}
	}
	return &CLIError{Code: code, Message: err.Error()}
}

// callDetails collects the diagnostic fields of a property call error.
func callDetails(ce *callerr.Error) map[string]any {
	details := map[string]any{
		"class": ce.Class(),
		"id":    ce.ID(),
	}
	if ce.Arg != "" {
		details["arg"] = ce.Arg
	}
	if ce.Code != 0 {
		details["engine_code"] = ce.Code
	}
	if ce.Detail != "" {
		details["engine_message"] = ce.Detail
	}
	if ce.Err != nil {
		details["cause"] = ce.Err.Error()
	}
	return details
}

// VerboseLog outputs a message only if verbose mode is enabled.
// Uses ErrWriter if set, otherwise falls back to Writer.
// When format is JSON, verbose logs go to ErrWriter to avoid corrupting JSON output.
func (f *OutputFormatter) VerboseLog(format string, args ...any) {
	if !f.Verbose {
		return
	}
	fmt.Fprintf(f.GetErrWriter(), format+"\n", args...)
}

// GetErrWriter returns the appropriate writer for diagnostic output.
// Returns ErrWriter if set, otherwise Writer.
func (f *OutputFormatter) GetErrWriter() io.Writer {
	if f.ErrWriter != nil {
		return f.ErrWriter
	}
	return f.Writer
}
