package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
)

// Exit codes for CLI commands.
const (
	ExitSuccess      = 0 // every scenario step committed / clean shutdown
	ExitFailure      = 1 // steps were rolled back, or the server faulted
	ExitCommandError = 2 // bad input: missing files, malformed scenarios, absent config
)

// Error codes carried in JSON envelopes. Scripts switch on these rather
// than parsing messages.
const (
	CodeScenarioFailed = "scenario_failed" // one or more steps were refused and rolled back
)

// ExitError carries a process exit code alongside an error. Commands
// return it from RunE; main translates it via GetExitCode.
type ExitError struct {
	Code    int
	Message string
	Err     error // underlying cause, optional
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

// NewExitError creates an ExitError with the given code and message.
func NewExitError(code int, message string) *ExitError {
	return &ExitError{Code: code, Message: message}
}

// WrapExitError wraps an underlying error with an exit code.
func WrapExitError(code int, message string, err error) *ExitError {
	return &ExitError{Code: code, Message: message, Err: err}
}

// GetExitCode extracts the exit code from an error, defaulting to
// ExitFailure for plain errors.
func GetExitCode(err error) int {
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	return ExitFailure
}

// Envelope wraps every JSON-format command response, so a consumer can
// switch on Status before reaching into the payload. Data is present on
// both success and failure: a failed replay still reports which steps
// rolled back.
type Envelope struct {
	Status string         `json:"status"` // "ok" | "error"
	Data   interface{}    `json:"data,omitempty"`
	Error  *EnvelopeError `json:"error,omitempty"`
}

// EnvelopeError names what went wrong, machine-readably.
type EnvelopeError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func okEnvelope(data interface{}) Envelope {
	return Envelope{Status: "ok", Data: data}
}

func errorEnvelope(code, message string, data interface{}) Envelope {
	return Envelope{
		Status: "error",
		Data:   data,
		Error:  &EnvelopeError{Code: code, Message: message},
	}
}

// writeEnvelope renders an envelope as indented JSON.
func writeEnvelope(w io.Writer, env Envelope) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(env)
}
