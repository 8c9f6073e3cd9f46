/*
PURPOSE:
  The outcome of one Command Runner invocation and the three ways to read
  it.

REQUIREMENTS:
  User-specified:
  - Suppressed read: any failure reads as "".
  - Strict read: a non-zero exit OR any stderr text is a failure.

  Implementation-discovered:
  - Check: a non-zero exit only, for git and lerna steps that print
    progress on stderr when they succeed.

RELATED FILES:
  - internal/execx/run.go
*/

package execx

import (
	"fmt"
	"strings"
)

// Status classifies a finished invocation.
type Status int

const (
	// StatusEmpty means the command succeeded without printing anything.
	StatusEmpty Status = iota
	// StatusOutput means the command succeeded and printed to stdout.
	StatusOutput
	// StatusFailed means the command could not run or exited non-zero.
	StatusFailed
)

func (s Status) String() string {
	switch s {
	case StatusEmpty:
		return "empty"
	case StatusOutput:
		return "output"
	case StatusFailed:
		return "failed"
	}
	return fmt.Sprintf("Status(%d)", int(s))
}

// Result is the outcome of one invocation. Stdout and Stderr are trimmed.
type Result struct {
	Name   string
	Args   []string
	Stdout string
	Stderr string
	Code   int
	Err    error
}

// Status reports whether the command failed, printed, or stayed silent.
func (r Result) Status() Status {
	switch {
	case r.Err != nil:
		return StatusFailed
	case r.Stdout == "":
		return StatusEmpty
	default:
		return StatusOutput
	}
}

// Text is the lenient read used for probes: stdout, or "" on failure.
func (r Result) Text() string {
	if r.Err != nil {
		return ""
	}
	return r.Stdout
}

// Strict is the read used for mutating commands. Any stderr text counts as a
// failure even when the exit code was zero.
func (r Result) Strict() (string, error) {
	if r.Err != nil {
		return "", &CommandError{Result: r}
	}
	if r.Stderr != "" {
		return "", &CommandError{Result: r}
	}
	return r.Stdout, nil
}

// Check fails only on a non-zero exit. It suits tools like git that write
// progress to stderr on success.
func (r Result) Check() error {
	if r.Err != nil {
		return &CommandError{Result: r}
	}
	return nil
}

// CommandError describes a failed strict invocation.
type CommandError struct {
	Result Result
}

func (e *CommandError) Error() string {
	line := strings.TrimSpace(e.Result.Name + " " + strings.Join(e.Result.Args, " "))
	msg := e.Result.Stderr
	if msg == "" && e.Result.Err != nil {
		msg = e.Result.Err.Error()
	}
	if e.Result.Err != nil {
		return fmt.Sprintf("%s: exit %d: %s", line, e.Result.Code, msg)
	}
	return fmt.Sprintf("%s: %s", line, msg)
}

func (e *CommandError) Unwrap() error { return e.Result.Err }
