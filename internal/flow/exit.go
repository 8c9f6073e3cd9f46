/*
PURPOSE:
  Carries the process exit status out of a procedure.

REQUIREMENTS:
  User-specified:
  - Exit 0 on success or a benign early exit, 1 on any failure.

  Implementation-discovered:
  - Most failures have already printed their diagnostic, so main must be
    able to tell a bare status from an error that still needs printing.
  - An interrupted run never exits 0.

USAGE:
  err := cli.ExecuteRelease()
  os.Exit(flow.Code(err))
*/

package flow

import (
	"errors"
	"fmt"
)

// ExitError ends a procedure with Code. The message has already been
// printed to the operator when Err is nil.
type ExitError struct {
	Code int
	Err  error
}

func (e *ExitError) Error() string {
	if e.Err != nil {
		return e.Err.Error()
	}
	return fmt.Sprintf("exit status %d", e.Code)
}

func (e *ExitError) Unwrap() error { return e.Err }

// Done ends the procedure successfully before its last step.
func Done() error { return &ExitError{Code: 0} }

// Fail ends the procedure with status 1 after a printed diagnostic.
func Fail() error { return &ExitError{Code: 1} }

// Interrupted ends a run cancelled by the operator with status 1.
func Interrupted(cause error) error {
	return &ExitError{Code: 1, Err: fmt.Errorf("interrupted: %w", cause)}
}

// Code maps an error returned by a procedure to a process exit status.
func Code(err error) int {
	if err == nil {
		return 0
	}
	var ee *ExitError
	if errors.As(err, &ee) {
		return ee.Code
	}
	return 1
}

// Silent reports whether err needs no further message on exit.
func Silent(err error) bool {
	var ee *ExitError
	return err == nil || (errors.As(err, &ee) && ee.Err == nil)
}
