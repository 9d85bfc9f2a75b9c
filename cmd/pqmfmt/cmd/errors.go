package cmd

import "fmt"

// cliError adds source-path context and a typed exit code to an underlying
// error without losing errors.As access to it, grounded on protocompile's
// ErrorWithPos/Unwrap chaining idiom (spec §7).
type cliError struct {
	path  string
	cause error
	code  int
}

func (e *cliError) Error() string {
	if e.path == "" {
		return e.cause.Error()
	}
	return fmt.Sprintf("%s: %v", e.path, e.cause)
}

func (e *cliError) Unwrap() error { return e.cause }

// errCheckDiff is returned by --check when the input isn't already
// formatted. Execute never prints its message: the diff was already
// logged before this is returned.
var errCheckDiff = &cliError{code: 1, cause: fmt.Errorf("input is not formatted")}
