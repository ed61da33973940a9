package instance

import (
	"errors"
	"fmt"
)

// ErrMalformed is wrapped by every ParseError.
var ErrMalformed = errors.New("malformed instance")

// ParseError reports the offending line of an instance file.
type ParseError struct {
	Line int // 1-based, 0 when the error is not tied to a line
	Msg  string
	Err  error
}

func (e *ParseError) Error() string {
	msg := e.Msg
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	if e.Line > 0 {
		return fmt.Sprintf("%v: line %d: %s", ErrMalformed, e.Line, msg)
	}
	return fmt.Sprintf("%v: %s", ErrMalformed, msg)
}

// Is makes errors.Is(err, ErrMalformed) hold.
func (e *ParseError) Is(target error) bool { return target == ErrMalformed }

func (e *ParseError) Unwrap() error { return e.Err }

// MissingStartError is returned by the writer when a job has no start time.
type MissingStartError struct {
	JobIndex int
}

func (e *MissingStartError) Error() string {
	return fmt.Sprintf("no start time for job %d", e.JobIndex)
}
