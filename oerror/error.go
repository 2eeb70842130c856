package oerror

import "fmt"

// PredError is the error type returned by the movement and networking packages.
type PredError struct {
	Err string
}

// New formats an error message using the given arguments and returns it as a *PredError.
func New(format string, args ...any) *PredError {
	if len(args) == 0 {
		return &PredError{Err: format}
	}
	return &PredError{Err: fmt.Sprintf(format, args...)}
}

func (e *PredError) Error() string {
	return e.Err
}
