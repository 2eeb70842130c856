package assert

import "github.com/oomph-ac/predmove/oerror"

// IsTrue panics with a formatted *oerror.PredError if ok is false.
func IsTrue(ok bool, message string, args ...any) {
	if !ok {
		panic(oerror.New(message, args...))
	}
}
