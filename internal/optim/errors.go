package optim

import (
	"fmt"

	"github.com/pkg/errors"
)

// Common errors.
var (
	ErrUnknownOptimizer = errors.New("unknown optimizer")
	ErrUnknownHyper     = errors.New("unknown hyperparameter")
	ErrMissingSlot      = errors.New("slot not created")
	ErrEmptyGradients   = errors.New("no (gradient, variable) pairs")
)

// TypeError reports a constructor or registry argument of the wrong type.
type TypeError struct {
	Argument string // Argument name (e.g., "optimizer")
	Value    any    // Offending value
	Expected string // Description of the expected type
}

// Error implements the error interface.
func (e *TypeError) Error() string {
	return fmt.Sprintf("argument %q: got %T, expected %s", e.Argument, e.Value, e.Expected)
}
