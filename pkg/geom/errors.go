package geom

import (
	"fmt"

	"github.com/pkg/errors"
)

var (
	// ErrInvalidArgument is wrapped by every parameter validation failure:
	// non-positive radii or steps, zero-length directions, degenerate triangles.
	ErrInvalidArgument = errors.New("geom: invalid argument")

	// ErrRetriesExhausted is returned when degenerate-rotation recovery did not
	// find a stable composition within Options.MaxRotationRetries attempts.
	ErrRetriesExhausted = errors.New("geom: retries exhausted")
)

// Fault is the panic value for broken invariants: conditions the geometry
// guarantees can't happen, such as more than two intersection points between
// two triangles or adjacent edges with no shared point.
type Fault struct {
	Op  string
	Msg string
}

func (f *Fault) Error() string {
	return fmt.Sprintf("geom: %s: %s", f.Op, f.Msg)
}

func fault(op, format string, args ...interface{}) *Fault {
	return &Fault{Op: op, Msg: fmt.Sprintf(format, args...)}
}

// Panicf panics with a *Fault. Exported for sibling packages that share the
// invariant-fault contract.
func Panicf(op, format string, args ...interface{}) {
	panic(fault(op, format, args...))
}

func invalidf(format string, args ...interface{}) error {
	return errors.Wrapf(ErrInvalidArgument, format, args...)
}

// Invalidf builds an error wrapping ErrInvalidArgument.
func Invalidf(format string, args ...interface{}) error {
	return invalidf(format, args...)
}

func requireDirection(name string, v Vec3) error {
	if v.IsNearZero() || !v.IsFinite() {
		return invalidf("%s must be a non-zero finite vector, got %v", name, v)
	}
	return nil
}

func requirePositive(name string, x float64) error {
	if !(x > 0) {
		return invalidf("%s must be positive, got %g", name, x)
	}
	return nil
}
