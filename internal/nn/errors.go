package nn

import "fmt"

// ShapeError reports a vector whose length does not match the size the
// receiving layer or network declares. It is returned at the boundary of
// Forward, Learn, and Cost; inputs are never silently truncated or padded.
type ShapeError struct {
	Op   string // operation that rejected the vector, e.g. "Layer.Forward"
	Got  int
	Want int
}

func (e *ShapeError) Error() string {
	return fmt.Sprintf("%s: vector length %d does not match declared size %d", e.Op, e.Got, e.Want)
}

// StateError reports a backward-pass method invoked without a matching
// forward Trace. The backward math reads intermediates produced by a
// specific forward pass; anything else would be stale.
type StateError struct {
	Op     string
	Reason string
}

func (e *StateError) Error() string {
	return fmt.Sprintf("%s: %s", e.Op, e.Reason)
}
