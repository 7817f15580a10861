// Package kernel defines the abstract geometry kernel interface.
// Implementations provide solid modelling and boolean operations behind
// this interface so the beam generator never depends on a particular
// backend. Every operation that can fail reports an *OpError; a caller
// must never continue with the solid of a failed operation.
package kernel

import (
	"fmt"

	"github.com/chazu/precast/pkg/geom"
	"github.com/chazu/precast/pkg/profile"
)

// Solid is an opaque handle to a geometry kernel solid.
// Implementations wrap their internal representation.
type Solid interface {
	// BoundingBox returns the axis-aligned bounding box.
	BoundingBox() (min, max [3]float64)
	// Contains reports whether p lies inside or on the solid.
	Contains(p geom.Vec) bool
}

// Kernel is the abstract geometry kernel interface.
//
// Boxes and sweeps are prisms along the model Y axis. Their longitudinal
// edges are addressed by the index of the profile vertex they pass through
// (see package profile); Chamfer and Fillet only accept such prisms.
type Kernel interface {
	// Primitives
	Box(origin geom.Vec, x, y, z float64) (Solid, error)
	Cylinder(base geom.Vec, axis geom.Axis, radius, length float64) (Solid, error)
	Sweep(p profile.Profile, path geom.Segment) (Solid, error)

	// Edge treatment
	Chamfer(s Solid, edges []int, size float64) (Solid, error)
	Fillet(s Solid, edges []int, radius float64) (Solid, error)

	// Boolean operations
	Union(parts ...Solid) (Solid, error)
	Difference(a Solid, tools ...Solid) (Solid, error)

	// Transforms
	Mirror(s Solid, plane geom.Plane) (Solid, error)
	Translate(s Solid, x, y, z float64) Solid
	Rotate(s Solid, r geom.Rotation) Solid

	// Mesh output
	ToMesh(s Solid) (*Mesh, error)
}

// OpError reports a failed kernel operation.
type OpError struct {
	Op  string
	Err error
}

func (e *OpError) Error() string {
	return fmt.Sprintf("kernel %s: %v", e.Op, e.Err)
}

func (e *OpError) Unwrap() error {
	return e.Err
}

// Errorf builds an *OpError for op.
func Errorf(op, format string, args ...any) error {
	return &OpError{Op: op, Err: fmt.Errorf(format, args...)}
}
