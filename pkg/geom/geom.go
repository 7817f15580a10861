// Package geom holds the small set of 3-D construction primitives the beam
// generator works with: points, lines, planes and rotation angles. Vector
// arithmetic is delegated to gonum's spatial/r3 package.
package geom

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// Vec is a point or direction in model space (mm).
type Vec = r3.Vec

// Tolerance is the absolute distance below which two points are treated as
// coincident.
const Tolerance = 1e-6

var (
	// ErrParallel is returned when two lines never meet because they are parallel.
	ErrParallel = errors.New("lines are parallel")
	// ErrSkew is returned when two non-parallel lines do not share a point.
	ErrSkew = errors.New("lines are skew")
	// ErrDegenerate is returned for lines whose end points coincide.
	ErrDegenerate = errors.New("degenerate line")
)

// Axis names one of the three model axes.
type Axis int

const (
	AxisX Axis = iota
	AxisY
	AxisZ
)

func (a Axis) String() string {
	switch a {
	case AxisX:
		return "x"
	case AxisY:
		return "y"
	case AxisZ:
		return "z"
	default:
		return fmt.Sprintf("Axis(%d)", int(a))
	}
}

// Unit returns the positive unit vector of the axis.
func (a Axis) Unit() Vec {
	switch a {
	case AxisX:
		return Vec{X: 1}
	case AxisY:
		return Vec{Y: 1}
	default:
		return Vec{Z: 1}
	}
}

// Line is an infinite line through two points. Intersection queries treat
// it as unbounded; the points only fix its position and direction.
type Line struct {
	From, To Vec
}

// NewLine returns the line through a and b.
func NewLine(a, b Vec) Line {
	return Line{From: a, To: b}
}

// Direction returns the (non-normalised) direction From→To.
func (l Line) Direction() Vec {
	return r3.Sub(l.To, l.From)
}

// Length returns the distance between the defining points.
func (l Line) Length() float64 {
	return r3.Norm(l.Direction())
}

// At returns From + t·(To − From).
func (l Line) At(t float64) Vec {
	return r3.Add(l.From, r3.Scale(t, l.Direction()))
}

// Intersect returns the point shared by lines a and b. It fails with
// ErrParallel for parallel (or coincident) lines and with ErrSkew when the
// closest points of the two lines are further apart than Tolerance scaled by
// the size of the construction.
func Intersect(a, b Line) (Vec, error) {
	u := a.Direction()
	v := b.Direction()
	if r3.Norm(u) < Tolerance || r3.Norm(v) < Tolerance {
		return Vec{}, ErrDegenerate
	}

	w := r3.Sub(a.From, b.From)
	uu := r3.Dot(u, u)
	uv := r3.Dot(u, v)
	vv := r3.Dot(v, v)
	uw := r3.Dot(u, w)
	vw := r3.Dot(v, w)

	den := uu*vv - uv*uv
	if den <= 1e-12*uu*vv {
		return Vec{}, ErrParallel
	}

	s := (uv*vw - vv*uw) / den
	t := (uu*vw - uv*uw) / den

	pa := a.At(s)
	pb := b.At(t)

	scale := math.Max(1, math.Max(r3.Norm(a.From), r3.Norm(b.From)))
	if r3.Norm(r3.Sub(pa, pb)) > Tolerance*scale {
		return Vec{}, fmt.Errorf("%w: closest points %.6g apart", ErrSkew, r3.Norm(r3.Sub(pa, pb)))
	}
	return r3.Scale(0.5, r3.Add(pa, pb)), nil
}

// Plane is defined by a point on it and its normal.
type Plane struct {
	Point  Vec
	Normal Vec
}

// NewPlane returns the plane through p with normal n.
func NewPlane(p, n Vec) Plane {
	return Plane{Point: p, Normal: n}
}

// AlignedAxis reports which model axis the plane normal is parallel to.
func (p Plane) AlignedAxis() (Axis, bool) {
	n := p.Normal
	if r3.Norm(n) < Tolerance {
		return 0, false
	}
	n = r3.Unit(n)
	switch {
	case math.Abs(math.Abs(n.X)-1) < Tolerance:
		return AxisX, true
	case math.Abs(math.Abs(n.Y)-1) < Tolerance:
		return AxisY, true
	case math.Abs(math.Abs(n.Z)-1) < Tolerance:
		return AxisZ, true
	}
	return 0, false
}

// Reflect mirrors q across the plane.
func (p Plane) Reflect(q Vec) Vec {
	n := r3.Unit(p.Normal)
	d := r3.Dot(r3.Sub(q, p.Point), n)
	return r3.Sub(q, r3.Scale(2*d, n))
}

// Segment is a bounded straight path, used as a sweep path.
type Segment struct {
	From, To Vec
}

// Vector returns To − From.
func (s Segment) Vector() Vec {
	return r3.Sub(s.To, s.From)
}

// Length returns the length of the segment.
func (s Segment) Length() float64 {
	return r3.Norm(s.Vector())
}

// Distance returns |a − b|.
func Distance(a, b Vec) float64 {
	return r3.Norm(r3.Sub(a, b))
}

// NearlyEqual reports whether a and b coincide within tol.
func NearlyEqual(a, b Vec, tol float64) bool {
	return Distance(a, b) <= tol
}
