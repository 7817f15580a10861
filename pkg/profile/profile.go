// Package profile builds closed cross-section polygons in the section plane
// (model X horizontal, model Z vertical) and resolves per-vertex edge
// treatments: fillets and chamfers. A profile swept along the beam's length
// axis becomes a prism whose longitudinal edges are numbered by the profile
// vertex they pass through, so treating vertex i of the profile is the same
// as treating longitudinal edge i of the prism.
package profile

import (
	"errors"
	"fmt"
	"math"

	"github.com/chazu/precast/pkg/geom"
	"gonum.org/v1/gonum/spatial/r2"
)

// Point is a section-plane point: X is model X, Y is model Z.
type Point = r2.Vec

// DefaultFacets is the number of straight segments used to approximate a
// fillet arc.
const DefaultFacets = 8

var (
	// ErrTooFewVertices is returned for profiles with fewer than 3 vertices.
	ErrTooFewVertices = errors.New("profile needs at least 3 vertices")
	// ErrNotPlanar is returned when a polyline leaves the section plane.
	ErrNotPlanar = errors.New("polyline is not in a section plane")
	// ErrNotClosed is returned when a polyline does not end where it starts.
	ErrNotClosed = errors.New("polyline is not closed")
)

// CornerError reports an edge treatment that cannot be built.
type CornerError struct {
	Vertex int
	Reason string
}

func (e *CornerError) Error() string {
	return fmt.Sprintf("vertex %d: %s", e.Vertex, e.Reason)
}

type cornerKind int

const (
	cornerSharp cornerKind = iota
	cornerChamfer
	cornerFillet
)

type corner struct {
	kind   cornerKind
	size   float64 // chamfer leg length or fillet radius
	facets int
}

// Profile is a closed polygon with optional treatment of each vertex.
// Profiles are values: Chamfer and Fillet return modified copies.
type Profile struct {
	points  []Point
	corners []corner
}

// New returns a profile through pts. The closing edge from the last point
// back to the first is implicit.
func New(pts ...Point) (Profile, error) {
	if len(pts) < 3 {
		return Profile{}, ErrTooFewVertices
	}
	n := len(pts)
	for i := range pts {
		j := (i + 1) % n
		if r2.Norm(r2.Sub(pts[j], pts[i])) < geom.Tolerance {
			return Profile{}, &CornerError{Vertex: i, Reason: "zero-length edge to next vertex"}
		}
	}
	p := Profile{
		points:  append([]Point(nil), pts...),
		corners: make([]corner, n),
	}
	return p, nil
}

// Rectangle returns the axis-aligned rectangle [x0,x1]×[z0,z1]. Vertices
// are numbered counter-clockwise from the minimum corner.
func Rectangle(x0, z0, x1, z1 float64) (Profile, error) {
	if x1 <= x0 || z1 <= z0 {
		return Profile{}, fmt.Errorf("rectangle %gx%g: sides must be positive", x1-x0, z1-z0)
	}
	return New(
		Point{X: x0, Y: z0},
		Point{X: x1, Y: z0},
		Point{X: x1, Y: z1},
		Point{X: x0, Y: z1},
	)
}

// FromPolyline converts a closed 3-D polyline lying in a plane y = const
// into a profile. The repeated closing point is dropped.
func FromPolyline(pts []geom.Vec) (Profile, error) {
	if len(pts) < 4 {
		return Profile{}, ErrTooFewVertices
	}
	if !geom.NearlyEqual(pts[0], pts[len(pts)-1], geom.Tolerance) {
		return Profile{}, ErrNotClosed
	}
	y := pts[0].Y
	out := make([]Point, 0, len(pts)-1)
	for _, v := range pts[:len(pts)-1] {
		if math.Abs(v.Y-y) > geom.Tolerance {
			return Profile{}, ErrNotPlanar
		}
		out = append(out, Point{X: v.X, Y: v.Z})
	}
	return New(out...)
}

// Len returns the number of vertices.
func (p Profile) Len() int {
	return len(p.points)
}

// Points returns a copy of the untreated vertices.
func (p Profile) Points() []Point {
	return append([]Point(nil), p.points...)
}

func (p Profile) clone() Profile {
	return Profile{
		points:  append([]Point(nil), p.points...),
		corners: append([]corner(nil), p.corners...),
	}
}

func (p Profile) checkIndex(i int) error {
	if i < 0 || i >= len(p.points) {
		return &CornerError{Vertex: i, Reason: fmt.Sprintf("index out of range [0,%d)", len(p.points))}
	}
	return nil
}

// Chamfer replaces vertex i by a straight bevel whose legs are size long.
func (p Profile) Chamfer(i int, size float64) (Profile, error) {
	if err := p.checkIndex(i); err != nil {
		return Profile{}, err
	}
	if !(size > 0) {
		return Profile{}, &CornerError{Vertex: i, Reason: fmt.Sprintf("chamfer size %g must be positive", size)}
	}
	q := p.clone()
	q.corners[i] = corner{kind: cornerChamfer, size: size}
	if _, err := q.Vertices(); err != nil {
		return Profile{}, err
	}
	return q, nil
}

// Fillet replaces vertex i by a circular arc of the given radius tangent to
// both adjacent edges.
func (p Profile) Fillet(i int, radius float64, facets int) (Profile, error) {
	if err := p.checkIndex(i); err != nil {
		return Profile{}, err
	}
	if !(radius > 0) {
		return Profile{}, &CornerError{Vertex: i, Reason: fmt.Sprintf("fillet radius %g must be positive", radius)}
	}
	if facets < 1 {
		facets = DefaultFacets
	}
	q := p.clone()
	q.corners[i] = corner{kind: cornerFillet, size: radius, facets: facets}
	if _, err := q.Vertices(); err != nil {
		return Profile{}, err
	}
	return q, nil
}

// trim returns how far along each adjacent edge the treatment of vertex i
// reaches, and the interior angle at the vertex.
func (p Profile) trim(i int) (float64, float64, error) {
	c := p.corners[i]
	if c.kind == cornerSharp {
		return 0, 0, nil
	}
	n := len(p.points)
	v := p.points[i]
	u1 := r2.Unit(r2.Sub(p.points[(i+n-1)%n], v))
	u2 := r2.Unit(r2.Sub(p.points[(i+1)%n], v))
	theta := math.Acos(clamp(r2.Dot(u1, u2), -1, 1))
	if theta < 1e-9 || math.Pi-theta < 1e-9 {
		return 0, 0, &CornerError{Vertex: i, Reason: "adjacent edges are collinear"}
	}
	switch c.kind {
	case cornerChamfer:
		return c.size, theta, nil
	default:
		return c.size / math.Tan(theta/2), theta, nil
	}
}

// Vertices resolves every treatment and returns the final polygon,
// counter-clockwise. It fails when a treatment does not fit on its edges.
func (p Profile) Vertices() ([]Point, error) {
	n := len(p.points)
	if n < 3 {
		return nil, ErrTooFewVertices
	}

	trims := make([]float64, n)
	angles := make([]float64, n)
	for i := range p.points {
		t, a, err := p.trim(i)
		if err != nil {
			return nil, err
		}
		trims[i], angles[i] = t, a
	}
	for i := range p.points {
		j := (i + 1) % n
		edge := r2.Norm(r2.Sub(p.points[j], p.points[i]))
		if trims[i]+trims[j] > edge+geom.Tolerance {
			v := i
			if trims[j] > trims[i] {
				v = j
			}
			return nil, &CornerError{
				Vertex: v,
				Reason: fmt.Sprintf("treatment needs %.4g of a %.4g edge", trims[i]+trims[j], edge),
			}
		}
	}

	var out []Point
	for i, v := range p.points {
		c := p.corners[i]
		if c.kind == cornerSharp {
			out = append(out, v)
			continue
		}
		u1 := r2.Unit(r2.Sub(p.points[(i+n-1)%n], v))
		u2 := r2.Unit(r2.Sub(p.points[(i+1)%n], v))
		t1 := r2.Add(v, r2.Scale(trims[i], u1))
		t2 := r2.Add(v, r2.Scale(trims[i], u2))
		if c.kind == cornerChamfer {
			out = append(out, t1, t2)
			continue
		}
		out = append(out, arc(v, u1, u2, t1, t2, c.size, angles[i], c.facets)...)
	}
	out = dedupe(out)
	if signedArea(out) < 0 {
		for l, r := 0, len(out)-1; l < r; l, r = l+1, r-1 {
			out[l], out[r] = out[r], out[l]
		}
	}
	return out, nil
}

// arc samples the fillet from tangent point t1 to t2.
func arc(v, u1, u2, t1, t2 Point, radius, theta float64, facets int) []Point {
	bis := r2.Unit(r2.Add(u1, u2))
	center := r2.Add(v, r2.Scale(radius/math.Sin(theta/2), bis))
	a1 := math.Atan2(t1.Y-center.Y, t1.X-center.X)
	a2 := math.Atan2(t2.Y-center.Y, t2.X-center.X)
	d := a2 - a1
	for d > math.Pi {
		d -= 2 * math.Pi
	}
	for d < -math.Pi {
		d += 2 * math.Pi
	}
	pts := make([]Point, 0, facets+1)
	for k := 0; k <= facets; k++ {
		a := a1 + d*float64(k)/float64(facets)
		pts = append(pts, Point{X: center.X + radius*math.Cos(a), Y: center.Y + radius*math.Sin(a)})
	}
	return pts
}

func dedupe(pts []Point) []Point {
	out := pts[:0:0]
	for _, q := range pts {
		if len(out) > 0 && r2.Norm(r2.Sub(out[len(out)-1], q)) < geom.Tolerance {
			continue
		}
		out = append(out, q)
	}
	if len(out) > 1 && r2.Norm(r2.Sub(out[0], out[len(out)-1])) < geom.Tolerance {
		out = out[:len(out)-1]
	}
	return out
}

// Area returns the enclosed area of the resolved polygon.
func Area(pts []Point) float64 {
	return math.Abs(signedArea(pts))
}

func signedArea(pts []Point) float64 {
	var a float64
	for i := range pts {
		j := (i + 1) % len(pts)
		a += pts[i].X*pts[j].Y - pts[j].X*pts[i].Y
	}
	return a / 2
}

func clamp(x, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, x))
}
