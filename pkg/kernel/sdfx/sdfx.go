// Package sdfx implements the kernel.Kernel interface using the
// github.com/deadsy/sdfx SDF-based CAD library.
//
// Boxes and sweeps are built as extruded 2-D polygons so that their
// longitudinal edges keep an identity (the profile vertex index) until the
// solid takes part in a boolean or a transform. Chamfers and fillets are
// resolved on the profile and the prism is rebuilt.
package sdfx

import (
	"errors"
	"math"

	"github.com/chazu/precast/pkg/geom"
	"github.com/chazu/precast/pkg/kernel"
	"github.com/chazu/precast/pkg/profile"
	"github.com/deadsy/sdfx/render"
	"github.com/deadsy/sdfx/sdf"
	v2 "github.com/deadsy/sdfx/vec/v2"
	v3 "github.com/deadsy/sdfx/vec/v3"
)

// Compile-time interface check.
var _ kernel.Kernel = (*SdfxKernel)(nil)

// DefaultMeshCells controls marching cubes tessellation resolution.
const DefaultMeshCells = 200

var errForeignSolid = errors.New("solid was not created by the sdfx kernel")

// prism remembers how a solid was extruded so its edges can be treated.
type prism struct {
	profile profile.Profile
	y0      float64
	length  float64
}

// sdfxSolid wraps an sdf.SDF3 to implement kernel.Solid.
type sdfxSolid struct {
	s     sdf.SDF3
	prism *prism
}

// BoundingBox returns the axis-aligned bounding box.
func (s *sdfxSolid) BoundingBox() (min, max [3]float64) {
	bb := s.s.BoundingBox()
	min = [3]float64{bb.Min.X, bb.Min.Y, bb.Min.Z}
	max = [3]float64{bb.Max.X, bb.Max.Y, bb.Max.Z}
	return min, max
}

// Contains reports whether p is inside or on the surface.
func (s *sdfxSolid) Contains(p geom.Vec) bool {
	return s.s.Evaluate(vec(p)) <= 0
}

// SdfxKernel implements kernel.Kernel using sdfx.
type SdfxKernel struct {
	meshCells int
}

// Option configures an SdfxKernel.
type Option func(*SdfxKernel)

// WithMeshCells sets the marching cubes resolution used by ToMesh.
func WithMeshCells(n int) Option {
	return func(k *SdfxKernel) {
		if n > 0 {
			k.meshCells = n
		}
	}
}

// New returns a new SdfxKernel.
func New(opts ...Option) *SdfxKernel {
	k := &SdfxKernel{meshCells: DefaultMeshCells}
	for _, o := range opts {
		o(k)
	}
	return k
}

func vec(p geom.Vec) v3.Vec {
	return v3.Vec{X: p.X, Y: p.Y, Z: p.Z}
}

// unwrap extracts the underlying sdf.SDF3 from a kernel.Solid.
func unwrap(op string, s kernel.Solid) (*sdfxSolid, error) {
	if s == nil {
		return nil, kernel.Errorf(op, "nil solid")
	}
	w, ok := s.(*sdfxSolid)
	if !ok {
		return nil, &kernel.OpError{Op: op, Err: errForeignSolid}
	}
	return w, nil
}

func mustUnwrap(s kernel.Solid) sdf.SDF3 {
	w, err := unwrap("transform", s)
	if err != nil {
		panic(err)
	}
	return w.s
}

// wrap creates a kernel.Solid from an sdf.SDF3.
func wrap(s sdf.SDF3) kernel.Solid {
	return &sdfxSolid{s: s}
}

func positive(vals ...float64) bool {
	for _, v := range vals {
		if !(v > 0) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

// extrude builds the prism of p between y0 and y0+length.
func extrude(op string, p profile.Profile, y0, length float64) (kernel.Solid, error) {
	vs, err := p.Vertices()
	if err != nil {
		return nil, &kernel.OpError{Op: op, Err: err}
	}
	pts := make([]v2.Vec, len(vs))
	for i, v := range vs {
		pts[i] = v2.Vec{X: v.X, Y: v.Y}
	}
	s2, err := sdf.Polygon2D(pts)
	if err != nil {
		return nil, &kernel.OpError{Op: op, Err: err}
	}
	// Extrude3D runs along Z centred on the origin; turn the profile's
	// second coordinate into model Z and the extrusion into model Y.
	s3 := sdf.Extrude3D(s2, length)
	m := sdf.Translate3d(v3.Vec{Y: y0 + length/2}).Mul(sdf.RotateX(math.Pi / 2))
	return &sdfxSolid{
		s:     sdf.Transform3D(s3, m),
		prism: &prism{profile: p, y0: y0, length: length},
	}, nil
}

// Box creates a box with its minimum corner at origin. The box is a prism
// along Y; its longitudinal edges are numbered counter-clockwise from the
// minimum corner in the XZ plane.
func (k *SdfxKernel) Box(origin geom.Vec, x, y, z float64) (kernel.Solid, error) {
	if !positive(x, y, z) {
		return nil, kernel.Errorf("box", "dimensions %gx%gx%g must be positive", x, y, z)
	}
	p, err := profile.Rectangle(origin.X, origin.Z, origin.X+x, origin.Z+z)
	if err != nil {
		return nil, &kernel.OpError{Op: "box", Err: err}
	}
	return extrude("box", p, origin.Y, y)
}

// Cylinder creates a cylinder whose axis starts at base and runs length
// along the given model axis.
func (k *SdfxKernel) Cylinder(base geom.Vec, axis geom.Axis, radius, length float64) (kernel.Solid, error) {
	if !positive(radius, length) {
		return nil, kernel.Errorf("cylinder", "radius %g and length %g must be positive", radius, length)
	}
	s, err := sdf.Cylinder3D(length, radius, 0)
	if err != nil {
		return nil, &kernel.OpError{Op: "cylinder", Err: err}
	}
	var r sdf.M44
	switch axis {
	case geom.AxisX:
		r = sdf.RotateY(math.Pi / 2)
	case geom.AxisY:
		r = sdf.RotateX(-math.Pi / 2)
	case geom.AxisZ:
		r = sdf.RotateZ(0)
	default:
		return nil, kernel.Errorf("cylinder", "unknown axis %v", axis)
	}
	u := axis.Unit()
	c := v3.Vec{
		X: base.X + u.X*length/2,
		Y: base.Y + u.Y*length/2,
		Z: base.Z + u.Z*length/2,
	}
	return wrap(sdf.Transform3D(s, sdf.Translate3d(c).Mul(r))), nil
}

// Sweep extrudes p along a straight path parallel to the Y axis. The
// profile plane sits at the start of the path.
func (k *SdfxKernel) Sweep(p profile.Profile, path geom.Segment) (kernel.Solid, error) {
	d := path.Vector()
	if math.Abs(d.X) > geom.Tolerance || math.Abs(d.Z) > geom.Tolerance {
		return nil, kernel.Errorf("sweep", "path %v is not parallel to the Y axis", d)
	}
	if !positive(math.Abs(d.Y)) {
		return nil, kernel.Errorf("sweep", "path has zero length")
	}
	return extrude("sweep", p, math.Min(path.From.Y, path.To.Y), math.Abs(d.Y))
}

// treat applies fn to each listed edge of a prism and rebuilds it.
func treat(op string, s kernel.Solid, edges []int, fn func(profile.Profile, int) (profile.Profile, error)) (kernel.Solid, error) {
	w, err := unwrap(op, s)
	if err != nil {
		return nil, err
	}
	if w.prism == nil {
		return nil, kernel.Errorf(op, "edges of combined or transformed solids cannot be addressed")
	}
	if len(edges) == 0 {
		return nil, kernel.Errorf(op, "no edges given")
	}
	p := w.prism.profile
	for _, e := range edges {
		p, err = fn(p, e)
		if err != nil {
			return nil, &kernel.OpError{Op: op, Err: err}
		}
	}
	return extrude(op, p, w.prism.y0, w.prism.length)
}

// Chamfer bevels longitudinal edges of a prism.
func (k *SdfxKernel) Chamfer(s kernel.Solid, edges []int, size float64) (kernel.Solid, error) {
	return treat("chamfer", s, edges, func(p profile.Profile, e int) (profile.Profile, error) {
		return p.Chamfer(e, size)
	})
}

// Fillet rounds longitudinal edges of a prism.
func (k *SdfxKernel) Fillet(s kernel.Solid, edges []int, radius float64) (kernel.Solid, error) {
	return treat("fillet", s, edges, func(p profile.Profile, e int) (profile.Profile, error) {
		return p.Fillet(e, radius, profile.DefaultFacets)
	})
}

func unwrapAll(op string, parts []kernel.Solid) ([]sdf.SDF3, error) {
	out := make([]sdf.SDF3, 0, len(parts))
	for _, p := range parts {
		w, err := unwrap(op, p)
		if err != nil {
			return nil, err
		}
		out = append(out, w.s)
	}
	return out, nil
}

// Union returns the union of the given solids.
func (k *SdfxKernel) Union(parts ...kernel.Solid) (kernel.Solid, error) {
	if len(parts) == 0 {
		return nil, kernel.Errorf("union", "no solids given")
	}
	ss, err := unwrapAll("union", parts)
	if err != nil {
		return nil, err
	}
	if len(ss) == 1 {
		return wrap(ss[0]), nil
	}
	return wrap(sdf.Union3D(ss...)), nil
}

// Difference returns a minus every tool.
func (k *SdfxKernel) Difference(a kernel.Solid, tools ...kernel.Solid) (kernel.Solid, error) {
	w, err := unwrap("difference", a)
	if err != nil {
		return nil, err
	}
	if len(tools) == 0 {
		return wrap(w.s), nil
	}
	ts, err := unwrapAll("difference", tools)
	if err != nil {
		return nil, err
	}
	tool := ts[0]
	if len(ts) > 1 {
		tool = sdf.Union3D(ts...)
	}
	return wrap(sdf.Difference3D(w.s, tool)), nil
}

// Mirror reflects s across an axis-aligned plane.
func (k *SdfxKernel) Mirror(s kernel.Solid, plane geom.Plane) (kernel.Solid, error) {
	w, err := unwrap("mirror", s)
	if err != nil {
		return nil, err
	}
	axis, ok := plane.AlignedAxis()
	if !ok {
		return nil, kernel.Errorf("mirror", "plane normal %v is not axis aligned", plane.Normal)
	}
	var m sdf.M44
	switch axis {
	case geom.AxisX:
		m = sdf.MirrorYZ()
	case geom.AxisY:
		m = sdf.MirrorXZ()
	default:
		m = sdf.MirrorXY()
	}
	p := vec(plane.Point)
	m = sdf.Translate3d(p).Mul(m).Mul(sdf.Translate3d(v3.Vec{X: -p.X, Y: -p.Y, Z: -p.Z}))
	return wrap(sdf.Transform3D(w.s, m)), nil
}

// Translate moves a solid by (x, y, z).
func (k *SdfxKernel) Translate(s kernel.Solid, x, y, z float64) kernel.Solid {
	m := sdf.Translate3d(v3.Vec{X: x, Y: y, Z: z})
	return wrap(sdf.Transform3D(mustUnwrap(s), m))
}

// Rotate rotates a solid about the origin, X first, then Y, then Z.
func (k *SdfxKernel) Rotate(s kernel.Solid, r geom.Rotation) kernel.Solid {
	xRad := r.X * math.Pi / 180.0
	yRad := r.Y * math.Pi / 180.0
	zRad := r.Z * math.Pi / 180.0

	m := sdf.RotateZ(zRad).Mul(sdf.RotateY(yRad)).Mul(sdf.RotateX(xRad))
	return wrap(sdf.Transform3D(mustUnwrap(s), m))
}

// ToMesh converts a solid to a triangle mesh using marching cubes.
func (k *SdfxKernel) ToMesh(s kernel.Solid) (*kernel.Mesh, error) {
	w, err := unwrap("mesh", s)
	if err != nil {
		return nil, err
	}

	renderer := render.NewMarchingCubesUniform(k.meshCells)
	triangles := render.ToTriangles(w.s, renderer)

	numTri := len(triangles)
	numVerts := numTri * 3

	vertices := make([]float32, 0, numVerts*3)
	normals := make([]float32, 0, numVerts*3)
	indices := make([]uint32, 0, numVerts)

	for i, tri := range triangles {
		n := tri.Normal()
		nx := float32(n.X)
		ny := float32(n.Y)
		nz := float32(n.Z)

		for j := 0; j < 3; j++ {
			v := tri[j]
			vertices = append(vertices, float32(v.X), float32(v.Y), float32(v.Z))
			normals = append(normals, nx, ny, nz)
			indices = append(indices, uint32(i*3+j))
		}
	}

	return &kernel.Mesh{
		Vertices: vertices,
		Normals:  normals,
		Indices:  indices,
	}, nil
}
