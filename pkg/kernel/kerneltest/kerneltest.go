// Package kerneltest provides a recording kernel for tests of code that
// drives a kernel.Kernel. Solids are axis-aligned boxes; every call is
// recorded and any operation can be made to fail.
package kerneltest

import (
	"errors"
	"math"
	"sync"

	"github.com/chazu/precast/pkg/geom"
	"github.com/chazu/precast/pkg/kernel"
	"github.com/chazu/precast/pkg/profile"
)

// Operation names as recorded in Call.Op.
const (
	OpBox        = "box"
	OpCylinder   = "cylinder"
	OpSweep      = "sweep"
	OpChamfer    = "chamfer"
	OpFillet     = "fillet"
	OpUnion      = "union"
	OpDifference = "difference"
	OpMirror     = "mirror"
	OpTranslate  = "translate"
	OpRotate     = "rotate"
	OpToMesh     = "tomesh"
)

// ErrInjected is the cause of every injected failure.
var ErrInjected = errors.New("injected failure")

// Call is one recorded kernel call.
type Call struct {
	Op       string
	Origin   geom.Vec
	Size     [3]float64
	Axis     geom.Axis
	Radius   float64
	Edges    []int
	Profile  profile.Profile
	Path     geom.Segment
	Plane    geom.Plane
	Rotation geom.Rotation
	Operands int
}

// Solid is a box-shaped stand-in for a kernel solid.
type Solid struct {
	Min, Max [3]float64
	// From is the operation that made the solid.
	From string
}

func (s *Solid) BoundingBox() (min, max [3]float64) {
	return s.Min, s.Max
}

func (s *Solid) Contains(p geom.Vec) bool {
	q := [3]float64{p.X, p.Y, p.Z}
	for i := range q {
		if q[i] < s.Min[i] || q[i] > s.Max[i] {
			return false
		}
	}
	return true
}

// Kernel records calls and returns box solids.
type Kernel struct {
	mu     sync.Mutex
	calls  []Call
	failOp string
	failN  int
	seen   map[string]int
}

var _ kernel.Kernel = (*Kernel)(nil)

// New returns a Kernel that never fails.
func New() *Kernel {
	return &Kernel{seen: make(map[string]int)}
}

// FailOn makes the n-th call (1-based) of op fail with ErrInjected.
func (k *Kernel) FailOn(op string, n int) *Kernel {
	k.mu.Lock()
	defer k.mu.Unlock()
	k.failOp, k.failN = op, n
	return k
}

// Calls returns the calls made so far.
func (k *Kernel) Calls() []Call {
	k.mu.Lock()
	defer k.mu.Unlock()
	return append([]Call(nil), k.calls...)
}

// Ops returns the operation names of the calls made so far.
func (k *Kernel) Ops() []string {
	calls := k.Calls()
	out := make([]string, len(calls))
	for i, c := range calls {
		out[i] = c.Op
	}
	return out
}

// Count returns how often op was called.
func (k *Kernel) Count(op string) int {
	k.mu.Lock()
	defer k.mu.Unlock()
	return k.seen[op]
}

func (k *Kernel) record(c Call) error {
	k.mu.Lock()
	defer k.mu.Unlock()
	k.calls = append(k.calls, c)
	k.seen[c.Op]++
	if c.Op == k.failOp && k.seen[c.Op] == k.failN {
		return &kernel.OpError{Op: c.Op, Err: ErrInjected}
	}
	return nil
}

func box(op string, min, max [3]float64) *Solid {
	return &Solid{Min: min, Max: max, From: op}
}

func solid(op string, s kernel.Solid) (*Solid, error) {
	fs, ok := s.(*Solid)
	if !ok || fs == nil {
		return nil, kernel.Errorf(op, "solid %T was not made by kerneltest", s)
	}
	return fs, nil
}

func (k *Kernel) Box(origin geom.Vec, x, y, z float64) (kernel.Solid, error) {
	if err := k.record(Call{Op: OpBox, Origin: origin, Size: [3]float64{x, y, z}}); err != nil {
		return nil, err
	}
	if x <= 0 || y <= 0 || z <= 0 {
		return nil, kernel.Errorf(OpBox, "dimensions must be positive, got %gx%gx%g", x, y, z)
	}
	return box(OpBox,
		[3]float64{origin.X, origin.Y, origin.Z},
		[3]float64{origin.X + x, origin.Y + y, origin.Z + z}), nil
}

func (k *Kernel) Cylinder(base geom.Vec, axis geom.Axis, radius, length float64) (kernel.Solid, error) {
	if err := k.record(Call{Op: OpCylinder, Origin: base, Axis: axis, Radius: radius, Size: [3]float64{length}}); err != nil {
		return nil, err
	}
	min := [3]float64{base.X - radius, base.Y - radius, base.Z - radius}
	max := [3]float64{base.X + radius, base.Y + radius, base.Z + radius}
	min[axis] = [3]float64{base.X, base.Y, base.Z}[axis]
	max[axis] = min[axis] + length
	return box(OpCylinder, min, max), nil
}

func (k *Kernel) Sweep(p profile.Profile, path geom.Segment) (kernel.Solid, error) {
	if err := k.record(Call{Op: OpSweep, Profile: p, Path: path}); err != nil {
		return nil, err
	}
	min := [3]float64{math.Inf(1), math.Min(path.From.Y, path.To.Y), math.Inf(1)}
	max := [3]float64{math.Inf(-1), math.Max(path.From.Y, path.To.Y), math.Inf(-1)}
	for _, pt := range p.Points() {
		min[0], max[0] = math.Min(min[0], pt.X), math.Max(max[0], pt.X)
		min[2], max[2] = math.Min(min[2], pt.Y), math.Max(max[2], pt.Y)
	}
	return box(OpSweep, min, max), nil
}

func (k *Kernel) treat(op string, s kernel.Solid, edges []int, r float64) (kernel.Solid, error) {
	if err := k.record(Call{Op: op, Edges: append([]int(nil), edges...), Radius: r}); err != nil {
		return nil, err
	}
	fs, err := solid(op, s)
	if err != nil {
		return nil, err
	}
	return box(op, fs.Min, fs.Max), nil
}

func (k *Kernel) Chamfer(s kernel.Solid, edges []int, size float64) (kernel.Solid, error) {
	return k.treat(OpChamfer, s, edges, size)
}

func (k *Kernel) Fillet(s kernel.Solid, edges []int, radius float64) (kernel.Solid, error) {
	return k.treat(OpFillet, s, edges, radius)
}

func (k *Kernel) Union(parts ...kernel.Solid) (kernel.Solid, error) {
	if err := k.record(Call{Op: OpUnion, Operands: len(parts)}); err != nil {
		return nil, err
	}
	if len(parts) == 0 {
		return nil, kernel.Errorf(OpUnion, "no solids")
	}
	out := box(OpUnion,
		[3]float64{math.Inf(1), math.Inf(1), math.Inf(1)},
		[3]float64{math.Inf(-1), math.Inf(-1), math.Inf(-1)})
	for _, p := range parts {
		fs, err := solid(OpUnion, p)
		if err != nil {
			return nil, err
		}
		for i := 0; i < 3; i++ {
			out.Min[i] = math.Min(out.Min[i], fs.Min[i])
			out.Max[i] = math.Max(out.Max[i], fs.Max[i])
		}
	}
	return out, nil
}

func (k *Kernel) Difference(a kernel.Solid, tools ...kernel.Solid) (kernel.Solid, error) {
	if err := k.record(Call{Op: OpDifference, Operands: 1 + len(tools)}); err != nil {
		return nil, err
	}
	fs, err := solid(OpDifference, a)
	if err != nil {
		return nil, err
	}
	for _, t := range tools {
		if _, err := solid(OpDifference, t); err != nil {
			return nil, err
		}
	}
	return box(OpDifference, fs.Min, fs.Max), nil
}

func (k *Kernel) Mirror(s kernel.Solid, plane geom.Plane) (kernel.Solid, error) {
	if err := k.record(Call{Op: OpMirror, Plane: plane}); err != nil {
		return nil, err
	}
	fs, err := solid(OpMirror, s)
	if err != nil {
		return nil, err
	}
	a := plane.Reflect(geom.Vec{X: fs.Min[0], Y: fs.Min[1], Z: fs.Min[2]})
	b := plane.Reflect(geom.Vec{X: fs.Max[0], Y: fs.Max[1], Z: fs.Max[2]})
	return bounds(OpMirror, a, b), nil
}

func bounds(op string, a, b geom.Vec) *Solid {
	return box(op,
		[3]float64{math.Min(a.X, b.X), math.Min(a.Y, b.Y), math.Min(a.Z, b.Z)},
		[3]float64{math.Max(a.X, b.X), math.Max(a.Y, b.Y), math.Max(a.Z, b.Z)})
}

func (k *Kernel) Translate(s kernel.Solid, x, y, z float64) kernel.Solid {
	_ = k.record(Call{Op: OpTranslate, Origin: geom.Vec{X: x, Y: y, Z: z}})
	fs, err := solid(OpTranslate, s)
	if err != nil {
		panic(err)
	}
	return box(OpTranslate,
		[3]float64{fs.Min[0] + x, fs.Min[1] + y, fs.Min[2] + z},
		[3]float64{fs.Max[0] + x, fs.Max[1] + y, fs.Max[2] + z})
}

// Rotate returns the bounds of the rotated corners.
func (k *Kernel) Rotate(s kernel.Solid, r geom.Rotation) kernel.Solid {
	_ = k.record(Call{Op: OpRotate, Rotation: r})
	fs, err := solid(OpRotate, s)
	if err != nil {
		panic(err)
	}
	min := geom.Vec{X: math.Inf(1), Y: math.Inf(1), Z: math.Inf(1)}
	max := geom.Vec{X: math.Inf(-1), Y: math.Inf(-1), Z: math.Inf(-1)}
	for i := 0; i < 8; i++ {
		c := geom.Vec{X: fs.Min[0], Y: fs.Min[1], Z: fs.Min[2]}
		if i&1 != 0 {
			c.X = fs.Max[0]
		}
		if i&2 != 0 {
			c.Y = fs.Max[1]
		}
		if i&4 != 0 {
			c.Z = fs.Max[2]
		}
		c = r.Apply(c)
		min = geom.Vec{X: math.Min(min.X, c.X), Y: math.Min(min.Y, c.Y), Z: math.Min(min.Z, c.Z)}
		max = geom.Vec{X: math.Max(max.X, c.X), Y: math.Max(max.Y, c.Y), Z: math.Max(max.Z, c.Z)}
	}
	return bounds(OpRotate, min, max)
}

// ToMesh returns the 12 triangles of the solid's box.
func (k *Kernel) ToMesh(s kernel.Solid) (*kernel.Mesh, error) {
	if err := k.record(Call{Op: OpToMesh}); err != nil {
		return nil, err
	}
	fs, err := solid(OpToMesh, s)
	if err != nil {
		return nil, err
	}
	m := &kernel.Mesh{}
	for i := 0; i < 8; i++ {
		v := [3]float64{fs.Min[0], fs.Min[1], fs.Min[2]}
		for j := 0; j < 3; j++ {
			if i&(1<<j) != 0 {
				v[j] = fs.Max[j]
			}
		}
		m.Vertices = append(m.Vertices, float32(v[0]), float32(v[1]), float32(v[2]))
		m.Normals = append(m.Normals, 0, 0, 0)
	}
	m.Indices = append(m.Indices, boxIndices...)
	return m, nil
}

// boxIndices triangulates the corners numbered by their max-bit pattern.
var boxIndices = []uint32{
	0, 2, 1, 1, 2, 3, // z min
	4, 5, 6, 5, 7, 6, // z max
	0, 1, 4, 1, 5, 4, // y min
	2, 6, 3, 3, 6, 7, // y max
	0, 4, 2, 2, 4, 6, // x min
	1, 3, 5, 3, 7, 5, // x max
}
