package sdfx

import (
	"errors"
	"math"
	"testing"

	"github.com/chazu/precast/pkg/geom"
	"github.com/chazu/precast/pkg/kernel"
	"github.com/chazu/precast/pkg/profile"
)

// testKernel uses a coarse grid so meshing stays fast.
func testKernel() *SdfxKernel {
	return New(WithMeshCells(40))
}

func mustBox(t *testing.T, k *SdfxKernel, o geom.Vec, x, y, z float64) kernel.Solid {
	t.Helper()
	s, err := k.Box(o, x, y, z)
	if err != nil {
		t.Fatalf("Box() error = %v", err)
	}
	return s
}

func assertBounds(t *testing.T, s kernel.Solid, wantMin, wantMax [3]float64, tol float64) {
	t.Helper()
	min, max := s.BoundingBox()
	for i := 0; i < 3; i++ {
		if math.Abs(min[i]-wantMin[i]) > tol {
			t.Errorf("min[%d] = %f, expected ~%f", i, min[i], wantMin[i])
		}
		if math.Abs(max[i]-wantMax[i]) > tol {
			t.Errorf("max[%d] = %f, expected ~%f", i, max[i], wantMax[i])
		}
	}
}

func TestBox(t *testing.T) {
	k := testKernel()
	box := mustBox(t, k, geom.Vec{}, 100, 50, 25)
	mesh, err := k.ToMesh(box)
	if err != nil {
		t.Fatalf("ToMesh failed: %v", err)
	}
	if mesh.IsEmpty() {
		t.Fatal("mesh is empty")
	}
	triCount := mesh.TriangleCount()
	if triCount == 0 {
		t.Fatal("expected non-zero triangle count")
	}
	// Verify vertex and index array sizes are consistent.
	if len(mesh.Vertices) != len(mesh.Normals) {
		t.Fatalf("vertices length %d != normals length %d", len(mesh.Vertices), len(mesh.Normals))
	}
	if len(mesh.Indices) != triCount*3 {
		t.Fatalf("indices length %d != triCount*3 %d", len(mesh.Indices), triCount*3)
	}
}

func TestBoxBoundingBox(t *testing.T) {
	k := testKernel()
	box := mustBox(t, k, geom.Vec{X: 50, Y: 0, Z: 450}, 150, 2000, 150)
	assertBounds(t, box, [3]float64{50, 0, 450}, [3]float64{200, 2000, 600}, 0.01)

	if !box.Contains(geom.Vec{X: 100, Y: 1000, Z: 500}) {
		t.Error("interior point reported outside")
	}
	if box.Contains(geom.Vec{X: 10, Y: 1000, Z: 500}) {
		t.Error("exterior point reported inside")
	}
}

func TestBoxRejectsBadDimensions(t *testing.T) {
	k := testKernel()
	for _, dims := range [][3]float64{{0, 1, 1}, {1, -1, 1}, {1, 1, math.NaN()}, {1, math.Inf(1), 1}} {
		_, err := k.Box(geom.Vec{}, dims[0], dims[1], dims[2])
		var oe *kernel.OpError
		if !errors.As(err, &oe) {
			t.Errorf("Box(%v) error = %v, want OpError", dims, err)
		}
	}
}

func TestCylinderAxes(t *testing.T) {
	k := testKernel()
	tests := []struct {
		axis             geom.Axis
		wantMin, wantMax [3]float64
	}{
		{geom.AxisX, [3]float64{0, 90, 290}, [3]float64{400, 110, 310}},
		{geom.AxisY, [3]float64{-10, 100, 290}, [3]float64{10, 500, 310}},
		{geom.AxisZ, [3]float64{-10, 90, 300}, [3]float64{10, 110, 700}},
	}
	for _, tt := range tests {
		t.Run(tt.axis.String(), func(t *testing.T) {
			base := geom.Vec{X: 0, Y: 100, Z: 300}
			if tt.axis == geom.AxisY {
				base = geom.Vec{Y: 100, Z: 300}
			}
			c, err := k.Cylinder(base, tt.axis, 10, 400)
			if err != nil {
				t.Fatalf("Cylinder() error = %v", err)
			}
			assertBounds(t, c, tt.wantMin, tt.wantMax, 0.5)
		})
	}
}

func TestDifference(t *testing.T) {
	k := testKernel()

	box := mustBox(t, k, geom.Vec{}, 100, 100, 100)
	boxMesh, err := k.ToMesh(box)
	if err != nil {
		t.Fatalf("ToMesh(box) failed: %v", err)
	}

	cyl, err := k.Cylinder(geom.Vec{X: -10, Y: 50, Z: 50}, geom.AxisX, 20, 120)
	if err != nil {
		t.Fatal(err)
	}
	diff, err := k.Difference(box, cyl)
	if err != nil {
		t.Fatalf("Difference() error = %v", err)
	}
	if diff.Contains(geom.Vec{X: 50, Y: 50, Z: 50}) {
		t.Error("hole centre still inside the solid")
	}
	if !diff.Contains(geom.Vec{X: 50, Y: 5, Z: 5}) {
		t.Error("corner material removed")
	}
	diffMesh, err := k.ToMesh(diff)
	if err != nil {
		t.Fatalf("ToMesh(diff) failed: %v", err)
	}
	// A box with a hole should have more triangles than a plain box.
	if diffMesh.TriangleCount() <= boxMesh.TriangleCount() {
		t.Fatalf("difference (%d triangles) should have more triangles than box (%d triangles)",
			diffMesh.TriangleCount(), boxMesh.TriangleCount())
	}
}

func TestDifferenceWithSeveralTools(t *testing.T) {
	k := testKernel()
	box := mustBox(t, k, geom.Vec{}, 100, 100, 100)
	a := mustBox(t, k, geom.Vec{X: -1, Y: -1, Z: -1}, 20, 20, 20)
	b := mustBox(t, k, geom.Vec{X: 81, Y: 81, Z: 81}, 20, 20, 20)
	diff, err := k.Difference(box, a, b)
	if err != nil {
		t.Fatal(err)
	}
	if diff.Contains(geom.Vec{X: 5, Y: 5, Z: 5}) || diff.Contains(geom.Vec{X: 95, Y: 95, Z: 95}) {
		t.Error("tool volume still inside the solid")
	}
	if !diff.Contains(geom.Vec{X: 50, Y: 50, Z: 50}) {
		t.Error("centre removed")
	}
}

func TestUnion(t *testing.T) {
	k := testKernel()
	box1 := mustBox(t, k, geom.Vec{}, 50, 50, 50)
	box2 := k.Translate(mustBox(t, k, geom.Vec{}, 50, 50, 50), 30, 0, 0)
	u, err := k.Union(box1, box2)
	if err != nil {
		t.Fatalf("Union() error = %v", err)
	}
	assertBounds(t, u, [3]float64{0, 0, 0}, [3]float64{80, 50, 50}, 0.01)
	if _, err := k.Union(); err == nil {
		t.Error("Union() of nothing should fail")
	}
	if _, err := k.Union(box1, nil); err == nil {
		t.Error("Union() with nil part should fail")
	}
}

func TestTranslate(t *testing.T) {
	k := testKernel()
	box := mustBox(t, k, geom.Vec{}, 10, 10, 10)
	translated := k.Translate(box, 100, 200, 300)
	assertBounds(t, translated, [3]float64{100, 200, 300}, [3]float64{110, 210, 310}, 0.5)
}

func TestRotate(t *testing.T) {
	k := testKernel()
	box := mustBox(t, k, geom.Vec{}, 100, 10, 10)

	// A long box along X rotated 90 degrees around Z should extend along Y instead.
	rotated := k.Rotate(box, geom.Rotation{Z: 90})
	min, max := rotated.BoundingBox()

	xExtent := max[0] - min[0]
	yExtent := max[1] - min[1]

	const tol = 1.0
	if math.Abs(xExtent-10) > tol {
		t.Errorf("rotated X extent = %f, expected ~10", xExtent)
	}
	if math.Abs(yExtent-100) > tol {
		t.Errorf("rotated Y extent = %f, expected ~100", yExtent)
	}
}

func TestMirror(t *testing.T) {
	k := testKernel()
	box := mustBox(t, k, geom.Vec{X: 10}, 40, 20, 20)
	m, err := k.Mirror(box, geom.NewPlane(geom.Vec{X: 100}, geom.Vec{X: 1}))
	if err != nil {
		t.Fatalf("Mirror() error = %v", err)
	}
	assertBounds(t, m, [3]float64{150, 0, 0}, [3]float64{190, 20, 20}, 0.01)

	my, err := k.Mirror(box, geom.NewPlane(geom.Vec{Y: 20}, geom.Vec{Y: 1}))
	if err != nil {
		t.Fatal(err)
	}
	assertBounds(t, my, [3]float64{10, 20, 0}, [3]float64{50, 40, 20}, 0.01)

	if _, err := k.Mirror(box, geom.NewPlane(geom.Vec{}, geom.Vec{X: 1, Y: 1})); err == nil {
		t.Error("mirror across a diagonal plane should fail")
	}
}

func TestChamfer(t *testing.T) {
	k := testKernel()
	box := mustBox(t, k, geom.Vec{}, 200, 100, 150)
	c, err := k.Chamfer(box, []int{3}, 20)
	if err != nil {
		t.Fatalf("Chamfer() error = %v", err)
	}
	// Edge 3 is the (x0, z1) longitudinal edge.
	if c.Contains(geom.Vec{X: 2, Y: 50, Z: 148}) {
		t.Error("chamfered corner still present")
	}
	if !c.Contains(geom.Vec{X: 198, Y: 50, Z: 148}) {
		t.Error("opposite corner removed")
	}

	u, _ := k.Union(box, box)
	if _, err := k.Chamfer(u, []int{0}, 5); err == nil {
		t.Error("chamfer of a combined solid should fail")
	}
	if _, err := k.Chamfer(box, []int{7}, 5); err == nil {
		t.Error("chamfer of a missing edge should fail")
	}
}

func TestSweepAndFillet(t *testing.T) {
	k := testKernel()
	p, err := profile.FromPolyline([]geom.Vec{
		{X: 0, Z: 0}, {X: 200, Z: 0}, {X: 200, Z: 200}, {X: 0, Z: 200}, {X: 0, Z: 0},
	})
	if err != nil {
		t.Fatal(err)
	}
	s, err := k.Sweep(p, geom.Segment{From: geom.Vec{}, To: geom.Vec{Y: 1000}})
	if err != nil {
		t.Fatalf("Sweep() error = %v", err)
	}
	assertBounds(t, s, [3]float64{0, 0, 0}, [3]float64{200, 1000, 200}, 0.01)

	f, err := k.Fillet(s, []int{2, 0}, 100)
	if err != nil {
		t.Fatalf("Fillet() error = %v", err)
	}
	if f.Contains(geom.Vec{X: 195, Y: 500, Z: 195}) {
		t.Error("filleted corner still present")
	}
	if !f.Contains(geom.Vec{X: 195, Y: 500, Z: 5}) {
		t.Error("untreated corner removed")
	}

	if _, err := k.Fillet(s, []int{1}, 500); err == nil {
		t.Error("oversized fillet should fail")
	}
	if _, err := k.Sweep(p, geom.Segment{To: geom.Vec{X: 1, Y: 1000}}); err == nil {
		t.Error("oblique sweep path should fail")
	}
	if _, err := k.Sweep(p, geom.Segment{}); err == nil {
		t.Error("zero-length sweep path should fail")
	}
}

type alienSolid struct{}

func (alienSolid) BoundingBox() (min, max [3]float64) { return }
func (alienSolid) Contains(geom.Vec) bool             { return false }

func TestForeignSolid(t *testing.T) {
	k := testKernel()
	box := mustBox(t, k, geom.Vec{}, 1, 1, 1)
	_, err := k.Difference(box, alienSolid{})
	if !errors.Is(err, errForeignSolid) {
		t.Errorf("Difference() error = %v, want errForeignSolid", err)
	}
}
