package kerneltest

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chazu/precast/pkg/geom"
	"github.com/chazu/precast/pkg/kernel"
)

func TestBoxAndUnion(t *testing.T) {
	k := New()
	a, err := k.Box(geom.Vec{}, 10, 20, 30)
	require.NoError(t, err)
	b, err := k.Box(geom.Vec{X: 5, Y: -5}, 10, 10, 10)
	require.NoError(t, err)

	u, err := k.Union(a, b)
	require.NoError(t, err)
	min, max := u.BoundingBox()
	assert.Equal(t, [3]float64{0, -5, 0}, min)
	assert.Equal(t, [3]float64{15, 20, 30}, max)
	assert.True(t, u.Contains(geom.Vec{X: 1, Y: 1, Z: 1}))
	assert.False(t, u.Contains(geom.Vec{X: 16}))

	assert.Equal(t, []string{OpBox, OpBox, OpUnion}, k.Ops())
	assert.Equal(t, 2, k.Calls()[2].Operands)
}

func TestFailOn(t *testing.T) {
	k := New().FailOn(OpBox, 2)
	_, err := k.Box(geom.Vec{}, 1, 1, 1)
	require.NoError(t, err)

	_, err = k.Box(geom.Vec{}, 1, 1, 1)
	var opErr *kernel.OpError
	require.ErrorAs(t, err, &opErr)
	assert.Equal(t, OpBox, opErr.Op)
	assert.True(t, errors.Is(err, ErrInjected))

	_, err = k.Box(geom.Vec{}, 1, 1, 1)
	assert.NoError(t, err, "only the n-th call fails")
	assert.Equal(t, 3, k.Count(OpBox))
}

func TestCylinderAlongAxis(t *testing.T) {
	k := New()
	c, err := k.Cylinder(geom.Vec{Y: 100, Z: 300}, geom.AxisX, 45.5, 400)
	require.NoError(t, err)
	min, max := c.BoundingBox()
	assert.Equal(t, [3]float64{0, 54.5, 254.5}, min)
	assert.Equal(t, [3]float64{400, 145.5, 345.5}, max)
}

func TestMirrorAndRotate(t *testing.T) {
	k := New()
	a, err := k.Box(geom.Vec{}, 200, 100, 50)
	require.NoError(t, err)

	m, err := k.Mirror(a, geom.NewPlane(geom.Vec{X: 200}, geom.Vec{X: 1}))
	require.NoError(t, err)
	min, max := m.BoundingBox()
	assert.InDelta(t, 200, min[0], 1e-9)
	assert.InDelta(t, 400, max[0], 1e-9)

	r := k.Rotate(a, geom.Rotation{Z: 90})
	min, max = r.BoundingBox()
	assert.InDelta(t, -100, min[0], 1e-9)
	assert.InDelta(t, 0, max[0], 1e-9)
	assert.InDelta(t, 200, max[1], 1e-9)
}

func TestForeignSolid(t *testing.T) {
	k := New()
	_, err := k.Union(foreign{})
	assert.Error(t, err)
}

func TestToMesh(t *testing.T) {
	k := New()
	a, err := k.Box(geom.Vec{}, 1, 2, 3)
	require.NoError(t, err)
	m, err := k.ToMesh(a)
	require.NoError(t, err)
	assert.Equal(t, 8, m.VertexCount())
	assert.Equal(t, 12, m.TriangleCount())
	lo, hi := m.Bounds()
	assert.Equal(t, [3]float32{0, 0, 0}, lo)
	assert.Equal(t, [3]float32{1, 2, 3}, hi)
	assert.InDelta(t, 6, m.Volume(), 1e-9)
}

type foreign struct{}

func (foreign) BoundingBox() (min, max [3]float64) { return min, max }
func (foreign) Contains(geom.Vec) bool             { return false }
