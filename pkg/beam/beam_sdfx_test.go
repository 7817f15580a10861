package beam

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chazu/precast/pkg/geom"
	"github.com/chazu/precast/pkg/kernel/sdfx"
	"github.com/chazu/precast/pkg/params"
)

// sectionProbes sample the reference section; each is checked in all four
// quadrants of the mirrored solid.
var sectionProbes = []struct {
	name   string
	p      geom.Vec
	inside bool
}{
	{"web", geom.Vec{X: 150, Y: 1000, Z: 300}, true},
	{"top slab", geom.Vec{X: 150, Y: 1000, Z: 590}, true},
	{"bottom flange", geom.Vec{X: 10, Y: 1000, Z: 50}, true},
	{"beside hole", geom.Vec{X: 150, Y: 200, Z: 300}, true},
	{"hole", geom.Vec{X: 150, Y: 100, Z: 300}, false},
	{"relief", geom.Vec{X: 30, Y: 1000, Z: 300}, false},
	{"chamfer", geom.Vec{X: 3, Y: 1000, Z: 147}, false},
	{"notch", geom.Vec{X: 60, Y: 1000, Z: 590}, false},
	{"above beam", geom.Vec{X: 150, Y: 1000, Z: 620}, false},
}

func quadrants(p geom.Vec, w, l float64) []geom.Vec {
	return []geom.Vec{
		p,
		{X: w - p.X, Y: p.Y, Z: p.Z},
		{X: p.X, Y: l - p.Y, Z: p.Z},
		{X: w - p.X, Y: l - p.Y, Z: p.Z},
	}
}

func TestGenerateSdfxSection(t *testing.T) {
	res, err := New(sdfx.New(sdfx.WithMeshCells(40))).Generate(referenceSet())
	require.NoError(t, err)
	solid := res.Solids()[0].Solid

	min, max := solid.BoundingBox()
	for i, want := range [3]float64{400, 4000, 600} {
		assert.InDelta(t, 0, min[i], 1e-6, "min[%d]", i)
		assert.InDelta(t, want, max[i], 1e-6, "max[%d]", i)
	}

	for _, pr := range sectionProbes {
		for _, q := range quadrants(pr.p, 400, 4000) {
			assert.Equal(t, pr.inside, solid.Contains(q), "%s at %v", pr.name, q)
		}
	}
}

func TestGenerateSdfxRotated(t *testing.T) {
	set := referenceSet()
	set[params.AngleZ] = 90
	res, err := New(sdfx.New(sdfx.WithMeshCells(40))).Generate(set)
	require.NoError(t, err)
	solid := res.Solids()[0].Solid

	min, max := solid.BoundingBox()
	assert.InDelta(t, -4000, min[0], 1e-6)
	assert.InDelta(t, 0, max[0], 1e-6)
	assert.InDelta(t, 0, min[1], 1e-6)
	assert.InDelta(t, 400, max[1], 1e-6)

	rot := geom.Rotation{Z: 90}
	for _, pr := range sectionProbes {
		q := rot.Apply(pr.p)
		assert.Equal(t, pr.inside, solid.Contains(q), "%s at %v", pr.name, q)
	}
}

func TestGenerateSdfxMesh(t *testing.T) {
	k := sdfx.New(sdfx.WithMeshCells(40))
	res, err := New(k).Generate(referenceSet())
	require.NoError(t, err)

	mesh, err := k.ToMesh(res.Solids()[0].Solid)
	require.NoError(t, err)
	assert.False(t, mesh.IsEmpty())

	lo, hi := mesh.Bounds()
	assert.InDelta(t, 4000, float64(hi[1]-lo[1]), 150)
	assert.InDelta(t, 600, float64(hi[2]-lo[2]), 120)
}
