package beam

import (
	"github.com/chazu/precast/pkg/geom"
	"github.com/chazu/precast/pkg/kernel"
	"github.com/chazu/precast/pkg/params"
	"github.com/chazu/precast/pkg/profile"
)

// Section constants of the beam profile, in millimetres.
const (
	notchWidth   = 60.0
	notchDepth   = 45.0
	chamferSize  = 20.0
	kinkHeight   = 153.0
	reliefDrop   = 100.0
	reliefReach  = -10.0
	filletRadius = 100.0
	holeRadius   = 45.5
)

// bottomChamferEdge is the outer top edge of the bottom slab.
const bottomChamferEdge = 3

// reliefFilletEdges are the web/top-flange haunch and the bottom-flange kink.
var reliefFilletEdges = []int{0, 2}

// reliefPolygon is the closed outline cut from the side of one quadrant,
// in the XZ plane at y = 0.
func reliefPolygon(b params.Beam) []geom.Vec {
	w, h := b.Width, b.Height
	start := geom.Vec{X: (w - b.MiddleWidth) / 2, Z: h - b.TopHeight}
	return []geom.Vec{
		start,
		{X: (w - b.MiddleWidth) / 2, Z: b.BottomHeight},
		{X: (w - b.BottomWidth) / 2, Z: kinkHeight},
		{X: reliefReach, Z: kinkHeight},
		{X: reliefReach, Z: h - reliefDrop},
		{X: (w - b.TopWidth) / 2, Z: h - reliefDrop},
		start,
	}
}

// buildSolid models one quarter of the beam (x <= w/2, y <= L/2), then
// mirrors it across both centre planes.
func (g *Generator) buildSolid(b params.Beam) (kernel.Solid, error) {
	k := g.kernel
	fail := stageErr(StageSolid)
	w, h, half := b.Width, b.Height, b.Length/2

	top, err := k.Box(geom.Vec{X: (w - b.TopWidth) / 2, Z: h - b.TopHeight}, b.TopWidth/2, half, b.TopHeight)
	if err != nil {
		return nil, fail("top slab", err)
	}
	notch, err := k.Box(geom.Vec{X: (w - b.TopWidth) / 2, Z: h - notchDepth}, notchWidth, half, notchDepth)
	if err != nil {
		return nil, fail("top notch", err)
	}
	if top, err = k.Difference(top, notch); err != nil {
		return nil, fail("top notch cut", err)
	}

	middle, err := k.Box(geom.Vec{Z: b.BottomHeight}, w/2, half, b.MiddleHeight)
	if err != nil {
		return nil, fail("middle slab", err)
	}

	bottom, err := k.Box(geom.Vec{X: (w - b.BottomWidth) / 2}, b.BottomWidth/2, half, b.BottomHeight)
	if err != nil {
		return nil, fail("bottom slab", err)
	}
	if bottom, err = k.Chamfer(bottom, []int{bottomChamferEdge}, chamferSize); err != nil {
		return nil, fail("bottom chamfer", err)
	}

	quadrant, err := k.Union(top, middle, bottom)
	if err != nil {
		return nil, fail("slab union", err)
	}
	g.log.Debug().Str("stage", StageSolid).
		Float64("width", w).Float64("height", h).Float64("half_length", half).
		Msg("slabs joined")

	outline, err := profile.FromPolyline(reliefPolygon(b))
	if err != nil {
		return nil, fail("relief outline", err)
	}
	relief, err := k.Sweep(outline, geom.Segment{To: geom.Vec{Y: half}})
	if err != nil {
		return nil, fail("relief sweep", err)
	}
	if relief, err = k.Fillet(relief, reliefFilletEdges, filletRadius); err != nil {
		return nil, fail("relief fillet", err)
	}

	hole, err := k.Cylinder(geom.Vec{Y: b.HoleDepth, Z: b.HoleHeight}, geom.AxisX, holeRadius, w)
	if err != nil {
		return nil, fail("hole", err)
	}

	if quadrant, err = k.Difference(quadrant, relief, hole); err != nil {
		return nil, fail("relief and hole cut", err)
	}

	beam := quadrant
	for _, plane := range []struct {
		name  string
		plane geom.Plane
	}{
		{"width", geom.NewPlane(geom.Vec{X: w / 2}, geom.Vec{X: 1})},
		{"length", geom.NewPlane(geom.Vec{Y: half}, geom.Vec{Y: 1})},
	} {
		mirrored, err := k.Mirror(beam, plane.plane)
		if err != nil {
			return nil, fail("mirror across "+plane.name, err)
		}
		if beam, err = k.Union(beam, mirrored); err != nil {
			return nil, fail("union across "+plane.name, err)
		}
	}
	g.log.Debug().Str("stage", StageSolid).Msg("beam mirrored")
	return beam, nil
}
