package beam

import (
	"fmt"
	"math"

	"github.com/chazu/precast/pkg/geom"
	"github.com/chazu/precast/pkg/params"
	"github.com/chazu/precast/pkg/reinforce"
)

// barOrientation turns the local bar axis upright with the hooks pointing
// to -X.
var barOrientation = geom.Rotation{X: 90, Y: -90}

// mirroredRow turns the second row's hooks to +X.
var mirroredRow = geom.Rotation{Z: 180}

// reinforcement is the output of the placer.
type reinforcement struct {
	rows         []reinforce.LinearPlacement
	intersection geom.Vec
	barDepth     float64
	clamped      bool
}

// placeReinforcement finds where the haunch line meets the vertical bar
// line, limits the bar depth so no bar reaches below that point, and lays
// two rows of hooked bars along the full length.
func (g *Generator) placeReinforcement(b params.Beam) (reinforcement, error) {
	fail := stageErr(StageReinforcement)
	w, h := b.Width, b.Height

	haunch := geom.NewLine(
		geom.Vec{X: (w - b.MiddleWidth) / 2, Z: h - b.TopHeight},
		geom.Vec{X: (w - b.TopWidth) / 2, Z: h - reliefDrop},
	)
	x := (w-b.TopWidth)/2 + notchWidth + b.ConcreteCover
	vertical := geom.NewLine(
		geom.Vec{X: x, Z: h - b.TopHeight},
		geom.Vec{X: x, Z: h},
	)
	ip, err := geom.Intersect(haunch, vertical)
	if err != nil {
		return reinforcement{}, fail("bar line intersection", err)
	}

	out := reinforcement{intersection: ip, barDepth: b.BarDepth}
	if h-out.barDepth < ip.Z-geom.Tolerance {
		if ip.Z > h+geom.Tolerance {
			return reinforcement{}, fail("bar depth clamp", fmt.Errorf(
				"haunch meets the bar line at z=%.1f, above the beam top %.1f", ip.Z, h))
		}
		out.barDepth = math.Max(0, h-ip.Z)
		out.clamped = true
		g.log.Warn().Str("stage", StageReinforcement).
			Float64("bar_depth", b.BarDepth).Float64("clamped_to", out.barDepth).
			Float64("intersection_z", ip.Z).
			Msg("bar depth clamped to haunch")
	}

	props := reinforce.Rebar(b.BarDiameter, b.BendingRoller, b.SteelGrade, b.ConcreteGrade, reinforce.LongitudinalBar)
	cover := reinforce.LeftRightBottom(b.ConcreteCover, b.ConcreteCover, -b.ConcreteCover)
	shape, err := reinforce.NewLongitudinalWithHooks(b.BarHeight+out.barDepth, barOrientation, props, cover,
		reinforce.AutoHook, b.HookLength)
	if err != nil {
		return reinforcement{}, fail("bar shape", err)
	}

	z := h - out.barDepth
	rows := []struct {
		x     float64
		shape reinforce.Shape
	}{
		{(w-b.TopWidth)/2 + notchWidth, shape},
		{b.TopWidth - notchWidth, shape.Rotate(mirroredRow)},
	}
	for i, r := range rows {
		p, err := reinforce.NewLinearPlacementByDistance(i+1, r.shape,
			geom.Vec{X: r.x, Z: z}, geom.Vec{X: r.x, Y: b.Length, Z: z}, 0, 0, b.BarSpacing)
		if err != nil {
			return reinforcement{}, fail(fmt.Sprintf("bar row %d", i+1), err)
		}
		out.rows = append(out.rows, p)
	}

	g.log.Debug().Str("stage", StageReinforcement).
		Float64("bar_depth", out.barDepth).Int("bars_per_row", out.rows[0].Count).
		Float64("pitch", out.rows[0].Pitch).
		Msg("bars placed")
	return out, nil
}
