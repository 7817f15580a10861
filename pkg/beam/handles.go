package beam

import (
	"github.com/chazu/precast/pkg/geom"
	"github.com/chazu/precast/pkg/handle"
	"github.com/chazu/precast/pkg/params"
)

// Handle names.
const (
	HandleLength      = "Length"
	HandleHeight      = "Height"
	HandleTopWidth    = "TopWidth"
	HandleMiddleWidth = "MiddleWidth"
	HandleBottomWidth = "BottomWidth"
)

// bindHandles places the five dimension handles on the unrotated beam.
// Width handles sit on the left edge of their slab and pull towards +X.
func bindHandles(b params.Beam) []handle.Descriptor {
	w, h := b.Width, b.Height
	width := func(name, param string, slab, z float64) handle.Descriptor {
		left := (w - slab) / 2
		return handle.NewSymmetric(name, geom.Vec{X: left + slab, Z: z}, geom.Vec{X: left, Z: z}, param)
	}
	return []handle.Descriptor{
		handle.New(HandleLength, geom.Vec{Y: b.Length}, geom.Vec{}, params.Length),
		handle.New(HandleHeight, geom.Vec{Z: h}, geom.Vec{}, params.Height),
		width(HandleTopWidth, params.TopWidth, b.TopWidth, h-notchDepth),
		width(HandleMiddleWidth, params.MiddleWidth, b.MiddleWidth, h/2),
		width(HandleBottomWidth, params.BottomWidth, b.BottomWidth, kinkHeight),
	}
}
