// Package tessellate turns the solids of a generated beam into triangle
// meshes using a geometry kernel. One mesh is produced per solid element.
package tessellate

import (
	"fmt"

	"github.com/chazu/precast/pkg/beam"
	"github.com/chazu/precast/pkg/geom"
	"github.com/chazu/precast/pkg/kernel"
)

// Option configures Tessellate.
type Option func(*options)

type options struct {
	offset geom.Vec
}

// WithOffset moves every solid by v before meshing, e.g. to place a beam
// in a host model.
func WithOffset(v geom.Vec) Option {
	return func(o *options) { o.offset = v }
}

// Tessellate produces one triangle mesh per solid element of res using k.
// Meshes are named after their element. Placements carry no kernel solid
// and are skipped. The result is never mutated.
func Tessellate(res *beam.Result, k kernel.Kernel, opts ...Option) ([]*kernel.Mesh, error) {
	if res == nil {
		return nil, nil
	}
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	var meshes []*kernel.Mesh
	for _, e := range res.Solids() {
		solid := e.Solid
		if o.offset != (geom.Vec{}) {
			solid = k.Translate(solid, o.offset.X, o.offset.Y, o.offset.Z)
		}
		mesh, err := k.ToMesh(solid)
		if err != nil {
			return nil, fmt.Errorf("tessellate: ToMesh failed for %s: %w", e.Name, err)
		}
		mesh.PartName = e.Name
		meshes = append(meshes, mesh)
	}
	return meshes, nil
}
