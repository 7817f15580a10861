// Package beam generates a parametric precast bridge beam: the concrete
// solid, two rows of hooked projecting bars and the dimension handles,
// all turned by the beam's global rotation.
//
// Generation runs Reader -> Solid Builder -> Reinforcement Placer ->
// Handle Binder -> rotation and stops at the first failure.
package beam

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/chazu/precast/pkg/geom"
	"github.com/chazu/precast/pkg/handle"
	"github.com/chazu/precast/pkg/kernel"
	"github.com/chazu/precast/pkg/params"
	"github.com/chazu/precast/pkg/reinforce"
)

// Element names.
const (
	SolidName = "BridgeBeam"
	RowName   = "Reinforcement %d"
)

// CommonProperties are the display attributes attached to the solid.
type CommonProperties struct {
	Color int    `json:"color" yaml:"color" msgpack:"color"`
	Layer string `json:"layer" yaml:"layer" msgpack:"layer"`
	Pen   int    `json:"pen" yaml:"pen" msgpack:"pen"`
}

// DefaultProperties are used when no properties are configured.
var DefaultProperties = CommonProperties{Color: 1, Layer: "Precast", Pen: 1}

// Element is a generated model element.
type Element interface {
	ElementID() uuid.UUID
	ElementName() string
}

// SolidElement is the concrete body.
type SolidElement struct {
	ID    uuid.UUID
	Name  string
	Solid kernel.Solid
	Props CommonProperties
}

func (e SolidElement) ElementID() uuid.UUID { return e.ID }
func (e SolidElement) ElementName() string  { return e.Name }

// PlacementElement is one row of bars.
type PlacementElement struct {
	ID        uuid.UUID
	Name      string
	Placement reinforce.LinearPlacement
}

func (e PlacementElement) ElementID() uuid.UUID { return e.ID }
func (e PlacementElement) ElementName() string  { return e.Name }

// elementNamespace seeds name-based element IDs.
var elementNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("https://github.com/chazu/precast/element"))

func elementID(name string) uuid.UUID {
	return uuid.NewSHA1(elementNamespace, []byte(name))
}

// Result is the output of one generation pass.
type Result struct {
	Elements []Element
	Handles  []handle.Descriptor
	// Params are the parameters actually used; BarDepth holds the clamped
	// value when the nominal depth was too shallow.
	Params       params.Beam
	Intersection geom.Vec
	Warnings     []string
}

// Solids returns the solid elements of r.
func (r *Result) Solids() []SolidElement {
	var out []SolidElement
	for _, e := range r.Elements {
		if s, ok := e.(SolidElement); ok {
			out = append(out, s)
		}
	}
	return out
}

// Placements returns the bar rows of r.
func (r *Result) Placements() []PlacementElement {
	var out []PlacementElement
	for _, e := range r.Elements {
		if p, ok := e.(PlacementElement); ok {
			out = append(out, p)
		}
	}
	return out
}

// Set returns the parameter set to hand back to the host, including any
// clamped value.
func (r *Result) Set() params.Set {
	return r.Params.Set()
}

// Generator builds beams on a geometry kernel. It holds no per-beam state
// and may be reused.
type Generator struct {
	kernel kernel.Kernel
	log    zerolog.Logger
	props  CommonProperties
}

// Option configures a Generator.
type Option func(*Generator)

// WithLogger sets the logger. The default discards everything.
func WithLogger(l zerolog.Logger) Option {
	return func(g *Generator) { g.log = l }
}

// WithProperties sets the display attributes of the solid.
func WithProperties(p CommonProperties) Option {
	return func(g *Generator) { g.props = p }
}

// New returns a Generator using k.
func New(k kernel.Kernel, opts ...Option) *Generator {
	g := &Generator{
		kernel: k,
		log:    zerolog.Nop(),
		props:  DefaultProperties,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Generate reads set and builds the beam. Invalid parameters are reported
// as *params.ParameterError, construction failures as *GeometryError.
func (g *Generator) Generate(set params.Set) (*Result, error) {
	b, err := params.Read(set)
	if err != nil {
		return nil, err
	}
	g.log.Debug().Float64("length", b.Length).Float64("height", b.Height).
		Float64("width", b.Width).Msg("parameters read")

	solid, err := g.buildSolid(b)
	if err != nil {
		return nil, err
	}

	bars, err := g.placeReinforcement(b)
	if err != nil {
		return nil, err
	}

	res := &Result{Params: b, Intersection: bars.intersection}
	if bars.clamped {
		res.Warnings = append(res.Warnings, fmt.Sprintf(
			"%s %.1f reaches below the haunch; clamped to %.1f", params.BarDepth, b.BarDepth, bars.barDepth))
		res.Params.BarDepth = bars.barDepth
	}

	handles := bindHandles(b)

	rot := b.Rotation()
	if !rot.IsZero() {
		solid = g.kernel.Rotate(solid, rot)
	}
	res.Elements = append(res.Elements, SolidElement{
		ID:    elementID(SolidName),
		Name:  SolidName,
		Solid: solid,
		Props: g.props,
	})
	for _, p := range bars.rows {
		name := fmt.Sprintf(RowName, p.Mark)
		res.Elements = append(res.Elements, PlacementElement{
			ID:        elementID(name),
			Name:      name,
			Placement: p.Rotate(rot),
		})
	}
	res.Handles = handle.TransformAll(handles, rot.Matrix())

	g.log.Info().Int("elements", len(res.Elements)).Int("handles", len(res.Handles)).
		Int("warnings", len(res.Warnings)).Msg("beam generated")
	return res, nil
}

// Regenerate applies a drag of the named handle by delta to set and
// generates the edited beam.
func (g *Generator) Regenerate(set params.Set, res *Result, name string, delta float64) (params.Set, *Result, error) {
	h, ok := handle.Find(res.Handles, name)
	if !ok {
		return nil, nil, fmt.Errorf("no handle %q", name)
	}
	edited, err := handle.Drag(set, h, delta)
	if err != nil {
		return nil, nil, err
	}
	next, err := g.Generate(edited)
	if err != nil {
		return nil, nil, err
	}
	return edited, next, nil
}
