// Package reinforce builds reinforcement bar shapes and linear bar
// placements. Shapes are immutable values: Rotate returns a new shape, so a
// single shape can seed several placements without aliasing.
package reinforce

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/chazu/precast/pkg/geom"
)

// BendingShapeType classifies a bar shape for scheduling.
type BendingShapeType int

const (
	LongitudinalBar BendingShapeType = iota
	Stirrup
	Freeform
)

func (t BendingShapeType) String() string {
	switch t {
	case LongitudinalBar:
		return "longitudinal"
	case Stirrup:
		return "stirrup"
	case Freeform:
		return "freeform"
	}
	return fmt.Sprintf("BendingShapeType(%d)", int(t))
}

// ShapeProperties are the material and bending properties of a bar.
type ShapeProperties struct {
	Diameter      float64          `json:"diameter" yaml:"diameter" msgpack:"diameter"`
	BendingRoller float64          `json:"bending_roller" yaml:"bending_roller" msgpack:"bending_roller"`
	SteelGrade    int              `json:"steel_grade" yaml:"steel_grade" msgpack:"steel_grade"`
	ConcreteGrade int              `json:"concrete_grade" yaml:"concrete_grade" msgpack:"concrete_grade"`
	ShapeType     BendingShapeType `json:"shape_type" yaml:"shape_type" msgpack:"shape_type"`
}

// Rebar returns the properties of a reinforcing bar.
func Rebar(diameter, roller float64, steelGrade, concreteGrade int, t BendingShapeType) ShapeProperties {
	return ShapeProperties{
		Diameter:      diameter,
		BendingRoller: roller,
		SteelGrade:    steelGrade,
		ConcreteGrade: concreteGrade,
		ShapeType:     t,
	}
}

// BendingRadius is the centreline radius of a bend.
func (p ShapeProperties) BendingRadius() float64 {
	return p.BendingRoller * p.Diameter / 2
}

// ConcreteCover offsets the bar from the ends and the bottom of its local
// frame. A negative Bottom moves the bar below the local X axis.
type ConcreteCover struct {
	Left   float64 `json:"left" yaml:"left" msgpack:"left"`
	Right  float64 `json:"right" yaml:"right" msgpack:"right"`
	Bottom float64 `json:"bottom" yaml:"bottom" msgpack:"bottom"`
}

// LeftRightBottom returns a cover with the given offsets.
func LeftRightBottom(left, right, bottom float64) ConcreteCover {
	return ConcreteCover{Left: left, Right: right, Bottom: bottom}
}

// AutoHook asks the builder to derive the hook length from the diameter.
const AutoHook = -1

// autoHookFactor times the diameter gives the derived hook length.
const autoHookFactor = 10

// bendFacets is the number of segments per 90 degree bend.
const bendFacets = 4

// ShapeError reports a bar shape that cannot be built.
type ShapeError struct {
	Reason string
}

func (e *ShapeError) Error() string {
	return "reinforcement shape: " + e.Reason
}

// Shape is a bar centreline in model orientation, relative to the point
// the placement puts it at.
type Shape struct {
	Properties ShapeProperties `json:"properties" yaml:"properties" msgpack:"properties"`
	Points     []geom.Vec      `json:"points" yaml:"points" msgpack:"points"`
	// Developed is the cut length of the bar, bends measured along the arc.
	Developed float64 `json:"developed_length" yaml:"developed_length" msgpack:"developed_length"`
	// StartHook and EndHook are the resolved hook lengths, 0 for none.
	StartHook float64 `json:"start_hook" yaml:"start_hook" msgpack:"start_hook"`
	EndHook   float64 `json:"end_hook" yaml:"end_hook" msgpack:"end_hook"`
}

// Length returns the developed length of the bar.
func (s Shape) Length() float64 {
	return s.Developed
}

// Rotate returns a copy of s rotated about its local origin.
func (s Shape) Rotate(r geom.Rotation) Shape {
	out := s
	out.Points = make([]geom.Vec, len(s.Points))
	for i, p := range s.Points {
		out.Points[i] = r.Apply(p)
	}
	return out
}

// Translate returns the centreline moved by d.
func (s Shape) Translate(d geom.Vec) []geom.Vec {
	out := make([]geom.Vec, len(s.Points))
	for i, p := range s.Points {
		out[i] = r3.Add(p, d)
	}
	return out
}

// NewLongitudinalWithHooks builds a straight bar of the given length along
// local +X with optional 90 degree hooks at both ends, bent towards local
// +Y, then orients it by rot.
//
// The straight part runs from cover.Left to length-cover.Right at
// local Z = cover.Bottom + diameter/2. A hook length is measured from the
// outside of the straight part to the tip of the leg; AutoHook derives it
// as ten diameters and 0 omits the hook.
func NewLongitudinalWithHooks(length float64, rot geom.Rotation, props ShapeProperties,
	cover ConcreteCover, startHook, endHook float64) (Shape, error) {

	if props.Diameter <= 0 {
		return Shape{}, &ShapeError{Reason: fmt.Sprintf("diameter %g must be positive", props.Diameter)}
	}
	if props.BendingRoller <= 0 {
		return Shape{}, &ShapeError{Reason: fmt.Sprintf("bending roller %g must be positive", props.BendingRoller)}
	}

	start, err := resolveHook("start", startHook, props)
	if err != nil {
		return Shape{}, err
	}
	end, err := resolveHook("end", endHook, props)
	if err != nil {
		return Shape{}, err
	}

	rb := props.BendingRadius()
	x0 := cover.Left
	x1 := length - cover.Right
	run := x1 - x0
	need := 0.0
	if start > 0 {
		need += rb
	}
	if end > 0 {
		need += rb
	}
	if run <= need || run <= 0 {
		return Shape{}, &ShapeError{Reason: fmt.Sprintf(
			"straight length %g after cover leaves no room for bends of radius %g", run, rb)}
	}

	z := cover.Bottom + props.Diameter/2
	var pts []geom.Vec
	developed := run

	if start > 0 {
		pts = append(pts, geom.Vec{X: x0, Y: start, Z: z})
		pts = append(pts, bend(geom.Vec{X: x0 + rb, Y: rb, Z: z}, rb, math.Pi, 1.5*math.Pi)...)
		developed += hookAllowance(start, rb)
	} else {
		pts = append(pts, geom.Vec{X: x0, Z: z})
	}
	if end > 0 {
		pts = append(pts, bend(geom.Vec{X: x1 - rb, Y: rb, Z: z}, rb, 1.5*math.Pi, 2*math.Pi)...)
		pts = append(pts, geom.Vec{X: x1, Y: end, Z: z})
		developed += hookAllowance(end, rb)
	} else {
		pts = append(pts, geom.Vec{X: x1, Z: z})
	}

	s := Shape{
		Properties: props,
		Points:     pts,
		Developed:  developed,
		StartHook:  start,
		EndHook:    end,
	}
	return s.Rotate(rot), nil
}

func resolveHook(which string, hook float64, props ShapeProperties) (float64, error) {
	switch {
	case hook == AutoHook:
		hook = autoHookFactor * props.Diameter
	case hook == 0:
		return 0, nil
	case hook < 0:
		return 0, &ShapeError{Reason: fmt.Sprintf("%s hook %g must be positive, 0 or %d", which, hook, AutoHook)}
	}
	if rb := props.BendingRadius(); hook <= rb {
		return 0, &ShapeError{Reason: fmt.Sprintf("%s hook %g does not clear bending radius %g", which, hook, rb)}
	}
	return hook, nil
}

// hookAllowance is the length a hook adds to the straight part: the leg
// beyond the bend plus the arc, less the corner the bend cuts off.
func hookAllowance(hook, rb float64) float64 {
	return (hook - rb) + math.Pi*rb/2 - rb
}

// bend returns the arc of radius r about c in the local XY plane from
// angle a0 to a1, both ends included.
func bend(c geom.Vec, r, a0, a1 float64) []geom.Vec {
	out := make([]geom.Vec, 0, bendFacets+1)
	for i := 0; i <= bendFacets; i++ {
		a := a0 + (a1-a0)*float64(i)/bendFacets
		out = append(out, geom.Vec{X: c.X + r*math.Cos(a), Y: c.Y + r*math.Sin(a), Z: c.Z})
	}
	return out
}
