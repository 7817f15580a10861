// Package handle describes the draggable controls a host offers for a
// generated beam and turns a drag back into a parameter edit.
package handle

import (
	"fmt"

	"github.com/google/uuid"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/chazu/precast/pkg/geom"
	"github.com/chazu/precast/pkg/params"
)

// Direction says how an anchor displacement is measured.
type Direction int

const (
	// PointDir measures along the line from the reference to the anchor.
	PointDir Direction = iota
	XDir
	YDir
	ZDir
)

func (d Direction) String() string {
	switch d {
	case PointDir:
		return "point"
	case XDir:
		return "x"
	case YDir:
		return "y"
	case ZDir:
		return "z"
	}
	return fmt.Sprintf("Direction(%d)", int(d))
}

// Edit pairs a parameter with the direction that drives it.
type Edit struct {
	Param     string    `json:"param" yaml:"param" msgpack:"param"`
	Direction Direction `json:"direction" yaml:"direction" msgpack:"direction"`
}

// Namespace seeds the name-based handle IDs, so a handle keeps its ID
// across regenerations.
var Namespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("https://github.com/chazu/precast/handle"))

// Descriptor is a two-point handle: dragging Anchor away from Reference
// edits the parameters in Edits.
type Descriptor struct {
	ID        uuid.UUID `json:"id" yaml:"id" msgpack:"id"`
	Name      string    `json:"name" yaml:"name" msgpack:"name"`
	Anchor    geom.Vec  `json:"anchor" yaml:"anchor" msgpack:"anchor"`
	Reference geom.Vec  `json:"reference" yaml:"reference" msgpack:"reference"`
	Edits     []Edit    `json:"edits" yaml:"edits" msgpack:"edits"`
	// Direction constrains how the host moves the anchor.
	Direction Direction `json:"direction" yaml:"direction" msgpack:"direction"`
	Visible   bool      `json:"visible" yaml:"visible" msgpack:"visible"`
	// Symmetric handles edit a dimension laid out about a centre line, so
	// the parameter changes by twice the anchor displacement.
	Symmetric bool `json:"symmetric" yaml:"symmetric" msgpack:"symmetric"`
}

// New returns a visible point-direction handle editing param.
func New(name string, anchor, reference geom.Vec, param string) Descriptor {
	return Descriptor{
		ID:        uuid.NewSHA1(Namespace, []byte(name)),
		Name:      name,
		Anchor:    anchor,
		Reference: reference,
		Edits:     []Edit{{Param: param, Direction: PointDir}},
		Direction: PointDir,
		Visible:   true,
	}
}

// NewSymmetric is New for a handle whose dimension is centred.
func NewSymmetric(name string, anchor, reference geom.Vec, param string) Descriptor {
	d := New(name, anchor, reference, param)
	d.Symmetric = true
	return d
}

// Value is the distance between anchor and reference.
func (d Descriptor) Value() float64 {
	return geom.Distance(d.Anchor, d.Reference)
}

// axis returns the unit vector of dir for this handle.
func (d Descriptor) axis(dir Direction) (geom.Vec, error) {
	switch dir {
	case XDir:
		return geom.AxisX.Unit(), nil
	case YDir:
		return geom.AxisY.Unit(), nil
	case ZDir:
		return geom.AxisZ.Unit(), nil
	}
	v := r3.Sub(d.Anchor, d.Reference)
	n := r3.Norm(v)
	if n < geom.Tolerance {
		return geom.Vec{}, fmt.Errorf("handle %s: anchor coincides with reference", d.Name)
	}
	return r3.Scale(1/n, v), nil
}

// Transform returns d with both points mapped through m.
func (d Descriptor) Transform(m geom.Matrix) Descriptor {
	out := d
	out.Anchor = m.MulVec(d.Anchor)
	out.Reference = m.MulVec(d.Reference)
	out.Edits = append([]Edit(nil), d.Edits...)
	return out
}

// TransformAll maps every handle through m.
func TransformAll(list []Descriptor, m geom.Matrix) []Descriptor {
	out := make([]Descriptor, len(list))
	for i, d := range list {
		out[i] = d.Transform(m)
	}
	return out
}

// Find returns the handle called name.
func Find(list []Descriptor, name string) (Descriptor, bool) {
	for _, d := range list {
		if d.Name == name {
			return d, true
		}
	}
	return Descriptor{}, false
}

// Drag returns a copy of set with every parameter d edits moved by delta,
// or 2·delta for a symmetric handle. A result that is not positive is a
// *params.ParameterError; set is never modified.
func Drag(set params.Set, d Descriptor, delta float64) (params.Set, error) {
	if len(d.Edits) == 0 {
		return nil, fmt.Errorf("handle %s: edits no parameter", d.Name)
	}
	step := delta
	if d.Symmetric {
		step *= 2
	}

	out := set.Clone()
	for _, e := range d.Edits {
		old, ok := set[e.Param]
		if !ok {
			return nil, &params.ParameterError{Name: e.Param, Reason: "missing"}
		}
		v := old + step
		if v <= 0 {
			return nil, &params.ParameterError{Name: e.Param, Value: v, Reason: fmt.Sprintf("drag of %s by %g must leave a positive value", d.Name, delta)}
		}
		out[e.Param] = v
	}
	return out, nil
}

// DragTo moves the anchor of d towards p. The motion is first constrained
// to the handle's Direction; each edit then takes the share of that motion
// along its own direction.
func DragTo(set params.Set, d Descriptor, p geom.Vec) (params.Set, error) {
	if len(d.Edits) == 0 {
		return nil, fmt.Errorf("handle %s: edits no parameter", d.Name)
	}
	along, err := d.axis(d.Direction)
	if err != nil {
		return nil, err
	}
	move := r3.Scale(r3.Dot(r3.Sub(p, d.Anchor), along), along)

	out := set
	for _, e := range d.Edits {
		ax, err := d.axis(e.Direction)
		if err != nil {
			return nil, err
		}
		one := d
		one.Edits = []Edit{e}
		if out, err = Drag(out, one, r3.Dot(move, ax)); err != nil {
			return nil, err
		}
	}
	return out, nil
}
