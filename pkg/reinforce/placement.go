package reinforce

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/chazu/precast/pkg/geom"
)

// LinearPlacement repeats a shape at even pitch along the line From-To.
type LinearPlacement struct {
	Mark       int      `json:"mark" yaml:"mark" msgpack:"mark"`
	Shape      Shape    `json:"shape" yaml:"shape" msgpack:"shape"`
	From       geom.Vec `json:"from" yaml:"from" msgpack:"from"`
	To         geom.Vec `json:"to" yaml:"to" msgpack:"to"`
	CoverStart float64  `json:"cover_start" yaml:"cover_start" msgpack:"cover_start"`
	CoverEnd   float64  `json:"cover_end" yaml:"cover_end" msgpack:"cover_end"`
	// Spacing is the requested maximum distance between bars; Pitch is the
	// distance actually used.
	Spacing float64 `json:"spacing" yaml:"spacing" msgpack:"spacing"`
	Pitch   float64 `json:"pitch" yaml:"pitch" msgpack:"pitch"`
	Count   int     `json:"count" yaml:"count" msgpack:"count"`
}

// MaxBars is the largest bar count one placement may hold.
const MaxBars = 100000

// NewLinearPlacementByDistance places bars from `from` to `to`, leaving
// coverStart and coverEnd free at the ends, at most spacing apart. The
// count is ceil(span/spacing)+1 so the first and last bar sit on the
// covered ends.
func NewLinearPlacementByDistance(mark int, shape Shape, from, to geom.Vec,
	coverStart, coverEnd, spacing float64) (LinearPlacement, error) {

	if spacing <= 0 {
		return LinearPlacement{}, &ShapeError{Reason: fmt.Sprintf("bar spacing %g must be positive", spacing)}
	}
	if coverStart < 0 || coverEnd < 0 {
		return LinearPlacement{}, &ShapeError{Reason: "placement cover must not be negative"}
	}
	span := geom.Distance(from, to) - coverStart - coverEnd
	if span < 0 {
		return LinearPlacement{}, &ShapeError{Reason: fmt.Sprintf(
			"placement covers %g+%g exceed the distance %g", coverStart, coverEnd, geom.Distance(from, to))}
	}

	p := LinearPlacement{
		Mark:       mark,
		Shape:      shape,
		From:       from,
		To:         to,
		CoverStart: coverStart,
		CoverEnd:   coverEnd,
		Spacing:    spacing,
		Count:      1,
	}
	if span > geom.Tolerance {
		gaps := math.Ceil(span/spacing - geom.Tolerance)
		if gaps >= MaxBars {
			return LinearPlacement{}, &ShapeError{Reason: fmt.Sprintf(
				"bar spacing %g over %g needs more than %d bars", spacing, span, MaxBars)}
		}
		n := int(gaps) + 1
		p.Count = n
		p.Pitch = span / float64(n-1)
	}
	return p, nil
}

// BarPositions returns the insertion point of every bar.
func (p LinearPlacement) BarPositions() []geom.Vec {
	d := r3.Sub(p.To, p.From)
	if l := r3.Norm(d); l > 0 {
		d = r3.Scale(1/l, d)
	}
	out := make([]geom.Vec, p.Count)
	for i := range out {
		out[i] = r3.Add(p.From, r3.Scale(p.CoverStart+float64(i)*p.Pitch, d))
	}
	return out
}

// Bars returns the centreline of every bar in model coordinates.
func (p LinearPlacement) Bars() [][]geom.Vec {
	pos := p.BarPositions()
	out := make([][]geom.Vec, len(pos))
	for i, at := range pos {
		out[i] = p.Shape.Translate(at)
	}
	return out
}

// Rotate returns the placement rotated about the model origin.
func (p LinearPlacement) Rotate(r geom.Rotation) LinearPlacement {
	out := p
	out.Shape = p.Shape.Rotate(r)
	out.From = r.Apply(p.From)
	out.To = r.Apply(p.To)
	return out
}

// TotalLength is the developed length of all bars.
func (p LinearPlacement) TotalLength() float64 {
	return float64(p.Count) * p.Shape.Length()
}
