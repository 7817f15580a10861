// Package params reads the flat parameter mapping supplied by the
// parameter-input layer into a typed Beam record. The reader never invents
// values: a missing or degenerate parameter is a *ParameterError.
package params

import (
	"fmt"
	"math"
	"sort"
	"strings"
	"unicode"

	"github.com/chazu/precast/pkg/geom"
)

// Parameter names, as used by parameter files, scripts and handles.
const (
	Length        = "Length"
	Height        = "Height"
	TopWidth      = "TopWidth"
	TopHeight     = "TopHeight"
	BottomWidth   = "BottomWidth"
	BottomHeight  = "BottomHeight"
	MiddleWidth   = "MiddleWidth"
	MiddleHeight  = "MiddleHeight"
	HoleDepth     = "HoleDepth"
	HoleHeight    = "HoleHeight"
	AngleX        = "AngleX"
	AngleY        = "AngleY"
	AngleZ        = "AngleZ"
	ConcreteGrade = "ConcreteGrade"
	SteelGrade    = "SteelGrade"
	BarDiameter   = "BarDiameter"
	ConcreteCover = "ConcreteCover"
	BarSpacing    = "BarSpacing"
	BendingRoller = "BendingRoller"
	BarHeight     = "BarHeight"
	HookLength    = "HookLength"
	BarDepth      = "BarDepth"
)

// Names lists every parameter the reader requires.
var Names = []string{
	Length, Height,
	TopWidth, TopHeight,
	BottomWidth, BottomHeight,
	MiddleWidth, MiddleHeight,
	HoleDepth, HoleHeight,
	AngleX, AngleY, AngleZ,
	ConcreteGrade, SteelGrade,
	BarDiameter, ConcreteCover, BarSpacing, BendingRoller,
	BarHeight, HookLength, BarDepth,
}

// positiveNames must be strictly greater than zero.
var positiveNames = map[string]bool{
	Length: true, Height: true,
	TopWidth: true, TopHeight: true,
	BottomWidth: true, BottomHeight: true,
	MiddleWidth: true, MiddleHeight: true,
	BarDiameter: true, BarSpacing: true, BendingRoller: true,
}

// nonNegativeNames may be zero but not negative.
var nonNegativeNames = map[string]bool{
	HoleDepth: true, HoleHeight: true,
	ConcreteCover: true, BarHeight: true, HookLength: true, BarDepth: true,
}

// canonical maps a folded spelling (lower case, no separators) to the
// parameter name.
var canonical = func() map[string]string {
	m := make(map[string]string, len(Names))
	for _, n := range Names {
		m[fold(n)] = n
	}
	return m
}()

func fold(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r == '-' || r == '_' || unicode.IsSpace(r) {
			continue
		}
		b.WriteRune(unicode.ToLower(r))
	}
	return b.String()
}

// CanonicalName maps spellings such as "top-width", "top_width" or
// "topWidth" to the parameter name ("TopWidth").
func CanonicalName(s string) (string, bool) {
	n, ok := canonical[fold(s)]
	return n, ok
}

// Set is the flat parameter mapping handed over by the input layer.
// Grades are integer indices into ConcreteGrades and SteelGrades; angles
// are degrees; lengths are millimetres.
type Set map[string]float64

// Clone returns an independent copy of s.
func (s Set) Clone() Set {
	out := make(Set, len(s))
	for k, v := range s {
		out[k] = v
	}
	return out
}

// Missing returns the required names absent from s, sorted.
func (s Set) Missing() []string {
	var out []string
	for _, n := range Names {
		if _, ok := s[n]; !ok {
			out = append(out, n)
		}
	}
	sort.Strings(out)
	return out
}

// Beam is the typed, per-generation record of all beam parameters.
type Beam struct {
	Length float64 `json:"length" yaml:"length" msgpack:"length"`
	Height float64 `json:"height" yaml:"height" msgpack:"height"`
	// Width is the overall section width, max(TopWidth, BottomWidth).
	Width float64 `json:"width" yaml:"width" msgpack:"width"`

	TopWidth     float64 `json:"top_width" yaml:"top_width" msgpack:"top_width"`
	TopHeight    float64 `json:"top_height" yaml:"top_height" msgpack:"top_height"`
	BottomWidth  float64 `json:"bottom_width" yaml:"bottom_width" msgpack:"bottom_width"`
	BottomHeight float64 `json:"bottom_height" yaml:"bottom_height" msgpack:"bottom_height"`
	MiddleWidth  float64 `json:"middle_width" yaml:"middle_width" msgpack:"middle_width"`
	MiddleHeight float64 `json:"middle_height" yaml:"middle_height" msgpack:"middle_height"`

	HoleDepth  float64 `json:"hole_depth" yaml:"hole_depth" msgpack:"hole_depth"`
	HoleHeight float64 `json:"hole_height" yaml:"hole_height" msgpack:"hole_height"`

	AngleX float64 `json:"angle_x" yaml:"angle_x" msgpack:"angle_x"`
	AngleY float64 `json:"angle_y" yaml:"angle_y" msgpack:"angle_y"`
	AngleZ float64 `json:"angle_z" yaml:"angle_z" msgpack:"angle_z"`

	ConcreteGrade int `json:"concrete_grade" yaml:"concrete_grade" msgpack:"concrete_grade"`
	SteelGrade    int `json:"steel_grade" yaml:"steel_grade" msgpack:"steel_grade"`

	BarDiameter   float64 `json:"bar_diameter" yaml:"bar_diameter" msgpack:"bar_diameter"`
	ConcreteCover float64 `json:"concrete_cover" yaml:"concrete_cover" msgpack:"concrete_cover"`
	BarSpacing    float64 `json:"bar_spacing" yaml:"bar_spacing" msgpack:"bar_spacing"`
	BendingRoller float64 `json:"bending_roller" yaml:"bending_roller" msgpack:"bending_roller"`
	BarHeight     float64 `json:"bar_height" yaml:"bar_height" msgpack:"bar_height"`
	HookLength    float64 `json:"hook_length" yaml:"hook_length" msgpack:"hook_length"`
	BarDepth      float64 `json:"bar_depth" yaml:"bar_depth" msgpack:"bar_depth"`
}

// Rotation returns the beam's global orientation.
func (b Beam) Rotation() geom.Rotation {
	return geom.Rotation{X: b.AngleX, Y: b.AngleY, Z: b.AngleZ}
}

// Read copies every parameter of s into a Beam. It fails on the first
// missing, non-finite or degenerate value, checking names in a fixed order.
func Read(s Set) (Beam, error) {
	if missing := s.Missing(); len(missing) > 0 {
		return Beam{}, &ParameterError{Name: missing[0], Reason: "missing", Others: missing[1:]}
	}
	for _, n := range Names {
		v := s[n]
		switch {
		case math.IsNaN(v) || math.IsInf(v, 0):
			return Beam{}, &ParameterError{Name: n, Value: v, Reason: "not a finite number"}
		case positiveNames[n] && v <= 0:
			return Beam{}, &ParameterError{Name: n, Value: v, Reason: "must be positive"}
		case nonNegativeNames[n] && v < 0:
			return Beam{}, &ParameterError{Name: n, Value: v, Reason: "must not be negative"}
		}
	}

	concrete, err := gradeIndex(s, ConcreteGrade, len(ConcreteGrades))
	if err != nil {
		return Beam{}, err
	}
	steel, err := gradeIndex(s, SteelGrade, len(SteelGrades))
	if err != nil {
		return Beam{}, err
	}

	b := Beam{
		Length:        s[Length],
		Height:        s[Height],
		TopWidth:      s[TopWidth],
		TopHeight:     s[TopHeight],
		BottomWidth:   s[BottomWidth],
		BottomHeight:  s[BottomHeight],
		MiddleWidth:   s[MiddleWidth],
		MiddleHeight:  s[MiddleHeight],
		HoleDepth:     s[HoleDepth],
		HoleHeight:    s[HoleHeight],
		AngleX:        s[AngleX],
		AngleY:        s[AngleY],
		AngleZ:        s[AngleZ],
		ConcreteGrade: concrete,
		SteelGrade:    steel,
		BarDiameter:   s[BarDiameter],
		ConcreteCover: s[ConcreteCover],
		BarSpacing:    s[BarSpacing],
		BendingRoller: s[BendingRoller],
		BarHeight:     s[BarHeight],
		HookLength:    s[HookLength],
		BarDepth:      s[BarDepth],
	}
	b.Width = math.Max(b.TopWidth, b.BottomWidth)
	return b, nil
}

func gradeIndex(s Set, name string, n int) (int, error) {
	v := s[name]
	i := int(v)
	if float64(i) != v || i < 0 || i >= n {
		return 0, &ParameterError{Name: name, Value: v, Reason: fmt.Sprintf("grade index must be an integer in [0,%d)", n)}
	}
	return i, nil
}

// Set returns the parameters of b as a flat mapping. Read(b.Set()) == b.
func (b Beam) Set() Set {
	return Set{
		Length:        b.Length,
		Height:        b.Height,
		TopWidth:      b.TopWidth,
		TopHeight:     b.TopHeight,
		BottomWidth:   b.BottomWidth,
		BottomHeight:  b.BottomHeight,
		MiddleWidth:   b.MiddleWidth,
		MiddleHeight:  b.MiddleHeight,
		HoleDepth:     b.HoleDepth,
		HoleHeight:    b.HoleHeight,
		AngleX:        b.AngleX,
		AngleY:        b.AngleY,
		AngleZ:        b.AngleZ,
		ConcreteGrade: float64(b.ConcreteGrade),
		SteelGrade:    float64(b.SteelGrade),
		BarDiameter:   b.BarDiameter,
		ConcreteCover: b.ConcreteCover,
		BarSpacing:    b.BarSpacing,
		BendingRoller: b.BendingRoller,
		BarHeight:     b.BarHeight,
		HookLength:    b.HookLength,
		BarDepth:      b.BarDepth,
	}
}
