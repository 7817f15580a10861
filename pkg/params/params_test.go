package params

import (
	"bytes"
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func referenceSet() Set {
	return Set{
		Length: 4000, Height: 600,
		TopWidth: 300, TopHeight: 150,
		BottomWidth: 400, BottomHeight: 150,
		MiddleWidth: 250, MiddleHeight: 300,
		HoleDepth: 100, HoleHeight: 300,
		AngleX: 0, AngleY: 0, AngleZ: 0,
		ConcreteGrade: 4, SteelGrade: 1,
		BarDiameter: 16, ConcreteCover: 30, BarSpacing: 150, BendingRoller: 4,
		BarHeight: 0, HookLength: 0, BarDepth: 60,
	}
}

func TestReadReference(t *testing.T) {
	b, err := Read(referenceSet())
	require.NoError(t, err)

	assert.Equal(t, 4000.0, b.Length)
	assert.Equal(t, 400.0, b.Width, "width is max(top, bottom)")
	assert.Equal(t, 4, b.ConcreteGrade)
	assert.Equal(t, "C30/37", ConcreteGradeName(b.ConcreteGrade))
	assert.Equal(t, "B500B", SteelGradeName(b.SteelGrade))
	assert.True(t, b.Rotation().IsZero())
}

func TestReadWidthFromTop(t *testing.T) {
	s := referenceSet()
	s[TopWidth] = 500
	b, err := Read(s)
	require.NoError(t, err)
	assert.Equal(t, 500.0, b.Width)
}

func TestReadRoundTrip(t *testing.T) {
	b, err := Read(referenceSet())
	require.NoError(t, err)
	again, err := Read(b.Set())
	require.NoError(t, err)
	assert.Equal(t, b, again)
}

func TestReadMissing(t *testing.T) {
	s := referenceSet()
	delete(s, Length)
	delete(s, BarSpacing)

	_, err := Read(s)
	var pe *ParameterError
	require.True(t, errors.As(err, &pe))
	assert.Equal(t, BarSpacing, pe.Name, "missing names are reported sorted")
	assert.Equal(t, []string{Length}, pe.Others)
	assert.Contains(t, err.Error(), "missing")
}

func TestReadInvalid(t *testing.T) {
	tests := []struct {
		name  string
		param string
		value float64
	}{
		{"zero length", Length, 0},
		{"negative height", Height, -1},
		{"zero top width", TopWidth, 0},
		{"zero bar diameter", BarDiameter, 0},
		{"zero spacing", BarSpacing, 0},
		{"negative cover", ConcreteCover, -5},
		{"negative bar depth", BarDepth, -1},
		{"nan", MiddleWidth, math.NaN()},
		{"inf", AngleZ, math.Inf(1)},
		{"fractional grade", ConcreteGrade, 1.5},
		{"grade out of range", SteelGrade, float64(len(SteelGrades))},
		{"negative grade", ConcreteGrade, -1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := referenceSet()
			s[tt.param] = tt.value
			_, err := Read(s)
			var pe *ParameterError
			require.True(t, errors.As(err, &pe), "got %v", err)
			assert.Equal(t, tt.param, pe.Name)
		})
	}
}

func TestReadAllowsZeroOffsets(t *testing.T) {
	s := referenceSet()
	s[ConcreteCover] = 0
	s[HoleDepth] = 0
	s[HookLength] = 0
	_, err := Read(s)
	assert.NoError(t, err)
}

func TestCanonicalName(t *testing.T) {
	tests := []struct {
		in   string
		want string
		ok   bool
	}{
		{"TopWidth", TopWidth, true},
		{"top-width", TopWidth, true},
		{"top_width", TopWidth, true},
		{"topWidth", TopWidth, true},
		{"BAR_DEPTH", BarDepth, true},
		{"angle-x", AngleX, true},
		{"width", "", false},
		{"", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := CanonicalName(tt.in)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSetClone(t *testing.T) {
	s := referenceSet()
	c := s.Clone()
	c[Length] = 1
	assert.Equal(t, 4000.0, s[Length])
}

func TestLoadYAML(t *testing.T) {
	src := `
length: 4000
height: 600
top-width: 300
top_height: 150
BottomWidth: 400
bottom-height: 150
middle-width: 250
middle-height: 300
hole-depth: 100
hole-height: 300
angle-x: 0
angle-y: 0
angle-z: 90
concrete-grade: C30/37
steel-grade: 1
bar-diameter: 16
concrete-cover: 30
bar-spacing: 150
bending-roller: 4
bar-height: 0
hook-length: 0
bar-depth: 60
`
	s, err := LoadYAML(strings.NewReader(src))
	require.NoError(t, err)
	assert.Equal(t, 4.0, s[ConcreteGrade])
	assert.Equal(t, 90.0, s[AngleZ])

	b, err := Read(s)
	require.NoError(t, err)
	assert.Equal(t, 300.0, b.TopWidth)
}

func TestLoadYAMLErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want string
	}{
		{"unknown key", "flange: 3\n", "flange"},
		{"unknown grade", "concrete-grade: C999\n", ConcreteGrade},
		{"string dimension", "length: long\n", Length},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadYAML(strings.NewReader(tt.src))
			var pe *ParameterError
			require.True(t, errors.As(err, &pe), "got %v", err)
			assert.Equal(t, tt.want, pe.Name)
		})
	}

	_, err := LoadYAML(strings.NewReader("length: [1, 2"))
	assert.Error(t, err)
}

func TestLoadYAMLEmpty(t *testing.T) {
	s, err := LoadYAML(strings.NewReader(""))
	require.NoError(t, err)
	assert.Empty(t, s)
}

func TestWriteYAML(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteYAML(&buf, referenceSet()))

	s, err := LoadYAML(&buf)
	require.NoError(t, err)
	assert.Equal(t, referenceSet(), s)
}
