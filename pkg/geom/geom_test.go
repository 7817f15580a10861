package geom

import (
	"errors"
	"math"
	"testing"
)

func near(a, b float64) bool {
	return math.Abs(a-b) < 1e-6
}

func TestIntersect(t *testing.T) {
	tests := []struct {
		name string
		a, b Line
		want Vec
	}{
		{
			name: "axis cross",
			a:    NewLine(Vec{X: -1}, Vec{X: 1}),
			b:    NewLine(Vec{Y: -1}, Vec{Y: 1}),
			want: Vec{},
		},
		{
			name: "outside both segments",
			a:    NewLine(Vec{X: 0, Z: 0}, Vec{X: 1, Z: 1}),
			b:    NewLine(Vec{X: 5, Z: -3}, Vec{X: 5, Z: -1}),
			want: Vec{X: 5, Z: 5},
		},
		{
			// Web line of the reference bridge section against the bar line.
			name: "reference section",
			a:    NewLine(Vec{X: 75, Z: 450}, Vec{X: 50, Z: 500}),
			b:    NewLine(Vec{X: 140, Z: 450}, Vec{X: 140, Z: 600}),
			want: Vec{X: 140, Z: 320},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Intersect(tt.a, tt.b)
			if err != nil {
				t.Fatalf("Intersect() error = %v", err)
			}
			if !NearlyEqual(got, tt.want, 1e-6) {
				t.Errorf("Intersect() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestIntersectFailures(t *testing.T) {
	tests := []struct {
		name string
		a, b Line
		want error
	}{
		{"parallel", NewLine(Vec{}, Vec{X: 1}), NewLine(Vec{Z: 1}, Vec{X: 1, Z: 1}), ErrParallel},
		{"coincident", NewLine(Vec{}, Vec{X: 1}), NewLine(Vec{X: 2}, Vec{X: 3}), ErrParallel},
		{"skew", NewLine(Vec{}, Vec{X: 1}), NewLine(Vec{Z: 1}, Vec{Y: 1, Z: 1}), ErrSkew},
		{"degenerate", NewLine(Vec{X: 1}, Vec{X: 1}), NewLine(Vec{}, Vec{Y: 1}), ErrDegenerate},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Intersect(tt.a, tt.b)
			if !errors.Is(err, tt.want) {
				t.Errorf("Intersect() error = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestPlaneReflect(t *testing.T) {
	p := NewPlane(Vec{X: 200}, Vec{X: 1})
	got := p.Reflect(Vec{X: 50, Y: 7, Z: 3})
	if !NearlyEqual(got, Vec{X: 350, Y: 7, Z: 3}, 1e-9) {
		t.Errorf("Reflect() = %v", got)
	}
	axis, ok := p.AlignedAxis()
	if !ok || axis != AxisX {
		t.Errorf("AlignedAxis() = %v, %v", axis, ok)
	}
	if _, ok := NewPlane(Vec{}, Vec{X: 1, Y: 1}).AlignedAxis(); ok {
		t.Error("diagonal plane reported as axis aligned")
	}
}

func TestRotationApply(t *testing.T) {
	// The longitudinal bar orientation: local X becomes model Z and local Y
	// becomes model -X.
	r := Rotation{X: 90, Y: -90}
	if got := r.Apply(Vec{X: 1}); !NearlyEqual(got, Vec{Z: 1}, 1e-9) {
		t.Errorf("Apply(X) = %v, want Z", got)
	}
	if got := r.Apply(Vec{Y: 1}); !NearlyEqual(got, Vec{X: -1}, 1e-9) {
		t.Errorf("Apply(Y) = %v, want -X", got)
	}

	half := Rotation{Z: 180}
	if got := half.Apply(Vec{X: 1, Y: 2, Z: 3}); !NearlyEqual(got, Vec{X: -1, Y: -2, Z: 3}, 1e-9) {
		t.Errorf("Apply(Z 180) = %v", got)
	}
}

func TestRotationMatrixMatchesApply(t *testing.T) {
	r := Rotation{X: 12, Y: -33, Z: 71}
	m := r.Matrix()
	for _, v := range []Vec{{X: 1}, {Y: 1}, {Z: 1}, {X: 3, Y: -4, Z: 5}} {
		if !NearlyEqual(m.MulVec(v), r.Apply(v), 1e-9) {
			t.Errorf("Matrix().MulVec(%v) = %v, Apply = %v", v, m.MulVec(v), r.Apply(v))
		}
	}
	if !(Rotation{}).IsZero() {
		t.Error("zero rotation not IsZero")
	}
	id := (Rotation{}).Matrix()
	if id != Identity() {
		t.Errorf("zero rotation matrix = %v", id)
	}
}

func TestLineHelpers(t *testing.T) {
	l := NewLine(Vec{}, Vec{X: 3, Y: 4})
	if !near(l.Length(), 5) {
		t.Errorf("Length() = %v", l.Length())
	}
	if got := l.At(2); !NearlyEqual(got, Vec{X: 6, Y: 8}, 1e-9) {
		t.Errorf("At(2) = %v", got)
	}
	s := Segment{From: Vec{}, To: Vec{Y: 2000}}
	if !near(s.Length(), 2000) {
		t.Errorf("Segment.Length() = %v", s.Length())
	}
}
