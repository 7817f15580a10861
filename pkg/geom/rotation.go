package geom

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// Rotation is a set of Euler angles in degrees. Rotations are applied
// about the model axes through the origin, X first, then Y, then Z, which
// is the same order the kernel uses for solids.
type Rotation struct {
	X float64 `json:"x" yaml:"x" msgpack:"x"`
	Y float64 `json:"y" yaml:"y" msgpack:"y"`
	Z float64 `json:"z" yaml:"z" msgpack:"z"`
}

// IsZero reports whether the rotation is the identity.
func (r Rotation) IsZero() bool {
	return r.X == 0 && r.Y == 0 && r.Z == 0
}

func radians(deg float64) float64 {
	return deg * math.Pi / 180
}

// Apply rotates v.
func (r Rotation) Apply(v Vec) Vec {
	if r.X != 0 {
		v = r3.NewRotation(radians(r.X), Vec{X: 1}).Rotate(v)
	}
	if r.Y != 0 {
		v = r3.NewRotation(radians(r.Y), Vec{Y: 1}).Rotate(v)
	}
	if r.Z != 0 {
		v = r3.NewRotation(radians(r.Z), Vec{Z: 1}).Rotate(v)
	}
	return v
}

// Matrix returns the 3×3 matrix equivalent of the rotation.
func (r Rotation) Matrix() Matrix {
	ex := r.Apply(Vec{X: 1})
	ey := r.Apply(Vec{Y: 1})
	ez := r.Apply(Vec{Z: 1})
	return Matrix{
		{ex.X, ey.X, ez.X},
		{ex.Y, ey.Y, ez.Y},
		{ex.Z, ey.Z, ez.Z},
	}
}

// Matrix is a row-major 3×3 linear transform.
type Matrix [3][3]float64

// Identity returns the identity matrix.
func Identity() Matrix {
	return Matrix{{1, 0, 0}, {0, 1, 0}, {0, 0, 1}}
}

// MulVec returns m·v.
func (m Matrix) MulVec(v Vec) Vec {
	return Vec{
		X: m[0][0]*v.X + m[0][1]*v.Y + m[0][2]*v.Z,
		Y: m[1][0]*v.X + m[1][1]*v.Y + m[1][2]*v.Z,
		Z: m[2][0]*v.X + m[2][1]*v.Y + m[2][2]*v.Z,
	}
}
