package pipegraph

import "math"

// Matrix is the 2D affine transformation a layer's user matrix carries
// in big-state. It uses a 2x3 matrix in row-major order:
//
//	| a  b  c |
//	| d  e  f |
//
// representing x' = a*x + b*y + c, y' = d*x + e*y + f.
type Matrix struct {
	A, B, C float64
	D, E, F float64
}

// Identity returns the identity transformation matrix, the default
// user matrix every layer inherits until a setter overrides it.
func Identity() Matrix {
	return Matrix{A: 1, B: 0, C: 0, D: 0, E: 1, F: 0}
}

// Translate creates a translation matrix.
func Translate(x, y float64) Matrix {
	return Matrix{A: 1, B: 0, C: x, D: 0, E: 1, F: y}
}

// Scale creates a scaling matrix.
func Scale(x, y float64) Matrix {
	return Matrix{A: x, B: 0, C: 0, D: 0, E: y, F: 0}
}

// Rotate creates a rotation matrix (angle in radians).
func Rotate(angle float64) Matrix {
	cos := math.Cos(angle)
	sin := math.Sin(angle)
	return Matrix{A: cos, B: -sin, C: 0, D: sin, E: cos, F: 0}
}

// Multiply multiplies two matrices (m * other).
func (m Matrix) Multiply(other Matrix) Matrix {
	return Matrix{
		A: m.A*other.A + m.B*other.D,
		B: m.A*other.B + m.B*other.E,
		C: m.A*other.C + m.B*other.F + m.C,
		D: m.D*other.A + m.E*other.D,
		E: m.D*other.B + m.E*other.E,
		F: m.D*other.C + m.E*other.F + m.F,
	}
}

// IsIdentity returns true if the matrix is the identity matrix.
func (m Matrix) IsIdentity() bool {
	return m == Identity()
}

// Equal reports whether two matrices have identical components, the
// comparator the layer-group equality in §4.4 uses for the user matrix.
func (m Matrix) Equal(other Matrix) bool {
	return m == other
}
