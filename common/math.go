package common

import "math"

// Add returns the component-wise sum v + other.
//
// Parameters:
//   - other: the vector to add
//
// Returns:
//   - Vec2: the sum
func (v Vec2) Add(other Vec2) Vec2 {
	return Vec2{X: v.X + other.X, Y: v.Y + other.Y}
}

// Sub returns the component-wise difference v - other.
//
// Parameters:
//   - other: the vector to subtract
//
// Returns:
//   - Vec2: the difference
func (v Vec2) Sub(other Vec2) Vec2 {
	return Vec2{X: v.X - other.X, Y: v.Y - other.Y}
}

// Scale returns the vector multiplied by a scalar.
//
// Parameters:
//   - s: the scalar factor
//
// Returns:
//   - Vec2: the scaled vector
func (v Vec2) Scale(s float64) Vec2 {
	return Vec2{X: v.X * s, Y: v.Y * s}
}

// Dot returns the dot product of the two vectors.
//
// Parameters:
//   - other: the other vector
//
// Returns:
//   - float64: the dot product
func (v Vec2) Dot(other Vec2) float64 {
	return v.X*other.X + v.Y*other.Y
}

// Cross returns the scalar 2D cross product (the z component of the 3D
// cross product). Positive when other lies counter-clockwise of v.
//
// Parameters:
//   - other: the other vector
//
// Returns:
//   - float64: the signed area of the parallelogram spanned by v and other
func (v Vec2) Cross(other Vec2) float64 {
	return v.X*other.Y - v.Y*other.X
}

// Length returns the Euclidean length of the vector.
//
// Returns:
//   - float64: the length
func (v Vec2) Length() float64 {
	return math.Hypot(v.X, v.Y)
}

// Distance returns the Euclidean distance between the two points.
//
// Parameters:
//   - other: the other point
//
// Returns:
//   - float64: the distance
func (v Vec2) Distance(other Vec2) float64 {
	return v.Sub(other).Length()
}

// Normalize returns the unit vector pointing in v's direction. The zero
// vector normalizes to the zero vector rather than producing NaN components.
//
// Returns:
//   - Vec2: the normalized vector
func (v Vec2) Normalize() Vec2 {
	l := v.Length()
	if l == 0 {
		return Vec2{}
	}
	return Vec2{X: v.X / l, Y: v.Y / l}
}

// Lerp returns the linear interpolation between v and other at parameter t.
// t is not clamped.
//
// Parameters:
//   - other: the destination point
//   - t: the interpolation parameter (0 returns v, 1 returns other)
//
// Returns:
//   - Vec2: the interpolated point
func (v Vec2) Lerp(other Vec2, t float64) Vec2 {
	return Vec2{
		X: v.X + (other.X-v.X)*t,
		Y: v.Y + (other.Y-v.Y)*t,
	}
}

// Rotate returns the vector rotated counter-clockwise about the origin.
//
// Parameters:
//   - angle: the rotation angle in radians
//
// Returns:
//   - Vec2: the rotated vector
func (v Vec2) Rotate(angle float64) Vec2 {
	sin, cos := math.Sincos(angle)
	return Vec2{
		X: v.X*cos - v.Y*sin,
		Y: v.X*sin + v.Y*cos,
	}
}

// Mat3 is a 3x3 affine transform over 2D points, stored in column-major
// order. The last row is (0, 0, 1) for all transforms built by this package.
type Mat3 [9]float64

// IdentityMat3 returns the identity transform.
//
// Returns:
//   - Mat3: the identity matrix
func IdentityMat3() Mat3 {
	return Mat3{1, 0, 0, 0, 1, 0, 0, 0, 1}
}

// TranslateMat3 returns a transform that offsets points by (tx, ty).
//
// Parameters:
//   - tx: the x offset
//   - ty: the y offset
//
// Returns:
//   - Mat3: the translation matrix
func TranslateMat3(tx, ty float64) Mat3 {
	m := IdentityMat3()
	m[6] = tx
	m[7] = ty
	return m
}

// ScaleMat3 returns a transform that scales points about the origin.
//
// Parameters:
//   - sx: the x scale factor
//   - sy: the y scale factor
//
// Returns:
//   - Mat3: the scale matrix
func ScaleMat3(sx, sy float64) Mat3 {
	m := IdentityMat3()
	m[0] = sx
	m[4] = sy
	return m
}

// RotateMat3 returns a transform that rotates points counter-clockwise
// about the origin.
//
// Parameters:
//   - angle: the rotation angle in radians
//
// Returns:
//   - Mat3: the rotation matrix
func RotateMat3(angle float64) Mat3 {
	sin, cos := math.Sincos(angle)
	m := IdentityMat3()
	m[0] = cos
	m[1] = sin
	m[3] = -sin
	m[4] = cos
	return m
}

// Mul returns the matrix product m * other, so that applying the result is
// equivalent to applying other first and m second.
//
// Parameters:
//   - other: the right-hand matrix
//
// Returns:
//   - Mat3: the product
func (m Mat3) Mul(other Mat3) Mat3 {
	var out Mat3
	for col := 0; col < 3; col++ {
		for row := 0; row < 3; row++ {
			sum := 0.0
			for k := 0; k < 3; k++ {
				sum += m[k*3+row] * other[col*3+k]
			}
			out[col*3+row] = sum
		}
	}
	return out
}

// Apply transforms the point p by the matrix.
//
// Parameters:
//   - p: the point to transform
//
// Returns:
//   - Vec2: the transformed point
func (m Mat3) Apply(p Vec2) Vec2 {
	return Vec2{
		X: m[0]*p.X + m[3]*p.Y + m[6],
		Y: m[1]*p.X + m[4]*p.Y + m[7],
	}
}

// Inverse returns the inverse transform and whether it exists. Affine
// transforms with non-zero determinant invert exactly.
//
// Returns:
//   - Mat3: the inverse matrix (identity when not invertible)
//   - bool: true if the matrix was invertible
func (m Mat3) Inverse() (Mat3, bool) {
	det := m[0]*m[4] - m[1]*m[3]
	if det == 0 {
		return IdentityMat3(), false
	}
	inv := 1 / det
	out := IdentityMat3()
	out[0] = m[4] * inv
	out[1] = -m[1] * inv
	out[3] = -m[3] * inv
	out[4] = m[0] * inv
	out[6] = -(out[0]*m[6] + out[3]*m[7])
	out[7] = -(out[1]*m[6] + out[4]*m[7])
	return out, true
}

// Clamp limits x to the range [lo, hi].
//
// Parameters:
//   - x: the value to clamp
//   - lo: the lower bound
//   - hi: the upper bound
//
// Returns:
//   - float64: the clamped value
func Clamp(x, lo, hi float64) float64 {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}

// Lerp returns the linear interpolation between a and b at parameter t.
// t is not clamped.
//
// Parameters:
//   - a: the start value
//   - b: the end value
//   - t: the interpolation parameter
//
// Returns:
//   - float64: the interpolated value
func Lerp(a, b, t float64) float64 {
	return a + (b-a)*t
}
