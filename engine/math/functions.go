package math

import (
	m "math"
)

const (
	/** @brief An approximate representation of PI. */
	K_PI float32 = 3.14159265358979323846
	/** @brief A multiplier used to convert degrees to radians. */
	K_DEG2RAD_MULTIPLIER float32 = K_PI / 180.0
	/** @brief A multiplier used to convert radians to degrees. */
	K_RAD2DEG_MULTIPLIER float32 = 180.0 / K_PI
	/** @brief A huge number that should be larger than any valid number used. */
	K_INFINITY float32 = 1e30
)

/**
 * Note that these are here in order to prevent having to convert
 * through float64 at every call site.
 */
func Sin(x float32) float32 {
	return float32(m.Sin(float64(x)))
}

func Cos(x float32) float32 {
	return float32(m.Cos(float64(x)))
}

func Tan(x float32) float32 {
	return float32(m.Tan(float64(x)))
}

func Sqrt(x float32) float32 {
	return float32(m.Sqrt(float64(x)))
}

func Abs(x float32) float32 {
	return float32(m.Abs(float64(x)))
}

func Floor(x float32) float32 {
	return float32(m.Floor(float64(x)))
}

func (v Vec3) Add(o Vec3) Vec3 {
	return Vec3{v.X + o.X, v.Y + o.Y, v.Z + o.Z}
}

func (v Vec3) Sub(o Vec3) Vec3 {
	return Vec3{v.X - o.X, v.Y - o.Y, v.Z - o.Z}
}

func (v Vec3) Scale(s float32) Vec3 {
	return Vec3{v.X * s, v.Y * s, v.Z * s}
}

func (v Vec3) Dot(o Vec3) float32 {
	return v.X*o.X + v.Y*o.Y + v.Z*o.Z
}

func (v Vec3) Length() float32 {
	return Sqrt(v.Dot(v))
}

// Normalized returns the unit vector in v's direction. The zero
// vector is returned unchanged.
func (v Vec3) Normalized() Vec3 {
	l := v.Length()
	if l == 0 {
		return v
	}
	return v.Scale(1.0 / l)
}

func (v Vec4) Add(o Vec4) Vec4 {
	return Vec4{v.X + o.X, v.Y + o.Y, v.Z + o.Z, v.W + o.W}
}

func (v Vec4) Scale(s float32) Vec4 {
	return Vec4{v.X * s, v.Y * s, v.Z * s, v.W * s}
}

// Mul is the component-wise product, used for color modulation.
func (v Vec4) Mul(o Vec4) Vec4 {
	return Vec4{v.X * o.X, v.Y * o.Y, v.Z * o.Z, v.W * o.W}
}

// Clamp01 clamps every component to [0, 1].
func (v Vec4) Clamp01() Vec4 {
	return Vec4{
		Clamp(v.X, 0, 1),
		Clamp(v.Y, 0, 1),
		Clamp(v.Z, 0, 1),
		Clamp(v.W, 0, 1),
	}
}

// XYZ drops the fourth component.
func (v Vec4) XYZ() Vec3 {
	return Vec3{v.X, v.Y, v.Z}
}

// NewIdentity returns the identity matrix.
func NewIdentity() Mat4 {
	return Mat4{Data: [16]float32{
		1, 0, 0, 0,
		0, 1, 0, 0,
		0, 0, 1, 0,
		0, 0, 0, 1,
	}}
}

// Mul returns a × b. Applied to a vector, b's transform happens first.
func (a Mat4) Mul(b Mat4) Mat4 {
	var out Mat4
	for c := 0; c < 4; c++ {
		for r := 0; r < 4; r++ {
			var sum float32
			for k := 0; k < 4; k++ {
				sum += a.Data[k*4+r] * b.Data[c*4+k]
			}
			out.Data[c*4+r] = sum
		}
	}
	return out
}

// MulVec4 transforms v by m.
func (a Mat4) MulVec4(v Vec4) Vec4 {
	in := [4]float32{v.X, v.Y, v.Z, v.W}
	var out [4]float32
	for r := 0; r < 4; r++ {
		for c := 0; c < 4; c++ {
			out[r] += a.Data[c*4+r] * in[c]
		}
	}
	return Vec4{out[0], out[1], out[2], out[3]}
}

// MulPoint transforms a position (w=1), discarding the projective
// component.
func (a Mat4) MulPoint(v Vec3) Vec3 {
	return a.MulVec4(Vec4{v.X, v.Y, v.Z, 1}).XYZ()
}

// MulDir transforms a direction (w=0).
func (a Mat4) MulDir(v Vec3) Vec3 {
	return a.MulVec4(Vec4{v.X, v.Y, v.Z, 0}).XYZ()
}

// NewTranslation returns a translation matrix.
func NewTranslation(x, y, z float32) Mat4 {
	out := NewIdentity()
	out.Data[12] = x
	out.Data[13] = y
	out.Data[14] = z
	return out
}

// NewScale returns a scaling matrix.
func NewScale(x, y, z float32) Mat4 {
	out := NewIdentity()
	out.Data[0] = x
	out.Data[5] = y
	out.Data[10] = z
	return out
}

// NewRotationX returns a rotation of rad radians about the x axis.
func NewRotationX(rad float32) Mat4 {
	s, c := Sin(rad), Cos(rad)
	out := NewIdentity()
	out.Data[5] = c
	out.Data[6] = s
	out.Data[9] = -s
	out.Data[10] = c
	return out
}

// NewRotationY returns a rotation of rad radians about the y axis.
func NewRotationY(rad float32) Mat4 {
	s, c := Sin(rad), Cos(rad)
	out := NewIdentity()
	out.Data[0] = c
	out.Data[2] = -s
	out.Data[8] = s
	out.Data[10] = c
	return out
}

// NewRotationZ returns a rotation of rad radians about the z axis.
func NewRotationZ(rad float32) Mat4 {
	s, c := Sin(rad), Cos(rad)
	out := NewIdentity()
	out.Data[0] = c
	out.Data[1] = s
	out.Data[4] = -s
	out.Data[5] = c
	return out
}

// NewQuaternion returns the rotation matrix for the unit quaternion
// (x, y, z, w).
func NewQuaternion(x, y, z, w float32) Mat4 {
	out := NewIdentity()
	out.Data[0] = 1 - 2*(y*y+z*z)
	out.Data[1] = 2 * (x*y + z*w)
	out.Data[2] = 2 * (x*z - y*w)
	out.Data[4] = 2 * (x*y - z*w)
	out.Data[5] = 1 - 2*(x*x+z*z)
	out.Data[6] = 2 * (y*z + x*w)
	out.Data[8] = 2 * (x*z + y*w)
	out.Data[9] = 2 * (y*z - x*w)
	out.Data[10] = 1 - 2*(x*x+y*y)
	return out
}

// NewPerspective returns a right-handed perspective projection with a
// [-1, 1] depth range.
func NewPerspective(fovYRad, aspect, near, far float32) Mat4 {
	f := 1.0 / Tan(fovYRad*0.5)
	var out Mat4
	out.Data[0] = f / aspect
	out.Data[5] = f
	out.Data[10] = (far + near) / (near - far)
	out.Data[11] = -1
	out.Data[14] = (2 * far * near) / (near - far)
	return out
}
