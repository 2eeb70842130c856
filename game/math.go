package game

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// Round32 will round a float32 to a given precision.
func Round32(val float32, precision int) float32 {
	pwr := math32.Pow(10, float32(precision))
	return math32.Round(val*pwr) / pwr
}

// RoundVec32 will round a 32-bit vector to a given precision.
func RoundVec32(v mgl32.Vec3, p int) mgl32.Vec3 {
	return mgl32.Vec3{Round32(v.X(), p), Round32(v.Y(), p), Round32(v.Z(), p)}
}

// ClampFloat clamps num between min and max.
func ClampFloat(num, min, max float32) float32 {
	if num < min {
		return min
	}
	if num > max {
		return max
	}
	return num
}

// IsFinite returns true if f is neither NaN nor infinite.
func IsFinite(f float32) bool {
	return !math32.IsNaN(f) && !math32.IsInf(f, 0)
}

// IsFiniteVec3 returns true if every component of the vector is finite.
func IsFiniteVec3(v mgl32.Vec3) bool {
	return IsFinite(v[0]) && IsFinite(v[1]) && IsFinite(v[2])
}

// IsZeroVec3 returns true if every component of the vector is exactly zero.
func IsZeroVec3(v mgl32.Vec3) bool {
	return v[0] == 0 && v[1] == 0 && v[2] == 0
}

// SafeNormal returns the unit vector of v, or a zero vector if v is too small to normalize.
func SafeNormal(v mgl32.Vec3) mgl32.Vec3 {
	sq := v.LenSqr()
	if sq < SmallNumber {
		return mgl32.Vec3{}
	}
	if sq == 1 {
		return v
	}
	return v.Mul(1 / math32.Sqrt(sq))
}

// ClampMaxSize returns v scaled down so that its length does not exceed max.
func ClampMaxSize(v mgl32.Vec3, max float32) mgl32.Vec3 {
	if max < KindaSmallNumber {
		return mgl32.Vec3{}
	}
	sq := v.LenSqr()
	if sq > max*max {
		return v.Mul(max / math32.Sqrt(sq))
	}
	return v
}

// Horizontal returns v with its vertical (Z) component removed.
func Horizontal(v mgl32.Vec3) mgl32.Vec3 {
	return mgl32.Vec3{v[0], v[1], 0}
}
