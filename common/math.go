package common

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Epsilon is the float64 machine epsilon. Degenerate-geometry tests (edge-on
// views, rays parallel to a plane) compare magnitudes against it.
const Epsilon = 2.220446049250313e-16

// NearlyZero reports whether |v| is below Epsilon.
//
// Parameters:
//   - v: the value to test
//
// Returns:
//   - bool: true if v is indistinguishable from zero
func NearlyZero(v float64) bool {
	return math.Abs(v) < Epsilon
}

// Normalize returns v scaled to unit length.
// A zero-length vector is returned unchanged instead of producing NaNs.
//
// Parameters:
//   - v: the vector to normalize
//
// Returns:
//   - mgl64.Vec3: the unit vector, or the zero vector
func Normalize(v mgl64.Vec3) mgl64.Vec3 {
	l := v.Len()
	if l == 0 {
		return mgl64.Vec3{}
	}
	return v.Mul(1 / l)
}

// Yaw extracts the rotation of q around the world Z axis, in radians.
// This is the third Tait-Bryan angle of an XYZ decomposition, the same value
// glm reports as eulerAngles(q).z.
//
// Parameters:
//   - q: the orientation
//
// Returns:
//   - float64: heading in radians in (-pi, pi]
func Yaw(q mgl64.Quat) float64 {
	w, x, y, z := q.W, q.V[0], q.V[1], q.V[2]
	return math.Atan2(2*(x*y+w*z), w*w+x*x-y*y-z*z)
}

// IntersectRayPlane intersects the ray origin + t*dir (t >= 0) with the plane
// through center with the given normal. dir is expected to be unit length.
//
// Parameters:
//   - origin: ray origin
//   - dir: ray direction
//   - center: any point on the plane
//   - normal: plane normal
//
// Returns:
//   - mgl64.Vec3: the intersection point, or the zero vector on a miss
//   - bool: false when the ray is parallel to the plane or the plane lies behind the origin
func IntersectRayPlane(origin, dir, center, normal mgl64.Vec3) (mgl64.Vec3, bool) {
	denom := dir.Dot(normal)
	if NearlyZero(denom) {
		return mgl64.Vec3{}, false
	}

	t := center.Sub(origin).Dot(normal) / denom
	if t < 0 {
		return mgl64.Vec3{}, false
	}
	return origin.Add(dir.Mul(t)), true
}

// ToFloat32 converts a column-major float64 matrix into the float32 layout
// expected by GPU uniform buffers. Element order is preserved.
//
// Parameters:
//   - m: source matrix
//
// Returns:
//   - [16]float32: the converted matrix (column-major)
func ToFloat32(m mgl64.Mat4) [16]float32 {
	var out [16]float32
	for i := range m {
		out[i] = float32(m[i])
	}
	return out
}
