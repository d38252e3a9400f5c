package common

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Plane represents a plane in 3D space using the equation: ax + by + cz + d = 0
// where (a, b, c) is the normal and d is the distance from origin.
type Plane struct {
	Normal   mgl64.Vec3
	Distance float64
}

// SignedDistance returns the signed distance of p from the plane.
// Positive values lie on the side the normal points to.
func (p Plane) SignedDistance(pt mgl64.Vec3) float64 {
	return p.Normal.Dot(pt) + p.Distance
}

// Frustum represents the six planes of a view frustum.
// Planes are oriented so that positive half-space is inside the frustum.
type Frustum struct {
	Planes [6]Plane // Left, Right, Bottom, Top, Near, Far
}

// FrustumPlane indices for clarity
const (
	FrustumLeft   = 0
	FrustumRight  = 1
	FrustumBottom = 2
	FrustumTop    = 3
	FrustumNear   = 4
	FrustumFar    = 5
)

// ExtractFrustumFromMatrix extracts frustum planes from a view-projection matrix
// (projection * view, column-major, OpenGL clip space).
// Uses the Gribb/Hartmann method for plane extraction.
//
// Reference: https://www8.cs.umu.se/kurser/5DV051/HT12/lab/plane_extraction.pdf
//
// Parameters:
//   - viewProj: the combined view-projection matrix
//
// Returns:
//   - Frustum: the extracted frustum with normalized planes
func ExtractFrustumFromMatrix(viewProj mgl64.Mat4) Frustum {
	var f Frustum

	row0 := viewProj.Row(0)
	row1 := viewProj.Row(1)
	row2 := viewProj.Row(2)
	row3 := viewProj.Row(3)

	f.Planes[FrustumLeft] = planeFromRow(row3.Add(row0))
	f.Planes[FrustumRight] = planeFromRow(row3.Sub(row0))
	f.Planes[FrustumBottom] = planeFromRow(row3.Add(row1))
	f.Planes[FrustumTop] = planeFromRow(row3.Sub(row1))
	f.Planes[FrustumNear] = planeFromRow(row3.Add(row2))
	f.Planes[FrustumFar] = planeFromRow(row3.Sub(row2))

	for i := range f.Planes {
		f.normalizePlane(i)
	}

	return f
}

// Contains reports whether pt lies inside (or on the boundary of) all six planes.
//
// Parameters:
//   - pt: world-space point
//
// Returns:
//   - bool: true if the point is inside the frustum
func (f Frustum) Contains(pt mgl64.Vec3) bool {
	for _, p := range f.Planes {
		if p.SignedDistance(pt) < 0 {
			return false
		}
	}
	return true
}

func planeFromRow(r mgl64.Vec4) Plane {
	return Plane{Normal: mgl64.Vec3{r[0], r[1], r[2]}, Distance: r[3]}
}

// normalizePlane normalizes a frustum plane so that the normal has unit length.
func (f *Frustum) normalizePlane(index int) {
	p := &f.Planes[index]
	length := math.Sqrt(p.Normal.Dot(p.Normal))

	if length > 0 {
		invLen := 1.0 / length
		p.Normal = p.Normal.Mul(invLen)
		p.Distance *= invLen
	}
}
