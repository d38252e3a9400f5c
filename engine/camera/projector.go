package camera

import (
	"github.com/go-gl/mathgl/mgl64"

	"github.com/Carmen-Shannon/oxy-view/common"
)

// Viewport is the integer pixel rectangle the camera renders into.
type Viewport struct {
	X, Y, Width, Height int
}

// Aspect returns Width / Height. A zero height yields +Inf or NaN; callers
// guard against it before resizing.
func (v Viewport) Aspect() float64 {
	return float64(v.Width) / float64(v.Height)
}

// Projector is an immutable snapshot of the matrices and viewport of a camera.
// Unlike Camera it is safe to share between goroutines.
type Projector struct {
	View       mgl64.Mat4
	Projection mgl64.Mat4
	Viewport   Viewport
}

// Project maps a world point to window coordinates (x, y, depth).
// The origin is the bottom-left corner of the viewport and depth is in [0, 1].
//
// Parameters:
//   - p: world-space point
//
// Returns:
//   - mgl64.Vec3: window x, window y, depth
func (pr Projector) Project(p mgl64.Vec3) mgl64.Vec3 {
	return mgl64.Project(p, pr.View, pr.Projection,
		pr.Viewport.X, pr.Viewport.Y, pr.Viewport.Width, pr.Viewport.Height)
}

// Unproject maps window coordinates (bottom-left origin) and depth back to world space.
//
// Parameters:
//   - win: window x, window y, depth
//
// Returns:
//   - mgl64.Vec3: world-space point
//   - error: non-nil if the view-projection matrix is singular
func (pr Projector) Unproject(win mgl64.Vec3) (mgl64.Vec3, error) {
	return mgl64.UnProject(win, pr.View, pr.Projection,
		pr.Viewport.X, pr.Viewport.Y, pr.Viewport.Width, pr.Viewport.Height)
}

// PickRay casts the ray under a screen pixel (top-left origin, as delivered by
// the windowing layer). The ray starts on the far plane and points back toward
// the near plane.
//
// Parameters:
//   - screen: pixel position, y growing downward
//
// Returns:
//   - origin: the far-plane point under the pixel
//   - dir: unit direction from the far-plane point to the near-plane point
//   - ok: false if the matrices cannot be inverted
func (pr Projector) PickRay(screen mgl64.Vec2) (origin, dir mgl64.Vec3, ok bool) {
	winY := float64(pr.Viewport.Height) - screen.Y()
	rayEnd, err := pr.Unproject(mgl64.Vec3{screen.X(), winY, 0})
	if err != nil {
		return mgl64.Vec3{}, mgl64.Vec3{}, false
	}
	rayStart, err := pr.Unproject(mgl64.Vec3{screen.X(), winY, 1})
	if err != nil {
		return mgl64.Vec3{}, mgl64.Vec3{}, false
	}
	return rayStart, common.Normalize(rayEnd.Sub(rayStart)), true
}

// Pick intersects the ray under a screen pixel with a plane.
// Parallel rays, planes behind the ray origin and singular matrices all yield
// the (0, 0, 0) sentinel.
//
// Parameters:
//   - screen: pixel position, y growing downward
//   - planeCenter: any point on the plane
//   - planeNormal: the plane normal
//
// Returns:
//   - mgl64.Vec3: the picked world point or the zero vector
func (pr Projector) Pick(screen mgl64.Vec2, planeCenter, planeNormal mgl64.Vec3) mgl64.Vec3 {
	origin, dir, ok := pr.PickRay(screen)
	if !ok {
		return mgl64.Vec3{}
	}
	p, _ := common.IntersectRayPlane(origin, dir, planeCenter, planeNormal)
	return p
}
