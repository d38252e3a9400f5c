package camera

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/rs/zerolog"

	"github.com/Carmen-Shannon/oxy-view/common"
)

const (
	// yawPerPixel is the yaw applied per horizontal drag pixel, in radians.
	yawPerPixel = 0.01
	// pitchPerPixel is the pitch applied per vertical drag pixel, in radians.
	pitchPerPixel = 0.005
	// minOrbitUpZ is the smallest up.z an orbit may produce before the pose
	// is snapped to straight top-down.
	minOrbitUpZ = 0.01
	// orthoScale converts eye distance to the orthographic half-height.
	orthoScale = 0.825 / 1.5
	// zoomInRatio and zoomOutRatio are applied per wheel notch.
	zoomInRatio  = 0.9
	zoomOutRatio = 1.1
)

var (
	worldZ = mgl64.Vec3{0, 0, 1}

	defaultEye    = mgl64.Vec3{0, 0, 50}
	defaultLookAt = mgl64.Vec3{0, 0, 0}
	defaultUp     = mgl64.Vec3{0, 1, 0}
)

type cameraImpl struct {
	eye    mgl64.Vec3
	lookAt mgl64.Vec3
	up     mgl64.Vec3

	viewport Viewport

	birdviewLock bool

	fov  float64
	near float64
	far  float64

	viewMatrix       mgl64.Mat4
	projectionMatrix mgl64.Mat4
	eyeDistance      float64
	orthographic     bool

	strategy FrameStrategy
	logger   zerolog.Logger
}

// Camera is the orbit camera of the viewer. It keeps eye, look-at point and up
// vector, and derives the view and projection matrices from them after every
// mutation.
//
// Camera is not safe for concurrent use. All calls, mutators and accessors
// alike, must come from the goroutine that drives the frame loop; callers that
// feed it from other goroutines serialize access themselves.
type Camera interface {
	// Eye returns the camera position in world space.
	//
	// Returns:
	//   - mgl64.Vec3: the eye position
	Eye() mgl64.Vec3

	// LookAt returns the world-space point the camera faces (the orbit pivot).
	//
	// Returns:
	//   - mgl64.Vec3: the look-at point
	LookAt() mgl64.Vec3

	// Up returns the camera's up direction in world space.
	//
	// Returns:
	//   - mgl64.Vec3: the up vector
	Up() mgl64.Vec3

	// EyeDistance returns |eye - lookAt| as of the last recompute.
	//
	// Returns:
	//   - float64: the distance
	EyeDistance() float64

	// LookAtZ returns the height of the look-at point.
	//
	// Returns:
	//   - float64: lookAt.z
	LookAtZ() float64

	// SetLookAtZ sets the height of the look-at point and recomputes the
	// derived matrices.
	//
	// Parameters:
	//   - z: new lookAt.z
	SetLookAtZ(z float64)

	// Viewport returns the current viewport rectangle.
	//
	// Returns:
	//   - Viewport: the viewport
	Viewport() Viewport

	// Fov returns the vertical field of view in radians.
	//
	// Returns:
	//   - float64: field of view in radians
	Fov() float64

	// Near returns the near clipping plane distance.
	//
	// Returns:
	//   - float64: near plane distance
	Near() float64

	// Far returns the far clipping plane distance.
	//
	// Returns:
	//   - float64: far plane distance
	Far() float64

	// BirdviewLocked reports whether orbit gestures are restricted to yaw.
	//
	// Returns:
	//   - bool: true if the bird's-eye lock is on
	BirdviewLocked() bool

	// SetBirdviewLock turns the bird's-eye lock on or off.
	//
	// Parameters:
	//   - lock: true to restrict orbit to yaw
	SetBirdviewLock(lock bool)

	// ViewMatrix returns the current 4x4 view matrix (column-major).
	//
	// Returns:
	//   - mgl64.Mat4: the view matrix
	ViewMatrix() mgl64.Mat4

	// ProjectionMatrix returns the current 4x4 projection matrix (column-major).
	//
	// Returns:
	//   - mgl64.Mat4: the projection matrix
	ProjectionMatrix() mgl64.Mat4

	// ViewProjectionMatrix returns projection * view (column-major).
	//
	// Returns:
	//   - mgl64.Mat4: the combined matrix
	ViewProjectionMatrix() mgl64.Mat4

	// IsOrthographic reports whether the last recompute chose the orthographic projection.
	//
	// Returns:
	//   - bool: true for orthographic, false for perspective
	IsOrthographic() bool

	// Projector returns an immutable snapshot of the current matrices and viewport.
	//
	// Returns:
	//   - Projector: the snapshot
	Projector() Projector

	// Frustum returns the view frustum planes of the current matrices.
	//
	// Returns:
	//   - common.Frustum: the frustum
	Frustum() common.Frustum

	// FrameStrategy returns the installed per-frame strategy, or nil.
	//
	// Returns:
	//   - FrameStrategy: the strategy or nil
	FrameStrategy() FrameStrategy

	// SetFrameStrategy installs the strategy run at the start of each FrameTick.
	// Pass nil to uninstall.
	//
	// Parameters:
	//   - s: the strategy or nil
	SetFrameStrategy(s FrameStrategy)

	// ResizeViewport sets the viewport to (0, 0, w, h). The new aspect ratio
	// is picked up by the next recompute.
	//
	// Parameters:
	//   - w: width in pixels
	//   - h: height in pixels (must be non-zero)
	ResizeViewport(w, h int)

	// Reset restores eye (0,0,50), lookAt (0,0,0), up (0,1,0).
	Reset()

	// Translate shifts eye and lookAt by delta without changing orientation.
	//
	// Parameters:
	//   - delta: world-space offset
	Translate(delta mgl64.Vec3)

	// Orbit rotates the camera around lookAt by a drag of (dx, dy) pixels.
	// Horizontal motion yaws around world Z, vertical motion pitches around the
	// camera's left axis (suppressed under the bird's-eye lock). A rotation that
	// would tip the camera over the pole snaps it to the straight top-down view.
	//
	// Parameters:
	//   - dx: horizontal drag in pixels
	//   - dy: vertical drag in pixels
	Orbit(dx, dy int)

	// Zoom scales the eye distance by ratio. Ratios that would leave
	// [Near, Far] are ignored.
	//
	// Parameters:
	//   - ratio: distance multiplier (< 1 moves closer)
	Zoom(ratio float64)

	// ZoomAtScreenPoint zooms one wheel notch while keeping the ground point
	// under the cursor fixed on screen.
	//
	// Parameters:
	//   - delta: wheel delta; positive zooms in
	//   - x, y: cursor position in pixels, y growing downward
	ZoomAtScreenPoint(delta, x, y int)

	// JumpTo makes the camera face pos from the given heading, keeping the
	// previous horizontal eye-to-lookAt distance.
	//
	// Parameters:
	//   - pos: the new look-at point
	//   - heading: direction from eye to pos in the xy plane, in radians
	JumpTo(pos mgl64.Vec3, heading float64)

	// FollowFrame moves the camera rigidly with a tracked frame that went from
	// (posPrev, quatPrev) to (pos, quat). Only the yaw of the frame's rotation is
	// applied.
	//
	// Parameters:
	//   - posPrev: previous frame position
	//   - pos: current frame position
	//   - quatPrev: previous frame orientation
	//   - quat: current frame orientation
	FollowFrame(posPrev, pos mgl64.Vec3, quatPrev, quat mgl64.Quat)

	// WorldToScreen projects a world point to window coordinates (x, y, depth)
	// with the origin at the bottom-left of the viewport.
	//
	// Parameters:
	//   - p: world-space point
	//
	// Returns:
	//   - mgl64.Vec3: window x, window y, depth in [0, 1]
	WorldToScreen(p mgl64.Vec3) mgl64.Vec3

	// ScreenToWorld intersects the ray under a pixel with a plane.
	// Rays parallel to the plane and planes behind the ray origin return (0,0,0).
	//
	// Parameters:
	//   - screen: pixel position, y growing downward
	//   - planeCenter: any point on the plane
	//   - planeNormal: plane normal
	//
	// Returns:
	//   - mgl64.Vec3: the world point or the zero vector
	ScreenToWorld(screen mgl64.Vec2, planeCenter, planeNormal mgl64.Vec3) mgl64.Vec3

	// ScreenToGround picks against the horizontal plane through lookAt.
	//
	// Parameters:
	//   - screen: pixel position, y growing downward
	//
	// Returns:
	//   - mgl64.Vec3: the world point or the zero vector
	ScreenToGround(screen mgl64.Vec2) mgl64.Vec3

	// FrameTick runs the installed FrameStrategy, then recomputes the matrices.
	// The frame loop calls it once per frame before reading matrices.
	FrameTick()

	// Update recomputes the derived matrices from the current state.
	Update()
}

var _ Camera = &cameraImpl{}

// NewCamera creates a camera in the default pose with a 45 degree field of
// view and clipping planes at 0.1 and 5000.
//
// Parameters:
//   - options: functional options to configure the camera
//
// Returns:
//   - Camera: the newly created camera
func NewCamera(options ...CameraBuilderOption) Camera {
	c := &cameraImpl{
		viewport: Viewport{0, 0, 1, 1},
		fov:      mgl64.DegToRad(45.0),
		near:     0.1,
		far:      5000.0,
		logger:   zerolog.Nop(),
	}
	for _, option := range options {
		option(c)
	}
	c.Reset()
	return c
}

func (c *cameraImpl) Eye() mgl64.Vec3 {
	return c.eye
}

func (c *cameraImpl) LookAt() mgl64.Vec3 {
	return c.lookAt
}

func (c *cameraImpl) Up() mgl64.Vec3 {
	return c.up
}

func (c *cameraImpl) EyeDistance() float64 {
	return c.eyeDistance
}

func (c *cameraImpl) LookAtZ() float64 {
	return c.lookAt[2]
}

func (c *cameraImpl) SetLookAtZ(z float64) {
	c.lookAt[2] = z
	c.Update()
}

func (c *cameraImpl) Viewport() Viewport {
	return c.viewport
}

func (c *cameraImpl) Fov() float64 {
	return c.fov
}

func (c *cameraImpl) Near() float64 {
	return c.near
}

func (c *cameraImpl) Far() float64 {
	return c.far
}

func (c *cameraImpl) BirdviewLocked() bool {
	return c.birdviewLock
}

func (c *cameraImpl) SetBirdviewLock(lock bool) {
	c.birdviewLock = lock
}

func (c *cameraImpl) ViewMatrix() mgl64.Mat4 {
	return c.viewMatrix
}

func (c *cameraImpl) ProjectionMatrix() mgl64.Mat4 {
	return c.projectionMatrix
}

func (c *cameraImpl) ViewProjectionMatrix() mgl64.Mat4 {
	return c.projectionMatrix.Mul4(c.viewMatrix)
}

func (c *cameraImpl) IsOrthographic() bool {
	return c.orthographic
}

func (c *cameraImpl) Projector() Projector {
	return Projector{View: c.viewMatrix, Projection: c.projectionMatrix, Viewport: c.viewport}
}

func (c *cameraImpl) Frustum() common.Frustum {
	return common.ExtractFrustumFromMatrix(c.ViewProjectionMatrix())
}

func (c *cameraImpl) FrameStrategy() FrameStrategy {
	return c.strategy
}

func (c *cameraImpl) SetFrameStrategy(s FrameStrategy) {
	c.strategy = s
}

func (c *cameraImpl) ResizeViewport(w, h int) {
	c.viewport = Viewport{0, 0, w, h}
}

func (c *cameraImpl) Reset() {
	c.eye = defaultEye
	c.lookAt = defaultLookAt
	c.up = defaultUp
	c.Update()
}

func (c *cameraImpl) Translate(delta mgl64.Vec3) {
	c.eye = c.eye.Add(delta)
	c.lookAt = c.lookAt.Add(delta)
	c.Update()
}

func (c *cameraImpl) Orbit(dx, dy int) {
	view := c.lookAt.Sub(c.eye)
	left := common.Normalize(c.up.Cross(view))

	pitch := float64(dy) * pitchPerPixel
	if c.birdviewLock {
		pitch = 0
	}
	qYaw := mgl64.QuatRotate(-float64(dx)*yawPerPixel, worldZ)
	qPitch := mgl64.QuatRotate(pitch, left)

	newView := qYaw.Mul(qPitch).Rotate(view)
	newEye := c.lookAt.Sub(newView)
	newUp := common.Normalize(newView.Cross(qYaw.Rotate(left)))

	if newUp[2] < minOrbitUpZ {
		// Tipping over the pole: snap to straight top-down and keep the yawed heading.
		newEye = c.lookAt.Add(mgl64.Vec3{0, 0, c.eyeDistance})
		newView = c.lookAt.Sub(newEye)
		newUp[2] = 0
		newUp = common.Normalize(newView.Cross(qYaw.Rotate(common.Normalize(newUp.Cross(newView)))))
		newUp[2] = 0
		c.logger.Trace().Int("dx", dx).Int("dy", dy).Msg("orbit clamped to top-down view")
	}

	c.eye = newEye
	c.up = newUp
	c.Update()
}

func (c *cameraImpl) Zoom(ratio float64) {
	distance := c.eyeDistance * ratio
	if distance < c.near || distance > c.far {
		c.logger.Trace().Float64("distance", distance).Msg("zoom outside clipping range ignored")
		return
	}

	c.eye = common.Normalize(c.eye.Sub(c.lookAt)).Mul(distance).Add(c.lookAt)
	c.Update()
}

func (c *cameraImpl) ZoomAtScreenPoint(delta, x, y int) {
	screen := mgl64.Vec2{float64(x), float64(y)}

	before := c.ScreenToGround(screen)
	if delta > 0 {
		c.Zoom(zoomInRatio)
	} else {
		c.Zoom(zoomOutRatio)
	}
	after := c.ScreenToGround(screen)

	c.Translate(before.Sub(after))
}

func (c *cameraImpl) JumpTo(pos mgl64.Vec3, heading float64) {
	distanceXY := math.Hypot(c.lookAt[0]-c.eye[0], c.lookAt[1]-c.eye[1])
	cos, sin := math.Cos(heading), math.Sin(heading)

	c.eye[0] = pos[0] - distanceXY*cos
	c.eye[1] = pos[1] - distanceXY*sin
	c.up = mgl64.Vec3{c.eye[2] * cos, c.eye[2] * sin, distanceXY}
	c.lookAt = pos
	c.Update()
}

func (c *cameraImpl) FollowFrame(posPrev, pos mgl64.Vec3, quatPrev, quat mgl64.Quat) {
	yaw := -common.Yaw(quatPrev.Mul(quat.Inverse()))
	rot := mgl64.Rotate3DZ(yaw)

	c.lookAt = rot.Mul3x1(c.lookAt.Sub(posPrev)).Add(pos)
	c.eye = rot.Mul3x1(c.eye.Sub(posPrev)).Add(pos)
	c.up = rot.Mul3x1(c.up)
	c.Update()
}

func (c *cameraImpl) WorldToScreen(p mgl64.Vec3) mgl64.Vec3 {
	return c.Projector().Project(p)
}

func (c *cameraImpl) ScreenToWorld(screen mgl64.Vec2, planeCenter, planeNormal mgl64.Vec3) mgl64.Vec3 {
	p := c.Projector().Pick(screen, planeCenter, planeNormal)
	if p == (mgl64.Vec3{}) {
		c.logger.Trace().Float64("x", screen.X()).Float64("y", screen.Y()).Msg("pick ray missed plane")
	}
	return p
}

func (c *cameraImpl) ScreenToGround(screen mgl64.Vec2) mgl64.Vec3 {
	return c.ScreenToWorld(screen, mgl64.Vec3{0, 0, c.lookAt[2]}, worldZ)
}

func (c *cameraImpl) FrameTick() {
	if c.strategy != nil {
		c.strategy.OnFrameTick(c)
	}
	c.Update()
}

// Update recalculates the view and projection matrices and the eye distance.
// An edge-on view (eye in the z = 0 plane) or an up vector without vertical
// component switches to the orthographic projection used for flat top-down views.
func (c *cameraImpl) Update() {
	c.viewMatrix = mgl64.LookAtV(c.eye, c.lookAt, c.up)
	c.eyeDistance = c.eye.Sub(c.lookAt).Len()

	aspect := c.viewport.Aspect()
	c.orthographic = common.NearlyZero(c.eye[2]) || common.NearlyZero(c.up[2])
	if c.orthographic {
		h := c.eyeDistance * orthoScale
		c.projectionMatrix = mgl64.Ortho(-h*aspect, h*aspect, -h, h, c.near, c.far)
	} else {
		c.projectionMatrix = mgl64.Perspective(c.fov, aspect, c.near, c.far)
	}
}
