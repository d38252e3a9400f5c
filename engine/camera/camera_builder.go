package camera

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/rs/zerolog"
)

type CameraBuilderOption func(*cameraImpl)

// WithFovDegrees sets the camera's vertical field of view.
//
// Parameters:
//   - degrees: field of view in degrees
//
// Returns:
//   - CameraBuilderOption: a function that sets the camera's field of view
func WithFovDegrees(degrees float64) CameraBuilderOption {
	return func(c *cameraImpl) {
		c.fov = mgl64.DegToRad(degrees)
	}
}

// WithClipPlanes sets the near and far clipping plane distances. These also
// bound the eye distance reachable by Zoom.
//
// Parameters:
//   - near: near plane distance
//   - far: far plane distance
//
// Returns:
//   - CameraBuilderOption: a function that sets the clipping planes
func WithClipPlanes(near, far float64) CameraBuilderOption {
	return func(c *cameraImpl) {
		c.near = near
		c.far = far
	}
}

// WithViewport sets the initial viewport size.
//
// Parameters:
//   - w: width in pixels
//   - h: height in pixels
//
// Returns:
//   - CameraBuilderOption: a function that sets the viewport
func WithViewport(w, h int) CameraBuilderOption {
	return func(c *cameraImpl) {
		c.viewport = Viewport{0, 0, w, h}
	}
}

// WithBirdviewLock starts the camera with the bird's-eye lock on or off.
//
// Parameters:
//   - lock: true to restrict orbit to yaw
//
// Returns:
//   - CameraBuilderOption: a function that sets the lock
func WithBirdviewLock(lock bool) CameraBuilderOption {
	return func(c *cameraImpl) {
		c.birdviewLock = lock
	}
}

// WithFrameStrategy installs a per-frame strategy at construction.
//
// Parameters:
//   - s: the strategy
//
// Returns:
//   - CameraBuilderOption: a function that installs the strategy
func WithFrameStrategy(s FrameStrategy) CameraBuilderOption {
	return func(c *cameraImpl) {
		c.strategy = s
	}
}

// WithLogger sets the logger used for degenerate-case traces.
//
// Parameters:
//   - logger: the logger
//
// Returns:
//   - CameraBuilderOption: a function that sets the logger
func WithLogger(logger zerolog.Logger) CameraBuilderOption {
	return func(c *cameraImpl) {
		c.logger = logger.With().Str("component", "camera").Logger()
	}
}
