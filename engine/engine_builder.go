package engine

import (
	"github.com/rs/zerolog"

	"github.com/Carmen-Shannon/oxy-view/engine/camera"
	"github.com/Carmen-Shannon/oxy-view/engine/pose"
)

// ViewerBuilderOption is a functional option for configuring a Viewer.
// Use the With* functions to create options that are applied directly to the viewer instance.
type ViewerBuilderOption func(*viewer)

// WithWindow sets the window whose message loop drives the viewer.
//
// Parameters:
//   - w: an opened window
//
// Returns:
//   - ViewerBuilderOption: option function to apply
func WithWindow(w Window) ViewerBuilderOption {
	return func(v *viewer) {
		v.window = w
	}
}

// WithCameraOptions passes options through to the camera constructor.
//
// Parameters:
//   - options: camera builder options
//
// Returns:
//   - ViewerBuilderOption: option function to apply
func WithCameraOptions(options ...camera.CameraBuilderOption) ViewerBuilderOption {
	return func(v *viewer) {
		v.cameraOptions = append(v.cameraOptions, options...)
	}
}

// WithProfiling enables or disables performance profiling output.
//
// Parameters:
//   - enabled: if true, enables performance profiling
//
// Returns:
//   - ViewerBuilderOption: option function to apply
func WithProfiling(enabled bool) ViewerBuilderOption {
	return func(v *viewer) {
		v.profilingEnabled = enabled
	}
}

// WithFrameRate sets the target frame rate. Values <= 0 mean 30.
//
// Parameters:
//   - fps: frames per second
//
// Returns:
//   - ViewerBuilderOption: option function to apply
func WithFrameRate(fps float64) ViewerBuilderOption {
	return func(v *viewer) {
		v.frameInterval = rateToInterval(fps)
	}
}

// WithTickRate sets the background tick rate. Values <= 0 mean 30.
//
// Parameters:
//   - fps: ticks per second
//
// Returns:
//   - ViewerBuilderOption: option function to apply
func WithTickRate(fps float64) ViewerBuilderOption {
	return func(v *viewer) {
		v.tickRate = rateToInterval(fps)
	}
}

// WithFollow configures follow mode.
//
// Parameters:
//   - enabled: start with follow mode on
//   - trackHeight: pin lookAt.z to the tracked height every frame
//
// Returns:
//   - ViewerBuilderOption: option function to apply
func WithFollow(enabled, trackHeight bool) ViewerBuilderOption {
	return func(v *viewer) {
		v.followEnabled = enabled
		v.trackHeight = trackHeight
	}
}

// WithPoseBuffer shares an existing pose buffer instead of creating one.
//
// Parameters:
//   - b: the buffer
//
// Returns:
//   - ViewerBuilderOption: option function to apply
func WithPoseBuffer(b *pose.Buffer) ViewerBuilderOption {
	return func(v *viewer) {
		v.poses = b
	}
}

// WithRenderCallback sets the function that draws each frame.
//
// Parameters:
//   - callback: the render function
//
// Returns:
//   - ViewerBuilderOption: option function to apply
func WithRenderCallback(callback RenderFunc) ViewerBuilderOption {
	return func(v *viewer) {
		v.renderCallback = callback
	}
}

// WithWorkers sets the size of the worker pool used for batch projection.
//
// Parameters:
//   - n: number of workers
//
// Returns:
//   - ViewerBuilderOption: option function to apply
func WithWorkers(n int) ViewerBuilderOption {
	return func(v *viewer) {
		v.workers = n
	}
}

// WithLogger sets the logger handed to every component of the viewer.
//
// Parameters:
//   - logger: the logger
//
// Returns:
//   - ViewerBuilderOption: option function to apply
func WithLogger(logger zerolog.Logger) ViewerBuilderOption {
	return func(v *viewer) {
		v.logger = logger
	}
}
