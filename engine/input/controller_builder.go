package input

import (
	"github.com/rs/zerolog"

	"github.com/Carmen-Shannon/oxy-view/engine/camera"
	"github.com/Carmen-Shannon/oxy-view/engine/measure"
	"github.com/Carmen-Shannon/oxy-view/engine/pose"
)

// ControllerBuilderOption is a functional option for configuring a Controller.
type ControllerBuilderOption func(*controllerImpl)

// WithFollowStrategy sets the strategy installed by the follow toggle.
//
// Parameters:
//   - f: the follow strategy
//
// Returns:
//   - ControllerBuilderOption: functional option to set the strategy
func WithFollowStrategy(f *camera.FollowStrategy) ControllerBuilderOption {
	return func(ci *controllerImpl) {
		ci.follow = f
	}
}

// WithPoseSource sets the source read by the jump shortcut.
//
// Parameters:
//   - s: the pose source
//
// Returns:
//   - ControllerBuilderOption: functional option to set the source
func WithPoseSource(s pose.Source) ControllerBuilderOption {
	return func(ci *controllerImpl) {
		ci.source = s
	}
}

// WithMeasureTool sets the tool fed by measure drags.
//
// Parameters:
//   - t: the measure tool
//
// Returns:
//   - ControllerBuilderOption: functional option to set the tool
func WithMeasureTool(t measure.Tool) ControllerBuilderOption {
	return func(ci *controllerImpl) {
		ci.measure = t
	}
}

// WithOrbitStep sets the drag distance simulated by one arrow key press.
//
// Parameters:
//   - pixels: drag distance in pixels
//
// Returns:
//   - ControllerBuilderOption: functional option to set the orbit step
func WithOrbitStep(pixels int) ControllerBuilderOption {
	return func(ci *controllerImpl) {
		ci.orbitStep = pixels
	}
}

// WithLogger sets the logger for gesture traces.
//
// Parameters:
//   - logger: the logger
//
// Returns:
//   - ControllerBuilderOption: functional option to set the logger
func WithLogger(logger zerolog.Logger) ControllerBuilderOption {
	return func(ci *controllerImpl) {
		ci.logger = logger.With().Str("component", "input").Logger()
	}
}
