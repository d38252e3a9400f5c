// Package input turns decoded window events (mouse buttons, drags, wheel and
// keys) into camera gestures: pan, orbit, zoom, view toggles and measuring.
package input

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/rs/zerolog"

	"github.com/Carmen-Shannon/oxy-view/common"
	"github.com/Carmen-Shannon/oxy-view/engine/camera"
	"github.com/Carmen-Shannon/oxy-view/engine/measure"
	"github.com/Carmen-Shannon/oxy-view/engine/pose"
)

// Gesture is the drag currently in progress.
type Gesture int

const (
	GestureNone Gesture = iota
	GesturePan
	GestureOrbit
	GestureMeasure
)

func (g Gesture) String() string {
	switch g {
	case GesturePan:
		return "pan"
	case GestureOrbit:
		return "orbit"
	case GestureMeasure:
		return "measure"
	default:
		return "none"
	}
}

// zoomInRatio and zoomOutRatio match the camera's per-notch wheel zoom.
const (
	zoomInRatio  = 0.9
	zoomOutRatio = 1.1
)

type controllerImpl struct {
	camera  camera.Camera
	follow  *camera.FollowStrategy
	source  pose.Source
	measure measure.Tool
	logger  zerolog.Logger

	// orbitStep is the drag distance in pixels simulated by one arrow key press.
	orbitStep int

	gesture      Gesture
	button       int
	lastX, lastY int

	measureArmed bool
	following    bool
}

// Controller is the input state machine of the viewer. It is fed on the window
// thread, the same goroutine that drives the camera.
type Controller interface {
	// MouseDown starts a gesture: left pans (or measures when armed), right orbits.
	// Presses while another gesture is active are ignored.
	//
	// Parameters:
	//   - button: mouse button code (common.MouseButton*)
	//   - x, y: cursor position in pixels, y growing downward
	MouseDown(button, x, y int)

	// MouseMove continues the active gesture.
	//
	// Parameters:
	//   - x, y: cursor position in pixels, y growing downward
	MouseMove(x, y int)

	// MouseUp ends the gesture started by the same button.
	//
	// Parameters:
	//   - button: mouse button code
	//   - x, y: cursor position in pixels, y growing downward
	MouseUp(button, x, y int)

	// Scroll zooms one notch. Positive delta zooms in; zero is ignored.
	// Edge-on views zoom toward lookAt, all others keep the point under the cursor fixed.
	//
	// Parameters:
	//   - delta: wheel delta
	//   - x, y: cursor position in pixels, y growing downward
	Scroll(delta, x, y int)

	// KeyDown handles view shortcuts: R reset, B bird's-eye lock, F follow,
	// J jump to the tracked pose, M measure, Esc cancel measure, arrows orbit.
	//
	// Parameters:
	//   - key: key code (common.Key*)
	//
	// Returns:
	//   - bool: true if the key was consumed
	KeyDown(key int) bool

	// OrbitLeft yaws the camera by one orbit step.
	OrbitLeft()

	// OrbitRight yaws the camera by one orbit step in the other direction.
	OrbitRight()

	// OrbitUp tilts the camera away from the top-down view by one orbit step.
	OrbitUp()

	// OrbitDown tilts the camera toward the top-down view by one orbit step.
	OrbitDown()

	// BeginMeasure arms the measure tool: the next left drag measures instead of panning.
	BeginMeasure()

	// MeasureArmed reports whether the next left drag will measure.
	//
	// Returns:
	//   - bool: true if armed
	MeasureArmed() bool

	// Gesture returns the drag in progress.
	//
	// Returns:
	//   - Gesture: the active gesture
	Gesture() Gesture

	// Following reports whether follow mode is on.
	//
	// Returns:
	//   - bool: true if the follow strategy is installed
	Following() bool

	// SetFollowing installs or removes the follow strategy on the camera.
	// Turning follow on discards the strategy's previous sample.
	//
	// Parameters:
	//   - on: true to follow
	//
	// Returns:
	//   - bool: false if no follow strategy is configured
	SetFollowing(on bool) bool
}

var _ Controller = &controllerImpl{}

// NewController creates a controller driving c.
//
// Parameters:
//   - c: the camera to drive
//   - options: functional options to configure the controller
//
// Returns:
//   - Controller: the newly created controller
func NewController(c camera.Camera, options ...ControllerBuilderOption) Controller {
	ci := &controllerImpl{
		camera:    c,
		logger:    zerolog.Nop(),
		orbitStep: 10,
	}
	for _, option := range options {
		option(ci)
	}
	return ci
}

// groundPoint picks the horizontal plane through lookAt. Unlike
// Camera.ScreenToGround it reports misses instead of returning the sentinel.
func (ci *controllerImpl) groundPoint(x, y int) (mgl64.Vec3, bool) {
	origin, dir, ok := ci.camera.Projector().PickRay(mgl64.Vec2{float64(x), float64(y)})
	if !ok {
		return mgl64.Vec3{}, false
	}
	return common.IntersectRayPlane(origin, dir, mgl64.Vec3{0, 0, ci.camera.LookAtZ()}, mgl64.Vec3{0, 0, 1})
}

func (ci *controllerImpl) MouseDown(button, x, y int) {
	if ci.gesture != GestureNone {
		return
	}

	switch button {
	case common.MouseButtonLeft:
		if ci.measureArmed && ci.measure != nil {
			ci.measure.Begin(x, y)
			ci.gesture = GestureMeasure
		} else {
			ci.gesture = GesturePan
		}
	case common.MouseButtonRight:
		ci.gesture = GestureOrbit
	default:
		return
	}

	ci.button = button
	ci.lastX, ci.lastY = x, y
}

func (ci *controllerImpl) MouseMove(x, y int) {
	switch ci.gesture {
	case GesturePan:
		prev, okPrev := ci.groundPoint(ci.lastX, ci.lastY)
		cur, okCur := ci.groundPoint(x, y)
		if okPrev && okCur {
			ci.camera.Translate(prev.Sub(cur))
		} else {
			ci.logger.Trace().Int("x", x).Int("y", y).Msg("pan skipped, cursor off the ground plane")
		}
	case GestureOrbit:
		ci.camera.Orbit(x-ci.lastX, y-ci.lastY)
	case GestureMeasure:
		ci.measure.Update(x, y)
	default:
		return
	}
	ci.lastX, ci.lastY = x, y
}

func (ci *controllerImpl) MouseUp(button, x, y int) {
	if ci.gesture == GestureNone || button != ci.button {
		return
	}

	if ci.gesture == GestureMeasure {
		ci.measure.Update(x, y)
		ci.measure.End()
		ci.measureArmed = false
	}
	ci.gesture = GestureNone
}

func (ci *controllerImpl) Scroll(delta, x, y int) {
	if delta == 0 {
		return
	}

	if common.NearlyZero(ci.camera.Eye().Z()) {
		if delta > 0 {
			ci.camera.Zoom(zoomInRatio)
		} else {
			ci.camera.Zoom(zoomOutRatio)
		}
		return
	}
	ci.camera.ZoomAtScreenPoint(delta, x, y)
}

func (ci *controllerImpl) KeyDown(key int) bool {
	switch key {
	case common.KeyR:
		ci.camera.Reset()
	case common.KeyB:
		ci.camera.SetBirdviewLock(!ci.camera.BirdviewLocked())
		ci.logger.Debug().Bool("locked", ci.camera.BirdviewLocked()).Msg("bird's-eye lock toggled")
	case common.KeyF:
		return ci.SetFollowing(!ci.following)
	case common.KeyJ:
		ci.jumpToPose()
	case common.KeyM:
		ci.BeginMeasure()
	case common.KeyEsc:
		return ci.cancelMeasure()
	case common.KeyLeft:
		ci.OrbitLeft()
	case common.KeyRight:
		ci.OrbitRight()
	case common.KeyUp:
		ci.OrbitUp()
	case common.KeyDown:
		ci.OrbitDown()
	default:
		return false
	}
	return true
}

func (ci *controllerImpl) jumpToPose() {
	if ci.source == nil {
		return
	}
	p, ok := ci.source.Latest()
	if !ok {
		ci.logger.Debug().Msg("jump requested before any pose was published")
		return
	}
	camera.JumpToPose(ci.camera, p)
}

func (ci *controllerImpl) cancelMeasure() bool {
	if !ci.measureArmed && ci.gesture != GestureMeasure {
		return false
	}
	if ci.gesture == GestureMeasure {
		ci.measure.Cancel()
		ci.gesture = GestureNone
	}
	ci.measureArmed = false
	return true
}

func (ci *controllerImpl) OrbitLeft() {
	ci.camera.Orbit(-ci.orbitStep, 0)
}

func (ci *controllerImpl) OrbitRight() {
	ci.camera.Orbit(ci.orbitStep, 0)
}

func (ci *controllerImpl) OrbitUp() {
	ci.camera.Orbit(0, -ci.orbitStep)
}

func (ci *controllerImpl) OrbitDown() {
	ci.camera.Orbit(0, ci.orbitStep)
}

func (ci *controllerImpl) BeginMeasure() {
	if ci.measure == nil {
		return
	}
	ci.measureArmed = true
}

func (ci *controllerImpl) MeasureArmed() bool {
	return ci.measureArmed
}

func (ci *controllerImpl) Gesture() Gesture {
	return ci.gesture
}

func (ci *controllerImpl) Following() bool {
	return ci.following
}

func (ci *controllerImpl) SetFollowing(on bool) bool {
	if ci.follow == nil {
		return false
	}

	if on {
		ci.follow.Reset()
		ci.camera.SetFrameStrategy(ci.follow)
	} else {
		ci.camera.SetFrameStrategy(nil)
	}
	ci.following = on
	ci.logger.Debug().Bool("following", on).Msg("follow mode toggled")
	return true
}
