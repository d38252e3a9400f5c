package input

import (
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Carmen-Shannon/oxy-view/common"
	"github.com/Carmen-Shannon/oxy-view/engine/camera"
	"github.com/Carmen-Shannon/oxy-view/engine/measure"
	"github.com/Carmen-Shannon/oxy-view/engine/pose"
)

// metersPerPixel is the ground size of one pixel in the default top-down
// pose of an 800x600 viewport.
const metersPerPixel = 2 * (50 / 1.5 * 0.825) / 600

func newCamera() camera.Camera {
	return camera.NewCamera(camera.WithViewport(800, 600))
}

// newTiltedCamera returns a camera pitched half a radian off the top-down
// view, which uses the perspective projection.
func newTiltedCamera(t *testing.T) camera.Camera {
	t.Helper()
	c := newCamera()
	c.Orbit(0, -100)
	require.False(t, c.IsOrthographic())
	return c
}

func assertVecInDelta(t *testing.T, expected, actual mgl64.Vec3, delta float64) {
	t.Helper()
	for i := range expected {
		assert.InDelta(t, expected[i], actual[i], delta)
	}
}

func TestLeftDragPanKeepsGrabbedPointUnderCursor(t *testing.T) {
	c := newTiltedCamera(t)
	ctrl := NewController(c)
	grabbed := c.ScreenToGround(mgl64.Vec2{300, 200})

	ctrl.MouseDown(common.MouseButtonLeft, 300, 200)
	require.Equal(t, GesturePan, ctrl.Gesture())
	ctrl.MouseMove(320, 230)
	ctrl.MouseMove(350, 260)
	ctrl.MouseUp(common.MouseButtonLeft, 350, 260)

	assertVecInDelta(t, grabbed, c.ScreenToGround(mgl64.Vec2{350, 260}), 1e-6)
	assert.Equal(t, GestureNone, ctrl.Gesture())
}

func TestRightDragOrbits(t *testing.T) {
	c := newTiltedCamera(t)
	ref := newTiltedCamera(t)
	ctrl := NewController(c)

	ctrl.MouseDown(common.MouseButtonRight, 100, 100)
	require.Equal(t, GestureOrbit, ctrl.Gesture())
	ctrl.MouseMove(150, 100)
	ctrl.MouseMove(150, 80)
	ref.Orbit(50, 0)
	ref.Orbit(0, -20)

	assert.Equal(t, ref.Eye(), c.Eye())
	assert.Equal(t, ref.Up(), c.Up())
}

func TestBirdviewToggleRestrictsOrbitToYaw(t *testing.T) {
	c := newTiltedCamera(t)
	ctrl := NewController(c)
	eye := c.Eye()

	require.True(t, ctrl.KeyDown(common.KeyB))
	require.True(t, c.BirdviewLocked())
	ctrl.MouseDown(common.MouseButtonRight, 100, 100)
	ctrl.MouseMove(100, 200)
	ctrl.MouseUp(common.MouseButtonRight, 100, 200)

	assertVecInDelta(t, eye, c.Eye(), 1e-9)

	ctrl.KeyDown(common.KeyB)
	assert.False(t, c.BirdviewLocked())
}

func TestMouseMoveWithoutGestureIsIgnored(t *testing.T) {
	c := newCamera()
	ctrl := NewController(c)

	ctrl.MouseMove(10, 10)
	ctrl.MouseDown(common.MouseButtonMiddle, 10, 10)
	ctrl.MouseMove(50, 50)

	assert.Equal(t, GestureNone, ctrl.Gesture())
	assert.Equal(t, mgl64.Vec3{0, 0, 50}, c.Eye())
}

func TestSecondButtonDuringGestureIsIgnored(t *testing.T) {
	ctrl := NewController(newCamera())

	ctrl.MouseDown(common.MouseButtonLeft, 10, 10)
	ctrl.MouseDown(common.MouseButtonRight, 10, 10)
	assert.Equal(t, GesturePan, ctrl.Gesture())

	ctrl.MouseUp(common.MouseButtonRight, 10, 10)
	assert.Equal(t, GesturePan, ctrl.Gesture())

	ctrl.MouseUp(common.MouseButtonLeft, 10, 10)
	assert.Equal(t, GestureNone, ctrl.Gesture())
}

func TestScrollZoomsAtCursor(t *testing.T) {
	c := newTiltedCamera(t)
	ctrl := NewController(c)
	anchor := c.ScreenToGround(mgl64.Vec2{250, 200})
	dist := c.EyeDistance()

	ctrl.Scroll(0, 250, 200)
	assert.Equal(t, dist, c.EyeDistance())

	ctrl.Scroll(120, 250, 200)

	assert.InEpsilon(t, dist*0.9, c.EyeDistance(), 1e-9)
	assertVecInDelta(t, anchor, c.ScreenToGround(mgl64.Vec2{250, 200}), 1e-6)
}

func TestScrollEdgeOnZoomsTowardLookAt(t *testing.T) {
	c := newCamera()
	c.Translate(mgl64.Vec3{0, 0, -50})
	ctrl := NewController(c)

	ctrl.Scroll(120, 10, 10)

	assert.Equal(t, mgl64.Vec3{0, 0, -50}, c.LookAt())
	assert.InDelta(t, 45.0, c.EyeDistance(), 1e-9)

	ctrl.Scroll(-120, 10, 10)
	assert.InDelta(t, 49.5, c.EyeDistance(), 1e-9)
}

func TestResetKey(t *testing.T) {
	c := newTiltedCamera(t)
	ctrl := NewController(c)

	assert.True(t, ctrl.KeyDown(common.KeyR))

	assert.Equal(t, mgl64.Vec3{0, 0, 50}, c.Eye())
	assert.Equal(t, mgl64.Vec3{0, 1, 0}, c.Up())
}

func TestUnknownKeyIsNotConsumed(t *testing.T) {
	assert.False(t, NewController(newCamera()).KeyDown(65))
}

func TestFollowToggle(t *testing.T) {
	c := newCamera()
	follow := camera.NewFollowStrategy(pose.NewBuffer(), true, zerolog.Nop())
	ctrl := NewController(c, WithFollowStrategy(follow))

	require.True(t, ctrl.KeyDown(common.KeyF))
	assert.True(t, ctrl.Following())
	assert.Same(t, follow, c.FrameStrategy())

	require.True(t, ctrl.KeyDown(common.KeyF))
	assert.False(t, ctrl.Following())
	assert.Nil(t, c.FrameStrategy())
}

func TestFollowToggleWithoutStrategy(t *testing.T) {
	c := newCamera()
	ctrl := NewController(c)

	assert.False(t, ctrl.KeyDown(common.KeyF))
	assert.False(t, ctrl.Following())
	assert.Nil(t, c.FrameStrategy())
}

func TestJumpKey(t *testing.T) {
	c := newTiltedCamera(t)
	buf := pose.NewBuffer()
	ctrl := NewController(c, WithPoseSource(buf))
	eye := c.Eye()

	assert.True(t, ctrl.KeyDown(common.KeyJ))
	assert.Equal(t, eye, c.Eye(), "nothing published yet")

	buf.Publish(pose.Pose{Position: mgl64.Vec3{10, 20, 3}})
	ctrl.KeyDown(common.KeyJ)

	assert.Equal(t, mgl64.Vec3{10, 20, 0}, c.LookAt())
	assertVecInDelta(t, mgl64.Vec3{10, 20, 50}, c.Eye(), 1e-9)
}

func TestMeasureDrag(t *testing.T) {
	c := newCamera()
	tool := measure.NewTool(c)
	ctrl := NewController(c, WithMeasureTool(tool))

	require.True(t, ctrl.KeyDown(common.KeyM))
	require.True(t, ctrl.MeasureArmed())

	ctrl.MouseDown(common.MouseButtonLeft, 400, 300)
	require.Equal(t, GestureMeasure, ctrl.Gesture())
	ctrl.MouseMove(450, 300)
	ctrl.MouseUp(common.MouseButtonLeft, 500, 300)

	committed := tool.Committed()
	require.Len(t, committed, 1)
	assert.InDelta(t, 100*metersPerPixel, committed[0].Length(), 1e-9)
	assert.Equal(t, mgl64.Vec3{0, 0, 50}, c.Eye(), "measuring does not move the camera")
	assert.False(t, ctrl.MeasureArmed())

	ctrl.MouseDown(common.MouseButtonLeft, 400, 300)
	ctrl.MouseMove(500, 300)
	ctrl.MouseUp(common.MouseButtonLeft, 500, 300)

	assert.InDelta(t, -100*metersPerPixel, c.Eye().X(), 1e-9, "next drag pans again")
}

func TestMeasureWithoutToolDoesNotArm(t *testing.T) {
	ctrl := NewController(newCamera())

	ctrl.BeginMeasure()

	assert.False(t, ctrl.MeasureArmed())
}

func TestEscapeCancelsMeasure(t *testing.T) {
	c := newCamera()
	tool := measure.NewTool(c)
	ctrl := NewController(c, WithMeasureTool(tool))

	assert.False(t, ctrl.KeyDown(common.KeyEsc), "nothing to cancel")

	ctrl.BeginMeasure()
	assert.True(t, ctrl.KeyDown(common.KeyEsc))
	assert.False(t, ctrl.MeasureArmed())

	ctrl.BeginMeasure()
	ctrl.MouseDown(common.MouseButtonLeft, 400, 300)
	ctrl.MouseMove(450, 300)
	assert.True(t, ctrl.KeyDown(common.KeyEsc))

	assert.Equal(t, GestureNone, ctrl.Gesture())
	assert.False(t, tool.Active())
	assert.Empty(t, tool.Committed())
}

func TestArrowKeysOrbit(t *testing.T) {
	c := newTiltedCamera(t)
	ref := newTiltedCamera(t)
	ctrl := NewController(c, WithOrbitStep(25))

	ctrl.KeyDown(common.KeyLeft)
	ctrl.KeyDown(common.KeyUp)
	ref.Orbit(-25, 0)
	ref.Orbit(0, -25)

	assert.Equal(t, ref.Eye(), c.Eye())

	ctrl.KeyDown(common.KeyRight)
	ctrl.KeyDown(common.KeyDown)
	ref.Orbit(25, 0)
	ref.Orbit(0, 25)

	assert.Equal(t, ref.Eye(), c.Eye())
}

func TestGestureString(t *testing.T) {
	assert.Equal(t, "pan", GesturePan.String())
	assert.Equal(t, "orbit", GestureOrbit.String())
	assert.Equal(t, "measure", GestureMeasure.String())
	assert.Equal(t, "none", GestureNone.String())
}
