package engine

import (
	"bytes"
	"testing"
	"time"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Carmen-Shannon/oxy-view/common"
	"github.com/Carmen-Shannon/oxy-view/engine/camera"
	"github.com/Carmen-Shannon/oxy-view/engine/pose"
)

// fakeWindow runs the update callback in a loop until closed or until
// maxIterations is reached.
type fakeWindow struct {
	width, height int
	maxIterations int
	iterations    int
	closeCalls    int

	onUpdate    func()
	onResize    func(width, height int)
	onScroll    func(delta, x, y int)
	onKeyDown   func(key int)
	onMouseDown func(button, x, y int)
	onMouseUp   func(button, x, y int)
	onMouseMove func(x, y int)
}

var _ Window = &fakeWindow{}

func newFakeWindow(maxIterations int) *fakeWindow {
	return &fakeWindow{width: 800, height: 600, maxIterations: maxIterations}
}

func (f *fakeWindow) SetUpdateCallback(cb func()) { f.onUpdate = cb }
func (f *fakeWindow) SetResizeCallback(cb func(width, height int)) { f.onResize = cb }
func (f *fakeWindow) SetScrollCallback(cb func(delta, x, y int)) { f.onScroll = cb }
func (f *fakeWindow) SetKeyDownCallback(cb func(key int)) { f.onKeyDown = cb }
func (f *fakeWindow) SetMouseDownCallback(cb func(button, x, y int)) { f.onMouseDown = cb }
func (f *fakeWindow) SetMouseUpCallback(cb func(button, x, y int)) { f.onMouseUp = cb }
func (f *fakeWindow) SetMouseMoveCallback(cb func(x, y int)) { f.onMouseMove = cb }
func (f *fakeWindow) Width() int { return f.width }
func (f *fakeWindow) Height() int { return f.height }

func (f *fakeWindow) Close() error {
	f.closeCalls++
	return nil
}

func (f *fakeWindow) ProcessMessages() {
	for f.closeCalls == 0 && f.iterations < f.maxIterations {
		f.iterations++
		if f.onUpdate != nil {
			f.onUpdate()
		}
		time.Sleep(time.Millisecond)
	}
}

func TestNewViewerSizesCameraToWindow(t *testing.T) {
	win := newFakeWindow(0)
	v := NewViewer(WithWindow(win))

	assert.Equal(t, camera.Viewport{X: 0, Y: 0, Width: 800, Height: 600}, v.Camera().Viewport())
	assert.NotNil(t, win.onResize)
	assert.NotNil(t, win.onMouseDown)
	assert.NotNil(t, win.onMouseUp)
	assert.NotNil(t, win.onMouseMove)
	assert.NotNil(t, win.onScroll)
	assert.NotNil(t, win.onKeyDown)
	assert.NotNil(t, v.PoseBuffer())
	assert.NotNil(t, v.MeasureTool())
	assert.False(t, v.Controller().Following())
}

func TestStepPacesFrames(t *testing.T) {
	var frames []float32
	v := NewViewer(WithFrameRate(30), WithRenderCallback(func(c camera.Camera, dt float32) {
		frames = append(frames, dt)
	}))
	t0 := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	assert.True(t, v.Step(t0))
	assert.False(t, v.Step(t0.Add(10*time.Millisecond)))
	assert.True(t, v.Step(t0.Add(40*time.Millisecond)))

	require.Len(t, frames, 2)
	assert.Zero(t, frames[0])
	assert.InDelta(t, 0.04, frames[1], 1e-6)
}

func TestStepRunsFollowStrategy(t *testing.T) {
	v := NewViewer(WithFollow(true, true))
	require.True(t, v.Controller().Following())

	v.PoseBuffer().Publish(pose.Pose{Position: mgl64.Vec3{0, 0, 4}})
	v.Step(time.Now())

	assert.Equal(t, 4.0, v.Camera().LookAtZ())
}

func TestStepPassesCameraToRender(t *testing.T) {
	var seen camera.Camera
	v := NewViewer(WithRenderCallback(func(c camera.Camera, _ float32) { seen = c }))

	v.Step(time.Now())

	assert.Same(t, v.Camera(), seen)
}

func TestStepReportsVisibleMeasurementsWithProfiling(t *testing.T) {
	var logs bytes.Buffer
	v := NewViewer(
		WithWindow(newFakeWindow(0)),
		WithProfiling(true),
		WithLogger(zerolog.New(&logs).Level(zerolog.DebugLevel)),
	)
	tool := v.MeasureTool()
	tool.Begin(400, 300)
	tool.Update(500, 300)
	tool.End()
	v.Camera().Translate(mgl64.Vec3{1000, 0, 0})
	tool.Begin(400, 300)
	tool.End()

	require.True(t, v.Step(time.Now().Add(2*time.Second)))

	assert.Contains(t, logs.String(), `"committed":2,"on_screen":1,"message":"measurement labels"`)
}

func TestResizeCallbackUpdatesViewport(t *testing.T) {
	win := newFakeWindow(0)
	v := NewViewer(WithWindow(win))

	win.onResize(1024, 512)
	assert.Equal(t, camera.Viewport{X: 0, Y: 0, Width: 1024, Height: 512}, v.Camera().Viewport())

	win.onResize(0, 0)
	assert.Equal(t, camera.Viewport{X: 0, Y: 0, Width: 1024, Height: 512}, v.Camera().Viewport())
}

func TestWindowInputReachesCamera(t *testing.T) {
	win := newFakeWindow(0)
	v := NewViewer(WithWindow(win))

	win.onKeyDown(common.KeyB)
	assert.True(t, v.Camera().BirdviewLocked())

	win.onMouseDown(common.MouseButtonLeft, 400, 300)
	win.onMouseMove(500, 300)
	win.onMouseUp(common.MouseButtonLeft, 500, 300)
	assert.Less(t, v.Camera().Eye().X(), 0.0)

	dist := v.Camera().EyeDistance()
	win.onScroll(120, 400, 300)
	assert.InEpsilon(t, dist*0.9, v.Camera().EyeDistance(), 1e-9)
}

func TestRunWithoutWindow(t *testing.T) {
	assert.ErrorIs(t, NewViewer().Run(), ErrNoWindow)
}

func TestRunClosesWindowWhenLoopEnds(t *testing.T) {
	win := newFakeWindow(3)
	frames := 0
	v := NewViewer(WithWindow(win), WithRenderCallback(func(camera.Camera, float32) { frames++ }))

	require.NoError(t, v.Run())

	assert.Equal(t, 1, win.closeCalls)
	assert.GreaterOrEqual(t, frames, 1)
}

func TestEscapeQuitsRun(t *testing.T) {
	win := newFakeWindow(10000)
	v := NewViewer(WithWindow(win))

	win.onKeyDown(common.KeyEsc)
	require.NoError(t, v.Run())

	assert.Equal(t, 1, win.closeCalls)
	assert.Equal(t, 1, win.iterations)
}

func TestTickCallbackRunsOnRun(t *testing.T) {
	win := newFakeWindow(10000)
	v := NewViewer(WithWindow(win), WithTickRate(500))
	v.SetTickCallback(func(float32) {
		v.PoseBuffer().Publish(pose.Pose{Position: mgl64.Vec3{1, 2, 3}})
		v.Quit()
	})

	require.NoError(t, v.Run())

	p, ok := v.PoseBuffer().Latest()
	require.True(t, ok)
	assert.Equal(t, mgl64.Vec3{1, 2, 3}, p.Position)
	assert.Equal(t, 1, win.closeCalls)
}
