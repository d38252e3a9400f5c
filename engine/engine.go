package engine

import (
	"errors"
	"sync"
	"time"

	"github.com/Carmen-Shannon/automation/tools/worker"
	"github.com/rs/zerolog"

	"github.com/Carmen-Shannon/oxy-view/common"
	"github.com/Carmen-Shannon/oxy-view/engine/camera"
	"github.com/Carmen-Shannon/oxy-view/engine/input"
	"github.com/Carmen-Shannon/oxy-view/engine/measure"
	"github.com/Carmen-Shannon/oxy-view/engine/pose"
	"github.com/Carmen-Shannon/oxy-view/engine/profiler"
)

// ErrNoWindow is returned by Run when the viewer was built without a window.
var ErrNoWindow = errors.New("viewer has no window")

// Window is the part of window.Window the viewer drives.
type Window interface {
	SetUpdateCallback(callback func())
	SetResizeCallback(callback func(width, height int))
	SetScrollCallback(callback func(delta, x, y int))
	SetKeyDownCallback(callback func(key int))
	SetMouseDownCallback(callback func(button, x, y int))
	SetMouseUpCallback(callback func(button, x, y int))
	SetMouseMoveCallback(callback func(x, y int))
	ProcessMessages()
	Close() error
	Width() int
	Height() int
}

// RenderFunc draws one frame from the camera's current matrices.
// It runs on the window thread right after the camera's frame tick.
type RenderFunc func(c camera.Camera, deltaTime float32)

// viewer implements the Viewer interface.
// Window events, frame steps and rendering share the window thread; only the
// tick callback runs on its own goroutine.
type viewer struct {
	tickRateChannel chan time.Duration

	running bool
	wg      sync.WaitGroup

	quitChannel chan struct{}
	quitOnce    sync.Once

	window Window
	logger zerolog.Logger

	camera        camera.Camera
	cameraOptions []camera.CameraBuilderOption
	controller    input.Controller
	poses         *pose.Buffer
	follow        *camera.FollowStrategy
	followEnabled bool
	trackHeight   bool
	measure       measure.Tool
	pool          worker.DynamicWorkerPool
	workers       int

	profiler         *profiler.Profiler
	profilingEnabled bool

	tickRate       time.Duration
	tickCallback   func(deltaTime float32)
	renderCallback RenderFunc

	frameInterval time.Duration
	lastFrame     time.Time
}

// Viewer owns the camera of one view together with the input controller,
// pose buffer, follow strategy and measure tool wired to it, and paces frames
// on the window's message loop.
type Viewer interface {
	// Camera returns the viewer's camera. Only use it on the window thread.
	//
	// Returns:
	//   - camera.Camera: the camera
	Camera() camera.Camera

	// Controller returns the input controller fed by the window callbacks.
	//
	// Returns:
	//   - input.Controller: the controller
	Controller() input.Controller

	// PoseBuffer returns the buffer tracked poses are published into.
	// It is safe to publish from any goroutine.
	//
	// Returns:
	//   - *pose.Buffer: the buffer
	PoseBuffer() *pose.Buffer

	// MeasureTool returns the measure tool.
	//
	// Returns:
	//   - measure.Tool: the tool
	MeasureTool() measure.Tool

	// EnableProfiler enables periodic frame statistics in the log.
	EnableProfiler()

	// DisableProfiler disables frame statistics.
	DisableProfiler()

	// SetFrameRate sets the target frame rate of the frame loop.
	//
	// Parameters:
	//   - fps: frames per second (defaults to 30 if <= 0)
	SetFrameRate(fps float64)

	// SetTickRate sets the rate of the background tick callback.
	// If the tick loop is running the change takes effect immediately.
	//
	// Parameters:
	//   - fps: ticks per second (defaults to 30 if <= 0)
	SetTickRate(fps float64)

	// SetTickCallback registers a function called at the tick rate on its own
	// goroutine. It must not touch the camera; publish poses instead.
	//
	// Parameters:
	//   - callback: function receiving the delta time in seconds
	SetTickCallback(callback func(deltaTime float32))

	// SetRenderCallback registers the function that draws each frame.
	//
	// Parameters:
	//   - callback: the render function
	SetRenderCallback(callback RenderFunc)

	// Step runs one frame if the frame interval has elapsed since the last one:
	// camera frame tick, render callback, profiler.
	//
	// Parameters:
	//   - now: the current time
	//
	// Returns:
	//   - bool: true if a frame ran
	Step(now time.Time) bool

	// Run starts the tick loop and blocks in the window message loop until the
	// window closes or Quit is called.
	//
	// Returns:
	//   - error: ErrNoWindow if no window was configured, or the window close error
	Run() error

	// Quit stops the tick loop and closes the window on its next iteration.
	// Safe to call multiple times and from any goroutine.
	Quit()
}

// NewViewer creates a Viewer with the provided options.
// The camera is sized to the window's framebuffer when a window is given.
//
// Parameters:
//   - options: functional options for viewer configuration
//
// Returns:
//   - Viewer: the newly created viewer
func NewViewer(options ...ViewerBuilderOption) Viewer {
	v := &viewer{
		tickRateChannel: make(chan time.Duration, 1),
		quitChannel:     make(chan struct{}),
		logger:          zerolog.Nop(),
		trackHeight:     true,
		workers:         2,
		tickRate:        time.Second / 30,
		frameInterval:   time.Second / 30,
	}

	for _, opt := range options {
		opt(v)
	}

	v.profiler = profiler.NewProfiler(v.logger, time.Second)

	camOpts := append([]camera.CameraBuilderOption{camera.WithLogger(v.logger)}, v.cameraOptions...)
	if v.window != nil && v.window.Width() > 0 && v.window.Height() > 0 {
		camOpts = append(camOpts, camera.WithViewport(v.window.Width(), v.window.Height()))
	}
	v.camera = camera.NewCamera(camOpts...)

	if v.poses == nil {
		v.poses = pose.NewBuffer()
	}
	v.follow = camera.NewFollowStrategy(v.poses, v.trackHeight, v.logger)
	v.pool = worker.NewDynamicWorkerPool(v.workers, 256, 1*time.Second)
	v.measure = measure.NewTool(v.camera, measure.WithPool(v.pool), measure.WithLogger(v.logger))
	v.controller = input.NewController(v.camera,
		input.WithFollowStrategy(v.follow),
		input.WithPoseSource(v.poses),
		input.WithMeasureTool(v.measure),
		input.WithLogger(v.logger),
	)
	if v.followEnabled {
		v.controller.SetFollowing(true)
	}

	if v.window != nil {
		v.bindWindow()
	}

	return v
}

// bindWindow routes the window's input callbacks to the controller.
func (v *viewer) bindWindow() {
	v.window.SetResizeCallback(func(width, height int) {
		if width <= 0 || height <= 0 {
			v.logger.Debug().Int("width", width).Int("height", height).Msg("ignoring degenerate resize")
			return
		}
		v.camera.ResizeViewport(width, height)
	})
	v.window.SetMouseDownCallback(v.controller.MouseDown)
	v.window.SetMouseUpCallback(v.controller.MouseUp)
	v.window.SetMouseMoveCallback(v.controller.MouseMove)
	v.window.SetScrollCallback(v.controller.Scroll)
	v.window.SetKeyDownCallback(func(key int) {
		if v.controller.KeyDown(key) {
			return
		}
		if key == common.KeyEsc {
			v.Quit()
		}
	})
}

func (v *viewer) Camera() camera.Camera {
	return v.camera
}

func (v *viewer) Controller() input.Controller {
	return v.controller
}

func (v *viewer) PoseBuffer() *pose.Buffer {
	return v.poses
}

func (v *viewer) MeasureTool() measure.Tool {
	return v.measure
}

func (v *viewer) EnableProfiler() {
	v.profilingEnabled = true
}

func (v *viewer) DisableProfiler() {
	v.profilingEnabled = false
}

func (v *viewer) SetFrameRate(fps float64) {
	v.frameInterval = rateToInterval(fps)
}

func (v *viewer) SetTickRate(fps float64) {
	newRate := rateToInterval(fps)

	if !v.running {
		v.tickRate = newRate
		return
	}
	// Replace any pending update so the loop only sees the newest rate.
	select {
	case v.tickRateChannel <- newRate:
	default:
		select {
		case <-v.tickRateChannel:
		default:
		}
		v.tickRateChannel <- newRate
	}
}

func (v *viewer) SetTickCallback(callback func(deltaTime float32)) {
	v.tickCallback = callback
}

func (v *viewer) SetRenderCallback(callback RenderFunc) {
	v.renderCallback = callback
}

func (v *viewer) Step(now time.Time) bool {
	if !v.lastFrame.IsZero() && now.Sub(v.lastFrame) < v.frameInterval {
		return false
	}

	var dt float32
	if !v.lastFrame.IsZero() {
		dt = float32(now.Sub(v.lastFrame).Seconds())
	}
	v.lastFrame = now

	v.camera.FrameTick()
	if v.renderCallback != nil {
		v.renderCallback(v.camera, dt)
	}
	if v.profilingEnabled && v.profiler.TickAt(now) {
		v.logger.Debug().
			Int("committed", len(v.measure.Committed())).
			Int("on_screen", len(v.measure.Anchors())).
			Msg("measurement labels")
	}
	return true
}

func (v *viewer) Run() error {
	if v.window == nil {
		return ErrNoWindow
	}

	v.running = true
	v.wg.Add(1)
	go v.handleTick()

	closed := false
	v.window.SetUpdateCallback(func() {
		select {
		case <-v.quitChannel:
			if !closed {
				closed = true
				if err := v.window.Close(); err != nil {
					v.logger.Error().Err(err).Msg("failed to close window")
				}
			}
		default:
			v.Step(time.Now())
		}
	})
	v.window.ProcessMessages()

	v.signalQuit()
	v.wg.Wait()
	v.running = false
	v.pool.Stop()

	if closed {
		return nil
	}
	return v.window.Close()
}

func (v *viewer) Quit() {
	v.signalQuit()
}

// signalQuit closes the quit channel to signal all goroutines to exit.
// Uses sync.Once to ensure the channel is only closed once.
func (v *viewer) signalQuit() {
	v.quitOnce.Do(func() {
		close(v.quitChannel)
	})
}

// handleTick runs the fixed-rate tick loop in its own goroutine.
// Fires the tick callback at the configured rate and listens for rate changes
// via tickRateChannel. Exits when the quit channel is closed.
func (v *viewer) handleTick() {
	defer v.wg.Done()

	ticker := time.NewTicker(v.tickRate)
	defer ticker.Stop()

	lastTick := time.Now()

	for {
		select {
		case <-v.quitChannel:
			return
		case <-ticker.C:
			now := time.Now()
			dt := float32(now.Sub(lastTick).Seconds())
			lastTick = now

			if v.tickCallback != nil {
				v.tickCallback(dt)
			}
		case newRate := <-v.tickRateChannel:
			ticker.Reset(newRate)
			v.tickRate = newRate
		}
	}
}

// rateToInterval converts a rate in Hz to a period, defaulting to 30 Hz.
func rateToInterval(fps float64) time.Duration {
	if fps <= 0 {
		fps = 30
	}
	return time.Duration(float64(time.Second) / fps)
}
