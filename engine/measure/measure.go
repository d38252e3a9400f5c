// Package measure implements the ground-distance measuring tool of the viewer:
// click-and-drag between two picked ground points, read length and bearing.
package measure

import (
	"fmt"
	"math"
	"sync"

	"github.com/Carmen-Shannon/automation/tools/worker"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/rs/zerolog"

	"github.com/Carmen-Shannon/oxy-view/engine/camera"
)

// projectChunk is the number of points a single pool task projects.
const projectChunk = 32

var groundNormal = mgl64.Vec3{0, 0, 1}

// Measurement is a segment between two picked world points.
type Measurement struct {
	Start mgl64.Vec3
	End   mgl64.Vec3
}

// Length returns the distance between the endpoints in the xy plane.
func (m Measurement) Length() float64 {
	return math.Hypot(m.End[0]-m.Start[0], m.End[1]-m.Start[1])
}

// Bearing returns the direction from Start to End in degrees, counter-clockwise from +X.
func (m Measurement) Bearing() float64 {
	return mgl64.RadToDeg(math.Atan2(m.End[1]-m.Start[1], m.End[0]-m.Start[0]))
}

// Midpoint returns the point halfway between the endpoints.
func (m Measurement) Midpoint() mgl64.Vec3 {
	return m.Start.Add(m.End).Mul(0.5)
}

// Anchor is the label position of one committed measurement.
type Anchor struct {
	Index int        // position in Committed()
	Pixel mgl64.Vec2 // y growing downward
}

func (m Measurement) String() string {
	return fmt.Sprintf("(%.2f, %.2f) to (%.2f, %.2f), L=%.2f, θ=%.2f",
		m.Start[0], m.Start[1], m.End[0], m.End[1], m.Length(), m.Bearing())
}

type toolImpl struct {
	camera camera.Camera
	pool   worker.DynamicWorkerPool
	logger zerolog.Logger

	active    bool
	current   Measurement
	committed []Measurement
}

// Tool tracks an in-progress measurement and the list of committed ones.
// Like the camera it reads from, Tool is driven from the window thread.
type Tool interface {
	// Begin starts a measurement anchored at the ground point under a pixel.
	//
	// Parameters:
	//   - x, y: pixel position, y growing downward
	Begin(x, y int)

	// Update moves the free end of the active measurement. No-op when inactive.
	//
	// Parameters:
	//   - x, y: pixel position, y growing downward
	Update(x, y int)

	// End commits the active measurement.
	//
	// Returns:
	//   - Measurement: the committed measurement
	//   - bool: false if no measurement was active
	End() (Measurement, bool)

	// Cancel drops the active measurement without committing it.
	Cancel()

	// Clear removes all committed measurements.
	Clear()

	// Active reports whether a measurement is in progress.
	//
	// Returns:
	//   - bool: true between Begin and End
	Active() bool

	// Current returns the in-progress measurement.
	//
	// Returns:
	//   - Measurement: the measurement, zero if none is active
	Current() Measurement

	// Committed returns a copy of the committed measurements in commit order.
	//
	// Returns:
	//   - []Measurement: the measurements
	Committed() []Measurement

	// Anchors returns the screen position of each committed measurement's
	// midpoint, for placing labels. Measurements whose midpoint lies outside
	// the camera frustum get no anchor.
	//
	// Returns:
	//   - []Anchor: one anchor per visible midpoint, in commit order
	Anchors() []Anchor
}

var _ Tool = &toolImpl{}

// NewTool creates a measure tool picking through c.
//
// Parameters:
//   - c: the camera used for picking and projection
//   - options: functional options to configure the tool
//
// Returns:
//   - Tool: the tool
func NewTool(c camera.Camera, options ...ToolBuilderOption) Tool {
	t := &toolImpl{
		camera: c,
		logger: zerolog.Nop(),
	}
	for _, option := range options {
		option(t)
	}
	return t
}

func (t *toolImpl) pick(x, y int) mgl64.Vec3 {
	return t.camera.ScreenToWorld(mgl64.Vec2{float64(x), float64(y)}, mgl64.Vec3{}, groundNormal)
}

func (t *toolImpl) Begin(x, y int) {
	p := t.pick(x, y)
	t.active = true
	t.current = Measurement{Start: p, End: p}
}

func (t *toolImpl) Update(x, y int) {
	if !t.active {
		return
	}
	t.current.End = t.pick(x, y)
}

func (t *toolImpl) End() (Measurement, bool) {
	if !t.active {
		return Measurement{}, false
	}
	m := t.current
	t.active = false
	t.current = Measurement{}
	t.committed = append(t.committed, m)
	t.logger.Info().Stringer("measurement", m).Msg("measurement committed")
	return m, true
}

func (t *toolImpl) Cancel() {
	t.active = false
	t.current = Measurement{}
}

func (t *toolImpl) Clear() {
	t.committed = nil
}

func (t *toolImpl) Active() bool {
	return t.active
}

func (t *toolImpl) Current() Measurement {
	return t.current
}

func (t *toolImpl) Committed() []Measurement {
	out := make([]Measurement, len(t.committed))
	copy(out, t.committed)
	return out
}

func (t *toolImpl) Anchors() []Anchor {
	frustum := t.camera.Frustum()
	indices := make([]int, 0, len(t.committed))
	points := make([]mgl64.Vec3, 0, len(t.committed))
	for i, m := range t.committed {
		if mid := m.Midpoint(); frustum.Contains(mid) {
			indices = append(indices, i)
			points = append(points, mid)
		}
	}

	h := float64(t.camera.Viewport().Height)
	projected := ProjectAll(t.pool, t.camera, points)
	anchors := make([]Anchor, len(projected))
	for i, p := range projected {
		anchors[i] = Anchor{Index: indices[i], Pixel: mgl64.Vec2{p[0], h - p[1]}}
	}
	return anchors
}

// ProjectAll projects world points to window coordinates (bottom-left origin)
// using a snapshot of c's matrices. Inputs larger than one chunk are spread
// over pool; a nil pool or a small input is projected on the calling goroutine.
// The camera itself is only read on the calling goroutine.
//
// Parameters:
//   - pool: worker pool for large inputs, may be nil
//   - c: the camera to snapshot
//   - points: world-space points
//
// Returns:
//   - []mgl64.Vec3: window x, window y, depth per input point
func ProjectAll(pool worker.DynamicWorkerPool, c camera.Camera, points []mgl64.Vec3) []mgl64.Vec3 {
	pr := c.Projector()
	out := make([]mgl64.Vec3, len(points))

	if pool == nil || len(points) <= projectChunk {
		for i, p := range points {
			out[i] = pr.Project(p)
		}
		return out
	}

	// Each task owns a disjoint slice of out, so no locking is needed.
	var wg sync.WaitGroup
	taskID := 0
	for start := 0; start < len(points); start += projectChunk {
		end := min(start+projectChunk, len(points))
		wg.Add(1)
		lo, hi := start, end
		pool.SubmitTask(worker.Task{
			ID: taskID,
			Do: func() (any, error) {
				defer wg.Done()
				for i := lo; i < hi; i++ {
					out[i] = pr.Project(points[i])
				}
				return nil, nil
			},
		})
		taskID++
	}
	wg.Wait()

	return out
}
