package measure

import (
	"math/rand"
	"testing"
	"time"

	"github.com/Carmen-Shannon/automation/tools/worker"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Carmen-Shannon/oxy-view/engine/camera"
)

// metersPerPixel is the ground size of one pixel in the default top-down
// pose of an 800x600 viewport.
const metersPerPixel = 2 * (50 / 1.5 * 0.825) / 600

func newTopDownCamera() camera.Camera {
	return camera.NewCamera(camera.WithViewport(800, 600))
}

func TestMeasurementMetrics(t *testing.T) {
	m := Measurement{Start: mgl64.Vec3{0, 0, 0}, End: mgl64.Vec3{3, 4, 10}}

	assert.InDelta(t, 5.0, m.Length(), 1e-12, "length ignores height")
	assert.InDelta(t, 53.13010235415598, m.Bearing(), 1e-9)
	assert.Equal(t, mgl64.Vec3{1.5, 2, 5}, m.Midpoint())
	assert.Equal(t, "(0.00, 0.00) to (3.00, 4.00), L=5.00, θ=53.13", m.String())
}

func TestMeasurementBearingQuadrants(t *testing.T) {
	cases := []struct {
		end      mgl64.Vec3
		expected float64
	}{
		{mgl64.Vec3{1, 0, 0}, 0},
		{mgl64.Vec3{0, 1, 0}, 90},
		{mgl64.Vec3{-1, 0, 0}, 180},
		{mgl64.Vec3{0, -1, 0}, -90},
	}
	for _, tc := range cases {
		m := Measurement{End: tc.end}
		assert.InDelta(t, tc.expected, m.Bearing(), 1e-9, "end %v", tc.end)
	}
}

func TestToolDragCommitsMeasurement(t *testing.T) {
	tool := NewTool(newTopDownCamera())
	require.False(t, tool.Active())

	tool.Begin(400, 300)
	require.True(t, tool.Active())
	tool.Update(500, 300)
	tool.Update(400, 200)

	current := tool.Current()
	assert.InDelta(t, 0.0, current.End.X(), 1e-9)
	assert.InDelta(t, 100*metersPerPixel, current.End.Y(), 1e-9)

	m, ok := tool.End()
	require.True(t, ok)
	assert.False(t, tool.Active())
	assert.InDelta(t, 100*metersPerPixel, m.Length(), 1e-9)
	assert.InDelta(t, 90.0, m.Bearing(), 1e-6)
	assert.Equal(t, []Measurement{m}, tool.Committed())
	assert.Equal(t, Measurement{}, tool.Current())
}

func TestToolIgnoresUpdateAndEndWhenInactive(t *testing.T) {
	tool := NewTool(newTopDownCamera())

	tool.Update(10, 10)
	_, ok := tool.End()

	assert.False(t, ok)
	assert.Empty(t, tool.Committed())
	assert.Equal(t, Measurement{}, tool.Current())
}

func TestToolCancelAndClear(t *testing.T) {
	tool := NewTool(newTopDownCamera())

	tool.Begin(400, 300)
	tool.Update(500, 300)
	tool.Cancel()
	assert.False(t, tool.Active())
	assert.Empty(t, tool.Committed())

	tool.Begin(400, 300)
	tool.End()
	require.Len(t, tool.Committed(), 1)
	tool.Clear()
	assert.Empty(t, tool.Committed())
}

func TestToolCommittedReturnsCopy(t *testing.T) {
	tool := NewTool(newTopDownCamera())
	tool.Begin(400, 300)
	tool.End()

	list := tool.Committed()
	list[0].End = mgl64.Vec3{99, 99, 99}

	assert.Equal(t, Measurement{}, tool.Committed()[0])
}

func TestToolAnchorsAtMidpointPixel(t *testing.T) {
	pool := worker.NewDynamicWorkerPool(2, 256, 1*time.Second)
	tool := NewTool(newTopDownCamera(), WithPool(pool))

	tool.Begin(400, 300)
	tool.Update(500, 300)
	tool.End()
	tool.Begin(100, 100)
	tool.Update(300, 500)
	tool.End()

	anchors := tool.Anchors()
	require.Len(t, anchors, 2)
	assert.Equal(t, 0, anchors[0].Index)
	assert.InDelta(t, 450.0, anchors[0].Pixel.X(), 1e-6)
	assert.InDelta(t, 300.0, anchors[0].Pixel.Y(), 1e-6)
	assert.Equal(t, 1, anchors[1].Index)
	assert.InDelta(t, 200.0, anchors[1].Pixel.X(), 1e-6)
	assert.InDelta(t, 300.0, anchors[1].Pixel.Y(), 1e-6)
}

func TestToolAnchorsSkipOffscreenMidpoints(t *testing.T) {
	c := newTopDownCamera()
	tool := NewTool(c)

	tool.Begin(400, 300)
	tool.Update(500, 300)
	tool.End()
	c.Translate(mgl64.Vec3{1000, 0, 0})
	tool.Begin(400, 300)
	tool.Update(400, 200)
	tool.End()

	anchors := tool.Anchors()
	require.Len(t, anchors, 1)
	assert.Equal(t, 1, anchors[0].Index)
	assert.InDelta(t, 400.0, anchors[0].Pixel.X(), 1e-6)
	assert.InDelta(t, 250.0, anchors[0].Pixel.Y(), 1e-6)

	c.Translate(mgl64.Vec3{-1000, 0, 0})
	anchors = tool.Anchors()
	require.Len(t, anchors, 1)
	assert.Equal(t, 0, anchors[0].Index)
}

func TestToolAnchorsSpreadOverPool(t *testing.T) {
	c := newTopDownCamera()
	pooled := NewTool(c, WithPool(worker.NewDynamicWorkerPool(3, 256, 1*time.Second)))
	inline := NewTool(c)
	for i := range 4 * projectChunk {
		x, y := 100+i%600, 50+i%500
		for _, tool := range []Tool{pooled, inline} {
			tool.Begin(x, y)
			tool.Update(x+10, y+5)
			tool.End()
		}
	}

	anchors := pooled.Anchors()
	require.Len(t, anchors, 4*projectChunk)
	assert.Equal(t, inline.Anchors(), anchors)
	assert.Equal(t, 77, anchors[77].Index)
	assert.InDelta(t, 182.0, anchors[77].Pixel.X(), 1e-6)
	assert.InDelta(t, 129.5, anchors[77].Pixel.Y(), 1e-6)
}

func TestProjectAllPoolMatchesInline(t *testing.T) {
	c := newTopDownCamera()
	c.Orbit(30, -80)
	rng := rand.New(rand.NewSource(3))
	points := make([]mgl64.Vec3, 1000)
	for i := range points {
		points[i] = mgl64.Vec3{rng.Float64()*200 - 100, rng.Float64()*200 - 100, rng.Float64() * 10}
	}
	pool := worker.NewDynamicWorkerPool(4, 256, 1*time.Second)

	inline := ProjectAll(nil, c, points)
	pooled := ProjectAll(pool, c, points)

	require.Len(t, pooled, len(points))
	assert.Equal(t, inline, pooled)
	assert.Equal(t, c.WorldToScreen(points[777]), pooled[777])
}

func TestProjectAllEmpty(t *testing.T) {
	assert.Empty(t, ProjectAll(nil, newTopDownCamera(), nil))
}
