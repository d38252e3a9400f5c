package renderer

import (
	"encoding/binary"
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/Carmen-Shannon/oxy-view/engine/measure"
)

// LineVertexSize is the byte stride of one LineVertex in the vertex buffer.
const LineVertexSize = 28

// maxGridSteps bounds the lines GridLines draws on each side of the center.
const maxGridSteps = 1000

// LineVertex is one end of a line segment, laid out to match the vertex input of the line shader.
type LineVertex struct {
	Position [3]float32 // location 0
	Color    Color      // location 1
}

// Color is a linear RGBA color.
type Color [4]float32

var (
	gridMinorColor    = Color{0.3, 0.3, 0.3, 1}
	gridMajorColor    = Color{0.45, 0.45, 0.45, 1}
	axisXColor        = Color{0.8, 0.25, 0.25, 1}
	axisYColor        = Color{0.25, 0.8, 0.25, 1}
	measureColor      = Color{1, 0.85, 0.2, 1}
	measureDraftColor = Color{1, 1, 1, 1}
)

func lineVertex(p mgl64.Vec3, c Color) LineVertex {
	return LineVertex{
		Position: [3]float32{float32(p[0]), float32(p[1]), float32(p[2])},
		Color:    c,
	}
}

// GridLines builds a square ground grid of line-list vertices on the plane z = center.z.
// The grid is snapped to spacing so it stays fixed in the world while the center moves.
// Every tenth line is drawn brighter; the world X and Y axes are colored when they fall
// inside the grid.
//
// Parameters:
//   - center: the point the grid is centered on, usually the camera's look-at point
//   - halfExtent: half the side length of the grid in meters
//   - spacing: distance between grid lines in meters
//
// Returns:
//   - []LineVertex: two vertices per line, or nil when spacing or halfExtent is not positive.
//     At most maxGridSteps lines are drawn on each side of the center.
func GridLines(center mgl64.Vec3, halfExtent, spacing float64) []LineVertex {
	if spacing <= 0 || halfExtent <= 0 {
		return nil
	}

	steps := int(math.Min(math.Floor(halfExtent/spacing), maxGridSteps))
	cx := math.Round(center.X()/spacing) * spacing
	cy := math.Round(center.Y()/spacing) * spacing
	z := center.Z()
	span := float64(steps) * spacing

	vertices := make([]LineVertex, 0, (2*steps+1)*4)
	for i := -steps; i <= steps; i++ {
		x := cx + float64(i)*spacing
		y := cy + float64(i)*spacing

		vertices = append(vertices,
			lineVertex(mgl64.Vec3{x, cy - span, z}, gridColor(x, spacing, axisYColor)),
			lineVertex(mgl64.Vec3{x, cy + span, z}, gridColor(x, spacing, axisYColor)),
			lineVertex(mgl64.Vec3{cx - span, y, z}, gridColor(y, spacing, axisXColor)),
			lineVertex(mgl64.Vec3{cx + span, y, z}, gridColor(y, spacing, axisXColor)),
		)
	}
	return vertices
}

// gridColor picks the color of the grid line at world coordinate v.
// A line at v == 0 is a world axis and gets axis.
func gridColor(v, spacing float64, axis Color) Color {
	index := math.Round(v / spacing)
	switch {
	case index == 0:
		return axis
	case math.Mod(index, 10) == 0:
		return gridMajorColor
	default:
		return gridMinorColor
	}
}

// MeasureLines builds line-list vertices for committed measurements and, when non-nil,
// the measurement still being dragged.
//
// Parameters:
//   - committed: the finished measurements
//   - current: the in-progress measurement, or nil
//
// Returns:
//   - []LineVertex: two vertices per measurement
func MeasureLines(committed []measure.Measurement, current *measure.Measurement) []LineVertex {
	vertices := make([]LineVertex, 0, 2*(len(committed)+1))
	for _, m := range committed {
		vertices = append(vertices, lineVertex(m.Start, measureColor), lineVertex(m.End, measureColor))
	}
	if current != nil {
		vertices = append(vertices, lineVertex(current.Start, measureDraftColor), lineVertex(current.End, measureDraftColor))
	}
	return vertices
}

// fitLineVertices joins grid and overlay into at most limit vertices. Grid lines
// are dropped first so the overlay survives; whole segments are always kept.
func fitLineVertices(grid, overlay []LineVertex, limit int) []LineVertex {
	limit -= limit % 2
	if len(overlay) > limit {
		overlay = overlay[:limit]
	}
	if room := limit - len(overlay); len(grid) > room {
		grid = grid[:room-room%2]
	}
	vertices := make([]LineVertex, 0, len(grid)+len(overlay))
	vertices = append(vertices, grid...)
	return append(vertices, overlay...)
}

// MarshalLineVertices serializes vertices into a little-endian byte buffer for GPU upload.
//
// Parameters:
//   - vertices: the vertices to serialize
//
// Returns:
//   - []byte: LineVertexSize bytes per vertex
func MarshalLineVertices(vertices []LineVertex) []byte {
	buf := make([]byte, len(vertices)*LineVertexSize)
	for i, v := range vertices {
		offset := i * LineVertexSize
		for j := range 3 {
			binary.LittleEndian.PutUint32(buf[offset+j*4:], math.Float32bits(v.Position[j]))
		}
		for j := range 4 {
			binary.LittleEndian.PutUint32(buf[offset+12+j*4:], math.Float32bits(v.Color[j]))
		}
	}
	return buf
}
