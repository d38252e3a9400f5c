package renderer

import (
	"github.com/cogentcore/webgpu/wgpu"
	"github.com/rs/zerolog"
)

// RendererBuilderOption is a functional option applied to a renderer during construction via NewRenderer.
type RendererBuilderOption func(*renderer)

// WithPresentMode sets the surface present mode which controls how frames are delivered to the display.
//
// Parameters:
//   - mode: the PresentMode to use (VSync or Uncapped)
//
// Returns:
//   - RendererBuilderOption: a function that applies the present mode option to a renderer
func WithPresentMode(mode PresentMode) RendererBuilderOption {
	return func(r *renderer) {
		r.presentMode = mode
	}
}

// WithClearColor sets the background color the surface is cleared to each frame.
func WithClearColor(red, green, blue float64) RendererBuilderOption {
	return func(r *renderer) {
		r.clearColor = wgpu.Color{R: red, G: green, B: blue, A: 1.0}
	}
}

// WithGrid sets the ground grid size. A non-positive spacing disables the grid.
//
// Parameters:
//   - halfSize: half the side length of the grid in meters
//   - spacing: distance between grid lines in meters
//
// Returns:
//   - RendererBuilderOption: a function that applies the grid option to a renderer
func WithGrid(halfSize, spacing float64) RendererBuilderOption {
	return func(r *renderer) {
		r.gridHalfSize = halfSize
		r.gridSpacing = spacing
	}
}

// WithMaxVertices sets the capacity of the line vertex buffer. Lines past it are dropped.
func WithMaxVertices(n int) RendererBuilderOption {
	return func(r *renderer) {
		if n > 0 {
			r.maxVertices = n
		}
	}
}

// WithFallbackAdapter forces the software fallback adapter.
func WithFallbackAdapter(force bool) RendererBuilderOption {
	return func(r *renderer) {
		r.forceFallback = force
	}
}

// WithLogger sets the logger the renderer reports setup and overflow through.
func WithLogger(logger zerolog.Logger) RendererBuilderOption {
	return func(r *renderer) {
		r.logger = logger.With().Str("component", "renderer").Logger()
	}
}
