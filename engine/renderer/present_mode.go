package renderer

import "github.com/cogentcore/webgpu/wgpu"

// PresentMode controls how rendered frames are presented to the display surface.
type PresentMode int

const (
	// PresentModeVSync waits for the next vertical blank before presenting, capping frame rate
	// to the monitor's refresh rate. Eliminates tearing.
	PresentModeVSync PresentMode = iota

	// PresentModeUncapped presents frames immediately without waiting for vertical blank.
	// May cause screen tearing but provides the lowest latency.
	PresentModeUncapped
)

// ParsePresentMode maps a config name to a PresentMode. Anything but "uncapped" means VSync.
func ParsePresentMode(name string) PresentMode {
	if name == "uncapped" {
		return PresentModeUncapped
	}
	return PresentModeVSync
}

func (m PresentMode) String() string {
	switch m {
	case PresentModeUncapped:
		return "uncapped"
	default:
		return "vsync"
	}
}

func (m PresentMode) wgpu() wgpu.PresentMode {
	if m == PresentModeUncapped {
		return wgpu.PresentModeImmediate
	}
	return wgpu.PresentModeFifo
}
