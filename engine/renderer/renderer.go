// Package renderer draws the viewer's ground grid and measurement overlay through WebGPU,
// using the camera uniform packed by the camera package.
package renderer

import (
	_ "embed"
	"errors"
	"fmt"
	"runtime"
	"sync"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/rs/zerolog"

	"github.com/Carmen-Shannon/oxy-view/engine/camera"
)

//go:embed assets/lines.wgsl
var linesShaderSource string

// LineShaderSource is the complete WGSL source of the line pipeline, with the camera uniform
// struct prepended.
var LineShaderSource = camera.GPUCameraUniformSource + "\n" + linesShaderSource

// cameraUniformSize is the byte size of camera.GPUCameraUniform.
const cameraUniformSize = 80

// renderer is the implementation of the Renderer interface.
type renderer struct {
	mu     *sync.Mutex
	logger zerolog.Logger

	instance *wgpu.Instance
	surface  *wgpu.Surface
	adapter  *wgpu.Adapter
	device   *wgpu.Device
	queue    *wgpu.Queue

	surfaceFormat wgpu.TextureFormat
	presentMode   PresentMode
	width, height int

	pipeline      *wgpu.RenderPipeline
	cameraBuffer  *wgpu.Buffer
	bindGroup     *wgpu.BindGroup
	vertexBuffer  *wgpu.Buffer
	maxVertices   int
	clearColor    wgpu.Color
	gridHalfSize  float64
	gridSpacing   float64
	forceFallback bool

	released bool
}

// Renderer draws one frame per call from a camera's current matrices.
//
// All methods must be called from the thread that created the Renderer, which is the
// window thread in the viewer.
type Renderer interface {
	// Resize reconfigures the surface for a new framebuffer size.
	// Non-positive sizes are ignored (the window is minimized).
	//
	// Parameters:
	//   - width: the new width of the surface in pixels
	//   - height: the new height of the surface in pixels
	Resize(width, height int)

	// Render uploads the camera uniform, draws the ground grid centered on the camera's
	// look-at point plus the given overlay lines, and presents the frame.
	//
	// Parameters:
	//   - c: the camera to render from
	//   - overlay: extra line-list vertices, e.g. from MeasureLines
	//
	// Returns:
	//   - error: an error if the surface texture could not be acquired or encoding failed
	Render(c camera.Camera, overlay []LineVertex) error

	// SetPresentMode sets how frames are delivered to the display and reconfigures the surface.
	//
	// Parameters:
	//   - mode: the PresentMode to use
	SetPresentMode(mode PresentMode)

	// Release frees all GPU resources. The Renderer must not be used afterwards.
	Release()
}

var _ Renderer = &renderer{}

// NewRenderer creates a WebGPU renderer for the given surface and configures it for the
// initial framebuffer size.
//
// Parameters:
//   - surfaceDescriptor: the platform surface descriptor from the window
//   - width, height: the initial framebuffer size in pixels
//   - options: functional options to configure the renderer
//
// Returns:
//   - Renderer: the renderer
//   - error: an error if no adapter or device is available or pipeline creation fails
func NewRenderer(surfaceDescriptor *wgpu.SurfaceDescriptor, width, height int, options ...RendererBuilderOption) (Renderer, error) {
	if surfaceDescriptor == nil {
		return nil, errors.New("renderer needs a surface descriptor")
	}
	runtime.LockOSThread()

	r := &renderer{
		mu:           &sync.Mutex{},
		logger:       zerolog.Nop(),
		presentMode:  PresentModeVSync,
		maxVertices:  1 << 14,
		clearColor:   wgpu.Color{R: 0.1, G: 0.1, B: 0.1, A: 1.0},
		gridHalfSize: 500,
		gridSpacing:  10,
	}
	for _, opt := range options {
		opt(r)
	}

	r.instance = wgpu.CreateInstance(nil)
	r.surface = r.instance.CreateSurface(surfaceDescriptor)

	a, err := r.instance.RequestAdapter(&wgpu.RequestAdapterOptions{
		ForceFallbackAdapter: r.forceFallback,
		CompatibleSurface:    r.surface,
	})
	if err != nil {
		r.Release()
		return nil, fmt.Errorf("failed to request adapter: %w", err)
	}
	r.adapter = a

	d, err := a.RequestDevice(&wgpu.DeviceDescriptor{
		Label: "Viewer Device",
		RequiredLimits: &wgpu.RequiredLimits{
			Limits: wgpu.DefaultLimits(),
		},
	})
	if err != nil {
		r.Release()
		return nil, fmt.Errorf("failed to request device: %w", err)
	}
	r.device = d
	r.queue = d.GetQueue()

	capabilities := r.surface.GetCapabilities(r.adapter)
	if len(capabilities.Formats) == 0 {
		r.Release()
		return nil, errors.New("surface reports no texture formats")
	}
	r.surfaceFormat = capabilities.Formats[0]
	r.width, r.height = width, height
	r.configureSurface()

	if err := r.createPipeline(); err != nil {
		r.Release()
		return nil, err
	}

	r.logger.Info().
		Uint32("format", uint32(r.surfaceFormat)).
		Int("width", width).
		Int("height", height).
		Msg("renderer ready")
	return r, nil
}

// configureSurface applies the current size and present mode. Callers hold mu or own r exclusively.
func (r *renderer) configureSurface() {
	if r.width <= 0 || r.height <= 0 {
		return
	}
	capabilities := r.surface.GetCapabilities(r.adapter)
	r.surface.Configure(r.adapter, r.device, &wgpu.SurfaceConfiguration{
		Usage:       wgpu.TextureUsageRenderAttachment,
		Format:      r.surfaceFormat,
		Width:       uint32(r.width),
		Height:      uint32(r.height),
		PresentMode: r.presentMode.wgpu(),
		AlphaMode:   capabilities.AlphaModes[0],
	})
}

func (r *renderer) createPipeline() error {
	module, err := r.device.CreateShaderModule(&wgpu.ShaderModuleDescriptor{
		Label: "Line Shader",
		WGSLDescriptor: &wgpu.ShaderModuleWGSLDescriptor{
			Code: LineShaderSource,
		},
	})
	if err != nil {
		return fmt.Errorf("failed to create line shader: %w", err)
	}
	defer module.Release()

	bindGroupLayout, err := r.device.CreateBindGroupLayout(&wgpu.BindGroupLayoutDescriptor{
		Label: "Camera Bind Group Layout",
		Entries: []wgpu.BindGroupLayoutEntry{
			{
				Binding:    0,
				Visibility: wgpu.ShaderStageVertex,
				Buffer: wgpu.BufferBindingLayout{
					Type:           wgpu.BufferBindingTypeUniform,
					MinBindingSize: cameraUniformSize,
				},
			},
		},
	})
	if err != nil {
		return fmt.Errorf("failed to create camera bind group layout: %w", err)
	}
	defer bindGroupLayout.Release()

	pipelineLayout, err := r.device.CreatePipelineLayout(&wgpu.PipelineLayoutDescriptor{
		Label:            "Line Pipeline Layout",
		BindGroupLayouts: []*wgpu.BindGroupLayout{bindGroupLayout},
	})
	if err != nil {
		return err
	}
	defer pipelineLayout.Release()

	r.pipeline, err = r.device.CreateRenderPipeline(&wgpu.RenderPipelineDescriptor{
		Label:  "Line Render Pipeline",
		Layout: pipelineLayout,
		Vertex: wgpu.VertexState{
			Module:     module,
			EntryPoint: "vs_main",
			Buffers: []wgpu.VertexBufferLayout{
				{
					ArrayStride: LineVertexSize,
					StepMode:    wgpu.VertexStepModeVertex,
					Attributes: []wgpu.VertexAttribute{
						{Format: wgpu.VertexFormatFloat32x3, Offset: 0, ShaderLocation: 0},
						{Format: wgpu.VertexFormatFloat32x4, Offset: 12, ShaderLocation: 1},
					},
				},
			},
		},
		Fragment: &wgpu.FragmentState{
			Module:     module,
			EntryPoint: "fs_main",
			Targets: []wgpu.ColorTargetState{
				{
					Format:    r.surfaceFormat,
					WriteMask: wgpu.ColorWriteMaskAll,
				},
			},
		},
		Primitive: wgpu.PrimitiveState{
			Topology:  wgpu.PrimitiveTopologyLineList,
			FrontFace: wgpu.FrontFaceCCW,
			CullMode:  wgpu.CullModeNone,
		},
		Multisample: wgpu.MultisampleState{
			Count: 1,
			Mask:  0xFFFFFFFF,
		},
	})
	if err != nil {
		return fmt.Errorf("failed to create line pipeline: %w", err)
	}

	r.cameraBuffer, err = r.device.CreateBuffer(&wgpu.BufferDescriptor{
		Label: "Camera Uniform Buffer",
		Size:  cameraUniformSize,
		Usage: wgpu.BufferUsageUniform | wgpu.BufferUsageCopyDst,
	})
	if err != nil {
		return err
	}

	r.bindGroup, err = r.device.CreateBindGroup(&wgpu.BindGroupDescriptor{
		Label:  "Camera Bind Group",
		Layout: bindGroupLayout,
		Entries: []wgpu.BindGroupEntry{
			{Binding: 0, Buffer: r.cameraBuffer, Offset: 0, Size: wgpu.WholeSize},
		},
	})
	if err != nil {
		return err
	}

	r.vertexBuffer, err = r.device.CreateBuffer(&wgpu.BufferDescriptor{
		Label: "Line Vertex Buffer",
		Size:  uint64(r.maxVertices * LineVertexSize),
		Usage: wgpu.BufferUsageVertex | wgpu.BufferUsageCopyDst,
	})
	return err
}

func (r *renderer) Resize(width, height int) {
	if width <= 0 || height <= 0 {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	r.width, r.height = width, height
	r.configureSurface()
}

func (r *renderer) SetPresentMode(mode PresentMode) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.presentMode = mode
	r.configureSurface()
}

func (r *renderer) Render(c camera.Camera, overlay []LineVertex) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.released {
		return errors.New("renderer released")
	}

	uniform := camera.NewGPUCameraUniform(c)
	r.queue.WriteBuffer(r.cameraBuffer, 0, uniform.Marshal())

	grid := GridLines(c.LookAt(), r.gridHalfSize, r.gridSpacing)
	if total := len(grid) + len(overlay); total > r.maxVertices {
		r.logger.Warn().
			Int("vertices", total).
			Int("max", r.maxVertices).
			Msg("line vertices truncated")
	}
	vertices := fitLineVertices(grid, overlay, r.maxVertices)
	if len(vertices) > 0 {
		r.queue.WriteBuffer(r.vertexBuffer, 0, MarshalLineVertices(vertices))
	}

	surfaceTexture, err := r.surface.GetCurrentTexture()
	if err != nil {
		return err
	}
	defer surfaceTexture.Release()

	view, err := surfaceTexture.CreateView(nil)
	if err != nil {
		return err
	}
	defer view.Release()

	encoder, err := r.device.CreateCommandEncoder(nil)
	if err != nil {
		return err
	}
	defer encoder.Release()

	pass := encoder.BeginRenderPass(&wgpu.RenderPassDescriptor{
		ColorAttachments: []wgpu.RenderPassColorAttachment{
			{
				View:       view,
				LoadOp:     wgpu.LoadOpClear,
				StoreOp:    wgpu.StoreOpStore,
				ClearValue: r.clearColor,
			},
		},
	})
	if len(vertices) > 0 {
		pass.SetPipeline(r.pipeline)
		pass.SetBindGroup(0, r.bindGroup, nil)
		pass.SetVertexBuffer(0, r.vertexBuffer, 0, wgpu.WholeSize)
		pass.Draw(uint32(len(vertices)), 1, 0, 0)
	}
	pass.End()

	commandBuffer, err := encoder.Finish(nil)
	if err != nil {
		return err
	}
	defer commandBuffer.Release()

	r.queue.Submit(commandBuffer)
	r.surface.Present()
	return nil
}

func (r *renderer) Release() {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.released {
		return
	}
	r.released = true

	if r.bindGroup != nil {
		r.bindGroup.Release()
	}
	if r.cameraBuffer != nil {
		r.cameraBuffer.Release()
	}
	if r.vertexBuffer != nil {
		r.vertexBuffer.Release()
	}
	if r.pipeline != nil {
		r.pipeline.Release()
	}
	if r.queue != nil {
		r.queue.Release()
	}
	if r.device != nil {
		r.device.Release()
	}
	if r.adapter != nil {
		r.adapter.Release()
	}
	if r.surface != nil {
		r.surface.Release()
	}
	if r.instance != nil {
		r.instance.Release()
	}
}
