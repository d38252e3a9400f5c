package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/Carmen-Shannon/oxy-view/engine"
	"github.com/Carmen-Shannon/oxy-view/engine/camera"
	"github.com/Carmen-Shannon/oxy-view/engine/measure"
	"github.com/Carmen-Shannon/oxy-view/engine/renderer"
	"github.com/Carmen-Shannon/oxy-view/engine/window"
	"github.com/Carmen-Shannon/oxy-view/internal/config"
	"github.com/Carmen-Shannon/oxy-view/internal/demo"
	"github.com/Carmen-Shannon/oxy-view/internal/logging"
)

var (
	configDir   string
	logLevel    string
	followFlag  bool
	demoFlag    bool
	demoRadius  float64
	demoSpeed   float64
	profileFlag bool
)

func init() {
	rootCmd.PersistentFlags().StringVar(&configDir, "config", ".", "directory containing "+config.FileName)
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level override (trace, debug, info, warn, error)")

	rootCmd.Flags().BoolVar(&followFlag, "follow", false, "start in follow mode")
	rootCmd.Flags().BoolVar(&profileFlag, "profile", false, "log frame statistics once per second")
	rootCmd.Flags().BoolVar(&demoFlag, "demo", false, "publish a simulated vehicle driving in a circle")
	rootCmd.Flags().Float64Var(&demoRadius, "demo-radius", 40, "radius of the simulated vehicle's circle in meters")
	rootCmd.Flags().Float64Var(&demoSpeed, "demo-speed", 8, "speed of the simulated vehicle in meters per second")
}

// loadConfig reads the config file and applies command-line overrides.
// A missing file is not fatal: the defaults are already registered.
func loadConfig(cmd *cobra.Command) (config.ViewerConfig, error) {
	loadErr := config.Load(configDir)

	if cmd.Flags().Changed("log-level") {
		config.Set("logLevel", logLevel)
	}
	if cmd.Flags().Changed("follow") {
		config.Set("follow.enabled", followFlag)
	}
	if cmd.Flags().Changed("profile") {
		config.Set("viewer.profiling", profileFlag)
	}
	return config.Viewer(), loadErr
}

func runViewer(cmd *cobra.Command, args []string) error {
	cfg, loadErr := loadConfig(cmd)

	var logFile io.Writer
	if cfg.LogFile != "" {
		f, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			return fmt.Errorf("failed to open log file: %w", err)
		}
		defer f.Close()
		logFile = f
	}

	logger := logging.Setup(cfg.LogLevel, os.Stdout, logFile)
	if loadErr != nil {
		logger.Warn().Err(loadErr).Str("dir", configDir).Msg("using default configuration")
	}

	win, err := window.NewWindow(
		window.WithTitle(cfg.Window.Title),
		window.WithSize(cfg.Window.Width, cfg.Window.Height),
	)
	if err != nil {
		return err
	}

	r, err := renderer.NewRenderer(win.SurfaceDescriptor(), win.Width(), win.Height(),
		renderer.WithPresentMode(renderer.ParsePresentMode(cfg.Renderer.PresentMode)),
		renderer.WithGrid(cfg.Renderer.GridHalfSize, cfg.Renderer.GridSpacing),
		renderer.WithLogger(logger),
	)
	if err != nil {
		_ = win.Close()
		return fmt.Errorf("failed to create renderer: %w", err)
	}
	defer r.Release()

	v := engine.NewViewer(
		engine.WithWindow(win),
		engine.WithLogger(logger),
		engine.WithCameraOptions(
			camera.WithFovDegrees(cfg.Camera.FovDegrees),
			camera.WithClipPlanes(cfg.Camera.Near, cfg.Camera.Far),
			camera.WithBirdviewLock(cfg.Camera.BirdviewLock),
			camera.WithLogger(logging.Sampled(logger)),
		),
		engine.WithFrameRate(cfg.Viewer.FrameRate),
		engine.WithProfiling(cfg.Viewer.Profiling),
		engine.WithFollow(cfg.Follow.Enabled, cfg.Follow.TrackHeight),
		engine.WithWorkers(cfg.Viewer.Workers),
	)

	width, height := win.Width(), win.Height()
	v.SetRenderCallback(func(c camera.Camera, _ float32) {
		if vp := c.Viewport(); vp.Width != width || vp.Height != height {
			width, height = vp.Width, vp.Height
			r.Resize(width, height)
		}

		tool := v.MeasureTool()
		var current *measure.Measurement
		if tool.Active() {
			m := tool.Current()
			current = &m
		}
		overlay := renderer.MeasureLines(tool.Committed(), current)

		if err := r.Render(c, overlay); err != nil {
			logger.Error().Err(err).Msg("render failed")
		}
	})

	if demoFlag {
		vehicle := demo.NewVehicle(demoRadius, demoSpeed)
		v.PoseBuffer().Publish(vehicle.Pose())
		v.SetTickCallback(vehicle.Drive(v.PoseBuffer()))
		logger.Info().
			Float64("radius", vehicle.Radius).
			Float64("speed", vehicle.Speed).
			Msg("demo vehicle started")
	}

	logger.Info().
		Str("title", cfg.Window.Title).
		Float64("frame_rate", cfg.Viewer.FrameRate).
		Bool("follow", cfg.Follow.Enabled).
		Msg("viewer starting")
	return v.Run()
}
