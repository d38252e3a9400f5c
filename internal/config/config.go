package config

import (
	"fmt"

	"github.com/spf13/viper"

	"github.com/Carmen-Shannon/oxy-view/common"
)

// FileName is the config file looked up in the config directory.
const FileName = "oxy_view.cfg.json"

// maxGridLines bounds the grid lines drawn on each side of the center.
const maxGridLines = 1000

// WindowConfig holds the initial window settings.
type WindowConfig struct {
	Title  string `json:"title" mapstructure:"title"`
	Width  int    `json:"width" mapstructure:"width"`
	Height int    `json:"height" mapstructure:"height"`
}

// CameraConfig holds the camera projection settings.
type CameraConfig struct {
	FovDegrees   float64 `json:"fovDegrees" mapstructure:"fovDegrees"`
	Near         float64 `json:"near" mapstructure:"near"`
	Far          float64 `json:"far" mapstructure:"far"`
	BirdviewLock bool    `json:"birdviewLock" mapstructure:"birdviewLock"`
}

// FollowConfig holds the follow mode settings.
type FollowConfig struct {
	Enabled     bool `json:"enabled" mapstructure:"enabled"`
	TrackHeight bool `json:"trackHeight" mapstructure:"trackHeight"`
}

// RendererConfig holds the drawing settings.
type RendererConfig struct {
	PresentMode  string  `json:"presentMode" mapstructure:"presentMode"`
	GridHalfSize float64 `json:"gridHalfSize" mapstructure:"gridHalfSize"`
	GridSpacing  float64 `json:"gridSpacing" mapstructure:"gridSpacing"`
}

// LoopConfig holds the main loop settings.
type LoopConfig struct {
	FrameRate float64 `json:"frameRate" mapstructure:"frameRate"`
	Profiling bool    `json:"profiling" mapstructure:"profiling"`
	Workers   int     `json:"workers" mapstructure:"workers"`
}

// ViewerConfig is the typed view of all settings the viewer consumes.
// Its JSON form uses the same keys as the config file.
type ViewerConfig struct {
	LogLevel string         `json:"logLevel" mapstructure:"logLevel"`
	LogFile  string         `json:"logFile" mapstructure:"logFile"`
	Viewer   LoopConfig     `json:"viewer" mapstructure:"viewer"`
	Window   WindowConfig   `json:"window" mapstructure:"window"`
	Camera   CameraConfig   `json:"camera" mapstructure:"camera"`
	Follow   FollowConfig   `json:"follow" mapstructure:"follow"`
	Renderer RendererConfig `json:"renderer" mapstructure:"renderer"`
}

// SetDefaults registers the default value of every key.
func SetDefaults() {
	viper.SetDefault("logLevel", "info")
	viper.SetDefault("logFile", "")

	viper.SetDefault("window.title", "oxy-view")
	viper.SetDefault("window.width", 1280)
	viper.SetDefault("window.height", 720)

	viper.SetDefault("viewer.frameRate", 30)
	viper.SetDefault("viewer.profiling", false)
	viper.SetDefault("viewer.workers", 2)

	viper.SetDefault("camera.fovDegrees", 45.0)
	viper.SetDefault("camera.near", 0.1)
	viper.SetDefault("camera.far", 5000.0)
	viper.SetDefault("camera.birdviewLock", false)

	viper.SetDefault("follow.enabled", false)
	viper.SetDefault("follow.trackHeight", true)

	viper.SetDefault("renderer.presentMode", "vsync")
	viper.SetDefault("renderer.gridHalfSize", 500.0)
	viper.SetDefault("renderer.gridSpacing", 10.0)
}

// Load reads configuration from JSON file and sets default values.
// configDir is the directory containing the config file.
func Load(configDir string) error {
	SetDefaults()

	viper.SetConfigName(FileName)
	viper.AddConfigPath(configDir)
	viper.SetConfigType("json")

	err := viper.ReadInConfig()
	if err != nil {
		return fmt.Errorf("error reading config file: %v", err)
	}

	return nil
}

// Viewer returns the current settings, with out-of-range values replaced by
// usable ones.
func Viewer() ViewerConfig {
	near := viper.GetFloat64("camera.near")
	if near <= 0 {
		near = 0.1
	}
	far := viper.GetFloat64("camera.far")
	if far <= near {
		far = near * 50000
	}
	gridHalfSize := max(viper.GetFloat64("renderer.gridHalfSize"), 0)
	gridSpacing := max(viper.GetFloat64("renderer.gridSpacing"), 0)
	if gridSpacing > 0 && gridHalfSize/gridSpacing > maxGridLines {
		gridSpacing = gridHalfSize / maxGridLines
	}

	return ViewerConfig{
		LogLevel: viper.GetString("logLevel"),
		LogFile:  viper.GetString("logFile"),
		Viewer: LoopConfig{
			FrameRate: common.Clamp(viper.GetFloat64("viewer.frameRate"), 1, 240),
			Profiling: viper.GetBool("viewer.profiling"),
			Workers:   common.Clamp(viper.GetInt("viewer.workers"), 1, 64),
		},
		Window: WindowConfig{
			Title:  common.Coalesce(viper.GetString("window.title"), "oxy-view"),
			Width:  common.Coalesce(viper.GetInt("window.width"), 1280),
			Height: common.Coalesce(viper.GetInt("window.height"), 720),
		},
		Camera: CameraConfig{
			FovDegrees:   common.Clamp(viper.GetFloat64("camera.fovDegrees"), 1, 179),
			Near:         near,
			Far:          far,
			BirdviewLock: viper.GetBool("camera.birdviewLock"),
		},
		Follow: FollowConfig{
			Enabled:     viper.GetBool("follow.enabled"),
			TrackHeight: viper.GetBool("follow.trackHeight"),
		},
		Renderer: RendererConfig{
			PresentMode:  viper.GetString("renderer.presentMode"),
			GridHalfSize: gridHalfSize,
			GridSpacing:  gridSpacing,
		},
	}
}

// Set overrides a config value, e.g. from a command-line flag.
func Set(key string, value any) {
	viper.Set(key, value)
}
