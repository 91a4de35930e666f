// Package config holds runtime settings for the choreo commands.
package config

import (
	"fmt"
	"runtime"
	"strings"

	"github.com/spf13/viper"
)

// Keys shared by flags, the config file and CHOREO_* environment variables.
const (
	KeyLogLevel  = "loglevel"
	KeyProject   = "project"
	KeyOutput    = "output"
	KeyAudio     = "audio"
	KeyBackdrop  = "backdrop"
	KeyWidth     = "width"
	KeyHeight    = "height"
	KeyFormat    = "format"
	KeyFPS       = "fps"
	KeyWorkers   = "workers"
	KeyDPI       = "dpi"
	KeyEncoder   = "encoder"
	KeyQuality   = "quality"
	KeyStats     = "stats"
	KeyLabels    = "labels"
	KeyTimecode  = "timecode"
	KeyGridZoom  = "grid-zoom"
	KeyInputDir  = "input-dir"
	KeyOutputDir = "output-dir"
	EnvPrefix    = "CHOREO"
	ConfigName   = ".choreo"
)

type Config struct {
	LogLevel     string
	ProjectPath  string
	OutputVideo  string
	AudioPath    string
	BackdropPath string
	InputDir     string
	OutputDir    string
	Width        int
	Height       int
	FPS          int
	Workers      int
	DPI          int
	VideoEncoder string
	Quality      int
	ShowStats    bool
	ShowLabels   bool
	Timecode     bool
	GridZoom     float64
	BuildVersion string
}

// SetDefaults registers the default for every key.
func SetDefaults(v *viper.Viper) {
	v.SetDefault(KeyLogLevel, "info")
	v.SetDefault(KeyFormat, "")
	v.SetDefault(KeyWidth, 1280)
	v.SetDefault(KeyHeight, 720)
	v.SetDefault(KeyFPS, 30)
	v.SetDefault(KeyWorkers, runtime.NumCPU())
	v.SetDefault(KeyDPI, 150)
	v.SetDefault(KeyEncoder, "")
	v.SetDefault(KeyQuality, 0)
	v.SetDefault(KeyStats, false)
	v.SetDefault(KeyLabels, true)
	v.SetDefault(KeyTimecode, false)
	v.SetDefault(KeyGridZoom, 1.0)
	v.SetDefault(KeyInputDir, "input")
	v.SetDefault(KeyOutputDir, "output")
}

// Load reads a Config out of v. A non-empty format (16:9, 9:16, 4:5)
// overrides width and height.
func Load(v *viper.Viper) (*Config, error) {
	cfg := &Config{
		LogLevel:     v.GetString(KeyLogLevel),
		ProjectPath:  v.GetString(KeyProject),
		OutputVideo:  v.GetString(KeyOutput),
		AudioPath:    v.GetString(KeyAudio),
		BackdropPath: v.GetString(KeyBackdrop),
		InputDir:     v.GetString(KeyInputDir),
		OutputDir:    v.GetString(KeyOutputDir),
		Width:        v.GetInt(KeyWidth),
		Height:       v.GetInt(KeyHeight),
		FPS:          v.GetInt(KeyFPS),
		Workers:      v.GetInt(KeyWorkers),
		DPI:          v.GetInt(KeyDPI),
		VideoEncoder: v.GetString(KeyEncoder),
		Quality:      v.GetInt(KeyQuality),
		ShowStats:    v.GetBool(KeyStats),
		ShowLabels:   v.GetBool(KeyLabels),
		Timecode:     v.GetBool(KeyTimecode),
		GridZoom:     v.GetFloat64(KeyGridZoom),
	}

	if f := v.GetString(KeyFormat); f != "" {
		w, h, err := FormatSize(f)
		if err != nil {
			return nil, err
		}
		cfg.Width, cfg.Height = w, h
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// FormatSize maps an aspect preset to a frame size.
func FormatSize(format string) (int, int, error) {
	switch strings.TrimSpace(format) {
	case "16:9":
		return 1280, 720, nil
	case "9:16":
		return 720, 1280, nil
	case "4:5":
		return 1080, 1350, nil
	default:
		return 0, 0, fmt.Errorf("unknown format %q (want 16:9, 9:16 or 4:5)", format)
	}
}

// Validate checks the video settings. yuv420p needs even dimensions.
func (c *Config) Validate() error {
	if c.Width <= 0 || c.Height <= 0 {
		return fmt.Errorf("invalid size %dx%d", c.Width, c.Height)
	}
	if c.Width%2 != 0 || c.Height%2 != 0 {
		return fmt.Errorf("size %dx%d must be even", c.Width, c.Height)
	}
	if c.FPS <= 0 {
		return fmt.Errorf("invalid fps %d", c.FPS)
	}
	if c.Workers <= 0 {
		c.Workers = 1
	}
	if c.GridZoom < 1 {
		c.GridZoom = 1
	}
	if c.GridZoom > 5 {
		c.GridZoom = 5
	}
	return nil
}
