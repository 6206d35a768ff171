// Package config handles viewer configuration loading and management.
package config

import (
	"errors"
	"fmt"

	"github.com/Faultbox/flyview/pkg/math"
)

// ErrInvalid is wrapped by every Validate failure.
var ErrInvalid = errors.New("invalid config")

// Config holds all viewer settings.
type Config struct {
	Window   WindowConfig   `yaml:"window"`
	Camera   CameraConfig   `yaml:"camera"`
	Controls ControlsConfig `yaml:"controls"`
	Scene    SceneConfig    `yaml:"scene"`
	Render   RenderConfig   `yaml:"render"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// WindowConfig holds display settings.
type WindowConfig struct {
	Title      string `yaml:"title"`
	Width      int    `yaml:"width"`
	Height     int    `yaml:"height"`
	Fullscreen bool   `yaml:"fullscreen"`
	VSync      bool   `yaml:"vsync"`
}

// CameraConfig holds the initial pose and lens.
type CameraConfig struct {
	FOV      float32   `yaml:"fov"`
	Near     float32   `yaml:"near"`
	Far      float32   `yaml:"far"`
	Position math.Vec3 `yaml:"position"`
	Target   math.Vec3 `yaml:"target"`
}

// ControlsConfig holds per-second speeds; the viewer scales them by frame time.
type ControlsConfig struct {
	MoveSpeed float32 `yaml:"move_speed"`
	ZoomSpeed float32 `yaml:"zoom_speed"`
}

// SceneConfig selects the scene and its tessellation.
type SceneConfig struct {
	File          string `yaml:"file"` // empty means the built-in demo scene
	SphereStacks  int    `yaml:"sphere_stacks"`
	SphereSectors int    `yaml:"sphere_sectors"`
}

// RenderConfig holds lighting and clear color.
type RenderConfig struct {
	Background    math.Vec3 `yaml:"background"`
	LightPosition math.Vec3 `yaml:"light_position"`
	LightColor    math.Vec3 `yaml:"light_color"`
	Ambient       float32   `yaml:"ambient"`
	ScreenshotDir string    `yaml:"screenshot_dir"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Window: WindowConfig{
			Title:      "flyview",
			Width:      1280,
			Height:     1024,
			Fullscreen: false,
			VSync:      true,
		},
		Camera: CameraConfig{
			FOV:      60,
			Near:     0.1,
			Far:      1000,
			Position: math.Vec3{X: 12, Y: 18, Z: 12},
			Target:   math.Vec3{},
		},
		Controls: ControlsConfig{
			MoveSpeed: 10,
			ZoomSpeed: 100,
		},
		Scene: SceneConfig{
			SphereStacks:  250,
			SphereSectors: 250,
		},
		Render: RenderConfig{
			Background:    math.Vec3{X: 0.5, Y: 0.5, Z: 0.5},
			LightPosition: math.Vec3{X: 1.2, Y: 1.0, Z: 2.0},
			LightColor:    math.Vec3{X: 1, Y: 1, Z: 1},
			Ambient:       0.1,
			ScreenshotDir: "screenshots",
		},
		Logging: LoggingConfig{
			Level:   "info",
			LogFile: "",
		},
	}
}

// Validate reports the first setting the viewer cannot run with.
func (c *Config) Validate() error {
	switch {
	case c.Window.Width <= 0 || c.Window.Height <= 0:
		return fmt.Errorf("%w: window size %dx%d", ErrInvalid, c.Window.Width, c.Window.Height)
	case c.Camera.Near <= 0 || c.Camera.Far <= c.Camera.Near:
		return fmt.Errorf("%w: clip planes near=%g far=%g", ErrInvalid, c.Camera.Near, c.Camera.Far)
	case c.Controls.MoveSpeed < 0 || c.Controls.ZoomSpeed < 0:
		return fmt.Errorf("%w: negative control speed", ErrInvalid)
	case c.Scene.SphereStacks < 2 || c.Scene.SphereSectors < 3:
		return fmt.Errorf("%w: sphere resolution %dx%d", ErrInvalid, c.Scene.SphereStacks, c.Scene.SphereSectors)
	}
	return nil
}
