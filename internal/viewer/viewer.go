// Package viewer runs the fly-through loop: input, camera, scene and renderer.
package viewer

import (
	"context"
	"fmt"
	"time"

	"github.com/veandco/go-sdl2/sdl"
	"go.uber.org/zap"

	"github.com/Faultbox/flyview/internal/config"
	"github.com/Faultbox/flyview/internal/engine/camera"
	"github.com/Faultbox/flyview/internal/engine/controls"
	"github.com/Faultbox/flyview/internal/engine/geometry"
	"github.com/Faultbox/flyview/internal/engine/input"
	"github.com/Faultbox/flyview/internal/engine/renderer"
	"github.com/Faultbox/flyview/internal/engine/screenshot"
	"github.com/Faultbox/flyview/internal/engine/window"
	"github.com/Faultbox/flyview/internal/logger"
	"github.com/Faultbox/flyview/internal/scene"
)

const screenshotKey = sdl.SCANCODE_F12

// Viewer is the running application.
type Viewer struct {
	config   *config.Config
	log      *zap.Logger
	window   *window.Window
	renderer *renderer.Renderer
	input    *input.Input
	camera   *camera.Camera
	controls controls.Controls
	scene    *scene.Scene
	shots    *screenshot.Capture

	drawableW, drawableH int
}

// New opens the window, builds and uploads the scene and places the camera.
func New(ctx context.Context, cfg *config.Config) (*Viewer, error) {
	v := &Viewer{
		config: cfg,
		log:    logger.Named("viewer"),
		shots:  screenshot.New(cfg.Render.ScreenshotDir, "flyview"),
		controls: controls.Controls{
			MoveSpeed: cfg.Controls.MoveSpeed,
			ZoomSpeed: cfg.Controls.ZoomSpeed,
		},
	}

	var err error
	v.window, err = window.New(window.Config{
		Title:        cfg.Window.Title,
		Width:        cfg.Window.Width,
		Height:       cfg.Window.Height,
		Fullscreen:   cfg.Window.Fullscreen,
		VSync:        cfg.Window.VSync,
		CaptureMouse: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create window: %w", err)
	}

	// Renderer needs the GL context the window just created.
	v.renderer, err = renderer.New(renderer.Config{
		Background:    cfg.Render.Background,
		LightPosition: cfg.Render.LightPosition,
		LightColor:    cfg.Render.LightColor,
		Ambient:       cfg.Render.Ambient,
	})
	if err != nil {
		v.window.Close()
		return nil, fmt.Errorf("failed to create renderer: %w", err)
	}

	if err := v.loadScene(ctx); err != nil {
		v.Close()
		return nil, err
	}

	v.input = input.New()
	if err := v.placeCamera(); err != nil {
		v.Close()
		return nil, err
	}

	v.log.Info("viewer initialized")
	return v, nil
}

func (v *Viewer) loadScene(ctx context.Context) error {
	prims := scene.Default()
	if path := v.config.Scene.File; path != "" {
		var err error
		if prims, err = scene.Load(path); err != nil {
			return err
		}
		v.log.Info("scene loaded", zap.String("file", path), zap.Int("primitives", len(prims)))
	}

	batch, err := geometry.NewBatch(geometry.Config{
		SphereStacks:  v.config.Scene.SphereStacks,
		SphereSectors: v.config.Scene.SphereSectors,
	})
	if err != nil {
		return fmt.Errorf("geometry batch: %w", err)
	}

	start := time.Now()
	v.scene, err = scene.Build(ctx, batch, prims)
	if err != nil {
		return fmt.Errorf("build scene: %w", err)
	}
	v.log.Debug("scene tessellated", zap.Duration("took", time.Since(start)))

	return v.renderer.Upload(batch)
}

func (v *Viewer) placeCamera() error {
	c := v.config.Camera
	v.camera = camera.New(v.input.Cursor())
	v.camera.SetFOV(c.FOV)
	if err := v.resize(); err != nil {
		return err
	}
	if err := v.camera.MoveAndLookAt(c.Position, c.Target); err != nil {
		return fmt.Errorf("initial camera pose: %w", err)
	}
	return nil
}

// resize follows the drawable size. A minimized window reports zero and is
// skipped until it has an area again.
func (v *Viewer) resize() error {
	w, h := v.window.DrawableSize()
	if w == v.drawableW && h == v.drawableH {
		return nil
	}
	if w <= 0 || h <= 0 {
		return nil
	}
	if err := v.camera.SetPerspective(uint32(w), uint32(h), v.config.Camera.Near, v.config.Camera.Far); err != nil {
		return fmt.Errorf("camera perspective: %w", err)
	}
	v.renderer.Resize(w, h)
	v.drawableW, v.drawableH = w, h
	return nil
}

// Run drives frames until the window closes, Quit is pressed or ctx ends.
func (v *Viewer) Run(ctx context.Context) error {
	lastTime := time.Now()
	frameCount := 0
	fpsTimer := time.Now()

	v.log.Info("starting viewer loop")

	for ctx.Err() == nil {
		now := time.Now()
		dt := float32(now.Sub(lastTime).Seconds())
		lastTime = now

		if v.input.Update() {
			break
		}
		if v.controls.Apply(v.camera, v.input.Held, dt) {
			break
		}
		v.camera.UpdateCursor(v.input.Cursor())

		if err := v.resize(); err != nil {
			return err
		}

		v.renderer.Begin()
		if err := v.renderer.Draw(v.camera, v.scene); err != nil {
			return fmt.Errorf("render error: %w", err)
		}
		if v.input.IsKeyPressed(screenshotKey) {
			v.saveScreenshot()
		}
		v.window.SwapBuffers()

		frameCount++
		if time.Since(fpsTimer) >= time.Second {
			v.log.Debug("fps",
				zap.Int("count", frameCount),
				zap.Float32("fov", v.camera.FOV()),
				zap.Any("position", v.camera.Position()))
			frameCount = 0
			fpsTimer = time.Now()
		}
	}

	v.log.Info("viewer loop stopped")
	return nil
}

func (v *Viewer) saveScreenshot() {
	pixels := v.renderer.ReadPixels(v.drawableW, v.drawableH)
	path, err := v.shots.Save(pixels, v.drawableW, v.drawableH)
	if err != nil {
		v.log.Warn("screenshot failed", zap.Error(err))
		return
	}
	v.log.Info("screenshot saved", zap.String("path", path))
}

// Close releases GL and window resources.
func (v *Viewer) Close() {
	v.log.Info("closing viewer")
	if v.renderer != nil {
		v.renderer.Close()
		v.renderer = nil
	}
	if v.window != nil {
		v.window.Close()
		v.window = nil
	}
}
