// Package viewer runs the interactive SDL/OpenGL inspector.
package viewer

import (
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/Faultbox/partscope/internal/assets"
	"github.com/Faultbox/partscope/internal/config"
	"github.com/Faultbox/partscope/internal/engine/camera"
	"github.com/Faultbox/partscope/internal/engine/debug"
	"github.com/Faultbox/partscope/internal/engine/input"
	"github.com/Faultbox/partscope/internal/engine/picking"
	"github.com/Faultbox/partscope/internal/engine/renderer"
	"github.com/Faultbox/partscope/internal/engine/window"
	"github.com/Faultbox/partscope/internal/inspector"
	"github.com/Faultbox/partscope/internal/logger"
	"github.com/Faultbox/partscope/internal/watch"
)

// Viewer is the main viewer instance.
type Viewer struct {
	log       *zap.Logger
	running   bool
	window    *window.Window
	renderer  *renderer.Renderer
	input     *input.Input
	bindings  input.Bindings
	camera    *camera.OrbitCamera
	store     *assets.Store
	watcher   *watch.Watcher
	inspector *inspector.Inspector
	hud       *HUD
	pointer   input.Pointer

	posed string // asset whose camera pose was applied last
}

// New creates the window, renderer and inspector for cfg.
func New(cfg *config.Config) (*Viewer, error) {
	catalog, start, err := cfg.BuildCatalog()
	if err != nil {
		return nil, fmt.Errorf("invalid catalog: %w", err)
	}

	v := &Viewer{
		log:      logger.Named("viewer"),
		input:    input.New(),
		bindings: input.DefaultBindings(),
		camera:   camera.NewOrbitCamera(),
		hud:      NewHUD(cfg.Viewer.Title),
	}
	v.log.Info("initializing viewer",
		zap.Int("assets", catalog.Len()),
		zap.String("root", cfg.Assets.Root),
	)

	v.window, err = window.New(window.Config{
		Title:      cfg.Viewer.Title,
		Width:      cfg.Viewer.Width,
		Height:     cfg.Viewer.Height,
		Fullscreen: cfg.Viewer.Fullscreen,
		VSync:      cfg.Viewer.VSync,
	}, logger.Named("window"))
	if err != nil {
		return nil, fmt.Errorf("failed to create window: %w", err)
	}

	// The renderer needs the GL context created by the window.
	w, h := v.window.Size()
	v.renderer, err = renderer.New(renderer.Config{Width: w, Height: h}, logger.Named("renderer"))
	if err != nil {
		v.window.Close()
		return nil, fmt.Errorf("failed to create renderer: %w", err)
	}

	v.store = assets.NewStore(cfg.Assets.Root, logger.Named("assets"))
	v.store.SetBufferChecks(cfg.Assets.BufferChecks)

	v.inspector = inspector.New(catalog, v.store,
		inspector.WithLogger(logger.Named("inspector")),
		inspector.WithDisplay(v.hud),
		inspector.WithExplosionStep(cfg.Explosion.Step),
		inspector.WithInitialAsset(start),
	)

	if cfg.Assets.Watch {
		v.watcher = watchCatalog(catalog, v.store, v.log)
	}

	v.log.Info("viewer initialized")
	return v, nil
}

// watchCatalog starts a watcher over every catalog file. Failure only
// disables reloading.
func watchCatalog(catalog *inspector.Catalog, store *assets.Store, log *zap.Logger) *watch.Watcher {
	w := watch.New(watch.WithLogger(logger.Named("watch")))
	for i := 0; i < catalog.Len(); i++ {
		path := catalog.At(i).Path
		if err := w.Add(path, store.Resolve(path)); err != nil {
			log.Warn("cannot watch asset", zap.String("path", path), zap.Error(err))
		}
	}
	if err := w.Start(); err != nil {
		log.Warn("asset reloading disabled", zap.Error(err))
		return nil
	}
	return w
}

// Run runs the frame loop until the window closes or a content error stops
// the inspector.
func (v *Viewer) Run() error {
	v.running = true

	frameCount := 0
	fpsTimer := time.Now()
	v.log.Info("starting frame loop")

	for v.running {
		if v.input.Update() {
			v.running = false
			break
		}

		events := v.bindings.Translate(v.input.Events())
		events = append(events, v.handlePointer()...)
		events = append(events, v.reloads()...)

		if err := v.inspector.Tick(events); err != nil {
			return fmt.Errorf("inspector: %w", err)
		}
		v.logSelection(events)
		v.applyPose()
		v.window.SetTitle(v.hud.Title())

		v.render()
		v.window.SwapBuffers()

		frameCount++
		if time.Since(fpsTimer) >= time.Second {
			v.log.Debug("fps",
				zap.Int("count", frameCount),
				zap.Stringer("status", v.inspector.Status()),
			)
			frameCount = 0
			fpsTimer = time.Now()
		}
	}
	return nil
}

// handlePointer drives the camera and turns left clicks into picks.
// Clicking empty space clears the selection.
func (v *Viewer) handlePointer() []inspector.Event {
	var out []inspector.Event
	for _, g := range v.pointer.Gestures(v.input.Events()) {
		switch g.Type {
		case input.GestureResize:
			v.renderer.Resize(v.window.Size())
		case input.GestureOrbit:
			v.camera.HandleDrag(g.DX, g.DY)
		case input.GestureZoom:
			v.camera.HandleZoom(g.Zoom)
		case input.GestureClick:
			if leaf, ok := v.pick(g.X, g.Y); ok {
				out = append(out, inspector.Pick(leaf))
			} else {
				out = append(out, inspector.Event{Kind: inspector.EventCancel})
			}
		}
	}
	return out
}

func (v *Viewer) pick(x, y int) (inspector.LeafRef, bool) {
	gen := v.inspector.Generation()
	if gen == nil {
		return inspector.LeafRef{}, false
	}
	w, h := v.window.PointSize()
	inv := v.camera.ViewProjection(v.renderer.Aspect()).Inv()
	ray := picking.ScreenToRay(float32(x), float32(y), float32(w), float32(h), inv)
	return picking.Leaf(gen, v.store, ray)
}

// reloads drains pending file changes without blocking.
func (v *Viewer) reloads() []inspector.Event {
	if v.watcher == nil {
		return nil
	}
	var out []inspector.Event
	for {
		select {
		case path := <-v.watcher.Changes():
			v.store.Invalidate(path)
			v.log.Info("asset changed on disk", zap.String("path", path))
			out = append(out, inspector.Event{Kind: inspector.EventReload, Path: path})
		default:
			return out
		}
	}
}

func (v *Viewer) logSelection(events []inspector.Event) {
	picked := false
	for _, ev := range events {
		if ev.Kind == inspector.EventPick {
			picked = true
		}
	}
	sel := v.inspector.Selection()
	if !picked || !sel.Valid {
		return
	}
	gen := v.inspector.Generation()
	var labels []string
	for _, i := range gen.Highlighted() {
		labels = append(labels, gen.Rows[i].Label)
	}
	v.log.Info("part selected",
		zap.Stringer("primitive", sel.Primitive),
		zap.Int("node", int(sel.Owner)),
		zap.Strings("rows", labels),
	)
}

// applyPose moves the camera to the selected asset's pose once per
// selection change.
func (v *Viewer) applyPose() {
	asset, ok := v.inspector.View().Selected()
	if !ok || asset.Path == v.posed {
		return
	}
	v.posed = asset.Path
	v.camera.SetPose(asset.Camera)
}

func (v *Viewer) render() {
	v.renderer.Begin()
	boxes := debug.LeafBoxes(v.inspector.Generation(), v.store, v.inspector.Selection())
	v.renderer.DrawBoxes(v.camera.ViewProjection(v.renderer.Aspect()), boxes)
	v.renderer.End()
}

// Close releases the viewer's resources.
func (v *Viewer) Close() {
	v.log.Info("closing viewer")

	if v.watcher != nil {
		v.watcher.Stop()
	}
	if v.store != nil {
		v.store.Close()
	}
	if v.renderer != nil {
		v.renderer.Close()
	}
	if v.window != nil {
		v.window.Close()
	}
}
