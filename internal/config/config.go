// Package config handles viewer configuration loading and management.
package config

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/partscope/internal/inspector"
)

// Config holds all viewer settings.
type Config struct {
	Viewer    ViewerConfig    `yaml:"viewer"`
	Assets    AssetsConfig    `yaml:"assets"`
	Explosion ExplosionConfig `yaml:"explosion"`
	Catalog   []AssetEntry    `yaml:"catalog"`
	Logging   LoggingConfig   `yaml:"logging"`
}

// ViewerConfig holds window settings.
type ViewerConfig struct {
	Title      string `yaml:"title"`
	Width      int    `yaml:"width"`
	Height     int    `yaml:"height"`
	Fullscreen bool   `yaml:"fullscreen"`
	VSync      bool   `yaml:"vsync"`
}

// AssetsConfig holds where assets are read from.
type AssetsConfig struct {
	Root         string `yaml:"root"`          // catalog paths are relative to this
	Watch        bool   `yaml:"watch"`         // reload assets changed on disk
	BufferChecks int    `yaml:"buffer_checks"` // concurrent buffer file checks
	Start        string `yaml:"start"`         // catalog entry shown first, by name or path
}

// ExplosionConfig holds the explosion controls.
type ExplosionConfig struct {
	Step float32 `yaml:"step"`
}

// CameraConfig is the initial camera pose for an asset.
type CameraConfig struct {
	Position [3]float32 `yaml:"position"`
	Target   [3]float32 `yaml:"target"`
}

// AssetEntry is one selectable asset.
type AssetEntry struct {
	Path           string       `yaml:"path"`
	Name           string       `yaml:"name"`
	Scene          int          `yaml:"scene"`
	Camera         CameraConfig `yaml:"camera"`
	ExplosionScale [3]float32   `yaml:"explosion_scale"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Viewer: ViewerConfig{
			Title:      "partscope",
			Width:      1280,
			Height:     720,
			Fullscreen: false,
			VSync:      true,
		},
		Assets: AssetsConfig{
			Root:         "assets",
			Watch:        true,
			BufferChecks: 4,
		},
		Explosion: ExplosionConfig{
			Step: inspector.DefaultExplosionStep,
		},
		Catalog: DefaultCatalog(),
		Logging: LoggingConfig{
			Level:   "info",
			LogFile: "",
		},
	}
}

// DefaultCatalog returns the reference assets.
func DefaultCatalog() []AssetEntry {
	return []AssetEntry{
		{
			Path:           "models/FlightHelmet/FlightHelmet.gltf",
			Name:           "Flight Helmet",
			Camera:         CameraConfig{Position: [3]float32{-0.07, 1.02, 2.40}},
			ExplosionScale: [3]float32{1, 1, 1},
		},
		{
			Path:           "models/ammo_collection/scene.gltf",
			Name:           "Ammo",
			Camera:         CameraConfig{Position: [3]float32{1.04, 0.59, 0.12}},
			ExplosionScale: [3]float32{-10, 10, -10},
		},
		{
			Path:           "models/steampunk_underwater_explorer/scene.gltf",
			Name:           "Steampunk Underwater Explorer",
			Camera:         CameraConfig{Position: [3]float32{-12.91, 6.06, -9.04}},
			ExplosionScale: [3]float32{-10, -10, 10},
		},
		{
			Path: "models/Wraith/wraith.gltf",
			Name: "Wraith",
			Camera: CameraConfig{
				Position: [3]float32{-1.84, 70.99, 86.87},
				Target:   [3]float32{0, 40, 0},
			},
			ExplosionScale: [3]float32{2, 2, 2},
		},
		{
			Path: "models/StarWars/scene.gltf",
			Name: "ATM6 Walker",
			Camera: CameraConfig{
				Position: [3]float32{33.58, 39.04, 63.81},
				Target:   [3]float32{0, 20, 0},
			},
			ExplosionScale: [3]float32{20, 20, 20},
		},
		{
			Path:           "models/ToyCar/glTF/ToyCar.gltf",
			Name:           "Toy Car",
			Camera:         CameraConfig{Position: [3]float32{0.09, 0.07, 0.12}},
			ExplosionScale: [3]float32{0.2, 0.2, -0.2},
		},
	}
}

// Ref converts the entry to an inspector asset reference.
func (e AssetEntry) Ref() inspector.AssetRef {
	return inspector.AssetRef{
		Path:  e.Path,
		Name:  e.Name,
		Scene: e.Scene,
		Camera: inspector.CameraPose{
			Position: mgl32.Vec3(e.Camera.Position),
			Target:   mgl32.Vec3(e.Camera.Target),
		},
		ExplosionScale: mgl32.Vec3(e.ExplosionScale),
	}
}

// BuildCatalog validates the configured entries and returns the catalog
// together with the entry to show first.
func (c *Config) BuildCatalog() (*inspector.Catalog, inspector.AssetRef, error) {
	refs := make([]inspector.AssetRef, len(c.Catalog))
	for i, e := range c.Catalog {
		refs[i] = e.Ref()
	}
	catalog, err := inspector.NewCatalog(refs)
	if err != nil {
		return nil, inspector.AssetRef{}, err
	}
	start := catalog.First()
	if c.Assets.Start != "" {
		ref, ok := catalog.Lookup(c.Assets.Start)
		if !ok {
			return nil, inspector.AssetRef{}, fmt.Errorf("start asset %q is not in the catalog", c.Assets.Start)
		}
		start = ref
	}
	return catalog, start, nil
}
