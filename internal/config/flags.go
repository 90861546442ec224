package config

import "flag"

var (
	flagConfig     = flag.String("config", "", "Path to config file")
	flagDebug      = flag.Bool("debug", false, "Enable debug logging")
	flagWindowed   = flag.Bool("windowed", false, "Run in windowed mode")
	flagFullscreen = flag.Bool("fullscreen", false, "Run in fullscreen mode")
	flagWidth      = flag.Int("width", 0, "Window width")
	flagHeight     = flag.Int("height", 0, "Window height")
	flagAssets     = flag.String("assets", "", "Directory catalog paths are relative to")
	flagAsset      = flag.String("asset", "", "Catalog entry to show first (name or path)")
	flagNoWatch    = flag.Bool("no-watch", false, "Do not reload assets changed on disk")

	flagWriteConfig = flag.String("write-config", "", "Write the effective config to this path and exit (\"-\" for the user config dir)")
)

// ParseFlags parses command-line flags. Call this early in main().
func ParseFlags() {
	flag.Parse()
}

// ConfigPath returns the explicit config path if provided via --config flag.
func ConfigPath() string {
	return *flagConfig
}

// applyFlags applies CLI flag overrides to the config.
func applyFlags(cfg *Config) {
	if *flagDebug {
		cfg.Logging.Level = "debug"
	}
	if *flagWindowed {
		cfg.Viewer.Fullscreen = false
	}
	if *flagFullscreen {
		cfg.Viewer.Fullscreen = true
	}
	if *flagWidth > 0 {
		cfg.Viewer.Width = *flagWidth
	}
	if *flagHeight > 0 {
		cfg.Viewer.Height = *flagHeight
	}
	if *flagAssets != "" {
		cfg.Assets.Root = *flagAssets
	}
	if *flagAsset != "" {
		cfg.Assets.Start = *flagAsset
	}
	if *flagNoWatch {
		cfg.Assets.Watch = false
	}
}
