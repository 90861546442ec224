// Package main is a terminal front end for browsing an asset's hierarchy.
package main

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/Faultbox/partscope/internal/assets"
	"github.com/Faultbox/partscope/internal/config"
	"github.com/Faultbox/partscope/internal/inspector"
	"github.com/Faultbox/partscope/internal/logger"
	"github.com/Faultbox/partscope/internal/treeview"
	"github.com/Faultbox/partscope/internal/watch"
)

func main() {
	config.ParseFlags()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
		os.Exit(1)
	}
	if done, path, err := cfg.WriteRequested(); done {
		if err != nil {
			fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Wrote %s\n", path)
		return
	}

	// The terminal belongs to the UI, so logs only go to a file.
	logFile := cfg.Logging.LogFile
	if logFile == "" {
		logFile = "partstree.log"
	}
	if err := logger.InitWithFileConfig(cfg.Logging.Level, logger.DefaultFileConfig(logFile), false); err != nil {
		fmt.Fprintf(os.Stderr, "Logger error: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	if err := run(cfg); err != nil {
		logger.Error("partstree stopped", zap.Error(err))
		logger.Sync()
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config) error {
	catalog, start, err := cfg.BuildCatalog()
	if err != nil {
		return fmt.Errorf("invalid catalog: %w", err)
	}

	store := assets.NewStore(cfg.Assets.Root, logger.Named("assets"))
	store.SetBufferChecks(cfg.Assets.BufferChecks)
	defer store.Close()

	slots := &inspector.Slots{}
	in := inspector.New(catalog, store,
		inspector.WithLogger(logger.Named("inspector")),
		inspector.WithDisplay(slots),
		inspector.WithExplosionStep(cfg.Explosion.Step),
		inspector.WithInitialAsset(start),
	)

	var changes <-chan string
	if cfg.Assets.Watch {
		w := watch.New(watch.WithLogger(logger.Named("watch")))
		for i := 0; i < catalog.Len(); i++ {
			path := catalog.At(i).Path
			if err := w.Add(path, store.Resolve(path)); err != nil {
				logger.Warn("cannot watch asset", zap.String("path", path), zap.Error(err))
			}
		}
		if err := w.Start(); err != nil {
			logger.Warn("asset reloading disabled", zap.Error(err))
		} else {
			defer w.Stop()
			changes = w.Changes()
		}
	}

	m := treeview.New(in, slots, store, changes)
	if _, err := tea.NewProgram(m, tea.WithAltScreen()).Run(); err != nil {
		return err
	}
	return m.Err()
}
