// Package main is the entry point for the partscope viewer.
package main

import (
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/Faultbox/partscope/internal/config"
	"github.com/Faultbox/partscope/internal/logger"
	"github.com/Faultbox/partscope/internal/viewer"
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

	if err := logger.Init(cfg.Logging.Level, cfg.Logging.LogFile); err != nil {
		fmt.Fprintf(os.Stderr, "Logger error: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("=== partscope ===")
	logger.Sugar.Debugf("Config: %+v", cfg.Viewer)

	v, err := viewer.New(cfg)
	if err != nil {
		logger.Error("failed to create viewer", zap.Error(err))
		logger.Sync()
		os.Exit(1)
	}

	if err := v.Run(); err != nil {
		logger.Error("viewer stopped", zap.Error(err))
		v.Close()
		logger.Sync()
		os.Exit(1)
	}
	v.Close()

	logger.Info("viewer closed normally")
}
