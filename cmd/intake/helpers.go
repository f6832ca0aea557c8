package main

import (
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/counciltech/intake/internal/config"
	"github.com/counciltech/intake/internal/logging"
)

// loadConfig resolves configuration for a command: defaults, then config
// file, then environment, then flags.
func loadConfig(cmd *cobra.Command) (config.Config, *slog.Logger, error) {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(path)
	if err != nil {
		return cfg, nil, err
	}

	if v, _ := cmd.Flags().GetString("catalog"); v != "" {
		cfg.CatalogPath = v
	}
	if v, _ := cmd.Flags().GetString("mode"); v != "" {
		cfg.Mode = v
	}
	if v, _ := cmd.Flags().GetString("log-level"); v != "" {
		cfg.LogLevel = v
	}

	logger := logging.New(logging.ParseLevel(cfg.LogLevel))
	return cfg, logger, nil
}
