// Package common holds the setup shared by every subcommand.
package common

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"audio-pipeline/internal/app/logging"
	"audio-pipeline/internal/config"
)

// Options tweak Setup for one command.
type Options struct {
	// LogToFile tees the logger into LOG_FILE.
	LogToFile bool
	// Quiet keeps stderr for progress output; only the file receives entries.
	Quiet bool
}

// Setup loads the configuration and builds the logger. The returned function flushes the logger.
func Setup(cmd *cobra.Command, opts Options) (*config.Config, *zap.Logger, func(), error) {
	cfg, err := config.InitializeConfig()
	if err != nil {
		return nil, nil, nil, fmt.Errorf("configuration: %w", err)
	}

	verbose, _ := cmd.Flags().GetBool("verbose")
	logOpts := logging.Options{
		Development: verbose || cfg.IsDevelopment(),
		Quiet:       opts.Quiet && opts.LogToFile,
	}
	if opts.LogToFile {
		logOpts.File = cfg.LogFile
	}

	logger, closeLogger, err := logging.New(logOpts)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("logger: %w", err)
	}
	return cfg, logger, closeLogger, nil
}
