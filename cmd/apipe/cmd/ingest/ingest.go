package ingest

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"audio-pipeline/cmd/apipe/cmd/common"
	"audio-pipeline/internal/app"
	"audio-pipeline/internal/app/logetl"
	"audio-pipeline/internal/app/repository"
)

var backendLog string
var frontendLog string

func init() {
	Cmd.Flags().StringVarP(&backendLog, "backend-log", "b", "", "application log file (default LOG_FILE)")
	Cmd.Flags().StringVarP(&frontendLog, "frontend-log", "f", "", "frontend log file (default FRONTEND_LOG_FILE)")
}

// Cmd represents the ingest-logs command
var Cmd = &cobra.Command{
	Use:   "ingest-logs",
	Short: "Load the application and frontend log files into the database",
	Long: `Load the application and frontend log files into the database

- Lines look like "2024-01-02 10:11:12,345 - INFO - message"
- Frontend lines carry "message | Metadata: {json}"
- Lines already loaded are skipped, so the command can run repeatedly`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logger, closeLogger, err := common.Setup(cmd, common.Options{})
		if err != nil {
			return err
		}
		defer closeLogger()

		if backendLog == "" {
			backendLog = cfg.LogFile
		}
		if frontendLog == "" {
			frontendLog = cfg.FrontendLogFile
		}

		store, cleanup, err := app.InitializeStore(cfg)
		if err != nil {
			return err
		}
		defer cleanup()

		stats, err := logetl.NewIngester(store, logger).Run(cmd.Context(), backendLog, frontendLog)
		if err != nil {
			logger.Error("log ingestion failed", zap.Error(err))
			return err
		}

		for _, table := range []repository.LogTable{repository.BackendLogs, repository.FrontendLogs} {
			s := stats[table]
			fmt.Fprintf(cmd.OutOrStdout(), "%s: %d lines, %d inserted, %d duplicates, %d skipped, %d failed\n",
				table, s.Lines, s.Inserted, s.Duplicates, s.Skipped, s.Failed)
		}
		return nil
	},
}
